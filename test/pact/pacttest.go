//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "stock-tracker-api"
	ConsumerName = "warehouse-dashboard"

	StateInventoryEmpty = "inventory is empty"
	StateItemExists     = "stock item 1 exists with 10 units"
	StateItemMissing    = "no stock item with id 404"
	StateItemLow        = "stock item 1 is below its minimum threshold"
)

const (
	ExistingItemID int64 = 1
	MissingItemID  int64 = 404

	ExampleQuantity     int64 = 10
	ExampleMinThreshold int64 = 5
	LowQuantity         int64 = 2
)

const (
	exampleName     = "Bolts"
	exampleCategory = "Hardware"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the dashboard consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleItemName is the name used by every seeded item.
func ExampleItemName() string { return exampleName }

// ExampleItemCategory is the category used by every seeded item.
func ExampleItemCategory() string { return exampleCategory }

// ExampleAddStockPayload provides stable test data for add_stock interactions.
func ExampleAddStockPayload() map[string]any {
	return map[string]any{
		"name":          exampleName,
		"category":      exampleCategory,
		"quantity":      ExampleQuantity,
		"min_threshold": ExampleMinThreshold,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
