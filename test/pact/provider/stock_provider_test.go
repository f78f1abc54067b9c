//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/stock-tracker/test/pact"

	stockserver "github.com/Apurer/stock-tracker/go"
	stockmemory "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/memory"
	stockobs "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/observability"
	stockworkflows "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/workflows"
	inventoryapp "github.com/Apurer/stock-tracker/internal/domains/inventory/application"
	inventorydomain "github.com/Apurer/stock-tracker/internal/domains/inventory/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestStockTrackerProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateInventoryEmpty: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
		pacttest.StateItemExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seed(t, pacttest.ExampleQuantity)
			}
			return nil, nil
		},
		pacttest.StateItemMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			return nil, nil
		},
		pacttest.StateItemLow: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset()
			if setup {
				app.seed(t, pacttest.LowQuantity)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the in-memory stack per state so seeded ids start at 1.
type contractProviderApp struct {
	mu     sync.RWMutex
	repo   *stockmemory.Repository
	router *gin.Engine
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	app := &contractProviderApp{}
	app.reset()
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset() {
	repo := stockmemory.NewRepository()
	outbox := stockmemory.NewOutbox(nil)
	notifier := inventoryapp.NewNotifier(stockworkflows.NewInlineAlertDispatcher(outbox, 0))
	service := stockobs.New(inventoryapp.NewService(repo, inventoryapp.WithNotifier(notifier)))

	router := gin.New()
	router.Use(gin.Recovery())
	router = stockserver.NewRouterWithGinEngine(router, stockserver.ApiHandleFunctions{
		StockAPI: stockserver.NewStockAPI(service),
	})

	a.mu.Lock()
	a.repo = repo
	a.router = router
	a.mu.Unlock()
}

func (a *contractProviderApp) seed(t testing.TB, quantity int64) {
	t.Helper()
	item, err := inventorydomain.NewStockItem(pacttest.ExampleItemName(), pacttest.ExampleItemCategory(), quantity, pacttest.ExampleMinThreshold)
	require.NoError(t, err)
	a.mu.RLock()
	repo := a.repo
	a.mu.RUnlock()
	_, err = repo.Create(context.Background(), item)
	require.NoError(t, err)
}
