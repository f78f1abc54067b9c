package stockserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	stockhttpmapper "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/http/mapper"
	stockmemory "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/memory"
	stockworkflows "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/workflows"
	inventoryapp "github.com/Apurer/stock-tracker/internal/domains/inventory/application"
)

type stockFeatureContext struct {
	router *gin.Engine
	outbox *stockmemory.Outbox
	last   *httptest.ResponseRecorder
}

func (f *stockFeatureContext) reset() {
	gin.SetMode(gin.TestMode)
	f.outbox = stockmemory.NewOutbox(nil)
	notifier := inventoryapp.NewNotifier(stockworkflows.NewInlineAlertDispatcher(f.outbox, 0))
	svc := inventoryapp.NewService(stockmemory.NewRepository(), inventoryapp.WithNotifier(notifier))
	f.router = NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{StockAPI: NewStockAPI(svc)})
	f.last = nil
}

func (f *stockFeatureContext) send(method, path string, body any) error {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	f.last = httptest.NewRecorder()
	f.router.ServeHTTP(f.last, req)
	return nil
}

func (f *stockFeatureContext) anEmptyInventory() error {
	f.reset()
	return nil
}

func (f *stockFeatureContext) iAddItem(name, category string, quantity, minimum int) error {
	return f.send(http.MethodPost, "/add_stock", map[string]any{
		"name": name, "category": category, "quantity": quantity, "min_threshold": minimum,
	})
}

func (f *stockFeatureContext) iUseUnits(quantity, id int) error {
	return f.send(http.MethodPut, fmt.Sprintf("/use_stock/%d", id), map[string]any{"quantity": quantity})
}

func (f *stockFeatureContext) iSetQuantity(id, quantity int) error {
	return f.send(http.MethodPut, fmt.Sprintf("/update_stock/%d", id), map[string]any{"quantity": quantity})
}

func (f *stockFeatureContext) iRemoveItem(id int) error {
	return f.send(http.MethodDelete, fmt.Sprintf("/remove_stock/%d", id), nil)
}

func (f *stockFeatureContext) theResponseStatusIs(status int) error {
	if f.last == nil {
		return fmt.Errorf("no request was sent")
	}
	if f.last.Code != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, f.last.Code, f.last.Body.String())
	}
	return nil
}

func (f *stockFeatureContext) theResponseMessageIs(message string) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(f.last.Body.Bytes(), &body); err != nil {
		return err
	}
	if body.Message != message {
		return fmt.Errorf("expected message %q, got %q", message, body.Message)
	}
	return nil
}

func (f *stockFeatureContext) listStock() ([]stockhttpmapper.StockItem, error) {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_stock", nil))
	var items []stockhttpmapper.StockItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f *stockFeatureContext) theStockListContainsItem(id, quantity int) error {
	items, err := f.listStock()
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == int64(id) {
			if item.Quantity != int64(quantity) {
				return fmt.Errorf("item %d has quantity %d, want %d", id, item.Quantity, quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("item %d not listed", id)
}

func (f *stockFeatureContext) theStockListIsEmpty() error {
	items, err := f.listStock()
	if err != nil {
		return err
	}
	if len(items) != 0 {
		return fmt.Errorf("expected no items, got %d", len(items))
	}
	return nil
}

func (f *stockFeatureContext) theLowStockCheckIncludes(id int) error {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/check_low_stock", nil))
	var items []stockhttpmapper.LowStockItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == int64(id) {
			return nil
		}
	}
	return fmt.Errorf("item %d missing from low stock report", id)
}

func (f *stockFeatureContext) aLowStockAlertWasSentFor(name string) error {
	for _, alert := range f.outbox.Sent() {
		if strings.Contains(alert.Body, "- "+name+":") {
			return nil
		}
	}
	return fmt.Errorf("no alert mentions %q", name)
}

func initializeStockScenario(ctx *godog.ScenarioContext) {
	f := &stockFeatureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty inventory$`, f.anEmptyInventory)
	ctx.Step(`^I add "([^"]*)" in category "([^"]*)" with quantity (\d+) and minimum (\d+)$`, f.iAddItem)
	ctx.Step(`^I use (\d+) units of item (\d+)$`, f.iUseUnits)
	ctx.Step(`^I set the quantity of item (\d+) to (\d+)$`, f.iSetQuantity)
	ctx.Step(`^I remove item (\d+)$`, f.iRemoveItem)
	ctx.Step(`^the response status is (\d+)$`, f.theResponseStatusIs)
	ctx.Step(`^the response message is "([^"]*)"$`, f.theResponseMessageIs)
	ctx.Step(`^the stock list contains item (\d+) with quantity (\d+)$`, f.theStockListContainsItem)
	ctx.Step(`^the stock list is empty$`, f.theStockListIsEmpty)
	ctx.Step(`^the low stock check includes item (\d+)$`, f.theLowStockCheckIncludes)
	ctx.Step(`^a low stock alert was sent for "([^"]*)"$`, f.aLowStockAlertWasSentFor)
}

func TestStockFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "stock",
		ScenarioInitializer: initializeStockScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/stock.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
