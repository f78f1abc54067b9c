package stockserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers served by the router.
type ApiHandleFunctions struct {
	StockAPI StockAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler bound.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Index", http.MethodGet, "/", handleFunctions.StockAPI.Index},
		{"AddStock", http.MethodPost, "/add_stock", handleFunctions.StockAPI.AddStock},
		{"GetStock", http.MethodGet, "/get_stock", handleFunctions.StockAPI.GetStock},
		{"GetStockById", http.MethodGet, "/get_stock/:id", handleFunctions.StockAPI.GetStockById},
		{"UpdateStock", http.MethodPut, "/update_stock/:id", handleFunctions.StockAPI.UpdateStock},
		{"UseStock", http.MethodPut, "/use_stock/:id", handleFunctions.StockAPI.UseStock},
		{"RemoveStock", http.MethodDelete, "/remove_stock/:id", handleFunctions.StockAPI.RemoveStock},
		{"CheckLowStock", http.MethodGet, "/check_low_stock", handleFunctions.StockAPI.CheckLowStock},
		{"FilterStock", http.MethodGet, "/filter_stock/:category", handleFunctions.StockAPI.FilterStock},
		{"GetCategories", http.MethodGet, "/get_categories", handleFunctions.StockAPI.GetCategories},
	}
}
