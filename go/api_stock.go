package stockserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	stockhttpmapper "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/http/mapper"
	inventorytypes "github.com/Apurer/stock-tracker/internal/domains/inventory/application/types"
	inventoryports "github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
	apierrors "github.com/Apurer/stock-tracker/internal/shared/errors"
)

// NotificationHeader reports what the low-stock check did with its alert.
const NotificationHeader = "X-Low-Stock-Notification"

// StockAPI wires HTTP transport with the inventory service.
type StockAPI struct {
	service inventoryports.Service
}

// NewStockAPI creates a StockAPI backed by the provided service.
func NewStockAPI(service inventoryports.Service) StockAPI {
	return StockAPI{service: service}
}

// Get /
// Liveness message
func (api *StockAPI) Index(c *gin.Context) {
	c.JSON(http.StatusOK, stockhttpmapper.MessageResponse{Message: "Inventory Management System is running!"})
}

// Post /add_stock
// Add a new stock item
func (api *StockAPI) AddStock(c *gin.Context) {
	var payload stockhttpmapper.AddStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	item, err := api.service.AddStock(c.Request.Context(), stockhttpmapper.ToAddStockInput(payload))
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stockhttpmapper.MessageResponse{Message: "Stock item added successfully!", ID: item.ID})
}

// Get /get_stock
// List every stock item
func (api *StockAPI) GetStock(c *gin.Context) {
	items, err := api.service.ListStock(c.Request.Context())
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockhttpmapper.FromDomainList(items))
}

// Get /get_stock/:id
// Find stock item by ID
func (api *StockAPI) GetStockById(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := api.service.GetStock(c.Request.Context(), inventorytypes.StockIdentifier{ID: id})
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockhttpmapper.FromDomain(item))
}

// Put /update_stock/:id
// Overwrite the quantity of a stock item
func (api *StockAPI) UpdateStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload stockhttpmapper.QuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respondInvalidQuantity(c, id, apierrors.ErrValidation.WithDetail(msgInvalidQuantity))
		return
	}
	if payload.Quantity == nil {
		api.respondInvalidQuantity(c, id, apierrors.NewValidationProblem(map[string]string{"quantity": "required"}).
			WithDetail("missing or invalid fields: quantity"))
		return
	}
	input := inventorytypes.UpdateQuantityInput{ID: id, Quantity: *payload.Quantity}
	if _, err := api.service.UpdateQuantity(c.Request.Context(), input); err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockhttpmapper.MessageResponse{Message: "Stock quantity updated successfully!"})
}

// Put /use_stock/:id
// Consume units of a stock item
func (api *StockAPI) UseStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload stockhttpmapper.QuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respondInvalidQuantity(c, id, apierrors.ErrValidation.WithDetail(msgInvalidQuantity))
		return
	}
	input := inventorytypes.UseStockInput{ID: id, Quantity: payload.QuantityOrZero()}
	item, err := api.service.UseStock(c.Request.Context(), input)
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	message := fmt.Sprintf("Used %d units of %s successfully!", input.Quantity, item.Name)
	c.JSON(http.StatusOK, stockhttpmapper.MessageResponse{Message: message})
}

// Delete /remove_stock/:id
// Remove a stock item
func (api *StockAPI) RemoveStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	removed, err := api.service.RemoveStock(c.Request.Context(), inventorytypes.StockIdentifier{ID: id})
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	message := fmt.Sprintf("Stock item %s removed successfully!", removed.Name)
	c.JSON(http.StatusOK, stockhttpmapper.MessageResponse{Message: message})
}

// Get /check_low_stock
// List items below their minimum threshold and send an alert
func (api *StockAPI) CheckLowStock(c *gin.Context) {
	report, err := api.service.CheckLowStock(c.Request.Context())
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.Header(NotificationHeader, string(report.Notification.Status))
	c.JSON(http.StatusOK, stockhttpmapper.FromLowStockList(report.Items))
}

// Get /filter_stock/:category
// Find stock items whose category contains the given text
func (api *StockAPI) FilterStock(c *gin.Context) {
	input := inventorytypes.FilterByCategoryInput{Category: c.Param("category")}
	items, err := api.service.FilterByCategory(c.Request.Context(), input)
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockhttpmapper.FromDomainList(items))
}

// Get /get_categories
// List the distinct non-empty categories
func (api *StockAPI) GetCategories(c *gin.Context) {
	categories, err := api.service.Categories(c.Request.Context())
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		stockResponder.Respond(c, apierrors.ErrBadRequest.WithDetail(fmt.Sprintf("invalid %s: %s", name, err.Error())))
		return 0, false
	}
	return id, true
}

// respondInvalidQuantity answers a malformed quantity body. An unknown id is
// reported first so both quantity endpoints check existence before the body.
func (api *StockAPI) respondInvalidQuantity(c *gin.Context, id int64, problem apierrors.ProblemDetail) {
	if _, err := api.service.GetStock(c.Request.Context(), inventorytypes.StockIdentifier{ID: id}); err != nil {
		respondStockServiceError(c, err)
		return
	}
	stockResponder.Respond(c, problem)
}
