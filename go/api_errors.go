package stockserver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	inventoryapp "github.com/Apurer/stock-tracker/internal/domains/inventory/application"
	inventorydomain "github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
	apierrors "github.com/Apurer/stock-tracker/internal/shared/errors"
)

const (
	msgNotFound          = "Stock item not found"
	msgInsufficientStock = "Not enough stock available"
	msgInvalidUse        = "Invalid quantity to use. Must be greater than 0."
	msgInvalidQuantity   = "Invalid quantity format. Must be a number."
)

var stockResponder = apierrors.NewResponder(nil, mapStockError)

// mapStockError translates inventory errors into problem details.
func mapStockError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, inventoryports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(msgNotFound).WithExtension("resourceType", "stock item"), true
	case errors.Is(err, inventoryapp.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(msgInsufficientStock), true
	case errors.Is(err, inventorydomain.ErrInvalidUseQuantity):
		return apierrors.ErrValidation.WithDetail(msgInvalidUse), true
	case errors.Is(err, inventoryapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(cause(err)), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondStockServiceError answers with the problem matching a service error.
func respondStockServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	stockResponder.RespondError(c, err)
}

// respondBindingError reports a body that could not be decoded or failed tag validation.
func respondBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		names := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			name := jsonFieldName(fieldErr.Field())
			fields[name] = fieldErr.Tag()
			names = append(names, name)
		}
		problem := apierrors.NewValidationProblem(fields).
			WithDetail(fmt.Sprintf("missing or invalid fields: %s", strings.Join(names, ", ")))
		stockResponder.Respond(c, problem)
		return
	}
	stockResponder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// cause strips the application sentinel so the domain message remains.
func cause(err error) string {
	msg := err.Error()
	prefix := inventoryapp.ErrInvalidInput.Error() + ": "
	return strings.TrimPrefix(msg, prefix)
}

func jsonFieldName(field string) string {
	switch field {
	case "MinThreshold":
		return "min_threshold"
	default:
		return strings.ToLower(field)
	}
}
