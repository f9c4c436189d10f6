package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sweetshop/internal/errors"
	"sweetshop/internal/service"
)

// TransactionHandler handles the admin ledger endpoint.
type TransactionHandler struct {
	inventoryService service.InventoryService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(inventoryService service.InventoryService) *TransactionHandler {
	return &TransactionHandler{inventoryService: inventoryService}
}

// List godoc
// @Summary List all transactions (admin only)
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Transaction
// @Failure 403 {object} errors.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	transactions, err := h.inventoryService.Transactions(c.Request().Context())
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, transactions)
}
