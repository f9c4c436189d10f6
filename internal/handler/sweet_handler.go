package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"sweetshop/internal/errors"
	"sweetshop/internal/middleware"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
	"sweetshop/internal/service"
)

// SweetHandler handles catalog and inventory endpoints.
type SweetHandler struct {
	catalogService   service.CatalogService
	inventoryService service.InventoryService
}

// NewSweetHandler creates a new sweet handler.
func NewSweetHandler(catalogService service.CatalogService, inventoryService service.InventoryService) *SweetHandler {
	return &SweetHandler{
		catalogService:   catalogService,
		inventoryService: inventoryService,
	}
}

// CreateSweetRequest represents a sweet creation request.
type CreateSweetRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
}

// UpdateSweetRequest represents a partial sweet update; only supplied fields
// are merged.
type UpdateSweetRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
}

// PurchaseRequest represents a purchase request. Quantity defaults to 1 when
// omitted; an explicit non-positive value is rejected rather than defaulted.
type PurchaseRequest struct {
	Quantity *int `json:"quantity"`
}

// RestockRequest represents a restock request.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

func sweetIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid sweet id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// List godoc
// @Summary List all sweets
// @Tags sweets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Sweet
// @Failure 401 {object} errors.ErrorResponse
// @Router /sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	sweets, err := h.catalogService.List(c.Request().Context())
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sweets)
}

// Search godoc
// @Summary Search sweets by name, category and price bounds
// @Tags sweets
// @Produce json
// @Security BearerAuth
// @Param name query string false "case-insensitive substring"
// @Param category query string false "exact category"
// @Param minPrice query string false "inclusive lower price bound"
// @Param maxPrice query string false "inclusive upper price bound"
// @Success 200 {array} model.Sweet
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /sweets/search [get]
func (h *SweetHandler) Search(c echo.Context) error {
	filter := repository.SweetFilter{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}

	if raw := c.QueryParam("minPrice"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid minPrice",
				Code:  "INVALID_PRICE",
			})
		}
		filter.MinPrice = &min
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid maxPrice",
				Code:  "INVALID_PRICE",
			})
		}
		filter.MaxPrice = &max
	}

	sweets, err := h.catalogService.Search(c.Request().Context(), filter)
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sweets)
}

// Categories godoc
// @Summary List distinct sweet categories
// @Tags sweets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 401 {object} errors.ErrorResponse
// @Router /sweets/categories [get]
func (h *SweetHandler) Categories(c echo.Context) error {
	categories, err := h.catalogService.Categories(c.Request().Context())
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, categories)
}

// Get godoc
// @Summary Get a single sweet
// @Tags sweets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sweet ID"
// @Success 200 {object} model.Sweet
// @Failure 404 {object} errors.ErrorResponse
// @Router /sweets/{id} [get]
func (h *SweetHandler) Get(c echo.Context) error {
	id, err := sweetIDParam(c)
	if err != nil {
		return err
	}

	sweet, err := h.catalogService.Get(c.Request().Context(), id)
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sweet)
}

// Create godoc
// @Summary Create a sweet
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSweetRequest true "Sweet fields"
// @Success 201 {object} model.Sweet
// @Failure 400 {object} errors.ErrorResponse
// @Router /sweets [post]
func (h *SweetHandler) Create(c echo.Context) error {
	var req CreateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil || req.Price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid sweet data",
			Code:  "VALIDATION_ERROR",
		})
	}

	sweet := &model.Sweet{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price.Round(2),
		Quantity:    req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalogService.Create(c.Request().Context(), sweet); err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, sweet)
}

// Update godoc
// @Summary Update a sweet (partial merge)
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sweet ID"
// @Param request body UpdateSweetRequest true "Fields to merge"
// @Success 200 {object} model.Sweet
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	id, err := sweetIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	fields, ok := req.fields()
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid sweet data",
			Code:  "VALIDATION_ERROR",
		})
	}

	sweet, err := h.catalogService.Update(c.Request().Context(), id, fields)
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sweet)
}

// fields converts the request into a column map, rejecting values that would
// break model invariants.
func (r *UpdateSweetRequest) fields() (map[string]interface{}, bool) {
	fields := map[string]interface{}{}
	if r.Name != nil {
		if *r.Name == "" {
			return nil, false
		}
		fields["name"] = *r.Name
	}
	if r.Category != nil {
		if *r.Category == "" {
			return nil, false
		}
		fields["category"] = *r.Category
	}
	if r.Price != nil {
		if r.Price.IsNegative() {
			return nil, false
		}
		fields["price"] = r.Price.Round(2)
	}
	if r.Quantity != nil {
		if *r.Quantity < 0 {
			return nil, false
		}
		fields["quantity"] = *r.Quantity
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.ImageURL != nil {
		fields["image_url"] = *r.ImageURL
	}
	return fields, true
}

// Delete godoc
// @Summary Delete a sweet
// @Tags sweets
// @Security BearerAuth
// @Param id path int true "Sweet ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	id, err := sweetIDParam(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.Delete(c.Request().Context(), id); err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Purchase godoc
// @Summary Purchase a sweet
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sweet ID"
// @Param request body PurchaseRequest false "Quantity (defaults to 1)"
// @Success 201 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	id, err := sweetIDParam(c)
	if err != nil {
		return err
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHENTICATED",
		})
	}

	var req PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	transaction, err := h.inventoryService.Purchase(c.Request().Context(), user.ID, id, quantity)
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, transaction)
}

// Restock godoc
// @Summary Restock a sweet (admin only)
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sweet ID"
// @Param request body RestockRequest true "Quantity to add"
// @Success 200 {object} model.Sweet
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c echo.Context) error {
	id, err := sweetIDParam(c)
	if err != nil {
		return err
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHENTICATED",
		})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	sweet, err := h.inventoryService.Restock(c.Request().Context(), user.ID, id, req.Quantity)
	if err != nil {
		he := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sweet)
}
