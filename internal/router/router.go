package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"sweetshop/internal/handler"
	"sweetshop/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	guard *middleware.Guard,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	sweetHandler *handler.SweetHandler,
	transactionHandler *handler.TransactionHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Authenticated routes
	api.GET("/user", userHandler.Me, guard.RequireAuth)
	api.GET("/sweets", sweetHandler.List, guard.RequireAuth)
	api.GET("/sweets/search", sweetHandler.Search, guard.RequireAuth)
	api.GET("/sweets/categories", sweetHandler.Categories, guard.RequireAuth)
	api.GET("/sweets/:id", sweetHandler.Get, guard.RequireAuth)
	api.POST("/sweets", sweetHandler.Create, guard.RequireAuth)
	api.PUT("/sweets/:id", sweetHandler.Update, guard.RequireAuth)
	api.PATCH("/sweets/:id", sweetHandler.Update, guard.RequireAuth)
	api.POST("/sweets/:id/purchase", sweetHandler.Purchase, guard.RequireAuth)

	// Admin routes
	api.DELETE("/sweets/:id", sweetHandler.Delete, guard.RequireAdmin)
	api.POST("/sweets/:id/restock", sweetHandler.Restock, guard.RequireAdmin)
	api.GET("/transactions", transactionHandler.List, guard.RequireAdmin)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
