package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"sweetshop/internal/auth"
	"sweetshop/internal/cache"
	"sweetshop/internal/config"
	"sweetshop/internal/db"
	"sweetshop/internal/handler"
	"sweetshop/internal/middleware"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
	"sweetshop/internal/router"
	"sweetshop/internal/service"
)

// @title Sweet Shop API
// @version 1.0
// @description Inventory and purchasing API for a sweet catalog with JWT authentication.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.WithError(err).Fatal("database init")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Sweet{},
		&model.Transaction{},
	); err != nil {
		logrus.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	store := repository.NewStore(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	authService := service.NewAuthService(store.Users, jwtService)
	catalogService := service.NewCatalogService(store.Sweets, cacheClient)
	inventoryService := service.NewInventoryService(store, cacheClient)

	guard := middleware.NewGuard(jwtService, store.Users)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler()
	sweetHandler := handler.NewSweetHandler(catalogService, inventoryService)
	transactionHandler := handler.NewTransactionHandler(inventoryService)

	e := echo.New()
	router.Register(e, guard, authHandler, userHandler, sweetHandler, transactionHandler)

	addr := ":" + cfg.ServerPort
	logrus.WithField("addr", addr).Info("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server start")
	}
}
