package main

import (
	"context"
	stderrors "errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sweetshop/internal/auth"
	"sweetshop/internal/config"
	"sweetshop/internal/db"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
)

// Seed users created when absent. Change the admin password after first login.
var seedUsers = []struct {
	username string
	password string
	role     string
}{
	{"admin", "admin123", model.RoleAdmin},
	{"testuser", "password123", model.RoleUser},
}

var seedSweets = []model.Sweet{
	{Name: "Chocolate Fudge", Category: "Chocolate", Price: decimal.RequireFromString("4.50"), Quantity: 24, Description: "Rich dark chocolate fudge squares"},
	{Name: "Strawberry Bonbon", Category: "Hard Candy", Price: decimal.RequireFromString("1.20"), Quantity: 100},
	{Name: "Salted Caramel Cup", Category: "Caramel", Price: decimal.RequireFromString("3.75"), Quantity: 40, Description: "Soft caramel with sea salt"},
	{Name: "Lemon Sherbet", Category: "Hard Candy", Price: decimal.RequireFromString("0.90"), Quantity: 150},
	{Name: "Raspberry Jelly", Category: "Gummies", Price: decimal.RequireFromString("2.10"), Quantity: 60},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.WithError(err).Fatal("database init")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Sweet{}, &model.Transaction{}); err != nil {
		logrus.WithError(err).Fatal("auto-migrate")
	}

	store := repository.NewStore(gormDB)

	for _, u := range seedUsers {
		if _, err := store.Users.FindByUsername(ctx, u.username); err == nil {
			logrus.WithField("username", u.username).Info("user already exists, skipping")
			continue
		} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Fatal("lookup user")
		}

		hash, err := auth.HashPassword(u.password)
		if err != nil {
			logrus.WithError(err).Fatal("hash password")
		}
		user := &model.User{Username: u.username, PasswordHash: hash, Role: u.role}
		if err := store.Users.Create(ctx, user); err != nil {
			logrus.WithError(err).Fatal("create user")
		}
		logrus.WithFields(logrus.Fields{"username": u.username, "role": u.role}).Info("user created")
	}

	sweets, err := store.Sweets.List(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("list sweets")
	}
	if len(sweets) > 0 {
		logrus.WithField("count", len(sweets)).Info("catalog already seeded, skipping")
		return
	}

	for i := range seedSweets {
		if err := store.Sweets.Create(ctx, &seedSweets[i]); err != nil {
			logrus.WithError(err).Fatal("create sweet")
		}
	}
	logrus.WithField("count", len(seedSweets)).Info("catalog seeded")
}
