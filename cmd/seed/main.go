package main

import (
	"context"
	"log"
	"time"

	"finatlas/internal/geo"
	"finatlas/internal/models"
	"finatlas/internal/repository"
	"finatlas/pkg/auth"
	"finatlas/pkg/config"
	"finatlas/pkg/logger"
	"finatlas/pkg/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeds a demo user with one account, two locations and a statement with a
// handful of transactions, so the dashboard has something to show.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	accountRepo := repository.NewAccountRepository(db, appLogger)
	locationRepo := repository.NewLocationRepository(db, appLogger)
	statementRepo := repository.NewStatementRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)

	now := time.Now()
	hashed, err := auth.HashPassword("demo-password")
	if err != nil {
		appLogger.Fatal("Failed to hash password", zap.Error(err))
	}

	user := &models.User{
		ID:          uuid.New(),
		Username:    "demo",
		Email:       "demo@finatlas.local",
		Password:    hashed,
		Name:        "Demo",
		Surname:     "User",
		DateOfBirth: time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		appLogger.Fatal("Failed to seed user", zap.Error(err))
	}

	account := &models.Account{
		ID:        uuid.New(),
		UserID:    user.ID,
		IBAN:      "SI56192001234567892",
		Currency:  models.CurrencyEUR,
		Balance:   decimal.NewFromInt(60),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := accountRepo.Create(ctx, account); err != nil {
		appLogger.Fatal("Failed to seed account", zap.Error(err))
	}

	grocery := &models.Location{
		ID:         uuid.New(),
		UserID:     user.ID,
		Name:       "Mercator Center",
		Identifier: "mercator-center",
		Address:    "Slovenceva ulica 25, Ljubljana",
		Point:      geo.Point{Longitude: 14.51, Latitude: 46.07},
		TotalSpent: decimal.Zero,
		Categories: []string{"grocery"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	employer := &models.Location{
		ID:         uuid.New(),
		UserID:     user.ID,
		Name:       "Acme d.o.o.",
		Identifier: "acme-doo",
		Address:    "Dunajska cesta 5, Ljubljana",
		Point:      geo.Point{Longitude: 14.50, Latitude: 46.06},
		TotalSpent: decimal.Zero,
		Categories: []string{"salary"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, loc := range []*models.Location{grocery, employer} {
		if err := locationRepo.Create(ctx, loc); err != nil {
			appLogger.Fatal("Failed to seed location", zap.Error(err))
		}
	}

	statement := &models.Statement{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccountID:    account.ID,
		StartDate:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(now.Year(), now.Month(), 28, 0, 0, 0, 0, time.UTC),
		Month:        int(now.Month()),
		Year:         now.Year(),
		Inflow:       decimal.NewFromInt(100),
		Outflow:      decimal.NewFromInt(40),
		StartBalance: decimal.Zero,
		EndBalance:   decimal.NewFromInt(60),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := statementRepo.Create(ctx, statement); err != nil {
		appLogger.Fatal("Failed to seed statement", zap.Error(err))
	}

	transactions := []*models.Transaction{
		{
			ID:          uuid.New(),
			UserID:      user.ID,
			AccountID:   account.ID,
			StatementID: &statement.ID,
			Date:        statement.StartDate.Add(24 * time.Hour),
			Change:      decimal.NewFromInt(100),
			Outgoing:    false,
			Balance:     decimal.NewFromInt(100),
			Description: "Salary",
			LocationID:  &employer.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New(),
			UserID:      user.ID,
			AccountID:   account.ID,
			StatementID: &statement.ID,
			Date:        statement.StartDate.Add(72 * time.Hour),
			Change:      decimal.NewFromInt(40),
			Outgoing:    true,
			Balance:     decimal.NewFromInt(60),
			Description: "Groceries",
			LocationID:  &grocery.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	if err := txRepo.CreateBatch(ctx, transactions); err != nil {
		appLogger.Fatal("Failed to seed transactions", zap.Error(err))
	}
	if err := locationRepo.AddTotalSpent(ctx, grocery.ID, decimal.NewFromInt(40)); err != nil {
		appLogger.Fatal("Failed to update location spend", zap.Error(err))
	}

	appLogger.Info("Seed complete",
		zap.String("user", user.Email),
		zap.String("account", account.IBAN),
	)
}
