package service

import (
	"context"
	"fmt"
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TransactionService struct {
	txRepo       repository.TransactionRepository
	accountRepo  repository.AccountRepository
	locationRepo repository.LocationRepository
	logger       *zap.Logger
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	accountRepo repository.AccountRepository,
	locationRepo repository.LocationRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo:       txRepo,
		accountRepo:  accountRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid account id", ErrValidation)
	}

	// The transaction's account must belong to the same user.
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	if err := guardOwner(account.UserID, userID); err != nil {
		return nil, err
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date, want RFC 3339", ErrValidation)
	}
	if req.Change.IsNegative() {
		return nil, fmt.Errorf("%w: change must not be negative, use the outgoing flag", ErrValidation)
	}

	var locationID *uuid.UUID
	if req.LocationID != nil {
		id, err := s.resolveLocation(ctx, userID, *req.LocationID)
		if err != nil {
			return nil, err
		}
		locationID = id
	}

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}

	now := time.Now()
	tx := &models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		AccountID:   accountID,
		Date:        date,
		Change:      req.Change,
		Outgoing:    req.Outgoing,
		Balance:     balance,
		Description: req.Description,
		Reference:   req.Reference,
		LocationID:  locationID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	if tx.LocationID != nil && tx.Outgoing {
		if err := s.locationRepo.AddTotalSpent(ctx, *tx.LocationID, tx.Change); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, txID uuid.UUID) (*models.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrNotFound
	}
	if err := guardOwner(tx.UserID, userID); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, filters repository.TransactionFilters) ([]*models.Transaction, error) {
	return s.txRepo.ListByUser(ctx, userID, filters)
}

func (s *TransactionService) Update(ctx context.Context, userID, txID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error) {
	tx, err := s.Get(ctx, userID, txID)
	if err != nil {
		return nil, err
	}

	prevSpend := s.spendContribution(tx)

	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date, want RFC 3339", ErrValidation)
		}
		tx.Date = date
	}
	if req.Change != nil {
		if req.Change.IsNegative() {
			return nil, fmt.Errorf("%w: change must not be negative, use the outgoing flag", ErrValidation)
		}
		tx.Change = *req.Change
	}
	if req.Outgoing != nil {
		tx.Outgoing = *req.Outgoing
	}
	if req.Balance != nil {
		tx.Balance = *req.Balance
	}
	if req.Description != nil {
		tx.Description = *req.Description
	}
	if req.Reference != nil {
		tx.Reference = *req.Reference
	}
	if req.LocationID != nil {
		if *req.LocationID == "" {
			tx.LocationID = nil
		} else {
			id, err := s.resolveLocation(ctx, userID, *req.LocationID)
			if err != nil {
				return nil, err
			}
			tx.LocationID = id
		}
	}
	tx.UpdatedAt = time.Now()

	if err := s.txRepo.Update(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.adjustSpend(ctx, prevSpend, s.spendContribution(tx)); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, txID uuid.UUID) error {
	tx, err := s.Get(ctx, userID, txID)
	if err != nil {
		return err
	}

	if err := s.txRepo.Delete(ctx, txID); err != nil {
		return err
	}
	return s.adjustSpend(ctx, s.spendContribution(tx), spend{})
}

// resolveLocation parses and ownership-checks a location reference.
func (s *TransactionService) resolveLocation(ctx context.Context, userID uuid.UUID, raw string) (*uuid.UUID, error) {
	locationID, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid location id", ErrValidation)
	}
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, fmt.Errorf("%w: location %s not found", ErrValidation, locationID)
	}
	if err := guardOwner(location.UserID, userID); err != nil {
		return nil, err
	}
	return &locationID, nil
}

// spend captures a transaction's contribution to a location's total_spent.
type spend struct {
	locationID *uuid.UUID
	amount     decimal.Decimal
}

func (s *TransactionService) spendContribution(tx *models.Transaction) spend {
	if tx.LocationID == nil || !tx.Outgoing {
		return spend{}
	}
	return spend{locationID: tx.LocationID, amount: tx.Change}
}

// adjustSpend moves total_spent from the previous contribution to the new
// one, touching each affected location once.
func (s *TransactionService) adjustSpend(ctx context.Context, prev, next spend) error {
	if prev.locationID != nil && next.locationID != nil && *prev.locationID == *next.locationID {
		delta := next.amount.Sub(prev.amount)
		if delta.IsZero() {
			return nil
		}
		return s.locationRepo.AddTotalSpent(ctx, *prev.locationID, delta)
	}
	if prev.locationID != nil {
		if err := s.locationRepo.AddTotalSpent(ctx, *prev.locationID, prev.amount.Neg()); err != nil {
			return err
		}
	}
	if next.locationID != nil {
		return s.locationRepo.AddTotalSpent(ctx, *next.locationID, next.amount)
	}
	return nil
}
