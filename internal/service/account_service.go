package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AccountService struct {
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{accountRepo: accountRepo, logger: logger}
}

func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateAccountRequest) (*models.Account, error) {
	currency := models.Currency(req.Currency)
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrValidation, req.Currency)
	}
	if req.IBAN == "" {
		return nil, fmt.Errorf("%w: iban is required", ErrValidation)
	}

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}

	now := time.Now()
	account := &models.Account{
		ID:        uuid.New(),
		UserID:    userID,
		IBAN:      req.IBAN,
		Currency:  currency,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
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
	return account, nil
}

func (s *AccountService) List(ctx context.Context, userID uuid.UUID) ([]*models.Account, error) {
	return s.accountRepo.ListByUser(ctx, userID)
}

func (s *AccountService) Update(ctx context.Context, userID, accountID uuid.UUID, req *dto.UpdateAccountRequest) (*models.Account, error) {
	account, err := s.Get(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if req.IBAN != nil {
		if *req.IBAN == "" {
			return nil, fmt.Errorf("%w: iban cannot be empty", ErrValidation)
		}
		account.IBAN = *req.IBAN
	}
	if req.Currency != nil {
		currency := models.Currency(*req.Currency)
		if !currency.Valid() {
			return nil, fmt.Errorf("%w: unsupported currency %q", ErrValidation, *req.Currency)
		}
		account.Currency = currency
	}
	if req.Balance != nil {
		account.Balance = *req.Balance
	}
	account.UpdatedAt = time.Now()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return account, nil
}

// Delete removes the account and cascades to its statements and
// transactions.
func (s *AccountService) Delete(ctx context.Context, userID, accountID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, accountID); err != nil {
		return err
	}
	s.logger.Info("Deleting account with dependents", zap.String("account_id", accountID.String()))
	return s.accountRepo.DeleteCascade(ctx, accountID)
}
