package repository

import (
	"context"
	"errors"
	"fmt"

	"finatlas/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var accountColumns = []string{"id", "user_id", "iban", "currency", "balance", "created_at", "updated_at"}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	// DeleteCascade removes the account and its statements and
	// transactions in a single transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type accountRepository struct {
	db     DB
	logger *zap.Logger
}

func NewAccountRepository(db DB, logger *zap.Logger) AccountRepository {
	return &accountRepository{db: db, logger: logger}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := squirrel.Insert("accounts").
		Columns(accountColumns...).
		Values(account.ID, account.UserID, account.IBAN, account.Currency, account.Balance, account.CreatedAt, account.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create account: %w", ErrDuplicate)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := squirrel.Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var account models.Account
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&account.ID, &account.UserID, &account.IBAN, &account.Currency, &account.Balance, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Account, error) {
	query := squirrel.Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.UserID, &account.IBAN, &account.Currency, &account.Balance, &account.CreatedAt, &account.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, &account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	query := squirrel.Update("accounts").
		Set("iban", account.IBAN).
		Set("currency", account.Currency).
		Set("balance", account.Balance).
		Set("updated_at", account.UpdatedAt).
		Where(squirrel.Eq{"id": account.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update account: %w", ErrDuplicate)
		}
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (r *accountRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete account: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"transactions", "statements"} {
		sql, args, err := squirrel.Delete(table).
			Where(squirrel.Eq{"account_id": id}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	sql, args, err := squirrel.Delete("accounts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete account: %w", err)
	}
	r.logger.Info("Account deleted with dependents", zap.String("account_id", id.String()))
	return nil
}
