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

var transactionColumns = []string{"id", "user_id", "account_id", "statement_id", "date", "change", "outgoing", "balance", "description", "reference", "location_id", "created_at", "updated_at"}

// TransactionFilters narrows transaction listings; nil fields are ignored.
type TransactionFilters struct {
	AccountID   *uuid.UUID
	StatementID *uuid.UUID
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	CreateBatch(ctx context.Context, transactions []*models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters TransactionFilters) ([]*models.Transaction, error)
	ListByStatement(ctx context.Context, statementID uuid.UUID) ([]*models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AssignStatement sets or clears (nil) the statement grouping.
	AssignStatement(ctx context.Context, id uuid.UUID, statementID *uuid.UUID) error
}

type transactionRepository struct {
	db     DB
	logger *zap.Logger
}

func NewTransactionRepository(db DB, logger *zap.Logger) TransactionRepository {
	return &transactionRepository{db: db, logger: logger}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(tx.ID, tx.UserID, tx.AccountID, tx.StatementID, tx.Date, tx.Change, tx.Outgoing,
			tx.Balance, tx.Description, tx.Reference, tx.LocationID, tx.CreatedAt, tx.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.UserID, tx.AccountID, tx.StatementID, tx.Date, tx.Change, tx.Outgoing,
			tx.Balance, tx.Description, tx.Reference, tx.LocationID, tx.CreatedAt, tx.UpdatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("create transactions batch: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&tx.ID, &tx.UserID, &tx.AccountID, &tx.StatementID, &tx.Date, &tx.Change, &tx.Outgoing,
		&tx.Balance, &tx.Description, &tx.Reference, &tx.LocationID, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters TransactionFilters) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.AccountID != nil {
		query = query.Where(squirrel.Eq{"account_id": *filters.AccountID})
	}
	if filters.StatementID != nil {
		query = query.Where(squirrel.Eq{"statement_id": *filters.StatementID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryMany(ctx, sql, args)
}

func (r *transactionRepository) ListByStatement(ctx context.Context, statementID uuid.UUID) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"statement_id": statementID}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryMany(ctx, sql, args)
}

func (r *transactionRepository) queryMany(ctx context.Context, sql string, args []any) ([]*models.Transaction, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.AccountID, &tx.StatementID, &tx.Date, &tx.Change, &tx.Outgoing,
			&tx.Balance, &tx.Description, &tx.Reference, &tx.LocationID, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}
	return transactions, rows.Err()
}

func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		Set("statement_id", tx.StatementID).
		Set("date", tx.Date).
		Set("change", tx.Change).
		Set("outgoing", tx.Outgoing).
		Set("balance", tx.Balance).
		Set("description", tx.Description).
		Set("reference", tx.Reference).
		Set("location_id", tx.LocationID).
		Set("updated_at", tx.UpdatedAt).
		Where(squirrel.Eq{"id": tx.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) AssignStatement(ctx context.Context, id uuid.UUID, statementID *uuid.UUID) error {
	sql, args, err := squirrel.Update("transactions").
		Set("statement_id", statementID).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("assign statement: %w", err)
	}
	return nil
}
