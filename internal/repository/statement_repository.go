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

var statementColumns = []string{"id", "user_id", "account_id", "start_date", "end_date", "month", "year", "inflow", "outflow", "start_balance", "end_balance", "version", "created_at", "updated_at"}

// StatementRepository defines persistence operations for statements.
type StatementRepository interface {
	Create(ctx context.Context, statement *models.Statement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Statement, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Statement, error)
	// Update writes the statement guarded by its version: the row is only
	// updated when the stored version equals statement.Version, and the
	// version is bumped. ErrStaleVersion is returned on a lost race.
	Update(ctx context.Context, statement *models.Statement) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CreateWithTransactions inserts the statement and its transactions
	// and refreshes the cached account balance in a single transaction,
	// so a failed import leaves nothing behind.
	CreateWithTransactions(ctx context.Context, statement *models.Statement, transactions []*models.Transaction, account *models.Account) error
}

type statementRepository struct {
	db     DB
	logger *zap.Logger
}

func NewStatementRepository(db DB, logger *zap.Logger) StatementRepository {
	return &statementRepository{db: db, logger: logger}
}

func (r *statementRepository) Create(ctx context.Context, statement *models.Statement) error {
	query := squirrel.Insert("statements").
		Columns(statementColumns...).
		Values(statement.ID, statement.UserID, statement.AccountID, statement.StartDate, statement.EndDate,
			statement.Month, statement.Year, statement.Inflow, statement.Outflow,
			statement.StartBalance, statement.EndBalance, statement.Version,
			statement.CreatedAt, statement.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("create statement: %w", err)
	}
	return nil
}

func (r *statementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Statement, error) {
	query := squirrel.Select(statementColumns...).
		From("statements").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var st models.Statement
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&st.ID, &st.UserID, &st.AccountID, &st.StartDate, &st.EndDate,
		&st.Month, &st.Year, &st.Inflow, &st.Outflow,
		&st.StartBalance, &st.EndBalance, &st.Version,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get statement: %w", err)
	}
	return &st, nil
}

func (r *statementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Statement, error) {
	query := squirrel.Select(statementColumns...).
		From("statements").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("year ASC", "month ASC", "start_date ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	defer rows.Close()

	var statements []*models.Statement
	for rows.Next() {
		var st models.Statement
		if err := rows.Scan(
			&st.ID, &st.UserID, &st.AccountID, &st.StartDate, &st.EndDate,
			&st.Month, &st.Year, &st.Inflow, &st.Outflow,
			&st.StartBalance, &st.EndBalance, &st.Version,
			&st.CreatedAt, &st.UpdatedAt,
		); err != nil {
			return nil, err
		}
		statements = append(statements, &st)
	}
	return statements, rows.Err()
}

func (r *statementRepository) Update(ctx context.Context, statement *models.Statement) error {
	query := squirrel.Update("statements").
		Set("start_date", statement.StartDate).
		Set("end_date", statement.EndDate).
		Set("month", statement.Month).
		Set("year", statement.Year).
		Set("inflow", statement.Inflow).
		Set("outflow", statement.Outflow).
		Set("start_balance", statement.StartBalance).
		Set("end_balance", statement.EndBalance).
		Set("version", statement.Version+1).
		Set("updated_at", statement.UpdatedAt).
		Where(squirrel.Eq{"id": statement.ID, "version": statement.Version}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update statement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	statement.Version++
	return nil
}

func (r *statementRepository) CreateWithTransactions(ctx context.Context, statement *models.Statement, transactions []*models.Transaction, account *models.Account) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin statement import: %w", err)
	}
	defer tx.Rollback(ctx)

	sql, args, err := squirrel.Insert("statements").
		Columns(statementColumns...).
		Values(statement.ID, statement.UserID, statement.AccountID, statement.StartDate, statement.EndDate,
			statement.Month, statement.Year, statement.Inflow, statement.Outflow,
			statement.StartBalance, statement.EndBalance, statement.Version,
			statement.CreatedAt, statement.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("create statement: %w", err)
	}

	if len(transactions) > 0 {
		builder := squirrel.Insert("transactions").
			Columns(transactionColumns...).
			PlaceholderFormat(squirrel.Dollar)
		for _, t := range transactions {
			builder = builder.Values(t.ID, t.UserID, t.AccountID, t.StatementID, t.Date, t.Change, t.Outgoing,
				t.Balance, t.Description, t.Reference, t.LocationID, t.CreatedAt, t.UpdatedAt)
		}
		sql, args, err = builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("create transactions batch: %w", err)
		}
	}

	sql, args, err = squirrel.Update("accounts").
		Set("balance", account.Balance).
		Set("updated_at", account.UpdatedAt).
		Where(squirrel.Eq{"id": account.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit statement import: %w", err)
	}
	return nil
}

func (r *statementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete statement: %w", err)
	}
	defer tx.Rollback(ctx)

	// Detach transactions instead of deleting them: they still belong to
	// the account, only the statement grouping goes away.
	sql, args, err := squirrel.Update("transactions").
		Set("statement_id", nil).
		Where(squirrel.Eq{"statement_id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("detach transactions: %w", err)
	}

	sql, args, err = squirrel.Delete("statements").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete statement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete statement: %w", err)
	}
	return nil
}
