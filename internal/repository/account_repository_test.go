package repository

import (
	"context"
	"testing"
	"time"

	"finatlas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// anyArgs returns n pgxmock.AnyArg() matchers; pgxmock v3 requires the
// expected argument count to match even when the values don't matter.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func testAccount() *models.Account {
	now := time.Now()
	return &models.Account{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		IBAN:      "SI56192001234567892",
		Currency:  models.CurrencyEUR,
		Balance:   decimal.NewFromInt(60),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAccountRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock, zap.NewNop())
	account := testAccount()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(account.ID, account.UserID, account.IBAN, account.Currency, account.Balance, account.CreatedAt, account.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), account))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryCreateDuplicateIBAN(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock, zap.NewNop())

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(anyArgs(7)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	err = repo.Create(context.Background(), testAccount())
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock, zap.NewNop())
	account := testAccount()

	// squirrel resolves driver.Valuer args in WHERE clauses, so the UUID
	// reaches the driver as its string form.
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id =").
		WithArgs(account.ID.String()).
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow(account.ID, account.UserID, account.IBAN, account.Currency, account.Balance, account.CreatedAt, account.UpdatedAt))

	got, err := repo.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, account.IBAN, got.IBAN)
	assert.True(t, got.Balance.Equal(account.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock, zap.NewNop())
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id =").
		WithArgs(id.String()).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock, zap.NewNop())
	a, b := testAccount(), testAccount()
	b.UserID = a.UserID

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE user_id =").
		WithArgs(a.UserID.String()).
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow(a.ID, a.UserID, a.IBAN, a.Currency, a.Balance, a.CreatedAt, a.UpdatedAt).
			AddRow(b.ID, b.UserID, b.IBAN, b.Currency, b.Balance, b.CreatedAt, b.UpdatedAt))

	accounts, err := repo.ListByUser(context.Background(), a.UserID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, a.ID, accounts[0].ID)
	assert.Equal(t, b.ID, accounts[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryDeleteCascade(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepository(mock, zap.NewNop())
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM transactions WHERE account_id =").
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("DELETE FROM statements WHERE account_id =").
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM accounts WHERE id =").
		WithArgs(id.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, repo.DeleteCascade(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
