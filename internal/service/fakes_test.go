package service

import (
	"context"

	"finatlas/internal/models"
	"finatlas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Slice-backed in-memory repositories. Insertion order doubles as the
// deterministic listing order the real repositories get from ORDER BY.

type fakeUserRepo struct {
	users []*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) DeleteCascade(_ context.Context, id uuid.UUID) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeAccountRepo struct {
	accounts []*models.Account
}

func (f *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	for _, a := range f.accounts {
		if a.IBAN == account.IBAN {
			return repository.ErrDuplicate
		}
	}
	f.accounts = append(f.accounts, account)
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) Update(_ context.Context, account *models.Account) error {
	for i, a := range f.accounts {
		if a.ID == account.ID {
			f.accounts[i] = account
			return nil
		}
	}
	return nil
}

func (f *fakeAccountRepo) DeleteCascade(_ context.Context, id uuid.UUID) error {
	for i, a := range f.accounts {
		if a.ID == id {
			f.accounts = append(f.accounts[:i], f.accounts[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeLocationRepo struct {
	locations []*models.Location
}

func (f *fakeLocationRepo) Create(_ context.Context, location *models.Location) error {
	for _, l := range f.locations {
		if l.Identifier == location.Identifier {
			return repository.ErrDuplicate
		}
	}
	f.locations = append(f.locations, location)
	return nil
}

func (f *fakeLocationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Location, error) {
	for _, l := range f.locations {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeLocationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Location, error) {
	var out []*models.Location
	for _, l := range f.locations {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLocationRepo) Update(_ context.Context, location *models.Location) error {
	for i, l := range f.locations {
		if l.ID == location.ID {
			f.locations[i] = location
			return nil
		}
	}
	return nil
}

func (f *fakeLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, l := range f.locations {
		if l.ID == id {
			f.locations = append(f.locations[:i], f.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeLocationRepo) AddTotalSpent(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	for _, l := range f.locations {
		if l.ID == id {
			l.TotalSpent = l.TotalSpent.Add(delta)
			return nil
		}
	}
	return nil
}

type fakeStatementRepo struct {
	statements []*models.Statement

	// Wired in fixtures that exercise the composite import write.
	txs      *fakeTransactionRepo
	accounts *fakeAccountRepo
}

func (f *fakeStatementRepo) Create(_ context.Context, statement *models.Statement) error {
	f.statements = append(f.statements, statement)
	return nil
}

func (f *fakeStatementRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Statement, error) {
	for _, st := range f.statements {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, nil
}

func (f *fakeStatementRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Statement, error) {
	var out []*models.Statement
	for _, st := range f.statements {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeStatementRepo) Update(_ context.Context, statement *models.Statement) error {
	for i, st := range f.statements {
		if st.ID == statement.ID {
			if st.Version != statement.Version {
				return repository.ErrStaleVersion
			}
			statement.Version++
			f.statements[i] = statement
			return nil
		}
	}
	return repository.ErrStaleVersion
}

func (f *fakeStatementRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, st := range f.statements {
		if st.ID == id {
			f.statements = append(f.statements[:i], f.statements[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStatementRepo) CreateWithTransactions(ctx context.Context, statement *models.Statement, transactions []*models.Transaction, account *models.Account) error {
	f.statements = append(f.statements, statement)
	if f.txs != nil {
		f.txs.transactions = append(f.txs.transactions, transactions...)
	}
	if f.accounts != nil {
		return f.accounts.Update(ctx, account)
	}
	return nil
}

type fakeTransactionRepo struct {
	transactions []*models.Transaction
}

func (f *fakeTransactionRepo) Create(_ context.Context, tx *models.Transaction) error {
	f.transactions = append(f.transactions, tx)
	return nil
}

func (f *fakeTransactionRepo) CreateBatch(_ context.Context, txs []*models.Transaction) error {
	f.transactions = append(f.transactions, txs...)
	return nil
}

func (f *fakeTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	for _, tx := range f.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepo) ListByUser(_ context.Context, userID uuid.UUID, filters repository.TransactionFilters) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, tx := range f.transactions {
		if tx.UserID != userID {
			continue
		}
		if filters.AccountID != nil && tx.AccountID != *filters.AccountID {
			continue
		}
		if filters.StatementID != nil && (tx.StatementID == nil || *tx.StatementID != *filters.StatementID) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeTransactionRepo) ListByStatement(_ context.Context, statementID uuid.UUID) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, tx := range f.transactions {
		if tx.StatementID != nil && *tx.StatementID == statementID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) Update(_ context.Context, tx *models.Transaction) error {
	for i, t := range f.transactions {
		if t.ID == tx.ID {
			f.transactions[i] = tx
			return nil
		}
	}
	return nil
}

func (f *fakeTransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, t := range f.transactions {
		if t.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeTransactionRepo) AssignStatement(_ context.Context, id uuid.UUID, statementID *uuid.UUID) error {
	for _, t := range f.transactions {
		if t.ID == id {
			t.StatementID = statementID
			return nil
		}
	}
	return nil
}
