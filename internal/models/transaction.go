package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single money movement. Change is always non-negative;
// the direction lives in the Outgoing flag. Balance is the account balance
// snapshot right after this transaction.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	AccountID   uuid.UUID       `db:"account_id"`
	StatementID *uuid.UUID      `db:"statement_id"`
	Date        time.Time       `db:"date"`
	Change      decimal.Decimal `db:"change"`
	Outgoing    bool            `db:"outgoing"`
	Balance     decimal.Decimal `db:"balance"`
	Description string          `db:"description"`
	Reference   string          `db:"reference"`
	LocationID  *uuid.UUID      `db:"location_id"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
