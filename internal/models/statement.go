package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statement is a time-bounded aggregation of transactions for one account.
// Inflow and outflow are always recomputed from the full transaction set;
// Version guards concurrent updates (stale writes are rejected).
type Statement struct {
	ID           uuid.UUID       `db:"id"`
	UserID       uuid.UUID       `db:"user_id"`
	AccountID    uuid.UUID       `db:"account_id"`
	StartDate    time.Time       `db:"start_date"`
	EndDate      time.Time       `db:"end_date"`
	Month        int             `db:"month"`
	Year         int             `db:"year"`
	Inflow       decimal.Decimal `db:"inflow"`
	Outflow      decimal.Decimal `db:"outflow"`
	StartBalance decimal.Decimal `db:"start_balance"`
	EndBalance   decimal.Decimal `db:"end_balance"`
	Version      int64           `db:"version"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
