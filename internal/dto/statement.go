package dto

import "github.com/shopspring/decimal"

type CreateStatementRequest struct {
	AccountID    string           `json:"account_id" validate:"required,uuid"`
	StartDate    string           `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate      string           `json:"end_date" validate:"required"`
	Month        int              `json:"month" validate:"required,min=1,max=12"`
	Year         int              `json:"year" validate:"required"`
	StartBalance *decimal.Decimal `json:"start_balance"`
	EndBalance   *decimal.Decimal `json:"end_balance"`
}

// UpdateStatementRequest carries the sparse scalar patch plus the two
// transaction diff sets. Version must match the stored statement or the
// update is rejected as stale.
type UpdateStatementRequest struct {
	StartDate          *string          `json:"start_date"`
	EndDate            *string          `json:"end_date"`
	Month              *int             `json:"month"`
	Year               *int             `json:"year"`
	StartBalance       *decimal.Decimal `json:"start_balance"`
	EndBalance         *decimal.Decimal `json:"end_balance"`
	AddTransactions    []string         `json:"add_transactions"`
	RemoveTransactions []string         `json:"remove_transactions"`
	Version            int64            `json:"version"`
}

type StatementResponse struct {
	ID           string                `json:"id"`
	AccountID    string                `json:"account_id"`
	StartDate    string                `json:"start_date"`
	EndDate      string                `json:"end_date"`
	Month        int                   `json:"month"`
	Year         int                   `json:"year"`
	Inflow       decimal.Decimal       `json:"inflow"`
	Outflow      decimal.Decimal       `json:"outflow"`
	StartBalance decimal.Decimal       `json:"start_balance"`
	EndBalance   decimal.Decimal       `json:"end_balance"`
	Version      int64                 `json:"version"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
}

type ImportStatementResponse struct {
	Statement StatementResponse `json:"statement"`
	Imported  int               `json:"imported"`
	Skipped   int               `json:"skipped"`
}
