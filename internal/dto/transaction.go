package dto

import "github.com/shopspring/decimal"

type CreateTransactionRequest struct {
	AccountID   string           `json:"account_id" validate:"required,uuid"`
	StatementID *string          `json:"statement_id"`
	Date        string           `json:"date" validate:"required"` // RFC 3339
	Change      decimal.Decimal  `json:"change" validate:"required"`
	Outgoing    bool             `json:"outgoing"`
	Balance     *decimal.Decimal `json:"balance"`
	Description string           `json:"description"`
	Reference   string           `json:"reference"`
	LocationID  *string          `json:"location_id"`
}

type UpdateTransactionRequest struct {
	Date        *string          `json:"date"`
	Change      *decimal.Decimal `json:"change"`
	Outgoing    *bool            `json:"outgoing"`
	Balance     *decimal.Decimal `json:"balance"`
	Description *string          `json:"description"`
	Reference   *string          `json:"reference"`
	LocationID  *string          `json:"location_id"`
}

type TransactionResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	StatementID string          `json:"statement_id,omitempty"`
	Date        string          `json:"date"`
	Change      decimal.Decimal `json:"change"`
	Outgoing    bool            `json:"outgoing"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	LocationID  string          `json:"location_id,omitempty"`
	CreatedAt   string          `json:"created_at"`
}
