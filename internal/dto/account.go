package dto

import "github.com/shopspring/decimal"

type CreateAccountRequest struct {
	IBAN     string           `json:"iban" validate:"required"`
	Currency string           `json:"currency" validate:"required,oneof=EUR USD GBP"`
	Balance  *decimal.Decimal `json:"balance"`
}

type UpdateAccountRequest struct {
	IBAN     *string          `json:"iban"`
	Currency *string          `json:"currency"`
	Balance  *decimal.Decimal `json:"balance"`
}

type AccountResponse struct {
	ID        string          `json:"id"`
	IBAN      string          `json:"iban"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"created_at"`
}
