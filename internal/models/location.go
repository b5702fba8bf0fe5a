package models

import (
	"time"

	"finatlas/internal/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Location is a merchant or place transactions point at. The coordinate is
// stored as named longitude/latitude columns so positional [lng, lat]
// ordering never leaks into application code.
type Location struct {
	ID         uuid.UUID       `db:"id"`
	UserID     uuid.UUID       `db:"user_id"`
	Name       string          `db:"name"`
	Identifier string          `db:"identifier"`
	Address    string          `db:"address"`
	Point      geo.Point       `db:"-"`
	TotalSpent decimal.Decimal `db:"total_spent"`
	Categories []string        `db:"categories"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}
