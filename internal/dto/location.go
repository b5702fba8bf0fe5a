package dto

import (
	"finatlas/internal/geo"

	"github.com/shopspring/decimal"
)

type CreateLocationRequest struct {
	Name       string     `json:"name" validate:"required"`
	Identifier string     `json:"identifier" validate:"required"`
	Address    string     `json:"address"`
	Point      *geo.Point `json:"point" validate:"required"`
	Categories []string   `json:"categories"`
}

// UpdateLocationRequest deliberately omits Point: coordinates are immutable
// once set, moving a merchant means creating a new location.
type UpdateLocationRequest struct {
	Name       *string   `json:"name"`
	Identifier *string   `json:"identifier"`
	Address    *string   `json:"address"`
	Categories *[]string `json:"categories"`
}

type LocationResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Identifier string          `json:"identifier"`
	Address    string          `json:"address,omitempty"`
	Point      geo.Point       `json:"point"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Categories []string        `json:"categories,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

// NearbyLocationResponse is a location plus its distance from the query
// point; listings are sorted by this distance ascending.
type NearbyLocationResponse struct {
	LocationResponse
	DistanceMeters float64 `json:"distance_meters"`
}

type WithinPolygonRequest struct {
	Vertices []geo.Point `json:"vertices" validate:"required,min=3"`
}
