package repository

import (
	"context"
	"errors"
	"fmt"

	"finatlas/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var locationColumns = []string{"id", "user_id", "name", "identifier", "address", "longitude", "latitude", "total_spent", "categories", "created_at", "updated_at"}

// LocationRepository defines persistence operations for locations. Geo
// filtering happens in the service layer; the repository only guarantees
// user scoping.
type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddTotalSpent adjusts the accumulated spend by delta (may be
	// negative when a transaction is removed or redirected).
	AddTotalSpent(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

type locationRepository struct {
	db     DB
	logger *zap.Logger
}

func NewLocationRepository(db DB, logger *zap.Logger) LocationRepository {
	return &locationRepository{db: db, logger: logger}
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	query := squirrel.Insert("locations").
		Columns(locationColumns...).
		Values(location.ID, location.UserID, location.Name, location.Identifier, location.Address,
			location.Point.Longitude, location.Point.Latitude, location.TotalSpent, location.Categories,
			location.CreatedAt, location.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create location: %w", ErrDuplicate)
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	query := squirrel.Select(locationColumns...).
		From("locations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var location models.Location
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&location.ID, &location.UserID, &location.Name, &location.Identifier, &location.Address,
		&location.Point.Longitude, &location.Point.Latitude, &location.TotalSpent, &location.Categories,
		&location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &location, nil
}

func (r *locationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Location, error) {
	query := squirrel.Select(locationColumns...).
		From("locations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		var location models.Location
		if err := rows.Scan(
			&location.ID, &location.UserID, &location.Name, &location.Identifier, &location.Address,
			&location.Point.Longitude, &location.Point.Latitude, &location.TotalSpent, &location.Categories,
			&location.CreatedAt, &location.UpdatedAt,
		); err != nil {
			return nil, err
		}
		locations = append(locations, &location)
	}
	return locations, rows.Err()
}

func (r *locationRepository) Update(ctx context.Context, location *models.Location) error {
	// Longitude/latitude are deliberately absent: coordinates are
	// immutable once set.
	query := squirrel.Update("locations").
		Set("name", location.Name).
		Set("identifier", location.Identifier).
		Set("address", location.Address).
		Set("total_spent", location.TotalSpent).
		Set("categories", location.Categories).
		Set("updated_at", location.UpdatedAt).
		Where(squirrel.Eq{"id": location.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update location: %w", ErrDuplicate)
		}
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := squirrel.Delete("locations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

func (r *locationRepository) AddTotalSpent(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	sql, args, err := squirrel.Update("locations").
		Set("total_spent", squirrel.Expr("total_spent + ?", delta)).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("add total spent: %w", err)
	}
	return nil
}
