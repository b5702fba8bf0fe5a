package service

import (
	"context"
	"fmt"
	"sort"

	"finatlas/internal/geo"
	"finatlas/internal/models"
	"finatlas/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NearbyResult pairs a location with its distance from the query point.
type NearbyResult struct {
	Location *models.Location
	Distance float64
}

// GeoService answers spatial queries over a user's locations. Results are
// always scoped to the requesting user; cross-user leakage is a security
// invariant, not a performance concern.
type GeoService struct {
	locationRepo  repository.LocationRepository
	defaultRadius float64
	logger        *zap.Logger
}

func NewGeoService(locationRepo repository.LocationRepository, defaultRadius float64, logger *zap.Logger) *GeoService {
	return &GeoService{
		locationRepo:  locationRepo,
		defaultRadius: defaultRadius,
		logger:        logger,
	}
}

// Nearby returns the user's locations within radiusMeters great-circle
// distance of point, sorted by distance ascending. A zero radius falls back
// to the configured default; a negative radius is rejected.
func (s *GeoService) Nearby(ctx context.Context, userID uuid.UUID, point geo.Point, radiusMeters float64) ([]NearbyResult, error) {
	if err := point.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if radiusMeters < 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrValidation)
	}
	if radiusMeters == 0 {
		radiusMeters = s.defaultRadius
	}

	locations, err := s.locationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var results []NearbyResult
	for _, loc := range locations {
		d := geo.Distance(point, loc.Point)
		if d <= radiusMeters {
			results = append(results, NearbyResult{Location: loc, Distance: d})
		}
	}

	// Index order from the store is arbitrary; sort by distance for a
	// deterministic response.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results, nil
}

// WithinPolygon returns the user's locations whose point lies inside the
// polygon. Any simple polygon with at least three vertices is accepted.
func (s *GeoService) WithinPolygon(ctx context.Context, userID uuid.UUID, vertices []geo.Point) ([]*models.Location, error) {
	polygon, err := geo.NewPolygon(vertices)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	locations, err := s.locationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var results []*models.Location
	for _, loc := range locations {
		if polygon.Contains(loc.Point) {
			results = append(results, loc)
		}
	}
	return results, nil
}
