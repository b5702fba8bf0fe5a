package service

import (
	"context"
	"testing"
	"time"

	"finatlas/internal/geo"
	"finatlas/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDefaultRadius = 5000.0

func newGeoFixture() (*GeoService, *fakeLocationRepo) {
	repo := &fakeLocationRepo{}
	return NewGeoService(repo, testDefaultRadius, zap.NewNop()), repo
}

func addLocation(t *testing.T, repo *fakeLocationRepo, userID uuid.UUID, name string, point geo.Point) *models.Location {
	t.Helper()
	now := time.Now()
	loc := &models.Location{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		Identifier: name,
		Point:      point,
		TotalSpent: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.Create(context.Background(), loc))
	return loc
}

func TestNearbyRadiusBehavior(t *testing.T) {
	svc, repo := newGeoFixture()
	userID := uuid.New()

	near := addLocation(t, repo, userID, "near", geo.Point{Longitude: 15.0, Latitude: 46.0})
	far := addLocation(t, repo, userID, "far", geo.Point{Longitude: 15.1, Latitude: 46.1})

	center := geo.Point{Longitude: 15.0, Latitude: 46.0}

	// Within 5 km only the colocated point qualifies; the second sits
	// more than 10 km away.
	results, err := svc.Nearby(context.Background(), userID, center, 5000)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, near.ID, results[0].Location.ID)

	// Widening the radius picks up both.
	results, err = svc.Nearby(context.Background(), userID, center, 50000)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, near.ID, results[0].Location.ID)
	assert.Equal(t, far.ID, results[1].Location.ID)
}

func TestNearbyMonotonicInRadius(t *testing.T) {
	svc, repo := newGeoFixture()
	userID := uuid.New()

	addLocation(t, repo, userID, "a", geo.Point{Longitude: 15.0, Latitude: 46.0})
	addLocation(t, repo, userID, "b", geo.Point{Longitude: 15.02, Latitude: 46.02})
	addLocation(t, repo, userID, "c", geo.Point{Longitude: 15.1, Latitude: 46.1})

	center := geo.Point{Longitude: 15.0, Latitude: 46.0}
	radii := []float64{1000, 5000, 20000, 100000}

	var prev map[uuid.UUID]bool
	for _, r := range radii {
		results, err := svc.Nearby(context.Background(), userID, center, r)
		require.NoError(t, err)

		current := map[uuid.UUID]bool{}
		for _, res := range results {
			current[res.Location.ID] = true
			assert.LessOrEqual(t, res.Distance, r)
		}
		for id := range prev {
			assert.True(t, current[id], "smaller radius result missing at larger radius")
		}
		prev = current
	}
}

func TestNearbySortedByDistance(t *testing.T) {
	svc, repo := newGeoFixture()
	userID := uuid.New()

	// Inserted far-to-near to prove sorting is not insertion order.
	addLocation(t, repo, userID, "third", geo.Point{Longitude: 15.03, Latitude: 46.0})
	addLocation(t, repo, userID, "second", geo.Point{Longitude: 15.02, Latitude: 46.0})
	addLocation(t, repo, userID, "first", geo.Point{Longitude: 15.01, Latitude: 46.0})

	results, err := svc.Nearby(context.Background(), userID, geo.Point{Longitude: 15.0, Latitude: 46.0}, 50000)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Location.Name)
	assert.Equal(t, "second", results[1].Location.Name)
	assert.Equal(t, "third", results[2].Location.Name)
}

func TestNearbyDefaultAndInvalidRadius(t *testing.T) {
	svc, repo := newGeoFixture()
	userID := uuid.New()

	addLocation(t, repo, userID, "close", geo.Point{Longitude: 15.01, Latitude: 46.0}) // ~770 m
	addLocation(t, repo, userID, "distant", geo.Point{Longitude: 15.1, Latitude: 46.1})

	// Zero radius falls back to the 5000 m default.
	results, err := svc.Nearby(context.Background(), userID, geo.Point{Longitude: 15.0, Latitude: 46.0}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "close", results[0].Location.Name)

	_, err = svc.Nearby(context.Background(), userID, geo.Point{Longitude: 15.0, Latitude: 46.0}, -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Nearby(context.Background(), userID, geo.Point{Longitude: 200, Latitude: 46.0}, 5000)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGeoQueriesNeverLeakAcrossUsers(t *testing.T) {
	svc, repo := newGeoFixture()
	alice := uuid.New()
	bob := uuid.New()

	// Both users have a location at the exact same coordinates.
	aliceLoc := addLocation(t, repo, alice, "alice-cafe", geo.Point{Longitude: 15.0, Latitude: 46.0})
	addLocation(t, repo, bob, "bob-cafe", geo.Point{Longitude: 15.0, Latitude: 46.0})

	results, err := svc.Nearby(context.Background(), alice, geo.Point{Longitude: 15.0, Latitude: 46.0}, 100000)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, aliceLoc.ID, results[0].Location.ID)

	square := []geo.Point{
		{Longitude: 14.0, Latitude: 45.0},
		{Longitude: 16.0, Latitude: 45.0},
		{Longitude: 16.0, Latitude: 47.0},
		{Longitude: 14.0, Latitude: 47.0},
	}
	within, err := svc.WithinPolygon(context.Background(), alice, square)
	require.NoError(t, err)
	require.Len(t, within, 1)
	assert.Equal(t, aliceLoc.ID, within[0].ID)
}

func TestWithinPolygon(t *testing.T) {
	svc, repo := newGeoFixture()
	userID := uuid.New()

	inside := addLocation(t, repo, userID, "inside", geo.Point{Longitude: 0.5, Latitude: 0.5})
	addLocation(t, repo, userID, "outside", geo.Point{Longitude: 1.5, Latitude: 0.5})

	unitSquare := []geo.Point{
		{Longitude: 0, Latitude: 0},
		{Longitude: 1, Latitude: 0},
		{Longitude: 1, Latitude: 1},
		{Longitude: 0, Latitude: 1},
	}
	results, err := svc.WithinPolygon(context.Background(), userID, unitSquare)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, inside.ID, results[0].ID)

	// Triangles are fine too; the historical 4-vertex restriction is gone.
	triangle := []geo.Point{
		{Longitude: 0, Latitude: 0},
		{Longitude: 2, Latitude: 0},
		{Longitude: 1, Latitude: 2},
	}
	results, err = svc.WithinPolygon(context.Background(), userID, triangle)
	require.NoError(t, err)
	require.Len(t, results, 1)

	_, err = svc.WithinPolygon(context.Background(), userID, unitSquare[:2])
	assert.ErrorIs(t, err, ErrValidation)
}
