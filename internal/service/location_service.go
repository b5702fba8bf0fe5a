package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LocationService struct {
	locationRepo repository.LocationRepository
	logger       *zap.Logger
}

func NewLocationService(locationRepo repository.LocationRepository, logger *zap.Logger) *LocationService {
	return &LocationService{locationRepo: locationRepo, logger: logger}
}

func (s *LocationService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateLocationRequest) (*models.Location, error) {
	if req.Name == "" || req.Identifier == "" {
		return nil, fmt.Errorf("%w: name and identifier are required", ErrValidation)
	}
	if req.Point == nil {
		return nil, fmt.Errorf("%w: geographic point is required", ErrValidation)
	}
	if err := req.Point.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	now := time.Now()
	location := &models.Location{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       req.Name,
		Identifier: req.Identifier,
		Address:    req.Address,
		Point:      *req.Point,
		TotalSpent: decimal.Zero,
		Categories: req.Categories,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.locationRepo.Create(ctx, location); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return location, nil
}

func (s *LocationService) Get(ctx context.Context, userID, locationID uuid.UUID) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, ErrNotFound
	}
	if err := guardOwner(location.UserID, userID); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *LocationService) List(ctx context.Context, userID uuid.UUID) ([]*models.Location, error) {
	return s.locationRepo.ListByUser(ctx, userID)
}

func (s *LocationService) Update(ctx context.Context, userID, locationID uuid.UUID, req *dto.UpdateLocationRequest) (*models.Location, error) {
	location, err := s.Get(ctx, userID, locationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Identifier != nil {
		location.Identifier = *req.Identifier
	}
	if req.Address != nil {
		location.Address = *req.Address
	}
	if req.Categories != nil {
		location.Categories = *req.Categories
	}
	location.UpdatedAt = time.Now()

	if err := s.locationRepo.Update(ctx, location); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return location, nil
}

func (s *LocationService) Delete(ctx context.Context, userID, locationID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, locationID); err != nil {
		return err
	}
	return s.locationRepo.Delete(ctx, locationID)
}
