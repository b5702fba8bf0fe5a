package handlers

import (
	"strconv"
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/geo"
	"finatlas/internal/models"
	"finatlas/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LocationHandler struct {
	locationService *service.LocationService
	geoService      *service.GeoService
	logger          *zap.Logger
}

func NewLocationHandler(locationService *service.LocationService, geoService *service.GeoService, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		geoService:      geoService,
		logger:          logger,
	}
}

func locationToResponse(location *models.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:         location.ID.String(),
		Name:       location.Name,
		Identifier: location.Identifier,
		Address:    location.Address,
		Point:      location.Point,
		TotalSpent: location.TotalSpent,
		Categories: location.Categories,
		CreatedAt:  location.CreatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary Create a location
// @Tags locations
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateLocationRequest true "Location"
// @Success 201 {object} dto.LocationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	location, err := h.locationService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(locationToResponse(location))
}

// List godoc
// @Summary List own locations
// @Tags locations
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.LocationResponse
// @Router /api/v1/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	locations, err := h.locationService.List(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.LocationResponse, 0, len(locations))
	for _, location := range locations {
		resp = append(resp, locationToResponse(location))
	}
	return c.JSON(resp)
}

// Nearby godoc
// @Summary List own locations near a point
// @Description Radius defaults to the configured value (5000 m) when omitted; results sorted by distance ascending
// @Tags locations
// @Produce json
// @Security Bearer
// @Param longitude query number true "Longitude"
// @Param latitude query number true "Latitude"
// @Param radius query number false "Radius in meters"
// @Success 200 {array} dto.NearbyLocationResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/locations/nearby [get]
func (h *LocationHandler) Nearby(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	longitude, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid longitude"})
	}
	latitude, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid latitude"})
	}

	radius := 0.0
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid radius"})
		}
	}

	results, err := h.geoService.Nearby(c.Context(), userID, geo.Point{Longitude: longitude, Latitude: latitude}, radius)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.NearbyLocationResponse, 0, len(results))
	for _, result := range results {
		resp = append(resp, dto.NearbyLocationResponse{
			LocationResponse: locationToResponse(result.Location),
			DistanceMeters:   result.Distance,
		})
	}
	return c.JSON(resp)
}

// Within godoc
// @Summary List own locations inside a polygon
// @Description Accepts any simple polygon with at least three vertices
// @Tags locations
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.WithinPolygonRequest true "Polygon vertices"
// @Success 200 {array} dto.LocationResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/locations/within [post]
func (h *LocationHandler) Within(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.WithinPolygonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	locations, err := h.geoService.WithinPolygon(c.Context(), userID, req.Vertices)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.LocationResponse, 0, len(locations))
	for _, location := range locations {
		resp = append(resp, locationToResponse(location))
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get one location
// @Tags locations
// @Produce json
// @Security Bearer
// @Param id path string true "Location ID"
// @Success 200 {object} dto.LocationResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/locations/{id} [get]
func (h *LocationHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	locationID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	location, err := h.locationService.Get(c.Context(), userID, locationID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(locationToResponse(location))
}

// Update godoc
// @Summary Update a location (coordinates are immutable)
// @Tags locations
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Location ID"
// @Param request body dto.UpdateLocationRequest true "Location patch"
// @Success 200 {object} dto.LocationResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	locationID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	var req dto.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	location, err := h.locationService.Update(c.Context(), userID, locationID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(locationToResponse(location))
}

// Delete godoc
// @Summary Delete a location
// @Tags locations
// @Security Bearer
// @Param id path string true "Location ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	locationID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid location ID"})
	}

	if err := h.locationService.Delete(c.Context(), userID, locationID); err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
