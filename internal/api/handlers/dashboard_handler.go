package handlers

import (
	"strconv"

	"finatlas/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Get godoc
// @Summary Aggregated dashboard view
// @Description Account flows, location flows, the money-flow graph and summary scalars, optionally filtered by account and month/year
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Param account_id query string false "Only this account"
// @Param month query int false "Only this month (1-12)"
// @Param year query int false "Only this year"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var filter service.DashboardFilter
	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account_id filter"})
		}
		filter.AccountID = &id
	}
	if raw := c.Query("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month filter"})
		}
		filter.Month = &month
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year filter"})
		}
		filter.Year = &year
	}

	resp, err := h.dashboardService.Build(c.Context(), userID, filter)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(resp)
}
