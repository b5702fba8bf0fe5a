package handlers

import (
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func userToResponse(user *models.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Surname:   user.Surname,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if !user.DateOfBirth.IsZero() {
		resp.DateOfBirth = user.DateOfBirth.Format("2006-01-02")
	}
	return resp
}

// Me godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := h.userService.Get(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(userToResponse(user))
}

// Update godoc
// @Summary Update own profile
// @Description Sparse patch: omitted fields are untouched, provided fields overwrite even when empty
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.UpdateUserRequest true "Profile patch"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/users/me [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.userService.Update(c.Context(), userID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(userToResponse(user))
}

// Delete godoc
// @Summary Delete own account and every owned resource
// @Tags users
// @Security Bearer
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /api/v1/users/me [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.userService.Delete(c.Context(), userID); err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
