package handlers

import (
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accountService *service.AccountService
	logger         *zap.Logger
}

func NewAccountHandler(accountService *service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

func accountToResponse(account *models.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        account.ID.String(),
		IBAN:      account.IBAN,
		Currency:  string(account.Currency),
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary Create an account
// @Tags accounts
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateAccountRequest true "Account"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	account, err := h.accountService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(accountToResponse(account))
}

// List godoc
// @Summary List own accounts
// @Tags accounts
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.AccountResponse
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	accounts, err := h.accountService.List(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, accountToResponse(account))
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get one account
// @Tags accounts
// @Produce json
// @Security Bearer
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	accountID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account ID"})
	}

	account, err := h.accountService.Get(c.Context(), userID, accountID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(accountToResponse(account))
}

// Update godoc
// @Summary Update an account
// @Tags accounts
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Account ID"
// @Param request body dto.UpdateAccountRequest true "Account patch"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/accounts/{id} [put]
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	accountID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account ID"})
	}

	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	account, err := h.accountService.Update(c.Context(), userID, accountID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(accountToResponse(account))
}

// Delete godoc
// @Summary Delete an account with its statements and transactions
// @Tags accounts
// @Security Bearer
// @Param id path string true "Account ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	accountID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account ID"})
	}

	if err := h.accountService.Delete(c.Context(), userID, accountID); err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
