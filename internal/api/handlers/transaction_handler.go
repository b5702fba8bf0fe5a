package handlers

import (
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/repository"
	"finatlas/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

func transactionToResponse(tx *models.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Date:        tx.Date.Format(time.RFC3339),
		Change:      tx.Change,
		Outgoing:    tx.Outgoing,
		Balance:     tx.Balance,
		Description: tx.Description,
		Reference:   tx.Reference,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.StatementID != nil {
		resp.StatementID = tx.StatementID.String()
	}
	if tx.LocationID != nil {
		resp.LocationID = tx.LocationID.String()
	}
	return resp
}

// Create godoc
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tx, err := h.txService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transactionToResponse(tx))
}

// List godoc
// @Summary List own transactions
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param account_id query string false "Filter by account"
// @Param statement_id query string false "Filter by statement"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var filters repository.TransactionFilters
	if raw := c.Query("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account_id filter"})
		}
		filters.AccountID = &id
	}
	if raw := c.Query("statement_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid statement_id filter"})
		}
		filters.StatementID = &id
	}

	transactions, err := h.txService.List(c.Context(), userID, filters)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		resp = append(resp, transactionToResponse(tx))
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get one transaction
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	txID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.txService.Get(c.Context(), userID, txID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(transactionToResponse(tx))
}

// Update godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Transaction patch"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	txID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req dto.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tx, err := h.txService.Update(c.Context(), userID, txID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(transactionToResponse(tx))
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	txID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.txService.Delete(c.Context(), userID, txID); err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
