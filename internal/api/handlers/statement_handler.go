package handlers

import (
	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StatementHandler struct {
	statementService *service.StatementService
	logger           *zap.Logger
}

func NewStatementHandler(statementService *service.StatementService, logger *zap.Logger) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		logger:           logger,
	}
}

func statementToResponse(statement *models.Statement, transactions []*models.Transaction) dto.StatementResponse {
	resp := dto.StatementResponse{
		ID:           statement.ID.String(),
		AccountID:    statement.AccountID.String(),
		StartDate:    statement.StartDate.Format("2006-01-02"),
		EndDate:      statement.EndDate.Format("2006-01-02"),
		Month:        statement.Month,
		Year:         statement.Year,
		Inflow:       statement.Inflow,
		Outflow:      statement.Outflow,
		StartBalance: statement.StartBalance,
		EndBalance:   statement.EndBalance,
		Version:      statement.Version,
	}
	for _, tx := range transactions {
		resp.Transactions = append(resp.Transactions, transactionToResponse(tx))
	}
	return resp
}

// Create godoc
// @Summary Create a statement
// @Tags statements
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateStatementRequest true "Statement"
// @Success 201 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/statements [post]
func (h *StatementHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.CreateStatementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	statement, err := h.statementService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(statementToResponse(statement, nil))
}

// List godoc
// @Summary List own statements
// @Tags statements
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.StatementResponse
// @Router /api/v1/statements [get]
func (h *StatementHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	statements, err := h.statementService.List(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	resp := make([]dto.StatementResponse, 0, len(statements))
	for _, statement := range statements {
		resp = append(resp, statementToResponse(statement, nil))
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get one statement with its transactions
// @Tags statements
// @Produce json
// @Security Bearer
// @Param id path string true "Statement ID"
// @Success 200 {object} dto.StatementResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/statements/{id} [get]
func (h *StatementHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	statementID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid statement ID"})
	}

	statement, transactions, err := h.statementService.Get(c.Context(), userID, statementID)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(statementToResponse(statement, transactions))
}

// Update godoc
// @Summary Update a statement
// @Description Applies scalar patch and add/remove transaction sets, then recomputes inflow/outflow; rejects stale versions
// @Tags statements
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Statement ID"
// @Param request body dto.UpdateStatementRequest true "Statement patch"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/statements/{id} [put]
func (h *StatementHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	statementID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid statement ID"})
	}

	var req dto.UpdateStatementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	statement, err := h.statementService.Update(c.Context(), userID, statementID, &req)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.JSON(statementToResponse(statement, nil))
}

// Delete godoc
// @Summary Delete a statement, detaching its transactions
// @Tags statements
// @Security Bearer
// @Param id path string true "Statement ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/statements/{id} [delete]
func (h *StatementHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	statementID, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid statement ID"})
	}

	if err := h.statementService.Delete(c.Context(), userID, statementID); err != nil {
		return respondServiceError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary Import a CSV statement export
// @Description Columns: date, change, outgoing, balance, description, reference. Unparseable rows are skipped and counted
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "CSV file"
// @Param account_id formData string true "Account ID"
// @Success 201 {object} dto.ImportStatementResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/statements/import [post]
func (h *StatementHandler) Import(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	accountID, err := uuid.Parse(c.FormValue("account_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account ID"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer src.Close()

	statement, imported, skipped, err := h.statementService.ImportCSV(c.Context(), userID, accountID, src)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	h.logger.Info("CSV statement imported",
		zap.String("statement_id", statement.ID.String()),
		zap.Int("imported", imported),
	)
	return c.Status(fiber.StatusCreated).JSON(dto.ImportStatementResponse{
		Statement: statementToResponse(statement, nil),
		Imported:  imported,
		Skipped:   skipped,
	})
}
