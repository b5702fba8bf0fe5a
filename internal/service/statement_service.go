package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type StatementService struct {
	statementRepo repository.StatementRepository
	txRepo        repository.TransactionRepository
	accountRepo   repository.AccountRepository
	logger        *zap.Logger
}

func NewStatementService(
	statementRepo repository.StatementRepository,
	txRepo repository.TransactionRepository,
	accountRepo repository.AccountRepository,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		statementRepo: statementRepo,
		txRepo:        txRepo,
		accountRepo:   accountRepo,
		logger:        logger,
	}
}

// aggregateFlows recomputes inflow and outflow from a full transaction set.
// Always the whole set, never an incremental delta, so repeated updates
// cannot drift.
func aggregateFlows(transactions []*models.Transaction) (inflow, outflow decimal.Decimal) {
	inflow, outflow = decimal.Zero, decimal.Zero
	for _, tx := range transactions {
		if tx.Outgoing {
			outflow = outflow.Add(tx.Change)
		} else {
			inflow = inflow.Add(tx.Change)
		}
	}
	return inflow, outflow
}

func (s *StatementService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateStatementRequest) (*models.Statement, error) {
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid account id", ErrValidation)
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	if err := guardOwner(account.UserID, userID); err != nil {
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", ErrValidation)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", ErrValidation)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	if req.Month < 1 || req.Month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrValidation)
	}

	startBalance, endBalance := decimal.Zero, decimal.Zero
	if req.StartBalance != nil {
		startBalance = *req.StartBalance
	}
	if req.EndBalance != nil {
		endBalance = *req.EndBalance
	}

	now := time.Now()
	statement := &models.Statement{
		ID:           uuid.New(),
		UserID:       userID,
		AccountID:    accountID,
		StartDate:    startDate,
		EndDate:      endDate,
		Month:        req.Month,
		Year:         req.Year,
		Inflow:       decimal.Zero,
		Outflow:      decimal.Zero,
		StartBalance: startBalance,
		EndBalance:   endBalance,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.statementRepo.Create(ctx, statement); err != nil {
		return nil, err
	}
	return statement, nil
}

func (s *StatementService) Get(ctx context.Context, userID, statementID uuid.UUID) (*models.Statement, []*models.Transaction, error) {
	statement, err := s.statementRepo.GetByID(ctx, statementID)
	if err != nil {
		return nil, nil, err
	}
	if statement == nil {
		return nil, nil, ErrNotFound
	}
	if err := guardOwner(statement.UserID, userID); err != nil {
		return nil, nil, err
	}

	transactions, err := s.txRepo.ListByStatement(ctx, statementID)
	if err != nil {
		return nil, nil, err
	}
	return statement, transactions, nil
}

func (s *StatementService) List(ctx context.Context, userID uuid.UUID) ([]*models.Statement, error) {
	return s.statementRepo.ListByUser(ctx, userID)
}

// Update applies the sparse scalar patch and the add/remove transaction
// diff, then recomputes inflow/outflow from the resulting set. Both diff
// operations are idempotent: adding an already-attached transaction and
// removing an absent one are no-ops. The write is rejected with ErrConflict
// when req.Version no longer matches the stored statement.
//
// The diff is planned in memory and only persisted after the version-guarded
// statement write succeeds, so a writer losing the race gets its 409 with no
// attach/detach side effects.
func (s *StatementService) Update(ctx context.Context, userID, statementID uuid.UUID, req *dto.UpdateStatementRequest) (*models.Statement, error) {
	statement, _, err := s.Get(ctx, userID, statementID)
	if err != nil {
		return nil, err
	}
	if req.Version != statement.Version {
		return nil, ErrConflict
	}

	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start date", ErrValidation)
		}
		statement.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date", ErrValidation)
		}
		statement.EndDate = endDate
	}
	if req.Month != nil {
		if *req.Month < 1 || *req.Month > 12 {
			return nil, fmt.Errorf("%w: month must be 1-12", ErrValidation)
		}
		statement.Month = *req.Month
	}
	if req.Year != nil {
		statement.Year = *req.Year
	}
	if req.StartBalance != nil {
		statement.StartBalance = *req.StartBalance
	}
	if req.EndBalance != nil {
		statement.EndBalance = *req.EndBalance
	}

	attach, detach, finalSet, err := s.planTransactionDiff(ctx, statement, req.AddTransactions, req.RemoveTransactions)
	if err != nil {
		return nil, err
	}

	// Aggregates come from the planned final set, so the guarded write
	// already carries the post-diff figures.
	statement.Inflow, statement.Outflow = aggregateFlows(finalSet)
	statement.UpdatedAt = time.Now()

	if err := s.statementRepo.Update(ctx, statement); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, ErrConflict
		}
		return nil, err
	}

	for _, txID := range attach {
		if err := s.txRepo.AssignStatement(ctx, txID, &statement.ID); err != nil {
			return nil, err
		}
	}
	for _, txID := range detach {
		if err := s.txRepo.AssignStatement(ctx, txID, nil); err != nil {
			return nil, err
		}
	}
	return statement, nil
}

// planTransactionDiff validates the add/remove sets against the currently
// attached transactions without writing anything. It returns the IDs to
// attach and detach plus the resulting transaction set.
func (s *StatementService) planTransactionDiff(ctx context.Context, statement *models.Statement, add, remove []string) (attach, detach []uuid.UUID, finalSet []*models.Transaction, err error) {
	current, err := s.txRepo.ListByStatement(ctx, statement.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	attached := map[uuid.UUID]*models.Transaction{}
	for _, tx := range current {
		attached[tx.ID] = tx
	}
	planned := map[uuid.UUID]*models.Transaction{}

	for _, idStr := range add {
		txID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: invalid transaction id %q", ErrValidation, idStr)
		}
		if attached[txID] != nil || planned[txID] != nil {
			continue // already attached or planned, no-op
		}
		tx, err := s.txRepo.GetByID(ctx, txID)
		if err != nil {
			return nil, nil, nil, err
		}
		if tx == nil {
			return nil, nil, nil, fmt.Errorf("%w: transaction %s not found", ErrValidation, txID)
		}
		if !isOwner(tx.UserID, statement.UserID) {
			return nil, nil, nil, ErrForbidden
		}
		if tx.AccountID != statement.AccountID {
			return nil, nil, nil, fmt.Errorf("%w: transaction %s belongs to a different account", ErrValidation, txID)
		}
		if tx.StatementID != nil && *tx.StatementID != statement.ID {
			return nil, nil, nil, fmt.Errorf("%w: transaction %s already assigned to another statement", ErrValidation, txID)
		}
		planned[txID] = tx
		attach = append(attach, txID)
	}

	for _, idStr := range remove {
		txID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: invalid transaction id %q", ErrValidation, idStr)
		}
		if planned[txID] != nil {
			// Added and removed in the same request: cancel the attach.
			delete(planned, txID)
			for i, id := range attach {
				if id == txID {
					attach = append(attach[:i], attach[i+1:]...)
					break
				}
			}
			continue
		}
		if attached[txID] == nil {
			continue // not attached here, no-op
		}
		delete(attached, txID)
		detach = append(detach, txID)
	}

	for _, tx := range attached {
		finalSet = append(finalSet, tx)
	}
	for _, tx := range planned {
		finalSet = append(finalSet, tx)
	}
	return attach, detach, finalSet, nil
}

func (s *StatementService) Delete(ctx context.Context, userID, statementID uuid.UUID) error {
	if _, _, err := s.Get(ctx, userID, statementID); err != nil {
		return err
	}
	return s.statementRepo.Delete(ctx, statementID)
}

// ImportCSV ingests a parsed statement export: one transaction per row with
// columns date, change, outgoing, balance, description, reference. Rows
// that fail to parse are skipped and counted. The resulting statement spans
// the imported date range and carries the recomputed aggregates.
func (s *StatementService) ImportCSV(ctx context.Context, userID, accountID uuid.UUID, r io.Reader) (*models.Statement, int, int, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, 0, 0, err
	}
	if account == nil {
		return nil, 0, 0, ErrNotFound
	}
	if err := guardOwner(account.UserID, userID); err != nil {
		return nil, 0, 0, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: empty or unreadable csv", ErrValidation)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "change", "outgoing"} {
		if _, ok := col[required]; !ok {
			return nil, 0, 0, fmt.Errorf("%w: missing csv column %q", ErrValidation, required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	now := time.Now()
	statementID := uuid.New()
	var transactions []*models.Transaction
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		date, err := time.Parse("2006-01-02", field(record, "date"))
		if err != nil {
			skipped++
			continue
		}
		change, err := decimal.NewFromString(field(record, "change"))
		if err != nil {
			skipped++
			continue
		}
		outgoing, err := strconv.ParseBool(field(record, "outgoing"))
		if err != nil {
			skipped++
			continue
		}
		balance := decimal.Zero
		if v := field(record, "balance"); v != "" {
			if balance, err = decimal.NewFromString(v); err != nil {
				skipped++
				continue
			}
		}

		transactions = append(transactions, &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			AccountID:   accountID,
			StatementID: &statementID,
			Date:        date,
			Change:      change.Abs(),
			Outgoing:    outgoing,
			Balance:     balance,
			Description: sanitizeUTF8(field(record, "description")),
			Reference:   field(record, "reference"),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if len(transactions) == 0 {
		return nil, 0, skipped, fmt.Errorf("%w: no importable rows", ErrValidation)
	}

	startDate, endDate := transactions[0].Date, transactions[0].Date
	for _, tx := range transactions {
		if tx.Date.Before(startDate) {
			startDate = tx.Date
		}
		if tx.Date.After(endDate) {
			endDate = tx.Date
		}
	}

	inflow, outflow := aggregateFlows(transactions)
	statement := &models.Statement{
		ID:           statementID,
		UserID:       userID,
		AccountID:    accountID,
		StartDate:    startDate,
		EndDate:      endDate,
		Month:        int(startDate.Month()),
		Year:         startDate.Year(),
		Inflow:       inflow,
		Outflow:      outflow,
		StartBalance: account.Balance,
		EndBalance:   account.Balance.Add(inflow).Sub(outflow),
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Statement, transactions and the refreshed account balance land in
	// one transaction; a failed import leaves nothing behind.
	account.Balance = statement.EndBalance
	account.UpdatedAt = now
	if err := s.statementRepo.CreateWithTransactions(ctx, statement, transactions, account); err != nil {
		return nil, 0, skipped, err
	}

	s.logger.Info("Statement imported",
		zap.String("statement_id", statementID.String()),
		zap.Int("transactions", len(transactions)),
		zap.Int("skipped", skipped),
	)
	return statement, len(transactions), skipped, nil
}
