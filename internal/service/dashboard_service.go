package service

import (
	"context"
	"time"

	"finatlas/internal/dto"
	"finatlas/internal/models"
	"finatlas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardFilter narrows the statement set before aggregation. Nil fields
// are ignored, so any filter combination works off the same single fetch.
type DashboardFilter struct {
	AccountID *uuid.UUID
	Month     *int
	Year      *int
}

type DashboardService struct {
	accountRepo   repository.AccountRepository
	statementRepo repository.StatementRepository
	txRepo        repository.TransactionRepository
	locationRepo  repository.LocationRepository
	logger        *zap.Logger
}

func NewDashboardService(
	accountRepo repository.AccountRepository,
	statementRepo repository.StatementRepository,
	txRepo repository.TransactionRepository,
	locationRepo repository.LocationRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		accountRepo:   accountRepo,
		statementRepo: statementRepo,
		txRepo:        txRepo,
		locationRepo:  locationRepo,
		logger:        logger,
	}
}

// Build fetches the user's full data set once and derives every dashboard
// figure from it in memory.
func (s *DashboardService) Build(ctx context.Context, userID uuid.UUID, filter DashboardFilter) (*dto.DashboardResponse, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	statements, err := s.statementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.txRepo.ListByUser(ctx, userID, repository.TransactionFilters{})
	if err != nil {
		return nil, err
	}
	locations, err := s.locationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildDashboard(accounts, statements, transactions, locations, filter), nil
}

// buildDashboard is the pure aggregation core: filter the statement set,
// collect the transactions those statements hold, then derive account
// flows, location flows, the Sankey flow graph and the summary scalars.
func buildDashboard(
	accounts []*models.Account,
	statements []*models.Statement,
	transactions []*models.Transaction,
	locations []*models.Location,
	filter DashboardFilter,
) *dto.DashboardResponse {
	included := map[uuid.UUID]bool{}
	for _, st := range statements {
		if filter.AccountID != nil && st.AccountID != *filter.AccountID {
			continue
		}
		if filter.Month != nil && st.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && st.Year != *filter.Year {
			continue
		}
		included[st.ID] = true
	}

	var txs []*models.Transaction
	for _, tx := range transactions {
		if tx.StatementID != nil && included[*tx.StatementID] {
			txs = append(txs, tx)
		}
	}

	accountByID := map[uuid.UUID]*models.Account{}
	for _, a := range accounts {
		accountByID[a.ID] = a
	}
	locationByID := map[uuid.UUID]*models.Location{}
	for _, l := range locations {
		locationByID[l.ID] = l
	}

	type flows struct {
		inflow, outflow decimal.Decimal
		txCount         int
	}
	accountFlows := map[uuid.UUID]*flows{}
	locationFlows := map[uuid.UUID]*flows{}
	// edge totals keyed by (account, location, direction)
	type edgeKey struct {
		account  uuid.UUID
		location uuid.UUID
		outgoing bool
	}
	edges := map[edgeKey]decimal.Decimal{}

	summary := dto.DashboardSummary{
		TotalInflow:    decimal.Zero,
		TotalOutflow:   decimal.Zero,
		NetFlow:        decimal.Zero,
		LargestInflow:  decimal.Zero,
		LargestOutflow: decimal.Zero,
	}
	var first, last time.Time

	for _, tx := range txs {
		af := accountFlows[tx.AccountID]
		if af == nil {
			af = &flows{inflow: decimal.Zero, outflow: decimal.Zero}
			accountFlows[tx.AccountID] = af
		}
		af.txCount++

		if tx.Outgoing {
			af.outflow = af.outflow.Add(tx.Change)
			summary.TotalOutflow = summary.TotalOutflow.Add(tx.Change)
			if tx.Change.GreaterThan(summary.LargestOutflow) {
				summary.LargestOutflow = tx.Change
			}
		} else {
			af.inflow = af.inflow.Add(tx.Change)
			summary.TotalInflow = summary.TotalInflow.Add(tx.Change)
			if tx.Change.GreaterThan(summary.LargestInflow) {
				summary.LargestInflow = tx.Change
			}
		}

		if tx.LocationID != nil {
			lf := locationFlows[*tx.LocationID]
			if lf == nil {
				lf = &flows{inflow: decimal.Zero, outflow: decimal.Zero}
				locationFlows[*tx.LocationID] = lf
			}
			lf.txCount++
			key := edgeKey{account: tx.AccountID, location: *tx.LocationID, outgoing: tx.Outgoing}
			if _, ok := edges[key]; !ok {
				edges[key] = decimal.Zero
			}
			edges[key] = edges[key].Add(tx.Change)
			if tx.Outgoing {
				lf.outflow = lf.outflow.Add(tx.Change)
			} else {
				lf.inflow = lf.inflow.Add(tx.Change)
			}
		}

		if first.IsZero() || tx.Date.Before(first) {
			first = tx.Date
		}
		if last.IsZero() || tx.Date.After(last) {
			last = tx.Date
		}
	}

	resp := &dto.DashboardResponse{}

	// Account flows in stored account order for determinism.
	for _, a := range accounts {
		af, ok := accountFlows[a.ID]
		if !ok {
			continue
		}
		resp.Accounts = append(resp.Accounts, dto.AccountFlow{
			AccountID: a.ID.String(),
			IBAN:      a.IBAN,
			Currency:  string(a.Currency),
			Inflow:    af.inflow,
			Outflow:   af.outflow,
		})
		resp.Flow.Nodes = append(resp.Flow.Nodes, dto.FlowNode{
			ID:    "acct:" + a.ID.String(),
			Label: a.IBAN,
			Kind:  "account",
		})
	}

	// A location feeding an account and receiving from it becomes two
	// nodes, keeping the flow graph directed and acyclic.
	for _, l := range locations {
		lf, ok := locationFlows[l.ID]
		if !ok {
			continue
		}
		resp.Locations = append(resp.Locations, dto.LocationFlow{
			LocationID: l.ID.String(),
			Name:       l.Name,
			Inflow:     lf.inflow,
			Outflow:    lf.outflow,
		})
		if lf.inflow.IsPositive() {
			resp.Flow.Nodes = append(resp.Flow.Nodes, dto.FlowNode{
				ID:    "loc:in:" + l.ID.String(),
				Label: l.Name,
				Kind:  "source",
			})
		}
		if lf.outflow.IsPositive() {
			resp.Flow.Nodes = append(resp.Flow.Nodes, dto.FlowNode{
				ID:    "loc:out:" + l.ID.String(),
				Label: l.Name,
				Kind:  "destination",
			})
		}
	}

	for _, a := range accounts {
		for _, l := range locations {
			if v, ok := edges[edgeKey{account: a.ID, location: l.ID, outgoing: false}]; ok {
				resp.Flow.Links = append(resp.Flow.Links, dto.FlowLink{
					Source: "loc:in:" + l.ID.String(),
					Target: "acct:" + a.ID.String(),
					Value:  v,
				})
			}
			if v, ok := edges[edgeKey{account: a.ID, location: l.ID, outgoing: true}]; ok {
				resp.Flow.Links = append(resp.Flow.Links, dto.FlowLink{
					Source: "acct:" + a.ID.String(),
					Target: "loc:out:" + l.ID.String(),
					Value:  v,
				})
			}
		}
	}

	summary.TransactionCount = len(txs)
	summary.NetFlow = summary.TotalInflow.Sub(summary.TotalOutflow)
	summary.AvgInflowPerAccount = decimal.Zero
	summary.AvgOutflowPerAccount = decimal.Zero
	summary.AvgPerTransaction = decimal.Zero
	if n := len(resp.Accounts); n > 0 {
		summary.AvgInflowPerAccount = summary.TotalInflow.Div(decimal.NewFromInt(int64(n)))
		summary.AvgOutflowPerAccount = summary.TotalOutflow.Div(decimal.NewFromInt(int64(n)))
	}
	if len(txs) > 0 {
		summary.AvgPerTransaction = summary.TotalInflow.Add(summary.TotalOutflow).
			Div(decimal.NewFromInt(int64(len(txs))))
		summary.FirstTransaction = first.Format(time.RFC3339)
		summary.LastTransaction = last.Format(time.RFC3339)
	}

	mostActive := func(ordered []uuid.UUID, flowsByID map[uuid.UUID]*flows) (uuid.UUID, bool) {
		best, bestCount := uuid.UUID{}, 0
		for _, id := range ordered {
			if f, ok := flowsByID[id]; ok && f.txCount > bestCount {
				best, bestCount = id, f.txCount
			}
		}
		return best, bestCount > 0
	}

	accountOrder := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		accountOrder = append(accountOrder, a.ID)
	}
	locationOrder := make([]uuid.UUID, 0, len(locations))
	for _, l := range locations {
		locationOrder = append(locationOrder, l.ID)
	}

	if id, ok := mostActive(accountOrder, accountFlows); ok {
		summary.MostActiveAccount = accountByID[id].IBAN
	}
	if id, ok := mostActive(locationOrder, locationFlows); ok {
		summary.MostActiveLocation = locationByID[id].Name
	}

	resp.Summary = summary
	return resp
}
