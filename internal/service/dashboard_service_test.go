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

type dashboardFixture struct {
	svc       *DashboardService
	userID    uuid.UUID
	accountID uuid.UUID
	grocerID  uuid.UUID
	employer  uuid.UUID
	stmtID    uuid.UUID
}

// Seeds the demo scenario: one account, a salary of 100 from the employer
// and 40 spent at the grocer, both attached to a July 2026 statement.
func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	ctx := context.Background()

	accounts := &fakeAccountRepo{}
	stmts := &fakeStatementRepo{}
	txs := &fakeTransactionRepo{}
	locs := &fakeLocationRepo{}

	f := &dashboardFixture{
		svc:       NewDashboardService(accounts, stmts, txs, locs, zap.NewNop()),
		userID:    uuid.New(),
		accountID: uuid.New(),
		grocerID:  uuid.New(),
		employer:  uuid.New(),
		stmtID:    uuid.New(),
	}

	require.NoError(t, accounts.Create(ctx, &models.Account{
		ID:       f.accountID,
		UserID:   f.userID,
		IBAN:     "SI56192001234567892",
		Currency: models.CurrencyEUR,
		Balance:  decimal.NewFromInt(60),
	}))
	require.NoError(t, locs.Create(ctx, &models.Location{
		ID:         f.grocerID,
		UserID:     f.userID,
		Name:       "Mercator",
		Identifier: "mercator-center",
		Point:      geo.Point{Longitude: 14.51, Latitude: 46.07},
	}))
	require.NoError(t, locs.Create(ctx, &models.Location{
		ID:         f.employer,
		UserID:     f.userID,
		Name:       "Acme d.o.o.",
		Identifier: "acme",
		Point:      geo.Point{Longitude: 14.50, Latitude: 46.06},
	}))
	require.NoError(t, stmts.Create(ctx, &models.Statement{
		ID:        f.stmtID,
		UserID:    f.userID,
		AccountID: f.accountID,
		Month:     7,
		Year:      2026,
		Inflow:    decimal.NewFromInt(100),
		Outflow:   decimal.NewFromInt(40),
	}))
	require.NoError(t, txs.Create(ctx, &models.Transaction{
		ID:          uuid.New(),
		UserID:      f.userID,
		AccountID:   f.accountID,
		StatementID: &f.stmtID,
		LocationID:  &f.employer,
		Date:        time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Change:      decimal.NewFromInt(100),
		Outgoing:    false,
	}))
	require.NoError(t, txs.Create(ctx, &models.Transaction{
		ID:          uuid.New(),
		UserID:      f.userID,
		AccountID:   f.accountID,
		StatementID: &f.stmtID,
		LocationID:  &f.grocerID,
		Date:        time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
		Change:      decimal.NewFromInt(40),
		Outgoing:    true,
	}))
	return f
}

func TestDashboardAggregation(t *testing.T) {
	f := newDashboardFixture(t)

	resp, err := f.svc.Build(context.Background(), f.userID, DashboardFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.TransactionCount)
	assert.True(t, resp.Summary.TotalInflow.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.Summary.TotalOutflow.Equal(decimal.NewFromInt(40)))
	assert.True(t, resp.Summary.NetFlow.Equal(decimal.NewFromInt(60)))
	assert.True(t, resp.Summary.LargestInflow.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.Summary.LargestOutflow.Equal(decimal.NewFromInt(40)))
	assert.True(t, resp.Summary.AvgPerTransaction.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, "SI56192001234567892", resp.Summary.MostActiveAccount)
	assert.Equal(t, "2026-07-01T00:00:00Z", resp.Summary.FirstTransaction)
	assert.Equal(t, "2026-07-03T00:00:00Z", resp.Summary.LastTransaction)

	require.Len(t, resp.Accounts, 1)
	assert.True(t, resp.Accounts[0].Inflow.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.Accounts[0].Outflow.Equal(decimal.NewFromInt(40)))

	require.Len(t, resp.Locations, 2)
}

func TestDashboardFlowGraph(t *testing.T) {
	f := newDashboardFixture(t)

	resp, err := f.svc.Build(context.Background(), f.userID, DashboardFilter{})
	require.NoError(t, err)

	kinds := map[string]string{}
	for _, n := range resp.Flow.Nodes {
		kinds[n.ID] = n.Kind
	}
	acctNode := "acct:" + f.accountID.String()
	assert.Equal(t, "account", kinds[acctNode])
	assert.Equal(t, "source", kinds["loc:in:"+f.employer.String()])
	assert.Equal(t, "destination", kinds["loc:out:"+f.grocerID.String()])
	// The grocer never pays the user, so it gets no source node.
	assert.NotContains(t, kinds, "loc:in:"+f.grocerID.String())
	assert.NotContains(t, kinds, "loc:out:"+f.employer.String())

	require.Len(t, resp.Flow.Links, 2)
	for _, l := range resp.Flow.Links {
		switch l.Target {
		case acctNode:
			assert.Equal(t, "loc:in:"+f.employer.String(), l.Source)
			assert.True(t, l.Value.Equal(decimal.NewFromInt(100)))
		case "loc:out:" + f.grocerID.String():
			assert.Equal(t, acctNode, l.Source)
			assert.True(t, l.Value.Equal(decimal.NewFromInt(40)))
		default:
			t.Fatalf("unexpected link target %s", l.Target)
		}
	}
}

func TestDashboardFilters(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	month, wrongMonth := 7, 6
	year, wrongYear := 2026, 2025

	resp, err := f.svc.Build(ctx, f.userID, DashboardFilter{Month: &month, Year: &year})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Summary.TransactionCount)

	resp, err = f.svc.Build(ctx, f.userID, DashboardFilter{Month: &wrongMonth})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.TransactionCount)
	assert.True(t, resp.Summary.NetFlow.IsZero())
	assert.Empty(t, resp.Accounts)
	assert.Empty(t, resp.Flow.Nodes)

	resp, err = f.svc.Build(ctx, f.userID, DashboardFilter{Year: &wrongYear})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.TransactionCount)

	resp, err = f.svc.Build(ctx, f.userID, DashboardFilter{AccountID: &f.accountID})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Summary.TransactionCount)

	otherAccount := uuid.New()
	resp, err = f.svc.Build(ctx, f.userID, DashboardFilter{AccountID: &otherAccount})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.TransactionCount)
}

func TestDashboardIgnoresUnattachedTransactions(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	// A transaction with no statement never contributes to the dashboard.
	loose := &models.Transaction{
		ID:        uuid.New(),
		UserID:    f.userID,
		AccountID: f.accountID,
		Date:      time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
		Change:    decimal.NewFromInt(999),
		Outgoing:  true,
	}
	txs := f.svc.txRepo.(*fakeTransactionRepo)
	require.NoError(t, txs.Create(ctx, loose))

	resp, err := f.svc.Build(ctx, f.userID, DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Summary.TransactionCount)
	assert.True(t, resp.Summary.TotalOutflow.Equal(decimal.NewFromInt(40)))
}
