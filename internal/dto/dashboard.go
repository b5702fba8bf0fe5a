package dto

import "github.com/shopspring/decimal"

// AccountFlow is the inflow/outflow total for one account across the
// filtered statement set.
type AccountFlow struct {
	AccountID string          `json:"account_id"`
	IBAN      string          `json:"iban"`
	Currency  string          `json:"currency"`
	Inflow    decimal.Decimal `json:"inflow"`
	Outflow   decimal.Decimal `json:"outflow"`
}

type LocationFlow struct {
	LocationID string          `json:"location_id"`
	Name       string          `json:"name"`
	Inflow     decimal.Decimal `json:"inflow"`
	Outflow    decimal.Decimal `json:"outflow"`
}

// FlowNode and FlowLink describe the directed money-flow graph the Sankey
// view renders. A location used both as a source and a destination appears
// as two distinct nodes so the graph stays acyclic.
type FlowNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"kind"` // "account", "source", "destination"
}

type FlowLink struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Value  decimal.Decimal `json:"value"`
}

type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

type DashboardSummary struct {
	TransactionCount     int             `json:"transaction_count"`
	TotalInflow          decimal.Decimal `json:"total_inflow"`
	TotalOutflow         decimal.Decimal `json:"total_outflow"`
	NetFlow              decimal.Decimal `json:"net_flow"`
	AvgInflowPerAccount  decimal.Decimal `json:"avg_inflow_per_account"`
	AvgOutflowPerAccount decimal.Decimal `json:"avg_outflow_per_account"`
	AvgPerTransaction    decimal.Decimal `json:"avg_per_transaction"`
	LargestInflow        decimal.Decimal `json:"largest_inflow"`
	LargestOutflow       decimal.Decimal `json:"largest_outflow"`
	MostActiveAccount    string          `json:"most_active_account,omitempty"`
	MostActiveLocation   string          `json:"most_active_location,omitempty"`
	FirstTransaction     string          `json:"first_transaction,omitempty"`
	LastTransaction      string          `json:"last_transaction,omitempty"`
}

type DashboardResponse struct {
	Accounts  []AccountFlow    `json:"accounts"`
	Locations []LocationFlow   `json:"locations"`
	Flow      FlowGraph        `json:"flow"`
	Summary   DashboardSummary `json:"summary"`
}
