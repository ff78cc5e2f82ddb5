package models

import "time"

// TopOfficer identifies the officer with the highest AYR in a run.
type TopOfficer struct {
	OfficerID string  `json:"officer_id"`
	Name      string  `json:"name"`
	AYR       float64 `json:"ayr"`
}

// PortfolioSnapshot is the portfolio-level rollup across all officers for one
// calculation run. Fully replaced per run, never mutated in place.
type PortfolioSnapshot struct {
	RunID        string    `json:"run_id"`
	CalculatedAt time.Time `json:"calculated_at"`

	TotalOfficers  int     `json:"totalOfficers"`
	TotalLoans     int     `json:"totalLoans"`
	TotalPortfolio float64 `json:"totalPortfolio"`

	TotalOverdue15d float64 `json:"totalOverdue15d"`
	AvgDQI          int     `json:"avgDQI"`
	AvgAYR          float64 `json:"avgAYR"`
	AvgRiskScore    int     `json:"avgRiskScore"`

	TopOfficer *TopOfficer `json:"topOfficer,omitempty"`

	WatchlistCount     int     `json:"watchlistCount"`
	WatchlistPortfolio float64 `json:"watchlistPortfolio"`

	AvgRepaymentDelayRate    float64 `json:"avgRepaymentDelayRate"`
	AtRiskOfficersCount      int     `json:"atRiskOfficersCount"`
	AtRiskOfficersPercentage float64 `json:"atRiskOfficersPercentage"`
}
