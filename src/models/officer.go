package models

import "time"

// Officer is an externally-synced roster row.
type Officer struct {
	OfficerID   string    `json:"officer_id"`
	OfficerName string    `json:"officer_name"`
	Region      string    `json:"region"`
	Branch      string    `json:"branch"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OfficerRawMetrics are the per-officer inputs aggregated straight from the
// loans table (reversed repayments excluded) before any scoring.
type OfficerRawMetrics struct {
	FirstMiss                 int     `json:"firstMiss"`
	Disbursed                 int     `json:"disbursed"`
	Dpd1to6Bal                float64 `json:"dpd1to6Bal"`
	AmountDue7d               float64 `json:"amountDue7d"`
	MovedTo7to30              float64 `json:"movedTo7to30"`
	PrevDpd1to6Bal            float64 `json:"prevDpd1to6Bal"`
	FeesCollected             float64 `json:"feesCollected"`
	FeesDue                   float64 `json:"feesDue"`
	InterestCollected         float64 `json:"interestCollected"`
	Overdue15d                float64 `json:"overdue15d"`
	TotalPortfolio            float64 `json:"totalPortfolio"`
	Par15MidMonth             float64 `json:"par15MidMonth"`
	AvgTimelinessScore        float64 `json:"avgTimelinessScore"`
	AvgRepaymentHealth        float64 `json:"avgRepaymentHealth"`
	AvgDaysSinceLastRepayment float64 `json:"avgDaysSinceLastRepayment"`
	AvgLoanAge                float64 `json:"avgLoanAge"`
	ActiveLoansCount          int     `json:"activeLoansCount"`
}

// OfficerCalculatedMetrics are the scored per-officer outputs.
type OfficerCalculatedMetrics struct {
	FIMR               float64 `json:"fimr"`
	Slippage           float64 `json:"slippage"`
	Roll               float64 `json:"roll"`
	FRR                float64 `json:"frr"`
	AYR                float64 `json:"ayr"`
	PORR               float64 `json:"porr"`
	Yield              float64 `json:"yield"`
	Overdue15dVolume   float64 `json:"overdue15dVolume"`
	OnTimeRate         float64 `json:"onTimeRate"`
	RepaymentDelayRate float64 `json:"repaymentDelayRate"`
	RiskScoreNorm      float64 `json:"riskScoreNorm"`
	RiskScore          int     `json:"riskScore"`
	DQI                int     `json:"dqi"`
}

// OfficerSnapshot is a point-in-time per-officer rollup; snapshots are fully
// replaced per calculation run and reference, not own, the loans summarised.
type OfficerSnapshot struct {
	RunID        string                    `json:"run_id"`
	OfficerID    string                    `json:"officer_id"`
	OfficerName  string                    `json:"officer_name"`
	Region       string                    `json:"region"`
	Branch       string                    `json:"branch"`
	CalculatedAt time.Time                 `json:"calculated_at"`
	Raw          *OfficerRawMetrics        `json:"rawMetrics"`
	Calculated   *OfficerCalculatedMetrics `json:"calculatedMetrics"`
	RiskBand     string                    `json:"riskBand"`
}

// RiskBand maps a 0-100 risk score onto the dashboard colour bands.
func RiskBand(riskScore int) string {
	switch {
	case riskScore >= 80:
		return "Green"
	case riskScore >= 60:
		return "Watch"
	case riskScore >= 40:
		return "Amber"
	default:
		return "Red"
	}
}

// AtRisk reports whether the officer trips the portfolio delinquency flag:
// repayments have stalled (average gap over 10 days) on a seasoned book
// (average loan age over 14 days).
func (s *OfficerSnapshot) AtRisk() bool {
	return s.Raw != nil &&
		s.Raw.AvgDaysSinceLastRepayment > 10 &&
		s.Raw.AvgLoanAge > 14
}
