// src/services/snapshot_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

func TestScoreOfficer_EmptyBookScoresZeroRatios(t *testing.T) {
	calc := ScoreOfficer(&models.OfficerRawMetrics{})

	assert.Zero(t, calc.FIMR)
	assert.Zero(t, calc.Slippage)
	assert.Zero(t, calc.Roll)
	assert.Zero(t, calc.FRR)
	assert.Zero(t, calc.AYR)
	assert.Zero(t, calc.PORR)
	assert.Equal(t, 1.0, calc.OnTimeRate)
}

func TestScoreOfficer_PerfectOfficer(t *testing.T) {
	raw := &models.OfficerRawMetrics{
		FirstMiss:                 0,
		Disbursed:                 20,
		AmountDue7d:               100000,
		FeesCollected:             5000,
		FeesDue:                   5000,
		InterestCollected:         95000,
		TotalPortfolio:            100000,
		Par15MidMonth:             100000,
		AvgDaysSinceLastRepayment: 0,
		AvgLoanAge:                40,
	}

	calc := ScoreOfficer(raw)

	assert.Zero(t, calc.FIMR)
	assert.Zero(t, calc.Slippage)
	assert.Equal(t, 1.0, calc.FRR)
	assert.Equal(t, 1.0, calc.AYR)
	assert.Equal(t, 1.0, calc.OnTimeRate)

	// Repayments arrived same-day, so the delay rate sits at 100 and no
	// penalty applies anywhere.
	assert.InDelta(t, 100.0, calc.RepaymentDelayRate, 1e-9)
	assert.InDelta(t, 1.0, calc.RiskScoreNorm, 1e-9)
	assert.Equal(t, 100, calc.RiskScore)
	assert.Equal(t, 100, calc.DQI)
}

func TestScoreOfficer_DelayRatePenalty(t *testing.T) {
	raw := &models.OfficerRawMetrics{
		Disbursed:                 10,
		AvgDaysSinceLastRepayment: 2,
		AvgLoanAge:                32,
	}

	calc := ScoreOfficer(raw)

	// ratio 2/32 = 0.0625 against the 0.25 scale gives 75.
	assert.InDelta(t, 75.0, calc.RepaymentDelayRate, 1e-9)
	// Penalties: delay (1-0.75)*0.40 = 0.10, AYR (1-0)*0.15 = 0.15.
	assert.InDelta(t, 0.75, calc.RiskScoreNorm, 1e-9)
}

func TestScoreOfficer_ScoresRoundToNearest(t *testing.T) {
	raw := &models.OfficerRawMetrics{
		FirstMiss: 3,
		Disbursed: 4,
	}

	calc := ScoreOfficer(raw)

	// Penalties: FIMR 0.75*0.15, full delay 0.40 and AYR 0.15 leave a norm
	// of 0.3375, so the score rounds to 34 rather than truncating to 33.
	assert.InDelta(t, 0.3375, calc.RiskScoreNorm, 1e-9)
	assert.Equal(t, 34, calc.RiskScore)
	// 0.3375*0.50 + 1.0*0.35 + 0.25*0.15 = 0.55625.
	assert.Equal(t, 56, calc.DQI)
}

func TestScoreOfficer_RatioArithmetic(t *testing.T) {
	raw := &models.OfficerRawMetrics{
		FirstMiss:         3,
		Disbursed:         10,
		Dpd1to6Bal:        2000,
		AmountDue7d:       10000,
		MovedTo7to30:      500,
		PrevDpd1to6Bal:    1000,
		FeesCollected:     400,
		FeesDue:           800,
		InterestCollected: 1600,
		Overdue15d:        3000,
		TotalPortfolio:    12000,
		Par15MidMonth:     8000,
	}

	calc := ScoreOfficer(raw)

	assert.InDelta(t, 0.3, calc.FIMR, 1e-9)
	assert.InDelta(t, 0.2, calc.Slippage, 1e-9)
	assert.InDelta(t, 0.5, calc.Roll, 1e-9)
	assert.InDelta(t, 0.5, calc.FRR, 1e-9)
	assert.InDelta(t, 0.25, calc.AYR, 1e-9)
	assert.InDelta(t, 0.25, calc.PORR, 1e-9)
	assert.InDelta(t, 2000.0, calc.Yield, 1e-9)
	assert.InDelta(t, 3000.0, calc.Overdue15dVolume, 1e-9)
	assert.InDelta(t, 0.8, calc.OnTimeRate, 1e-9)
}

func TestRiskScoreNorm_DelayPenaltyCapsForNegativeRates(t *testing.T) {
	calc := &models.OfficerCalculatedMetrics{RepaymentDelayRate: -500, AYR: 1.0}

	// Only the capped delay penalty applies: 1 - 0.40 = 0.60.
	assert.InDelta(t, 0.60, riskScoreNorm(calc), 1e-9)
}

func TestRiskScoreNorm_NoDelayPenaltyAboveHundred(t *testing.T) {
	calc := &models.OfficerCalculatedMetrics{RepaymentDelayRate: 120, AYR: 1.0}

	assert.InDelta(t, 1.0, riskScoreNorm(calc), 1e-9)
}

func TestRiskScoreNorm_ClampsAtZero(t *testing.T) {
	calc := &models.OfficerCalculatedMetrics{
		PORR:               1.5,
		FIMR:               1.0,
		Roll:               2.0,
		RepaymentDelayRate: -50,
		AYR:                0,
	}

	assert.Zero(t, riskScoreNorm(calc))
}

func TestRollUpPortfolio(t *testing.T) {
	at := time.Date(2026, time.January, 23, 12, 0, 0, 0, time.UTC)
	officers := []models.OfficerSnapshot{
		{
			OfficerID:   "o1",
			OfficerName: "Amaka",
			Raw: &models.OfficerRawMetrics{
				Disbursed:                 10,
				TotalPortfolio:            50000,
				AvgDaysSinceLastRepayment: 12,
				AvgLoanAge:                30,
			},
			Calculated: &models.OfficerCalculatedMetrics{
				AYR:                0.8,
				DQI:                90,
				RiskScore:          85,
				Overdue15dVolume:   1000,
				RepaymentDelayRate: 40,
			},
		},
		{
			OfficerID:   "o2",
			OfficerName: "Bola",
			Raw: &models.OfficerRawMetrics{
				Disbursed:                 5,
				TotalPortfolio:            20000,
				AvgDaysSinceLastRepayment: 4,
				AvgLoanAge:                20,
			},
			Calculated: &models.OfficerCalculatedMetrics{
				AYR:              0.3,
				DQI:              40,
				RiskScore:        30,
				Overdue15dVolume: 5000,
			},
		},
	}

	snap := RollUpPortfolio("run-1", at, officers)

	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, 2, snap.TotalOfficers)
	assert.Equal(t, 15, snap.TotalLoans)
	assert.InDelta(t, 70000.0, snap.TotalPortfolio, 1e-9)
	assert.InDelta(t, 6000.0, snap.TotalOverdue15d, 1e-9)
	assert.Equal(t, 65, snap.AvgDQI)
	assert.InDelta(t, 0.55, snap.AvgAYR, 1e-9)
	assert.Equal(t, 57, snap.AvgRiskScore)

	require.NotNil(t, snap.TopOfficer)
	assert.Equal(t, "o1", snap.TopOfficer.OfficerID)
	assert.Equal(t, "Amaka", snap.TopOfficer.Name)

	// Only o2's risk score is under 40.
	assert.Equal(t, 1, snap.WatchlistCount)
	assert.InDelta(t, 20000.0, snap.WatchlistPortfolio, 1e-9)

	// Only o1 has a non-zero delay rate.
	assert.InDelta(t, 40.0, snap.AvgRepaymentDelayRate, 1e-9)

	// Only o1 trips the stalled-repayments flag (12 > 10 and 30 > 14).
	assert.Equal(t, 1, snap.AtRiskOfficersCount)
	assert.InDelta(t, 50.0, snap.AtRiskOfficersPercentage, 1e-9)
}

func TestRollUpPortfolio_Empty(t *testing.T) {
	snap := RollUpPortfolio("run-1", time.Now(), nil)

	assert.Equal(t, 0, snap.TotalOfficers)
	assert.Nil(t, snap.TopOfficer)
}
