// src/services/snapshot_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/LibertytechX/seeds-metrics-sub003/src/config"
	"github.com/LibertytechX/seeds-metrics-sub003/src/logger"
	"github.com/LibertytechX/seeds-metrics-sub003/src/model"
	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

const (
	officerDashboardCacheKey   = "dashboard:officers"
	portfolioDashboardCacheKey = "dashboard:portfolio"
)

type snapshotService struct {
	db             *sql.DB
	dashboardCache *cache.Cache
	now            func() time.Time
}

func NewSnapshotService(db *sql.DB) SnapshotService {
	ttl := config.Cfg.SnapshotCacheTTL
	return &snapshotService{
		db:             db,
		dashboardCache: cache.New(ttl, 2*ttl),
		now:            time.Now,
	}
}

// RebuildSnapshots aggregates raw metrics per officer, scores them, rolls the
// portfolio up and swaps both snapshot tables in one transaction.
func (s *snapshotService) RebuildSnapshots(ctx context.Context, runID string) error {
	aggregates, err := model.AggregateOfficerMetrics(ctx, s.db, config.Cfg.MaterialOutstandingThreshold)
	if err != nil {
		return fmt.Errorf("aggregate officer metrics: %w", err)
	}

	calculatedAt := s.now().UTC()
	snapshots := make([]models.OfficerSnapshot, 0, len(aggregates))
	for i := range aggregates {
		agg := &aggregates[i]
		raw := agg.Raw
		calculated := ScoreOfficer(&raw)
		snapshots = append(snapshots, models.OfficerSnapshot{
			RunID:        runID,
			OfficerID:    agg.Officer.OfficerID,
			OfficerName:  agg.Officer.OfficerName,
			Region:       agg.Officer.Region,
			Branch:       agg.Officer.Branch,
			CalculatedAt: calculatedAt,
			Raw:          &raw,
			Calculated:   calculated,
			RiskBand:     models.RiskBand(calculated.RiskScore),
		})
	}

	portfolio := RollUpPortfolio(runID, calculatedAt, snapshots)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if err := model.ReplaceOfficerSnapshots(ctx, tx, snapshots); err != nil {
		return fmt.Errorf("replace officer snapshots: %w", err)
	}
	if err := model.ReplacePortfolioSnapshot(ctx, tx, portfolio); err != nil {
		return fmt.Errorf("replace portfolio snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.InvalidateCache()
	logger.InfoFromContext(ctx, "snapshots rebuilt", "runID", runID, "officers", len(snapshots))
	return nil
}

func (s *snapshotService) GetOfficerDashboard(ctx context.Context) ([]models.OfficerSnapshot, error) {
	if cached, found := s.dashboardCache.Get(officerDashboardCacheKey); found {
		if snapshots, ok := cached.([]models.OfficerSnapshot); ok {
			return snapshots, nil
		}
	}

	snapshots, err := model.GetOfficerSnapshots(ctx, s.db)
	if err != nil {
		return nil, err
	}
	s.dashboardCache.Set(officerDashboardCacheKey, snapshots, cache.DefaultExpiration)
	return snapshots, nil
}

func (s *snapshotService) GetPortfolioDashboard(ctx context.Context) (*models.PortfolioSnapshot, error) {
	if cached, found := s.dashboardCache.Get(portfolioDashboardCacheKey); found {
		if snap, ok := cached.(*models.PortfolioSnapshot); ok {
			return snap, nil
		}
	}

	snap, err := model.GetPortfolioSnapshot(ctx, s.db)
	if err != nil {
		return nil, err
	}
	s.dashboardCache.Set(portfolioDashboardCacheKey, snap, cache.DefaultExpiration)
	return snap, nil
}

func (s *snapshotService) InvalidateCache() {
	s.dashboardCache.Delete(officerDashboardCacheKey)
	s.dashboardCache.Delete(portfolioDashboardCacheKey)
}

// ScoreOfficer turns one officer's raw aggregates into ratios and composite
// scores. Every ratio guards its denominator; an officer with no book scores
// zeroes rather than NaN.
func ScoreOfficer(raw *models.OfficerRawMetrics) *models.OfficerCalculatedMetrics {
	calculated := &models.OfficerCalculatedMetrics{}

	if raw.Disbursed > 0 {
		calculated.FIMR = float64(raw.FirstMiss) / float64(raw.Disbursed)
	}
	if raw.AmountDue7d > 0 {
		calculated.Slippage = raw.Dpd1to6Bal / raw.AmountDue7d
	}
	if raw.PrevDpd1to6Bal > 0 {
		calculated.Roll = raw.MovedTo7to30 / raw.PrevDpd1to6Bal
	}
	if raw.FeesDue > 0 {
		calculated.FRR = raw.FeesCollected / raw.FeesDue
	}
	if raw.Par15MidMonth > 0 {
		calculated.AYR = (raw.InterestCollected + raw.FeesCollected) / raw.Par15MidMonth
	}
	calculated.Yield = raw.InterestCollected + raw.FeesCollected
	calculated.Overdue15dVolume = raw.Overdue15d
	if raw.TotalPortfolio > 0 {
		calculated.PORR = raw.Overdue15d / raw.TotalPortfolio
	}

	calculated.OnTimeRate = 1.0 - calculated.Slippage
	if calculated.OnTimeRate < 0 {
		calculated.OnTimeRate = 0
	}

	// Officer-level delay rate over the behaviour averages. Negative values
	// are allowed and feed the risk penalty below.
	if raw.AvgLoanAge > 0 {
		ratio := raw.AvgDaysSinceLastRepayment / raw.AvgLoanAge
		calculated.RepaymentDelayRate = (1.0 - ratio/0.25) * 100
	}

	calculated.RiskScoreNorm = riskScoreNorm(calculated)
	calculated.RiskScore = int(math.Round(calculated.RiskScoreNorm * 100))
	calculated.DQI = dataQualityIndex(calculated)

	return calculated
}

// riskScoreNorm starts at a perfect 1.0 and subtracts weighted penalties:
// PORR 0.20, FIMR 0.15, Roll 0.10, delay rate 0.40, AYR 0.15.
func riskScoreNorm(calc *models.OfficerCalculatedMetrics) float64 {
	score := 1.0

	score -= calc.PORR * 0.20
	score -= calc.FIMR * 0.15
	score -= calc.Roll * 0.10

	// A delay rate at or below 100% draws a proportional penalty, capped at
	// the full 0.40 for negative rates. Above 100% means repayments arrive
	// faster than expected, so no penalty.
	if calc.RepaymentDelayRate <= 100 {
		penalty := (1.0 - calc.RepaymentDelayRate/100.0) * 0.40
		if penalty > 0.40 {
			penalty = 0.40
		}
		score -= penalty
	}

	ayr := calc.AYR
	if ayr > 1.0 {
		ayr = 1.0
	}
	score -= (1.0 - ayr) * 0.15

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// dataQualityIndex blends risk score (0.50), on-time rate (0.35) and the
// FIMR complement (0.15) onto a 0-100 scale.
func dataQualityIndex(calc *models.OfficerCalculatedMetrics) int {
	dqi := calc.RiskScoreNorm*0.50 + calc.OnTimeRate*0.35 + (1.0-calc.FIMR)*0.15

	score := int(math.Round(dqi * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RollUpPortfolio folds the per-officer snapshots into the portfolio view.
func RollUpPortfolio(runID string, calculatedAt time.Time, officers []models.OfficerSnapshot) *models.PortfolioSnapshot {
	snap := &models.PortfolioSnapshot{
		RunID:        runID,
		CalculatedAt: calculatedAt,
	}
	if len(officers) == 0 {
		return snap
	}

	snap.TotalOfficers = len(officers)

	var totalDQI, totalRiskScore int
	var totalAYR, totalDelayRate float64
	var officersWithDelayRate int
	var topOfficer *models.TopOfficer

	for i := range officers {
		officer := &officers[i]
		calc := officer.Calculated
		raw := officer.Raw

		if calc != nil {
			snap.TotalOverdue15d += calc.Overdue15dVolume
			totalDQI += calc.DQI
			totalAYR += calc.AYR
			totalRiskScore += calc.RiskScore

			if topOfficer == nil || calc.AYR > topOfficer.AYR {
				topOfficer = &models.TopOfficer{
					OfficerID: officer.OfficerID,
					Name:      officer.OfficerName,
					AYR:       calc.AYR,
				}
			}

			// Watchlist is the Red band only.
			if calc.RiskScore < 40 {
				snap.WatchlistCount++
				if raw != nil {
					snap.WatchlistPortfolio += raw.TotalPortfolio
				}
			}

			if calc.RepaymentDelayRate != 0 {
				totalDelayRate += calc.RepaymentDelayRate
				officersWithDelayRate++
			}
		}

		if raw != nil {
			snap.TotalLoans += raw.Disbursed
			snap.TotalPortfolio += raw.TotalPortfolio
		}

		if officer.AtRisk() {
			snap.AtRiskOfficersCount++
		}
	}

	snap.AvgDQI = totalDQI / len(officers)
	snap.AvgAYR = totalAYR / float64(len(officers))
	snap.AvgRiskScore = totalRiskScore / len(officers)
	snap.TopOfficer = topOfficer
	if officersWithDelayRate > 0 {
		snap.AvgRepaymentDelayRate = totalDelayRate / float64(officersWithDelayRate)
	}
	snap.AtRiskOfficersPercentage = float64(snap.AtRiskOfficersCount) / float64(len(officers)) * 100

	return snap
}
