package processors

import (
	"time"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
)

// BehaviorProcessor scores repayment behaviour per loan: the delay rate, a
// bucketed timeliness score and a composite health score, each keyed off the
// loan's lifecycle stage.
type BehaviorProcessor struct{}

func NewBehaviorProcessor() *BehaviorProcessor { return &BehaviorProcessor{} }

func (p *BehaviorProcessor) Process(loan *models.Loan, ledger models.LedgerSummary, balance models.BalanceResult, currentDPD int, today time.Time) models.BehaviorResult {
	result := models.BehaviorResult{}

	if loan.DisbursementDate.IsZero() {
		// Without a disbursement date no age-relative score is meaningful.
		result.Stage = models.StageActive
		return result
	}

	loanAge := utils.CalendarDays(loan.DisbursementDate, today)
	result.LoanAge = loanAge

	if ledger.LastPaymentDate != nil {
		days := utils.CalendarDays(*ledger.LastPaymentDate, today)
		result.DaysSinceLastRepayment = &days
	}

	result.Stage = lifecycleStage(loanAge, balance)
	result.RepaymentDelayRate = delayRate(loanAge, result.DaysSinceLastRepayment, currentDPD)
	result.TimelinessScore = timelinessScore(result.Stage, loanAge, result.DaysSinceLastRepayment, ledger)
	result.RepaymentHealth = healthScore(result.Stage, result.TimelinessScore, currentDPD, ledger, balance)

	return result
}

func lifecycleStage(loanAgeDays int, balance models.BalanceResult) models.LifecycleStage {
	if loanAgeDays >= 0 && loanAgeDays < models.NewLoanGraceDays {
		return models.StageNew
	}
	if balance.ActualOutstanding.Sign() <= 0 && balance.TotalOutstanding.Sign() <= 0 {
		return models.StageSettled
	}
	return models.StageActive
}

// delayRate expresses how far the average of days-since-last-repayment and
// current DPD has drifted relative to a quarter of the loan's age, scaled to
// a percentage. It is deliberately unclamped: values below 0 or above 100
// signal severe drift and feed the officer risk penalty as-is.
func delayRate(loanAgeDays int, daysSinceLastRepayment *int, currentDPD int) *float64 {
	if loanAgeDays < 0 {
		return nil
	}
	if loanAgeDays == 0 {
		zero := 0.0
		return &zero
	}
	dsl := 0
	if daysSinceLastRepayment != nil {
		dsl = *daysSinceLastRepayment
	}
	avgDelay := (float64(dsl) + float64(currentDPD)) / 2.0
	rate := (1.0 - (avgDelay/float64(loanAgeDays))/0.25) * 100.0
	return &rate
}

func timelinessScore(stage models.LifecycleStage, loanAgeDays int, daysSinceLastRepayment *int, ledger models.LedgerSummary) float64 {
	if stage == models.StageNew {
		return 100
	}
	if ledger.RepaymentCount == 0 || daysSinceLastRepayment == nil {
		return 50
	}
	if loanAgeDays <= 0 {
		return 100
	}
	r := float64(*daysSinceLastRepayment) / float64(loanAgeDays)
	switch {
	case r < 0.15:
		return 95
	case r < 0.25:
		return 85
	case r < 0.35:
		return 70
	case r < 0.50:
		return 55
	case r < 0.75:
		return 35
	default:
		return 15
	}
}

func healthScore(stage models.LifecycleStage, timeliness float64, currentDPD int, ledger models.LedgerSummary, balance models.BalanceResult) float64 {
	if stage == models.StageNew {
		return 100
	}

	score := timeliness

	switch {
	case currentDPD == 0:
	case currentDPD <= 7:
		score -= 10
	case currentDPD <= 15:
		score -= 20
	case currentDPD <= 30:
		score -= 30
	default:
		score -= 40
	}

	// Penalize loans whose collected share lags the share of the term that
	// has already elapsed.
	if balance.RepaymentAmount.IsPositive() && balance.RealLoanTenureDays > 0 {
		expected := float64(balance.RepaymentDaysDueToday) / float64(balance.RealLoanTenureDays)
		paid := ledger.TotalRepayments.Div(balance.RepaymentAmount).InexactFloat64()
		if gap := expected - paid; gap > 0 {
			score -= 20 * gap
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
