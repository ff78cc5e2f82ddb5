package processors

import (
	"math"
	"time"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
)

// DPDProcessor derives days-past-due from the linear amortization model, or
// from the installment schedule when one exists. It also maintains the
// lifetime maximum and the once-per-day previous_dpd snapshot.
type DPDProcessor struct{}

func NewDPDProcessor() *DPDProcessor { return &DPDProcessor{} }

// Process computes the DPD block. prior is the loan as currently persisted;
// its CurrentDPD, PreviousDPD, MaxDPDEver and DerivedUpdatedAt feed the
// snapshot and monotonicity rules.
func (p *DPDProcessor) Process(prior *models.Loan, balance models.BalanceResult, ledger models.LedgerSummary, schedule []models.ScheduleEntry, today time.Time) models.DPDResult {
	result := models.DPDResult{}

	if balance.DailyRepaymentAmount.IsPositive() {
		result.RepaymentDaysPaid = ledger.TotalRepayments.Div(balance.DailyRepaymentAmount).InexactFloat64()
	}

	// A settled loan is never past due, on either computation path.
	if balance.ActualOutstanding.Sign() <= 0 {
		result.CurrentDPD = 0
	} else if len(schedule) > 0 {
		result.CurrentDPD = scheduleDPD(schedule, today)
	} else {
		dpd := balance.RepaymentDaysDueToday - int(math.Floor(result.RepaymentDaysPaid))
		if dpd < 0 {
			dpd = 0
		}
		result.CurrentDPD = dpd
	}

	result.MaxDPDEver = prior.MaxDPDEver
	if result.CurrentDPD > result.MaxDPDEver {
		result.MaxDPDEver = result.CurrentDPD
	}

	// previous_dpd is snapshotted at most once per calendar day: only the
	// first recomputation of a new day captures yesterday's current_dpd.
	result.PreviousDPD = prior.PreviousDPD
	if prior.DerivedUpdatedAt != nil && utils.CalendarDays(*prior.DerivedUpdatedAt, today) > 0 {
		result.PreviousDPD = prior.CurrentDPD
	}

	return result
}

// scheduleDPD is the schedule-authoritative path: the worst lateness across
// unsettled installments whose due date has passed.
func scheduleDPD(schedule []models.ScheduleEntry, today time.Time) int {
	max := 0
	for i := range schedule {
		entry := &schedule[i]
		if !entry.Unsettled() {
			continue
		}
		late := utils.CalendarDays(entry.DueDate, today)
		if late > max {
			max = late
		}
	}
	return max
}
