package processors

import (
	"time"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
)

// IndicatorProcessor tags first-installment misses (FIMR) and the 1-6 DPD
// early-delinquency window.
type IndicatorProcessor struct{}

func NewIndicatorProcessor() *IndicatorProcessor { return &IndicatorProcessor{} }

func (p *IndicatorProcessor) Process(firstDueDate *time.Time, ledger models.LedgerSummary, currentDPD int, today time.Time) models.IndicatorResult {
	result := models.IndicatorResult{
		FirstPaymentReceivedDate: ledger.FirstPaymentDate,
	}

	result.FIMRTagged = fimrTagged(firstDueDate, ledger.FirstPaymentDate, today)
	result.FirstPaymentMissed = firstPaymentMissed(firstDueDate, ledger.FirstPaymentDate)
	result.EarlyIndicatorTagged = currentDPD >= 1 && currentDPD <= 6

	if firstDueDate != nil {
		days := utils.CalendarDays(*firstDueDate, today)
		if days < 0 {
			days = 0
		}
		result.DaysSinceDue = &days
	}

	return result
}

// fimrTagged: a loan misses its first installment when no repayment arrived
// on or before the first due date. Without a resolvable due date the loan is
// tagged so it surfaces for data repair rather than silently passing.
func fimrTagged(firstDueDate, firstPaymentDate *time.Time, today time.Time) bool {
	if firstDueDate == nil {
		return true
	}
	if firstPaymentDate != nil && !firstPaymentDate.After(*firstDueDate) {
		return false
	}
	if firstPaymentDate == nil && !firstDueDate.Before(today) {
		// Due date still in the future, nothing missed yet.
		return false
	}
	return true
}

func firstPaymentMissed(firstDueDate, firstPaymentDate *time.Time) bool {
	if firstPaymentDate == nil || firstDueDate == nil {
		return true
	}
	return firstPaymentDate.After(*firstDueDate)
}
