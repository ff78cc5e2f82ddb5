package processors

import (
	"time"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

// DueDateProcessor resolves a loan's first-installment due date. Priority:
// the externally-synced value, then the earliest schedule installment, then a
// calendar-day offset from disbursement.
type DueDateProcessor struct {
	fallbackOffsetDays int
}

func NewDueDateProcessor(fallbackOffsetDays int) *DueDateProcessor {
	return &DueDateProcessor{fallbackOffsetDays: fallbackOffsetDays}
}

// Resolve returns nil only when the disbursement date itself is missing.
func (p *DueDateProcessor) Resolve(loan *models.Loan, schedule []models.ScheduleEntry) *time.Time {
	if loan.SyncedFirstDueDate != nil {
		due := *loan.SyncedFirstDueDate
		return &due
	}

	if len(schedule) > 0 {
		min := schedule[0].DueDate
		for _, entry := range schedule[1:] {
			if entry.DueDate.Before(min) {
				min = entry.DueDate
			}
		}
		return &min
	}

	if loan.DisbursementDate.IsZero() {
		return nil
	}
	due := loan.DisbursementDate.AddDate(0, 0, p.fallbackOffsetDays)
	return &due
}
