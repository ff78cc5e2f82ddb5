package processors

import (
	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

// LedgerProcessor aggregates a loan's repayment ledger into the totals the
// rest of the recomputation chain consumes. Reversed rows contribute nothing.
type LedgerProcessor struct{}

func NewLedgerProcessor() *LedgerProcessor { return &LedgerProcessor{} }

// Process sums the non-reversed repayments. An empty or missing ledger yields
// zero totals and nil payment dates, never an error.
func (p *LedgerProcessor) Process(repayments []models.Repayment) models.LedgerSummary {
	summary := models.LedgerSummary{}

	for i := range repayments {
		r := &repayments[i]
		if r.IsReversed {
			continue
		}

		summary.TotalPrincipalPaid = summary.TotalPrincipalPaid.Add(r.PrincipalPaid)
		summary.TotalInterestPaid = summary.TotalInterestPaid.Add(r.InterestPaid)
		summary.TotalFeesPaid = summary.TotalFeesPaid.Add(r.FeesPaid)
		summary.TotalRepayments = summary.TotalRepayments.Add(r.PaymentAmount)
		summary.TotalWaived = summary.TotalWaived.Add(r.WaiverAmount)
		summary.RepaymentCount++

		paymentDate := r.PaymentDate
		if summary.FirstPaymentDate == nil || paymentDate.Before(*summary.FirstPaymentDate) {
			summary.FirstPaymentDate = &paymentDate
		}
		if summary.LastPaymentDate == nil || paymentDate.After(*summary.LastPaymentDate) {
			summary.LastPaymentDate = &paymentDate
		}
	}

	return summary
}
