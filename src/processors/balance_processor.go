package processors

import (
	"time"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
	"github.com/LibertytechX/seeds-metrics-sub003/src/utils"
	"github.com/shopspring/decimal"
)

// BalanceProcessor derives the outstanding-balance block from a loan's terms
// and its ledger summary. Pure function of its inputs; every outstanding
// figure is floored at zero so over-payment is never observable as a negative
// balance.
type BalanceProcessor struct{}

func NewBalanceProcessor() *BalanceProcessor { return &BalanceProcessor{} }

// Process computes the balances as of today. firstDueDate may be nil (no
// disbursement date on record), in which case nothing is due yet.
func (p *BalanceProcessor) Process(loan *models.Loan, ledger models.LedgerSummary, firstDueDate *time.Time, today time.Time) models.BalanceResult {
	interestRate := loan.InterestRateOrZero()
	feeAmount := loan.FeeAmountOrZero()

	result := models.BalanceResult{
		PrincipalOutstanding: floorZero(loan.LoanAmount.Sub(ledger.TotalPrincipalPaid)),
		InterestOutstanding:  floorZero(loan.LoanAmount.Mul(interestRate).Sub(ledger.TotalInterestPaid)),
		FeesOutstanding:      floorZero(feeAmount.Sub(ledger.TotalFeesPaid)),
	}
	result.TotalOutstanding = result.PrincipalOutstanding.
		Add(result.InterestOutstanding).
		Add(result.FeesOutstanding)

	// Total expected repayment: principal plus interest plus fees.
	result.RepaymentAmount = loan.LoanAmount.
		Mul(decimal.NewFromInt(1).Add(interestRate)).
		Add(feeAmount)

	// loan_term_days is a business-day count.
	if loan.LoanTermDays > 0 {
		result.DailyRepaymentAmount = result.RepaymentAmount.Div(decimal.NewFromInt(int64(loan.LoanTermDays)))
	}

	if firstDueDate != nil {
		result.RepaymentDaysDueToday = utils.BusinessDays(*firstDueDate, utils.MinDate(today, loan.MaturityDate))
	}

	result.RealLoanTenureDays = utils.BusinessDays(loan.DisbursementDate, loan.MaturityDate)
	result.BusinessDaysSinceDisbursement = utils.BusinessDays(loan.DisbursementDate, today)

	// Pro-rata amount that should have been paid by now, minus what was.
	expectedToDate := result.DailyRepaymentAmount.Mul(decimal.NewFromInt(int64(result.RepaymentDaysDueToday)))
	result.ActualOutstanding = floorZero(expectedToDate.Sub(ledger.TotalRepayments))

	return result
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
