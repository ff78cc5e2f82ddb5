package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

// A 23-business-day loan: 10,000 principal at 10% flat plus a 500 fee, so the
// total expected repayment is 11,500 and the daily amount 500.
func testLoan() *models.Loan {
	rate := dec("0.10")
	fee := dec("500")
	return &models.Loan{
		LoanID:           "L-1",
		LoanAmount:       dec("10000"),
		InterestRate:     &rate,
		FeeAmount:        &fee,
		DisbursementDate: date(2026, time.January, 5),  // Monday
		MaturityDate:     date(2026, time.February, 4), // Wednesday
		LoanTermDays:     23,
	}
}

func TestBalanceProcessor_MidTermBalances(t *testing.T) {
	p := NewBalanceProcessor()
	firstDue := date(2026, time.January, 12)
	today := date(2026, time.January, 23)
	ledger := models.LedgerSummary{
		TotalPrincipalPaid: dec("2000"),
		TotalInterestPaid:  dec("500"),
		TotalFeesPaid:      dec("500"),
		TotalRepayments:    dec("3000"),
	}

	got := p.Process(testLoan(), ledger, &firstDue, today)

	assert.Equal(t, "11500", got.RepaymentAmount.String())
	assert.Equal(t, "500", got.DailyRepaymentAmount.String())
	assert.Equal(t, 10, got.RepaymentDaysDueToday)
	assert.Equal(t, 23, got.RealLoanTenureDays)

	assert.Equal(t, "8000", got.PrincipalOutstanding.String())
	assert.Equal(t, "500", got.InterestOutstanding.String())
	assert.True(t, got.FeesOutstanding.IsZero())
	assert.Equal(t, "8500", got.TotalOutstanding.String())

	// 10 days due at 500/day is 5000 expected; 3000 paid leaves 2000 behind.
	assert.Equal(t, "2000", got.ActualOutstanding.String())
}

func TestBalanceProcessor_OverpaymentFloorsAtZero(t *testing.T) {
	p := NewBalanceProcessor()
	firstDue := date(2026, time.January, 12)
	today := date(2026, time.January, 23)
	ledger := models.LedgerSummary{
		TotalPrincipalPaid: dec("12000"),
		TotalInterestPaid:  dec("2000"),
		TotalFeesPaid:      dec("600"),
		TotalRepayments:    dec("12000"),
	}

	got := p.Process(testLoan(), ledger, &firstDue, today)

	assert.True(t, got.PrincipalOutstanding.IsZero())
	assert.True(t, got.InterestOutstanding.IsZero())
	assert.True(t, got.FeesOutstanding.IsZero())
	assert.True(t, got.ActualOutstanding.IsZero())
}

func TestBalanceProcessor_NothingDueBeforeFirstDueDate(t *testing.T) {
	p := NewBalanceProcessor()
	firstDue := date(2026, time.January, 12)
	today := date(2026, time.January, 8)

	got := p.Process(testLoan(), models.LedgerSummary{}, &firstDue, today)

	assert.Equal(t, 0, got.RepaymentDaysDueToday)
	assert.True(t, got.ActualOutstanding.IsZero())
}

func TestBalanceProcessor_AccrualCapsAtMaturity(t *testing.T) {
	p := NewBalanceProcessor()
	firstDue := date(2026, time.January, 12)
	// Well past maturity: due days stop accruing at the maturity date.
	today := date(2026, time.June, 1)

	got := p.Process(testLoan(), models.LedgerSummary{}, &firstDue, today)

	// Jan 12 through Feb 4 has 18 business days.
	assert.Equal(t, 18, got.RepaymentDaysDueToday)
	assert.Equal(t, "9000", got.ActualOutstanding.String())
}

func TestBalanceProcessor_NilFirstDueDate(t *testing.T) {
	p := NewBalanceProcessor()
	today := date(2026, time.January, 23)

	got := p.Process(testLoan(), models.LedgerSummary{}, nil, today)

	assert.Equal(t, 0, got.RepaymentDaysDueToday)
	assert.True(t, got.ActualOutstanding.IsZero())
}

func TestBalanceProcessor_ZeroTermLoanHasNoDailyAmount(t *testing.T) {
	p := NewBalanceProcessor()
	loan := testLoan()
	loan.LoanTermDays = 0
	firstDue := date(2026, time.January, 12)

	got := p.Process(loan, models.LedgerSummary{}, &firstDue, date(2026, time.January, 23))

	assert.True(t, got.DailyRepaymentAmount.IsZero())
	assert.True(t, got.ActualOutstanding.IsZero())
}

func TestBalanceProcessor_NilRateAndFeeTreatedAsZero(t *testing.T) {
	p := NewBalanceProcessor()
	loan := testLoan()
	loan.InterestRate = nil
	loan.FeeAmount = nil
	firstDue := date(2026, time.January, 12)

	got := p.Process(loan, models.LedgerSummary{}, &firstDue, date(2026, time.January, 23))

	assert.Equal(t, "10000", got.RepaymentAmount.String())
	assert.True(t, got.InterestOutstanding.IsZero())
	assert.True(t, got.FeesOutstanding.IsZero())
}
