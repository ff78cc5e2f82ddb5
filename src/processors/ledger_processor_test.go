package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLedgerProcessor_EmptyLedger(t *testing.T) {
	p := NewLedgerProcessor()
	summary := p.Process(nil)

	assert.True(t, summary.TotalRepayments.IsZero())
	assert.True(t, summary.TotalPrincipalPaid.IsZero())
	assert.Nil(t, summary.FirstPaymentDate)
	assert.Nil(t, summary.LastPaymentDate)
	assert.Equal(t, 0, summary.RepaymentCount)
}

func TestLedgerProcessor_SumsNonReversedRows(t *testing.T) {
	p := NewLedgerProcessor()
	summary := p.Process([]models.Repayment{
		{
			RepaymentID:   "r1",
			PaymentDate:   date(2026, time.March, 10),
			PaymentAmount: dec("500"),
			PrincipalPaid: dec("400"),
			InterestPaid:  dec("80"),
			FeesPaid:      dec("20"),
		},
		{
			RepaymentID:   "r2",
			PaymentDate:   date(2026, time.March, 3),
			PaymentAmount: dec("250.50"),
			PrincipalPaid: dec("200"),
			InterestPaid:  dec("50.50"),
			WaiverAmount:  dec("10"),
		},
	})

	assert.Equal(t, "750.5", summary.TotalRepayments.String())
	assert.Equal(t, "600", summary.TotalPrincipalPaid.String())
	assert.Equal(t, "130.5", summary.TotalInterestPaid.String())
	assert.Equal(t, "20", summary.TotalFeesPaid.String())
	assert.Equal(t, "10", summary.TotalWaived.String())
	assert.Equal(t, 2, summary.RepaymentCount)
	assert.Equal(t, date(2026, time.March, 3), *summary.FirstPaymentDate)
	assert.Equal(t, date(2026, time.March, 10), *summary.LastPaymentDate)
}

func TestLedgerProcessor_ReversedRowsContributeNothing(t *testing.T) {
	p := NewLedgerProcessor()
	summary := p.Process([]models.Repayment{
		{
			RepaymentID:   "r1",
			PaymentDate:   date(2026, time.March, 1),
			PaymentAmount: dec("1000"),
			PrincipalPaid: dec("1000"),
			IsReversed:    true,
		},
		{
			RepaymentID:   "r2",
			PaymentDate:   date(2026, time.March, 15),
			PaymentAmount: dec("300"),
			PrincipalPaid: dec("300"),
		},
	})

	assert.Equal(t, "300", summary.TotalRepayments.String())
	assert.Equal(t, 1, summary.RepaymentCount)
	// The reversed row's earlier date must not become the first payment date.
	assert.Equal(t, date(2026, time.March, 15), *summary.FirstPaymentDate)
}

func TestLedgerProcessor_AllReversedEqualsEmpty(t *testing.T) {
	p := NewLedgerProcessor()
	summary := p.Process([]models.Repayment{
		{RepaymentID: "r1", PaymentDate: date(2026, time.March, 1), PaymentAmount: dec("100"), IsReversed: true},
	})

	assert.True(t, summary.TotalRepayments.IsZero())
	assert.Nil(t, summary.FirstPaymentDate)
	assert.Equal(t, 0, summary.RepaymentCount)
}
