package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LibertytechX/seeds-metrics-sub003/src/models"
)

func TestIndicatorProcessor_FIMR(t *testing.T) {
	p := NewIndicatorProcessor()
	today := date(2026, time.March, 1)
	due := date(2026, time.February, 2)

	cases := []struct {
		name         string
		firstDue     *time.Time
		firstPayment *time.Time
		wantTagged   bool
		wantMissed   bool
	}{
		{
			name:         "paid on the due date",
			firstDue:     &due,
			firstPayment: timePtr(date(2026, time.February, 2)),
			wantTagged:   false,
			wantMissed:   false,
		},
		{
			name:         "paid early",
			firstDue:     &due,
			firstPayment: timePtr(date(2026, time.January, 28)),
			wantTagged:   false,
			wantMissed:   false,
		},
		{
			name:         "paid late",
			firstDue:     &due,
			firstPayment: timePtr(date(2026, time.February, 10)),
			wantTagged:   true,
			wantMissed:   true,
		},
		{
			name:       "no payment, due date passed",
			firstDue:   &due,
			wantTagged: true,
			wantMissed: true,
		},
		{
			name:       "no payment, due date in the future",
			firstDue:   timePtr(date(2026, time.March, 15)),
			wantTagged: false,
			wantMissed: true,
		},
		{
			name:       "unresolvable due date surfaces for repair",
			firstDue:   nil,
			wantTagged: true,
			wantMissed: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := models.LedgerSummary{FirstPaymentDate: tc.firstPayment}
			got := p.Process(tc.firstDue, ledger, 0, today)
			assert.Equal(t, tc.wantTagged, got.FIMRTagged)
			assert.Equal(t, tc.wantMissed, got.FirstPaymentMissed)
		})
	}
}

func TestIndicatorProcessor_EarlyIndicatorWindow(t *testing.T) {
	p := NewIndicatorProcessor()
	due := date(2026, time.February, 2)
	today := date(2026, time.March, 1)
	ledger := models.LedgerSummary{}

	for dpd, want := range map[int]bool{0: false, 1: true, 3: true, 6: true, 7: false, 30: false} {
		got := p.Process(&due, ledger, dpd, today)
		assert.Equal(t, want, got.EarlyIndicatorTagged, "dpd=%d", dpd)
	}
}

func TestIndicatorProcessor_DaysSinceDue(t *testing.T) {
	p := NewIndicatorProcessor()
	today := date(2026, time.March, 1)

	due := date(2026, time.February, 2)
	got := p.Process(&due, models.LedgerSummary{}, 0, today)
	require.NotNil(t, got.DaysSinceDue)
	assert.Equal(t, 27, *got.DaysSinceDue)

	// Future due dates clamp at zero rather than going negative.
	future := date(2026, time.March, 20)
	got = p.Process(&future, models.LedgerSummary{}, 0, today)
	require.NotNil(t, got.DaysSinceDue)
	assert.Equal(t, 0, *got.DaysSinceDue)

	got = p.Process(nil, models.LedgerSummary{}, 0, today)
	assert.Nil(t, got.DaysSinceDue)
}

func TestIndicatorProcessor_CarriesFirstPaymentDate(t *testing.T) {
	p := NewIndicatorProcessor()
	first := date(2026, time.February, 5)
	due := date(2026, time.February, 2)

	got := p.Process(&due, models.LedgerSummary{FirstPaymentDate: &first}, 0, date(2026, time.March, 1))
	require.NotNil(t, got.FirstPaymentReceivedDate)
	assert.Equal(t, first, *got.FirstPaymentReceivedDate)
}

func timePtr(t time.Time) *time.Time { return &t }
