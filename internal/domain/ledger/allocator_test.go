package ledger

import (
	"testing"
	"time"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDebtLine(t *testing.T, tenantID uuid.UUID, customer string, debt int64, occurredAt time.Time) *SaleLine {
	t.Helper()
	line, err := NewSaleLine(
		tenantID,
		uuid.New(),
		uuid.New(),
		"Test Product",
		customer,
		"",
		decimal.NewFromInt(1),
		decimal.NewFromInt(debt),
		valueobject.NewMoneyUZSFromInt(debt),
		valueobject.ZeroUZS(),
		occurredAt,
	)
	require.NoError(t, err)
	return line
}

func summarize(t *testing.T, lines ...*SaleLine) *DebtorSummary {
	t.Helper()
	summaries := NewAggregator().Aggregate(lines)
	require.Len(t, summaries, 1)
	return summaries[0]
}

func TestAllocator(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()

	t.Run("partial payment retires oldest line first", func(t *testing.T) {
		older := makeDebtLine(t, tenantID, "Karim", 3000, now.Add(-48*time.Hour))
		newer := makeDebtLine(t, tenantID, "Karim", 7000, now.Add(-24*time.Hour))
		summary := summarize(t, older, newer)

		result, err := NewAllocator().Allocate(summary, valueobject.NewMoneyUZSFromInt(5000))
		require.NoError(t, err)

		require.Len(t, result.Mutations, 2)
		assert.Equal(t, older.ID, result.Mutations[0].LineID)
		assert.True(t, result.Mutations[0].AppliedAmount.Equal(decimal.NewFromInt(3000)))
		assert.True(t, result.Mutations[0].NewDebt.IsZero())
		assert.True(t, result.Mutations[0].NewPaidAmount.Equal(decimal.NewFromInt(3000)))

		assert.Equal(t, newer.ID, result.Mutations[1].LineID)
		assert.True(t, result.Mutations[1].AppliedAmount.Equal(decimal.NewFromInt(2000)))
		assert.True(t, result.Mutations[1].NewDebt.Equal(decimal.NewFromInt(5000)))
		assert.True(t, result.Mutations[1].NewPaidAmount.Equal(decimal.NewFromInt(2000)))

		assert.True(t, result.TotalAllocated.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, []uuid.UUID{older.ID}, result.LinesSettled)
		assert.Equal(t, []uuid.UUID{newer.ID}, result.LinesPartial)
	})

	t.Run("payment equal to total debt settles every line", func(t *testing.T) {
		older := makeDebtLine(t, tenantID, "Karim", 3000, now.Add(-48*time.Hour))
		newer := makeDebtLine(t, tenantID, "Karim", 7000, now.Add(-24*time.Hour))
		summary := summarize(t, older, newer)

		result, err := NewAllocator().Allocate(summary, valueobject.NewMoneyUZSFromInt(10000))
		require.NoError(t, err)

		assert.True(t, older.Debt.IsZero())
		assert.True(t, newer.Debt.IsZero())
		assert.True(t, result.TotalAllocated.Equal(decimal.NewFromInt(10000)))
		assert.Len(t, result.LinesSettled, 2)
		assert.Empty(t, result.LinesPartial)
		assert.True(t, summary.TotalDebt.IsZero())
	})

	t.Run("payment exceeding total debt is rejected with no mutation", func(t *testing.T) {
		older := makeDebtLine(t, tenantID, "Karim", 3000, now.Add(-48*time.Hour))
		newer := makeDebtLine(t, tenantID, "Karim", 7000, now.Add(-24*time.Hour))
		summary := summarize(t, older, newer)

		_, err := NewAllocator().Allocate(summary, valueobject.NewMoneyUZSFromInt(10001))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidPayment)

		assert.True(t, older.Debt.Equal(decimal.NewFromInt(3000)))
		assert.True(t, newer.Debt.Equal(decimal.NewFromInt(7000)))
		assert.True(t, older.PaidAmount.IsZero())
		assert.True(t, newer.PaidAmount.IsZero())
	})

	t.Run("zero payment is rejected", func(t *testing.T) {
		summary := summarize(t, makeDebtLine(t, tenantID, "Karim", 3000, now))

		_, err := NewAllocator().Allocate(summary, valueobject.ZeroUZS())
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidPayment)
	})

	t.Run("negative payment is rejected", func(t *testing.T) {
		summary := summarize(t, makeDebtLine(t, tenantID, "Karim", 3000, now))

		_, err := NewAllocator().Allocate(summary, valueobject.NewMoneyUZSFromInt(-500))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidPayment)
	})

	t.Run("allocation proceeds oldest first for out-of-order input", func(t *testing.T) {
		oldest := makeDebtLine(t, tenantID, "Karim", 1000, now.Add(-72*time.Hour))
		middle := makeDebtLine(t, tenantID, "Karim", 1000, now.Add(-48*time.Hour))
		newest := makeDebtLine(t, tenantID, "Karim", 1000, now.Add(-24*time.Hour))

		// Feed lines newest first; allocation must still walk oldest first
		summary := &DebtorSummary{
			NormalizedName: "karim",
			DisplayName:    "Karim",
			TotalDebt:      decimal.NewFromInt(3000),
			TotalPaid:      decimal.Zero,
			FirstActivity:  oldest.OccurredAt,
			LastActivity:   newest.OccurredAt,
			Lines:          []*SaleLine{newest, middle, oldest},
		}

		result, err := NewAllocator().Allocate(summary, valueobject.NewMoneyUZSFromInt(1500))
		require.NoError(t, err)

		require.Len(t, result.Mutations, 2)
		assert.Equal(t, oldest.ID, result.Mutations[0].LineID)
		assert.Equal(t, middle.ID, result.Mutations[1].LineID)
		assert.True(t, oldest.Debt.IsZero())
		assert.True(t, middle.Debt.Equal(decimal.NewFromInt(500)))
		assert.True(t, newest.Debt.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("applied amounts sum exactly to the payment", func(t *testing.T) {
		lines := []*SaleLine{
			makeDebtLine(t, tenantID, "Karim", 1250, now.Add(-96*time.Hour)),
			makeDebtLine(t, tenantID, "Karim", 4999, now.Add(-72*time.Hour)),
			makeDebtLine(t, tenantID, "Karim", 3751, now.Add(-48*time.Hour)),
		}
		summary := summarize(t, lines...)

		payment := decimal.NewFromInt(8000)
		result, err := NewAllocator().Allocate(summary, valueobject.NewMoneyUZS(payment))
		require.NoError(t, err)

		applied := decimal.Zero
		for _, m := range result.Mutations {
			applied = applied.Add(m.AppliedAmount)
		}
		assert.True(t, applied.Equal(payment))
		assert.True(t, result.TotalAllocated.Equal(payment))
	})

	t.Run("line invariant holds after every allocation", func(t *testing.T) {
		lines := []*SaleLine{
			makeDebtLine(t, tenantID, "Karim", 3000, now.Add(-48*time.Hour)),
			makeDebtLine(t, tenantID, "Karim", 7000, now.Add(-24*time.Hour)),
		}
		summary := summarize(t, lines...)

		_, err := NewAllocator().Allocate(summary, valueobject.NewMoneyUZSFromInt(5000))
		require.NoError(t, err)

		for _, line := range lines {
			assert.NoError(t, line.CheckInvariant())
			assert.True(t, line.PaidAmount.Add(line.Debt).Equal(line.TotalAmount))
			assert.False(t, line.Debt.IsNegative())
		}
	})

	t.Run("already settled lines are skipped", func(t *testing.T) {
		settled := makeDebtLine(t, tenantID, "Karim", 2000, now.Add(-72*time.Hour))
		require.NoError(t, settled.ApplyPayment(valueobject.NewMoneyUZSFromInt(2000)))
		open := makeDebtLine(t, tenantID, "Karim", 3000, now.Add(-24*time.Hour))

		summary := &DebtorSummary{
			NormalizedName: "karim",
			DisplayName:    "Karim",
			TotalDebt:      decimal.NewFromInt(3000),
			TotalPaid:      decimal.NewFromInt(2000),
			FirstActivity:  settled.OccurredAt,
			LastActivity:   open.OccurredAt,
			Lines:          []*SaleLine{settled, open},
		}

		result, err := NewAllocator().Allocate(summary, valueobject.NewMoneyUZSFromInt(1000))
		require.NoError(t, err)

		require.Len(t, result.Mutations, 1)
		assert.Equal(t, open.ID, result.Mutations[0].LineID)
		assert.True(t, settled.PaidAmount.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("nil summary returns error", func(t *testing.T) {
		_, err := NewAllocator().Allocate(nil, valueobject.NewMoneyUZSFromInt(100))
		assert.Error(t, err)
	})
}
