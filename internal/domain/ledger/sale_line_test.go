package ledger

import (
	"testing"
	"time"

	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSaleLine(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()

	t.Run("creates line with full debt when nothing paid", func(t *testing.T) {
		line, err := NewSaleLine(tenantID, uuid.New(), uuid.New(), "Cola 1.5L", "Ali", "+998901112233",
			decimal.NewFromInt(2), decimal.NewFromInt(5000),
			valueobject.NewMoneyUZSFromInt(10000), valueobject.ZeroUZS(), now)
		require.NoError(t, err)

		assert.True(t, line.Debt.Equal(decimal.NewFromInt(10000)))
		assert.True(t, line.PaidAmount.IsZero())
		assert.Equal(t, 1, line.Version)
		assert.NoError(t, line.CheckInvariant())
		assert.Len(t, line.GetDomainEvents(), 1)
	})

	t.Run("creates line with partial payment at the counter", func(t *testing.T) {
		line, err := NewSaleLine(tenantID, uuid.New(), uuid.New(), "Cola 1.5L", "Ali", "",
			decimal.NewFromInt(1), decimal.NewFromInt(10000),
			valueobject.NewMoneyUZSFromInt(10000), valueobject.NewMoneyUZSFromInt(4000), now)
		require.NoError(t, err)

		assert.True(t, line.Debt.Equal(decimal.NewFromInt(6000)))
		assert.True(t, line.PaidAmount.Equal(decimal.NewFromInt(4000)))
		assert.NoError(t, line.CheckInvariant())
	})

	t.Run("rejects paid amount exceeding total", func(t *testing.T) {
		_, err := NewSaleLine(tenantID, uuid.New(), uuid.New(), "Cola 1.5L", "Ali", "",
			decimal.NewFromInt(1), decimal.NewFromInt(5000),
			valueobject.NewMoneyUZSFromInt(5000), valueobject.NewMoneyUZSFromInt(6000), now)
		assert.Error(t, err)
	})

	t.Run("rejects empty product name", func(t *testing.T) {
		_, err := NewSaleLine(tenantID, uuid.New(), uuid.New(), "", "Ali", "",
			decimal.NewFromInt(1), decimal.NewFromInt(5000),
			valueobject.NewMoneyUZSFromInt(5000), valueobject.ZeroUZS(), now)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewSaleLine(tenantID, uuid.New(), uuid.New(), "Cola 1.5L", "Ali", "",
			decimal.Zero, decimal.NewFromInt(5000),
			valueobject.NewMoneyUZSFromInt(5000), valueobject.ZeroUZS(), now)
		assert.Error(t, err)
	})
}

func TestSaleLineApplyPayment(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()

	t.Run("partial payment updates debt and paid amount", func(t *testing.T) {
		line := makeDebtLine(t, tenantID, "Ali", 10000, now)
		initialVersion := line.Version

		err := line.ApplyPayment(valueobject.NewMoneyUZSFromInt(4000))
		require.NoError(t, err)

		assert.True(t, line.Debt.Equal(decimal.NewFromInt(6000)))
		assert.True(t, line.PaidAmount.Equal(decimal.NewFromInt(4000)))
		assert.Equal(t, initialVersion+1, line.Version)
		assert.NoError(t, line.CheckInvariant())
	})

	t.Run("full payment settles the line", func(t *testing.T) {
		line := makeDebtLine(t, tenantID, "Ali", 10000, now)

		err := line.ApplyPayment(valueobject.NewMoneyUZSFromInt(10000))
		require.NoError(t, err)

		assert.True(t, line.IsSettled())
		assert.False(t, line.HasDebt())
	})

	t.Run("repeated partial payments keep the invariant", func(t *testing.T) {
		line := makeDebtLine(t, tenantID, "Ali", 10000, now)

		for i := 0; i < 10; i++ {
			require.NoError(t, line.ApplyPayment(valueobject.NewMoneyUZSFromInt(1000)))
			require.NoError(t, line.CheckInvariant())
		}
		assert.True(t, line.IsSettled())
	})

	t.Run("rejects zero payment", func(t *testing.T) {
		line := makeDebtLine(t, tenantID, "Ali", 10000, now)
		err := line.ApplyPayment(valueobject.ZeroUZS())
		assert.Error(t, err)
		assert.True(t, line.Debt.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("rejects payment exceeding debt", func(t *testing.T) {
		line := makeDebtLine(t, tenantID, "Ali", 10000, now)
		err := line.ApplyPayment(valueobject.NewMoneyUZSFromInt(10001))
		assert.Error(t, err)
		assert.True(t, line.Debt.Equal(decimal.NewFromInt(10000)))
		assert.True(t, line.PaidAmount.IsZero())
	})
}
