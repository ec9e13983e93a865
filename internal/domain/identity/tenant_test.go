package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("starts in trial", func(t *testing.T) {
		tenant, err := NewTenant("Baraka Market", "+998901234567")
		require.NoError(t, err)

		assert.Equal(t, TenantStatusTrial, tenant.Status)
		require.NotNil(t, tenant.SubscriptionEnd)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, DefaultTrialDays), *tenant.SubscriptionEnd, time.Minute)
		assert.True(t, tenant.IsOperational())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTenant("  ", "")
		assert.Error(t, err)
	})
}

func TestTenantSubscription(t *testing.T) {
	t.Run("extension activates and pushes end date", func(t *testing.T) {
		tenant, err := NewTenant("Baraka Market", "")
		require.NoError(t, err)
		planID := uuid.New()
		trialEnd := *tenant.SubscriptionEnd

		require.NoError(t, tenant.ExtendSubscription(planID, 3))

		assert.Equal(t, TenantStatusActive, tenant.Status)
		assert.Equal(t, planID, *tenant.PlanID)
		assert.WithinDuration(t, trialEnd.AddDate(0, 3, 0), *tenant.SubscriptionEnd, time.Minute)
	})

	t.Run("expired subscription restarts from now", func(t *testing.T) {
		tenant, err := NewTenant("Baraka Market", "")
		require.NoError(t, err)
		lapsed := time.Now().AddDate(0, -2, 0)
		tenant.SubscriptionEnd = &lapsed
		require.True(t, tenant.IsExpired())

		require.NoError(t, tenant.ExtendSubscription(uuid.New(), 1))

		assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *tenant.SubscriptionEnd, time.Minute)
		assert.False(t, tenant.IsExpired())
	})

	t.Run("rejects non-positive months", func(t *testing.T) {
		tenant, err := NewTenant("Baraka Market", "")
		require.NoError(t, err)

		assert.Error(t, tenant.ExtendSubscription(uuid.New(), 0))
		assert.Error(t, tenant.ExtendSubscription(uuid.Nil, 1))
	})
}

func TestTenantSuspension(t *testing.T) {
	t.Run("suspend blocks operation", func(t *testing.T) {
		tenant, err := NewTenant("Baraka Market", "")
		require.NoError(t, err)

		require.NoError(t, tenant.Suspend())
		assert.False(t, tenant.IsOperational())
		assert.Error(t, tenant.Suspend())
	})

	t.Run("reactivate requires valid subscription", func(t *testing.T) {
		tenant, err := NewTenant("Baraka Market", "")
		require.NoError(t, err)
		require.NoError(t, tenant.Suspend())

		lapsed := time.Now().AddDate(0, -1, 0)
		tenant.SubscriptionEnd = &lapsed
		assert.Error(t, tenant.Reactivate())

		future := time.Now().AddDate(0, 1, 0)
		tenant.SubscriptionEnd = &future
		require.NoError(t, tenant.Reactivate())
		assert.True(t, tenant.IsOperational())
	})

	t.Run("expired tenant is not operational", func(t *testing.T) {
		tenant, err := NewTenant("Baraka Market", "")
		require.NoError(t, err)

		lapsed := time.Now().AddDate(0, 0, -1)
		tenant.SubscriptionEnd = &lapsed
		assert.False(t, tenant.IsOperational())
	})
}
