package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogger_RecordsEveryPublishedEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewAuditLogger(zap.New(core)))

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("sales.sale_completed"),
		newTestEvent("ledger.payment_applied"),
	))

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "sales.sale_completed", fields["event_type"])
	assert.Equal(t, "sale_line", fields["aggregate_type"])
	assert.NotEmpty(t, fields["tenant_id"])
	assert.Equal(t, "ledger.payment_applied", entries[1].ContextMap()["event_type"])
}

func TestAuditLogger_IsWildcard(t *testing.T) {
	assert.Empty(t, NewAuditLogger(zap.NewNop()).EventTypes())
}
