package billing

import (
	"testing"

	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingRequest(t *testing.T) *PaymentRequest {
	t.Helper()
	pr, err := NewPaymentRequest(uuid.New(), uuid.New(), uuid.New(), 3, valueobject.NewMoneyUZSFromInt(297000), "TRX-10021")
	require.NoError(t, err)
	return pr
}

func TestNewPaymentRequest(t *testing.T) {
	t.Run("creates pending request", func(t *testing.T) {
		pr := newPendingRequest(t)

		assert.Equal(t, PaymentRequestStatusPending, pr.Status)
		assert.True(t, pr.IsPending())
		assert.Equal(t, 3, pr.Months)
		assert.Nil(t, pr.ReviewedBy)
	})

	t.Run("rejects invalid months", func(t *testing.T) {
		_, err := NewPaymentRequest(uuid.New(), uuid.New(), uuid.New(), 0, valueobject.NewMoneyUZSFromInt(99000), "")
		assert.Error(t, err)

		_, err = NewPaymentRequest(uuid.New(), uuid.New(), uuid.New(), 25, valueobject.NewMoneyUZSFromInt(99000), "")
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPaymentRequest(uuid.New(), uuid.New(), uuid.New(), 1, valueobject.ZeroUZS(), "")
		assert.Error(t, err)
	})
}

func TestPaymentRequestReview(t *testing.T) {
	t.Run("approve records reviewer", func(t *testing.T) {
		pr := newPendingRequest(t)
		reviewer := uuid.New()

		require.NoError(t, pr.Approve(reviewer, "bank transfer confirmed"))

		assert.Equal(t, PaymentRequestStatusApproved, pr.Status)
		assert.Equal(t, reviewer, *pr.ReviewedBy)
		assert.NotNil(t, pr.ReviewedAt)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		pr := newPendingRequest(t)

		err := pr.Reject(uuid.New(), " ")
		assert.Error(t, err)
		assert.True(t, pr.IsPending())

		require.NoError(t, pr.Reject(uuid.New(), "no matching transfer found"))
		assert.Equal(t, PaymentRequestStatusRejected, pr.Status)
		assert.Equal(t, "no matching transfer found", pr.ReviewNote)
	})

	t.Run("review is final", func(t *testing.T) {
		pr := newPendingRequest(t)
		require.NoError(t, pr.Approve(uuid.New(), ""))

		assert.Error(t, pr.Approve(uuid.New(), "again"))
		assert.Error(t, pr.Reject(uuid.New(), "changed my mind"))
	})
}
