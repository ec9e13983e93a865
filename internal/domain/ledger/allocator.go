package ledger

import (
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineMutation describes the new debt position of one sale line after
// a payment has been allocated to it, in the order applied
type LineMutation struct {
	LineID        uuid.UUID       `json:"line_id"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	NewDebt       decimal.Decimal `json:"new_debt"`
	NewPaidAmount decimal.Decimal `json:"new_paid_amount"`
}

// Allocation is the result of applying a payment across a customer's
// outstanding lines
type Allocation struct {
	Mutations      []LineMutation  `json:"mutations"`
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	LinesSettled   []uuid.UUID     `json:"lines_settled"`
	LinesPartial   []uuid.UUID     `json:"lines_partial"`
}

// Allocator applies a payment amount against a customer's outstanding
// sale lines, oldest first. It is a pure computation: it mutates the
// in-memory lines and reports the mutations to persist, but performs
// no I/O itself.
type Allocator struct{}

// NewAllocator creates a new debt allocator
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate applies payment P against the summary's member lines.
// The payment must satisfy 0 < P <= total outstanding debt; anything
// else is rejected with no effect on any line. Lines are walked in
// chronological order regardless of input order, and each line
// receives min(remaining, line.Debt) until the payment is exhausted.
// The applied amounts always sum to exactly P.
func (a *Allocator) Allocate(summary *DebtorSummary, payment valueobject.Money) (*Allocation, error) {
	if summary == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Debtor summary cannot be nil")
	}
	if payment.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidPayment
	}
	if payment.Amount().GreaterThan(summary.TotalDebt) {
		return nil, shared.ErrInvalidPayment
	}

	sorted := make([]*SaleLine, len(summary.Lines))
	copy(sorted, summary.Lines)
	sortLinesChronologically(sorted)

	mutations := make([]LineMutation, 0, len(sorted))
	settled := make([]uuid.UUID, 0)
	partial := make([]uuid.UUID, 0)
	remaining := payment.Amount()
	totalAllocated := decimal.Zero

	for _, line := range sorted {
		if remaining.IsZero() {
			break
		}
		if !line.HasDebt() {
			continue
		}

		applied := decimal.Min(remaining, line.Debt)
		if err := line.ApplyPayment(valueobject.NewMoneyUZS(applied)); err != nil {
			return nil, err
		}

		mutations = append(mutations, LineMutation{
			LineID:        line.ID,
			AppliedAmount: applied,
			NewDebt:       line.Debt,
			NewPaidAmount: line.PaidAmount,
		})

		totalAllocated = totalAllocated.Add(applied)
		remaining = remaining.Sub(applied)

		if line.IsSettled() {
			settled = append(settled, line.ID)
		} else {
			partial = append(partial, line.ID)
		}
	}

	// The precondition guarantees the walk consumes the full payment
	if !remaining.IsZero() {
		return nil, shared.NewDomainError("ALLOCATION_MISMATCH", "Payment was not fully allocated")
	}

	summary.TotalDebt = summary.TotalDebt.Sub(totalAllocated)
	summary.TotalPaid = summary.TotalPaid.Add(totalAllocated)

	return &Allocation{
		Mutations:      mutations,
		TotalAllocated: totalAllocated,
		LinesSettled:   settled,
		LinesPartial:   partial,
	}, nil
}
