package billing

import (
	"context"

	"github.com/crmpro/backend/internal/domain/billing"
	"github.com/crmpro/backend/internal/domain/identity"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCounter reports how many products a tenant has
type ProductCounter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// UserCounter reports how many users a tenant has
type UserCounter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// SubscriptionService handles plans, payment requests and quota checks
type SubscriptionService struct {
	txScope        TransactionScope
	planRepo       billing.PlanRepository
	paymentRepo    billing.PaymentRequestRepository
	tenantRepo     identity.TenantRepository
	productCounter ProductCounter
	userCounter    UserCounter
	eventBus       shared.EventBus
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	txScope TransactionScope,
	planRepo billing.PlanRepository,
	paymentRepo billing.PaymentRequestRepository,
	tenantRepo identity.TenantRepository,
	productCounter ProductCounter,
	userCounter UserCounter,
	eventBus shared.EventBus,
) *SubscriptionService {
	return &SubscriptionService{
		txScope:        txScope,
		planRepo:       planRepo,
		paymentRepo:    paymentRepo,
		tenantRepo:     tenantRepo,
		productCounter: productCounter,
		userCounter:    userCounter,
		eventBus:       eventBus,
	}
}

// ===================== Query Methods =====================

// ListPlans returns the tiers open for subscription
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]PlanResponse, error) {
	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToPlanResponse(&plans[i])
	}
	return responses, nil
}

// ListForTenant returns a store's own payment requests, newest first
func (s *SubscriptionService) ListForTenant(ctx context.Context, tenantID uuid.UUID, req ListPaymentRequestsRequest) (*shared.Paginated[PaymentRequestResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	page, err := s.paymentRepo.FindByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToPaymentRequestResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListPending returns requests awaiting review, oldest first
func (s *SubscriptionService) ListPending(ctx context.Context, req ListPaymentRequestsRequest) (*shared.Paginated[PaymentRequestResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	page, err := s.paymentRepo.FindPending(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToPaymentRequestResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ===================== Command Methods =====================

// Submit records a store's payment claim for review. The amount is
// priced server-side from the plan, never taken from the client.
func (s *SubscriptionService) Submit(ctx context.Context, tenantID, submittedBy uuid.UUID, req SubmitPaymentRequest) (*PaymentRequestResponse, error) {
	plan, err := s.planRepo.FindByCode(ctx, billing.PlanCode(req.PlanCode))
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, shared.NewDomainError("PLAN_INACTIVE", "Plan is not open for subscription")
	}

	amount := valueobject.NewMoneyUZS(plan.MonthlyPrice.Amount().Mul(decimal.NewFromInt(int64(req.Months))))

	request, err := billing.NewPaymentRequest(tenantID, plan.ID, submittedBy, req.Months, amount, req.Reference)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	response := ToPaymentRequestResponse(request)
	return &response, nil
}

// Approve accepts a pending request and extends the store's
// subscription by the paid months, atomically
func (s *SubscriptionService) Approve(ctx context.Context, requestID, reviewerID uuid.UUID, req ReviewPaymentRequest) (*PaymentRequestResponse, error) {
	var request *billing.PaymentRequest

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		loaded, err := repos.PaymentRequestRepo().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		request = loaded

		if err := request.Approve(reviewerID, req.Note); err != nil {
			return err
		}

		tenant, err := repos.TenantRepo().FindByID(ctx, request.TenantID)
		if err != nil {
			return err
		}
		if err := tenant.ExtendSubscription(request.PlanID, request.Months); err != nil {
			return err
		}

		if err := repos.TenantRepo().Save(ctx, tenant); err != nil {
			return err
		}
		return repos.PaymentRequestRepo().Save(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	response := ToPaymentRequestResponse(request)
	return &response, nil
}

// Reject declines a pending request with a reason for the store
func (s *SubscriptionService) Reject(ctx context.Context, requestID, reviewerID uuid.UUID, req ReviewPaymentRequest) (*PaymentRequestResponse, error) {
	request, err := s.paymentRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := request.Reject(reviewerID, req.Note); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	response := ToPaymentRequestResponse(request)
	return &response, nil
}

// SweepExpired suspends stores whose subscription ran out more than
// graceDays ago. Returns how many stores were suspended. Run daily by
// the scheduler.
func (s *SubscriptionService) SweepExpired(ctx context.Context, graceDays int) (int, error) {
	// a negative window selects tenants already past their end date
	tenants, err := s.tenantRepo.FindExpiring(ctx, -graceDays)
	if err != nil {
		return 0, err
	}

	suspended := 0
	for i := range tenants {
		tenant := &tenants[i]
		if err := tenant.Suspend(); err != nil {
			continue
		}
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			return suspended, err
		}
		suspended++
	}
	return suspended, nil
}

// ===================== Quota Checks =====================

// EnsureCanAddProduct checks the tenant's plan product cap
func (s *SubscriptionService) EnsureCanAddProduct(ctx context.Context, tenantID uuid.UUID) error {
	plan, err := s.planForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if plan == nil {
		return nil
	}

	count, err := s.productCounter.CountForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if !plan.CanAddProduct(count) {
		return shared.ErrQuotaExceeded
	}
	return nil
}

// EnsureCanAddUser checks the tenant's plan user cap
func (s *SubscriptionService) EnsureCanAddUser(ctx context.Context, tenantID uuid.UUID) error {
	plan, err := s.planForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if plan == nil {
		return nil
	}

	count, err := s.userCounter.CountForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if !plan.CanAddUser(count) {
		return shared.ErrQuotaExceeded
	}
	return nil
}

// planForTenant resolves the tenant's plan. Stores still on trial have
// no plan assigned and fall back to the trial tier's quotas.
func (s *SubscriptionService) planForTenant(ctx context.Context, tenantID uuid.UUID) (*billing.Plan, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if tenant.PlanID != nil {
		return s.planRepo.FindByID(ctx, *tenant.PlanID)
	}

	plan, err := s.planRepo.FindByCode(ctx, billing.PlanCodeTrial)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}
