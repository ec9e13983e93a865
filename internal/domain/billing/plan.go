package billing

import (
	"strings"
	"time"

	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
)

// PlanCode identifies a subscription tier
type PlanCode string

const (
	PlanCodeTrial   PlanCode = "trial"
	PlanCodeStarter PlanCode = "starter"
	PlanCodeBasic   PlanCode = "basic"
	PlanCodePro     PlanCode = "pro"
)

// Unlimited marks a quota with no cap
const Unlimited = -1

// Plan represents a subscription tier with its monthly price and quotas
type Plan struct {
	shared.BaseAggregateRoot
	Code         PlanCode          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name         string            `gorm:"type:varchar(100);not null"`
	MonthlyPrice valueobject.Money `gorm:"type:decimal(18,2);not null"`
	MaxUsers     int               `gorm:"not null"`
	MaxProducts  int               `gorm:"not null"`
	Active       bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Plan) TableName() string {
	return "plans"
}

// NewPlan creates a subscription tier
func NewPlan(code PlanCode, name string, monthlyPrice valueobject.Money, maxUsers, maxProducts int) (*Plan, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_NAME", "Plan name cannot be empty")
	}
	if monthlyPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Monthly price cannot be negative")
	}
	if maxUsers == 0 || maxProducts == 0 {
		return nil, shared.NewDomainError("INVALID_QUOTA", "Quotas must be positive or unlimited")
	}

	return &Plan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		MonthlyPrice:      monthlyPrice,
		MaxUsers:          maxUsers,
		MaxProducts:       maxProducts,
		Active:            true,
	}, nil
}

// CanAddUser checks the user quota against the current count
func (p *Plan) CanAddUser(currentUsers int64) bool {
	if p.MaxUsers == Unlimited {
		return true
	}
	return currentUsers < int64(p.MaxUsers)
}

// CanAddProduct checks the product quota against the current count
func (p *Plan) CanAddProduct(currentProducts int64) bool {
	if p.MaxProducts == Unlimited {
		return true
	}
	return currentProducts < int64(p.MaxProducts)
}

// Deactivate hides the plan from new subscriptions
func (p *Plan) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// DefaultPlans returns the built-in tiers, used by migrations and seeding
func DefaultPlans() []*Plan {
	trial, _ := NewPlan(PlanCodeTrial, "Sinov", valueobject.ZeroUZS(), 2, 100)
	starter, _ := NewPlan(PlanCodeStarter, "Boshlang'ich", valueobject.NewMoneyUZSFromInt(99000), 3, 500)
	basic, _ := NewPlan(PlanCodeBasic, "Asosiy", valueobject.NewMoneyUZSFromInt(149000), 10, 3000)
	pro, _ := NewPlan(PlanCodePro, "Professional", valueobject.NewMoneyUZSFromInt(249000), Unlimited, Unlimited)
	return []*Plan{trial, starter, basic, pro}
}
