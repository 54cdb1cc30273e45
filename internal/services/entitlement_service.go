package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"musegen/internal/models/db_models"
	"musegen/pkg/utils"
	"musegen/internal/plans"
	"musegen/internal/repositories"
)

// Entitlement is the resolved authorization state for an account: its plan,
// the plan's limits, and the consumed count for the requested feature.
type Entitlement struct {
	PlanCode string
	Status   db_models.SubscriptionStatus
	Limits   plans.Limits
	Limit    int
	Used     int
}

type EntitlementServiceInterface interface {
	// AuthorizeAndConsume checks the feature's daily quota and, on success,
	// atomically charges one unit. The unit is charged on authorization, not
	// on provider success, and is never refunded.
	AuthorizeAndConsume(ctx context.Context, accountID uuid.UUID, feature db_models.FeatureType) (*Entitlement, error)
	Snapshot(ctx context.Context, accountID uuid.UUID) (*Entitlement, *db_models.UsageRecord, error)
}

type EntitlementService struct {
	accountRepo      repositories.AccountRepository
	subscriptionRepo repositories.SubscriptionRepository
	usageRepo        repositories.UsageRepository
	now              func() plans.DayKey
}

func NewEntitlementService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	usageRepo repositories.UsageRepository,
) EntitlementServiceInterface {
	return &EntitlementService{
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		usageRepo:        usageRepo,
		now:              plans.Today,
	}
}

func (e *EntitlementService) resolve(ctx context.Context, accountID uuid.UUID, feature db_models.FeatureType) (*Entitlement, *db_models.UsageRecord, error) {
	account, err := e.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, nil, utils.ErrAccountNotFound
	}

	// Accounts without a subscription row ride the free starter plan.
	sub, err := e.subscriptionRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, nil, utils.ErrDatabaseError
	}
	planCode := plans.CodeStarter
	status := db_models.SubStatusActive
	if sub != nil {
		planCode = sub.PlanCode
		status = sub.Status
	}

	plan := plans.Lookup(planCode)

	usage, err := e.usageRepo.FindForDay(ctx, accountID, e.now())
	if err != nil {
		return nil, nil, utils.ErrDatabaseError
	}

	ent := &Entitlement{
		PlanCode: plan.Code,
		Status:   status,
		Limits:   plan.Limits,
	}
	if feature != "" {
		limit, ok := plan.Limits.For(string(feature))
		if !ok {
			return nil, nil, utils.ErrUnknownFeature
		}
		ent.Limit = limit
		ent.Used = usage.CountFor(feature)
	}

	return ent, usage, nil
}

func (e *EntitlementService) AuthorizeAndConsume(ctx context.Context, accountID uuid.UUID, feature db_models.FeatureType) (*Entitlement, error) {
	ent, _, err := e.resolve(ctx, accountID, feature)
	if err != nil {
		return nil, err
	}

	plan := plans.Lookup(ent.PlanCode)
	if plan.Paid && ent.Status != db_models.SubStatusActive {
		return nil, utils.ErrSubscriptionInactive
	}

	// A limit of 0 always rejects: Used starts at 0 and 0 >= 0.
	if ent.Used >= ent.Limit {
		return nil, utils.ErrQuotaExceeded
	}

	// Single indivisible create-or-increment. Two racers past the check each
	// add exactly one unit; overshoot is bounded by one unit per racer and no
	// update is ever lost.
	after, err := e.usageRepo.IncrementFeature(ctx, accountID, e.now(), feature)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	ent.Used = after.CountFor(feature)
	log.Printf("entitlement: account=%s feature=%s used=%d limit=%d", accountID, feature, ent.Used, ent.Limit)
	return ent, nil
}

func (e *EntitlementService) Snapshot(ctx context.Context, accountID uuid.UUID) (*Entitlement, *db_models.UsageRecord, error) {
	return e.resolve(ctx, accountID, "")
}
