package usecase

import (
	"context"

	"sample-media-gateway/internal/config"
	"sample-media-gateway/internal/domain"
	"sample-media-gateway/internal/domain/model"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase serves the display-only subscription tier catalog. Tiers are
// static configuration; purchase and entitlement checks live in the
// payment service, not here.
type PlanUseCase interface {
	List(ctx context.Context) ([]model.Plan, error)
	Get(ctx context.Context, id string) (model.Plan, error)
}

type planUC struct {
	plans []model.Plan
}

func NewPlanUseCase(cfgs []config.PlanConfig) *planUC {
	plans := make([]model.Plan, 0, len(cfgs))
	for _, c := range cfgs {
		plans = append(plans, model.Plan{
			ID:             c.ID,
			Name:           c.Name,
			MonthlyCredits: c.MonthlyCredits,
			PriceCents:     c.PriceCents,
			Features:       c.Features,
		})
	}
	return &planUC{plans: plans}
}

func (u *planUC) List(ctx context.Context) ([]model.Plan, error) {
	out := make([]model.Plan, len(u.plans))
	copy(out, u.plans)
	return out, nil
}

func (u *planUC) Get(ctx context.Context, id string) (model.Plan, error) {
	for _, p := range u.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Plan{}, domain.ErrNotFound
}
