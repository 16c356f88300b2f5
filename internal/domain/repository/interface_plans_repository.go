package repository

import (
	"context"

	"plan-intervention-api/internal/domain/model"
)

// PlansRepository passerelle de persistance des plans d'intervention.
// Les implémentations échouent avec *model.NetworkError quand l'appel
// distant ne passe pas; l'état en mémoire de l'appelant reste intact.
type PlansRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*model.PlanIntervention, error)
	ListByTenant(ctx context.Context, tenantID string) ([]model.PlanSummary, error)
	Create(ctx context.Context, plan *model.PlanIntervention) error
	Update(ctx context.Context, plan *model.PlanIntervention) error
	Delete(ctx context.Context, tenantID, id string) error
}
