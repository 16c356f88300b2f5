package repository

import (
	"context"

	"plan-intervention-api/internal/domain/model"
)

// CustomSymbolsRepository CRUD des symboles personnalisés d'un service,
// délégué à la passerelle de persistance
type CustomSymbolsRepository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]model.CustomSymbol, error)
	GetByID(ctx context.Context, tenantID, id string) (*model.CustomSymbol, error)
	Create(ctx context.Context, symbole *model.CustomSymbol) error
	Update(ctx context.Context, symbole *model.CustomSymbol) error
	Delete(ctx context.Context, tenantID, id string) error
}
