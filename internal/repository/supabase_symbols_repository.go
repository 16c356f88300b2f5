package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
	"plan-intervention-api/internal/infrastructure/database"
)

// SupabaseSymbolsRepository CRUD des symboles personnalisés via PostgREST
type SupabaseSymbolsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseSymbolsRepository(client *database.SupabaseClient) repository.CustomSymbolsRepository {
	return &SupabaseSymbolsRepository{client: client}
}

func (r *SupabaseSymbolsRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.CustomSymbol, error) {
	var symboles []model.CustomSymbol
	data, _, err := r.client.GetClient().From("symboles_personnalises").
		Select("*", "exact", false).
		Eq("tenant_id", tenantID).
		Execute()
	if err != nil {
		return nil, &model.NetworkError{Op: "liste des symboles personnalisés", Err: err}
	}

	if err := json.Unmarshal([]byte(data), &symboles); err != nil {
		return nil, fmt.Errorf("désérialisation des symboles: %w", err)
	}
	return symboles, nil
}

func (r *SupabaseSymbolsRepository) GetByID(ctx context.Context, tenantID, id string) (*model.CustomSymbol, error) {
	var symboles []model.CustomSymbol
	data, _, err := r.client.GetClient().From("symboles_personnalises").
		Select("*", "exact", false).
		Eq("tenant_id", tenantID).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, &model.NetworkError{Op: "lecture du symbole", Err: err}
	}

	if err := json.Unmarshal([]byte(data), &symboles); err != nil {
		return nil, fmt.Errorf("désérialisation du symbole: %w", err)
	}
	if len(symboles) == 0 {
		return nil, fmt.Errorf("symbole %s: %w", id, model.ErrIntrouvable)
	}
	return &symboles[0], nil
}

func (r *SupabaseSymbolsRepository) Create(ctx context.Context, symbole *model.CustomSymbol) error {
	data, err := json.Marshal(symbole)
	if err != nil {
		return fmt.Errorf("sérialisation du symbole: %w", err)
	}

	_, _, err = r.client.GetClient().From("symboles_personnalises").
		Insert(string(data), false, "", "", "").
		Execute()
	if err != nil {
		return &model.NetworkError{Op: "création du symbole", Err: err}
	}
	return nil
}

func (r *SupabaseSymbolsRepository) Update(ctx context.Context, symbole *model.CustomSymbol) error {
	data, err := json.Marshal(symbole)
	if err != nil {
		return fmt.Errorf("sérialisation du symbole: %w", err)
	}

	_, _, err = r.client.GetClient().From("symboles_personnalises").
		Update(string(data), "", "").
		Eq("tenant_id", symbole.TenantID).
		Eq("id", symbole.ID).
		Execute()
	if err != nil {
		return &model.NetworkError{Op: "mise à jour du symbole", Err: err}
	}
	return nil
}

func (r *SupabaseSymbolsRepository) Delete(ctx context.Context, tenantID, id string) error {
	// la suppression au catalogue n'affecte jamais les enregistrements déjà
	// placés: ils ont figé leur visuel au placement
	_, _, err := r.client.GetClient().From("symboles_personnalises").
		Delete("", "").
		Eq("tenant_id", tenantID).
		Eq("id", id).
		Execute()
	if err != nil {
		return &model.NetworkError{Op: "suppression du symbole", Err: err}
	}
	return nil
}
