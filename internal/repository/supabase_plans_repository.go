package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
	"plan-intervention-api/internal/infrastructure/database"
)

// SupabasePlansRepository persistance des plans via PostgREST
type SupabasePlansRepository struct {
	client *database.SupabaseClient
	logger *zap.Logger
}

func NewSupabasePlansRepository(client *database.SupabaseClient, logger *zap.Logger) repository.PlansRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupabasePlansRepository{client: client, logger: logger}
}

func (r *SupabasePlansRepository) GetByID(ctx context.Context, tenantID, id string) (*model.PlanIntervention, error) {
	var docs []planDocument
	data, _, err := r.client.GetClient().From("plans_intervention").
		Select("*", "exact", false).
		Eq("tenant_id", tenantID).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, &model.NetworkError{Op: "chargement du plan", Err: err}
	}

	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		return nil, fmt.Errorf("désérialisation du plan: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("plan %s: %w", id, model.ErrIntrouvable)
	}

	plan, ecartees := planFromDocument(&docs[0])
	if ecartees > 0 {
		r.logger.Warn("couches illisibles écartées au chargement",
			zap.String("plan_id", id),
			zap.Int("ecartees", ecartees))
	}
	return plan, nil
}

func (r *SupabasePlansRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.PlanSummary, error) {
	var docs []planDocument
	data, _, err := r.client.GetClient().From("plans_intervention").
		Select("id,nom,centre_lat,centre_lng,layers,updated_at", "exact", false).
		Eq("tenant_id", tenantID).
		Execute()
	if err != nil {
		return nil, &model.NetworkError{Op: "liste des plans", Err: err}
	}

	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		return nil, fmt.Errorf("désérialisation de la liste de plans: %w", err)
	}

	resumes := make([]model.PlanSummary, 0, len(docs))
	for _, doc := range docs {
		resumes = append(resumes, model.PlanSummary{
			ID:        doc.ID,
			Nom:       doc.Nom,
			CentreLat: doc.CentreLat,
			CentreLng: doc.CentreLng,
			NbCouches: len(doc.Layers),
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return resumes, nil
}

func (r *SupabasePlansRepository) Create(ctx context.Context, plan *model.PlanIntervention) error {
	doc, err := planToDocument(plan)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sérialisation du plan: %w", err)
	}

	_, _, err = r.client.GetClient().From("plans_intervention").
		Insert(string(data), false, "", "", "").
		Execute()
	if err != nil {
		return &model.NetworkError{Op: "création du plan", Err: err}
	}
	return nil
}

func (r *SupabasePlansRepository) Update(ctx context.Context, plan *model.PlanIntervention) error {
	doc, err := planToDocument(plan)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sérialisation du plan: %w", err)
	}

	// dernier-écrit-gagne: aucune détection de conflit entre éditeurs
	_, _, err = r.client.GetClient().From("plans_intervention").
		Update(string(data), "", "").
		Eq("tenant_id", plan.TenantID).
		Eq("id", plan.ID).
		Execute()
	if err != nil {
		return &model.NetworkError{Op: "mise à jour du plan", Err: err}
	}
	return nil
}

func (r *SupabasePlansRepository) Delete(ctx context.Context, tenantID, id string) error {
	_, _, err := r.client.GetClient().From("plans_intervention").
		Delete("", "").
		Eq("tenant_id", tenantID).
		Eq("id", id).
		Execute()
	if err != nil {
		return &model.NetworkError{Op: "suppression du plan", Err: err}
	}
	return nil
}
