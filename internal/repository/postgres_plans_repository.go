package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
	"plan-intervention-api/internal/infrastructure/database"
)

// PostgresPlansRepository persistance des plans en connexion directe
// PostgreSQL, couches en JSONB. Utilisé quand le mot de passe de la base est
// configuré; sinon le service passe par PostgREST.
type PostgresPlansRepository struct {
	client *database.PostgreSQLClient
	logger *zap.Logger
}

func NewPostgresPlansRepository(client *database.PostgreSQLClient, logger *zap.Logger) repository.PlansRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresPlansRepository{client: client, logger: logger}
}

func (r *PostgresPlansRepository) GetByID(ctx context.Context, tenantID, id string) (*model.PlanIntervention, error) {
	query := `
		SELECT id, tenant_id, nom, centre_lat, centre_lng, layers, updated_at
		FROM plans_intervention
		WHERE tenant_id = $1 AND id = $2`

	var doc planDocument
	var layersJSON []byte
	err := r.client.DB.QueryRowContext(ctx, query, tenantID, id).Scan(
		&doc.ID, &doc.TenantID, &doc.Nom, &doc.CentreLat, &doc.CentreLng, &layersJSON, &doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan %s: %w", id, model.ErrIntrouvable)
	}
	if err != nil {
		return nil, &model.NetworkError{Op: "chargement du plan", Err: err}
	}

	if err := json.Unmarshal(layersJSON, &doc.Layers); err != nil {
		return nil, fmt.Errorf("désérialisation des couches: %w", err)
	}

	plan, ecartees := planFromDocument(&doc)
	if ecartees > 0 {
		r.logger.Warn("couches illisibles écartées au chargement",
			zap.String("plan_id", id),
			zap.Int("ecartees", ecartees))
	}
	return plan, nil
}

func (r *PostgresPlansRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.PlanSummary, error) {
	query := `
		SELECT id, nom, centre_lat, centre_lng, jsonb_array_length(layers), updated_at
		FROM plans_intervention
		WHERE tenant_id = $1
		ORDER BY updated_at DESC`

	rows, err := r.client.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, &model.NetworkError{Op: "liste des plans", Err: err}
	}
	defer rows.Close()

	var resumes []model.PlanSummary
	for rows.Next() {
		var s model.PlanSummary
		if err := rows.Scan(&s.ID, &s.Nom, &s.CentreLat, &s.CentreLng, &s.NbCouches, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("lecture d'une ligne de plan: %w", err)
		}
		resumes = append(resumes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.NetworkError{Op: "liste des plans", Err: err}
	}
	return resumes, nil
}

func (r *PostgresPlansRepository) Create(ctx context.Context, plan *model.PlanIntervention) error {
	doc, err := planToDocument(plan)
	if err != nil {
		return err
	}
	layersJSON, err := json.Marshal(doc.Layers)
	if err != nil {
		return fmt.Errorf("sérialisation des couches: %w", err)
	}

	query := `
		INSERT INTO plans_intervention (id, tenant_id, nom, centre_lat, centre_lng, layers, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.client.DB.ExecContext(ctx, query,
		doc.ID, doc.TenantID, doc.Nom, doc.CentreLat, doc.CentreLng, layersJSON, time.Now().UTC())
	if err != nil {
		return &model.NetworkError{Op: "création du plan", Err: err}
	}
	return nil
}

func (r *PostgresPlansRepository) Update(ctx context.Context, plan *model.PlanIntervention) error {
	doc, err := planToDocument(plan)
	if err != nil {
		return err
	}
	layersJSON, err := json.Marshal(doc.Layers)
	if err != nil {
		return fmt.Errorf("sérialisation des couches: %w", err)
	}

	// dernier-écrit-gagne, comme côté PostgREST
	query := `
		UPDATE plans_intervention
		SET nom = $3, centre_lat = $4, centre_lng = $5, layers = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`

	res, err := r.client.DB.ExecContext(ctx, query,
		doc.TenantID, doc.ID, doc.Nom, doc.CentreLat, doc.CentreLng, layersJSON, time.Now().UTC())
	if err != nil {
		return &model.NetworkError{Op: "mise à jour du plan", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %s: %w", doc.ID, model.ErrIntrouvable)
	}
	return nil
}

func (r *PostgresPlansRepository) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM plans_intervention WHERE tenant_id = $1 AND id = $2`
	_, err := r.client.DB.ExecContext(ctx, query, tenantID, id)
	if err != nil {
		return &model.NetworkError{Op: "suppression du plan", Err: err}
	}
	return nil
}
