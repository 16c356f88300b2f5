package repository

import (
	"context"

	"plan-intervention-api/internal/domain/model"
)

// PlanPreview instantané partageable d'un plan, à durée de vie courte
type PlanPreview struct {
	ID        string
	PlanID    string
	Nom       string
	CentreLat float64
	CentreLng float64
	Layers    []*model.GeometryRecord
}

// PreviewRepository cache d'instantanés de plans pour partage temporaire.
// Les documents expirent côté serveur; un identifiant inconnu peut donc
// simplement signifier que l'instantané a expiré.
type PreviewRepository interface {
	Save(ctx context.Context, preview *PlanPreview, ttlHours int) (string, error)
	Get(ctx context.Context, id string) (*PlanPreview, error)
}
