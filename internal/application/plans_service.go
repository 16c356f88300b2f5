package application

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
)

// ttlApercuHeures durée de vie des instantanés partageables
const ttlApercuHeures = 24

// ErrApercusNonConfigures le dépôt d'instantanés (Firestore) n'est pas branché
var ErrApercusNonConfigures = errors.New("les aperçus de plans ne sont pas configurés")

// PlansService consultation et gestion des plans persistés, hors session
// d'édition (écrans de liste, suppression, aperçus partageables)
type PlansService interface {
	GetPlan(ctx context.Context, tenantID, id string) (*model.PlanIntervention, error)
	ListPlans(ctx context.Context, tenantID string) ([]model.PlanSummary, error)
	DeletePlan(ctx context.Context, tenantID, id string) error
	CreatePreview(ctx context.Context, tenantID, planID string) (string, error)
	GetPreview(ctx context.Context, id string) (*repository.PlanPreview, error)
}

type plansServiceImpl struct {
	plans   repository.PlansRepository
	apercus repository.PreviewRepository
	logger  *zap.Logger
}

// NewPlansService crée le service; apercus peut être nil si Firestore n'est
// pas configuré
func NewPlansService(plans repository.PlansRepository, apercus repository.PreviewRepository, logger *zap.Logger) PlansService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &plansServiceImpl{plans: plans, apercus: apercus, logger: logger}
}

func (s *plansServiceImpl) GetPlan(ctx context.Context, tenantID, id string) (*model.PlanIntervention, error) {
	return s.plans.GetByID(ctx, tenantID, id)
}

func (s *plansServiceImpl) ListPlans(ctx context.Context, tenantID string) ([]model.PlanSummary, error) {
	return s.plans.ListByTenant(ctx, tenantID)
}

func (s *plansServiceImpl) DeletePlan(ctx context.Context, tenantID, id string) error {
	return s.plans.Delete(ctx, tenantID, id)
}

// CreatePreview fige un instantané partageable du plan persisté
func (s *plansServiceImpl) CreatePreview(ctx context.Context, tenantID, planID string) (string, error) {
	if s.apercus == nil {
		return "", ErrApercusNonConfigures
	}

	plan, err := s.plans.GetByID(ctx, tenantID, planID)
	if err != nil {
		return "", err
	}

	preview := &repository.PlanPreview{
		PlanID:    plan.ID,
		Nom:       plan.Nom,
		CentreLat: plan.CentreLat,
		CentreLng: plan.CentreLng,
		Layers:    plan.Layers,
	}
	id, err := s.apercus.Save(ctx, preview, ttlApercuHeures)
	if err != nil {
		return "", err
	}
	s.logger.Info("aperçu de plan créé",
		zap.String("plan_id", planID),
		zap.String("preview_id", id))
	return id, nil
}

func (s *plansServiceImpl) GetPreview(ctx context.Context, id string) (*repository.PlanPreview, error) {
	if s.apercus == nil {
		return nil, ErrApercusNonConfigures
	}
	return s.apercus.Get(ctx, id)
}
