package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
	"plan-intervention-api/internal/metrics"
)

// SessionState état d'une session d'édition de plan
type SessionState string

const (
	StateEmpty      SessionState = "empty"
	StateHydrating  SessionState = "hydrating"
	StateSynced     SessionState = "synced"
	StateDirty      SessionState = "dirty"
	StateSaving     SessionState = "saving"
	StateSaveFailed SessionState = "save_failed"
)

// ErrSauvegardeEnCours une sauvegarde est déjà en vol pour cette session
var ErrSauvegardeEnCours = errors.New("sauvegarde déjà en cours")

// ErrSessionFermee la session est terminée, plus aucune transition possible
var ErrSessionFermee = errors.New("session fermée")

// EditorSession session d'édition d'un plan d'intervention.
// Empty → Hydrating → Synced → Dirty → Saving → Synced | SaveFailed.
// Fermer la session abandonne l'état Dirty non sauvegardé, sans auto-save.
//
// Le modèle d'origine est mono-fil événementiel; côté serveur les requêtes
// HTTP arrivent en parallèle, donc la session sérialise elle-même ses
// mutations. Le verrou n'est jamais tenu pendant un appel réseau.
type EditorSession struct {
	ID       string
	TenantID string

	mu        sync.Mutex
	planID    string
	nom       string
	centreLat float64
	centreLng float64
	state     SessionState
	fermee    bool

	store      *model.LayerStore
	reconciler *Reconciler
	surface    RenderSurface
	plans      repository.PlansRepository
	logger     *zap.Logger
}

// NewEditorSession ouvre une session. Avec un planID existant la session
// démarre en Hydrating et attend Hydrate; sinon elle démarre vide.
func NewEditorSession(tenantID, planID string, surface RenderSurface, plans repository.PlansRepository, logger *zap.Logger) *EditorSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	etat := StateEmpty
	if planID != "" {
		etat = StateHydrating
	}
	return &EditorSession{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		planID:     planID,
		state:      etat,
		store:      model.NewLayerStore(),
		reconciler: NewReconciler(surface, logger),
		surface:    surface,
		plans:      plans,
		logger:     logger,
	}
}

// Hydrate charge le plan persisté puis réconcilie la surface. En cas d'échec
// réseau la session reste en Hydrating et l'appel peut être retenté.
func (s *EditorSession) Hydrate(ctx context.Context) (PassReport, error) {
	s.mu.Lock()
	if s.fermee {
		s.mu.Unlock()
		return PassReport{}, ErrSessionFermee
	}
	if s.state != StateHydrating {
		s.mu.Unlock()
		return PassReport{}, errors.New("la session n'attend pas de chargement")
	}
	planID := s.planID
	s.mu.Unlock()

	plan, err := s.plans.GetByID(ctx, s.TenantID, planID)
	if err != nil {
		return PassReport{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fermee {
		// la réponse est arrivée après la fermeture: on l'ignore
		return PassReport{}, ErrSessionFermee
	}
	if err := s.store.ReplaceAll(plan.Layers); err != nil {
		return PassReport{}, err
	}
	s.nom = plan.Nom
	s.centreLat = plan.CentreLat
	s.centreLng = plan.CentreLng
	report := s.reconciler.Reconcile(s.store)
	s.state = StateSynced
	return report, nil
}

// PlaceSymbol place un symbole du catalogue et réconcilie la surface
func (s *EditorSession) PlaceSymbol(position model.LonLat, def model.SymbolDefinition, note string) (*model.GeometryRecord, PassReport, error) {
	rec, err := model.NewSymbolRecord(position, def, note)
	if err != nil {
		return nil, PassReport{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fermee {
		return nil, PassReport{}, ErrSessionFermee
	}
	if err := s.store.Append(rec); err != nil {
		return nil, PassReport{}, err
	}
	s.state = StateDirty
	return rec, s.reconciler.Reconcile(s.store), nil
}

// DrawShape ajoute une forme dessinée. Si la création est refusée et qu'une
// primitive spéculative (le tracé en cours) a déjà été posée sur la surface,
// elle est retirée: la surface ne doit jamais pointer une primitive sans
// enregistrement derrière.
func (s *EditorSession) DrawShape(kind model.RecordKind, coords []model.LonLat, rayonMetres float64, categorie model.ShapeCategory, description string, draft *PrimitiveHandle) (*model.GeometryRecord, PassReport, error) {
	rec, err := model.NewShapeRecord(kind, coords, rayonMetres, categorie, description)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fermee {
		return nil, PassReport{}, ErrSessionFermee
	}
	if err != nil {
		if draft != nil && s.surface.Ready() {
			s.surface.Remove(*draft)
		}
		return nil, PassReport{}, err
	}
	if err := s.store.Append(rec); err != nil {
		return nil, PassReport{}, err
	}
	if draft != nil && s.surface.Ready() {
		// le tracé spéculatif est remplacé par la primitive réconciliée
		s.surface.Remove(*draft)
	}
	s.state = StateDirty
	return rec, s.reconciler.Reconcile(s.store), nil
}

// RemoveRecord retire un enregistrement et sa primitive. Idempotent: un
// identifiant déjà retiré retourne false sans erreur.
func (s *EditorSession) RemoveRecord(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fermee {
		return false
	}
	if !s.store.RemoveByID(id) {
		return false
	}
	s.reconciler.RemoveRecordPrimitive(id)
	s.state = StateDirty
	return true
}

// RenderPass passe de réconciliation explicite (changement de catalogue,
// surface redevenue prête)
func (s *EditorSession) RenderPass() PassReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconciler.Reconcile(s.store)
}

// Save sérialise le store et l'envoie à la passerelle. Une seule sauvegarde
// en vol à la fois; l'échec laisse l'état en mémoire intact (Dirty conservé)
// et l'utilisateur peut réessayer.
func (s *EditorSession) Save(ctx context.Context, nom string) (string, error) {
	s.mu.Lock()
	if s.fermee {
		s.mu.Unlock()
		return "", ErrSessionFermee
	}
	if s.state == StateSaving {
		s.mu.Unlock()
		return "", ErrSauvegardeEnCours
	}
	if nom != "" {
		s.nom = nom
	}
	creation := s.planID == ""
	if creation {
		s.planID = uuid.New().String()
	}
	plan := &model.PlanIntervention{
		ID:        s.planID,
		TenantID:  s.TenantID,
		Nom:       s.nom,
		CentreLat: s.centreLat,
		CentreLng: s.centreLng,
		Layers:    s.store.Snapshot(),
	}
	s.state = StateSaving
	s.mu.Unlock()

	var err error
	if creation {
		err = s.plans.Create(ctx, plan)
	} else {
		err = s.plans.Update(ctx, plan)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		metrics.PlanSaveFailuresTotal.Inc()
		if creation {
			// le plan n'existe pas côté passerelle, la prochaine sauvegarde recrée
			s.planID = ""
		}
		if s.state == StateSaving {
			s.state = StateSaveFailed
		}
		s.logger.Warn("échec de sauvegarde du plan",
			zap.String("session_id", s.ID),
			zap.Error(err))
		return "", err
	}
	metrics.PlanSavesTotal.Inc()
	if s.state == StateSaving {
		// une mutation arrivée pendant la sauvegarde garde la session Dirty
		s.state = StateSynced
	}
	return plan.ID, nil
}

// SetCentre recadre le plan
func (s *EditorSession) SetCentre(lat, lng float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fermee {
		return
	}
	s.centreLat = lat
	s.centreLng = lng
}

// Close termine la session. L'état Dirty non sauvegardé est abandonné.
func (s *EditorSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fermee = true
}

// State état courant
func (s *EditorSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PlanID identifiant du plan persisté, vide tant que rien n'a été sauvegardé
func (s *EditorSession) PlanID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planID
}

// Len nombre d'enregistrements dans le store
func (s *EditorSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// Snapshot copie profonde des enregistrements courants
func (s *EditorSession) Snapshot() []*model.GeometryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}
