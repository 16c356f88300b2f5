package application

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
	"plan-intervention-api/internal/domain/service"
	"plan-intervention-api/internal/infrastructure/render"
)

// ErrSessionIntrouvable identifiant de session inconnu ou session fermée
var ErrSessionIntrouvable = errors.New("session d'édition introuvable")

// PlaceSymbolRequest placement d'un symbole du catalogue. Soit SymbolID
// (symbole personnalisé, résolu via la passerelle), soit Label (symbole
// intégré).
type PlaceSymbolRequest struct {
	Position model.LonLat `json:"position"`
	SymbolID string       `json:"symbol_id,omitempty"`
	Label    string       `json:"label,omitempty"`
	Note     string       `json:"note,omitempty"`
}

// DrawShapeRequest ajout d'une forme dessinée. DraftHandle référence le
// tracé spéculatif déjà posé sur la surface, retiré quoi qu'il arrive.
type DrawShapeRequest struct {
	Kind        model.RecordKind    `json:"kind"`
	Points      []model.LonLat      `json:"points"`
	RayonMetres float64             `json:"rayon_metres,omitempty"`
	Categorie   model.ShapeCategory `json:"categorie"`
	Description string              `json:"description"`
	DraftHandle *int64              `json:"draft_handle,omitempty"`
}

// SessionView état d'une session tel que servi aux clients: l'état machine,
// le plan lié et la liste d'affichage complète
type SessionView struct {
	SessionID  string                    `json:"session_id"`
	PlanID     string                    `json:"plan_id,omitempty"`
	State      service.SessionState      `json:"state"`
	NbCouches  int                       `json:"nb_couches"`
	Primitives []render.DisplayPrimitive `json:"primitives"`
}

type sessionEntry struct {
	session *service.EditorSession
	surface *render.DisplayList
}

// EditorService registre des sessions d'édition en cours et façade de leurs
// opérations. Une session possède sa surface; les deux meurent ensemble.
type EditorService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry

	plans    repository.PlansRepository
	symboles repository.CustomSymbolsRepository
	logger   *zap.Logger
}

// NewEditorService crée le registre de sessions
func NewEditorService(plans repository.PlansRepository, symboles repository.CustomSymbolsRepository, logger *zap.Logger) *EditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditorService{
		sessions: make(map[string]*sessionEntry),
		plans:    plans,
		symboles: symboles,
		logger:   logger,
	}
}

// Open ouvre une session, vide ou hydratée depuis un plan existant. Si le
// chargement échoue, la session reste ouverte en Hydrating et Rehydrate
// permet de réessayer.
func (s *EditorService) Open(ctx context.Context, tenantID, planID string) (*SessionView, error) {
	surface := render.NewDisplayList()
	session := service.NewEditorSession(tenantID, planID, surface, s.plans, s.logger)

	s.mu.Lock()
	s.sessions[session.ID] = &sessionEntry{session: session, surface: surface}
	s.mu.Unlock()

	var hydrateErr error
	if planID != "" {
		if _, err := session.Hydrate(ctx); err != nil {
			hydrateErr = err
			s.logger.Warn("hydratation de la session échouée",
				zap.String("session_id", session.ID),
				zap.String("plan_id", planID),
				zap.Error(err))
		}
	}
	return s.vue(session.ID), hydrateErr
}

// Rehydrate retente le chargement d'une session restée en Hydrating
func (s *EditorService) Rehydrate(ctx context.Context, sessionID string) (*SessionView, error) {
	entry, err := s.entree(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := entry.session.Hydrate(ctx); err != nil {
		return nil, err
	}
	return s.vue(sessionID), nil
}

// PlaceSymbol résout la définition demandée puis place le symbole
func (s *EditorService) PlaceSymbol(ctx context.Context, sessionID string, req *PlaceSymbolRequest) (*model.GeometryRecord, error) {
	entry, err := s.entree(sessionID)
	if err != nil {
		return nil, err
	}

	var def model.SymbolDefinition
	switch {
	case req.SymbolID != "":
		symbole, err := s.symboles.GetByID(ctx, entry.session.TenantID, req.SymbolID)
		if err != nil {
			return nil, err
		}
		def = symbole.Definition()
	case req.Label != "":
		integre, ok := model.FindBuiltIn(req.Label)
		if !ok {
			return nil, model.NewValidationError("label", "symbole intégré inconnu")
		}
		def = integre
	default:
		return nil, model.NewValidationError("symbole", "symbol_id ou label requis")
	}

	rec, _, err := entry.session.PlaceSymbol(req.Position, def, req.Note)
	return rec, err
}

// DrawShape ajoute une forme; un refus de validation retire aussi le tracé
// spéculatif de la surface
func (s *EditorService) DrawShape(sessionID string, req *DrawShapeRequest) (*model.GeometryRecord, error) {
	entry, err := s.entree(sessionID)
	if err != nil {
		return nil, err
	}

	var draft *service.PrimitiveHandle
	if req.DraftHandle != nil {
		h := service.PrimitiveHandle(*req.DraftHandle)
		draft = &h
	}
	rec, _, err := entry.session.DrawShape(req.Kind, req.Points, req.RayonMetres, req.Categorie, req.Description, draft)
	return rec, err
}

// RemoveRecord retire un enregistrement; idempotent
func (s *EditorService) RemoveRecord(sessionID, recordID string) (bool, error) {
	entry, err := s.entree(sessionID)
	if err != nil {
		return false, err
	}
	return entry.session.RemoveRecord(recordID), nil
}

// SetCentre recadre le plan de la session
func (s *EditorService) SetCentre(sessionID string, lat, lng float64) error {
	entry, err := s.entree(sessionID)
	if err != nil {
		return err
	}
	entry.session.SetCentre(lat, lng)
	return nil
}

// Save sauvegarde la session et retourne l'identifiant du plan persisté
func (s *EditorService) Save(ctx context.Context, sessionID, nom string) (string, error) {
	entry, err := s.entree(sessionID)
	if err != nil {
		return "", err
	}
	return entry.session.Save(ctx, nom)
}

// RenderPass force une passe de réconciliation (changement de catalogue)
func (s *EditorService) RenderPass(sessionID string) (*SessionView, error) {
	entry, err := s.entree(sessionID)
	if err != nil {
		return nil, err
	}
	entry.session.RenderPass()
	return s.vue(sessionID), nil
}

// View état courant de la session
func (s *EditorService) View(sessionID string) (*SessionView, error) {
	if _, err := s.entree(sessionID); err != nil {
		return nil, err
	}
	return s.vue(sessionID), nil
}

// Close ferme la session et abandonne l'état non sauvegardé
func (s *EditorService) Close(sessionID string) error {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionIntrouvable
	}
	entry.session.Close()
	entry.surface.Close()
	return nil
}

func (s *EditorService) entree(sessionID string) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionIntrouvable
	}
	return entry, nil
}

func (s *EditorService) vue(sessionID string) *SessionView {
	entry, err := s.entree(sessionID)
	if err != nil {
		return nil
	}
	return &SessionView{
		SessionID:  sessionID,
		PlanID:     entry.session.PlanID(),
		State:      entry.session.State(),
		NbCouches:  entry.session.Len(),
		Primitives: entry.surface.Primitives(),
	}
}
