package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/service"
)

// fauxDepotPlans dépôt de plans en mémoire
type fauxDepotPlans struct {
	mu    sync.Mutex
	plans map[string]*model.PlanIntervention
	panne error
}

func nouveauFauxDepotPlans() *fauxDepotPlans {
	return &fauxDepotPlans{plans: make(map[string]*model.PlanIntervention)}
}

func (f *fauxDepotPlans) GetByID(ctx context.Context, tenantID, id string) (*model.PlanIntervention, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panne != nil {
		return nil, f.panne
	}
	plan, ok := f.plans[id]
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", id, model.ErrIntrouvable)
	}
	return plan, nil
}

func (f *fauxDepotPlans) ListByTenant(ctx context.Context, tenantID string) ([]model.PlanSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.PlanSummary, 0, len(f.plans))
	for _, plan := range f.plans {
		out = append(out, plan.Resume())
	}
	return out, nil
}

func (f *fauxDepotPlans) Create(ctx context.Context, plan *model.PlanIntervention) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panne != nil {
		return f.panne
	}
	f.plans[plan.ID] = plan
	return nil
}

func (f *fauxDepotPlans) Update(ctx context.Context, plan *model.PlanIntervention) error {
	return f.Create(ctx, plan)
}

func (f *fauxDepotPlans) Delete(ctx context.Context, tenantID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.plans, id)
	return nil
}

func editeurTest(t *testing.T) (*EditorService, *fauxDepotPlans, *fauxDepotSymboles) {
	t.Helper()
	plans := nouveauFauxDepotPlans()
	symboles := nouveauFauxDepotSymboles()
	return NewEditorService(plans, symboles, nil), plans, symboles
}

func TestEditorOpenEtPlaceSymbolIntegre(t *testing.T) {
	ctx := context.Background()
	editor, _, _ := editeurTest(t)

	vue, err := editor.Open(ctx, "caserne-51", "")
	require.NoError(t, err)
	assert.Equal(t, service.StateEmpty, vue.State)
	assert.Empty(t, vue.Primitives)

	rec, err := editor.PlaceSymbol(ctx, vue.SessionID, &PlaceSymbolRequest{
		Position: model.LonLat{Lon: -71.89, Lat: 45.40},
		Label:    "Borne-fontaine",
		Note:     "Pression faible",
	})
	require.NoError(t, err)
	assert.Equal(t, "Borne-fontaine", rec.Symbol.Label)

	vue, err = editor.View(vue.SessionID)
	require.NoError(t, err)
	assert.Equal(t, service.StateDirty, vue.State)
	assert.Equal(t, 1, vue.NbCouches)
	require.Len(t, vue.Primitives, 1)
	assert.Equal(t, "🚰", vue.Primitives[0].Glyphe)
	assert.Equal(t, "Borne-fontaine\nPression faible", vue.Primitives[0].Popup)
	// la surface travaille en latitude/longitude natives
	assert.Equal(t, 45.40, vue.Primitives[0].Position.Lat)
	assert.Equal(t, -71.89, vue.Primitives[0].Position.Lng)

	t.Run("libellé intégré inconnu", func(t *testing.T) {
		_, err := editor.PlaceSymbol(ctx, vue.SessionID, &PlaceSymbolRequest{
			Position: model.LonLat{Lon: 0, Lat: 0},
			Label:    "Licorne",
		})
		assert.True(t, model.IsValidationError(err))
	})
}

func TestEditorSymbolePersonnaliseFigeAuPlacement(t *testing.T) {
	ctx := context.Background()
	editor, _, symboles := editeurTest(t)
	catalogue := NewSymbolsService(symboles, nil)

	cree, err := catalogue.CreateCustom(ctx, "caserne-51", &CustomSymbolRequest{
		Nom:         "Vanne rue Wellington",
		ImageBase64: pngMinuscule,
	})
	require.NoError(t, err)

	vue, err := editor.Open(ctx, "caserne-51", "")
	require.NoError(t, err)

	rec, err := editor.PlaceSymbol(ctx, vue.SessionID, &PlaceSymbolRequest{
		Position: model.LonLat{Lon: -71.89, Lat: 45.40},
		SymbolID: cree.ID,
	})
	require.NoError(t, err)
	assert.True(t, rec.Symbol.Personnalise)
	assert.Equal(t, pngMinuscule, rec.Symbol.ImageBase64)

	// le symbole disparaît du catalogue; l'enregistrement placé garde son
	// visuel figé, y compris après une passe de réconciliation complète
	require.NoError(t, catalogue.DeleteCustom(ctx, "caserne-51", cree.ID))

	vue, err = editor.RenderPass(vue.SessionID)
	require.NoError(t, err)
	require.Len(t, vue.Primitives, 1)
	assert.Equal(t, pngMinuscule, vue.Primitives[0].ImageBase64)
	assert.Equal(t, "Vanne rue Wellington", vue.Primitives[0].Label)

	t.Run("nouveau placement du symbole supprimé refusé", func(t *testing.T) {
		_, err := editor.PlaceSymbol(ctx, vue.SessionID, &PlaceSymbolRequest{
			Position: model.LonLat{Lon: 0, Lat: 0},
			SymbolID: cree.ID,
		})
		assert.True(t, errors.Is(err, model.ErrIntrouvable))
	})
}

func TestEditorSauvegardeEtRechargement(t *testing.T) {
	ctx := context.Background()
	editor, plans, _ := editeurTest(t)

	vue, err := editor.Open(ctx, "caserne-51", "")
	require.NoError(t, err)

	_, err = editor.PlaceSymbol(ctx, vue.SessionID, &PlaceSymbolRequest{
		Position: model.LonLat{Lon: -71.89, Lat: 45.40},
		Label:    "Borne-fontaine",
	})
	require.NoError(t, err)
	_, err = editor.DrawShape(vue.SessionID, &DrawShapeRequest{
		Kind:        model.KindPolygon,
		Points:      []model.LonLat{{Lon: -71.9, Lat: 45.4}, {Lon: -71.8, Lat: 45.4}, {Lon: -71.85, Lat: 45.5}},
		Categorie:   model.CategorieDanger,
		Description: "Zone de propane",
	})
	require.NoError(t, err)
	_, err = editor.DrawShape(vue.SessionID, &DrawShapeRequest{
		Kind:        model.KindCircle,
		Points:      []model.LonLat{{Lon: -71.87, Lat: 45.41}},
		RayonMetres: 75,
		Categorie:   model.CategorieAcces,
		Description: "Rayon d'approche",
	})
	require.NoError(t, err)

	require.NoError(t, editor.SetCentre(vue.SessionID, 45.40, -71.89))

	planID, err := editor.Save(ctx, vue.SessionID, "Entrepôt rue King")
	require.NoError(t, err)
	require.NoError(t, editor.Close(vue.SessionID))

	// le centre voyage avec le document
	assert.Equal(t, 45.40, plans.plans[planID].CentreLat)
	assert.Equal(t, -71.89, plans.plans[planID].CentreLng)

	// nouvelle session depuis le plan persisté
	recharge, err := editor.Open(ctx, "caserne-51", planID)
	require.NoError(t, err)
	assert.Equal(t, service.StateSynced, recharge.State)
	assert.Equal(t, planID, recharge.PlanID)
	assert.Equal(t, 3, recharge.NbCouches)
	assert.Len(t, recharge.Primitives, 3)
}

func TestEditorOuvertureAvecPasserelleEnPanne(t *testing.T) {
	ctx := context.Background()
	editor, plans, _ := editeurTest(t)
	plans.plans["plan-1"] = &model.PlanIntervention{ID: "plan-1", Nom: "Caserne"}
	plans.panne = &model.NetworkError{Op: "GetByID", Err: errors.New("coupure")}

	// la session s'ouvre malgré l'échec et reste en attente de chargement
	vue, err := editor.Open(ctx, "caserne-51", "plan-1")
	require.Error(t, err)
	require.NotNil(t, vue)
	assert.Equal(t, service.StateHydrating, vue.State)

	plans.panne = nil
	vue, err = editor.Rehydrate(ctx, vue.SessionID)
	require.NoError(t, err)
	assert.Equal(t, service.StateSynced, vue.State)
}

func TestEditorSessionInconnue(t *testing.T) {
	editor, _, _ := editeurTest(t)

	_, err := editor.View("inconnue")
	assert.True(t, errors.Is(err, ErrSessionIntrouvable))
	_, err = editor.Save(context.Background(), "inconnue", "x")
	assert.True(t, errors.Is(err, ErrSessionIntrouvable))
	assert.True(t, errors.Is(editor.Close("inconnue"), ErrSessionIntrouvable))
}

func TestEditorCloseAbandonneLeNonSauvegarde(t *testing.T) {
	ctx := context.Background()
	editor, plans, _ := editeurTest(t)

	vue, err := editor.Open(ctx, "caserne-51", "")
	require.NoError(t, err)
	_, err = editor.PlaceSymbol(ctx, vue.SessionID, &PlaceSymbolRequest{
		Position: model.LonLat{Lon: -71.89, Lat: 45.40},
		Label:    "Borne-fontaine",
	})
	require.NoError(t, err)

	require.NoError(t, editor.Close(vue.SessionID))

	// rien n'a été poussé vers la passerelle, la session n'existe plus
	assert.Empty(t, plans.plans)
	_, err = editor.View(vue.SessionID)
	assert.True(t, errors.Is(err, ErrSessionIntrouvable))
}
