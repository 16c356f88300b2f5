package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-intervention-api/internal/domain/model"
)

// fausseSurface surface de rendu en mémoire pour les tests. Peut simuler
// l'échec du rendu de certains enregistrements.
type fausseSurface struct {
	fermee     bool
	suivant    PrimitiveHandle
	primitives map[PrimitiveHandle]string
	echecs     map[string]bool
}

func nouvelleFausseSurface() *fausseSurface {
	return &fausseSurface{
		primitives: make(map[PrimitiveHandle]string),
		echecs:     make(map[string]bool),
	}
}

func (f *fausseSurface) Ready() bool { return !f.fermee }

func (f *fausseSurface) ajoute(recordID string) (PrimitiveHandle, error) {
	if f.echecs[recordID] {
		return 0, fmt.Errorf("panne de tuile simulée")
	}
	f.suivant++
	f.primitives[f.suivant] = recordID
	return f.suivant, nil
}

func (f *fausseSurface) AddMarker(spec MarkerSpec) (PrimitiveHandle, error) {
	return f.ajoute(spec.RecordID)
}

func (f *fausseSurface) AddPolygon(spec PolygonSpec) (PrimitiveHandle, error) {
	return f.ajoute(spec.RecordID)
}

func (f *fausseSurface) AddPolyline(spec PolylineSpec) (PrimitiveHandle, error) {
	return f.ajoute(spec.RecordID)
}

func (f *fausseSurface) AddCircle(spec CircleSpec) (PrimitiveHandle, error) {
	return f.ajoute(spec.RecordID)
}

func (f *fausseSurface) Remove(handle PrimitiveHandle) {
	delete(f.primitives, handle)
}

// parRecord compte les primitives affichées par identifiant d'enregistrement
func (f *fausseSurface) parRecord() map[string]int {
	out := make(map[string]int)
	for _, id := range f.primitives {
		out[id]++
	}
	return out
}

func storeAvecSymboles(t *testing.T, n int) *model.LayerStore {
	t.Helper()
	store := model.NewLayerStore()
	for i := 0; i < n; i++ {
		rec, err := model.NewSymbolRecord(
			model.LonLat{Lon: -71.89 + float64(i)*0.001, Lat: 45.40},
			model.SymbolDefinition{Glyphe: "🚰", Label: fmt.Sprintf("Borne %d", i)}, "")
		require.NoError(t, err)
		require.NoError(t, store.Append(rec))
	}
	return store
}

func TestReconcileSansDoublon(t *testing.T) {
	surface := nouvelleFausseSurface()
	reconciler := NewReconciler(surface, nil)
	store := storeAvecSymboles(t, 5)

	// deux passes consécutives sur le même store: exactement une primitive
	// par enregistrement, jamais deux
	for passe := 0; passe < 2; passe++ {
		report := reconciler.Reconcile(store)
		assert.Equal(t, 5, report.Rendered)
		assert.Empty(t, report.Skipped)
		assert.Len(t, surface.primitives, 5)
		for id, n := range surface.parRecord() {
			assert.Equalf(t, 1, n, "enregistrement %s rendu %d fois", id, n)
		}
	}
}

func TestReconcileToleLesEchecsPartiels(t *testing.T) {
	surface := nouvelleFausseSurface()
	reconciler := NewReconciler(surface, nil)
	store := storeAvecSymboles(t, 10)

	casse := store.Records()[3].ID
	surface.echecs[casse] = true

	report := reconciler.Reconcile(store)
	assert.Equal(t, 9, report.Rendered)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, casse, report.Skipped[0].RecordID)
	assert.Len(t, surface.primitives, 9)

	// la panne résolue, la passe suivante récupère l'enregistrement
	surface.echecs[casse] = false
	report = reconciler.Reconcile(store)
	assert.Equal(t, 10, report.Rendered)
	assert.Len(t, surface.primitives, 10)
}

func TestReconcileIgnoreLesEnregistrementsInvalides(t *testing.T) {
	surface := nouvelleFausseSurface()
	reconciler := NewReconciler(surface, nil)

	store := storeAvecSymboles(t, 2)
	// une couche historique corrompue: cercle sans rayon
	require.NoError(t, store.Append(&model.GeometryRecord{
		ID:     "corrompu",
		Kind:   model.KindCircle,
		Circle: &model.CircleGeometry{},
		Shape:  &model.ShapeProperties{Categorie: model.CategorieDanger},
	}))

	report := reconciler.Reconcile(store)
	assert.Equal(t, 2, report.Rendered)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "corrompu", report.Skipped[0].RecordID)
	// l'enregistrement reste dans le store, seulement absent du rendu
	assert.NotNil(t, store.Get("corrompu"))
}

func TestRemoveRecordPrimitive(t *testing.T) {
	surface := nouvelleFausseSurface()
	reconciler := NewReconciler(surface, nil)
	store := storeAvecSymboles(t, 3)
	reconciler.Reconcile(store)

	cible := store.Records()[1].ID
	store.RemoveByID(cible)
	reconciler.RemoveRecordPrimitive(cible)

	assert.Len(t, surface.primitives, 2)
	assert.Zero(t, surface.parRecord()[cible])

	// no-op pour un enregistrement déjà retiré
	reconciler.RemoveRecordPrimitive(cible)
	assert.Len(t, surface.primitives, 2)

	// la passe suivante ne ressuscite rien
	report := reconciler.Reconcile(store)
	assert.Equal(t, 2, report.Rendered)
	assert.Len(t, surface.primitives, 2)
}

func TestReconcileSurfaceFermee(t *testing.T) {
	surface := nouvelleFausseSurface()
	reconciler := NewReconciler(surface, nil)
	store := storeAvecSymboles(t, 2)

	surface.fermee = true
	report := reconciler.Reconcile(store)
	assert.Zero(t, report.Rendered)
	assert.Empty(t, surface.primitives)
}

func TestCouleurForme(t *testing.T) {
	assert.Equal(t, "#dc2626", couleurForme(&model.ShapeProperties{Categorie: model.CategorieDanger}))
	assert.Equal(t, "#123456", couleurForme(&model.ShapeProperties{Categorie: model.CategorieDanger, Couleur: "#123456"}))
	assert.Equal(t, couleurParDefaut, couleurForme(&model.ShapeProperties{Categorie: "inconnue"}))
	assert.Equal(t, couleurParDefaut, couleurForme(nil))
}
