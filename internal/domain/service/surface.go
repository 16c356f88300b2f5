package service

import "plan-intervention-api/internal/domain/model"

// PrimitiveHandle référence opaque d'une primitive posée sur la surface
type PrimitiveHandle int64

// MarkerSpec primitive ponctuelle. Le popup (libellé + note) et le caractère
// supprimable voyagent avec la primitive: c'est la surface qui matérialise
// les interactions, mais la suppression repasse toujours par le LayerStore.
type MarkerSpec struct {
	RecordID    string
	Position    model.LonLat
	Glyphe      string
	ImageBase64 string
	Label       string
	Popup       string
	Couleur     string
	Supprimable bool
}

// PolygonSpec primitive surfacique, anneau en ordre [lon,lat]
type PolygonSpec struct {
	RecordID string
	Ring     []model.LonLat
	Couleur  string
}

// PolylineSpec primitive linéaire
type PolylineSpec struct {
	RecordID string
	Path     []model.LonLat
	Couleur  string
}

// CircleSpec primitive circulaire, rayon en mètres
type CircleSpec struct {
	RecordID    string
	Centre      model.LonLat
	RayonMetres float64
	Couleur     string
}

// RenderSurface surface de rendu pan/zoom/marqueur/polygone. Une seule
// implémentation de production (la liste d'affichage servie aux clients);
// les tests fournissent la leur.
//
// Seul le réconciliateur écrit sur la surface. Les gestionnaires d'événements
// ne touchent qu'au LayerStore puis déclenchent une passe.
type RenderSurface interface {
	// Ready faux quand la session est fermée: une réponse réseau tardive ne
	// doit pas redessiner une surface disparue.
	Ready() bool
	AddMarker(spec MarkerSpec) (PrimitiveHandle, error)
	AddPolygon(spec PolygonSpec) (PrimitiveHandle, error)
	AddPolyline(spec PolylineSpec) (PrimitiveHandle, error)
	AddCircle(spec CircleSpec) (PrimitiveHandle, error)
	Remove(handle PrimitiveHandle)
}
