package render

import (
	"sync"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/service"
)

// LatLng coordonnée native de la surface, en ordre latitude puis longitude
// (convention des bibliothèques de cartographie côté client)
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// versNatif conversion de frontière unique entre l'ordre de stockage
// [lon,lat] et l'ordre natif de la surface. Toute lecture/écriture passe
// ici; aucune logique métier ne repose sur la position des composantes.
func versNatif(c model.LonLat) LatLng {
	return LatLng{Lat: c.Lat, Lng: c.Lon}
}

func cheminNatif(coords []model.LonLat) []LatLng {
	out := make([]LatLng, len(coords))
	for i, c := range coords {
		out[i] = versNatif(c)
	}
	return out
}

// DisplayPrimitive une primitive de la liste d'affichage, telle que servie
// aux clients web et mobile
type DisplayPrimitive struct {
	Handle      service.PrimitiveHandle `json:"handle"`
	RecordID    string                  `json:"record_id,omitempty"`
	Type        string                  `json:"type"`
	Position    *LatLng                 `json:"position,omitempty"`
	Points      []LatLng                `json:"points,omitempty"`
	RayonMetres float64                 `json:"rayon_metres,omitempty"`
	Glyphe      string                  `json:"glyphe,omitempty"`
	ImageBase64 string                  `json:"image,omitempty"`
	Label       string                  `json:"label,omitempty"`
	Popup       string                  `json:"popup,omitempty"`
	Couleur     string                  `json:"couleur,omitempty"`
	Supprimable bool                    `json:"supprimable,omitempty"`
	Draft       bool                    `json:"draft,omitempty"`
}

// DisplayList implémentation de production de la surface de rendu: une liste
// de primitives que l'API sert telle quelle aux clients. Protégée par verrou
// parce que les lectures HTTP arrivent pendant que le réconciliateur écrit.
type DisplayList struct {
	mu         sync.Mutex
	ferme      bool
	suivant    service.PrimitiveHandle
	primitives []DisplayPrimitive
}

// NewDisplayList crée une surface vide
func NewDisplayList() *DisplayList {
	return &DisplayList{}
}

// Ready faux après Close: les passes tardives deviennent des no-op
func (d *DisplayList) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.ferme
}

// Close marque la surface disparue (session fermée)
func (d *DisplayList) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ferme = true
	d.primitives = nil
}

func (d *DisplayList) AddMarker(spec service.MarkerSpec) (service.PrimitiveHandle, error) {
	pos := versNatif(spec.Position)
	return d.ajoute(DisplayPrimitive{
		RecordID:    spec.RecordID,
		Type:        "marker",
		Position:    &pos,
		Glyphe:      spec.Glyphe,
		ImageBase64: spec.ImageBase64,
		Label:       spec.Label,
		Popup:       spec.Popup,
		Couleur:     spec.Couleur,
		Supprimable: spec.Supprimable,
	})
}

func (d *DisplayList) AddPolygon(spec service.PolygonSpec) (service.PrimitiveHandle, error) {
	return d.ajoute(DisplayPrimitive{
		RecordID: spec.RecordID,
		Type:     "polygon",
		Points:   cheminNatif(spec.Ring),
		Couleur:  spec.Couleur,
	})
}

func (d *DisplayList) AddPolyline(spec service.PolylineSpec) (service.PrimitiveHandle, error) {
	return d.ajoute(DisplayPrimitive{
		RecordID: spec.RecordID,
		Type:     "polyline",
		Points:   cheminNatif(spec.Path),
		Couleur:  spec.Couleur,
	})
}

func (d *DisplayList) AddCircle(spec service.CircleSpec) (service.PrimitiveHandle, error) {
	pos := versNatif(spec.Centre)
	return d.ajoute(DisplayPrimitive{
		RecordID:    spec.RecordID,
		Type:        "circle",
		Position:    &pos,
		RayonMetres: spec.RayonMetres,
		Couleur:     spec.Couleur,
	})
}

// AddDraft pose un tracé spéculatif (dessin en cours, pas encore validé).
// La session le retire elle-même quand la forme est acceptée ou refusée.
func (d *DisplayList) AddDraft(points []LatLng) service.PrimitiveHandle {
	h, _ := d.ajoute(DisplayPrimitive{
		Type:   "polygon",
		Points: points,
		Draft:  true,
	})
	return h
}

func (d *DisplayList) Remove(handle service.PrimitiveHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.primitives {
		if p.Handle == handle {
			d.primitives = append(d.primitives[:i], d.primitives[i+1:]...)
			return
		}
	}
}

// Primitives instantané de la liste d'affichage pour les clients
func (d *DisplayList) Primitives() []DisplayPrimitive {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DisplayPrimitive(nil), d.primitives...)
}

// Len nombre de primitives affichées
func (d *DisplayList) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.primitives)
}

func (d *DisplayList) ajoute(p DisplayPrimitive) (service.PrimitiveHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suivant++
	p.Handle = d.suivant
	d.primitives = append(d.primitives, p)
	return p.Handle, nil
}
