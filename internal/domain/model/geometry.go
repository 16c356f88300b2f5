package model

import (
	"math"

	"github.com/google/uuid"
)

// LonLat coordonnée géographique, toujours en ordre longitude puis latitude
// (convention SIG), peu importe ce que la surface de rendu attend nativement.
type LonLat struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Valide vérifie que la coordonnée est finie et dans les bornes terrestres
func (c LonLat) Valide() error {
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return NewValidationError("coordonnees", "la coordonnée doit être un nombre fini")
	}
	if c.Lon < -180 || c.Lon > 180 {
		return NewValidationError("longitude", "la longitude doit être entre -180 et 180")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return NewValidationError("latitude", "la latitude doit être entre -90 et 90")
	}
	return nil
}

// RecordKind discriminant de la variante d'un GeometryRecord
type RecordKind string

const (
	KindSymbol   RecordKind = "symbol"
	KindPolygon  RecordKind = "polygon"
	KindPolyline RecordKind = "polyline"
	KindCircle   RecordKind = "circle"
)

// ShapeCategory catégorie grossière d'une forme, utilisée pour les rapports
type ShapeCategory string

const (
	CategorieAcces      ShapeCategory = "acces"
	CategorieDanger     ShapeCategory = "danger"
	CategorieEquipement ShapeCategory = "equipement"
	CategorieRoute      ShapeCategory = "route"
)

// CategorieValide vérifie qu'une catégorie de forme fait partie des valeurs connues
func CategorieValide(c ShapeCategory) bool {
	switch c {
	case CategorieAcces, CategorieDanger, CategorieEquipement, CategorieRoute:
		return true
	}
	return false
}

// CircleGeometry centre + rayon en mètres
type CircleGeometry struct {
	Centre      LonLat  `json:"centre"`
	RayonMetres float64 `json:"rayon_metres"`
}

// SymbolProperties métadonnées d'un symbole placé. Le visuel (glyphe ou image)
// est figé au moment du placement: supprimer le symbole du catalogue ne doit
// jamais corrompre un enregistrement existant.
type SymbolProperties struct {
	Glyphe       string `json:"glyphe,omitempty"`
	ImageBase64  string `json:"image,omitempty"`
	Label        string `json:"label"`
	Note         string `json:"note,omitempty"`
	Couleur      string `json:"couleur,omitempty"`
	Personnalise bool   `json:"personnalise,omitempty"`
	SymbolID     string `json:"symbol_id,omitempty"`
}

// ShapeProperties métadonnées d'une forme dessinée
type ShapeProperties struct {
	Categorie   ShapeCategory `json:"categorie"`
	Description string        `json:"description"`
	Couleur     string        `json:"couleur,omitempty"`
}

// GeometryRecord une annotation placée sur le plan d'intervention.
// Union étiquetée sur Kind: exactement un des champs de géométrie est
// renseigné, et exactement un des sacs de propriétés (Symbol pour KindSymbol,
// Shape pour les trois autres).
type GeometryRecord struct {
	ID     string
	Kind   RecordKind
	Point  *LonLat
	Ring   []LonLat
	Path   []LonLat
	Circle *CircleGeometry
	Symbol *SymbolProperties
	Shape  *ShapeProperties
}

// NewSymbolRecord construit un enregistrement symbole à partir d'un placement.
// Construction pure: l'insertion dans le LayerStore est une étape séparée.
func NewSymbolRecord(position LonLat, def SymbolDefinition, note string) (*GeometryRecord, error) {
	if err := position.Valide(); err != nil {
		return nil, err
	}
	if def.Label == "" {
		return nil, NewValidationError("symbole", "le symbole doit avoir un libellé")
	}
	if def.Glyphe == "" && def.ImageBase64 == "" {
		return nil, NewValidationError("symbole", "le symbole doit avoir un glyphe ou une image")
	}

	pos := position
	return &GeometryRecord{
		ID:    uuid.New().String(),
		Kind:  KindSymbol,
		Point: &pos,
		Symbol: &SymbolProperties{
			Glyphe:       def.Glyphe,
			ImageBase64:  def.ImageBase64,
			Label:        def.Label,
			Note:         note,
			Couleur:      def.Couleur,
			Personnalise: def.Personnalise,
			SymbolID:     def.ID,
		},
	}, nil
}

// NewShapeRecord construit un enregistrement forme (polygone, ligne ou cercle).
// Pour un cercle, coords[0] est le centre et rayonMetres doit être positif;
// rayonMetres est ignoré pour les autres genres.
func NewShapeRecord(kind RecordKind, coords []LonLat, rayonMetres float64, categorie ShapeCategory, description string) (*GeometryRecord, error) {
	if description == "" {
		return nil, NewValidationError("description", "une description est requise")
	}
	if !CategorieValide(categorie) {
		return nil, NewValidationError("categorie", "catégorie de forme inconnue")
	}
	for _, c := range coords {
		if err := c.Valide(); err != nil {
			return nil, err
		}
	}

	rec := &GeometryRecord{
		ID:   uuid.New().String(),
		Kind: kind,
		Shape: &ShapeProperties{
			Categorie:   categorie,
			Description: description,
		},
	}

	switch kind {
	case KindPolygon:
		if nbPointsDistincts(coords) < 3 {
			return nil, NewValidationError("coordonnees", "un polygone exige au moins 3 points distincts")
		}
		rec.Ring = append([]LonLat(nil), coords...)
	case KindPolyline:
		if len(coords) < 2 {
			return nil, NewValidationError("coordonnees", "une ligne exige au moins 2 points")
		}
		rec.Path = append([]LonLat(nil), coords...)
	case KindCircle:
		if len(coords) < 1 {
			return nil, NewValidationError("coordonnees", "un cercle exige un centre")
		}
		if rayonMetres <= 0 {
			return nil, NewValidationError("rayon", "le rayon doit être positif")
		}
		rec.Circle = &CircleGeometry{Centre: coords[0], RayonMetres: rayonMetres}
	default:
		return nil, NewValidationError("kind", "genre de forme inconnu")
	}

	return rec, nil
}

// Valide vérifie la cohérence structurelle d'un enregistrement. Les données
// historiques rechargées passent par ici côté réconciliation: un enregistrement
// invalide est ignoré au rendu, jamais supprimé du store.
func (r *GeometryRecord) Valide() error {
	if r.ID == "" {
		return NewValidationError("id", "identifiant manquant")
	}
	switch r.Kind {
	case KindSymbol:
		if r.Point == nil {
			return NewValidationError("geometrie", "symbole sans position")
		}
		if r.Symbol == nil {
			return NewValidationError("proprietes", "symbole sans propriétés")
		}
		return r.Point.Valide()
	case KindPolygon:
		if nbPointsDistincts(r.Ring) < 3 {
			return NewValidationError("geometrie", "anneau de polygone incomplet")
		}
	case KindPolyline:
		if len(r.Path) < 2 {
			return NewValidationError("geometrie", "ligne incomplète")
		}
	case KindCircle:
		if r.Circle == nil || r.Circle.RayonMetres <= 0 {
			return NewValidationError("geometrie", "cercle sans rayon positif")
		}
		return r.Circle.Centre.Valide()
	default:
		return NewValidationError("kind", "genre d'enregistrement inconnu")
	}
	if r.Shape == nil {
		return NewValidationError("proprietes", "forme sans propriétés")
	}
	return nil
}

// Clone copie profonde, sans aucune référence partagée avec l'original
func (r *GeometryRecord) Clone() *GeometryRecord {
	if r == nil {
		return nil
	}
	dup := &GeometryRecord{ID: r.ID, Kind: r.Kind}
	if r.Point != nil {
		p := *r.Point
		dup.Point = &p
	}
	if r.Ring != nil {
		dup.Ring = append([]LonLat(nil), r.Ring...)
	}
	if r.Path != nil {
		dup.Path = append([]LonLat(nil), r.Path...)
	}
	if r.Circle != nil {
		c := *r.Circle
		dup.Circle = &c
	}
	if r.Symbol != nil {
		s := *r.Symbol
		dup.Symbol = &s
	}
	if r.Shape != nil {
		s := *r.Shape
		dup.Shape = &s
	}
	return dup
}

// nbPointsDistincts compte les points distincts d'une séquence
func nbPointsDistincts(coords []LonLat) int {
	vus := make(map[LonLat]struct{}, len(coords))
	for _, c := range coords {
		vus[c] = struct{}{}
	}
	return len(vus)
}
