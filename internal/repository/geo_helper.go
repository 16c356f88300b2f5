package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"plan-intervention-api/internal/domain/model"
)

// planDocument document de plan tel qu'échangé en JSON avec la passerelle
type planDocument struct {
	ID        string          `json:"id,omitempty"`
	TenantID  string          `json:"tenant_id,omitempty"`
	Nom       string          `json:"nom,omitempty"`
	Layers    []layerDocument `json:"layers"`
	CentreLat float64         `json:"centre_lat"`
	CentreLng float64         `json:"centre_lng"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}

// layerDocument une couche sérialisée. La géométrie est au format GeoJSON
// ([lon,lat]) sauf pour les cercles: centre + rayon en mètres.
type layerDocument struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Geometry   json.RawMessage    `json:"geometry"`
	Properties propertiesDocument `json:"properties"`
}

// propertiesDocument sac de propriétés aplati. Le champ Type porte la
// catégorie grossière des formes (acces, danger, equipement, route).
type propertiesDocument struct {
	Glyphe       string `json:"glyphe,omitempty"`
	Image        string `json:"image,omitempty"`
	Label        string `json:"label,omitempty"`
	Note         string `json:"note,omitempty"`
	Couleur      string `json:"couleur,omitempty"`
	Personnalise bool   `json:"personnalise,omitempty"`
	SymbolID     string `json:"symbol_id,omitempty"`
	Type         string `json:"type,omitempty"`
	Description  string `json:"description,omitempty"`
}

// circleDocument géométrie d'un cercle sur le fil
type circleDocument struct {
	Coordinates [2]float64 `json:"coordinates"`
	Radius      float64    `json:"radius"`
}

// encodeLayers sérialise les enregistrements dans l'ordre du store
func encodeLayers(records []*model.GeometryRecord) ([]layerDocument, error) {
	docs := make([]layerDocument, 0, len(records))
	for _, rec := range records {
		doc, err := encodeRecord(rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func encodeRecord(rec *model.GeometryRecord) (layerDocument, error) {
	doc := layerDocument{ID: rec.ID, Type: string(rec.Kind)}

	switch rec.Kind {
	case model.KindSymbol:
		raw, err := json.Marshal(geojson.NewGeometry(orb.Point{rec.Point.Lon, rec.Point.Lat}))
		if err != nil {
			return doc, err
		}
		doc.Geometry = raw
		doc.Properties = propertiesDocument{
			Glyphe:       rec.Symbol.Glyphe,
			Image:        rec.Symbol.ImageBase64,
			Label:        rec.Symbol.Label,
			Note:         rec.Symbol.Note,
			Couleur:      rec.Symbol.Couleur,
			Personnalise: rec.Symbol.Personnalise,
			SymbolID:     rec.Symbol.SymbolID,
		}

	case model.KindPolygon:
		ring := make(orb.Ring, 0, len(rec.Ring))
		for _, c := range rec.Ring {
			ring = append(ring, orb.Point{c.Lon, c.Lat})
		}
		raw, err := json.Marshal(geojson.NewGeometry(orb.Polygon{ring}))
		if err != nil {
			return doc, err
		}
		doc.Geometry = raw
		doc.Properties = shapeProperties(rec.Shape)

	case model.KindPolyline:
		line := make(orb.LineString, 0, len(rec.Path))
		for _, c := range rec.Path {
			line = append(line, orb.Point{c.Lon, c.Lat})
		}
		raw, err := json.Marshal(geojson.NewGeometry(line))
		if err != nil {
			return doc, err
		}
		doc.Geometry = raw
		doc.Properties = shapeProperties(rec.Shape)

	case model.KindCircle:
		raw, err := json.Marshal(circleDocument{
			Coordinates: [2]float64{rec.Circle.Centre.Lon, rec.Circle.Centre.Lat},
			Radius:      rec.Circle.RayonMetres,
		})
		if err != nil {
			return doc, err
		}
		doc.Geometry = raw
		doc.Properties = shapeProperties(rec.Shape)

	default:
		return doc, fmt.Errorf("genre de couche inconnu: %s", rec.Kind)
	}
	return doc, nil
}

func shapeProperties(props *model.ShapeProperties) propertiesDocument {
	if props == nil {
		return propertiesDocument{}
	}
	return propertiesDocument{
		Type:        string(props.Categorie),
		Description: props.Description,
		Couleur:     props.Couleur,
	}
}

// decodeLayers reconstruit les enregistrements d'un document. Tolérant aux
// données historiques: une couche illisible est écartée et comptée, jamais
// bloquante pour le reste du plan.
func decodeLayers(docs []layerDocument) ([]*model.GeometryRecord, int) {
	records := make([]*model.GeometryRecord, 0, len(docs))
	ecartees := 0
	for _, doc := range docs {
		rec, err := decodeRecord(doc)
		if err != nil {
			ecartees++
			continue
		}
		records = append(records, rec)
	}
	return records, ecartees
}

func decodeRecord(doc layerDocument) (*model.GeometryRecord, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("couche sans identifiant")
	}
	rec := &model.GeometryRecord{ID: doc.ID, Kind: model.RecordKind(doc.Type)}

	switch rec.Kind {
	case model.KindSymbol:
		pt, err := decodePoint(doc.Geometry)
		if err != nil {
			return nil, err
		}
		rec.Point = pt
		rec.Symbol = &model.SymbolProperties{
			Glyphe:       doc.Properties.Glyphe,
			ImageBase64:  doc.Properties.Image,
			Label:        doc.Properties.Label,
			Note:         doc.Properties.Note,
			Couleur:      doc.Properties.Couleur,
			Personnalise: doc.Properties.Personnalise,
			SymbolID:     doc.Properties.SymbolID,
		}

	case model.KindPolygon:
		geom, err := geojson.UnmarshalGeometry(doc.Geometry)
		if err != nil {
			return nil, err
		}
		poly, ok := geom.Geometry().(orb.Polygon)
		if !ok || len(poly) == 0 {
			return nil, fmt.Errorf("géométrie de polygone attendue")
		}
		rec.Ring = versLonLat(poly[0])
		rec.Shape = decodeShapeProperties(doc.Properties)

	case model.KindPolyline:
		geom, err := geojson.UnmarshalGeometry(doc.Geometry)
		if err != nil {
			return nil, err
		}
		line, ok := geom.Geometry().(orb.LineString)
		if !ok {
			return nil, fmt.Errorf("géométrie de ligne attendue")
		}
		rec.Path = versLonLat(line)
		rec.Shape = decodeShapeProperties(doc.Properties)

	case model.KindCircle:
		var c circleDocument
		if err := json.Unmarshal(doc.Geometry, &c); err != nil {
			return nil, err
		}
		rec.Circle = &model.CircleGeometry{
			Centre:      model.LonLat{Lon: c.Coordinates[0], Lat: c.Coordinates[1]},
			RayonMetres: c.Radius,
		}
		rec.Shape = decodeShapeProperties(doc.Properties)

	default:
		return nil, fmt.Errorf("genre de couche inconnu: %s", doc.Type)
	}
	return rec, nil
}

func decodeShapeProperties(props propertiesDocument) *model.ShapeProperties {
	return &model.ShapeProperties{
		Categorie:   model.ShapeCategory(props.Type),
		Description: props.Description,
		Couleur:     props.Couleur,
	}
}

func decodePoint(raw json.RawMessage) (*model.LonLat, error) {
	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, err
	}
	pt, ok := geom.Geometry().(orb.Point)
	if !ok {
		return nil, fmt.Errorf("géométrie ponctuelle attendue")
	}
	return &model.LonLat{Lon: pt.Lon(), Lat: pt.Lat()}, nil
}

func versLonLat(points []orb.Point) []model.LonLat {
	out := make([]model.LonLat, 0, len(points))
	for _, p := range points {
		out = append(out, model.LonLat{Lon: p.Lon(), Lat: p.Lat()})
	}
	return out
}

// marshalLayers sérialise un lot de couches en une seule chaîne JSON,
// pratique pour les stockages sans colonne structurée
func marshalLayers(docs []layerDocument) (string, error) {
	data, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("sérialisation des couches: %w", err)
	}
	return string(data), nil
}

func unmarshalLayers(data string) ([]layerDocument, error) {
	var docs []layerDocument
	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		return nil, fmt.Errorf("désérialisation des couches: %w", err)
	}
	return docs, nil
}

// planToDocument convertit un plan du domaine vers sa forme sérialisée
func planToDocument(plan *model.PlanIntervention) (*planDocument, error) {
	layers, err := encodeLayers(plan.Layers)
	if err != nil {
		return nil, err
	}
	return &planDocument{
		ID:        plan.ID,
		TenantID:  plan.TenantID,
		Nom:       plan.Nom,
		Layers:    layers,
		CentreLat: plan.CentreLat,
		CentreLng: plan.CentreLng,
		UpdatedAt: plan.UpdatedAt,
	}, nil
}

// planFromDocument reconstruit un plan du domaine. Retourne aussi le nombre
// de couches écartées au décodage, pour journalisation.
func planFromDocument(doc *planDocument) (*model.PlanIntervention, int) {
	layers, ecartees := decodeLayers(doc.Layers)
	return &model.PlanIntervention{
		ID:        doc.ID,
		TenantID:  doc.TenantID,
		Nom:       doc.Nom,
		Layers:    layers,
		CentreLat: doc.CentreLat,
		CentreLng: doc.CentreLng,
		UpdatedAt: doc.UpdatedAt,
	}, ecartees
}
