package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plan-intervention-api/internal/domain/model"
)

func couchesTest(t *testing.T) []*model.GeometryRecord {
	t.Helper()
	symbole, err := model.NewSymbolRecord(model.LonLat{Lon: -71.89, Lat: 45.40},
		model.SymbolDefinition{Glyphe: "🚰", Label: "Borne-fontaine", Couleur: "#2563eb"},
		"Pression faible")
	require.NoError(t, err)

	polygone, err := model.NewShapeRecord(model.KindPolygon,
		[]model.LonLat{{Lon: -71.9, Lat: 45.4}, {Lon: -71.8, Lat: 45.4}, {Lon: -71.85, Lat: 45.5}},
		0, model.CategorieDanger, "Zone de propane")
	require.NoError(t, err)

	ligne, err := model.NewShapeRecord(model.KindPolyline,
		[]model.LonLat{{Lon: -71.9, Lat: 45.4}, {Lon: -71.88, Lat: 45.42}},
		0, model.CategorieRoute, "Trajet des boyaux")
	require.NoError(t, err)

	cercle, err := model.NewShapeRecord(model.KindCircle,
		[]model.LonLat{{Lon: -71.87, Lat: 45.41}}, 75,
		model.CategorieAcces, "Rayon d'approche")
	require.NoError(t, err)

	return []*model.GeometryRecord{symbole, polygone, ligne, cercle}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	originaux := couchesTest(t)

	docs, err := encodeLayers(originaux)
	require.NoError(t, err)
	require.Len(t, docs, 4)

	recharges, ecartees := decodeLayers(docs)
	assert.Zero(t, ecartees)
	require.Len(t, recharges, 4)

	for i := range originaux {
		assert.Equal(t, originaux[i], recharges[i], "couche %d", i)
	}
}

func TestEncodeOrdreLonLat(t *testing.T) {
	originaux := couchesTest(t)
	docs, err := encodeLayers(originaux)
	require.NoError(t, err)

	t.Run("point GeoJSON en [lon,lat]", func(t *testing.T) {
		var geom struct {
			Type        string     `json:"type"`
			Coordinates [2]float64 `json:"coordinates"`
		}
		require.NoError(t, json.Unmarshal(docs[0].Geometry, &geom))
		assert.Equal(t, "Point", geom.Type)
		assert.Equal(t, -71.89, geom.Coordinates[0])
		assert.Equal(t, 45.40, geom.Coordinates[1])
	})

	t.Run("cercle en coordonnées + rayon", func(t *testing.T) {
		var c circleDocument
		require.NoError(t, json.Unmarshal(docs[3].Geometry, &c))
		assert.Equal(t, -71.87, c.Coordinates[0])
		assert.Equal(t, 45.41, c.Coordinates[1])
		assert.Equal(t, 75.0, c.Radius)
	})
}

func TestEncodeProprietes(t *testing.T) {
	originaux := couchesTest(t)
	docs, err := encodeLayers(originaux)
	require.NoError(t, err)

	assert.Equal(t, "symbol", docs[0].Type)
	assert.Equal(t, "Borne-fontaine", docs[0].Properties.Label)
	assert.Equal(t, "Pression faible", docs[0].Properties.Note)

	// la catégorie grossière des formes voyage dans properties.type
	assert.Equal(t, "danger", docs[1].Properties.Type)
	assert.Equal(t, "Zone de propane", docs[1].Properties.Description)
}

func TestDecodeEcarteLesCouchesIllisibles(t *testing.T) {
	docs, err := encodeLayers(couchesTest(t))
	require.NoError(t, err)

	docs = append(docs,
		layerDocument{ID: "x1", Type: "teleporteur", Geometry: json.RawMessage(`{}`)},
		layerDocument{ID: "", Type: "symbol"},
		layerDocument{ID: "x2", Type: "symbol", Geometry: json.RawMessage(`pas du json`)})

	records, ecartees := decodeLayers(docs)
	assert.Equal(t, 3, ecartees)
	assert.Len(t, records, 4)
}

func TestMarshalLayersRoundTrip(t *testing.T) {
	docs, err := encodeLayers(couchesTest(t))
	require.NoError(t, err)

	chaine, err := marshalLayers(docs)
	require.NoError(t, err)

	relus, err := unmarshalLayers(chaine)
	require.NoError(t, err)
	require.Len(t, relus, len(docs))
	for i := range docs {
		assert.JSONEq(t, string(docs[i].Geometry), string(relus[i].Geometry))
		assert.Equal(t, docs[i].Properties, relus[i].Properties)
	}
}

func TestPlanDocumentRoundTrip(t *testing.T) {
	plan := &model.PlanIntervention{
		ID:        "plan-1",
		TenantID:  "caserne-51",
		Nom:       "Entrepôt rue King",
		CentreLat: 45.40,
		CentreLng: -71.89,
		Layers:    couchesTest(t),
	}

	doc, err := planToDocument(plan)
	require.NoError(t, err)

	recharge, ecartees := planFromDocument(doc)
	assert.Zero(t, ecartees)
	assert.Equal(t, plan.ID, recharge.ID)
	assert.Equal(t, plan.Nom, recharge.Nom)
	assert.Equal(t, plan.CentreLat, recharge.CentreLat)
	assert.Equal(t, plan.CentreLng, recharge.CentreLng)
	require.Len(t, recharge.Layers, 4)
	for i := range plan.Layers {
		assert.Equal(t, plan.Layers[i], recharge.Layers[i])
	}
}
