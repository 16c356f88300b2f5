package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSymbolRecord(t *testing.T) {
	borne := SymbolDefinition{Glyphe: "🚰", Label: "Borne-fontaine", Couleur: "#2563eb"}

	t.Run("placement valide", func(t *testing.T) {
		rec, err := NewSymbolRecord(LonLat{Lon: -71.89, Lat: 45.40}, borne, "Pression faible")
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, KindSymbol, rec.Kind)
		assert.Equal(t, -71.89, rec.Point.Lon)
		assert.Equal(t, "Borne-fontaine", rec.Symbol.Label)
		assert.Equal(t, "Pression faible", rec.Symbol.Note)
	})

	t.Run("le visuel est figé au placement", func(t *testing.T) {
		def := SymbolDefinition{ID: "sym-1", Label: "Vanne spéciale", ImageBase64: "AAAA", Personnalise: true}
		rec, err := NewSymbolRecord(LonLat{Lon: 0, Lat: 0}, def, "")
		require.NoError(t, err)

		// muter la définition après coup ne doit rien changer
		def.ImageBase64 = "BBBB"
		def.Label = "autre"
		assert.Equal(t, "AAAA", rec.Symbol.ImageBase64)
		assert.Equal(t, "Vanne spéciale", rec.Symbol.Label)
		assert.True(t, rec.Symbol.Personnalise)
		assert.Equal(t, "sym-1", rec.Symbol.SymbolID)
	})

	t.Run("coordonnée hors bornes refusée", func(t *testing.T) {
		_, err := NewSymbolRecord(LonLat{Lon: -190, Lat: 45}, borne, "")
		assert.True(t, IsValidationError(err))
	})

	t.Run("symbole sans visuel refusé", func(t *testing.T) {
		_, err := NewSymbolRecord(LonLat{}, SymbolDefinition{Label: "Fantôme"}, "")
		assert.True(t, IsValidationError(err))
	})

	t.Run("identifiants uniques", func(t *testing.T) {
		a, err := NewSymbolRecord(LonLat{Lon: 1, Lat: 1}, borne, "")
		require.NoError(t, err)
		b, err := NewSymbolRecord(LonLat{Lon: 1, Lat: 1}, borne, "")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestNewShapeRecord(t *testing.T) {
	triangle := []LonLat{{Lon: -71.9, Lat: 45.4}, {Lon: -71.8, Lat: 45.4}, {Lon: -71.85, Lat: 45.5}}

	t.Run("polygone valide", func(t *testing.T) {
		rec, err := NewShapeRecord(KindPolygon, triangle, 0, CategorieDanger, "Zone inflammable")
		require.NoError(t, err)
		assert.Equal(t, KindPolygon, rec.Kind)
		assert.Len(t, rec.Ring, 3)
		assert.Equal(t, CategorieDanger, rec.Shape.Categorie)
	})

	t.Run("description obligatoire", func(t *testing.T) {
		_, err := NewShapeRecord(KindPolygon, triangle, 0, CategorieDanger, "")
		assert.True(t, IsValidationError(err))
	})

	t.Run("polygone de points confondus refusé", func(t *testing.T) {
		p := LonLat{Lon: -71.9, Lat: 45.4}
		_, err := NewShapeRecord(KindPolygon, []LonLat{p, p, p, p}, 0, CategorieAcces, "dégénéré")
		assert.True(t, IsValidationError(err))
	})

	t.Run("ligne à un seul point refusée", func(t *testing.T) {
		_, err := NewShapeRecord(KindPolyline, triangle[:1], 0, CategorieRoute, "tronquée")
		assert.True(t, IsValidationError(err))
	})

	t.Run("cercle valide", func(t *testing.T) {
		rec, err := NewShapeRecord(KindCircle, triangle[:1], 50, CategorieEquipement, "Périmètre")
		require.NoError(t, err)
		assert.Equal(t, 50.0, rec.Circle.RayonMetres)
		assert.Equal(t, triangle[0], rec.Circle.Centre)
	})

	t.Run("cercle à rayon nul refusé", func(t *testing.T) {
		_, err := NewShapeRecord(KindCircle, triangle[:1], 0, CategorieEquipement, "plat")
		assert.True(t, IsValidationError(err))
	})

	t.Run("catégorie inconnue refusée", func(t *testing.T) {
		_, err := NewShapeRecord(KindPolygon, triangle, 0, ShapeCategory("fantaisie"), "x")
		assert.True(t, IsValidationError(err))
	})

	t.Run("les coordonnées d'entrée ne sont pas partagées", func(t *testing.T) {
		coords := append([]LonLat(nil), triangle...)
		rec, err := NewShapeRecord(KindPolygon, coords, 0, CategorieAcces, "Cour arrière")
		require.NoError(t, err)
		coords[0].Lon = 0
		assert.Equal(t, -71.9, rec.Ring[0].Lon)
	})
}

func TestGeometryRecordClone(t *testing.T) {
	rec, err := NewShapeRecord(KindPolygon,
		[]LonLat{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 1}, {Lon: 2, Lat: 2}},
		0, CategorieAcces, "Façade nord")
	require.NoError(t, err)

	dup := rec.Clone()
	dup.Ring[0].Lon = 99
	dup.Shape.Description = "modifiée"

	assert.Equal(t, 1.0, rec.Ring[0].Lon)
	assert.Equal(t, "Façade nord", rec.Shape.Description)
}

func TestLonLatValide(t *testing.T) {
	assert.NoError(t, LonLat{Lon: -71.89, Lat: 45.40}.Valide())
	assert.Error(t, LonLat{Lon: 181, Lat: 0}.Valide())
	assert.Error(t, LonLat{Lon: 0, Lat: -91}.Valide())
}
