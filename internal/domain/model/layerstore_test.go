package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symboleTest(t *testing.T, label string) *GeometryRecord {
	t.Helper()
	rec, err := NewSymbolRecord(LonLat{Lon: -71.89, Lat: 45.40},
		SymbolDefinition{Glyphe: "🚰", Label: label}, "")
	require.NoError(t, err)
	return rec
}

func TestLayerStoreAppend(t *testing.T) {
	store := NewLayerStore()
	rec := symboleTest(t, "Borne-fontaine")

	require.NoError(t, store.Append(rec))
	assert.Equal(t, 1, store.Len())

	t.Run("identifiant dupliqué refusé", func(t *testing.T) {
		err := store.Append(rec)
		assert.True(t, errors.Is(err, ErrDuplicateID))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("enregistrement nul refusé", func(t *testing.T) {
		assert.Error(t, store.Append(nil))
	})
}

func TestLayerStoreRemoveByID(t *testing.T) {
	store := NewLayerStore()
	rec := symboleTest(t, "Extincteur")
	require.NoError(t, store.Append(rec))

	assert.True(t, store.RemoveByID(rec.ID))
	assert.Equal(t, 0, store.Len())

	// idempotent: un second retrait n'est pas une erreur
	assert.False(t, store.RemoveByID(rec.ID))
	assert.False(t, store.RemoveByID("jamais-vu"))

	// l'identifiant redevient disponible
	assert.NoError(t, store.Append(rec))
}

func TestLayerStoreOrdre(t *testing.T) {
	store := NewLayerStore()
	a := symboleTest(t, "A")
	b := symboleTest(t, "B")
	c := symboleTest(t, "C")
	for _, rec := range []*GeometryRecord{a, b, c} {
		require.NoError(t, store.Append(rec))
	}
	require.True(t, store.RemoveByID(b.ID))

	records := store.Records()
	require.Len(t, records, 2)
	assert.Equal(t, a.ID, records[0].ID)
	assert.Equal(t, c.ID, records[1].ID)
}

func TestLayerStoreSnapshotRoundTrip(t *testing.T) {
	store := NewLayerStore()
	require.NoError(t, store.Append(symboleTest(t, "Borne-fontaine")))
	forme, err := NewShapeRecord(KindCircle, []LonLat{{Lon: -71.9, Lat: 45.4}}, 30,
		CategorieDanger, "Périmètre d'évacuation")
	require.NoError(t, err)
	require.NoError(t, store.Append(forme))

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)

	t.Run("copie profonde", func(t *testing.T) {
		snapshot[1].Circle.RayonMetres = 999
		assert.Equal(t, 30.0, store.Get(forme.ID).Circle.RayonMetres)
	})

	t.Run("aller-retour vers un store équivalent", func(t *testing.T) {
		recharge := NewLayerStore()
		require.NoError(t, recharge.ReplaceAll(store.Snapshot()))
		require.Equal(t, store.Len(), recharge.Len())
		avant, apres := store.Records(), recharge.Records()
		for i := range avant {
			assert.Equal(t, avant[i], apres[i])
		}
	})
}

func TestLayerStoreReplaceAll(t *testing.T) {
	store := NewLayerStore()
	require.NoError(t, store.Append(symboleTest(t, "Ancien")))

	nouveaux := []*GeometryRecord{symboleTest(t, "Nouveau 1"), symboleTest(t, "Nouveau 2")}
	require.NoError(t, store.ReplaceAll(nouveaux))
	assert.Equal(t, 2, store.Len())

	t.Run("lot avec doublon refusé en bloc", func(t *testing.T) {
		rec := symboleTest(t, "Doublon")
		err := store.ReplaceAll([]*GeometryRecord{rec, rec})
		assert.True(t, errors.Is(err, ErrDuplicateID))
		// le contenu précédent est conservé
		assert.Equal(t, 2, store.Len())
	})
}
