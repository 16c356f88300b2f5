package model

import "fmt"

// LayerStore collection ordonnée des enregistrements d'un plan d'intervention.
// Source de vérité unique pour ce que la surface de rendu doit afficher;
// l'ordre d'insertion est l'ordre de superposition (z-order).
//
// Le store n'est pas synchronisé: il appartient à une seule session d'édition
// et c'est la session qui sérialise les accès.
type LayerStore struct {
	records []*GeometryRecord
	ids     map[string]struct{}
}

// NewLayerStore crée un store vide
func NewLayerStore() *LayerStore {
	return &LayerStore{ids: make(map[string]struct{})}
}

// Append ajoute un enregistrement en fin de store (dessus de la pile).
// Refuse l'ajout si l'identifiant est déjà présent: écraser silencieusement
// briserait l'invariant d'aller-retour sauvegarde/rechargement.
func (s *LayerStore) Append(rec *GeometryRecord) error {
	if rec == nil {
		return NewValidationError("record", "enregistrement nul")
	}
	if rec.ID == "" {
		return NewValidationError("id", "identifiant manquant")
	}
	if _, existe := s.ids[rec.ID]; existe {
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}
	s.records = append(s.records, rec)
	s.ids[rec.ID] = struct{}{}
	return nil
}

// RemoveByID retire l'enregistrement correspondant. Retourne false sans
// erreur si l'identifiant est absent: la suppression est idempotente, un
// clic de carte peut arriver après une suppression déjà effectuée.
func (s *LayerStore) RemoveByID(id string) bool {
	if _, existe := s.ids[id]; !existe {
		return false
	}
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	delete(s.ids, id)
	return true
}

// ReplaceAll remplace tout le contenu du store, typiquement au chargement
// d'un plan persisté. L'ordre du tableau d'entrée devient le nouveau z-order.
func (s *LayerStore) ReplaceAll(records []*GeometryRecord) error {
	ids := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec == nil || rec.ID == "" {
			return NewValidationError("id", "identifiant manquant dans le lot")
		}
		if _, existe := ids[rec.ID]; existe {
			return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
		}
		ids[rec.ID] = struct{}{}
	}
	s.records = append([]*GeometryRecord(nil), records...)
	s.ids = ids
	return nil
}

// Snapshot copie profonde de tous les enregistrements, sans référence aux
// objets de la surface de rendu; sûre à sérialiser en JSON. Repasser le
// résultat dans ReplaceAll doit reconstruire un store au rendu identique.
func (s *LayerStore) Snapshot() []*GeometryRecord {
	out := make([]*GeometryRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	return out
}

// Records vue en lecture pour la réconciliation, dans l'ordre de superposition.
// Le tableau retourné est une copie; les enregistrements pointés ne doivent
// pas être modifiés par l'appelant.
func (s *LayerStore) Records() []*GeometryRecord {
	return append([]*GeometryRecord(nil), s.records...)
}

// Get retourne l'enregistrement correspondant, ou nil
func (s *LayerStore) Get(id string) *GeometryRecord {
	if _, existe := s.ids[id]; !existe {
		return nil
	}
	for _, rec := range s.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

// Len nombre d'enregistrements
func (s *LayerStore) Len() int {
	return len(s.records)
}
