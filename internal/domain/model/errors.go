package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateID collision d'identifiant dans un LayerStore.
// Ne devrait jamais se produire avec des identifiants UUID; si ça arrive,
// l'ajout est refusé plutôt que d'écraser silencieusement l'enregistrement.
var ErrDuplicateID = errors.New("identifiant de couche déjà présent")

// ErrIntrouvable ressource absente côté passerelle (ou aperçu expiré)
var ErrIntrouvable = errors.New("ressource introuvable")

// ValidationError entrée mal formée refusée avant d'entrer dans le LayerStore
type ValidationError struct {
	Champ   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Champ == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation (%s): %s", e.Champ, e.Message)
}

// NewValidationError construit une erreur de validation pour un champ donné
func NewValidationError(champ, message string) *ValidationError {
	return &ValidationError{Champ: champ, Message: message}
}

// IsValidationError vérifie si err est (ou enveloppe) une erreur de validation
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NetworkError échec d'un appel à la passerelle de persistance.
// L'état en mémoire n'est jamais modifié suite à cette erreur; l'utilisateur
// peut réessayer.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("échec réseau (%s): %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RenderError échec de construction d'une seule primitive pendant une passe
// de réconciliation; l'enregistrement est ignoré, la passe continue.
type RenderError struct {
	RecordID string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendu impossible pour la couche %s: %v", e.RecordID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
