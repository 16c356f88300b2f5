package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"plan-intervention-api/internal/domain/model"
	"plan-intervention-api/internal/domain/repository"
)

// firestorePreview document Firestore d'un instantané de plan. Le champ
// expireAt est couvert par une politique TTL côté Firestore.
type firestorePreview struct {
	PlanID    string    `firestore:"plan_id"`
	Nom       string    `firestore:"nom"`
	CentreLat float64   `firestore:"centre_lat"`
	CentreLng float64   `firestore:"centre_lng"`
	Layers    string    `firestore:"layers"`
	ExpireAt  time.Time `firestore:"expireAt"`
}

// FirestorePreviewRepository instantanés de plans partageables, à durée de
// vie courte, stockés dans Firestore
type FirestorePreviewRepository struct {
	client *firestore.Client
}

func NewFirestorePreviewRepository(client *firestore.Client) repository.PreviewRepository {
	return &FirestorePreviewRepository{client: client}
}

// Save sérialise l'instantané et le stocke avec une expiration
func (r *FirestorePreviewRepository) Save(ctx context.Context, preview *repository.PlanPreview, ttlHours int) (string, error) {
	previewID := fmt.Sprintf("apercu_%s", uuid.New().String())

	layers, err := encodeLayers(preview.Layers)
	if err != nil {
		return "", fmt.Errorf("sérialisation de l'instantané: %w", err)
	}
	layersJSON, err := marshalLayers(layers)
	if err != nil {
		return "", err
	}

	doc := firestorePreview{
		PlanID:    preview.PlanID,
		Nom:       preview.Nom,
		CentreLat: preview.CentreLat,
		CentreLng: preview.CentreLng,
		Layers:    layersJSON,
		ExpireAt:  time.Now().Add(time.Duration(ttlHours) * time.Hour),
	}

	_, err = r.client.Collection("planPreviews").Doc(previewID).Set(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("enregistrement de l'instantané: %w", err)
	}
	return previewID, nil
}

// Get relit un instantané; un identifiant inconnu signifie souvent une
// expiration
func (r *FirestorePreviewRepository) Get(ctx context.Context, id string) (*repository.PlanPreview, error) {
	snap, err := r.client.Collection("planPreviews").Doc(id).Get(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("instantané %s (expiré ou invalide): %w", id, model.ErrIntrouvable)
		}
		return nil, fmt.Errorf("lecture de l'instantané: %w", err)
	}

	var doc firestorePreview
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("conversion de l'instantané: %w", err)
	}

	layers, err := unmarshalLayers(doc.Layers)
	if err != nil {
		return nil, err
	}
	records, _ := decodeLayers(layers)

	return &repository.PlanPreview{
		ID:        id,
		PlanID:    doc.PlanID,
		Nom:       doc.Nom,
		CentreLat: doc.CentreLat,
		CentreLng: doc.CentreLng,
		Layers:    records,
	}, nil
}
