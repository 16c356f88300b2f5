package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreClient enveloppe du client Firestore utilisé pour les instantanés
// de plans à durée de vie courte
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient crée un client pour le projet donné. En environnement
// Cloud Run l'authentification par défaut suffit; en local on passe par un
// fichier de clés si présent.
func NewFirestoreClient(ctx context.Context, projectID string) (*FirestoreClient, error) {
	isCloudRun := os.Getenv("K_SERVICE") != ""

	if isCloudRun {
		client, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("client Firestore (authentification par défaut): %w", err)
		}
		return &FirestoreClient{client: client}, nil
	}

	credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err == nil {
			client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
			if err != nil {
				return nil, fmt.Errorf("client Firestore (fichier de clés): %w", err)
			}
			return &FirestoreClient{client: client}, nil
		}
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("client Firestore: %w", err)
	}
	return &FirestoreClient{client: client}, nil
}

// GetClient accès au client sous-jacent
func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}

// Close ferme le client
func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}
