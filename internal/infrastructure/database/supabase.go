package database

import (
	"fmt"
	"os"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient enveloppe du client Supabase (PostgREST)
type SupabaseClient struct {
	Client *supabase.Client
}

// NewSupabaseClient crée un client à partir de l'environnement
func NewSupabaseClient() (*SupabaseClient, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")

	if supabaseURL == "" {
		return nil, fmt.Errorf("la variable d'environnement SUPABASE_URL n'est pas définie")
	}
	if supabaseAnonKey == "" {
		return nil, fmt.Errorf("la variable d'environnement SUPABASE_ANON_KEY n'est pas définie")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseAnonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("initialisation du client Supabase: %w", err)
	}

	return &SupabaseClient{Client: client}, nil
}

// GetClient accès au client sous-jacent
func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.Client
}

// HealthCheck vérification de base de la connexion
func (sc *SupabaseClient) HealthCheck() error {
	if sc.Client == nil {
		return fmt.Errorf("client Supabase non initialisé")
	}
	return nil
}
