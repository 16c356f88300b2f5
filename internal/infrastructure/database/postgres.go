package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgreSQLClient connexion directe à la base PostgreSQL de Supabase
type PostgreSQLClient struct {
	DB *sql.DB
}

// NewPostgreSQLClient ouvre une connexion directe à partir de l'environnement
func NewPostgreSQLClient() (*PostgreSQLClient, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabasePassword := os.Getenv("SUPABASE_DB_PASSWORD")

	if supabaseURL == "" {
		return nil, fmt.Errorf("la variable d'environnement SUPABASE_URL n'est pas définie")
	}
	if supabasePassword == "" {
		return nil, fmt.Errorf("la variable d'environnement SUPABASE_DB_PASSWORD n'est pas définie")
	}

	// https://xxx.supabase.co -> xxx.supabase.co
	host := strings.TrimPrefix(supabaseURL, "https://")

	// port 6543: le pooler de connexions de Supabase
	connStr := fmt.Sprintf(
		"host=db.%s port=6543 user=postgres password=%s dbname=postgres sslmode=require",
		host, supabasePassword,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("ouverture de la connexion PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connexion à PostgreSQL impossible: %w", err)
	}

	return &PostgreSQLClient{DB: db}, nil
}

// NewPostgreSQLClientWithRetry réessaie l'ouverture, utile au démarrage quand
// la base ou le pooler n'est pas encore prêt
func NewPostgreSQLClientWithRetry(tentatives int, attente time.Duration) (*PostgreSQLClient, error) {
	var dernierErr error
	for i := 0; i < tentatives; i++ {
		client, err := NewPostgreSQLClient()
		if err == nil {
			return client, nil
		}
		dernierErr = err
		time.Sleep(attente)
	}
	return nil, fmt.Errorf("connexion PostgreSQL impossible après %d tentatives: %w", tentatives, dernierErr)
}

// Close ferme la connexion
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck vérifie que la connexion répond
func (pc *PostgreSQLClient) HealthCheck() error {
	if pc.DB == nil {
		return fmt.Errorf("client PostgreSQL non initialisé")
	}
	return pc.DB.Ping()
}
