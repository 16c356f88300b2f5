package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"plan-intervention-api/internal/application"
	"plan-intervention-api/internal/domain/repository"
	"plan-intervention-api/internal/handler"
	"plan-intervention-api/internal/infrastructure/database"
	fsinfra "plan-intervention-api/internal/infrastructure/firestore"
	"plan-intervention-api/internal/metrics"
	repo "plan-intervention-api/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: fichier .env introuvable, utilisation des variables d'environnement système")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")
	if supabaseURL == "" || supabaseAnonKey == "" {
		fmt.Println("⚠️  Variables d'environnement manquantes:")
		fmt.Println("  SUPABASE_URL, SUPABASE_ANON_KEY")
		fmt.Println("\nCréez un fichier .env ou exportez ces variables")
		log.Fatal("Environment variables not set")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Initialisation du logger échouée: %v", err)
	}
	defer logger.Sync()

	fmt.Println("Initializing Supabase client...")
	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Initialisation du client Supabase échouée: %v", err)
	}
	if err := supabaseClient.HealthCheck(); err != nil {
		log.Fatalf("Test de connexion Supabase échoué: %v", err)
	}
	fmt.Println("✅ Supabase connection successful!")

	// Dépôt des plans: accès SQL direct quand le mot de passe du pooler est
	// fourni, sinon PostgREST via le client Supabase.
	var plansRepo repository.PlansRepository
	if os.Getenv("SUPABASE_DB_PASSWORD") != "" {
		pgClient, err := database.NewPostgreSQLClientWithRetry(3, 2*time.Second)
		if err != nil {
			log.Fatalf("Connexion PostgreSQL échouée: %v", err)
		}
		defer pgClient.Close()
		plansRepo = repo.NewPostgresPlansRepository(pgClient, logger)
		fmt.Println("✅ PostgreSQL direct connection for plans")
	} else {
		plansRepo = repo.NewSupabasePlansRepository(supabaseClient, logger)
	}

	var symbolsRepo repository.CustomSymbolsRepository = repo.NewSupabaseSymbolsRepository(supabaseClient)
	if redisClient := database.OpenRedisFromEnv(); redisClient != nil {
		symbolsRepo = repo.NewCachedSymbolsRepository(symbolsRepo, redisClient, logger)
		fmt.Println("✅ Redis cache enabled for symbol catalog")
	}

	// Les instantanés partageables sont optionnels: sans projet GCP, les
	// routes de prévisualisation répondent 503.
	var previewRepo repository.PreviewRepository
	if projectID := os.Getenv("GCP_PROJECT_ID"); projectID != "" {
		fsClient, err := fsinfra.NewFirestoreClient(context.Background(), projectID)
		if err != nil {
			log.Fatalf("Initialisation du client Firestore échouée: %v", err)
		}
		defer fsClient.Close()
		previewRepo = repo.NewFirestorePreviewRepository(fsClient.GetClient())
		fmt.Println("✅ Firestore preview cache enabled")
	}

	plansService := application.NewPlansService(plansRepo, previewRepo, logger)
	symbolsService := application.NewSymbolsService(symbolsRepo, logger)
	editorService := application.NewEditorService(plansRepo, symbolsRepo, logger)

	sessionsHandler := handler.NewSessionsHandler(editorService)
	plansHandler := handler.NewPlansHandler(plansService)
	symbolsHandler := handler.NewSymbolsHandler(symbolsService)

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "plan-intervention-api"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/sessions", sessionsHandler.OpenSession)
	r.GET("/sessions/:id", sessionsHandler.GetSession)
	r.POST("/sessions/:id/hydrate", sessionsHandler.Rehydrate)
	r.POST("/sessions/:id/symbols", sessionsHandler.PlaceSymbol)
	r.POST("/sessions/:id/shapes", sessionsHandler.DrawShape)
	r.DELETE("/sessions/:id/records/:recordId", sessionsHandler.RemoveRecord)
	r.PUT("/sessions/:id/centre", sessionsHandler.SetCentre)
	r.POST("/sessions/:id/save", sessionsHandler.SaveSession)
	r.POST("/sessions/:id/reconcile", sessionsHandler.RenderPass)
	r.DELETE("/sessions/:id", sessionsHandler.CloseSession)

	r.GET("/plans", plansHandler.ListPlans)
	r.GET("/plans/:id", plansHandler.GetPlan)
	r.DELETE("/plans/:id", plansHandler.DeletePlan)
	r.POST("/plans/:id/preview", plansHandler.CreatePreview)
	r.GET("/previews/:id", plansHandler.GetPreview)

	r.GET("/symbols", symbolsHandler.ListCatalog)
	r.POST("/symbols", symbolsHandler.CreateCustom)
	r.PUT("/symbols/:id", symbolsHandler.UpdateCustom)
	r.DELETE("/symbols/:id", symbolsHandler.DeleteCustom)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("plan-intervention-api server starting on :%s...\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Démarrage du serveur échoué: %v", err)
	}
}
