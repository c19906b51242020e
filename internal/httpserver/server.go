package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/trailmeals/server/internal/auth"
	"github.com/trailmeals/server/internal/blob"
	"github.com/trailmeals/server/internal/catalog"
	"github.com/trailmeals/server/internal/config"
	"github.com/trailmeals/server/internal/groceries"
	"github.com/trailmeals/server/internal/nutrition"
	"github.com/trailmeals/server/internal/storage"
	"github.com/trailmeals/server/internal/storage/memory"
	"github.com/trailmeals/server/internal/storage/postgres"
	"github.com/trailmeals/server/internal/templates"
	"github.com/trailmeals/server/internal/trips"
)

// Storage is the full persistence surface the server wires handlers onto.
type Storage interface {
	storage.TripsStorage
	GetMealEntriesStorage() storage.MealEntriesStorage
	GetGroceryExportsStorage() storage.GroceryExportsStorage
}

// Server wires storage, the recipe catalog and all handlers onto one mux.
type Server struct {
	config         *config.Config
	log            zerolog.Logger
	mux            *http.ServeMux
	storage        Storage
	catalog        catalog.DocumentStore
	authMiddleware *auth.Middleware
}

// New creates a server with storage, catalog and routes initialized.
func New(cfg *config.Config, log zerolog.Logger) *Server {
	s := &Server{
		config: cfg,
		log:    log,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.initCatalog()
	s.routes()
	return s
}

// initStorage selects Postgres when DATABASE_URL is set, with a fallback
// to in-memory storage when the connection fails.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		s.log.Info().Msg("storage: in-memory")
		s.storage = memory.New()
		return
	}

	s.log.Info().Msg("storage: connecting to PostgreSQL")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		s.log.Warn().Err(err).Msg("storage: PostgreSQL connection failed, falling back to in-memory")
		s.storage = memory.New()
		return
	}

	s.log.Info().Msg("storage: PostgreSQL connected")
	s.storage = pgStorage
}

// initCatalog selects the recipe/template document store.
func (s *Server) initCatalog() {
	if s.config.Catalog.Mode == config.CatalogModeRest {
		s.log.Info().Str("base_url", s.config.Catalog.BaseURL).Msg("catalog: rest")
		s.catalog = catalog.NewRestStore(s.config.Catalog.BaseURL, s.config.Catalog.RetryCount)
		return
	}

	store := catalog.NewMemoryStore()
	if seedFile := s.config.Catalog.SeedFile; seedFile != "" {
		if err := seedCatalog(store, seedFile); err != nil {
			s.log.Warn().Err(err).Str("file", seedFile).Msg("catalog: seed load failed")
		} else {
			s.log.Info().Str("file", seedFile).Msg("catalog: seeded from file")
		}
	}
	s.log.Info().Msg("catalog: in-memory")
	s.catalog = store
}

// seedCatalog loads {collection: {id: document}} JSON into a memory store.
func seedCatalog(store *catalog.MemoryStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed map[string]map[string]catalog.Document
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for collection, docs := range seed {
		for id, doc := range docs {
			store.Put(collection, id, doc)
		}
	}
	return nil
}

// routes registers all endpoints.
func (s *Server) routes() {
	entriesStorage := s.storage.GetMealEntriesStorage()
	exportsStorage := s.storage.GetGroceryExportsStorage()

	// Health check (no auth required)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService, s.log)

	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Trips and meal entries API
	tripsService := trips.NewService(s.storage, entriesStorage, s.catalog)
	tripsHandler := trips.NewHandler(tripsService)

	s.mux.HandleFunc("POST /v1/trips", tripsHandler.HandleCreateTrip)
	s.mux.HandleFunc("GET /v1/trips", tripsHandler.HandleListTrips)
	s.mux.HandleFunc("GET /v1/trips/{id}", tripsHandler.HandleGetTrip)
	s.mux.HandleFunc("PATCH /v1/trips/{id}", tripsHandler.HandleUpdateTrip)
	s.mux.HandleFunc("DELETE /v1/trips/{id}", tripsHandler.HandleDeleteTrip)
	s.mux.HandleFunc("POST /v1/trips/{id}/duplicate", tripsHandler.HandleDuplicateTrip)

	s.mux.HandleFunc("GET /v1/trips/{id}/entries", tripsHandler.HandleListEntries)
	s.mux.HandleFunc("POST /v1/trips/{id}/entries", tripsHandler.HandleCreateEntry)
	s.mux.HandleFunc("PATCH /v1/entries/{id}", tripsHandler.HandleUpdateEntry)
	s.mux.HandleFunc("DELETE /v1/entries/{id}", tripsHandler.HandleDeleteEntry)

	// Templates API
	materializer := templates.NewMaterializer(s.catalog, s.storage, entriesStorage)
	templatesHandler := templates.NewHandler(materializer, s.storage)

	s.mux.HandleFunc("GET /v1/templates", templatesHandler.HandleList)
	s.mux.HandleFunc("POST /v1/trips/{id}/apply-template", templatesHandler.HandleApply)
	s.mux.HandleFunc("POST /v1/trips/from-template", templatesHandler.HandleCreateFromTemplate)

	// Nutrition API
	if !s.config.Nutrition.IsConfigured() {
		s.log.Warn().Msg("nutrition: API credentials not set, ingredient lookups will degrade to not-found")
	}
	nutritionClient := nutrition.NewClient(s.config.Nutrition.BaseURL, s.config.Nutrition.AppID, s.config.Nutrition.AppKey)
	nutritionCache := nutrition.NewCache(nutritionClient)
	nutritionService := nutrition.NewService(s.storage, entriesStorage, nutritionCache)
	nutritionHandler := nutrition.NewHandler(nutritionService)

	s.mux.HandleFunc("GET /v1/trips/{id}/nutrition", nutritionHandler.HandleTripSummary)
	s.mux.HandleFunc("GET /v1/nutrition/ingredient", nutritionHandler.HandleIngredient)

	// Groceries API
	blobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, s.log)
	if err != nil {
		s.log.Warn().Err(err).Msg("blob: init failed, grocery exports stay local")
		blobStore = nil
		blobMode = config.BlobModeLocal
	}
	s.log.Info().Str("mode", blobMode).Msg("groceries: export store ready")

	groceriesService := groceries.NewService(s.storage, entriesStorage, exportsStorage, s.catalog, blobStore, s.config.Blob.S3.PresignTTLSeconds)
	groceriesHandler := groceries.NewHandler(groceriesService, s.config.PublicBaseURL)

	s.mux.HandleFunc("GET /v1/trips/{id}/groceries", groceriesHandler.HandleList)
	s.mux.HandleFunc("POST /v1/trips/{id}/groceries/export", groceriesHandler.HandleExport)
	s.mux.HandleFunc("GET /v1/groceries/exports/{id}/download", groceriesHandler.HandleDownload)

	// Recipes API (catalog pass-through)
	recipesHandler := catalog.NewHandler(s.catalog)

	s.mux.HandleFunc("GET /v1/recipes", recipesHandler.HandleListRecipes)
	s.mux.HandleFunc("GET /v1/recipes/{id}", recipesHandler.HandleGetRecipe)
}

// handleHealthz reports server liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the full middleware chain.
// Order (outermost first): CORS, rate limit, auth, router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.log.Info().Str("addr", addr).Msg("server listening")
	s.log.Info().Msgf("health check: http://localhost%s/healthz", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases storage resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
