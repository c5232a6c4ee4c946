package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa-backend/internal/documents"
	"docqa-backend/internal/engine"
	"docqa-backend/internal/search"
	"docqa-backend/internal/shared/config"
	"docqa-backend/internal/shared/server/middleware"
	"docqa-backend/internal/shared/server/respond"
	"docqa-backend/internal/shared/storage/db"
	"docqa-backend/internal/uploads"
	"docqa-backend/internal/users"
)

// NewRouter constructs the Gin engine with middleware and routes registered,
// invoking the external processing engine as a managed subprocess.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	runner, err := engine.NewRunner(
		cfg.Engine.Python,
		cfg.Engine.IngestScript(),
		cfg.Engine.QueryScript(),
		"", // project root
		cfg.Engine.Timeout,
		cfg.Engine.MaxConcurrent,
	)
	if err != nil {
		return nil, err
	}
	return NewRouterWithEngine(cfg, runner), nil
}

// NewRouterWithEngine is NewRouter with the engine invoker supplied by the
// caller; tests substitute a stub here.
func NewRouterWithEngine(cfg config.Config, invoker engine.Invoker) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var docRepo documents.Repo
	var userRepo users.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
		userRepo = &users.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	userHandler := users.NewHandler(users.NewService(userRepo))
	docHandler := documents.NewHandler(docRepo)
	uploadHandler := uploads.NewHandler(uploads.NewService(docRepo, invoker, cfg.UploadDir, cfg.Engine.ChunksDir()))
	searchHandler := search.NewHandler(search.NewService(invoker, cfg.GroqAPIKey, cfg.Engine.IndexPath()))

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"message": "document QA backend is up and running"})
	})
	r.Static("/uploads", cfg.UploadDir)

	public := r.Group("/")
	public.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"AUTH": {Rate: 1, Burst: 10},
		},
		DefaultGroup: "AUTH",
	}))
	userHandler.RegisterRoutes(public)

	protected := r.Group("/")
	protected.Use(middleware.Auth())
	uploadHandler.RegisterRoutes(protected)
	searchHandler.RegisterRoutes(protected)
	docHandler.RegisterRoutes(protected)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
