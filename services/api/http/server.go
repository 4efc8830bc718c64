package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pureflow/water-quality-viewer/services/api/config"
	"github.com/pureflow/water-quality-viewer/services/api/db"
	"github.com/pureflow/water-quality-viewer/services/api/geo"
	"github.com/pureflow/water-quality-viewer/services/api/hubeau"
	"github.com/pureflow/water-quality-viewer/services/api/waterquality"
)

// WaterService is the orchestration surface the handlers consume.
type WaterService interface {
	Fetch(ctx context.Context, communeCode string) (*waterquality.Record, error)
	Compare(ctx context.Context, communeCodes []string) []waterquality.CityResult
	Networks(ctx context.Context, communeCode string) []hubeau.Network
}

// Geocoder resolves commune searches and reverse lookups.
type Geocoder interface {
	Search(ctx context.Context, name string, limit int) ([]geo.Commune, error)
	Reverse(ctx context.Context, lat, lon float64) (geo.Commune, error)
}

// PrefStore persists per-profile preferences.
type PrefStore interface {
	CreateProfile(ctx context.Context) (string, error)
	Alerts(ctx context.Context, profileID string) ([]db.AlertConfig, error)
	SaveAlerts(ctx context.Context, profileID string, alerts []db.AlertConfig) error
	Comparison(ctx context.Context, profileID string) ([]db.ComparisonCity, error)
	SaveComparison(ctx context.Context, profileID string, cities []db.ComparisonCity) ([]db.ComparisonCity, error)
	FamilyMode(ctx context.Context, profileID string) (bool, error)
	SaveFamilyMode(ctx context.Context, profileID string, enabled bool) error
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg      config.Config
	water    WaterService
	geocoder Geocoder
	prefs    PrefStore
	engine   *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, water WaterService, geocoder Geocoder, prefs PrefStore) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{cfg: cfg, water: water, geocoder: geocoder, prefs: prefs, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.registerV1Routes()
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
