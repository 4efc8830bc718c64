package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pureflow/water-quality-viewer/services/api/db"
)

const prefsTimeout = 10 * time.Second

// handleV1CreateProfile allocates a new preference profile
// POST /api/v1/prefs
func (s *Server) handleV1CreateProfile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), prefsTimeout)
	defer cancel()

	id, err := s.prefs.CreateProfile(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile_id": id})
}

// handleV1GetAlerts returns a profile's alert thresholds
// GET /api/v1/prefs/:id/alerts
func (s *Server) handleV1GetAlerts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), prefsTimeout)
	defer cancel()

	alerts, err := s.prefs.Alerts(ctx, c.Param("id"))
	if err != nil {
		s.renderPrefsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

// handleV1PutAlerts replaces a profile's alert thresholds
// PUT /api/v1/prefs/:id/alerts
func (s *Server) handleV1PutAlerts(c *gin.Context) {
	var alerts []db.AlertConfig
	if err := c.ShouldBindJSON(&alerts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert payload"})
		return
	}
	for _, a := range alerts {
		if a.ParameterCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parameter_code is required on every alert"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), prefsTimeout)
	defer cancel()

	if err := s.prefs.SaveAlerts(ctx, c.Param("id"), alerts); err != nil {
		s.renderPrefsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

// handleV1GetComparison returns a profile's comparison selection
// GET /api/v1/prefs/:id/comparison
func (s *Server) handleV1GetComparison(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), prefsTimeout)
	defer cancel()

	cities, err := s.prefs.Comparison(ctx, c.Param("id"))
	if err != nil {
		s.renderPrefsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cities})
}

// handleV1PutComparison replaces a profile's comparison selection; the
// response carries the normalized (deduplicated, capped) list
// PUT /api/v1/prefs/:id/comparison
func (s *Server) handleV1PutComparison(c *gin.Context) {
	var cities []db.ComparisonCity
	if err := c.ShouldBindJSON(&cities); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comparison payload"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), prefsTimeout)
	defer cancel()

	saved, err := s.prefs.SaveComparison(ctx, c.Param("id"), cities)
	if err != nil {
		s.renderPrefsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": saved})
}

// handleV1GetFamilyMode returns a profile's family-mode flag
// GET /api/v1/prefs/:id/family-mode
func (s *Server) handleV1GetFamilyMode(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), prefsTimeout)
	defer cancel()

	enabled, err := s.prefs.FamilyMode(ctx, c.Param("id"))
	if err != nil {
		s.renderPrefsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

// handleV1PutFamilyMode saves a profile's family-mode flag
// PUT /api/v1/prefs/:id/family-mode
func (s *Server) handleV1PutFamilyMode(c *gin.Context) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), prefsTimeout)
	defer cancel()

	if err := s.prefs.SaveFamilyMode(ctx, c.Param("id"), *body.Enabled); err != nil {
		s.renderPrefsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enabled": *body.Enabled})
}

func (s *Server) renderPrefsError(c *gin.Context, err error) {
	if errors.Is(err, db.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
