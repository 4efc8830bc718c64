package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pureflow/water-quality-viewer/services/api/db"
	"github.com/pureflow/water-quality-viewer/services/api/hubeau"
)

// fetchTimeout bounds one full fetch chain, retry backoff included
// (worst case roughly 7s per stage).
const fetchTimeout = 30 * time.Second

// handleV1WaterQuality returns the consolidated latest-sample record
// GET /api/v1/water/:code
func (s *Server) handleV1WaterQuality(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commune code is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	record, err := s.water.Fetch(ctx, code)
	if err != nil {
		s.renderFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": record,
		"meta": gin.H{
			"truncated":    record.Truncated,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// handleV1Networks returns the distribution networks serving a commune
// GET /api/v1/water/:code/networks
func (s *Server) handleV1Networks(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commune code is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	networks := s.water.Networks(ctx, code)
	c.JSON(http.StatusOK, gin.H{
		"data": networks,
		"meta": gin.H{"count": len(networks)},
	})
}

// handleV1Compare fetches several communes concurrently, one slot per city
// GET /api/v1/water/compare?codes=75056,69123,13055
func (s *Server) handleV1Compare(c *gin.Context) {
	raw := c.Query("codes")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codes query parameter is required"})
		return
	}

	var codes []string
	for _, code := range strings.Split(raw, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 || len(codes) > db.MaxComparisonCities {
		c.JSON(http.StatusBadRequest, gin.H{"error": "between 1 and 3 commune codes are expected"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), fetchTimeout)
	defer cancel()

	results := s.water.Compare(ctx, codes)

	slots := make([]gin.H, 0, len(results))
	for _, r := range results {
		slot := gin.H{"code": r.CommuneCode}
		switch {
		case errors.Is(r.Err, hubeau.ErrNoData):
			slot["error"] = "no data available for this commune"
		case r.Err != nil:
			slot["error"] = "upstream unavailable"
		default:
			slot["data"] = r.Record
		}
		slots = append(slots, slot)
	}

	c.JSON(http.StatusOK, gin.H{"data": slots})
}

// renderFetchError maps the fetch error taxonomy onto HTTP statuses: no data
// is an informational 404, an exhausted/non-retryable upstream failure is a
// 502, anything else a 500.
func (s *Server) renderFetchError(c *gin.Context, err error) {
	var ue *hubeau.UpstreamError
	switch {
	case errors.Is(err, hubeau.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "no data available for this commune"})
	case errors.As(err, &ue):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable", "detail": ue.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
