package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pureflow/water-quality-viewer/services/api/geo"
)

const geoTimeout = 10 * time.Second

// handleV1GeoSearch resolves a free-text commune query
// GET /api/v1/geo/search?q=paris&limit=5
func (s *Server) handleV1GeoSearch(c *gin.Context) {
	query := c.Query("q")
	if len(query) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q must be at least 3 characters"})
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), geoTimeout)
	defer cancel()

	communes, err := s.geocoder.Search(ctx, query, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "geocoding unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": communes,
		"meta": gin.H{"count": len(communes)},
	})
}

// handleV1GeoReverse resolves coordinates to a commune
// GET /api/v1/geo/reverse?lat=45.76&lon=4.83
func (s *Server) handleV1GeoReverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), geoTimeout)
	defer cancel()

	commune, err := s.geocoder.Reverse(ctx, lat, lon)
	if errors.Is(err, geo.ErrNoCommune) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no commune found at this position"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "geocoding unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": commune})
}
