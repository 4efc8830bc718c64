package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/water, /api/v1/geo, /api/v1/prefs
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Water endpoints - consolidated quality records and networks
	water := v1.Group("/water")
	{
		water.GET("/compare", s.handleV1Compare)
		water.GET("/:code", s.handleV1WaterQuality)
		water.GET("/:code/networks", s.handleV1Networks)
	}

	// Geo endpoints - commune resolution for the search bar and geolocation
	geoGroup := v1.Group("/geo")
	{
		geoGroup.GET("/search", s.handleV1GeoSearch)
		geoGroup.GET("/reverse", s.handleV1GeoReverse)
	}

	// Preference endpoints - per-profile alert/comparison/family-mode stores
	prefs := v1.Group("/prefs")
	{
		prefs.POST("", s.handleV1CreateProfile)
		prefs.GET("/:id/alerts", s.handleV1GetAlerts)
		prefs.PUT("/:id/alerts", s.handleV1PutAlerts)
		prefs.GET("/:id/comparison", s.handleV1GetComparison)
		prefs.PUT("/:id/comparison", s.handleV1PutComparison)
		prefs.GET("/:id/family-mode", s.handleV1GetFamilyMode)
		prefs.PUT("/:id/family-mode", s.handleV1PutFamilyMode)
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
