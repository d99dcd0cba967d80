package handler

import (
	"context"
	"net/http"
	"strings"

	"weather-chat/internal/models"

	"github.com/gin-gonic/gin"
)

// GeoCodeHandler handles one-shot place lookups
type GeoCodeHandler struct {
	service GeoCodeService
}

// GeoCodeService interface for dependency injection
type GeoCodeService interface {
	Geocode(context.Context, string) (models.Place, bool)
}

// NewGeoCodeHandler creates a new geocode handler
func NewGeoCodeHandler(svc GeoCodeService) *GeoCodeHandler {
	return &GeoCodeHandler{service: svc}
}

// GeoCode handles GET /geocode requests
//
//	@Summary	Resolve a place name
//	@Tags		location
//	@Produce	json
//	@Param		q	query		string	true	"place name"
//	@Success	200	{object}	models.Place
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/geocode [get]
func (h *GeoCodeHandler) GeoCode(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	place, ok := h.service.Geocode(c.Request.Context(), query)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no place found for the given name"})
		return
	}

	c.JSON(http.StatusOK, place)
}
