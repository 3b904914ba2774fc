package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/catalog"
)

// OpsHandler exposes operator endpoints: forcing a catalog refresh and
// inspecting what the search index currently resolves for a query.
type OpsHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewOpsHandler constructs the HTTP handler adapter.
func NewOpsHandler(catalogSvc *catalog.Service, logger *zap.Logger) *OpsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpsHandler{catalog: catalogSvc, logger: logger}
}

// RefreshCatalog rebuilds the part index from the master sheet on demand.
func (h *OpsHandler) RefreshCatalog(c *gin.Context) {
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		h.logger.Error("manual catalog refresh failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog refresh failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"parts": h.catalog.Len()})
}

// SearchCatalog runs the same lookup the /cari flow uses, for debugging
// header and candidate configuration.
func (h *OpsHandler) SearchCatalog(c *gin.Context) {
	query := c.Query("q")

	results, err := h.catalog.Search(c.Request.Context(), query)
	switch {
	case errors.Is(err, catalog.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	case errors.Is(err, catalog.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "master catalog unavailable"})
		return
	case err != nil:
		h.logger.Error("catalog search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	payload := make([]gin.H, 0, len(results))
	for _, part := range results {
		payload = append(payload, gin.H{
			"part_id":  part.PartID,
			"name":     part.Name,
			"location": part.Location,
			"visual":   part.Visual,
		})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(payload), "results": payload})
}
