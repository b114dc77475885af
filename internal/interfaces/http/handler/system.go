package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/domain/shared"
)

// MappingSnapshotter exposes the current mapping for health reporting
type MappingSnapshotter interface {
	Snapshot() *mapping.Config
}

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	backend   string
	mappings  MappingSnapshotter
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version, backend string, mappings MappingSnapshotter) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		backend:   backend,
		mappings:  mappings,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string `json:"status"`
	Name           string `json:"name"`
	Version        string `json:"version"`
	GoVersion      string `json:"go_version"`
	Uptime         string `json:"uptime"`
	MappingBackend string `json:"mapping_backend"`
	MappingEntries int    `json:"mapping_entries"`
	Time           string `json:"time"`
}

// Health reports liveness and the loaded mapping
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:         "healthy",
		Name:           h.name,
		Version:        h.version,
		GoVersion:      runtime.Version(),
		Uptime:         time.Since(h.startTime).Round(time.Second).String(),
		MappingBackend: h.backend,
		MappingEntries: h.mappings.Snapshot().Len(),
		Time:           time.Now().Format(time.RFC3339),
	})
}

// NotFound answers requests that match no route
func (h *SystemHandler) NotFound(c *gin.Context) {
	h.HandleError(c, shared.ErrNotFound)
}
