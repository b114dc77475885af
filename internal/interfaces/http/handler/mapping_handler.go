package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/infrastructure/logger"
	"github.com/lrcatalog/mapper/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// MappingService is the mapping store as seen by the HTTP layer
type MappingService interface {
	Rows() []mapping.EditRow
	ApplyEdits(ctx context.Context, rows []mapping.EditRow) (*mapping.Config, error)
	SaveCurrent(ctx context.Context) error
	Reset(ctx context.Context) (*mapping.Config, error)
}

// MappingHandler serves the editable mapping grid
type MappingHandler struct {
	BaseHandler
	service MappingService
}

// NewMappingHandler creates a new MappingHandler
func NewMappingHandler(service MappingService) *MappingHandler {
	return &MappingHandler{service: service}
}

// ListMarketplaces returns the configured marketplace keys
// GET /marketplaces
func (h *MappingHandler) ListMarketplaces(c *gin.Context) {
	h.Success(c, dto.MarketplacesResponse{Marketplaces: mapping.MarketplaceKeys()})
}

// Get returns the current mapping grid
// GET /mappings
func (h *MappingHandler) Get(c *gin.Context) {
	h.Success(c, dto.NewMappingResponse(h.service.Rows()))
}

// Update replaces the in-memory mapping with the edited grid. Nothing is
// persisted until Save is called.
// PUT /mappings
func (h *MappingHandler) Update(c *gin.Context) {
	var req dto.UpdateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	cfg, err := h.service.ApplyEdits(c.Request.Context(), dto.ToEditRows(req.Rows))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("Mapping edited", zap.Int("entries", cfg.Len()))
	h.Success(c, dto.NewMappingResponse(cfg.Rows()))
}

// Save persists the current mapping
// POST /mappings/save
func (h *MappingHandler) Save(c *gin.Context) {
	if err := h.service.SaveCurrent(c.Request.Context()); err != nil {
		logger.GetGinLogger(c).Error("Failed to save mapping", zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewMappingResponse(h.service.Rows()))
}

// Reset restores and persists the built-in default mapping
// POST /mappings/reset
func (h *MappingHandler) Reset(c *gin.Context) {
	cfg, err := h.service.Reset(c.Request.Context())
	if err != nil {
		logger.GetGinLogger(c).Error("Failed to reset mapping", zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewMappingResponse(cfg.Rows()))
}
