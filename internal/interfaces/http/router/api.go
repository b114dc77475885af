package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lrcatalog/mapper/internal/infrastructure/logger"
	"github.com/lrcatalog/mapper/internal/interfaces/http/handler"
	"github.com/lrcatalog/mapper/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the endpoints served by the API
type Handlers struct {
	Mapping *handler.MappingHandler
	Convert *handler.ConvertHandler
	System  *handler.SystemHandler
}

// EngineConfig holds the engine level settings
type EngineConfig struct {
	MaxBodySize       int64
	MaxMultipartBytes int64
	TrustedProxies    []string

	// ServiceName enables otelgin server spans when set
	ServiceName string
	// Meter enables HTTP request metrics when set
	Meter metric.Meter

	// ConvertRateLimit caps convert requests per client per ConvertRateWindow; 0 disables
	ConvertRateLimit  int
	ConvertRateWindow time.Duration
}

// NewEngine builds the gin engine with middleware and every route registered
func NewEngine(log *zap.Logger, cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	if cfg.MaxMultipartBytes > 0 {
		engine.MaxMultipartMemory = cfg.MaxMultipartBytes
	}

	engine.Use(middleware.RequestID())
	if cfg.ServiceName != "" {
		engine.Use(middleware.Tracing(cfg.ServiceName)...)
	}
	if cfg.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, fmt.Errorf("http metrics: %w", err)
		}
		engine.Use(httpMetrics)
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", h.System.Health)
	engine.NoRoute(h.System.NotFound)

	r := NewRouter(engine, WithAPIVersion("v1"))

	r.Register(NewDomainGroup("/marketplaces").
		GET("", h.Mapping.ListMarketplaces))

	r.Register(NewDomainGroup("/mappings").
		GET("", h.Mapping.Get).
		PUT("", h.Mapping.Update).
		POST("/save", h.Mapping.Save).
		POST("/reset", h.Mapping.Reset))

	convert := NewDomainGroup("/convert")
	if cfg.ConvertRateLimit > 0 {
		window := cfg.ConvertRateWindow
		if window <= 0 {
			window = time.Minute
		}
		convert.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.ConvertRateLimit, window)))
	}
	r.Register(convert.
		POST("", h.Convert.ConvertBatch).
		POST("/:marketplace", h.Convert.ConvertFile))

	r.Setup()
	return engine, nil
}
