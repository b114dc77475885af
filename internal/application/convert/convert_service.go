package convertapp

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lrcatalog/mapper/internal/domain/catalog"
	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/infrastructure/logger"
	"github.com/lrcatalog/mapper/internal/infrastructure/tabular"
	"github.com/lrcatalog/mapper/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// MappingSource provides the mapping configuration to convert with
type MappingSource interface {
	Snapshot() *mapping.Config
}

// Service converts marketplace exports into LR format files
type Service struct {
	mappings    MappingSource
	logger      *zap.Logger
	workers     int
	maxFileSize int64
	metrics     *telemetry.ConversionMetrics
}

// ServiceOption is a functional option for Service
type ServiceOption func(*Service)

// WithLogger sets the logger for the service
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithWorkers sets how many files of a batch are converted concurrently
func WithWorkers(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxFileSize limits the size of a single input file; 0 means unlimited
func WithMaxFileSize(n int64) ServiceOption {
	return func(s *Service) {
		s.maxFileSize = n
	}
}

// WithMetrics records conversion counters and durations
func WithMetrics(m *telemetry.ConversionMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a conversion service reading mappings from src
func NewService(src MappingSource, opts ...ServiceOption) *Service {
	s := &Service{
		mappings: src,
		logger:   zap.NewNop(),
		workers:  defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConvertFile converts a single file against the current mapping
func (s *Service) ConvertFile(ctx context.Context, in FileInput, opts Options) FileOutcome {
	return s.convert(ctx, s.mappings.Snapshot(), in, opts, logger.WithLogger(ctx, s.logger).Zap())
}

// ConvertBatch converts every input against one mapping snapshot taken before
// the first file starts. Files are converted concurrently and independently;
// outcomes are returned in input order.
func (s *Service) ConvertBatch(ctx context.Context, inputs []FileInput, opts Options) *BatchResult {
	start := time.Now()
	cfg := s.mappings.Snapshot()
	result := &BatchResult{
		BatchID:  uuid.New(),
		Outcomes: make([]FileOutcome, len(inputs)),
	}
	ctx, log := logger.WithBatchID(ctx, logger.WithLogger(ctx, s.logger).Zap(), result.BatchID.String())

	ctx, span := telemetry.StartServiceSpan(ctx, "convert", "batch",
		telemetry.WithAttribute(string(telemetry.AttrBatchID), result.BatchID),
		telemetry.WithAttribute("files", len(inputs)),
	)
	defer span.End()

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i := range inputs {
		g.Go(func() error {
			result.Outcomes[i] = s.convert(ctx, cfg, inputs[i], opts, log)
			return nil
		})
	}
	_ = g.Wait()
	uniqueOutputNames(result.Outcomes)

	result.Summary = summarize(result.Outcomes)
	s.metrics.RecordBatch(ctx, time.Since(start))
	telemetry.SetAttributes(span,
		"success", result.Summary.Success,
		"warning", result.Summary.Warning,
		"blocked", result.Summary.Blocked,
		"failed", result.Summary.Failed,
	)
	log.Info("Batch converted",
		zap.Int("files", len(inputs)),
		zap.Int("success", result.Summary.Success),
		zap.Int("warning", result.Summary.Warning),
		zap.Int("blocked", result.Summary.Blocked),
		zap.Int("failed", result.Summary.Failed),
		zap.Duration("duration", time.Since(start)),
	)
	return result
}

func (s *Service) convert(ctx context.Context, cfg *mapping.Config, in FileInput, opts Options, log *zap.Logger) FileOutcome {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "convert", "file",
		telemetry.WithAttribute(string(telemetry.AttrFile), in.Name),
	)
	defer span.End()

	outcome := s.transform(ctx, cfg, in, opts, log)

	telemetry.SetAttributes(span,
		string(telemetry.AttrMarketplace), outcome.Marketplace,
		string(telemetry.AttrStatus), string(outcome.Status),
		"rows", outcome.RowCount,
	)
	if outcome.Status == StatusFailed {
		telemetry.RecordError(span, outcome.Err)
	}
	s.metrics.RecordFile(ctx, metricMarketplace(outcome), string(outcome.Status),
		outputRows(outcome), len(outcome.MissingHeaders), time.Since(start))
	return outcome
}

// uniqueOutputNames suffixes repeated output names with _2, _3 and so on, in
// input order, so no two produced files of a batch share a name. Names are
// compared case-insensitively.
func uniqueOutputNames(outcomes []FileOutcome) {
	used := make(map[string]bool, len(outcomes))
	for i := range outcomes {
		o := &outcomes[i]
		if !o.Status.HasOutput() {
			continue
		}
		name := o.OutputName
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		used[strings.ToLower(name)] = true
		o.OutputName = name
	}
}

// metricMarketplace keeps caller supplied names out of metric labels
func metricMarketplace(o FileOutcome) string {
	if mapping.Marketplace(o.Marketplace).IsValid() {
		return o.Marketplace
	}
	return "unknown"
}

// outputRows counts rows only for files that produced output
func outputRows(o FileOutcome) int {
	if !o.Status.HasOutput() {
		return 0
	}
	return o.RowCount
}

func (s *Service) transform(ctx context.Context, cfg *mapping.Config, in FileInput, opts Options, log *zap.Logger) FileOutcome {
	outcome := FileOutcome{
		FileName:       in.Name,
		Marketplace:    in.Marketplace,
		MissingHeaders: []string{},
	}
	log = log.With(zap.String("file", in.Name), zap.String("marketplace", in.Marketplace))

	if err := ctx.Err(); err != nil {
		return outcome.fail(err, log)
	}

	mp, err := mapping.ParseMarketplace(in.Marketplace)
	if err != nil {
		return outcome.fail(err, log)
	}
	outcome.Marketplace = mp.String()

	table, err := tabular.Read(in.Name, bytes.NewReader(in.Data), tabular.WithMaxSize(s.maxFileSize))
	if err != nil {
		return outcome.fail(err, log)
	}

	res := catalog.Transform(table, mp, cfg)
	outcome.MissingHeaders = res.MissingHeaders
	outcome.RowCount = res.Output.RowCount

	if res.HasMissingHeaders() && !opts.ProceedAnyway {
		outcome.Status = StatusBlocked
		outcome.Err = catalog.MissingHeadersError(res.MissingHeaders)
		outcome.Error = outcome.Err.Error()
		log.Warn("Conversion blocked by missing headers", zap.Strings("missing_headers", res.MissingHeaders))
		return outcome
	}

	data, err := tabular.EncodeCSV(res.Output)
	if err != nil {
		return outcome.fail(err, log)
	}
	outcome.OutputName = tabular.OutputName(in.Name)
	outcome.Output = data

	if res.HasMissingHeaders() {
		outcome.Status = StatusWarning
		log.Warn("Converted with missing headers",
			zap.Strings("missing_headers", res.MissingHeaders),
			zap.Int("rows", outcome.RowCount),
		)
		return outcome
	}

	outcome.Status = StatusSuccess
	log.Info("Converted", zap.Int("rows", outcome.RowCount))
	return outcome
}
