package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// ConversionMetrics records per-file and per-batch conversion activity.
type ConversionMetrics struct {
	filesTotal          *Counter
	rowsTotal           *Counter
	missingHeadersTotal *Counter
	fileDuration        *Histogram
	batchDuration       *Histogram
}

// NewConversionMetrics registers the conversion instruments on meter.
func NewConversionMetrics(meter metric.Meter) (*ConversionMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &ConversionMetrics{}
	var err error

	if m.filesTotal, err = NewCounter(meter, "mapper_conversion_files_total",
		"Files converted, by marketplace and outcome", "{file}"); err != nil {
		return nil, err
	}
	if m.rowsTotal, err = NewCounter(meter, "mapper_conversion_rows_total",
		"Data rows written to LR output", "{row}"); err != nil {
		return nil, err
	}
	if m.missingHeadersTotal, err = NewCounter(meter, "mapper_conversion_missing_headers_total",
		"Mapped source columns absent from uploaded files", "{header}"); err != nil {
		return nil, err
	}
	if m.fileDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "mapper_conversion_file_duration_seconds",
		Description: "Time to read, transform and encode one file",
		Unit:        "s",
		Boundaries:  ConversionDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.batchDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "mapper_conversion_batch_duration_seconds",
		Description: "Time to convert a whole batch",
		Unit:        "s",
		Boundaries:  ConversionDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordFile records the outcome of converting one file. Rows only count
// when output was produced.
func (m *ConversionMetrics) RecordFile(ctx context.Context, marketplace, status string, rows, missingHeaders int, d time.Duration) {
	if m == nil {
		return
	}
	mp := AttrMarketplace.String(marketplace)
	m.filesTotal.Inc(ctx, mp, AttrStatus.String(status))
	if rows > 0 {
		m.rowsTotal.Add(ctx, int64(rows), mp)
	}
	if missingHeaders > 0 {
		m.missingHeadersTotal.Add(ctx, int64(missingHeaders), mp)
	}
	m.fileDuration.RecordDuration(ctx, d, mp)
}

// RecordBatch records the duration of a batch of files.
func (m *ConversionMetrics) RecordBatch(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.RecordDuration(ctx, d)
}
