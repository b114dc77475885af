// Package convertapp converts marketplace catalog exports into LR format
// files, one at a time or as independent batches.
package convertapp

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is the outcome of converting one file
type Status string

const (
	// StatusSuccess means every mapped column was found
	StatusSuccess Status = "success"
	// StatusWarning means columns were missing but output was produced anyway
	StatusWarning Status = "warning"
	// StatusBlocked means columns were missing and no output was produced
	StatusBlocked Status = "blocked"
	// StatusFailed means the file could not be converted at all
	StatusFailed Status = "failed"
)

// HasOutput reports whether the status carries a converted file
func (s Status) HasOutput() bool {
	return s == StatusSuccess || s == StatusWarning
}

// FileInput is one uploaded export
type FileInput struct {
	Name        string
	Marketplace string
	Data        []byte
}

// Options selects the missing-header policy
type Options struct {
	// ProceedAnyway produces output even when mapped columns are missing
	ProceedAnyway bool
}

// FileOutcome is the result of converting one file
type FileOutcome struct {
	FileName       string   `json:"file_name"`
	Marketplace    string   `json:"marketplace"`
	Status         Status   `json:"status"`
	MissingHeaders []string `json:"missing_headers"`
	RowCount       int      `json:"row_count"`
	OutputName     string   `json:"output_name,omitempty"`
	Error          string   `json:"error,omitempty"`

	// Output is the converted CSV, set when Status.HasOutput
	Output []byte `json:"-"`
	// Err is the failure or block reason
	Err error `json:"-"`
}

func (o FileOutcome) fail(err error, log *zap.Logger) FileOutcome {
	o.Status = StatusFailed
	o.Err = err
	o.Error = err.Error()
	log.Error("Conversion failed", zap.Error(err))
	return o
}

// Summary counts outcomes by status
type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Warning int `json:"warning"`
	Blocked int `json:"blocked"`
	Failed  int `json:"failed"`
}

// BatchResult holds per-file outcomes in input order
type BatchResult struct {
	BatchID  uuid.UUID     `json:"batch_id"`
	Outcomes []FileOutcome `json:"outcomes"`
	Summary  Summary       `json:"summary"`
}

// HasProblems reports whether any file failed or was blocked
func (b *BatchResult) HasProblems() bool {
	return b.Summary.Blocked > 0 || b.Summary.Failed > 0
}

func summarize(outcomes []FileOutcome) Summary {
	sum := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			sum.Success++
		case StatusWarning:
			sum.Warning++
		case StatusBlocked:
			sum.Blocked++
		case StatusFailed:
			sum.Failed++
		}
	}
	return sum
}
