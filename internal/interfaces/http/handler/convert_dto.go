package handler

import convertapp "github.com/lrcatalog/mapper/internal/application/convert"

// BatchFileResult is one file of a batch conversion response
type BatchFileResult struct {
	convertapp.FileOutcome
	// Content is the converted CSV text, present when the file produced output
	Content string `json:"content,omitempty"`
}

// BatchResponse is the body of a batch conversion
type BatchResponse struct {
	BatchID string             `json:"batch_id"`
	Files   []BatchFileResult  `json:"files"`
	Summary convertapp.Summary `json:"summary"`
}

func newBatchResponse(result *convertapp.BatchResult) BatchResponse {
	files := make([]BatchFileResult, len(result.Outcomes))
	for i, o := range result.Outcomes {
		files[i] = BatchFileResult{FileOutcome: o}
		if o.Status.HasOutput() {
			files[i].Content = string(o.Output)
		}
	}
	return BatchResponse{
		BatchID: result.BatchID.String(),
		Files:   files,
		Summary: result.Summary,
	}
}
