package dto

import "github.com/lrcatalog/mapper/internal/domain/mapping"

// MappingRow is one row of the editable mapping grid
type MappingRow struct {
	LimeRoad string `json:"limeroad"`
	Myntra   string `json:"myntra"`
	Ajio     string `json:"ajio"`
	Flipkart string `json:"flipkart"`
}

// UpdateMappingRequest replaces the whole grid
type UpdateMappingRequest struct {
	Rows []MappingRow `json:"rows" binding:"required"`
}

// MappingResponse is the grid as returned by the API
type MappingResponse struct {
	Rows  []MappingRow `json:"rows"`
	Count int          `json:"count"`
}

// MarketplacesResponse lists the configured marketplace keys
type MarketplacesResponse struct {
	Marketplaces []string `json:"marketplaces"`
}

// MissingHeadersDetails is attached to a blocked conversion error
type MissingHeadersDetails struct {
	MissingHeaders []string `json:"missing_headers"`
}

// ToEditRows converts grid rows to domain edit rows
func ToEditRows(rows []MappingRow) []mapping.EditRow {
	out := make([]mapping.EditRow, len(rows))
	for i, r := range rows {
		out[i] = mapping.EditRow{
			Field: r.LimeRoad,
			Sources: map[mapping.Marketplace]string{
				mapping.Myntra:   r.Myntra,
				mapping.Ajio:     r.Ajio,
				mapping.Flipkart: r.Flipkart,
			},
		}
	}
	return out
}

// NewMappingResponse converts domain edit rows to the API grid
func NewMappingResponse(rows []mapping.EditRow) MappingResponse {
	out := make([]MappingRow, len(rows))
	for i, r := range rows {
		out[i] = MappingRow{
			LimeRoad: r.Field,
			Myntra:   r.Sources[mapping.Myntra],
			Ajio:     r.Sources[mapping.Ajio],
			Flipkart: r.Sources[mapping.Flipkart],
		}
	}
	return MappingResponse{Rows: out, Count: len(out)}
}
