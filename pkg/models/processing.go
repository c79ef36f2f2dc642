package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProcessingRecord is the immutable audit event of one transformation. It is
// created before the output materials and completed with their ids once they
// are persisted; it is never mutated afterwards.
type ProcessingRecord struct {
	ID               int       `json:"id" db:"id"`
	SourceIDs        []int     `json:"source_ids" db:"-"`
	OutputIDs        []int     `json:"output_ids" db:"-"`
	OutputType       string    `json:"output_type" db:"output_type"`
	OutputSpecie     string    `json:"output_specie" db:"output_specie"`
	ProcessingTypeID string    `json:"processing_type_id,omitempty" db:"processing_type_id"`
	ProcessingDate   time.Time `json:"processing_date" db:"processing_date"`
	Note             string    `json:"note,omitempty" db:"note"`
}

func (p *ProcessingRecord) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "processing",
	}
}

type FlatProcessingRecord struct {
	ID               int       `db:"id"`
	SourceIDs        []byte    `db:"source_ids"`
	OutputIDs        []byte    `db:"output_ids"`
	OutputType       string    `db:"output_type"`
	OutputSpecie     string    `db:"output_specie"`
	ProcessingTypeID string    `db:"processing_type_id"`
	ProcessingDate   time.Time `db:"processing_date"`
	Note             string    `db:"note"`
}

func (fp *FlatProcessingRecord) TransformToProcessingRecord() (ProcessingRecord, error) {
	sourceIDs := []int{}
	if len(fp.SourceIDs) > 0 {
		if err := json.Unmarshal(fp.SourceIDs, &sourceIDs); err != nil {
			return ProcessingRecord{}, fmt.Errorf("failed to unmarshal source_ids: %w", err)
		}
	}
	outputIDs := []int{}
	if len(fp.OutputIDs) > 0 {
		if err := json.Unmarshal(fp.OutputIDs, &outputIDs); err != nil {
			return ProcessingRecord{}, fmt.Errorf("failed to unmarshal output_ids: %w", err)
		}
	}

	return ProcessingRecord{
		ID:               fp.ID,
		SourceIDs:        sourceIDs,
		OutputIDs:        outputIDs,
		OutputType:       fp.OutputType,
		OutputSpecie:     fp.OutputSpecie,
		ProcessingTypeID: fp.ProcessingTypeID,
		ProcessingDate:   fp.ProcessingDate,
		Note:             fp.Note,
	}, nil
}
