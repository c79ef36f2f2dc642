package processing

import (
	"encoding/json"
	"fmt"
	"time"

	"materialmanagement/internal/repository"
	"materialmanagement/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type ProcessingRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ProcessingRepository {
	return &ProcessingRepository{repository: r}
}

var processingColumns = []interface{}{
	"id", "source_ids", "output_ids", "output_type", "output_specie",
	"processing_type_id", "processing_date", "note",
}

// Create inserts the record and assigns id and processing date. OutputIDs
// are attached separately once the output materials exist.
func (r *ProcessingRepository) Create(record *models.ProcessingRecord) (*models.ProcessingRecord, error) {
	if record.ProcessingDate.IsZero() {
		record.ProcessingDate = time.Now()
	}

	sourceJSON, err := json.Marshal(record.SourceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal source_ids: %w", err)
	}
	outputJSON, err := json.Marshal(orEmpty(record.OutputIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output_ids: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("processings").
		Rows(goqu.Record{
			"source_ids":         sourceJSON,
			"output_ids":         outputJSON,
			"output_type":        record.OutputType,
			"output_specie":      record.OutputSpecie,
			"processing_type_id": record.ProcessingTypeID,
			"processing_date":    record.ProcessingDate,
			"note":               record.Note,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&record.ID); err != nil {
		return nil, fmt.Errorf("failed to insert processing record: %w", err)
	}

	return record, nil
}

// AttachOutputs completes a record with the ids of the materials it
// produced. This is the only mutation a processing record ever sees.
func (r *ProcessingRepository) AttachOutputs(recordID int, outputIDs []int) error {
	outputJSON, err := json.Marshal(orEmpty(outputIDs))
	if err != nil {
		return fmt.Errorf("failed to marshal output_ids: %w", err)
	}

	query := r.repository.GoquDBWrapper.
		Update("processings").
		Set(goqu.Record{"output_ids": outputJSON}).
		Where(goqu.Ex{"id": recordID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to attach outputs to processing %d: %w", recordID, err)
	}

	return nil
}

func (r *ProcessingRepository) FindByID(id int) (*models.ProcessingRecord, error) {
	query := r.repository.GoquDBWrapper.
		Select(processingColumns...).
		From("processings").
		Where(goqu.Ex{"id": id})

	var flat models.FlatProcessingRecord
	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch processing %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	record, err := flat.TransformToProcessingRecord()
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindBySourceIDs returns every record whose source set intersects ids.
func (r *ProcessingRepository) FindBySourceIDs(ids []int) ([]models.ProcessingRecord, error) {
	return r.findByArrayMembership("source_ids", ids)
}

// FindByOutputIDs returns every record whose output set intersects ids.
func (r *ProcessingRepository) FindByOutputIDs(ids []int) ([]models.ProcessingRecord, error) {
	return r.findByArrayMembership("output_ids", ids)
}

func (r *ProcessingRepository) findByArrayMembership(column string, ids []int) ([]models.ProcessingRecord, error) {
	if len(ids) == 0 {
		return []models.ProcessingRecord{}, nil
	}

	// jsonb containment: the array column contains the scalar id.
	membership := make([]exp.Expression, 0, len(ids))
	for _, id := range ids {
		membership = append(membership, goqu.L(column+" @> to_jsonb(?::int)", id))
	}

	query := r.repository.GoquDBWrapper.
		Select(processingColumns...).
		From("processings").
		Where(goqu.Or(membership...)).
		Order(goqu.I("id").Asc())

	return r.scanRecords(query)
}

// FindAll returns the full processing history, newest first.
func (r *ProcessingRepository) FindAll() ([]models.ProcessingRecord, error) {
	query := r.repository.GoquDBWrapper.
		Select(processingColumns...).
		From("processings").
		Order(goqu.I("processing_date").Desc())

	return r.scanRecords(query)
}

func (r *ProcessingRepository) scanRecords(query *goqu.SelectDataset) ([]models.ProcessingRecord, error) {
	var flat []models.FlatProcessingRecord
	if err := query.Executor().ScanStructs(&flat); err != nil {
		return nil, fmt.Errorf("failed to fetch processing records: %w", err)
	}

	records := []models.ProcessingRecord{}
	for i := range flat {
		record, err := flat[i].TransformToProcessingRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func orEmpty(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
