package processing

import (
	"fmt"
	"log"
	"strings"
	"time"

	"materialmanagement/internal/catalog"
	custom_error "materialmanagement/pkg/errors"
	"materialmanagement/pkg/models"
)

// MaterialStore is the slice of the material repository the orchestrator
// consumes.
type MaterialStore interface {
	FindByIDs(ids []int) ([]models.Material, error)
	Create(material *models.Material) (*models.Material, error)
	Save(material *models.Material) error
	NextHumanID() (string, error)
}

// ProcessingStore persists processing records.
type ProcessingStore interface {
	Create(record *models.ProcessingRecord) (*models.ProcessingRecord, error)
	AttachOutputs(recordID int, outputIDs []int) error
}

type ProcessingService struct {
	materials MaterialStore
	records   ProcessingStore
	catalog   *catalog.Catalog
}

func NewProcessingService(materials MaterialStore, records ProcessingStore, c *catalog.Catalog) *ProcessingService {
	return &ProcessingService{
		materials: materials,
		records:   records,
		catalog:   c,
	}
}

// Result bundles everything one processing operation produced or touched.
type Result struct {
	OutputMaterials        []models.Material       `json:"output_materials"`
	UpdatedSourceMaterials []models.Material       `json:"updated_source_materials"`
	ProcessingRecord       models.ProcessingRecord `json:"processing_record"`
}

// ProcessMaterials consumes the source materials and produces count new ones,
// either driven by a catalog entry or fully specified by the caller.
//
// The three write phases (outputs, source notes, record completion) are
// separate store writes. A failed output creation aborts the operation but
// does not retract outputs already created; a failed source-note update is
// logged and skipped because the outputs already exist.
func (s *ProcessingService) ProcessMaterials(req models.ProcessingRequest) (*Result, error) {
	cfg := req.OutputConfig

	if len(req.SourceIDs) == 0 {
		return nil, &custom_error.InvalidRequestError{Message: "lista de materiale sursă este goală"}
	}

	count := cfg.Count
	if count == 0 {
		count = 1
	}
	if count < 1 {
		return nil, &custom_error.InvalidRequestError{Message: "numărul de materiale rezultate trebuie să fie cel puțin 1"}
	}

	catalogMode := strings.TrimSpace(cfg.ProcessingTypeID) != ""
	if !catalogMode && (cfg.Type == "" || cfg.Specie == "") {
		return nil, &custom_error.InvalidRequestError{Message: "procesarea manuală necesită tipul și specia materialului rezultat"}
	}

	sources, err := s.materials.FindByIDs(req.SourceIDs)
	if err != nil {
		return nil, &custom_error.PersistenceError{Op: "încărcarea materialelor sursă", Err: err}
	}
	if len(sources) != len(req.SourceIDs) {
		return nil, &custom_error.SourceNotFoundError{Requested: len(req.SourceIDs), Found: len(sources)}
	}

	var resultType, resultSpecie string
	additionalFields := map[string]string{}

	if catalogMode {
		pt, ok := s.catalog.Get(cfg.ProcessingTypeID)
		if !ok {
			return nil, &custom_error.UnknownProcessingTypeError{ID: cfg.ProcessingTypeID}
		}

		if err := checkSourceTypes(pt, sources); err != nil {
			return nil, err
		}

		additionalFields = s.catalog.ApplyRules(pt.ID, sources)

		resultType = pt.ResultType
		if resultType == catalog.ResultTypeSame {
			resultType = sources[0].Type
		}
		resultSpecie = additionalFields["specie"]
		if resultSpecie == "" {
			resultSpecie = sources[0].Specie
		}
	} else {
		resultType = cfg.Type
		resultSpecie = cfg.Specie
	}

	record := &models.ProcessingRecord{
		SourceIDs:        req.SourceIDs,
		OutputType:       resultType,
		OutputSpecie:     resultSpecie,
		ProcessingTypeID: cfg.ProcessingTypeID,
		Note:             fmt.Sprintf("%d materiale sursă, %d materiale rezultate (%s)", len(sources), count, resultType),
	}
	record, err = s.records.Create(record)
	if err != nil {
		return nil, &custom_error.PersistenceError{Op: "crearea înregistrării de procesare", Err: err}
	}

	outputs, err := s.createOutputs(req, record, resultType, resultSpecie, count, additionalFields)
	if err != nil {
		return nil, err
	}

	updatedSources := s.annotateSources(sources, record, len(outputs))

	outputIDs := make([]int, 0, len(outputs))
	for i := range outputs {
		outputIDs = append(outputIDs, outputs[i].ID)
	}
	if err := s.records.AttachOutputs(record.ID, outputIDs); err != nil {
		return nil, &custom_error.PersistenceError{Op: "finalizarea înregistrării de procesare", Err: err}
	}
	record.OutputIDs = outputIDs

	return &Result{
		OutputMaterials:        outputs,
		UpdatedSourceMaterials: updatedSources,
		ProcessingRecord:       *record,
	}, nil
}

func checkSourceTypes(pt *catalog.ProcessingType, sources []models.Material) error {
	if len(pt.SourceTypes) == 0 {
		return nil
	}

	offending := []string{}
	for i := range sources {
		if !pt.AcceptsSourceType(sources[i].Type) {
			offending = append(offending, sources[i].HumanID)
		}
	}
	if len(offending) > 0 {
		return &custom_error.IncompatibleSourceTypesError{
			ProcessingTypeID: pt.ID,
			Expected:         pt.SourceTypes,
			Offending:        offending,
		}
	}

	return nil
}

func (s *ProcessingService) createOutputs(
	req models.ProcessingRequest,
	record *models.ProcessingRecord,
	resultType, resultSpecie string,
	count int,
	additionalFields map[string]string,
) ([]models.Material, error) {
	outputs := []models.Material{}

	for i := 0; i < count; i++ {
		humanID, err := s.materials.NextHumanID()
		if err != nil {
			return nil, &custom_error.PersistenceError{Op: "generarea codului de material", Err: err}
		}

		output := models.Material{
			HumanID:    humanID,
			Type:       resultType,
			Specie:     resultSpecie,
			Data:       time.Now().Format("2006-01-02"),
			Componente: req.SourceIDs,
			Observatii: fmt.Sprintf("Rezultat din procesarea a %d materiale", len(req.SourceIDs)),
		}

		// Carry-over values fill only the gaps; the caller's explicit
		// additional fields overwrite everything, applied last.
		for field, value := range additionalFields {
			if _, set := output.Field(field); !set {
				output.SetField(field, value)
			}
		}
		for field, value := range req.OutputConfig.AdditionalFields {
			output.SetField(field, value)
		}

		created, err := s.materials.Create(&output)
		if err != nil {
			// Outputs persisted in earlier iterations stay in place; the
			// operation still reports failure.
			return nil, &custom_error.PersistenceError{
				Op:  fmt.Sprintf("crearea materialului %d din %d", i+1, count),
				Err: err,
			}
		}
		outputs = append(outputs, *created)

		log.Printf("Material %s (%s) creat prin procesarea %d", created.HumanID, created.Type, record.ID)
	}

	return outputs, nil
}

// annotateSources appends a processing note to each consumed material.
// Failures here are logged and swallowed: the outputs already exist and the
// processing record is the authoritative trail.
func (s *ProcessingService) annotateSources(sources []models.Material, record *models.ProcessingRecord, outputCount int) []models.Material {
	note := fmt.Sprintf(
		"[%s] Procesat: %d materiale rezultate (%s)",
		time.Now().Format("2006-01-02 15:04"), outputCount, record.OutputType,
	)

	updated := []models.Material{}
	for i := range sources {
		source := sources[i]
		if source.Observatii == "" {
			source.Observatii = note
		} else {
			source.Observatii = source.Observatii + "\n" + note
		}

		if err := s.materials.Save(&source); err != nil {
			log.Printf("Nu s-a putut actualiza materialul sursă %d: %v", source.ID, err)
			continue
		}
		updated = append(updated, source)
	}

	return updated
}
