package materials

import (
	"encoding/json"
	"fmt"

	"materialmanagement/internal/repository"
	custom_error "materialmanagement/pkg/errors"
	"materialmanagement/pkg/metadata"
	"materialmanagement/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type MaterialRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *MaterialRepository {
	return &MaterialRepository{repository: r}
}

// queryBuilder is the slice of goqu.Database / goqu.TxDatabase the write
// helpers need, so the same code runs inside and outside a transaction.
type queryBuilder interface {
	Select(cols ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
}

var materialColumns = []interface{}{
	"id", "human_id", "type", "specie", "cod_unic_aviz", "apv", "data",
	"lat", "log", "lungime", "latime", "grosime", "diametru",
	"volum_placuta", "volum_total", "nr_bucati", "nr_placuta_rosie",
	"observatii", "componente", "deleted",
}

func (r *MaterialRepository) FindByID(id int) (*models.Material, error) {
	query := r.repository.GoquDBWrapper.
		Select(materialColumns...).
		From("materials").
		Where(goqu.Ex{"id": id, "deleted": false})

	var flat models.FlatMaterialRecord
	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch material %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	material, err := flat.TransformToMaterial()
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) FindByHumanID(humanID string) (*models.Material, error) {
	query := r.repository.GoquDBWrapper.
		Select(materialColumns...).
		From("materials").
		Where(goqu.L("UPPER(human_id) = UPPER(?)", humanID)).
		Where(goqu.Ex{"deleted": false})

	var flat models.FlatMaterialRecord
	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch material %s: %w", humanID, err)
	}
	if !found {
		return nil, nil
	}

	material, err := flat.TransformToMaterial()
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// FindByIDs returns the non-deleted materials among ids, in id order. Missing
// ids are simply absent from the result; callers compare counts.
func (r *MaterialRepository) FindByIDs(ids []int) ([]models.Material, error) {
	if len(ids) == 0 {
		return []models.Material{}, nil
	}

	query := r.repository.GoquDBWrapper.
		Select(materialColumns...).
		From("materials").
		Where(goqu.Ex{"id": ids, "deleted": false}).
		Order(goqu.I("id").Asc())

	return r.scanMaterials(query)
}

type ListFilters struct {
	Type   string
	Specie string
}

func (r *MaterialRepository) List(filters ListFilters) ([]models.Material, error) {
	query := r.repository.GoquDBWrapper.
		Select(materialColumns...).
		From("materials").
		Where(goqu.Ex{"deleted": false}).
		Order(goqu.I("id").Desc())

	if filters.Type != "" {
		query = query.Where(goqu.Ex{"type": filters.Type})
	}
	if filters.Specie != "" {
		query = query.Where(goqu.Ex{"specie": filters.Specie})
	}

	return r.scanMaterials(query)
}

func (r *MaterialRepository) scanMaterials(query *goqu.SelectDataset) ([]models.Material, error) {
	var flat []models.FlatMaterialRecord
	if err := query.Executor().ScanStructs(&flat); err != nil {
		return nil, fmt.Errorf("failed to fetch materials: %w", err)
	}

	materials := []models.Material{}
	for i := range flat {
		material, err := flat[i].TransformToMaterial()
		if err != nil {
			return nil, err
		}
		materials = append(materials, material)
	}

	return materials, nil
}

// Create inserts the material and assigns its id. HumanID must already be
// set by the caller via NextHumanID.
func (r *MaterialRepository) Create(material *models.Material) (*models.Material, error) {
	return createIn(r.repository.GoquDBWrapper, material)
}

func createIn(db queryBuilder, material *models.Material) (*models.Material, error) {
	record, err := materialRecord(material)
	if err != nil {
		return nil, err
	}

	query := db.Insert("materials").
		Rows(record).
		Returning("id")

	if _, err := query.Executor().ScanVal(&material.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Duplicate human id for material", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert material record: %w", err)
	}

	return material, nil
}

// CreateBulk registers count copies of the template inside one transaction,
// each with its own sequential human id. All or nothing: any failure rolls
// the whole batch back.
func (r *MaterialRepository) CreateBulk(template models.Material, count int) ([]models.Material, error) {
	created := make([]models.Material, 0, count)

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		for i := 0; i < count; i++ {
			material := template

			humanID, err := nextHumanIDIn(tx)
			if err != nil {
				return fmt.Errorf("failed to generate human id for material %d of %d: %w", i+1, count, err)
			}
			material.HumanID = humanID

			record, err := createIn(tx, &material)
			if err != nil {
				return fmt.Errorf("failed to create material %d of %d: %w", i+1, count, err)
			}
			created = append(created, *record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Save persists every mutable column of the material.
func (r *MaterialRepository) Save(material *models.Material) error {
	record, err := materialRecord(material)
	if err != nil {
		return err
	}
	delete(record, "human_id") // immutable after creation

	query := r.repository.GoquDBWrapper.
		Update("materials").
		Set(record).
		Where(goqu.Ex{"id": material.ID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update material %d: %w", material.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "materialul", ID: material.ID}
	}

	return nil
}

func (r *MaterialRepository) SoftDelete(id int) error {
	query := r.repository.GoquDBWrapper.
		Update("materials").
		Set(goqu.Record{"deleted": true}).
		Where(goqu.Ex{"id": id, "deleted": false})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete material %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "materialul", ID: id}
	}

	return nil
}

// NextHumanID derives the next sequential code from the highest existing one.
// For fixed-width uppercase base36 the lexicographic maximum is the numeric
// maximum, so MAX(UPPER(...)) is enough. Read-then-increment is not atomic:
// two concurrent creations can race to the same code and the unique index on
// human_id is what actually arbitrates.
func (r *MaterialRepository) NextHumanID() (string, error) {
	return nextHumanIDIn(r.repository.GoquDBWrapper)
}

func nextHumanIDIn(db queryBuilder) (string, error) {
	query := db.
		Select(goqu.L("COALESCE(MAX(UPPER(human_id)), '')")).
		From("materials").
		Where(goqu.L("human_id ~* ?", "^[A-Z0-9]{6}$"))

	var last string
	if _, err := query.Executor().ScanVal(&last); err != nil {
		return "", fmt.Errorf("failed to get last human id: %w", err)
	}

	return metadata.NextHumanID(last)
}

func materialRecord(material *models.Material) (goqu.Record, error) {
	componente := material.Componente
	if componente == nil {
		componente = []int{}
	}
	componenteJSON, err := json.Marshal(componente)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal componente: %w", err)
	}

	return goqu.Record{
		"human_id":         material.HumanID,
		"type":             material.Type,
		"specie":           material.Specie,
		"cod_unic_aviz":    material.CodUnicAviz,
		"apv":              material.APV,
		"data":             material.Data,
		"lat":              material.Lat,
		"log":              material.Log,
		"lungime":          material.Lungime,
		"latime":           material.Latime,
		"grosime":          material.Grosime,
		"diametru":         material.Diametru,
		"volum_placuta":    material.VolumPlacuta,
		"volum_total":      material.VolumTotal,
		"nr_bucati":        material.NrBucati,
		"nr_placuta_rosie": material.NrPlacutaRosie,
		"observatii":       material.Observatii,
		"componente":       componenteJSON,
		"deleted":          material.Deleted,
	}, nil
}
