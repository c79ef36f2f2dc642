package flow

import (
	"testing"

	custom_error "materialmanagement/pkg/errors"
	"materialmanagement/pkg/models"

	"github.com/stretchr/testify/assert"
)

// fakeStores is an in-memory store pair; enough lineage behavior to exercise
// the builder without a database.
type fakeStores struct {
	materials map[int]models.Material
	records   []models.ProcessingRecord
}

func (f *fakeStores) FindByID(id int) (*models.Material, error) {
	m, ok := f.materials[id]
	if !ok || m.Deleted {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeStores) FindByIDs(ids []int) ([]models.Material, error) {
	out := []models.Material{}
	for _, id := range ids {
		if m, ok := f.materials[id]; ok && !m.Deleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func intersects(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (f *fakeStores) FindBySourceIDs(ids []int) ([]models.ProcessingRecord, error) {
	out := []models.ProcessingRecord{}
	for _, r := range f.records {
		if intersects(r.SourceIDs, ids) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStores) FindByOutputIDs(ids []int) ([]models.ProcessingRecord, error) {
	out := []models.ProcessingRecord{}
	for _, r := range f.records {
		if intersects(r.OutputIDs, ids) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Chain fixture: A(1) + B(2) --R1--> C(3) --R2--> D(4), E(5)
func chainStores() *fakeStores {
	return &fakeStores{
		materials: map[int]models.Material{
			1: {ID: 1, HumanID: "000001", Type: models.TypeBSTN, Specie: "FAG"},
			2: {ID: 2, HumanID: "000002", Type: models.TypeBSTN, Specie: "FAG"},
			3: {ID: 3, HumanID: "000003", Type: models.TypeBSTF, Specie: "FAG", Componente: []int{1, 2}},
			4: {ID: 4, HumanID: "000004", Type: models.TypeCHN, Specie: "FAG", Componente: []int{3}},
			5: {ID: 5, HumanID: "000005", Type: models.TypeCHN, Specie: "FAG", Componente: []int{3}},
		},
		records: []models.ProcessingRecord{
			{ID: 10, SourceIDs: []int{1, 2}, OutputIDs: []int{3}, OutputType: models.TypeBSTF, ProcessingTypeID: "fasonare"},
			{ID: 11, SourceIDs: []int{3}, OutputIDs: []int{4, 5}, OutputType: models.TypeCHN, ProcessingTypeID: "gaterare"},
		},
	}
}

func TestGetMaterialFlowAncestors(t *testing.T) {
	stores := chainStores()
	builder := NewFlowBuilder(stores, stores)

	result, err := builder.GetMaterialFlow(3)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Material.ID)

	// C was produced by R1 from A and B: one link per source material.
	assert.Len(t, result.Ancestors, 2)
	seen := map[int]bool{}
	for _, link := range result.Ancestors {
		assert.Equal(t, 10, link.Processing.ID)
		seen[link.Material.Material.ID] = true
		assert.Empty(t, link.Material.Ancestors) // A and B are raw inputs
	}
	assert.True(t, seen[1])
	assert.True(t, seen[2])
}

func TestGetMaterialFlowAncestorsRecurse(t *testing.T) {
	stores := chainStores()
	builder := NewFlowBuilder(stores, stores)

	result, err := builder.GetMaterialFlow(4)

	assert.NoError(t, err)
	// D <- R2 <- C, and C itself expands to A and B via R1.
	assert.Len(t, result.Ancestors, 1)
	link := result.Ancestors[0]
	assert.Equal(t, 11, link.Processing.ID)
	assert.Equal(t, 3, link.Material.Material.ID)
	assert.Len(t, link.Material.Ancestors, 2)
}

func TestGetMaterialFlowDescendants(t *testing.T) {
	stores := chainStores()
	builder := NewFlowBuilder(stores, stores)

	result, err := builder.GetMaterialFlow(1)

	assert.NoError(t, err)
	ids := []int{}
	for _, d := range result.Descendants {
		ids = append(ids, d.ID)
	}
	// Everything downstream of A, across both processing steps.
	assert.ElementsMatch(t, []int{3, 4, 5}, ids)
}

func TestGetMaterialFlowRoundTrip(t *testing.T) {
	stores := chainStores()
	builder := NewFlowBuilder(stores, stores)

	up, err := builder.GetMaterialFlow(3)
	assert.NoError(t, err)
	down, err := builder.GetMaterialFlow(1)
	assert.NoError(t, err)

	// C sees A as an ancestor via R1; A sees C as a descendant.
	foundA := false
	for _, link := range up.Ancestors {
		if link.Material.Material.ID == 1 {
			foundA = true
			assert.Equal(t, 10, link.Processing.ID)
		}
	}
	assert.True(t, foundA)

	foundC := false
	for _, d := range down.Descendants {
		if d.ID == 3 {
			foundC = true
		}
	}
	assert.True(t, foundC)
}

func TestGetMaterialFlowLeafHasNoLineage(t *testing.T) {
	stores := chainStores()
	builder := NewFlowBuilder(stores, stores)

	result, err := builder.GetMaterialFlow(5)

	assert.NoError(t, err)
	assert.Len(t, result.Ancestors, 1)
	assert.Empty(t, result.Descendants)
}

func TestGetMaterialFlowNotFound(t *testing.T) {
	stores := chainStores()
	builder := NewFlowBuilder(stores, stores)

	_, err := builder.GetMaterialFlow(999)

	var notFoundErr *custom_error.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestGetMaterialFlowCyclicRecords(t *testing.T) {
	// Corrupted data: X produced Y and Y produced X. The walk must
	// terminate and still return both directions.
	stores := &fakeStores{
		materials: map[int]models.Material{
			1: {ID: 1, HumanID: "000001", Type: models.TypeCHN},
			2: {ID: 2, HumanID: "000002", Type: models.TypeCHT},
		},
		records: []models.ProcessingRecord{
			{ID: 10, SourceIDs: []int{1}, OutputIDs: []int{2}},
			{ID: 11, SourceIDs: []int{2}, OutputIDs: []int{1}},
		},
	}
	builder := NewFlowBuilder(stores, stores)

	result, err := builder.GetMaterialFlow(1)

	assert.NoError(t, err)
	// Ancestor side: 1 <- R11 <- 2 <- R10 <- 1, truncated at the repeat.
	assert.Len(t, result.Ancestors, 1)
	inner := result.Ancestors[0].Material
	assert.Equal(t, 2, inner.Material.ID)
	if assert.Len(t, inner.Ancestors, 1) {
		assert.Equal(t, 1, inner.Ancestors[0].Material.Material.ID)
		assert.Empty(t, inner.Ancestors[0].Material.Ancestors)
	}

	// Descendant side is cycle-safe by construction.
	ids := []int{}
	for _, d := range result.Descendants {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []int{2}, ids)
}

func TestGetMaterialFlowDanglingSourceSkipped(t *testing.T) {
	stores := &fakeStores{
		materials: map[int]models.Material{
			2: {ID: 2, HumanID: "000002", Type: models.TypeBSTF},
		},
		records: []models.ProcessingRecord{
			// Source 99 no longer resolves.
			{ID: 10, SourceIDs: []int{99, 2}, OutputIDs: []int{2}},
		},
	}
	// Self-referential output is also tolerated: record 10 lists material 2
	// as both source and output.
	builder := NewFlowBuilder(stores, stores)

	result, err := builder.GetMaterialFlow(2)

	assert.NoError(t, err)
	assert.Len(t, result.Ancestors, 1)
	assert.Equal(t, 2, result.Ancestors[0].Material.Material.ID)
}
