package flow

import (
	"log"

	custom_error "materialmanagement/pkg/errors"
	"materialmanagement/pkg/models"
)

type MaterialStore interface {
	FindByID(id int) (*models.Material, error)
	FindByIDs(ids []int) ([]models.Material, error)
}

type ProcessingStore interface {
	FindBySourceIDs(ids []int) ([]models.ProcessingRecord, error)
	FindByOutputIDs(ids []int) ([]models.ProcessingRecord, error)
}

// FlowBuilder reconstructs the transformation history around one material:
// the ancestor tree walked backward through processing records, and the flat
// descendant set walked forward.
type FlowBuilder struct {
	materials MaterialStore
	records   ProcessingStore
}

func NewFlowBuilder(materials MaterialStore, records ProcessingStore) *FlowBuilder {
	return &FlowBuilder{materials: materials, records: records}
}

// AncestorNode is one material in the ancestor tree together with the
// processing steps that produced it.
type AncestorNode struct {
	Material  models.Material `json:"material"`
	Ancestors []AncestorLink  `json:"ancestors,omitempty"`
}

// AncestorLink pairs a producing processing record with one of its source
// materials, itself expanded into a subtree.
type AncestorLink struct {
	Processing models.ProcessingRecord `json:"processing"`
	Material   *AncestorNode           `json:"material"`
}

type FlowResult struct {
	Material    models.Material   `json:"material"`
	Ancestors   []AncestorLink    `json:"ancestors"`
	Descendants []models.Material `json:"descendants"`
}

// GetMaterialFlow returns the full lineage of a material. Well-formed data is
// a DAG; traversal still defends against cycles from corrupted records.
func (b *FlowBuilder) GetMaterialFlow(materialID int) (*FlowResult, error) {
	material, err := b.materials.FindByID(materialID)
	if err != nil {
		return nil, &custom_error.PersistenceError{Op: "încărcarea materialului", Err: err}
	}
	if material == nil {
		return nil, &custom_error.NotFoundError{Resource: "materialul", ID: materialID}
	}

	walk := &ancestorWalk{builder: b, built: map[int]*AncestorNode{}, path: map[int]bool{}}
	ancestors, err := walk.linksFor(*material)
	if err != nil {
		return nil, err
	}

	descendants, err := b.descendants(materialID)
	if err != nil {
		return nil, err
	}

	return &FlowResult{
		Material:    *material,
		Ancestors:   ancestors,
		Descendants: descendants,
	}, nil
}

// ancestorWalk memoizes built subtrees so shared ancestors are expanded once,
// and tracks the active recursion path so a cyclic record chain terminates
// with a shallow node instead of recursing forever.
type ancestorWalk struct {
	builder *FlowBuilder
	built   map[int]*AncestorNode
	path    map[int]bool
}

func (w *ancestorWalk) linksFor(material models.Material) ([]AncestorLink, error) {
	w.path[material.ID] = true
	defer delete(w.path, material.ID)

	producers, err := w.builder.records.FindByOutputIDs([]int{material.ID})
	if err != nil {
		return nil, &custom_error.PersistenceError{Op: "încărcarea istoricului de procesare", Err: err}
	}

	links := []AncestorLink{}
	for _, record := range producers {
		for _, sourceID := range record.SourceIDs {
			node, err := w.nodeFor(sourceID)
			if err != nil {
				return nil, err
			}
			if node == nil {
				continue
			}
			links = append(links, AncestorLink{Processing: record, Material: node})
		}
	}

	return links, nil
}

func (w *ancestorWalk) nodeFor(materialID int) (*AncestorNode, error) {
	if node, ok := w.built[materialID]; ok {
		return node, nil
	}

	source, err := w.builder.materials.FindByID(materialID)
	if err != nil {
		return nil, &custom_error.PersistenceError{Op: "încărcarea materialului sursă", Err: err}
	}
	if source == nil {
		// Dangling source reference in a processing record; the rest of the
		// tree is still worth returning.
		log.Printf("Material sursă %d lipsește din istoric", materialID)
		return nil, nil
	}

	if w.path[materialID] {
		// Cycle in corrupted data: stop with a leaf, do not memoize so a
		// legitimate occurrence elsewhere still expands fully.
		return &AncestorNode{Material: *source}, nil
	}

	ancestors, err := w.linksFor(*source)
	if err != nil {
		return nil, err
	}

	node := &AncestorNode{Material: *source, Ancestors: ancestors}
	w.built[materialID] = node
	return node, nil
}

// descendants walks forward breadth-first. The visited set only ever grows,
// which makes the walk cycle-safe by construction.
func (b *FlowBuilder) descendants(materialID int) ([]models.Material, error) {
	seen := map[int]bool{materialID: true}
	discovered := []int{}
	frontier := []int{materialID}

	for len(frontier) > 0 {
		consumers, err := b.records.FindBySourceIDs(frontier)
		if err != nil {
			return nil, &custom_error.PersistenceError{Op: "încărcarea istoricului de procesare", Err: err}
		}

		next := []int{}
		for _, record := range consumers {
			for _, outputID := range record.OutputIDs {
				if seen[outputID] {
					continue
				}
				seen[outputID] = true
				discovered = append(discovered, outputID)
				next = append(next, outputID)
			}
		}
		frontier = next
	}

	if len(discovered) == 0 {
		return []models.Material{}, nil
	}

	materials, err := b.materials.FindByIDs(discovered)
	if err != nil {
		return nil, &custom_error.PersistenceError{Op: "încărcarea materialelor descendente", Err: err}
	}
	return materials, nil
}
