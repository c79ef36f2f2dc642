package catalog

import (
	"materialmanagement/pkg/models"
)

// ResultTypeSame keeps the source material's type instead of naming a fixed
// output type.
const ResultTypeSame = "same"

type CarryOverStrategy string

const (
	StrategyFirst   CarryOverStrategy = "first"
	StrategyAll     CarryOverStrategy = "all"
	StrategySum     CarryOverStrategy = "sum"
	StrategyAverage CarryOverStrategy = "average"
	StrategyManual  CarryOverStrategy = "manual"
)

// TransformFunc post-processes a strategy-resolved value. raw is nil when the
// strategy produced nothing, and always nil for the sum strategy; a transform
// paired with sum must recompute its aggregate from the sources. Returning
// nil leaves the field unset.
type TransformFunc func(raw *string, sources []models.Material) *string

// CarryOverConfig is one field-propagation rule of a processing type.
// IsRequired is documentation for form layers; the evaluator does not
// enforce it.
type CarryOverConfig struct {
	SourceField string
	ResultField string
	Strategy    CarryOverStrategy
	IsRequired  bool
	Transform   TransformFunc
}

// ProcessingType is one allowed transformation. An empty SourceTypes set
// accepts any material type. The catalog as a whole is the de facto state
// machine of the material chain.
type ProcessingType struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
	SourceTypes []string          `json:"source_types"`
	ResultType  string            `json:"result_type"`
	CarryOver   []CarryOverConfig `json:"-"`
}

func (pt *ProcessingType) AcceptsSourceType(sourceType string) bool {
	if len(pt.SourceTypes) == 0 {
		return true
	}
	for _, t := range pt.SourceTypes {
		if t == sourceType {
			return true
		}
	}
	return false
}

// Catalog is the read-only processing type registry. It is built once at
// startup and injected; there is no runtime mutation path.
type Catalog struct {
	types []ProcessingType
	byID  map[string]int
}

func New(types []ProcessingType) *Catalog {
	byID := make(map[string]int, len(types))
	for i, pt := range types {
		byID[pt.ID] = i
	}
	return &Catalog{types: types, byID: byID}
}

func (c *Catalog) Get(id string) (*ProcessingType, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.types[i], true
}

// ValidForSource returns every processing type whose source set contains the
// given material type, in catalog order.
func (c *Catalog) ValidForSource(sourceType string) []ProcessingType {
	valid := []ProcessingType{}
	for _, pt := range c.types {
		if pt.AcceptsSourceType(sourceType) {
			valid = append(valid, pt)
		}
	}
	return valid
}

func (c *Catalog) All() []ProcessingType {
	all := make([]ProcessingType, len(c.types))
	copy(all, c.types)
	return all
}
