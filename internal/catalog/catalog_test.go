package catalog

import (
	"testing"

	"materialmanagement/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	c := Default()

	pt, ok := c.Get("fasonare")
	assert.True(t, ok)
	assert.Equal(t, "fasonare", pt.ID)
	assert.Equal(t, []string{models.TypeBSTN}, pt.SourceTypes)
	assert.Equal(t, models.TypeBSTF, pt.ResultType)

	_, ok = c.Get("granulare")
	assert.False(t, ok)
}

func TestGetIsPure(t *testing.T) {
	c := Default()

	first, ok1 := c.Get("gaterare")
	second, ok2 := c.Get("gaterare")

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestValidForSource(t *testing.T) {
	c := Default()

	ids := func(types []ProcessingType) []string {
		out := []string{}
		for _, pt := range types {
			out = append(out, pt.ID)
		}
		return out
	}

	// BSTN can only be squared or sorted.
	assert.Equal(t, []string{"fasonare", "sortare"}, ids(c.ValidForSource(models.TypeBSTN)))

	// FRZ goes through planing, cutting to length or sorting.
	assert.Equal(t, []string{"rindeluire", "retezare", "sortare"}, ids(c.ValidForSource(models.TypeFRZ)))

	// Panels are the end of the chain; only the catch-all sortare remains.
	assert.Equal(t, []string{"sortare"}, ids(c.ValidForSource(models.TypePAN)))

	// Repeated lookups return equal results.
	assert.Equal(t, c.ValidForSource(models.TypeFRZ), c.ValidForSource(models.TypeFRZ))
}

func TestValidForSourceUnknownType(t *testing.T) {
	c := Default()

	// Only the empty-source-set entries accept an out-of-vocabulary type.
	for _, pt := range c.ValidForSource("XYZ") {
		assert.Empty(t, pt.SourceTypes)
	}
}

func TestDefaultCoversEveryChainStep(t *testing.T) {
	c := Default()

	// Every non-initial type must be reachable as the result of some entry.
	for _, materialType := range models.MaterialTypes[1:] {
		found := false
		for _, pt := range c.All() {
			if pt.ResultType == materialType {
				found = true
				break
			}
		}
		assert.True(t, found, "no processing type produces %s", materialType)
	}
}
