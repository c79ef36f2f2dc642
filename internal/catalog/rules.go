package catalog

import (
	"strconv"
	"strings"

	"materialmanagement/pkg/models"
)

// ApplyRules resolves the derived fields a processing type produces from a
// set of source materials. The result maps field names (including "type") to
// their carried-over values.
//
// Unknown processing type or an empty source list returns an empty map, not
// an error: callers may be previewing a form that is not filled in yet.
func (c *Catalog) ApplyRules(processingTypeID string, sources []models.Material) map[string]string {
	result := map[string]string{}

	pt, ok := c.Get(processingTypeID)
	if !ok || len(sources) == 0 {
		return result
	}

	if pt.ResultType == ResultTypeSame {
		result["type"] = sources[0].Type
	} else {
		result["type"] = pt.ResultType
	}

	for _, rule := range pt.CarryOver {
		value, ok := resolveStrategy(rule, sources)

		if rule.Transform != nil {
			// The sum strategy hands nil to the transform regardless of the
			// resolved value; the transform recomputes its own aggregate.
			var raw *string
			if ok && rule.Strategy != StrategySum {
				raw = &value
			}
			transformed := rule.Transform(raw, sources)
			if transformed == nil {
				delete(result, rule.ResultField)
				continue
			}
			result[rule.ResultField] = *transformed
			continue
		}

		if ok {
			result[rule.ResultField] = value
		}
	}

	return result
}

func resolveStrategy(rule CarryOverConfig, sources []models.Material) (string, bool) {
	switch rule.Strategy {
	case StrategyFirst:
		return sources[0].Field(rule.SourceField)

	case StrategyAll:
		values := []string{}
		for _, src := range sources {
			if v, ok := src.Field(rule.SourceField); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return "", false
		}
		return strings.Join(values, ","), true

	case StrategySum:
		// Missing and unparseable values count as 0, so a sum always
		// resolves. The total stays string-typed like every other field.
		var sum float64
		for _, src := range sources {
			if v, ok := src.Field(rule.SourceField); ok {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					sum += n
				}
			}
		}
		return strconv.FormatFloat(sum, 'f', -1, 64), true

	case StrategyAverage:
		var sum float64
		var count int
		for _, src := range sources {
			v, ok := src.Field(rule.SourceField)
			if !ok {
				continue
			}
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				// Unparseable values are excluded from numerator and
				// denominator alike.
				continue
			}
			sum += n
			count++
		}
		if count == 0 {
			return "", false
		}
		return strconv.FormatFloat(sum/float64(count), 'f', -1, 64), true

	case StrategyManual:
		return "", false
	}

	return "", false
}
