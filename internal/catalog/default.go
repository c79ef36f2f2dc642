package catalog

import (
	"strconv"

	"materialmanagement/pkg/models"
)

// Default builds the deploy-time catalog: one entry per allowed step of the
// transformation chain, plus the same-type operations (retezare, sortare).
func Default() *Catalog {
	return New([]ProcessingType{
		{
			ID:          "fasonare",
			Label:       "Fasonare",
			Description: "Fasonarea bustenilor bruti in busteni fasonati",
			SourceTypes: []string{models.TypeBSTN},
			ResultType:  models.TypeBSTF,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "cod_unic_aviz", ResultField: "cod_unic_aviz", Strategy: StrategyAll},
				{SourceField: "apv", ResultField: "apv", Strategy: StrategyFirst},
				{SourceField: "lat", ResultField: "lat", Strategy: StrategyFirst},
				{SourceField: "log", ResultField: "log", Strategy: StrategyFirst},
				{SourceField: "volum_total", ResultField: "volum_total", Strategy: StrategySum},
				{SourceField: "observatii", ResultField: "observatii", Strategy: StrategyManual},
			},
		},
		{
			ID:          "gaterare",
			Label:       "Gaterare",
			Description: "Taierea bustenilor fasonati in cherestea netivita",
			SourceTypes: []string{models.TypeBSTF},
			ResultType:  models.TypeCHN,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "cod_unic_aviz", ResultField: "cod_unic_aviz", Strategy: StrategyAll},
				// Sawing loses roughly 30% of the volume to kerf and slabs;
				// the transform recomputes the sum itself (sum hands it nil).
				{SourceField: "volum_total", ResultField: "volum_total", Strategy: StrategySum, Transform: volumCuRandament(0.7)},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyFirst},
				{SourceField: "grosime", ResultField: "grosime", Strategy: StrategyManual},
			},
		},
		{
			ID:          "semitivire",
			Label:       "Semitivire",
			Description: "Tivirea partiala a cherestelei netivite",
			SourceTypes: []string{models.TypeCHN},
			ResultType:  models.TypeCHS,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyAverage},
				{SourceField: "grosime", ResultField: "grosime", Strategy: StrategyAverage},
				{SourceField: "volum_total", ResultField: "volum_total", Strategy: StrategySum},
			},
		},
		{
			ID:          "tivire",
			Label:       "Tivire",
			Description: "Tivirea completa a cherestelei",
			SourceTypes: []string{models.TypeCHS},
			ResultType:  models.TypeCHT,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyAverage},
				{SourceField: "latime", ResultField: "latime", Strategy: StrategyAverage},
				{SourceField: "grosime", ResultField: "grosime", Strategy: StrategyFirst},
				{SourceField: "volum_total", ResultField: "volum_total", Strategy: StrategySum},
			},
		},
		{
			ID:          "multilama",
			Label:       "Multilama",
			Description: "Spintecarea cherestelei tivite in frize",
			SourceTypes: []string{models.TypeCHT},
			ResultType:  models.TypeFRZ,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyAverage},
				{SourceField: "latime", ResultField: "latime", Strategy: StrategyManual},
				{SourceField: "grosime", ResultField: "grosime", Strategy: StrategyManual},
				{SourceField: "nr_bucati", ResultField: "nr_bucati", Strategy: StrategyManual},
				{SourceField: "volum_total", ResultField: "volum_total", Strategy: StrategySum},
			},
		},
		{
			ID:          "rindeluire",
			Label:       "Rindeluire",
			Description: "Rindeluirea frizelor",
			SourceTypes: []string{models.TypeFRZ},
			ResultType:  models.TypeFRZR,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyAverage},
				{SourceField: "latime", ResultField: "latime", Strategy: StrategyFirst},
				// Planing takes 4mm off the rough thickness.
				{SourceField: "grosime", ResultField: "grosime", Strategy: StrategyAverage, Transform: grosimeDupaRindeluire(0.4)},
				{SourceField: "nr_bucati", ResultField: "nr_bucati", Strategy: StrategySum},
			},
		},
		{
			ID:          "profilare",
			Label:       "Profilare",
			Description: "Profilarea frizelor rindeluite in leaturi",
			SourceTypes: []string{models.TypeFRZR},
			ResultType:  models.TypeLEA,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyAverage},
				{SourceField: "nr_bucati", ResultField: "nr_bucati", Strategy: StrategySum},
			},
		},
		{
			ID:          "imbinare",
			Label:       "Imbinare panouri",
			Description: "Imbinarea leaturilor in panouri",
			SourceTypes: []string{models.TypeLEA},
			ResultType:  models.TypePAN,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyFirst},
				{SourceField: "latime", ResultField: "latime", Strategy: StrategyManual},
				{SourceField: "nr_bucati", ResultField: "nr_bucati", Strategy: StrategySum},
				{SourceField: "volum_total", ResultField: "volum_total", Strategy: StrategySum},
			},
		},
		{
			ID:          "retezare",
			Label:       "Retezare",
			Description: "Retezarea la lungime, pastrand tipul materialului",
			SourceTypes: []string{models.TypeCHN, models.TypeCHS, models.TypeCHT, models.TypeFRZ, models.TypeFRZR, models.TypeLEA},
			ResultType:  ResultTypeSame,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "latime", ResultField: "latime", Strategy: StrategyFirst},
				{SourceField: "grosime", ResultField: "grosime", Strategy: StrategyFirst},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyManual},
				{SourceField: "observatii", ResultField: "observatii", Strategy: StrategyManual},
			},
		},
		{
			// Accepts any material type: sorting regroups stock without
			// changing what it is.
			ID:          "sortare",
			Label:       "Sortare",
			Description: "Regruparea materialelor pe clase de calitate",
			SourceTypes: []string{},
			ResultType:  ResultTypeSame,
			CarryOver: []CarryOverConfig{
				{SourceField: "specie", ResultField: "specie", Strategy: StrategyFirst, IsRequired: true},
				{SourceField: "cod_unic_aviz", ResultField: "cod_unic_aviz", Strategy: StrategyAll},
				{SourceField: "apv", ResultField: "apv", Strategy: StrategyAll},
				{SourceField: "lungime", ResultField: "lungime", Strategy: StrategyFirst},
				{SourceField: "latime", ResultField: "latime", Strategy: StrategyFirst},
				{SourceField: "grosime", ResultField: "grosime", Strategy: StrategyFirst},
				{SourceField: "diametru", ResultField: "diametru", Strategy: StrategyFirst},
				{SourceField: "volum_total", ResultField: "volum_total", Strategy: StrategySum},
			},
		},
	})
}

// volumCuRandament sums volum_total across the sources and applies a yield
// factor. Paired with the sum strategy, which passes nil to transforms, so
// the aggregation happens here.
func volumCuRandament(randament float64) TransformFunc {
	return func(_ *string, sources []models.Material) *string {
		var sum float64
		for _, src := range sources {
			if v, ok := src.Field("volum_total"); ok {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					sum += n
				}
			}
		}
		out := strconv.FormatFloat(sum*randament, 'f', -1, 64)
		return &out
	}
}

// grosimeDupaRindeluire subtracts the planing allowance from the resolved
// thickness. Unparseable input passes through untouched.
func grosimeDupaRindeluire(adaos float64) TransformFunc {
	return func(raw *string, _ []models.Material) *string {
		if raw == nil {
			return nil
		}
		n, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			return raw
		}
		out := strconv.FormatFloat(n-adaos, 'f', -1, 64)
		return &out
	}
}
