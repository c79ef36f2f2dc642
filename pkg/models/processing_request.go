package models

// OutputConfig describes what a processing operation should produce. With a
// ProcessingTypeID the catalog drives the output ("catalog mode"); without
// one the caller must supply Type and Specie explicitly ("manual mode").
type OutputConfig struct {
	Type             string            `json:"type"`
	Specie           string            `json:"specie"`
	Count            int               `json:"count"`
	ProcessingTypeID string            `json:"processing_type_id"`
	AdditionalFields map[string]string `json:"additional_fields"`
}

type ProcessingRequest struct {
	SourceIDs    []int        `json:"source_ids"`
	OutputConfig OutputConfig `json:"output_config"`
}

// PreviewRequest asks for the carry-over result of a processing type over a
// set of materials without creating anything.
type PreviewRequest struct {
	ProcessingTypeID string `json:"processing_type_id"`
	SourceIDs        []int  `json:"source_ids"`
}
