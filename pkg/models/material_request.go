package models

// MaterialRequest is the operator-facing payload for registering raw
// materials. Identity fields are assigned by the store, never by the caller.
type MaterialRequest struct {
	Type           string `json:"type" binding:"required"`
	Specie         string `json:"specie" binding:"required"`
	CodUnicAviz    string `json:"cod_unic_aviz"`
	APV            string `json:"apv"`
	Data           string `json:"data"`
	Lat            string `json:"lat"`
	Log            string `json:"log"`
	Lungime        string `json:"lungime"`
	Latime         string `json:"latime"`
	Grosime        string `json:"grosime"`
	Diametru       string `json:"diametru"`
	VolumPlacuta   string `json:"volum_placuta"`
	VolumTotal     string `json:"volum_total"`
	NrBucati       string `json:"nr_bucati"`
	NrPlacutaRosie string `json:"nr_placuta_rosie"`
	Observatii     string `json:"observatii"`
}

func (r *MaterialRequest) ToMaterial() Material {
	return Material{
		Type:           r.Type,
		Specie:         r.Specie,
		CodUnicAviz:    r.CodUnicAviz,
		APV:            r.APV,
		Data:           r.Data,
		Lat:            r.Lat,
		Log:            r.Log,
		Lungime:        r.Lungime,
		Latime:         r.Latime,
		Grosime:        r.Grosime,
		Diametru:       r.Diametru,
		VolumPlacuta:   r.VolumPlacuta,
		VolumTotal:     r.VolumTotal,
		NrBucati:       r.NrBucati,
		NrPlacutaRosie: r.NrPlacutaRosie,
		Observatii:     r.Observatii,
		Componente:     []int{},
	}
}

// BulkMaterialRequest registers several identical raw materials at once,
// e.g. a truckload of logs sharing one transport permit.
type BulkMaterialRequest struct {
	Count    int             `json:"count" binding:"required"`
	Material MaterialRequest `json:"material" binding:"required"`
}
