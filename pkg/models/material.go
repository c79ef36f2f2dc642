package models

import (
	"encoding/json"
	"fmt"
)

// Material type codes, in transformation-chain order. The processing type
// catalog is the only place transitions between them are allowed.
const (
	TypeBSTN = "BSTN" // bustean (raw log)
	TypeBSTF = "BSTF" // bustean fasonat (squared log)
	TypeCHN  = "CHN"  // cherestea netivita (unedged lumber)
	TypeCHS  = "CHS"  // cherestea semitivita
	TypeCHT  = "CHT"  // cherestea tivita (edged lumber)
	TypeFRZ  = "FRZ"  // frize (battens)
	TypeFRZR = "FRZR" // frize rindeluite (planed battens)
	TypeLEA  = "LEA"  // leaturi (slats)
	TypePAN  = "PAN"  // panouri (panels)
)

// MaterialTypes is the full vocabulary, in chain order.
var MaterialTypes = []string{
	TypeBSTN, TypeBSTF, TypeCHN, TypeCHS, TypeCHT, TypeFRZ, TypeFRZR, TypeLEA, TypePAN,
}

// TypeOrder returns the position of a material type in the transformation
// chain, or -1 for unknown types. Lineage visualization consumers use it to
// sort siblings deterministically.
func TypeOrder(materialType string) int {
	for i, t := range MaterialTypes {
		if t == materialType {
			return i
		}
	}
	return -1
}

func IsValidMaterialType(materialType string) bool {
	return TypeOrder(materialType) >= 0
}

// Material is a physical unit of wood-derived stock. Measurement fields are
// string-typed on purpose: operators enter them as free text and the
// carry-over strategies degrade gracefully on unparseable values.
type Material struct {
	ID      int    `json:"id" db:"id"`
	HumanID string `json:"human_id" db:"human_id"`
	Type    string `json:"type" db:"type"`
	Specie  string `json:"specie" db:"specie"`

	CodUnicAviz    string `json:"cod_unic_aviz,omitempty" db:"cod_unic_aviz"`
	APV            string `json:"apv,omitempty" db:"apv"`
	Data           string `json:"data,omitempty" db:"data"`
	Lat            string `json:"lat,omitempty" db:"lat"`
	Log            string `json:"log,omitempty" db:"log"`
	Lungime        string `json:"lungime,omitempty" db:"lungime"`
	Latime         string `json:"latime,omitempty" db:"latime"`
	Grosime        string `json:"grosime,omitempty" db:"grosime"`
	Diametru       string `json:"diametru,omitempty" db:"diametru"`
	VolumPlacuta   string `json:"volum_placuta,omitempty" db:"volum_placuta"`
	VolumTotal     string `json:"volum_total,omitempty" db:"volum_total"`
	NrBucati       string `json:"nr_bucati,omitempty" db:"nr_bucati"`
	NrPlacutaRosie string `json:"nr_placuta_rosie,omitempty" db:"nr_placuta_rosie"`
	Observatii     string `json:"observatii,omitempty" db:"observatii"`

	// Componente holds the ids of the materials this one was produced from,
	// in the order they were submitted for processing. Empty for materials
	// registered directly by an operator.
	Componente []int `json:"componente" db:"-"`

	Deleted bool `json:"deleted" db:"deleted"`
}

// Field returns the named carry-over field. Empty values count as unset,
// matching the document-store schema where absent and empty are the same.
func (m *Material) Field(name string) (string, bool) {
	var v string
	switch name {
	case "type":
		v = m.Type
	case "specie":
		v = m.Specie
	case "cod_unic_aviz":
		v = m.CodUnicAviz
	case "apv":
		v = m.APV
	case "data":
		v = m.Data
	case "lat":
		v = m.Lat
	case "log":
		v = m.Log
	case "lungime":
		v = m.Lungime
	case "latime":
		v = m.Latime
	case "grosime":
		v = m.Grosime
	case "diametru":
		v = m.Diametru
	case "volum_placuta":
		v = m.VolumPlacuta
	case "volum_total":
		v = m.VolumTotal
	case "nr_bucati":
		v = m.NrBucati
	case "nr_placuta_rosie":
		v = m.NrPlacutaRosie
	case "observatii":
		v = m.Observatii
	default:
		return "", false
	}
	return v, v != ""
}

// SetField assigns one of the editable fields by name. Identity and lineage
// fields (id, human_id, componente, deleted) are deliberately not settable
// through here.
func (m *Material) SetField(name, value string) bool {
	switch name {
	case "type":
		m.Type = value
	case "specie":
		m.Specie = value
	case "cod_unic_aviz":
		m.CodUnicAviz = value
	case "apv":
		m.APV = value
	case "data":
		m.Data = value
	case "lat":
		m.Lat = value
	case "log":
		m.Log = value
	case "lungime":
		m.Lungime = value
	case "latime":
		m.Latime = value
	case "grosime":
		m.Grosime = value
	case "diametru":
		m.Diametru = value
	case "volum_placuta":
		m.VolumPlacuta = value
	case "volum_total":
		m.VolumTotal = value
	case "nr_bucati":
		m.NrBucati = value
	case "nr_placuta_rosie":
		m.NrPlacutaRosie = value
	case "observatii":
		m.Observatii = value
	default:
		return false
	}
	return true
}

func (m *Material) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ID,
		ResourceType: "material",
	}
}

// FlatMaterialRecord mirrors one row of the materials table. Componente is
// kept as raw jsonb until transformed.
type FlatMaterialRecord struct {
	ID             int    `db:"id"`
	HumanID        string `db:"human_id"`
	Type           string `db:"type"`
	Specie         string `db:"specie"`
	CodUnicAviz    string `db:"cod_unic_aviz"`
	APV            string `db:"apv"`
	Data           string `db:"data"`
	Lat            string `db:"lat"`
	Log            string `db:"log"`
	Lungime        string `db:"lungime"`
	Latime         string `db:"latime"`
	Grosime        string `db:"grosime"`
	Diametru       string `db:"diametru"`
	VolumPlacuta   string `db:"volum_placuta"`
	VolumTotal     string `db:"volum_total"`
	NrBucati       string `db:"nr_bucati"`
	NrPlacutaRosie string `db:"nr_placuta_rosie"`
	Observatii     string `db:"observatii"`
	Componente     []byte `db:"componente"`
	Deleted        bool   `db:"deleted"`
}

func (fm *FlatMaterialRecord) TransformToMaterial() (Material, error) {
	componente := []int{}
	if len(fm.Componente) > 0 {
		if err := json.Unmarshal(fm.Componente, &componente); err != nil {
			return Material{}, fmt.Errorf("failed to unmarshal componente: %w", err)
		}
	}

	return Material{
		ID:             fm.ID,
		HumanID:        fm.HumanID,
		Type:           fm.Type,
		Specie:         fm.Specie,
		CodUnicAviz:    fm.CodUnicAviz,
		APV:            fm.APV,
		Data:           fm.Data,
		Lat:            fm.Lat,
		Log:            fm.Log,
		Lungime:        fm.Lungime,
		Latime:         fm.Latime,
		Grosime:        fm.Grosime,
		Diametru:       fm.Diametru,
		VolumPlacuta:   fm.VolumPlacuta,
		VolumTotal:     fm.VolumTotal,
		NrBucati:       fm.NrBucati,
		NrPlacutaRosie: fm.NrPlacutaRosie,
		Observatii:     fm.Observatii,
		Componente:     componente,
		Deleted:        fm.Deleted,
	}, nil
}
