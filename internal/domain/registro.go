package domain

import "time"

// Registro is one per-document registry entry inside a box. Most columns are
// optional in the source spreadsheets, so they are pointers; a nil pointer is
// a true NULL and participates in the null-aware duplicate predicate.
type Registro struct {
	ID             int64     `json:"id"`
	NCaja          int64     `json:"n_caja"`
	IDInventario   *int64    `json:"id_inventario"`
	NPaquete       *int64    `json:"n_paquete"`
	NRegistro      *int64    `json:"n_registro"`
	Tomo           *int64    `json:"tomo"`
	RInicial       *int64    `json:"r_inicial"`
	RFinal         *int64    `json:"r_final"`
	Folios         *int64    `json:"folios"`
	TDocumental    *string   `json:"t_documental"`
	NDocumento     *string   `json:"n_documento"`
	RSocial        *string   `json:"r_social"`
	NRuc           *int64    `json:"n_ruc"`
	FExtrema       *string   `json:"f_extrema"`
	CObservaciones *string   `json:"c_observaciones"`
	CX1            *string   `json:"c_x1"`
	CX2            *string   `json:"c_x2"`
	CX3            *string   `json:"c_x3"`
	CodUniOrgAct   string    `json:"cod_uni_org_act"`
	CodUniOrgAnt   *string   `json:"cod_uni_org_ant"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CreatedBy      *string   `json:"created_by,omitempty"`
	UpdatedBy      *string   `json:"updated_by,omitempty"`
}

// RegistroNaturalKey names the fields that identify a registry entry across
// imports. The set mirrors what operators consider "the same document":
// box, package, record and volume numbers, folio count, document number,
// tax id and the extreme date.
var RegistroNaturalKey = []string{
	"n_caja",
	"n_paquete",
	"n_registro",
	"tomo",
	"folios",
	"n_documento",
	"n_ruc",
	"f_extrema",
}
