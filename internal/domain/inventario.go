package domain

import "time"

// Inventario is an intake record: one uploaded inventory file delivered to
// the archive by an organizational unit, tracked through its review states.
type Inventario struct {
	ID            int64     `json:"id"`
	NombreArchivo string    `json:"nombrearchivo"`
	NroMemo       string    `json:"nromemo"`
	NMesa         *string   `json:"nmesa"`
	FSubida       *string   `json:"f_subida"`
	ObsEstado     *string   `json:"obs_estado"`
	Estado        *string   `json:"estado"`
	FEstado       *string   `json:"f_estado"`
	UsrCreadorID  *int64    `json:"usr_creador_id"`
	UniOrgID      *string   `json:"uni_org_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     *string   `json:"created_by,omitempty"`
	UpdatedBy     *string   `json:"updated_by,omitempty"`
}
