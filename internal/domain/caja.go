package domain

import "time"

// Caja is a physical storage box on a warehouse shelf. The identifier is
// assigned by the archive operators, not by the database, so imports carry it
// explicitly and it doubles as the natural key for duplicate detection.
type Caja struct {
	ID         int64     `json:"id"`
	Anaquel    int64     `json:"anaquel"`
	Cuerpo     int64     `json:"cuerpo"`
	Nivel      string    `json:"nivel"`
	Fila       string    `json:"fila"`
	Posicion   int64     `json:"posicion"`
	FCreacion  string    `json:"f_creacion"`
	ZUbicacion string    `json:"z_ubicacion"`
	Locacion   string    `json:"locacion"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CreatedBy  *string   `json:"created_by,omitempty"`
	UpdatedBy  *string   `json:"updated_by,omitempty"`
}
