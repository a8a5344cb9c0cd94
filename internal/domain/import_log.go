package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportLogEntry captures one row-level failure from an import session so
// operators can audit past runs after the error artifact has been downloaded
// and deleted.
type ImportLogEntry struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	Entity       string    `json:"entity"`
	FileName     string    `json:"file_name"`
	RowNumber    *int      `json:"row_number,omitempty"`
	ErrorKind    string    `json:"error_kind"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}
