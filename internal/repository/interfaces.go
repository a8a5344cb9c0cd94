package repository

import (
	"context"

	"github.com/acanales/gestor-archivo/internal/domain"
)

// CajaRepository persists storage boxes. FindDuplicate returns nil when no
// box with that identifier exists.
type CajaRepository interface {
	Create(ctx context.Context, caja domain.Caja, actor *string) (domain.Caja, error)
	GetByID(ctx context.Context, id int64) (*domain.Caja, error)
	FindDuplicate(ctx context.Context, id int64) (*domain.Caja, error)
}

// RegistroRepository persists per-document registry entries. FindDuplicate
// matches the natural-key map null-aware: a nil value in the map requires the
// column to be NULL, a set value requires equality.
type RegistroRepository interface {
	Create(ctx context.Context, registro domain.Registro, actor *string) (domain.Registro, error)
	GetByID(ctx context.Context, id int64) (*domain.Registro, error)
	FindDuplicate(ctx context.Context, key map[string]any) (*domain.Registro, error)
}

// InventarioRepository persists inventory intake records.
type InventarioRepository interface {
	Create(ctx context.Context, item domain.Inventario, actor *string) (domain.Inventario, error)
	GetByID(ctx context.Context, id int64) (*domain.Inventario, error)
	FindDuplicate(ctx context.Context, nombreArchivo, nroMemo string) (*domain.Inventario, error)
}

// UsuarioRepository looks up operator accounts for authentication.
type UsuarioRepository interface {
	FindByNombre(ctx context.Context, nombreCompleto string) (*domain.Usuario, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}

// ImportLogRepository persists row-level import failures for audit.
type ImportLogRepository interface {
	Record(ctx context.Context, entry domain.ImportLogEntry) error
	List(ctx context.Context, entity, fileName string, limit, offset int) ([]domain.ImportLogEntry, error)
}
