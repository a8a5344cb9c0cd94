package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acanales/gestor-archivo/internal/domain"
)

type usuarioRepository struct {
	pool *pgxpool.Pool
}

// NewUsuarioRepository wires an operator-account repository backed by pgxpool.
func NewUsuarioRepository(pool *pgxpool.Pool) UsuarioRepository {
	return &usuarioRepository{pool: pool}
}

func (r *usuarioRepository) FindByNombre(ctx context.Context, nombreCompleto string) (*domain.Usuario, error) {
	// Legacy rows carry trailing whitespace in nombre_completo; match trimmed.
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, nombre_completo, password FROM reg_usuarios WHERE TRIM(nombre_completo) = TRIM($1) LIMIT 1`,
		nombreCompleto,
	)

	var usuario domain.Usuario
	if err := row.Scan(&usuario.ID, &usuario.NombreCompleto, &usuario.Password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find usuario: %w", err)
	}
	return &usuario, nil
}

func (r *usuarioRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `UPDATE reg_usuarios SET password = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}
