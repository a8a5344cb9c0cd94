package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acanales/gestor-archivo/internal/domain"
)

type cajaRepository struct {
	pool *pgxpool.Pool
}

// NewCajaRepository wires a box repository backed by pgxpool.
func NewCajaRepository(pool *pgxpool.Pool) CajaRepository {
	return &cajaRepository{pool: pool}
}

const cajaColumns = `id, anaquel, cuerpo, nivel, fila, posicion, f_creacion, z_ubicacion, locacion,
	created_at, updated_at, created_by, updated_by`

func (r *cajaRepository) Create(ctx context.Context, caja domain.Caja, actor *string) (domain.Caja, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO reg_caja (id, anaquel, cuerpo, nivel, fila, posicion, f_creacion, z_ubicacion, locacion, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10)
		 RETURNING `+cajaColumns,
		caja.ID,
		caja.Anaquel,
		caja.Cuerpo,
		caja.Nivel,
		caja.Fila,
		caja.Posicion,
		caja.FCreacion,
		caja.ZUbicacion,
		caja.Locacion,
		actor,
	)

	created, err := scanCaja(row)
	if err != nil {
		return domain.Caja{}, fmt.Errorf("failed to create caja: %w", err)
	}
	return created, nil
}

func (r *cajaRepository) GetByID(ctx context.Context, id int64) (*domain.Caja, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cajaColumns+` FROM reg_caja WHERE id = $1`, id)
	caja, err := scanCaja(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get caja: %w", err)
	}
	return &caja, nil
}

func (r *cajaRepository) FindDuplicate(ctx context.Context, id int64) (*domain.Caja, error) {
	return r.GetByID(ctx, id)
}

func scanCaja(row pgx.Row) (domain.Caja, error) {
	var (
		caja      domain.Caja
		fCreacion pgtype.Date
	)
	err := row.Scan(
		&caja.ID,
		&caja.Anaquel,
		&caja.Cuerpo,
		&caja.Nivel,
		&caja.Fila,
		&caja.Posicion,
		&fCreacion,
		&caja.ZUbicacion,
		&caja.Locacion,
		&caja.CreatedAt,
		&caja.UpdatedAt,
		&caja.CreatedBy,
		&caja.UpdatedBy,
	)
	if err != nil {
		return domain.Caja{}, err
	}
	if fCreacion.Valid {
		caja.FCreacion = fCreacion.Time.Format("2006-01-02")
	}
	return caja, nil
}
