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

type inventarioRepository struct {
	pool *pgxpool.Pool
}

// NewInventarioRepository wires an intake-record repository backed by pgxpool.
func NewInventarioRepository(pool *pgxpool.Pool) InventarioRepository {
	return &inventarioRepository{pool: pool}
}

const inventarioColumns = `id, nombrearchivo, nromemo, nmesa, f_subida, obs_estado, estado, f_estado,
	usr_creador_id, uni_org_id, created_at, updated_at, created_by, updated_by`

func (r *inventarioRepository) Create(ctx context.Context, item domain.Inventario, actor *string) (domain.Inventario, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO inventario (nombrearchivo, nromemo, nmesa, f_subida, obs_estado, estado, f_estado, usr_creador_id, uni_org_id, created_by)
		 VALUES ($1, $2, $3, $4::date, $5, $6, $7::date, $8, $9, $10)
		 RETURNING `+inventarioColumns,
		item.NombreArchivo,
		item.NroMemo,
		item.NMesa,
		item.FSubida,
		item.ObsEstado,
		item.Estado,
		item.FEstado,
		item.UsrCreadorID,
		item.UniOrgID,
		actor,
	)

	created, err := scanInventario(row)
	if err != nil {
		return domain.Inventario{}, fmt.Errorf("failed to create inventario: %w", err)
	}
	return created, nil
}

func (r *inventarioRepository) GetByID(ctx context.Context, id int64) (*domain.Inventario, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+inventarioColumns+` FROM inventario WHERE id = $1`, id)
	item, err := scanInventario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inventario: %w", err)
	}
	return &item, nil
}

func (r *inventarioRepository) FindDuplicate(ctx context.Context, nombreArchivo, nroMemo string) (*domain.Inventario, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+inventarioColumns+` FROM inventario WHERE nombrearchivo = $1 AND nromemo = $2 LIMIT 1`,
		nombreArchivo,
		nroMemo,
	)
	item, err := scanInventario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find duplicate inventario: %w", err)
	}
	return &item, nil
}

func scanInventario(row pgx.Row) (domain.Inventario, error) {
	var (
		item    domain.Inventario
		fSubida pgtype.Date
		fEstado pgtype.Date
	)
	err := row.Scan(
		&item.ID,
		&item.NombreArchivo,
		&item.NroMemo,
		&item.NMesa,
		&fSubida,
		&item.ObsEstado,
		&item.Estado,
		&fEstado,
		&item.UsrCreadorID,
		&item.UniOrgID,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.CreatedBy,
		&item.UpdatedBy,
	)
	if err != nil {
		return domain.Inventario{}, err
	}
	if fSubida.Valid {
		formatted := fSubida.Time.Format("2006-01-02")
		item.FSubida = &formatted
	}
	if fEstado.Valid {
		formatted := fEstado.Time.Format("2006-01-02")
		item.FEstado = &formatted
	}
	return item, nil
}
