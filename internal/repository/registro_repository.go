package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acanales/gestor-archivo/internal/domain"
)

type registroRepository struct {
	pool *pgxpool.Pool
}

// NewRegistroRepository wires a registry repository backed by pgxpool.
func NewRegistroRepository(pool *pgxpool.Pool) RegistroRepository {
	return &registroRepository{pool: pool}
}

const registroColumns = `id, n_caja, id_inventario, n_paquete, n_registro, tomo, r_inicial, r_final, folios,
	t_documental, n_documento, r_social, n_ruc, f_extrema, c_observaciones, c_x1, c_x2, c_x3,
	cod_uni_org_act, cod_uni_org_ant, created_at, updated_at, created_by, updated_by`

func (r *registroRepository) Create(ctx context.Context, registro domain.Registro, actor *string) (domain.Registro, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO ad_inventario_reg (n_caja, id_inventario, n_paquete, n_registro, tomo, r_inicial, r_final, folios,
			t_documental, n_documento, r_social, n_ruc, f_extrema, c_observaciones, c_x1, c_x2, c_x3,
			cod_uni_org_act, cod_uni_org_ant, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::date, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING `+registroColumns,
		registro.NCaja,
		registro.IDInventario,
		registro.NPaquete,
		registro.NRegistro,
		registro.Tomo,
		registro.RInicial,
		registro.RFinal,
		registro.Folios,
		registro.TDocumental,
		registro.NDocumento,
		registro.RSocial,
		registro.NRuc,
		registro.FExtrema,
		registro.CObservaciones,
		registro.CX1,
		registro.CX2,
		registro.CX3,
		registro.CodUniOrgAct,
		registro.CodUniOrgAnt,
		actor,
	)

	created, err := scanRegistro(row)
	if err != nil {
		return domain.Registro{}, fmt.Errorf("failed to create registro: %w", err)
	}
	return created, nil
}

func (r *registroRepository) GetByID(ctx context.Context, id int64) (*domain.Registro, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+registroColumns+` FROM ad_inventario_reg WHERE id = $1`, id)
	registro, err := scanRegistro(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get registro: %w", err)
	}
	return &registro, nil
}

func (r *registroRepository) FindDuplicate(ctx context.Context, key map[string]any) (*domain.Registro, error) {
	where, args := naturalKeyPredicate(domain.RegistroNaturalKey, key)
	if where == "" {
		return nil, nil
	}

	row := r.pool.QueryRow(
		ctx,
		`SELECT `+registroColumns+` FROM ad_inventario_reg WHERE `+where+` LIMIT 1`,
		args...,
	)
	registro, err := scanRegistro(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find duplicate registro: %w", err)
	}
	return &registro, nil
}

// naturalKeyPredicate builds a null-aware WHERE clause over the natural-key
// columns. A nil value pins the column to NULL, a set value to equality, so a
// record missing optional key fields only collides with records missing the
// same fields. Column names come from the fixed key list, never from input.
// Returns an empty clause when no key field carries a value at all.
func naturalKeyPredicate(fields []string, key map[string]any) (string, []any) {
	conditions := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	populated := false

	for _, field := range fields {
		value, ok := key[field]
		if !ok {
			continue
		}
		if value == nil {
			conditions = append(conditions, field+" IS NULL")
			continue
		}
		populated = true
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	if !populated {
		return "", nil
	}
	return strings.Join(conditions, " AND "), args
}

func scanRegistro(row pgx.Row) (domain.Registro, error) {
	var (
		registro domain.Registro
		fExtrema pgtype.Date
	)
	err := row.Scan(
		&registro.ID,
		&registro.NCaja,
		&registro.IDInventario,
		&registro.NPaquete,
		&registro.NRegistro,
		&registro.Tomo,
		&registro.RInicial,
		&registro.RFinal,
		&registro.Folios,
		&registro.TDocumental,
		&registro.NDocumento,
		&registro.RSocial,
		&registro.NRuc,
		&fExtrema,
		&registro.CObservaciones,
		&registro.CX1,
		&registro.CX2,
		&registro.CX3,
		&registro.CodUniOrgAct,
		&registro.CodUniOrgAnt,
		&registro.CreatedAt,
		&registro.UpdatedAt,
		&registro.CreatedBy,
		&registro.UpdatedBy,
	)
	if err != nil {
		return domain.Registro{}, err
	}
	if fExtrema.Valid {
		formatted := fExtrema.Time.Format("2006-01-02")
		registro.FExtrema = &formatted
	}
	return registro, nil
}
