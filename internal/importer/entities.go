package importer

import (
	"context"

	"github.com/acanales/gestor-archivo/internal/domain"
	"github.com/acanales/gestor-archivo/internal/repository"
)

// CajaSpec binds the boxes entity to its repository. Every column of a box is
// required; the identifier alone is the natural key.
func CajaSpec(repo repository.CajaRepository) EntitySpec {
	return EntitySpec{
		Name: "cajas",
		Fields: []FieldSpec{
			{Name: "id", Kind: FieldRequiredInteger},
			{Name: "anaquel", Kind: FieldRequiredInteger},
			{Name: "cuerpo", Kind: FieldRequiredInteger},
			{Name: "nivel", Kind: FieldRequiredString},
			{Name: "fila", Kind: FieldRequiredString},
			{Name: "posicion", Kind: FieldRequiredInteger},
			{Name: "f_creacion", Kind: FieldRequiredDate},
			{Name: "z_ubicacion", Kind: FieldRequiredString},
			{Name: "locacion", Kind: FieldRequiredString},
		},
		NaturalKey: []string{"id"},
		Store:      &cajaStore{repo: repo},
	}
}

// RegistroSpec binds the document-registry entity to its repository. Only the
// box number and the current organizational-unit code are mandatory; the
// natural key is the original eight-field composite.
func RegistroSpec(repo repository.RegistroRepository) EntitySpec {
	return EntitySpec{
		Name: "registros",
		Fields: []FieldSpec{
			{Name: "n_caja", Kind: FieldRequiredInteger},
			{Name: "id_inventario", Kind: FieldOptionalInteger},
			{Name: "n_paquete", Kind: FieldOptionalInteger},
			{Name: "n_registro", Kind: FieldOptionalInteger},
			{Name: "tomo", Kind: FieldOptionalInteger},
			{Name: "r_inicial", Kind: FieldOptionalInteger},
			{Name: "r_final", Kind: FieldOptionalInteger},
			{Name: "folios", Kind: FieldOptionalInteger},
			{Name: "t_documental", Kind: FieldOptionalString},
			{Name: "n_documento", Kind: FieldOptionalString},
			{Name: "r_social", Kind: FieldOptionalString},
			{Name: "n_ruc", Kind: FieldOptionalInteger},
			{Name: "f_extrema", Kind: FieldOptionalDate},
			{Name: "c_observaciones", Kind: FieldOptionalString},
			{Name: "c_x1", Kind: FieldOptionalString},
			{Name: "c_x2", Kind: FieldOptionalString},
			{Name: "c_x3", Kind: FieldOptionalString},
			{Name: "cod_uni_org_act", Kind: FieldRequiredString},
			{Name: "cod_uni_org_ant", Kind: FieldOptionalString},
		},
		NaturalKey: domain.RegistroNaturalKey,
		Store:      &registroStore{repo: repo},
	}
}

type cajaStore struct {
	repo repository.CajaRepository
}

func (s *cajaStore) Create(ctx context.Context, row map[string]any, actor string) (any, error) {
	caja := domain.Caja{
		ID:         intValue(row, "id"),
		Anaquel:    intValue(row, "anaquel"),
		Cuerpo:     intValue(row, "cuerpo"),
		Nivel:      stringValue(row, "nivel"),
		Fila:       stringValue(row, "fila"),
		Posicion:   intValue(row, "posicion"),
		FCreacion:  stringValue(row, "f_creacion"),
		ZUbicacion: stringValue(row, "z_ubicacion"),
		Locacion:   stringValue(row, "locacion"),
	}
	return s.repo.Create(ctx, caja, actorPtr(actor))
}

func (s *cajaStore) FindDuplicate(ctx context.Context, key map[string]any) (any, bool, error) {
	existing, err := s.repo.FindDuplicate(ctx, intValue(key, "id"))
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}
	return existing, true, nil
}

type registroStore struct {
	repo repository.RegistroRepository
}

func (s *registroStore) Create(ctx context.Context, row map[string]any, actor string) (any, error) {
	registro := domain.Registro{
		NCaja:          intValue(row, "n_caja"),
		IDInventario:   optIntValue(row, "id_inventario"),
		NPaquete:       optIntValue(row, "n_paquete"),
		NRegistro:      optIntValue(row, "n_registro"),
		Tomo:           optIntValue(row, "tomo"),
		RInicial:       optIntValue(row, "r_inicial"),
		RFinal:         optIntValue(row, "r_final"),
		Folios:         optIntValue(row, "folios"),
		TDocumental:    optStringValue(row, "t_documental"),
		NDocumento:     optStringValue(row, "n_documento"),
		RSocial:        optStringValue(row, "r_social"),
		NRuc:           optIntValue(row, "n_ruc"),
		FExtrema:       optStringValue(row, "f_extrema"),
		CObservaciones: optStringValue(row, "c_observaciones"),
		CX1:            optStringValue(row, "c_x1"),
		CX2:            optStringValue(row, "c_x2"),
		CX3:            optStringValue(row, "c_x3"),
		CodUniOrgAct:   stringValue(row, "cod_uni_org_act"),
		CodUniOrgAnt:   optStringValue(row, "cod_uni_org_ant"),
	}
	return s.repo.Create(ctx, registro, actorPtr(actor))
}

func (s *registroStore) FindDuplicate(ctx context.Context, key map[string]any) (any, bool, error) {
	existing, err := s.repo.FindDuplicate(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}
	return existing, true, nil
}

func intValue(row map[string]any, field string) int64 {
	if n, ok := row[field].(int64); ok {
		return n
	}
	return 0
}

func optIntValue(row map[string]any, field string) *int64 {
	if n, ok := row[field].(int64); ok {
		return &n
	}
	return nil
}

func stringValue(row map[string]any, field string) string {
	if s, ok := row[field].(string); ok {
		return s
	}
	return ""
}

func optStringValue(row map[string]any, field string) *string {
	if s, ok := row[field].(string); ok {
		return &s
	}
	return nil
}

func actorPtr(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}
