package importer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestArtifactName(t *testing.T) {
	at := time.Date(2024, 6, 1, 14, 30, 5, 0, time.UTC)

	cases := []struct {
		in   string
		want string
	}{
		{"cajas.xlsx", "cajas_errores_2024-06-01T14-30-05.xlsx"},
		{"registros.CSV", "registros_errores_2024-06-01T14-30-05.xlsx"},
		{"plain", "plain_errores_2024-06-01T14-30-05.xlsx"},
		{"dir/nested.xlsx", "nested_errores_2024-06-01T14-30-05.xlsx"},
	}

	for _, tc := range cases {
		if got := ArtifactName(tc.in, at); got != tc.want {
			t.Errorf("ArtifactName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidArtifactName(t *testing.T) {
	valid := ArtifactName("cajas.xlsx", time.Now())
	if !ValidArtifactName(valid) {
		t.Errorf("generated name %q should validate", valid)
	}

	invalid := []string{
		"",
		"cajas.xlsx",
		"../cajas_errores_2024-06-01T14-30-05.xlsx",
		"a/b_errores_2024-06-01T14-30-05.xlsx",
		"cajas_errores_2024-06-01.xlsx",
		"cajas_errores_2024-06-01T14-30-05.pdf",
	}
	for _, name := range invalid {
		if ValidArtifactName(name) {
			t.Errorf("%q should be rejected", name)
		}
	}
}

func TestGenerateArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fields := []FieldSpec{
		{Name: "n_caja", Kind: FieldRequiredInteger},
		{Name: "r_social", Kind: FieldOptionalString},
	}
	entries := []ErrorEntry{
		{
			RowNumber: 3,
			Raw:       map[string]string{"n_caja": "abc", "r_social": "ACME"},
			Kind:      ErrorKindValidation,
			Field:     "n_caja",
			Message:   "field 'n_caja' must be a valid number",
		},
		{
			RowNumber:  7,
			Raw:        map[string]string{"r_social": "Beta"},
			Kind:       ErrorKindDuplicate,
			Message:    "duplicate record found",
			KeySummary: map[string]any{"n_caja": int64(9)},
		},
	}

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	name, ok := GenerateArtifact(dir, "import.xlsx", fields, entries, at)
	if !ok {
		t.Fatal("expected artifact to be generated")
	}
	if !ValidArtifactName(name) {
		t.Fatalf("generated artifact name %q does not validate", name)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to reopen artifact: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Errores")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 entries, got %d rows", len(rows))
	}

	header := rows[0]
	if header[0] != "fila_original" || header[1] != "n_caja" {
		t.Errorf("unexpected header: %v", header)
	}
	last := header[len(header)-1]
	if last != "mensaje_de_error" {
		t.Errorf("expected mensaje_de_error as final column, got %q", last)
	}

	if rows[1][0] != "3" {
		t.Errorf("expected original row number 3, got %q", rows[1][0])
	}
	if rows[1][1] != "abc" {
		t.Errorf("expected verbatim raw cell, got %q", rows[1][1])
	}

	// Duplicate entry falls back to the key summary for missing raw cells.
	if rows[2][1] != "9" {
		t.Errorf("expected key summary fallback 9, got %q", rows[2][1])
	}
}

func TestGenerateArtifactEmptyLedger(t *testing.T) {
	if name, ok := GenerateArtifact(t.TempDir(), "import.xlsx", nil, nil, time.Now()); ok {
		t.Fatalf("no entries must produce no artifact, got %q", name)
	}
}
