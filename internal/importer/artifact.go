package importer

import (
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const artifactSheet = "Errores"

var artifactNamePattern = regexp.MustCompile(`^[^/\\]+_errores_\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.xlsx$`)

// ValidArtifactName reports whether name matches the generated error-artifact
// convention. The download side must reject anything else before touching the
// filesystem: plain names only, no separators, no traversal.
func ValidArtifactName(name string) bool {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return false
	}
	return artifactNamePattern.MatchString(name)
}

// ArtifactName derives the error-artifact filename from the original upload's
// display name and a timestamp truncated to the second.
func ArtifactName(originalName string, at time.Time) string {
	base := filepath.Base(originalName)
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".xlsx", ".xls", ".csv":
		base = base[:len(base)-len(ext)]
	}
	return fmt.Sprintf("%s_errores_%s.xlsx", base, at.UTC().Format("2006-01-02T15-04-05"))
}

// GenerateArtifact writes the error ledger to an XLSX file in dir so
// operators can correct rejected rows and re-import them. One output row per
// ledger entry: the original row number, the raw domain fields (falling back
// to the duplicate key summary when the raw row lacks a value), the offending
// column, the error kind and the message. The second return is false when no
// artifact was produced; generation failures are logged, never propagated, so
// a broken artifact cannot sink the import response.
func GenerateArtifact(dir, originalName string, fields []FieldSpec, entries []ErrorEntry, at time.Time) (string, bool) {
	if len(entries) == 0 {
		return "", false
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheetIdx, err := f.NewSheet(artifactSheet)
	if err != nil {
		log.Printf("[import] failed to create artifact sheet: %v", err)
		return "", false
	}
	f.SetActiveSheet(sheetIdx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		log.Printf("[import] failed to drop default sheet: %v", err)
		return "", false
	}

	headers := make([]string, 0, len(fields)+4)
	headers = append(headers, "fila_original")
	for _, field := range fields {
		headers = append(headers, field.Name)
	}
	headers = append(headers, "columna_con_error", "tipo_de_error", "mensaje_de_error")

	if err := writeArtifactRow(f, 1, anyValues(headers)); err != nil {
		log.Printf("[import] failed to write artifact header: %v", err)
		return "", false
	}

	for i, entry := range entries {
		row := make([]any, 0, len(headers))
		row = append(row, entry.RowNumber)
		for _, field := range fields {
			row = append(row, artifactCell(entry, field.Name))
		}
		row = append(row, entry.Field, string(entry.Kind), entry.Message)
		if err := writeArtifactRow(f, i+2, row); err != nil {
			log.Printf("[import] failed to write artifact row %d: %v", i+2, err)
			return "", false
		}
	}

	_ = f.SetColWidth(artifactSheet, "A", "A", 12)
	if lastCol, colErr := excelize.ColumnNumberToName(len(headers)); colErr == nil {
		_ = f.SetColWidth(artifactSheet, "B", lastCol, 18)
	}

	name := ArtifactName(originalName, at)
	if err := f.SaveAs(filepath.Join(dir, name)); err != nil {
		log.Printf("[import] failed to save error artifact: %v", err)
		return "", false
	}

	return name, true
}

// artifactCell prefers the verbatim raw cell and falls back to the duplicate
// key summary, which is the only place coerced values survive for rows whose
// raw map did not carry the column.
func artifactCell(entry ErrorEntry, field string) any {
	if value, ok := entry.Raw[field]; ok && value != "" {
		return value
	}
	if value, ok := entry.KeySummary[field]; ok && value != nil {
		return value
	}
	return ""
}

func writeArtifactRow(f *excelize.File, rowNumber int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	return f.SetSheetRow(artifactSheet, cell, &values)
}

func anyValues(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
