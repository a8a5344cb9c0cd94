package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/acanales/gestor-archivo/internal/domain"
)

func writeWorkbook(t *testing.T, dir string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(dir, "upload.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

type memLog struct {
	entries []domain.ImportLogEntry
}

func (l *memLog) Record(_ context.Context, entry domain.ImportLogEntry) error {
	l.entries = append(l.entries, entry)
	return nil
}

func TestImporterRun(t *testing.T) {
	dir := t.TempDir()
	upload := writeWorkbook(t, dir, [][]any{
		{"N_CAJA", "n_registro", "r_social"},
		{1, 10, "Uno"},
		{"abc", 11, "Dos"},
		{2, 12, "Tres"},
	})

	store := &memStore{}
	spec := testSpec(store)
	logs := &memLog{}
	imp := &Importer{ArtifactDir: dir, Logs: logs}

	outcome, err := imp.Run(context.Background(), spec, upload, "cajas.xlsx", "tester")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if outcome.TotalRows != 3 {
		t.Errorf("expected 3 data rows, got %d", outcome.TotalRows)
	}
	if len(outcome.Success) != 2 || len(outcome.Errors) != 1 {
		t.Fatalf("expected 2 successes and 1 error, got %d and %d",
			len(outcome.Success), len(outcome.Errors))
	}

	if outcome.ArtifactName == nil {
		t.Fatal("expected an error artifact")
	}
	if _, err := os.Stat(filepath.Join(dir, *outcome.ArtifactName)); err != nil {
		t.Errorf("artifact not written: %v", err)
	}

	if _, err := os.Stat(upload); !os.IsNotExist(err) {
		t.Errorf("uploaded temp file must be removed, stat err = %v", err)
	}

	if len(logs.entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs.entries))
	}
	entry := logs.entries[0]
	if entry.Entity != "registros" || entry.FileName != "cajas.xlsx" {
		t.Errorf("unexpected log entry: %+v", entry)
	}
	if entry.RowNumber == nil || *entry.RowNumber != 2 {
		t.Errorf("expected row number 2 in log, got %v", entry.RowNumber)
	}
	if entry.SessionID == uuid.Nil {
		t.Error("expected a session id")
	}
}

func TestImporterRunCleanOutcomeHasNoArtifact(t *testing.T) {
	dir := t.TempDir()
	upload := writeWorkbook(t, dir, [][]any{
		{"n_caja"},
		{1},
		{2},
	})

	store := &memStore{}
	imp := &Importer{ArtifactDir: dir}

	outcome, err := imp.Run(context.Background(), testSpec(store), upload, "cajas.xlsx", "tester")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if outcome.ArtifactName != nil {
		t.Errorf("clean run must not generate an artifact, got %q", *outcome.ArtifactName)
	}
}

func TestImporterRunUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	upload := filepath.Join(dir, "garbage.xlsx")
	if err := os.WriteFile(upload, []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}

	imp := &Importer{ArtifactDir: dir}
	_, err := imp.Run(context.Background(), testSpec(&memStore{}), upload, "garbage.xlsx", "tester")
	if !errors.Is(err, ErrImportIO) {
		t.Fatalf("expected ErrImportIO, got %v", err)
	}

	if _, err := os.Stat(upload); !os.IsNotExist(err) {
		t.Errorf("uploaded temp file must be removed on parse failure, stat err = %v", err)
	}
}

func TestImporterRunCancellation(t *testing.T) {
	dir := t.TempDir()
	upload := writeWorkbook(t, dir, [][]any{
		{"n_caja"},
		{1},
		{2},
		{3},
	})

	ctx, cancel := context.WithCancel(context.Background())
	store := &memStore{}
	spec := testSpec(store)

	imp := &Importer{
		ArtifactDir: dir,
		OnProgress: func(processed, _ int) {
			if processed == 1 {
				cancel()
			}
		},
	}

	_, err := imp.Run(ctx, spec, upload, "cajas.xlsx", "tester")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The first row was persisted before cancellation and stays persisted.
	if len(store.rows) != 1 {
		t.Errorf("expected exactly 1 persisted row, got %d", len(store.rows))
	}
	if _, err := os.Stat(upload); !os.IsNotExist(err) {
		t.Errorf("uploaded temp file must be removed on cancellation, stat err = %v", err)
	}
}

func TestReadSheetCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	payload := "\xEF\xBB\xBFN_Caja,Anaquel\n1,2\n\n3,4\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadSheet(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (blank line skipped), got %d", len(rows))
	}
	if rows[0]["n_caja"] != "1" || rows[0]["anaquel"] != "2" {
		t.Errorf("headers must be normalized to lower case: %v", rows[0])
	}
}

func TestReadSheetEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSheet(path); !errors.Is(err, ErrImportIO) {
		t.Fatalf("expected ErrImportIO, got %v", err)
	}
}
