package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/acanales/gestor-archivo/internal/domain"
)

var (
	// ErrImportIO marks uploads that cannot be opened or parsed as a
	// spreadsheet. It is the only failure that aborts a whole session.
	ErrImportIO = errors.New("import file could not be read")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// LogRecorder persists row-level failures for later audit. A nil recorder
// disables persistence; recording errors are logged and ignored because the
// ledger in memory remains the source of truth for the response.
type LogRecorder interface {
	Record(ctx context.Context, entry domain.ImportLogEntry) error
}

// Importer runs import sessions. ArtifactDir is where error artifacts are
// written; it is injected at construction, never derived from globals.
type Importer struct {
	ArtifactDir string
	Logs        LogRecorder
	Now         func() time.Time
	OnProgress  func(processed, total int)
}

// Outcome is the final tally of one import session.
type Outcome struct {
	Success        []any        `json:"success"`
	Errors         []ErrorEntry `json:"errors"`
	ArtifactName   *string      `json:"errorArtifactName"`
	ElapsedSeconds int          `json:"totalTimeSeconds"`
	TotalRows      int          `json:"totalRows"`
}

// Run executes one session: parse the uploaded spreadsheet, drive every row
// through the processor in file order, generate the error artifact when the
// error ledger is non-empty, and report the tally. The uploaded temp file is
// removed on every exit path, parse failures and cancellations included.
func (imp *Importer) Run(ctx context.Context, spec EntitySpec, uploadPath, originalName, actor string) (Outcome, error) {
	defer func() {
		if err := os.Remove(uploadPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[import] failed to remove uploaded file %s: %v", uploadPath, err)
		}
	}()

	now := imp.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	sessionID := uuid.New()

	rows, err := ReadSheet(uploadPath)
	if err != nil {
		return Outcome{}, err
	}

	log.Printf("[import] session %s: %s, %d rows from %s", sessionID, spec.Name, len(rows), originalName)

	processor := NewProcessor(spec, len(rows), imp.OnProgress)
	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			// Caller is gone; partial ledgers are abandoned, rows already
			// persisted stay persisted.
			return Outcome{}, err
		}
		processor.ProcessRow(ctx, i+1, raw, actor)
	}

	outcome := Outcome{
		Success:   processor.Success(),
		Errors:    processor.Errors(),
		TotalRows: len(rows),
	}

	imp.recordFailures(ctx, sessionID, spec.Name, originalName, outcome.Errors)

	if len(outcome.Errors) > 0 {
		if name, ok := GenerateArtifact(imp.ArtifactDir, originalName, spec.Fields, outcome.Errors, now()); ok {
			outcome.ArtifactName = &name
		}
	}

	outcome.ElapsedSeconds = int(now().Sub(start).Round(time.Second) / time.Second)

	log.Printf("[import] session %s finished: %d imported, %d errors, %ds",
		sessionID, len(outcome.Success), len(outcome.Errors), outcome.ElapsedSeconds)

	return outcome, nil
}

func (imp *Importer) recordFailures(ctx context.Context, sessionID uuid.UUID, entity, fileName string, entries []ErrorEntry) {
	if imp.Logs == nil {
		return
	}
	for _, entry := range entries {
		rowNumber := entry.RowNumber
		err := imp.Logs.Record(ctx, domain.ImportLogEntry{
			SessionID:    sessionID,
			Entity:       entity,
			FileName:     fileName,
			RowNumber:    &rowNumber,
			ErrorKind:    string(entry.Kind),
			ErrorMessage: entry.Message,
		})
		if err != nil {
			log.Printf("[import] failed to record import log for row %d: %v", entry.RowNumber, err)
		}
	}
}

// ReadSheet parses the first sheet of an uploaded file into ordered raw rows
// keyed by normalized (lower-case, trimmed) headers. Supports XLSX and CSV;
// anything unreadable wraps ErrImportIO.
func ReadSheet(path string) ([]map[string]string, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportIO, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrImportIO)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx":
		return readXLSX(payload)
	case ".csv":
		return readCSV(payload)
	default:
		return nil, fmt.Errorf("%w: unsupported file format %q", ErrImportIO, ext)
	}
}

func readCSV(payload []byte) ([]map[string]string, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportIO, err)
	}

	return tableToRows(records)
}

func readXLSX(payload []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportIO, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrImportIO)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportIO, err)
	}

	return tableToRows(records)
}

func tableToRows(records [][]string) ([]map[string]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows found in file", ErrImportIO)
	}

	headers := normalizeHeaders(records[0])
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if emptyRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// normalizeHeaders lower-cases and trims header cells once so that field
// lookups never have to try case variants.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, value := range raw {
		headers[i] = strings.ToLower(strings.TrimSpace(value))
	}
	return headers
}

func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
