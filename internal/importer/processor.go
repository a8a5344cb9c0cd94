package importer

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
)

// ErrorKind is the terminal classification of a rejected row.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindDuplicate  ErrorKind = "duplicate"
)

// RecordStore is what the processor needs from a persistence layer: create a
// record from coerced values and look up an existing record by natural key.
// FindDuplicate receives every natural-key field, nil values included, and
// must match them null-aware.
type RecordStore interface {
	Create(ctx context.Context, row map[string]any, actor string) (any, error)
	FindDuplicate(ctx context.Context, key map[string]any) (any, bool, error)
}

// EntitySpec binds one importable entity: its columns, the natural-key subset
// used for duplicate detection, and the store rows are persisted into.
type EntitySpec struct {
	Name       string
	Fields     []FieldSpec
	NaturalKey []string
	Store      RecordStore
}

// ErrorEntry is one rejected row in the error ledger. Field is empty when no
// single column can be blamed (duplicates, store failures).
type ErrorEntry struct {
	RowNumber  int
	Raw        map[string]string
	Kind       ErrorKind
	Field      string
	Message    string
	KeySummary map[string]any
}

// MarshalJSON renders the two wire shapes consumers expect: a plain
// {row, error} object for validation failures and a tagged duplicate object
// carrying the colliding key fields.
func (e ErrorEntry) MarshalJSON() ([]byte, error) {
	if e.Kind == ErrorKindDuplicate {
		data := make(map[string]any, len(e.KeySummary)+1)
		for k, v := range e.KeySummary {
			data[k] = v
		}
		data["row"] = e.Raw
		return json.Marshal(struct {
			Type    string         `json:"type"`
			Data    map[string]any `json:"data"`
			Message string         `json:"message"`
		}{Type: "duplicate", Data: data, Message: e.Message})
	}
	return json.Marshal(struct {
		Row   map[string]string `json:"row"`
		Error string            `json:"error"`
	}{Row: e.Raw, Error: e.Message})
}

// Processor drives rows through coercion, duplicate detection and
// persistence, accumulating the success and error ledgers for one run. It is
// not safe for concurrent use; an import session processes rows sequentially
// so that rows persisted earlier in the run are visible to later duplicate
// checks.
type Processor struct {
	spec      EntitySpec
	success   []any
	errors    []ErrorEntry
	total     int
	processed atomic.Int64
	onAdvance func(processed, total int)
}

// NewProcessor prepares a processor for total rows. onAdvance, when non-nil,
// is invoked after each row reaches a terminal classification.
func NewProcessor(spec EntitySpec, total int, onAdvance func(processed, total int)) *Processor {
	return &Processor{spec: spec, total: total, onAdvance: onAdvance}
}

// ProcessRow classifies one raw row. rowNumber is 1-based over data rows. A
// row always lands in exactly one ledger; errors from the store are captured,
// never propagated, so a single bad row cannot abort the run.
func (p *Processor) ProcessRow(ctx context.Context, rowNumber int, raw map[string]string, actor string) {
	defer p.advance()

	coerced, err := CoerceRow(p.spec.Fields, raw)
	if err != nil {
		entry := ErrorEntry{
			RowNumber: rowNumber,
			Raw:       raw,
			Kind:      ErrorKindValidation,
			Message:   err.Error(),
		}
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			entry.Field = fieldErr.Field
		}
		p.errors = append(p.errors, entry)
		return
	}

	key, populated := p.naturalKey(coerced)
	if populated {
		_, found, err := p.spec.Store.FindDuplicate(ctx, key)
		if err != nil {
			p.errors = append(p.errors, ErrorEntry{
				RowNumber: rowNumber,
				Raw:       raw,
				Kind:      ErrorKindValidation,
				Message:   err.Error(),
			})
			return
		}
		if found {
			p.errors = append(p.errors, ErrorEntry{
				RowNumber:  rowNumber,
				Raw:        raw,
				Kind:       ErrorKindDuplicate,
				Message:    "duplicate record found",
				KeySummary: key,
			})
			return
		}
	}

	created, err := p.spec.Store.Create(ctx, coerced, actor)
	if err != nil {
		p.errors = append(p.errors, ErrorEntry{
			RowNumber: rowNumber,
			Raw:       raw,
			Kind:      ErrorKindValidation,
			Message:   err.Error(),
		})
		return
	}

	p.success = append(p.success, created)
}

// naturalKey extracts every natural-key field from the coerced row, nil
// values included so the store can match them null-aware. A row with no key
// field populated at all reports not-populated and skips duplicate detection
// rather than matching arbitrary records.
func (p *Processor) naturalKey(coerced map[string]any) (map[string]any, bool) {
	if len(p.spec.NaturalKey) == 0 {
		return nil, false
	}
	key := make(map[string]any, len(p.spec.NaturalKey))
	populated := false
	for _, field := range p.spec.NaturalKey {
		value := coerced[field]
		key[field] = value
		if value != nil {
			populated = true
		}
	}
	return key, populated
}

func (p *Processor) advance() {
	done := int(p.processed.Add(1))
	if p.onAdvance != nil {
		p.onAdvance(done, p.total)
	}
}

// Progress reports how many rows have reached a terminal classification.
func (p *Processor) Progress() (processed, total int) {
	return int(p.processed.Load()), p.total
}

// Success returns the ordered ledger of created records.
func (p *Processor) Success() []any { return p.success }

// Errors returns the ordered ledger of rejected rows.
func (p *Processor) Errors() []ErrorEntry { return p.errors }
