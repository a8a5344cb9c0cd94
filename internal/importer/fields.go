package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldKind selects the coercion and requiredness applied to one spreadsheet
// column.
type FieldKind string

const (
	FieldRequiredInteger FieldKind = "required_integer"
	FieldOptionalInteger FieldKind = "optional_integer"
	FieldRequiredString  FieldKind = "required_string"
	FieldOptionalString  FieldKind = "optional_string"
	FieldRequiredDate    FieldKind = "required_date"
	FieldOptionalDate    FieldKind = "optional_date"
)

// FieldSpec describes one column of an importable entity. Name is the
// normalized (lower-case) header the value is looked up under.
type FieldSpec struct {
	Name string
	Kind FieldKind
}

// FieldReason classifies why a field failed coercion or validation. Absence
// and invalidity are distinct on purpose: a cell that was present but
// unparseable must never be reported as a missing field.
type FieldReason string

const (
	ReasonMissing       FieldReason = "missing"
	ReasonInvalidNumber FieldReason = "invalid_number"
	ReasonInvalidDate   FieldReason = "invalid_date"
)

// FieldError carries the offending column and reason as structured values so
// downstream consumers (the error artifact, the JSON response) never have to
// parse them back out of the message.
type FieldError struct {
	Field  string
	Reason FieldReason
}

func (e *FieldError) Error() string {
	switch e.Reason {
	case ReasonInvalidNumber:
		return fmt.Sprintf("field '%s' must be a valid number", e.Field)
	case ReasonInvalidDate:
		return fmt.Sprintf("field '%s' must be a valid date", e.Field)
	default:
		return fmt.Sprintf("field '%s' is required", e.Field)
	}
}

// CoerceRow converts one raw spreadsheet row into typed values following the
// field specs. Values in the result are int64, string (dates normalized to
// YYYY-MM-DD) or nil. The first failing field aborts the row with a
// *FieldError.
func CoerceRow(specs []FieldSpec, raw map[string]string) (map[string]any, error) {
	coerced := make(map[string]any, len(specs))

	for _, spec := range specs {
		value := strings.TrimSpace(raw[spec.Name])

		switch spec.Kind {
		case FieldRequiredInteger, FieldOptionalInteger:
			if value == "" {
				coerced[spec.Name] = nil
				break
			}
			n, ok := parseLeadingInt(value)
			if !ok {
				return nil, &FieldError{Field: spec.Name, Reason: ReasonInvalidNumber}
			}
			coerced[spec.Name] = n

		case FieldRequiredString, FieldOptionalString:
			if value == "" {
				coerced[spec.Name] = nil
				break
			}
			coerced[spec.Name] = value

		case FieldRequiredDate, FieldOptionalDate:
			if value == "" {
				coerced[spec.Name] = nil
				break
			}
			date, ok := ParseFlexibleDate(value)
			if !ok {
				if spec.Kind == FieldRequiredDate {
					return nil, &FieldError{Field: spec.Name, Reason: ReasonInvalidDate}
				}
				coerced[spec.Name] = nil
				break
			}
			coerced[spec.Name] = date

		default:
			return nil, fmt.Errorf("unknown field kind %q for field %s", spec.Kind, spec.Name)
		}
	}

	// Requiredness is checked after coercion so that invalid values fail with
	// their own reason above rather than masquerading as absent.
	for _, spec := range specs {
		switch spec.Kind {
		case FieldRequiredInteger, FieldRequiredString, FieldRequiredDate:
			if coerced[spec.Name] == nil {
				return nil, &FieldError{Field: spec.Name, Reason: ReasonMissing}
			}
		}
	}

	return coerced, nil
}

// parseLeadingInt parses the leading numeric content of a cell, matching how
// operators' spreadsheets encode numbers ("12", "12.0", "0012 "). A value
// with no leading digits at all is invalid rather than absent.
func parseLeadingInt(value string) (int64, bool) {
	rest := value
	sign := int64(1)
	if strings.HasPrefix(rest, "-") {
		sign = -1
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	}

	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(rest[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return sign * n, true
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseFlexibleDate normalizes the three date shapes the source spreadsheets
// contain to YYYY-MM-DD: ISO dates pass through, slash or dash delimited
// 3-part dates default to day-first and flip to month-first only when the
// second component cannot be a month.
func ParseFlexibleDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if isoDatePattern.MatchString(value) {
		return value, true
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == '/' || r == '-'
	})
	if len(parts) != 3 {
		return "", false
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return "", false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if month > 12 && day <= 12 {
		day, month = month, day
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
