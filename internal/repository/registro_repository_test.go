package repository

import (
	"testing"
)

func TestNaturalKeyPredicate(t *testing.T) {
	fields := []string{"n_caja", "n_registro", "n_ruc"}

	where, args := naturalKeyPredicate(fields, map[string]any{
		"n_caja":     int64(5),
		"n_registro": nil,
		"n_ruc":      "20123456789",
	})
	if where != "n_caja = $1 AND n_registro IS NULL AND n_ruc = $2" {
		t.Errorf("unexpected clause: %q", where)
	}
	if len(args) != 2 || args[0] != int64(5) || args[1] != "20123456789" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestNaturalKeyPredicateAllNil(t *testing.T) {
	fields := []string{"n_caja", "n_registro"}

	where, args := naturalKeyPredicate(fields, map[string]any{
		"n_caja":     nil,
		"n_registro": nil,
	})
	if where != "" || args != nil {
		t.Errorf("all-nil key must yield no predicate, got %q %v", where, args)
	}
}

func TestNaturalKeyPredicateSkipsAbsentFields(t *testing.T) {
	fields := []string{"n_caja", "n_registro"}

	where, args := naturalKeyPredicate(fields, map[string]any{
		"n_caja": int64(1),
	})
	if where != "n_caja = $1" {
		t.Errorf("absent field must be skipped, got %q", where)
	}
	if len(args) != 1 {
		t.Errorf("unexpected args: %v", args)
	}
}
