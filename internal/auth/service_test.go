package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/acanales/gestor-archivo/internal/domain"
)

type stubUserRepo struct {
	usuario     *domain.Usuario
	findErr     error
	updatedHash string
	updatedID   int64
}

func (r *stubUserRepo) FindByNombre(_ context.Context, _ string) (*domain.Usuario, error) {
	return r.usuario, r.findErr
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	r.updatedID = id
	r.updatedHash = hash
	return nil
}

func TestLoginWithBcryptPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo := &stubUserRepo{usuario: &domain.Usuario{ID: 1, NombreCompleto: "Ana Torres", Password: string(hash)}}
	svc := NewService(repo, NewIssuer("test-secret", time.Hour))

	usuario, token, err := svc.Login(context.Background(), "Ana Torres", "secreto")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if usuario.Password != "" {
		t.Error("password must not leak through the response")
	}
	if repo.updatedHash != "" {
		t.Error("bcrypt accounts must not be re-migrated")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	repo := &stubUserRepo{usuario: &domain.Usuario{ID: 1, NombreCompleto: "Ana Torres", Password: string(hash)}}
	svc := NewService(repo, NewIssuer("test-secret", time.Hour))

	_, _, err := svc.Login(context.Background(), "Ana Torres", "otra")
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewService(&stubUserRepo{}, NewIssuer("test-secret", time.Hour))
	_, _, err := svc.Login(context.Background(), "Nadie", "x")
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestLoginMigratesPlaintextPassword(t *testing.T) {
	repo := &stubUserRepo{usuario: &domain.Usuario{ID: 7, NombreCompleto: "Luis Paz", Password: " secreto "}}
	svc := NewService(repo, NewIssuer("test-secret", time.Hour))

	_, token, err := svc.Login(context.Background(), "Luis Paz", "secreto")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	if repo.updatedID != 7 || repo.updatedHash == "" {
		t.Fatal("expected legacy password to be migrated")
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.updatedHash), []byte("secreto")) != nil {
		t.Error("migrated hash must verify the original password")
	}
}

func TestLoginEmptyInputs(t *testing.T) {
	svc := NewService(&stubUserRepo{}, NewIssuer("test-secret", time.Hour))
	if _, _, err := svc.Login(context.Background(), "  ", "x"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("blank name must be rejected, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "Ana", ""); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("empty password must be rejected, got %v", err)
	}
}
