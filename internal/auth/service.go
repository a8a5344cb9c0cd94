package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/acanales/gestor-archivo/internal/domain"
	"github.com/acanales/gestor-archivo/internal/repository"
)

// ErrBadCredentials covers both unknown operators and wrong passwords so the
// response never reveals which one it was.
var ErrBadCredentials = errors.New("invalid username or password")

// Service authenticates operators against the account store.
type Service struct {
	users  repository.UsuarioRepository
	issuer *Issuer
}

// NewService wires the login service.
func NewService(users repository.UsuarioRepository, issuer *Issuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Login verifies the operator's password and mints a bearer token. Accounts
// that still store a plaintext password are migrated to bcrypt on the first
// successful login.
func (s *Service) Login(ctx context.Context, nombreCompleto, password string) (domain.Usuario, string, error) {
	if strings.TrimSpace(nombreCompleto) == "" || password == "" {
		return domain.Usuario{}, "", ErrBadCredentials
	}

	usuario, err := s.users.FindByNombre(ctx, nombreCompleto)
	if err != nil {
		return domain.Usuario{}, "", err
	}
	if usuario == nil {
		return domain.Usuario{}, "", ErrBadCredentials
	}

	stored := strings.TrimSpace(usuario.Password)
	valid := false
	if isBcryptHash(stored) {
		valid = bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	} else if stored != "" && stored == password {
		valid = true
		s.migratePassword(ctx, usuario.ID, password)
	}

	if !valid {
		return domain.Usuario{}, "", ErrBadCredentials
	}

	token, err := s.issuer.Issue(Identity{ID: usuario.ID, NombreCompleto: usuario.NombreCompleto})
	if err != nil {
		return domain.Usuario{}, "", err
	}

	usuario.Password = ""
	return *usuario, token, nil
}

func (s *Service) migratePassword(ctx context.Context, userID int64, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[auth] failed to hash legacy password for user %d: %v", userID, err)
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hashed)); err != nil {
		log.Printf("[auth] failed to migrate legacy password for user %d: %v", userID, err)
	}
}

func isBcryptHash(value string) bool {
	return strings.HasPrefix(value, "$2")
}
