package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/acanales/gestor-archivo/internal/domain"
)

// LoginHandler exposes the login service as a POST endpoint.
type LoginHandler struct {
	service *Service
}

// NewLoginHandler wraps the service.
func NewLoginHandler(service *Service) http.Handler {
	return &LoginHandler{service: service}
}

type loginPayload struct {
	NombreCompleto string `json:"nombre_completo"`
	Password       string `json:"password"`
}

type loginResponse struct {
	Usuario domain.Usuario `json:"usuario"`
	Token   string         `json:"token"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	usuario, token, err := h.service.Login(r.Context(), payload.NombreCompleto, payload.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		log.Printf("[auth] login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(loginResponse{Usuario: usuario, Token: token})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
