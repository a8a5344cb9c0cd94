package inventario

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/acanales/gestor-archivo/internal/auth"
	"github.com/acanales/gestor-archivo/internal/domain"
	"github.com/acanales/gestor-archivo/internal/repository"
)

// Handler accepts new inventory intake records. Creation is reconciled
// against the nombrearchivo+nromemo pair: a match rejects the request and
// echoes the existing record so the operator can review it.
type Handler struct {
	repo repository.InventarioRepository
}

func NewHTTPHandler(repo repository.InventarioRepository) http.Handler {
	return &Handler{repo: repo}
}

type createPayload struct {
	NombreArchivo string  `json:"nombrearchivo"`
	NroMemo       string  `json:"nromemo"`
	NMesa         *string `json:"nmesa"`
	FSubida       *string `json:"f_subida"`
	ObsEstado     *string `json:"obs_estado"`
	Estado        *string `json:"estado"`
	FEstado       *string `json:"f_estado"`
	UsrCreadorID  *int64  `json:"usr_creador_id"`
	UniOrgID      *string `json:"uni_org_id"`
}

type duplicateResponse struct {
	Error         string `json:"error"`
	Details       string `json:"details"`
	DuplicateData struct {
		ID            int64  `json:"id"`
		NombreArchivo string `json:"nombrearchivo"`
		NroMemo       string `json:"nromemo"`
	} `json:"duplicateData"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if payload.NombreArchivo == "" || payload.NroMemo == "" {
		http.Error(w, "nombrearchivo and nromemo are required", http.StatusBadRequest)
		return
	}

	existing, err := h.repo.FindDuplicate(r.Context(), payload.NombreArchivo, payload.NroMemo)
	if err != nil {
		log.Printf("[inventario] duplicate lookup failed: %v", err)
		http.Error(w, "failed to create inventory record", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		resp := duplicateResponse{
			Error: "Registro duplicado encontrado",
			Details: fmt.Sprintf(
				"Ya existe un registro con el mismo nombre de archivo %q y número de memo %q",
				existing.NombreArchivo, existing.NroMemo,
			),
		}
		resp.DuplicateData.ID = existing.ID
		resp.DuplicateData.NombreArchivo = existing.NombreArchivo
		resp.DuplicateData.NroMemo = existing.NroMemo
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	var actor *string
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		actor = &identity.NombreCompleto
	}

	item := domain.Inventario{
		NombreArchivo: payload.NombreArchivo,
		NroMemo:       payload.NroMemo,
		NMesa:         payload.NMesa,
		FSubida:       payload.FSubida,
		ObsEstado:     payload.ObsEstado,
		Estado:        payload.Estado,
		FEstado:       payload.FEstado,
		UsrCreadorID:  payload.UsrCreadorID,
		UniOrgID:      payload.UniOrgID,
	}

	created, err := h.repo.Create(r.Context(), item, actor)
	if err != nil {
		log.Printf("[inventario] create failed: %v", err)
		http.Error(w, "failed to create inventory record", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
