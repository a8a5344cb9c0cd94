package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acanales/gestor-archivo/internal/auth"
)

const maxUploadBytes = 100 << 20

// Handler exposes one entity's import pipeline as a multipart POST endpoint.
// The request stays open for the whole run, which for large files can be
// hours; cancellation arrives through the request context.
type Handler struct {
	importer   *Importer
	spec       EntitySpec
	uploadsDir string
}

// NewHTTPHandler wraps the importer with an upload endpoint for spec.
func NewHTTPHandler(imp *Importer, spec EntitySpec, uploadsDir string) http.Handler {
	return &Handler{importer: imp, spec: spec, uploadsDir: uploadsDir}
}

type importResponse struct {
	Message string `json:"message"`
	Results struct {
		Success []any        `json:"success"`
		Errors  []ErrorEntry `json:"errors"`
	} `json:"results"`
	ErrorArtifactName *string `json:"errorArtifactName"`
	TotalTimeSeconds  int     `json:"totalTimeSeconds"`
	TotalRows         int     `json:"totalRows"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".csv" {
		http.Error(w, fmt.Sprintf("unsupported file format %q", ext), http.StatusBadRequest)
		return
	}

	uploadPath, err := h.saveUpload(file, ext)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to store upload: %v", err), http.StatusInternalServerError)
		return
	}

	actor := ""
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		actor = identity.NombreCompleto
	}

	outcome, err := h.importer.Run(r.Context(), h.spec, uploadPath, header.Filename, actor)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Caller aborted; nothing left to answer.
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, ErrImportIO) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	resp := importResponse{
		Message: fmt.Sprintf("import completed: %d records imported, %d errors",
			len(outcome.Success), len(outcome.Errors)),
		ErrorArtifactName: outcome.ArtifactName,
		TotalTimeSeconds:  outcome.ElapsedSeconds,
		TotalRows:         outcome.TotalRows,
	}
	resp.Results.Success = outcome.Success
	resp.Results.Errors = outcome.Errors
	if resp.Results.Success == nil {
		resp.Results.Success = []any{}
	}
	if resp.Results.Errors == nil {
		resp.Results.Errors = []ErrorEntry{}
	}

	writeJSON(w, http.StatusOK, resp)
}

// saveUpload spools the multipart file into the uploads directory under a
// collision-free name so concurrent sessions never share a path.
func (h *Handler) saveUpload(file io.Reader, ext string) (string, error) {
	name := fmt.Sprintf("file-%d%s", time.Now().UnixNano(), ext)
	path := filepath.Join(h.uploadsDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
