package files

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/acanales/gestor-archivo/internal/importer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Delivery serves generated error artifacts for download. Only names matching
// the generated-artifact convention ever reach the filesystem; everything
// else is refused before a path is built. RemoveAfterSend makes downloads
// one-shot, which is the policy for error artifacts: once the operator has
// the file the server copy is garbage.
type Delivery struct {
	Dir             string
	RemoveAfterSend bool
}

// NewDelivery builds a delivery handler rooted at dir.
func NewDelivery(dir string, removeAfterSend bool) *Delivery {
	return &Delivery{Dir: dir, RemoveAfterSend: removeAfterSend}
}

func (d *Delivery) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := chi.URLParam(r, "filename")
	if filename == "" {
		writeJSONError(w, http.StatusBadRequest, "filename is required")
		return
	}
	if filename != filepath.Base(filename) {
		writeJSONError(w, http.StatusBadRequest, "invalid filename")
		return
	}
	if !importer.ValidArtifactName(filename) {
		writeJSONError(w, http.StatusForbidden, "access denied")
		return
	}

	path := filepath.Join(d.Dir, filename)
	info, err := os.Stat(path)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "file not found")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	w.Header().Set("Cache-Control", "no-cache")

	if _, err := io.Copy(w, f); err != nil {
		// Headers already sent; nothing to do but keep the file for a retry.
		log.Printf("[files] failed to stream %s: %v", filename, err)
		return
	}

	if d.RemoveAfterSend {
		if err := os.Remove(path); err != nil {
			log.Printf("[files] failed to remove %s after download: %v", filename, err)
		}
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
