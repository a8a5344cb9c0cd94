package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func multipartUpload(t *testing.T, filename, payload string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(payload)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

func TestImportEndpointCSV(t *testing.T) {
	dir := t.TempDir()
	store := &memStore{}
	imp := &Importer{ArtifactDir: dir}
	handler := NewHTTPHandler(imp, testSpec(store), dir)

	body, contentType := multipartUpload(t, "registros.csv",
		"n_caja,n_registro\n1,10\nabc,11\n")
	req := httptest.NewRequest(http.MethodPost, "/api/registros/import/excel", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Results struct {
			Success []json.RawMessage `json:"success"`
			Errors  []json.RawMessage `json:"errors"`
		} `json:"results"`
		ErrorArtifactName *string `json:"errorArtifactName"`
		TotalRows         int     `json:"totalRows"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Results.Success) != 1 || len(resp.Results.Errors) != 1 {
		t.Fatalf("expected 1 success and 1 error, got %d and %d",
			len(resp.Results.Success), len(resp.Results.Errors))
	}
	if resp.TotalRows != 2 {
		t.Errorf("expected 2 total rows, got %d", resp.TotalRows)
	}
	if resp.ErrorArtifactName == nil || !ValidArtifactName(*resp.ErrorArtifactName) {
		t.Errorf("expected a valid artifact name, got %v", resp.ErrorArtifactName)
	}
	if len(store.rows) != 1 {
		t.Errorf("expected 1 persisted row, got %d", len(store.rows))
	}
}

func TestImportEndpointRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	handler := NewHTTPHandler(&Importer{ArtifactDir: dir}, testSpec(&memStore{}), dir)

	body, contentType := multipartUpload(t, "registros.pdf", "whatever")
	req := httptest.NewRequest(http.MethodPost, "/api/registros/import/excel", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportEndpointRejectsMissingFile(t *testing.T) {
	dir := t.TempDir()
	handler := NewHTTPHandler(&Importer{ArtifactDir: dir}, testSpec(&memStore{}), dir)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("other", "value")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/registros/import/excel", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportEndpointUnreadableUpload(t *testing.T) {
	dir := t.TempDir()
	handler := NewHTTPHandler(&Importer{ArtifactDir: dir}, testSpec(&memStore{}), dir)

	body, contentType := multipartUpload(t, "broken.xlsx", "not a workbook")
	req := httptest.NewRequest(http.MethodPost, "/api/registros/import/excel", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unreadable uploads answer 400, got %d", rec.Code)
	}
}
