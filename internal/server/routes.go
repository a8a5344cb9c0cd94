package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/acanales/gestor-archivo/internal/auth"
	"github.com/acanales/gestor-archivo/internal/files"
	"github.com/acanales/gestor-archivo/internal/importer"
	"github.com/acanales/gestor-archivo/internal/inventario"
	"github.com/acanales/gestor-archivo/internal/middleware"
	"github.com/acanales/gestor-archivo/internal/repository"
)

// Deps carries everything the router needs wired from main.
type Deps struct {
	Issuer      *auth.Issuer
	AuthService *auth.Service
	Importer    *importer.Importer
	Cajas       repository.CajaRepository
	Registros   repository.RegistroRepository
	Inventarios repository.InventarioRepository
	UploadsDir  string
	CORSOrigins []string
}

// NewRouter assembles the HTTP surface: a public login endpoint plus the
// authenticated import, inventory and artifact-download routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggingMiddleware)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})
	r.Use(corsHandler.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodPost, "/api/auth/login", auth.NewLoginHandler(deps.AuthService))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.Issuer))

		r.Method(http.MethodPost, "/api/cajas/import/excel",
			importer.NewHTTPHandler(deps.Importer, importer.CajaSpec(deps.Cajas), deps.UploadsDir))
		r.Method(http.MethodPost, "/api/registros/import/excel",
			importer.NewHTTPHandler(deps.Importer, importer.RegistroSpec(deps.Registros), deps.UploadsDir))

		r.Method(http.MethodPost, "/api/inventario",
			inventario.NewHTTPHandler(deps.Inventarios))

		r.Method(http.MethodGet, "/api/download/{filename}",
			files.NewDelivery(deps.UploadsDir, true))
	})

	return r
}
