package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acanales/gestor-archivo/internal/auth"
	"github.com/acanales/gestor-archivo/internal/config"
	"github.com/acanales/gestor-archivo/internal/db"
	"github.com/acanales/gestor-archivo/internal/importer"
	"github.com/acanales/gestor-archivo/internal/repository"
	"github.com/acanales/gestor-archivo/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Run migrations before opening the pool
	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := os.MkdirAll(cfg.Storage.UploadsDir, 0o755); err != nil {
		log.Fatalf("Failed to create uploads directory: %v", err)
	}

	// Create repositories
	cajaRepo := repository.NewCajaRepository(conn.Pool)
	registroRepo := repository.NewRegistroRepository(conn.Pool)
	inventarioRepo := repository.NewInventarioRepository(conn.Pool)
	usuarioRepo := repository.NewUsuarioRepository(conn.Pool)
	importLogRepo := repository.NewImportLogRepository(conn.Pool)

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := auth.NewService(usuarioRepo, issuer)

	imp := &importer.Importer{
		ArtifactDir: cfg.Storage.UploadsDir,
		Logs:        importLogRepo,
		OnProgress: func(processed, total int) {
			if processed%50 == 0 || processed == total {
				log.Printf("[import] processed %d/%d rows", processed, total)
			}
		},
	}

	router := server.NewRouter(server.Deps{
		Issuer:      issuer,
		AuthService: authService,
		Importer:    imp,
		Cajas:       cajaRepo,
		Registros:   registroRepo,
		Inventarios: inventarioRepo,
		UploadsDir:  cfg.Storage.UploadsDir,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// No write timeout: import sessions hold the response open for as long
	// as the file takes to process.
	httpServer := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 0,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
