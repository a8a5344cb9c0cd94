package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/acanales/gestor-archivo/internal/db"
)

// Config is the full application configuration. Paths like the uploads
// directory are injected from here; nothing derives them from globals.
type Config struct {
	Server   ServerConfig
	Database db.Config
	Storage  StorageConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

type StorageConfig struct {
	// UploadsDir holds both uploaded temp files and generated error
	// artifacts. Each session only touches files it created itself.
	UploadsDir string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads config.yaml from configPath with APP_-prefixed environment
// overrides (APP_DATABASE_HOST, APP_AUTH_JWT_SECRET, ...). A missing file is
// fine; a missing JWT secret is not.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr:        ":4000",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Database: db.DefaultConfig(),
		Storage: StorageConfig{
			UploadsDir: "./uploads",
		},
		Auth: AuthConfig{
			TokenTTL: 8 * time.Hour,
		},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.BindEnv("server.addr", "APP_SERVER_ADDR")
	v.BindEnv("database.host", "APP_DATABASE_HOST")
	v.BindEnv("database.port", "APP_DATABASE_PORT")
	v.BindEnv("database.user", "APP_DATABASE_USER")
	v.BindEnv("database.password", "APP_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "APP_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "APP_DATABASE_SSLMODE")
	v.BindEnv("storage.uploads_dir", "APP_STORAGE_UPLOADS_DIR")
	v.BindEnv("auth.jwt_secret", "APP_AUTH_JWT_SECRET")
	v.BindEnv("auth.token_ttl", "APP_AUTH_TOKEN_TTL")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.cors_origins") {
		cfg.Server.CORSOrigins = v.GetStringSlice("server.cors_origins")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("storage.uploads_dir") {
		cfg.Storage.UploadsDir = v.GetString("storage.uploads_dir")
	}
	if v.IsSet("auth.jwt_secret") {
		cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	}
	if v.IsSet("auth.token_ttl") {
		cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	}

	if err := validateSecret(cfg.Auth.JWTSecret); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var insecureSecrets = map[string]bool{
	"changeme": true,
	"secret":   true,
	"password": true,
}

func validateSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("auth.jwt_secret is required (set APP_AUTH_JWT_SECRET)")
	}
	if insecureSecrets[secret] {
		return fmt.Errorf("auth.jwt_secret is too weak, configure a strong secret")
	}
	return nil
}
