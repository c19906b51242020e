package main

import (
	"fmt"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/trailmeals/server/internal/config"
	"github.com/trailmeals/server/internal/dbmigrate"
	"github.com/trailmeals/server/internal/httpserver"
	"github.com/trailmeals/server/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Env, cfg.LogLevel)

	printStartupBanner(cfg, logger)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			logger.Fatal().Err(err).Msg("startup migrations")
		}

		logger.Info().Str("using", source).Msg("startup migrations: command=up")
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			logger.Fatal().Err(err).Msg("startup migrations failed")
		}
		logger.Info().Msg("startup migrations: completed")
	}

	validateProductionConfig(cfg, logger)

	server := httpserver.New(cfg, logger)
	defer server.Close()

	logger.Fatal().Err(server.Start()).Msg("server stopped")
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Secrets are reduced to masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config, logger zerolog.Logger) {
	logger.Info().
		Str("env", cfg.Env).
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Msg("trailmeals api starting")

	logger.Info().
		Str("runtime_url", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)).
		Str("pooled", setOrNot(cfg.DatabaseURLPooled)).
		Str("direct", setOrNot(cfg.DatabaseURLDirect)).
		Bool("migrations_on_startup", cfg.RunMigrationsOnStartup).
		Msg("database")

	logger.Info().
		Str("auth_mode", cfg.AuthMode).
		Bool("auth_required", cfg.AuthRequired).
		Str("jwt_secret", secretStatus(cfg.JWTSecret, "change_me")).
		Msg("auth")

	blobEvent := logger.Info().Str("blob_mode", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeLocal {
		blobEvent = blobEvent.Str("s3", cfg.Blob.S3.DiagnosticsSummary())
	}
	blobEvent.Msg("blob")

	logger.Info().
		Str("catalog_mode", cfg.Catalog.Mode).
		Str("catalog_base_url", cfg.Catalog.BaseURL).
		Str("nutrition_credentials", setOrNot(cfg.Nutrition.AppKey)).
		Msg("catalog")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config, logger zerolog.Logger) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			logger.Fatal().Str("missing", strings.Join(missing, ", ")).Msg("blob: BLOB_MODE=s3 but S3 config is incomplete")
		}
	}

	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		logger.Fatal().Str("env", cfg.Env).Msg("auth: JWT_SECRET must not be 'change_me' with AUTH_REQUIRED=1")
	}

	if isProd && cfg.DatabaseURL == "" {
		logger.Fatal().Str("env", cfg.Env).Msg("db: no DATABASE_URL configured")
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
