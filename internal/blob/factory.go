package blob

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appcfg "github.com/trailmeals/server/internal/config"
)

// NewBlobStore builds a blob store using mode local|s3|auto. Local mode
// returns a nil store; callers keep export data inline instead.
func NewBlobStore(cfg appcfg.BlobConfig, log zerolog.Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		log.Info().Msg("blob: mode=local (forced)")
		return nil, appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			log.Info().Str("s3", cfg.S3.DiagnosticsSummary()).Msg("blob: mode=local (auto, S3 not configured)")
			return nil, appcfg.BlobModeLocal, nil
		}

		store, err := NewS3Store(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		if err != nil {
			log.Warn().Err(err).Msg("blob: s3 init failed, fallback to local")
			return nil, appcfg.BlobModeLocal, nil
		}

		log.Info().Msg("blob: mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			log.Error().Strs("missing", missing).Str("s3", cfg.S3.DiagnosticsSummary()).Msg("blob: s3 config incomplete")
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		store, err := NewS3Store(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		if err != nil {
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		log.Info().Msg("blob: mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}
