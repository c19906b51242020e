package config

import (
	"strings"
	"testing"
)

func TestS3ConfigIsConfigured(t *testing.T) {
	t.Run("empty config is not configured", func(t *testing.T) {
		cfg := S3Config{}
		if cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=false for empty config")
		}
	})

	t.Run("required fields set is configured", func(t *testing.T) {
		cfg := S3Config{
			Endpoint:        "https://s3.example.com",
			Region:          "us-east-1",
			Bucket:          "bucket",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}
		if !cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=true when all required fields are set")
		}
	})
}

func TestS3ConfigMissingRequired(t *testing.T) {
	cfg := S3Config{
		Endpoint: "https://s3.example.com",
		Bucket:   "bucket",
	}
	missing := cfg.MissingRequired()

	want := []string{"S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %d (%v)", len(want), len(missing), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected missing[%d]=%s, got %s", i, want[i], missing[i])
		}
	}
}

func TestS3ConfigDiagnosticsSummaryHidesSecrets(t *testing.T) {
	cfg := S3Config{
		Endpoint:        "https://s3.example.com",
		Region:          "us-east-1",
		Bucket:          "bucket",
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "supersecret",
	}

	summary := cfg.DiagnosticsSummary()
	if strings.Contains(summary, "supersecret") || strings.Contains(summary, "AKIAEXAMPLE") {
		t.Fatalf("summary must not leak credentials: %s", summary)
	}
	if !strings.Contains(summary, "bucket=bucket") {
		t.Fatalf("expected bucket in summary, got: %s", summary)
	}
}
