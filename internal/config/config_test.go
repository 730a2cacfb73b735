package config

import (
	"strings"
	"testing"
)

func TestNormalizeConnectionString(t *testing.T) {
	raw := "Host=localhost;Port=5432;Database=transaction_service_db;Username=postgres;Password=secret;Timeout=30;CommandTimeout=30"

	normalized := NormalizeConnectionString(raw)

	for _, expected := range []string{
		"host=localhost",
		"port=5432",
		"dbname=transaction_service_db",
		"user=postgres",
		"password=secret",
		"connect_timeout=30",
		"statement_timeout=30s",
		"sslmode=disable",
	} {
		if !strings.Contains(normalized, expected) {
			t.Fatalf("expected normalized DSN to contain %q, got %q", expected, normalized)
		}
	}
}

func TestNormalizeConnectionStringKeepsExplicitSSLMode(t *testing.T) {
	normalized := NormalizeConnectionString("Host=db;Database=ledger;SSLMode=require")

	if !strings.Contains(normalized, "sslmode=require") {
		t.Fatalf("expected explicit sslmode to survive, got %q", normalized)
	}
	if strings.Contains(normalized, "sslmode=disable") {
		t.Fatalf("sslmode=disable must not be appended, got %q", normalized)
	}
}

func TestLoadParsesHighValueThreshold(t *testing.T) {
	t.Setenv("HIGH_VALUE_THRESHOLD", "250000.50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HighValueThreshold.String() != "250000.5" {
		t.Fatalf("expected threshold 250000.5, got %s", cfg.HighValueThreshold)
	}
}

func TestLoadRejectsInvalidHighValueThreshold(t *testing.T) {
	t.Setenv("HIGH_VALUE_THRESHOLD", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid HIGH_VALUE_THRESHOLD")
	}
}
