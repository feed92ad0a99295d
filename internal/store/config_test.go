package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "demo:\n  user_id: u1\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.PriceSource != "STATIC" {
		t.Errorf("Expected STATIC default, got %s", cfg.PriceSource)
	}
	if cfg.Exchange != "NSE" {
		t.Errorf("Expected NSE default, got %s", cfg.Exchange)
	}
	if cfg.Quote.TimeoutSeconds != 10 {
		t.Errorf("Expected 10s quote timeout, got %d", cfg.Quote.TimeoutSeconds)
	}
	if cfg.Quote.CacheTTLSeconds != 300 {
		t.Errorf("Expected 300s cache TTL, got %d", cfg.Quote.CacheTTLSeconds)
	}
	if cfg.Export.Dir != "exports" {
		t.Errorf("Expected exports dir default, got %s", cfg.Export.Dir)
	}
}

func TestLoadConfigStatic(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
price_source: STATIC
quote:
  static:
    RELIANCE: 2950.75
    TCS: 3600
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Quote.Static["RELIANCE"] != 2950.75 {
		t.Errorf("Expected static quote table, got %v", cfg.Quote.Static)
	}
}

func TestLoadConfigRejectsUnknownSource(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "price_source: ORACLE\n")); err == nil {
		t.Error("Expected unknown price source to be rejected")
	}
}

func TestLoadConfigHTTPRequiresBaseURL(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "price_source: HTTP\n")); err == nil {
		t.Error("Expected HTTP source without base_url to be rejected")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
