package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != "5000" {
		t.Errorf("Port: got %q, want 5000", cfg.Port)
	}
	if !cfg.SeedDemoData {
		t.Error("SeedDemoData should default to true")
	}
	if cfg.AssemblyAI.TokenTTLSecs != 60 {
		t.Errorf("TokenTTLSecs: got %d, want 60", cfg.AssemblyAI.TokenTTLSecs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":                    "8088",
		"ASSEMBLYAI_API_KEY":      "k-123",
		"REDIS_URL":               "redis://localhost:6379/2",
		"ALLOWED_ORIGINS":         "http://a.test, http://b.test ,",
		"SEED_DEMO_DATA":          "false",
		"RANDOM_SEED":             "42",
		"TRANSCRIPTION_TOKEN_TTL": "120",
		"STATIC_DIR":              "",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Port != "8088" || cfg.AssemblyAI.APIKey != "k-123" || cfg.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("string overrides not applied: %+v", cfg)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins: got %v, want %v", cfg.AllowedOrigins, want)
	}
	if cfg.SeedDemoData {
		t.Error("SeedDemoData: got true, want false")
	}
	if cfg.RandomSeed != 42 || cfg.AssemblyAI.TokenTTLSecs != 120 {
		t.Errorf("numeric overrides: seed %d ttl %d", cfg.RandomSeed, cfg.AssemblyAI.TokenTTLSecs)
	}
	if cfg.StaticDir != "" {
		t.Errorf("empty env value should not override, got %q", cfg.StaticDir)
	}
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	for _, key := range []string{"SEED_DEMO_DATA", "RANDOM_SEED", "TRANSCRIPTION_TOKEN_TTL"} {
		cfg := DefaultConfig()
		if err := cfg.ApplyEnv(envMap(map[string]string{key: "nope"})); err == nil {
			t.Errorf("%s=nope: expected error", key)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = "http"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-numeric port")
	}

	cfg = DefaultConfig()
	cfg.AssemblyAI.TokenTTLSecs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero token ttl")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "supportdesk.yaml")
	yamlText := `port: "7001"
seed_demo_data: false
allowed_origins:
  - http://dashboard.test
assemblyai:
  token_ttl_seconds: 30
`
	if err := os.WriteFile(path, []byte(yamlText), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7001" {
		t.Errorf("Port: got %q, want 7001", cfg.Port)
	}
	if cfg.SeedDemoData {
		t.Error("SeedDemoData: got true, want false")
	}
	if cfg.AssemblyAI.TokenTTLSecs != 30 {
		t.Errorf("TokenTTLSecs: got %d, want 30", cfg.AssemblyAI.TokenTTLSecs)
	}
	if cfg.AssemblyAI.StreamingURL == "" {
		t.Error("defaults not kept for keys absent from the file")
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "c.yaml")
	if err := os.WriteFile(path, []byte("port: \"7001\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "7002")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7002" {
		t.Errorf("Port: got %q, want 7002", cfg.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [unterminated"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
