// Package config resolves server settings from defaults, an optional YAML
// file, a .env file and the process environment, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string           `yaml:"port"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	StaticDir      string           `yaml:"static_dir"`
	SeedDemoData   bool             `yaml:"seed_demo_data"`
	RandomSeed     int64            `yaml:"random_seed"` // 0 = seeded from the clock
	RedisURL       string           `yaml:"redis_url"`   // empty = in-process events
	RedisChannel   string           `yaml:"redis_channel"`
	AssemblyAI     AssemblyAIConfig `yaml:"assemblyai"`
}

type AssemblyAIConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	TokenURL     string `yaml:"token_url"`
	StreamingURL string `yaml:"streaming_url"`
	TokenTTLSecs int    `yaml:"token_ttl_seconds"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:         "5000",
		SeedDemoData: true,
		RedisChannel: "supportdesk:events",
		AssemblyAI: AssemblyAIConfig{
			TokenURL:     "https://streaming.assemblyai.com/v3/token",
			StreamingURL: "wss://streaming.assemblyai.com/v3/ws",
			TokenTTLSecs: 60,
		},
	}
}

// Load builds the effective configuration. path may be empty; a named file
// that does not exist is an error. A missing .env file is not.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &c.Port)
	str("STATIC_DIR", &c.StaticDir)
	str("REDIS_URL", &c.RedisURL)
	str("REDIS_CHANNEL", &c.RedisChannel)
	str("ASSEMBLYAI_API_KEY", &c.AssemblyAI.APIKey)
	str("ASSEMBLYAI_BASE_URL", &c.AssemblyAI.BaseURL)
	str("ASSEMBLYAI_TOKEN_URL", &c.AssemblyAI.TokenURL)
	str("ASSEMBLYAI_STREAMING_URL", &c.AssemblyAI.StreamingURL)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	if v, ok := lookup("SEED_DEMO_DATA"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_DEMO_DATA: %w", err)
		}
		c.SeedDemoData = b
	}
	if v, ok := lookup("RANDOM_SEED"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("RANDOM_SEED: %w", err)
		}
		c.RandomSeed = n
	}
	if v, ok := lookup("TRANSCRIPTION_TOKEN_TTL"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRANSCRIPTION_TOKEN_TTL: %w", err)
		}
		c.AssemblyAI.TokenTTLSecs = n
	}
	return nil
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.AssemblyAI.TokenTTLSecs <= 0 {
		return fmt.Errorf("token_ttl_seconds must be positive, got %d", c.AssemblyAI.TokenTTLSecs)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
