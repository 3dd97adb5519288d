package config

import (
	"testing"
	"time"
)

type sampleConfig struct {
	Port    string        `env:"PORT" envDefault:"4000"`
	TTL     time.Duration `env:"TTL" envDefault:"5m"`
	Origins []string      `env:"ORIGINS" envSeparator:","`
	Hour    int           `env:"HOUR" envDefault:"3"`
}

func TestParseEnvWithDefaults(t *testing.T) {
	var cfg sampleConfig
	if err := ParseEnvWith(&cfg, map[string]string{}); err != nil {
		t.Fatalf("ParseEnvWith: %v", err)
	}
	if cfg.Port != "4000" || cfg.TTL != 5*time.Minute || cfg.Hour != 3 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseEnvWithOverrides(t *testing.T) {
	var cfg sampleConfig
	err := ParseEnvWith(&cfg, map[string]string{
		"PORT":    "8080",
		"TTL":     "90s",
		"ORIGINS": "http://a.test,http://b.test",
	})
	if err != nil {
		t.Fatalf("ParseEnvWith: %v", err)
	}
	if cfg.Port != "8080" || cfg.TTL != 90*time.Second {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.Origins)
	}
}

func TestParseEnvWithRejectsBadValue(t *testing.T) {
	var cfg sampleConfig
	if err := ParseEnvWith(&cfg, map[string]string{"HOUR": "three"}); err == nil {
		t.Fatalf("expected parse error for non-numeric HOUR")
	}
}
