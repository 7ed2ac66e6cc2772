package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type nested struct {
	Rate int64 `env:"ENVCONF_TEST_RATE" default:"100"`
}

type testConfig struct {
	Port     uint16        `env:"ENVCONF_TEST_PORT" default:"8235"`
	Name     string        `env:"ENVCONF_TEST_NAME" default:"stub"`
	Timeout  time.Duration `env:"ENVCONF_TEST_TIMEOUT" default:"10s"`
	Debug    bool          `env:"ENVCONF_TEST_DEBUG" default:"false"`
	LogLevel slog.Level    `env:"ENVCONF_TEST_LOG_LEVEL" default:"info"`
	Nested   nested
}

//nolint:paralleltest // t.Setenv forbids parallel subtests
func TestLoad_DefaultsApply(t *testing.T) {
	var cfg testConfig

	err := Load(&cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8235 {
		t.Fatalf("port: want 8235, got %d", cfg.Port)
	}

	if cfg.Timeout != 10*time.Second {
		t.Fatalf("timeout: want 10s, got %s", cfg.Timeout)
	}

	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("log level: want info, got %s", cfg.LogLevel)
	}

	if cfg.Nested.Rate != 100 {
		t.Fatalf("nested rate: want 100, got %d", cfg.Nested.Rate)
	}
}

//nolint:paralleltest
func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("ENVCONF_TEST_PORT", "9000")
	t.Setenv("ENVCONF_TEST_TIMEOUT", "2m")
	t.Setenv("ENVCONF_TEST_LOG_LEVEL", "warn")

	var cfg testConfig

	err := Load(&cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 9000 {
		t.Fatalf("port: want 9000, got %d", cfg.Port)
	}

	if cfg.Timeout != 2*time.Minute {
		t.Fatalf("timeout: want 2m, got %s", cfg.Timeout)
	}

	if cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("log level: want warn, got %s", cfg.LogLevel)
	}
}

//nolint:paralleltest
func TestLoad_MissingRequired(t *testing.T) {
	type required struct {
		Token string `env:"ENVCONF_TEST_ABSENT_TOKEN"`
	}

	var cfg required

	err := Load(&cfg)
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("expected ErrMissingRequired, got %v", err)
	}
}

//nolint:paralleltest
func TestLoad_BadValue(t *testing.T) {
	t.Setenv("ENVCONF_TEST_PORT", "not-a-port")

	var cfg testConfig

	err := Load(&cfg)
	if err == nil {
		t.Fatalf("expected parse error, got nil")
	}
}

func TestLoad_NonStructDestination(t *testing.T) {
	t.Parallel()

	err := Load(nil)
	if err == nil {
		t.Fatalf("expected error for nil destination")
	}

	var n int

	err = Load(&n)
	if err == nil {
		t.Fatalf("expected error for non-struct destination")
	}
}
