package main

import (
	"log/slog"
	"time"
)

type stubConfig struct {
	Port            uint16        `env:"WALLETSTUB_PORT" default:"8235"`
	LogLevel        slog.Level    `env:"WALLETSTUB_LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `env:"WALLETSTUB_SHUTDOWN_TIMEOUT" default:"10s"`
	FeeBps          int64         `env:"WALLETSTUB_FEE_BPS" default:"100"`
}
