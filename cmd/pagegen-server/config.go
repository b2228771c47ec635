package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const envPrefix = "PAGEGEN_"

type config struct {
	Addr            string
	CatalogDir      string
	ManifestDir     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

func defaultConfig() config {
	return config{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

// parseConfig reads flags from args. Every flag falls back to its PAGEGEN_*
// environment variable (e.g. --catalog-dir reads PAGEGEN_CATALOG_DIR) when
// not given on the command line.
func parseConfig(args []string, lookupEnv func(string) (string, bool)) (config, error) {
	cfg := defaultConfig()

	flagSet := pflag.NewFlagSet("pagegen-server", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flagSet.StringVar(&cfg.CatalogDir, "catalog-dir", cfg.CatalogDir, "catalog directory (embedded catalog when empty)")
	flagSet.StringVar(&cfg.ManifestDir, "manifest-dir", cfg.ManifestDir, "stock image manifest directory (embedded manifest when empty)")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	flagSet.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (json, console, pretty)")
	flagSet.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	flagSet.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", cfg.MaxBodyBytes, "maximum compose request body size")

	if err := flagSet.Parse(args); err != nil {
		return config{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return config{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	var envErr error
	flagSet.VisitAll(func(f *pflag.Flag) {
		if envErr != nil || f.Changed {
			return
		}
		name := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		value, ok := lookupEnv(name)
		if !ok {
			return
		}
		if err := f.Value.Set(strings.TrimSpace(value)); err != nil {
			envErr = fmt.Errorf("%s: %w", name, err)
		}
	})
	if envErr != nil {
		return config{}, envErr
	}

	if cfg.ShutdownTimeout <= 0 {
		return config{}, fmt.Errorf("shutdown-timeout must be positive")
	}
	return cfg, nil
}
