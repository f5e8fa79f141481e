// Package config reads the configuration of the gofvm daemon and CLI.
//
// Values come from an optional file, from GOFVM_ environment variables
// (GOFVM_STORE_PATH for store.path) and from defaults, in that order of
// precedence from lowest to highest: defaults, file, environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"gofvm"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Listen string

	Store Store
	Log   Log

	// Per request bound on verification time. Zero means unbounded.
	Timeout     time.Duration
	MaxStates   int
	Concurrency int
}

type Store struct {
	Path     string
	InMemory bool
}

type Log struct {
	Level       string
	Development bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("listen", "localhost:7070")
	v.SetDefault("store.path", "gofvm-reports")
	v.SetDefault("store.inmemory", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("timeout", time.Minute)
	v.SetDefault("maxstates", 1_000_000)
	v.SetDefault("concurrency", 0)
}

// Read the configuration. An empty path reads defaults and environment only.
func Read(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("GOFVM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Logger builds the logger described by the Log section.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

// VerifyOptions returns the verification options the configuration describes.
func (c Config) VerifyOptions(log *zap.Logger) []gofvm.Option {
	opts := []gofvm.Option{
		gofvm.WithLogger(log),
		gofvm.WithMaxStates(c.MaxStates),
	}
	if c.Concurrency > 0 {
		opts = append(opts, gofvm.WithConcurrency(c.Concurrency))
	}
	return opts
}
