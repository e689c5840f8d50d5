// Package config loads layered configuration (defaults, optional file,
// ROSTER_* environment) and builds the process logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/roster-engine/roster"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Roster   RosterConfig   `mapstructure:"roster"`
	Rules    FileConfig     `mapstructure:"rules"`
	Codes    FileConfig     `mapstructure:"codes"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// RosterConfig tunes extraction and parsing.
type RosterConfig struct {
	PeriodMarker  string  `mapstructure:"period_marker"`
	MarkerWindow  int     `mapstructure:"marker_window"`
	LineTolerance float64 `mapstructure:"line_tolerance"`
}

// FileConfig points at an optional JSON override file.
type FileConfig struct {
	File string `mapstructure:"file"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// ROSTER_, with dots replaced by underscores (ROSTER_SERVER_PORT).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "./roster.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("roster.period_marker", roster.DefaultPeriodMarker)
	v.SetDefault("roster.marker_window", roster.DefaultMarkerWindow)
	v.SetDefault("roster.line_tolerance", roster.DefaultLineTolerance)
	v.SetDefault("rules.file", "")
	v.SetDefault("codes.file", "")

	if cfgPath := os.Getenv("ROSTER_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("roster")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Apply copies the roster settings onto an extractor and parser.
func (c RosterConfig) Apply(ex *roster.Extractor, p *roster.Parser) {
	if c.LineTolerance > 0 {
		ex.LineTolerance = c.LineTolerance
	}
	if c.PeriodMarker != "" {
		p.PeriodMarker = c.PeriodMarker
	}
	if c.MarkerWindow > 0 {
		p.MarkerWindow = c.MarkerWindow
	}
}

// NewLogger builds a JSON logger at the configured level, or a console
// logger in development mode.
func NewLogger(c LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoding := "json"
	if c.Development {
		encoding = "console"
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      c.Development,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}
