package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ankur-anand/zktxnlog/internal/etc"
	"github.com/pelletier/go-toml/v2"
)

// Config : top-level configuration.
type Config struct {
	Output    OutputConfig  `toml:"output"`
	LogConfig LogConfig     `toml:"log_config"`
	Decoder   DecoderConfig `toml:"decoder"`
	Metrics   MetricsConfig `toml:"metrics"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	UTC    bool   `toml:"utc"`
	Limit  int    `toml:"limit"`
}

type LogConfig struct {
	MinLevelPercents map[string]float64 `toml:"min_level_percents"`
	LogLevel         string             `toml:"log_level"`
	JSON             bool               `toml:"json"`
}

type DecoderConfig struct {
	// MaxBufferSize is a human size such as "1MB". Empty disables the limit.
	MaxBufferSize string `toml:"max_buffer_size"`
}

type MetricsConfig struct {
	Textfile string `toml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Output:    OutputConfig{Format: "table"},
		LogConfig: LogConfig{LogLevel: "warn"},
	}
}

// Load reads a TOML file over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	cfgBytes, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(cfgBytes, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// MaxBufferBytes parses Decoder.MaxBufferSize.
func (c Config) MaxBufferBytes() (int, error) {
	size, err := etc.ParseSize(c.Decoder.MaxBufferSize)
	if err != nil {
		return 0, fmt.Errorf("decoder.max_buffer_size: %w", err)
	}
	return int(size), nil
}

func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level: %s", level)
}

// ParseLevelPercents returns the per-level sampling percentages. Debug is
// sampled down by default since the decoder logs once per record at that level.
func ParseLevelPercents(cfg LogConfig) (map[slog.Level]float64, error) {
	out := map[slog.Level]float64{
		slog.LevelDebug: 10.0,
		slog.LevelInfo:  100.0,
		slog.LevelWarn:  100.0,
		slog.LevelError: 100.0,
	}

	for k, v := range cfg.MinLevelPercents {
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("log level %s: percent %.2f out of range [0, 100]", k, v)
		}
		level, err := ParseLevel(k)
		if err != nil || k == "" {
			return nil, fmt.Errorf("unknown log level: %s", k)
		}
		out[level] = v
	}
	return out, nil
}
