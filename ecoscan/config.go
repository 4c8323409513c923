package ecoscan

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/greenloop/ecoscan/ecoscan/database"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the config used when a section is absent from
// the TOML file.
func DefaultConfig() Config {
	return Config{
		Log:    LogConfig{Level: slog.LevelInfo},
		Server: ServerConfig{Addr: ":8080"},
		Scanner: ScannerConfig{
			FallbackTimeoutMS: 3000,
			SettleDelayMS:     2000,
			NavigateDelayMS:   1500,
			SessionTTLMin:     5,
		},
	}
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Server  ServerConfig      `toml:"server"`
	DB      database.DBConfig `toml:"db"`
	Scanner ScannerConfig     `toml:"scanner"`
	Spaces  SpacesConfig      `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	Debug          bool     `toml:"debug"`
}

// ScannerConfig carries the scan-session timings in milliseconds so
// they stay plain integers in TOML.
type ScannerConfig struct {
	FallbackTimeoutMS int `toml:"fallback_timeout_ms"`
	SettleDelayMS     int `toml:"settle_delay_ms"`
	NavigateDelayMS   int `toml:"navigate_delay_ms"`
	SessionTTLMin     int `toml:"session_ttl_min"`
}

func (c ScannerConfig) FallbackTimeout() time.Duration {
	return time.Duration(c.FallbackTimeoutMS) * time.Millisecond
}

func (c ScannerConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

func (c ScannerConfig) NavigateDelay() time.Duration {
	return time.Duration(c.NavigateDelayMS) * time.Millisecond
}

func (c ScannerConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}

type SpacesConfig struct {
	Key       string `toml:"key"`
	Secret    string `toml:"secret"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	ImageRoot string `toml:"image_root"`
}
