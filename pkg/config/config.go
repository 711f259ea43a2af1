// Package config provides YAML-based configuration for the vrpc demo
// binaries. Environment variables use the prefix VRPC with `.`/`-`
// replaced by `_`, e.g. VRPC_LOG_LEVEL=debug.
package config

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
    // AppName optional logical name of the process
    AppName string `mapstructure:"app_name"`

    // Serializer selects the wire format: msgpack, json, cbor, pbstruct
    Serializer string `mapstructure:"serializer"`

    // Transport configures the single demo link
    Transport TransportConfig `mapstructure:"transport"`

    // Log holds logging configuration
    Log LogConfig `mapstructure:"log"`
}

// TransportConfig describes one transport endpoint.
// Example YAML:
//
//  transport:
//    kind: tcp
//    listen: ":8012"
//    dial: "10.0.0.2:8012"
type TransportConfig struct {
    Kind   string `mapstructure:"kind"`   // tcp, quic, mem
    Listen string `mapstructure:"listen"` // server side
    Dial   string `mapstructure:"dial"`   // client side
}

// LogConfig defines logger settings.
type LogConfig struct {
    // Level: debug, info, warn, error
    Level string `mapstructure:"level"`
    // Format: console or json
    Format string `mapstructure:"format"`
    // Outputs: stdout, stderr, or file paths
    Outputs []string `mapstructure:"outputs"`

    // Rotation controls file rotation for file outputs
    Rotation RotationConfig `mapstructure:"rotation"`
    // Development toggles development-friendly logging options
    Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation.
type RotationConfig struct {
    Enable     bool   `mapstructure:"enable"`
    MaxSizeMB  int    `mapstructure:"max_size_mb"`
    MaxBackups int    `mapstructure:"max_backups"`
    MaxAgeDays int    `mapstructure:"max_age_days"`
    Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
    return &Config{
        AppName:    "vrpc",
        Serializer: "msgpack",
        Transport: TransportConfig{
            Kind:   "tcp",
            Listen: ":8012",
            Dial:   "127.0.0.1:8012",
        },
        Log: LogConfig{
            Level:   "info",
            Format:  "console",
            Outputs: []string{"stdout"},
            Rotation: RotationConfig{
                MaxSizeMB:  50,
                MaxBackups: 3,
                MaxAgeDays: 14,
                Compress:   true,
            },
        },
    }
}

// Load reads configuration from path when non-empty, otherwise searches
// common locations for a `vrpc` config file; environment overrides are
// always applied on top.
func Load(path string) (*Config, error) {
    cfg := Default()

    v := viper.New()
    v.SetConfigType("yaml")
    v.SetEnvPrefix("VRPC")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
    v.AutomaticEnv()

    // seed defaults so env-only configs work
    v.SetDefault("app_name", cfg.AppName)
    v.SetDefault("serializer", cfg.Serializer)
    v.SetDefault("transport.kind", cfg.Transport.Kind)
    v.SetDefault("transport.listen", cfg.Transport.Listen)
    v.SetDefault("transport.dial", cfg.Transport.Dial)
    v.SetDefault("log.level", cfg.Log.Level)
    v.SetDefault("log.format", cfg.Log.Format)
    v.SetDefault("log.outputs", cfg.Log.Outputs)
    v.SetDefault("log.development", cfg.Log.Development)
    v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
    v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
    v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
    v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
    v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

    if path == "" {
        if envPath := os.Getenv("VRPC_CONFIG"); envPath != "" {
            path = envPath
        }
    }

    if path != "" {
        v.SetConfigFile(path)
    } else {
        v.SetConfigName("vrpc")
        v.AddConfigPath(".")
        v.AddConfigPath("./configs")
        if home, err := os.UserHomeDir(); err == nil {
            v.AddConfigPath(filepath.Join(home, ".vrpc"))
        }
    }

    if err := v.ReadInConfig(); err != nil {
        var notFound viper.ConfigFileNotFoundError
        if !errors.As(err, &notFound) {
            return nil, fmt.Errorf("read config: %w", err)
        }
    }

    if err := v.Unmarshal(cfg); err != nil {
        return nil, fmt.Errorf("decode config: %w", err)
    }

    if err := cfg.validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (c *Config) validate() error {
    switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
    case "debug", "info", "warn", "warning", "error":
    default:
        return fmt.Errorf("invalid log.level: %q", c.Log.Level)
    }
    switch c.Serializer {
    case "msgpack", "json", "cbor", "pbstruct":
    default:
        return fmt.Errorf("invalid serializer: %q", c.Serializer)
    }
    switch c.Transport.Kind {
    case "tcp", "quic", "mem":
    default:
        return fmt.Errorf("invalid transport.kind: %q", c.Transport.Kind)
    }
    if c.Log.Format == "" {
        c.Log.Format = "console"
    }
    if len(c.Log.Outputs) == 0 {
        c.Log.Outputs = []string{"stdout"}
    }
    return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
    cfg, err := Load(path)
    if err != nil {
        panic(err)
    }
    return cfg
}
