package config

import (
    "os"
    "path/filepath"
    "testing"
)

func TestDefaultValidates(t *testing.T) {
    cfg := Default()
    if err := cfg.validate(); err != nil {
        t.Fatalf("default config invalid: %v", err)
    }
    if cfg.Serializer != "msgpack" || cfg.Transport.Kind != "tcp" {
        t.Fatalf("defaults: %#v", cfg)
    }
}

func TestLoadFileOverridesDefaults(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "vrpc.yaml")
    yaml := []byte(`
serializer: cbor
transport:
  kind: mem
  listen: bus
log:
  level: debug
`)
    if err := os.WriteFile(path, yaml, 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }

    cfg, err := Load(path)
    if err != nil { t.Fatalf("load: %v", err) }
    if cfg.Serializer != "cbor" {
        t.Fatalf("serializer: %q", cfg.Serializer)
    }
    if cfg.Transport.Kind != "mem" || cfg.Transport.Listen != "bus" {
        t.Fatalf("transport: %#v", cfg.Transport)
    }
    if cfg.Log.Level != "debug" {
        t.Fatalf("log level: %q", cfg.Log.Level)
    }
    // Untouched keys keep their defaults.
    if cfg.Transport.Dial != "127.0.0.1:8012" {
        t.Fatalf("dial default lost: %q", cfg.Transport.Dial)
    }
}

func TestLoadRejectsUnknownSerializer(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "vrpc.yaml")
    if err := os.WriteFile(path, []byte("serializer: xml\n"), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    if _, err := Load(path); err == nil {
        t.Fatalf("expected validation error")
    }
}

func TestValidateRejectsBadTransport(t *testing.T) {
    cfg := Default()
    cfg.Transport.Kind = "carrier-pigeon"
    if err := cfg.validate(); err == nil {
        t.Fatalf("expected validation error")
    }
}
