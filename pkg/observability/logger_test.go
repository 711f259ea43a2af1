package observability

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/vuer-ai/vuer-message-protocol/pkg/config"
)

func TestSetupLoggerWritesToFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "vrpc.log")
    logger, err := SetupLogger(config.LogConfig{
        Level:   "debug",
        Format:  "json",
        Outputs: []string{path},
    })
    if err != nil { t.Fatalf("setup: %v", err) }

    logger.Info("hello from test")
    _ = logger.Sync()

    b, err := os.ReadFile(path)
    if err != nil { t.Fatalf("read log: %v", err) }
    if !strings.Contains(string(b), "hello from test") {
        t.Fatalf("log entry missing: %q", string(b))
    }
}

func TestSetupLoggerToleratesBadLevel(t *testing.T) {
    logger, err := SetupLogger(config.LogConfig{
        Level:   "shouting",
        Outputs: []string{"stderr"},
    })
    if err != nil { t.Fatalf("setup: %v", err) }
    if logger == nil {
        t.Fatalf("nil logger")
    }
}
