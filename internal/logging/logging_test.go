package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestNewWritesJSONToFile verifies file output and level filtering
func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	logger, err := New(Config{Level: "warn", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", zap.String("model", "absent"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "dropped") {
		t.Error("Info entry should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"model":"absent"`) {
		t.Errorf("Expected JSON warn entry with field, got: %s", out)
	}
}

// TestNewBadLevelFallsBackToInfo verifies an unparseable level does not fail
func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Config{Level: "loud", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zap.InfoLevel) {
		t.Error("Expected info level to be enabled")
	}
	if logger.Core().Enabled(zap.DebugLevel) {
		t.Error("Expected debug level to be disabled")
	}
}

// TestOrGlobal verifies nil loggers resolve to the global one
func TestOrGlobal(t *testing.T) {
	if OrGlobal(nil) != Logger {
		t.Error("Expected nil to resolve to the global logger")
	}
	nop := zap.NewNop()
	if OrGlobal(nop) != nop {
		t.Error("Expected explicit logger to be returned unchanged")
	}
}

// TestFromContext verifies request-scoped loggers take precedence
func TestFromContext(t *testing.T) {
	fallback := zap.NewNop()
	if FromContext(context.Background(), fallback) != fallback {
		t.Error("Expected fallback when context has no logger")
	}

	scoped := zap.NewNop().With(zap.String("request_id", "abc"))
	ctx := WithLogger(context.Background(), scoped)
	if FromContext(ctx, fallback) != scoped {
		t.Error("Expected context logger to win over fallback")
	}
	if FromContext(nil, nil) != Logger {
		t.Error("Expected global logger for nil context and fallback")
	}
}

// TestPackageHelpersUseGlobalLogger verifies the helpers write through Logger
func TestPackageHelpersUseGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	saved := Logger
	Logger = zap.New(core)
	defer func() { Logger = saved }()

	Debug("rules loaded", zap.String("source", "builtin"))
	Info("listening")
	Warn("model absent")
	Error("stopped", zap.String("reason", "signal"))
	With(zap.String("version", "1.0.0")).Info("scoped")

	entries := logs.AllUntimed()
	if len(entries) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(entries))
	}
	levels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel, zapcore.InfoLevel}
	for i, want := range levels {
		if entries[i].Level != want {
			t.Errorf("Entry %d: expected level %s, got %s", i, want, entries[i].Level)
		}
	}
	if entries[4].ContextMap()["version"] != "1.0.0" {
		t.Errorf("Expected With fields on scoped entry, got %v", entries[4].ContextMap())
	}
}
