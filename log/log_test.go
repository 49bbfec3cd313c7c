package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}

	if logger.caller {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("discarded")
	logger.TraceContext(t.Context(), "discarded", slog.Int("n", 1))

	if logger.Level() != DefaultLevel {
		t.Errorf("expected %v, got %v", DefaultLevel, logger.Level())
	}

	if w := logger.With(slog.String("k", "v")); w.Logger != nil {
		t.Error("expected With on zero logger to stay zero")
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()

	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Trace_ShowsTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithPretty(false))

	logger.Trace("trace message")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected level=TRACE, got: %s", buf.String())
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true), WithPretty(false))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller file not included when enabled: %s", buf.String())
	}

	buf.Reset()

	logger = Make(&buf, WithCaller(false), WithPretty(false))
	logger.Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Error("caller info included when disabled")
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}

		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}

		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, "test message") {
			t.Error("message not found in text output")
		}

		if !strings.Contains(output, "key=value") {
			t.Error("key=value not found in text output")
		}
	})
}

func TestLogger_Pretty_WithAttrs(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithFormat(format), WithPretty(true)).
				With(slog.String("component", "parser"))

			logger.Info("hello", slog.Int("n", 7))

			output := buf.String()
			for _, want := range []string{"component", "parser", "hello", "7"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output: %s", want, output)
				}
			}
		})
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelError))

	wrapped := logger.Wrap(WithLevel(LevelDebug))
	wrapped.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger did not apply overriding level")
	}

	if logger.Level() != LevelError {
		t.Error("Wrap modified the original logger")
	}
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at debug", (Logger).Trace, LevelDebug, false},
		{"debug at debug", (Logger).Debug, LevelDebug, true},
		{"debug at info", (Logger).Debug, LevelInfo, false},
		{"info at info", (Logger).Info, LevelInfo, true},
		{"info at warn", (Logger).Info, LevelWarn, false},
		{"warn at warn", (Logger).Warn, LevelWarn, true},
		{"warn at error", (Logger).Warn, LevelError, false},
		{"error at error", (Logger).Error, LevelError, true},
		{"error at trace", (Logger).Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if hasOutput := buf.Len() > 0; hasOutput != tt.logged {
				t.Errorf(
					"expected logged=%v, got output length=%d",
					tt.logged,
					buf.Len(),
				)
			}
		})
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()
			logger.Info("concurrent message", slog.Int("id", id))
		}(i)
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func TestDefault_Config(t *testing.T) {
	var buf bytes.Buffer

	Config(WithOutput(&buf), WithPretty(false), WithLevel(LevelDebug), WithCaller(true))
	defer Config(WithDefaults(os.Stderr))

	Debug("package message", slog.String("k", "v"))

	output := buf.String()
	if !strings.Contains(output, "package message") || !strings.Contains(output, "k=v") {
		t.Errorf("unexpected output: %s", output)
	}

	if !strings.Contains(output, "log_test.go") {
		t.Errorf("expected caller to be the test file: %s", output)
	}
}
