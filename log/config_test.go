package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{" warn ", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelsAndFormats(t *testing.T) {
	levels := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}

	formats := slices.Collect(Formats())
	if want := []string{"text", "json"}; !slices.Equal(formats, want) {
		t.Errorf("Formats() = %v, want %v", formats, want)
	}
}

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		nil,
	)

	if c.level != LevelWarn {
		t.Errorf("expected level %v, got %v", LevelWarn, c.level)
	}

	if c.format != FormatJSON {
		t.Errorf("expected format %v, got %v", FormatJSON, c.format)
	}

	if !c.caller {
		t.Error("expected caller enabled")
	}

	if c.pretty {
		t.Error("expected pretty disabled")
	}
}

func TestConfig_formatTime_FormatsTimestamp(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339 named layout", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano named layout", "RFC3339Nano", "2023-10-15T14:30:45.123456789Z"},
		{"punctuation ignored in names", "rfc-3339", "2023-10-15T14:30:45Z"},
		{"kitchen", "kitchen", "2:30PM"},
		{"custom layout", "2006/01/02", "2023/10/15"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"whitespace only", "   \t  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkConfig_formatTime_SecondResolution(b *testing.B) {
	c := WithTimeLayout("RFC3339")(config{})
	testTime := time.Now()

	for b.Loop() {
		_ = c.formatTime(testTime)
	}
}
