package lang

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", NewError("msg"), "msg"},
		{"wrapped", NewError("msg").Wrap(cause), "msg: cause"},
		{"cause only", WrapError(cause), "cause"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("cause")
	err := ErrReadInput.Wrap(cause).With(slog.String("file", "x"))

	if !errors.Is(err, ErrReadInput) {
		t.Error("derived error does not match its sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("derived error does not match its cause")
	}

	if errors.Is(err, ErrParse) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if errors.Is(ErrReadInput, err) {
		t.Error("sentinel matches a wrapped target")
	}
}

func TestError_With(t *testing.T) {
	base := NewError("msg")
	derived := base.With(slog.Int("n", 1))

	if len(base.attrs) != 0 {
		t.Error("With modified the receiver")
	}

	if len(derived.attrs) != 1 {
		t.Errorf("expected 1 attr, got %d", len(derived.attrs))
	}

	if WrapError(derived) != derived {
		t.Error("WrapError did not return the existing *Error")
	}
}

func TestError_LogValue(t *testing.T) {
	err := NewError("msg").Wrap(errors.New("cause")).With(slog.Int("n", 1))

	attrs := err.LogValue().Group()
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attrs, got %v", attrs)
	}

	if attrs[0].Key != "error" || attrs[1].Key != "cause" || attrs[2].Key != "n" {
		t.Errorf("unexpected attrs: %v", attrs)
	}
}

func TestParseError_Detail(t *testing.T) {
	_, err := Parse("aaa > bbb\n> +(ccc")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}

	want := "line 2, column 8: expected ')' or '>', found end of input\n" +
		"  2 | > +(ccc\n" +
		strings.Repeat(" ", 13) + "^\n"

	if got := pe.Detail(); got != want {
		t.Errorf("Detail() =\n%s\nwant\n%s", got, want)
	}
}

func TestParseError_Detail_WideCharacters(t *testing.T) {
	_, err := Parse("豆腐 > +(ccc")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}

	want := "line 1, column 11: expected ')' or '>', found end of input\n" +
		"  1 | 豆腐 > +(ccc\n" +
		strings.Repeat(" ", 18) + "^\n"

	if got := pe.Detail(); got != want {
		t.Errorf("Detail() =\n%s\nwant\n%s", got, want)
	}
}

func TestColumnPrefix(t *testing.T) {
	tests := []struct {
		line string
		n    int
		want string
	}{
		{"豆腐 > x", 0, ""},
		{"豆腐 > x", 2, "豆腐"},
		{"豆腐 > x", 4, "豆腐 >"},
		{"abc", 10, "abc"},
	}

	for _, tt := range tests {
		if got := columnPrefix(tt.line, tt.n); got != tt.want {
			t.Errorf("columnPrefix(%q, %d) = %q, want %q", tt.line, tt.n, got, tt.want)
		}
	}
}

func TestParseError_LogValue(t *testing.T) {
	_, err := Parse("x > ? y")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}

	keys := make([]string, 0, 5)
	for _, a := range pe.LogValue().Group() {
		keys = append(keys, a.Key)
	}

	if got := strings.Join(keys, ","); got != "line,column,offset,expected,found" {
		t.Errorf("LogValue keys = %s", got)
	}
}
