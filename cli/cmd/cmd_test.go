package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/recipe/lang"
	"github.com/ardnew/recipe/pkg"
)

// testStreams returns a context whose commands read stdin and write to the
// returned buffers.
func testStreams(stdin string) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	ctx := WithStreams(context.Background(), Streams{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	})

	return ctx, &stdout, &stderr
}

// writeSource writes content to a new file in a temporary directory.
func writeSource(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestStreamsFrom_Defaults(t *testing.T) {
	s := streamsFrom(context.Background())

	if s.Stdin != os.Stdin || s.Stdout != os.Stdout || s.Stderr != os.Stderr {
		t.Error("streamsFrom() without streams should use the process streams")
	}

	var buf bytes.Buffer

	s = streamsFrom(WithStreams(context.Background(), Streams{Stdout: &buf}))
	if s.Stdout != &buf {
		t.Error("streamsFrom() should keep the configured stdout")
	}

	if s.Stdin != os.Stdin {
		t.Error("streamsFrom() should default a nil stdin")
	}
}

func TestParseOptionsFrom(t *testing.T) {
	if opts := parseOptionsFrom(context.Background()); opts != nil {
		t.Errorf("parseOptionsFrom() = %v, want nil", opts)
	}

	ctx := WithParseOptions(context.Background(), lang.WithMaxDepth(1))
	if n := len(parseOptionsFrom(ctx)); n != 1 {
		t.Fatalf("len(parseOptionsFrom()) = %d, want 1", n)
	}

	ctx, _, _ = testStreams("a > +(b > +(c))")
	ctx = WithParseOptions(ctx, lang.WithMaxDepth(1))

	_, err := parseSource(ctx, stdinSource)
	if !errors.Is(err, lang.ErrMaxDepthExceeded) {
		t.Errorf("parseSource() error = %v, want %v", err, lang.ErrMaxDepthExceeded)
	}
}

func TestReadSource(t *testing.T) {
	path := writeSource(t, "a.recipe", "tofu")
	s := streamsFrom(WithStreams(context.Background(), Streams{
		Stdin: strings.NewReader("from stdin"),
	}))

	data, err := readSource(s, path)
	if err != nil || string(data) != "tofu" {
		t.Errorf("readSource(file) = (%q, %v)", data, err)
	}

	data, err = readSource(s, stdinSource)
	if err != nil || string(data) != "from stdin" {
		t.Errorf("readSource(stdin) = (%q, %v)", data, err)
	}

	_, err = readSource(s, filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("readSource(missing) error = %v, want %v", err, ErrReadSource)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("readSource(missing) error = %v, want it to wrap %v", err, os.ErrNotExist)
	}
}

func TestUniqueSources(t *testing.T) {
	dir := t.TempDir()
	file1 := filepath.Join(dir, "a.recipe")
	file2 := filepath.Join(dir, "b.recipe")
	link := filepath.Join(dir, "link.recipe")
	missing := filepath.Join(dir, "missing.recipe")

	for _, f := range []string{file1, file2} {
		if err := os.WriteFile(f, []byte("tofu"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Symlink(file1, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		sources []string
		want    []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{file1}, []string{file1}},
		{"duplicate", []string{file1, file1}, []string{file1}},
		{"symlink", []string{file1, link, file2}, []string{file1, file2}},
		{"stdin_last", []string{stdinSource, file2, stdinSource}, []string{file2, stdinSource}},
		{"missing_kept", []string{missing, file1}, []string{missing, file1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uniqueSources(tt.sources); !slices.Equal(got, tt.want) {
				t.Errorf("uniqueSources() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := ErrWriteConfig.Wrap(cause)

	if got, want := err.Error(), "write configuration file: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, cause) {
		t.Error("wrapped error should match its sentinel and cause")
	}

	if errors.Is(err, ErrReadSource) {
		t.Error("wrapped error should not match another sentinel")
	}
}

func TestVersion(t *testing.T) {
	ctx, stdout, _ := testStreams("")

	if err := (Version{}).Run(ctx); err != nil {
		t.Fatalf("Version.Run() error = %v", err)
	}

	if got, want := stdout.String(), pkg.Name+" "+pkg.Version+"\n"; got != want {
		t.Errorf("Version.Run() output = %q, want %q", got, want)
	}
}
