package repl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestHistory_LoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_WritePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	n, err := h.Write("tofu > cut", modeRecipe)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if want := len("R:tofu > cut\n"); n != want {
		t.Errorf("Write() = %d, want %d", n, want)
	}

	if _, err := h.Write("help", modeCtrl); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "R:tofu > cut\nC:help\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(reloaded.Entries(), h.Entries()) {
		t.Errorf("reloaded = %v, want %v", reloaded.Entries(), h.Entries())
	}
}

func TestHistory_WriteDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"tofu", modeRecipe},
		{"show", modeCtrl},
		{"tofu", modeCtrl},
		{"tofu", modeRecipe},
		{"tofu", modeRecipe},
	} {
		if _, err := h.Write(e.Line, e.Mode); err != nil {
			t.Fatalf("Write(%q) error = %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"show", modeCtrl},
		{"tofu", modeCtrl},
		{"tofu", modeRecipe},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "C:show\nC:tofu\nR:tofu\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestHistory_WriteBlank(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	n, err := h.Write("  \t", modeRecipe)
	if n != 0 || err != nil {
		t.Errorf("Write(blank) = (%d, %v), want (0, nil)", n, err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_LoadLegacyAndTrim(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	var b strings.Builder

	b.WriteString("plain line\n\nC:quit\n")

	for i := range maxHistory {
		fmt.Fprintf(&b, "R:line%d\n", i)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	// "plain line" and "C:quit" are the oldest two and are trimmed.
	first, err := h.GetEntry(0)
	if err != nil {
		t.Fatal(err)
	}

	if want := (HistoryEntry{"line0", modeRecipe}); first != want {
		t.Errorf("GetEntry(0) = %v, want %v", first, want)
	}
}

func TestHistory_LoadModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	if err := os.WriteFile(path, []byte("plain line\nC:quit\nR:tofu\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []HistoryEntry{
		{"plain line", modeRecipe},
		{"quit", modeCtrl},
		{"tofu", modeRecipe},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestHistory_GetEntryOutOfBounds(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	for _, i := range []int{-1, 0, 1} {
		if _, err := h.GetEntry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("GetEntry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistoryEntry_String(t *testing.T) {
	if got := (HistoryEntry{"tofu", modeRecipe}).String(); got != "R:tofu" {
		t.Errorf("String() = %q, want %q", got, "R:tofu")
	}

	if got := (HistoryEntry{"quit", modeCtrl}).String(); got != "C:quit" {
		t.Errorf("String() = %q, want %q", got, "C:quit")
	}
}
