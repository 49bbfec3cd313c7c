package repl

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/recipe/lang"
	"github.com/ardnew/recipe/log"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(context.Background(), nil, history, log.Logger{})
}

func submit(m model, input string) model {
	m.input.SetValue(input)
	m, _ = m.executeInput()

	return m
}

func TestModel_ExecuteRecipe(t *testing.T) {
	m := submit(newTestModel(t), "tofu > cut > + (rice > wash) > + salt")

	if m.recipe == nil {
		t.Fatal("recipe not set")
	}

	if got := m.recipe.Base; got != "tofu" {
		t.Errorf("recipe base = %q, want %q", got, "tofu")
	}

	for _, word := range []string{"tofu", "cut", "rice", "wash"} {
		if !slices.Contains(m.known, word) {
			t.Errorf("known = %v, missing %q", m.known, word)
		}
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q, want empty", m.input.Value())
	}

	entry, err := m.history.GetEntry(0)
	if err != nil {
		t.Fatal(err)
	}

	if entry.Mode != modeRecipe {
		t.Errorf("history mode = %d, want %d", entry.Mode, modeRecipe)
	}
}

func TestModel_ExecuteRecipeError(t *testing.T) {
	m := submit(newTestModel(t), "tofu > cut")
	m = submit(m, "tofu >")

	if m.recipe == nil || m.recipe.Base != "tofu" {
		t.Fatal("failed parse replaced the current recipe")
	}

	if m.history.Len() != 2 {
		t.Errorf("history length = %d, want 2", m.history.Len())
	}
}

func TestModel_ExecuteCommand(t *testing.T) {
	tests := []struct {
		name     string
		mode     inputMode
		input    string
		wantLine string
		wantQuit bool
	}{
		{"prefixed_quit", modeRecipe, ":quit", "quit", true},
		{"prefixed_spaced", modeRecipe, ": help", "help", false},
		{"ctrl_exit", modeCtrl, "exit", "exit", true},
		{"ctrl_unknown", modeCtrl, "bogus", "bogus", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.mode = tt.mode
			m = submit(m, tt.input)

			if m.quitting != tt.wantQuit {
				t.Errorf("quitting = %v, want %v", m.quitting, tt.wantQuit)
			}

			entry, err := m.history.GetEntry(0)
			if err != nil {
				t.Fatal(err)
			}

			if want := (HistoryEntry{tt.wantLine, modeCtrl}); entry != want {
				t.Errorf("history entry = %v, want %v", entry, want)
			}
		})
	}
}

func TestModel_Query(t *testing.T) {
	m := newTestModel(t)

	if got := m.query("steps"); !strings.Contains(got, ErrNoRecipe.Error()) {
		t.Errorf("query without recipe = %q, want %q", got, ErrNoRecipe)
	}

	m = submit(m, "tofu > cut > ? + salt")

	tests := []struct {
		source string
		want   string
	}{
		{"steps", "1"},
		{"optional == 1", "true"},
		{"bases()", `["tofu","salt"]`},
		{"", "usage: query <expr>"},
		{"steps +", "error: "},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := m.query(tt.source); !strings.Contains(got, tt.want) {
				t.Errorf("query(%q) = %q, want it to contain %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestModel_ShowRecipe(t *testing.T) {
	m := newTestModel(t)

	if got := m.showRecipe(); !strings.Contains(got, ErrNoRecipe.Error()) {
		t.Errorf("showRecipe() without recipe = %q", got)
	}

	m = submit(m, "tofu > cut")

	got := m.showRecipe()

	r, err := lang.ParseString(context.Background(), got)
	if err != nil {
		t.Fatalf("showRecipe() output does not parse: %v\n%s", err, got)
	}

	if lang.Render(r) != lang.Render(m.recipe) {
		t.Errorf("showRecipe() = %q, renders differently", got)
	}
}

func TestModel_ListKnown(t *testing.T) {
	m := newTestModel(t)

	if got := m.listKnown(); !strings.Contains(got, "(none)") {
		t.Errorf("listKnown() = %q, want (none)", got)
	}

	m = submit(m, "tofu > + salt > + salt")

	got := m.listKnown()
	if strings.Count(got, "salt") != 1 || !strings.Contains(got, "tofu") {
		t.Errorf("listKnown() = %q", got)
	}
}

func TestModel_ListHistory(t *testing.T) {
	m := newTestModel(t)
	m = submit(m, "tofu")
	m = submit(m, ":help")

	got := m.listHistory()
	for _, want := range []string{"    1  tofu", "    2 :help"} {
		if !strings.Contains(got, want) {
			t.Errorf("listHistory() = %q, want it to contain %q", got, want)
		}
	}
}

func TestModel_SwitchModePreservesInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("tofu > cu")

	m, _ = m.switchToMode(modeCtrl)

	if m.input.Value() != "" {
		t.Errorf("ctrl input = %q, want empty", m.input.Value())
	}

	m.input.SetValue("sho")
	m, _ = m.switchToMode(modeRecipe)

	if got := m.input.Value(); got != "tofu > cu" {
		t.Errorf("recipe input = %q, want %q", got, "tofu > cu")
	}

	m, _ = m.switchToMode(modeCtrl)

	if got := m.input.Value(); got != "sho" {
		t.Errorf("ctrl input = %q, want %q", got, "sho")
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	m = submit(m, "tofu")
	m = submit(m, ":show")
	m = submit(m, "rice")

	m, _ = m.historyPrev()
	if m.input.Value() != "rice" || m.mode != modeRecipe {
		t.Fatalf("prev = (%q, %d)", m.input.Value(), m.mode)
	}

	m, _ = m.historyPrev()
	if m.input.Value() != "show" || m.mode != modeCtrl {
		t.Fatalf("prev = (%q, %d)", m.input.Value(), m.mode)
	}

	m, _ = m.historyNext()
	m, _ = m.historyNext()

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("next past end = (%q, %d)", m.input.Value(), m.historyIdx)
	}
}

func TestFormatError(t *testing.T) {
	_, err := lang.ParseString(context.Background(), "tofu >")
	if err == nil {
		t.Fatal("expected parse error")
	}

	if got := formatError(err); !strings.HasPrefix(got, "parse error: line 1") {
		t.Errorf("formatError(parse) = %q", got)
	}

	if got := formatError(errors.New("boom")); got != "error: boom" {
		t.Errorf("formatError(other) = %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		data string
		want bool
	}{
		{"", true},
		{"  \n\t\n", true},
		{editTemplate, true},
		{"# comment\ntofu\n", false},
	}

	for _, tt := range tests {
		if got := isBlank([]byte(tt.data)); got != tt.want {
			t.Errorf("isBlank(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}
