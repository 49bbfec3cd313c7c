package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/recipe/lang"
	"github.com/ardnew/recipe/log"
)

// editRecipeMsg is sent when recipe editing completes successfully.
type editRecipeMsg struct{ recipe *lang.Recipe }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	recipePrompt = "➜ "
	ctrlPrompt   = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode, or prefix a line with ':'):

  help           Print this cruft
  list           List recipe names seen in this session
  show           Print the current recipe as canonical source
  query <expr>   Evaluate an expression against the current recipe
  edit           Edit the current recipe in external $EDITOR
  history        Print input history
  clear          Clear screen
  quit           Exit REPL

Usage:
  Type a recipe on one line to transpile it, e.g.  tofu > cut > ? + salt
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeRecipe inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(recipePrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and
// input styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	recipe       *lang.Recipe // most recent successfully parsed recipe
	known        []string     // recipe names and steps seen, for completion
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	recipeText   string
	recipeCursor int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL. If reader is non-nil, its content is parsed as the
// initial recipe.
func Run(
	ctx context.Context,
	reader io.Reader,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_source", reader != nil),
	)

	var recipe *lang.Recipe

	if reader != nil {
		recipe, err = lang.ParseReader(ctx, reader, lang.WithLogger(logger))
		if err != nil {
			return err
		}
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", history.Path()),
			slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, recipe, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	recipe *lang.Recipe,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(recipePrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeRecipe,
	}

	if recipe != nil {
		m.setRecipe(recipe)
	}

	return m
}

// setRecipe makes r the current recipe and learns its words for completion.
func (m *model) setRecipe(r *lang.Recipe) {
	m.recipe = r

	learn := func(s string) {
		if s != "" && !slices.Contains(m.known, s) {
			m.known = append(m.known, s)
		}
	}

	for base := range r.Bases() {
		learn(base)
	}

	for _, in := range r.All() {
		if in.Kind == lang.KindProcess {
			learn(in.Text)
		}
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(recipePrompt) - 2

		return m, nil

	case editRecipeMsg:
		m.setRecipe(msg.recipe)
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("instructions", len(msg.recipe.Instructions)),
		)

		return m, tea.Println(resultStyle.Render(lang.Render(msg.recipe)))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled."))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	viewingHistory := m.historyIdx < m.history.Len()

	switch {
	case viewingHistory:
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a recipe or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	default:
		if call, ok := m.queryCall(); ok {
			if sig, params := querySignature(call.name); sig != "" {
				b.WriteString(renderSignatureHint(sig, params, call.argIndex))

				break
			}
		}

		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

// queryCall reports the function call surrounding the cursor when the input
// is a query command.
func (m model) queryCall() (functionCall, bool) {
	expr, offset, ok := queryExpr(m.mode, m.input.Value())
	if !ok {
		return functionCall{}, false
	}

	cursor := byteOffset(m.input.Value(), m.input.Position())
	call := detectFunctionCall(expr, cursor-offset)

	return call, call.inCall
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(+1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyPrevInMode()

	case tea.KeyShiftDown:
		return m.historyNextInMode()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeRecipe {
			return m.switchToMode(modeCtrl)
		}

		return m.switchToMode(modeRecipe)

	case tea.KeyRunes:
		// Space is a "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step through the current matches.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(utf8.RuneCountInString(newInput[:newCursor]))

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.recipeText = ""
	m.recipeCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	mode := m.mode
	if cmd, ok := strings.CutPrefix(input, ":"); ok && mode == modeRecipe {
		mode, input = modeCtrl, strings.TrimSpace(cmd)
	}

	if _, err := m.history.Write(input, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl transpile",
		slog.String("input", input),
	)

	echoCmd := tea.Println(formatCommand(input))

	r, err := lang.ParseString(m.ctxFunc(), input, lang.WithLogger(m.logger))
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render(formatError(err))),
		)
	}

	m.setRecipe(r)

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(lang.Render(r))),
	)
}

// formatError returns the printable form of a parse or query error, with a
// caret snippet when the error carries a source position.
func formatError(err error) string {
	var pe *lang.ParseError
	if errors.As(err, &pe) {
		return lang.ErrParse.Error() + ": " + strings.TrimRight(pe.Detail(), "\n")
	}

	return "error: " + err.Error()
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	cmd, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	if cmd == "" {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.String("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listKnown()))

	case "s", "show":
		return m, tea.Sequence(echoCmd, tea.Println(m.showRecipe()))

	case "query":
		return m, tea.Sequence(echoCmd, tea.Println(m.query(args)))

	case "history":
		return m, tea.Sequence(echoCmd, tea.Println(m.listHistory()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) query(source string) string {
	if m.recipe == nil {
		return errorStyle.Render(formatError(ErrNoRecipe))
	}

	if source == "" {
		return hintStyle.Render("usage: query <expr>")
	}

	result, err := lang.Query(m.ctxFunc(), m.recipe, source, lang.WithLogger(m.logger))
	if err != nil {
		return errorStyle.Render(formatError(err))
	}

	return resultStyle.Render(lang.FormatResult(result))
}

func (m model) showRecipe() string {
	if m.recipe == nil {
		return errorStyle.Render(formatError(ErrNoRecipe))
	}

	var b strings.Builder
	if err := m.recipe.Format(m.ctxFunc(), &b, 2); err != nil {
		return errorStyle.Render(formatError(err))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) listKnown() string {
	var b strings.Builder

	for name := range m.knownBases() {
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (none)")
	}

	return strings.TrimRight(b.String(), "\n")
}

// knownBases yields the recipe names of the current recipe tree.
func (m model) knownBases() iter.Seq[string] {
	return func(yield func(string) bool) {
		if m.recipe == nil {
			return
		}

		seen := map[string]bool{}

		for base := range m.recipe.Bases() {
			if seen[base] {
				continue
			}

			seen[base] = true

			if !yield(base) {
				return
			}
		}
	}
}

func (m model) listHistory() string {
	var b strings.Builder

	for i, entry := range m.history.Entries() {
		prefix := " "
		if entry.Mode == modeCtrl {
			prefix = ":"
		}

		fmt.Fprintf(&b, "%5d %s%s\n", i+1, prefix, entry.Line)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editRecipeCommand{
		recipe:  m.recipe,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.edited == nil {
			return editCancelledMsg{}
		}

		return editRecipeMsg{recipe: cmd.edited}
	})
}

// recall loads history entry i into the input, switching mode if switchMode
// is set and the entry belongs to the other mode.
func (m model) recall(i int, switchMode bool) model {
	entry, err := m.history.GetEntry(i)
	if err != nil {
		return m
	}

	if switchMode && m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(utf8.RuneCountInString(entry.Line))
	refreshMatches(&m, false)

	return m
}

// resetHistory returns to the end of history with an empty input.
func (m model) resetHistory() model {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		return m.recall(m.historyIdx-1, true), nil
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		return m.recall(m.historyIdx+1, true), nil
	}

	return m.resetHistory(), nil
}

func (m model) historyPrevInMode() (model, tea.Cmd) {
	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == m.mode {
			return m.recall(i, false), nil
		}
	}

	return m, nil
}

func (m model) historyNextInMode() (model, tea.Cmd) {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == m.mode {
			return m.recall(i, false), nil
		}
	}

	// Reached end of mode-specific history, clear input
	if m.historyIdx < m.history.Len() {
		return m.resetHistory(), nil
	}

	return m, nil
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeRecipe {
		m.recipeText = m.input.Value()
		m.recipeCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeRecipe {
		m.input.Prompt = promptStyle.Render(recipePrompt)
		m.input.SetValue(m.recipeText)
		m.input.SetCursor(m.recipeCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
