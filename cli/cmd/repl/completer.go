package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/recipe/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "show", "query", "edit", "history", "clear", "quit",
}

// boundaryFunc reports whether a rune delimits completion words.
type boundaryFunc func(rune) bool

// isRecipeBoundary delimits words in recipe source. Spaces are not
// boundaries because recipe names and steps may contain them.
func isRecipeBoundary(r rune) bool {
	switch r {
	case '>', '(', ')', '+', '?', '#', ':':
		return true
	}

	return false
}

// isExprBoundary delimits words in query expressions: whitespace, the
// member-access dot, and expr-lang operator/punctuation characters.
func isExprBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Surrounding whitespace is excluded from the word,
// except what lies before the cursor.
// Returns an empty word when the cursor sits on a boundary.
func wordBounds(
	input string,
	cursor int,
	isBoundary boundaryFunc,
) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isBoundary(r) {
			break
		}

		end += size
	}

	// Skip the whitespace that follows a recipe delimiter.
	for start < end {
		r, size := utf8.DecodeRuneInString(input[start:])
		if r != ' ' && r != '\t' {
			break
		}

		start += size
	}

	// Leave whitespace before the next delimiter in place.
	for end > max(start, cursor) {
		r, size := utf8.DecodeLastRuneInString(input[:end])
		if r != ' ' && r != '\t' {
			break
		}

		end -= size
	}

	return input[start:end], start, end
}

// queryExpr returns the expression part of a query command and its byte
// offset within input.
func queryExpr(mode inputMode, input string) (expr string, offset int, ok bool) {
	line := input
	if mode == modeRecipe {
		if line, ok = strings.CutPrefix(line, ":"); !ok {
			return "", 0, false
		}
	}

	trimmed := strings.TrimLeft(line, " \t")
	if rest, found := strings.CutPrefix(trimmed, "query "); found {
		return rest, len(input) - len(rest), true
	}

	return "", 0, false
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list, and
// the word boundaries. An empty word yields no matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := byteOffset(input, m.input.Position())

	var word string

	switch expr, offset, isQuery := queryExpr(m.mode, input); {
	case isQuery:
		var ws, we int

		word, ws, we = wordBounds(expr, cursor-offset, isExprBoundary)
		wordStart, wordEnd = ws+offset, we+offset
		candidates = queryCandidates()

	case m.mode == modeCtrl || strings.HasPrefix(input, ":"):
		word, wordStart, wordEnd = wordBounds(input, cursor, isExprBoundary)
		candidates = ctrlCommands

	default:
		word, wordStart, wordEnd = wordBounds(input, cursor, isRecipeBoundary)
		candidates = m.known
	}

	if word == "" || len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// byteOffset converts a rune position within s to a byte offset.
func byteOffset(s string, pos int) int {
	for i := range s {
		if pos == 0 {
			return i
		}

		pos--
	}

	return len(s)
}

// queryCandidates returns the names available in query expressions.
func queryCandidates() []string {
	return append(lang.QueryNames(), exprBuiltinNames()...)
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is callable in a query expression.
func isFunction(name string) bool {
	if _, ok := builtin.Index[name]; ok {
		return true
	}

	_, ok := queryFunctions[name]

	return ok
}
