package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signature describes a callable for parameter hints.
type signature struct {
	signature string
	params    []string
}

// queryFunctions defines the helper functions of query expressions.
var queryFunctions = map[string]signature{
	"bases":     {"bases()", nil},
	"processes": {"processes()", nil},
}

// exprLangBuiltins defines signatures for expr-lang's builtin functions.
// Source: https://expr-lang.org/docs/language-definition
var exprLangBuiltins = map[string]signature{
	"len":    {"len(v)", []string{"v"}},
	"all":    {"all(array, predicate)", []string{"array", "predicate"}},
	"any":    {"any(array, predicate)", []string{"array", "predicate"}},
	"one":    {"one(array, predicate)", []string{"array", "predicate"}},
	"none":   {"none(array, predicate)", []string{"array", "predicate"}},
	"map":    {"map(array, mapper)", []string{"array", "mapper"}},
	"filter": {"filter(array, predicate)", []string{"array", "predicate"}},
	"find":   {"find(array, predicate)", []string{"array", "predicate"}},
	"findIndex": {
		"findIndex(array, predicate)",
		[]string{"array", "predicate"},
	},
	"findLast": {
		"findLast(array, predicate)",
		[]string{"array", "predicate"},
	},
	"findLastIndex": {
		"findLastIndex(array, predicate)",
		[]string{"array", "predicate"},
	},
	"groupBy": {"groupBy(array, mapper)", []string{"array", "mapper"}},
	"sortBy":  {"sortBy(array, mapper)", []string{"array", "mapper"}},
	"count":   {"count(array, predicate)", []string{"array", "predicate"}},
	"sum":     {"sum(array)", []string{"array"}},
	"mean":    {"mean(array)", []string{"array"}},
	"median":  {"median(array)", []string{"array"}},
	"min":     {"min(array)", []string{"array"}},
	"max":     {"max(array)", []string{"array"}},
	"join":    {"join(array, separator)", []string{"array", "separator"}},
	"split": {
		"split(string, separator)",
		[]string{"string", "separator"},
	},
	"replace": {
		"replace(string, old, new)",
		[]string{"string", "old", "new"},
	},
	"trim": {"trim(string)", []string{"string"}},
	"trimPrefix": {
		"trimPrefix(string, prefix)",
		[]string{"string", "prefix"},
	},
	"trimSuffix": {
		"trimSuffix(string, suffix)",
		[]string{"string", "suffix"},
	},
	"upper":  {"upper(string)", []string{"string"}},
	"lower":  {"lower(string)", []string{"string"}},
	"int":    {"int(v)", []string{"v"}},
	"float":  {"float(v)", []string{"v"}},
	"string": {"string(v)", []string{"v"}},
	"type":   {"type(v)", []string{"v"}},
}

// exprBuiltinNames returns the sorted names of the expr-lang builtin
// functions with known signatures.
func exprBuiltinNames() []string {
	return slices.Sorted(maps.Keys(exprLangBuiltins))
}

// querySignature returns the signature of a query helper or expr-lang
// builtin, or "" if funcName is unknown.
func querySignature(funcName string) (string, []string) {
	if sig, ok := queryFunctions[funcName]; ok {
		return sig.signature, sig.params
	}

	if sig, ok := exprLangBuiltins[funcName]; ok {
		return sig.signature, sig.params
	}

	return "", nil
}

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name (e.g., "filter")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the function name, current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	// Scan backward from cursor to the unmatched opening paren.
	open, depth := -1, 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	// Walk backward collecting identifier characters before the '('.
	nameStart := open

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') {
			break
		}

		nameStart -= size
	}

	name := input[nameStart:open]
	if name == "" {
		return functionCall{}
	}

	// Count commas at depth 0 in the parameter list.
	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{
		name:     name,
		argIndex: argIndex,
		inCall:   true,
	}
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	// Parse signature: "funcName(param1, param2, ...)"
	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	closeParen := strings.LastIndex(signature, ")")
	if closeParen == -1 {
		return signatureStyle.Render(signature)
	}

	// If no parameters, just render the signature
	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	// Build the signature with highlighted current parameter
	var b strings.Builder
	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// Check if this is a variadic parameter
		isVariadic := strings.HasPrefix(param, "...")

		// Highlight the current parameter
		// For variadic parameters, highlight if we're at or beyond that index
		if (isVariadic && currentArgIdx >= i) ||
			(!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
