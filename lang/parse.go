package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Character classes of the grammar.
const (
	stopText   = ">)#\r\n" // recipe base and process steps
	stopInline = ">#\r\n"  // ingredient names written without parentheses
	blank      = " \t\r\n" // skipped between tokens
)

// Parse parses a recipe from a string using default options.
func Parse(s string) (*Recipe, error) {
	return ParseString(context.Background(), s)
}

// ParseReader parses a recipe from an io.Reader. The reader is consumed
// completely before parsing begins.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses a recipe from a string.
//
// The entire input must form exactly one recipe, optionally surrounded by
// whitespace and comments. On failure the returned error is a *[ParseError].
func ParseString(ctx context.Context, s string, opts ...Option) (*Recipe, error) {
	o := makeOptions(opts...)

	p := &parser{
		input:    s,
		line:     1,
		col:      1,
		maxDepth: o.maxDepth,
	}

	r, err := p.parseDocument()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed",
			slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("bytes", len(s)),
		slog.Int("instructions", len(r.Instructions)))

	return r, nil
}

// parser holds the parser state.
type parser struct {
	input    string
	pos      int
	line     int
	col      int
	maxDepth int
}

// parseDocument parses: Skip Recipe Skip EOF.
func (p *parser) parseDocument() (*Recipe, error) {
	r, err := p.parseRecipe(1)
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()

	if !p.eof() {
		return nil, p.fail("'>'", "end of input")
	}

	return r, nil
}

// parseRecipe parses: Text ( '>' Instruction ( '>' Instruction )* )?.
func (p *parser) parseRecipe(depth int) (*Recipe, error) {
	if depth > p.maxDepth {
		return nil, p.failWith(ErrMaxDepthExceeded.With(
			slog.Int("max_depth", p.maxDepth)))
	}

	p.skipWhitespaceAndComments()

	base, ok := p.captureText(stopText)
	if !ok {
		return nil, p.fail("recipe name")
	}

	r := &Recipe{Base: base}

	for {
		p.skipWhitespaceAndComments()

		if !p.expect('>') {
			break
		}

		in, err := p.parseInstruction(depth)
		if err != nil {
			return nil, err
		}

		r.Instructions = append(r.Instructions, in)
	}

	return r, nil
}

// parseInstruction parses: '?'? '+' Source | Text.
func (p *parser) parseInstruction(depth int) (*Instruction, error) {
	p.skipWhitespaceAndComments()

	optional := p.expect('?')
	if optional {
		p.skipWhitespaceAndComments()

		if p.peek() != '+' {
			return nil, p.fail("'+'")
		}
	}

	if p.expect('+') {
		sub, err := p.parseSource(depth)
		if err != nil {
			return nil, err
		}

		return NewIngredients(sub, optional), nil
	}

	text, ok := p.captureText(stopText)
	if !ok {
		return nil, p.fail("instruction", "'+'", "'?'")
	}

	return NewProcess(text), nil
}

// parseSource parses: '(' Recipe ')' | Inline.
func (p *parser) parseSource(depth int) (*Recipe, error) {
	p.skipWhitespaceAndComments()

	if p.expect('(') {
		r, err := p.parseRecipe(depth + 1)
		if err != nil {
			return nil, err
		}

		p.skipWhitespaceAndComments()

		if !p.expect(')') {
			return nil, p.fail("')'", "'>'")
		}

		return r, nil
	}

	name, ok := p.captureText(stopInline)
	if !ok {
		return nil, p.fail("ingredient name", "'('")
	}

	return &Recipe{Base: name}, nil
}

// captureText consumes the longest run of characters not in stop and returns
// it trimmed. It reports false without consuming anything if the run is empty.
func (p *parser) captureText(stop string) (string, bool) {
	start := p.pos

	for !p.eof() && !strings.ContainsRune(stop, p.peek()) {
		p.advance()
	}

	if p.pos == start {
		return "", false
	}

	return strings.TrimSpace(p.input[start:p.pos]), true
}

// fail returns a ParseError at the current position expecting one of the
// given descriptions.
func (p *parser) fail(expected ...string) *ParseError {
	return &ParseError{
		Pos:      p.position(),
		Expected: expected,
		Found:    p.found(),
		Source:   p.input,
	}
}

// failWith returns a ParseError at the current position caused by err.
func (p *parser) failWith(err error) *ParseError {
	return &ParseError{
		Pos:    p.position(),
		Source: p.input,
		Err:    err,
	}
}

// found describes the input at the current position.
func (p *parser) found() string {
	if p.eof() {
		return "end of input"
	}

	return strconv.QuoteRune(p.peek())
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])

	return r
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

// skipWhitespace skips ASCII blanks only. Other Unicode spaces such as U+3000
// belong to the text that follows.
func (p *parser) skipWhitespace() {
	for !p.eof() && strings.ContainsRune(blank, p.peek()) {
		p.advance()
	}
}

func (p *parser) skipWhitespaceAndComments() {
	for {
		p.skipWhitespace()

		if p.eof() || p.peek() != '#' {
			return
		}

		p.skipLineComment()
	}
}

// skipLineComment consumes a comment up to, not including, the line break.
func (p *parser) skipLineComment() {
	for !p.eof() && p.peek() != '\n' && p.peek() != '\r' {
		p.advance()
	}
}
