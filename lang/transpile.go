package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/recipe/log"
)

// Transpile parses input and returns its rendered sentence form.
//
// A parse failure is returned as an error whose message is "parse error: "
// followed by the failure position and expectation. errors.Is(err, ErrParse)
// reports true and errors.As recovers the underlying *ParseError.
func Transpile(input string) (string, error) {
	return TranspileContext(context.Background(), input)
}

// TranspileContext is [Transpile] with parser options. The context is only
// used for logging.
func TranspileContext(
	ctx context.Context,
	input string,
	opts ...Option,
) (string, error) {
	r, err := ParseString(ctx, input, opts...)
	if err != nil {
		return "", ErrParse.Wrap(err)
	}

	out := Render(r)

	loggerOf(opts...).TraceContext(ctx, "render complete",
		slog.Int("bytes", len(out)))

	return out, nil
}

// loggerOf returns the logger configured by opts.
func loggerOf(opts ...Option) log.Logger { return makeOptions(opts...).logger }
