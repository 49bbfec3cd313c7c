package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/recipe/lang"
)

// Transpile renders a recipe source as cooking instructions.
type Transpile struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the transpile command.
func (t *Transpile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := streamsFrom(ctx)

	data, err := readSource(s, t.Source)
	if err != nil {
		return err
	}

	out, err := lang.TranspileContext(ctx, string(data), parseOptionsFrom(ctx)...)
	if err != nil {
		printDetail(s.Stderr, err)

		return lang.WrapError(err).
			With(slog.String("source", t.Source))
	}

	if _, err := fmt.Fprintln(s.Stdout, out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// printDetail writes the source snippet of a parse failure to w.
func printDetail(w io.Writer, err error) {
	var pe *lang.ParseError
	if errors.As(err, &pe) {
		fmt.Fprint(w, pe.Detail())
	}
}
