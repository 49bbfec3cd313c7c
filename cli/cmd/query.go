package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/recipe/lang"
)

// Query evaluates an expression against a parsed recipe.
type Query struct {
	Expr   string `arg:"" help:"Expression to evaluate, e.g. 'ingredients > 2'" name:"expr"`
	Source string `arg:"" help:"Source input file or '-' for stdin."             name:"source" default:"-"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	r, err := parseSource(ctx, q.Source)
	if err != nil {
		printDetail(streamsFrom(ctx).Stderr, err)

		return lang.WrapError(err).
			With(slog.String("command", "query"))
	}

	result, err := lang.Query(ctx, r, q.Expr, parseOptionsFrom(ctx)...)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "query"))
	}

	if _, err := fmt.Fprintln(streamsFrom(ctx).Stdout, lang.FormatResult(result)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
