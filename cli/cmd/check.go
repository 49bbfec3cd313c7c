package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/recipe/log"
)

// Check parses recipe sources without rendering them.
type Check struct {
	Sources []string `arg:"" default:"-" help:"Source input files or '-' for stdin." name:"source"`
}

// Run executes the check command. Every source is checked; the command fails
// if any of them does not parse.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := streamsFrom(ctx)

	var failed []string

	for _, source := range uniqueSources(c.Sources) {
		r, err := parseSource(ctx, source)
		if err != nil {
			failed = append(failed, source)

			fmt.Fprintf(s.Stdout, "%s: %v\n", source, err)
			printDetail(s.Stderr, err)

			continue
		}

		stats := r.Stats()

		log.DebugContext(ctx, "check ok",
			slog.String("source", source),
			slog.Any("stats", stats))

		fmt.Fprintf(s.Stdout, "%s: ok\n", source)
	}

	if len(failed) > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", len(failed)),
			slog.Any("sources", failed),
		)
	}

	return nil
}
