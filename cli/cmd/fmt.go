package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/recipe/lang"
)

// Fmt parses a recipe and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical recipe source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// formatter writes a recipe to w with the given indent.
type formatter func(r *lang.Recipe, ctx context.Context, w io.Writer, indent int) error

// format parses source and writes it using f.
func format(
	ctx context.Context,
	source string,
	name string,
	indent int,
	f formatter,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	r, err := parseSource(ctx, source)
	if err != nil {
		printDetail(streamsFrom(ctx).Stderr, err)

		return lang.WrapError(err).
			With(slog.String("format", name))
	}

	if err := f(r, ctx, streamsFrom(ctx).Stdout, indent); err != nil {
		return ErrWriteOutput.
			With(slog.String("format", name)).
			Wrap(err)
	}

	return nil
}

// Native formats input as canonical recipe source.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output; 0 writes a single line." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, f.Source, "native", f.Indent, (*lang.Recipe).Format)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, j.Source, "json", j.Indent, (*lang.Recipe).FormatJSON)
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, y.Source, "yaml", y.Indent, (*lang.Recipe).FormatYAML)
}
