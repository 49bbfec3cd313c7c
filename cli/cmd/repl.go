package cmd

import (
	"bytes"
	"context"
	"io"

	"github.com/ardnew/recipe/cli/cmd/repl"
	"github.com/ardnew/recipe/log"
	"github.com/ardnew/recipe/pkg"
)

// Repl starts the interactive transpiler.
type Repl struct {
	Source string `arg:"" help:"Optional recipe file loaded as the current recipe, or '-' for stdin." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var initial io.Reader

	if r.Source != "" {
		data, err := readSource(streamsFrom(ctx), r.Source)
		if err != nil {
			return err
		}

		initial = bytes.NewReader(data)
	}

	return repl.Run(ctx, initial, cacheDir(ctx), log.Default())
}

// cacheDir returns the cache directory configured in the kong model.
func cacheDir(ctx context.Context) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			return dir
		}
	}

	return pkg.CacheDir()
}
