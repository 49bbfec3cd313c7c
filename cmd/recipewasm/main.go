//go:build js && wasm

// Command recipewasm exposes the recipe transpiler to JavaScript.
//
// It registers a global function:
//
//	transpile(source: string): {ok: true, value: string} | {ok: false, error: string}
//
// and then blocks forever so the callback stays alive.
package main

import (
	"context"
	"log/slog"
	"syscall/js"

	"github.com/ardnew/recipe/lang"
	"github.com/ardnew/recipe/log"
)

func main() {
	log.Config(log.WithPretty(false), log.WithLevel(log.LevelWarn))

	js.Global().Set("transpile", js.FuncOf(transpile))

	log.Debug("recipewasm ready")

	select {}
}

func transpile(_ js.Value, args []js.Value) any {
	if len(args) != 1 || args[0].Type() != js.TypeString {
		return failure("transpile expects exactly one string argument")
	}

	return js.ValueOf(result(context.Background(), args[0].String()))
}

// result transpiles source into the object returned to JavaScript.
func result(ctx context.Context, source string) map[string]any {
	out, err := lang.TranspileContext(ctx, source, lang.WithLogger(log.Default()))
	if err != nil {
		log.DebugContext(ctx, "transpile failed", slog.Any("error", err))

		return map[string]any{"ok": false, "error": err.Error()}
	}

	return map[string]any{"ok": true, "value": out}
}

func failure(msg string) js.Value {
	return js.ValueOf(map[string]any{"ok": false, "error": msg})
}
