// Package cli contains the command line interface for recipe.
//
// # Usage
//
// The default command transpiles a recipe read from a file or stdin:
//
//	echo 'tofu > cut > ? + salt' | recipe
//	recipe transpile dinner.recipe
//
// Other commands check syntax, reformat recipes as canonical source, JSON or
// YAML, evaluate expressions against a recipe, and start an interactive
// transpiler:
//
//	recipe check *.recipe
//	recipe fmt json --indent=0 dinner.recipe
//	recipe query 'ingredients > 2' dinner.recipe
//	recipe repl
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (for example ~/.config/recipe). Keys of the YAML
// file are flag names, optionally nested by their hyphenated prefix:
//
//	log:
//	  level: debug
//	max-depth: 64
//
// Command-line flags override config file values. The init command writes the
// current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o recipe .
//
// Then:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/recipe/pprof)
package cli
