package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Query evaluates an expr-lang expression against r.
//
// The expression environment contains:
//
//	base          string  base of the top-level recipe
//	instructions  []any   top-level instructions, see [Recipe.ToMap]
//	depth         int     see [Stats]
//	steps         int     see [Stats]
//	ingredients   int     see [Stats]
//	optional      int     see [Stats]
//	bases()       []string  every recipe base in the tree, depth-first
//	processes()   []string  every process step in the tree, depth-first
//
// For example:
//
//	ingredients > 2 && "tofu" in bases()
func Query(
	ctx context.Context,
	r *Recipe,
	source string,
	opts ...Option,
) (any, error) {
	env := queryEnv(r)

	program, err := expr.Compile(source,
		expr.Env(env),
		expr.Function("bases", func(...any) (any, error) {
			return slices.Collect(r.Bases()), nil
		}, new(func() []string)),
		expr.Function("processes", func(...any) (any, error) {
			return processes(r), nil
		}, new(func() []string)),
	)
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	loggerOf(opts...).TraceContext(ctx, "query complete",
		slog.String("source", source),
		slog.String("type", resultTypeName(result)))

	return result, nil
}

// queryFunctions names the helper functions available to [Query].
var queryFunctions = []string{"bases", "processes"}

// QueryNames returns the sorted names of every variable and helper function
// available to [Query] expressions.
func QueryNames() []string {
	names := slices.AppendSeq(
		slices.Clone(queryFunctions),
		maps.Keys(queryEnv(&Recipe{})),
	)
	slices.Sort(names)

	return names
}

func queryEnv(r *Recipe) map[string]any {
	m := r.ToMap()
	s := r.Stats()

	m["depth"] = s.Depth
	m["steps"] = s.Steps
	m["ingredients"] = s.Ingredients
	m["optional"] = s.Optional

	return m
}

func processes(r *Recipe) []string {
	var texts []string

	for _, in := range r.All() {
		if in.Kind == KindProcess {
			texts = append(texts, in.Text)
		}
	}

	return texts
}

// FormatResult returns a printable form of a [Query] result. Strings are
// returned verbatim, composite values as JSON.
func FormatResult(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"

	case string:
		return val

	case bool, int, int64, float64:
		return fmt.Sprint(val)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return string(data)
}
