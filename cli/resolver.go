package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolveYAML is a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveYAML, "/path/to/config.yaml")
//
// Keys are flag names. Nested mappings are joined with hyphens, so both of
// these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// config file values. An empty file is a valid empty configuration.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}

	values := make(config)
	values.flatten("", doc)

	return values, nil
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten stores the leaves of m under hyphen-joined keys.
func (r config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		r[key] = scalar(value)
	}
}

// scalar converts a decoded YAML value to a form kong can map onto a flag.
// Kong requires numbers as strings for parsing.
func scalar(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		list := make([]any, len(v))
		for i, e := range v {
			list[i] = scalar(e)
		}

		return list

	default:
		return v
	}
}
