// Package cmd implements the recipe subcommands: transpile, check, fmt,
// query, repl, init and version.
//
// Commands read their parser options and standard streams from the
// [context.Context] passed to Run; see [WithParseOptions] and [WithStreams].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
