// Package log provides a leveled structured logger built on [log/slog].
//
// Loggers are immutable values configured with functional options at
// creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
//	logger.Info("transpiled", slog.Int("bytes", n))
//
// Attributes passed to [Logger.With] are included in every message of the
// returned logger. A zero Logger discards all messages, so packages may accept
// one as an optional dependency.
//
// # Levels
//
// In addition to the [log/slog] levels the package defines [LevelTrace],
// below [LevelDebug], for high-volume diagnostics such as per-parse events.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With [WithPretty]
// enabled (default) both are colorized for terminals.
//
// # Package-Level Logger
//
// The functions [Info], [DebugContext], etc. write to a package-level logger
// on standard error, reconfigured with [Config]. Context-unaware variants use
// [DefaultContextProvider], which returns [context.TODO] by default.
package log
