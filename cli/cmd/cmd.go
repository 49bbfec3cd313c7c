package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/recipe/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type parseOptionsKey struct{}

// WithParseOptions returns a new context.Context carrying the parser options
// used by every command that reads a recipe.
func WithParseOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, parseOptionsKey{}, opts)
}

func parseOptionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(parseOptionsKey{}).([]lang.Option)

	return opts
}

// Streams are the standard streams used by commands.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context whose commands read and write
// the given streams instead of the process's standard streams. Nil fields
// keep their defaults.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}

	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}

	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readSource returns the content of the named source, reading stdin for "-".
func readSource(s Streams, source string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if source == stdinSource {
		data, err = io.ReadAll(s.Stdin)
	} else {
		data, err = os.ReadFile(source)
	}

	if err != nil {
		return nil, ErrReadSource.
			With(slog.String("source", source)).
			Wrap(err)
	}

	return data, nil
}

// parseSource reads and parses the named source.
func parseSource(ctx context.Context, source string) (*lang.Recipe, error) {
	data, err := readSource(streamsFrom(ctx), source)
	if err != nil {
		return nil, err
	}

	return lang.ParseString(ctx, string(data), parseOptionsFrom(ctx)...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources removes duplicate sources, comparing regular files by
// device/inode after resolving symlinks. All occurrences of "-" collapse into
// a single stdin source placed last so it reads after all regular files.
// Sources that cannot be resolved are kept so reading them reports the error.
func uniqueSources(sources []string) []string {
	unique := make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		key, ok := resolveFileKey(src)
		if ok {
			if _, exists := seen[key]; exists {
				continue
			}

			seen[key] = struct{}{}
		}

		unique = append(unique, src)
	}

	if hasStdin {
		unique = append(unique, stdinSource)
	}

	return unique
}

// resolveFileKey returns the device/inode pair of the file at path.
func resolveFileKey(path string) (fileKey, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
