package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/recipe/lang"
	"github.com/ardnew/recipe/log"
)

const defaultEditor = "vi"

// editTemplate seeds the editor when there is no current recipe.
const editTemplate = `# Enter a recipe. Lines starting with '#' are comments.
#
# tofu
# > cut into cubes
# > ? + salt
`

// editRecipeCommand implements [tea.ExecCommand] for the edit-parse-retry
// loop. It formats the current recipe to a temp file, opens the user's editor,
// and re-parses the result. On parse error the user is prompted to re-edit;
// declining exits the program.
type editRecipeCommand struct {
	recipe  *lang.Recipe
	ctxFunc func() context.Context
	edited  *lang.Recipe
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editRecipeCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editRecipeCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editRecipeCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. If the user declines to re-edit
// after a parse error, it returns [ErrEditDeclined].
func (c *editRecipeCommand) Run() error {
	ctx := c.ctxFunc()

	content := editTemplate

	if c.recipe != nil {
		var buf bytes.Buffer
		if err := c.recipe.Format(ctx, &buf, 2); err != nil {
			return fmt.Errorf("format recipe: %w", err)
		}

		content = buf.String()
	}

	f, err := os.CreateTemp(os.TempDir(), "recipe-repl-*.recipe")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// Only comments and whitespace left: treat as cancelled.
		if isBlank(data) {
			return nil
		}

		edited, parseErr := lang.ParseString(ctx, string(data),
			lang.WithLogger(c.logger))
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.edited = edited

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", formatError(parseErr))
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Keep the failed content for the next editor iteration.
		content = string(data)
	}
}

// isBlank reports whether data holds nothing but whitespace and comments.
func isBlank(data []byte) bool {
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return false
		}
	}

	return true
}

// runEditor launches the user's editor on the given file path and returns the
// edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
