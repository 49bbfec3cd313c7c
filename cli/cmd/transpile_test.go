package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/recipe/lang"
)

func TestTranspile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "leaf",
			input: "tofu",
			want:  "tofu\n完成！\n",
		},
		{
			name:  "process and ingredient",
			input: "aaa > bbb > + ccc",
			want:  "aaa　に\n「bbb」　をして\n「ccc　を加える」　をして\n完成！\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/stdin", func(t *testing.T) {
			ctx, stdout, _ := testStreams(tt.input)

			if err := (&Transpile{Source: stdinSource}).Run(ctx); err != nil {
				t.Fatalf("Transpile.Run() error = %v", err)
			}

			if stdout.String() != tt.want {
				t.Errorf("Transpile.Run() output = %q, want %q", stdout.String(), tt.want)
			}
		})

		t.Run(tt.name+"/file", func(t *testing.T) {
			ctx, stdout, _ := testStreams("")
			path := writeSource(t, "in.recipe", tt.input)

			if err := (&Transpile{Source: path}).Run(ctx); err != nil {
				t.Fatalf("Transpile.Run() error = %v", err)
			}

			if stdout.String() != tt.want {
				t.Errorf("Transpile.Run() output = %q, want %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestTranspile_ParseError(t *testing.T) {
	ctx, stdout, stderr := testStreams("aaa > ? bbb")

	err := (&Transpile{Source: stdinSource}).Run(ctx)
	if err == nil {
		t.Fatal("Transpile.Run() succeeded, want error")
	}

	if !errors.Is(err, lang.ErrParse) {
		t.Errorf("Transpile.Run() error = %v, want %v", err, lang.ErrParse)
	}

	if !strings.HasPrefix(err.Error(), "parse error: ") {
		t.Errorf("Transpile.Run() error = %q, want parse error prefix", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("Transpile.Run() wrote output on failure: %q", stdout.String())
	}

	if !strings.Contains(stderr.String(), "^") {
		t.Errorf("Transpile.Run() diagnostic missing caret:\n%s", stderr.String())
	}
}
