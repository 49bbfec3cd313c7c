package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes r as canonical recipe source.
//
// With a positive indent every instruction starts on its own line and
// embedded recipes are indented by that many spaces per level. With indent 0
// the recipe is written on a single line where possible. Parsing the output
// yields a tree equal to r.
func (r *Recipe) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	formatRecipe(&sb, r, indent, 0)

	// Final newline
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes r as JSON to the writer.
func (r *Recipe) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(r, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(r)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes r as YAML to the writer.
func (r *Recipe) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, r, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func formatRecipe(sb *strings.Builder, r *Recipe, indent, depth int) {
	sb.WriteString(r.Base)

	for _, in := range r.Instructions {
		if indent > 0 {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", depth*indent))
			sb.WriteString("> ")
		} else {
			sb.WriteString(" > ")
		}

		formatInstruction(sb, in, indent, depth)
	}
}

func formatInstruction(sb *strings.Builder, in *Instruction, indent, depth int) {
	if in.Kind == KindProcess {
		if strings.HasPrefix(in.Text, "+") || strings.HasPrefix(in.Text, "?") {
			// A leading ideographic space keeps the marker inside the text.
			sb.WriteRune('\u3000')
		}

		sb.WriteString(in.Text)

		return
	}

	if in.Optional {
		sb.WriteString("? ")
	}

	sb.WriteByte('+')

	sub := in.Recipe
	if sub == nil {
		sub = &Recipe{}
	}

	switch {
	case sub.IsLeaf() && indent > 0 && !strings.HasPrefix(sub.Base, "("):
		sb.WriteByte(' ')
		sb.WriteString(sub.Base)

	case sub.IsLeaf() && strings.ContainsRune(sub.Base, ')'):
		// Only the inline form can hold ')', and it runs to end of line.
		sb.WriteByte(' ')
		sb.WriteString(sub.Base)
		sb.WriteByte('\n')

	case sub.IsLeaf():
		sb.WriteByte('(')
		sb.WriteString(sub.Base)
		sb.WriteByte(')')

	case indent > 0:
		sb.WriteString("(\n")
		sb.WriteString(strings.Repeat(" ", (depth+1)*indent))
		formatRecipe(sb, sub, indent, depth+1)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", depth*indent))
		sb.WriteByte(')')

	default:
		sb.WriteByte('(')
		formatRecipe(sb, sub, indent, depth+1)
		sb.WriteByte(')')
	}
}
