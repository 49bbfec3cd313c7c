package lang

import (
	"io"
	"strings"
)

// Fixed phrases of the rendered sentence template. The space in several of
// them is U+3000 IDEOGRAPHIC SPACE.
const (
	phraseInto     = "　に"
	phraseStepEnd  = "　をして"
	phraseFinished = "完成！"
	phraseOptional = "お好みで　"
	phraseObject   = "　を"
	phraseNested   = "　して"
	phraseAdd      = "加える"
	bracketOpen    = "「"
	bracketClose   = "」"
)

// Render returns the sentence form of r.
func Render(r *Recipe) string {
	var sb strings.Builder

	renderRecipe(&sb, r)

	return sb.String()
}

// String implements fmt.Stringer using [Render].
func (r *Recipe) String() string { return Render(r) }

// WriteTo implements io.WriterTo, writing the sentence form of r.
func (r *Recipe) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, Render(r))

	return int64(n), err
}

// String returns the sentence fragment for a single instruction.
func (in *Instruction) String() string {
	var sb strings.Builder

	renderInstruction(&sb, in)

	return sb.String()
}

func renderRecipe(sb *strings.Builder, r *Recipe) {
	sb.WriteString(r.Base)

	for i, in := range r.Instructions {
		if i == 0 {
			sb.WriteString(phraseInto)
		}

		sb.WriteByte('\n')
		renderInstruction(sb, in)
		sb.WriteString(phraseStepEnd)
	}

	sb.WriteByte('\n')
	sb.WriteString(phraseFinished)
}

func renderInstruction(sb *strings.Builder, in *Instruction) {
	switch in.Kind {
	case KindProcess:
		sb.WriteString(bracketOpen)
		sb.WriteString(in.Text)
		sb.WriteString(bracketClose)

	case KindIngredients:
		if in.Optional {
			sb.WriteString(phraseOptional)
		}

		sb.WriteString(bracketOpen)

		if in.Recipe != nil {
			sb.WriteString(in.Recipe.Base)
			sb.WriteString(phraseObject)

			for _, sub := range in.Recipe.Instructions {
				sb.WriteString("　")
				renderInstruction(sb, sub)
				sb.WriteString(phraseNested)
			}
		}

		sb.WriteString(phraseAdd)
		sb.WriteString(bracketClose)
	}
}
