package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import "iter"

// Recipe is a named item and the ordered instructions applied to produce it.
// A recipe without instructions is a leaf.
type Recipe struct {
	Base         string         `json:"base"                   yaml:"base"`
	Instructions []*Instruction `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// Instruction is one step of a [Recipe].
//
// Exactly one of Text or Recipe is meaningful, selected by Kind.
type Instruction struct {
	Kind     Kind    `json:"-"                     yaml:"-"`
	Text     string  `json:"process,omitempty"     yaml:"process,omitempty"`
	Recipe   *Recipe `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	Optional bool    `json:"optional,omitempty"    yaml:"optional,omitempty"`
}

// Kind identifies the variant of an [Instruction].
type Kind int

const (
	// KindProcess is an opaque processing step stored in Instruction.Text.
	KindProcess Kind = iota // process

	// KindIngredients adds the sub-recipe stored in Instruction.Recipe.
	KindIngredients // ingredients
)

// NewRecipe returns a recipe with the given base and instructions.
func NewRecipe(base string, instructions ...*Instruction) *Recipe {
	return &Recipe{
		Base:         base,
		Instructions: instructions,
	}
}

// NewProcess returns a processing step.
func NewProcess(text string) *Instruction {
	return &Instruction{Kind: KindProcess, Text: text}
}

// NewIngredients returns an instruction adding the given sub-recipe.
func NewIngredients(recipe *Recipe, optional bool) *Instruction {
	return &Instruction{
		Kind:     KindIngredients,
		Recipe:   recipe,
		Optional: optional,
	}
}

// IsLeaf reports whether r has no instructions.
func (r *Recipe) IsLeaf() bool { return len(r.Instructions) == 0 }

// All returns an iterator over every instruction in the tree, depth-first and
// in source order, paired with its nesting depth. Top-level instructions have
// depth 0.
func (r *Recipe) All() iter.Seq2[int, *Instruction] {
	return func(yield func(int, *Instruction) bool) {
		walk(r, 0, yield)
	}
}

func walk(r *Recipe, depth int, yield func(int, *Instruction) bool) bool {
	for _, in := range r.Instructions {
		if !yield(depth, in) {
			return false
		}

		if in.Kind == KindIngredients && in.Recipe != nil {
			if !walk(in.Recipe, depth+1, yield) {
				return false
			}
		}
	}

	return true
}

// Bases returns an iterator over the base of r and of every embedded
// sub-recipe, depth-first.
func (r *Recipe) Bases() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(r.Base) {
			return
		}

		for _, in := range r.All() {
			if in.Kind == KindIngredients && in.Recipe != nil {
				if !yield(in.Recipe.Base) {
					return
				}
			}
		}
	}
}

// Stats summarizes the shape of a recipe tree.
type Stats struct {
	Depth       int `json:"depth"       yaml:"depth"`
	Steps       int `json:"steps"       yaml:"steps"`
	Ingredients int `json:"ingredients" yaml:"ingredients"`
	Optional    int `json:"optional"    yaml:"optional"`
}

// Stats counts the instructions of every kind in the tree. Depth is the
// number of recipe levels, so a leaf recipe has depth 1.
func (r *Recipe) Stats() Stats {
	s := Stats{Depth: 1}

	for depth, in := range r.All() {
		switch in.Kind {
		case KindProcess:
			s.Steps++

		case KindIngredients:
			s.Ingredients++
			if in.Optional {
				s.Optional++
			}

			s.Depth = max(s.Depth, depth+2)
		}
	}

	return s
}
