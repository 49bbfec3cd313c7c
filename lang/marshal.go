package lang

// ToMap converts the recipe to a native Go map structure.
//
// The result has the keys "base" and "instructions". Each instruction is a
// map with a "kind" key ("process" or "ingredients"); process steps carry
// "text", ingredients carry "recipe" (the nested map) and "optional".
func (r *Recipe) ToMap() map[string]any {
	instructions := make([]any, len(r.Instructions))
	for i, in := range r.Instructions {
		instructions[i] = in.ToMap()
	}

	return map[string]any{
		"base":         r.Base,
		"instructions": instructions,
	}
}

// ToMap converts the instruction to a native Go map structure.
func (in *Instruction) ToMap() map[string]any {
	m := map[string]any{"kind": in.Kind.String()}

	switch in.Kind {
	case KindProcess:
		m["text"] = in.Text

	case KindIngredients:
		m["optional"] = in.Optional
		if in.Recipe != nil {
			m["recipe"] = in.Recipe.ToMap()
		}
	}

	return m
}
