// Package lang implements the recipe description language: a tiny DSL
// describing a base item and the ordered instructions applied to it, where an
// instruction may embed a complete sub-recipe.
//
// A parsed [Recipe] renders into a fixed Japanese sentence template, and can
// also be re-emitted as canonical source, JSON or YAML, or queried with
// expr-lang expressions.
//
// # Grammar
//
// Informal EBNF, with whitespace and comments allowed between every pair of
// adjacent symbols:
//
//	Recipe      → Text ( '>' Instruction ( '>' Instruction )* )?
//	Instruction → '?'? '+' Source
//	            | Text
//	Source      → '(' Recipe ')'
//	            | Inline
//	Text        → <chars except '>' ')' '#' CR LF, trimmed, non-empty>
//	Inline      → <chars except '>' '#' CR LF, trimmed, non-empty>
//	Comment     → '#' <chars up to end of line>
//
// The '?' and '+' characters are reserved at the start of an instruction: a
// processing step can never begin with either of them.
//
// # Example
//
//	# a comment
//	rice > wash
//	> + (miso soup > + tofu
//	)
//	> ? + (sesame > roast)
//
// renders as
//
//	rice　に
//	「wash」　をして
//	「miso soup　を　「tofu　を加える」　して加える」　をして
//	お好みで　「sesame　を　「roast」　して加える」　をして
//	完成！
//
// # Boundary
//
// [Transpile] is the single entry point for hosts that only exchange strings.
// Failures carry the fixed "parse error: " prefix.
package lang
