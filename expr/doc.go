// Package expr parses and evaluates assembler expressions.
//
// Expressions use the Starlark expression grammar (operators, precedence,
// conditional expressions, calls and lists) after a small lexical pass that
// accepts the usual assembler spellings: `#ff`, `&ff`, `$ff`, `0ffh`, `%101`,
// `'c'` character codes, `&&`, `||`, `!`, and symbol names such as
// `label.local`, `::global`, `@hidden`, `name{counter}`, `$`, `$$` and `#`.
package expr
