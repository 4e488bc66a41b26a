// Package token defines the immutable parsed form of assembler source.
package token

import (
	"fmt"

	"github.com/ezrec/cpcasm/crunch"
	"github.com/ezrec/cpcasm/expr"
)

// Span locates a token in its source.
type Span struct {
	File   string
	Line   int
	Column int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Token is one parsed statement.
type Token interface {
	Span() Span
}

// Listing is an ordered sequence of tokens.
type Listing []Token

// At is embedded in every token to carry its span.
type At struct {
	Loc Span
}

func (at At) Span() Span { return at.Loc }

// Label defines a symbol at the current address.
type Label struct {
	At
	Name string
}

// Equ defines a constant symbol.
type Equ struct {
	At
	Name  string
	Value *expr.Expr
}

// Assign sets a modifiable symbol. Op is empty or a binary operator ("+", "-", ...).
type Assign struct {
	At
	Name  string
	Op    string
	Value *expr.Expr
}

// Undef removes a symbol.
type Undef struct {
	At
	Name string
}

// Org moves the code address, and the output address when Output is set.
type Org struct {
	At
	Code   *expr.Expr
	Output *expr.Expr
}

// Defb emits bytes; string values emit their characters.
type Defb struct {
	At
	Values []*expr.Expr
}

// Defw emits little endian words.
type Defw struct {
	At
	Values []*expr.Expr
}

// Defs reserves Count bytes of Fill (zero when nil).
type Defs struct {
	At
	Count *expr.Expr
	Fill  *expr.Expr
}

// Align pads to a multiple of Boundary.
type Align struct {
	At
	Boundary *expr.Expr
	Fill     *expr.Expr
}

// Print emits a message during assembly.
type Print struct {
	At
	Values []*expr.Expr
}

// Fail aborts the assembly with a message.
type Fail struct {
	At
	Values []*expr.Expr
}

// Assert fails when Test is false.
type Assert struct {
	At
	Test    *expr.Expr
	Message *expr.Expr
}

// Operand of an instruction: a register, or an expression, optionally indirect.
type Operand struct {
	Register string
	Value    *expr.Expr
	Indirect bool
}

// Instruction is a Z80 opcode with its operands.
type Instruction struct {
	At
	Mnemonic string
	Operands []Operand
}

// MacroDef defines a macro.
type MacroDef struct {
	At
	Name   string
	Params []string
	Code   string
}

// StructField is a member of a StructDef.
type StructField struct {
	Name      string
	Directive string
	Default   string
}

// StructDef defines a struct.
type StructDef struct {
	At
	Name   string
	Fields []StructField
}

// Call invokes a macro or a struct. Void marks an explicit empty argument list.
type Call struct {
	At
	Name string
	Args []string
	Void bool
}

//go:generate go tool stringer -linecomment -type=TestKind

// TestKind selects how an If test is evaluated.
type TestKind int

const (
	TestTrue      TestKind = iota // if
	TestFalse                     // ifnot
	TestExists                    // ifdef
	TestNotExists                 // ifndef
	TestUsed                      // ifused
	TestNotUsed                   // ifnused
)

// Test is one conditional branch of an If.
type Test struct {
	Kind  TestKind
	Value *expr.Expr // TestTrue, TestFalse
	Label string     // other kinds
	Body  Listing
}

// If selects the body of the first passing test, else Else.
type If struct {
	At
	Tests []Test
	Else  Listing
}

// Repeat visits Body Count times. Counter, when named, goes from Start by Step.
type Repeat struct {
	At
	Count   *expr.Expr
	Counter string
	Start   *expr.Expr
	Step    *expr.Expr
	Body    Listing
}

// RepeatUntil visits Body until Until is true.
type RepeatUntil struct {
	At
	Until *expr.Expr
	Body  Listing
}

// While visits Body while Test is true.
type While struct {
	At
	Test *expr.Expr
	Body Listing
}

// For visits Body for Counter from Start to Stop included.
type For struct {
	At
	Counter string
	Start   *expr.Expr
	Stop    *expr.Expr
	Step    *expr.Expr
	Body    Listing
}

// Iterate visits Body once per value. A single list valued expression is
// iterated element by element.
type Iterate struct {
	At
	Counter string
	Values  []*expr.Expr
	Body    Listing
}

// Case is one SWITCH case.
type Case struct {
	Value *expr.Expr
	Body  Listing
	Break bool
}

// Switch selects cases equal to Value, falling through until a break.
type Switch struct {
	At
	Value   *expr.Expr
	Cases   []Case
	Default Listing
}

// Rorg assembles Body at another code address.
type Rorg struct {
	At
	Address *expr.Expr
	Body    Listing
}

// Confined keeps Body within a single 256 byte page.
type Confined struct {
	At
	Body Listing
}

// Module nests the symbols of Body in a namespace.
type Module struct {
	At
	Name string
	Body Listing
}

// Include assembles another source file.
type Include struct {
	At
	File      *expr.Expr
	Namespace string
	Once      bool
}

// Incbin includes a binary file, optionally compressed.
type Incbin struct {
	At
	File      *expr.Expr
	Offset    *expr.Expr
	Length    *expr.Expr
	Transform crunch.Algorithm
}

// Function defines an expression function.
type Function struct {
	At
	Name   string
	Params []string
	Body   Listing
}

// Return sets the value of the enclosing function.
type Return struct {
	At
	Value *expr.Expr
}

// CrunchedSection compresses the bytes produced by Body.
type CrunchedSection struct {
	At
	Algorithm crunch.Algorithm
	Body      Listing
}

// RestrictedAssemblingEnvironment assembles Body with its own pass budget.
type RestrictedAssemblingEnvironment struct {
	At
	Passes *expr.Expr
	Body   Listing
}

// Warning reports Message, then behaves as Inner.
type Warning struct {
	At
	Inner   Token
	Message string
}
