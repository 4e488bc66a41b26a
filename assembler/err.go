package assembler

import (
	"errors"
	"fmt"

	"github.com/ezrec/cpcasm/token"
	"github.com/ezrec/cpcasm/translate"
)

var f = translate.From

var (
	// Directive errors
	ErrEmptyBinary      = errors.New(f("empty binary file cannot be transformed"))
	ErrConfinedTooLarge = errors.New(f("confined section larger than 256 bytes"))
	ErrInfiniteLoop     = errors.New(f("loop iteration limit reached"))
	ErrZeroStep         = errors.New(f("loop step cannot be zero"))

	// Output errors
	ErrOutputOverflow   = errors.New(f("output beyond address 0xffff"))
	ErrOutputInFunction = errors.New(f("function bodies cannot produce bytes"))

	// Function errors
	ErrReturnOutside = errors.New(f("return outside of a function"))
	ErrNoReturn      = errors.New(f("function ended without return"))
	ErrRecursion     = errors.New(f("function recursion too deep"))
)

// ErrAlreadyDefined is returned when a label is defined twice in a pass.
type ErrAlreadyDefined string

func (err ErrAlreadyDefined) Error() string {
	return f("symbol %v already defined", string(err))
}

// ErrCounterExists is returned when a loop counter would hide a symbol.
type ErrCounterExists string

func (err ErrCounterExists) Error() string {
	return f("counter %v is already a symbol", string(err))
}

// ErrFunctionDefined is returned when a function is defined twice.
type ErrFunctionDefined string

func (err ErrFunctionDefined) Error() string {
	return f("function %v already defined", string(err))
}

// ErrGeneric is a free text assembling error, as raised by FAIL.
type ErrGeneric string

func (err ErrGeneric) Error() string {
	return string(err)
}

// ErrRendered is an error already turned into its final text, such as a
// parse error that carries its own location.
type ErrRendered string

func (err ErrRendered) Error() string {
	return string(err)
}

// ErrAssert is returned by a failing ASSERT.
type ErrAssert struct {
	Test    string
	Message string
}

func (err *ErrAssert) Error() string {
	if len(err.Message) == 0 {
		return f("assertion %v failed", err.Test)
	}
	return f("assertion %v failed: %v", err.Test, err.Message)
}

// ErrUnknownMacroOrStruct is returned by a call to an unknown name.
type ErrUnknownMacroOrStruct struct {
	Name    string
	Closest string
}

func (err *ErrUnknownMacroOrStruct) Error() string {
	if len(err.Closest) == 0 {
		return f("unknown macro or struct %v", err.Name)
	}
	return f("unknown macro or struct %v (did you mean %v?)", err.Name, err.Closest)
}

// ErrUnresolved is an expression that could not be evaluated because of an
// unknown symbol.
type ErrUnresolved struct {
	Name    string
	Closest string
	Err     error
}

func (err *ErrUnresolved) Error() string {
	if len(err.Closest) == 0 {
		return err.Err.Error()
	}
	return f("%v (did you mean %v?)", err.Err, err.Closest)
}

func (err *ErrUnresolved) Unwrap() error {
	return err.Err
}

// ErrMacroExpansion wraps an error raised while visiting a macro or struct
// expansion.
type ErrMacroExpansion struct {
	Kind string // MACRO or STRUCT
	Name string
	Err  error
}

func (err *ErrMacroExpansion) Error() string {
	return f("%v %v: %v", err.Kind, err.Name, err.Err)
}

func (err *ErrMacroExpansion) Unwrap() error {
	return err.Err
}

// ErrRelocated attaches a source span to an error raised by a token.
type ErrRelocated struct {
	Span token.Span
	Err  error
}

func (err *ErrRelocated) Error() string {
	return fmt.Sprintf("%v > %v", err.Span, err.Err)
}

func (err *ErrRelocated) Unwrap() error {
	return err.Err
}

// ErrOutOfRangeSlice is returned when an INCBIN slice exceeds the file.
type ErrOutOfRangeSlice struct {
	File   string
	Size   int
	Offset int
	Length int
}

func (err *ErrOutOfRangeSlice) Error() string {
	return f("%v: slice %d+%d out of %d byte(s)", err.File, err.Offset, err.Length, err.Size)
}

// ErrNonConvergent is returned when the passes do not reach a fixed point.
type ErrNonConvergent struct {
	Passes int
}

func (err *ErrNonConvergent) Error() string {
	return f("assembly did not converge after %d pass(es)", err.Passes)
}

// relocate wraps err with span, once.
func relocate(span token.Span, err error) error {
	if relocated, ok := err.(*ErrRelocated); ok && relocated.Span == span {
		return err
	}
	return &ErrRelocated{Span: span, Err: err}
}
