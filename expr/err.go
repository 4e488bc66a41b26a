package expr

import (
	"errors"

	"github.com/ezrec/cpcasm/translate"
)

var f = translate.From

var (
	ErrDivisionByZero = errors.New(f("division by zero"))
	ErrOverflow       = errors.New(f("integer overflow"))
	ErrIndexRange     = errors.New(f("index out of range"))
	ErrNotCallable    = errors.New(f("expression is not callable"))
)

// ErrUnknownSymbol is returned when a symbol cannot be resolved.
type ErrUnknownSymbol string

func (err ErrUnknownSymbol) Error() string {
	return f("symbol %v unknown", string(err))
}

// ErrUnknownFunction is returned when a call names no known function.
type ErrUnknownFunction string

func (err ErrUnknownFunction) Error() string {
	return f("function %v unknown", string(err))
}

// ErrType reports an operation applied to an unsuitable value.
type ErrType struct {
	Op   string
	Kind Kind
}

func (err *ErrType) Error() string {
	return f("%v not supported on %v", err.Op, err.Kind)
}

// ErrArity reports a function called with the wrong number of arguments.
type ErrArity struct {
	Function string
	Expected int
	Got      int
}

func (err *ErrArity) Error() string {
	return f("%v expects %d argument(s), got %d", err.Function, err.Expected, err.Got)
}

// ErrSyntax wraps a parse failure of the expression text.
type ErrSyntax struct {
	Source string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("expression '%v' %v", err.Source, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// IsUnresolved reports whether err is caused by an unknown symbol or
// function, which a later pass may define.
func IsUnresolved(err error) bool {
	var unknown ErrUnknownSymbol
	var function ErrUnknownFunction
	return errors.As(err, &unknown) || errors.As(err, &function)
}
