package symbols

import (
	"errors"

	"github.com/ezrec/cpcasm/translate"
)

var f = translate.From

var (
	ErrNoNamespace     = errors.New(f("no namespace to leave"))
	ErrNoSeed          = errors.New(f("hidden label used outside of a macro or loop"))
	ErrNoFunctionFrame = errors.New(f("no function frame to leave"))
	ErrNoCounter       = errors.New(f("no counter to pop"))
)

// ErrCannotModify is returned when assigning to a symbol that was not assigned before.
type ErrCannotModify string

func (err ErrCannotModify) Error() string {
	return f("symbol %v cannot be modified", string(err))
}

// ErrWrongKind is returned when a symbol exists but holds another kind of value.
type ErrWrongKind struct {
	Name     string
	Expected Kind
	Got      Kind
}

func (err *ErrWrongKind) Error() string {
	return f("symbol %v is a %v, not a %v", err.Name, err.Got, err.Expected)
}

// ErrArgumentCount reports a macro or struct call with the wrong argument count.
type ErrArgumentCount struct {
	Name     string
	Expected int
	Got      int
}

func (err *ErrArgumentCount) Error() string {
	return f("%v expects %d argument(s), got %d", err.Name, err.Expected, err.Got)
}

// ErrPattern reports a failed {pattern} substitution in a symbol name.
type ErrPattern struct {
	Symbol string
	Err    error
}

func (err *ErrPattern) Error() string {
	return f("cannot expand %v: %v", err.Symbol, err.Err)
}

func (err *ErrPattern) Unwrap() error {
	return err.Err
}
