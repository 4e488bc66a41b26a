package parser

import (
	"errors"

	"github.com/ezrec/cpcasm/token"
	"github.com/ezrec/cpcasm/translate"
)

var f = translate.From

var (
	ErrMissingArgument = errors.New(f("missing argument"))
	ErrExtraArgument   = errors.New(f("too many arguments"))
	ErrBadName         = errors.New(f("invalid name"))
	ErrBreak           = errors.New(f("break must end a case"))
)

// ErrUnterminated is returned when a block directive has no end.
type ErrUnterminated string

func (err ErrUnterminated) Error() string {
	return f("%v without end", string(err))
}

// ErrUnexpected is returned for a block end with no matching start.
type ErrUnexpected string

func (err ErrUnexpected) Error() string {
	return f("unexpected %v", string(err))
}

// ErrSyntax locates a parse failure.
type ErrSyntax struct {
	Span token.Span
	Text string
	Err  error
}

func (err *ErrSyntax) Error() string {
	return f("%v > '%v' %v", err.Span, err.Text, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
