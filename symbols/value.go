package symbols

import (
	"fmt"

	"github.com/ezrec/cpcasm/expr"
)

// Source locates the definition of a symbol.
type Source struct {
	File   string
	Line   int
	Column int
}

func (s *Source) String() string {
	if s == nil {
		return "?"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Value is the payload of a symbol.
type Value interface {
	Kind() Kind
}

// ValueAndSource is a value with the location of its definition, if known.
type ValueAndSource struct {
	Value  Value
	Source *Source
}

// Number is the result of an expression.
type Number struct {
	Result expr.Result
}

func (Number) Kind() Kind { return KindNumber }

// String is a text value.
type String string

func (String) Kind() Kind { return KindString }

// PhysicalAddress is an address in a memory page.
type PhysicalAddress struct {
	Address uint16
	Page    int
}

func (PhysicalAddress) Kind() Kind { return KindAddress }

// Counter is the current value of a loop counter.
type Counter struct {
	Result expr.Result
}

func (Counter) Kind() Kind { return KindCounter }

// ToResult converts a value to an expression result.
func ToResult(v Value) (r expr.Result, ok bool) {
	switch v := v.(type) {
	case Number:
		return v.Result, true
	case Counter:
		return v.Result, true
	case String:
		return expr.Str(string(v)), true
	case PhysicalAddress:
		return expr.Int(int64(v.Address)), true
	case *Struct:
		return expr.Int(int64(v.Size())), true
	}
	return
}

func valueText(v Value) (string, bool) {
	r, ok := ToResult(v)
	if !ok {
		return "", false
	}
	return r.String(), true
}
