package expr

import (
	"math"
	"strconv"
	"strings"
)

// Result is the value of an evaluated expression.
type Result struct {
	kind Kind
	i    int64
	f    float64
	s    string
	list []Result
}

func Int(v int64) Result {
	return Result{kind: KindInt, i: v}
}

func Float(v float64) Result {
	return Result{kind: KindFloat, f: v}
}

func Bool(v bool) Result {
	if v {
		return Result{kind: KindBool, i: 1}
	}
	return Result{kind: KindBool}
}

func Str(v string) Result {
	return Result{kind: KindString, s: v}
}

func List(values ...Result) Result {
	return Result{kind: KindList, list: values}
}

// Kind returns the kind of the value.
func (r Result) Kind() Kind {
	return r.kind
}

// Int converts the value to an integer. Single character strings give their code.
func (r Result) Int() (int64, error) {
	switch r.kind {
	case KindInt, KindBool:
		return r.i, nil
	case KindFloat:
		return int64(math.Trunc(r.f)), nil
	case KindString:
		if len(r.s) == 1 {
			return int64(r.s[0]), nil
		}
	}
	return 0, &ErrType{Op: "int", Kind: r.kind}
}

// Float converts a numeric value to a float.
func (r Result) Float() (float64, error) {
	switch r.kind {
	case KindInt, KindBool:
		return float64(r.i), nil
	case KindFloat:
		return r.f, nil
	}
	return 0, &ErrType{Op: "float", Kind: r.kind}
}

// Bool is the truth value: non-zero numbers, non-empty strings and lists.
func (r Result) Bool() bool {
	switch r.kind {
	case KindFloat:
		return r.f != 0
	case KindString:
		return len(r.s) != 0
	case KindList:
		return len(r.list) != 0
	default:
		return r.i != 0
	}
}

// Str returns the content of a string value.
func (r Result) Str() (string, error) {
	if r.kind != KindString {
		return "", &ErrType{Op: "string", Kind: r.kind}
	}
	return r.s, nil
}

// List returns the elements of a list value.
func (r Result) List() ([]Result, error) {
	if r.kind != KindList {
		return nil, &ErrType{Op: "list", Kind: r.kind}
	}
	return r.list, nil
}

func (r Result) numeric() bool {
	return r.kind == KindInt || r.kind == KindBool || r.kind == KindFloat
}

// Equal compares two values. Numbers compare by value whatever their kind.
func (r Result) Equal(o Result) bool {
	if r.numeric() && o.numeric() {
		if r.kind == KindFloat || o.kind == KindFloat {
			a, _ := r.Float()
			b, _ := o.Float()
			return a == b
		}
		return r.i == o.i
	}
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case KindString:
		return r.s == o.s
	case KindList:
		if len(r.list) != len(o.list) {
			return false
		}
		for n := range r.list {
			if !r.list[n].Equal(o.list[n]) {
				return false
			}
		}
		return true
	}
	return false
}

func (r Result) String() string {
	switch r.kind {
	case KindInt:
		return strconv.FormatInt(r.i, 10)
	case KindFloat:
		return strconv.FormatFloat(r.f, 'g', -1, 64)
	case KindBool:
		if r.i != 0 {
			return "true"
		}
		return "false"
	case KindString:
		return r.s
	case KindList:
		parts := make([]string, len(r.list))
		for n, item := range r.list {
			if item.kind == KindString {
				parts[n] = strconv.Quote(item.s)
			} else {
				parts[n] = item.String()
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "?"
}
