package expr

import (
	"slices"
)

// Builtin is a hard-coded expression function.
type Builtin func(args []Result) (Result, error)

func arity(name string, want int, args []Result) error {
	if len(args) != want {
		return &ErrArity{Function: name, Expected: want, Got: len(args)}
	}
	return nil
}

func intArgs(name string, want int, args []Result) (values []int64, err error) {
	if err = arity(name, want, args); err != nil {
		return
	}
	values = make([]int64, len(args))
	for n, arg := range args {
		values[n], err = arg.Int()
		if err != nil {
			return
		}
	}
	return
}

func reduce(name string, pick func(a, b int64) bool) Builtin {
	return func(args []Result) (r Result, err error) {
		if len(args) == 0 {
			return r, &ErrArity{Function: name, Expected: 1, Got: 0}
		}
		best, err := args[0].Int()
		if err != nil {
			return
		}
		for _, arg := range args[1:] {
			var v int64
			v, err = arg.Int()
			if err != nil {
				return
			}
			if pick(v, best) {
				best = v
			}
		}
		return Int(best), nil
	}
}

// Builtins are the functions available to every expression.
var Builtins = map[string]Builtin{
	"low": func(args []Result) (Result, error) {
		v, err := intArgs("low", 1, args)
		if err != nil {
			return Result{}, err
		}
		return Int(v[0] & 0xff), nil
	},
	"high": func(args []Result) (Result, error) {
		v, err := intArgs("high", 1, args)
		if err != nil {
			return Result{}, err
		}
		return Int((v[0] >> 8) & 0xff), nil
	},
	"abs": func(args []Result) (Result, error) {
		v, err := intArgs("abs", 1, args)
		if err != nil {
			return Result{}, err
		}
		return Int(max(v[0], -v[0])), nil
	},
	"min": reduce("min", func(a, b int64) bool { return a < b }),
	"max": reduce("max", func(a, b int64) bool { return a > b }),
	"list_new": func(args []Result) (Result, error) {
		if err := arity("list_new", 2, args); err != nil {
			return Result{}, err
		}
		count, err := args[0].Int()
		if err != nil {
			return Result{}, err
		}
		items := make([]Result, max(count, 0))
		for n := range items {
			items[n] = args[1]
		}
		return List(items...), nil
	},
	"list_len": func(args []Result) (Result, error) {
		if err := arity("list_len", 1, args); err != nil {
			return Result{}, err
		}
		items, err := args[0].List()
		return Int(int64(len(items))), err
	},
	"list_get": func(args []Result) (Result, error) {
		if err := arity("list_get", 2, args); err != nil {
			return Result{}, err
		}
		items, err := args[0].List()
		if err != nil {
			return Result{}, err
		}
		i, err := args[1].Int()
		if err != nil {
			return Result{}, err
		}
		if i < 0 || i >= int64(len(items)) {
			return Result{}, ErrIndexRange
		}
		return items[i], nil
	},
	"list_set": func(args []Result) (Result, error) {
		if err := arity("list_set", 3, args); err != nil {
			return Result{}, err
		}
		items, err := args[0].List()
		if err != nil {
			return Result{}, err
		}
		i, err := args[1].Int()
		if err != nil {
			return Result{}, err
		}
		if i < 0 || i >= int64(len(items)) {
			return Result{}, ErrIndexRange
		}
		items = slices.Clone(items)
		items[i] = args[2]
		return List(items...), nil
	},
	"list_push": func(args []Result) (Result, error) {
		if err := arity("list_push", 2, args); err != nil {
			return Result{}, err
		}
		items, err := args[0].List()
		if err != nil {
			return Result{}, err
		}
		return List(append(slices.Clone(items), args[1])...), nil
	},
	"string_len": func(args []Result) (Result, error) {
		if err := arity("string_len", 1, args); err != nil {
			return Result{}, err
		}
		s, err := args[0].Str()
		return Int(int64(len(s))), err
	},
}
