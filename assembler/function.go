package assembler

import (
	"strings"

	"github.com/ezrec/cpcasm/expr"
	"github.com/ezrec/cpcasm/symbols"
	"github.com/ezrec/cpcasm/token"
)

// Function is a user defined expression function.
type Function struct {
	Name   string
	Params []string
	body   []*ProcessedToken
}

// visitFunction defines the function on its first visit.
func (env *Env) visitFunction(tok *token.Function, st *functionState, ctx *token.ParseContext) (err error) {
	if st.fn != nil {
		return
	}

	key := env.symbols.Normalize(tok.Name)
	if _, exists := env.functions[key]; exists {
		return ErrFunctionDefined(tok.Name)
	}

	body, err := env.build(tok.Body, ctx)
	if err != nil {
		return
	}
	st.fn = &Function{Name: tok.Name, Params: tok.Params, body: body}
	env.functions[key] = st.fn
	return
}

// Call runs a user function, or else a builtin one.
func (env *Env) Call(name string, args []expr.Result) (r expr.Result, err error) {
	if fn, ok := env.functions[env.symbols.Normalize(name)]; ok {
		return env.call(fn, args)
	}
	if builtin, ok := expr.Builtins[strings.ToLower(name)]; ok {
		return builtin(args)
	}
	err = expr.ErrUnknownFunction(name)
	return
}

// call visits the body of fn in its own frame, until a RETURN gives its value.
func (env *Env) call(fn *Function, args []expr.Result) (r expr.Result, err error) {
	if len(args) != len(fn.Params) {
		err = &expr.ErrArity{Function: fn.Name, Expected: len(fn.Params), Got: len(args)}
		return
	}
	if env.returns.Len() >= env.opts.MaxRecursion {
		err = ErrRecursion
		return
	}

	env.symbols.EnterFunction()
	slot := &returnSlot{}
	env.returns.Push(slot)

	for n, param := range fn.Params {
		err = env.symbols.Define(param, symbols.ValueAndSource{Value: symbols.Number{Result: args[n]}})
		if err != nil {
			break
		}
	}
	if err == nil {
		_, err = env.visitAll(fn.body)
	}

	env.returns.Pop()
	if leaveErr := env.symbols.LeaveFunction(); err == nil {
		err = leaveErr
	}
	if err != nil {
		return
	}
	if !slot.set {
		err = ErrNoReturn
		return
	}
	r = slot.value
	return
}

func (env *Env) visitReturn(tok *token.Return) (err error) {
	slot, ok := env.returns.Peek()
	if !ok {
		return ErrReturnOutside
	}
	if slot.value, err = env.eval(tok.Value); err != nil {
		return
	}
	slot.set = true
	return
}
