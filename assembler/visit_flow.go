package assembler

import (
	"log"

	"github.com/ezrec/cpcasm/expr"
	"github.com/ezrec/cpcasm/symbols"
	"github.com/ezrec/cpcasm/token"
)

// test evaluates one IF test. An expression that cannot be resolved fails
// the test without error.
func (env *Env) test(n int, test *token.Test, st *ifState) (pass bool, out PassOutcome, err error) {
	switch test.Kind {
	case token.TestTrue, token.TestFalse:
		env.use(test.Value)
		var r expr.Result
		r, err = test.Value.Eval(env)
		if err != nil {
			if expr.IsUnresolved(err) {
				err = nil
				if env.softFail() {
					out = incomplete
				}
				return
			}
			err = env.explain(err)
			return
		}
		pass = r.Bool() == (test.Kind == token.TestTrue)
	case token.TestExists, token.TestNotExists:
		var ok bool
		if ok, err = env.symbols.Contains(test.Label); err != nil {
			return
		}
		pass = ok == (test.Kind == token.TestExists)
	case token.TestUsed, token.TestNotUsed:
		var ok bool
		if ok, err = env.symbols.IsUsed(test.Label); err != nil {
			return
		}
		pass = ok == (test.Kind == token.TestUsed)
		if previous, seen := st.decisions[n]; seen && previous != pass {
			out = additionalPass
		}
		st.decisions[n] = pass
	}
	return
}

func (env *Env) visitIf(tok *token.If, st *ifState, ctx *token.ParseContext) (out PassOutcome, err error) {
	selected := len(tok.Tests)
	body := tok.Else
	for n := range tok.Tests {
		pass, o, testErr := env.test(n, &tok.Tests[n], st)
		out = out.Or(o)
		if testErr != nil {
			return out, testErr
		}
		if pass {
			selected = n
			body = tok.Tests[n].Body
			break
		}
	}
	if len(body) == 0 {
		return
	}

	branch, ok := st.branches[selected]
	if !ok {
		if branch, err = env.build(body, ctx); err != nil {
			return
		}
		st.branches[selected] = branch
		env.stats.BranchesBuilt++
		if env.opts.Verbose {
			log.Printf("%v: built branch %d", tok.Span(), selected)
		}
	}

	o, err := env.visitAll(branch)
	out = out.Or(o)
	return
}

// visitSwitch runs the cases from the first matching one until a break.
// The default body runs when no case matched, and also when the cases ran
// to the end without a break.
func (env *Env) visitSwitch(tok *token.Switch, st *switchState) (out PassOutcome, err error) {
	value, out, err := env.evalSoft(tok.Value)
	if err != nil || out.Incomplete {
		return
	}

	matched, broke := false, false
	for n, c := range tok.Cases {
		if !matched {
			r, o, evalErr := env.evalSoft(c.Value)
			out = out.Or(o)
			if evalErr != nil {
				return out, evalErr
			}
			matched = r.Equal(value)
		}
		if !matched {
			continue
		}
		o, visitErr := env.visitAll(st.cases[n].body)
		out = out.Or(o)
		if visitErr != nil {
			return out, visitErr
		}
		if c.Break {
			broke = true
			break
		}
	}

	if st.def != nil && (!matched || !broke) {
		o, visitErr := env.visitAll(st.def.body)
		out = out.Or(o)
		err = visitErr
	}
	return
}

// iteration visits one loop iteration with its counter and seed pushed.
func (env *Env) iteration(value expr.Result, body []*ProcessedToken) (out PassOutcome, err error) {
	env.symbols.PushCounter(value)
	env.macroSeed++
	env.symbols.PushSeed(env.macroSeed)

	out, err = env.visitAll(body)

	env.symbols.PopSeed()
	if popErr := env.symbols.PopCounter(); err == nil {
		err = popErr
	}
	return
}

// counter starts a named loop counter, which must not hide a symbol.
func (env *Env) counter(name string) error {
	if len(name) == 0 {
		return nil
	}
	exists, err := env.symbols.Contains(name)
	if err != nil {
		return err
	}
	if exists {
		return ErrCounterExists(name)
	}
	return nil
}

func (env *Env) setCounter(name string, value expr.Result) error {
	if len(name) == 0 {
		return nil
	}
	return env.symbols.Define(name, symbols.ValueAndSource{Value: symbols.Counter{Result: value}, Source: env.source()})
}

func (env *Env) dropCounter(name string) {
	if len(name) != 0 {
		_, _, _ = env.symbols.Remove(name)
	}
}

func (env *Env) visitRepeat(tok *token.Repeat, st *listState) (out PassOutcome, err error) {
	count, out, err := env.evalInt(tok.Count)
	if err != nil {
		return
	}
	start, o, err := env.optInt(tok.Start, 0)
	out = out.Or(o)
	if err != nil {
		return
	}
	step, o, err := env.optInt(tok.Step, 1)
	out = out.Or(o)
	if err != nil {
		return
	}
	if count > int64(env.opts.MaxLoopIterations) {
		err = ErrInfiniteLoop
		return
	}

	if err = env.counter(tok.Counter); err != nil {
		return
	}
	defer env.dropCounter(tok.Counter)

	for n := range count {
		value := expr.Int(start + n*step)
		if err = env.setCounter(tok.Counter, value); err != nil {
			return
		}
		o, err = env.iteration(value, st.body)
		out = out.Or(o)
		if err != nil || env.returning() {
			return
		}
	}
	return
}

func (env *Env) visitRepeatUntil(tok *token.RepeatUntil, st *listState) (out PassOutcome, err error) {
	for n := 0; ; n++ {
		if n >= env.opts.MaxLoopIterations {
			err = ErrInfiniteLoop
			return
		}
		o, visitErr := env.iteration(expr.Int(int64(n)), st.body)
		out = out.Or(o)
		if visitErr != nil || env.returning() {
			return out, visitErr
		}

		r, o, evalErr := env.evalSoft(tok.Until)
		out = out.Or(o)
		if evalErr != nil {
			return out, evalErr
		}
		if o.Incomplete || r.Bool() {
			return
		}
	}
}

func (env *Env) visitWhile(tok *token.While, st *listState) (out PassOutcome, err error) {
	for n := 0; ; n++ {
		r, o, evalErr := env.evalSoft(tok.Test)
		out = out.Or(o)
		if evalErr != nil {
			return out, evalErr
		}
		if o.Incomplete || !r.Bool() {
			return
		}
		if n >= env.opts.MaxLoopIterations {
			err = ErrInfiniteLoop
			return
		}

		o, visitErr := env.iteration(expr.Int(int64(n)), st.body)
		out = out.Or(o)
		if visitErr != nil || env.returning() {
			return out, visitErr
		}
	}
}

// visitFor counts from start to stop included, in either direction.
func (env *Env) visitFor(tok *token.For, st *listState) (out PassOutcome, err error) {
	start, out, err := env.evalInt(tok.Start)
	if err != nil {
		return
	}
	stop, o, err := env.evalInt(tok.Stop)
	out = out.Or(o)
	if err != nil {
		return
	}
	step, o, err := env.optInt(tok.Step, 1)
	out = out.Or(o)
	if err != nil {
		return
	}
	if step == 0 {
		err = ErrZeroStep
		return
	}

	if err = env.counter(tok.Counter); err != nil {
		return
	}
	defer env.dropCounter(tok.Counter)

	n := 0
	for v := start; (step > 0 && v <= stop) || (step < 0 && v >= stop); v += step {
		if n >= env.opts.MaxLoopIterations {
			err = ErrInfiniteLoop
			return
		}
		n++

		value := expr.Int(v)
		if err = env.setCounter(tok.Counter, value); err != nil {
			return
		}
		o, err = env.iteration(value, st.body)
		out = out.Or(o)
		if err != nil || env.returning() {
			return
		}
	}
	return
}

// visitIterate visits the body once per value. A single list value is
// iterated element by element; other values are evaluated one at a time,
// just before their iteration.
func (env *Env) visitIterate(tok *token.Iterate, st *listState) (out PassOutcome, err error) {
	if err = env.counter(tok.Counter); err != nil {
		return
	}
	defer env.dropCounter(tok.Counter)

	run := func(value expr.Result) (err error) {
		if err = env.setCounter(tok.Counter, value); err != nil {
			return
		}
		o, err := env.iteration(value, st.body)
		out = out.Or(o)
		return
	}

	if len(tok.Values) == 1 {
		r, o, evalErr := env.evalSoft(tok.Values[0])
		out = out.Or(o)
		if evalErr != nil {
			return out, evalErr
		}
		if r.Kind() == expr.KindList {
			values, _ := r.List()
			for _, value := range values {
				if err = run(value); err != nil || env.returning() {
					return
				}
			}
			return
		}
		err = run(r)
		return
	}

	for _, value := range tok.Values {
		r, o, evalErr := env.evalSoft(value)
		out = out.Or(o)
		if evalErr != nil {
			return out, evalErr
		}
		if err = run(r); err != nil || env.returning() {
			return
		}
	}
	return
}
