package assembler

import (
	"bytes"
	"log"

	"github.com/ezrec/cpcasm/crunch"
	"github.com/ezrec/cpcasm/token"
)

// visitRorg assembles the body at another code address. The output address
// is unchanged, and the code address keeps its offset from it afterwards.
func (env *Env) visitRorg(tok *token.Rorg, st *listState) (out PassOutcome, err error) {
	address, out, err := env.evalInt(tok.Address)
	if err != nil {
		return
	}
	if address < 0 || address > 0xffff {
		err = ErrAddressRange
		return
	}

	delta := env.code - env.output
	env.code = int(address)
	env.updateDollar()

	o, err := env.visitAll(st.body)
	out = out.Or(o)
	env.code = (env.output + delta) & 0xffff
	return
}

func (env *Env) visitModule(tok *token.Module, st *listState) (out PassOutcome, err error) {
	env.symbols.EnterNamespace(tok.Name)
	out, err = env.visitAll(st.body)
	if err != nil {
		return
	}
	_, err = env.symbols.LeaveNamespace()
	return
}

// visitConfined keeps the body in one 256 byte page, padding before it
// with zeros when the size measured by the previous pass would cross a
// page boundary.
func (env *Env) visitConfined(st *confinedState) (out PassOutcome, err error) {
	if st.known {
		if used := env.code & 0xff; used+st.size > 0x100 {
			if err = env.emit(make([]byte, 0x100-used)); err != nil {
				return
			}
		}
	}

	start := env.output
	out, err = env.visitAll(st.body)
	if err != nil {
		return
	}

	size := env.output - start
	if size > 0x100 {
		err = ErrConfinedTooLarge
		return
	}
	if !st.known || st.size != size {
		st.size, st.known = size, true
		out = out.Or(additionalPass)
	}
	return
}

// visitCrunched assembles the body aside, then emits its compressed bytes.
// The compressor only runs when the raw bytes differ from the previous pass.
func (env *Env) visitCrunched(tok *token.CrunchedSection, st *crunchState) (out PassOutcome, err error) {
	code, output := env.code, env.output

	scratch := newPage()
	env.pages.Push(scratch)
	out, err = env.visitAll(st.body)
	env.pages.Pop()
	if err != nil {
		return
	}
	raw := scratch.slice(output, env.output)
	env.code, env.output = code, output

	if !st.valid || !bytes.Equal(raw, st.raw) {
		var packed []byte
		if packed, err = crunch.Compress(tok.Algorithm, raw); err != nil {
			return
		}
		env.stats.Crunches++
		if env.opts.Verbose {
			log.Printf("%v: crunched %d byte(s) into %d with %v", tok.Span(), len(raw), len(packed), tok.Algorithm)
		}
		st.raw, st.packed, st.valid = raw, packed, true
	}

	err = env.emit(st.packed)
	return
}

// visitRestricted runs inner passes over the body until it converges, then
// writes the output of the last inner pass.
func (env *Env) visitRestricted(tok *token.RestrictedAssemblingEnvironment, st *listState) (out PassOutcome, err error) {
	budget := int64(env.opts.MaxPasses)
	if tok.Passes != nil {
		if budget, out, err = env.evalInt(tok.Passes); err != nil {
			return
		}
	}
	budget = max(budget, 1)

	ctl := &controlStore{}
	env.controls.Push(ctl)
	o, err := env.innerPasses(tok, st, ctl, int(budget))
	env.controls.Pop()
	out = out.Or(o)
	if err != nil {
		return
	}

	for _, cmd := range ctl.commands {
		if err = env.writeAt(cmd.address, cmd.data); err != nil {
			return
		}
	}
	return
}

// innerPasses returns the changes seen by the first inner pass, which
// compares the body with the last outer pass.
func (env *Env) innerPasses(tok *token.RestrictedAssemblingEnvironment, st *listState, ctl *controlStore, budget int) (outer PassOutcome, err error) {
	code, output, seed := env.code, env.output, env.macroSeed
	mark := len(env.diagnostics)

	for inner := 1; ; inner++ {
		ctl.remaining = budget - inner
		ctl.page = newPage()
		ctl.commands = nil
		env.diagnostics = env.diagnostics[:mark]
		env.code, env.output, env.macroSeed = code, output, seed
		env.updateDollar()

		if inner > 1 {
			env.replaying++
		}
		env.pages.Push(ctl.page)
		var out PassOutcome
		out, err = env.visitAll(st.body)
		env.pages.Pop()
		if inner > 1 {
			env.replaying--
		} else {
			outer.AdditionalPass = out.AdditionalPass
		}

		if err != nil {
			return
		}
		if out.Converged() {
			return
		}
		if ctl.remaining <= 0 {
			err = &ErrNonConvergent{Passes: budget}
			return
		}
		if env.opts.Verbose {
			log.Printf("%v: inner pass %d of %d", tok.Span(), inner+1, budget)
		}
	}
}
