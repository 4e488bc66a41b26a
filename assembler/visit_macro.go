package assembler

import (
	"fmt"
	"log"
	"strings"

	"github.com/ezrec/cpcasm/symbols"
)

// callable reports whether name resolves to a macro or a struct.
func (env *Env) callable(name string) bool {
	if _, ok, _ := env.symbols.Macro(name); ok {
		return true
	}
	_, ok, _ := env.symbols.Struct(name)
	return ok
}

// develop generates the source text of a call.
func (env *Env) develop(name string, args []string) (kind string, source *symbols.Source, code string, err error) {
	if m, ok, _ := env.symbols.Macro(name); ok {
		kind, source = "MACRO", m.Source
		code, err = m.Develop(args)
		return
	}
	if s, ok, _ := env.symbols.Struct(name); ok {
		kind, source = "STRUCT", s.Source
		code, err = s.Develop(args)
		return
	}

	closest, found := env.symbols.Closest(name, symbols.KindMacro)
	if !found {
		closest, _ = env.symbols.Closest(name, symbols.KindStruct)
	}
	err = &ErrUnknownMacroOrStruct{Name: name, Closest: closest}
	return
}

// expand returns the expansion of a call, built on the first visit and
// rebuilt only when the generated text changes.
func (env *Env) expand(pt *ProcessedToken, name string, args []string) (st *callState, err error) {
	kind, source, code, err := env.develop(name, args)
	if err != nil {
		return
	}
	if cached, ok := pt.state.(*callState); ok && cached.kind == kind && cached.code == code {
		st = cached
		return
	}

	ctx := pt.ctx.Clone()
	ctx.Filename = fmt.Sprintf("%v > %v %v", source, kind, name)
	listing, err := env.Parser.Parse(code, ctx)
	if err != nil {
		err = ErrRendered(err.Error())
		return
	}
	body, err := env.build(listing, ctx)
	if err != nil {
		return
	}
	if env.opts.Verbose {
		log.Printf("%v: built %v %v expansion", pt.Token.Span(), kind, name)
	}

	st = &callState{kind: kind, name: name, code: code, body: body}
	pt.state = st
	return
}

// visitCall visits the expansion of a macro or struct under a fresh seed,
// so hidden labels are unique to this call.
func (env *Env) visitCall(pt *ProcessedToken, name string, args []string) (out PassOutcome, err error) {
	if len(args) == 1 && len(strings.TrimSpace(args[0])) == 0 {
		args = nil
	}
	st, err := env.expand(pt, name, args)
	if err != nil {
		return
	}

	env.macroSeed++
	env.symbols.PushSeed(env.macroSeed)
	mark := len(env.diagnostics)
	out, err = env.visitAll(st.body)
	env.symbols.PopSeed()
	env.retag(mark, pt.Token.Span())

	if err != nil {
		err = &ErrMacroExpansion{Kind: st.kind, Name: st.name, Err: err}
	}
	return
}
