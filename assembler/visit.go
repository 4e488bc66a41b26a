package assembler

import (
	"github.com/ezrec/cpcasm/token"
)

// returning reports whether the innermost function call has its value.
func (env *Env) returning() bool {
	slot, ok := env.returns.Peek()
	return ok && slot.set
}

// visitAll visits tokens in order, stopping at the first error, which is
// relocated to the span of the token that raised it.
func (env *Env) visitAll(pts []*ProcessedToken) (out PassOutcome, err error) {
	for _, pt := range pts {
		if env.returning() {
			return
		}
		var o PassOutcome
		o, err = env.visitToken(pt)
		out = out.Or(o)
		if err != nil {
			err = relocate(pt.Token.Span(), err)
			return
		}
		env.updateDollar()
	}
	return
}

// visitToken visits one token, feeding the listing recorder with the bytes
// of data producing tokens.
func (env *Env) visitToken(pt *ProcessedToken) (out PassOutcome, err error) {
	saved := env.span
	env.span = pt.Token.Span()
	defer func() { env.span = saved }()

	record := env.Recorder != nil && env.controls.Empty() && token.HasDeferredOutput(pt.Token)
	code, output := env.code, env.output

	out, err = env.dispatch(pt)

	if record && err == nil && env.output > output {
		pg, _ := env.pages.Peek()
		env.Recorder.Record(ListingEntry{
			Span:    pt.Token.Span(),
			Address: uint16(code),
			Bytes:   pg.slice(output, env.output),
		})
	}
	return
}

func (env *Env) dispatch(pt *ProcessedToken) (out PassOutcome, err error) {
	switch tok := pt.Token.(type) {
	case *token.RestrictedAssemblingEnvironment:
		return env.visitRestricted(tok, pt.state.(*listState))
	case *token.Confined:
		return env.visitConfined(pt.state.(*confinedState))
	case *token.CrunchedSection:
		return env.visitCrunched(tok, pt.state.(*crunchState))
	case *token.Repeat:
		return env.visitRepeat(tok, pt.state.(*listState))
	case *token.RepeatUntil:
		return env.visitRepeatUntil(tok, pt.state.(*listState))
	case *token.While:
		return env.visitWhile(tok, pt.state.(*listState))
	case *token.For:
		return env.visitFor(tok, pt.state.(*listState))
	case *token.Iterate:
		return env.visitIterate(tok, pt.state.(*listState))
	case *token.Function:
		return PassOutcome{}, env.visitFunction(tok, pt.state.(*functionState), pt.ctx)
	case *token.Incbin:
		return env.visitIncbin(pt, tok, pt.state.(*incbinState))
	case *token.Include:
		return env.visitInclude(pt, tok, pt.state.(*includeState))
	case *token.If:
		return env.visitIf(tok, pt.state.(*ifState), pt.ctx)
	case *token.Switch:
		return env.visitSwitch(tok, pt.state.(*switchState))
	case *token.Rorg:
		return env.visitRorg(tok, pt.state.(*listState))
	case *token.Module:
		return env.visitModule(tok, pt.state.(*listState))
	case *token.Warning:
		return env.visitWarning(tok, pt.state.(*warningState))
	case *token.Call:
		args := tok.Args
		if tok.Void {
			args = nil
		}
		return env.visitCall(pt, tok.Name, args)
	case *token.Label:
		if env.callable(tok.Name) {
			return env.visitCall(pt, tok.Name, nil)
		}
		return env.visitLabel(tok)
	case *token.Equ:
		return env.visitEqu(tok)
	case *token.Assign:
		return env.visitAssign(tok)
	case *token.Undef:
		return PassOutcome{}, env.visitUndef(tok)
	case *token.Org:
		return env.visitOrg(tok)
	case *token.Defb:
		return env.visitDefb(tok)
	case *token.Defw:
		return env.visitDefw(tok)
	case *token.Defs:
		return env.visitDefs(tok)
	case *token.Align:
		return env.visitAlign(tok)
	case *token.Print:
		return env.visitPrint(tok)
	case *token.Fail:
		return env.visitFail(tok)
	case *token.Assert:
		return env.visitAssert(tok)
	case *token.Instruction:
		return env.visitInstruction(tok)
	case *token.MacroDef:
		return PassOutcome{}, env.visitMacroDef(tok)
	case *token.StructDef:
		return env.visitStructDef(tok)
	case *token.Return:
		return PassOutcome{}, env.visitReturn(tok)
	}

	return
}

func (env *Env) visitWarning(tok *token.Warning, st *warningState) (out PassOutcome, err error) {
	if len(st.rendered) == 0 {
		st.rendered = f("%v", tok.Message)
	}
	env.warn(st.rendered)
	return env.visitToken(st.inner)
}
