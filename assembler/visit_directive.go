package assembler

import (
	"errors"
	"strings"

	"github.com/ezrec/cpcasm/expr"
	"github.com/ezrec/cpcasm/symbols"
	"github.com/ezrec/cpcasm/token"
	"github.com/ezrec/cpcasm/z80"
)

var (
	ErrByteRange    = errors.New(f("value does not fit in a byte"))
	ErrWordRange    = errors.New(f("value does not fit in a word"))
	ErrAddressRange = errors.New(f("address out of range"))
	ErrBoundary     = errors.New(f("alignment must be positive"))
)

func (env *Env) visitLabel(tok *token.Label) (out PassOutcome, err error) {
	value := symbols.PhysicalAddress{Address: uint16(env.code)}
	if out, err = env.define(tok.Name, value); err != nil {
		return
	}
	err = env.symbols.SetCurrentGlobalLabel(tok.Name)
	return
}

func (env *Env) visitEqu(tok *token.Equ) (out PassOutcome, err error) {
	r, out, err := env.evalSoft(tok.Value)
	if err != nil {
		return
	}
	o, err := env.define(tok.Name, symbols.Number{Result: r})
	out = out.Or(o)
	return
}

func (env *Env) visitAssign(tok *token.Assign) (out PassOutcome, err error) {
	r, out, err := env.evalSoft(tok.Value)
	if err != nil {
		return
	}

	if len(tok.Op) != 0 {
		var current expr.Result
		current, err = env.Symbol(tok.Name)
		if err != nil {
			if !expr.IsUnresolved(err) || !env.softFail() {
				err = env.explain(err)
				return
			}
			current, err = expr.Int(0), nil
			out = out.Or(incomplete)
		}
		if r, err = expr.Apply(tok.Op, current, r); err != nil {
			return
		}
	}

	err = env.symbols.Assign(tok.Name, symbols.ValueAndSource{Value: symbols.Number{Result: r}, Source: env.source()})
	return
}

func (env *Env) visitUndef(tok *token.Undef) error {
	_, ok, err := env.symbols.Remove(tok.Name)
	if err != nil {
		return err
	}
	if !ok {
		env.warn(f("cannot undefine unknown symbol %v", tok.Name))
	}
	return nil
}

func (env *Env) visitOrg(tok *token.Org) (out PassOutcome, err error) {
	code, out, err := env.evalInt(tok.Code)
	if err != nil {
		return
	}
	output, o, err := env.optInt(tok.Output, code)
	out = out.Or(o)
	if err != nil {
		return
	}
	if code < 0 || code > 0xffff || output < 0 || output > 0xffff {
		err = ErrAddressRange
		return
	}
	env.code = int(code)
	env.output = int(output)
	return
}

func (env *Env) visitDefb(tok *token.Defb) (out PassOutcome, err error) {
	data := []byte{}
	for _, value := range tok.Values {
		r, o, evalErr := env.evalSoft(value)
		out = out.Or(o)
		if evalErr != nil {
			return out, evalErr
		}
		if r.Kind() == expr.KindString {
			s, _ := r.Str()
			data = append(data, s...)
			continue
		}
		v, intErr := r.Int()
		if intErr != nil {
			return out, intErr
		}
		if v < -0x80 || v > 0xff {
			return out, ErrByteRange
		}
		data = append(data, byte(v))
	}
	err = env.emit(data)
	return
}

func (env *Env) visitDefw(tok *token.Defw) (out PassOutcome, err error) {
	data := []byte{}
	for _, value := range tok.Values {
		v, o, evalErr := env.evalInt(value)
		out = out.Or(o)
		if evalErr != nil {
			return out, evalErr
		}
		if v < -0x8000 || v > 0xffff {
			return out, ErrWordRange
		}
		data = append(data, byte(v), byte(v>>8))
	}
	err = env.emit(data)
	return
}

func (env *Env) fill(count int64, value *expr.Expr) (out PassOutcome, err error) {
	if count < 0 || count > pageSize {
		err = ErrAddressRange
		return
	}
	fill, out, err := env.optInt(value, 0)
	if err != nil {
		return
	}
	if fill < -0x80 || fill > 0xff {
		err = ErrByteRange
		return
	}
	data := make([]byte, count)
	for n := range data {
		data[n] = byte(fill)
	}
	err = env.emit(data)
	return
}

func (env *Env) visitDefs(tok *token.Defs) (out PassOutcome, err error) {
	count, out, err := env.evalInt(tok.Count)
	if err != nil {
		return
	}
	o, err := env.fill(count, tok.Fill)
	out = out.Or(o)
	return
}

func (env *Env) visitAlign(tok *token.Align) (out PassOutcome, err error) {
	boundary, out, err := env.evalInt(tok.Boundary)
	if err != nil {
		return
	}
	if boundary <= 0 {
		if out.Incomplete {
			return
		}
		err = ErrBoundary
		return
	}
	pad := (boundary - int64(env.code)%boundary) % boundary
	o, err := env.fill(pad, tok.Fill)
	out = out.Or(o)
	return
}

func (env *Env) visitPrint(tok *token.Print) (out PassOutcome, err error) {
	text, out, err := env.text(tok.Values)
	if err != nil {
		return
	}
	env.print(text)
	return
}

func (env *Env) visitFail(tok *token.Fail) (out PassOutcome, err error) {
	text, out, err := env.text(tok.Values)
	if err != nil {
		return
	}
	err = ErrGeneric(text)
	return
}

func (env *Env) visitAssert(tok *token.Assert) (out PassOutcome, err error) {
	r, out, err := env.evalSoft(tok.Test)
	if err != nil || out.Incomplete {
		return
	}
	if r.Bool() {
		return
	}

	failure := &ErrAssert{Test: tok.Test.String()}
	if tok.Message != nil {
		var msg expr.Result
		if msg, err = env.eval(tok.Message); err != nil {
			return
		}
		if s, strErr := msg.Str(); strErr == nil {
			failure.Message = s
		} else {
			failure.Message = msg.String()
		}
	}
	err = failure
	return
}

func (env *Env) visitInstruction(tok *token.Instruction) (out PassOutcome, err error) {
	ops := make([]z80.Operand, len(tok.Operands))
	for n, operand := range tok.Operands {
		op := z80.Operand{Register: operand.Register, Indirect: operand.Indirect}
		if operand.Value != nil {
			v, o, evalErr := env.evalInt(operand.Value)
			out = out.Or(o)
			if evalErr != nil {
				return out, evalErr
			}
			op.Value = int(v)
			op.Unresolved = o.Incomplete
		}
		ops[n] = op
	}

	code, err := z80.Encode(strings.ToLower(tok.Mnemonic), ops, uint16(env.code))
	if err != nil {
		return
	}
	err = env.emit(code)
	return
}

func (env *Env) visitMacroDef(tok *token.MacroDef) (err error) {
	exists, err := env.symbols.ExistsInCurrentPass(tok.Name)
	if err != nil {
		return
	}
	if exists && env.replaying == 0 {
		return ErrAlreadyDefined(tok.Name)
	}

	m := &symbols.Macro{
		Name:   tok.Name,
		Params: tok.Params,
		Code:   tok.Code,
		Source: env.source(),
	}
	return env.symbols.Define(tok.Name, symbols.ValueAndSource{Value: m, Source: m.Source})
}

// visitStructDef defines the struct, and for each field name.field as its
// offset.
func (env *Env) visitStructDef(tok *token.StructDef) (out PassOutcome, err error) {
	exists, err := env.symbols.ExistsInCurrentPass(tok.Name)
	if err != nil {
		return
	}
	if exists && env.replaying == 0 {
		err = ErrAlreadyDefined(tok.Name)
		return
	}

	s := &symbols.Struct{Name: tok.Name, Source: env.source()}
	for _, field := range tok.Fields {
		s.Fields = append(s.Fields, symbols.StructField{
			Name:      field.Name,
			Directive: field.Directive,
			Default:   field.Default,
		})
	}
	if err = env.symbols.Define(tok.Name, symbols.ValueAndSource{Value: s, Source: s.Source}); err != nil {
		return
	}

	for n, offset := range s.Offsets() {
		var o PassOutcome
		o, err = env.define(tok.Name+"."+s.Fields[n].Name, symbols.Number{Result: expr.Int(int64(offset))})
		out = out.Or(o)
		if err != nil {
			return
		}
	}
	return
}
