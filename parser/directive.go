package parser

import (
	"strconv"
	"strings"

	"github.com/ezrec/cpcasm/crunch"
	"github.com/ezrec/cpcasm/expr"
	"github.com/ezrec/cpcasm/token"
	"github.com/ezrec/cpcasm/z80"
)

var ifKinds = map[string]token.TestKind{
	"if":      token.TestTrue,
	"ifnot":   token.TestFalse,
	"ifdef":   token.TestExists,
	"ifndef":  token.TestNotExists,
	"ifused":  token.TestUsed,
	"ifnused": token.TestNotUsed,
}

func (p *parser) directive(st *statement, word string, rest string) (tok token.Token, err error) {
	args := splitArgs(rest)
	at := p.at(st)

	switch word {
	case "org":
		if len(args) == 0 || len(args) > 2 {
			return nil, p.fail(st, ErrMissingArgument)
		}
		org := &token.Org{At: at}
		if org.Code, err = p.expr(st, args[0]); err != nil {
			return
		}
		org.Output, err = p.optExpr(st, args, 1)
		tok = org
	case "db", "defb", "byte", "dm", "defm", "text":
		var values []*expr.Expr
		values, err = p.exprs(st, args)
		tok = &token.Defb{At: at, Values: values}
	case "dw", "defw", "word":
		var values []*expr.Expr
		values, err = p.exprs(st, args)
		tok = &token.Defw{At: at, Values: values}
	case "ds", "defs":
		if len(args) == 0 || len(args) > 2 {
			return nil, p.fail(st, ErrMissingArgument)
		}
		defs := &token.Defs{At: at}
		if defs.Count, err = p.expr(st, args[0]); err != nil {
			return
		}
		defs.Fill, err = p.optExpr(st, args, 1)
		tok = defs
	case "align":
		if len(args) == 0 || len(args) > 2 {
			return nil, p.fail(st, ErrMissingArgument)
		}
		align := &token.Align{At: at}
		if align.Boundary, err = p.expr(st, args[0]); err != nil {
			return
		}
		align.Fill, err = p.optExpr(st, args, 1)
		tok = align
	case "print":
		var values []*expr.Expr
		values, err = p.exprs(st, args)
		tok = &token.Print{At: at, Values: values}
	case "fail":
		var values []*expr.Expr
		values, err = p.exprs(st, args)
		tok = &token.Fail{At: at, Values: values}
	case "assert":
		if len(args) == 0 || len(args) > 2 {
			return nil, p.fail(st, ErrMissingArgument)
		}
		assert := &token.Assert{At: at}
		if assert.Test, err = p.expr(st, args[0]); err != nil {
			return
		}
		assert.Message, err = p.optExpr(st, args, 1)
		tok = assert
	case "undef":
		var name string
		name, err = p.name(st, rest)
		tok = &token.Undef{At: at, Name: name}
	case "macro":
		if len(args) == 0 {
			return nil, p.fail(st, ErrMissingArgument)
		}
		name, params := firstWord(args[0])
		more := args[1:]
		if len(params) != 0 {
			more = append([]string{params}, more...)
		}
		tok, err = p.macro(st, name, more)
	case "struct":
		tok, err = p.structure(st, rest)
	case "if", "ifnot", "ifdef", "ifndef", "ifused", "ifnused":
		tok, err = p.conditional(st, word, rest)
	case "repeat", "rep", "rept":
		tok, err = p.repeat(st, args)
		if err == nil && word == "rept" {
			tok = &token.Warning{At: at, Inner: tok, Message: f("REPT is deprecated, use REPEAT")}
		}
	case "while":
		w := &token.While{At: at}
		if w.Test, err = p.expr(st, rest); err != nil {
			return
		}
		w.Body, _, _, err = p.expect(st, "wend", "endw")
		tok = w
	case "for":
		tok, err = p.forLoop(st, args)
	case "iterate":
		tok, err = p.iterate(st, args)
	case "switch":
		tok, err = p.switchCase(st, rest)
	case "rorg", "phase":
		r := &token.Rorg{At: at}
		if r.Address, err = p.expr(st, rest); err != nil {
			return
		}
		r.Body, _, _, err = p.expect(st, "rend", "endrorg", "dephase")
		tok = r
	case "confined":
		c := &token.Confined{At: at}
		c.Body, _, _, err = p.expect(st, "endconfined")
		tok = c
	case "module":
		m := &token.Module{At: at}
		if m.Name, err = p.name(st, rest); err != nil {
			return
		}
		m.Body, _, _, err = p.expect(st, "endmodule")
		tok = m
	case "include", "read":
		tok, err = p.include(st, rest)
	case "incbin", "inclz48", "inclz4":
		tok, err = p.incbin(st, word, args)
	case "function":
		tok, err = p.function(st, args)
	case "return":
		r := &token.Return{At: at}
		r.Value, err = p.expr(st, rest)
		tok = r
	case "lz48", "lz4":
		alg, _ := crunch.ParseAlgorithm(word)
		c := &token.CrunchedSection{At: at, Algorithm: alg}
		c.Body, _, _, err = p.expect(st, "lzclose")
		tok = c
	case "asmcontrolenv":
		tok, err = p.restricted(st, rest)
	default:
		if z80.IsMnemonic(word) {
			tok, err = p.instruction(st, word, args)
			break
		}
		original, _ := firstWord(st.text)
		tok, err = p.call(st, original, rest)
	}

	if err != nil {
		return nil, err
	}
	return
}

func (p *parser) conditional(st *statement, word string, rest string) (tok token.Token, err error) {
	cond := &token.If{At: p.at(st)}

	kind := ifKinds[word]
	text := rest
	for {
		test := token.Test{Kind: kind}
		switch kind {
		case token.TestTrue, token.TestFalse:
			if test.Value, err = p.expr(st, text); err != nil {
				return
			}
		default:
			if test.Label, err = p.name(st, text); err != nil {
				return
			}
		}

		var end *statement
		var endWord string
		test.Body, end, endWord, err = p.expect(st, "endif", "else", "elseif", "elseifnot",
			"elseifdef", "elseifndef", "elseifused", "elseifnused")
		if err != nil {
			return
		}
		cond.Tests = append(cond.Tests, test)

		switch endWord {
		case "endif":
			return cond, nil
		case "else":
			cond.Else, _, _, err = p.expect(end, "endif")
			return cond, err
		}

		kind = ifKinds[strings.TrimPrefix(endWord, "else")]
		_, text = firstWord(end.text)
		st = end
	}
}

func (p *parser) repeat(st *statement, args []string) (tok token.Token, err error) {
	at := p.at(st)
	body, end, word, err := p.expect(st, "rend", "endr", "endrep", "until")
	if err != nil {
		return
	}

	if word == "until" {
		_, rest := firstWord(end.text)
		ru := &token.RepeatUntil{At: at, Body: body}
		ru.Until, err = p.expr(end, rest)
		return ru, err
	}

	if len(args) == 0 || len(args) > 4 {
		return nil, p.fail(st, ErrMissingArgument)
	}
	r := &token.Repeat{At: at, Body: body}
	if r.Count, err = p.expr(st, args[0]); err != nil {
		return
	}
	if len(args) > 1 {
		if r.Counter, err = p.name(st, args[1]); err != nil {
			return
		}
	}
	if r.Start, err = p.optExpr(st, args, 2); err != nil {
		return
	}
	r.Step, err = p.optExpr(st, args, 3)
	return r, err
}

func (p *parser) forLoop(st *statement, args []string) (tok token.Token, err error) {
	if len(args) < 3 || len(args) > 4 {
		return nil, p.fail(st, ErrMissingArgument)
	}
	loop := &token.For{At: p.at(st)}
	if loop.Counter, err = p.name(st, args[0]); err != nil {
		return
	}
	if loop.Start, err = p.expr(st, args[1]); err != nil {
		return
	}
	if loop.Stop, err = p.expr(st, args[2]); err != nil {
		return
	}
	if loop.Step, err = p.optExpr(st, args, 3); err != nil {
		return
	}
	loop.Body, _, _, err = p.expect(st, "endfor", "fend", "rend")
	return loop, err
}

func (p *parser) iterate(st *statement, args []string) (tok token.Token, err error) {
	if len(args) < 2 {
		// iterate x in [list]
		if len(args) == 1 {
			name, rest := firstWord(args[0])
			in, list := firstWord(rest)
			if strings.EqualFold(in, "in") {
				args = []string{name, list}
			}
		}
		if len(args) < 2 {
			return nil, p.fail(st, ErrMissingArgument)
		}
	}

	it := &token.Iterate{At: p.at(st)}
	if it.Counter, err = p.name(st, args[0]); err != nil {
		return
	}
	if it.Values, err = p.exprs(st, args[1:]); err != nil {
		return
	}
	it.Body, _, _, err = p.expect(st, "enditerate", "iend")
	return it, err
}

func (p *parser) switchCase(st *statement, rest string) (tok token.Token, err error) {
	sw := &token.Switch{At: p.at(st)}
	if sw.Value, err = p.expr(st, rest); err != nil {
		return
	}

	// Nothing but blank lines may sit between SWITCH and the first CASE.
	prelude, end, word, err := p.expect(st, "case", "default", "endswitch")
	if err != nil {
		return
	}
	if len(prelude) != 0 {
		return nil, p.fail(st, ErrUnexpected(strings.ToUpper(word)))
	}

	for {
		switch word {
		case "endswitch":
			return sw, nil
		case "default":
			sw.Default, _, _, err = p.expect(end, "endswitch")
			return sw, err
		}

		var c token.Case
		_, text := firstWord(end.text)
		if c.Value, err = p.expr(end, text); err != nil {
			return
		}
		caseStmt := end
		c.Body, end, word, err = p.expect(caseStmt, "case", "default", "break", "endswitch")
		if err != nil {
			return
		}
		if word == "break" {
			c.Break = true
			_, end, word, err = p.expect(caseStmt, "case", "default", "endswitch")
			if err != nil {
				return
			}
		}
		sw.Cases = append(sw.Cases, c)
	}
}

func (p *parser) include(st *statement, rest string) (tok token.Token, err error) {
	inc := &token.Include{At: p.at(st)}

	fileText := rest
	options := ""
	if strings.HasPrefix(rest, "\"") || strings.HasPrefix(rest, "'") {
		if end := strings.IndexByte(rest[1:], rest[0]); end >= 0 {
			fileText, options = rest[:end+2], strings.TrimSpace(rest[end+2:])
		}
	}
	if len(fileText) != 0 && fileText[0] == '\'' {
		fileText = strconv.Quote(strings.Trim(fileText, "'"))
	}
	if inc.File, err = p.expr(st, fileText); err != nil {
		return
	}

	fields := strings.Fields(options)
	for n := 0; n < len(fields); n++ {
		switch strings.ToLower(fields[n]) {
		case "once":
			inc.Once = true
		case "namespace", "module":
			if n+1 >= len(fields) {
				return nil, p.fail(st, ErrMissingArgument)
			}
			n++
			if inc.Namespace, err = p.name(st, strings.Trim(fields[n], "\"")); err != nil {
				return
			}
		default:
			return nil, p.fail(st, ErrExtraArgument)
		}
	}

	return inc, nil
}

func (p *parser) incbin(st *statement, word string, args []string) (tok token.Token, err error) {
	if len(args) == 0 || len(args) > 3 {
		return nil, p.fail(st, ErrMissingArgument)
	}
	inc := &token.Incbin{At: p.at(st)}
	switch word {
	case "inclz48":
		inc.Transform = crunch.LZ48
	case "inclz4":
		inc.Transform = crunch.LZ4
	}
	if inc.File, err = p.expr(st, args[0]); err != nil {
		return
	}
	if inc.Offset, err = p.optExpr(st, args, 1); err != nil {
		return
	}
	inc.Length, err = p.optExpr(st, args, 2)
	return inc, err
}

func (p *parser) function(st *statement, args []string) (tok token.Token, err error) {
	if len(args) == 0 {
		return nil, p.fail(st, ErrMissingArgument)
	}
	fn := &token.Function{At: p.at(st)}
	if fn.Name, err = p.name(st, args[0]); err != nil {
		return
	}
	for _, arg := range args[1:] {
		var param string
		if param, err = p.name(st, arg); err != nil {
			return
		}
		fn.Params = append(fn.Params, param)
	}
	fn.Body, _, _, err = p.expect(st, "endfunction", "endf")
	return fn, err
}

func (p *parser) restricted(st *statement, rest string) (tok token.Token, err error) {
	env := &token.RestrictedAssemblingEnvironment{At: p.at(st)}
	key, value, found := strings.Cut(rest, "=")
	if !found || !strings.EqualFold(strings.TrimSpace(key), "set_max_nb_of_passes") {
		return nil, p.fail(st, ErrMissingArgument)
	}
	if env.Passes, err = p.expr(st, value); err != nil {
		return
	}
	env.Body, _, _, err = p.expect(st, "endasmcontrolenv")
	return env, err
}

func (p *parser) operand(st *statement, text string) (op token.Operand, err error) {
	if z80.IsRegister(text) {
		op.Register = strings.ToLower(text)
		return
	}
	if inner, ok := wrapped(text); ok {
		inner = strings.TrimSpace(inner)
		op.Indirect = true
		if z80.IsRegister(inner) {
			op.Register = strings.ToLower(inner)
			return
		}
		op.Value, err = p.expr(st, inner)
		return
	}
	op.Value, err = p.expr(st, text)
	return
}

func (p *parser) instruction(st *statement, word string, args []string) (tok token.Token, err error) {
	ins := &token.Instruction{At: p.at(st), Mnemonic: word}
	for _, arg := range args {
		var op token.Operand
		if op, err = p.operand(st, arg); err != nil {
			return
		}
		ins.Operands = append(ins.Operands, op)
	}
	return ins, nil
}

func (p *parser) call(st *statement, name string, rest string) (tok token.Token, err error) {
	name, paren, hasParen := strings.Cut(name, "(")
	if hasParen {
		rest = "(" + paren + " " + rest
	}
	if name, err = p.name(st, name); err != nil {
		return
	}

	c := &token.Call{At: p.at(st), Name: name}
	rest = strings.TrimSpace(rest)
	if inner, ok := wrapped(rest); ok && strings.EqualFold(strings.TrimSpace(inner), "void") {
		c.Void = true
		return c, nil
	}
	c.Args = splitArgs(rest)
	return c, nil
}
