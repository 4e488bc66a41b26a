package expr

import (
	"math/big"
	"slices"
	"strings"

	"go.starlark.net/syntax"
)

// Context resolves symbols and function calls during evaluation.
type Context interface {
	Symbol(name string) (Result, error)
	Call(name string, args []Result) (Result, error)
}

// Expr is a parsed expression. It is immutable and may be evaluated many times.
type Expr struct {
	src     string
	node    syntax.Expr
	symbols map[string]string // placeholder to symbol name
	calls   map[string]string // placeholder to function name
	order   []string
}

// Parse an expression.
func Parse(src string) (e *Expr, err error) {
	text := strings.TrimSpace(src)
	lx := &lexer{src: text, index: map[string]string{}}
	err = lx.run()
	if err != nil {
		err = &ErrSyntax{Source: text, Err: err}
		return
	}

	opts := syntax.FileOptions{}
	// A leading blank would parse as an indent.
	node, err := opts.ParseExpr("expr", strings.TrimSpace(lx.out.String()), 0)
	if err != nil {
		err = &ErrSyntax{Source: text, Err: err}
		return
	}

	e = &Expr{
		src:     text,
		node:    node,
		symbols: map[string]string{},
		calls:   map[string]string{},
		order:   lx.symbols,
	}
	for key, name := range lx.index {
		if strings.HasPrefix(key, "()") {
			e.calls[name] = key[2:]
		} else {
			e.symbols[name] = key
		}
	}

	return
}

// MustParse is Parse for known-good expressions.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expr) String() string {
	return e.src
}

// Symbols lists the symbol names referenced, in order of appearance.
func (e *Expr) Symbols() []string {
	return slices.Clone(e.order)
}

// IsSymbol reports whether the expression is exactly one symbol, and its name.
func (e *Expr) IsSymbol() (name string, ok bool) {
	ident, ok := e.node.(*syntax.Ident)
	if !ok {
		return
	}
	name, ok = e.symbols[ident.Name]
	return
}

// Eval evaluates the expression.
func (e *Expr) Eval(ctx Context) (Result, error) {
	return e.eval(e.node, ctx)
}

func (e *Expr) eval(node syntax.Expr, ctx Context) (r Result, err error) {
	switch n := node.(type) {
	case *syntax.Literal:
		switch v := n.Value.(type) {
		case int64:
			r = Int(v)
		case *big.Int:
			err = ErrOverflow
		case float64:
			r = Float(v)
		case string:
			r = Str(v)
		default:
			err = &ErrType{Op: "literal", Kind: KindString}
		}
	case *syntax.Ident:
		switch n.Name {
		case "True":
			r = Bool(true)
		case "False":
			r = Bool(false)
		default:
			name, ok := e.symbols[n.Name]
			if !ok {
				err = ErrUnknownSymbol(n.Name)
				return
			}
			r, err = ctx.Symbol(name)
		}
	case *syntax.ParenExpr:
		r, err = e.eval(n.X, ctx)
	case *syntax.UnaryExpr:
		r, err = e.unary(n, ctx)
	case *syntax.BinaryExpr:
		r, err = e.binary(n, ctx)
	case *syntax.CondExpr:
		var cond Result
		cond, err = e.eval(n.Cond, ctx)
		if err != nil {
			return
		}
		if cond.Bool() {
			r, err = e.eval(n.True, ctx)
		} else {
			r, err = e.eval(n.False, ctx)
		}
	case *syntax.ListExpr:
		items := make([]Result, len(n.List))
		for i, item := range n.List {
			items[i], err = e.eval(item, ctx)
			if err != nil {
				return
			}
		}
		r = List(items...)
	case *syntax.IndexExpr:
		r, err = e.index(n, ctx)
	case *syntax.CallExpr:
		ident, ok := n.Fn.(*syntax.Ident)
		if !ok {
			err = ErrNotCallable
			return
		}
		name, ok := e.calls[ident.Name]
		if !ok {
			err = ErrNotCallable
			return
		}
		args := make([]Result, len(n.Args))
		for i, arg := range n.Args {
			args[i], err = e.eval(arg, ctx)
			if err != nil {
				return
			}
		}
		r, err = ctx.Call(name, args)
	default:
		err = &ErrSyntax{Source: e.src, Err: ErrNotCallable}
	}
	return
}

func (e *Expr) unary(n *syntax.UnaryExpr, ctx Context) (r Result, err error) {
	x, err := e.eval(n.X, ctx)
	if err != nil {
		return
	}
	switch n.Op {
	case syntax.NOT:
		r = Bool(!x.Bool())
	case syntax.PLUS:
		if !x.numeric() {
			err = &ErrType{Op: "+", Kind: x.kind}
		}
		r = x
	case syntax.MINUS:
		switch x.kind {
		case KindFloat:
			r = Float(-x.f)
		case KindInt, KindBool:
			r = Int(-x.i)
		default:
			err = &ErrType{Op: "-", Kind: x.kind}
		}
	case syntax.TILDE:
		var v int64
		v, err = x.Int()
		r = Int(^v)
	default:
		err = &ErrType{Op: n.Op.String(), Kind: x.kind}
	}
	return
}

func (e *Expr) index(n *syntax.IndexExpr, ctx Context) (r Result, err error) {
	x, err := e.eval(n.X, ctx)
	if err != nil {
		return
	}
	y, err := e.eval(n.Y, ctx)
	if err != nil {
		return
	}
	i, err := y.Int()
	if err != nil {
		return
	}
	switch x.kind {
	case KindList:
		if i < 0 || i >= int64(len(x.list)) {
			err = ErrIndexRange
			return
		}
		r = x.list[i]
	case KindString:
		if i < 0 || i >= int64(len(x.s)) {
			err = ErrIndexRange
			return
		}
		r = Int(int64(x.s[i]))
	default:
		err = &ErrType{Op: "[]", Kind: x.kind}
	}
	return
}

func (e *Expr) binary(n *syntax.BinaryExpr, ctx Context) (r Result, err error) {
	x, err := e.eval(n.X, ctx)
	if err != nil {
		return
	}

	switch n.Op {
	case syntax.AND:
		if !x.Bool() {
			return Bool(false), nil
		}
		var y Result
		y, err = e.eval(n.Y, ctx)
		return Bool(y.Bool()), err
	case syntax.OR:
		if x.Bool() {
			return Bool(true), nil
		}
		var y Result
		y, err = e.eval(n.Y, ctx)
		return Bool(y.Bool()), err
	}

	y, err := e.eval(n.Y, ctx)
	if err != nil {
		return
	}

	return Binary(n.Op, x, y)
}

var assignOps = map[string]syntax.Token{
	"+":  syntax.PLUS,
	"-":  syntax.MINUS,
	"*":  syntax.STAR,
	"/":  syntax.SLASH,
	"%":  syntax.PERCENT,
	"&":  syntax.AMP,
	"|":  syntax.PIPE,
	"^":  syntax.CIRCUMFLEX,
	"<<": syntax.LTLT,
	">>": syntax.GTGT,
}

// Apply applies the operator of a compound assignment, such as "+" for "+=".
func Apply(op string, x, y Result) (Result, error) {
	tok, ok := assignOps[op]
	if !ok {
		return Result{}, &ErrType{Op: op, Kind: x.kind}
	}
	return Binary(tok, x, y)
}

// Binary applies a binary operator to two values.
func Binary(op syntax.Token, x, y Result) (r Result, err error) {
	switch op {
	case syntax.EQL:
		return Bool(x.Equal(y)), nil
	case syntax.NEQ:
		return Bool(!x.Equal(y)), nil
	case syntax.LT, syntax.GT, syntax.LE, syntax.GE:
		return compare(op, x, y)
	}

	if x.kind == KindString && y.kind == KindString && op == syntax.PLUS {
		return Str(x.s + y.s), nil
	}
	if x.kind == KindList && y.kind == KindList && op == syntax.PLUS {
		return List(append(slices.Clone(x.list), y.list...)...), nil
	}
	if !x.numeric() || !y.numeric() {
		kind := x.kind
		if x.numeric() {
			kind = y.kind
		}
		return r, &ErrType{Op: op.String(), Kind: kind}
	}

	if x.kind == KindFloat || y.kind == KindFloat {
		a, _ := x.Float()
		b, _ := y.Float()
		switch op {
		case syntax.PLUS:
			return Float(a + b), nil
		case syntax.MINUS:
			return Float(a - b), nil
		case syntax.STAR:
			return Float(a * b), nil
		case syntax.SLASH:
			if b == 0 {
				return r, ErrDivisionByZero
			}
			return Float(a / b), nil
		}
	}

	a, _ := x.Int()
	b, _ := y.Int()
	switch op {
	case syntax.PLUS:
		r = Int(a + b)
	case syntax.MINUS:
		r = Int(a - b)
	case syntax.STAR:
		r = Int(a * b)
	case syntax.SLASH, syntax.SLASHSLASH:
		if b == 0 {
			return r, ErrDivisionByZero
		}
		r = Int(a / b)
	case syntax.PERCENT:
		if b == 0 {
			return r, ErrDivisionByZero
		}
		r = Int(a % b)
	case syntax.AMP:
		r = Int(a & b)
	case syntax.PIPE:
		r = Int(a | b)
	case syntax.CIRCUMFLEX:
		r = Int(a ^ b)
	case syntax.LTLT:
		r = Int(a << uint64(b&63))
	case syntax.GTGT:
		r = Int(a >> uint64(b&63))
	default:
		err = &ErrType{Op: op.String(), Kind: x.kind}
	}
	return
}

func compare(op syntax.Token, x, y Result) (r Result, err error) {
	var c int
	switch {
	case x.kind == KindString && y.kind == KindString:
		c = strings.Compare(x.s, y.s)
	case x.numeric() && y.numeric():
		a, _ := x.Float()
		b, _ := y.Float()
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	default:
		return r, &ErrType{Op: op.String(), Kind: y.kind}
	}

	switch op {
	case syntax.LT:
		r = Bool(c < 0)
	case syntax.GT:
		r = Bool(c > 0)
	case syntax.LE:
		r = Bool(c <= 0)
	default:
		r = Bool(c >= 0)
	}
	return
}
