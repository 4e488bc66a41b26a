package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapContext map[string]Result

func (m mapContext) Symbol(name string) (Result, error) {
	r, ok := m[name]
	if !ok {
		return r, ErrUnknownSymbol(name)
	}
	return r, nil
}

func (m mapContext) Call(name string, args []Result) (Result, error) {
	fn, ok := Builtins[name]
	if !ok {
		return Result{}, ErrUnknownFunction(name)
	}
	return fn(args)
}

func eval(t *testing.T, src string, ctx Context) Result {
	e, err := Parse(src)
	if !assert.NoError(t, err, src) {
		return Result{}
	}
	r, err := e.Eval(ctx)
	assert.NoError(t, err, src)
	return r
}

func TestNumbers(t *testing.T) {
	assert := assert.New(t)

	ctx := mapContext{}
	expected := map[string]int64{
		"1+2*3":         7,
		"(1+2)*3":       9,
		"#ff":           255,
		"&4000":         0x4000,
		"$c000":         0xc000,
		"0x10":          16,
		"0FFh":          255,
		"%1010":         10,
		"0b11":          3,
		"'A'":           65,
		"'\\n'":         10,
		"7/2":           3,
		"7%4":           3,
		"1<<4":          16,
		"&ff & #0f":     15,
		"-5+2":          -3,
		"~0 & 0xff":     255,
		"007":           7,
		"2 if 1 else 3": 2,
	}
	for src, want := range expected {
		r := eval(t, src, ctx)
		got, err := r.Int()
		assert.NoError(err, src)
		assert.Equal(want, got, src)
	}
}

func TestLogic(t *testing.T) {
	assert := assert.New(t)

	ctx := mapContext{"a": Int(1), "b": Int(0)}
	assert.True(eval(t, "a && !b", ctx).Bool())
	assert.True(eval(t, "a || undefined", ctx).Bool())
	assert.False(eval(t, "b && undefined", ctx).Bool())
	assert.True(eval(t, "a == 1 and b != 1", ctx).Bool())
	assert.True(eval(t, "true", ctx).Bool())
	assert.False(eval(t, "FALSE", ctx).Bool())
	assert.True(eval(t, "!b", ctx).Bool())
	assert.True(eval(t, "not b", ctx).Bool())
	assert.True(eval(t, `"abc" < "abd"`, ctx).Bool())
}

func TestSymbols(t *testing.T) {
	assert := assert.New(t)

	e, err := Parse("start.loop + ::glob - @hidden + $ + $$ + # + ## + lbl{i} + mod.sub.x")
	assert.NoError(err)
	assert.Equal([]string{"start.loop", "::glob", "@hidden", "$", "$$", "#", "##", "lbl{i}", "mod.sub.x"}, e.Symbols())

	ctx := mapContext{
		"start.loop": Int(1), "::glob": Int(2), "@hidden": Int(3), "$": Int(4),
		"$$": Int(5), "#": Int(6), "##": Int(7), "lbl{i}": Int(8), "mod.sub.x": Int(9),
	}
	v, err := eval(t, e.String(), ctx).Int()
	assert.NoError(err)
	assert.Equal(int64(1+2-3+4+5+6+7+8+9), v)

	e, err = Parse("label")
	assert.NoError(err)
	name, ok := e.IsSymbol()
	assert.True(ok)
	assert.Equal("label", name)

	e, err = Parse("label+1")
	assert.NoError(err)
	_, ok = e.IsSymbol()
	assert.False(ok)
}

func TestUnknown(t *testing.T) {
	assert := assert.New(t)

	e, err := Parse("missing + 1")
	assert.NoError(err)
	_, err = e.Eval(mapContext{})
	assert.True(IsUnresolved(err))

	var unknown ErrUnknownSymbol
	assert.True(errors.As(err, &unknown))
	assert.Equal(ErrUnknownSymbol("missing"), unknown)

	e, err = Parse("1/0")
	assert.NoError(err)
	_, err = e.Eval(mapContext{})
	assert.ErrorIs(err, ErrDivisionByZero)
	assert.False(IsUnresolved(err))

	_, err = Parse("1 +")
	var syntaxErr *ErrSyntax
	assert.True(errors.As(err, &syntaxErr))
}

func TestBuiltins(t *testing.T) {
	assert := assert.New(t)

	ctx := mapContext{"addr": Int(0x1234)}
	v, _ := eval(t, "low(addr)", ctx).Int()
	assert.Equal(int64(0x34), v)
	v, _ = eval(t, "high(addr)", ctx).Int()
	assert.Equal(int64(0x12), v)
	v, _ = eval(t, "max(1, 7, 3) + min(4, 2)", ctx).Int()
	assert.Equal(int64(9), v)
	v, _ = eval(t, "list_len(list_push([1, 2], 3))", ctx).Int()
	assert.Equal(int64(3), v)
	v, _ = eval(t, "list_get(list_set(list_new(3, 0), 1, 5), 1)", ctx).Int()
	assert.Equal(int64(5), v)
	v, _ = eval(t, `string_len("hello")`, ctx).Int()
	assert.Equal(int64(5), v)

	assert.Equal(`[1, "a"]`, eval(t, `[1, "a"]`, ctx).String())
	assert.Equal("hello world", eval(t, `"hello" + " world"`, ctx).String())

	e, _ := Parse("low(1, 2)")
	_, err := e.Eval(ctx)
	var arity *ErrArity
	assert.True(errors.As(err, &arity))
}

func TestResultEqual(t *testing.T) {
	assert := assert.New(t)

	assert.True(Int(1).Equal(Bool(true)))
	assert.True(Int(2).Equal(Float(2)))
	assert.False(Int(2).Equal(Str("2")))
	assert.True(List(Int(1), Str("x")).Equal(List(Int(1), Str("x"))))
	assert.False(List(Int(1)).Equal(List(Int(1), Int(2))))

	v, err := Str("A").Int()
	assert.NoError(err)
	assert.Equal(int64(65), v)

	_, err = Str("AB").Int()
	var typeErr *ErrType
	assert.True(errors.As(err, &typeErr))
}

func TestApply(t *testing.T) {
	assert := assert.New(t)

	r, err := Apply("+", Int(2), Int(3))
	assert.NoError(err)
	assert.Equal(Int(5), r)

	r, err = Apply("<<", Int(1), Int(4))
	assert.NoError(err)
	assert.Equal(Int(16), r)

	_, err = Apply("/", Int(1), Int(0))
	assert.ErrorIs(err, ErrDivisionByZero)

	_, err = Apply("?", Int(1), Int(0))
	var typeErr *ErrType
	assert.True(errors.As(err, &typeErr))
}
