package symbols

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/cpcasm/expr"
)

func number(v int64) ValueAndSource {
	return ValueAndSource{Value: Number{Result: expr.Int(v)}}
}

func intOf(t *testing.T, tbl *Table, name string) int64 {
	vs, ok, err := tbl.Resolve(name)
	assert.NoError(t, err)
	if !assert.True(t, ok, name) {
		return -1
	}
	r, ok := ToResult(vs.Value)
	assert.True(t, ok)
	v, err := r.Int()
	assert.NoError(t, err)
	return v
}

func TestTableNamespaces(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	assert.NoError(tbl.Define("value", number(1)))

	tbl.EnterNamespace("mod")
	assert.NoError(tbl.Define("value", number(2)))
	assert.NoError(tbl.Define("other", number(3)))

	// Qualified before bare.
	assert.Equal(int64(2), intOf(t, tbl, "value"))
	// :: forces the global one.
	assert.Equal(int64(1), intOf(t, tbl, "::value"))

	ns, err := tbl.LeaveNamespace()
	assert.NoError(err)
	assert.Equal("mod", ns)

	assert.Equal(int64(1), intOf(t, tbl, "value"))
	assert.Equal(int64(2), intOf(t, tbl, "mod.value"))
	assert.Equal(int64(3), intOf(t, tbl, "mod.other"))

	ok, err := tbl.Contains("other")
	assert.NoError(err)
	assert.False(ok)

	_, err = tbl.LeaveNamespace()
	assert.ErrorIs(err, ErrNoNamespace)

	// A bare name falls back to global when absent from the namespace.
	tbl.EnterNamespace("mod")
	tbl.EnterNamespace("sub")
	assert.NoError(tbl.Define("::glob", number(4)))
	assert.Equal(int64(4), intOf(t, tbl, "glob"))
	assert.Equal(int64(3), intOf(t, tbl, "mod.other"))
	assert.Equal([]string{"mod", "sub"}, tbl.Namespaces())
}

func TestTableLocalAndHidden(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	assert.NoError(tbl.SetCurrentGlobalLabel("start"))
	assert.NoError(tbl.Define(".loop", number(0x10)))
	assert.Equal(int64(0x10), intOf(t, tbl, "start.loop"))

	// Local and hidden labels keep the global label they follow.
	assert.NoError(tbl.SetCurrentGlobalLabel(".loop"))
	assert.Equal("start", tbl.CurrentGlobalLabel())
	assert.Equal(int64(0x10), intOf(t, tbl, ".loop"))
	assert.NoError(tbl.SetCurrentGlobalLabel("@loop"))
	assert.Equal("start", tbl.CurrentGlobalLabel())

	_, err := tbl.Expand("@loop")
	assert.ErrorIs(err, ErrNoSeed)

	tbl.PushSeed(1)
	first, err := tbl.Expand("@loop")
	assert.NoError(err)
	tbl.PopSeed()

	tbl.PushSeed(2)
	second, err := tbl.Expand("@loop")
	assert.NoError(err)
	tbl.PopSeed()

	assert.NotEqual(first, second)
	assert.Equal(".__hidden__1__loop", first)

	// A hidden label stays reachable after another global label.
	tbl.PushSeed(3)
	assert.NoError(tbl.Define("@x", number(0x20)))
	assert.NoError(tbl.SetCurrentGlobalLabel("glob"))
	assert.Equal(int64(0x20), intOf(t, tbl, "@x"))
	tbl.PopSeed()

	// Same seed, same expansion.
	tbl.PushSeed(1)
	again, err := tbl.Expand("@loop")
	assert.NoError(err)
	tbl.PopSeed()
	assert.Equal(first, again)
}

func TestTablePatterns(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	assert.NoError(tbl.Define("i", ValueAndSource{Value: Counter{Result: expr.Int(3)}}))
	assert.NoError(tbl.Define("name", ValueAndSource{Value: String("foo")}))

	expanded, err := tbl.Expand("label{i}")
	assert.NoError(err)
	assert.Equal("label3", expanded)

	expanded, err = tbl.Expand("label_{i*2+1}")
	assert.NoError(err)
	assert.Equal("label_7", expanded)

	expanded, err = tbl.Expand("{name}_end")
	assert.NoError(err)
	assert.Equal("foo_end", expanded)

	expanded, err = tbl.Expand("{i}")
	assert.NoError(err)
	assert.Equal("i", expanded)

	_, err = tbl.Expand("label{missing+1}")
	var pattern *ErrPattern
	assert.True(errors.As(err, &pattern))
}

func TestTableAssign(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	assert.NoError(tbl.Assign("x", number(1)))
	assert.NoError(tbl.Assign("x", number(2)))
	assert.Equal(int64(2), intOf(t, tbl, "x"))

	assert.NoError(tbl.Define("fixed", number(1)))
	err := tbl.Assign("fixed", number(2))
	assert.Equal(ErrCannotModify("fixed"), err)

	vs, ok, err := tbl.Remove("x")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(number(2), vs)

	ok, err = tbl.Contains("x")
	assert.NoError(err)
	assert.False(ok)
}

func TestTablePasses(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	assert.NoError(tbl.Define("lbl", number(1)))
	ok, err := tbl.ExistsInCurrentPass("lbl")
	assert.NoError(err)
	assert.True(ok)

	assert.NoError(tbl.Use("lbl"))

	tbl.NewPass()
	ok, err = tbl.ExistsInCurrentPass("lbl")
	assert.NoError(err)
	assert.False(ok)

	// A namespace local definition does not see the global it shadows.
	tbl.EnterNamespace("m")
	ok, err = tbl.ExistsInCurrentPass("lbl")
	assert.NoError(err)
	assert.False(ok)
	_, ok, err = tbl.Defined("lbl")
	assert.NoError(err)
	assert.False(ok)
	_, err = tbl.LeaveNamespace()
	assert.NoError(err)

	// Values and usage survive passes.
	assert.Equal(int64(1), intOf(t, tbl, "lbl"))
	ok, err = tbl.IsUsed("lbl")
	assert.NoError(err)
	assert.True(ok)
}

func TestTableCounters(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	tbl.PushCounter(expr.Int(1))
	assert.Equal(int64(1), intOf(t, tbl, "#"))

	tbl.PushCounter(expr.Int(5))
	assert.Equal(int64(5), intOf(t, tbl, "#"))
	assert.Equal(int64(1), intOf(t, tbl, "##"))

	assert.NoError(tbl.PopCounter())
	assert.Equal(int64(1), intOf(t, tbl, "#"))
	ok, _ := tbl.Contains("##")
	assert.False(ok)

	assert.NoError(tbl.PopCounter())
	assert.ErrorIs(tbl.PopCounter(), ErrNoCounter)
}

func TestTableFunctionFrames(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	assert.NoError(tbl.Define("x", number(1)))

	tbl.EnterFunction()
	assert.True(tbl.InFunction())
	assert.NoError(tbl.Define("x", number(10)))
	assert.NoError(tbl.Define("arg", number(20)))
	assert.Equal(int64(10), intOf(t, tbl, "x"))
	assert.NoError(tbl.LeaveFunction())

	assert.Equal(int64(1), intOf(t, tbl, "x"))
	ok, _ := tbl.Contains("arg")
	assert.False(ok)

	assert.ErrorIs(tbl.LeaveFunction(), ErrNoFunctionFrame)
}

func TestTableClosest(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	assert.NoError(tbl.Define("print_string", number(1)))
	assert.NoError(tbl.Define("prnt", number(2)))
	assert.NoError(tbl.Define("init", number(3)))
	assert.NoError(tbl.Define("macro", ValueAndSource{Value: &Macro{Name: "macro"}}))

	best, ok := tbl.Closest("print", KindAny)
	assert.True(ok)
	assert.Equal("print_string", best)

	best, ok = tbl.Closest("inti", KindNumber)
	assert.True(ok)
	assert.Equal("init", best)

	best, ok = tbl.Closest("macr", KindMacro)
	assert.True(ok)
	assert.Equal("macro", best)

	_, ok = tbl.Closest("x", KindStruct)
	assert.False(ok)
}

func TestCaseTable(t *testing.T) {
	assert := assert.New(t)

	ct := NewCaseTable(false)
	assert.NoError(ct.Define("Label", number(7)))
	vs, ok, err := ct.Resolve("LABEL")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal(number(7), vs)

	cs := NewCaseTable(true)
	assert.NoError(cs.Define("Label", number(7)))
	_, ok, err = cs.Resolve("LABEL")
	assert.NoError(err)
	assert.False(ok)
}

func TestMacroDevelop(t *testing.T) {
	assert := assert.New(t)

	m := &Macro{Name: "LDA", Params: []string{"value"}, Code: " ld a, {value}\n"}
	code, err := m.Develop([]string{" 5 "})
	assert.NoError(err)
	assert.Equal(" ld a, 5\n", code)

	_, err = m.Develop(nil)
	var count *ErrArgumentCount
	assert.True(errors.As(err, &count))

	s := &Struct{Name: "point", Fields: []StructField{
		{Name: "x", Directive: "db", Default: "1"},
		{Name: "y", Directive: "dw"},
	}}
	assert.Equal(3, s.Size())
	assert.Equal([]int{0, 1}, s.Offsets())

	code, err = s.Develop([]string{"", "0x1234"})
	assert.NoError(err)
	assert.Equal(" db 1\n dw 0x1234", code)

	code, err = s.Develop(nil)
	assert.NoError(err)
	assert.Equal(" db 1\n dw 0", code)
}
