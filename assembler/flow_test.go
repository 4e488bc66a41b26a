package assembler

import (
	"strings"
	"testing"

	"github.com/ezrec/cpcasm/crunch"
	"github.com/ezrec/cpcasm/expr"
	"github.com/stretchr/testify/assert"
)

func TestFlowLoops(t *testing.T) {
	table := [](struct {
		name   string
		lines  []string
		output []byte
	}){
		{"repeat", []string{
			" repeat 3",
			" db 7",
			" rend",
		}, []byte{7, 7, 7}},
		{"repeat start and step", []string{
			" repeat 3, i, 10, 5",
			" db i",
			" rend",
		}, []byte{10, 15, 20}},
		{"repeat until", []string{
			"n = 0",
			" repeat",
			"n += 1",
			" db n",
			" until n == 3",
		}, []byte{1, 2, 3}},
		{"while", []string{
			"i = 0",
			" while i < 3",
			" db i",
			"i += 1",
			" wend",
		}, []byte{0, 1, 2}},
		{"for", []string{
			" for v, 1, 3",
			" db v",
			" endfor",
		}, []byte{1, 2, 3}},
		{"for downwards", []string{
			" for v, 3, 1, -1",
			" db v",
			" endfor",
		}, []byte{3, 2, 1}},
		{"iterate", []string{
			" iterate v, 1, 5, 9",
			" db v",
			" iend",
		}, []byte{1, 5, 9}},
		{"iterate list", []string{
			" iterate v in [7, 8]",
			" db v",
			" iend",
		}, []byte{7, 8}},
		{"nested counter", []string{
			" repeat 2, outer",
			" repeat 2, inner",
			" db outer * 2 + inner",
			" rend",
			" rend",
		}, []byte{0, 1, 2, 3}},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			env := mustAssemble(t, entry.lines...)
			assert.Equal(t, entry.output, env.Output())
		})
	}
}

func TestFlowLoopErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(DefaultOptions(), nil,
		" for v, 1, 3, 0",
		" endfor",
	)
	assert.ErrorIs(err, ErrZeroStep)

	opts := DefaultOptions()
	opts.MaxLoopIterations = 10
	_, err = assemble(opts, nil,
		" while 1",
		" wend",
	)
	assert.ErrorIs(err, ErrInfiniteLoop)

	_, err = assemble(opts, nil,
		" repeat 1 << 40",
		" rend",
	)
	assert.ErrorIs(err, ErrInfiniteLoop)

	env, err := assemble(opts, nil,
		" repeat 10",
		" nop",
		" rend",
	)
	assert.NoError(err)
	assert.Len(env.Output(), 10)

	_, err = assemble(DefaultOptions(), nil,
		"x equ 1",
		" repeat 2, x",
		" rend",
	)
	var ce ErrCounterExists
	assert.ErrorAs(err, &ce)
}

func TestFlowIf(t *testing.T) {
	assert := assert.New(t)

	env := mustAssemble(t,
		" repeat 4, i",
		" if i % 2 == 0",
		" db 1",
		" else",
		" db 2",
		" endif",
		" rend",
	)
	assert.Equal([]byte{1, 2, 1, 2}, env.Output())
	// Each branch is built once, whatever the number of visits.
	assert.Equal(2, env.Stats().BranchesBuilt)

	env = mustAssemble(t,
		"known nop",
		" ifdef known",
		" db 1",
		" endif",
		" ifndef unknown",
		" db 2",
		" endif",
		" ifnot 0",
		" db 3",
		" endif",
	)
	assert.Equal([]byte{0, 1, 2, 3}, env.Output())
}

func TestFlowSwitch(t *testing.T) {
	body := []string{
		" case 1",
		" db 1",
		" case 2",
		" db 2",
		" case 3",
		" db 3",
		" break",
		" case 4",
		" db 4",
		" default",
		" db 5",
		" endswitch",
	}

	table := [](struct {
		value  string
		output []byte
	}){
		{"1", []byte{1, 2, 3}},
		{"2", []byte{2, 3}},
		{"4", []byte{4, 5}},
		{"9", []byte{5}},
	}

	for _, entry := range table {
		t.Run(entry.value, func(t *testing.T) {
			lines := append([]string{" switch " + entry.value}, body...)
			env := mustAssemble(t, lines...)
			assert.Equal(t, entry.output, env.Output())
		})
	}
}

func TestFlowMacroHygiene(t *testing.T) {
	assert := assert.New(t)

	env := mustAssemble(t,
		" macro M",
		"@x nop",
		" dw @x",
		" endm",
		" M (void)",
		" M(void)",
	)
	assert.Equal([]byte{0, 0, 0, 0, 3, 0}, env.Output())

	hidden := []string{}
	for name := range env.Symbols() {
		if strings.Contains(name, "__hidden__") {
			hidden = append(hidden, name)
		}
	}
	// One label per call, reused by every pass.
	assert.Len(hidden, 2)
	assert.Greater(env.Stats().Passes, 1)

	// A global label inside the body leaves hidden labels reachable.
	env = mustAssemble(t,
		" macro M",
		"@x nop",
		"glob",
		" dw @x",
		" endm",
		" M",
	)
	assert.Equal([]byte{0, 0, 0}, env.Output())
}

func TestFlowMacroErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(DefaultOptions(), nil,
		" macro LDA value",
		"  ld a, {value}",
		" endm",
		" LDZ 1",
	)
	var unknown *ErrUnknownMacroOrStruct
	if assert.ErrorAs(err, &unknown) {
		assert.Equal("LDZ", unknown.Name)
		assert.Equal("LDA", unknown.Closest)
	}

	_, err = assemble(DefaultOptions(), nil,
		" macro BAD",
		" db undefined_thing",
		" endm",
		" BAD",
	)
	var me *ErrMacroExpansion
	if assert.ErrorAs(err, &me) {
		assert.Equal("MACRO", me.Kind)
		assert.Equal("BAD", me.Name)
	}
	var unresolved *ErrUnresolved
	assert.ErrorAs(err, &unresolved)
	var rel *ErrRelocated
	if assert.ErrorAs(err, &rel) {
		assert.Equal(4, rel.Span.Line)
	}
}

func TestFlowMacroWarning(t *testing.T) {
	assert := assert.New(t)

	env := mustAssemble(t,
		" macro TWICE",
		" db 1",
		" org 0",
		" db 2",
		" endm",
		" TWICE",
	)
	warnings := env.Warnings()
	if assert.Len(warnings, 1) {
		// The warning is reported at the call, after its original location.
		assert.Equal(6, warnings[0].Span.Line)
		assert.Contains(warnings[0].Message, " > ")
	}
}

func TestFlowCrunched(t *testing.T) {
	assert := assert.New(t)

	env := mustAssemble(t,
		" lz48",
		" db 1, 2, 3",
		" lzclose",
	)
	packed, err := crunch.CompressLZ48([]byte{1, 2, 3})
	assert.NoError(err)
	assert.Equal(packed, env.Output())
	// Identical bytes in every pass are compressed once.
	assert.Equal(1, env.Stats().Crunches)

	env = mustAssemble(t,
		" lz48",
		" db label",
		" lzclose",
		"label",
	)
	assert.Equal(2, env.Stats().Crunches)
	assert.Equal(2, env.Stats().Passes)
}

func TestFlowConfined(t *testing.T) {
	assert := assert.New(t)

	env := mustAssemble(t,
		" org #10fe",
		" confined",
		" db 1, 2, 3",
		" endconfined",
	)
	assert.Equal(0x10fe, env.Origin())
	assert.Equal([]byte{0, 0, 1, 2, 3}, env.Output())

	_, err := assemble(DefaultOptions(), nil,
		" confined",
		" defs 300",
		" endconfined",
	)
	assert.ErrorIs(err, ErrConfinedTooLarge)
}

func TestFlowRestricted(t *testing.T) {
	assert := assert.New(t)

	env := mustAssemble(t,
		" asmcontrolenv SET_MAX_NB_OF_PASSES=3",
		" dw later",
		"later",
		" endasmcontrolenv",
	)
	assert.Equal([]byte{2, 0}, env.Output())

	_, err := assemble(DefaultOptions(), nil,
		" asmcontrolenv SET_MAX_NB_OF_PASSES=4",
		" if lbl == 0",
		" defs 10",
		" endif",
		"lbl",
		" endasmcontrolenv",
	)
	var nc *ErrNonConvergent
	if assert.ErrorAs(err, &nc) {
		assert.Equal(4, nc.Passes)
	}

	// A label moved inside the section reruns the outer passes.
	env = mustAssemble(t,
		" dw lbl",
		" if later > 5",
		" defs 10",
		" endif",
		" asmcontrolenv SET_MAX_NB_OF_PASSES=3",
		"lbl nop",
		" endasmcontrolenv",
		"later equ 10",
	)
	assert.Equal(append([]byte{12, 0}, make([]byte, 11)...), env.Output())
	assert.Equal(3, env.Stats().Passes)
	lbl, ok := env.Lookup("lbl")
	assert.True(ok)
	assert.True(lbl.Equal(expr.Int(12)))
}

func TestFlowDirectives(t *testing.T) {
	assert := assert.New(t)

	env := mustAssemble(t, ` print "value", 1 + 1`)
	diagnostics := env.Diagnostics()
	if assert.Len(diagnostics, 1) {
		assert.Equal(DiagnosticPrint, diagnostics[0].Kind)
		assert.Equal("value 2", diagnostics[0].Message)
	}

	_, err := assemble(DefaultOptions(), nil, ` assert 1 == 2, "bad"`)
	var ae *ErrAssert
	if assert.ErrorAs(err, &ae) {
		assert.Contains(ae.Error(), "bad")
	}

	_, err = assemble(DefaultOptions(), nil, ` fail "stop"`)
	var generic ErrGeneric
	if assert.ErrorAs(err, &generic) {
		assert.Contains(generic.Error(), "stop")
	}

	env = mustAssemble(t, " undef missing")
	assert.Len(env.Warnings(), 1)

	env = mustAssemble(t,
		" rept 2",
		" nop",
		" rend",
	)
	assert.Equal([]byte{0, 0}, env.Output())
	assert.Len(env.Warnings(), 1)
}
