package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/cpcasm/crunch"
	"github.com/ezrec/cpcasm/token"
)

func parse(t *testing.T, lines ...string) token.Listing {
	listing, err := Parser{}.Parse(strings.Join(lines, "\n"), &token.ParseContext{Filename: "test.asm"})
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return listing
}

func TestParserLabels(t *testing.T) {
	assert := assert.New(t)

	listing := parse(t,
		"start",
		"loop: nop ; comment",
		" .local: djnz .local",
		"value equ 5",
		"other: equ 6",
		" count = 1",
		"count += 2",
		"::glob",
	)
	if !assert.Len(listing, 10) {
		return
	}

	assert.Equal(&token.Label{At: token.At{Loc: token.Span{File: "test.asm", Line: 1, Column: 1}}, Name: "start"}, listing[0])
	assert.Equal("loop", listing[1].(*token.Label).Name)
	assert.Equal("nop", listing[2].(*token.Instruction).Mnemonic)
	assert.Equal(token.Span{File: "test.asm", Line: 2, Column: 7}, listing[2].Span())
	assert.Equal(".local", listing[3].(*token.Label).Name)
	assert.Equal("djnz", listing[4].(*token.Instruction).Mnemonic)
	assert.Equal("value", listing[5].(*token.Equ).Name)
	assert.Equal("other", listing[6].(*token.Equ).Name)
	assert.Equal("count", listing[7].(*token.Assign).Name)
	assert.Equal("+", listing[8].(*token.Assign).Op)
	assert.Equal("::glob", listing[9].(*token.Label).Name)
}

func TestParserData(t *testing.T) {
	assert := assert.New(t)

	listing := parse(t,
		` org #4000, #8000`,
		` db "hi:there", 0`,
		` dw label, $+2`,
		` defs 10, #ff`,
		` ld a,(ix+2)`,
		` ld (hl), 'a'`,
		` ex af, af'`,
	)
	if !assert.Len(listing, 7) {
		return
	}

	org := listing[0].(*token.Org)
	assert.Equal("#4000", org.Code.String())
	assert.Equal("#8000", org.Output.String())

	db := listing[1].(*token.Defb)
	assert.Len(db.Values, 2)
	assert.Equal(`"hi:there"`, db.Values[0].String())

	assert.Len(listing[2].(*token.Defw).Values, 2)
	assert.Equal("#ff", listing[3].(*token.Defs).Fill.String())

	ld := listing[4].(*token.Instruction)
	assert.True(ld.Operands[1].Indirect)
	assert.Equal("", ld.Operands[1].Register)

	ld = listing[5].(*token.Instruction)
	assert.Equal(token.Operand{Register: "hl", Indirect: true}, ld.Operands[0])

	ex := listing[6].(*token.Instruction)
	assert.Equal("af'", ex.Operands[1].Register)
}

func TestParserBlocks(t *testing.T) {
	assert := assert.New(t)

	listing := parse(t,
		" if x == 1",
		"  nop",
		" elseifdef y",
		"  halt",
		" else",
		"  di : ei",
		" endif",
		" repeat 3, i",
		"  db i",
		" rend",
		" repeat",
		" until 1",
		" rept 2 : nop : endr",
		" switch 2",
		" case 1",
		"  db 1",
		" case 2",
		"  db 2",
		"  break",
		" default",
		"  db 3",
		" endswitch",
		" module mod",
		" endmodule",
		" lz48",
		"  db 1",
		" lzclose",
		" asmcontrolenv SET_MAX_NB_OF_PASSES=3",
		" endasmcontrolenv",
	)
	if !assert.Len(listing, 8) {
		return
	}

	cond := listing[0].(*token.If)
	assert.Len(cond.Tests, 2)
	assert.Equal(token.TestTrue, cond.Tests[0].Kind)
	assert.Equal(token.TestExists, cond.Tests[1].Kind)
	assert.Equal("y", cond.Tests[1].Label)
	assert.Len(cond.Else, 2)

	rep := listing[1].(*token.Repeat)
	assert.Equal("i", rep.Counter)
	assert.Len(rep.Body, 1)

	_, ok := listing[2].(*token.RepeatUntil)
	assert.True(ok)

	warn := listing[3].(*token.Warning)
	assert.Len(warn.Inner.(*token.Repeat).Body, 1)

	sw := listing[4].(*token.Switch)
	assert.Len(sw.Cases, 2)
	assert.False(sw.Cases[0].Break)
	assert.True(sw.Cases[1].Break)
	assert.Len(sw.Default, 1)

	assert.Equal("mod", listing[5].(*token.Module).Name)
	assert.Equal(crunch.LZ48, listing[6].(*token.CrunchedSection).Algorithm)
	assert.Equal("3", listing[7].(*token.RestrictedAssemblingEnvironment).Passes.String())
}

func TestParserMacros(t *testing.T) {
	assert := assert.New(t)

	listing := parse(t,
		" macro LDA value",
		"  ld a, {value}",
		" endm",
		"point struct",
		"x db 1",
		"y dw",
		" endstruct",
		" LDA 5",
		" LDA(void)",
		" point 1, 2",
		` include "lib.asm" namespace lib once`,
		` inclz48 "data.bin", 128`,
		" function double, x",
		"  return x*2",
		" endfunction",
	)
	if !assert.Len(listing, 8) {
		return
	}

	m := listing[0].(*token.MacroDef)
	assert.Equal("LDA", m.Name)
	assert.Equal([]string{"value"}, m.Params)
	assert.Equal("  ld a, {value}\n", m.Code)

	s := listing[1].(*token.StructDef)
	assert.Equal([]token.StructField{{Name: "x", Directive: "db", Default: "1"}, {Name: "y", Directive: "dw"}}, s.Fields)

	call := listing[2].(*token.Call)
	assert.Equal([]string{"5"}, call.Args)
	assert.True(listing[3].(*token.Call).Void)
	assert.Equal([]string{"1", "2"}, listing[4].(*token.Call).Args)

	inc := listing[5].(*token.Include)
	assert.Equal("lib", inc.Namespace)
	assert.True(inc.Once)

	bin := listing[6].(*token.Incbin)
	assert.Equal(crunch.LZ48, bin.Transform)
	assert.Equal("128", bin.Offset.String())

	fn := listing[7].(*token.Function)
	assert.Equal([]string{"x"}, fn.Params)
	assert.Len(fn.Body, 1)
}

func TestParserErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Parser{}.Parse(" if 1\n nop", &token.ParseContext{Filename: "bad.asm"})
	assert.Equal(ErrUnterminated("IF"), errors.Unwrap(err))
	var syntax *ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(1, syntax.Span.Line)

	_, err = Parser{}.Parse(" endif", nil)
	assert.Equal(ErrUnexpected("ENDIF"), errors.Unwrap(err))

	_, err = Parser{}.Parse(" db 1 +", nil)
	assert.True(errors.As(err, &syntax))
}
