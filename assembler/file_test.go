package assembler

import (
	"testing"
	"testing/fstest"

	"github.com/ezrec/cpcasm/amsdos"
	"github.com/ezrec/cpcasm/crunch"
	"github.com/ezrec/cpcasm/files"
	"github.com/stretchr/testify/assert"
)

func testFS() fstest.MapFS {
	header := amsdos.Header{Name: "DATA", Extension: "BIN", Type: amsdos.Binary, Load: 0x4000, Length: 3}
	return fstest.MapFS{
		"lib.asm":      {Data: []byte(" db 1\nvalue equ 7\n")},
		"once.asm":     {Data: []byte(" db 9\n")},
		"inc/deep.asm": {Data: []byte(" include \"../once.asm\"\n")},
		"bad.asm":      {Data: []byte(" macro\n")},
		"data.bin":     {Data: []byte{1, 2, 3, 4, 5}},
		"empty.bin":    {Data: []byte{}},
		"header.bin":   {Data: append(header.Bytes(), 7, 8, 9)},
	}
}

func TestFileInclude(t *testing.T) {
	table := [](struct {
		name   string
		lines  []string
		output []byte
	}){
		{"namespace", []string{
			` include "lib.asm" namespace lib`,
			" db lib.value",
		}, []byte{1, 7}},
		{"twice", []string{
			` include "once.asm"`,
			` include "once.asm"`,
		}, []byte{9, 9}},
		{"once", []string{
			` include "once.asm" once`,
			` include "once.asm" once`,
		}, []byte{9}},
		{"relative", []string{
			` include "inc/deep.asm"`,
		}, []byte{9}},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			env, err := assemble(DefaultOptions(), testFS(), entry.lines...)
			assert.NoError(t, err)
			assert.Equal(t, entry.output, env.Output())
		})
	}
}

func TestFileIncludeErrors(t *testing.T) {
	assert := assert.New(t)

	opts := DefaultOptions()
	opts.Sandbox = true
	_, err := assemble(opts, testFS(), ` include "once.asm"`)
	assert.ErrorIs(err, files.ErrSandboxed)

	_, err = assemble(DefaultOptions(), nil, ` include "once.asm"`)
	assert.ErrorIs(err, files.ErrSandboxed)

	_, err = assemble(DefaultOptions(), testFS(), ` include "missing.asm"`)
	var nf *files.ErrNotFound
	assert.ErrorAs(err, &nf)

	_, err = assemble(DefaultOptions(), testFS(), ` include "bad.asm"`)
	var rendered ErrRendered
	assert.ErrorAs(err, &rendered)
}

func TestFileIncbin(t *testing.T) {
	assert := assert.New(t)

	env, err := assemble(DefaultOptions(), testFS(), ` incbin "data.bin", 1, 3`)
	assert.NoError(err)
	assert.Equal([]byte{2, 3, 4}, env.Output())

	env, err = assemble(DefaultOptions(), testFS(), ` incbin "header.bin"`)
	assert.NoError(err)
	assert.Equal([]byte{7, 8, 9}, env.Output())
	warnings := env.Warnings()
	if assert.Len(warnings, 1) {
		assert.Contains(warnings[0].Message, "Amsdos header")
	}

	env, err = assemble(DefaultOptions(), testFS(), ` inclz48 "data.bin"`)
	assert.NoError(err)
	packed, err := crunch.CompressLZ48([]byte{1, 2, 3, 4, 5})
	assert.NoError(err)
	assert.Equal(packed, env.Output())
	// The compressed slice is kept for the following passes.
	assert.Equal(1, env.Stats().Crunches)
}

func TestFileIncbinErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(DefaultOptions(), testFS(), ` incbin "data.bin", 4, 3`)
	var oor *ErrOutOfRangeSlice
	if assert.ErrorAs(err, &oor) {
		assert.Equal(5, oor.Size)
		assert.Equal(4, oor.Offset)
		assert.Equal(3, oor.Length)
	}

	_, err = assemble(DefaultOptions(), testFS(), ` inclz48 "empty.bin"`)
	assert.ErrorIs(err, ErrEmptyBinary)

	_, err = assemble(DefaultOptions(), testFS(), ` incbin "empty.bin"`)
	assert.NoError(err)
}
