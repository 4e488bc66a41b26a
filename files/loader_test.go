package files

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestLoaderResolve(t *testing.T) {
	assert := assert.New(t)

	mfs := fstest.MapFS{
		"src/main.asm":    {Data: []byte("include \"lib.asm\"")},
		"src/lib.asm":     {Data: []byte("nop")},
		"inc/macros.asm":  {Data: []byte("")},
		"data/sprite.bin": {Data: []byte{1, 2, 3}},
		"data/latin1.asm": {Data: []byte("; caf\xe9")},
	}
	l := &Loader{FS: mfs, SearchPaths: []string{"inc", "data"}}

	got, err := l.Resolve("lib.asm", "src/main.asm")
	assert.NoError(err)
	assert.Equal("src/lib.asm", got)

	got, err = l.Resolve("macros.asm", "src/main.asm")
	assert.NoError(err)
	assert.Equal("inc/macros.asm", got)

	got, err = l.Resolve("/data/sprite.bin", "")
	assert.NoError(err)
	assert.Equal("data/sprite.bin", got)

	_, err = l.Resolve("missing.asm", "src/main.asm")
	var notFound *ErrNotFound
	assert.True(errors.As(err, &notFound))
	assert.ErrorIs(err, fs.ErrNotExist)
	assert.Contains(notFound.Tried, "src/missing.asm")

	data, err := l.Binary("data/sprite.bin")
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3}, data)

	text, err := l.Source("data/latin1.asm")
	assert.NoError(err)
	assert.Equal("; café", text)
}

func TestLoaderSandbox(t *testing.T) {
	assert := assert.New(t)

	var l *Loader
	_, err := l.Resolve("x", "")
	assert.ErrorIs(err, ErrSandboxed)

	l = &Loader{}
	_, err = l.Binary("x")
	assert.ErrorIs(err, ErrSandboxed)
}

func TestDirFS(t *testing.T) {
	assert := assert.New(t)

	dir := DirFS(t.TempDir())
	w, err := dir.Create("out/code.bin")
	if !assert.NoError(err) {
		return
	}
	_, err = w.Write([]byte{1, 2})
	assert.NoError(err)
	assert.NoError(w.Close())

	data, err := os.ReadFile(filepath.Join(string(dir), "out", "code.bin"))
	assert.NoError(err)
	assert.Equal([]byte{1, 2}, data)

	l := &Loader{FS: dir}
	got, err := l.Binary("out/code.bin")
	assert.NoError(err)
	assert.Equal([]byte{1, 2}, got)

	_, err = dir.Create("../escape.bin")
	assert.ErrorIs(err, fs.ErrInvalid)
}
