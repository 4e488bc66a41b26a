// Package files finds and loads the files a source includes.
package files

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/ezrec/cpcasm/translate"
)

var f = translate.From

var ErrSandboxed = errors.New(f("file access is not allowed"))

// ErrNotFound lists where a file was looked for.
type ErrNotFound struct {
	Name  string
	Tried []string
}

func (err *ErrNotFound) Error() string {
	return f("file %v not found (tried %v)", err.Name, strings.Join(err.Tried, ", "))
}

func (err *ErrNotFound) Unwrap() error {
	return fs.ErrNotExist
}

// Loader resolves file names against the including file and search paths.
// A nil FS denies every access.
type Loader struct {
	FS          fs.FS
	SearchPaths []string
}

func clean(name string) string {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimPrefix(name, "/")
}

// Resolve returns the path of name, included from the file from.
func (l *Loader) Resolve(name string, from string) (resolved string, err error) {
	if l == nil || l.FS == nil {
		err = ErrSandboxed
		return
	}

	candidates := []string{}
	if len(from) != 0 {
		candidates = append(candidates, clean(path.Join(path.Dir(clean(from)), name)))
	}
	candidates = append(candidates, clean(name))
	for _, dir := range l.SearchPaths {
		candidates = append(candidates, clean(path.Join(dir, name)))
	}

	tried := []string{}
	for _, candidate := range candidates {
		if !fs.ValidPath(candidate) {
			continue
		}
		info, statErr := fs.Stat(l.FS, candidate)
		if statErr == nil && !info.IsDir() {
			resolved = candidate
			return
		}
		tried = append(tried, candidate)
	}

	err = &ErrNotFound{Name: name, Tried: tried}
	return
}

// Binary loads a file as bytes.
func (l *Loader) Binary(name string) (data []byte, err error) {
	if l == nil || l.FS == nil {
		err = ErrSandboxed
		return
	}
	return fs.ReadFile(l.FS, name)
}

// Source loads a text file. Files that are not valid UTF-8 are decoded as
// Windows-1252, the usual encoding of old CPC sources.
func (l *Loader) Source(name string) (text string, err error) {
	data, err := l.Binary(name)
	if err != nil {
		return
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		text = string(data)
		return
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return
	}
	text = string(decoded)
	return
}
