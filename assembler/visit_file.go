package assembler

import (
	"log"

	"github.com/ezrec/cpcasm/amsdos"
	"github.com/ezrec/cpcasm/crunch"
	"github.com/ezrec/cpcasm/expr"
	"github.com/ezrec/cpcasm/files"
	"github.com/ezrec/cpcasm/token"
)

// filename evaluates the file name of INCLUDE or INCBIN, and resolves it
// against the including file.
func (env *Env) filename(pt *ProcessedToken, e *expr.Expr) (path string, err error) {
	if env.opts.Sandbox {
		err = files.ErrSandboxed
		return
	}

	r, err := env.eval(e)
	if err != nil {
		return
	}
	name, err := r.Str()
	if err != nil {
		name = r.String()
		err = nil
	}

	loader := *env.loader
	loader.SearchPaths = append(append([]string(nil), pt.ctx.SearchPaths...), env.loader.SearchPaths...)
	return loader.Resolve(name, pt.ctx.Filename)
}

// visitInclude visits the tokens of another file, parsed and built the
// first time the file is included by this token.
func (env *Env) visitInclude(pt *ProcessedToken, tok *token.Include, st *includeState) (out PassOutcome, err error) {
	path, err := env.filename(pt, tok.File)
	if err != nil {
		return
	}
	if tok.Once && env.included[path] {
		return
	}
	env.included[path] = true

	inc, ok := st.cache[path]
	if !ok {
		var text string
		if text, err = env.loader.Source(path); err != nil {
			return
		}
		ctx := pt.ctx.Clone()
		ctx.Filename = path
		inc = &includedFile{}
		if inc.listing, err = env.Parser.Parse(text, ctx); err != nil {
			err = ErrRendered(err.Error())
			return
		}
		if inc.body, err = env.build(inc.listing, ctx); err != nil {
			return
		}
		st.cache[path] = inc
		if env.opts.Verbose {
			log.Printf("%v: included %v, %d token(s)", tok.Span(), path, len(inc.listing))
		}
	}

	if len(tok.Namespace) != 0 {
		env.symbols.EnterNamespace(tok.Namespace)
	}
	out, err = env.visitAll(inc.body)
	if err != nil || len(tok.Namespace) == 0 {
		return
	}
	_, err = env.symbols.LeaveNamespace()
	return
}

// visitIncbin emits a slice of a binary file, compressed when the token
// asks for it. Files and compressed slices are cached between passes.
func (env *Env) visitIncbin(pt *ProcessedToken, tok *token.Incbin, st *incbinState) (out PassOutcome, err error) {
	path, err := env.filename(pt, tok.File)
	if err != nil {
		return
	}

	file, ok := st.files[path]
	if !ok {
		var data []byte
		if data, err = env.loader.Binary(path); err != nil {
			return
		}
		file = &binaryFile{}
		file.data, file.stripped = amsdos.Strip(data)
		st.files[path] = file
	}
	if file.stripped {
		env.warn(f("%v: Amsdos header removed", path))
	}

	offset, out, err := env.optInt(tok.Offset, 0)
	if err != nil {
		return
	}
	length, o, err := env.optInt(tok.Length, int64(len(file.data))-offset)
	out = out.Or(o)
	if err != nil {
		return
	}
	if offset < 0 || length < 0 || offset+length > int64(len(file.data)) {
		err = &ErrOutOfRangeSlice{File: path, Size: len(file.data), Offset: int(offset), Length: int(length)}
		return
	}
	data := file.data[offset : offset+length]

	if tok.Transform != crunch.None {
		if len(data) == 0 {
			err = ErrEmptyBinary
			return
		}
		key := incbinKey{path: path, offset: int(offset), length: int(length)}
		packed, ok := st.packed[key]
		if !ok {
			if packed, err = crunch.Compress(tok.Transform, data); err != nil {
				return
			}
			env.stats.Crunches++
			st.packed[key] = packed
		}
		data = packed
	}

	err = env.emit(data)
	return
}
