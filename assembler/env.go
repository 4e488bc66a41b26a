package assembler

import (
	"errors"
	"io/fs"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/ezrec/cpcasm/expr"
	"github.com/ezrec/cpcasm/files"
	"github.com/ezrec/cpcasm/internal"
	"github.com/ezrec/cpcasm/parser"
	"github.com/ezrec/cpcasm/symbols"
	"github.com/ezrec/cpcasm/token"
)

// Parser turns source text into tokens.
type Parser interface {
	Parse(source string, ctx *token.ParseContext) (token.Listing, error)
}

// Stats counts the work done by an assembly.
type Stats struct {
	Passes        int // Passes run.
	ListingsBuilt int // Listings turned into processed tokens.
	BranchesBuilt int // IF branches built on first selection.
	Crunches      int // Compressor invocations.
}

type returnSlot struct {
	value expr.Result
	set   bool
}

// Env is the state of an assembly.
type Env struct {
	Parser   Parser          // Parser of included files and expansions.
	Recorder ListingRecorder // If set, receives the bytes of every data token.

	opts    Options
	loader  *files.Loader
	symbols *symbols.CaseTable

	pass      int
	span      token.Span
	code      int
	output    int
	root      *page
	pages     internal.Stack[*page]
	controls  internal.Stack[*controlStore]
	replaying int

	macroSeed int
	functions map[string]*Function
	returns   internal.Stack[*returnSlot]
	included  map[string]bool

	diagnostics []Diagnostic
	stats       Stats
	built       atomic.Int64
}

// NewEnv returns an environment reading files from fsys. A nil fsys, or a
// sandboxed assembly, cannot read any file.
func NewEnv(opts Options, fsys fs.FS) *Env {
	opts = opts.normalized()
	loader := &files.Loader{SearchPaths: opts.IncludePaths}
	if !opts.Sandbox {
		loader.FS = fsys
	}

	return &Env{
		Parser:    parser.Parser{},
		opts:      opts,
		loader:    loader,
		symbols:   symbols.NewCaseTable(opts.CaseSensitive),
		functions: map[string]*Function{},
	}
}

// Options returns the options in effect.
func (env *Env) Options() Options {
	return env.opts
}

// Pass is the number of the current, or last, pass.
func (env *Env) Pass() int {
	return env.pass
}

// Stats of the assembly so far.
func (env *Env) Stats() Stats {
	stats := env.stats
	stats.ListingsBuilt = int(env.built.Load())
	return stats
}

// Diagnostics of the last pass.
func (env *Env) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), env.diagnostics...)
}

// Warnings of the last pass.
func (env *Env) Warnings() (warnings []Diagnostic) {
	for _, d := range env.diagnostics {
		if d.Kind == DiagnosticWarning {
			warnings = append(warnings, d)
		}
	}
	return
}

// Output is the memory between the lowest and highest written address.
func (env *Env) Output() []byte {
	if env.root == nil {
		return nil
	}
	return env.root.bytes()
}

// Origin is the lowest written address.
func (env *Env) Origin() int {
	if env.root == nil || env.root.end == 0 {
		return 0
	}
	return env.root.start
}

// Symbols iterates over the user visible symbols, sorted by name.
func (env *Env) Symbols() iter.Seq2[string, symbols.ValueAndSource] {
	return func(yield func(string, symbols.ValueAndSource) bool) {
		for name, vs := range env.symbols.All() {
			if strings.HasPrefix(name, "$") || strings.HasPrefix(name, "#") {
				continue
			}
			if !yield(name, vs) {
				return
			}
		}
	}
}

// Lookup returns the value of a symbol as an expression result.
func (env *Env) Lookup(name string) (expr.Result, bool) {
	r, err := env.Symbol(name)
	return r, err == nil
}

func (env *Env) newPass() {
	env.pass++
	env.stats.Passes = env.pass
	env.symbols.NewPass()

	env.root = newPage()
	env.pages.Reset()
	env.pages.Push(env.root)
	env.controls.Reset()
	env.returns.Reset()
	env.replaying = 0

	env.code = 0
	env.output = 0
	env.macroSeed = 0
	env.included = map[string]bool{}
	env.diagnostics = nil
	env.span = token.Span{}

	for name, value := range internal.SortedMap(env.opts.Defines) {
		_ = env.symbols.Define(name, symbols.ValueAndSource{Value: symbols.Number{Result: expr.Int(value)}})
	}
	if env.Recorder != nil {
		env.Recorder.Reset()
	}
	env.updateDollar()
}

// updateDollar publishes the code and output addresses as $ and $$.
func (env *Env) updateDollar() {
	env.symbols.SetCurrentAddress(symbols.PhysicalAddress{Address: uint16(env.code)})
	env.symbols.SetOutputAddress(symbols.PhysicalAddress{Address: uint16(env.output)})
}

func (env *Env) source() *symbols.Source {
	return &symbols.Source{File: env.span.File, Line: env.span.Line, Column: env.span.Column}
}

// Symbol resolves a symbol for expression evaluation.
func (env *Env) Symbol(name string) (r expr.Result, err error) {
	vs, ok, err := env.symbols.Resolve(name)
	if err != nil {
		return
	}
	if !ok {
		err = expr.ErrUnknownSymbol(name)
		return
	}
	r, ok = symbols.ToResult(vs.Value)
	if !ok {
		err = &symbols.ErrWrongKind{Name: name, Expected: symbols.KindNumber, Got: vs.Value.Kind()}
	}
	return
}

// use marks the symbols of e as referenced.
func (env *Env) use(e *expr.Expr) {
	for _, name := range e.Symbols() {
		_ = env.symbols.Use(name)
	}
}

// explain adds a suggestion to an unknown symbol error.
func (env *Env) explain(err error) error {
	var unknown expr.ErrUnknownSymbol
	if !errors.As(err, &unknown) {
		return err
	}
	var already *ErrUnresolved
	if errors.As(err, &already) {
		return err
	}
	closest, _ := env.symbols.Closest(string(unknown), symbols.KindAny)
	return &ErrUnresolved{Name: string(unknown), Closest: closest, Err: err}
}

// softFail reports whether an unresolved expression may wait for a later
// pass: during the first pass, or when a restricted environment still has
// passes left.
func (env *Env) softFail() bool {
	if ctl, ok := env.controls.Peek(); ok {
		return ctl.remaining > 0
	}
	return env.pass <= 1
}

// eval evaluates e. Unknown symbols are errors.
func (env *Env) eval(e *expr.Expr) (r expr.Result, err error) {
	env.use(e)
	r, err = e.Eval(env)
	if err != nil {
		err = env.explain(err)
	}
	return
}

// evalSoft evaluates e. While a later pass can still define them, unknown
// symbols give 0 and an incomplete outcome.
func (env *Env) evalSoft(e *expr.Expr) (r expr.Result, out PassOutcome, err error) {
	env.use(e)
	r, err = e.Eval(env)
	if err == nil {
		return
	}
	if expr.IsUnresolved(err) && env.softFail() {
		return expr.Int(0), incomplete, nil
	}
	err = env.explain(err)
	return
}

func (env *Env) evalInt(e *expr.Expr) (v int64, out PassOutcome, err error) {
	r, out, err := env.evalSoft(e)
	if err != nil {
		return
	}
	v, err = r.Int()
	return
}

// optInt is evalInt with a default for absent expressions.
func (env *Env) optInt(e *expr.Expr, def int64) (v int64, out PassOutcome, err error) {
	if e == nil {
		v = def
		return
	}
	return env.evalInt(e)
}

// text renders values the way PRINT and FAIL show them.
func (env *Env) text(values []*expr.Expr) (text string, out PassOutcome, err error) {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		r, o, evalErr := env.evalSoft(value)
		out = out.Or(o)
		if evalErr != nil {
			err = evalErr
			return
		}
		if s, strErr := r.Str(); strErr == nil {
			parts = append(parts, s)
		} else {
			parts = append(parts, r.String())
		}
	}
	text = strings.Join(parts, " ")
	return
}

// writeAt stores data in the active page.
func (env *Env) writeAt(address int, data []byte) error {
	if address < 0 || address+len(data) > pageSize {
		return ErrOutputOverflow
	}
	pg, _ := env.pages.Peek()
	overridden := 0
	for n, b := range data {
		if pg.write(address+n, b) {
			overridden++
		}
	}
	if overridden != 0 {
		env.warn(f("%d byte(s) overridden at &%04X", overridden, address))
	}
	if ctl, ok := env.controls.Peek(); ok && ctl.page == pg {
		ctl.record(address, data)
	}
	return nil
}

// emit writes data at the output address, and moves both addresses past it.
func (env *Env) emit(data []byte) error {
	if env.symbols.InFunction() {
		return ErrOutputInFunction
	}
	if err := env.writeAt(env.output, data); err != nil {
		return err
	}
	env.output += len(data)
	env.code = (env.code + len(data)) & 0xffff
	return nil
}

// sameValue compares symbol values without relying on Go equality, which
// list results do not support.
func sameValue(a, b symbols.Value) bool {
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	ra, okA := symbols.ToResult(a)
	rb, okB := symbols.ToResult(b)
	if !okA || !okB {
		return false
	}
	return ra.Kind() == rb.Kind() && ra.Equal(rb)
}

// define sets a constant symbol, once per pass. A value different from the
// previous pass asks for another pass.
func (env *Env) define(name string, value symbols.Value) (out PassOutcome, err error) {
	exists, err := env.symbols.ExistsInCurrentPass(name)
	if err != nil {
		return
	}
	if exists && env.replaying == 0 {
		err = ErrAlreadyDefined(name)
		return
	}

	previous, had, err := env.symbols.Defined(name)
	if err != nil {
		return
	}
	if had && (env.pass > 1 || env.replaying > 0) && !sameValue(previous.Value, value) {
		out = additionalPass
	}

	err = env.symbols.Define(name, symbols.ValueAndSource{Value: value, Source: env.source()})
	return
}
