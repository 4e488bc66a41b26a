package symbols

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/ezrec/cpcasm/expr"
	"github.com/ezrec/cpcasm/internal"
)

const (
	hiddenPrefix = ".__hidden__"
	globalPrefix = "::"
	codeAddress  = "$"
	outputAdress = "$$"
)

var patternRegexp = regexp.MustCompile(`\{+[^\}]+\}+`)

// Table is a namespace scoped symbol table.
//
// Reads of an unqualified name first try the name in the current namespace,
// then the global one. Writes always go into the current namespace, unless
// the name starts with "::".
type Table struct {
	root          *module
	currentPass   frame
	frames        internal.Stack[frame]
	currentGlobal string
	namespaces    []string
	assignable    map[string]struct{}
	used          map[string]struct{}
	seeds         internal.Stack[int]
	counters      internal.Stack[expr.Result]
}

// NewTable returns an empty table.
func NewTable() *Table {
	t := &Table{
		root:        newModule(),
		currentPass: frame{},
		assignable:  map[string]struct{}{},
		used:        map[string]struct{}{},
	}
	t.SetCurrentAddress(PhysicalAddress{})
	t.SetOutputAddress(PhysicalAddress{})
	return t
}

// NewPass forgets what was defined during the previous pass.
func (t *Table) NewPass() {
	clear(t.currentPass)
	t.namespaces = nil
	t.currentGlobal = ""
	t.seeds.Reset()
	t.frames.Reset()
	for t.counters.Len() > 0 {
		_ = t.PopCounter()
	}
}

// SetCurrentGlobalLabel records the label local labels are attached to.
// Local and hidden labels leave it unchanged.
func (t *Table) SetCurrentGlobalLabel(name string) (err error) {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "@") {
		return
	}
	name, err = t.Expand(name)
	if err != nil {
		return
	}
	t.currentGlobal = strings.TrimPrefix(name, globalPrefix)
	return
}

func (t *Table) CurrentGlobalLabel() string {
	return t.currentGlobal
}

// Expand applies local label, hidden label and {pattern} substitution.
func (t *Table) Expand(name string) (expanded string, err error) {
	expanded = name

	// {x} alone is the symbol x.
	if strings.HasPrefix(expanded, "{") && strings.HasSuffix(expanded, "}") &&
		strings.Count(expanded, "{") == 1 && strings.Count(expanded, "}") == 1 {
		expanded = expanded[1 : len(expanded)-1]
	}

	if strings.HasPrefix(expanded, ".") && !strings.HasPrefix(expanded, "..") {
		expanded = t.currentGlobal + expanded
	}

	// Hidden labels are never attached to a global label.
	if strings.HasPrefix(expanded, "@") {
		seed, ok := t.seeds.Peek()
		if !ok {
			err = ErrNoSeed
			return
		}
		expanded = fmt.Sprintf("%s%d__%s", hiddenPrefix, seed, expanded[1:])
	}

	if !strings.Contains(expanded, "{") {
		return
	}

	var patternErr error
	expanded = patternRegexp.ReplaceAllStringFunc(expanded, func(match string) string {
		if patternErr != nil {
			return match
		}
		inner := strings.Trim(match, "{}")
		var text string
		text, patternErr = t.substitute(inner)
		return text
	})
	if patternErr != nil {
		err = &ErrPattern{Symbol: name, Err: patternErr}
	}

	return
}

// writable is the fully qualified name a definition goes to.
func (t *Table) writable(name string) (full string, err error) {
	full, err = t.Expand(name)
	if err != nil {
		return
	}
	if strings.HasPrefix(full, globalPrefix) {
		full = full[len(globalPrefix):]
		return
	}
	if len(t.namespaces) != 0 {
		full = strings.Join(t.namespaces, ".") + "." + full
	}
	return
}

// readable is the fully qualified name a lookup resolves to.
func (t *Table) readable(name string) (full string, err error) {
	full, err = t.Expand(name)
	if err != nil {
		return
	}
	if strings.HasPrefix(full, globalPrefix) {
		full = full[len(globalPrefix):]
		return
	}
	if len(t.namespaces) == 0 {
		return
	}

	qualified := strings.Join(t.namespaces, ".") + "." + full
	if _, ok := t.lookup(qualified); ok {
		full = qualified
	}
	return
}

func (t *Table) lookup(full string) (vs ValueAndSource, ok bool) {
	if top, found := t.frames.Peek(); found {
		if vs, ok = top[full]; ok {
			return
		}
	}
	return t.root.get(full)
}

func (t *Table) store(full string, vs ValueAndSource) {
	if top, ok := t.frames.Peek(); ok {
		top[full] = vs
		return
	}
	t.root.set(full, vs)
	t.currentPass[full] = vs
}

// Resolve looks a symbol up.
func (t *Table) Resolve(name string) (vs ValueAndSource, ok bool, err error) {
	full, err := t.readable(name)
	if err != nil {
		return
	}
	vs, ok = t.lookup(full)
	return
}

// Define sets a symbol in the current namespace.
func (t *Table) Define(name string, vs ValueAndSource) (err error) {
	full, err := t.writable(name)
	if err != nil {
		return
	}
	t.store(full, vs)
	return
}

// Update changes the value of the symbol a lookup of name resolves to,
// defining it in the current namespace when absent.
func (t *Table) Update(name string, vs ValueAndSource) (err error) {
	full, err := t.readable(name)
	if err != nil {
		return
	}
	if _, ok := t.lookup(full); !ok {
		return t.Define(name, vs)
	}
	t.store(full, vs)
	return
}

// Assign sets a modifiable symbol. A symbol first created by Assign stays
// modifiable; a symbol created by Define cannot be assigned.
func (t *Table) Assign(name string, vs ValueAndSource) (err error) {
	full, err := t.readable(name)
	if err != nil {
		return
	}
	if _, exists := t.lookup(full); exists {
		if _, ok := t.assignable[full]; !ok {
			return ErrCannotModify(full)
		}
	} else {
		full, err = t.writable(name)
		if err != nil {
			return
		}
	}
	t.assignable[full] = struct{}{}
	t.store(full, vs)
	return
}

// Remove deletes a symbol and returns the value it had.
func (t *Table) Remove(name string) (vs ValueAndSource, ok bool, err error) {
	full, err := t.readable(name)
	if err != nil {
		return
	}
	if top, found := t.frames.Peek(); found {
		if vs, ok = top[full]; ok {
			delete(top, full)
			return
		}
	}
	delete(t.assignable, full)
	delete(t.currentPass, full)
	vs, ok = t.root.remove(full)
	return
}

// Contains reports whether a symbol resolves.
func (t *Table) Contains(name string) (ok bool, err error) {
	_, ok, err = t.Resolve(name)
	return
}

// Defined returns the value stored under the name a definition of name
// writes to, ignoring any global symbol it would shadow.
func (t *Table) Defined(name string) (vs ValueAndSource, ok bool, err error) {
	full, err := t.writable(name)
	if err != nil {
		return
	}
	vs, ok = t.lookup(full)
	return
}

// ExistsInCurrentPass reports whether a definition of name was made during
// this pass.
func (t *Table) ExistsInCurrentPass(name string) (ok bool, err error) {
	full, err := t.writable(name)
	if err != nil {
		return
	}
	if top, found := t.frames.Peek(); found {
		if _, ok = top[full]; ok {
			return
		}
	}
	_, ok = t.currentPass[full]
	return
}

// Use records that a symbol has been referenced.
func (t *Table) Use(name string) (err error) {
	full, err := t.readable(name)
	if err != nil {
		return
	}
	t.used[full] = struct{}{}
	return
}

// IsUsed reports whether a symbol has been referenced in any pass so far.
func (t *Table) IsUsed(name string) (ok bool, err error) {
	full, err := t.readable(name)
	if err != nil {
		return
	}
	_, ok = t.used[full]
	return
}

// EnterNamespace nests the following definitions into ns.
func (t *Table) EnterNamespace(ns string) {
	t.namespaces = append(t.namespaces, ns)
	t.root.child(t.namespaces)
}

// LeaveNamespace closes the innermost namespace.
func (t *Table) LeaveNamespace() (ns string, err error) {
	if len(t.namespaces) == 0 {
		err = ErrNoNamespace
		return
	}
	ns = t.namespaces[len(t.namespaces)-1]
	t.namespaces = t.namespaces[:len(t.namespaces)-1]
	return
}

func (t *Table) Namespaces() []string {
	return append([]string(nil), t.namespaces...)
}

// PushSeed sets the seed used for @hidden labels.
func (t *Table) PushSeed(seed int) {
	t.seeds.Push(seed)
}

func (t *Table) PopSeed() {
	_, _ = t.seeds.Pop()
}

func counterKey(depth int) string {
	return strings.Repeat("#", depth)
}

func (t *Table) clearCounters() {
	for depth := range t.counters.Len() {
		key := counterKey(depth + 1)
		delete(t.assignable, key)
		t.root.remove(key)
	}
}

func (t *Table) exposeCounters() {
	count := t.counters.Len()
	for n, value := range t.counters.Data {
		key := counterKey(count - n)
		t.assignable[key] = struct{}{}
		t.root.set(key, ValueAndSource{Value: Counter{Result: value}})
	}
}

// PushCounter pushes a loop counter. The innermost counter is "#", the
// enclosing one "##", and so on.
func (t *Table) PushCounter(value expr.Result) {
	t.clearCounters()
	t.counters.Push(value)
	t.exposeCounters()
}

// PopCounter pops the innermost loop counter.
func (t *Table) PopCounter() error {
	if t.counters.Empty() {
		return ErrNoCounter
	}
	t.clearCounters()
	_, _ = t.counters.Pop()
	t.exposeCounters()
	return nil
}

// EnterFunction opens a frame for the arguments and locals of a function call.
func (t *Table) EnterFunction() {
	t.frames.Push(frame{})
}

// LeaveFunction drops the innermost function frame.
func (t *Table) LeaveFunction() error {
	if _, ok := t.frames.Pop(); !ok {
		return ErrNoFunctionFrame
	}
	return nil
}

// InFunction reports whether a function frame is active.
func (t *Table) InFunction() bool {
	return !t.frames.Empty()
}

// SetCurrentAddress sets "$".
func (t *Table) SetCurrentAddress(addr PhysicalAddress) {
	t.assignable[codeAddress] = struct{}{}
	t.root.set(codeAddress, ValueAndSource{Value: addr})
}

// SetOutputAddress sets "$$".
func (t *Table) SetOutputAddress(addr PhysicalAddress) {
	t.assignable[outputAdress] = struct{}{}
	t.root.set(outputAdress, ValueAndSource{Value: addr})
}

// CurrentAddress returns "$".
func (t *Table) CurrentAddress() PhysicalAddress {
	vs, _ := t.root.get(codeAddress)
	addr, _ := vs.Value.(PhysicalAddress)
	return addr
}

// All iterates every symbol of the active frame and of the namespace tree.
func (t *Table) All() iter.Seq2[string, ValueAndSource] {
	seqs := []iter.Seq2[string, ValueAndSource]{}
	if top, ok := t.frames.Peek(); ok {
		seqs = append(seqs, internal.SortedMap(top))
	}
	seqs = append(seqs, t.root.all(""))
	return internal.IterSeq2Concat(seqs...)
}

// Macro returns the macro a name resolves to.
func (t *Table) Macro(name string) (m *Macro, ok bool, err error) {
	vs, ok, err := t.Resolve(name)
	if !ok || err != nil {
		return
	}
	m, ok = vs.Value.(*Macro)
	return
}

// Struct returns the struct a name resolves to.
func (t *Table) Struct(name string) (s *Struct, ok bool, err error) {
	vs, ok, err := t.Resolve(name)
	if !ok || err != nil {
		return
	}
	s, ok = vs.Value.(*Struct)
	return
}
