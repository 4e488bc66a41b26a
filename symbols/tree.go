package symbols

import (
	"iter"
	"strings"

	"github.com/ezrec/cpcasm/internal"
)

// frame is a flat map of fully qualified names.
type frame map[string]ValueAndSource

// module is one node of the namespace tree.
type module struct {
	current  frame
	children map[string]*module
}

func newModule() *module {
	return &module{
		current:  frame{},
		children: map[string]*module{},
	}
}

// locate descends into existing child modules along the dotted name,
// returning the module holding the remaining key.
func (m *module) locate(name string) (*module, string) {
	node := m
	for {
		head, tail, found := strings.Cut(name, ".")
		if !found || len(head) == 0 {
			return node, name
		}
		child, ok := node.children[head]
		if !ok {
			return node, name
		}
		node, name = child, tail
	}
}

func (m *module) get(name string) (vs ValueAndSource, ok bool) {
	node, key := m.locate(name)
	vs, ok = node.current[key]
	return
}

func (m *module) set(name string, vs ValueAndSource) {
	node, key := m.locate(name)
	node.current[key] = vs
}

func (m *module) remove(name string) (vs ValueAndSource, ok bool) {
	node, key := m.locate(name)
	vs, ok = node.current[key]
	if ok {
		delete(node.current, key)
	}
	return
}

// child returns (creating as needed) the module for a namespace path.
func (m *module) child(path []string) *module {
	node := m
	for _, ns := range path {
		next, ok := node.children[ns]
		if !ok {
			next = newModule()
			node.children[ns] = next
		}
		node = next
	}
	return node
}

// all yields every symbol with its fully qualified name, sorted per module.
func (m *module) all(prefix string) iter.Seq2[string, ValueAndSource] {
	return func(yield func(string, ValueAndSource) bool) {
		for key, vs := range internal.SortedMap(m.current) {
			if !yield(prefix+key, vs) {
				return
			}
		}
		for ns, child := range internal.SortedMap(m.children) {
			for key, vs := range child.all(prefix + ns + ".") {
				if !yield(key, vs) {
					return
				}
			}
		}
	}
}
