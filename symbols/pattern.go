package symbols

import (
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// substitute returns the text replacing a {pattern}: the value of the symbol
// named by the pattern, else the value of the pattern as an expression.
func (t *Table) substitute(inner string) (text string, err error) {
	if vs, ok, _ := t.Resolve(inner); ok {
		if text, ok = valueText(vs.Value); ok {
			return
		}
	}

	opts := syntax.FileOptions{}
	node, err := opts.ParseExpr("pattern", inner, 0)
	if err != nil {
		return
	}

	pred := starlark.StringDict{}
	syntax.Walk(node, func(n syntax.Node) bool {
		ident, ok := n.(*syntax.Ident)
		if !ok || err != nil {
			return err == nil
		}
		vs, found, lookupErr := t.Resolve(ident.Name)
		if lookupErr != nil {
			err = lookupErr
			return false
		}
		if !found {
			return true
		}
		r, ok := ToResult(vs.Value)
		if !ok {
			return true
		}
		if s, serr := r.Str(); serr == nil {
			pred[ident.Name] = starlark.String(s)
		} else if v, ierr := r.Int(); ierr == nil {
			pred[ident.Name] = starlark.MakeInt64(v)
		}
		return true
	})
	if err != nil {
		return
	}

	thread := &starlark.Thread{Name: "pattern"}
	value, err := starlark.EvalOptions(&opts, thread, "pattern", inner, pred)
	if err != nil {
		return
	}

	if s, ok := starlark.AsString(value); ok {
		text = s
	} else {
		text = strings.TrimSpace(value.String())
	}

	return
}
