package symbols

import (
	"iter"
	"strings"

	"github.com/ezrec/cpcasm/expr"
)

// CaseTable wraps a Table, folding symbol names to upper case unless the
// assembly is case sensitive.
type CaseTable struct {
	table     *Table
	sensitive bool
}

// NewCaseTable returns a table with the requested case sensitivity.
func NewCaseTable(sensitive bool) *CaseTable {
	return &CaseTable{table: NewTable(), sensitive: sensitive}
}

// Normalize folds a name the way the table stores it.
func (ct *CaseTable) Normalize(name string) string {
	if ct.sensitive {
		return name
	}
	return strings.ToUpper(name)
}

func (ct *CaseTable) Table() *Table { return ct.table }

func (ct *CaseTable) NewPass() { ct.table.NewPass() }

func (ct *CaseTable) SetCurrentGlobalLabel(name string) error {
	return ct.table.SetCurrentGlobalLabel(ct.Normalize(name))
}

func (ct *CaseTable) Expand(name string) (string, error) {
	return ct.table.Expand(ct.Normalize(name))
}

func (ct *CaseTable) Resolve(name string) (ValueAndSource, bool, error) {
	return ct.table.Resolve(ct.Normalize(name))
}

func (ct *CaseTable) Define(name string, vs ValueAndSource) error {
	return ct.table.Define(ct.Normalize(name), vs)
}

func (ct *CaseTable) Update(name string, vs ValueAndSource) error {
	return ct.table.Update(ct.Normalize(name), vs)
}

func (ct *CaseTable) Assign(name string, vs ValueAndSource) error {
	return ct.table.Assign(ct.Normalize(name), vs)
}

func (ct *CaseTable) Remove(name string) (ValueAndSource, bool, error) {
	return ct.table.Remove(ct.Normalize(name))
}

func (ct *CaseTable) Contains(name string) (bool, error) {
	return ct.table.Contains(ct.Normalize(name))
}

func (ct *CaseTable) Defined(name string) (ValueAndSource, bool, error) {
	return ct.table.Defined(ct.Normalize(name))
}

func (ct *CaseTable) ExistsInCurrentPass(name string) (bool, error) {
	return ct.table.ExistsInCurrentPass(ct.Normalize(name))
}

func (ct *CaseTable) Use(name string) error {
	return ct.table.Use(ct.Normalize(name))
}

func (ct *CaseTable) IsUsed(name string) (bool, error) {
	return ct.table.IsUsed(ct.Normalize(name))
}

func (ct *CaseTable) EnterNamespace(ns string) {
	ct.table.EnterNamespace(ct.Normalize(ns))
}

func (ct *CaseTable) LeaveNamespace() (string, error) {
	return ct.table.LeaveNamespace()
}

func (ct *CaseTable) PushSeed(seed int) { ct.table.PushSeed(seed) }
func (ct *CaseTable) PopSeed() { ct.table.PopSeed() }
func (ct *CaseTable) EnterFunction() { ct.table.EnterFunction() }
func (ct *CaseTable) LeaveFunction() error { return ct.table.LeaveFunction() }
func (ct *CaseTable) InFunction() bool { return ct.table.InFunction() }

func (ct *CaseTable) PushCounter(value expr.Result) { ct.table.PushCounter(value) }
func (ct *CaseTable) PopCounter() error { return ct.table.PopCounter() }

func (ct *CaseTable) SetCurrentAddress(addr PhysicalAddress) { ct.table.SetCurrentAddress(addr) }
func (ct *CaseTable) SetOutputAddress(addr PhysicalAddress) { ct.table.SetOutputAddress(addr) }
func (ct *CaseTable) CurrentAddress() PhysicalAddress { return ct.table.CurrentAddress() }

func (ct *CaseTable) All() iter.Seq2[string, ValueAndSource] { return ct.table.All() }

func (ct *CaseTable) Closest(name string, kind Kind) (string, bool) {
	return ct.table.Closest(ct.Normalize(name), kind)
}

func (ct *CaseTable) Macro(name string) (*Macro, bool, error) {
	return ct.table.Macro(ct.Normalize(name))
}

func (ct *CaseTable) Struct(name string) (*Struct, bool, error) {
	return ct.table.Struct(ct.Normalize(name))
}
