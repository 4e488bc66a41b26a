package assembler

import (
	"fmt"

	"github.com/ezrec/cpcasm/token"
)

//go:generate go tool stringer -linecomment -type=DiagnosticKind

// DiagnosticKind tells warnings from PRINT output.
type DiagnosticKind int

const (
	DiagnosticWarning DiagnosticKind = iota // WARNING
	DiagnosticPrint                         // PRINT
)

// Diagnostic is a message produced by the last pass.
type Diagnostic struct {
	Kind    DiagnosticKind
	Span    token.Span
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v > %v: %v", d.Span, d.Kind, d.Message)
}

func (env *Env) warn(message string) {
	env.diagnostics = append(env.diagnostics, Diagnostic{
		Kind:    DiagnosticWarning,
		Span:    env.span,
		Message: message,
	})
}

func (env *Env) print(message string) {
	env.diagnostics = append(env.diagnostics, Diagnostic{
		Kind:    DiagnosticPrint,
		Span:    env.span,
		Message: message,
	})
}

// retag moves the diagnostics emitted since mark to span. Warnings keep
// their original location in their message.
func (env *Env) retag(mark int, span token.Span) {
	for n := mark; n < len(env.diagnostics); n++ {
		d := &env.diagnostics[n]
		if d.Kind == DiagnosticWarning {
			d.Message = fmt.Sprintf("%v > %v", d.Span, d.Message)
		}
		d.Span = span
	}
}
