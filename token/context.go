package token

// ParseContext is the lexical state a listing is parsed with.
type ParseContext struct {
	Filename      string // File name, or a synthetic name for expansions
	CaseSensitive bool   // Directive and register names keep their case
	SearchPaths   []string
}

// Clone returns an independent copy.
func (ctx *ParseContext) Clone() *ParseContext {
	clone := *ctx
	clone.SearchPaths = append([]string(nil), ctx.SearchPaths...)
	return &clone
}

// HasDeferredOutput reports whether visiting tok may produce bytes, and so
// should be reported to output triggers.
func HasDeferredOutput(tok Token) bool {
	switch tok.(type) {
	case *Defb, *Defw, *Defs, *Align, *Instruction, *Incbin, *CrunchedSection:
		return true
	}
	return false
}
