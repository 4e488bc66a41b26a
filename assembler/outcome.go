package assembler

// PassOutcome is what a visit tells the pass driver.
type PassOutcome struct {
	AdditionalPass bool // A value changed; the pass must be run again.
	Incomplete     bool // An expression was left unresolved.
}

// Or combines two outcomes.
func (po PassOutcome) Or(other PassOutcome) PassOutcome {
	return PassOutcome{
		AdditionalPass: po.AdditionalPass || other.AdditionalPass,
		Incomplete:     po.Incomplete || other.Incomplete,
	}
}

// Converged reports whether another pass would produce the same result.
func (po PassOutcome) Converged() bool {
	return !po.AdditionalPass && !po.Incomplete
}

var additionalPass = PassOutcome{AdditionalPass: true}

var incomplete = PassOutcome{Incomplete: true}
