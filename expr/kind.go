package expr

//go:generate go tool stringer -linecomment -type=Kind

// Kind of an evaluated Result.
type Kind int

const (
	KindInt    Kind = iota // int
	KindFloat              // float
	KindBool               // bool
	KindString             // string
	KindList               // list
)
