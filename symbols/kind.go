package symbols

//go:generate go tool stringer -linecomment -type=Kind

// Kind of a symbol value, used to filter lookups.
type Kind int

const (
	KindAny     Kind = iota // any
	KindNumber              // number
	KindString              // string
	KindAddress             // address
	KindMacro               // macro
	KindStruct              // struct
	KindCounter             // counter
)
