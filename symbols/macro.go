package symbols

import (
	"strings"
)

// Macro is a named block of text with parameters.
type Macro struct {
	Name   string
	Params []string
	Code   string
	Source *Source
}

func (*Macro) Kind() Kind { return KindMacro }

// Develop replaces every {param} in the macro text by its argument.
func (m *Macro) Develop(args []string) (code string, err error) {
	if len(args) != len(m.Params) {
		err = &ErrArgumentCount{Name: m.Name, Expected: len(m.Params), Got: len(args)}
		return
	}

	pairs := make([]string, 0, 2*len(args))
	for n, param := range m.Params {
		pairs = append(pairs, "{"+param+"}", strings.TrimSpace(args[n]))
	}
	code = strings.NewReplacer(pairs...).Replace(m.Code)

	return
}

// StructField is one member of a Struct.
type StructField struct {
	Name      string
	Directive string // "db" or "dw"
	Default   string
}

// Size of the field in bytes.
func (sf StructField) Size() int {
	if strings.EqualFold(sf.Directive, "dw") {
		return 2
	}
	return 1
}

// Struct is a named record of data fields.
type Struct struct {
	Name   string
	Fields []StructField
	Source *Source
}

func (*Struct) Kind() Kind { return KindStruct }

// Size is the number of bytes emitted by one instance.
func (s *Struct) Size() (size int) {
	for _, field := range s.Fields {
		size += field.Size()
	}
	return
}

// Offsets returns the byte offset of each field.
func (s *Struct) Offsets() []int {
	offsets := make([]int, len(s.Fields))
	offset := 0
	for n, field := range s.Fields {
		offsets[n] = offset
		offset += field.Size()
	}
	return offsets
}

// Develop generates the data directives of one instance. Missing or empty
// arguments take the field default.
func (s *Struct) Develop(args []string) (code string, err error) {
	if len(args) > len(s.Fields) {
		err = &ErrArgumentCount{Name: s.Name, Expected: len(s.Fields), Got: len(args)}
		return
	}

	lines := make([]string, len(s.Fields))
	for n, field := range s.Fields {
		value := field.Default
		if n < len(args) {
			if arg := strings.TrimSpace(args[n]); len(arg) != 0 {
				value = arg
			}
		}
		if len(value) == 0 {
			value = "0"
		}
		lines[n] = " " + strings.ToLower(field.Directive) + " " + value
	}
	code = strings.Join(lines, "\n")

	return
}
