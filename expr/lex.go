package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var keywords = map[string]string{
	"and":   "and",
	"or":    "or",
	"not":   "not",
	"if":    "if",
	"else":  "else",
	"true":  "True",
	"false": "False",
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isSymbolStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '.' || c == '@' || c == '{'
}

func isSymbolChar(c byte) bool {
	return isSymbolStart(c) || isDigit(c)
}

// lexer rewrites assembler expression text into Starlark expression text,
// replacing every symbol by a placeholder identifier.
type lexer struct {
	src     string
	out     strings.Builder
	operand bool // last emitted token ends an operand
	symbols []string
	calls   []string
	index   map[string]string
}

func (lx *lexer) placeholder(raw string, call bool) string {
	key := raw
	if call {
		key = "()" + raw
	}
	if name, ok := lx.index[key]; ok {
		return name
	}
	var name string
	if call {
		name = fmt.Sprintf("_f%d", len(lx.calls))
		lx.calls = append(lx.calls, raw)
	} else {
		name = fmt.Sprintf("_s%d", len(lx.symbols))
		lx.symbols = append(lx.symbols, raw)
	}
	lx.index[key] = name
	return name
}

func (lx *lexer) emit(text string, operand bool) {
	lx.out.WriteString(text)
	lx.operand = operand
}

// digits consumes a run of characters accepted by ok starting at pos.
func (lx *lexer) digits(pos int, ok func(byte) bool) int {
	for pos < len(lx.src) && (ok(lx.src[pos]) || lx.src[pos] == '_') {
		pos++
	}
	return pos
}

func (lx *lexer) radix(prefix string, body string) (string, error) {
	body = strings.ReplaceAll(body, "_", "")
	if len(body) == 0 {
		return "", errors.New(f("empty number"))
	}
	base := 16
	if prefix == "0b" {
		base = 2
	}
	v, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(v, 10), nil
}

func (lx *lexer) number(pos int) (int, error) {
	end := pos
	for end < len(lx.src) && (isSymbolChar(lx.src[end]) && lx.src[end] != '{' && lx.src[end] != '@') {
		end++
	}
	word := strings.ReplaceAll(lx.src[pos:end], "_", "")
	lower := strings.ToLower(word)
	var text string
	var err error
	switch {
	case strings.HasPrefix(lower, "0x"):
		text, err = lx.radix("0x", lower[2:])
	case strings.HasPrefix(lower, "0b") && !strings.HasSuffix(lower, "h"):
		text, err = lx.radix("0b", lower[2:])
	case strings.HasSuffix(lower, "h"):
		text, err = lx.radix("0x", lower[:len(lower)-1])
	case strings.ContainsAny(lower, ".e") && !strings.ContainsAny(lower, "abcdf"):
		_, err = strconv.ParseFloat(lower, 64)
		text = lower
	default:
		var v uint64
		v, err = strconv.ParseUint(lower, 10, 64)
		text = strconv.FormatUint(v, 10)
	}
	if err != nil {
		return end, errors.New(f("invalid number %v", lx.src[pos:end]))
	}
	lx.emit(text, true)
	return end, nil
}

func (lx *lexer) symbol(pos int) (int, error) {
	end := pos
loop:
	for end < len(lx.src) {
		c := lx.src[end]
		switch {
		case c == ':' && end+1 < len(lx.src) && lx.src[end+1] == ':':
			end += 2
		case c == '{':
			depth := 0
			for end < len(lx.src) {
				if lx.src[end] == '{' {
					depth++
				} else if lx.src[end] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				end++
			}
			if end >= len(lx.src) {
				return end, errors.New(f("unbalanced braces"))
			}
			end++
		case isSymbolChar(c):
			end++
		default:
			break loop
		}
	}
	raw := lx.src[pos:end]
	if kw, ok := keywords[strings.ToLower(raw)]; ok {
		lx.emit(" "+kw+" ", kw == "True" || kw == "False")
		return end, nil
	}

	next := end
	for next < len(lx.src) && lx.src[next] == ' ' {
		next++
	}
	call := next < len(lx.src) && lx.src[next] == '('
	lx.emit(lx.placeholder(raw, call), !call)
	return end, nil
}

func (lx *lexer) quoted(pos int) (int, error) {
	quote := lx.src[pos]
	end := pos + 1
	for end < len(lx.src) && lx.src[end] != quote {
		if lx.src[end] == '\\' {
			end++
		}
		end++
	}
	if end >= len(lx.src) {
		return end, errors.New(f("unterminated string"))
	}
	end++
	text := lx.src[pos:end]
	if quote == '\'' {
		value, err := strconv.Unquote(text)
		if err == nil && len(value) == 1 {
			lx.emit(strconv.Itoa(int(value[0])), true)
			return end, nil
		}
		if len(text) == 3 {
			lx.emit(strconv.Itoa(int(text[1])), true)
			return end, nil
		}
	}
	lx.emit(text, true)
	return end, nil
}

func (lx *lexer) run() (err error) {
	pos := 0
	for pos < len(lx.src) {
		c := lx.src[pos]
		var next byte
		if pos+1 < len(lx.src) {
			next = lx.src[pos+1]
		}
		switch {
		case c == ' ' || c == '\t':
			lx.out.WriteByte(' ')
			pos++
		case c == '"' || c == '\'':
			pos, err = lx.quoted(pos)
		case isDigit(c):
			pos, err = lx.number(pos)
		case (c == '&' || c == '#' || c == '$') && !lx.operand && isHex(next):
			end := lx.digits(pos+1, isHex)
			var text string
			text, err = lx.radix("0x", lx.src[pos+1:end])
			lx.emit(text, true)
			pos = end
		case c == '%' && !lx.operand && (next == '0' || next == '1'):
			end := lx.digits(pos+1, func(b byte) bool { return b == '0' || b == '1' })
			var text string
			text, err = lx.radix("0b", lx.src[pos+1:end])
			lx.emit(text, true)
			pos = end
		case c == '$':
			end := pos + 1
			if next == '$' {
				end++
			}
			lx.emit(lx.placeholder(lx.src[pos:end], false), true)
			pos = end
		case c == '#':
			end := pos
			for end < len(lx.src) && lx.src[end] == '#' {
				end++
			}
			lx.emit(lx.placeholder(lx.src[pos:end], false), true)
			pos = end
		case c == '&' && next == '&':
			lx.emit(" and ", false)
			pos += 2
		case c == '|' && next == '|':
			lx.emit(" or ", false)
			pos += 2
		case c == '!' && next != '=':
			lx.emit(" not ", false)
			pos++
		case isSymbolStart(c) || (c == ':' && next == ':'):
			pos, err = lx.symbol(pos)
		default:
			lx.emit(string(c), c == ')' || c == ']')
			pos++
		}
		if err != nil {
			return
		}
	}
	return
}
