// Package parser turns assembler source into token listings.
//
// Statements are separated by new lines or ':'. Comments start with ';'.
// A word in the first column is a label, unless it is a directive or an
// instruction not followed by ':'.
package parser

import (
	"regexp"
	"strings"

	"github.com/ezrec/cpcasm/expr"
	"github.com/ezrec/cpcasm/token"
	"github.com/ezrec/cpcasm/z80"
)

// Parser is the default source parser.
type Parser struct{}

// Parse a source text.
func (Parser) Parse(source string, ctx *token.ParseContext) (listing token.Listing, err error) {
	if ctx == nil {
		ctx = &token.ParseContext{}
	}
	stmts, lines := splitStatements(source)
	p := &parser{ctx: ctx, stmts: stmts, lines: lines}

	listing, end, err := p.block()
	if err != nil {
		return
	}
	if end != nil {
		word, _ := firstWord(end.text)
		err = p.fail(end, ErrUnexpected(strings.ToUpper(word)))
	}
	return
}

type parser struct {
	ctx   *token.ParseContext
	stmts []statement
	lines []string
	pos   int
}

func (p *parser) span(st *statement) token.Span {
	return token.Span{File: p.ctx.Filename, Line: st.line, Column: st.col}
}

func (p *parser) at(st *statement) token.At {
	return token.At{Loc: p.span(st)}
}

func (p *parser) fail(st *statement, err error) error {
	return &ErrSyntax{Span: p.span(st), Text: st.text, Err: err}
}

func (p *parser) expr(st *statement, text string) (*expr.Expr, error) {
	e, err := expr.Parse(text)
	if err != nil {
		return nil, p.fail(st, err)
	}
	return e, nil
}

func (p *parser) optExpr(st *statement, args []string, n int) (*expr.Expr, error) {
	if n >= len(args) || len(args[n]) == 0 {
		return nil, nil
	}
	return p.expr(st, args[n])
}

func (p *parser) exprs(st *statement, args []string) (values []*expr.Expr, err error) {
	values = make([]*expr.Expr, len(args))
	for n, arg := range args {
		values[n], err = p.expr(st, arg)
		if err != nil {
			return
		}
	}
	return
}

// blockEnds lists the words closing, or splitting, a block.
var blockEnds = map[string]bool{
	"endif": true, "else": true, "elseif": true, "elseifnot": true, "elseifdef": true,
	"elseifndef": true, "elseifused": true, "elseifnused": true,
	"rend": true, "endr": true, "endrep": true, "until": true,
	"wend": true, "endw": true, "endfor": true, "fend": true,
	"enditerate": true, "iend": true,
	"case": true, "default": true, "break": true, "endswitch": true,
	"endrorg": true, "dephase": true, "endconfined": true, "endmodule": true,
	"endfunction": true, "endf": true, "lzclose": true, "endasmcontrolenv": true,
	"endm": true, "endmacro": true, "mend": true, "endstruct": true, "ends": true,
}

// directives that can appear in the first column without being labels.
var directives = map[string]bool{
	"org": true, "db": true, "defb": true, "byte": true, "dm": true, "defm": true, "text": true,
	"dw": true, "defw": true, "word": true, "ds": true, "defs": true, "align": true,
	"print": true, "fail": true, "assert": true, "undef": true, "macro": true, "struct": true,
	"if": true, "ifnot": true, "ifdef": true, "ifndef": true, "ifused": true, "ifnused": true,
	"repeat": true, "rep": true, "rept": true, "while": true, "for": true, "iterate": true,
	"switch": true, "rorg": true, "phase": true, "confined": true, "module": true,
	"include": true, "read": true, "incbin": true, "inclz48": true, "inclz4": true,
	"function": true, "return": true, "lz48": true, "lz4": true, "asmcontrolenv": true,
	"equ": true, "set": true,
}

func isKeyword(word string) bool {
	word = strings.ToLower(word)
	return directives[word] || blockEnds[word] || z80.IsMnemonic(word)
}

var nameRegexp = regexp.MustCompile(`^(::)?[A-Za-z_.@{][A-Za-z0-9_.@{}#]*$`)

var assignRegexp = regexp.MustCompile(`^((?:::)?[A-Za-z_.@{][A-Za-z0-9_.@{}]*)\s*(<<|>>|[-+*/|&^%])?=\s*([^=].*)$`)

// block parses statements until one of blockEnds, which is returned unconsumed.
func (p *parser) block() (listing token.Listing, end *statement, err error) {
	listing = token.Listing{}
	for p.pos < len(p.stmts) {
		st := &p.stmts[p.pos]
		word, _ := firstWord(st.text)
		if blockEnds[strings.ToLower(word)] && !(st.first && st.col == 1 && st.colon) {
			end = st
			return
		}
		p.pos++

		var toks []token.Token
		toks, err = p.statement(st)
		if err != nil {
			return
		}
		listing = append(listing, toks...)
	}
	return
}

// expect parses a block that must end with one of the words.
func (p *parser) expect(opener *statement, words ...string) (listing token.Listing, end *statement, word string, err error) {
	listing, end, err = p.block()
	if err != nil {
		return
	}
	opening, _ := firstWord(opener.text)
	if end == nil {
		err = p.fail(opener, ErrUnterminated(strings.ToUpper(opening)))
		return
	}
	word, _ = firstWord(end.text)
	word = strings.ToLower(word)
	for _, w := range words {
		if w == word {
			p.pos++
			return
		}
	}
	err = p.fail(end, ErrUnexpected(strings.ToUpper(word)))
	return
}

func (p *parser) statement(st *statement) (toks []token.Token, err error) {
	word, rest := firstWord(st.text)
	lower := strings.ToLower(word)

	// Labels
	if st.first && st.col == 1 && ((st.colon && len(rest) == 0) || !isKeyword(word)) && !assignRegexp.MatchString(st.text) {
		if len(rest) == 0 && st.colon && p.pos < len(p.stmts) && p.stmts[p.pos].line == st.line {
			// label: equ value
			next, _ := firstWord(p.stmts[p.pos].text)
			switch strings.ToLower(next) {
			case "equ", "set", "macro", "struct":
				rest = p.stmts[p.pos].text
				p.pos++
			}
		}
		return p.labelled(st, strings.TrimSuffix(word, ":"), rest)
	}
	if st.colon && len(rest) == 0 && !isKeyword(word) && nameRegexp.MatchString(word) {
		return []token.Token{&token.Label{At: p.at(st), Name: word}}, nil
	}

	if m := assignRegexp.FindStringSubmatch(st.text); m != nil && !isKeyword(m[1]) {
		value, err := p.expr(st, m[3])
		if err != nil {
			return nil, err
		}
		return []token.Token{&token.Assign{At: p.at(st), Name: m[1], Op: m[2], Value: value}}, nil
	}

	tok, err := p.directive(st, lower, rest)
	if err != nil || tok == nil {
		return
	}
	return []token.Token{tok}, nil
}

// labelled handles a statement starting with a label.
func (p *parser) labelled(st *statement, name string, rest string) (toks []token.Token, err error) {
	if !nameRegexp.MatchString(name) {
		return nil, p.fail(st, ErrBadName)
	}

	word, args := firstWord(rest)
	switch strings.ToLower(word) {
	case "equ":
		value, err := p.expr(st, args)
		if err != nil {
			return nil, err
		}
		return []token.Token{&token.Equ{At: p.at(st), Name: name, Value: value}}, nil
	case "set", "=":
		value, err := p.expr(st, args)
		if err != nil {
			return nil, err
		}
		return []token.Token{&token.Assign{At: p.at(st), Name: name, Value: value}}, nil
	case "macro":
		tok, err := p.macro(st, name, splitArgs(args))
		return []token.Token{tok}, err
	case "struct":
		tok, err := p.structure(st, name)
		return []token.Token{tok}, err
	}

	toks = []token.Token{&token.Label{At: p.at(st), Name: name}}
	if len(rest) != 0 {
		inner := *st
		inner.text = rest
		inner.first = false
		inner.col += strings.Index(st.text, rest)
		more, err := p.statement(&inner)
		if err != nil {
			return nil, err
		}
		toks = append(toks, more...)
	}
	return
}

// raw returns the source text between two statements, excluding both.
func (p *parser) raw(from *statement, to *statement) string {
	lines := []string{}
	for line := from.line + 1; line < to.line; line++ {
		lines = append(lines, p.lines[line-1])
	}
	if to.line > from.line {
		head := p.lines[to.line-1]
		if to.col-1 <= len(head) {
			head = head[:to.col-1]
		}
		if len(strings.TrimSpace(strings.TrimRight(head, ": "))) != 0 {
			lines = append(lines, strings.TrimRight(strings.TrimSpace(head), ":"))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// skipTo moves past the next statement whose word is one of words.
func (p *parser) skipTo(opener *statement, words ...string) (end *statement, err error) {
	for p.pos < len(p.stmts) {
		st := &p.stmts[p.pos]
		p.pos++
		word, _ := firstWord(st.text)
		for _, w := range words {
			if strings.EqualFold(word, w) {
				return st, nil
			}
		}
	}
	opening, _ := firstWord(opener.text)
	return nil, p.fail(opener, ErrUnterminated(strings.ToUpper(opening)))
}

func (p *parser) name(st *statement, text string) (string, error) {
	text = strings.TrimSpace(text)
	if !nameRegexp.MatchString(text) {
		return "", p.fail(st, ErrBadName)
	}
	return text, nil
}

func (p *parser) macro(st *statement, name string, params []string) (tok token.Token, err error) {
	name, err = p.name(st, name)
	if err != nil {
		return
	}
	for n, param := range params {
		params[n] = strings.TrimSpace(param)
	}

	end, err := p.skipTo(st, "endm", "endmacro", "mend")
	if err != nil {
		return
	}

	tok = &token.MacroDef{At: p.at(st), Name: name, Params: params, Code: p.raw(st, end)}
	return
}

func (p *parser) structure(st *statement, name string) (tok token.Token, err error) {
	name, err = p.name(st, name)
	if err != nil {
		return
	}

	sd := &token.StructDef{At: p.at(st), Name: name}
	for {
		if p.pos >= len(p.stmts) {
			err = p.fail(st, ErrUnterminated("STRUCT"))
			return
		}
		field := &p.stmts[p.pos]
		p.pos++

		fieldName, rest := firstWord(field.text)
		if strings.EqualFold(fieldName, "endstruct") || strings.EqualFold(fieldName, "ends") {
			break
		}
		fieldName = strings.TrimSuffix(fieldName, ":")
		directive, value := firstWord(rest)
		switch strings.ToLower(directive) {
		case "db", "defb", "byte":
			directive = "db"
		case "dw", "defw", "word":
			directive = "dw"
		default:
			err = p.fail(field, ErrBadName)
			return
		}
		sd.Fields = append(sd.Fields, token.StructField{Name: fieldName, Directive: directive, Default: value})
	}

	tok = sd
	return
}
