package parser

import (
	"strings"
)

// statement is one ':' separated part of a source line.
type statement struct {
	line  int // 1 based
	col   int // 1 based
	text  string
	first bool // first statement of its line
	colon bool // followed by a ':' separator
}

// scanner tracks quotes and nesting while walking a line.
type scanner struct {
	quote byte
	depth int
}

func (s *scanner) step(text string, n int) (skip int) {
	c := text[n]
	if s.quote != 0 {
		if c == '\\' && s.quote == '"' && n+1 < len(text) {
			return 1
		}
		if c == s.quote {
			s.quote = 0
		}
		return
	}
	switch c {
	case '"':
		s.quote = c
	case '\'':
		// af' is a register, not a quote.
		if n >= 2 && strings.EqualFold(text[n-2:n], "af") {
			return
		}
		s.quote = c
	case '(', '[', '{':
		s.depth++
	case ')', ']', '}':
		s.depth--
	}
	return
}

// stripComment removes a ';' comment.
func stripComment(line string) string {
	var s scanner
	for n := 0; n < len(line); n++ {
		if s.quote == 0 && line[n] == ';' {
			return line[:n]
		}
		n += s.step(line, n)
	}
	return line
}

// splitStatements cuts source into statements.
func splitStatements(source string) (stmts []statement, lines []string) {
	lines = strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	for index, raw := range lines {
		line := strings.TrimRight(stripComment(strings.ReplaceAll(raw, "\t", " ")), " ")
		var s scanner
		start := 0
		first := true
		emit := func(end int, colon bool) {
			text := line[start:end]
			trimmed := strings.TrimLeft(text, " ")
			if len(strings.TrimSpace(trimmed)) != 0 {
				stmts = append(stmts, statement{
					line:  index + 1,
					col:   start + len(text) - len(trimmed) + 1,
					text:  strings.TrimSpace(trimmed),
					first: first,
					colon: colon,
				})
				first = false
			}
		}
		for n := 0; n < len(line); n++ {
			if s.quote == 0 && s.depth == 0 && line[n] == ':' {
				if n+1 < len(line) && line[n+1] == ':' {
					n++
					continue
				}
				if n > 0 && line[n-1] == ':' {
					continue
				}
				emit(n, true)
				start = n + 1
				continue
			}
			n += s.step(line, n)
		}
		emit(len(line), false)
	}
	return
}

// splitArgs cuts text at top level commas.
func splitArgs(text string) (args []string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}
	var s scanner
	start := 0
	for n := 0; n < len(text); n++ {
		if s.quote == 0 && s.depth == 0 && text[n] == ',' {
			args = append(args, strings.TrimSpace(text[start:n]))
			start = n + 1
			continue
		}
		n += s.step(text, n)
	}
	args = append(args, strings.TrimSpace(text[start:]))
	return
}

// firstWord splits text after its first word.
func firstWord(text string) (word string, rest string) {
	text = strings.TrimSpace(text)
	n := strings.IndexAny(text, " \t")
	if n < 0 {
		return text, ""
	}
	return text[:n], strings.TrimSpace(text[n+1:])
}

// wrapped reports whether text is entirely enclosed in one pair of parentheses.
func wrapped(text string) (inner string, ok bool) {
	if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
		return
	}
	var s scanner
	for n := 0; n < len(text); n++ {
		n += s.step(text, n)
		if s.quote == 0 && s.depth == 0 && n < len(text)-1 {
			return
		}
	}
	return text[1 : len(text)-1], true
}
