// Copyright (C) 2023, 2024-2026  Carl-Philip Hänsch
// Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)
//
//	This program is free software: you can redistribute it and/or modify
//	it under the terms of the GNU General Public License as published by
//	the Free Software Foundation, either version 3 of the License, or
//	(at your option) any later version.
//
//	This program is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty of
//	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//	GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see <https://www.gnu.org/licenses/>.
package sexpr

import (
	"strings"

	"github.com/mvmjit/tplc/internal/ir"
)

// token is one lexical unit: a parenthesis or an atom, tagged with its
// source position for diagnostics.
type token struct {
	text       string
	isParen    bool // "(" or ")"
	line, col  int
}

// ReadAll tokenizes s (attributed to source, for diagnostics) and returns
// every top-level expression tree it contains, in order. This is the
// entry point the file driver calls once per file.
func ReadAll(source, s string) []ir.Expr {
	toks := tokenize(source, s)
	var out []ir.Expr
	for len(toks) > 0 {
		out = append(out, readFrom(source, &toks))
	}
	return out
}

// readFrom pops one complete expression off the front of toks.
func readFrom(source string, toks *[]token) ir.Expr {
	if len(*toks) == 0 {
		ir.Fail(ir.ReadError, "%s: unexpected end of input", source)
	}
	t := (*toks)[0]
	*toks = (*toks)[1:]
	if t.isParen {
		if t.text == ")" {
			ir.Fail(ir.ReadError, "%s:%d:%d: unexpected )", source, t.line, t.col)
		}
		// t.text == "("
		var elems []ir.Expr
		for {
			if len(*toks) == 0 {
				ir.Fail(ir.ReadError, "%s:%d:%d: expecting matching )", source, t.line, t.col)
			}
			if (*toks)[0].isParen && (*toks)[0].text == ")" {
				*toks = (*toks)[1:]
				break
			}
			elems = append(elems, readFrom(source, toks))
		}
		// A list whose first element is an atom is an operator application:
		// that atom becomes Op, the rest Operands. Anything else (an empty
		// list, or a list of lists such as a "let:" bindings vector) is
		// plain data: Op stays empty and every element lands in Operands.
		if len(elems) > 0 {
			if op, ok := elems[0].(ir.Atom); ok {
				return &ir.Node{Op: op, Operands: elems[1:], SourceFile: source, SourceLine: t.line, SourceCol: t.col}
			}
		}
		return &ir.Node{Operands: elems, SourceFile: source, SourceLine: t.line, SourceCol: t.col}
	}
	return ir.Atom(t.text)
}

// tokenize is a straight line-for-line port of the teacher's tokenizer
// state machine (scm/parser.go), generalized to this DSL's atom alphabet:
// numbers are NOT pre-parsed into floats here (spec §3: "numbers remain
// string-shaped until interpreted in context"), and the comment leader is
// "#" to end-of-line rather than "/* */".
func tokenize(source, s string) []token {
	/* tokenizer states:
	   0 = expecting next item
	   1 = inside atom (symbol/number, delimited by whitespace and parens)
	   2 = inside string
	   3 = inside escape sequence of string
	   4 = inside comment (# to end of line)
	*/
	line := 1
	col := 0
	state := 0
	startToken := 0
	startLine, startCol := 1, 0
	replacer := strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t")
	result := make([]token, 0)

	finishAtom := func(end int) {
		if end > startToken {
			result = append(result, token{text: s[startToken:end], line: startLine, col: startCol})
		}
	}

	for i, ch := range s {
		if ch == '\n' {
			line++
			col = 1
		} else {
			col++
		}

		switch {
		case state == 1 && ch != ' ' && ch != '\t' && ch != '\r' && ch != '\n' && ch != '(' && ch != ')' && ch != '#':
			// another character added to the current atom
			continue
		case state == 2 && ch != '"' && ch != '\\':
			// another character added to string
			continue
		case state == 2 && ch == '\\':
			state = 3
			continue
		case state == 3:
			state = 2
			continue
		case state == 2 && ch == '"':
			result = append(result, token{text: `"` + replacer.Replace(s[startToken+1:i]) + `"`, line: startLine, col: startCol})
			state = 0
			continue
		case state == 4 && ch != '\n':
			continue
		}

		// state change: finish whatever atom/comment was in progress
		if state == 1 {
			finishAtom(i)
		}
		if state == 4 && ch == '\n' {
			state = 0
			continue
		}

		startToken = i
		startLine, startCol = line, col
		switch {
		case ch == '(':
			result = append(result, token{text: "(", isParen: true, line: line, col: col})
			state = 0
		case ch == ')':
			result = append(result, token{text: ")", isParen: true, line: line, col: col})
			state = 0
		case ch == '"':
			state = 2
		case ch == '#':
			state = 4
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			state = 0
		default:
			state = 1
		}
	}
	if state == 1 {
		finishAtom(len(s))
	}
	return result
}
