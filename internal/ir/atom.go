// Copyright (C) 2024-2026  Carl-Philip Hänsch
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
package ir

import "strings"

// Atom is a raw token: everything the reader produces is either an Atom or
// a *Node. Numbers stay string-shaped here; they are only interpreted once
// a consumer needs to (linker, type checker, tree compiler).
type Atom string

func (Atom) exprNode() {}

// IsNumber reports whether the atom is a decimal integer literal.
func IsNumber(a Atom) bool {
	s := string(a)
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// OperandRef parses "$N" or "\$N" (a write-reference). ok is false if the
// atom isn't of this shape at all (e.g. it's a named reference "$name").
func OperandRef(a Atom) (n int, write bool, ok bool) {
	s := string(a)
	if strings.HasPrefix(s, "\\$") {
		if idx, iok := parseUint(s[2:]); iok {
			return idx, true, true
		}
		return 0, false, false
	}
	if strings.HasPrefix(s, "$") {
		if idx, iok := parseUint(s[1:]); iok {
			return idx, false, true
		}
		return 0, false, false
	}
	return 0, false, false
}

// NamedRef parses "$name" where name is not purely numeric.
func NamedRef(a Atom) (name string, ok bool) {
	s := string(a)
	if !strings.HasPrefix(s, "$") {
		return "", false
	}
	rest := s[1:]
	if rest == "" {
		return "", false
	}
	if _, _, isRef := OperandRef(a); isRef {
		return "", false
	}
	return rest, true
}

// MacroParam parses ",name" (a macro placeholder inside a macro body).
func MacroParam(a Atom) (name string, ok bool) {
	s := string(a)
	if strings.HasPrefix(s, ",") && len(s) > 1 {
		return s[1:], true
	}
	return "", false
}

// MacroName parses "^name" (the head of a macro invocation, or the name
// supplied to a "macro:" declaration).
func MacroName(a Atom) (name string, ok bool) {
	s := string(a)
	if strings.HasPrefix(s, "^") && len(s) > 1 {
		return s[1:], true
	}
	return "", false
}

// MacroCallHead parses "&name" (the head of a macro-call parameter node,
// e.g. the "&macro" in "(&macro p1 p2)").
func MacroCallHead(a Atom) (name string, ok bool) {
	s := string(a)
	if strings.HasPrefix(s, "&") && len(s) > 1 {
		return s[1:], true
	}
	return "", false
}

// IsBareword reports whether the atom is none of the above and not a
// number: an enum-like constant to be textually prefixed at emission time.
func IsBareword(a Atom) bool {
	if IsNumber(a) {
		return false
	}
	if _, ok := MacroParam(a); ok {
		return false
	}
	if _, ok := MacroName(a); ok {
		return false
	}
	if _, ok := MacroCallHead(a); ok {
		return false
	}
	if _, _, isRef := OperandRef(a); isRef {
		return false
	}
	if _, ok := NamedRef(a); ok {
		return false
	}
	return true
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
