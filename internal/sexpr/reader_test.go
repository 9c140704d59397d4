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
package sexpr

import (
	"testing"

	"github.com/mvmjit/tplc/internal/ir"
)

func TestReadAllSimpleForm(t *testing.T) {
	exprs := ReadAll("t", `(add $0 $1)`)
	if len(exprs) != 1 {
		t.Fatalf("got %d top-level forms, want 1", len(exprs))
	}
	n, ok := exprs[0].(*ir.Node)
	if !ok {
		t.Fatalf("top-level form is %T, want *ir.Node", exprs[0])
	}
	if n.Op != "add" {
		t.Fatalf("Op = %q, want add", n.Op)
	}
	if len(n.Operands) != 2 {
		t.Fatalf("got %d operands, want 2", len(n.Operands))
	}
}

func TestReadAllNestedListOfLists(t *testing.T) {
	// A let:-shaped bindings vector: its head is itself a list, not an
	// atom, which must not be rejected by the reader.
	exprs := ReadAll("t", `(($obj (addr $0 8)))`)
	if len(exprs) != 1 {
		t.Fatalf("got %d top-level forms, want 1", len(exprs))
	}
	outer, ok := exprs[0].(*ir.Node)
	if !ok {
		t.Fatalf("outer form is %T, want *ir.Node", exprs[0])
	}
	if outer.Op != "" {
		t.Fatalf("outer.Op = %q, want empty (plain list)", outer.Op)
	}
	if len(outer.Operands) != 1 {
		t.Fatalf("got %d elements, want 1", len(outer.Operands))
	}
	pair, ok := outer.Operands[0].(*ir.Node)
	if !ok {
		t.Fatalf("pair is %T, want *ir.Node", outer.Operands[0])
	}
	if pair.Op != "$obj" {
		t.Fatalf("pair.Op = %q, want $obj", pair.Op)
	}
}

func TestReadAllComment(t *testing.T) {
	exprs := ReadAll("t", "(add $0 $1) # trailing comment\n(sub $0 $1)")
	if len(exprs) != 2 {
		t.Fatalf("got %d top-level forms, want 2", len(exprs))
	}
}

func TestReadAllEmptyList(t *testing.T) {
	exprs := ReadAll("t", `()`)
	n, ok := exprs[0].(*ir.Node)
	if !ok || n.Op != "" || len(n.Operands) != 0 {
		t.Fatalf("empty list parsed as %+v", exprs[0])
	}
}

func TestReadAllUnmatchedParen(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an unmatched paren")
		}
	}()
	ReadAll("t", `(add $0`)
}
