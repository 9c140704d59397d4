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

// Expr is either an Atom or a *Node. A *Node carries its own identity: two
// Go pointers that are equal mean "the same node", which is exactly the
// sharing the linker and macro expander rely on to build a DAG. The
// teacher's original Scheme-hosted implementation gets this identity from
// mutating a shared value in place; here it falls out of Go's pointers
// directly; there is no need to fake it with an arena of indices, since the
// host language already gives every *Node a stable address for its
// lifetime.
type Expr interface {
	exprNode()
}

// Node is an ordered (operator, operand...) expression tree node.
// SourceLine/SourceCol are best-effort, used only in diagnostics.
type Node struct {
	Op         Atom
	Operands   []Expr
	SourceFile string
	SourceLine int
	SourceCol  int
}

func (*Node) exprNode() {}

// NewNode builds a node with the given operator and operands.
func NewNode(op Atom, operands ...Expr) *Node {
	return &Node{Op: op, Operands: operands}
}

// Clone makes a shallow copy of n (same operator, same operand slice
// contents, new backing array). The macro expander does not use it; it
// builds its own new nodes and never mutates a macro's stored body.
func (n *Node) Clone() *Node {
	cp := *n
	cp.Operands = append([]Expr(nil), n.Operands...)
	return &cp
}
