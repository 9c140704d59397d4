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

// Package treecompile flattens a linked, macro-expanded, type-checked
// template body into the pair of parallel arrays spec §4.6 emits:
// template[] (text tokens) and desc[] (one descriptor byte per token,
// from the 7-character alphabet {n,s,l,i,.,c,f}):
//
//	n  prefix+UPPER(operator name) (its slot is always followed by s)
//	s  the operand count of the immediately preceding n
//	l  a link: the template index of a nested node emitted earlier
//	i  an operand-index reference ($N / \$N) into the opcode's operands
//	.  a literal parameter (number, prefix+UPPER(bareword), or macro-call text)
//	c  a constant-table index (const_ptr / const_large divert here)
//	f  reserved, never emitted
//
// Node-identity sharing (two parents pointing at the same *ir.Node) is
// preserved by memoizing each node's own position and emitting a plain
// l: position link on every later encounter instead of recompiling the
// shared subtree — the DAG-sharing half of spec §9's pointer-identity
// design note. Children are always emitted before the l that points at
// them, so every link value is strictly less than the slot that carries
// it (spec §8).
//
// The constant table a Compiler writes into is supplied by the caller,
// not owned by the Compiler: it is one structure shared across every
// opcode in a compilation unit (spec §3/§6/§8/§9), so a Driver compiling
// N opcodes threads the same *ConstTable through all N Compilers.
package treecompile

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mvmjit/tplc/internal/catalog"
	"github.com/mvmjit/tplc/internal/ir"
)

// Result is one opcode's flattened template.
type Result struct {
	Template []string
	Desc     []byte
	// Root is the template index of the top-level node's n slot.
	Root int
}

// Compiler holds the per-opcode state threaded through emission. consts
// is NOT owned by the Compiler: spec §3/§6/§8/§9 all pin the constant
// table as a single structure shared across the whole compilation unit,
// so its index space has to stay valid across every opcode compiled
// against it — callers pass in the one table a Driver threads through
// every Compiler it creates.
type Compiler struct {
	opcode    *catalog.OpcodeSpec
	operators *catalog.OperatorCatalog
	caser     cases.Caser
	prefix    string

	template []string
	desc     []byte
	consts   *ConstTable

	positions     map[*ir.Node]int
	writeRefsSeen map[int]bool
}

// New returns a Compiler for one opcode's body. consts is the
// compilation unit's single shared constant table; prefix is prepended
// to every emitted operator name and bareword (spec §4.6/§6).
func New(opcode *catalog.OpcodeSpec, operators *catalog.OperatorCatalog, consts *ConstTable, prefix string) *Compiler {
	return &Compiler{
		opcode:        opcode,
		operators:     operators,
		caser:         cases.Upper(language.Und),
		prefix:        prefix,
		consts:        consts,
		positions:     make(map[*ir.Node]int),
		writeRefsSeen: make(map[int]bool),
	}
}

// Compile emits body and returns the completed template/desc arrays,
// validating every operand reference and write-operand coverage along
// the way. The constant table passed to New accumulates across every
// Compile call a Driver makes with it; it is not part of this Result.
func (c *Compiler) Compile(body ir.Expr) *Result {
	root := c.emitRoot(body)
	// inc_i/dec_i/inc_u/dec_u address their read/write slots by the fixed
	// numerals $0/$1 regardless of the declared operand vector (spec's
	// doubled-operand exception), so their write coverage is checked by
	// validateOperandRef at the point of the \$1 reference itself, not by
	// matching declared-vector positions here.
	if !catalog.IsDoubledOperandOpcode(c.opcode.Name) {
		for i, op := range c.opcode.Operands {
			if op.Direction == catalog.DirWrite && !c.writeRefsSeen[i] {
				ir.Fail(ir.WriteRefMissing, "opcode %q declares write operand %d but its body never references \\$%d",
					c.opcode.Name, i, i)
			}
		}
	} else if !c.writeRefsSeen[1] {
		ir.Fail(ir.WriteRefMissing, "opcode %q never references its write slot \\$1", c.opcode.Name)
	}
	return &Result{Template: c.template, Desc: c.desc, Root: root}
}

// prefixedUpper renders name the way spec §4.6 asks for an operator name
// or bareword to be written into the template: the unit's configured
// prefix followed by the upper-cased name.
func (c *Compiler) prefixedUpper(name string) string {
	return c.prefix + c.caser.String(name)
}

func (c *Compiler) push(text string, tag byte) {
	c.template = append(c.template, text)
	c.desc = append(c.desc, tag)
}

// emitRoot emits the top-level body and returns the index consumers
// should treat as root: the index of the top node's n slot (spec §8:
// "root is an index r such that desc[r] = n").
func (c *Compiler) emitRoot(e ir.Expr) int {
	switch v := e.(type) {
	case *ir.Node:
		if pos, seen := c.positions[v]; seen {
			return pos
		}
		pos, needsLink := c.emitNode(v)
		if needsLink {
			c.positions[v] = pos
		}
		return pos
	case ir.Atom:
		c.emitOperandAtom(v)
		return len(c.template) - 1
	default:
		ir.Fail(ir.ReadError, "unrecognized expression kind %T in template body", e)
		panic("unreachable")
	}
}

// emitNode emits v's own tokens — n/s followed by its operands for an
// ordinary operator, or the diverted c/.-slot for const_ptr/const_large —
// and returns the position a caller should either link to (needsLink
// true) or has no further use for (needsLink false: a const reference is
// already fully represented by the c/.-slots just emitted, spec §4.6).
func (c *Compiler) emitNode(v *ir.Node) (pos int, needsLink bool) {
	pos = len(c.template)
	name := string(v.Op)
	if name == "const_ptr" || name == "const_large" {
		c.emitConst(name, v)
		return pos, false
	}
	c.push(c.prefixedUpper(name), 'n')
	c.push(strconv.Itoa(len(v.Operands)), 's')
	for _, op := range v.Operands {
		c.emitOperand(op)
	}
	return pos, true
}

// emitOperand emits whatever token(s) represent e in an operand or
// parameter position (spec §4.6 step 2/3 use the same classification for
// both): a nested node either as a fresh l: link or, for const_ptr /
// const_large, inline c/.-slots with no link at all; an operand-index
// reference as i: N; a literal number or bareword as .; and an
// unexpanded macro-call parameter as a textual . slot.
func (c *Compiler) emitOperand(e ir.Expr) {
	switch v := e.(type) {
	case ir.Atom:
		c.emitOperandAtom(v)
	case *ir.Node:
		if name, ok := ir.MacroCallHead(v.Op); ok {
			c.push(macroCallText(name, v.Operands), '.')
			return
		}
		if pos, seen := c.positions[v]; seen {
			c.push(strconv.Itoa(pos), 'l')
			return
		}
		pos, needsLink := c.emitNode(v)
		if !needsLink {
			return
		}
		c.positions[v] = pos
		c.push(strconv.Itoa(pos), 'l')
	default:
		ir.Fail(ir.ReadError, "unrecognized expression kind %T in template body", e)
	}
}

func (c *Compiler) emitOperandAtom(a ir.Atom) {
	if ir.IsNumber(a) {
		c.push(string(a), '.')
		return
	}
	if n, write, ok := ir.OperandRef(a); ok {
		c.validateOperandRef(a, n, write)
		c.push(strconv.Itoa(n), 'i')
		return
	}
	if ir.IsBareword(a) {
		c.push(c.prefixedUpper(string(a)), '.')
		return
	}
	ir.Fail(ir.ReadError, "unexpected atom %q survived to tree-compile", a)
}

func (c *Compiler) validateOperandRef(a ir.Atom, n int, write bool) {
	if catalog.IsDoubledOperandOpcode(c.opcode.Name) && n >= 0 && n < 2 {
		if write {
			c.writeRefsSeen[n] = true
		}
		return
	}
	if n < 0 || n >= len(c.opcode.Operands) {
		ir.Fail(ir.OperandRefOutOfRange, "$%d out of range for opcode %q (%d operands)", n, c.opcode.Name, len(c.opcode.Operands))
	}
	if write {
		if c.opcode.Operands[n].Direction != catalog.DirWrite {
			ir.Fail(ir.WriteRefForbidden, "\\$%d is not a write operand of opcode %q", n, c.opcode.Name)
		}
		c.writeRefsSeen[n] = true
	}
}

// emitConst handles const_ptr/const_large's diversion of their value
// operand into the constant table, plus an optional trailing size
// operand (spec §4.6). Neither slot is an n: the constant is referenced
// directly by its c: index wherever it occurs, never by a shared l link.
func (c *Compiler) emitConst(name string, v *ir.Node) {
	if len(v.Operands) < 1 || len(v.Operands) > 2 {
		ir.FailAt(ir.ReadError, v, "%s: expected 1 or 2 operands, got %d", name, len(v.Operands))
	}
	idx := c.consts.Add(constText(v.Operands[0]))
	c.push(strconv.Itoa(idx), 'c')
	if len(v.Operands) == 2 {
		c.emitSize(v.Operands[1])
	}
}

func (c *Compiler) emitSize(e ir.Expr) {
	a, ok := e.(ir.Atom)
	if !ok || !ir.IsNumber(a) {
		ir.Fail(ir.SizeParamBad, "size operand must be a literal number, got %v", e)
	}
	c.push(string(a), '.')
}

// constText renders a value operand's textual identity for constant-pool
// dedup. const_ptr/const_large values are always literal atoms in
// practice (a number or bareword); a non-atom value can't be rendered to
// a stable constant-pool key.
func constText(e ir.Expr) string {
	a, ok := e.(ir.Atom)
	if !ok {
		ir.Fail(ir.SizeParamBad, "const_ptr/const_large value must be a literal, got %v", e)
	}
	return string(a)
}

// macroCallText renders an unexpanded "(&macro p1 p2 …)" parameter in the
// textual form spec §4.6 asks for. "^name" invocations are expanded by
// internal/macro before a body reaches the tree compiler; an "&name"
// node is not expanded and is written out here as text.
func macroCallText(name string, operands []ir.Expr) string {
	parts := make([]string, len(operands))
	for i, op := range operands {
		if a, ok := op.(ir.Atom); ok {
			parts[i] = string(a)
			continue
		}
		parts[i] = "?"
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
