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

// Package macro implements registration and expansion of "macro:" forms
// (spec §4.4), grounded on the teacher's own macro-ish expansion pass in
// scm/optimizer.go (which rewrites call sites against a table of known
// definitions before the rest of the pipeline sees them).
package macro

import (
	"github.com/mvmjit/tplc/internal/ir"
	"github.com/mvmjit/tplc/internal/linker"
	"github.com/mvmjit/tplc/internal/typecheck"
)

// Register links body with no environment (spec §4.4: a macro is written
// independently of any particular opcode) and expands any macro calls it
// already contains against the currently-registered table, then stores
// it. Registration order matters: a macro can only call macros defined
// earlier in the file.
func Register(ctx *typecheck.Context, table ir.MacroTable, name string, params []string, body ir.Expr) {
	if _, exists := table[name]; exists {
		ir.Fail(ir.RedefinedMacro, "macro %q already defined", name)
	}
	linked := linker.Link(ctx, nil, body)
	expanded := Expand(ctx, table, linked)
	table[name] = &ir.Macro{Name: name, Params: params, Body: expanded}
}

// Expand replaces every "^name" call head in e with name's registered
// body, substituting ",param" atoms with the call's actual operands, and
// recurses until no macro calls remain. Expansion memoizes by node
// pointer identity so a subtree shared by multiple parents (e.g. via a
// let:-introduced direct edge) is only expanded once.
func Expand(ctx *typecheck.Context, table ir.MacroTable, e ir.Expr) ir.Expr {
	memo := make(map[*ir.Node]ir.Expr)
	return expand(ctx, table, e, memo)
}

func expand(ctx *typecheck.Context, table ir.MacroTable, e ir.Expr, memo map[*ir.Node]ir.Expr) ir.Expr {
	v, ok := e.(*ir.Node)
	if !ok {
		return e
	}
	if cached, ok := memo[v]; ok {
		return cached
	}
	if name, ok := ir.MacroName(v.Op); ok {
		mac, found := table[name]
		if !found {
			ir.FailAt(ir.UnknownMacro, v, "unknown macro %q", name)
		}
		if len(v.Operands) != len(mac.Params) {
			ir.FailAt(ir.MacroArity, v, "macro %q expects %d parameter(s), got %d", name, len(mac.Params), len(v.Operands))
		}
		args := make([]ir.Expr, len(v.Operands))
		for i, op := range v.Operands {
			args[i] = expand(ctx, table, op, memo)
		}
		bindings := make(map[string]ir.Expr, len(mac.Params))
		for i, p := range mac.Params {
			bindings[p] = args[i]
		}
		substituted := substitute(mac.Body, bindings, make(map[*ir.Node]*ir.Node))
		result := expand(ctx, table, substituted, memo)
		memo[v] = result
		return result
	}

	changed := false
	newOperands := make([]ir.Expr, len(v.Operands))
	for i, op := range v.Operands {
		ne := expand(ctx, table, op, memo)
		newOperands[i] = ne
		if ne != op {
			changed = true
		}
	}
	if !changed {
		memo[v] = v
		return v
	}
	nv := &ir.Node{Op: v.Op, Operands: newOperands, SourceFile: v.SourceFile, SourceLine: v.SourceLine, SourceCol: v.SourceCol}
	memo[v] = nv
	return nv
}

// substitute copies body, replacing every ",param" atom with its bound
// actual. A body node reached more than once (e.g. a let:-introduced
// edge inside the macro body) is copied once and that copy is reused, so
// the instance keeps the body's sharing. Every ",name" atom reachable
// from a macro body must have a binding — the macro's own Params list is
// exhaustive by construction — so an unmatched one means the macro body
// references a parameter it never declared.
func substitute(body ir.Expr, bindings map[string]ir.Expr, copies map[*ir.Node]*ir.Node) ir.Expr {
	switch v := body.(type) {
	case ir.Atom:
		if name, ok := ir.MacroParam(v); ok {
			val, ok := bindings[name]
			if !ok {
				ir.Fail(ir.UnmatchedMacroParam, "macro parameter %q has no matching argument", name)
			}
			return val
		}
		return v
	case *ir.Node:
		if cp, ok := copies[v]; ok {
			return cp
		}
		newOperands := make([]ir.Expr, len(v.Operands))
		for i, op := range v.Operands {
			newOperands[i] = substitute(op, bindings, copies)
		}
		cp := &ir.Node{Op: v.Op, Operands: newOperands, SourceFile: v.SourceFile, SourceLine: v.SourceLine, SourceCol: v.SourceCol}
		copies[v] = cp
		return cp
	default:
		ir.Fail(ir.ReadError, "unrecognized expression kind %T", body)
		panic("unreachable")
	}
}
