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

// Package linker resolves "let:" scopes (spec §4.3): every named binding
// is eliminated into a direct DAG edge (the Go pointer to its linked
// definition), and the let: node itself is rewritten in place to a plain
// "do"/"dov" sequence of discard-wrapped definitions followed by the
// body. Grounded on the teacher's Env chain-lookup (scm.go's Env/Find),
// simplified since tplc bindings are never reassigned after linking.
package linker

import (
	"github.com/mvmjit/tplc/internal/ir"
	"github.com/mvmjit/tplc/internal/typecheck"
)

// Link walks e under env, substituting every "$name" atom with a direct
// edge to its bound definition and recursively linking "let:" forms into
// "do"/"dov". Order matters: Link must run before macro expansion (spec
// §4.4/§9) so that names introduced by a let: are already direct edges by
// the time a macro call gets expanded into the tree around them.
func Link(ctx *typecheck.Context, env *ir.Env, e ir.Expr) ir.Expr {
	switch v := e.(type) {
	case ir.Atom:
		if name, ok := ir.NamedRef(v); ok {
			def, found := env.Lookup(name)
			if !found {
				ir.Fail(ir.UnboundName, "unbound name $%s", name)
			}
			return def
		}
		return v
	case *ir.Node:
		if v.Op == "let:" {
			return linkLet(ctx, env, v)
		}
		for i, op := range v.Operands {
			v.Operands[i] = Link(ctx, env, op)
		}
		return v
	default:
		ir.Fail(ir.ReadError, "unrecognized expression kind %T", e)
		panic("unreachable")
	}
}

// linkLet implements spec §4.3's let: algorithm. Bindings link
// sequentially against a growing env (each definition can see the names
// bound before it, not after), matching "for each binding, in order:
// link the definition under the current env, then bind the name".
func linkLet(ctx *typecheck.Context, env *ir.Env, v *ir.Node) ir.Expr {
	if len(v.Operands) < 2 {
		ir.FailAt(ir.ReadError, v, "let:: expected (bindings body...), got %d forms", len(v.Operands))
	}
	bindings, ok := v.Operands[0].(*ir.Node)
	if !ok {
		ir.FailAt(ir.ReadError, v, "let:: bindings must be a list")
	}

	inner := ir.NewEnv(env)
	discards := make([]ir.Expr, 0, len(bindings.Operands))
	for _, raw := range bindings.Operands {
		pair, ok := raw.(*ir.Node)
		if !ok || pair.Op == "" {
			ir.Fail(ir.ReadError, "let:: malformed binding, expected ($name definition)")
		}
		name, ok := ir.NamedRef(pair.Op)
		if !ok {
			ir.FailAt(ir.ReadError, pair, "let:: binding head %q is not a $name", pair.Op)
		}
		if len(pair.Operands) != 1 {
			ir.FailAt(ir.ReadError, pair, "let:: binding %q must have exactly one definition", name)
		}
		def := Link(ctx, inner, pair.Operands[0])
		dt := typecheck.Infer(ctx, def)
		if dt != ir.TypeReg && dt != ir.TypeNum && dt != ir.TypeAny {
			ir.FailAt(ir.TypeMismatch, pair, "let:: binding %q must be reg, num, or polymorphic, got %s", name, dt)
		}
		inner.Bind(name, def)
		discards = append(discards, ir.NewNode("discard", def))
	}

	bodies := make([]ir.Expr, len(v.Operands)-1)
	for i, raw := range v.Operands[1:] {
		bodies[i] = Link(ctx, inner, raw)
	}
	lastType := typecheck.Infer(ctx, bodies[len(bodies)-1])

	v.Op = "do"
	if lastType == ir.TypeVoid {
		v.Op = "dov"
	}
	v.Operands = append(discards, bodies...)
	return v
}
