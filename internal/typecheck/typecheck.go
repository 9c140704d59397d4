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
package typecheck

import (
	"github.com/mvmjit/tplc/internal/catalog"
	"github.com/mvmjit/tplc/internal/ir"
)

// Context carries the two pieces of external knowledge type-checking
// needs: the enclosing opcode (for $N / \$N operand references) and the
// expression-operator catalog (for arity and UnknownOperator checks).
//
// Opcode is nil while linking a macro's body at registration time (spec
// §4.4: "the body is linked with no environment") — a macro is written
// independently of any particular opcode, so $N references inside it
// can't be resolved yet. Infer returns TypeAny for them in that case and
// defers the real check to the "template:" form's own type-check, after
// the macro has been expanded into a tree that does have a concrete
// Opcode.
type Context struct {
	Opcode    *catalog.OpcodeSpec
	Operators *catalog.OperatorCatalog
}

// Infer computes the type of e and validates every operand type and
// arity along the way, panicking with *ir.CompileError on any mismatch.
func Infer(ctx *Context, e ir.Expr) ir.Type {
	switch v := e.(type) {
	case ir.Atom:
		return inferAtom(ctx, v)
	case *ir.Node:
		return inferNode(ctx, v)
	default:
		ir.Fail(ir.TypeMismatch, "unrecognized expression kind %T", e)
		panic("unreachable")
	}
}

func inferAtom(ctx *Context, a ir.Atom) ir.Type {
	if ir.IsNumber(a) {
		return ir.TypeNum
	}
	if n, _, ok := ir.OperandRef(a); ok {
		if ctx.Opcode == nil {
			return ir.TypeAny
		}
		if n < 0 || n >= len(ctx.Opcode.Operands) {
			if catalog.IsDoubledOperandOpcode(ctx.Opcode.Name) && n >= 0 && n < 2 {
				return ir.TypeReg
			}
			ir.Fail(ir.OperandRefOutOfRange, "$%d out of range for opcode %q (%d operands)",
				n, ctx.Opcode.Name, len(ctx.Opcode.Operands))
		}
		return ctx.Opcode.Operands[n].ExprType()
	}
	if _, ok := ir.MacroParam(a); ok {
		// Not yet substituted (still inside an unexpanded macro body);
		// its eventual type is unknown until expansion, spec §4.3 step 2
		// allows reg/num/? through here so Any is always a safe guess.
		return ir.TypeAny
	}
	if ir.IsBareword(a) {
		return ir.TypeReg
	}
	// NamedRef / MacroName / MacroCallHead should never survive linking
	// and expansion into a type-checked tree; treat conservatively rather
	// than panic on an internal-consistency question this package doesn't own.
	return ir.TypeAny
}

func inferNode(ctx *Context, v *ir.Node) ir.Type {
	if v.Op == "" && len(v.Operands) == 0 {
		return ir.TypeVoid
	}
	name := string(v.Op)
	if _, ok := ir.MacroName(v.Op); ok {
		// An unexpanded ^macro call, e.g. a let: body the linker types
		// before expansion: its type is unknown until the body is
		// substituted, and the expanded tree is checked again afterwards.
		return ir.TypeAny
	}

	spec, ok := ctx.Operators.Lookup(name)
	if !ok {
		ir.FailAt(ir.UnknownOperator, v, "unknown operator %q", name)
	}
	checkArity(spec, v)

	switch name {
	case "if", "ifv":
		return inferIf(ctx, v, name == "ifv")
	case "do", "dov":
		return inferDo(ctx, v, name == "dov")
	case "copy":
		return Infer(ctx, v.Operands[0])
	case "add", "sub", "mul":
		return inferVariadicSame(ctx, v, name)
	default:
		checkOperandTypes(ctx, name, v)
		if t, ok := fixedResultType[name]; ok {
			return t
		}
		return ir.TypeReg
	}
}

func checkArity(spec *catalog.OperatorSpec, v *ir.Node) {
	want := spec.OperandCount + spec.ParamCount
	got := len(v.Operands)
	if spec.Variadic {
		if got < want {
			ir.FailAt(ir.TypeMismatch, v, "%s: expected at least %d operands, got %d", spec.Name, want, got)
		}
		return
	}
	if got != want {
		ir.FailAt(ir.TypeMismatch, v, "%s: expected %d operands, got %d", spec.Name, want, got)
	}
}

func inferIf(ctx *Context, v *ir.Node, void bool) ir.Type {
	cond := Infer(ctx, v.Operands[0])
	if cond != ir.TypeFlag {
		ir.FailAt(ir.TypeMismatch, v, "if/ifv: condition must be flag, got %s", cond)
	}
	b1 := Infer(ctx, v.Operands[1])
	b2 := Infer(ctx, v.Operands[2])
	if !ir.Equivalent(b1, b2) {
		ir.FailAt(ir.TypeMismatch, v, "if/ifv: branches must be equivalent, got %s and %s", b1, b2)
	}
	if void {
		return ir.TypeVoid
	}
	return ir.Join(b1, b2)
}

func inferDo(ctx *Context, v *ir.Node, voidResult bool) ir.Type {
	var last ir.Type = ir.TypeVoid
	for _, op := range v.Operands {
		last = Infer(ctx, op)
	}
	if voidResult {
		return ir.TypeVoid
	}
	return last
}

func inferVariadicSame(ctx *Context, v *ir.Node, name string) ir.Type {
	first := Infer(ctx, v.Operands[0])
	for _, op := range v.Operands[1:] {
		t := Infer(ctx, op)
		if !ir.Equivalent(first, t) {
			ir.FailAt(ir.TypeMismatch, v, "%s: operand type %s does not match first operand type %s", name, t, first)
		}
	}
	return first
}

func checkOperandTypes(ctx *Context, name string, v *ir.Node) {
	expected := ExpectedOperandTypes(operandTypes[name], len(v.Operands))
	for i, op := range v.Operands {
		actual := Infer(ctx, op)
		if !ir.Equivalent(expected[i], actual) {
			ir.FailAt(ir.TypeMismatch, v, "%s: operand %d expected %s, got %s", name, i, expected[i], actual)
		}
	}
}
