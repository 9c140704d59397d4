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
	"testing"

	"github.com/mvmjit/tplc/internal/catalog"
	"github.com/mvmjit/tplc/internal/ir"
	"github.com/mvmjit/tplc/internal/sexpr"
)

func ctxFor(opcode string) *Context {
	spec, ok := catalog.BuiltinOpcodes().Lookup(opcode)
	if !ok {
		panic("no such opcode: " + opcode)
	}
	return &Context{Opcode: spec, Operators: catalog.BuiltinOperators()}
}

func parseOne(src string) ir.Expr {
	return sexpr.ReadAll("t", src)[0]
}

func TestExpectedOperandTypesFilling(t *testing.T) {
	got := ExpectedOperandTypes([]ir.Type{ir.TypeFlag, ir.TypeVoid}, 4)
	want := []ir.Type{ir.TypeFlag, ir.TypeFlag, ir.TypeFlag, ir.TypeVoid}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExpectedOperandTypes = %v, want %v", got, want)
		}
	}

	got = ExpectedOperandTypes(nil, 3)
	for _, ty := range got {
		if ty != ir.TypeReg {
			t.Fatalf("empty listed types should default to reg, got %v", got)
		}
	}

	got = ExpectedOperandTypes([]ir.Type{ir.TypeReg, ir.TypeNum, ir.TypeFlag}, 5)
	want = []ir.Type{ir.TypeReg, ir.TypeNum, ir.TypeFlag, ir.TypeFlag, ir.TypeFlag}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExpectedOperandTypes (>2 listed) = %v, want %v", got, want)
		}
	}
}

func TestInferVoidResultOperators(t *testing.T) {
	ctx := ctxFor("store_field")
	typ := Infer(ctx, parseOne(`(store (addr $0 $2) $1)`))
	if typ != ir.TypeVoid {
		t.Fatalf("store's type = %s, want void", typ)
	}
}

func TestInferFlagResultOperators(t *testing.T) {
	ctx := ctxFor("load_field")
	typ := Infer(ctx, parseOne(`(lt $0 $0)`))
	if typ != ir.TypeFlag {
		t.Fatalf("lt's type = %s, want flag", typ)
	}
}

func TestInferIfJoinsBranches(t *testing.T) {
	ctx := ctxFor("load_field")
	typ := Infer(ctx, parseOne(`(if (lt $0 $0) $0 $0)`))
	if typ != ir.TypeReg {
		t.Fatalf("if's type = %s, want reg", typ)
	}
}

func TestInferIfvAlwaysVoid(t *testing.T) {
	ctx := ctxFor("load_field")
	typ := Infer(ctx, parseOne(`(ifv (lt $0 $0) (store (addr $0 $1) $0) (store (addr $0 $1) $0))`))
	if typ != ir.TypeVoid {
		t.Fatalf("ifv's type = %s, want void", typ)
	}
}

func TestInferIfMismatchedBranchesPanics(t *testing.T) {
	ctx := ctxFor("load_field")
	defer func() {
		r := recover()
		ce, ok := r.(*ir.CompileError)
		if !ok || ce.Kind != ir.TypeMismatch {
			t.Fatalf("expected a TypeMismatch panic, got %v", r)
		}
	}()
	Infer(ctx, parseOne(`(if (lt $0 $0) $0 (const_num 1))`))
}

func TestInferOperandRefOutOfRangePanics(t *testing.T) {
	ctx := ctxFor("load_field") // only declares $0, $1
	defer func() {
		r := recover()
		ce, ok := r.(*ir.CompileError)
		if !ok || ce.Kind != ir.OperandRefOutOfRange {
			t.Fatalf("expected an OperandRefOutOfRange panic, got %v", r)
		}
	}()
	Infer(ctx, parseOne(`$5`))
}

func TestInferDoubledOperandBypass(t *testing.T) {
	ctx := ctxFor("inc_i") // declares only one operand, but $0/$1 both resolve
	typ := Infer(ctx, parseOne(`(add $0 $0)`))
	if typ != ir.TypeReg {
		t.Fatalf("add over doubled-operand refs = %s, want reg", typ)
	}
	typ = Infer(ctx, parseOne(`\$1`))
	if typ != ir.TypeReg {
		t.Fatalf(`\$1 over inc_i = %s, want reg`, typ)
	}
}

func TestInferUnknownOperatorPanics(t *testing.T) {
	ctx := ctxFor("load_field")
	defer func() {
		r := recover()
		ce, ok := r.(*ir.CompileError)
		if !ok || ce.Kind != ir.UnknownOperator {
			t.Fatalf("expected an UnknownOperator panic, got %v", r)
		}
	}()
	Infer(ctx, parseOne(`(frobnicate $0)`))
}

func TestInferArglistAndCargSelfTypes(t *testing.T) {
	ctx := ctxFor("call_helper")
	if typ := Infer(ctx, parseOne(`(arglist $1)`)); typ != ir.TypeArglist {
		t.Fatalf("arglist's type = %s, want arglist", typ)
	}
	if typ := Infer(ctx, parseOne(`(carg $0)`)); typ != ir.TypeCarg {
		t.Fatalf("carg's type = %s, want carg", typ)
	}
}
