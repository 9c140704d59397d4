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
package catalog

import (
	"strings"
	"testing"

	"github.com/mvmjit/tplc/internal/ir"
)

func TestLoadOpcodeCatalog(t *testing.T) {
	src := `
# a comment line, and a blank line above
load write:reg read:reg read:num64
const_ptr_op read:` + "`1" + `
`
	cat, err := LoadOpcodeCatalog(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadOpcodeCatalog: %v", err)
	}
	load, ok := cat.Lookup("load")
	if !ok {
		t.Fatal("opcode \"load\" not loaded")
	}
	if len(load.Operands) != 3 {
		t.Fatalf("got %d operands, want 3", len(load.Operands))
	}
	if load.Operands[0].Direction != DirWrite || load.Operands[0].TypeTag != "reg" {
		t.Fatalf("operand 0 = %+v, want write:reg", load.Operands[0])
	}
	if load.Operands[2].ExprType() != ir.TypeNum {
		t.Fatalf("num64 operand ExprType = %v, want num", load.Operands[2].ExprType())
	}

	poly, ok := cat.Lookup("const_ptr_op")
	if !ok {
		t.Fatal("opcode \"const_ptr_op\" not loaded")
	}
	if poly.Operands[0].ExprType() != ir.TypeAny {
		t.Fatalf("`1 operand ExprType = %v, want any", poly.Operands[0].ExprType())
	}

	names := cat.Names()
	if len(names) != 2 || names[0] != "load" || names[1] != "const_ptr_op" {
		t.Fatalf("Names() = %v, want declaration order [load const_ptr_op]", names)
	}
}

func TestLoadOpcodeCatalogMalformedOperand(t *testing.T) {
	_, err := LoadOpcodeCatalog(strings.NewReader("load write_reg\n"))
	if err == nil {
		t.Fatal("expected an error for a malformed operand field")
	}
}

func TestLoadOperatorCatalog(t *testing.T) {
	src := `
# comment
add 2 0 variadic
cast 1 1
`
	cat, err := LoadOperatorCatalog(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadOperatorCatalog: %v", err)
	}
	add, ok := cat.Lookup("add")
	if !ok {
		t.Fatal("operator \"add\" not loaded")
	}
	if !add.Variadic || add.ParamCount != 0 {
		t.Fatalf("add = %+v, want variadic, 0 params", add)
	}
	cast, ok := cat.Lookup("cast")
	if !ok {
		t.Fatal("operator \"cast\" not loaded")
	}
	if cast.Variadic || cast.OperandCount != 1 || cast.ParamCount != 1 {
		t.Fatalf("cast = %+v, want non-variadic, 1 operand, 1 param", cast)
	}
}

func TestLoadOperatorCatalogTooFewFields(t *testing.T) {
	_, err := LoadOperatorCatalog(strings.NewReader("add 2\n"))
	if err == nil {
		t.Fatal("expected an error for too few fields")
	}
}

func TestLoadOperatorCatalogBadOperandCount(t *testing.T) {
	_, err := LoadOperatorCatalog(strings.NewReader("add x 0\n"))
	if err == nil {
		t.Fatal("expected an error for a non-numeric operand_count")
	}
}

func TestIsDoubledOperandOpcode(t *testing.T) {
	for _, name := range []string{"inc_i", "dec_i", "inc_u", "dec_u"} {
		if !IsDoubledOperandOpcode(name) {
			t.Errorf("IsDoubledOperandOpcode(%q) = false, want true", name)
		}
	}
	if IsDoubledOperandOpcode("load") {
		t.Error("IsDoubledOperandOpcode(\"load\") = true, want false")
	}
}

func TestBuiltinCatalogsAreInternallyConsistent(t *testing.T) {
	opcodes := BuiltinOpcodes()
	operators := BuiltinOperators()
	if len(opcodes.Names()) == 0 {
		t.Fatal("BuiltinOpcodes() returned an empty catalog")
	}
	if _, ok := operators.Lookup("if"); !ok {
		t.Fatal("BuiltinOperators() is missing \"if\"")
	}
}
