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

// BuiltinOperators returns the expression-operator catalog spec §4.5
// names in full, for use by "tplc -test" and by every package's unit
// tests that need a ready catalog without loading one from disk.
func BuiltinOperators() *OperatorCatalog {
	cat := NewOperatorCatalog()
	add := func(name string, operandCount, paramCount int, variadic bool) {
		cat.Add(&OperatorSpec{Name: name, OperandCount: operandCount, ParamCount: paramCount, Variadic: variadic})
	}

	// void-result
	add("store", 2, 0, false)
	add("store_num", 2, 0, false)
	add("discard", 1, 0, false)
	add("dov", 0, 0, true)
	add("ifv", 3, 0, false)
	add("when", 2, 0, false)
	add("branch", 1, 0, false)
	add("mark", 1, 0, false)
	add("callv", 1, 0, true)
	add("guard", 1, 0, false)

	// flag-result
	add("lt", 2, 0, false)
	add("le", 2, 0, false)
	add("eq", 2, 0, false)
	add("ne", 2, 0, false)
	add("ge", 2, 0, false)
	add("gt", 2, 0, false)
	add("nz", 1, 0, false)
	add("zr", 1, 0, false)
	add("all", 1, 0, true)
	add("any", 1, 0, true)

	// num-result
	add("const_num", 1, 0, false)
	add("load_num", 1, 0, false)
	add("calln", 1, 0, true)

	// polymorphic (?) result
	add("if", 3, 0, false)
	add("do", 0, 0, true)
	add("copy", 1, 0, false)
	add("add", 2, 0, true)
	add("sub", 2, 0, true)
	add("mul", 2, 0, true)

	// structural pseudo-types
	add("arglist", 0, 0, true)
	add("carg", 1, 0, false)

	// default-to-reg
	add("load", 1, 0, false)
	add("addr", 2, 0, false)
	add("const", 1, 0, false)
	add("call", 2, 0, false)
	add("cast", 1, 1, false)
	add("const_ptr", 1, 0, true)
	add("const_large", 1, 0, true)

	return cat
}

// BuiltinOpcodes returns a small opcode catalog covering every opcode
// shape the seeded scenarios exercise: plain reg-producing opcodes, a
// write-operand opcode, and the inc_i/dec_i/inc_u/dec_u family that reads
// its current value at $0 and writes the new one at $1 despite declaring
// only one logical operand.
func BuiltinOpcodes() *OpcodeCatalog {
	cat := NewOpcodeCatalog()

	cat.Add(&OpcodeSpec{Name: "load_field", Operands: []OperandDesc{
		{Direction: DirRead, TypeTag: "reg"},
		{Direction: DirRead, TypeTag: "num64"},
	}})
	cat.Add(&OpcodeSpec{Name: "store_field", Operands: []OperandDesc{
		{Direction: DirWrite, TypeTag: "reg"},
		{Direction: DirRead, TypeTag: "reg"},
		{Direction: DirRead, TypeTag: "num64"},
	}})
	cat.Add(&OpcodeSpec{Name: "call_helper", Operands: []OperandDesc{
		{Direction: DirRead, TypeTag: "reg"},
		{Direction: DirRead, TypeTag: "`1"},
	}})

	for _, name := range []string{"inc_i", "dec_i", "inc_u", "dec_u"} {
		cat.Add(&OpcodeSpec{Name: name, Operands: []OperandDesc{
			{Direction: DirWrite, TypeTag: "reg"},
		}})
	}

	return cat
}
