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

// Package typecheck assigns the fixed {reg, num, flag, void, ?} type of
// every node in a linked, expanded tree and validates operand types,
// grounded on the table-driven checks of scm/declare.go's Declaration
// (which validates a builtin's argument count/types against a table
// instead of hand-rolling a branch per builtin).
package typecheck

import "github.com/mvmjit/tplc/internal/ir"

// fixedResultType is the result-type table of spec §4.5. Operators not
// present here are resolved by the polymorphism rules (polyResultType) or,
// failing that, default to reg.
var fixedResultType = map[string]ir.Type{
	"store":     ir.TypeVoid,
	"store_num": ir.TypeVoid,
	"discard":   ir.TypeVoid,
	"dov":       ir.TypeVoid,
	"ifv":       ir.TypeVoid,
	"when":      ir.TypeVoid,
	"branch":    ir.TypeVoid,
	"mark":      ir.TypeVoid,
	"callv":     ir.TypeVoid,
	"guard":     ir.TypeVoid,

	"lt":  ir.TypeFlag,
	"le":  ir.TypeFlag,
	"eq":  ir.TypeFlag,
	"ne":  ir.TypeFlag,
	"ge":  ir.TypeFlag,
	"gt":  ir.TypeFlag,
	"nz":  ir.TypeFlag,
	"zr":  ir.TypeFlag,
	"all": ir.TypeFlag,
	"any": ir.TypeFlag,

	"const_num": ir.TypeNum,
	"load_num":  ir.TypeNum,
	"calln":     ir.TypeNum,

	"arglist": ir.TypeArglist,
	"carg":    ir.TypeCarg,
}

// polymorphic names the "?"-result operators of spec §4.5 that need
// bespoke resolution logic rather than a plain table lookup:
//   - if / ifv: cond must be flag, the two branches must be Equivalent;
//     "if" returns their Join, "ifv" always returns void regardless.
//   - do / dov: type of the last operand; "dov" always returns void
//     regardless (mirrors if/ifv: dov is how the linker rewrites a let:
//     body whose final type is already void, so forcing void here is
//     belt-and-suspenders, not load-bearing).
//   - copy: type of its (only) operand.
//   - everything else ("other ? operators", e.g. add/sub/mul): type of
//     the first operand; every subsequent operand must match it.
var polymorphic = map[string]bool{
	"if": true, "ifv": true,
	"do": true, "dov": true,
	"copy": true,
	"add":  true, "sub": true, "mul": true,
}

// operandTypes is the expected-operand-types table of spec §4.5, for
// operators whose operand shape isn't already pinned down by the
// polymorphism rules above. Entries not listed here default every
// operand to reg, per the table's closing rule.
//
// store_num's [reg, num] and discard's [?] are our own choices, not
// given verbatim by name in spec §4.5's two worked examples (when, call);
// store_num mirrors store's [reg, ?] with a num-only value slot, and
// discard must accept ? because the linker wraps every let: definition
// (reg, num, or still-polymorphic) in a discard node (spec §4.3 step 2).
var operandTypes = map[string][]ir.Type{
	"when":      {ir.TypeFlag, ir.TypeVoid},
	"call":      {ir.TypeReg, ir.TypeArglist},
	"store":     {ir.TypeReg, ir.TypeAny},
	"store_num": {ir.TypeReg, ir.TypeNum},
	"guard":     {ir.TypeVoid},
	"discard":   {ir.TypeAny},
	// addr's second operand is an offset/size, commonly a literal number
	// but occasionally a polymorphic sub-expression; ? accepts either.
	"addr": {ir.TypeReg, ir.TypeAny},
	// const_num/const hold a literal value directly, never a register.
	"const_num": {ir.TypeAny},
	"const":     {ir.TypeAny},
}

// ExpectedOperandTypes expands a listed operand-type table entry to
// operandCount slots per spec §4.5's filling rule: if fewer types are
// listed than operands, the last entry repeats to fill, or — if exactly
// two are listed — the first repeats for all but the last operand, which
// uses the second. An empty list defaults every operand to reg.
func ExpectedOperandTypes(listed []ir.Type, operandCount int) []ir.Type {
	if operandCount <= len(listed) {
		return listed[:operandCount]
	}
	if len(listed) == 0 {
		out := make([]ir.Type, operandCount)
		for i := range out {
			out[i] = ir.TypeReg
		}
		return out
	}
	if len(listed) == 2 {
		out := make([]ir.Type, operandCount)
		for i := 0; i < operandCount-1; i++ {
			out[i] = listed[0]
		}
		out[operandCount-1] = listed[1]
		return out
	}
	out := make([]ir.Type, operandCount)
	copy(out, listed)
	for i := len(listed); i < operandCount; i++ {
		out[i] = listed[len(listed)-1]
	}
	return out
}
