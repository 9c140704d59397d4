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

// Type is the small tagged domain every expression node is checked
// against: Reg, Num, Flag, Void, or Any (polymorphic over Reg/Num). This is
// modeled as an enum with an explicit Join, not as subtyping — Any isn't a
// supertype, it's a placeholder that resolves once it meets a concrete
// peer.
type Type uint8

const (
	TypeVoid Type = iota
	TypeReg
	TypeNum
	TypeFlag
	TypeAny
	// TypeArglist and TypeCarg are the two structural pseudo-types of
	// spec §4.5 ("arglist / carg return themselves"): their own operator
	// name IS their type, used to match the "arglist" token that appears
	// in operand-type tables such as "call: reg, arglist".
	TypeArglist
	TypeCarg
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeReg:
		return "reg"
	case TypeNum:
		return "num"
	case TypeFlag:
		return "flag"
	case TypeAny:
		return "?"
	case TypeArglist:
		return "arglist"
	case TypeCarg:
		return "carg"
	default:
		return "invalid"
	}
}

// Equivalent implements the type-equivalence rule of spec §4.5: identity,
// or Any accepts any Reg/Num.
func Equivalent(a, b Type) bool {
	if a == b {
		return true
	}
	if a == TypeAny {
		return b == TypeReg || b == TypeNum
	}
	if b == TypeAny {
		return a == TypeReg || a == TypeNum
	}
	return false
}

// Join resolves Any against a concrete peer: a concrete Reg/Num dominates
// Any; two concretes must already be equal (checked by the caller via
// Equivalent before calling Join).
func Join(a, b Type) Type {
	if a == TypeAny {
		return b
	}
	if b == TypeAny {
		return a
	}
	return a
}
