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

// Package catalog holds the two read-only tables the compiler consumes
// from external collaborators (spec §4.2, §6): the opcode catalog and the
// expression-operator catalog. We only fix their abstract shape, the way
// the teacher's Declare/Declaration pair (scm/declare.go) fixes the shape
// of a builtin function without caring how its documentation file reached
// disk.
package catalog

import "github.com/mvmjit/tplc/internal/ir"

// Direction is the operand direction tag of spec §4.2: "(direction ∈
// {read,write,…}, type-tag)".
type Direction uint8

const (
	DirRead Direction = iota
	DirWrite
	DirOther
)

// ParseDirection maps the textual directions the on-disk catalog format
// uses to a Direction. Anything other than "read"/"write" becomes DirOther,
// since spec §4.2 leaves the direction set open-ended ("…").
func ParseDirection(s string) Direction {
	switch s {
	case "read":
		return DirRead
	case "write":
		return DirWrite
	default:
		return DirOther
	}
}

func (d Direction) String() string {
	switch d {
	case DirRead:
		return "read"
	case DirWrite:
		return "write"
	default:
		return "other"
	}
}

// OperandDesc is one (direction, type-tag) pair of an opcode's operand
// vector.
type OperandDesc struct {
	Direction Direction
	TypeTag   string
}

// ExprType maps an operand type-tag to the expression-type domain per
// spec §4.2: num32/num64 -> num, `1 -> ? (polymorphic), everything else ->
// reg.
func (o OperandDesc) ExprType() ir.Type {
	switch o.TypeTag {
	case "num32", "num64":
		return ir.TypeNum
	case "`1":
		return ir.TypeAny
	default:
		return ir.TypeReg
	}
}

// OpcodeSpec is one entry of the opcode catalog: a name and its ordered
// operand vector.
type OpcodeSpec struct {
	Name     string
	Operands []OperandDesc
}

// OpcodeCatalog is the opcode-name -> OpcodeSpec table, kept in both
// lookup and declaration order (spec §6: "one row per opcode in catalog
// order").
type OpcodeCatalog struct {
	byName map[string]*OpcodeSpec
	order  []string
}

// NewOpcodeCatalog returns an empty catalog ready for Add.
func NewOpcodeCatalog() *OpcodeCatalog {
	return &OpcodeCatalog{byName: make(map[string]*OpcodeSpec)}
}

// Add registers spec under its name. Re-registration under the same name
// is a caller bug (catalogs are read once at startup, spec §6), not a
// compile-time RedefinedOpcode (that diagnostic is about "template:"
// forms, not catalog entries) — Add simply overwrites and keeps the
// original declaration order.
func (c *OpcodeCatalog) Add(spec *OpcodeSpec) {
	if _, exists := c.byName[spec.Name]; !exists {
		c.order = append(c.order, spec.Name)
	}
	c.byName[spec.Name] = spec
}

// Lookup resolves an opcode by name.
func (c *OpcodeCatalog) Lookup(name string) (*OpcodeSpec, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// Names returns every opcode name in catalog (declaration) order.
func (c *OpcodeCatalog) Names() []string {
	return append([]string(nil), c.order...)
}

// OperatorSpec is one entry of the expression-operator catalog: required
// operand count, required parameter count, and an explicit variadic flag.
//
// The teacher's operator_catalog in the original implementation signals
// variadic operators with a negative operand_count sentinel (spec §9,
// "Open questions / latent bugs worth flagging"); we expose Variadic as
// its own field instead of overloading OperandCount; a reimplementation
// should make the distinction explicit rather than generalize the
// sentinel.
type OperatorSpec struct {
	Name         string
	OperandCount int
	ParamCount   int
	Variadic     bool
}

// OperatorCatalog is the operator-name -> OperatorSpec table.
type OperatorCatalog struct {
	byName map[string]*OperatorSpec
}

// NewOperatorCatalog returns an empty catalog ready for Add.
func NewOperatorCatalog() *OperatorCatalog {
	return &OperatorCatalog{byName: make(map[string]*OperatorSpec)}
}

// Add registers spec under its name.
func (c *OperatorCatalog) Add(spec *OperatorSpec) {
	c.byName[spec.Name] = spec
}

// Lookup resolves an operator by name.
func (c *OperatorCatalog) Lookup(name string) (*OperatorSpec, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// doubledOperandOpcodes accept $0/$1 regardless of their declared operand
// vector length: inc_i/dec_i/inc_u/dec_u read and write the same slot, so
// the catalog entry only needs to declare it once, but both the read ($0)
// and write ($1) reference forms must still resolve.
var doubledOperandOpcodes = map[string]bool{
	"inc_i": true, "dec_i": true, "inc_u": true, "dec_u": true,
}

// IsDoubledOperandOpcode reports whether name is one of the
// inc_i/dec_i/inc_u/dec_u family.
func IsDoubledOperandOpcode(name string) bool {
	return doubledOperandOpcodes[name]
}
