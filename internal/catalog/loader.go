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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadOpcodeCatalog reads the on-disk opcode catalog format. spec §1 treats
// the physical file as an external collaborator and only fixes the
// abstract shape we consume, so this format is our own concrete choice,
// kept deliberately line-oriented like the teacher's own documentation
// generator (scm/declare.go's WriteDocumentation) rather than introducing
// a second parser grammar:
//
//	# comment
//	opcode_name direction:type direction:type ...
//
// e.g.
//
//	load write:reg read:reg read:num64
func LoadOpcodeCatalog(r io.Reader) (*OpcodeCatalog, error) {
	cat := NewOpcodeCatalog()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		spec := &OpcodeSpec{Name: fields[0]}
		for _, f := range fields[1:] {
			parts := strings.SplitN(f, ":", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("opcode catalog line %d: malformed operand %q", lineNo, f)
			}
			spec.Operands = append(spec.Operands, OperandDesc{
				Direction: ParseDirection(parts[0]),
				TypeTag:   parts[1],
			})
		}
		cat.Add(spec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cat, nil
}

// LoadOperatorCatalog reads the on-disk expression-operator catalog
// format:
//
//	# comment
//	operator_name operand_count param_count [variadic]
//
// When the "variadic" flag is present, operand_count is the minimum
// number of operands the operator takes (the type checker rejects fewer),
// per the explicit-flag redesign of spec §9.
func LoadOperatorCatalog(r io.Reader) (*OperatorCatalog, error) {
	cat := NewOperatorCatalog()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("operator catalog line %d: expected at least 3 fields", lineNo)
		}
		operandCount, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("operator catalog line %d: bad operand_count: %w", lineNo, err)
		}
		paramCount, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("operator catalog line %d: bad param_count: %w", lineNo, err)
		}
		variadic := len(fields) > 3 && fields[3] == "variadic"
		cat.Add(&OperatorSpec{
			Name:         fields[0],
			OperandCount: operandCount,
			ParamCount:   paramCount,
			Variadic:     variadic,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cat, nil
}
