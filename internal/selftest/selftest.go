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

// Package selftest backs "tplc -test" (spec §6): it exercises the
// pipeline against the builtin catalogs and a handful of known-good
// sources, failing fast if any of them no longer compile cleanly.
package selftest

import (
	"fmt"

	"github.com/mvmjit/tplc/internal/catalog"
	"github.com/mvmjit/tplc/internal/config"
	"github.com/mvmjit/tplc/internal/driver"
)

// testCase is one self-test: source that must compile without a panic, and
// the opcode it's expected to produce a record for.
type testCase struct {
	name   string
	source string
	opcode string
}

var cases = []testCase{
	{
		name:   "plain reg template",
		source: `(template: load_field (load (addr $0 $1)))`,
		opcode: "load_field",
	},
	{
		name:   "write operand is used",
		source: `(template: store_field (store (addr \$0 $2) $1))`,
		opcode: "store_field",
	},
	{
		name:   "let: binding shared across body",
		source: `(template: call_helper (let: (($obj (addr $0 8))) (call $obj (arglist $1))))`,
		opcode: "call_helper",
	},
	{
		name:   "doubled-operand opcode",
		source: `(template: inc_i (store \$1 (add $0 $0)))`,
		opcode: "inc_i",
	},
}

// Run executes every self-test case, returning the first error
// encountered (a source that no longer compiles is a regression, not a
// normal compile-time diagnostic).
func Run() error {
	for _, c := range cases {
		d := driver.New(catalog.BuiltinOpcodes(), catalog.BuiltinOperators(), config.DefaultPrefix)
		if err := runCase(d, c); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}

func runCase(d *driver.Driver, c testCase) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	d.EvalLine(c.source)
	program := d.Finalize()
	if _, ok := program.Records[c.opcode]; !ok {
		return fmt.Errorf("expected a compiled record for opcode %q", c.opcode)
	}
	return nil
}
