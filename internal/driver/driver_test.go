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
package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mvmjit/tplc/internal/catalog"
	"github.com/mvmjit/tplc/internal/config"
	"github.com/mvmjit/tplc/internal/ir"
)

func newDriver() *Driver {
	return New(catalog.BuiltinOpcodes(), catalog.BuiltinOperators(), config.DefaultPrefix)
}

func TestDriverDefineTemplateAndFinalize(t *testing.T) {
	d := newDriver()
	d.EvalLine(`(template: load_field (load (addr $0 $1)))`)

	program := d.Finalize()
	if _, ok := program.Records["load_field"]; !ok {
		t.Fatal("load_field was not compiled into the final program")
	}
	if _, ok := program.Offsets["load_field"]; !ok {
		t.Fatal("load_field has no recorded offset")
	}
}

func TestDriverRedefinedOpcodePanics(t *testing.T) {
	d := newDriver()
	d.EvalLine(`(template: load_field (load (addr $0 $1)))`)

	defer func() {
		r := recover()
		ce, ok := r.(*ir.CompileError)
		if !ok || ce.Kind != ir.RedefinedOpcode {
			t.Fatalf("expected a RedefinedOpcode panic, got %v", r)
		}
	}()
	d.EvalLine(`(template: load_field (load (addr $0 $1)))`)
}

func TestDriverUnknownOpcodePanics(t *testing.T) {
	d := newDriver()
	defer func() {
		r := recover()
		ce, ok := r.(*ir.CompileError)
		if !ok || ce.Kind != ir.UnknownOpcode {
			t.Fatalf("expected an UnknownOpcode panic, got %v", r)
		}
	}()
	d.EvalLine(`(template: frobnicate (load $0))`)
}

func TestDriverDestructiveMarkerRequiresWriteOperand(t *testing.T) {
	d := newDriver()
	defer func() {
		r := recover()
		ce, ok := r.(*ir.CompileError)
		if !ok || ce.Kind != ir.DestructiveWithoutWrite {
			t.Fatalf("expected a DestructiveWithoutWrite panic, got %v", r)
		}
	}()
	// load_field declares no write operand.
	d.EvalLine(`(template: load_field destructive (load (addr $0 $1)))`)
}

func TestDriverDestructiveMarkerAcceptsWriteOperand(t *testing.T) {
	d := newDriver()
	d.EvalLine(`(template: store_field destructive (store (addr \$0 $2) $1))`)
	program := d.Finalize()
	if _, ok := program.Records["store_field"]; !ok {
		t.Fatal("store_field was not compiled")
	}
}

func TestDriverMacroDefinitionAndUse(t *testing.T) {
	d := newDriver()
	d.EvalLine(`(macro: ^helper_call (,obj) (call ,obj (arglist $1)))`)
	d.EvalLine(`(template: call_helper (let: (($self (addr $0 8))) (^helper_call $self)))`)

	program := d.Finalize()
	if _, ok := program.Records["call_helper"]; !ok {
		t.Fatal("call_helper was not compiled")
	}
}

func TestDriverIncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.tplc")
	pathB := filepath.Join(dir, "b.tplc")

	if err := os.WriteFile(pathA, []byte(`(include: "b.tplc")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte(`(include: "a.tplc")`), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newDriver()
	defer func() {
		r := recover()
		ce, ok := r.(*ir.CompileError)
		if !ok || ce.Kind != ir.ReadError {
			t.Fatalf("expected a ReadError panic for the include cycle, got %v", r)
		}
	}()
	d.ProcessFile(pathA)
}

func TestDriverIncludeResolvesRelativeToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(dir, "main.tplc")
	included := filepath.Join(sub, "inc.tplc")

	if err := os.WriteFile(included, []byte(`(template: load_field (load (addr $0 $1)))`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(main, []byte(`(include: "sub/inc.tplc")`), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newDriver()
	d.ProcessFile(main)
	program := d.Finalize()
	if _, ok := program.Records["load_field"]; !ok {
		t.Fatal("load_field from the included file was not compiled")
	}
}
