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

// Package driver implements the file-level form dispatch of spec §4.7:
// "macro:", "template:" and "include:" top-level forms, one compiled
// record per opcode, and the final merge into a single catalog-ordered
// output. Grounded on the teacher's top-level eval loop (go-impl/scm.go's
// repeated top-level ReadFrom+Eval), generalized from "evaluate and
// print" to "dispatch on keyword and accumulate".
package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/btree"

	"github.com/mvmjit/tplc/internal/catalog"
	"github.com/mvmjit/tplc/internal/ir"
	"github.com/mvmjit/tplc/internal/linker"
	"github.com/mvmjit/tplc/internal/macro"
	"github.com/mvmjit/tplc/internal/sexpr"
	"github.com/mvmjit/tplc/internal/treecompile"
	"github.com/mvmjit/tplc/internal/typecheck"
)

// Driver accumulates the macro table and per-opcode compiled records
// across a file and every file it transitively includes.
type Driver struct {
	Opcodes   *catalog.OpcodeCatalog
	Operators *catalog.OperatorCatalog
	Macros    ir.MacroTable

	prefix  string
	consts  *treecompile.ConstTable
	order   []string
	records map[string]*treecompile.Result
	seen    *btree.BTreeG[string]
}

// New returns a Driver ready to process files against the given catalogs.
// prefix is prepended to every operator name and bareword the tree
// compiler emits (spec §4.6/§6); every opcode compiled by this Driver
// shares one constant table, since spec §3/§6/§8/§9 require constant
// indices to stay valid across the whole compilation unit, not just one
// opcode's template.
func New(opcodes *catalog.OpcodeCatalog, operators *catalog.OperatorCatalog, prefix string) *Driver {
	return &Driver{
		Opcodes:   opcodes,
		Operators: operators,
		Macros:    make(ir.MacroTable),
		prefix:    prefix,
		consts:    treecompile.NewConstTable(),
		records:   make(map[string]*treecompile.Result),
		seen:      btree.NewG(32, func(a, b string) bool { return a < b }),
	}
}

// ProcessFile reads path, parses every top-level form, and dispatches
// each in order. Re-entering a file already on the include stack is a
// cycle (spec §9 REDESIGN FLAG: treat recursive include as an error).
// The btree holds the absolute paths currently on the stack; the
// diagnostic names only the re-entered path, not the rest of the stack.
func (d *Driver) ProcessFile(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		ir.Fail(ir.IncludeMissing, "%s: %v", path, err)
	}
	if d.seen.Has(abs) {
		ir.Fail(ir.ReadError, "include cycle detected at %s", abs)
	}
	d.seen.ReplaceOrInsert(abs)
	defer d.seen.Delete(abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		ir.Fail(ir.IncludeMissing, "%s: %v", abs, err)
	}
	forms := sexpr.ReadAll(abs, string(data))
	for _, form := range forms {
		d.dispatch(filepath.Dir(abs), form)
	}
}

func (d *Driver) dispatch(dir string, form ir.Expr) {
	node, ok := form.(*ir.Node)
	if !ok || node.Op == "" {
		ir.Fail(ir.UnknownKeyword, "top-level form must start with a keyword")
	}
	switch string(node.Op) {
	case "macro:":
		d.defineMacro(node)
	case "template:":
		d.defineTemplate(node)
	case "include:":
		d.include(dir, node)
	default:
		ir.FailAt(ir.UnknownKeyword, node, "unknown top-level keyword %q", node.Op)
	}
}

// defineMacro handles "(macro: ^name (,p1 ,p2 ...) body)".
func (d *Driver) defineMacro(node *ir.Node) {
	if len(node.Operands) != 3 {
		ir.FailAt(ir.ReadError, node, "macro:: expected (^name (params) body), got %d forms", len(node.Operands))
	}
	nameAtom, ok := node.Operands[0].(ir.Atom)
	if !ok {
		ir.FailAt(ir.ReadError, node, "macro:: name must be a ^name atom")
	}
	name, ok := ir.MacroName(nameAtom)
	if !ok {
		ir.FailAt(ir.ReadError, node, "macro:: name %q is not a ^name atom", nameAtom)
	}
	paramsNode, ok := node.Operands[1].(*ir.Node)
	if !ok {
		ir.FailAt(ir.ReadError, node, "macro:: parameter list must be a list")
	}
	params := make([]string, 0, len(paramsNode.Operands))
	for _, p := range paramsNode.Operands {
		pa, ok := p.(ir.Atom)
		if !ok {
			ir.FailAt(ir.ReadError, node, "macro:: parameter must be a ,name atom")
		}
		pname, ok := ir.MacroParam(pa)
		if !ok {
			ir.FailAt(ir.ReadError, node, "macro:: parameter %q is not a ,name atom", pa)
		}
		params = append(params, pname)
	}
	ctx := &typecheck.Context{Operators: d.Operators}
	macro.Register(ctx, d.Macros, name, params, node.Operands[2])
}

// defineTemplate handles "(template: opcode_name [destructive] body)".
// The optional "destructive" marker requires the opcode to declare at
// least one write operand; omitting it is the common case (most opcodes
// just compute a register value).
func (d *Driver) defineTemplate(node *ir.Node) {
	if len(node.Operands) < 2 || len(node.Operands) > 3 {
		ir.FailAt(ir.ReadError, node, "template:: expected (name [destructive] body), got %d forms", len(node.Operands))
	}
	nameAtom, ok := node.Operands[0].(ir.Atom)
	if !ok {
		ir.FailAt(ir.ReadError, node, "template:: opcode name must be an atom")
	}
	name := string(nameAtom)

	destructive := false
	body := node.Operands[len(node.Operands)-1]
	if len(node.Operands) == 3 {
		marker, ok := node.Operands[1].(ir.Atom)
		if !ok || string(marker) != "destructive" {
			ir.FailAt(ir.ReadError, node, "template:: second form must be the bareword \"destructive\"")
		}
		destructive = true
	}

	if _, exists := d.records[name]; exists {
		ir.FailAt(ir.RedefinedOpcode, node, "opcode %q already has a compiled template", name)
	}
	spec, ok := d.Opcodes.Lookup(name)
	if !ok {
		ir.FailAt(ir.UnknownOpcode, node, "opcode %q is not in the opcode catalog", name)
	}
	if destructive {
		hasWrite := false
		for _, op := range spec.Operands {
			if op.Direction == catalog.DirWrite {
				hasWrite = true
				break
			}
		}
		if !hasWrite {
			ir.FailAt(ir.DestructiveWithoutWrite, node, "opcode %q is marked destructive but declares no write operand", name)
		}
	}

	ctx := &typecheck.Context{Opcode: spec, Operators: d.Operators}
	env := ir.NewEnv(nil)
	linked := linker.Link(ctx, env, body)
	expanded := macro.Expand(ctx, d.Macros, linked)
	typecheck.Infer(ctx, expanded)

	compiler := treecompile.New(spec, d.Operators, d.consts, d.prefix)
	result := compiler.Compile(expanded)

	d.order = append(d.order, name)
	d.records[name] = result
}

// EvalLine parses a single line of input as one top-level form and
// dispatches it, for the interactive REPL (package repl). Included paths
// on a REPL line resolve relative to the current working directory.
func (d *Driver) EvalLine(line string) {
	forms := sexpr.ReadAll("<repl>", line)
	for _, form := range forms {
		d.dispatch(".", form)
	}
}

// include handles "(include: "path")", resolving path relative to dir.
func (d *Driver) include(dir string, node *ir.Node) {
	if len(node.Operands) != 1 {
		ir.FailAt(ir.ReadError, node, "include:: expected exactly one path")
	}
	pathAtom, ok := node.Operands[0].(ir.Atom)
	if !ok {
		ir.FailAt(ir.ReadError, node, "include:: path must be a quoted string")
	}
	path := strings.Trim(string(pathAtom), `"`)
	d.ProcessFile(filepath.Join(dir, path))
}

// Program is the merged output of every opcode compiled during a run.
type Program struct {
	Order     []string
	Records   map[string]*treecompile.Result
	Offsets   map[string]int
	Template  []string
	Desc      []byte
	Constants []string
}

// Finalize merges every compiled opcode record into one combined
// template/desc pair, in catalog order (spec §6: "one row per opcode in
// catalog order"), computing each opcode's start offset within the
// merged arrays — the offset-bookkeeping half of include-driven
// accumulation — and attaches the compilation unit's single constant
// table (spec §6: "constant-table values in insertion order,
// index-addressable"), shared and index-stable across every opcode
// above by construction since every Compiler wrote into d.consts.
func (d *Driver) Finalize() *Program {
	p := &Program{
		Records:   d.records,
		Offsets:   make(map[string]int),
		Constants: d.consts.Entries(),
	}
	for _, name := range d.Opcodes.Names() {
		result, ok := d.records[name]
		if !ok {
			continue
		}
		p.Order = append(p.Order, name)
		p.Offsets[name] = len(p.Template)
		p.Template = append(p.Template, result.Template...)
		p.Desc = append(p.Desc, result.Desc...)
	}
	return p
}
