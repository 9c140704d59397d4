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
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dc0d/onexit"

	"github.com/mvmjit/tplc/internal/catalog"
	"github.com/mvmjit/tplc/internal/config"
	"github.com/mvmjit/tplc/internal/driver"
	"github.com/mvmjit/tplc/internal/ir"
	"github.com/mvmjit/tplc/internal/repl"
	"github.com/mvmjit/tplc/internal/selftest"
	"github.com/mvmjit/tplc/internal/trace"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.Test {
		if err := selftest.Run(); err != nil {
			fmt.Fprintln(os.Stderr, "self-test failed:", err)
			os.Exit(1)
		}
		fmt.Println("self-test passed")
		return
	}

	opcodes, operators, err := loadCatalogs(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	d := driver.New(opcodes, operators, cfg.Prefix)

	if cfg.Interactive {
		if err := repl.Run(d, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if cfg.Input == "" || cfg.Output == "" {
		fmt.Fprintln(os.Stderr, "tplc: -input and -output are required (or pass -test / -i)")
		os.Exit(2)
	}

	// Register cleanup before we ever create the output file: a fatal
	// error partway through compiling must not leave a half-written
	// output behind (spec §6), mirroring storage/settings.go's
	// onexit.Register for discarding a partially written settings file.
	outputWritten := false
	onexit.Register(func() {
		if !outputWritten {
			os.Remove(cfg.Output)
		}
	})

	tracer := trace.New()
	var tracerErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if ce, ok := r.(*ir.CompileError); ok {
					fmt.Fprintln(os.Stderr, ce.Error())
				} else {
					fmt.Fprintf(os.Stderr, "panic: %v\n", r)
				}
				if cfg.TraceDir != "" {
					tracerErr = tracer.WriteFile(filepath.Join(cfg.TraceDir, tracer.RunID+".json"))
				}
				// os.Exit does not run onexit callbacks, so remove the
				// output here as well.
				if !outputWritten {
					os.Remove(cfg.Output)
				}
				os.Exit(1)
			}
		}()

		tracer.Phase("compile", func() {
			d.ProcessFile(cfg.Input)
		})
		program := d.Finalize()

		data, err := json.MarshalIndent(program, "", "  ")
		if err != nil {
			ir.Fail(ir.ReadError, "marshaling output: %v", err)
		}
		if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
			ir.Fail(ir.ReadError, "writing output: %v", err)
		}
		outputWritten = true

		if cfg.TraceDir != "" {
			tracerErr = tracer.WriteFile(filepath.Join(cfg.TraceDir, tracer.RunID+".json"))
		}
	}()
	if tracerErr != nil {
		fmt.Fprintln(os.Stderr, "warning: could not write trace:", tracerErr)
	}
}

func loadCatalogs(cfg *config.Config) (*catalog.OpcodeCatalog, *catalog.OperatorCatalog, error) {
	opcodes := catalog.BuiltinOpcodes()
	operators := catalog.BuiltinOperators()
	if cfg.Opcodes != "" {
		f, err := os.Open(cfg.Opcodes)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		opcodes, err = catalog.LoadOpcodeCatalog(f)
		if err != nil {
			return nil, nil, err
		}
	}
	if cfg.Operators != "" {
		f, err := os.Open(cfg.Operators)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		operators, err = catalog.LoadOperatorCatalog(f)
		if err != nil {
			return nil, nil, err
		}
	}
	return opcodes, operators, nil
}
