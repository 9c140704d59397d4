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

// Package config parses tplc's command-line configuration, the same way
// the teacher's own main.go reaches for the standard "flag" package
// rather than a third-party CLI framework.
package config

import "flag"

// DefaultPrefix is prepended to every operator name and bareword the
// tree compiler emits (spec §4.6/§6) unless -prefix overrides it.
const DefaultPrefix = "MVM_JIT_"

// Config is the full set of tplc's run-time options (spec §6, plus the
// ambient -trace/-i additions).
type Config struct {
	Prefix      string
	Opcodes     string
	Operators   string
	Input       string
	Output      string
	Includes    []string
	Test        bool
	TraceDir    string
	Interactive bool
}

// Parse builds a Config from args (typically os.Args[1:]).
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("tplc", flag.ContinueOnError)
	cfg := &Config{}
	fs.StringVar(&cfg.Prefix, "prefix", DefaultPrefix, "prefix prepended to every emitted operator name and bareword")
	fs.StringVar(&cfg.Opcodes, "opcodes", "", "path to the opcode catalog file")
	fs.StringVar(&cfg.Operators, "operators", "", "path to the expression-operator catalog file")
	fs.StringVar(&cfg.Input, "input", "", "template source file to compile")
	fs.StringVar(&cfg.Output, "output", "", "path to write the compiled template table to")
	fs.StringVar(&cfg.TraceDir, "trace", "", "directory to write a Chrome-trace-format phase trace to")
	fs.BoolVar(&cfg.Test, "test", false, "run the built-in self tests and exit")
	fs.BoolVar(&cfg.Interactive, "i", false, "start an interactive REPL instead of compiling a file")
	var includes multiFlag
	fs.Var(&includes, "include", "additional include directory (repeatable; recorded, not searched: include: paths resolve relative to the including file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Includes = includes
	return cfg, nil
}

type multiFlag []string

func (m *multiFlag) String() string { return "" }
func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}
