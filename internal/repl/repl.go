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

// Package repl is the interactive console (tplc -i), a development
// convenience layered on top of the same driver a batch compile uses —
// not a new core behavior. Grounded on the teacher's prompt.go, which
// wraps a readline loop around the same Eval the batch interpreter calls.
package repl

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/mvmjit/tplc/internal/driver"
	"github.com/mvmjit/tplc/internal/ir"
)

// Run starts an interactive loop that parses one top-level form per line
// and dispatches it against d, printing the result or the recovered
// compile error. It returns when the user exits (Ctrl-D) or when
// readline itself fails to start.
func Run(d *driver.Driver, stdout io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "tplc> ",
		HistoryFile: "",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		evalLine(d, line, stdout)
	}
}

func evalLine(d *driver.Driver, line string, stdout io.Writer) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*ir.CompileError); ok {
				fmt.Fprintln(stdout, ce.Error())
				return
			}
			fmt.Fprintf(stdout, "panic: %v\n", r)
		}
	}()
	d.EvalLine(line)
	fmt.Fprintln(stdout, "ok")
}
