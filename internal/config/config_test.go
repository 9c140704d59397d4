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
package config

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Prefix != "MVM_JIT_" {
		t.Fatalf("default prefix = %q, want MVM_JIT_", cfg.Prefix)
	}
	if cfg.Test || cfg.Interactive {
		t.Fatal("-test/-i should default to false")
	}
	if len(cfg.Includes) != 0 {
		t.Fatalf("default includes = %v, want empty", cfg.Includes)
	}
}

func TestParseOverridesAndRepeatableInclude(t *testing.T) {
	cfg, err := Parse([]string{
		"-prefix", "FOO_",
		"-input", "a.tplc",
		"-output", "a.json",
		"-opcodes", "opcodes.txt",
		"-operators", "operators.txt",
		"-trace", "/tmp/traces",
		"-include", "dir1",
		"-include", "dir2",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Prefix != "FOO_" || cfg.Input != "a.tplc" || cfg.Output != "a.json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Opcodes != "opcodes.txt" || cfg.Operators != "operators.txt" || cfg.TraceDir != "/tmp/traces" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Includes) != 2 || cfg.Includes[0] != "dir1" || cfg.Includes[1] != "dir2" {
		t.Fatalf("includes = %v, want [dir1 dir2]", cfg.Includes)
	}
}

func TestParseTestAndInteractiveFlags(t *testing.T) {
	cfg, err := Parse([]string{"-test"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Test {
		t.Fatal("-test should set cfg.Test")
	}

	cfg, err = Parse([]string{"-i"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Interactive {
		t.Fatal("-i should set cfg.Interactive")
	}
}

func TestParseUnknownFlagErrors(t *testing.T) {
	if _, err := Parse([]string{"-nosuch"}); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
}
