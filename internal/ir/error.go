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

import "fmt"

// ErrorKind names one of the fatal diagnostics of spec §7. Every phase
// panics with a *CompileError; cmd/tplc (or the REPL / self-test runner)
// recovers once at the boundary, the way evalWithSourceInfo recovers once per top-level
// scm.Eval call and re-panics with source position attached.
type ErrorKind string

const (
	ReadError            ErrorKind = "ReadError"
	UnknownKeyword       ErrorKind = "UnknownKeyword"
	UnknownOpcode        ErrorKind = "UnknownOpcode"
	RedefinedOpcode      ErrorKind = "RedefinedOpcode"
	RedefinedMacro       ErrorKind = "RedefinedMacro"
	UnknownOperator      ErrorKind = "UnknownOperator"
	UnknownMacro         ErrorKind = "UnknownMacro"
	MacroArity           ErrorKind = "MacroArity"
	UnboundName          ErrorKind = "UnboundName"
	UnmatchedMacroParam  ErrorKind = "UnmatchedMacroParam"
	OperandRefOutOfRange ErrorKind = "OperandRefOutOfRange"
	WriteRefMissing      ErrorKind = "WriteRefMissing"
	WriteRefForbidden    ErrorKind = "WriteRefForbidden"
	SizeParamBad         ErrorKind = "SizeParamBad"
	TypeMismatch         ErrorKind = "TypeMismatch"
	DestructiveWithoutWrite ErrorKind = "DestructiveWithoutWrite"
	IncludeMissing       ErrorKind = "IncludeMissing"
)

// CompileError is the one error type every phase panics with. There is no
// local recovery in this compiler (spec §7): a phase either succeeds or
// panics, and cmd/tplc reports the first error and terminates.
type CompileError struct {
	Kind ErrorKind
	Msg  string
	File string
	Line int
	Col  int
}

func (e *CompileError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Col, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Fail panics with a *CompileError built from kind and a formatted message.
// Every phase calls this instead of a bare panic(string), so the recover
// point in cmd/tplc/driver can always extract a well-typed error.
func Fail(kind ErrorKind, format string, args ...any) {
	panic(&CompileError{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// FailAt is Fail with source position attached (used once the reader has
// annotated a node).
func FailAt(kind ErrorKind, n *Node, format string, args ...any) {
	panic(&CompileError{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		File: n.SourceFile,
		Line: n.SourceLine,
		Col:  n.SourceCol,
	})
}
