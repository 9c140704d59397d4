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

// Env is a chain of let:-scopes, mapping a $name to the subtree that
// defines it. Lookup walks outward the way scm.Env.FindRead does, but
// there is no FindWrite here: let:-bindings are never reassigned.
type Env struct {
	Vars  map[string]Expr
	Outer *Env
}

// NewEnv creates a fresh scope chained to outer (outer may be nil).
func NewEnv(outer *Env) *Env {
	return &Env{Vars: make(map[string]Expr), Outer: outer}
}

// Lookup resolves name through the scope chain.
func (e *Env) Lookup(name string) (Expr, bool) {
	for env := e; env != nil; env = env.Outer {
		if v, ok := env.Vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Bind introduces name into this scope (not an outer one).
func (e *Env) Bind(name string, def Expr) {
	e.Vars[name] = def
}
