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

// Package trace records compiler-phase timing in Chrome's trace-event
// JSON format, the same shape scm/trace.go emits for script evaluation,
// generalized from "which builtin ran" to "which compiler phase ran" and
// stamped with a run id so separate invocations never collide when their
// trace files are compared side by side.
package trace

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Event is one Chrome trace-event-format entry.
type Event struct {
	Name      string `json:"name"`
	Phase     string `json:"ph"`
	Timestamp int64  `json:"ts"`
	ProcessID int    `json:"pid"`
	ThreadID  int    `json:"tid"`
}

// Tracer accumulates Begin/End events for one compiler run.
type Tracer struct {
	RunID  string
	events []Event
}

// New returns a Tracer stamped with a fresh run id.
func New() *Tracer {
	return &Tracer{RunID: uuid.NewString()}
}

// Begin records the start of a named phase.
func (t *Tracer) Begin(name string) {
	t.events = append(t.events, Event{Name: name, Phase: "B", Timestamp: time.Now().UnixMicro(), ProcessID: 1, ThreadID: 1})
}

// End records the end of a named phase.
func (t *Tracer) End(name string) {
	t.events = append(t.events, Event{Name: name, Phase: "E", Timestamp: time.Now().UnixMicro(), ProcessID: 1, ThreadID: 1})
}

// Phase runs fn bracketed by a Begin/End pair for name, recording End even
// if fn panics (a failed compile still produces a usable trace up to the
// point of failure).
func (t *Tracer) Phase(name string, fn func()) {
	t.Begin(name)
	defer t.End(name)
	fn()
}

type document struct {
	TraceEvents []Event           `json:"traceEvents"`
	Metadata    map[string]string `json:"metadata"`
}

// WriteFile writes the accumulated trace to path as Chrome trace-event
// JSON.
func (t *Tracer) WriteFile(path string) error {
	doc := document{
		TraceEvents: t.events,
		Metadata:    map[string]string{"runId": t.RunID},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
