// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"log/slog"
	"strings"
)

// Runner is a drained modifier: the host transaction plus its
// rendered journal, detached from the session stack. Runners are what
// the command bridge replays; their methods wrap host failures with
// the journal so the error names the edits that were in flight.
type Runner struct {
	host    hostRunner
	journal []string
}

// hostRunner is the transaction surface a Runner drives.
type hostRunner interface {
	DoIt() error
	UndoIt() error
}

// Journal returns the rendered journal captured at drain time.
func (r Runner) Journal() []string {
	return r.journal
}

// DoIt applies the transaction's pending edits.
func (r Runner) DoIt() error {
	return r.wrap("DoIt", r.host.DoIt())
}

// UndoIt reverts the transaction's applied edits.
func (r Runner) UndoIt() error {
	return r.wrap("UndoIt", r.host.UndoIt())
}

// RedoIt reapplies the transaction after an UndoIt.
func (r Runner) RedoIt() error {
	return r.wrap("RedoIt", r.host.DoIt())
}

// wrap logs a host failure with the journal and converts it to an
// [ExecError]. The log shape depends on how much journal there is to
// show.
func (r Runner) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	switch len(r.journal) {
	case 0:
		slog.Error("sx: modifier failed with an empty journal", "op", op, "err", err)
	case 1:
		slog.Error("sx: modifier failed", "op", op, "edit", r.journal[0], "err", err)
	default:
		slog.Error("sx: modifier failed", "op", op,
			"edits", strings.Join(r.journal, "; "), "err", err)
	}
	return &ExecError{Op: op, Journal: r.journal, Err: err}
}
