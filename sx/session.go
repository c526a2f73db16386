// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"log/slog"

	"github.com/scenex/scenex/scene"
)

// Session is the convenience layer over one [scene.Document]. It owns
// the modifier stack (the ambient transaction state edits route
// through), the creation tracking log, and the command bridge
// registration. Sessions follow the host's single logical thread of
// script execution and are not safe for concurrent use.
type Session struct {
	doc *scene.Document

	stack      []*Modifier
	trackers   []*Tracker
	trackLog   []scene.Handle
	batchDepth int

	cbNew, cbOpen, cbExit int
}

// NewSession returns a session bound to the document. It registers
// the command bridge in the document's command registry and installs
// lifecycle callbacks that clear a non-empty modifier stack when the
// document is replaced underneath it.
func NewSession(doc *scene.Document) *Session {
	s := &Session{doc: doc}
	doc.RegisterCommand(BridgeCommandName, s.makeBridge)
	s.cbNew = doc.On(scene.AfterNew, func(*scene.Document) { s.clearOn("after new") })
	s.cbOpen = doc.On(scene.BeforeOpen, func(*scene.Document) { s.clearOn("before open") })
	s.cbExit = doc.On(scene.Exiting, func(*scene.Document) { s.clearOn("exiting") })
	return s
}

// Doc returns the session's document.
func (s *Session) Doc() *scene.Document {
	return s.doc
}

// Close removes the session's lifecycle callbacks. The session must
// not be used afterwards.
func (s *Session) Close() {
	s.doc.Off(scene.AfterNew, s.cbNew)
	s.doc.Off(scene.BeforeOpen, s.cbOpen)
	s.doc.Off(scene.Exiting, s.cbExit)
}

// clearOn drops all pending session state on a document lifecycle
// boundary. Pending modifiers at such a boundary are a leaked batch,
// so dropping them is worth a warning.
func (s *Session) clearOn(event string) {
	if n := len(s.stack); n > 0 {
		slog.Warn("sx: clearing pending modifier stack on document event",
			"event", event, "pending", n)
	}
	s.stack = nil
	s.trackers = nil
	s.trackLog = nil
	s.batchDepth = 0
}

// CurrentModifier returns the last pending modifier, pushing a new
// immediate one when the stack is empty. This is the ambient modifier
// that plug convenience methods edit through.
func (s *Session) CurrentModifier() *Modifier {
	if n := len(s.stack); n > 0 {
		return s.stack[n-1]
	}
	m := s.newModifier(true)
	s.stack = append(s.stack, m)
	return m
}

// NewModifier pushes and returns a new deferred modifier.
func (s *Session) NewModifier() *Modifier {
	m := s.newModifier(false)
	s.stack = append(s.stack, m)
	return m
}

// HasCurrentModifier reports whether any modifier is pending.
func (s *Session) HasCurrentModifier() bool {
	return len(s.stack) > 0
}

// pushIfAbsent puts the modifier back on the stack unless it is
// already pending; immediate DoIt uses it so the bridge drain finds
// the modifier.
func (s *Session) pushIfAbsent(m *Modifier) {
	for _, p := range s.stack {
		if p == m {
			return
		}
	}
	s.stack = append(s.stack, m)
}

// getAndClearModifierStack drains the stack: clean modifiers are
// skipped, the rest are wrapped as Runners in push order and the
// stack empties atomically with respect to the single session thread.
func (s *Session) getAndClearModifierStack() []Runner {
	stack := s.stack
	s.stack = nil
	var rs []Runner
	for _, m := range stack {
		if m.clean {
			continue
		}
		rs = append(rs, Runner{host: m.host, journal: renderJournal(m.journal)})
	}
	return rs
}

// DoIt applies every pending modifier in push order, in place: no
// undo unit is created and the stack is not drained, so a later
// [Session.ExecuteModifiersWithUndo] commits the same modifiers as
// one unit. The first failure stops the run.
func (s *Session) DoIt() error {
	for _, m := range s.stack {
		if m.clean {
			continue
		}
		if err := m.DoIt(KeepJournal()); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteModifiersWithUndo commits every pending modifier as one undo
// unit through the command bridge. With nothing dirty pending it does
// nothing.
func (s *Session) ExecuteModifiersWithUndo() error {
	dirty := false
	for _, m := range s.stack {
		if !m.clean {
			dirty = true
			break
		}
	}
	if !dirty {
		s.stack = nil
		return nil
	}
	return s.doc.Invoke(BridgeCommandName)
}

// Batch runs fn with a fresh deferred modifier. Pending modifiers are
// applied in place on entry, so the batch's edits evaluate against
// their results, and the batch's own edits apply on exit even when fn
// errors. Applied modifiers stay on the stack until the outermost
// batch exits, which commits the whole stack as one undo unit; a
// nested batch's edits therefore share the enclosing batch's unit. A
// body error wins over a commit error.
func (s *Session) Batch(fn func(*Modifier) error) error {
	if err := s.DoIt(); err != nil {
		return err
	}
	m := s.NewModifier()
	s.batchDepth++
	bodyErr := fn(m)
	s.batchDepth--
	var commitErr error
	if s.batchDepth > 0 {
		commitErr = m.DoIt(KeepJournal())
	} else {
		commitErr = s.ExecuteModifiersWithUndo()
	}
	if bodyErr != nil {
		return bodyErr
	}
	return commitErr
}

// CommandOwner adopts the runners a [Session.CommandBatch] drained,
// typically to replay them from a host command's redo and undo.
type CommandOwner interface {
	AdoptModifiers([]Runner)
}

// CommandBatch runs fn with a deferred modifier owned by a command
// under construction. Nested calls reuse the enclosing batch's
// modifier, flushing it around fn; the outermost call executes the
// drained runners and hands them to owner.AdoptModifiers. A body
// error wins over a commit error; the owner adopts the runners either
// way.
func (s *Session) CommandBatch(owner CommandOwner, fn func(*Modifier) error) error {
	if n := len(s.stack); n > 0 && s.stack[n-1].inOperation {
		m := s.stack[n-1]
		if err := m.DoIt(KeepJournal()); err != nil {
			return err
		}
		bodyErr := fn(m)
		if err := m.DoIt(KeepJournal()); err != nil && bodyErr == nil {
			bodyErr = err
		}
		return bodyErr
	}
	m := s.NewModifier()
	m.inOperation = true
	bodyErr := fn(m)
	m.inOperation = false
	runners := s.getAndClearModifierStack()
	var commitErr error
	for _, r := range runners {
		if err := r.DoIt(); err != nil {
			commitErr = err
			break
		}
	}
	owner.AdoptModifiers(runners)
	if bodyErr != nil {
		return bodyErr
	}
	return commitErr
}
