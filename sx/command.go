// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"github.com/scenex/scenex/scene"
)

// BridgeCommandName is the host command the session registers to
// carry its edits: one undoable unit per invocation. Client code
// never invokes it directly; immediate-mode DoIt and
// [Session.ExecuteModifiersWithUndo] do.
const BridgeCommandName = "sxEdit"

// bridgeCommand is the undoable unit: the runners drained from the
// session stack at construction time. Do and Redo replay them oldest
// first, Undo reverts them newest first.
type bridgeCommand struct {
	runners []Runner
}

// makeBridge is the [scene.CommandMaker] of the bridge. Construction
// drains the session's modifier stack; by the time the document runs
// Do, the edits belong to the command alone.
func (s *Session) makeBridge(d *scene.Document, args []string) (scene.Command, error) {
	return &bridgeCommand{runners: s.getAndClearModifierStack()}, nil
}

func (c *bridgeCommand) Do(d *scene.Document) error {
	for _, r := range c.runners {
		if err := r.DoIt(); err != nil {
			return err
		}
	}
	return nil
}

func (c *bridgeCommand) Redo(d *scene.Document) error {
	for _, r := range c.runners {
		if err := r.RedoIt(); err != nil {
			return err
		}
	}
	return nil
}

func (c *bridgeCommand) Undo(d *scene.Document) error {
	for i := len(c.runners) - 1; i >= 0; i-- {
		if err := c.runners[i].UndoIt(); err != nil {
			return err
		}
	}
	return nil
}

func (c *bridgeCommand) Undoable() bool {
	return len(c.runners) > 0
}

// PurgeObjects marks objects restorable only through this command
// dead; the document calls it when the command leaves the undo
// queue.
func (c *bridgeCommand) PurgeObjects() {
	for _, r := range c.runners {
		if m, ok := r.host.(*scene.Modifier); ok {
			m.Purge()
		}
	}
}
