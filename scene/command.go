// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Command is one invocable host command. Do runs it the first time,
// Redo reruns it after an undo, and Undo reverts it. Undoable reports
// whether the command belongs on the undo queue at all; commands that
// change nothing return false and are dropped after Do.
type Command interface {
	Do(d *Document) error
	Undo(d *Document) error
	Redo(d *Document) error
	Undoable() bool
}

// CommandMaker constructs a command from parsed argument words, not
// including the command name itself.
type CommandMaker func(d *Document, args []string) (Command, error)

// purger is implemented by commands holding objects whose only
// restoration path is the undo history; the document calls it when
// that history is dropped.
type purger interface {
	PurgeObjects()
}

var commandMakers = map[string]CommandMaker{}

// RegisterCommand adds a command constructor to the package registry
// under the given name, replacing any previous registration.
func RegisterCommand(name string, mk CommandMaker) {
	commandMakers[name] = mk
}

// CommandByName returns the package-registered constructor for the
// given command name, or nil.
func CommandByName(name string) CommandMaker {
	return commandMakers[name]
}

// RegisterCommand adds a command constructor to this document's local
// registry, which shadows the package one.
func (d *Document) RegisterCommand(name string, mk CommandMaker) {
	d.commands[name] = mk
}

// commandMaker resolves a command name, document-local registrations
// first.
func (d *Document) commandMaker(name string) CommandMaker {
	if mk, ok := d.commands[name]; ok {
		return mk
	}
	return commandMakers[name]
}

// parseCommand splits one script line into words and constructs the
// named command.
func (d *Document) parseCommand(line string) (Command, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty command line")
	}
	mk := d.commandMaker(words[0])
	if mk == nil {
		return nil, fmt.Errorf("%q: %w", words[0], ErrUnknownCommand)
	}
	cmd, err := mk(d, words[1:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", words[0], err)
	}
	return cmd, nil
}

// Invoke constructs and runs the named command with the given
// arguments. If the command succeeds and reports undoable, it is
// pushed on the undo queue and the redo queue is dropped.
func (d *Document) Invoke(name string, args ...string) error {
	mk := d.commandMaker(name)
	if mk == nil {
		return fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}
	cmd, err := mk(d, args)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := cmd.Do(d); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	d.pushUndo(cmd)
	return nil
}

// pushUndo records an executed command on the undo queue, trimming to
// the configured depth and dropping any redo history.
func (d *Document) pushUndo(cmd Command) {
	if !d.undoActive || !cmd.Undoable() {
		return
	}
	d.dropCommands(d.redoStack)
	d.redoStack = nil
	d.undoStack = append(d.undoStack, cmd)
	if over := len(d.undoStack) - d.undoDepth; over > 0 {
		d.dropCommands(d.undoStack[:over])
		d.undoStack = append([]Command{}, d.undoStack[over:]...)
	}
}

// dropCommands discards commands whose history is gone, purging any
// objects they alone kept restorable.
func (d *Document) dropCommands(cmds []Command) {
	for _, c := range cmds {
		if p, ok := c.(purger); ok {
			p.PurgeObjects()
		}
	}
}

// Undo reverts the most recent command on the undo queue and moves it
// to the redo queue. With an empty queue it does nothing and returns
// nil.
func (d *Document) Undo() error {
	n := len(d.undoStack)
	if n == 0 {
		return nil
	}
	cmd := d.undoStack[n-1]
	if err := cmd.Undo(d); err != nil {
		return err
	}
	d.undoStack = d.undoStack[:n-1]
	d.redoStack = append(d.redoStack, cmd)
	return nil
}

// Redo reruns the most recent undone command and moves it back to the
// undo queue. With an empty redo queue it does nothing and returns
// nil.
func (d *Document) Redo() error {
	n := len(d.redoStack)
	if n == 0 {
		return nil
	}
	cmd := d.redoStack[n-1]
	if err := cmd.Redo(d); err != nil {
		return err
	}
	d.redoStack = d.redoStack[:n-1]
	d.undoStack = append(d.undoStack, cmd)
	return nil
}

// FlushUndo drops the entire undo and redo history, purging objects
// restorable only through it.
func (d *Document) FlushUndo() {
	d.dropCommands(d.undoStack)
	d.dropCommands(d.redoStack)
	d.undoStack = nil
	d.redoStack = nil
}

// UndoDepth returns the maximum length of the undo queue.
func (d *Document) UndoDepth() int {
	return d.undoDepth
}

// SetUndoDepth sets the maximum undo queue length, trimming the
// oldest entries if the queue is already longer.
func (d *Document) SetUndoDepth(n int) {
	if n < 0 {
		n = 0
	}
	d.undoDepth = n
	if over := len(d.undoStack) - n; over > 0 {
		d.dropCommands(d.undoStack[:over])
		d.undoStack = append([]Command{}, d.undoStack[over:]...)
	}
}

// UndoActive reports whether executed commands are being recorded on
// the undo queue.
func (d *Document) UndoActive() bool {
	return d.undoActive
}

// SetUndoActive turns undo recording on or off. Turning it off does
// not drop existing history.
func (d *Document) SetUndoActive(on bool) {
	d.undoActive = on
}

// UndoQueueLen returns the number of commands waiting to be undone.
func (d *Document) UndoQueueLen() int {
	return len(d.undoStack)
}

// RedoQueueLen returns the number of commands waiting to be redone.
func (d *Document) RedoQueueLen() int {
	return len(d.redoStack)
}

// RunScript executes a multi-line script, one command per line. Blank
// lines and lines starting with "//" or "#" are skipped. Each
// successful undoable command lands on the undo queue individually;
// the first failing line stops the run.
func (d *Document) RunScript(script string) error {
	for ln, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := shellwords.Parse(line)
		if err != nil {
			return fmt.Errorf("line %d: parse %q: %w", ln+1, line, err)
		}
		if len(words) == 0 {
			continue
		}
		if err := d.Invoke(words[0], words[1:]...); err != nil {
			return fmt.Errorf("line %d: %w", ln+1, err)
		}
	}
	return nil
}
