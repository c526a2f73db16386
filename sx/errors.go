// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"fmt"
	"strings"

	"github.com/scenex/scenex/scene"
)

// ExecError is the failure of applying or reverting a modifier. It
// embeds the rendered journal of the failed modifier, so the error
// text shows what the transaction was doing, and unwraps to the host
// cause.
type ExecError struct {
	// Op is "DoIt", "UndoIt", or "RedoIt".
	Op string

	// Journal is the rendered journal of the failed modifier.
	Journal []string

	// Err is the underlying host error.
	Err error
}

func (e *ExecError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sx.%s failed: %v", e.Op, e.Err)
	if len(e.Journal) > 0 {
		sb.WriteString("\njournal:")
		for _, line := range e.Journal {
			sb.WriteString("\n\t")
			sb.WriteString(line)
		}
	}
	return sb.String()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// InvalidNodeError is the use of a node wrapper whose object is no
// longer in the graph, naming the last-known display name. Alive
// distinguishes a deleted-but-restorable node from a dead one.
type InvalidNodeError struct {
	Name  string
	Alive bool
}

func (e *InvalidNodeError) Error() string {
	if e.Alive {
		return fmt.Sprintf("sx: node %q is not valid (deleted, restorable by undo)", e.Name)
	}
	return fmt.Sprintf("sx: node %q is not alive", e.Name)
}

// NullPlugError is the use of a null plug where a resolved one is
// required.
type NullPlugError struct {
	// Op is the operation that needed the plug.
	Op string
}

func (e *NullPlugError) Error() string {
	return fmt.Sprintf("sx.%s: null plug", e.Op)
}

// ValueError is a value that does not fit the plug it was offered to:
// a misspelled enum name, a wrong shape, a type no coercion covers.
type ValueError struct {
	// Plug is the display form of the plug.
	Plug string

	// Message describes the mismatch.
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("sx: plug %s: %s", e.Plug, e.Message)
}

func valueErrorf(p Plug, format string, args ...any) *ValueError {
	return &ValueError{Plug: p.String(), Message: fmt.Sprintf(format, args...)}
}

// UnhandledPlugKindError is a read or write of a plug kind the codec
// has no representation for, such as Message.
type UnhandledPlugKindError struct {
	Plug string
	Kind scene.Kind
}

func (e *UnhandledPlugKindError) Error() string {
	return fmt.Sprintf("sx: plug %s: kind %v has no codec representation", e.Plug, e.Kind)
}
