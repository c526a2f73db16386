// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"github.com/scenex/scenex/base/errors"
)

var (
	// ErrNotFound is returned when a node or plug lookup by name
	// finds nothing.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when a short name lookup matches more
	// than one node.
	ErrAmbiguous = errors.New("name is not unique")

	// ErrUnknownType is returned when a type name does not resolve in
	// the node type registry.
	ErrUnknownType = errors.New("unknown node type")

	// ErrNotContainer is returned when a non-container node is used
	// where a DAG container is required.
	ErrNotContainer = errors.New("node is not a container")

	// ErrLocked is returned when an edit hits a locked node or plug.
	ErrLocked = errors.New("locked")

	// ErrHierarchy is returned when a reparent would make a node its
	// own ancestor.
	ErrHierarchy = errors.New("invalid hierarchy")

	// ErrComputed is returned when writing to a computed plug.
	ErrComputed = errors.New("plug is computed, read-only")

	// ErrUnknownCommand is returned when a command name resolves in
	// neither the document-local nor the package command registry.
	ErrUnknownCommand = errors.New("unknown command")
)

// TypeError is a usage error detected before any transaction step is
// attempted: an unknown type name, a non-container parent, a reparent
// to self or a descendant. It wraps one of the sentinel errors above
// where one applies.
type TypeError struct {
	// Op is the operation that rejected the call.
	Op string

	// Message describes the misuse.
	Message string

	// Err is the underlying sentinel, if any.
	Err error
}

func (e *TypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scene.%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("scene.%s: %s", e.Op, e.Message)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

func typeErrorf(op string, err error, format string, args ...any) *TypeError {
	return &TypeError{Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}
