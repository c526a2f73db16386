// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/scenex/scenex/scene"
)

// Node wraps a [scene.Handle] with the session and the last-known
// display name, so a node deleted out from under the wrapper still
// renders usefully. The zero Node is null.
type Node struct {
	s    *Session
	h    scene.Handle
	name string
	typ  string
}

// Node wraps a host handle. A null handle wraps to the null Node.
func (s *Session) Node(h scene.Handle) Node {
	if h.IsNull() {
		return Node{}
	}
	name := h.Name()
	if h.IsValid() {
		name = h.PartialPath()
	}
	return Node{s: s, h: h, name: name, typ: h.TypeName()}
}

// FindNode resolves a node by name or "|" path and wraps it.
func (s *Session) FindNode(name string) (Node, error) {
	h, err := s.doc.FindNode(name)
	if err != nil {
		return Node{}, err
	}
	return s.Node(h), nil
}

// FindPlug resolves a "node.attr" path and wraps it.
func (s *Session) FindPlug(path string) (Plug, error) {
	p, err := s.doc.FindPlug(path)
	if err != nil {
		return Plug{}, err
	}
	return Plug{n: s.Node(p.Node()), p: p}, nil
}

// IsNull reports whether the wrapper refers to no node.
func (n Node) IsNull() bool {
	return n.h.IsNull()
}

// IsAlive reports whether the node is still resolvable, possibly
// deleted but restorable.
func (n Node) IsAlive() bool {
	return n.h.IsAlive()
}

// IsValid reports whether the node is currently in the graph.
func (n Node) IsValid() bool {
	return n.h.IsValid()
}

// Eq reports whether both wrappers refer to the same node.
func (n Node) Eq(o Node) bool {
	return n.h == o.h
}

// Handle returns the raw host handle, usable as a map key.
func (n Node) Handle() scene.Handle {
	return n.h
}

// Object returns the host handle after checking liveness; a deleted
// or dead node returns an [InvalidNodeError] naming the last-known
// display name.
func (n Node) Object() (scene.Handle, error) {
	if n.h.IsNull() {
		return scene.Handle{}, &InvalidNodeError{Name: "None"}
	}
	if !n.h.IsValid() {
		return scene.Handle{}, &InvalidNodeError{Name: n.name, Alive: n.h.IsAlive()}
	}
	return n.h, nil
}

// TypeName returns the node's type name, captured at wrap time.
func (n Node) TypeName() string {
	return n.typ
}

// UUID returns the node's stable unique id.
func (n Node) UUID() uuid.UUID {
	return n.h.UUID()
}

// Parent returns the wrapped DAG parent, or the null Node.
func (n Node) Parent() Node {
	if n.s == nil {
		return Node{}
	}
	return n.s.Node(n.h.Parent())
}

// NumChildren returns the number of DAG children.
func (n Node) NumChildren() int {
	return n.h.NumChildren()
}

// Child returns the i'th wrapped DAG child, or the null Node.
func (n Node) Child(i int) Node {
	if n.s == nil {
		return Node{}
	}
	return n.s.Node(n.h.Child(i))
}

// Plug resolves an attribute instance on the node: the type's
// compiled lookup tables first, then the node's dynamic attributes
// and path resolution. Failures return the null Plug and log; use
// [Node.PlugErr] to get the error.
func (n Node) Plug(name string) Plug {
	p, err := n.PlugErr(name)
	if err != nil {
		slog.Error("sx: plug lookup failed", "node", n.String(), "plug", name, "err", err)
		return Plug{}
	}
	return p
}

// PlugErr resolves an attribute instance on the node, returning the
// lookup error.
func (n Node) PlugErr(name string) (Plug, error) {
	h, err := n.Object()
	if err != nil {
		return Plug{}, err
	}
	p, err := h.Plug(name)
	if err != nil {
		return Plug{}, err
	}
	return Plug{n: n, p: p}, nil
}

// CreateDagNode creates a DAG child of this node through the
// session's current modifier. The receiver must be a valid DAG node.
func (n Node) CreateDagNode(typeName, name string) (Node, error) {
	if _, err := n.Object(); err != nil {
		return Node{}, err
	}
	opts := []CreateOption{Parent(n)}
	if name != "" {
		opts = append(opts, Named(name))
	}
	return n.s.CurrentModifier().CreateDagNode(typeName, opts...)
}

// String renders the node for diagnostics: "None" for the null Node,
// the last-known name with "(dead)" or "(invalid)" markers for nodes
// out of the graph, and the current partial path otherwise.
func (n Node) String() string {
	if n.h.IsNull() {
		return "None"
	}
	if !n.h.IsAlive() {
		return n.name + "(dead)"
	}
	if !n.h.IsValid() {
		return n.name + "(invalid)"
	}
	return n.h.PartialPath()
}
