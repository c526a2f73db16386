// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// object is the internal node record. Objects are never freed while a
// handle or an undo record can still reach them; instead they move
// through three states: valid (in the graph), alive but invalid
// (deleted, restorable from undo), and dead (purged, unrestorable).
type object struct {
	doc      *Document
	typ      *NodeType
	name     string
	uuid     uuid.UUID
	valid    bool
	alive    bool
	locked   bool
	parent   *object
	children []*object
	dynamic  []*Attribute

	// values, states, and elements are keyed by plug key, e.g.
	// "translate.translateX" or "worldMatrix[0]"; absent entries fall
	// back to the attribute definition.
	values   map[string]any
	states   map[string]*plugState
	elements map[string]map[int]bool

	// sources maps destination plug keys to their one source plug;
	// dests maps source plug keys to their destination plugs.
	sources map[string]Plug
	dests   map[string][]Plug
}

type plugState struct {
	locked     bool
	keyable    bool
	channelBox bool
}

func newObject(doc *Document, typ *NodeType, name string) *object {
	return &object{
		doc:      doc,
		typ:      typ,
		name:     name,
		uuid:     uuid.New(),
		alive:    true,
		values:   map[string]any{},
		states:   map[string]*plugState{},
		elements: map[string]map[int]bool{},
		sources:  map[string]Plug{},
		dests:    map[string][]Plug{},
	}
}

// state returns the plug state record for the given key, creating it
// from the attribute definition on first access.
func (ob *object) state(a *Attribute, key string) *plugState {
	st := ob.states[key]
	if st == nil {
		st = &plugState{keyable: a.Keyable, channelBox: a.ChannelBox}
		ob.states[key] = st
	}
	return st
}

// attributeByName searches the type schema and then the node's
// dynamic attributes for the given long or short name.
func (ob *object) attributeByName(name string) *Attribute {
	if a := ob.typ.AttributeByName(name); a != nil {
		return a
	}
	var find func(attrs []*Attribute) *Attribute
	find = func(attrs []*Attribute) *Attribute {
		for _, a := range attrs {
			if a.Name == name || (a.Short != "" && a.Short == name) {
				return a
			}
			if f := find(a.Children); f != nil {
				return f
			}
		}
		return nil
	}
	return find(ob.dynamic)
}

// Handle is a comparable identity wrapper around a node. The zero
// Handle is null. Handles never own the node: destroying a handle has
// no effect on the graph, and the node may become invalid or dead
// while handles to it are still held.
type Handle struct {
	ob *object
}

// IsNull reports whether the handle refers to no node at all.
func (h Handle) IsNull() bool {
	return h.ob == nil
}

// IsAlive reports whether the node is still resolvable, even if it
// has been deleted from the graph. A deleted node stays alive while
// an undo path could restore it.
func (h Handle) IsAlive() bool {
	return h.ob != nil && h.ob.alive
}

// IsValid reports whether the node is currently in the graph. A node
// can be alive but not valid: deleted, with its restoration sitting
// in the undo queue.
func (h Handle) IsValid() bool {
	return h.ob != nil && h.ob.valid
}

// Name returns the node name, or "" for a null or dead handle.
func (h Handle) Name() string {
	if !h.IsAlive() {
		return ""
	}
	return h.ob.name
}

// TypeName returns the node's type name, or "" for a null handle.
func (h Handle) TypeName() string {
	if h.ob == nil {
		return ""
	}
	return h.ob.typ.Name
}

// Type returns the node's registered type, or nil for a null handle.
func (h Handle) Type() *NodeType {
	if h.ob == nil {
		return nil
	}
	return h.ob.typ
}

// UUID returns the node's stable unique id, or the zero UUID for a
// null handle.
func (h Handle) UUID() uuid.UUID {
	if h.ob == nil {
		return uuid.UUID{}
	}
	return h.ob.uuid
}

// Doc returns the document the node belongs to, or nil.
func (h Handle) Doc() *Document {
	if h.ob == nil {
		return nil
	}
	return h.ob.doc
}

// IsDAG reports whether the node participates in the hierarchy.
func (h Handle) IsDAG() bool {
	return h.ob != nil && h.ob.typ.DAG
}

// IsContainer reports whether the node can hold DAG children.
func (h Handle) IsContainer() bool {
	return h.ob != nil && h.ob.typ.Container
}

// Locked reports whether the node is locked against delete, rename,
// and reparent.
func (h Handle) Locked() bool {
	return h.ob != nil && h.ob.locked
}

// Parent returns the DAG parent, or the null handle for roots, DG
// nodes, and invalid handles.
func (h Handle) Parent() Handle {
	if !h.IsValid() || h.ob.parent == nil {
		return Handle{}
	}
	return Handle{h.ob.parent}
}

// NumChildren returns the number of DAG children.
func (h Handle) NumChildren() int {
	if !h.IsValid() {
		return 0
	}
	return len(h.ob.children)
}

// Child returns the i'th DAG child, or the null handle if out of
// range.
func (h Handle) Child(i int) Handle {
	if !h.IsValid() || i < 0 || i >= len(h.ob.children) {
		return Handle{}
	}
	return Handle{h.ob.children[i]}
}

// Children returns the DAG children in order.
func (h Handle) Children() []Handle {
	if !h.IsValid() {
		return nil
	}
	chs := make([]Handle, len(h.ob.children))
	for i, c := range h.ob.children {
		chs[i] = Handle{c}
	}
	return chs
}

// Path returns the full DAG path, "|" separated with a leading "|",
// or the plain name for DG nodes. Dead handles return "".
func (h Handle) Path() string {
	if !h.IsAlive() {
		return ""
	}
	if !h.ob.typ.DAG {
		return h.ob.name
	}
	var parts []string
	for ob := h.ob; ob != nil; ob = ob.parent {
		parts = append(parts, ob.name)
	}
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteByte('|')
		sb.WriteString(parts[i])
	}
	return sb.String()
}

// PartialPath returns the shortest suffix of [Handle.Path] that is
// unique in the document, which is the preferred display form.
func (h Handle) PartialPath() string {
	if !h.IsAlive() {
		return ""
	}
	if !h.ob.typ.DAG || !h.ob.valid {
		return h.ob.name
	}
	path := h.ob.name
	for ob := h.ob; ; {
		if len(h.ob.doc.matchSuffix(path)) <= 1 {
			return path
		}
		ob = ob.parent
		if ob == nil {
			return "|" + path
		}
		path = ob.name + "|" + path
	}
}

// HasAttribute reports whether the node's schema or dynamic
// attributes declare the given long or short name.
func (h Handle) HasAttribute(name string) bool {
	if h.ob == nil {
		return false
	}
	return h.ob.attributeByName(name) != nil
}

// Plug resolves an attribute instance on this node. The name may be a
// plain long or short name, or a path with compound children and
// array indices, e.g. "translate.translateX" or "worldMatrix[0]". The
// handle must be valid.
func (h Handle) Plug(name string) (Plug, error) {
	if !h.IsValid() {
		return Plug{}, fmt.Errorf("scene.Handle.Plug %q: handle is not valid: %w", name, ErrNotFound)
	}
	first, rest, _ := strings.Cut(name, ".")
	base, idx, err := splitIndex(first)
	if err != nil {
		return Plug{}, err
	}
	a := h.ob.attributeByName(base)
	if a == nil {
		return Plug{}, fmt.Errorf("scene.Handle.Plug: node %q has no attribute %q: %w", h.ob.name, base, ErrNotFound)
	}
	// a short or long name may address a compound child directly; walk
	// up to the root definition and back down so the steps are complete
	var lineage []*Attribute
	for p := a; p != nil; p = p.parent {
		lineage = append(lineage, p)
	}
	root := lineage[len(lineage)-1]
	p := Plug{ob: h.ob, attr: root}
	for i := len(lineage) - 2; i >= 0; i-- {
		p, err = p.ChildByName(lineage[i].Name)
		if err != nil {
			return Plug{}, err
		}
	}
	if idx >= 0 {
		p, err = p.Element(idx)
		if err != nil {
			return Plug{}, err
		}
	}
	for rest != "" {
		first, rest, _ = strings.Cut(rest, ".")
		base, idx, err = splitIndex(first)
		if err != nil {
			return Plug{}, err
		}
		p, err = p.ChildByName(base)
		if err != nil {
			return Plug{}, err
		}
		if idx >= 0 {
			p, err = p.Element(idx)
			if err != nil {
				return Plug{}, err
			}
		}
	}
	return p, nil
}

// splitIndex splits a path component like "worldMatrix[0]" into the
// name and the index, with index -1 when there is none.
func splitIndex(s string) (name string, idx int, err error) {
	idx = -1
	name = s
	if !strings.HasSuffix(s, "]") {
		return
	}
	open := strings.LastIndex(s, "[")
	if open < 0 {
		return "", -1, fmt.Errorf("scene: malformed plug path component %q", s)
	}
	idx, err = strconv.Atoi(s[open+1 : len(s)-1])
	if err != nil {
		return "", -1, fmt.Errorf("scene: malformed plug index in %q: %w", s, err)
	}
	name = s[:open]
	return
}

// String renders the handle for diagnostics: the partial path when
// valid, with "(invalid)" and "(dead)" markers otherwise.
func (h Handle) String() string {
	if h.ob == nil {
		return "None"
	}
	if !h.ob.alive {
		return h.ob.name + "(dead)"
	}
	if !h.ob.valid {
		return h.ob.name + "(invalid)"
	}
	return h.PartialPath()
}
