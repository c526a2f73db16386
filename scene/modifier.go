// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strings"
)

// op is one recorded edit. do applies it; undo reverts it, using
// state the op captured at its first apply.
type op interface {
	name() string
	do(d *Document) error
	undo(d *Document) error
}

type opRec struct {
	op      op
	applied bool
}

// Modifier is the host transaction primitive: it records typed edit
// operations and applies or reverts them as a batch.
//
// DoIt applies, in append order, only the operations that have not
// been applied yet, so interleaving edits and DoIt calls is cheap.
// UndoIt reverts every applied operation newest first and clears the
// applied marks, so the next DoIt reapplies the whole batch. Creation
// operations apply eagerly at record time so the returned handle
// resolves immediately.
type Modifier struct {
	doc *Document
	ops []opRec
}

// NewModifier returns a new empty transaction on this document.
func (d *Document) NewModifier() *Modifier {
	return &Modifier{doc: d}
}

// Doc returns the document this modifier edits.
func (m *Modifier) Doc() *Document {
	return m.doc
}

// NumOps returns the number of recorded operations.
func (m *Modifier) NumOps() int {
	return len(m.ops)
}

// record appends an op without applying it.
func (m *Modifier) record(o op) {
	m.ops = append(m.ops, opRec{op: o})
}

// recordApplied applies an op immediately and appends it born
// applied.
func (m *Modifier) recordApplied(o op) error {
	if err := o.do(m.doc); err != nil {
		return err
	}
	m.ops = append(m.ops, opRec{op: o, applied: true})
	return nil
}

// DoIt applies every operation not yet applied, in append order. A
// failing operation stops the run and returns its error; operations
// applied before it stay applied.
func (m *Modifier) DoIt() error {
	for i := range m.ops {
		if m.ops[i].applied {
			continue
		}
		if err := m.ops[i].op.do(m.doc); err != nil {
			return fmt.Errorf("%s: %w", m.ops[i].op.name(), err)
		}
		m.ops[i].applied = true
	}
	return nil
}

// UndoIt reverts every applied operation, newest first, and clears
// all applied marks so a following DoIt reapplies everything.
func (m *Modifier) UndoIt() error {
	for i := len(m.ops) - 1; i >= 0; i-- {
		if !m.ops[i].applied {
			continue
		}
		if err := m.ops[i].op.undo(m.doc); err != nil {
			return fmt.Errorf("undo %s: %w", m.ops[i].op.name(), err)
		}
		m.ops[i].applied = false
	}
	return nil
}

// Purge marks objects whose only restoration path was this modifier
// as dead: created objects currently out of the graph, and deleted
// subtrees that have not been restored. The document calls this when
// undo history holding the modifier is flushed.
func (m *Modifier) Purge() {
	for i := range m.ops {
		switch o := m.ops[i].op.(type) {
		case *createOp:
			if !o.ob.valid {
				o.ob.alive = false
			}
		case *deleteOp:
			for _, ob := range o.subtree {
				if !ob.valid {
					ob.alive = false
				}
			}
		}
	}
}

// CreateNode records and eagerly applies the creation of a DG
// (non-hierarchical) node of the given type, returning a handle that
// resolves immediately. The node is auto-named "<type>N".
func (m *Modifier) CreateNode(typeName string) (Handle, error) {
	nt := NodeTypeByName(typeName)
	if nt == nil {
		return Handle{}, typeErrorf("CreateNode", ErrUnknownType, "type %q", typeName)
	}
	if nt.DAG {
		return Handle{}, typeErrorf("CreateNode", nil, "type %q is a DAG type, use CreateDagNode", typeName)
	}
	ob := newObject(m.doc, nt, m.doc.autoName(nt))
	if err := m.recordApplied(&createOp{ob: ob}); err != nil {
		return Handle{}, err
	}
	return Handle{ob}, nil
}

// CreateDagNode records and eagerly applies the creation of a DAG
// node of the given type under the given parent, returning a handle
// that resolves immediately. The parent must be a valid container, or
// null for the world. With a null parent and a non-container type,
// the host auto-creates a "transform" container and returns the
// container; callers that want the requested node find it as the
// container's child.
func (m *Modifier) CreateDagNode(typeName string, parent Handle) (Handle, error) {
	nt := NodeTypeByName(typeName)
	if nt == nil {
		return Handle{}, typeErrorf("CreateDagNode", ErrUnknownType, "type %q", typeName)
	}
	if !nt.DAG {
		return Handle{}, typeErrorf("CreateDagNode", nil, "type %q is not a DAG type, use CreateNode", typeName)
	}
	var pob *object
	if !parent.IsNull() {
		if !parent.IsValid() {
			return Handle{}, typeErrorf("CreateDagNode", ErrNotFound, "parent %s is not valid", parent)
		}
		if !parent.IsContainer() {
			return Handle{}, typeErrorf("CreateDagNode", ErrNotContainer, "parent %s", parent)
		}
		pob = parent.ob
	}
	if pob == nil && !nt.Container {
		// the host wraps a world-level non-container in a new
		// container and returns the container
		ctt := NodeTypeByName("transform")
		ct := newObject(m.doc, ctt, m.doc.autoName(ctt))
		if err := m.recordApplied(&createOp{ob: ct}); err != nil {
			return Handle{}, err
		}
		ob := newObject(m.doc, nt, m.doc.autoName(nt))
		if err := m.recordApplied(&createOp{ob: ob, parent: ct}); err != nil {
			return Handle{}, err
		}
		return Handle{ct}, nil
	}
	ob := newObject(m.doc, nt, m.doc.autoName(nt))
	if err := m.recordApplied(&createOp{ob: ob, parent: pob}); err != nil {
		return Handle{}, err
	}
	return Handle{ob}, nil
}

// DeleteNode records the deletion of the node and, for DAG nodes, its
// descendants. Apply breaks their connections; undo restores
// topology, values, states, and connections.
func (m *Modifier) DeleteNode(h Handle) error {
	if h.IsNull() {
		return typeErrorf("DeleteNode", ErrNotFound, "null handle")
	}
	m.record(&deleteOp{target: h.ob})
	return nil
}

// Connect records a connection from src into dst. Kinds must be
// compatible: message to message, or matching value kinds with Float
// and Double interchangeable. Array-level plugs cannot be connected
// directly; use ConnectNodes or select elements. An existing source
// on dst is replaced at apply time and restored on undo; a locked
// destination rejects at apply time.
func (m *Modifier) Connect(src, dst Plug) error {
	if err := validateConnect(src, dst); err != nil {
		return err
	}
	m.record(&connectOp{src: src, dst: dst})
	return nil
}

func validateConnect(src, dst Plug) error {
	if src.IsNull() || dst.IsNull() {
		return typeErrorf("Connect", ErrNotFound, "null plug")
	}
	if src.IsArray() || dst.IsArray() {
		return typeErrorf("Connect", nil, "array-level plug %s, select an element", pickArray(src, dst))
	}
	if src.IsCompound() != dst.IsCompound() {
		return typeErrorf("Connect", nil, "cannot connect %v %s to %v %s",
			src.Kind(), src, dst.Kind(), dst)
	}
	if dst.attr.Computed {
		return typeErrorf("Connect", ErrComputed, "destination %s", dst)
	}
	if !src.Kind().connectableTo(dst.Kind()) {
		return typeErrorf("Connect", nil, "kind %v of %s does not connect to kind %v of %s",
			src.Kind(), src, dst.Kind(), dst)
	}
	return nil
}

func pickArray(src, dst Plug) Plug {
	if src.IsArray() {
		return src
	}
	return dst
}

// ConnectNodes records a connection between two attributes named on
// two nodes, selecting the next available element wherever an end is
// an array.
func (m *Modifier) ConnectNodes(srcNode Handle, srcAttr string, dstNode Handle, dstAttr string) error {
	src, err := srcNode.Plug(srcAttr)
	if err != nil {
		return err
	}
	dst, err := dstNode.Plug(dstAttr)
	if err != nil {
		return err
	}
	if src.IsArray() {
		if src, err = src.Element(src.NextAvailableIndex()); err != nil {
			return err
		}
	}
	if dst.IsArray() {
		if dst, err = dst.Element(dst.NextAvailableIndex()); err != nil {
			return err
		}
	}
	return m.Connect(src, dst)
}

// Disconnect records the removal of the connection from src into dst,
// which must exist at apply time.
func (m *Modifier) Disconnect(src, dst Plug) error {
	if src.IsNull() || dst.IsNull() {
		return typeErrorf("Disconnect", ErrNotFound, "null plug")
	}
	m.record(&disconnectOp{src: src, dst: dst})
	return nil
}

// SetValue records setting the plug to the given value, which must
// fit the plug's kind. Computed plugs reject here, at record time;
// locked plugs reject at apply time.
func (m *Modifier) SetValue(p Plug, v any) error {
	if p.IsNull() {
		return typeErrorf("SetValue", ErrNotFound, "null plug")
	}
	if p.attr.Computed {
		return typeErrorf("SetValue", ErrComputed, "%s", p)
	}
	if p.IsArray() {
		return typeErrorf("SetValue", nil, "%s is an array level, select an element", p)
	}
	cv, err := coerceValue(p.attr.Kind, v)
	if err != nil {
		return typeErrorf("SetValue", nil, "%s: %v", p, err)
	}
	m.record(&setValueOp{p: p, val: cv})
	return nil
}

// SetBool records setting a bool plug.
func (m *Modifier) SetBool(p Plug, v bool) error { return m.SetValue(p, v) }

// SetInt records setting an int or enum plug.
func (m *Modifier) SetInt(p Plug, v int) error { return m.SetValue(p, v) }

// SetFloat64 records setting a float or double plug.
func (m *Modifier) SetFloat64(p Plug, v float64) error { return m.SetValue(p, v) }

// SetString records setting a string plug.
func (m *Modifier) SetString(p Plug, v string) error { return m.SetValue(p, v) }

// SetAngle records setting an angle plug, in radians.
func (m *Modifier) SetAngle(p Plug, v Angle) error { return m.SetValue(p, v) }

// SetDistance records setting a distance plug, in centimeters.
func (m *Modifier) SetDistance(p Plug, v Distance) error { return m.SetValue(p, v) }

// SetTime records setting a time plug, in seconds.
func (m *Modifier) SetTime(p Plug, v Time) error { return m.SetValue(p, v) }

// SetMatrix records setting a matrix plug.
func (m *Modifier) SetMatrix(p Plug, v Matrix) error { return m.SetValue(p, v) }

// AddAttribute records adding a dynamic attribute to the node. The
// definition is cloned, so the caller's copy stays independent.
func (m *Modifier) AddAttribute(h Handle, a *Attribute) error {
	if h.IsNull() {
		return typeErrorf("AddAttribute", ErrNotFound, "null handle")
	}
	if err := a.Validate(); err != nil {
		return typeErrorf("AddAttribute", nil, "%v", err)
	}
	c := a.Clone()
	markDynamic(c)
	m.record(&addAttrOp{ob: h.ob, attr: c})
	return nil
}

func markDynamic(a *Attribute) {
	a.dynamic = true
	for _, c := range a.Children {
		markDynamic(c)
	}
}

// RemoveAttribute records removing a dynamic attribute from the node.
// Apply captures its values and connections for undo.
func (m *Modifier) RemoveAttribute(h Handle, a *Attribute) error {
	if h.IsNull() {
		return typeErrorf("RemoveAttribute", ErrNotFound, "null handle")
	}
	if !a.dynamic {
		return typeErrorf("RemoveAttribute", nil, "attribute %q is not dynamic", a.Name)
	}
	m.record(&removeAttrOp{ob: h.ob, attr: a})
	return nil
}

// RenameAttribute records renaming a dynamic attribute on the node.
func (m *Modifier) RenameAttribute(h Handle, a *Attribute, newShort, newLong string) error {
	if h.IsNull() {
		return typeErrorf("RenameAttribute", ErrNotFound, "null handle")
	}
	if !a.dynamic {
		return typeErrorf("RenameAttribute", nil, "attribute %q is not dynamic", a.Name)
	}
	if newLong == "" {
		return typeErrorf("RenameAttribute", nil, "empty long name")
	}
	m.record(&renameAttrOp{ob: h.ob, attr: a, short: newShort, long: newLong})
	return nil
}

// RenameNode records renaming the node, applying the sibling-unique
// rule at apply time. Locked nodes reject at apply time.
func (m *Modifier) RenameNode(h Handle, name string) error {
	if h.IsNull() {
		return typeErrorf("RenameNode", ErrNotFound, "null handle")
	}
	if name == "" {
		return typeErrorf("RenameNode", nil, "empty name")
	}
	m.record(&renameOp{ob: h.ob, newName: name})
	return nil
}

// SetNodeLockState records locking or unlocking the node. Locked
// nodes refuse delete, rename, and reparent at apply time.
func (m *Modifier) SetNodeLockState(h Handle, locked bool) error {
	if h.IsNull() {
		return typeErrorf("SetNodeLockState", ErrNotFound, "null handle")
	}
	m.record(&lockStateOp{ob: h.ob, state: locked})
	return nil
}

// Reparent records moving the DAG node under the given parent, or to
// the world for a null parent. The move is relative: local values are
// kept and the world result changes. Hierarchy validation (container
// parent, not self, not a descendant) happens at apply time.
func (m *Modifier) Reparent(h Handle, parent Handle) error {
	if h.IsNull() {
		return typeErrorf("Reparent", ErrNotFound, "null handle")
	}
	if !h.IsDAG() {
		return typeErrorf("Reparent", nil, "%s is not a DAG node", h)
	}
	m.record(&reparentOp{ob: h.ob, parent: parent.ob})
	return nil
}

// Execute records an arbitrary textual command, dispatched through
// the command registry at apply time; parse errors surface then.
func (m *Modifier) Execute(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return typeErrorf("Execute", nil, "empty command")
	}
	m.record(&execOp{line: cmd})
	return nil
}
