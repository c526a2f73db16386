// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"fmt"
	"log/slog"

	"github.com/scenex/scenex/scene"
)

// Modifier is the journaled edit transaction of the convenience
// layer. It owns one host transaction and a journal of the calls made
// on it; an immediate modifier applies and commits an undo unit after
// every edit, a deferred one accumulates edits until [Modifier.DoIt].
//
// A modifier starts clean and turns dirty on the first successful
// edit. Usage errors detected before the host records anything (an
// unknown type, an invalid node wrapper, a reparent to self) leave
// the modifier clean.
type Modifier struct {
	s    *Session
	host *scene.Modifier

	journal   []journalEntry
	immediate bool
	clean     bool

	// inOperation marks the modifier owned by an enclosing
	// [Session.CommandBatch], so nested batches reuse it.
	inOperation bool
}

func (s *Session) newModifier(immediate bool) *Modifier {
	return &Modifier{
		s:         s,
		host:      s.doc.NewModifier(),
		immediate: immediate,
		clean:     true,
	}
}

// IsClean reports whether no edit has been recorded since the
// modifier was created or last reset.
func (m *Modifier) IsClean() bool {
	return m.clean
}

// Immediate reports whether the modifier applies and commits after
// every edit.
func (m *Modifier) Immediate() bool {
	return m.immediate
}

// Journal returns the rendered journal of the edits recorded so far.
// Node and plug arguments render with their current display forms.
func (m *Modifier) Journal() []string {
	return renderJournal(m.journal)
}

// DoItOption configures [Modifier.DoIt] and [Modifier.UndoIt].
type DoItOption func(*doItConfig)

type doItConfig struct {
	keepJournal bool
}

// KeepJournal keeps the journal across the call instead of clearing
// it.
func KeepJournal() DoItOption {
	return func(c *doItConfig) { c.keepJournal = true }
}

// DoIt applies the recorded edits. An immediate modifier routes
// through the command bridge so the whole pending stack becomes one
// undo unit, then resets to a fresh clean transaction; a deferred one
// applies its owned transaction directly, keeping it reversible with
// [Modifier.UndoIt]. Failures log the journal and return an
// [ExecError] embedding it. The journal is cleared unless
// [KeepJournal] is given.
func (m *Modifier) DoIt(opts ...DoItOption) error {
	var cfg doItConfig
	for _, o := range opts {
		o(&cfg)
	}
	if m.immediate {
		if m.clean {
			if !cfg.keepJournal {
				m.journal = nil
			}
			return nil
		}
		m.s.pushIfAbsent(m)
		err := m.s.ExecuteModifiersWithUndo()
		// the drained runner keeps the old transaction for undo;
		// this modifier starts over so undo units are never shared
		m.host = m.s.doc.NewModifier()
		if !cfg.keepJournal {
			m.journal = nil
		}
		m.clean = true
		return err
	}
	r := Runner{host: m.host, journal: renderJournal(m.journal)}
	err := r.DoIt()
	if !cfg.keepJournal {
		m.journal = nil
	}
	return err
}

// UndoIt reverts a deferred modifier's applied edits. On an immediate
// modifier it warns and does nothing: immediate edits are undone
// through the document undo queue. The journal is cleared unless
// [KeepJournal] is given.
func (m *Modifier) UndoIt(opts ...DoItOption) error {
	if m.immediate {
		slog.Warn("sx: UndoIt on an immediate modifier does nothing, use the document undo queue")
		return nil
	}
	var cfg doItConfig
	for _, o := range opts {
		o(&cfg)
	}
	r := Runner{host: m.host, journal: renderJournal(m.journal)}
	err := r.UndoIt()
	if !cfg.keepJournal {
		m.journal = nil
	}
	return err
}

// finish is the tail of every edit operation: a host record error
// propagates with the modifier left as it was, a success journals the
// call, dirties the modifier, and in immediate mode applies.
func (m *Modifier) finish(err error, op string, args ...any) error {
	if err != nil {
		return err
	}
	m.journal = append(m.journal, journalEntry{op: op, args: args})
	m.clean = false
	if m.immediate {
		return m.DoIt()
	}
	return nil
}

// CreateOption configures node creation.
type CreateOption func(*createConfig)

type createConfig struct {
	parent    Node
	hasParent bool
	name      string
	keepAuto  bool
}

// Parent creates the node under the given parent instead of the
// world.
func Parent(n Node) CreateOption {
	return func(c *createConfig) { c.parent, c.hasParent = n, true }
}

// Named renames the created node, bypassing the "<type>N" auto name.
func Named(name string) CreateOption {
	return func(c *createConfig) { c.name = name }
}

// KeepAutoContainer disables the transform management of
// [Modifier.CreateDagNode]: a host auto-created container is kept
// under its auto name and returned as-is.
func KeepAutoContainer() CreateOption {
	return func(c *createConfig) { c.keepAuto = true }
}

// CreateDGNode creates a DG node of the given type, named name when
// non-empty. The host transaction is flushed so the returned node
// resolves immediately, even on a deferred modifier.
func (m *Modifier) CreateDGNode(typeName, name string) (Node, error) {
	h, err := m.host.CreateNode(typeName)
	if err != nil {
		return Node{}, err
	}
	if name != "" {
		// the rename is not journaled; the journal shows the
		// creation call with its requested name
		if err := m.host.RenameNode(h, name); err != nil {
			return Node{}, err
		}
	}
	if err := m.host.DoIt(); err != nil {
		return Node{}, err
	}
	m.s.trackCreated(h)
	n := m.s.Node(h)
	args := []any{typeName}
	if name != "" {
		args = append(args, name)
	}
	return n, m.finish(nil, "createDGNode", args...)
}

// createDag runs the host creation and transform management, and
// returns every created handle in creation order (auto container
// first).
func (m *Modifier) createDag(typeName string, cfg createConfig) ([]scene.Handle, error) {
	parent := scene.Handle{}
	if cfg.hasParent && !cfg.parent.IsNull() {
		ph, err := cfg.parent.Object()
		if err != nil {
			return nil, err
		}
		if !ph.IsContainer() {
			// a shape parent stands in for its own container
			ph = ph.Parent()
			if ph.IsNull() {
				return nil, &scene.TypeError{
					Op:      "CreateDagNode",
					Message: fmt.Sprintf("parent %s is not a container and has none", cfg.parent),
					Err:     scene.ErrNotContainer,
				}
			}
		}
		parent = ph
	}
	h, err := m.host.CreateDagNode(typeName, parent)
	if err != nil {
		return nil, err
	}
	created := []scene.Handle{h}
	if h.TypeName() != typeName {
		// the host wrapped the node in an auto container
		created = append(created, h.Child(0))
		if !cfg.keepAuto {
			name := m.s.doc.ClosestAvailableName(typeName + "1")
			if err := m.host.RenameNode(h, name); err != nil {
				return nil, err
			}
		}
	}
	if cfg.name != "" {
		target := created[len(created)-1]
		if cfg.keepAuto {
			target = created[0]
		}
		if err := m.host.RenameNode(target, cfg.name); err != nil {
			return nil, err
		}
	}
	if err := m.host.DoIt(); err != nil {
		return nil, err
	}
	m.s.trackCreated(created...)
	return created, nil
}

func createArgs(typeName string, cfg createConfig) []any {
	args := []any{typeName}
	if cfg.name != "" {
		args = append(args, cfg.name)
	}
	if cfg.hasParent {
		args = append(args, cfg.parent)
	}
	return args
}

// CreateDagNode creates a DAG node of the given type and returns it.
// When the host auto-creates a container for a world-level shape, the
// container is renamed to the type's auto name and the shape child is
// returned; [KeepAutoContainer] keeps the host behavior and returns
// the container.
func (m *Modifier) CreateDagNode(typeName string, opts ...CreateOption) (Node, error) {
	var cfg createConfig
	for _, o := range opts {
		o(&cfg)
	}
	created, err := m.createDag(typeName, cfg)
	if err != nil {
		return Node{}, err
	}
	h := created[0]
	if len(created) > 1 && !cfg.keepAuto {
		h = created[len(created)-1]
	}
	n := m.s.Node(h)
	return n, m.finish(nil, "createDagNode", createArgs(typeName, cfg)...)
}

// CreateDagNodeAll is [Modifier.CreateDagNode] returning every
// created node in creation order, auto container first.
func (m *Modifier) CreateDagNodeAll(typeName string, opts ...CreateOption) ([]Node, error) {
	var cfg createConfig
	for _, o := range opts {
		o(&cfg)
	}
	created, err := m.createDag(typeName, cfg)
	if err != nil {
		return nil, err
	}
	ns := make([]Node, len(created))
	for i, h := range created {
		ns[i] = m.s.Node(h)
	}
	return ns, m.finish(nil, "createDagNodeAll", createArgs(typeName, cfg)...)
}

// CreateNode creates a node of the given type, dispatching between
// DAG and DG creation on the registered type.
func (m *Modifier) CreateNode(typeName string, opts ...CreateOption) (Node, error) {
	nt := scene.NodeTypeByName(typeName)
	if nt == nil {
		return Node{}, &scene.TypeError{
			Op:      "CreateNode",
			Message: fmt.Sprintf("type %q", typeName),
			Err:     scene.ErrUnknownType,
		}
	}
	if nt.DAG {
		return m.CreateDagNode(typeName, opts...)
	}
	var cfg createConfig
	for _, o := range opts {
		o(&cfg)
	}
	return m.CreateDGNode(typeName, cfg.name)
}

// DeleteNode records deleting the node and its DAG descendants.
func (m *Modifier) DeleteNode(n Node) error {
	h, err := n.Object()
	if err != nil {
		return err
	}
	return m.finish(m.host.DeleteNode(h), "deleteNode", n)
}

// Connect records connecting src into dst.
func (m *Modifier) Connect(src, dst Plug) error {
	if src.IsNull() || dst.IsNull() {
		return &NullPlugError{Op: "Connect"}
	}
	return m.finish(m.host.Connect(src.p, dst.p), "connect", src, dst)
}

// ConnectNodes records connecting two named attributes, selecting the
// next available element wherever an end is an array.
func (m *Modifier) ConnectNodes(srcNode Node, srcAttr string, dstNode Node, dstAttr string) error {
	sh, err := srcNode.Object()
	if err != nil {
		return err
	}
	dh, err := dstNode.Object()
	if err != nil {
		return err
	}
	return m.finish(m.host.ConnectNodes(sh, srcAttr, dh, dstAttr),
		"connectNodes", srcNode, srcAttr, dstNode, dstAttr)
}

// Disconnect records removing the connection from src into dst.
func (m *Modifier) Disconnect(src, dst Plug) error {
	if src.IsNull() || dst.IsNull() {
		return &NullPlugError{Op: "Disconnect"}
	}
	return m.finish(m.host.Disconnect(src.p, dst.p), "disconnect", src, dst)
}

// SetValue records setting the plug to a host-typed value. The
// convenience codec lives on [Plug.Set]; this is the raw form.
func (m *Modifier) SetValue(p Plug, v any) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetValue"}
	}
	return m.finish(m.host.SetValue(p.p, v), "setValue", p, v)
}

// SetBool records setting a bool plug.
func (m *Modifier) SetBool(p Plug, v bool) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetBool"}
	}
	return m.finish(m.host.SetBool(p.p, v), "setBool", p, v)
}

// SetInt records setting an int or enum plug.
func (m *Modifier) SetInt(p Plug, v int) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetInt"}
	}
	return m.finish(m.host.SetInt(p.p, v), "setInt", p, v)
}

// SetFloat64 records setting a float or double plug.
func (m *Modifier) SetFloat64(p Plug, v float64) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetFloat64"}
	}
	return m.finish(m.host.SetFloat64(p.p, v), "setFloat64", p, v)
}

// SetString records setting a string plug.
func (m *Modifier) SetString(p Plug, v string) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetString"}
	}
	return m.finish(m.host.SetString(p.p, v), "setString", p, v)
}

// SetAngle records setting an angle plug, in radians.
func (m *Modifier) SetAngle(p Plug, v scene.Angle) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetAngle"}
	}
	return m.finish(m.host.SetAngle(p.p, v), "setAngle", p, v)
}

// SetDistance records setting a distance plug, in centimeters.
func (m *Modifier) SetDistance(p Plug, v scene.Distance) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetDistance"}
	}
	return m.finish(m.host.SetDistance(p.p, v), "setDistance", p, v)
}

// SetTime records setting a time plug, in seconds.
func (m *Modifier) SetTime(p Plug, v scene.Time) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetTime"}
	}
	return m.finish(m.host.SetTime(p.p, v), "setTime", p, v)
}

// SetMatrix records setting a matrix plug.
func (m *Modifier) SetMatrix(p Plug, v scene.Matrix) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetMatrix"}
	}
	return m.finish(m.host.SetMatrix(p.p, v), "setMatrix", p, v)
}

// AddAttribute records adding a dynamic attribute to the node.
func (m *Modifier) AddAttribute(n Node, a *scene.Attribute) error {
	h, err := n.Object()
	if err != nil {
		return err
	}
	return m.finish(m.host.AddAttribute(h, a), "addAttribute", n, a.Name)
}

// RemoveAttribute records removing a dynamic attribute from the node.
func (m *Modifier) RemoveAttribute(n Node, a *scene.Attribute) error {
	h, err := n.Object()
	if err != nil {
		return err
	}
	return m.finish(m.host.RemoveAttribute(h, a), "removeAttribute", n, a.Name)
}

// RenameAttribute records renaming a dynamic attribute on the node.
func (m *Modifier) RenameAttribute(n Node, a *scene.Attribute, newShort, newLong string) error {
	h, err := n.Object()
	if err != nil {
		return err
	}
	return m.finish(m.host.RenameAttribute(h, a, newShort, newLong),
		"renameAttribute", n, a.Name, newShort, newLong)
}

// RenameNode records renaming the node.
func (m *Modifier) RenameNode(n Node, name string) error {
	h, err := n.Object()
	if err != nil {
		return err
	}
	return m.finish(m.host.RenameNode(h, name), "renameNode", n, name)
}

// SetNodeLockState records locking or unlocking the node.
func (m *Modifier) SetNodeLockState(n Node, locked bool) error {
	h, err := n.Object()
	if err != nil {
		return err
	}
	return m.finish(m.host.SetNodeLockState(h, locked), "setNodeLockState", n, locked)
}

// ReparentNode records a relative reparent: local values are kept and
// the world transform changes. A null parent moves the node to the
// world. Reparenting to self or a descendant is rejected here, before
// anything is recorded, so the modifier stays clean.
func (m *Modifier) ReparentNode(n, parent Node) error {
	h, err := n.Object()
	if err != nil {
		return err
	}
	ph := scene.Handle{}
	if !parent.IsNull() {
		if ph, err = parent.Object(); err != nil {
			return err
		}
		if ph == h {
			return &scene.TypeError{
				Op:      "ReparentNode",
				Message: fmt.Sprintf("cannot parent %s to itself", n),
				Err:     scene.ErrHierarchy,
			}
		}
		for a := ph.Parent(); !a.IsNull(); a = a.Parent() {
			if a == h {
				return &scene.TypeError{
					Op:      "ReparentNode",
					Message: fmt.Sprintf("%s is a descendant of %s", parent, n),
					Err:     scene.ErrHierarchy,
				}
			}
		}
	}
	return m.finish(m.host.Reparent(h, ph), "reparentNode", n, parent)
}

// ReparentNodeAbsolute records an absolute reparent: the node's world
// transform is preserved by recomposing its local values against the
// new parent at apply time.
func (m *Modifier) ReparentNodeAbsolute(n, parent Node) error {
	h, err := n.Object()
	if err != nil {
		return err
	}
	line := "parent -a -w " + h.Path()
	if !parent.IsNull() {
		ph, err := parent.Object()
		if err != nil {
			return err
		}
		if ph == h {
			return &scene.TypeError{
				Op:      "ReparentNode",
				Message: fmt.Sprintf("cannot parent %s to itself", n),
				Err:     scene.ErrHierarchy,
			}
		}
		line = fmt.Sprintf("parent -a %s %s", h.Path(), ph.Path())
	}
	return m.finish(m.host.Execute(line), "reparentNodeAbsolute", n, parent)
}

// Execute records an arbitrary script line, dispatched through the
// document command registry at apply time.
func (m *Modifier) Execute(cmd string) error {
	return m.finish(m.host.Execute(cmd), "execute", cmd)
}

func flag01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// SetPlugLocked records locking or unlocking the plug.
func (m *Modifier) SetPlugLocked(p Plug, state bool) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetPlugLocked"}
	}
	line := "setAttr -lock " + flag01(state) + " " + p.p.Path()
	return m.finish(m.host.Execute(line), "setPlugLocked", p, state)
}

// SetPlugKeyable records making the plug keyable or not.
func (m *Modifier) SetPlugKeyable(p Plug, state bool) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetPlugKeyable"}
	}
	line := "setAttr -keyable " + flag01(state) + " " + p.p.Path()
	return m.finish(m.host.Execute(line), "setPlugKeyable", p, state)
}

// SetPlugChannelBox records showing or hiding the plug in the channel
// box.
func (m *Modifier) SetPlugChannelBox(p Plug, state bool) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetPlugChannelBox"}
	}
	line := "setAttr -channelBox " + flag01(state) + " " + p.p.Path()
	return m.finish(m.host.Execute(line), "setPlugChannelBox", p, state)
}
