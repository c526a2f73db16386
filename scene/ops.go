// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "strings"

// markElement records that the element plug exists in its array. It
// reports whether the element already existed, so undo can restore
// the prior state.
func (ob *object) markElement(p Plug) bool {
	if !p.IsElement() {
		return true
	}
	key := p.Parent().key()
	if ob.elements[key] == nil {
		ob.elements[key] = map[int]bool{}
	}
	had := ob.elements[key][p.elementIndex()]
	ob.elements[key][p.elementIndex()] = true
	return had
}

func (ob *object) unmarkElement(p Plug) {
	if !p.IsElement() {
		return
	}
	delete(ob.elements[p.Parent().key()], p.elementIndex())
}

// createOp inserts a new object into the graph. It is born applied,
// so do only runs again after an UndoIt.
type createOp struct {
	ob     *object
	parent *object
}

func (o *createOp) name() string { return "CreateNode" }

func (o *createOp) do(d *Document) error {
	o.ob.name = d.uniqueName(o.ob.name, o.ob.typ, o.parent, o.ob)
	d.insert(o.ob, o.parent)
	return nil
}

func (o *createOp) undo(d *Document) error {
	d.remove(o.ob)
	return nil
}

// connRec captures one connection, identified by its destination.
type connRec struct {
	src, dst Plug
	srcElem  bool // element existed on the source side before apply
	dstElem  bool
}

// deleteOp removes a node and its DAG descendants, capturing enough
// state at apply time to restore topology and connections on undo.
// Internal parent/child links of the removed subtree stay intact; only
// the root is detached.
type deleteOp struct {
	target *object

	parent  *object
	index   int
	subgot  bool
	subtree []*object
	conns   []connRec
}

func (o *deleteOp) name() string { return "DeleteNode" }

func (o *deleteOp) do(d *Document) error {
	if !o.target.valid {
		return typeErrorf("DeleteNode", ErrNotFound, "%s", Handle{o.target})
	}
	if o.target.locked {
		return typeErrorf("DeleteNode", ErrLocked, "%s", Handle{o.target})
	}
	if !o.subgot {
		o.subtree = nil
		collectSubtree(o.target, &o.subtree)
		o.subgot = true
	}
	removed := map[*object]bool{}
	for _, ob := range o.subtree {
		removed[ob] = true
	}
	o.conns = o.conns[:0]
	for _, ob := range o.subtree {
		for _, src := range ob.sources {
			dst := Plug{}
			// recover the destination plug from the source's
			// fanout list, which stores full plugs
			for _, cand := range src.ob.dests[src.key()] {
				if cand.ob == ob {
					dst = cand
					break
				}
			}
			if !dst.IsNull() {
				o.conns = append(o.conns, connRec{src: src, dst: dst})
			}
		}
		for _, dsts := range ob.dests {
			for _, dst := range dsts {
				if !removed[dst.ob] {
					src := dst.ob.sources[dst.key()]
					o.conns = append(o.conns, connRec{src: src, dst: dst})
				}
			}
		}
	}
	for _, c := range o.conns {
		breakConnection(c.src, c.dst)
	}
	o.parent = o.target.parent
	if o.target.typ.DAG {
		o.index = siblingIndex(d, o.target)
		d.detach(o.target)
	}
	o.target.parent = nil
	for _, ob := range o.subtree {
		ob.valid = false
		d.nodes.DeleteByKey(ob.uuid)
	}
	return nil
}

func (o *deleteOp) undo(d *Document) error {
	if o.target.typ.DAG {
		d.attachAt(o.target, o.parent, o.index)
	} else {
		o.target.parent = o.parent
	}
	for _, ob := range o.subtree {
		ob.valid = true
		ob.alive = true
		if !d.nodes.Has(ob.uuid) {
			d.nodes.Set(ob.uuid, ob)
		}
	}
	for _, c := range o.conns {
		makeConnection(c.src, c.dst)
	}
	return nil
}

func collectSubtree(ob *object, out *[]*object) {
	*out = append(*out, ob)
	for _, c := range ob.children {
		collectSubtree(c, out)
	}
}

func siblingIndex(d *Document, ob *object) int {
	sibs := d.roots
	if ob.parent != nil {
		sibs = ob.parent.children
	}
	for i, s := range sibs {
		if s == ob {
			return i
		}
	}
	return len(sibs)
}

func makeConnection(src, dst Plug) {
	dst.ob.sources[dst.key()] = src
	sk := src.key()
	src.ob.dests[sk] = append(src.ob.dests[sk], dst)
	src.ob.markElement(src)
	dst.ob.markElement(dst)
}

func breakConnection(src, dst Plug) {
	delete(dst.ob.sources, dst.key())
	sk := src.key()
	dsts := src.ob.dests[sk]
	for i, cand := range dsts {
		if cand.ob == dst.ob && cand.key() == dst.key() {
			src.ob.dests[sk] = append(dsts[:i:i], dsts[i+1:]...)
			break
		}
	}
	if len(src.ob.dests[sk]) == 0 {
		delete(src.ob.dests, sk)
	}
}

// connectOp wires src into dst, replacing and remembering any prior
// source.
type connectOp struct {
	src, dst Plug

	hadPrev bool
	prev    Plug
	srcElem bool
	dstElem bool
}

func (o *connectOp) name() string { return "Connect" }

func (o *connectOp) do(d *Document) error {
	if !o.dst.ob.valid || !o.src.ob.valid {
		return typeErrorf("Connect", ErrNotFound, "%s -> %s", o.src, o.dst)
	}
	if o.dst.Locked() {
		return typeErrorf("Connect", ErrLocked, "destination %s", o.dst)
	}
	if prev, ok := o.dst.ob.sources[o.dst.key()]; ok {
		o.hadPrev, o.prev = true, prev
		breakConnection(prev, o.dst)
	}
	o.srcElem = o.src.ob.markElement(o.src)
	o.dstElem = o.dst.ob.markElement(o.dst)
	makeConnection(o.src, o.dst)
	return nil
}

func (o *connectOp) undo(d *Document) error {
	breakConnection(o.src, o.dst)
	if !o.srcElem {
		o.src.ob.unmarkElement(o.src)
	}
	if !o.dstElem {
		o.dst.ob.unmarkElement(o.dst)
	}
	if o.hadPrev {
		makeConnection(o.prev, o.dst)
	}
	o.hadPrev = false
	return nil
}

// disconnectOp breaks the connection from src into dst, which must be
// present at apply time.
type disconnectOp struct {
	src, dst Plug
}

func (o *disconnectOp) name() string { return "Disconnect" }

func (o *disconnectOp) do(d *Document) error {
	cur, ok := o.dst.ob.sources[o.dst.key()]
	if !ok || !cur.Eq(o.src) {
		return typeErrorf("Disconnect", ErrNotFound, "%s is not connected to %s", o.src, o.dst)
	}
	if o.dst.Locked() {
		return typeErrorf("Disconnect", ErrLocked, "destination %s", o.dst)
	}
	breakConnection(o.src, o.dst)
	return nil
}

func (o *disconnectOp) undo(d *Document) error {
	makeConnection(o.src, o.dst)
	return nil
}

// setValueOp stores a coerced value on a plug, remembering the prior
// stored value (or its absence) for undo.
type setValueOp struct {
	p   Plug
	val any

	hadPrev bool
	prev    any
	hadElem bool
}

func (o *setValueOp) name() string { return "SetValue" }

func (o *setValueOp) do(d *Document) error {
	if !o.p.ob.valid {
		return typeErrorf("SetValue", ErrNotFound, "%s", o.p)
	}
	if o.p.Locked() {
		return typeErrorf("SetValue", ErrLocked, "%s", o.p)
	}
	key := o.p.key()
	o.prev, o.hadPrev = o.p.ob.values[key]
	o.hadElem = o.p.ob.markElement(o.p)
	o.p.ob.values[key] = o.val
	return nil
}

func (o *setValueOp) undo(d *Document) error {
	key := o.p.key()
	if o.hadPrev {
		o.p.ob.values[key] = o.prev
	} else {
		delete(o.p.ob.values, key)
	}
	if !o.hadElem {
		o.p.ob.unmarkElement(o.p)
	}
	return nil
}

// addAttrOp appends an already cloned dynamic attribute definition.
type addAttrOp struct {
	ob   *object
	attr *Attribute
}

func (o *addAttrOp) name() string { return "AddAttribute" }

func (o *addAttrOp) do(d *Document) error {
	if o.ob.attributeByName(o.attr.Name) != nil {
		return typeErrorf("AddAttribute", nil, "%s already has attribute %q", Handle{o.ob}, o.attr.Name)
	}
	o.ob.dynamic = append(o.ob.dynamic, o.attr)
	return nil
}

func (o *addAttrOp) undo(d *Document) error {
	for i, a := range o.ob.dynamic {
		if a == o.attr {
			o.ob.dynamic = append(o.ob.dynamic[:i:i], o.ob.dynamic[i+1:]...)
			break
		}
	}
	clearAttrState(o.ob, o.attr.Name)
	return nil
}

// keyUnderAttr reports whether a plug state key belongs to the named
// root attribute.
func keyUnderAttr(key, name string) bool {
	return key == name ||
		strings.HasPrefix(key, name+".") ||
		strings.HasPrefix(key, name+"[")
}

func clearAttrState(ob *object, name string) {
	for k := range ob.values {
		if keyUnderAttr(k, name) {
			delete(ob.values, k)
		}
	}
	for k := range ob.states {
		if keyUnderAttr(k, name) {
			delete(ob.states, k)
		}
	}
	for k := range ob.elements {
		if keyUnderAttr(k, name) {
			delete(ob.elements, k)
		}
	}
}

// removeAttrOp deletes a dynamic attribute, capturing the values,
// plug states, element sets, and connections under it for undo.
type removeAttrOp struct {
	ob   *object
	attr *Attribute

	values   map[string]any
	states   map[string]*plugState
	elements map[string]map[int]bool
	conns    []connRec
}

func (o *removeAttrOp) name() string { return "RemoveAttribute" }

func (o *removeAttrOp) do(d *Document) error {
	found := false
	for _, a := range o.ob.dynamic {
		if a == o.attr {
			found = true
			break
		}
	}
	if !found {
		return typeErrorf("RemoveAttribute", ErrNotFound, "attribute %q on %s", o.attr.Name, Handle{o.ob})
	}
	name := o.attr.Name
	o.values = map[string]any{}
	o.states = map[string]*plugState{}
	o.elements = map[string]map[int]bool{}
	for k, v := range o.ob.values {
		if keyUnderAttr(k, name) {
			o.values[k] = v
		}
	}
	for k, v := range o.ob.states {
		if keyUnderAttr(k, name) {
			o.states[k] = v
		}
	}
	for k, v := range o.ob.elements {
		if keyUnderAttr(k, name) {
			o.elements[k] = v
		}
	}
	o.conns = o.conns[:0]
	for k, src := range o.ob.sources {
		if !keyUnderAttr(k, name) {
			continue
		}
		for _, cand := range src.ob.dests[src.key()] {
			if cand.ob == o.ob && cand.key() == k {
				o.conns = append(o.conns, connRec{src: src, dst: cand})
			}
		}
	}
	for k, dsts := range o.ob.dests {
		if !keyUnderAttr(k, name) {
			continue
		}
		for _, dst := range dsts {
			src := dst.ob.sources[dst.key()]
			o.conns = append(o.conns, connRec{src: src, dst: dst})
		}
	}
	for _, c := range o.conns {
		breakConnection(c.src, c.dst)
	}
	clearAttrState(o.ob, name)
	for i, a := range o.ob.dynamic {
		if a == o.attr {
			o.ob.dynamic = append(o.ob.dynamic[:i:i], o.ob.dynamic[i+1:]...)
			break
		}
	}
	return nil
}

func (o *removeAttrOp) undo(d *Document) error {
	o.ob.dynamic = append(o.ob.dynamic, o.attr)
	for k, v := range o.values {
		o.ob.values[k] = v
	}
	for k, v := range o.states {
		o.ob.states[k] = v
	}
	for k, v := range o.elements {
		o.ob.elements[k] = v
	}
	for _, c := range o.conns {
		makeConnection(c.src, c.dst)
	}
	return nil
}

// renameAttrOp renames a dynamic attribute, migrating stored state
// keys to the new root name.
type renameAttrOp struct {
	ob          *object
	attr        *Attribute
	short, long string

	prevShort, prevLong string
}

func (o *renameAttrOp) name() string { return "RenameAttribute" }

func (o *renameAttrOp) do(d *Document) error {
	if ex := o.ob.attributeByName(o.long); ex != nil && ex != o.attr {
		return typeErrorf("RenameAttribute", nil, "%s already has attribute %q", Handle{o.ob}, o.long)
	}
	o.prevShort, o.prevLong = o.attr.Short, o.attr.Name
	migrateAttrKeys(o.ob, o.prevLong, o.long)
	o.attr.Short, o.attr.Name = o.short, o.long
	return nil
}

func (o *renameAttrOp) undo(d *Document) error {
	migrateAttrKeys(o.ob, o.attr.Name, o.prevLong)
	o.attr.Short, o.attr.Name = o.prevShort, o.prevLong
	return nil
}

func migrateAttrKeys(ob *object, from, to string) {
	mig := func(k string) string { return to + k[len(from):] }
	for k, v := range ob.values {
		if keyUnderAttr(k, from) {
			delete(ob.values, k)
			ob.values[mig(k)] = v
		}
	}
	for k, v := range ob.states {
		if keyUnderAttr(k, from) {
			delete(ob.states, k)
			ob.states[mig(k)] = v
		}
	}
	for k, v := range ob.elements {
		if keyUnderAttr(k, from) {
			delete(ob.elements, k)
			ob.elements[mig(k)] = v
		}
	}
}

// plug state fields for plugStateOp
const (
	plugLocked = iota
	plugKeyable
	plugChannelBox
)

// plugStateOp toggles one per-plug state flag, as driven by the
// setAttr command.
type plugStateOp struct {
	p     Plug
	field int
	state bool

	prev bool
}

func (o *plugStateOp) name() string { return "SetPlugState" }

func (o *plugStateOp) do(d *Document) error {
	if !o.p.ob.valid {
		return typeErrorf("SetPlugState", ErrNotFound, "%s", o.p)
	}
	st := o.p.ob.state(o.p.attr, o.p.key())
	switch o.field {
	case plugLocked:
		o.prev, st.locked = st.locked, o.state
	case plugKeyable:
		o.prev, st.keyable = st.keyable, o.state
	case plugChannelBox:
		o.prev, st.channelBox = st.channelBox, o.state
	}
	return nil
}

func (o *plugStateOp) undo(d *Document) error {
	st := o.p.ob.state(o.p.attr, o.p.key())
	switch o.field {
	case plugLocked:
		st.locked = o.prev
	case plugKeyable:
		st.keyable = o.prev
	case plugChannelBox:
		st.channelBox = o.prev
	}
	return nil
}

// renameOp renames a node, applying sibling uniquification at apply
// time.
type renameOp struct {
	ob      *object
	newName string

	prev string
}

func (o *renameOp) name() string { return "RenameNode" }

func (o *renameOp) do(d *Document) error {
	if o.ob.locked {
		return typeErrorf("RenameNode", ErrLocked, "%s", Handle{o.ob})
	}
	o.prev = o.ob.name
	o.ob.name = d.uniqueName(o.newName, o.ob.typ, o.ob.parent, o.ob)
	return nil
}

func (o *renameOp) undo(d *Document) error {
	o.ob.name = o.prev
	return nil
}

// lockStateOp toggles the node lock flag.
type lockStateOp struct {
	ob    *object
	state bool

	prev bool
}

func (o *lockStateOp) name() string { return "SetNodeLockState" }

func (o *lockStateOp) do(d *Document) error {
	o.prev = o.ob.locked
	o.ob.locked = o.state
	return nil
}

func (o *lockStateOp) undo(d *Document) error {
	o.ob.locked = o.prev
	return nil
}

// reparentOp moves a DAG node under a new parent. Validation happens
// here at apply time, after any earlier ops in the batch have run.
type reparentOp struct {
	ob     *object
	parent *object

	prevParent *object
	prevIndex  int
	prevName   string
}

func (o *reparentOp) name() string { return "Reparent" }

func (o *reparentOp) do(d *Document) error {
	if !o.ob.valid {
		return typeErrorf("Reparent", ErrNotFound, "%s", Handle{o.ob})
	}
	if o.ob.locked {
		return typeErrorf("Reparent", ErrLocked, "%s", Handle{o.ob})
	}
	if o.parent != nil {
		if !o.parent.valid {
			return typeErrorf("Reparent", ErrNotFound, "parent %s", Handle{o.parent})
		}
		if !o.parent.typ.Container {
			return typeErrorf("Reparent", ErrNotContainer, "parent %s", Handle{o.parent})
		}
		if o.parent == o.ob {
			return typeErrorf("Reparent", ErrHierarchy, "cannot parent %s to itself", Handle{o.ob})
		}
		for p := o.parent.parent; p != nil; p = p.parent {
			if p == o.ob {
				return typeErrorf("Reparent", ErrHierarchy, "%s is a descendant of %s", Handle{o.parent}, Handle{o.ob})
			}
		}
	}
	o.prevParent = o.ob.parent
	o.prevIndex = siblingIndex(d, o.ob)
	o.prevName = o.ob.name
	d.detach(o.ob)
	o.ob.name = d.uniqueName(o.ob.name, o.ob.typ, o.parent, o.ob)
	d.attach(o.ob, o.parent)
	return nil
}

func (o *reparentOp) undo(d *Document) error {
	d.detach(o.ob)
	o.ob.name = o.prevName
	d.attachAt(o.ob, o.prevParent, o.prevIndex)
	return nil
}

// execOp dispatches a textual command line through the command
// registry, constructing the command on first apply.
type execOp struct {
	line string
	cmd  Command
}

func (o *execOp) name() string { return "Execute" }

func (o *execOp) do(d *Document) error {
	if o.cmd == nil {
		cmd, err := d.parseCommand(o.line)
		if err != nil {
			return err
		}
		o.cmd = cmd
		return o.cmd.Do(d)
	}
	return o.cmd.Redo(d)
}

func (o *execOp) undo(d *Document) error {
	return o.cmd.Undo(d)
}
