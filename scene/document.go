// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene implements an in-memory scene-graph document: typed
// nodes with attributes and plugs, dependency connections between
// plugs, transactions ([Modifier]) that batch edits with apply and
// revert semantics, a named command registry with an undo queue, and
// JSON serialization. It is the graph host that the convenience layer
// in the sx package edits through; its public API is deliberately a
// narrow collaborator surface, so that layer could be rebuilt against
// a different host with the same object model.
package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/scenex/scenex/base/keylist"
)

// DocEvent is a document lifecycle event that callbacks can be
// registered for with [Document.On].
type DocEvent int32

const (
	// AfterNew fires after [Document.Clear] empties the document.
	AfterNew DocEvent = iota

	// BeforeOpen fires before [Document.OpenFile] replaces the
	// document contents.
	BeforeOpen

	// AfterOpen fires after [Document.OpenFile] has loaded the new
	// contents.
	AfterOpen

	// Exiting fires when [Document.Shutdown] is called.
	Exiting
)

var docEventNames = []string{"AfterNew", "BeforeOpen", "AfterOpen", "Exiting"}

func (ev DocEvent) String() string {
	if ev < 0 || int(ev) >= len(docEventNames) {
		return "DocEvent(invalid)"
	}
	return docEventNames[ev]
}

type eventCallback struct {
	id int
	fn func(*Document)
}

// Document is one scene-graph document: the node tables, the undo
// queue, lifecycle event callbacks, and name bookkeeping. Documents
// are not safe for concurrent use; the model is a single logical
// thread of host-script execution.
type Document struct {
	// nodes holds every valid node in creation order, keyed by UUID.
	nodes *keylist.List[uuid.UUID, *object]

	// roots are the world-level DAG nodes in creation order.
	roots []*object

	// all tracks every object ever created, so purges can mark
	// outstanding handles dead.
	all []*object

	undoStack  []Command
	redoStack  []Command
	undoActive bool
	undoDepth  int

	events  map[DocEvent][]eventCallback
	eventID int

	// commands is the document-local command registry, consulted
	// before the package-level one by [Document.Invoke].
	commands map[string]CommandMaker
}

// DefaultUndoDepth is the initial undo queue depth of a new
// [Document].
const DefaultUndoDepth = 100

// NewDocument returns a new empty document with undo recording
// active.
func NewDocument() *Document {
	return &Document{
		nodes:      keylist.New[uuid.UUID, *object](),
		undoActive: true,
		undoDepth:  DefaultUndoDepth,
		events:     map[DocEvent][]eventCallback{},
		commands:   map[string]CommandMaker{},
	}
}

// On registers a callback for the given lifecycle event, returning an
// id for [Document.Off].
func (d *Document) On(ev DocEvent, fn func(*Document)) int {
	d.eventID++
	d.events[ev] = append(d.events[ev], eventCallback{id: d.eventID, fn: fn})
	return d.eventID
}

// Off removes the callback with the given id from the given event.
func (d *Document) Off(ev DocEvent, id int) {
	cbs := d.events[ev]
	for i, cb := range cbs {
		if cb.id == id {
			d.events[ev] = append(cbs[:i:i], cbs[i+1:]...)
			return
		}
	}
}

func (d *Document) fire(ev DocEvent) {
	for _, cb := range d.events[ev] {
		cb.fn(d)
	}
}

// Nodes returns handles to every valid node, in creation order.
func (d *Document) Nodes() []Handle {
	hs := make([]Handle, 0, d.nodes.Len())
	for _, ob := range d.nodes.Values {
		hs = append(hs, Handle{ob})
	}
	return hs
}

// Roots returns handles to the world-level DAG nodes, in creation
// order.
func (d *Document) Roots() []Handle {
	hs := make([]Handle, 0, len(d.roots))
	for _, ob := range d.roots {
		hs = append(hs, Handle{ob})
	}
	return hs
}

// FindNodeByUUID returns the valid node with the given id, or the
// null handle.
func (d *Document) FindNodeByUUID(id uuid.UUID) Handle {
	return Handle{d.nodes.At(id)}
}

// Exists reports whether a valid node answers to the given name or
// path.
func (d *Document) Exists(name string) bool {
	h, err := d.FindNode(name)
	return err == nil && !h.IsNull()
}

// FindNode resolves a node by plain name or by "|" separated DAG
// path. A plain short name that matches more than one node returns
// [ErrAmbiguous]; no match returns [ErrNotFound].
func (d *Document) FindNode(name string) (Handle, error) {
	if name == "" {
		return Handle{}, fmt.Errorf("scene.FindNode: empty name: %w", ErrNotFound)
	}
	if strings.Contains(name, "|") {
		obs := d.matchSuffix(name)
		switch len(obs) {
		case 0:
			return Handle{}, fmt.Errorf("scene.FindNode: no node matches path %q: %w", name, ErrNotFound)
		case 1:
			return Handle{obs[0]}, nil
		}
		return Handle{}, fmt.Errorf("scene.FindNode: path %q: %w", name, ErrAmbiguous)
	}
	var found *object
	for _, ob := range d.nodes.Values {
		if ob.name != name {
			continue
		}
		if found != nil {
			return Handle{}, fmt.Errorf("scene.FindNode: name %q: %w", name, ErrAmbiguous)
		}
		found = ob
	}
	if found == nil {
		return Handle{}, fmt.Errorf("scene.FindNode: no node named %q: %w", name, ErrNotFound)
	}
	return Handle{found}, nil
}

// FindPlug resolves a "node.attr" path, where the node part may be a
// "|" path and the attribute part may address compound children and
// array elements, e.g. "pCube1.translate.translateX" or
// "grp|child.worldMatrix[0]".
func (d *Document) FindPlug(path string) (Plug, error) {
	name, attr, ok := strings.Cut(path, ".")
	if !ok || attr == "" {
		return Plug{}, fmt.Errorf("scene.FindPlug: %q has no attribute part: %w", path, ErrNotFound)
	}
	h, err := d.FindNode(name)
	if err != nil {
		return Plug{}, err
	}
	return h.Plug(attr)
}

// matchSuffix returns the valid DAG nodes whose path ends with the
// given "|" separated suffix. A leading "|" anchors the match at the
// world root.
func (d *Document) matchSuffix(suffix string) []*object {
	anchored := strings.HasPrefix(suffix, "|")
	parts := strings.Split(strings.TrimPrefix(suffix, "|"), "|")
	leaf := parts[len(parts)-1]
	var out []*object
	for _, ob := range d.nodes.Values {
		if ob.name != leaf || !ob.typ.DAG {
			continue
		}
		cur := ob
		ok := true
		for i := len(parts) - 2; i >= 0; i-- {
			cur = cur.parent
			if cur == nil || cur.name != parts[i] {
				ok = false
				break
			}
		}
		if ok && anchored && cur != nil && cur.parent != nil {
			ok = false
		}
		if ok {
			out = append(out, ob)
		}
	}
	return out
}

// NamePrefixAndDigits partitions a name into its prefix and its
// trailing digit run. A name that is all digits has an empty prefix;
// a name with no trailing digits returns -1 for the digits.
//
//	NamePrefixAndDigits("node12") == ("node", 12)
//	NamePrefixAndDigits("node") == ("node", -1)
//	NamePrefixAndDigits("1234") == ("", 1234)
func NamePrefixAndDigits(name string) (string, int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return name, -1
	}
	n, _ := strconv.Atoi(name[i:])
	return name[:i], n
}

// ClosestAvailableName returns the given name if no node answers to
// it, and otherwise the nearest name formed by incrementing the
// trailing digit run until one is unused.
func (d *Document) ClosestAvailableName(name string) string {
	if name == "" {
		return ""
	}
	if !d.Exists(name) {
		return name
	}
	prefix, digits := NamePrefixAndDigits(name)
	if digits < 0 {
		digits = 0
	}
	for {
		digits++
		cand := prefix + strconv.Itoa(digits)
		if !d.Exists(cand) {
			return cand
		}
	}
}

// uniqueName returns name adjusted so that it collides with no
// sibling under the given parent (nil parent meaning the world roots
// for DAG types, or the whole document for DG types), ignoring self.
func (d *Document) uniqueName(name string, typ *NodeType, parent, self *object) string {
	taken := func(n string) bool {
		if typ.DAG {
			sibs := d.roots
			if parent != nil {
				sibs = parent.children
			}
			for _, s := range sibs {
				if s != self && s.name == n {
					return true
				}
			}
			return false
		}
		for _, ob := range d.nodes.Values {
			if ob != self && ob.name == n {
				return true
			}
		}
		return false
	}
	if !taken(name) {
		return name
	}
	prefix, digits := NamePrefixAndDigits(name)
	if digits < 0 {
		digits = 0
	}
	for {
		digits++
		cand := prefix + strconv.Itoa(digits)
		if !taken(cand) {
			return cand
		}
	}
}

// autoName returns the default name for a new node of the given type,
// "<type>N" counting up from 1.
func (d *Document) autoName(typ *NodeType) string {
	return d.ClosestAvailableName(typ.Name + "1")
}

// insert puts the object into the graph under the given parent (nil
// for the world), making it valid.
func (d *Document) insert(ob *object, parent *object) {
	ob.valid = true
	ob.alive = true
	ob.parent = parent
	if !d.nodes.Has(ob.uuid) {
		d.nodes.Set(ob.uuid, ob)
	}
	if ob.typ.DAG {
		if parent != nil {
			parent.children = append(parent.children, ob)
		} else {
			d.roots = append(d.roots, ob)
		}
	}
	d.track(ob)
}

func (d *Document) track(ob *object) {
	for _, o := range d.all {
		if o == ob {
			return
		}
	}
	d.all = append(d.all, ob)
}

// remove takes the object out of the graph, leaving it alive but
// invalid so an undo can restore it.
func (d *Document) remove(ob *object) {
	ob.valid = false
	d.nodes.DeleteByKey(ob.uuid)
	if ob.typ.DAG {
		d.detach(ob)
	}
	ob.parent = nil
}

// detach unlinks a DAG object from its parent's child list or the
// world roots, without changing validity.
func (d *Document) detach(ob *object) {
	sibs := &d.roots
	if ob.parent != nil {
		sibs = &ob.parent.children
	}
	for i, s := range *sibs {
		if s == ob {
			*sibs = append((*sibs)[:i:i], (*sibs)[i+1:]...)
			return
		}
	}
}

// attach links a DAG object under the given parent (nil for the
// world) at the end of the child list.
func (d *Document) attach(ob *object, parent *object) {
	ob.parent = parent
	if parent != nil {
		parent.children = append(parent.children, ob)
	} else {
		d.roots = append(d.roots, ob)
	}
}

// attachAt links a DAG object under the given parent (nil for the
// world) at the given sibling index, clamped to the list length.
func (d *Document) attachAt(ob *object, parent *object, index int) {
	ob.parent = parent
	sibs := &d.roots
	if parent != nil {
		sibs = &parent.children
	}
	if index < 0 || index > len(*sibs) {
		index = len(*sibs)
	}
	*sibs = append(*sibs, nil)
	copy((*sibs)[index+1:], (*sibs)[index:])
	(*sibs)[index] = ob
}

// purge marks every object this document has ever created dead and
// empties the node tables and the undo history. Outstanding handles
// report dead afterwards.
func (d *Document) purge() {
	for _, ob := range d.all {
		ob.valid = false
		ob.alive = false
	}
	d.all = nil
	d.roots = nil
	d.nodes.Reset()
	d.undoStack = nil
	d.redoStack = nil
}

// Clear empties the document as a file-new: everything is purged, the
// undo history is dropped, and [AfterNew] fires.
func (d *Document) Clear() {
	d.purge()
	d.fire(AfterNew)
}

// Shutdown fires [Exiting] and purges the document.
func (d *Document) Shutdown() {
	d.fire(Exiting)
	d.purge()
}
