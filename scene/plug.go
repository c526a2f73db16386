// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// plugStep is one navigation step from a root attribute: descent into
// a compound child (attr non-nil) or selection of an array element
// (attr nil, index >= 0).
type plugStep struct {
	attr  *Attribute
	index int
}

// Plug is a value type addressing one attribute instance on one node:
// the node, the attribute, and the compound children and array
// indices walked from the root attribute. The zero Plug is null.
// Plugs are read-only views; all mutation goes through a [Modifier]
// or a registered command.
type Plug struct {
	ob    *object
	attr  *Attribute
	steps []plugStep

	// indexed is set once an array index has been selected for attr.
	indexed bool
}

// IsNull reports whether the plug addresses nothing.
func (p Plug) IsNull() bool {
	return p.ob == nil || p.attr == nil
}

// Node returns the node the plug belongs to.
func (p Plug) Node() Handle {
	return Handle{p.ob}
}

// Attribute returns the attribute definition the plug addresses.
func (p Plug) Attribute() *Attribute {
	return p.attr
}

// Kind returns the value kind of the addressed attribute.
func (p Plug) Kind() Kind {
	if p.attr == nil {
		return -1
	}
	return p.attr.Kind
}

// Eq reports whether two plugs address the same attribute instance on
// the same node.
func (p Plug) Eq(o Plug) bool {
	return p.ob == o.ob && p.key() == o.key()
}

// key returns the stable per-node key of the plug, e.g.
// "translate.translateX" or "worldMatrix[0]".
func (p Plug) key() string {
	if p.IsNull() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.rootAttr().Name)
	for _, st := range p.steps {
		if st.attr != nil {
			sb.WriteByte('.')
			sb.WriteString(st.attr.Name)
		} else {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(st.index))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// rootAttr returns the root attribute definition of the plug's path.
func (p Plug) rootAttr() *Attribute {
	if len(p.steps) == 0 {
		return p.attr
	}
	a := p.attr
	for a.parent != nil {
		a = a.parent
	}
	return a
}

// Name returns the leaf name with any selected index, e.g.
// "worldMatrix[0]" or "translateX".
func (p Plug) Name() string {
	if p.IsNull() {
		return ""
	}
	n := p.attr.Name
	if p.indexed {
		n += "[" + strconv.Itoa(p.elementIndex()) + "]"
	}
	return n
}

// Path returns the full "node.attr" form, with the complete node
// path and every compound and index step, resolvable by
// [Document.FindPlug].
func (p Plug) Path() string {
	if p.IsNull() {
		return ""
	}
	return Handle{p.ob}.Path() + "." + p.key()
}

// String renders the plug as nodePartialPath.leafName, or "NullPlug".
func (p Plug) String() string {
	if p.IsNull() {
		return "NullPlug"
	}
	return Handle{p.ob}.String() + "." + p.Name()
}

// IsArray reports whether the plug addresses the array level of a
// multi attribute, with no element selected yet.
func (p Plug) IsArray() bool {
	return !p.IsNull() && p.attr.Array && !p.indexed
}

// IsElement reports whether the plug addresses one element of a multi
// attribute.
func (p Plug) IsElement() bool {
	return !p.IsNull() && p.indexed
}

// IsCompound reports whether the plug addresses a compound.
func (p Plug) IsCompound() bool {
	return !p.IsNull() && p.attr.Kind == KindCompound
}

// IsChild reports whether the plug addresses a child of a compound.
func (p Plug) IsChild() bool {
	return !p.IsNull() && p.attr.parent != nil
}

// elementIndex returns the selected array index, or -1.
func (p Plug) elementIndex() int {
	for i := len(p.steps) - 1; i >= 0; i-- {
		if p.steps[i].attr == nil {
			return p.steps[i].index
		}
	}
	return -1
}

// Parent returns the plug one step up: the array level for an
// element, the compound for a child, or the null plug at the root.
func (p Plug) Parent() Plug {
	if p.IsNull() || len(p.steps) == 0 {
		return Plug{}
	}
	last := p.steps[len(p.steps)-1]
	np := Plug{ob: p.ob, steps: slices.Clone(p.steps[:len(p.steps)-1])}
	if last.attr == nil {
		// element -> array level of the same attribute
		np.attr = p.attr
		np.indexed = false
	} else {
		np.attr = last.attr.parent
		np.indexed = np.attr != nil && np.attr.Array && len(np.steps) > 0 && np.steps[len(np.steps)-1].attr == nil
	}
	if np.attr == nil {
		return Plug{}
	}
	return np
}

// Root returns the plug of the root attribute of this plug's path.
func (p Plug) Root() Plug {
	if p.IsNull() {
		return Plug{}
	}
	return Plug{ob: p.ob, attr: p.rootAttr()}
}

// Element returns the element plug at the given logical index of this
// array plug. Indices are sparse: addressing an element does not
// create it. Negative indices and non-array plugs error.
func (p Plug) Element(i int) (Plug, error) {
	if !p.IsArray() {
		return Plug{}, fmt.Errorf("scene.Plug.Element: %s is not an array", p)
	}
	if i < 0 {
		return Plug{}, fmt.Errorf("scene.Plug.Element: negative index %d on %s", i, p)
	}
	np := Plug{ob: p.ob, attr: p.attr, indexed: true,
		steps: append(slices.Clone(p.steps), plugStep{index: i})}
	return np, nil
}

// NumElements returns the number of existing elements of this array
// plug.
func (p Plug) NumElements() int {
	return len(p.Indices())
}

// Indices returns the sorted existing logical indices of this array
// plug. Elements exist once a value has been set or a connection made
// at their index.
func (p Plug) Indices() []int {
	if !p.IsArray() {
		return nil
	}
	set := p.ob.elements[p.key()]
	idxs := make([]int, 0, len(set))
	for i := range set {
		idxs = append(idxs, i)
	}
	slices.Sort(idxs)
	return idxs
}

// HasIndex reports whether the given logical index exists on this
// array plug.
func (p Plug) HasIndex(i int) bool {
	if !p.IsArray() {
		return false
	}
	return p.ob.elements[p.key()][i]
}

// NextAvailableIndex returns the first logical index with no element
// and no connection, or -1 for a non-array plug.
func (p Plug) NextAvailableIndex() int {
	if !p.IsArray() {
		return -1
	}
	set := p.ob.elements[p.key()]
	for i := 0; ; i++ {
		if !set[i] {
			return i
		}
	}
}

// NumChildren returns the number of children of this compound plug.
func (p Plug) NumChildren() int {
	if !p.IsCompound() || p.IsArray() {
		return 0
	}
	return len(p.attr.Children)
}

// Child returns the i'th child of this compound plug.
func (p Plug) Child(i int) (Plug, error) {
	if !p.IsCompound() {
		return Plug{}, fmt.Errorf("scene.Plug.Child: %s is not a compound", p)
	}
	if p.IsArray() {
		return Plug{}, fmt.Errorf("scene.Plug.Child: %s is an array of compounds, select an element first", p)
	}
	if i < 0 || i >= len(p.attr.Children) {
		return Plug{}, fmt.Errorf("scene.Plug.Child: index %d out of range on %s", i, p)
	}
	ca := p.attr.Children[i]
	return Plug{ob: p.ob, attr: ca,
		steps: append(slices.Clone(p.steps), plugStep{attr: ca})}, nil
}

// ChildByName returns the immediate child with the given exact long
// or short name. The fuzzy recursive search across nested compounds
// belongs to the convenience layer, not the host.
func (p Plug) ChildByName(name string) (Plug, error) {
	if !p.IsCompound() {
		return Plug{}, fmt.Errorf("scene.Plug.ChildByName: %s is not a compound", p)
	}
	if p.IsArray() {
		return Plug{}, fmt.Errorf("scene.Plug.ChildByName: %s is an array of compounds, select an element first", p)
	}
	ca := p.attr.ChildByName(name)
	if ca == nil {
		return Plug{}, fmt.Errorf("scene.Plug.ChildByName: %s has no child %q: %w", p, name, ErrNotFound)
	}
	return Plug{ob: p.ob, attr: ca,
		steps: append(slices.Clone(p.steps), plugStep{attr: ca})}, nil
}

// Get returns the value of a leaf plug: an element of an array, or a
// non-array non-compound attribute. Compound and array levels and
// message plugs error. A connected destination reads through to its
// source; computed attributes evaluate on read.
func (p Plug) Get() (any, error) {
	if p.IsNull() {
		return nil, fmt.Errorf("scene.Plug.Get: null plug")
	}
	if !(Handle{p.ob}).IsValid() {
		return nil, fmt.Errorf("scene.Plug.Get: node of %s is not valid", p)
	}
	if p.IsArray() {
		return nil, fmt.Errorf("scene.Plug.Get: %s is an array level, select an element", p)
	}
	if !p.attr.Kind.HasValue() {
		return nil, fmt.Errorf("scene.Plug.Get: %s has kind %v, which holds no value", p, p.attr.Kind)
	}
	if p.attr.Computed {
		return p.ob.doc.evalComputed(p)
	}
	if src, ok := p.ob.sources[p.key()]; ok {
		v, err := src.Get()
		if err != nil {
			return nil, err
		}
		return coerceValue(p.attr.Kind, v)
	}
	if v, ok := p.ob.values[p.key()]; ok {
		return v, nil
	}
	return p.attr.defaultValue(), nil
}

// Locked reports the plug's lock state.
func (p Plug) Locked() bool {
	if p.IsNull() {
		return false
	}
	if st := p.ob.states[p.key()]; st != nil {
		return st.locked
	}
	return false
}

// Keyable reports the plug's keyable state, initialized from the
// attribute definition.
func (p Plug) Keyable() bool {
	if p.IsNull() {
		return false
	}
	if st := p.ob.states[p.key()]; st != nil {
		return st.keyable
	}
	return p.attr.Keyable
}

// ChannelBox reports the plug's channel-box state, initialized from
// the attribute definition.
func (p Plug) ChannelBox() bool {
	if p.IsNull() {
		return false
	}
	if st := p.ob.states[p.key()]; st != nil {
		return st.channelBox
	}
	return p.attr.ChannelBox
}

// Source returns the plug connected into this one, or the null plug
// if this plug is not a destination.
func (p Plug) Source() Plug {
	if p.IsNull() {
		return Plug{}
	}
	return p.ob.sources[p.key()]
}

// IsDestination reports whether this plug has an incoming connection.
func (p Plug) IsDestination() bool {
	if p.IsNull() {
		return false
	}
	_, ok := p.ob.sources[p.key()]
	return ok
}

// Destinations returns the plugs this one is connected out to.
func (p Plug) Destinations() []Plug {
	if p.IsNull() {
		return nil
	}
	return slices.Clone(p.ob.dests[p.key()])
}

// IsSource reports whether this plug has outgoing connections.
func (p Plug) IsSource() bool {
	if p.IsNull() {
		return false
	}
	return len(p.ob.dests[p.key()]) > 0
}
