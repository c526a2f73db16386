// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"fmt"
	"log/slog"

	"github.com/scenex/scenex/scene"
)

// Plug wraps a [scene.Plug] with its wrapped node. The zero Plug is
// null. Plugs are read-only views; every mutation routes through a
// modifier, the session's ambient current one by default.
type Plug struct {
	n Node
	p scene.Plug
}

// IsNull reports whether the plug refers to nothing.
func (p Plug) IsNull() bool {
	return p.p.IsNull()
}

// Node returns the wrapped node the plug belongs to.
func (p Plug) Node() Node {
	return p.n
}

// Raw returns the underlying host plug.
func (p Plug) Raw() scene.Plug {
	return p.p
}

// Attribute returns the attribute definition, or nil.
func (p Plug) Attribute() *scene.Attribute {
	return p.p.Attribute()
}

// Eq reports whether both wrappers address the same plug.
func (p Plug) Eq(o Plug) bool {
	return p.p.Eq(o.p)
}

// String renders the plug as node.leafName, or "NullPlug".
func (p Plug) String() string {
	if p.IsNull() {
		return "NullPlug"
	}
	return p.n.String() + "." + p.p.Name()
}

// IsArray reports whether the plug addresses an array level with no
// element selected.
func (p Plug) IsArray() bool {
	return p.p.IsArray()
}

// IsCompound reports whether the plug addresses a compound.
func (p Plug) IsCompound() bool {
	return p.p.IsCompound()
}

// Element selects the element at the given logical index of an array
// plug.
func (p Plug) Element(i int) (Plug, error) {
	ep, err := p.p.Element(i)
	if err != nil {
		return Plug{}, err
	}
	return Plug{n: p.n, p: ep}, nil
}

// Child selects the i'th child of a compound plug.
func (p Plug) Child(i int) (Plug, error) {
	cp, err := p.p.Child(i)
	if err != nil {
		return Plug{}, err
	}
	return Plug{n: p.n, p: cp}, nil
}

// childNamedIn searches a compound's children for the given long or
// short name, recursing into nested compound children but skipping
// arrays: an array child needs an index before a name can resolve
// under it.
func childNamedIn(p scene.Plug, name string) (scene.Plug, bool) {
	for i := 0; i < p.NumChildren(); i++ {
		c, err := p.Child(i)
		if err != nil {
			continue
		}
		a := c.Attribute()
		if a.Name == name || (a.Short != "" && a.Short == name) {
			return c, true
		}
		if a.Kind == scene.KindCompound && !a.Array {
			if f, ok := childNamedIn(c, name); ok {
				return f, true
			}
		}
	}
	return scene.Plug{}, false
}

// ChildNamed finds a descendant child plug by long or short name,
// searching immediate children first and then recursing into nested
// compounds. Unlike the host's exact [scene.Plug.ChildByName], this
// is the forgiving lookup convenience code wants.
func (p Plug) ChildNamed(name string) (Plug, error) {
	if p.IsNull() {
		return Plug{}, &NullPlugError{Op: "ChildNamed"}
	}
	if c, ok := childNamedIn(p.p, name); ok {
		return Plug{n: p.n, p: c}, nil
	}
	return Plug{}, fmt.Errorf("sx: plug %s has no child named %q: %w", p, name, scene.ErrNotFound)
}

// Has reports membership: an int key reports whether the array has
// that element, a string key whether a child of that name resolves.
func (p Plug) Has(key any) bool {
	if p.IsNull() {
		return false
	}
	switch k := key.(type) {
	case int:
		return p.p.HasIndex(k)
	case string:
		_, ok := childNamedIn(p.p, k)
		return ok
	}
	return false
}

// Plugs returns the next level down: the existing elements of an
// array, or the children of a compound. Leaf plugs return nil.
func (p Plug) Plugs() []Plug {
	if p.IsNull() {
		return nil
	}
	if p.p.IsArray() {
		idxs := p.p.Indices()
		out := make([]Plug, 0, len(idxs))
		for _, i := range idxs {
			ep, err := p.p.Element(i)
			if err != nil {
				continue
			}
			out = append(out, Plug{n: p.n, p: ep})
		}
		return out
	}
	if p.p.IsCompound() {
		out := make([]Plug, 0, p.p.NumChildren())
		for i := 0; i < p.p.NumChildren(); i++ {
			cp, err := p.p.Child(i)
			if err != nil {
				continue
			}
			out = append(out, Plug{n: p.n, p: cp})
		}
		return out
	}
	return nil
}

// NextAvailable returns the first array element with no stored value
// and no connection.
func (p Plug) NextAvailable() (Plug, error) {
	if p.IsNull() {
		return Plug{}, &NullPlugError{Op: "NextAvailable"}
	}
	if !p.p.IsArray() {
		return Plug{}, fmt.Errorf("sx: plug %s is not an array level", p)
	}
	return p.Element(p.p.NextAvailableIndex())
}

// EnumNames returns the enum field names: nil for a non-enum plug,
// and an empty non-nil slice for an enum declared without names.
func (p Plug) EnumNames() []string {
	if p.IsNull() {
		return nil
	}
	a := p.p.Attribute()
	if a.Kind != scene.KindEnum {
		return nil
	}
	if a.Fields == nil {
		return []string{}
	}
	return a.Fields
}

// Source returns the plug connected into this one, or the null Plug.
func (p Plug) Source() Plug {
	src := p.p.Source()
	if src.IsNull() {
		return Plug{}
	}
	return Plug{n: p.n.s.Node(src.Node()), p: src}
}

// IsDestination reports whether something is connected into this
// plug.
func (p Plug) IsDestination() bool {
	return p.p.IsDestination()
}

// IsSource reports whether this plug is connected into anything.
func (p Plug) IsSource() bool {
	return p.p.IsSource()
}

// Destinations returns the plugs this one is connected into.
func (p Plug) Destinations() []Plug {
	dsts := p.p.Destinations()
	out := make([]Plug, len(dsts))
	for i, d := range dsts {
		out[i] = Plug{n: p.n.s.Node(d.Node()), p: d}
	}
	return out
}

// ConnectOption configures connection edits.
type ConnectOption func(*connectConfig)

type connectConfig struct {
	force bool
}

// Force replaces an existing incoming connection on the destination
// instead of refusing.
func Force() ConnectOption {
	return func(c *connectConfig) { c.force = true }
}

// connect records src into dst on the session's current modifier,
// with lock elision on a locked destination.
func connect(src, dst Plug, opts []ConnectOption) error {
	if src.IsNull() || dst.IsNull() {
		return &NullPlugError{Op: "Connect"}
	}
	var cfg connectConfig
	for _, o := range opts {
		o(&cfg)
	}
	existing := dst.p.Source()
	if !existing.IsNull() {
		if existing.Eq(src.p) {
			slog.Warn("sx: plugs already connected", "src", src.String(), "dst", dst.String())
			return nil
		}
		if !cfg.force {
			return fmt.Errorf("sx: %s is already connected from %s, use Force", dst, existing)
		}
	}
	m := dst.n.s.CurrentModifier()
	locked := dst.p.Locked()
	if locked {
		if err := m.SetPlugLocked(dst, false); err != nil {
			return err
		}
	}
	if !existing.IsNull() && cfg.force {
		esrc := Plug{n: dst.n.s.Node(existing.Node()), p: existing}
		if err := m.Disconnect(esrc, dst); err != nil {
			return err
		}
	}
	if err := m.Connect(src, dst); err != nil {
		return err
	}
	if locked {
		return m.SetPlugLocked(dst, true)
	}
	return nil
}

// ConnectTo connects this plug into dst.
func (p Plug) ConnectTo(dst Plug, opts ...ConnectOption) error {
	return connect(p, dst, opts)
}

// ConnectFrom connects src into this plug.
func (p Plug) ConnectFrom(src Plug, opts ...ConnectOption) error {
	return connect(src, p, opts)
}

// DisconnectFromSource removes the incoming connection, a warning
// no-op when there is none.
func (p Plug) DisconnectFromSource() error {
	if p.IsNull() {
		return &NullPlugError{Op: "DisconnectFromSource"}
	}
	src := p.p.Source()
	if src.IsNull() {
		slog.Warn("sx: plug has no incoming connection", "plug", p.String())
		return nil
	}
	m := p.n.s.CurrentModifier()
	locked := p.p.Locked()
	if locked {
		if err := m.SetPlugLocked(p, false); err != nil {
			return err
		}
	}
	if err := m.Disconnect(Plug{n: p.n.s.Node(src.Node()), p: src}, p); err != nil {
		return err
	}
	if locked {
		return m.SetPlugLocked(p, true)
	}
	return nil
}

// Locked reports the plug's lock state.
func (p Plug) Locked() bool {
	return p.p.Locked()
}

// Keyable reports the plug's keyable state.
func (p Plug) Keyable() bool {
	return p.p.Keyable()
}

// ChannelBox reports the plug's channel box state.
func (p Plug) ChannelBox() bool {
	return p.p.ChannelBox()
}

// SetLocked locks or unlocks the plug through the current modifier,
// a no-op when already in the target state.
func (p Plug) SetLocked(state bool) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetLocked"}
	}
	if p.p.Locked() == state {
		return nil
	}
	return p.n.s.CurrentModifier().SetPlugLocked(p, state)
}

// SetKeyable makes the plug keyable or not, a no-op when already in
// the target state.
func (p Plug) SetKeyable(state bool) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetKeyable"}
	}
	if p.p.Keyable() == state {
		return nil
	}
	return p.n.s.CurrentModifier().SetPlugKeyable(p, state)
}

// SetChannelBox shows or hides the plug in the channel box, a no-op
// when already in the target state.
func (p Plug) SetChannelBox(state bool) error {
	if p.IsNull() {
		return &NullPlugError{Op: "SetChannelBox"}
	}
	if p.p.ChannelBox() == state {
		return nil
	}
	return p.n.s.CurrentModifier().SetPlugChannelBox(p, state)
}
