// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNodeLifecycle(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()

	// creation applies eagerly, so the handle resolves immediately
	h, err := m.CreateNode("network")
	require.NoError(t, err)
	assert.True(t, h.IsValid())
	assert.True(t, h.IsAlive())
	assert.Equal(t, "network", h.TypeName())
	assert.Equal(t, "network1", h.Name())

	require.NoError(t, m.UndoIt())
	assert.False(t, h.IsValid())
	assert.True(t, h.IsAlive())

	require.NoError(t, m.DoIt())
	assert.True(t, h.IsValid())

	_, err = m.CreateNode("noSuchType")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = m.CreateNode("transform")
	assert.Error(t, err)
}

func TestCreateDagNodeAutoContainer(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()

	// a world-level non-container gets wrapped in a transform, and
	// the wrapper comes back
	h, err := m.CreateDagNode("locator", Handle{})
	require.NoError(t, err)
	assert.Equal(t, "transform", h.TypeName())
	require.Equal(t, 1, h.NumChildren())
	assert.Equal(t, "locator", h.Child(0).TypeName())

	// under a container the requested node comes back directly
	loc, err := m.CreateDagNode("locator", h)
	require.NoError(t, err)
	assert.Equal(t, "locator", loc.TypeName())
	assert.Equal(t, h, loc.Parent())

	_, err = m.CreateDagNode("locator", loc)
	assert.ErrorIs(t, err, ErrNotContainer)
	_, err = m.CreateDagNode("network", Handle{})
	assert.Error(t, err)
}

func TestIncrementalDoIt(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	h, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	tx, err := h.Plug("translateX")
	require.NoError(t, err)

	require.NoError(t, m.SetValue(tx, 1.0))
	require.NoError(t, m.DoIt())
	v, err := tx.Get()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	// a second DoIt applies only the new op, so the first set does
	// not clobber the later one
	require.NoError(t, m.SetValue(tx, 2.0))
	require.NoError(t, m.DoIt())
	v, err = tx.Get()
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	// undo reverts everything applied, newest first
	require.NoError(t, m.UndoIt())
	assert.False(t, h.IsValid())

	// redo replays the whole batch
	require.NoError(t, m.DoIt())
	assert.True(t, h.IsValid())
	v, err = tx.Get()
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestSetValueKinds(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	h, err := m.CreateNode("condition")
	require.NoError(t, err)

	ft, err := h.Plug("firstTerm")
	require.NoError(t, err)
	require.NoError(t, m.SetFloat64(ft, 2.5))

	op, err := h.Plug("operation")
	require.NoError(t, err)
	require.NoError(t, m.SetInt(op, 3))

	// computed plugs reject at record time
	oc, err := h.Plug("outColorR")
	require.NoError(t, err)
	assert.ErrorIs(t, m.SetValue(oc, 1.0), ErrComputed)

	// mismatched kinds reject at record time
	assert.Error(t, m.SetValue(ft, "nope"))

	require.NoError(t, m.DoIt())
	v, err := ft.Get()
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestSetValueLockedPlug(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	h, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	require.NoError(t, m.DoIt())
	tx, err := h.Plug("translateX")
	require.NoError(t, err)

	require.NoError(t, d.Invoke("setAttr", "-lock", "1", h.Name()+".translateX"))
	assert.True(t, tx.Locked())

	m2 := d.NewModifier()
	require.NoError(t, m2.SetValue(tx, 5.0))
	assert.ErrorIs(t, m2.DoIt(), ErrLocked)

	require.NoError(t, d.Invoke("setAttr", "-lock", "0", h.Name()+".translateX"))
	m3 := d.NewModifier()
	require.NoError(t, m3.SetValue(tx, 5.0))
	require.NoError(t, m3.DoIt())
}

func TestConnectDisconnect(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	a, err := m.CreateNode("multiplyDivide")
	require.NoError(t, err)
	b, err := m.CreateNode("multiplyDivide")
	require.NoError(t, err)

	src, err := a.Plug("outputX")
	require.NoError(t, err)
	dst, err := b.Plug("input1X")
	require.NoError(t, err)

	require.NoError(t, m.Connect(src, dst))
	require.NoError(t, m.DoIt())
	assert.True(t, dst.IsDestination())
	assert.True(t, src.IsSource())
	assert.True(t, dst.Source().Eq(src))
	require.Len(t, src.Destinations(), 1)

	// a destination reads through to its source
	i1, err := a.Plug("input1X")
	require.NoError(t, err)
	i2, err := a.Plug("input2X")
	require.NoError(t, err)
	require.NoError(t, m.SetValue(i1, 6.0))
	require.NoError(t, m.SetValue(i2, 7.0))
	require.NoError(t, m.DoIt())
	v, err := dst.Get()
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	require.NoError(t, m.Disconnect(src, dst))
	require.NoError(t, m.DoIt())
	assert.False(t, dst.IsDestination())
	assert.False(t, src.IsSource())

	require.NoError(t, m.UndoIt())
	require.NoError(t, m.DoIt())
	assert.False(t, dst.IsDestination())
}

func TestConnectReplacesSource(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	a, err := m.CreateNode("multiplyDivide")
	require.NoError(t, err)
	b, err := m.CreateNode("multiplyDivide")
	require.NoError(t, err)
	c, err := m.CreateNode("multiplyDivide")
	require.NoError(t, err)

	aOut, err := a.Plug("outputX")
	require.NoError(t, err)
	bOut, err := b.Plug("outputX")
	require.NoError(t, err)
	dst, err := c.Plug("input1X")
	require.NoError(t, err)

	require.NoError(t, m.Connect(aOut, dst))
	require.NoError(t, m.DoIt())
	require.NoError(t, m.Connect(bOut, dst))
	require.NoError(t, m.DoIt())
	assert.True(t, dst.Source().Eq(bOut))
	assert.Empty(t, aOut.Destinations())

	// undo restores the replaced source along the way
	m2 := d.NewModifier()
	require.NoError(t, m2.Disconnect(bOut, dst))
	require.NoError(t, m2.DoIt())
	require.NoError(t, m2.UndoIt())
	assert.True(t, dst.Source().Eq(bOut))
}

func TestConnectValidation(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	a, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	b, err := m.CreateNode("condition")
	require.NoError(t, err)

	wm, err := a.Plug("worldMatrix")
	require.NoError(t, err)
	ft, err := b.Plug("firstTerm")
	require.NoError(t, err)
	tx, err := a.Plug("translateX")
	require.NoError(t, err)
	oc, err := b.Plug("outColorR")
	require.NoError(t, err)
	msgA, err := a.Plug("message")
	require.NoError(t, err)

	// array level must select an element
	assert.Error(t, m.Connect(wm, ft))

	// computed destinations reject
	assert.ErrorIs(t, m.Connect(tx, oc), ErrComputed)

	// incompatible kinds reject
	assert.Error(t, m.Connect(msgA, ft))

	// double to float is fine
	ctr, err := b.Plug("colorIfTrueR")
	require.NoError(t, err)
	assert.NoError(t, m.Connect(tx, ctr))
}

func TestConnectNodesArrayElement(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	a, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	b, err := m.CreateNode("network")
	require.NoError(t, err)

	dyn := &Attribute{Name: "mats", Short: "mts", Kind: KindMatrix, Array: true}
	require.NoError(t, m.AddAttribute(b, dyn))
	require.NoError(t, m.DoIt())

	require.NoError(t, m.ConnectNodes(a, "worldMatrix", b, "mats"))
	require.NoError(t, m.DoIt())

	mats, err := b.Plug("mats")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, mats.Indices())

	require.NoError(t, m.ConnectNodes(a, "worldMatrix", b, "mats"))
	require.NoError(t, m.DoIt())
	assert.Equal(t, []int{0, 1}, mats.Indices())
}

func TestDeleteUndoRestoresEverything(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	grp, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	child, err := m.CreateDagNode("transform", grp)
	require.NoError(t, err)
	other, err := m.CreateNode("multiplyDivide")
	require.NoError(t, err)

	tx, err := child.Plug("translateX")
	require.NoError(t, err)
	require.NoError(t, m.SetValue(tx, 3.5))
	out, err := other.Plug("outputX")
	require.NoError(t, err)
	require.NoError(t, m.Connect(out, tx))
	require.NoError(t, m.DoIt())

	del := d.NewModifier()
	require.NoError(t, del.DeleteNode(grp))
	require.NoError(t, del.DoIt())

	// the whole subtree is invalid but still alive, and the
	// document no longer lists it
	assert.False(t, grp.IsValid())
	assert.False(t, child.IsValid())
	assert.True(t, grp.IsAlive())
	assert.True(t, child.IsAlive())
	assert.Empty(t, d.Roots())
	assert.False(t, out.IsSource())

	require.NoError(t, del.UndoIt())
	assert.True(t, grp.IsValid())
	assert.True(t, child.IsValid())
	assert.Equal(t, grp, child.Parent())
	require.Len(t, d.Roots(), 1)

	// values and connections survived the round trip
	assert.True(t, tx.IsDestination())
	assert.True(t, tx.Source().Eq(out))
}

func TestDeleteRestoresSiblingOrder(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	var hs []Handle
	for range 3 {
		h, err := m.CreateDagNode("transform", Handle{})
		require.NoError(t, err)
		hs = append(hs, h)
	}

	del := d.NewModifier()
	require.NoError(t, del.DeleteNode(hs[1]))
	require.NoError(t, del.DoIt())
	require.NoError(t, del.UndoIt())

	roots := d.Roots()
	require.Len(t, roots, 3)
	assert.Equal(t, hs[1], roots[1])
}

func TestDeleteLockedNode(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	h, err := m.CreateNode("network")
	require.NoError(t, err)
	require.NoError(t, m.SetNodeLockState(h, true))
	require.NoError(t, m.DoIt())

	del := d.NewModifier()
	require.NoError(t, del.DeleteNode(h))
	assert.ErrorIs(t, del.DoIt(), ErrLocked)
	assert.True(t, h.IsValid())
}

func TestRenameUndo(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	h, err := m.CreateNode("network")
	require.NoError(t, err)

	m2 := d.NewModifier()
	require.NoError(t, m2.RenameNode(h, "router"))
	require.NoError(t, m2.DoIt())
	assert.Equal(t, "router", h.Name())
	require.NoError(t, m2.UndoIt())
	assert.Equal(t, "network1", h.Name())
}

func TestLockStateBlocksRename(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	h, err := m.CreateNode("network")
	require.NoError(t, err)
	require.NoError(t, m.SetNodeLockState(h, true))
	require.NoError(t, m.DoIt())
	assert.True(t, h.Locked())

	m2 := d.NewModifier()
	require.NoError(t, m2.RenameNode(h, "router"))
	assert.ErrorIs(t, m2.DoIt(), ErrLocked)
}

func TestDynamicAttributes(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	h, err := m.CreateNode("network")
	require.NoError(t, err)

	a := &Attribute{Name: "weight", Short: "wt", Kind: KindDouble, Default: 0.5}
	require.NoError(t, m.AddAttribute(h, a))
	require.NoError(t, m.DoIt())
	assert.True(t, h.HasAttribute("weight"))

	p, err := h.Plug("weight")
	require.NoError(t, err)
	assert.True(t, p.Attribute().IsDynamic())
	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	require.NoError(t, m.SetValue(p, 0.9))
	require.NoError(t, m.DoIt())

	// renaming migrates stored values to the new key
	def := p.Attribute()
	m2 := d.NewModifier()
	require.NoError(t, m2.RenameAttribute(h, def, "bl", "blend"))
	require.NoError(t, m2.DoIt())
	assert.False(t, h.HasAttribute("weight"))
	bp, err := h.Plug("blend")
	require.NoError(t, err)
	v, err = bp.Get()
	require.NoError(t, err)
	assert.Equal(t, 0.9, v)
	require.NoError(t, m2.UndoIt())
	assert.True(t, h.HasAttribute("weight"))

	// removal captures values for undo
	m3 := d.NewModifier()
	require.NoError(t, m3.RemoveAttribute(h, def))
	require.NoError(t, m3.DoIt())
	assert.False(t, h.HasAttribute("weight"))
	require.NoError(t, m3.UndoIt())
	rp, err := h.Plug("weight")
	require.NoError(t, err)
	v, err = rp.Get()
	require.NoError(t, err)
	assert.Equal(t, 0.9, v)

	// built-in attributes are not removable
	vis, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	visp, err := vis.Plug("visibility")
	require.NoError(t, err)
	assert.Error(t, m.RemoveAttribute(vis, visp.Attribute()))
}

func TestReparent(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	a, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	b, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	c, err := m.CreateDagNode("transform", a)
	require.NoError(t, err)
	require.NoError(t, m.DoIt())

	m2 := d.NewModifier()
	require.NoError(t, m2.Reparent(c, b))
	require.NoError(t, m2.DoIt())
	assert.Equal(t, b, c.Parent())
	assert.Equal(t, 0, a.NumChildren())

	require.NoError(t, m2.UndoIt())
	assert.Equal(t, a, c.Parent())

	// self and descendant cycles reject at apply time
	m3 := d.NewModifier()
	require.NoError(t, m3.Reparent(a, a))
	assert.ErrorIs(t, m3.DoIt(), ErrHierarchy)
	m4 := d.NewModifier()
	require.NoError(t, m4.Reparent(a, c))
	assert.ErrorIs(t, m4.DoIt(), ErrHierarchy)

	// reparenting to the world
	m5 := d.NewModifier()
	require.NoError(t, m5.Reparent(c, Handle{}))
	require.NoError(t, m5.DoIt())
	assert.True(t, c.Parent().IsNull())
	require.NoError(t, m5.UndoIt())
	assert.Equal(t, a, c.Parent())
}

func TestReparentUniquifiesName(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	a, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	b, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	c1, err := m.CreateDagNode("transform", a)
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(c1, "child"))
	c2, err := m.CreateDagNode("transform", b)
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(c2, "child"))
	require.NoError(t, m.DoIt())

	m2 := d.NewModifier()
	require.NoError(t, m2.Reparent(c2, a))
	require.NoError(t, m2.DoIt())
	assert.Equal(t, "child1", c2.Name())

	require.NoError(t, m2.UndoIt())
	assert.Equal(t, "child", c2.Name())
	assert.Equal(t, b, c2.Parent())
}

func TestPurgeMarksOrphansDead(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	h, err := m.CreateNode("network")
	require.NoError(t, err)
	require.NoError(t, m.UndoIt())
	assert.True(t, h.IsAlive())

	// once the modifier is purged the undone creation cannot come
	// back, so the object is dead
	m.Purge()
	assert.False(t, h.IsAlive())
}
