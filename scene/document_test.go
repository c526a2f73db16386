// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamePrefixAndDigits(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		digits int
	}{
		{"node12", "node", 12},
		{"node", "node", -1},
		{"1234", "", 1234},
		{"a1b2", "a1b", 2},
		{"", "", -1},
	}
	for _, tt := range tests {
		p, n := NamePrefixAndDigits(tt.name)
		assert.Equal(t, tt.prefix, p, tt.name)
		assert.Equal(t, tt.digits, n, tt.name)
	}
}

func TestClosestAvailableName(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	a, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(a, "grp"))
	require.NoError(t, m.DoIt())

	assert.Equal(t, "grp1", d.ClosestAvailableName("grp"))
	assert.Equal(t, "other", d.ClosestAvailableName("other"))

	m2 := d.NewModifier()
	b, err := m2.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	require.NoError(t, m2.RenameNode(b, "grp1"))
	require.NoError(t, m2.DoIt())
	assert.Equal(t, "grp2", d.ClosestAvailableName("grp"))
	assert.Equal(t, "grp2", d.ClosestAvailableName("grp1"))
}

func TestAutoNaming(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	a, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	b, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	assert.Equal(t, "transform1", a.Name())
	assert.Equal(t, "transform2", b.Name())
}

func TestSiblingUniqueNames(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	g1, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	g2, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	c1, err := m.CreateDagNode("transform", g1)
	require.NoError(t, err)
	c2, err := m.CreateDagNode("transform", g2)
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(c1, "child"))
	require.NoError(t, m.RenameNode(c2, "child"))
	require.NoError(t, m.DoIt())

	// same name under different parents is allowed
	assert.Equal(t, "child", c1.Name())
	assert.Equal(t, "child", c2.Name())

	// a sibling collision uniquifies at apply time
	c3, err := m.CreateDagNode("transform", g1)
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(c3, "child"))
	require.NoError(t, m.DoIt())
	assert.Equal(t, "child1", c3.Name())
}

func TestFindNode(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	g1, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(g1, "a"))
	g2, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(g2, "b"))
	c1, err := m.CreateDagNode("transform", g1)
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(c1, "leaf"))
	c2, err := m.CreateDagNode("transform", g2)
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(c2, "leaf"))
	require.NoError(t, m.DoIt())

	h, err := d.FindNode("a")
	require.NoError(t, err)
	assert.Equal(t, g1, h)

	_, err = d.FindNode("leaf")
	assert.ErrorIs(t, err, ErrAmbiguous)

	h, err = d.FindNode("a|leaf")
	require.NoError(t, err)
	assert.Equal(t, c1, h)

	h, err = d.FindNode("|b|leaf")
	require.NoError(t, err)
	assert.Equal(t, c2, h)

	_, err = d.FindNode("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, d.Exists("a"))
	assert.False(t, d.Exists("missing"))

	assert.Equal(t, g1, d.FindNodeByUUID(g1.UUID()))
}

func TestFindPlug(t *testing.T) {
	d := NewDocument()
	m := d.NewModifier()
	g, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(g, "grp"))
	require.NoError(t, m.DoIt())

	p, err := d.FindPlug("grp.translate.translateX")
	require.NoError(t, err)
	assert.Equal(t, "translateX", p.Name())

	// the lineage walk also resolves bare child names
	p2, err := d.FindPlug("grp.translateX")
	require.NoError(t, err)
	assert.True(t, p.Eq(p2))

	p3, err := d.FindPlug("grp.worldMatrix[0]")
	require.NoError(t, err)
	assert.True(t, p3.IsElement())

	_, err = d.FindPlug("grp")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = d.FindPlug("grp.noSuchAttr")
	assert.Error(t, err)
}

func TestDocumentEvents(t *testing.T) {
	d := NewDocument()
	var order []DocEvent
	id := d.On(AfterNew, func(*Document) { order = append(order, AfterNew) })
	d.On(Exiting, func(*Document) { order = append(order, Exiting) })

	m := d.NewModifier()
	h, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)

	d.Clear()
	assert.Equal(t, []DocEvent{AfterNew}, order)
	assert.False(t, h.IsValid())
	assert.False(t, h.IsAlive())
	assert.Empty(t, d.Nodes())

	d.Off(AfterNew, id)
	d.Clear()
	assert.Equal(t, []DocEvent{AfterNew}, order)

	d.Shutdown()
	assert.Equal(t, []DocEvent{AfterNew, Exiting}, order)
}
