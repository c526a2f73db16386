// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScene(t *testing.T) *Document {
	t.Helper()
	d := NewDocument()
	m := d.NewModifier()

	grp, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(grp, "grp"))
	child, err := m.CreateDagNode("locator", grp)
	require.NoError(t, err)
	require.NoError(t, m.RenameNode(child, "loc"))
	md, err := m.CreateNode("multiplyDivide")
	require.NoError(t, err)

	tx, err := grp.Plug("translateX")
	require.NoError(t, err)
	require.NoError(t, m.SetValue(tx, 4.5))
	rz, err := grp.Plug("rotateZ")
	require.NoError(t, err)
	require.NoError(t, m.SetAngle(rz, Deg(90)))

	wt := &Attribute{Name: "weight", Short: "wt", Kind: KindDouble}
	require.NoError(t, m.AddAttribute(md, wt))

	out, err := md.Plug("outputX")
	require.NoError(t, err)
	lx, err := child.Plug("localPositionX")
	require.NoError(t, err)
	require.NoError(t, m.Connect(out, lx))
	require.NoError(t, m.SetNodeLockState(md, true))
	require.NoError(t, m.DoIt())

	require.NoError(t, d.Invoke("setAttr", "-lock", "1", "grp.translateY"))
	return d
}

func checkScene(t *testing.T, d *Document) {
	t.Helper()
	grp, err := d.FindNode("grp")
	require.NoError(t, err)
	assert.Equal(t, "transform", grp.TypeName())
	require.Equal(t, 1, grp.NumChildren())
	loc := grp.Child(0)
	assert.Equal(t, "loc", loc.Name())
	assert.Equal(t, "locator", loc.TypeName())

	tx, err := grp.Plug("translateX")
	require.NoError(t, err)
	v, err := tx.Get()
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	rz, err := grp.Plug("rotateZ")
	require.NoError(t, err)
	rv, err := rz.Get()
	require.NoError(t, err)
	assert.InDelta(t, Deg(90).Radians(), float64(rv.(Angle)), 1e-9)

	ty, err := grp.Plug("translateY")
	require.NoError(t, err)
	assert.True(t, ty.Locked())

	md, err := d.FindNode("multiplyDivide1")
	require.NoError(t, err)
	assert.True(t, md.Locked())
	assert.True(t, md.HasAttribute("weight"))
	wp, err := md.Plug("weight")
	require.NoError(t, err)
	assert.True(t, wp.Attribute().IsDynamic())

	lx, err := loc.Plug("localPositionX")
	require.NoError(t, err)
	require.True(t, lx.IsDestination())
	assert.Equal(t, "multiplyDivide1.output.outputX", lx.Source().Path())
}

func TestJSONRoundTrip(t *testing.T) {
	d := buildScene(t)
	checkScene(t, d)

	var buf bytes.Buffer
	require.NoError(t, d.WriteJSON(&buf))

	d2 := NewDocument()
	require.NoError(t, d2.ReadJSON(bytes.NewReader(buf.Bytes())))
	checkScene(t, d2)

	// identity survives the round trip
	a, err := d.FindNode("grp")
	require.NoError(t, err)
	b, err := d2.FindNode("grp")
	require.NoError(t, err)
	assert.Equal(t, a.UUID(), b.UUID())

	// and the reloaded document serializes identically
	var buf2 bytes.Buffer
	require.NoError(t, d2.WriteJSON(&buf2))
	assert.Equal(t, buf.String(), buf2.String())
}

func TestFileRoundTripEvents(t *testing.T) {
	d := buildScene(t)
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, d.SaveFile(path))

	d2 := NewDocument()
	var events []DocEvent
	d2.On(BeforeOpen, func(*Document) { events = append(events, BeforeOpen) })
	d2.On(AfterOpen, func(*Document) { events = append(events, AfterOpen) })
	require.NoError(t, d2.OpenFile(path))
	assert.Equal(t, []DocEvent{BeforeOpen, AfterOpen}, events)
	checkScene(t, d2)
}

func TestReadJSONReplacesContent(t *testing.T) {
	d := buildScene(t)
	var buf bytes.Buffer
	require.NoError(t, d.WriteJSON(&buf))

	d2 := NewDocument()
	m := d2.NewModifier()
	h, err := m.CreateDagNode("transform", Handle{})
	require.NoError(t, err)
	require.NoError(t, m.DoIt())

	require.NoError(t, d2.ReadJSON(bytes.NewReader(buf.Bytes())))
	assert.False(t, h.IsAlive())
	assert.False(t, d2.Exists("transform1"))
	checkScene(t, d2)
}

func TestReadJSONBadInput(t *testing.T) {
	d := NewDocument()
	assert.Error(t, d.ReadJSON(bytes.NewReader([]byte("not json"))))

	bad := `{"nodes": [{"type": "noSuchType", "name": "x", "uuid": ""}]}`
	assert.ErrorIs(t, d.ReadJSON(bytes.NewReader([]byte(bad))), ErrUnknownType)
}
