// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenex/scenex/scene"
)

func TestCompoundSetBySequence(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	c1, err := m.CreateDGNode("condition", "C1")
	require.NoError(t, err)

	ct := c1.Plug("colorIfTrue")
	require.NoError(t, ct.Set([]any{1, 1, 1}))
	require.NoError(t, m.DoIt())

	// each child reads back independently
	assert.Equal(t, 1.0, mustValue(t, c1.Plug("colorIfTrueR")))
	assert.Equal(t, 1.0, mustValue(t, c1.Plug("colorIfTrueG")))
	assert.Equal(t, 1.0, mustValue(t, c1.Plug("colorIfTrueB")))

	// the compound reads back as a map keyed by child long names
	v, err := ct.Value()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"colorIfTrueR": 1.0,
		"colorIfTrueG": 1.0,
		"colorIfTrueB": 1.0,
	}, v)

	// or positionally with Flatten
	fv, err := ct.Value(Flatten())
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 1.0, 1.0}, fv)

	// a wrong-length sequence is rejected
	var valErr *ValueError
	require.ErrorAs(t, ct.Set([]any{1, 2}), &valErr)
}

func mustValue(t *testing.T, p Plug, opts ...ValueOption) any {
	t.Helper()
	v, err := p.Value(opts...)
	require.NoError(t, err)
	return v
}

func TestCompoundSetByMap(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	n, err := m.CreateDagNode("transform", Named("grp"))
	require.NoError(t, err)

	tr := n.Plug("translate")
	require.NoError(t, tr.Set(map[string]any{"translateX": 2.0, "tz": 3.0}))
	require.NoError(t, m.DoIt())
	assert.Equal(t, 2.0, mustValue(t, n.Plug("translateX")))
	assert.Equal(t, 3.0, mustValue(t, n.Plug("translateZ")))
	assert.Equal(t, 0.0, mustValue(t, n.Plug("translateY")))

	var valErr *ValueError
	require.ErrorAs(t, tr.Set(map[string]any{"bogus": 1.0}), &valErr)
}

func TestEnumByNameAndIndex(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	c, err := m.CreateDGNode("condition", "C1")
	require.NoError(t, err)
	op := c.Plug("operation")

	require.NoError(t, op.Set("GreaterThan"))
	require.NoError(t, m.DoIt())
	assert.Equal(t, 2, mustValue(t, op))

	require.NoError(t, op.Set(5))
	require.NoError(t, m.DoIt())
	assert.Equal(t, 5, mustValue(t, op))

	// near-miss names fail listing the valid ones
	var valErr *ValueError
	err = op.Set("greaterthan")
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Message, "GreaterThan")
	require.ErrorAs(t, op.Set(" GreaterThan"), &valErr)
	require.ErrorAs(t, op.Set(6), &valErr)
	require.ErrorAs(t, op.Set(-1), &valErr)

	assert.Equal(t,
		[]string{"Equal", "NotEqual", "GreaterThan", "GreaterOrEqual", "LessThan", "LessOrEqual"},
		op.EnumNames())
}

func TestEnumWithoutFields(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	c, err := m.CreateDGNode("condition", "C1")
	require.NoError(t, err)
	st := c.Plug("state")

	// declared without names: empty non-nil names, index-only sets
	names := st.EnumNames()
	require.NotNil(t, names)
	assert.Empty(t, names)
	assert.Nil(t, c.Plug("firstTerm").EnumNames())

	require.NoError(t, st.Set(3))
	require.NoError(t, m.DoIt())
	assert.Equal(t, 3, mustValue(t, st))

	var valErr *ValueError
	require.ErrorAs(t, st.Set("Equal"), &valErr)
	assert.Contains(t, valErr.Message, "index")
}

func TestBoolAcceptsNumeric(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	n, err := m.CreateDagNode("transform", Named("grp"))
	require.NoError(t, err)
	vis := n.Plug("visibility")

	require.NoError(t, vis.Set(0))
	require.NoError(t, m.DoIt())
	assert.Equal(t, false, mustValue(t, vis))

	require.NoError(t, vis.Set(1.0))
	require.NoError(t, m.DoIt())
	assert.Equal(t, true, mustValue(t, vis))

	var valErr *ValueError
	require.ErrorAs(t, vis.Set(2), &valErr)
	require.ErrorAs(t, vis.Set("yes"), &valErr)
}

func TestAngleUnitsOption(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	n, err := m.CreateDagNode("transform", Named("grp"))
	require.NoError(t, err)
	rx := n.Plug("rotateX")

	// canonical unit is radians
	require.NoError(t, rx.Set(math.Pi))
	require.NoError(t, m.DoIt())
	assert.InDelta(t, math.Pi, mustValue(t, rx).(float64), 1e-9)
	assert.InDelta(t, 180.0, mustValue(t, rx, AsDegrees()).(float64), 1e-9)

	require.NoError(t, rx.Set(90, AsDegrees()))
	require.NoError(t, m.DoIt())
	assert.InDelta(t, math.Pi/2, mustValue(t, rx).(float64), 1e-9)
}

func TestArrayValueRoundTrip(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	n, err := m.CreateDGNode("network", "rig")
	require.NoError(t, err)
	require.NoError(t, m.AddAttribute(n, &scene.Attribute{
		Name: "weights", Short: "wts", Kind: scene.KindDouble, Array: true,
	}))
	require.NoError(t, m.DoIt())

	wts := n.Plug("weights")
	require.NoError(t, wts.Set([]float64{0.1, 0.2, 0.3}))
	require.NoError(t, m.DoIt())

	v, err := wts.Value()
	require.NoError(t, err)
	assert.Equal(t, []any{0.1, 0.2, 0.3}, v)

	var valErr *ValueError
	require.ErrorAs(t, wts.Set(42), &valErr)
}

func TestMatrixValue(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	n, err := m.CreateDGNode("network", "rig")
	require.NoError(t, err)
	require.NoError(t, m.AddAttribute(n, &scene.Attribute{
		Name: "offset", Short: "off", Kind: scene.KindMatrix,
	}))
	require.NoError(t, m.DoIt())

	p := n.Plug("offset")
	want := scene.Compose(scene.Vector3{X: 1, Y: 2, Z: 3}, scene.Vector3{}, scene.Vector3{X: 1, Y: 1, Z: 1}, scene.Vector3{})

	require.NoError(t, p.Set(want))
	require.NoError(t, m.DoIt())
	assert.Equal(t, want, mustValue(t, p))

	require.NoError(t, p.Set([16]float64(want)))
	require.NoError(t, m.DoIt())
	assert.Equal(t, want, mustValue(t, p))

	require.NoError(t, p.Set(want[:]))
	require.NoError(t, m.DoIt())
	assert.Equal(t, want, mustValue(t, p))

	var valErr *ValueError
	require.ErrorAs(t, p.Set([]float64{1, 2, 3}), &valErr)
}

func TestMessagePlugHasNoCodec(t *testing.T) {
	s := newTestSession(t)
	m := s.NewModifier()
	n, err := m.CreateDGNode("network", "rig")
	require.NoError(t, err)
	require.NoError(t, m.DoIt())

	var kindErr *UnhandledPlugKindError
	_, err = n.Plug("message").Value()
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, scene.KindMessage, kindErr.Kind)
}

func TestNullPlugErrors(t *testing.T) {
	var p Plug
	_, err := p.Value()
	var nullErr *NullPlugError
	require.ErrorAs(t, err, &nullErr)
	require.ErrorAs(t, p.Set(1), &nullErr)
	require.ErrorAs(t, p.SetLocked(true), &nullErr)
	_, err = p.ChildNamed("x")
	require.ErrorAs(t, err, &nullErr)
}
