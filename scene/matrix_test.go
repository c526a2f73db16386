// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixIdentity(t *testing.T) {
	id := Identity()
	m := Compose(Vector3{1, 2, 3}, Vector3{0.1, 0.2, 0.3}, Vector3{2, 2, 2}, Vector3{})
	assert.Equal(t, m, m.Mul(id))
	assert.Equal(t, m, id.Mul(m))
}

func TestMatrixInverse(t *testing.T) {
	m := Compose(Vector3{4, -2, 7}, Vector3{0.3, -0.5, 1.1}, Vector3{2, 0.5, 3}, Vector3{0.1, 0, 0.2})
	got := m.Mul(m.Inverse())
	id := Identity()
	for i := range got {
		assert.InDelta(t, id[i], got[i], 1e-9, "element %d", i)
	}
}

func TestMatrixComposeDecompose(t *testing.T) {
	tr := Vector3{1.5, -2, 3}
	rot := Vector3{0.4, -0.7, 1.2}
	sc := Vector3{2, 0.5, 1.25}
	sh := Vector3{0.2, -0.1, 0.3}

	m := Compose(tr, rot, sc, sh)
	gt, gr, gs, gsh := m.Decompose()

	assert.InDelta(t, tr.X, gt.X, 1e-9)
	assert.InDelta(t, tr.Y, gt.Y, 1e-9)
	assert.InDelta(t, tr.Z, gt.Z, 1e-9)
	assert.InDelta(t, rot.X, gr.X, 1e-9)
	assert.InDelta(t, rot.Y, gr.Y, 1e-9)
	assert.InDelta(t, rot.Z, gr.Z, 1e-9)
	assert.InDelta(t, sc.X, gs.X, 1e-9)
	assert.InDelta(t, sc.Y, gs.Y, 1e-9)
	assert.InDelta(t, sc.Z, gs.Z, 1e-9)
	assert.InDelta(t, sh.X, gsh.X, 1e-9)
	assert.InDelta(t, sh.Y, gsh.Y, 1e-9)
	assert.InDelta(t, sh.Z, gsh.Z, 1e-9)

	// recomposing the decomposition reproduces the matrix
	m2 := Compose(gt, gr, gs, gsh)
	for i := range m {
		assert.InDelta(t, m[i], m2[i], 1e-9, "element %d", i)
	}
}

func TestMatrixTransformPoint(t *testing.T) {
	m := Compose(Vector3{10, 20, 30}, Vector3{}, Vector3{2, 2, 2}, Vector3{})
	p := m.TransformPoint(Vector3{1, 1, 1})
	assert.InDelta(t, 12.0, p.X, 1e-9)
	assert.InDelta(t, 22.0, p.Y, 1e-9)
	assert.InDelta(t, 32.0, p.Z, 1e-9)
	assert.Equal(t, Vector3{10, 20, 30}, m.Translation())
}

func TestAngleUnits(t *testing.T) {
	a := Deg(180)
	assert.InDelta(t, 3.14159265358979, a.Radians(), 1e-9)
	assert.InDelta(t, 180.0, a.Degrees(), 1e-9)
}
