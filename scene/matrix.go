// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "math"

// Vector3 is a float64 3-vector, used for the translate, rotate,
// scale, and shear components of a transform.
type Vector3 struct {
	X, Y, Z float64
}

// Matrix is a row-major 4x4 transformation matrix using the
// row-vector convention: a point transforms as p' = p * M, and the
// translation lives in the last row. Composition therefore reads left
// to right: local * parent transforms from local space to the parent's
// space.
type Matrix [16]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * o.
func (m Matrix) Mul(o Matrix) Matrix {
	var r Matrix
	for i := range 4 {
		for j := range 4 {
			s := 0.0
			for k := range 4 {
				s += m[i*4+k] * o[k*4+j]
			}
			r[i*4+j] = s
		}
	}
	return r
}

// TransformPoint returns the point p transformed by m, including
// translation.
func (m Matrix) TransformPoint(p Vector3) Vector3 {
	return Vector3{
		X: p.X*m[0] + p.Y*m[4] + p.Z*m[8] + m[12],
		Y: p.X*m[1] + p.Y*m[5] + p.Z*m[9] + m[13],
		Z: p.X*m[2] + p.Y*m[6] + p.Z*m[10] + m[14],
	}
}

// Translation returns the translation row of the matrix.
func (m Matrix) Translation() Vector3 {
	return Vector3{m[12], m[13], m[14]}
}

// Inverse returns the inverse of the matrix, which must be affine
// (last column 0, 0, 0, 1), as all matrices composed from transform
// channels are. A singular upper 3x3 returns the identity.
func (m Matrix) Inverse() Matrix {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[4], m[5], m[6]
	g, h, i := m[8], m[9], m[10]

	co00 := e*i - f*h
	co01 := f*g - d*i
	co02 := d*h - e*g
	det := a*co00 + b*co01 + c*co02
	if math.Abs(det) < 1e-300 {
		return Identity()
	}
	id := 1 / det
	var r Matrix
	r[0] = co00 * id
	r[1] = (c*h - b*i) * id
	r[2] = (b*f - c*e) * id
	r[4] = co01 * id
	r[5] = (a*i - c*g) * id
	r[6] = (c*d - a*f) * id
	r[8] = co02 * id
	r[9] = (b*g - a*h) * id
	r[10] = (a*e - b*d) * id
	r[15] = 1

	t := m.Translation()
	r[12] = -(t.X*r[0] + t.Y*r[4] + t.Z*r[8])
	r[13] = -(t.X*r[1] + t.Y*r[5] + t.Z*r[9])
	r[14] = -(t.X*r[2] + t.Y*r[6] + t.Z*r[10])
	return r
}

func rotateX(a float64) Matrix {
	c, s := math.Cos(a), math.Sin(a)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

func rotateY(a float64) Matrix {
	c, s := math.Cos(a), math.Sin(a)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

func rotateZ(a float64) Matrix {
	c, s := math.Cos(a), math.Sin(a)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Compose builds a matrix from transform channels, applied in the
// order scale, shear, rotate (Euler XYZ, radians), translate. Shear is
// (XY, XZ, YZ).
func Compose(translate, rotate, scale, shear Vector3) Matrix {
	m := Matrix{
		scale.X, 0, 0, 0,
		shear.X * scale.Y, scale.Y, 0, 0,
		shear.Y * scale.Z, shear.Z * scale.Z, scale.Z, 0,
		0, 0, 0, 1,
	}
	m = m.Mul(rotateX(rotate.X)).Mul(rotateY(rotate.Y)).Mul(rotateZ(rotate.Z))
	m[12], m[13], m[14] = translate.X, translate.Y, translate.Z
	return m
}

// Decompose splits the matrix back into the channels accepted by
// [Compose], using Gram-Schmidt orthogonalization of the upper 3x3
// rows. Rotation comes back as Euler XYZ angles in radians; a matrix
// composed from channels round-trips up to floating point error.
func (m Matrix) Decompose() (translate, rotate, scale, shear Vector3) {
	translate = m.Translation()

	r0 := Vector3{m[0], m[1], m[2]}
	r1 := Vector3{m[4], m[5], m[6]}
	r2 := Vector3{m[8], m[9], m[10]}

	scale.X = vlen(r0)
	r0 = vscale(r0, 1/scale.X)

	shear.X = vdot(r0, r1) // XY
	r1 = vsub(r1, vscale(r0, shear.X))
	scale.Y = vlen(r1)
	r1 = vscale(r1, 1/scale.Y)
	shear.X /= scale.Y

	shear.Y = vdot(r0, r2) // XZ
	r2 = vsub(r2, vscale(r0, shear.Y))
	shear.Z = vdot(r1, r2) // YZ
	r2 = vsub(r2, vscale(r1, shear.Z))
	scale.Z = vlen(r2)
	r2 = vscale(r2, 1/scale.Z)
	shear.Y /= scale.Z
	shear.Z /= scale.Z

	// a negative determinant means a reflection; fold it into scale
	if vdot(r0, vcross(r1, r2)) < 0 {
		scale = vscale(scale, -1)
		r0 = vscale(r0, -1)
		r1 = vscale(r1, -1)
		r2 = vscale(r2, -1)
	}

	// r = Rx*Ry*Rz in the row-vector convention:
	// r0 = (cy*cz, cy*sz, -sy)
	// r1 = (sx*sy*cz - cx*sz, sx*sy*sz + cx*cz, sx*cy)
	// r2 = (cx*sy*cz + sx*sz, cx*sy*sz - sx*cz, cx*cy)
	sy := -r0.Z
	cy := math.Sqrt(r1.Z*r1.Z + r2.Z*r2.Z)
	rotate.Y = math.Atan2(sy, cy)
	if cy > 1e-12 {
		rotate.X = math.Atan2(r1.Z, r2.Z)
		rotate.Z = math.Atan2(r0.Y, r0.X)
	} else {
		rotate.X = math.Atan2(-r2.Y, r1.Y)
		rotate.Z = 0
	}
	return
}

func vlen(v Vector3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func vdot(a, b Vector3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func vsub(a, b Vector3) Vector3 {
	return Vector3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func vscale(v Vector3, s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func vcross(a, b Vector3) Vector3 {
	return Vector3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}
