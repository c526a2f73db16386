// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "math"

// Angle is an angular value in radians, the canonical stored unit for
// [KindAngle] attributes.
type Angle float64

// Deg returns an [Angle] from a value in degrees.
func Deg(degrees float64) Angle {
	return Angle(degrees * math.Pi / 180)
}

// Degrees returns the angle converted to degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Radians returns the angle as a plain float64 in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Distance is a linear value in centimeters, the canonical stored unit
// for [KindDistance] attributes.
type Distance float64

// Centimeters returns the distance as a plain float64 in centimeters.
func (d Distance) Centimeters() float64 {
	return float64(d)
}

// Time is a temporal value in seconds, the canonical stored unit for
// [KindTime] attributes.
type Time float64

// Seconds returns the time as a plain float64 in seconds.
func (t Time) Seconds() float64 {
	return float64(t)
}
