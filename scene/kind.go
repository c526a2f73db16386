// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Kind is the value kind of an [Attribute]. It determines the Go type
// stored for plugs of the attribute and the validation applied when
// setting values.
type Kind int32

const (
	// KindBool holds a bool.
	KindBool Kind = iota

	// KindInt holds an int.
	KindInt

	// KindFloat holds a float64. It is kept distinct from [KindDouble]
	// so that schemas can express single-precision intent, but the
	// stored representation is the same.
	KindFloat

	// KindDouble holds a float64.
	KindDouble

	// KindString holds a string.
	KindString

	// KindEnum holds an int index into the attribute's Fields.
	KindEnum

	// KindAngle holds an [Angle] in radians.
	KindAngle

	// KindDistance holds a [Distance] in centimeters.
	KindDistance

	// KindTime holds a [Time] in seconds.
	KindTime

	// KindMatrix holds a [Matrix].
	KindMatrix

	// KindMessage holds no value; message plugs exist only to be
	// connected.
	KindMessage

	// KindCompound holds no value of its own; its children do.
	KindCompound
)

var kindNames = []string{"Bool", "Int", "Float", "Double", "String",
	"Enum", "Angle", "Distance", "Time", "Matrix", "Message", "Compound"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(invalid)"
	}
	return kindNames[k]
}

// HasValue reports whether plugs of this kind carry a value of their
// own, which is everything except [KindMessage] and [KindCompound].
func (k Kind) HasValue() bool {
	return k != KindMessage && k != KindCompound
}

// numeric reports whether the kind stores a plain number.
func (k Kind) numeric() bool {
	switch k {
	case KindInt, KindFloat, KindDouble, KindAngle, KindDistance, KindTime:
		return true
	}
	return false
}

// connectableTo reports whether a source of kind k may be connected to
// a destination of kind dst. Message connects only to Message; Float
// and Double interchange; everything else must match exactly.
func (k Kind) connectableTo(dst Kind) bool {
	if k == dst {
		return true
	}
	if (k == KindFloat && dst == KindDouble) || (k == KindDouble && dst == KindFloat) {
		return true
	}
	return false
}
