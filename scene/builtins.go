// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"math"
)

// Built-in node types. These register in init so every document sees
// the same baseline schema; host extensions add their own types with
// [AddNodeType].

func vecAttr(name, short string, kind Kind, axes [3]string, shorts [3]string, def float64) *Attribute {
	a := &Attribute{Name: name, Short: short, Kind: KindCompound, Keyable: true, ChannelBox: true}
	for i := range 3 {
		var dv any
		switch kind {
		case KindAngle:
			dv = Angle(def)
		default:
			dv = def
		}
		a.Children = append(a.Children, &Attribute{
			Name: name + axes[i], Short: shorts[i], Kind: kind,
			Default: dv, Keyable: true, ChannelBox: true,
		})
	}
	a.linkChildren()
	return a
}

func xyz(name, short string, kind Kind, def float64) *Attribute {
	return vecAttr(name, short, kind,
		[3]string{"X", "Y", "Z"},
		[3]string{short + "x", short + "y", short + "z"}, def)
}

func rgb(name, short string) *Attribute {
	return vecAttr(name, short, KindFloat,
		[3]string{"R", "G", "B"},
		[3]string{short + "r", short + "g", short + "b"}, 0)
}

func messageAttr() *Attribute {
	return &Attribute{Name: "message", Short: "msg", Kind: KindMessage}
}

func computed(a *Attribute) *Attribute {
	a.Computed = true
	a.Keyable = false
	a.ChannelBox = false
	for _, c := range a.Children {
		computed(c)
	}
	return a
}

func init() {
	shear := vecAttr("shear", "sh", KindDouble,
		[3]string{"XY", "XZ", "YZ"},
		[3]string{"shxy", "shxz", "shyz"}, 0)

	AddNodeType(&NodeType{
		Name: "transform", DAG: true, Container: true,
		Attributes: []*Attribute{
			xyz("translate", "t", KindDouble, 0),
			xyz("rotate", "r", KindAngle, 0),
			xyz("scale", "s", KindDouble, 1),
			shear,
			{Name: "visibility", Short: "v", Kind: KindBool, Default: true, Keyable: true, ChannelBox: true},
			computed(&Attribute{Name: "matrix", Short: "m", Kind: KindMatrix}),
			computed(&Attribute{Name: "worldMatrix", Short: "wm", Kind: KindMatrix, Array: true}),
			messageAttr(),
		},
	})

	AddNodeType(&NodeType{
		Name: "locator", DAG: true,
		Attributes: []*Attribute{
			xyz("localPosition", "lp", KindDouble, 0),
			{Name: "visibility", Short: "v", Kind: KindBool, Default: true, Keyable: true, ChannelBox: true},
			computed(&Attribute{Name: "worldMatrix", Short: "wm", Kind: KindMatrix, Array: true}),
			messageAttr(),
		},
	})

	AddNodeType(&NodeType{
		Name: "condition", Attributes: []*Attribute{
			{Name: "firstTerm", Short: "ft", Kind: KindDouble, Default: 0.0, Keyable: true},
			{Name: "secondTerm", Short: "st", Kind: KindDouble, Default: 0.0, Keyable: true},
			{Name: "operation", Short: "op", Kind: KindEnum, Default: 0,
				Fields: []string{"Equal", "NotEqual", "GreaterThan", "GreaterOrEqual", "LessThan", "LessOrEqual"}},
			rgb("colorIfTrue", "ct"),
			rgb("colorIfFalse", "cf"),
			computed(rgb("outColor", "oc")),
			// enum with no declared fields, settable by index only
			{Name: "state", Short: "stt", Kind: KindEnum, Default: 0},
			messageAttr(),
		},
	})

	AddNodeType(&NodeType{
		Name: "network", Attributes: []*Attribute{
			messageAttr(),
		},
	})

	AddNodeType(&NodeType{
		Name: "multiplyDivide", Attributes: []*Attribute{
			{Name: "operation", Short: "op", Kind: KindEnum, Default: 1,
				Fields: []string{"NoOp", "Multiply", "Divide", "Power"}},
			xyz("input1", "i1", KindDouble, 0),
			xyz("input2", "i2", KindDouble, 0),
			computed(xyz("output", "o", KindDouble, 0)),
			messageAttr(),
		},
	})
}

// plugFloat reads the named plug as a float64, following connections.
func plugFloat(h Handle, path string) (float64, error) {
	p, err := h.Plug(path)
	if err != nil {
		return 0, err
	}
	v, err := p.Get()
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case Angle:
		return float64(n), nil
	case Distance:
		return float64(n), nil
	case Time:
		return float64(n), nil
	case int:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("scene: plug %s.%s holds %T, not a number", h, path, v)
}

func plugVector(h Handle, name string, axes [3]string) (Vector3, error) {
	x, err := plugFloat(h, name+axes[0])
	if err != nil {
		return Vector3{}, err
	}
	y, err := plugFloat(h, name+axes[1])
	if err != nil {
		return Vector3{}, err
	}
	z, err := plugFloat(h, name+axes[2])
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{x, y, z}, nil
}

// localMatrix composes a transform's local matrix from its TRS and
// shear plugs. Non-transform DAG nodes are identity in local space.
func localMatrix(h Handle) (Matrix, error) {
	if h.TypeName() != "transform" {
		return Identity(), nil
	}
	t, err := plugVector(h, "translate", [3]string{"X", "Y", "Z"})
	if err != nil {
		return Matrix{}, err
	}
	r, err := plugVector(h, "rotate", [3]string{"X", "Y", "Z"})
	if err != nil {
		return Matrix{}, err
	}
	s, err := plugVector(h, "scale", [3]string{"X", "Y", "Z"})
	if err != nil {
		return Matrix{}, err
	}
	sh, err := plugVector(h, "shear", [3]string{"XY", "XZ", "YZ"})
	if err != nil {
		return Matrix{}, err
	}
	return Compose(t, r, s, sh), nil
}

// worldMatrix multiplies the node's local matrix up the parent chain.
func worldMatrix(h Handle) (Matrix, error) {
	m, err := localMatrix(h)
	if err != nil {
		return Matrix{}, err
	}
	for p := h.Parent(); !p.IsNull(); p = p.Parent() {
		pm, err := localMatrix(p)
		if err != nil {
			return Matrix{}, err
		}
		m = m.Mul(pm)
	}
	return m, nil
}

// evalComputed evaluates a computed plug on read.
func (d *Document) evalComputed(p Plug) (any, error) {
	h := p.Node()
	root := p.rootAttr().Name
	switch {
	case root == "matrix":
		return localMatrix(h)
	case root == "worldMatrix":
		if !p.IsElement() {
			return nil, fmt.Errorf("scene: %s is an array level, select an element", p)
		}
		return worldMatrix(h)
	case root == "outColor" && h.TypeName() == "condition":
		return evalCondition(h, p)
	case root == "output" && h.TypeName() == "multiplyDivide":
		return evalMultiplyDivide(h, p)
	}
	return nil, fmt.Errorf("scene: no evaluator for computed plug %s", p)
}

func evalCondition(h Handle, p Plug) (any, error) {
	ft, err := plugFloat(h, "firstTerm")
	if err != nil {
		return nil, err
	}
	st, err := plugFloat(h, "secondTerm")
	if err != nil {
		return nil, err
	}
	opPlug, err := h.Plug("operation")
	if err != nil {
		return nil, err
	}
	opv, err := opPlug.Get()
	if err != nil {
		return nil, err
	}
	var hold bool
	switch opv.(int) {
	case 0:
		hold = ft == st
	case 1:
		hold = ft != st
	case 2:
		hold = ft > st
	case 3:
		hold = ft >= st
	case 4:
		hold = ft < st
	case 5:
		hold = ft <= st
	default:
		return nil, fmt.Errorf("scene: condition operation %v out of range", opv)
	}
	src := "colorIfFalse"
	if hold {
		src = "colorIfTrue"
	}
	// outColorR selects colorIfTrueR or colorIfFalseR, and so on
	axis := p.attr.Name[len("outColor"):]
	return plugFloat(h, src+axis)
}

func evalMultiplyDivide(h Handle, p Plug) (any, error) {
	axis := p.attr.Name[len("output"):]
	a, err := plugFloat(h, "input1"+axis)
	if err != nil {
		return nil, err
	}
	opPlug, err := h.Plug("operation")
	if err != nil {
		return nil, err
	}
	opv, err := opPlug.Get()
	if err != nil {
		return nil, err
	}
	if opv.(int) == 0 {
		return a, nil
	}
	b, err := plugFloat(h, "input2"+axis)
	if err != nil {
		return nil, err
	}
	switch opv.(int) {
	case 1:
		return a * b, nil
	case 2:
		if b == 0 {
			return 0.0, nil
		}
		return a / b, nil
	case 3:
		return math.Pow(a, b), nil
	}
	return nil, fmt.Errorf("scene: multiplyDivide operation %v out of range", opv)
}
