// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/scenex/scenex/base/errors"
)

// Attribute is the definition of one attribute of a node type: its
// names, kind, shape, and per-plug default states. Definitions are
// shared schema; per-node values and states live on the node's plugs.
type Attribute struct {
	// Name is the long name, e.g. "translateX".
	Name string

	// Short is the short name, e.g. "tx". It may be empty.
	Short string

	// Kind is the value kind.
	Kind Kind

	// Array marks a multi attribute with sparse logical indices.
	Array bool

	// Fields holds the enum names for a [KindEnum] attribute.
	// It may be empty: a no-name enum accepts only integer indices.
	Fields []string

	// Children are the child definitions of a [KindCompound].
	Children []*Attribute

	// Default is the initial value for plugs of this attribute.
	// It must match Kind if non-nil.
	Default any

	// Keyable is the initial keyable state of plugs.
	Keyable bool

	// ChannelBox is the initial channel-box state of plugs.
	ChannelBox bool

	// Computed marks a read-only attribute whose value the host
	// derives on read, such as "matrix" and "worldMatrix".
	Computed bool

	// dynamic is set on definitions added to one node at runtime
	// rather than registered with a node type.
	dynamic bool

	// parent is the compound definition this one is a child of.
	parent *Attribute
}

// Clone returns a deep copy of the definition, so that registered
// schemas and per-node dynamic attributes never share mutable state.
func (a *Attribute) Clone() *Attribute {
	c := &Attribute{}
	errors.Must(copier.CopyWithOption(c, a, copier.Option{DeepCopy: true}))
	c.linkChildren()
	return c
}

// IsDynamic reports whether this definition was added to a node at
// runtime rather than registered with its node type.
func (a *Attribute) IsDynamic() bool {
	return a.dynamic
}

// Parent returns the compound definition this one is a child of,
// or nil for a root attribute.
func (a *Attribute) Parent() *Attribute {
	return a.parent
}

func (a *Attribute) linkChildren() {
	for _, c := range a.Children {
		c.parent = a
		c.linkChildren()
	}
}

// Validate checks the definition for structural errors: empty names,
// compounds without children, children on non-compounds, and defaults
// of the wrong type.
func (a *Attribute) Validate() error {
	if a.Name == "" {
		return errors.New("scene.Attribute: empty name")
	}
	if a.Kind == KindCompound && len(a.Children) == 0 {
		return fmt.Errorf("scene.Attribute %q: compound with no children", a.Name)
	}
	if a.Kind != KindCompound && len(a.Children) > 0 {
		return fmt.Errorf("scene.Attribute %q: children on non-compound kind %v", a.Name, a.Kind)
	}
	if a.Default != nil {
		if _, err := coerceValue(a.Kind, a.Default); err != nil {
			return fmt.Errorf("scene.Attribute %q: bad default: %w", a.Name, err)
		}
	}
	for _, c := range a.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ChildByName returns the immediate child with the given long or
// short name, or nil.
func (a *Attribute) ChildByName(name string) *Attribute {
	for _, c := range a.Children {
		if c.Name == name || (c.Short != "" && c.Short == name) {
			return c
		}
	}
	return nil
}

// defaultValue returns the initial value for a plug of this
// definition: the declared Default, else the zero value of the kind.
func (a *Attribute) defaultValue() any {
	if a.Default != nil {
		v, err := coerceValue(a.Kind, a.Default)
		if err == nil {
			return v
		}
	}
	switch a.Kind {
	case KindBool:
		return false
	case KindInt, KindEnum:
		return 0
	case KindFloat, KindDouble:
		return 0.0
	case KindString:
		return ""
	case KindAngle:
		return Angle(0)
	case KindDistance:
		return Distance(0)
	case KindTime:
		return Time(0)
	case KindMatrix:
		return Identity()
	}
	return nil
}

// coerceValue converts v to the canonical stored representation for
// the kind, erroring if the dynamic type does not fit.
func coerceValue(k Kind, v any) (any, error) {
	switch k {
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindInt, KindEnum:
		switch n := v.(type) {
		case int:
			return n, nil
		case int32:
			return int(n), nil
		case int64:
			return int(n), nil
		case float64:
			return int(n), nil
		}
	case KindFloat, KindDouble:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindAngle:
		switch n := v.(type) {
		case Angle:
			return n, nil
		case float64:
			return Angle(n), nil
		case int:
			return Angle(n), nil
		}
	case KindDistance:
		switch n := v.(type) {
		case Distance:
			return n, nil
		case float64:
			return Distance(n), nil
		case int:
			return Distance(n), nil
		}
	case KindTime:
		switch n := v.(type) {
		case Time:
			return n, nil
		case float64:
			return Time(n), nil
		case int:
			return Time(n), nil
		}
	case KindMatrix:
		if m, ok := v.(Matrix); ok {
			return m, nil
		}
	case KindMessage, KindCompound:
		return nil, fmt.Errorf("kind %v holds no value", k)
	}
	return nil, fmt.Errorf("value %v (%T) does not fit kind %v", v, v, k)
}
