// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"reflect"
	"strings"

	"github.com/scenex/scenex/scene"
)

// Attribute value codec: [Plug.Value] reads any plug shape into plain
// Go values, [Plug.Set] accepts plain Go values and routes the edits
// through a modifier. Dispatch is on plug shape first, then kind.

// ValueOption configures the codec.
type ValueOption func(*valueConfig)

type valueConfig struct {
	degrees bool
	flatten bool
}

// AsDegrees reads and writes angle plugs in degrees instead of the
// canonical radians.
func AsDegrees() ValueOption {
	return func(c *valueConfig) { c.degrees = true }
}

// Flatten reads a compound as a positional []any in child order
// instead of a map keyed by child names.
func Flatten() ValueOption {
	return func(c *valueConfig) { c.flatten = true }
}

// Value reads the plug: an array level yields []any of its elements
// in logical-index order, a compound a map keyed by child long names
// (or a positional slice with [Flatten]), and a leaf its plain Go
// value. Message plugs return an [UnhandledPlugKindError].
func (p Plug) Value(opts ...ValueOption) (any, error) {
	var cfg valueConfig
	for _, o := range opts {
		o(&cfg)
	}
	return p.value(cfg)
}

func (p Plug) value(cfg valueConfig) (any, error) {
	if p.IsNull() {
		return nil, &NullPlugError{Op: "Value"}
	}
	if p.p.IsArray() {
		idxs := p.p.Indices()
		out := make([]any, 0, len(idxs))
		for _, i := range idxs {
			ep, err := p.Element(i)
			if err != nil {
				return nil, err
			}
			v, err := ep.value(cfg)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	if p.p.IsCompound() {
		children := p.Plugs()
		if cfg.flatten {
			out := make([]any, 0, len(children))
			for _, c := range children {
				v, err := c.value(cfg)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return out, nil
		}
		out := make(map[string]any, len(children))
		for _, c := range children {
			v, err := c.value(cfg)
			if err != nil {
				return nil, err
			}
			out[c.p.Attribute().Name] = v
		}
		return out, nil
	}
	if !p.p.Kind().HasValue() {
		return nil, &UnhandledPlugKindError{Plug: p.String(), Kind: p.p.Kind()}
	}
	v, err := p.p.Get()
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case scene.Angle:
		if cfg.degrees {
			return t.Degrees(), nil
		}
		return t.Radians(), nil
	case scene.Distance:
		return t.Centimeters(), nil
	case scene.Time:
		return t.Seconds(), nil
	}
	return v, nil
}

// Set writes the plug through the session's current modifier; the
// edit applies when that modifier does. Arrays take a sequence
// assigned by logical position, compounds a map keyed by child names
// or a positional sequence, enums an index or an exact field name,
// and scalars coerce across the natural Go types.
func (p Plug) Set(v any, opts ...ValueOption) error {
	var cfg valueConfig
	for _, o := range opts {
		o(&cfg)
	}
	if p.IsNull() {
		return &NullPlugError{Op: "Set"}
	}
	return p.set(p.n.s.CurrentModifier(), v, cfg)
}

// SetOn is [Plug.Set] through an explicit modifier instead of the
// ambient one.
func (p Plug) SetOn(m *Modifier, v any, opts ...ValueOption) error {
	var cfg valueConfig
	for _, o := range opts {
		o(&cfg)
	}
	if p.IsNull() {
		return &NullPlugError{Op: "Set"}
	}
	return p.set(m, v, cfg)
}

func (p Plug) set(m *Modifier, v any, cfg valueConfig) error {
	if p.p.IsArray() {
		seq, ok := anySlice(v)
		if !ok {
			return valueErrorf(p, "array level needs a sequence, got %T", v)
		}
		for i, ev := range seq {
			ep, err := p.Element(i)
			if err != nil {
				return err
			}
			if err := ep.set(m, ev, cfg); err != nil {
				return err
			}
		}
		return nil
	}
	if p.p.IsCompound() {
		children := p.Plugs()
		if mv, ok := v.(map[string]any); ok {
			for key, cv := range mv {
				c, err := p.ChildNamed(key)
				if err != nil {
					return valueErrorf(p, "no child named %q", key)
				}
				if err := c.set(m, cv, cfg); err != nil {
					return err
				}
			}
			return nil
		}
		seq, ok := anySlice(v)
		if !ok {
			return valueErrorf(p, "compound needs a map or a sequence, got %T", v)
		}
		if len(seq) != len(children) {
			return valueErrorf(p, "compound has %d children, got %d values", len(children), len(seq))
		}
		for i, cv := range seq {
			if err := children[i].set(m, cv, cfg); err != nil {
				return err
			}
		}
		return nil
	}
	ev, err := p.encode(v, cfg)
	if err != nil {
		return err
	}
	return m.SetValue(p, ev)
}

// anySlice views any slice or array as []any.
func anySlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case scene.Angle:
		return float64(n), true
	case scene.Distance:
		return float64(n), true
	case scene.Time:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// encode converts a caller value to the host's canonical stored
// representation for the plug's kind.
func (p Plug) encode(v any, cfg valueConfig) (any, error) {
	a := p.p.Attribute()
	switch a.Kind {
	case scene.KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		if f, ok := asFloat(v); ok {
			switch f {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
		}
		return nil, valueErrorf(p, "%v (%T) is not a bool or 0/1", v, v)
	case scene.KindInt:
		if n, ok := asInt(v); ok {
			return n, nil
		}
		return nil, valueErrorf(p, "%v (%T) is not an int", v, v)
	case scene.KindEnum:
		return p.encodeEnum(v, a)
	case scene.KindFloat, scene.KindDouble:
		if f, ok := asFloat(v); ok {
			return f, nil
		}
		return nil, valueErrorf(p, "%v (%T) is not a number", v, v)
	case scene.KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, valueErrorf(p, "%v (%T) is not a string", v, v)
	case scene.KindAngle:
		if ang, ok := v.(scene.Angle); ok {
			return ang, nil
		}
		f, ok := asFloat(v)
		if !ok {
			return nil, valueErrorf(p, "%v (%T) is not an angle", v, v)
		}
		if cfg.degrees {
			return scene.Deg(f), nil
		}
		return scene.Angle(f), nil
	case scene.KindDistance:
		if f, ok := asFloat(v); ok {
			return scene.Distance(f), nil
		}
		return nil, valueErrorf(p, "%v (%T) is not a distance", v, v)
	case scene.KindTime:
		if f, ok := asFloat(v); ok {
			return scene.Time(f), nil
		}
		return nil, valueErrorf(p, "%v (%T) is not a time", v, v)
	case scene.KindMatrix:
		switch mv := v.(type) {
		case scene.Matrix:
			return mv, nil
		case [16]float64:
			return scene.Matrix(mv), nil
		case []float64:
			if len(mv) != 16 {
				return nil, valueErrorf(p, "matrix needs 16 values, got %d", len(mv))
			}
			var m scene.Matrix
			copy(m[:], mv)
			return m, nil
		}
		return nil, valueErrorf(p, "%v (%T) is not a matrix", v, v)
	}
	return nil, &UnhandledPlugKindError{Plug: p.String(), Kind: a.Kind}
}

// encodeEnum accepts an index or the exact field name. A near-miss
// name errors listing the valid names; an enum with no declared
// fields accepts only indices.
func (p Plug) encodeEnum(v any, a *scene.Attribute) (any, error) {
	if s, ok := v.(string); ok {
		for i, f := range a.Fields {
			if f == s {
				return i, nil
			}
		}
		if len(a.Fields) == 0 {
			return nil, valueErrorf(p, "enum %q declares no field names, set it by index", a.Name)
		}
		return nil, valueErrorf(p, "%q is not a field of enum %q, valid names: %s",
			s, a.Name, strings.Join(a.Fields, ", "))
	}
	n, ok := asInt(v)
	if !ok {
		return nil, valueErrorf(p, "%v (%T) is not an enum index or field name", v, v)
	}
	if len(a.Fields) > 0 && (n < 0 || n >= len(a.Fields)) {
		return nil, valueErrorf(p, "index %d out of range for enum %q with %d fields",
			n, a.Name, len(a.Fields))
	}
	return n, nil
}
