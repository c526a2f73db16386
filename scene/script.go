// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Built-in scriptable commands. Each one records its edits on a fresh
// modifier and replays that modifier for redo and undo, so script
// lines get the same transactional behavior as API edits.

type modifierCommand struct {
	m *Modifier
}

func (c *modifierCommand) Do(d *Document) error   { return c.m.DoIt() }
func (c *modifierCommand) Undo(d *Document) error { return c.m.UndoIt() }
func (c *modifierCommand) Redo(d *Document) error { return c.m.DoIt() }
func (c *modifierCommand) Undoable() bool         { return c.m.NumOps() > 0 }
func (c *modifierCommand) PurgeObjects()          { c.m.Purge() }

func init() {
	RegisterCommand("setAttr", makeSetAttr)
	RegisterCommand("parent", makeParent)
	RegisterCommand("delete", makeDelete)
	RegisterCommand("rename", makeRename)
}

// parseScalar converts a script word to a value for the given plug.
func parseScalar(a *Attribute, s string) (any, error) {
	switch a.Kind {
	case KindBool:
		switch s {
		case "0", "false", "off":
			return false, nil
		case "1", "true", "on":
			return true, nil
		}
		return nil, fmt.Errorf("%q is not a bool", s)
	case KindInt:
		return strconv.Atoi(s)
	case KindEnum:
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		for i, f := range a.Fields {
			if f == s {
				return i, nil
			}
		}
		return nil, fmt.Errorf("%q is not a field of enum %q", s, a.Name)
	case KindFloat, KindDouble:
		return strconv.ParseFloat(s, 64)
	case KindAngle:
		f, err := strconv.ParseFloat(s, 64)
		return Angle(f), err
	case KindDistance:
		f, err := strconv.ParseFloat(s, 64)
		return Distance(f), err
	case KindTime:
		f, err := strconv.ParseFloat(s, 64)
		return Time(f), err
	case KindString:
		return s, nil
	}
	return nil, fmt.Errorf("kind %v is not scriptable", a.Kind)
}

func parseFlagBool(s string) (bool, error) {
	switch s {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	}
	return false, fmt.Errorf("flag value %q is not 0 or 1", s)
}

// setAttr [-lock 0|1] [-keyable 0|1] [-channelBox 0|1] <plugPath> [value]
func makeSetAttr(d *Document, args []string) (Command, error) {
	type toggle struct {
		field int
		state bool
	}
	var toggles []toggle
	var rest []string
	for i := 0; i < len(args); i++ {
		var field int
		switch args[i] {
		case "-lock", "-l":
			field = plugLocked
		case "-keyable", "-k":
			field = plugKeyable
		case "-channelBox", "-cb":
			field = plugChannelBox
		default:
			if strings.HasPrefix(args[i], "-") {
				return nil, fmt.Errorf("unknown flag %q", args[i])
			}
			rest = append(rest, args[i])
			continue
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("flag %q needs 0 or 1", args[i])
		}
		st, err := parseFlagBool(args[i+1])
		if err != nil {
			return nil, err
		}
		toggles = append(toggles, toggle{field, st})
		i++
	}
	if len(rest) < 1 || len(rest) > 2 {
		return nil, fmt.Errorf("usage: setAttr [-lock 0|1] [-keyable 0|1] [-channelBox 0|1] plug [value]")
	}
	p, err := d.FindPlug(rest[0])
	if err != nil {
		return nil, err
	}
	m := d.NewModifier()
	if len(rest) == 2 {
		v, err := parseScalar(p.Attribute(), rest[1])
		if err != nil {
			return nil, fmt.Errorf("plug %s: %w", p, err)
		}
		if err := m.SetValue(p, v); err != nil {
			return nil, err
		}
	}
	for _, t := range toggles {
		m.record(&plugStateOp{p: p, field: t.field, state: t.state})
	}
	return &modifierCommand{m}, nil
}

// parent [-a] [-w] <nodePath> [<parentPath>]
func makeParent(d *Document, args []string) (Command, error) {
	absolute, world := false, false
	var rest []string
	for _, a := range args {
		switch a {
		case "-a":
			absolute = true
		case "-w":
			world = true
		default:
			if strings.HasPrefix(a, "-") {
				return nil, fmt.Errorf("unknown flag %q", a)
			}
			rest = append(rest, a)
		}
	}
	if len(rest) < 1 || (world && len(rest) != 1) || (!world && len(rest) != 2) {
		return nil, fmt.Errorf("usage: parent [-a] [-w] node [newParent]")
	}
	node, err := d.FindNode(rest[0])
	if err != nil {
		return nil, err
	}
	parent := Handle{}
	if !world {
		if parent, err = d.FindNode(rest[1]); err != nil {
			return nil, err
		}
	}
	m := d.NewModifier()
	if err := m.Reparent(node, parent); err != nil {
		return nil, err
	}
	if absolute && node.TypeName() == "transform" {
		// keep the world transform: recompose the local TRS against
		// the new parent
		w, err := worldMatrix(node)
		if err != nil {
			return nil, err
		}
		local := w
		if !parent.IsNull() {
			pw, err := worldMatrix(parent)
			if err != nil {
				return nil, err
			}
			local = w.Mul(pw.Inverse())
		}
		t, r, s, sh := local.Decompose()
		sets := []struct {
			path string
			val  any
		}{
			{"translateX", t.X}, {"translateY", t.Y}, {"translateZ", t.Z},
			{"rotateX", Angle(r.X)}, {"rotateY", Angle(r.Y)}, {"rotateZ", Angle(r.Z)},
			{"scaleX", s.X}, {"scaleY", s.Y}, {"scaleZ", s.Z},
			{"shearXY", sh.X}, {"shearXZ", sh.Y}, {"shearYZ", sh.Z},
		}
		for _, sv := range sets {
			p, err := node.Plug(sv.path)
			if err != nil {
				return nil, err
			}
			if err := m.SetValue(p, sv.val); err != nil {
				return nil, err
			}
		}
	}
	return &modifierCommand{m}, nil
}

// delete <nodePath>
func makeDelete(d *Document, args []string) (Command, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: delete node")
	}
	node, err := d.FindNode(args[0])
	if err != nil {
		return nil, err
	}
	m := d.NewModifier()
	if err := m.DeleteNode(node); err != nil {
		return nil, err
	}
	return &modifierCommand{m}, nil
}

// rename <nodePath> <newName>
func makeRename(d *Document, args []string) (Command, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("usage: rename node newName")
	}
	node, err := d.FindNode(args[0])
	if err != nil {
		return nil, err
	}
	m := d.NewModifier()
	if err := m.RenameNode(node, args[1]); err != nil {
		return nil, err
	}
	return &modifierCommand{m}, nil
}
