// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scenex/scenex/scene"
	"github.com/scenex/scenex/sx"
)

// editOp is one decoded edit-script entry. The YAML file is a list of
// op maps; unknown keys for an op are an error.
type editOp struct {
	// Op selects the edit: createDagNode, createDGNode, delete,
	// rename, parent, set, connect, disconnect.
	Op string

	// Type is the node type name for creations.
	Type string

	// Name is the node name for creations, or the target for delete,
	// rename, parent, and set.
	Name string

	// Parent is the parent node for createDagNode and parent.
	Parent string

	// NewName is the new name for rename.
	NewName string `mapstructure:"newName"`

	// Absolute keeps the world transform on parent.
	Absolute bool

	// Set maps plug paths (relative to Name when set, else full
	// node.attr paths) to values.
	Set map[string]any

	// Src and Dst are full plug paths for connect and disconnect.
	Src string
	Dst string
}

func newApplyCmd() *cobra.Command {
	var script, out string
	var journal bool
	c := &cobra.Command{
		Use:   "apply -s <edits.yaml> <scene.json>",
		Short: "apply a YAML edit script as one undoable batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := loadScript(script)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			doc := scene.NewDocument()
			if cfg.UndoDepth > 0 {
				doc.SetUndoDepth(cfg.UndoDepth)
			}
			if err := doc.OpenFile(args[0]); err != nil {
				return err
			}
			s := sx.NewSession(doc)
			defer s.Close()
			err = s.Batch(func(m *sx.Modifier) error {
				for i, op := range ops {
					if err := applyOp(s, m, op); err != nil {
						return fmt.Errorf("op %d (%s): %w", i+1, op.Op, err)
					}
				}
				if journal {
					for _, line := range m.Journal() {
						cmd.Println(line)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0]
			}
			return doc.SaveFile(out)
		},
	}
	c.Flags().StringVarP(&script, "script", "s", "", "YAML edit script (required)")
	c.Flags().StringVarP(&out, "out", "o", "", "output file, defaults to the input")
	c.Flags().BoolVar(&journal, "journal", false, "print the edit journal")
	_ = c.MarkFlagRequired("script")
	return c
}

// loadScript decodes the YAML list of op maps into [editOp]s.
func loadScript(path string) ([]editOp, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	ops := make([]editOp, len(raw))
	for i, m := range raw {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &ops[i],
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(m); err != nil {
			return nil, fmt.Errorf("script %s, op %d: %w", path, i+1, err)
		}
		if ops[i].Op == "" {
			return nil, fmt.Errorf("script %s, op %d: missing op", path, i+1)
		}
	}
	return ops, nil
}

func applyOp(s *sx.Session, m *sx.Modifier, op editOp) error {
	switch op.Op {
	case "createDagNode", "createDGNode", "createNode":
		var copts []sx.CreateOption
		if op.Name != "" {
			copts = append(copts, sx.Named(op.Name))
		}
		if op.Parent != "" {
			pn, err := s.FindNode(op.Parent)
			if err != nil {
				return err
			}
			copts = append(copts, sx.Parent(pn))
		}
		var n sx.Node
		var err error
		switch op.Op {
		case "createDagNode":
			n, err = m.CreateDagNode(op.Type, copts...)
		case "createDGNode":
			n, err = m.CreateDGNode(op.Type, op.Name)
		default:
			n, err = m.CreateNode(op.Type, copts...)
		}
		if err != nil {
			return err
		}
		return setAll(s, m, n, op.Set)
	case "delete":
		n, err := s.FindNode(op.Name)
		if err != nil {
			return err
		}
		return m.DeleteNode(n)
	case "rename":
		n, err := s.FindNode(op.Name)
		if err != nil {
			return err
		}
		return m.RenameNode(n, op.NewName)
	case "parent":
		n, err := s.FindNode(op.Name)
		if err != nil {
			return err
		}
		parent := sx.Node{}
		if op.Parent != "" {
			if parent, err = s.FindNode(op.Parent); err != nil {
				return err
			}
		}
		if op.Absolute {
			return m.ReparentNodeAbsolute(n, parent)
		}
		return m.ReparentNode(n, parent)
	case "set":
		if op.Name != "" {
			n, err := s.FindNode(op.Name)
			if err != nil {
				return err
			}
			return setAll(s, m, n, op.Set)
		}
		for path, v := range op.Set {
			p, err := s.FindPlug(path)
			if err != nil {
				return err
			}
			if err := p.SetOn(m, v); err != nil {
				return err
			}
		}
		return nil
	case "connect", "disconnect":
		src, err := s.FindPlug(op.Src)
		if err != nil {
			return err
		}
		dst, err := s.FindPlug(op.Dst)
		if err != nil {
			return err
		}
		if op.Op == "connect" {
			return m.Connect(src, dst)
		}
		return m.Disconnect(src, dst)
	}
	return fmt.Errorf("unknown op %q", op.Op)
}

func setAll(s *sx.Session, m *sx.Modifier, n sx.Node, sets map[string]any) error {
	for name, v := range sets {
		p, err := n.PlugErr(name)
		if err != nil {
			return err
		}
		if err := p.SetOn(m, v); err != nil {
			return err
		}
	}
	return nil
}
