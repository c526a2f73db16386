// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/scenex/scenex/scene"
	"github.com/scenex/scenex/sx"
)

func newShowCmd() *cobra.Command {
	var values bool
	c := &cobra.Command{
		Use:   "show <scene.json>",
		Short: "print a scene's node tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := scene.NewDocument()
			if err := doc.OpenFile(args[0]); err != nil {
				return err
			}
			s := sx.NewSession(doc)
			defer s.Close()
			for _, h := range doc.Roots() {
				showNode(cmd, s, h, 0, values)
			}
			for _, h := range doc.Nodes() {
				if !h.IsDAG() {
					showNode(cmd, s, h, 0, values)
				}
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&values, "values", "v", false, "print attribute values")
	return c
}

func showNode(cmd *cobra.Command, s *sx.Session, h scene.Handle, depth int, values bool) {
	indent := strings.Repeat("  ", depth)
	cmd.Printf("%s%s (%s)\n", indent, h.Name(), h.TypeName())
	if values {
		n := s.Node(h)
		for _, a := range h.Type().Attributes {
			if a.Computed || !showableKind(a.Kind) {
				continue
			}
			p := n.Plug(a.Name)
			if p.IsNull() {
				continue
			}
			v, err := p.Value()
			if err != nil {
				continue
			}
			cmd.Printf("%s  .%s = %v\n", indent, a.Name, v)
		}
	}
	for _, c := range h.Children() {
		showNode(cmd, s, c, depth+1, values)
	}
}

func showableKind(k scene.Kind) bool {
	return k == scene.KindCompound || k.HasValue()
}
