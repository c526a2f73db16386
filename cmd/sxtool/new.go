// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/scenex/scenex/scene"
)

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <scene.json>",
		Short: "write an empty scene document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scene.NewDocument().WriteFile(args[0])
		},
	}
}
