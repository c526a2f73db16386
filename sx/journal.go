// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"fmt"
	"strings"

	"github.com/scenex/scenex/scene"
)

// journalEntry is one recorded edit call, kept for diagnostics. Node
// and plug arguments are held as weak host references and rendered
// with their current display forms, so a journal printed after a
// delete shows the "(invalid)" and "(dead)" markers.
type journalEntry struct {
	op   string
	args []any
}

// render formats the entry as a call, e.g.
//
//	createDagNode("transform")
//	connect(cube1.translateX, cube2.translateX)
func (e journalEntry) render() string {
	var sb strings.Builder
	sb.WriteString(e.op)
	sb.WriteByte('(')
	for i, a := range e.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(displayArg(a))
	}
	sb.WriteByte(')')
	return sb.String()
}

// displayArg renders one journal argument. Rendering must never
// fail; anything unprintable falls back to an "unknown" marker.
func displayArg(a any) (s string) {
	defer func() {
		if recover() != nil {
			s = "unknown"
		}
	}()
	switch v := a.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", v)
	case Node:
		return v.String()
	case Plug:
		return v.String()
	case scene.Handle:
		return v.String()
	case scene.Plug:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", a)
}

func renderJournal(entries []journalEntry) []string {
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.render()
	}
	return out
}
