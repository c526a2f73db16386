// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sx is the convenience layer over the [scene] host: journaled
// edit transactions with immediate and deferred modes, a modifier
// stack with scoped batch contexts, undoable commits through a single
// host command, wrapped node and plug handles that stay useful after
// deletion, a creation tracking log, and a value codec between plain
// Go values and typed plugs.
//
// The entry point is [NewSession]:
//
//	doc := scene.NewDocument()
//	s := sx.NewSession(doc)
//	n, err := s.CurrentModifier().CreateDagNode("transform")
//
// Edits made through [Session.CurrentModifier] apply immediately and
// land on the document undo queue one unit per edit; edits inside
// [Session.Batch] accumulate and commit as one unit on exit.
package sx
