// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"github.com/scenex/scenex/scene"
)

// NamePrefixAndDigits partitions a node name into its prefix and its
// trailing digit run, both as strings.
//
//	NamePrefixAndDigits("node12") == ("node", "12")
//	NamePrefixAndDigits("node") == ("node", "")
func NamePrefixAndDigits(name string) (prefix, digits string) {
	p, n := scene.NamePrefixAndDigits(name)
	if n < 0 {
		return p, ""
	}
	return p, name[len(p):]
}

// ClosestAvailableNodeName returns name if no node in the document
// answers to it, and otherwise the nearest free name formed by
// counting the trailing digit run up.
func ClosestAvailableNodeName(doc *scene.Document, name string) string {
	return doc.ClosestAvailableName(name)
}
