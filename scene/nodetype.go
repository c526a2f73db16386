// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"sync/atomic"

	"github.com/scenex/scenex/base/errors"
	"github.com/scenex/scenex/base/keylist"
)

// NodeType is the registered schema of a node type: its name, whether
// it participates in the DAG hierarchy, whether it can hold DAG
// children, and its attributes.
type NodeType struct {
	// Name is the unique type name, e.g. "transform".
	Name string

	// DAG marks a hierarchical node type, one that has a place in the
	// parent/child hierarchy.
	DAG bool

	// Container marks a DAG type that can hold DAG children.
	// Non-container DAG types (shapes) always live under a container.
	Container bool

	// Attributes are the root attribute definitions, in declaration
	// order.
	Attributes []*Attribute

	// ID is the unique registration number of the type.
	ID uint64

	// lookup indexes every attribute, including compound descendents,
	// by long name; shorts maps short names to long names.
	lookup *keylist.List[string, *Attribute]
	shorts map[string]string
}

func (nt *NodeType) String() string {
	return nt.Name
}

func (nt *NodeType) compile() {
	nt.lookup = keylist.New[string, *Attribute]()
	nt.shorts = map[string]string{}
	var add func(a *Attribute)
	add = func(a *Attribute) {
		nt.lookup.Set(a.Name, a)
		if a.Short != "" {
			nt.shorts[a.Short] = a.Name
		}
		for _, c := range a.Children {
			add(c)
		}
	}
	for _, a := range nt.Attributes {
		a.linkChildren()
		add(a)
	}
}

// AttributeByName returns the attribute definition with the given
// long or short name, searching compound children as well, or nil.
func (nt *NodeType) AttributeByName(name string) *Attribute {
	if a := nt.lookup.At(name); a != nil {
		return a
	}
	if long, ok := nt.shorts[name]; ok {
		return nt.lookup.At(long)
	}
	return nil
}

// HasAttribute reports whether the type declares an attribute with
// the given long or short name.
func (nt *NodeType) HasAttribute(name string) bool {
	return nt.AttributeByName(name) != nil
}

// nodeTypes is the process-wide node type registry. It is append-only
// and assumed immutable once documents are being edited, so readers
// take no lock.
var nodeTypes = keylist.New[string, *NodeType]()

var nodeTypeIDCounter uint64

// AddNodeType registers the given node type, validating its
// attributes and compiling its lookup tables, and returns it. It
// panics on an invalid schema or a duplicate name, as registration
// happens in init functions with static schemas.
func AddNodeType(nt *NodeType) *NodeType {
	for _, a := range nt.Attributes {
		errors.Must(a.Validate())
	}
	nt.ID = atomic.AddUint64(&nodeTypeIDCounter, 1)
	nt.compile()
	errors.Must(nodeTypes.Add(nt.Name, nt))
	return nt
}

// NodeTypeByName returns the registered node type with the given
// name, or nil if it is not registered.
func NodeTypeByName(name string) *NodeType {
	return nodeTypes.At(name)
}
