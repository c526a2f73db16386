// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamePrefixAndDigits(t *testing.T) {
	tests := []struct {
		name, prefix, digits string
	}{
		{"node12", "node", "12"},
		{"node", "node", ""},
		{"1234", "", "1234"},
		{"a1b2", "a1b", "2"},
		{"", "", ""},
	}
	for _, tt := range tests {
		prefix, digits := NamePrefixAndDigits(tt.name)
		assert.Equal(t, tt.prefix, prefix, tt.name)
		assert.Equal(t, tt.digits, digits, tt.name)
	}
}

func TestClosestAvailableNodeName(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, "grp", ClosestAvailableNodeName(s.Doc(), "grp"))
	makeTransform(t, s, "grp")
	assert.Equal(t, "grp1", ClosestAvailableNodeName(s.Doc(), "grp"))
	makeTransform(t, s, "grp1")
	assert.Equal(t, "grp2", ClosestAvailableNodeName(s.Doc(), "grp"))
	assert.Equal(t, "grp2", ClosestAvailableNodeName(s.Doc(), "grp1"))
}

func TestJournalRendering(t *testing.T) {
	s := newTestSession(t)

	m := s.NewModifier()
	grp, err := m.CreateDagNode("transform", Named("grp"))
	require.NoError(t, err)
	require.NoError(t, grp.Plug("translateX").SetOn(m, 1.5))
	require.NoError(t, m.RenameNode(grp, "base"))

	assert.Equal(t, []string{
		`createDagNode("transform", "grp")`,
		`setValue(grp.translateX, 1.5)`,
		`renameNode(grp, "base")`,
	}, m.Journal())
}

func TestJournalDisplayForms(t *testing.T) {
	assert.Equal(t, "None", displayArg(nil))
	assert.Equal(t, `"lit"`, displayArg("lit"))
	assert.Equal(t, "None", displayArg(Node{}))
	assert.Equal(t, "NullPlug", displayArg(Plug{}))
	assert.Equal(t, "3.5", displayArg(3.5))
	assert.Equal(t, "true", displayArg(true))
}
