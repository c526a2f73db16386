// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackNames(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.String()
	}
	return out
}

func makeTransform(t *testing.T, s *Session, name string) Node {
	t.Helper()
	var n Node
	require.NoError(t, s.Batch(func(m *Modifier) error {
		var err error
		n, err = m.CreateDagNode("transform", Named(name))
		return err
	}))
	return n
}

func TestTrackingScopesNest(t *testing.T) {
	s := newTestSession(t)

	s.StartTrackingNodes()
	makeTransform(t, s, "a")
	makeTransform(t, s, "b")

	s.StartTrackingNodes()
	makeTransform(t, s, "c")

	// the inner scope sees only its own node; the outer scope's view
	// flattens both
	assert.Equal(t, []string{"c"}, trackNames(s.QueryTrackedNodes()))
	assert.Equal(t, []string{"a", "b", "c"}, trackNames(s.QueryTrackedNodes(QueryAll())))

	inner := s.EndTrackingNodes()
	assert.Equal(t, []string{"c"}, trackNames(inner))

	// ending the inner scope does not lose its nodes from the outer one
	assert.Equal(t, []string{"a", "b", "c"}, trackNames(s.QueryTrackedNodes()))
	outer := s.EndTrackingNodes()
	assert.Equal(t, []string{"a", "b", "c"}, trackNames(outer))

	assert.Nil(t, s.EndTrackingNodes())
}

func TestTrackerScopeViews(t *testing.T) {
	s := newTestSession(t)

	outer := s.StartTrackingNodes()
	makeTransform(t, s, "a")
	inner := s.StartTrackingNodes()
	makeTransform(t, s, "b")

	assert.Equal(t, []string{"a"}, trackNames(outer.TrackedNodes(false)))
	assert.Equal(t, []string{"a", "b"}, trackNames(outer.TrackedNodes(true)))
	assert.Equal(t, []string{"b"}, trackNames(inner.TrackedNodes(false)))

	// ending the outer scope closes the nested one with it
	assert.Equal(t, []string{"a", "b"}, trackNames(outer.End()))
	assert.Nil(t, inner.End())
	assert.Nil(t, s.QueryTrackedNodes())
}

func TestEndAllTrackingScopes(t *testing.T) {
	s := newTestSession(t)

	s.StartTrackingNodes()
	makeTransform(t, s, "a")
	s.StartTrackingNodes()
	makeTransform(t, s, "b")

	all := s.EndTrackingNodes(EndAll())
	assert.Equal(t, []string{"a", "b"}, trackNames(all))
	assert.Nil(t, s.QueryTrackedNodes())
}

func TestTrackingOnlyWhileScopeOpen(t *testing.T) {
	s := newTestSession(t)

	makeTransform(t, s, "before")
	tr := s.StartTrackingNodes()
	assert.Empty(t, tr.TrackedNodes(true))
	makeTransform(t, s, "during")
	nodes := s.EndTrackingNodes()
	assert.Equal(t, []string{"during"}, trackNames(nodes))

	makeTransform(t, s, "after")
	assert.Nil(t, s.QueryTrackedNodes())
}

func TestTrackingIncludesAutoContainer(t *testing.T) {
	s := newTestSession(t)

	s.StartTrackingNodes()
	require.NoError(t, s.Batch(func(m *Modifier) error {
		_, err := m.CreateDagNode("locator")
		return err
	}))

	// the host-created container is tracked ahead of the shape
	nodes := s.EndTrackingNodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "transform", nodes[0].TypeName())
	assert.Equal(t, "locator", nodes[1].TypeName())
}

func TestTrackCreatedNodesReportsOnError(t *testing.T) {
	s := newTestSession(t)
	sentinel := errors.New("halted")

	nodes, err := s.TrackCreatedNodes(func() error {
		return s.Batch(func(m *Modifier) error {
			if _, err := m.CreateDagNode("transform", Named("kept")); err != nil {
				return err
			}
			return sentinel
		})
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, []string{"kept"}, trackNames(nodes))
	assert.Nil(t, s.QueryTrackedNodes())
}

func TestTrackedNodesSurviveAsWeakHandles(t *testing.T) {
	s := newTestSession(t)
	d := s.Doc()

	s.StartTrackingNodes()
	makeTransform(t, s, "gone")
	require.NoError(t, d.Undo())

	nodes := s.EndTrackingNodes()
	require.Len(t, nodes, 1)
	assert.False(t, nodes[0].IsValid())
	assert.True(t, nodes[0].IsAlive())
	assert.Equal(t, "gone(invalid)", nodes[0].String())
}
