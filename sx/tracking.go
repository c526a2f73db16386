// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sx

import (
	"log/slog"

	"github.com/scenex/scenex/scene"
)

// Tracker is one scope of the creation tracking log. The session keeps
// a single log of nodes created while any scope is open; a scope marks
// where in that log it started, so a scope sees everything created
// inside it, including what nested scopes tracked. Entries are weak
// handles, so tracked nodes may be invalid by the time they are read
// out.
type Tracker struct {
	s     *Session
	start int
}

// StartTrackingNodes opens a new tracking scope and returns it. Scopes
// nest LIFO.
func (s *Session) StartTrackingNodes() *Tracker {
	t := &Tracker{s: s, start: len(s.trackLog)}
	s.trackers = append(s.trackers, t)
	return t
}

// trackCreated appends created nodes to the log while any scope is
// open.
func (s *Session) trackCreated(hs ...scene.Handle) {
	if len(s.trackers) > 0 {
		s.trackLog = append(s.trackLog, hs...)
	}
}

// TrackOption configures tracked-node queries.
type TrackOption func(*trackConfig)

type trackConfig struct {
	all bool
}

// EndAll closes every open scope instead of only the innermost.
func EndAll() TrackOption {
	return func(c *trackConfig) { c.all = true }
}

// QueryAll reads the outermost scope instead of the innermost, which
// flattens every open scope.
func QueryAll() TrackOption {
	return func(c *trackConfig) { c.all = true }
}

func (s *Session) wrapTracked(hs []scene.Handle) []Node {
	out := make([]Node, 0, len(hs))
	for _, h := range hs {
		out = append(out, s.Node(h))
	}
	return out
}

// dropTrackers closes the scopes from index i on, trimming the log to
// the outermost closed scope's start when no scope remains.
func (s *Session) dropTrackers(i int) {
	s.trackers = s.trackers[:i]
	if len(s.trackers) == 0 {
		s.trackLog = nil
	}
}

// EndTrackingNodes closes the innermost scope and returns its tracked
// nodes, which include everything nested scopes tracked before they
// ended; with [EndAll] it closes every scope and returns the outermost
// scope's view. With no scope open it returns nothing.
func (s *Session) EndTrackingNodes(opts ...TrackOption) []Node {
	var cfg trackConfig
	for _, o := range opts {
		o(&cfg)
	}
	n := len(s.trackers)
	if n == 0 {
		slog.Debug("sx: EndTrackingNodes with no active tracking scope")
		return nil
	}
	i := n - 1
	if cfg.all {
		i = 0
	}
	nodes := s.wrapTracked(s.trackLog[s.trackers[i].start:])
	s.dropTrackers(i)
	return nodes
}

// QueryTrackedNodes returns the innermost scope's tracked nodes
// without closing it, or with [QueryAll] the outermost scope's. With
// no scope open it returns an empty result.
func (s *Session) QueryTrackedNodes(opts ...TrackOption) []Node {
	var cfg trackConfig
	for _, o := range opts {
		o(&cfg)
	}
	n := len(s.trackers)
	if n == 0 {
		slog.Debug("sx: QueryTrackedNodes with no active tracking scope")
		return nil
	}
	t := s.trackers[n-1]
	if cfg.all {
		t = s.trackers[0]
	}
	return s.wrapTracked(s.trackLog[t.start:])
}

// TrackedNodes returns the nodes tracked directly in this scope; with
// all, also what currently open scopes nested inside it hold.
func (t *Tracker) TrackedNodes(all bool) []Node {
	end := len(t.s.trackLog)
	if !all {
		for i, o := range t.s.trackers {
			if o == t && i+1 < len(t.s.trackers) {
				end = t.s.trackers[i+1].start
			}
		}
	}
	if t.start > end {
		return nil
	}
	return t.s.wrapTracked(t.s.trackLog[t.start:end])
}

// End closes this scope and every scope nested inside it, returning
// the tracked nodes. It pairs with defer after
// [Session.StartTrackingNodes].
func (t *Tracker) End() []Node {
	for i, o := range t.s.trackers {
		if o == t {
			nodes := t.s.wrapTracked(t.s.trackLog[t.start:])
			t.s.dropTrackers(i)
			return nodes
		}
	}
	// already closed
	return nil
}

// TrackCreatedNodes runs fn inside a fresh tracking scope and returns
// the nodes it created, even when fn errors.
func (s *Session) TrackCreatedNodes(fn func() error) ([]Node, error) {
	t := s.StartTrackingNodes()
	err := fn()
	return t.End(), err
}
