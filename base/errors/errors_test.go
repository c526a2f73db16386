// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	err := New("everything is broken")
	assert.Equal(t, err, Log(err))
	assert.NoError(t, Log(nil))
}

func TestLog1(t *testing.T) {
	err := New("everything is broken")
	v := Log1(42, err)
	assert.Equal(t, 42, v)
	v = Log1(7, nil)
	assert.Equal(t, 7, v)
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() {
		Must(nil)
	})
	assert.Panics(t, func() {
		Must(New("everything is broken"))
	})
	assert.Equal(t, 3, Must1(3, nil))
	assert.Panics(t, func() {
		Must1(3, New("everything is broken"))
	})
}

func TestIgnore1(t *testing.T) {
	assert.Equal(t, "x", Ignore1("x", New("everything is broken")))
}

func TestCallerInfo(t *testing.T) {
	assert.Contains(t, caller(), "errors_test.go")
}

func caller() string {
	return CallerInfo()
}
