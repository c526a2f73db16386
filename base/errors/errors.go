// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a small set of error handling helpers,
// extending the standard library errors package with logging versions
// of common calls, so that errors which would otherwise be dropped at
// convenience call sites are at least reported.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// Log logs the given error if it is non-nil and returns it,
// so it can be used directly in a return statement.
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 is a version of [Log] for functions that return a value
// and an error. It logs the error if non-nil and returns the value.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// Must panics if the given error is non-nil.
// It is for errors that genuinely cannot happen at runtime,
// such as registration with a validated static schema.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 is a version of [Must] for functions that return a value
// and an error. It returns the value.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Ignore1 returns only the value from a (value, error) pair,
// explicitly dropping the error.
func Ignore1[T any](v T, _ error) T {
	return v
}

// CallerInfo returns the file, line, and function name of the caller
// two steps above the caller of CallerInfo, for logging context.
func CallerInfo() string {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	name := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}
	return fmt.Sprintf("%s:%d %s", file, line, name)
}

// New returns an error with the given text, as [errors.New].
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target, as [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target, as [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join wraps the given errors into one, as [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap returns the result of calling the Unwrap method on err,
// as [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
