// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keylist implements an ordered list (slice) of items with a
// map from a key (e.g., a name) to indexes, to support fast lookup by
// key while preserving insertion order. It is used for attribute
// tables and node registries, where both ordered iteration and by-name
// access matter.
package keylist

import (
	"fmt"
	"slices"
)

// List is an ordered list of Values with a map from each item's key
// to its index, supporting fast lookup by key. The zero value is
// ready to use.
type List[K comparable, V any] struct {
	// Values is the ordered slice of items.
	Values []V

	// Keys is the ordered list of keys, in the same order as [List.Values].
	Keys []K

	// indexes is the key-to-index mapping.
	indexes map[K]int
}

// New returns a new [List]. The zero value is usable without
// initialization; this is just a convenience.
func New[K comparable, V any]() *List[K, V] {
	return &List[K, V]{}
}

func (kl *List[K, V]) makeIndexes() {
	kl.indexes = make(map[K]int, len(kl.Keys))
	for i, k := range kl.Keys {
		kl.indexes[k] = i
	}
}

// Reset removes all elements from the list.
func (kl *List[K, V]) Reset() {
	kl.Values = nil
	kl.Keys = nil
	kl.indexes = nil
}

// Set sets the given key to the given value, adding to the end of the
// list if not already present, and otherwise replacing the existing
// value. These are standard Go map semantics; see [List.Add] for a
// version that errors on an existing key.
func (kl *List[K, V]) Set(key K, val V) {
	if kl.indexes == nil {
		kl.makeIndexes()
	}
	if i, ok := kl.indexes[key]; ok {
		kl.Values[i] = val
		return
	}
	kl.indexes[key] = len(kl.Values)
	kl.Values = append(kl.Values, val)
	kl.Keys = append(kl.Keys, key)
}

// Add adds an item to the end of the list under the given key,
// returning an error if the key is already present.
func (kl *List[K, V]) Add(key K, val V) error {
	if kl.indexes == nil {
		kl.makeIndexes()
	}
	if _, ok := kl.indexes[key]; ok {
		return fmt.Errorf("keylist.Add: key %v is already in the list", key)
	}
	kl.indexes[key] = len(kl.Values)
	kl.Values = append(kl.Values, val)
	kl.Keys = append(kl.Keys, key)
	return nil
}

// At returns the value for the given key, with the zero value
// returned for a missing key. See [List.AtTry] for a version that
// reports whether the key was present.
func (kl *List[K, V]) At(key K) V {
	if i, ok := kl.indexes[key]; ok {
		return kl.Values[i]
	}
	var zv V
	return zv
}

// AtTry returns the value for the given key, and whether the key was
// present, for when the zero value is not diagnostic.
func (kl *List[K, V]) AtTry(key K) (V, bool) {
	if i, ok := kl.indexes[key]; ok {
		return kl.Values[i], true
	}
	var zv V
	return zv, false
}

// Has reports whether the given key is in the list.
func (kl *List[K, V]) Has(key K) bool {
	_, ok := kl.indexes[key]
	return ok
}

// IndexByKey returns the index of the given key, or -1 if missing.
func (kl *List[K, V]) IndexByKey(key K) int {
	if i, ok := kl.indexes[key]; ok {
		return i
	}
	return -1
}

// Len returns the number of items in the list.
func (kl *List[K, V]) Len() int {
	if kl == nil {
		return 0
	}
	return len(kl.Values)
}

// DeleteAt deletes the item at the given index.
// It is relatively slow because it regenerates the index map.
func (kl *List[K, V]) DeleteAt(i int) {
	kl.Keys = slices.Delete(kl.Keys, i, i+1)
	kl.Values = slices.Delete(kl.Values, i, i+1)
	kl.makeIndexes()
}

// DeleteByKey deletes the item with the given key,
// returning false if it is not present.
func (kl *List[K, V]) DeleteByKey(key K) bool {
	i, ok := kl.indexes[key]
	if !ok {
		return false
	}
	kl.DeleteAt(i)
	return true
}

// RenameKey changes the key of an existing item in place, preserving
// its position, returning an error if the old key is missing or the
// new key is already present.
func (kl *List[K, V]) RenameKey(old, new K) error {
	i, ok := kl.indexes[old]
	if !ok {
		return fmt.Errorf("keylist.RenameKey: key %v is not in the list", old)
	}
	if _, ok := kl.indexes[new]; ok {
		return fmt.Errorf("keylist.RenameKey: key %v is already in the list", new)
	}
	delete(kl.indexes, old)
	kl.Keys[i] = new
	kl.indexes[new] = i
	return nil
}

// Copy copies all entries from the given list into this one,
// overwriting any existing entries with the same keys.
// Use [List.Reset] first for an exact copy.
func (kl *List[K, V]) Copy(from *List[K, V]) {
	for i, v := range from.Values {
		kl.Set(from.Keys[i], v)
	}
}

// String returns a string representation of the list.
func (kl *List[K, V]) String() string {
	sv := "{"
	for i, v := range kl.Values {
		sv += fmt.Sprintf("%v: %v, ", kl.Keys[i], v)
	}
	return sv + "}"
}
