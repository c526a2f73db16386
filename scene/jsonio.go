// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
)

// JSON document format. Nodes serialize hierarchically with their
// explicitly stored values; connections serialize in a second pass as
// plug path pairs, so load order never matters. Dynamic attributes
// carry their definitions with them.

type jsonAttr struct {
	Name       string      `json:"name"`
	Short      string      `json:"short,omitempty"`
	Kind       string      `json:"kind"`
	Array      bool        `json:"array,omitempty"`
	Fields     []string    `json:"fields,omitempty"`
	Children   []*jsonAttr `json:"children,omitempty"`
	Default    any         `json:"default,omitempty"`
	Keyable    bool        `json:"keyable,omitempty"`
	ChannelBox bool        `json:"channelBox,omitempty"`
}

type jsonPlugState struct {
	Locked     bool `json:"locked,omitempty"`
	Keyable    bool `json:"keyable,omitempty"`
	ChannelBox bool `json:"channelBox,omitempty"`
}

type jsonNode struct {
	Type     string                   `json:"type"`
	Name     string                   `json:"name"`
	UUID     string                   `json:"uuid"`
	Locked   bool                     `json:"locked,omitempty"`
	Dynamic  []*jsonAttr              `json:"dynamic,omitempty"`
	Values   map[string]any           `json:"values,omitempty"`
	States   map[string]jsonPlugState `json:"states,omitempty"`
	Children []*jsonNode              `json:"children,omitempty"`
}

type jsonConn struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

type jsonDoc struct {
	Nodes       []*jsonNode `json:"nodes"`
	Connections []jsonConn  `json:"connections,omitempty"`
}

func attrToJSON(a *Attribute) *jsonAttr {
	ja := &jsonAttr{
		Name: a.Name, Short: a.Short, Kind: a.Kind.String(),
		Array: a.Array, Fields: a.Fields, Default: a.Default,
		Keyable: a.Keyable, ChannelBox: a.ChannelBox,
	}
	for _, c := range a.Children {
		ja.Children = append(ja.Children, attrToJSON(c))
	}
	return ja
}

func attrFromJSON(ja *jsonAttr) (*Attribute, error) {
	k, err := kindFromName(ja.Kind)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", ja.Name, err)
	}
	a := &Attribute{
		Name: ja.Name, Short: ja.Short, Kind: k,
		Array: ja.Array, Fields: ja.Fields, Default: ja.Default,
		Keyable: ja.Keyable, ChannelBox: ja.ChannelBox,
		dynamic: true,
	}
	for _, jc := range ja.Children {
		c, err := attrFromJSON(jc)
		if err != nil {
			return nil, err
		}
		a.Children = append(a.Children, c)
	}
	a.linkChildren()
	return a, nil
}

func kindFromName(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", name)
}

func nodeToJSON(ob *object) *jsonNode {
	jn := &jsonNode{
		Type:   ob.typ.Name,
		Name:   ob.name,
		UUID:   ob.uuid.String(),
		Locked: ob.locked,
	}
	for _, a := range ob.dynamic {
		jn.Dynamic = append(jn.Dynamic, attrToJSON(a))
	}
	if len(ob.values) > 0 {
		jn.Values = map[string]any{}
		for k, v := range ob.values {
			jn.Values[k] = v
		}
	}
	for k, st := range ob.states {
		if jn.States == nil {
			jn.States = map[string]jsonPlugState{}
		}
		jn.States[k] = jsonPlugState{st.locked, st.keyable, st.channelBox}
	}
	for _, c := range ob.children {
		jn.Children = append(jn.Children, nodeToJSON(c))
	}
	return jn
}

// collectConns appends every connection in the document, identified
// by destination, in stable order.
func (d *Document) collectConns() []jsonConn {
	var out []jsonConn
	for _, ob := range d.nodes.Values {
		h := Handle{ob}
		keys := make([]string, 0, len(ob.sources))
		for k := range ob.sources {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			src := ob.sources[k]
			out = append(out, jsonConn{
				Src: Handle{src.ob}.Path() + "." + src.key(),
				Dst: h.Path() + "." + k,
			})
		}
	}
	return out
}

// WriteJSON serializes the document to w.
func (d *Document) WriteJSON(w io.Writer) error {
	jd := &jsonDoc{Connections: d.collectConns()}
	for _, ob := range d.roots {
		jd.Nodes = append(jd.Nodes, nodeToJSON(ob))
	}
	for _, ob := range d.nodes.Values {
		if !ob.typ.DAG {
			jd.Nodes = append(jd.Nodes, nodeToJSON(ob))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(jd)
}

// loadNode rebuilds one node and its children from JSON.
func (d *Document) loadNode(jn *jsonNode, parent *object) error {
	nt := NodeTypeByName(jn.Type)
	if nt == nil {
		return fmt.Errorf("scene: node %q: %w %q", jn.Name, ErrUnknownType, jn.Type)
	}
	ob := newObject(d, nt, jn.Name)
	if id, err := uuid.Parse(jn.UUID); err == nil {
		ob.uuid = id
	}
	for _, ja := range jn.Dynamic {
		a, err := attrFromJSON(ja)
		if err != nil {
			return fmt.Errorf("scene: node %q: %w", jn.Name, err)
		}
		ob.dynamic = append(ob.dynamic, a)
	}
	d.insert(ob, parent)
	ob.locked = jn.Locked
	h := Handle{ob}
	for k, raw := range jn.Values {
		p, err := h.Plug(k)
		if err != nil {
			return fmt.Errorf("scene: node %q: value %q: %w", jn.Name, k, err)
		}
		v, err := coerceJSONValue(p.attr.Kind, raw)
		if err != nil {
			return fmt.Errorf("scene: node %q: value %q: %w", jn.Name, k, err)
		}
		ob.values[p.key()] = v
		ob.markElement(p)
	}
	for k, st := range jn.States {
		ob.states[k] = &plugState{st.Locked, st.Keyable, st.ChannelBox}
	}
	for _, jc := range jn.Children {
		if err := d.loadNode(jc, ob); err != nil {
			return err
		}
	}
	return nil
}

// coerceJSONValue converts a decoded JSON value to the stored
// representation for the kind; matrices arrive as number arrays.
func coerceJSONValue(k Kind, raw any) (any, error) {
	if k == KindMatrix {
		arr, ok := raw.([]any)
		if !ok || len(arr) != 16 {
			return nil, fmt.Errorf("matrix value is not a 16 number array")
		}
		var m Matrix
		for i, e := range arr {
			f, ok := e.(float64)
			if !ok {
				return nil, fmt.Errorf("matrix element %d is %T", i, e)
			}
			m[i] = f
		}
		return m, nil
	}
	return coerceValue(k, raw)
}

// ReadJSON replaces the document content with the serialized scene
// from r. The caller wraps it with lifecycle events; see
// [Document.OpenFile].
func (d *Document) ReadJSON(r io.Reader) error {
	var jd jsonDoc
	if err := json.NewDecoder(r).Decode(&jd); err != nil {
		return fmt.Errorf("scene: decode: %w", err)
	}
	d.purge()
	for _, jn := range jd.Nodes {
		if err := d.loadNode(jn, nil); err != nil {
			return err
		}
	}
	for _, jc := range jd.Connections {
		src, err := d.FindPlug(jc.Src)
		if err != nil {
			return fmt.Errorf("scene: connection %q -> %q: %w", jc.Src, jc.Dst, err)
		}
		dst, err := d.FindPlug(jc.Dst)
		if err != nil {
			return fmt.Errorf("scene: connection %q -> %q: %w", jc.Src, jc.Dst, err)
		}
		makeConnection(src, dst)
	}
	return nil
}

// WriteFile serializes the document to the named file.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.WriteJSON(f)
}

// SaveFile is WriteFile under its host-facing name.
func (d *Document) SaveFile(path string) error {
	return d.WriteFile(path)
}

// ReadFile fires [BeforeOpen], replaces the document content with the
// named file, and fires [AfterOpen].
func (d *Document) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	d.fire(BeforeOpen)
	if err := d.ReadJSON(f); err != nil {
		return err
	}
	d.fire(AfterOpen)
	return nil
}

// OpenFile is ReadFile under its host-facing name.
func (d *Document) OpenFile(path string) error {
	return d.ReadFile(path)
}
