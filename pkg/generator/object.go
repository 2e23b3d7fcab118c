package generator

import (
	"bytes"
	"encoding/json"

	"github.com/getmockd/specmock/pkg/schema"
)

// Object is a generated mapping that remembers insertion order, so field order
// in the mock output follows the schema declaration.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object with room for n keys.
func NewObject(n int) *Object {
	return &Object{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Set assigns a value. New keys are appended.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// ToMap converts the object, and any nested objects or arrays, into plain maps
// and slices. Key order is lost.
func (o *Object) ToMap() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = plain(o.values[k])
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeRaw(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeRaw(&buf, o.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeRaw appends v to buf without HTML escaping. Callers that want
// escaping get it from their own encoder.
func encodeRaw(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

// ObjectStrategy builds an object from every declared property. It claims any
// node with a properties key, and object-typed nodes without composition.
type ObjectStrategy struct{}

// Name implements Strategy.
func (ObjectStrategy) Name() string { return "object" }

// CanHandle implements Strategy.
func (ObjectStrategy) CanHandle(n *schema.Node) bool {
	if n.Properties != nil {
		return true
	}
	return n.Type == schema.TypeObject && !hasComposition(n)
}

// Produce implements Strategy.
func (ObjectStrategy) Produce(n *schema.Node, w Walker) (any, error) {
	names := n.Properties.Names()
	out := NewObject(len(names))
	for _, name := range names {
		child, _ := n.Properties.Get(name)
		v, err := w.Property(name, child)
		if err != nil {
			return nil, err
		}
		out.Set(name, v)
	}
	return out, nil
}
