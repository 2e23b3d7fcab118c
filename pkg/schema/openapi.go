package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// KeyOrder records the declaration order of every mapping in a raw document,
// keyed by the JSON pointer of the mapping (without the leading '#').
type KeyOrder map[string][]string

// IndexKeyOrder walks a decoded YAML/JSON document and records key order.
func IndexKeyOrder(root *yaml.Node) KeyOrder {
	order := KeyOrder{}
	if root == nil {
		return order
	}

	var walk func(n *yaml.Node, ptr string)
	walk = func(n *yaml.Node, ptr string) {
		switch n.Kind {
		case yaml.DocumentNode:
			for _, c := range n.Content {
				walk(c, ptr)
			}
		case yaml.MappingNode:
			keys := make([]string, 0, len(n.Content)/2)
			for i := 0; i+1 < len(n.Content); i += 2 {
				k := n.Content[i].Value
				keys = append(keys, k)
				walk(n.Content[i+1], ptr+"/"+EscapePointer(k))
			}
			order[ptr] = keys
		case yaml.SequenceNode:
			for i, c := range n.Content {
				walk(c, ptr+"/"+strconv.Itoa(i))
			}
		}
	}
	walk(root, "")
	return order
}

// EscapePointer escapes one JSON pointer reference token.
func EscapePointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// Converter turns dereferenced kin-openapi schemas into Nodes.
//
// A Converter memoizes by schema pointer, so a schema reached twice (shared
// component, or a reference cycle) maps to the same Node. It is not safe for
// concurrent use.
type Converter struct {
	// Order supplies property declaration order. Properties of schemas at
	// locations it does not know are emitted in sorted order.
	Order KeyOrder

	// RefLocation maps a $ref string to the pointer its target was declared
	// under in the raw document. Return "" when the location is unknown.
	RefLocation func(ref string) string

	memo map[*openapi3.Schema]*Node
}

// NewConverter creates a converter using the given key order index.
func NewConverter(order KeyOrder) *Converter {
	return &Converter{
		Order:       order,
		RefLocation: LocalRefLocation,
		memo:        make(map[*openapi3.Schema]*Node),
	}
}

// LocalRefLocation resolves document-local references ("#/a/b") to "/a/b".
func LocalRefLocation(ref string) string {
	if strings.HasPrefix(ref, "#") {
		return ref[1:]
	}
	return ""
}

// FromOpenAPI converts ref without key order information. Properties are
// emitted in sorted order.
func FromOpenAPI(ref *openapi3.SchemaRef) *Node {
	return NewConverter(nil).Convert(ref, "")
}

// Convert converts ref, declared at location loc, into a Node.
func (c *Converter) Convert(ref *openapi3.SchemaRef, loc string) *Node {
	if ref == nil || ref.Value == nil {
		return nil
	}
	if ref.Ref != "" && c.RefLocation != nil {
		loc = c.RefLocation(ref.Ref)
	}

	s := ref.Value
	if n, ok := c.memo[s]; ok {
		return n
	}
	n := &Node{}
	c.memo[s] = n

	if s.Type != nil {
		for _, t := range s.Type.Slice() {
			if t == TypeNull {
				n.Nullable = true
				continue
			}
			if n.Type == "" {
				n.Type = t
			}
		}
	}
	n.Nullable = n.Nullable || s.Nullable
	n.Format = s.Format
	n.Pattern = s.Pattern
	n.Title = s.Title
	n.Description = s.Description
	n.Enum = s.Enum
	n.Example = s.Example
	n.Default = s.Default
	n.Minimum = s.Min
	n.Maximum = s.Max
	n.ExclusiveMinimum = s.ExclusiveMin
	n.ExclusiveMaximum = s.ExclusiveMax

	if s.MinLength > 0 {
		v := int(s.MinLength)
		n.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int(*s.MaxLength)
		n.MaxLength = &v
	}
	if s.MinItems > 0 {
		v := int(s.MinItems)
		n.MinItems = &v
	}
	if s.MaxItems != nil {
		v := int(*s.MaxItems)
		n.MaxItems = &v
	}

	if s.Items != nil {
		n.Items = c.Convert(s.Items, child(loc, "items"))
	}
	if s.Properties != nil {
		n.Properties = c.properties(s.Properties, child(loc, "properties"))
	}
	n.AllOf = c.convertAll(s.AllOf, child(loc, "allOf"))
	n.OneOf = c.convertAll(s.OneOf, child(loc, "oneOf"))
	n.AnyOf = c.convertAll(s.AnyOf, child(loc, "anyOf"))

	return n
}

func (c *Converter) properties(props openapi3.Schemas, loc string) *Properties {
	out := NewProperties()
	for _, name := range c.orderedNames(props, loc) {
		out.Set(name, c.Convert(props[name], child(loc, EscapePointer(name))))
	}
	return out
}

// orderedNames lists property names in declaration order when the location is
// indexed, then any remaining names sorted.
func (c *Converter) orderedNames(props openapi3.Schemas, loc string) []string {
	names := make([]string, 0, len(props))
	seen := make(map[string]bool, len(props))
	if loc != "" {
		for _, name := range c.Order[loc] {
			if _, ok := props[name]; ok && !seen[name] {
				names = append(names, name)
				seen[name] = true
			}
		}
	}
	rest := make([]string, 0, len(props)-len(names))
	for name := range props {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func (c *Converter) convertAll(refs openapi3.SchemaRefs, loc string) []*Node {
	if len(refs) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(refs))
	for i, r := range refs {
		if n := c.Convert(r, child(loc, strconv.Itoa(i))); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func child(loc, token string) string {
	if loc == "" {
		return ""
	}
	return loc + "/" + token
}
