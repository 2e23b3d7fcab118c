package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Primitive type markers understood by the generator.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// Node is a JSON-schema-like description of a value.
type Node struct {
	Type     string
	Format   string
	Pattern  string
	Nullable bool

	Title       string
	Description string

	// Properties is nil when the node declares no properties key at all.
	// An empty, non-nil Properties describes an object with no fields.
	Properties *Properties
	Items      *Node

	AllOf []*Node
	OneOf []*Node
	AnyOf []*Node

	Enum     []any
	Const    any
	HasConst bool
	Example  any
	Default  any

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool

	MinLength *int
	MaxLength *int
	MinItems  *int
	MaxItems  *int
}

// Properties is an ordered mapping of property name to schema.
type Properties struct {
	names  []string
	byName map[string]*Node
}

// NewProperties returns an empty property mapping.
func NewProperties() *Properties {
	return &Properties{byName: make(map[string]*Node)}
}

// Set adds or replaces a property. New names are appended after existing ones.
func (p *Properties) Set(name string, n *Node) {
	if p.byName == nil {
		p.byName = make(map[string]*Node)
	}
	if _, ok := p.byName[name]; !ok {
		p.names = append(p.names, name)
	}
	p.byName[name] = n
}

// Get returns the schema of the named property.
func (p *Properties) Get(name string) (*Node, bool) {
	if p == nil {
		return nil, false
	}
	n, ok := p.byName[name]
	return n, ok
}

// Names returns the property names in declaration order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Parse decodes a YAML or JSON schema document into a Node.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return &n, nil
}

// UnmarshalJSON decodes a JSON schema. JSON is valid YAML, so the YAML decoder
// is reused to keep property order.
func (n *Node) UnmarshalJSON(data []byte) error {
	return yaml.Unmarshal(data, n)
}

// UnmarshalYAML decodes a schema mapping.
//
//nolint:gocyclo // one case per schema keyword
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: schema must be a mapping", value.Line)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i].Value, value.Content[i+1]
		var err error
		switch key {
		case "$ref":
			return fmt.Errorf("line %d: unresolved reference %q", val.Line, val.Value)
		case "type":
			err = n.decodeType(val)
		case "format":
			err = val.Decode(&n.Format)
		case "pattern":
			err = val.Decode(&n.Pattern)
		case "title":
			err = val.Decode(&n.Title)
		case "description":
			err = val.Decode(&n.Description)
		case "nullable":
			err = val.Decode(&n.Nullable)
		case "properties":
			n.Properties = NewProperties()
			err = val.Decode(n.Properties)
		case "items":
			n.Items = &Node{}
			err = val.Decode(n.Items)
		case "allOf":
			err = val.Decode(&n.AllOf)
		case "oneOf":
			err = val.Decode(&n.OneOf)
		case "anyOf":
			err = val.Decode(&n.AnyOf)
		case "enum":
			err = val.Decode(&n.Enum)
		case "const":
			n.HasConst = true
			err = val.Decode(&n.Const)
		case "example":
			err = val.Decode(&n.Example)
		case "examples":
			if val.Kind == yaml.SequenceNode && len(val.Content) > 0 && n.Example == nil {
				err = val.Content[0].Decode(&n.Example)
			}
		case "default":
			err = val.Decode(&n.Default)
		case "minimum":
			err = val.Decode(&n.Minimum)
		case "maximum":
			err = val.Decode(&n.Maximum)
		case "exclusiveMinimum":
			n.ExclusiveMinimum, err = decodeExclusive(val, &n.Minimum)
		case "exclusiveMaximum":
			n.ExclusiveMaximum, err = decodeExclusive(val, &n.Maximum)
		case "minLength":
			err = val.Decode(&n.MinLength)
		case "maxLength":
			err = val.Decode(&n.MaxLength)
		case "minItems":
			err = val.Decode(&n.MinItems)
		case "maxItems":
			err = val.Decode(&n.MaxItems)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// decodeType accepts both "type: string" and the 3.1 form "type: [string, null]".
func (n *Node) decodeType(val *yaml.Node) error {
	if val.Kind == yaml.ScalarNode {
		return val.Decode(&n.Type)
	}
	var types []string
	if err := val.Decode(&types); err != nil {
		return err
	}
	for _, t := range types {
		if t == TypeNull {
			n.Nullable = true
			continue
		}
		if n.Type == "" {
			n.Type = t
		}
	}
	if n.Type == "" && n.Nullable {
		n.Type = TypeNull
	}
	return nil
}

// decodeExclusive handles both the boolean (3.0) and numeric (3.1) forms.
func decodeExclusive(val *yaml.Node, bound **float64) (bool, error) {
	if val.Tag == "!!bool" {
		var b bool
		err := val.Decode(&b)
		return b, err
	}
	var f float64
	if err := val.Decode(&f); err != nil {
		return false, err
	}
	*bound = &f
	return true, nil
}

// UnmarshalYAML decodes a properties mapping in declaration order.
func (p *Properties) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		child := &Node{}
		if err := value.Content[i+1].Decode(child); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		p.Set(name, child)
	}
	return nil
}
