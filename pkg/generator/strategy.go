package generator

import "github.com/getmockd/specmock/pkg/schema"

// Strategy produces values for the schema shapes it claims.
type Strategy interface {
	// Name identifies the strategy in logs and diagnostics.
	Name() string
	// CanHandle reports whether the strategy claims n.
	CanHandle(n *schema.Node) bool
	// Produce generates a value for n. Composite strategies recurse through w.
	Produce(n *schema.Node, w Walker) (any, error)
}

// DefaultStrategies returns the built-in strategies in priority order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		ObjectStrategy{},
		ArrayStrategy{},
		CompositionStrategy{},
		ExampleStrategy{},
		EnumStrategy{},
		DefaultValueStrategy{},
		StringStrategy{},
		NumberStrategy{},
		BooleanStrategy{},
		NullStrategy{},
	}
}

func hasComposition(n *schema.Node) bool {
	return len(n.AllOf) > 0 || len(n.OneOf) > 0 || len(n.AnyOf) > 0
}
