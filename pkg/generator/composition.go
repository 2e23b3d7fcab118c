package generator

import "github.com/getmockd/specmock/pkg/schema"

// CompositionStrategy handles allOf, oneOf and anyOf.
//
// allOf merges the objects produced by each subschema in order; oneOf and
// anyOf use their first variant.
type CompositionStrategy struct{}

// Name implements Strategy.
func (CompositionStrategy) Name() string { return "composition" }

// CanHandle implements Strategy.
func (CompositionStrategy) CanHandle(n *schema.Node) bool {
	return hasComposition(n)
}

// Produce implements Strategy.
func (CompositionStrategy) Produce(n *schema.Node, w Walker) (any, error) {
	switch {
	case len(n.AllOf) > 0:
		return mergeAllOf(n.AllOf, w)
	case len(n.OneOf) > 0:
		return w.Variant("oneOf", 0, n.OneOf[0])
	default:
		return w.Variant("anyOf", 0, n.AnyOf[0])
	}
}

func mergeAllOf(subs []*schema.Node, w Walker) (any, error) {
	merged := NewObject(0)
	var last any
	for i, sub := range subs {
		v, err := w.Variant("allOf", i, sub)
		if err != nil {
			return nil, err
		}
		obj, ok := v.(*Object)
		if !ok {
			last = v
			continue
		}
		for _, k := range obj.keys {
			merged.Set(k, obj.values[k])
		}
	}
	if merged.Len() == 0 && last != nil {
		return last, nil
	}
	return merged, nil
}
