package generator

import "github.com/getmockd/specmock/pkg/schema"

// ArrayStrategy repeats the items schema a fixed number of times.
type ArrayStrategy struct{}

// Name implements Strategy.
func (ArrayStrategy) Name() string { return "array" }

// CanHandle implements Strategy.
func (ArrayStrategy) CanHandle(n *schema.Node) bool {
	return n.Items != nil || (n.Type == schema.TypeArray && !hasComposition(n))
}

// Produce implements Strategy.
func (ArrayStrategy) Produce(n *schema.Node, w Walker) (any, error) {
	if n.Items == nil {
		return []any{}, nil
	}

	count := arrayLength(n, w.Options().ArrayLength)
	items := make([]any, count)
	for i := range items {
		v, err := w.Item(n.Items)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// arrayLength applies minItems/maxItems to the configured length.
func arrayLength(n *schema.Node, length int) int {
	count := length
	if n.MinItems != nil && *n.MinItems > count {
		count = min(*n.MinItems, max(length, maxArrayItems))
	}
	if n.MaxItems != nil && *n.MaxItems < count {
		count = *n.MaxItems
	}
	return max(count, 0)
}
