package generator

import "github.com/getmockd/specmock/pkg/schema"

// ExampleStrategy returns the schema's explicit example.
type ExampleStrategy struct{}

// Name implements Strategy.
func (ExampleStrategy) Name() string { return "example" }

// CanHandle implements Strategy.
func (ExampleStrategy) CanHandle(n *schema.Node) bool { return n.Example != nil }

// Produce implements Strategy.
func (ExampleStrategy) Produce(n *schema.Node, _ Walker) (any, error) {
	return cloneValue(n.Example), nil
}

// EnumStrategy returns the const value, or the first enum value.
type EnumStrategy struct{}

// Name implements Strategy.
func (EnumStrategy) Name() string { return "enum" }

// CanHandle implements Strategy.
func (EnumStrategy) CanHandle(n *schema.Node) bool {
	return n.HasConst || len(n.Enum) > 0
}

// Produce implements Strategy.
func (EnumStrategy) Produce(n *schema.Node, _ Walker) (any, error) {
	if n.HasConst {
		return cloneValue(n.Const), nil
	}
	return cloneValue(n.Enum[0]), nil
}

// DefaultValueStrategy returns the schema's default value.
type DefaultValueStrategy struct{}

// Name implements Strategy.
func (DefaultValueStrategy) Name() string { return "default" }

// CanHandle implements Strategy.
func (DefaultValueStrategy) CanHandle(n *schema.Node) bool { return n.Default != nil }

// Produce implements Strategy.
func (DefaultValueStrategy) Produce(n *schema.Node, _ Walker) (any, error) {
	return cloneValue(n.Default), nil
}

// cloneValue copies maps and slices taken from a schema so the output never
// aliases the shared schema tree.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
