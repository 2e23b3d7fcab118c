package generator

import (
	"strconv"
	"time"

	"github.com/getmockd/specmock/pkg/schema"
)

// Default generation limits.
const (
	DefaultMaxDepth    = 32
	DefaultArrayLength = 1

	// maxArrayItems caps how far minItems may grow an array.
	maxArrayItems = 10
	// maxPadLength caps how far minLength may pad a string.
	maxPadLength = 1024
)

// defaultEpoch is the fixed instant used for date and time formats.
var defaultEpoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// Options holds engine settings.
type Options struct {
	// MaxDepth is the deepest nesting level generated before failing.
	MaxDepth int

	// ArrayLength is the number of items generated for arrays without
	// minItems/maxItems constraints.
	ArrayLength int

	// Epoch is the instant rendered for date, date-time and time formats.
	Epoch time.Time
}

// DefaultOptions returns the default engine settings.
func DefaultOptions() Options {
	return Options{
		MaxDepth:    DefaultMaxDepth,
		ArrayLength: DefaultArrayLength,
		Epoch:       defaultEpoch,
	}
}

// Engine dispatches schema nodes to the first strategy that claims them.
// It is immutable after New and safe for concurrent use.
type Engine struct {
	strategies []Strategy
	opts       Options
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategies replaces the strategy list. Order is priority order.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Engine) {
		e.strategies = append([]Strategy(nil), strategies...)
	}
}

// WithMaxDepth sets the recursion ceiling. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.opts.MaxDepth = depth
		}
	}
}

// WithArrayLength sets the default array length. Values below 0 are ignored.
func WithArrayLength(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.opts.ArrayLength = n
		}
	}
}

// WithEpoch sets the instant used for date and time formats.
func WithEpoch(t time.Time) Option {
	return func(e *Engine) {
		e.opts.Epoch = t.UTC()
	}
}

// New creates an engine with DefaultStrategies unless WithStrategies is given.
func New(opts ...Option) *Engine {
	e := &Engine{
		strategies: DefaultStrategies(),
		opts:       DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options returns the engine settings.
func (e *Engine) Options() Options { return e.opts }

// StrategyNames lists the strategies in priority order.
func (e *Engine) StrategyNames() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Generate produces a value for n.
func (e *Engine) Generate(n *schema.Node) (any, error) {
	return Walker{engine: e, path: "#"}.Generate(n)
}

// GenerateProperties produces an object for a bare property mapping, for
// callers holding the unwrapped properties of a schema.
func (e *Engine) GenerateProperties(props *schema.Properties) (any, error) {
	if props == nil {
		props = schema.NewProperties()
	}
	return e.Generate(&schema.Node{Properties: props})
}

// Walker is one frame of a generation: the node location and depth.
// Strategies recurse through it; it is passed by value.
type Walker struct {
	engine *Engine
	depth  int
	path   string
	name   string
}

// Depth is the nesting level of the current node; the root is 0.
func (w Walker) Depth() int { return w.depth }

// Path is the JSON pointer of the current node, rooted at "#".
func (w Walker) Path() string { return w.path }

// PropertyName is the name of the nearest enclosing property, if any.
func (w Walker) PropertyName() string { return w.name }

// Options returns the engine settings.
func (w Walker) Options() Options { return w.engine.opts }

// Generate dispatches n at the current frame.
func (w Walker) Generate(n *schema.Node) (any, error) {
	if w.depth > w.engine.opts.MaxDepth {
		return nil, &DepthExceededError{Path: w.path, Limit: w.engine.opts.MaxDepth}
	}
	if n == nil {
		return nil, &NoStrategyError{Path: w.path}
	}
	for _, s := range w.engine.strategies {
		if s.CanHandle(n) {
			return s.Produce(n, w)
		}
	}
	return nil, &NoStrategyError{Path: w.path}
}

// Property generates the named property's schema one level deeper.
func (w Walker) Property(name string, n *schema.Node) (any, error) {
	c := w.descend("properties", schema.EscapePointer(name))
	c.name = name
	return c.Generate(n)
}

// Item generates an array item schema one level deeper.
func (w Walker) Item(n *schema.Node) (any, error) {
	return w.descend("items").Generate(n)
}

// Variant generates the i-th subschema of a composition keyword.
func (w Walker) Variant(keyword string, i int, n *schema.Node) (any, error) {
	return w.descend(keyword, strconv.Itoa(i)).Generate(n)
}

func (w Walker) descend(tokens ...string) Walker {
	c := w
	c.depth++
	for _, t := range tokens {
		c.path += "/" + t
	}
	return c
}
