package munch

import "fmt"

const defaultMaxDepth = 1000

// Option configures rendering, evaluation and JSON output.
type Option func(*options) error

type options struct {
	indent    int
	maxDepth  int
	factories map[string]func() any
}

func newOptions(opts []Option) (*options, error) {
	o := &options{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Indent returns an Option that puts every item of a non-empty container
// on its own line, indented by n spaces per level. Zero means single-line
// output.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("munch: indent spaces cannot be negative")
		}
		o.indent = n
		return nil
	}
}

// MaxDepth returns an Option that sets the maximum nesting depth Eval will
// accept. This helps prevent stack overflows on hostile input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("munch: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// Factories returns an Option that makes the named zero-argument factories
// available to Eval for DefaultFactoryMunch(name, ...) expressions. The
// names list, dict, tuple and Munch are always available.
func Factories(factories map[string]func() any) Option {
	return func(o *options) error {
		if o.factories == nil {
			o.factories = make(map[string]func() any, len(factories))
		}
		for name, fn := range factories {
			if fn == nil {
				return fmt.Errorf("munch: factory %q is nil", name)
			}
			o.factories[name] = fn
		}
		return nil
	}
}
