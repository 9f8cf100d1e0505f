package munch

import (
	"bytes"

	"github.com/KimNorgaard/go-munch/internal/formatter"
)

// Repr returns the textual representation of v on a single line. Munch
// keys are sorted, so equal values always render the same way.
//
// The result can be read back with Eval whenever every value inside v has
// a literal form: nil, booleans, numbers, strings, lists, tuples, plain
// maps and Munch values of any variant. Other values are written with the
// %#v verb. A container that contains itself renders as ... where it
// recurs.
func Repr(v any) string {
	var buf bytes.Buffer
	// Rendering an AST built by render cannot fail.
	_ = formatter.New(&buf, 0).Format(newRenderer().render(v))
	return buf.String()
}

// Format returns the textual representation of v, laid out according to
// opts. Without Indent it matches Repr.
func Format(v any, opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := formatter.New(&buf, o.indent).Format(newRenderer().render(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
