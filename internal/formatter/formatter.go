package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/KimNorgaard/go-munch/internal/ast"
)

// Formatter writes a representation AST to an output stream.
type Formatter struct {
	w      io.Writer
	indent string
	depth  int
}

// New returns a new formatter that writes to w. With indentSpaces of zero
// the output is a single line; otherwise every non-empty container puts
// each of its items on its own line.
func New(w io.Writer, indentSpaces int) *Formatter {
	var indentStr string
	if indentSpaces > 0 {
		indentStr = strings.Repeat(" ", indentSpaces)
	}
	return &Formatter{w: w, indent: indentStr}
}

// Format writes the text of the AST node to the writer.
func (f *Formatter) Format(node ast.Node) error {
	return f.writeNode(node)
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) writeIndent() error {
	if f.indent == "" {
		return nil
	}
	for i := 0; i < f.depth; i++ {
		if err := f.write(f.indent); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) writeNode(node ast.Node) error {
	switch n := node.(type) {
	case *ast.CallExpression:
		items := make([]func() error, 0, len(n.Args)+len(n.Keywords))
		for _, arg := range n.Args {
			items = append(items, f.nodeWriter(arg))
		}
		for _, kw := range n.Keywords {
			items = append(items, func() error {
				if err := f.write(kw.Name.Value + "="); err != nil {
					return err
				}
				return f.writeNode(kw.Value)
			})
		}
		return f.writeItems(n.Function.Value+"(", ")", items, false)

	case *ast.ListLiteral:
		items := make([]func() error, 0, len(n.Elements))
		for _, elem := range n.Elements {
			items = append(items, f.nodeWriter(elem))
		}
		return f.writeItems("[", "]", items, false)

	case *ast.TupleLiteral:
		items := make([]func() error, 0, len(n.Elements))
		for _, elem := range n.Elements {
			items = append(items, f.nodeWriter(elem))
		}
		return f.writeItems("(", ")", items, len(n.Elements) == 1)

	case *ast.DictLiteral:
		items := make([]func() error, 0, len(n.Pairs))
		for _, pair := range n.Pairs {
			items = append(items, func() error {
				if err := f.writeNode(pair.Key); err != nil {
					return err
				}
				if err := f.write(": "); err != nil {
					return err
				}
				return f.writeNode(pair.Value)
			})
		}
		return f.writeItems("{", "}", items, false)

	case *ast.StringLiteral, *ast.IntegerLiteral, *ast.FloatLiteral, *ast.BooleanLiteral,
		*ast.NoneLiteral, *ast.EllipsisLiteral, *ast.RawLiteral, *ast.Identifier:
		return f.write(n.String())

	default:
		return fmt.Errorf("munch: unsupported node type for formatting: %T", n)
	}
}

func (f *Formatter) nodeWriter(node ast.Node) func() error {
	return func() error { return f.writeNode(node) }
}

// writeItems writes open, the comma separated items and close. A lone tuple
// element keeps its trailing comma in both layouts.
func (f *Formatter) writeItems(open, close string, items []func() error, forceTrailingComma bool) error {
	if err := f.write(open); err != nil {
		return err
	}
	if len(items) == 0 {
		return f.write(close)
	}

	if f.indent == "" {
		for i, item := range items {
			if i > 0 {
				if err := f.write(", "); err != nil {
					return err
				}
			}
			if err := item(); err != nil {
				return err
			}
		}
		if forceTrailingComma {
			if err := f.write(","); err != nil {
				return err
			}
		}
		return f.write(close)
	}

	f.depth++
	for _, item := range items {
		if err := f.write("\n"); err != nil {
			return err
		}
		if err := f.writeIndent(); err != nil {
			return err
		}
		if err := item(); err != nil {
			return err
		}
		if err := f.write(","); err != nil {
			return err
		}
	}
	f.depth--
	if err := f.write("\n"); err != nil {
		return err
	}
	if err := f.writeIndent(); err != nil {
		return err
	}
	return f.write(close)
}
