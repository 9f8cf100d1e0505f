package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-munch/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal value of the token associated with the node.
	TokenLiteral() string
	// String returns a string representation of the node.
	String() string
}

// Expression is a node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Identifier represents a bare name, such as the callee of a call.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// BooleanLiteral represents True or False.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// FloatLiteral represents a float literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }

// StringLiteral represents a string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }

// NoneLiteral represents None.
type NoneLiteral struct {
	Token token.Token
}

func (nl *NoneLiteral) expressionNode()      {}
func (nl *NoneLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NoneLiteral) String() string       { return "None" }

// EllipsisLiteral stands in for a container that was already being
// rendered further up the tree.
type EllipsisLiteral struct {
	Token token.Token
}

func (el *EllipsisLiteral) expressionNode()      {}
func (el *EllipsisLiteral) TokenLiteral() string { return el.Token.Literal }
func (el *EllipsisLiteral) String() string       { return "..." }

// RawLiteral carries text for a value that has no literal syntax. It is
// produced when rendering and never by the parser.
type RawLiteral struct {
	Token token.Token
	Value string
}

func (rl *RawLiteral) expressionNode()      {}
func (rl *RawLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RawLiteral) String() string       { return rl.Value }

// ListLiteral represents a list literal.
type ListLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	out.WriteString(joinExpressions(ll.Elements))
	out.WriteString("]")
	return out.String()
}

// TupleLiteral represents a tuple literal. A single-element tuple keeps its
// trailing comma.
type TupleLiteral struct {
	Token    token.Token // the '(' token
	Elements []Expression
}

func (tl *TupleLiteral) expressionNode()      {}
func (tl *TupleLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TupleLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(joinExpressions(tl.Elements))
	if len(tl.Elements) == 1 {
		out.WriteString(",")
	}
	out.WriteString(")")
	return out.String()
}

// DictLiteral represents a dict literal.
type DictLiteral struct {
	Token token.Token // the '{' token
	Pairs []*PairExpression
}

func (dl *DictLiteral) expressionNode()      {}
func (dl *DictLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DictLiteral) String() string {
	var out bytes.Buffer
	pairs := []string{}
	for _, p := range dl.Pairs {
		pairs = append(pairs, p.String())
	}
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// PairExpression represents a key-value pair in a dict literal.
type PairExpression struct {
	Token token.Token // The ':' token
	Key   Expression
	Value Expression
}

func (pe *PairExpression) expressionNode()      {}
func (pe *PairExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PairExpression) String() string {
	return pe.Key.String() + ": " + pe.Value.String()
}

// KeywordArgument represents name=value inside a call.
type KeywordArgument struct {
	Token token.Token // The '=' token
	Name  *Identifier
	Value Expression
}

func (ka *KeywordArgument) expressionNode()      {}
func (ka *KeywordArgument) TokenLiteral() string { return ka.Token.Literal }
func (ka *KeywordArgument) String() string {
	return ka.Name.String() + "=" + ka.Value.String()
}

// CallExpression represents Name(args..., key=value...). Positional
// arguments always precede keyword arguments.
type CallExpression struct {
	Token    token.Token // The '(' token
	Function *Identifier
	Args     []Expression
	Keywords []*KeywordArgument
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	parts := []string{}
	for _, a := range ce.Args {
		parts = append(parts, a.String())
	}
	for _, k := range ce.Keywords {
		parts = append(parts, k.String())
	}
	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	return out.String()
}

func joinExpressions(exprs []Expression) string {
	elements := make([]string, 0, len(exprs))
	for _, el := range exprs {
		elements = append(elements, el.String())
	}
	return strings.Join(elements, ", ")
}
