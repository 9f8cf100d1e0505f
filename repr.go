package munch

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/KimNorgaard/go-munch/internal/ast"
	"github.com/KimNorgaard/go-munch/internal/token"
)

// EllipsisType is the type of Ellipsis.
type EllipsisType struct{}

// Ellipsis is what Eval produces for the ... placeholder, which Repr writes
// in place of a container that is already being rendered.
var Ellipsis = EllipsisType{}

// renderer tracks the containers currently being rendered. Each call to
// Repr or Format owns one, so concurrent renders never see each other.
type renderer struct {
	active map[nodeID]bool
}

func newRenderer() *renderer {
	return &renderer{active: make(map[nodeID]bool)}
}

func (r *renderer) render(v any) ast.Expression {
	if id, ok := identityOf(v); ok {
		if r.active[id] {
			Logger().Debug("rendering placeholder for recursive container", zap.Stringer("kind", id.kind))
			return &ast.EllipsisLiteral{Token: tok(token.ELLIPSIS, "...")}
		}
		r.active[id] = true
		defer delete(r.active, id)
	}

	switch v := v.(type) {
	case nil:
		return &ast.NoneLiteral{Token: tok(token.NONE, "None")}
	case bool:
		lit := &ast.BooleanLiteral{Token: tok(token.TRUE, "True"), Value: v}
		if !v {
			lit.Token = tok(token.FALSE, "False")
		}
		return lit
	case int:
		return intLiteral(int64(v))
	case float64:
		return floatExpr("float64", v, 64)
	case string:
		return &ast.StringLiteral{Token: tok(token.STRING, v), Value: v}
	case EllipsisType:
		return &ast.EllipsisLiteral{Token: tok(token.ELLIPSIS, "...")}
	case *Munch:
		if v == nil {
			return &ast.NoneLiteral{Token: tok(token.NONE, "None")}
		}
		return r.renderMunch(v)
	case map[string]any, map[any]any:
		return &ast.DictLiteral{Token: tok(token.LBRACE, "{"), Pairs: r.renderPairs(pairsOf(v))}
	case []any:
		return &ast.ListLiteral{Token: tok(token.LBRACK, "["), Elements: r.renderAll(v)}
	case Tuple:
		return &ast.TupleLiteral{Token: tok(token.LPAREN, "("), Elements: r.renderAll(v)}
	case int8, int16, int32, int64:
		return conversion(reflect.TypeOf(v).Name(), intLiteral(reflect.ValueOf(v).Int()))
	case uint, uint8, uint16, uint32, uint64, uintptr:
		name := reflect.TypeOf(v).Name()
		u := reflect.ValueOf(v).Uint()
		if u > math.MaxInt64 {
			s := strconv.FormatUint(u, 10)
			return conversion(name, &ast.StringLiteral{Token: tok(token.STRING, s), Value: s})
		}
		return conversion(name, intLiteral(int64(u)))
	case float32:
		return floatExpr("float32", float64(v), 32)
	}
	s := fmt.Sprintf("%#v", v)
	return &ast.RawLiteral{Token: tok(token.ILLEGAL, s), Value: s}
}

func (r *renderer) renderAll(values []any) []ast.Expression {
	out := make([]ast.Expression, len(values))
	for i, e := range values {
		out[i] = r.render(e)
	}
	return out
}

func (r *renderer) renderPairs(pairs []Pair) []*ast.PairExpression {
	out := make([]*ast.PairExpression, len(pairs))
	for i, p := range pairs {
		out[i] = &ast.PairExpression{
			Token: tok(token.COLON, ":"),
			Key:   r.render(p.Key),
			Value: r.render(p.Value),
		}
	}
	return out
}

// renderMunch writes TypeName(k=v, ...) when every key can be spelled as a
// keyword argument and TypeName({k: v, ...}) otherwise. Default variants
// lead with their default.
func (r *renderer) renderMunch(m *Munch) ast.Expression {
	call := &ast.CallExpression{
		Token:    tok(token.LPAREN, "("),
		Function: &ast.Identifier{Token: tok(token.IDENT, m.TypeName()), Value: m.TypeName()},
	}
	switch {
	case m.fallback != nil && m.fallback.factory != nil:
		call.Args = append(call.Args, factoryName(m.fallback.name))
	case m.fallback != nil:
		call.Args = append(call.Args, r.render(m.fallback.value))
	}

	pairs := m.Items()
	slices.SortStableFunc(pairs, func(a, b Pair) int { return compareKeys(a.Key, b.Key) })
	if !keywordable(pairs) {
		call.Args = append(call.Args, &ast.DictLiteral{Token: tok(token.LBRACE, "{"), Pairs: r.renderPairs(pairs)})
		return call
	}
	for _, p := range pairs {
		name := p.Key.(string)
		call.Keywords = append(call.Keywords, &ast.KeywordArgument{
			Token: tok(token.ASSIGN, "="),
			Name:  &ast.Identifier{Token: tok(token.IDENT, name), Value: name},
			Value: r.render(p.Value),
		})
	}
	return call
}

func keywordable(pairs []Pair) bool {
	for _, p := range pairs {
		name, ok := p.Key.(string)
		if !ok || !IsIdentifier(name) || token.LookupIdent(name) != token.IDENT {
			return false
		}
	}
	return true
}

func factoryName(name string) ast.Expression {
	switch {
	case name == "" || name == "None":
		return &ast.NoneLiteral{Token: tok(token.NONE, "None")}
	case IsIdentifier(name):
		return &ast.Identifier{Token: tok(token.IDENT, name), Value: name}
	default:
		return &ast.RawLiteral{Token: tok(token.ILLEGAL, name), Value: name}
	}
}

func tok(t token.Type, literal string) token.Token {
	return token.Token{Type: t, Literal: literal}
}

func intLiteral(n int64) *ast.IntegerLiteral {
	return &ast.IntegerLiteral{Token: tok(token.INT, strconv.FormatInt(n, 10)), Value: n}
}

func conversion(name string, arg ast.Expression) *ast.CallExpression {
	return &ast.CallExpression{
		Token:    tok(token.LPAREN, "("),
		Function: &ast.Identifier{Token: tok(token.IDENT, name), Value: name},
		Args:     []ast.Expression{arg},
	}
}

// floatExpr writes a float64 as a bare literal that always reads back as a
// float. NaN, infinities and float32 values are written as conversions.
func floatExpr(name string, f float64, bitSize int) ast.Expression {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		s := strconv.FormatFloat(f, 'g', -1, bitSize)
		return conversion(name, &ast.StringLiteral{Token: tok(token.STRING, s), Value: s})
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	lit := &ast.FloatLiteral{Token: tok(token.FLOAT, s), Value: f}
	if bitSize == 32 {
		return conversion(name, lit)
	}
	return lit
}
