package munch

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"

	merrors "github.com/KimNorgaard/go-munch/errors"
	"github.com/KimNorgaard/go-munch/internal/ast"
	"github.com/KimNorgaard/go-munch/internal/lexer"
	"github.com/KimNorgaard/go-munch/internal/parser"
	"github.com/KimNorgaard/go-munch/internal/token"
)

// builtinFactories are always available to DefaultFactoryMunch expressions.
var builtinFactories = map[string]func() any{
	"list":  func() any { return []any{} },
	"dict":  func() any { return map[string]any{} },
	"tuple": func() any { return Tuple{} },
	"Munch": func() any { return New() },
}

// Eval reads a value back from its textual representation.
//
// Integer literals become int, float literals float64, lists []any,
// tuples Tuple, and dicts map[string]any when every key is a string or
// map[any]any otherwise. Munch, AutoMunch, DefaultMunch and
// DefaultFactoryMunch calls build the matching variant; the factory of a
// DefaultFactoryMunch is looked up by name among the built-ins and those
// given with Factories. Conversions such as int64(3) or float64("NaN")
// produce the named numeric type, and ... produces Ellipsis.
//
// If the input contains syntax errors, Eval returns a ParseErrors value.
func Eval(src []byte, opts ...Option) (any, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	p := parser.New(lexer.New(bytes.NewReader(src)))
	expr := p.Parse()
	if len(p.Errors()) > 0 {
		return nil, p.Errors()
	}
	es := &evalState{opts: o, depth: o.maxDepth}
	return es.eval(expr)
}

// Parse is Eval for input whose root must be a Munch of any variant.
func Parse(src []byte, opts ...Option) (*Munch, error) {
	v, err := Eval(src, opts...)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Munch)
	if !ok {
		return nil, fmt.Errorf("munch: parsed %T: %w", v, ErrNotMapping)
	}
	return m, nil
}

type evalState struct {
	opts  *options
	depth int
}

func (es *evalState) eval(expr ast.Expression) (any, error) { //nolint:gocyclo
	es.depth--
	if es.depth <= 0 {
		return nil, fmt.Errorf("munch: reached max recursion depth")
	}
	defer func() { es.depth++ }()

	switch node := expr.(type) {
	case *ast.NoneLiteral:
		return nil, nil
	case *ast.BooleanLiteral:
		return node.Value, nil
	case *ast.IntegerLiteral:
		if node.Value < math.MinInt || node.Value > math.MaxInt {
			return nil, errorAt(node.Token, "integer %s overflows int", node.Token.Literal)
		}
		return int(node.Value), nil
	case *ast.FloatLiteral:
		return node.Value, nil
	case *ast.StringLiteral:
		return node.Value, nil
	case *ast.EllipsisLiteral:
		return Ellipsis, nil
	case *ast.ListLiteral:
		return es.evalAll(node.Elements)
	case *ast.TupleLiteral:
		values, err := es.evalAll(node.Elements)
		if err != nil {
			return nil, err
		}
		return Tuple(values), nil
	case *ast.DictLiteral:
		return es.evalDict(node)
	case *ast.CallExpression:
		return es.evalCall(node)
	case *ast.Identifier:
		return nil, errorAt(node.Token, "unknown name %s", node.Value)
	default:
		return nil, fmt.Errorf("munch: cannot evaluate %T", expr)
	}
}

func (es *evalState) evalAll(exprs []ast.Expression) ([]any, error) {
	values := make([]any, len(exprs))
	for i, e := range exprs {
		v, err := es.eval(e)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (es *evalState) evalPairs(pairs []*ast.PairExpression) ([]Pair, error) {
	out := make([]Pair, 0, len(pairs))
	for _, pe := range pairs {
		k, err := es.eval(pe.Key)
		if err != nil {
			return nil, err
		}
		if !hashable(k) {
			return nil, errorAt(pe.Token, "unhashable key of type %T", k)
		}
		v, err := es.eval(pe.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: k, Value: v})
	}
	return out, nil
}

// hashable reports whether k can serve as a key. NaN is rejected because
// it never equals itself and so could never be looked up again.
func hashable(k any) bool {
	switch k := k.(type) {
	case nil:
		return true
	case *Munch:
		return false
	case float64:
		return !math.IsNaN(k)
	case float32:
		return !math.IsNaN(float64(k))
	}
	return reflect.TypeOf(k).Comparable()
}

func (es *evalState) evalDict(node *ast.DictLiteral) (any, error) {
	pairs, err := es.evalPairs(node.Pairs)
	if err != nil {
		return nil, err
	}
	keys := make([]any, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	switch m := AutoMap(keys).(type) {
	case map[string]any:
		for _, p := range pairs {
			m[p.Key.(string)] = p.Value
		}
		return m, nil
	case map[any]any:
		for _, p := range pairs {
			m[p.Key] = p.Value
		}
		return m, nil
	}
	return nil, nil
}

func (es *evalState) evalCall(node *ast.CallExpression) (any, error) {
	name := node.Function.Value
	switch name {
	case "Munch", "AutoMunch":
		var m *Munch
		if name == "Munch" {
			m = New()
		} else {
			m = NewAuto()
		}
		return es.fillMunch(m, node, node.Args)
	case "DefaultMunch":
		if len(node.Args) == 0 {
			return es.fillMunch(NewDefault(nil), node, nil)
		}
		def, err := es.eval(node.Args[0])
		if err != nil {
			return nil, err
		}
		return es.fillMunch(NewDefault(def), node, node.Args[1:])
	case "DefaultFactoryMunch":
		if len(node.Args) == 0 {
			return nil, errorAt(node.Token, "%s requires a factory", name)
		}
		factoryName, factory, err := es.factory(node.Args[0])
		if err != nil {
			return nil, err
		}
		return es.fillMunch(NewDefaultFactory(factoryName, factory), node, node.Args[1:])
	}
	if _, ok := numericTypes[name]; ok {
		return es.evalConversion(node)
	}
	return nil, errorAt(node.Function.Token, "unknown name %s", name)
}

// fillMunch applies an optional mapping argument and then the keyword
// arguments of a constructor call to m.
func (es *evalState) fillMunch(m *Munch, node *ast.CallExpression, args []ast.Expression) (any, error) {
	if len(args) > 1 {
		return nil, errorAt(node.Token, "%s takes at most one mapping argument", node.Function.Value)
	}
	if len(args) == 1 {
		var pairs []Pair
		if dict, ok := args[0].(*ast.DictLiteral); ok {
			var err error
			if pairs, err = es.evalPairs(dict.Pairs); err != nil {
				return nil, err
			}
		} else {
			v, err := es.eval(args[0])
			if err != nil {
				return nil, err
			}
			if KindOf(v) != Mapping {
				return nil, errorAt(node.Token, "%s argument must be a mapping, not %T", node.Function.Value, v)
			}
			pairs = pairsOf(v)
		}
		for _, p := range pairs {
			m.Set(p.Key, p.Value)
		}
	}
	for _, kw := range node.Keywords {
		v, err := es.eval(kw.Value)
		if err != nil {
			return nil, err
		}
		m.Set(kw.Name.Value, v)
	}
	return m, nil
}

func (es *evalState) factory(expr ast.Expression) (string, func() any, error) {
	switch n := expr.(type) {
	case *ast.NoneLiteral:
		return "None", func() any { return nil }, nil
	case *ast.Identifier:
		if fn, ok := es.opts.factories[n.Value]; ok {
			return n.Value, fn, nil
		}
		if fn, ok := builtinFactories[n.Value]; ok {
			return n.Value, fn, nil
		}
		return "", nil, errorAt(n.Token, "unknown factory %s", n.Value)
	}
	return "", nil, fmt.Errorf("munch: factory must be a name, not %s", expr.String())
}

// numericTypes maps conversion names to their bit size.
var numericTypes = map[string]int{
	"int": strconv.IntSize, "int8": 8, "int16": 16, "int32": 32, "int64": 64,
	"uint": strconv.IntSize, "uint8": 8, "uint16": 16, "uint32": 32, "uint64": 64, "uintptr": 64,
	"float32": 32, "float64": 64,
}

// evalConversion evaluates int64(3), float32(1.5), float64("NaN") and the
// like. The argument may be an integer, a float or a string holding either.
func (es *evalState) evalConversion(node *ast.CallExpression) (any, error) {
	name := node.Function.Value
	if len(node.Args) != 1 || len(node.Keywords) != 0 {
		return nil, errorAt(node.Token, "%s takes exactly one argument", name)
	}
	arg, err := es.eval(node.Args[0])
	if err != nil {
		return nil, err
	}
	text := ""
	switch a := arg.(type) {
	case int:
		text = strconv.Itoa(a)
	case float64:
		text = strconv.FormatFloat(a, 'g', -1, 64)
	case string:
		text = a
	default:
		return nil, errorAt(node.Token, "cannot convert %T to %s", arg, name)
	}

	bits := numericTypes[name]
	rt := numericKinds[name]
	out := reflect.New(rt).Elem()
	switch {
	case out.CanInt():
		n, err := strconv.ParseInt(text, 10, bits)
		if err != nil {
			return nil, errorAt(node.Token, "cannot convert %q to %s", text, name)
		}
		out.SetInt(n)
	case out.CanUint():
		n, err := strconv.ParseUint(text, 10, bits)
		if err != nil {
			return nil, errorAt(node.Token, "cannot convert %q to %s", text, name)
		}
		out.SetUint(n)
	default:
		f, err := strconv.ParseFloat(text, bits)
		if err != nil {
			return nil, errorAt(node.Token, "cannot convert %q to %s", text, name)
		}
		out.SetFloat(f)
	}
	return out.Interface(), nil
}

var numericKinds = map[string]reflect.Type{
	"int": reflect.TypeFor[int](), "int8": reflect.TypeFor[int8](), "int16": reflect.TypeFor[int16](),
	"int32": reflect.TypeFor[int32](), "int64": reflect.TypeFor[int64](),
	"uint": reflect.TypeFor[uint](), "uint8": reflect.TypeFor[uint8](), "uint16": reflect.TypeFor[uint16](),
	"uint32": reflect.TypeFor[uint32](), "uint64": reflect.TypeFor[uint64](), "uintptr": reflect.TypeFor[uintptr](),
	"float32": reflect.TypeFor[float32](), "float64": reflect.TypeFor[float64](),
}

func errorAt(t token.Token, format string, args ...any) error {
	return merrors.ParseErrors{{
		Message: fmt.Sprintf(format, args...),
		Line:    t.Line,
		Column:  t.Column,
	}}
}
