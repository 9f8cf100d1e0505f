package munch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// YAML tags understood by a YAMLCodec.
const (
	// MunchTag is the tag a tagged codec writes for a Munch.
	MunchTag = "!munch.Munch"
	// ShortMunchTag is accepted as an alias of MunchTag when loading.
	ShortMunchTag = "!munch"
	// TupleTag is the tag a tagged codec writes for a Tuple.
	TupleTag = "!munch.Tuple"
)

const defaultYAMLIndent = 4

// YAMLCodec converts between YAML documents and Munch trees. Creating one
// is the only registration step: nothing is installed globally, and the
// plain yaml.Marshal and yaml.Unmarshal only see Munch through its
// MarshalYAML and UnmarshalYAML methods.
//
// By default a codec is safe: it writes every Munch as a plain mapping that
// any YAML consumer can read. A Tagged codec writes MunchTag and TupleTag
// so that Load can restore the distinction between Munch and plain maps
// and between tuples and lists.
type YAMLCodec struct {
	tagged  bool
	tag     string
	aliases []string
	flow    bool
	indent  int
	factory func() *Munch
}

// YAMLOption configures a YAMLCodec.
type YAMLOption func(*YAMLCodec) error

// Tagged makes the codec write MunchTag and TupleTag.
func Tagged() YAMLOption {
	return func(c *YAMLCodec) error {
		c.tagged = true
		return nil
	}
}

// WithTags replaces the tag written for a Munch with primary and the tags
// accepted when loading with primary and aliases.
func WithTags(primary string, aliases ...string) YAMLOption {
	return func(c *YAMLCodec) error {
		for _, tag := range append([]string{primary}, aliases...) {
			if !strings.HasPrefix(tag, "!") {
				return fmt.Errorf("munch: yaml tag %q must start with '!'", tag)
			}
		}
		c.tag = primary
		c.aliases = aliases
		return nil
	}
}

// Flow makes the codec write containers in flow style.
func Flow() YAMLOption {
	return func(c *YAMLCodec) error {
		c.flow = true
		return nil
	}
}

// YAMLIndent sets the number of spaces per indentation level. It must be
// between 2 and 9.
func YAMLIndent(n int) YAMLOption {
	return func(c *YAMLCodec) error {
		if n < 2 || n > 9 {
			return fmt.Errorf("munch: yaml indent must be between 2 and 9, got %d", n)
		}
		c.indent = n
		return nil
	}
}

// WithYAMLFactory sets the constructor used for tagged mappings on load and
// by FromYAML. The default is New.
func WithYAMLFactory(f func() *Munch) YAMLOption {
	return func(c *YAMLCodec) error {
		if f == nil {
			return fmt.Errorf("munch: yaml factory cannot be nil")
		}
		c.factory = f
		return nil
	}
}

// NewYAMLCodec returns a codec configured by opts.
func NewYAMLCodec(opts ...YAMLOption) (*YAMLCodec, error) {
	c := &YAMLCodec{
		tag:     MunchTag,
		aliases: []string{ShortMunchTag},
		indent:  defaultYAMLIndent,
		factory: func() *Munch { return New() },
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *YAMLCodec) isMunchTag(tag string) bool {
	return tag == c.tag || slices.Contains(c.aliases, tag)
}

// Marshal encodes v as a single YAML document.
func (c *YAMLCodec) Marshal(v any) ([]byte, error) {
	node, err := c.Node(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("munch: encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("munch: encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Node converts v into a YAML node tree. A container reached more than once
// is written in full the first time, with an anchor, and as an alias
// afterwards; this is how cycles are represented.
func (c *YAMLCodec) Node(v any) (*yaml.Node, error) {
	b := &nodeBuilder{codec: c, nodes: make(map[nodeID]*yaml.Node)}
	return b.build(v)
}

type nodeBuilder struct {
	codec   *YAMLCodec
	nodes   map[nodeID]*yaml.Node
	anchors int
}

func (b *nodeBuilder) build(v any) (*yaml.Node, error) {
	id, tracked := identityOf(v)
	if tracked {
		if target, ok := b.nodes[id]; ok {
			if target.Anchor == "" {
				b.anchors++
				target.Anchor = fmt.Sprintf("id%03d", b.anchors)
			}
			return &yaml.Node{Kind: yaml.AliasNode, Value: target.Anchor, Alias: target}, nil
		}
	}

	var node *yaml.Node
	var pairs []Pair
	var elems []any
	switch v := v.(type) {
	case *Munch:
		if v == nil {
			return b.scalar(nil)
		}
		node = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if b.codec.tagged {
			node.Tag = b.codec.tag
		}
		pairs = v.Items()
	case map[string]any, map[any]any:
		node = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		pairs = pairsOf(v)
	case []any:
		node = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		elems = v
	case Tuple:
		node = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if b.codec.tagged {
			node.Tag = TupleTag
		}
		elems = v
	default:
		return b.scalar(v)
	}
	if b.codec.flow {
		node.Style = yaml.FlowStyle
	}
	if tracked {
		b.nodes[id] = node
	}

	for _, p := range pairs {
		k, err := b.build(p.Key)
		if err != nil {
			return nil, err
		}
		val, err := b.build(p.Value)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, k, val)
	}
	for _, e := range elems {
		n, err := b.build(e)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, n)
	}
	return node, nil
}

func (b *nodeBuilder) scalar(v any) (*yaml.Node, error) {
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, fmt.Errorf("munch: encoding %T as YAML: %w", v, err)
	}
	return node, nil
}

// Load decodes the first document in data. Mappings tagged with the
// codec's tags become Munch values, sequences tagged TupleTag become
// Tuple, and everything else decodes as yaml.v3 would decode it into an
// any. Anchors and aliases are honoured, so a document may describe a
// cycle. An empty input loads as nil.
func (c *YAMLCodec) Load(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("munch: decoding YAML: %w", err)
	}
	return c.newLoader(false).load(&doc)
}

// LoadAll decodes every document in data; see Load.
func (c *YAMLCodec) LoadAll(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("munch: decoding YAML: %w", err)
		}
		v, err := c.newLoader(false).load(&doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
}

// yamlLoader converts one node tree. seen maps already loaded container
// nodes to their results, which resolves aliases, including cyclic ones,
// to a single shared value.
type yamlLoader struct {
	codec *YAMLCodec
	// munchAll turns untagged mappings into Munch values as well.
	munchAll bool
	seen     map[*yaml.Node]any
}

func (c *YAMLCodec) newLoader(munchAll bool) *yamlLoader {
	return &yamlLoader{codec: c, munchAll: munchAll, seen: make(map[*yaml.Node]any)}
}

func (l *yamlLoader) load(node *yaml.Node) (any, error) {
	if v, ok := l.seen[node]; ok {
		return v, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return l.load(node.Content[0])
	case yaml.AliasNode:
		return l.load(node.Alias)
	case yaml.MappingNode:
		if l.munchAll || l.codec.isMunchTag(node.Tag) {
			m := l.codec.factory()
			if err := l.fill(node, m); err != nil {
				return nil, err
			}
			return m, nil
		}
		l.checkTag(node, "!!map")
		return l.plainMapping(node)
	case yaml.SequenceNode:
		var out []any
		if node.Tag == TupleTag {
			t := make(Tuple, len(node.Content))
			l.seen[node] = t
			out = t
		} else {
			l.checkTag(node, "!!seq")
			s := make([]any, len(node.Content))
			l.seen[node] = s
			out = s
		}
		for i, child := range node.Content {
			v, err := l.load(child)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return l.seen[node], nil
	}
	return l.scalar(node)
}

// checkTag logs a custom tag this codec does not know before the node is
// decoded as if it were untagged.
func (l *yamlLoader) checkTag(node *yaml.Node, want string) {
	if strings.HasPrefix(node.Tag, "!") && !strings.HasPrefix(node.Tag, "!!") {
		Logger().Debug("ignoring unknown yaml tag", zap.String("tag", node.Tag), zap.String("as", want), zap.Int("line", node.Line))
	}
}

func (l *yamlLoader) scalar(node *yaml.Node) (any, error) {
	if strings.HasPrefix(node.Tag, "!") && !strings.HasPrefix(node.Tag, "!!") {
		l.checkTag(node, "scalar")
		plain := *node
		plain.Tag = ""
		node = &plain
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("munch: decoding YAML: %w", err)
	}
	return v, nil
}

// fill loads the pairs of a mapping node into m. m is registered first so
// that aliases inside the mapping resolve to m itself.
func (l *yamlLoader) fill(node *yaml.Node, m *Munch) error {
	l.seen[node] = m
	return l.eachPair(node, func(k, v any, merged bool) {
		if merged {
			m.SetDefault(k, v)
			return
		}
		m.Set(k, v)
	})
}

// plainMapping loads the keys of node, including those pulled in through
// merge keys, before creating the map, so the map type can follow them as
// with AutoMap.
func (l *yamlLoader) plainMapping(node *yaml.Node) (any, error) {
	keys := make([]any, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if isMergeKey(node.Content[i]) {
			for _, src := range mergeSources(node.Content[i+1]) {
				v, err := l.load(src)
				if err != nil {
					return nil, err
				}
				for _, p := range pairsOf(v) {
					keys = append(keys, p.Key)
				}
			}
			continue
		}
		k, err := l.load(node.Content[i])
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	target := AutoMap(keys)
	l.seen[node] = target
	err := l.eachPair(node, func(k, v any, merged bool) {
		switch t := target.(type) {
		case map[string]any:
			s, _ := k.(string)
			if _, exists := t[s]; merged && exists {
				return
			}
			t[s] = v
		case map[any]any:
			if _, exists := t[k]; merged && exists {
				return
			}
			t[k] = v
		}
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// eachPair loads the pairs of a mapping node in order. Pairs pulled in
// through a << merge key are reported with merged set; they never replace
// a key the mapping sets explicitly.
func (l *yamlLoader) eachPair(node *yaml.Node, set func(k, v any, merged bool)) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		kn, vn := node.Content[i], node.Content[i+1]
		if isMergeKey(kn) {
			if err := l.merge(node, vn, set); err != nil {
				return err
			}
			continue
		}
		k, err := l.load(kn)
		if err != nil {
			return err
		}
		if !hashable(k) {
			return fmt.Errorf("munch: yaml line %d: unhashable key of type %T", kn.Line, k)
		}
		v, err := l.load(vn)
		if err != nil {
			return err
		}
		set(k, v, false)
	}
	return nil
}

func (l *yamlLoader) merge(parent, value *yaml.Node, set func(k, v any, merged bool)) error {
	for _, src := range mergeSources(value) {
		v, err := l.load(src)
		if err != nil {
			return err
		}
		if KindOf(v) != Mapping {
			return fmt.Errorf("munch: yaml line %d: merge value must be a mapping: %w", parent.Line, ErrNotMapping)
		}
		for _, p := range pairsOf(v) {
			set(p.Key, p.Value, true)
		}
	}
	return nil
}

// mergeSources lists the mappings named by the value of a << key, which is
// either a single mapping or a sequence of them.
func mergeSources(value *yaml.Node) []*yaml.Node {
	if value.Kind == yaml.SequenceNode {
		return value.Content
	}
	return []*yaml.Node{value}
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Value == "<<" && (node.Tag == "" || node.Tag == "!!merge")
}

// MarshalYAML writes m as a plain mapping, so yaml.Marshal treats a Munch
// exactly like a map. Use a Tagged YAMLCodec to keep the type.
func (m *Munch) MarshalYAML() (any, error) {
	c, err := NewYAMLCodec()
	if err != nil {
		return nil, err
	}
	return c.Node(m)
}

// UnmarshalYAML fills m from a mapping node, keeping the order of its keys.
// Nested mappings become Munch values of m's variant whether or not they
// are tagged.
func (m *Munch) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("munch: yaml line %d: cannot unmarshal %s into Munch: %w", node.Line, node.ShortTag(), ErrNotMapping)
	}
	c, err := NewYAMLCodec(WithYAMLFactory(m.like))
	if err != nil {
		return err
	}
	return c.newLoader(true).fill(node, m)
}

// ToYAML encodes m as YAML. Without options the output is block style,
// indented by four spaces and untagged.
func (m *Munch) ToYAML(opts ...YAMLOption) ([]byte, error) {
	c, err := NewYAMLCodec(opts...)
	if err != nil {
		return nil, err
	}
	return c.Marshal(m)
}

// FromYAML loads the first document in data and converts every mapping in
// it, tagged or not, into a Munch made by the codec's factory.
func FromYAML(data []byte, opts ...YAMLOption) (any, error) {
	c, err := NewYAMLCodec(opts...)
	if err != nil {
		return nil, err
	}
	v, err := c.Load(data)
	if err != nil {
		return nil, err
	}
	return Munchify(v, WithFactory(c.factory)), nil
}

// FromYAMLAll is FromYAML for every document in data.
func FromYAMLAll(data []byte, opts ...YAMLOption) ([]any, error) {
	c, err := NewYAMLCodec(opts...)
	if err != nil {
		return nil, err
	}
	docs, err := c.LoadAll(data)
	if err != nil {
		return nil, err
	}
	for i, d := range docs {
		docs[i] = Munchify(d, WithFactory(c.factory))
	}
	return docs, nil
}
