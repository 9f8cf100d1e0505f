package munch

import "fmt"

// overlayPairs flattens overlays into pairs, failing before anything is
// applied if one of them is not a mapping or pair list.
func overlayPairs(overlays []any) ([]Pair, error) {
	var pairs []Pair
	for _, o := range overlays {
		switch v := o.(type) {
		case *Munch, map[string]any, map[any]any:
			pairs = append(pairs, pairsOf(v)...)
		case []Pair:
			pairs = append(pairs, v...)
		case Pair:
			pairs = append(pairs, v)
		default:
			return nil, fmt.Errorf("munch: cannot merge %T: %w", o, ErrNotMapping)
		}
	}
	return pairs, nil
}

// Update applies overlays to m in order; later keys override earlier ones.
// Each overlay is a *Munch, map[string]any, map[any]any, []Pair or Pair.
// On error m is left unchanged.
func (m *Munch) Update(overlays ...any) error {
	pairs, err := overlayPairs(overlays)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return nil
}

// Merge returns a new Munch of m's variant holding m's pairs overlaid with
// overlays. m is not modified.
func (m *Munch) Merge(overlays ...any) (*Munch, error) {
	pairs, err := overlayPairs(overlays)
	if err != nil {
		return nil, err
	}
	c := m.Copy()
	for _, p := range pairs {
		c.Set(p.Key, p.Value)
	}
	return c, nil
}

// MergeOnto returns a new Munch of m's variant holding base's pairs
// overlaid with m's. Neither is modified.
func (m *Munch) MergeOnto(base any) (*Munch, error) {
	pairs, err := overlayPairs([]any{base})
	if err != nil {
		return nil, err
	}
	c := m.like()
	for _, p := range pairs {
		c.Set(p.Key, p.Value)
	}
	for _, e := range m.entries {
		c.Set(e.Key, e.Value)
	}
	return c, nil
}

// MergeInPlace applies overlays to m and returns m itself.
func (m *Munch) MergeInPlace(overlays ...any) (*Munch, error) {
	if err := m.Update(overlays...); err != nil {
		return nil, err
	}
	return m, nil
}
