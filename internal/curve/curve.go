// Package curve provides piecewise-linear float curves used throughout the
// villager tuning data: need effect curves sampled per elapsed minute,
// force-probability curves keyed by normalized need value, and the
// affection-to-quantity trade curve.
package curve

import "sort"

// Key is a single (X, Y) control point.
type Key struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Curve is an ordered set of control points evaluated with linear
// interpolation. Inputs outside the key range clamp to the nearest endpoint,
// matching how authored curve assets behave.
type Curve struct {
	Keys []Key `yaml:"keys"`
}

// New builds a curve from keys, sorting them by X.
func New(keys ...Key) Curve {
	c := Curve{Keys: append([]Key(nil), keys...)}
	sort.Slice(c.Keys, func(i, j int) bool { return c.Keys[i].X < c.Keys[j].X })
	return c
}

// Constant returns a flat curve holding y over [x0, x1].
func Constant(x0, x1, y float64) Curve {
	return New(Key{X: x0, Y: y}, Key{X: x1, Y: y})
}

// IsZero reports whether the curve has no keys. A zero curve evaluates to 0
// everywhere and is treated as "not configured" by callers.
func (c Curve) IsZero() bool {
	return len(c.Keys) == 0
}

// Eval samples the curve at x.
func (c Curve) Eval(x float64) float64 {
	n := len(c.Keys)
	if n == 0 {
		return 0
	}
	if x <= c.Keys[0].X {
		return c.Keys[0].Y
	}
	if x >= c.Keys[n-1].X {
		return c.Keys[n-1].Y
	}
	// Find the first key at or beyond x.
	i := sort.Search(n, func(i int) bool { return c.Keys[i].X >= x })
	a, b := c.Keys[i-1], c.Keys[i]
	span := b.X - a.X
	if span <= 0 {
		return b.Y
	}
	t := (x - a.X) / span
	return a.Y + (b.Y-a.Y)*t
}
