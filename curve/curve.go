// Package curve holds animation curves as explicit ordered control points.
package curve

import (
	"sort"
)

type Key struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Curve is a piecewise linear animation curve. Static is the attribute value
// when the curve has no keys.
type Curve struct {
	Static float64 `json:"static"`
	Keys   []Key   `json:"keys"`
}

func New(static float64) *Curve {
	return &Curve{Static: static}
}

func (c *Curve) Len() int {
	return len(c.Keys)
}

// search returns the index of the first key at or after t.
func (c *Curve) search(t float64) int {
	return sort.Search(len(c.Keys), func(i int) bool {
		return c.Keys[i].Time >= t
	})
}

// Set inserts a key at t, replacing any key already at t.
func (c *Curve) Set(t, v float64) {
	i := c.search(t)
	if i < len(c.Keys) && c.Keys[i].Time == t {
		c.Keys[i].Value = v
		return
	}
	c.Keys = append(c.Keys, Key{})
	copy(c.Keys[i+1:], c.Keys[i:])
	c.Keys[i] = Key{Time: t, Value: v}
}

// ClearAfter drops every key strictly after t and returns how many were
// removed.
func (c *Curve) ClearAfter(t float64) int {
	i := sort.Search(len(c.Keys), func(i int) bool {
		return c.Keys[i].Time > t
	})
	removed := len(c.Keys) - i
	c.Keys = c.Keys[:i]
	return removed
}

// ValueAt evaluates the curve at t. Before the first key and after the last
// the curve holds flat.
func (c *Curve) ValueAt(t float64) float64 {
	n := len(c.Keys)
	if n == 0 {
		return c.Static
	}
	if t <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	if t >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value
	}
	i := c.search(t)
	next := c.Keys[i]
	if next.Time == t {
		return next.Value
	}
	prev := c.Keys[i-1]
	alpha := (t - prev.Time) / (next.Time - prev.Time)
	return prev.Value + alpha*(next.Value-prev.Value)
}

// Hold keys the value the curve currently has at t.
func (c *Curve) Hold(t float64) {
	c.Set(t, c.ValueAt(t))
}

// Span returns the first and last key times. ok is false for an empty curve.
func (c *Curve) Span() (first, last float64, ok bool) {
	if len(c.Keys) == 0 {
		return 0, 0, false
	}
	return c.Keys[0].Time, c.Keys[len(c.Keys)-1].Time, true
}

func (c *Curve) Times() []float64 {
	res := make([]float64, len(c.Keys))
	for i, k := range c.Keys {
		res[i] = k.Time
	}
	return res
}
