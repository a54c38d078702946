package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyCurveReturnsStatic(t *testing.T) {
	c := New(0.1)
	assert.Equal(t, 0.1, c.ValueAt(-5))
	assert.Equal(t, 0.1, c.ValueAt(100))
	_, _, ok := c.Span()
	assert.False(t, ok)
}

func TestSetKeepsKeysOrderedAndReplaces(t *testing.T) {
	c := New(0)
	c.Set(10, 1)
	c.Set(0, 2)
	c.Set(5, 3)
	c.Set(5, 4)

	assert := assert.New(t)
	assert.Equal([]float64{0, 5, 10}, c.Times())
	assert.Equal(4.0, c.ValueAt(5))
}

func TestValueAtInterpolatesAndHoldsFlat(t *testing.T) {
	c := New(0)
	c.Set(0, 0)
	c.Set(10, 10)

	assert := assert.New(t)
	assert.Equal(0.0, c.ValueAt(-1))
	assert.InDelta(2.5, c.ValueAt(2.5), 1e-9)
	assert.Equal(10.0, c.ValueAt(10))
	assert.Equal(10.0, c.ValueAt(50))
}

func TestClearAfterIsStrict(t *testing.T) {
	c := New(0)
	for _, tm := range []float64{0, 2, 3, 4, 8} {
		c.Set(tm, tm)
	}

	assert := assert.New(t)
	assert.Equal(2, c.ClearAfter(3.5))
	assert.Equal([]float64{0, 2, 3}, c.Times())
	assert.Equal(0, c.ClearAfter(3))
	assert.Equal([]float64{0, 2, 3}, c.Times())
}

func TestHoldThenClearFreezesInterpolatedValue(t *testing.T) {
	c := New(0)
	c.Set(0, 0)
	c.Set(4, 8)
	c.Hold(2)
	c.ClearAfter(2)

	assert := assert.New(t)
	assert.Equal([]float64{0, 2}, c.Times())
	assert.Equal(4.0, c.ValueAt(2))
	assert.Equal(2.0, c.ValueAt(1))
	assert.Equal(4.0, c.ValueAt(3))
}
