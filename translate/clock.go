package translate

import "github.com/jsphweid/cubemidi/util"

// FrameClock accumulates microsecond deltas as fractional frames.
type FrameClock struct {
	fps     float64
	round   bool
	elapsed float64
}

func NewFrameClock(fps float64, round bool) *FrameClock {
	return &FrameClock{fps: fps, round: round}
}

// Advance moves the clock and returns the frame to key at. Rounding only
// applies to the returned frame, never to the running total.
func (c *FrameClock) Advance(deltaUs int64) float64 {
	c.elapsed += float64(deltaUs) / 1000000.0 * c.fps
	if c.round {
		return util.RoundHalfEven(c.elapsed)
	}
	return c.elapsed
}

func (c *FrameClock) Elapsed() float64 {
	return c.elapsed
}
