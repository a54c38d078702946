package model

import (
	"fmt"
	"strconv"
	"strings"
)

var namedTimeUnits = map[string]float64{
	"game":  15.0,
	"film":  24.0,
	"pal":   25.0,
	"ntsc":  30.0,
	"show":  48.0,
	"palf":  50.0,
	"ntscf": 60.0,
}

// FramesPerSecond resolves a time unit name ("film", "ntsc", ...) or a
// "<n>fps" string to a frame rate.
func FramesPerSecond(unit string) (float64, error) {
	if fps, ok := namedTimeUnits[unit]; ok {
		return fps, nil
	}
	if strings.HasSuffix(unit, "fps") {
		fps, err := strconv.ParseFloat(strings.TrimSuffix(unit, "fps"), 64)
		if err == nil && fps > 0 {
			return fps, nil
		}
	}
	return 0, fmt.Errorf("unknown time unit %q", unit)
}
