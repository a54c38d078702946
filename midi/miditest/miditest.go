// Package miditest writes small Standard MIDI Files for tests.
package miditest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerQuarter is the resolution of every file built here. At the fixed
// 120 BPM tempo one second is 2*TicksPerQuarter ticks.
const TicksPerQuarter = 960

const TicksPerSecond = 2 * TicksPerQuarter

type Step struct {
	Delta uint32
	Msg   []byte
}

func NoteOn(delta uint32, channel, key, velocity uint8) Step {
	return Step{delta, gomidi.NoteOn(channel, key, velocity)}
}

func NoteOff(delta uint32, channel, key uint8) Step {
	return Step{delta, gomidi.NoteOff(channel, key)}
}

func PitchBend(delta uint32, channel uint8, value int16) Step {
	return Step{delta, gomidi.Pitchbend(channel, value)}
}

func ControlChange(delta uint32, channel, controller, value uint8) Step {
	return Step{delta, gomidi.ControlChange(channel, controller, value)}
}

// Bytes encodes tracks as an SMF at 120 BPM. The tempo is set on the first
// track.
func Bytes(tb testing.TB, tracks ...[]Step) []byte {
	tb.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	for i, steps := range tracks {
		var tr smf.Track
		if i == 0 {
			tr.Add(0, smf.MetaTempo(120))
		}
		for _, st := range steps {
			tr.Add(st.Delta, st.Msg)
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			tb.Fatalf("adding track %d: %v", i, err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		tb.Fatalf("writing smf: %v", err)
	}
	return buf.Bytes()
}

// File writes the tracks to name inside a fresh temp dir and returns the path.
func File(tb testing.TB, name string, tracks ...[]Step) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, Bytes(tb, tracks...), 0644); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}
	return path
}
