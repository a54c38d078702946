package model

import "fmt"

type EventKind uint8

const (
	NoteOn EventKind = iota + 1
	NoteOff
	PitchBend
)

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "NoteOn"
	case NoteOff:
		return "NoteOff"
	case PitchBend:
		return "PitchBend"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// MidiEvent is a single channel event in file order. Note and Velocity are
// only meaningful for NoteOn/NoteOff, Pitch only for PitchBend.
type MidiEvent struct {
	Kind     EventKind
	Channel  uint8
	Note     uint8
	Velocity uint8
	Pitch    int16

	// microseconds since the previous event in the merged stream
	DeltaUs int64
}

func (e MidiEvent) IsNote() bool {
	return e.Kind == NoteOn || e.Kind == NoteOff
}

// IsRelease reports whether the event ends a note, including the
// NoteOn-with-zero-velocity convention.
func (e MidiEvent) IsRelease() bool {
	return e.Kind == NoteOff || (e.Kind == NoteOn && e.Velocity == 0)
}
