// Package topology finds which channels and notes a MIDI stream uses and
// assigns them positions in the generated scene.
package topology

import (
	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/util"
)

type Channel struct {
	Channel uint8
	// order of first appearance among channels that play notes
	Index int
	// distinct notes, ascending; a note's slot is its position here
	Notes []uint8
}

type Topology struct {
	Channels []Channel
	index    map[uint8]int
}

// Discover scans note events only. Channels that only carry pitch bends or
// other messages get no entry.
func Discover(events []model.MidiEvent) *Topology {
	var order []uint8
	notes := make(map[uint8]map[uint8]bool)
	for _, e := range events {
		if !e.IsNote() {
			continue
		}
		seen, ok := notes[e.Channel]
		if !ok {
			seen = make(map[uint8]bool)
			notes[e.Channel] = seen
			order = append(order, e.Channel)
		}
		seen[e.Note] = true
	}

	t := &Topology{index: make(map[uint8]int)}
	for i, ch := range order {
		t.Channels = append(t.Channels, Channel{
			Channel: ch,
			Index:   i,
			Notes:   util.GetSortedKeys(notes[ch]),
		})
		t.index[ch] = i
	}
	return t
}

func (t *Topology) Channel(ch uint8) (Channel, bool) {
	i, ok := t.index[ch]
	if !ok {
		return Channel{}, false
	}
	return t.Channels[i], true
}

func (t *Topology) CubeCount() int {
	var n int
	for _, c := range t.Channels {
		n += len(c.Notes)
	}
	return n
}
