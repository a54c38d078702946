package midi

import (
	"sort"

	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/util"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	minPitch = -8192
	maxPitch = 8191
)

type timedEvent struct {
	absTicks int64
	track    int
	event    model.MidiEvent
}

func decode(msg gomidi.Message) (model.MidiEvent, bool) {
	var channel, key, velocity uint8
	var relative int16
	var absolute uint16
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		return model.MidiEvent{
			Kind:     model.NoteOn,
			Channel:  channel,
			Note:     util.Clamp(key, 0, 127),
			Velocity: util.Clamp(velocity, 0, 127),
		}, true
	case msg.GetNoteOff(&channel, &key, &velocity):
		return model.MidiEvent{
			Kind:     model.NoteOff,
			Channel:  channel,
			Note:     util.Clamp(key, 0, 127),
			Velocity: util.Clamp(velocity, 0, 127),
		}, true
	case msg.GetPitchBend(&channel, &relative, &absolute):
		return model.MidiEvent{
			Kind:    model.PitchBend,
			Channel: channel,
			Pitch:   util.Clamp(relative, minPitch, maxPitch),
		}, true
	}
	return model.MidiEvent{}, false
}

// Events merges every track of s into one stream ordered by time and returns
// the note and pitch bend events with microsecond deltas. Events at the same
// tick keep track order, then file order. Other messages are dropped, but
// still count towards time because deltas are taken from absolute times.
func Events(s *smf.SMF) []model.MidiEvent {
	var timed []timedEvent
	for trackNum, track := range s.Tracks {
		var absTicks int64
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			e, ok := decode(gomidi.Message(ev.Message))
			if !ok {
				continue
			}
			timed = append(timed, timedEvent{absTicks: absTicks, track: trackNum, event: e})
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].absTicks != timed[j].absTicks {
			return timed[i].absTicks < timed[j].absTicks
		}
		return timed[i].track < timed[j].track
	})

	res := make([]model.MidiEvent, 0, len(timed))
	var prevUs int64
	for _, te := range timed {
		us := s.TimeAt(te.absTicks)
		te.event.DeltaUs = util.Max(us-prevUs, 0)
		prevUs = us
		res = append(res, te.event)
	}
	return res
}
