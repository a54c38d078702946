// Package naming derives scene object names from MIDI channel and note
// numbers. Names are zero padded so every (channel, note) pair in the legal
// MIDI ranges maps to a distinct name.
package naming

import "fmt"

const ChannelPrefix = "midiChannel"

// Pattern matches every name this package produces.
const Pattern = ChannelPrefix + "*"

func ChannelGroupName(channel uint8) string {
	return fmt.Sprintf("%s%02d", ChannelPrefix, channel)
}

func NoteCubeName(channel, note uint8) string {
	return fmt.Sprintf("%s_note%03d", ChannelGroupName(channel), note)
}

func DisplayLayerName(channel uint8) string {
	return ChannelGroupName(channel) + "_displayLayer"
}
