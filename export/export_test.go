package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/cubemidi/curve"
	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importedScene(t *testing.T) *scene.Scene {
	p := model.DefaultCueParameters()
	p.FramesPerSecond = 24
	s := scene.New()
	_, err := translate.Translate([]model.MidiEvent{
		{Kind: model.NoteOn, Channel: 0, Note: 60, Velocity: 127},
		{Kind: model.NoteOn, Channel: 1, Note: 40, Velocity: 64},
		{Kind: model.PitchBend, Channel: 1, Pitch: 8191, DeltaUs: 500000},
		{Kind: model.NoteOff, Channel: 0, Note: 60, DeltaUs: 500000},
	}, p, s)
	require.NoError(t, err)
	return s
}

func TestJSONRoundTripKeepsScene(t *testing.T) {
	s := importedScene(t)
	path := filepath.Join(t.TempDir(), "out", "scene.json")
	require.NoError(t, WriteJSON(path, s))

	loaded, err := ReadJSON(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(s.Nodes, loaded.Nodes)
	assert.Equal(s.Layers, loaded.Layers)
	assert.Equal(s.PlaybackEnd, loaded.PlaybackEnd)
	assert.Equal(s.KeyCount(), loaded.KeyCount())
	v, err := loaded.Evaluate("midiChannel00_note060", "scaleY", 2)
	require.NoError(t, err)
	assert.Equal(4.0, v)
}

func TestLoadOrNewWithoutFile(t *testing.T) {
	s, err := LoadOrNew(filepath.Join(t.TempDir(), "nothing.json"), "")
	require.NoError(t, err)
	assert.Empty(t, s.Nodes)
	assert.Equal(t, scene.DefaultTimeUnit, s.TimeUnit)

	s, err = LoadOrNew(filepath.Join(t.TempDir(), "nothing.json"), "ntsc")
	require.NoError(t, err)
	assert.Equal(t, "ntsc", s.TimeUnit)
}

func TestLoadOrNewKeepsSavedTimeUnit(t *testing.T) {
	s := importedScene(t)
	s.TimeUnit = "pal"
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, WriteJSON(path, s))

	loaded, err := LoadOrNew(path, "ntsc")
	require.NoError(t, err)
	assert.Equal(t, "pal", loaded.TimeUnit)
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader("{nope"))
	assert.Error(t, err)
}

func TestDecodeJSONRejectsBadCurveKeys(t *testing.T) {
	for _, key := range []string{"scaleY", ".scaleY", "midiChannel00."} {
		doc := `{"time_unit": "film", "curves": {"` + key + `": {"static": 1, "keys": []}}}`
		_, err := DecodeJSON(strings.NewReader(doc))
		assert.Error(t, err, key)
	}
}

func TestWriteMELSkipsBadCurveKeys(t *testing.T) {
	s := importedScene(t)
	s.Curves["nodot"] = &curve.Curve{Keys: []curve.Key{{Time: 1, Value: 2}}}
	var buf bytes.Buffer
	require.NoError(t, WriteMEL(&buf, s))
	assert.NotContains(t, buf.String(), "nodot")
}

func TestWriteMEL(t *testing.T) {
	s := importedScene(t)
	var buf bytes.Buffer
	require.NoError(t, WriteMEL(&buf, s))
	out := buf.String()

	assert := assert.New(t)
	assert.Equal(2, strings.Count(out, "polyCube "))
	assert.Equal(2, strings.Count(out, "group -empty"))
	assert.Equal(2, strings.Count(out, "createDisplayLayer "))
	assert.Contains(out, `currentUnit -time "film";`)
	assert.Contains(out, `polyCube -name "midiChannel00_note060" -width 1 -height 1 -depth 1;`)
	assert.Contains(out, `move -relative 0 -0.5 0 "midiChannel00_note060.scalePivot" "midiChannel00_note060.rotatePivot";`)
	assert.Contains(out, `parent "midiChannel01_note040" "midiChannel01";`)
	assert.Contains(out, `move -absolute 0 0 1 "midiChannel01";`)
	assert.Contains(out, `setKeyframe -attribute "scaleY" -time 2 -value 4 "midiChannel00_note060";`)
	assert.Contains(out, `setKeyframe -attribute "translateY" -time 12 -value 2 "midiChannel01";`)
	assert.Contains(out, `playbackOptions -minTime 0 -maxTime 24;`)

	// cubes are built before the group moves so they inherit its offset
	assert.Less(strings.Index(out, `parent "midiChannel01_note040"`), strings.Index(out, `move -absolute 0 0 1 "midiChannel01";`))
}
