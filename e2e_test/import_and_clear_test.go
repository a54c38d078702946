//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jsphweid/cubemidi/cmd"
	"github.com/jsphweid/cubemidi/db"
	"github.com/jsphweid/cubemidi/export"
	"github.com/jsphweid/cubemidi/midi/miditest"
	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var server *httptest.Server

func TestMain(m *testing.M) {
	server = httptest.NewServer(cmd.NewServer(scene.New(), db.Nop{}).Handler())
	exitVal := m.Run()
	server.Close()
	os.Exit(exitVal)
}

func postMidi(t *testing.T, path string, data []byte) *http.Response {
	resp, err := http.Post(server.URL+path, "audio/midi", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestTwoChannelSongE2E(t *testing.T) {
	song := miditest.Bytes(t,
		[]miditest.Step{
			miditest.NoteOn(0, 0, 60, 127),
			miditest.NoteOff(miditest.TicksPerSecond, 0, 60),
		},
		[]miditest.Step{
			miditest.NoteOn(0, 1, 36, 100),
			miditest.PitchBend(miditest.TicksPerQuarter, 1, 8191),
			miditest.NoteOn(0, 1, 38, 100),
			miditest.NoteOff(miditest.TicksPerQuarter, 1, 36),
			miditest.NoteOff(0, 1, 38),
		},
	)

	resp := postMidi(t, "/import?frames_per_second=24", song)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res model.ImportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))

	assert := assert.New(t)
	assert.Equal(2, res.Channels)
	assert.Equal(3, res.Cubes)
	assert.Equal(24.0, res.LastFrame)
	assert.Equal(0, res.SkippedBends)

	sceneResp, err := http.Get(server.URL + "/scene")
	require.NoError(t, err)
	defer sceneResp.Body.Close()
	s, err := export.DecodeJSON(sceneResp.Body)
	require.NoError(t, err)

	assert.Equal(scene.Vec3{0, 0, 1}, s.Node("midiChannel01").Translate)
	assert.Equal(scene.Vec3{1, 0.5, 0}, s.Node("midiChannel01_note038").Translate)
	bendAt, err := s.Evaluate("midiChannel01", "translateY", 12)
	require.NoError(t, err)
	assert.InDelta(2.0, bendAt, 1e-12)
	peak, err := s.Evaluate("midiChannel00_note060", "scaleY", 2)
	require.NoError(t, err)
	assert.Equal(4.0, peak)

	clearResp := postMidi(t, "/clear", nil)
	defer clearResp.Body.Close()
	body, _ := io.ReadAll(clearResp.Body)
	assert.JSONEq(`{"deleted": 7}`, string(body))
}
