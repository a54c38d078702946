package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneWithNote(t *testing.T) *scene.Scene {
	p := model.DefaultCueParameters()
	p.FramesPerSecond = 24
	s := scene.New()
	_, err := translate.Translate([]model.MidiEvent{
		{Kind: model.NoteOn, Channel: 0, Note: 60, Velocity: 127},
		{Kind: model.NoteOff, Channel: 0, Note: 60, DeltaUs: 1000000},
	}, p, s)
	require.NoError(t, err)
	return s
}

func TestFrameHasRequestedSize(t *testing.T) {
	o := Options{Width: 320, Height: 200, Unit: 10}
	img, err := Frame(sceneWithNote(t), 2, o)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestFrameDrawsTallerBarAtAttackPeak(t *testing.T) {
	s := sceneWithNote(t)
	o := Options{Width: 200, Height: 200, Unit: 10}

	rest, err := Frame(s, 0, o)
	require.NoError(t, err)
	peak, err := Frame(s, 2, o)
	require.NoError(t, err)

	// column through the middle of the single bar, 25 units above the base
	x := int(o.Unit*5 + o.Unit*0.45)
	y := int(float64(o.Height) - o.Unit/2 - 2.5*o.Unit)
	assert.NotEqual(t, rest.At(x, y), peak.At(x, y))
}

func TestFrameOnEmptyScene(t *testing.T) {
	_, err := Frame(scene.New(), 0, DefaultOptions())
	assert.NoError(t, err)
}

func TestWriteAndSavePNG(t *testing.T) {
	s := sceneWithNote(t)
	o := Options{Width: 64, Height: 64, Unit: 4}

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, s, 1, o))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	path := filepath.Join(t.TempDir(), "frames", "f.png")
	require.NoError(t, SavePNG(path, s, 1, o))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
