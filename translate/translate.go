// Package translate turns a MIDI event stream into animated scene content:
// one group per channel, one cube per note, with the cubes' vertical scale
// following note velocity and the groups' vertical position following pitch
// bends.
package translate

import (
	"io"

	"github.com/google/uuid"
	"github.com/jsphweid/cubemidi/curve"
	"github.com/jsphweid/cubemidi/midi"
	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/naming"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/topology"
	"github.com/jsphweid/cubemidi/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ScaleAttr     = "scaleY"
	TranslateAttr = "translateY"

	maxVelocity = 127.0
	maxPitch    = 8191.0
)

// Author is the scene authoring surface the translator drives.
type Author interface {
	Has(name string) bool
	CreateGroup(name string, translate scene.Vec3) error
	CreateCube(spec scene.CubeSpec) error
	CreateDisplayLayer(name string, members ...string) error
	Curve(node, attr string) (*curve.Curve, error)
	SetPlaybackRange(start, end float64)
}

type Result struct {
	RunID           string
	Channels        int
	Cubes           int
	Keys            int
	LastFrame       float64
	SkippedBends    int
	FramesPerSecond float64
}

type translator struct {
	params  model.CueParameters
	author  Author
	top     *topology.Topology
	touched map[*curve.Curve]bool
	logger  *log.Entry
}

// ImportFile checks path, resolves the frame rate from the scene's time unit
// when params doesn't carry one, parses the file and translates it into s.
func ImportFile(path string, params model.CueParameters, s *scene.Scene) (Result, error) {
	if path == "" {
		return Result{}, errors.WithStack(ErrMissingInput)
	}
	if !util.IsRegularFile(path) {
		return Result{}, errors.Wrapf(ErrFileNotFound, "File '%s' not found!", path)
	}
	params, err := resolveFrameRate(params, s)
	if err != nil {
		return Result{}, err
	}
	parsed, err := midi.ReadMidiFile(path)
	if err != nil {
		return Result{}, errors.Wrap(ErrParseFailure, err.Error())
	}
	return importParsed(parsed, params, s, log.Fields{"file": path})
}

// ImportReader is ImportFile for MIDI data that doesn't live on disk.
func ImportReader(r io.Reader, params model.CueParameters, s *scene.Scene) (Result, error) {
	if r == nil {
		return Result{}, errors.WithStack(ErrMissingInput)
	}
	params, err := resolveFrameRate(params, s)
	if err != nil {
		return Result{}, err
	}
	parsed, err := midi.Read(r)
	if err != nil {
		return Result{}, errors.Wrap(ErrParseFailure, err.Error())
	}
	return importParsed(parsed, params, s, log.Fields{"file": "<stream>"})
}

func resolveFrameRate(params model.CueParameters, s *scene.Scene) (model.CueParameters, error) {
	if params.FramesPerSecond > 0 {
		return params, nil
	}
	fps, err := model.FramesPerSecond(s.TimeUnit)
	if err != nil {
		return params, errors.Wrap(ErrUnknownTimeUnit, err.Error())
	}
	params.FramesPerSecond = fps
	return params, nil
}

func importParsed(parsed *smf.SMF, params model.CueParameters, s *scene.Scene, fields log.Fields) (Result, error) {
	return translate(midi.Events(parsed), params, s, log.WithFields(fields))
}

// Translate builds the scene content for events in author. It makes no
// mutation unless every precondition holds.
func Translate(events []model.MidiEvent, params model.CueParameters, author Author) (Result, error) {
	return translate(events, params, author, log.NewEntry(log.StandardLogger()))
}

func translate(events []model.MidiEvent, params model.CueParameters, author Author, logger *log.Entry) (Result, error) {
	if params.FramesPerSecond <= 0 {
		return Result{}, errors.Wrapf(ErrBadParameters, "frames per second must be positive, got %v", params.FramesPerSecond)
	}

	res := Result{RunID: uuid.New().String(), FramesPerSecond: params.FramesPerSecond}
	t := &translator{
		params:  params,
		author:  author,
		top:     topology.Discover(events),
		touched: make(map[*curve.Curve]bool),
		logger:  logger.WithField("run", res.RunID),
	}

	if err := t.checkNames(); err != nil {
		return Result{}, err
	}

	t.logger.WithFields(log.Fields{
		"events":   len(events),
		"channels": len(t.top.Channels),
		"fps":      params.FramesPerSecond,
	}).Info("Importing midi")

	if err := t.build(); err != nil {
		return Result{}, err
	}
	last, skipped, err := t.animate(events)
	if err != nil {
		return Result{}, err
	}

	res.Channels = len(t.top.Channels)
	res.Cubes = t.top.CubeCount()
	res.LastFrame = last
	res.SkippedBends = skipped
	for c := range t.touched {
		res.Keys += c.Len()
	}

	t.logger.WithFields(log.Fields{
		"cubes":     res.Cubes,
		"keys":      res.Keys,
		"lastFrame": res.LastFrame,
	}).Info("Imported midi")
	return res, nil
}

func (t *translator) checkNames() error {
	for _, ch := range t.top.Channels {
		names := []string{naming.ChannelGroupName(ch.Channel)}
		if t.params.CreateDisplayLayers {
			names = append(names, naming.DisplayLayerName(ch.Channel))
		}
		for _, note := range ch.Notes {
			names = append(names, naming.NoteCubeName(ch.Channel, note))
		}
		for _, name := range names {
			if t.author.Has(name) {
				return errors.Wrapf(ErrNameTaken, "%s exists, clear the scene first", name)
			}
		}
	}
	return nil
}

// build creates the channel groups, layers and note cubes.
func (t *translator) build() error {
	for _, ch := range t.top.Channels {
		group := naming.ChannelGroupName(ch.Channel)
		if err := t.author.CreateGroup(group, scene.Vec3{0, 0, float64(ch.Index)}); err != nil {
			return err
		}

		for slot, note := range ch.Notes {
			err := t.author.CreateCube(scene.CubeSpec{
				Name:      naming.NoteCubeName(ch.Channel, note),
				Parent:    group,
				Translate: scene.Vec3{float64(slot), 0.5, 0},
				// pivot at the base so scaling grows upward
				Pivot: scene.Vec3{0, -0.5, 0},
				Scale: scene.Vec3{1, t.params.MinVelocityScale, 1},
			})
			if err != nil {
				return err
			}
		}

		if t.params.CreateDisplayLayers {
			if err := t.author.CreateDisplayLayer(naming.DisplayLayerName(ch.Channel), group); err != nil {
				return err
			}
		}

		t.logger.WithFields(log.Fields{
			"channel": ch.Channel,
			"index":   ch.Index,
			"notes":   len(ch.Notes),
		}).Debug("Created channel group")
	}
	return nil
}

func (t *translator) curve(node, attr string) (*curve.Curve, error) {
	c, err := t.author.Curve(node, attr)
	if err != nil {
		return nil, err
	}
	t.touched[c] = true
	return c, nil
}

// animate keys every event and sets the playback range. It returns the last
// frame and how many pitch bends had no channel group to move.
func (t *translator) animate(events []model.MidiEvent) (float64, int, error) {
	var skipped int
	clock := NewFrameClock(t.params.FramesPerSecond, t.params.RoundFrames)

	for _, e := range events {
		frame := clock.Advance(e.DeltaUs)

		switch {
		case e.IsNote():
			c, err := t.curve(naming.NoteCubeName(e.Channel, e.Note), ScaleAttr)
			if err != nil {
				return 0, 0, err
			}
			if e.IsRelease() {
				t.release(c, frame)
			} else {
				t.attack(c, frame, e.Velocity)
			}
		case e.Kind == model.PitchBend:
			if _, ok := t.top.Channel(e.Channel); !ok {
				skipped++
				t.logger.WithFields(log.Fields{
					"channel": e.Channel,
					"frame":   frame,
				}).Warn("Skipping pitch bend on channel without notes")
				continue
			}
			c, err := t.curve(naming.ChannelGroupName(e.Channel), TranslateAttr)
			if err != nil {
				return 0, 0, err
			}
			t.bend(c, frame, e.Pitch)
		}
	}

	last := util.RoundHalfEven(clock.Elapsed())
	t.author.SetPlaybackRange(0, last)
	return last, skipped, nil
}

// interrupt freezes c at frame and drops anything scheduled after it, so a
// new envelope starts from wherever the previous one had got to.
func interrupt(c *curve.Curve, frame float64) {
	c.Hold(frame)
	c.ClearAfter(frame)
}

func AttackScale(velocity uint8, maxScale float64) float64 {
	return float64(velocity) / maxVelocity * maxScale
}

func PitchTranslation(pitch int16, rng float64) float64 {
	return float64(pitch) / maxPitch * rng
}

func (t *translator) attack(c *curve.Curve, frame float64, velocity uint8) {
	attack := AttackScale(velocity, t.params.MaxVelocityScale)
	sustain := attack * t.params.SustainFactor
	interrupt(c, frame)
	c.Set(frame+t.params.AttackFrames, attack)
	c.Set(frame+t.params.AttackFrames+t.params.DecayFrames, sustain)
}

func (t *translator) release(c *curve.Curve, frame float64) {
	interrupt(c, frame)
	c.Set(frame+t.params.ReleaseFrames, t.params.MinVelocityScale)
}

func (t *translator) bend(c *curve.Curve, frame float64, pitch int16) {
	// stops the new value from bleeding back into the previous segment
	c.Hold(frame - 1)
	c.Set(frame, PitchTranslation(pitch, t.params.PitchTranslation))
}
