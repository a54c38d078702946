package cmd

import (
	"os"
	"time"

	"github.com/jsphweid/cubemidi/constants"
	"github.com/jsphweid/cubemidi/db"
	"github.com/jsphweid/cubemidi/export"
	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/translate"
	"github.com/jsphweid/cubemidi/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type importOptions struct {
	params    model.CueParameters
	scenePath string
	timeUnit  string
	melPath   string
	record    bool
}

var importOpts = importOptions{params: model.DefaultCueParameters()}

func init() {
	rootCmd.AddCommand(importCmd)
	addCueFlags(importCmd.Flags(), &importOpts.params)
	addSceneFlags(importCmd.Flags(), &importOpts)
}

var importCmd = &cobra.Command{
	Use:   "import <file.mid>",
	Short: "Imports a midi file into the scene",
	Long: `Imports a midi file into the scene document, creating a group per channel
and an animated cube per note. Fails without touching the scene if it already
holds imported midi; run clear first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		_, err := importMidi(path, importOpts)
		return err
	},
}

func addCueFlags(fs *pflag.FlagSet, p *model.CueParameters) {
	fs.Float64Var(&p.AttackFrames, "attack-frames", p.AttackFrames, "number of frames for a note-on attack")
	fs.Float64Var(&p.DecayFrames, "decay-frames", p.DecayFrames, "number of frames for a note-on decay")
	fs.Float64Var(&p.SustainFactor, "sustain-factor", p.SustainFactor, "scale factor for a sustained note")
	fs.Float64Var(&p.ReleaseFrames, "release-frames", p.ReleaseFrames, "number of frames for a note-off release")
	fs.Float64Var(&p.MinVelocityScale, "min-velocity-scale", p.MinVelocityScale, "scale of a cube when its note is off")
	fs.Float64Var(&p.MaxVelocityScale, "max-velocity-scale", p.MaxVelocityScale, "scale of a cube hit at full velocity")
	fs.Float64Var(&p.PitchTranslation, "pitch-translation", p.PitchTranslation, "max translation (positive or negative) for pitch bends")
	fs.Float64Var(&p.FramesPerSecond, "fps", p.FramesPerSecond, "frame rate; 0 uses the scene's time unit")
	fs.BoolVar(&p.RoundFrames, "round-frames", p.RoundFrames, "key on whole frames")
	fs.BoolVar(&p.CreateDisplayLayers, "display-layers", p.CreateDisplayLayers, "create a display layer per channel")
}

func addSceneFlags(fs *pflag.FlagSet, o *importOptions) {
	fs.StringVar(&o.scenePath, "scene", constants.GetScenePath(), "scene document to import into")
	fs.StringVar(&o.timeUnit, "time-unit", "", "set the scene time unit (film, ntsc, 30fps, ...)")
	fs.StringVar(&o.melPath, "mel", "", "also write a Maya script of the scene here")
	fs.BoolVar(&o.record, "record", constants.GetImportsTable() != "", "record the import in DynamoDB (needs IMPORTS_TABLE)")
}

func newRecorder(enabled bool) (db.Recorder, error) {
	table := constants.GetImportsTable()
	if !enabled || table == "" {
		return db.Nop{}, nil
	}
	return db.Connect(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), table)
}

func newRecord(file string, res translate.Result, params model.CueParameters) model.ImportRecord {
	params.FramesPerSecond = res.FramesPerSecond
	return model.ImportRecord{
		RunID:           res.RunID,
		File:            file,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Channels:        res.Channels,
		Cubes:           res.Cubes,
		Keys:            res.Keys,
		LastFrame:       res.LastFrame,
		FramesPerSecond: res.FramesPerSecond,
		Params:          params,
	}
}

func writeMEL(path string, s *scene.Scene) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Couldn't open file: %s", path)
	}
	defer f.Close()
	if err := export.WriteMEL(f, s); err != nil {
		return errors.Wrapf(err, "Write failed for file: %s", path)
	}
	return f.Close()
}

func importMidi(path string, o importOptions) (translate.Result, error) {
	s, err := export.LoadOrNew(o.scenePath, constants.GetTimeUnit())
	if err != nil {
		return translate.Result{}, err
	}
	if o.timeUnit != "" {
		s.TimeUnit = o.timeUnit
	}

	res, err := translate.ImportFile(path, o.params, s)
	if err != nil {
		return res, err
	}
	if err := export.WriteJSON(o.scenePath, s); err != nil {
		return res, err
	}
	if o.melPath != "" {
		if err := writeMEL(o.melPath, s); err != nil {
			return res, err
		}
	}

	recorder, err := newRecorder(o.record)
	if err != nil {
		return res, err
	}
	if err := recorder.Record(newRecord(path, res, o.params)); err != nil {
		// the scene is already saved, so a lost history entry isn't fatal
		log.WithError(err).Warn("Could not record import")
	}

	log.WithFields(log.Fields{
		"scene":    o.scenePath,
		"channels": res.Channels,
		"cubes":    res.Cubes,
		"keys":     res.Keys,
		"frames":   res.LastFrame,
	}).Info("Saved scene")
	return res, nil
}
