package cmd

import (
	"path/filepath"

	"github.com/jsphweid/cubemidi/constants"
	"github.com/jsphweid/cubemidi/export"
	"github.com/jsphweid/cubemidi/render"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	previewScenePath string
	previewOut       string
	previewFrame     float64
	previewOpts      = render.DefaultOptions()
)

func init() {
	rootCmd.AddCommand(previewCmd)
	fs := previewCmd.Flags()
	fs.StringVar(&previewScenePath, "scene", constants.GetScenePath(), "scene document to render")
	fs.StringVar(&previewOut, "out", filepath.Join(constants.GetOutDir(), "preview.png"), "png to write")
	fs.Float64Var(&previewFrame, "frame", 0, "frame to render")
	fs.IntVar(&previewOpts.Width, "width", previewOpts.Width, "image width")
	fs.IntVar(&previewOpts.Height, "height", previewOpts.Height, "image height")
	fs.Float64Var(&previewOpts.Unit, "unit", previewOpts.Unit, "pixels per scene unit")
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Renders a frame of the scene to png",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := export.ReadJSON(previewScenePath)
		if err != nil {
			return err
		}
		if err := render.SavePNG(previewOut, s, previewFrame, previewOpts); err != nil {
			return err
		}
		log.WithFields(log.Fields{"frame": previewFrame, "out": previewOut}).Info("Rendered preview")
		return nil
	},
}
