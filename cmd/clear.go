package cmd

import (
	"github.com/jsphweid/cubemidi/constants"
	"github.com/jsphweid/cubemidi/export"
	"github.com/jsphweid/cubemidi/naming"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var clearScenePath string

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().StringVar(&clearScenePath, "scene", constants.GetScenePath(), "scene document to clear")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Deletes all imported midi content from the scene",
	Long:  `Deletes every transform and display layer named midiChannel* from the scene document.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := clearScene(clearScenePath)
		return err
	},
}

func clearScene(path string) (int, error) {
	s, err := export.LoadOrNew(path, constants.GetTimeUnit())
	if err != nil {
		return 0, err
	}
	deleted, err := s.DeleteMatching(naming.Pattern)
	if err != nil {
		return 0, err
	}
	if err := export.WriteJSON(path, s); err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"scene": path, "deleted": deleted}).Info("Cleared midi nodes")
	return deleted, nil
}
