package cmd

import (
	"github.com/jsphweid/cubemidi/constants"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "cubemidi",
	Short: "Turns midi files into animated cubes",
	Long: `cubemidi reads a midi file and builds a scene with one group per channel
and one cube per note. Cube heights follow note velocity and group heights
follow pitch bends.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "log level (debug, info, warn, error)")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
