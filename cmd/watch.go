package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bep/debounce"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	watchOpts     = importOptions{params: importOpts.params}
	watchInterval time.Duration
	watchSettle   time.Duration
)

func init() {
	rootCmd.AddCommand(watchCmd)
	addCueFlags(watchCmd.Flags(), &watchOpts.params)
	addSceneFlags(watchCmd.Flags(), &watchOpts)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "how often to check the file")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", time.Second, "wait this long after the last change before importing")
}

var watchCmd = &cobra.Command{
	Use:   "watch <file.mid>",
	Short: "Re-imports a midi file whenever it changes",
	Long: `Clears and re-imports the midi file every time it changes on disk.
Bursts of changes, like an editor saving in several steps, cause one import.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return watch(ctx, args[0], watchOpts, watchInterval, watchSettle)
	},
}

// debounced imports run on timer goroutines
var reimportMu sync.Mutex

func reimport(path string, o importOptions) {
	reimportMu.Lock()
	defer reimportMu.Unlock()

	if _, err := clearScene(o.scenePath); err != nil {
		log.WithError(err).Error("Could not clear scene")
		return
	}
	if _, err := importMidi(path, o); err != nil {
		log.WithError(err).Error("Could not import midi")
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// watch imports path once, then again whenever its modification time moves,
// until ctx is done.
func watch(ctx context.Context, path string, o importOptions, interval, settle time.Duration) error {
	reimport(path, o)

	debounced := debounce.New(settle)
	last := modTime(path)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.WithField("file", path).Info("Watching for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			mt := modTime(path)
			if mt.Equal(last) {
				continue
			}
			last = mt
			log.WithField("file", path).Debug("Change detected")
			debounced(func() { reimport(path, o) })
		}
	}
}
