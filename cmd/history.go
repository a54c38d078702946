package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jsphweid/cubemidi/constants"
	"github.com/jsphweid/cubemidi/db"
	"github.com/jsphweid/cubemidi/model"
	"github.com/jsphweid/cubemidi/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var historyRun string

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyRun, "run", "", "show a single import by run id instead")
}

var historyCmd = &cobra.Command{
	Use:   "history [file.mid]",
	Short: "Lists recorded imports of a midi file",
	Long: `Lists the imports recorded in the IMPORTS_TABLE DynamoDB table for a midi file,
given the same way it was given to import (or by name for uploads to serve).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := constants.GetImportsTable()
		if table == "" {
			return errors.New("IMPORTS_TABLE is not set")
		}
		store, err := db.Connect(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), table)
		if err != nil {
			return err
		}
		file := ""
		if len(args) > 0 {
			file = args[0]
		}
		return history(os.Stdout, store, file, historyRun)
	},
}

type importHistory interface {
	Get(runID string) (*model.ImportRecord, error)
	ForFile(file string) ([]model.ImportRecord, error)
}

func history(w io.Writer, store importHistory, file, runID string) error {
	var records []model.ImportRecord
	switch {
	case runID != "":
		r, err := store.Get(runID)
		if err != nil {
			return err
		}
		if r == nil {
			return errors.Errorf("No import with run id %s", runID)
		}
		records = append(records, *r)
	case file != "":
		var err error
		if records, err = store.ForFile(file); err != nil {
			return err
		}
	default:
		return errors.New("Need a midi file or --run")
	}

	printHistory(w, records)
	return nil
}

func printHistory(w io.Writer, records []model.ImportRecord) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("imports") + "\n")
	if len(records) == 0 {
		b.WriteString(dimStyle.Render("none recorded"))
		fmt.Fprintln(w, boxStyle.Render(b.String()))
		return
	}

	keys := make([]int, len(records))
	for i, r := range records {
		keys[i] = r.Keys
		b.WriteString(groupStyle.Render(r.RunID))
		fmt.Fprintf(&b, " %v\n", dimStyle.Render(r.CreatedAt))
		fmt.Fprintf(&b, "  %v  channels=%v cubes=%v keys=%v frames=%v fps=%v\n",
			r.File, r.Channels, r.Cubes, r.Keys, r.LastFrame, r.FramesPerSecond)
	}
	fmt.Fprintf(&b, "\n%v imports, %v keys in total", len(records), util.Sum(keys))
	fmt.Fprintln(w, boxStyle.Render(b.String()))
}
