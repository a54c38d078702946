package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsphweid/cubemidi/constants"
	"github.com/jsphweid/cubemidi/export"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/translate"
	"github.com/spf13/cobra"
)

var inspectScenePath string

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F29A38"))
	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5AB86A"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectScenePath, "scene", constants.GetScenePath(), "scene document to inspect")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Prints a summary of the scene",
	Long:  `Prints the channel groups, note cubes, display layers and key counts of a scene document.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := export.ReadJSON(inspectScenePath)
		if err != nil {
			return err
		}
		inspect(os.Stdout, s)
		return nil
	},
}

// keySummary describes the curve of node.attr as "attr keys=N frames A-B".
func keySummary(s *scene.Scene, node, attr string) string {
	c, ok := s.Curves[scene.CurveKey(node, attr)]
	if !ok {
		return fmt.Sprintf("%v keys=0", attr)
	}
	first, last, ok := c.Span()
	if !ok {
		return fmt.Sprintf("%v keys=0", attr)
	}
	return fmt.Sprintf("%v keys=%v frames %v-%v", attr, c.Len(), first, last)
}

func inspect(w io.Writer, s *scene.Scene) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("scene") + "\n")
	fmt.Fprintf(&b, "time unit: %v\n", s.TimeUnit)
	fmt.Fprintf(&b, "playback: %v - %v\n", s.PlaybackStart, s.PlaybackEnd)
	fmt.Fprintf(&b, "nodes: %v  layers: %v  keys: %v\n", len(s.Nodes), len(s.Layers), s.KeyCount())

	for _, n := range s.Nodes {
		if n.Kind != scene.KindGroup {
			continue
		}
		b.WriteString("\n" + groupStyle.Render(n.Name))
		fmt.Fprintf(&b, " z=%v %v\n", n.Translate[2], keySummary(s, n.Name, translate.TranslateAttr))
		for _, c := range s.Children(n.Name) {
			fmt.Fprintf(&b, "  %v %v\n", c.Name, dimStyle.Render(fmt.Sprintf("slot=%v %v", c.Translate[0], keySummary(s, c.Name, translate.ScaleAttr))))
		}
	}

	if len(s.Layers) > 0 {
		b.WriteString("\n" + titleStyle.Render("display layers") + "\n")
		for _, l := range s.Layers {
			fmt.Fprintf(&b, "  %v %v\n", l.Name, dimStyle.Render(strings.Join(l.Members, ", ")))
		}
	}

	fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}
