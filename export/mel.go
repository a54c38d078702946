package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/util"
)

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func vec(v scene.Vec3) string {
	return num(v[0]) + " " + num(v[1]) + " " + num(v[2])
}

type melWriter struct {
	w   *bufio.Writer
	err error
}

func (m *melWriter) line(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format+"\n", args...)
}

func (m *melWriter) cube(n *scene.Node) {
	m.line(`polyCube -name "%s" -width 1 -height 1 -depth 1;`, n.Name)
	m.line(`move -relative %s "%s.scalePivot" "%s.rotatePivot";`, vec(n.Pivot), n.Name, n.Name)
	m.line(`move -absolute %s "%s";`, vec(n.Translate), n.Name)
	m.line(`scale -absolute %s "%s";`, vec(n.Scale), n.Name)
	if n.Parent != "" {
		m.line(`parent "%s" "%s";`, n.Name, n.Parent)
	}
}

// WriteMEL writes a Maya script that rebuilds s: nodes, display layers,
// keys and playback range.
func WriteMEL(w io.Writer, s *scene.Scene) error {
	m := &melWriter{w: bufio.NewWriter(w)}

	m.line("// cubemidi scene")
	m.line(`currentUnit -time "%s";`, s.TimeUnit)

	for _, n := range s.Nodes {
		switch {
		case n.Kind == scene.KindGroup:
			m.line(`group -empty -name "%s";`, n.Name)
			for _, child := range s.Children(n.Name) {
				if child.Kind == scene.KindCube {
					m.cube(child)
				}
			}
			m.line(`move -absolute %s "%s";`, vec(n.Translate), n.Name)
			m.line(`scale -absolute %s "%s";`, vec(n.Scale), n.Name)
		case n.Kind == scene.KindCube && !underGroup(s, n):
			m.cube(n)
		}
	}

	for _, l := range s.Layers {
		if len(l.Members) > 0 {
			m.line(`select -replace %s;`, quoteAll(l.Members))
		} else {
			m.line(`select -clear;`)
		}
		m.line(`createDisplayLayer -name "%s";`, l.Name)
	}
	m.line(`select -clear;`)

	for _, key := range util.GetSortedKeys(s.Curves) {
		node, attr, ok := scene.SplitCurveKey(key)
		if !ok {
			continue
		}
		for _, k := range s.Curves[key].Keys {
			m.line(`setKeyframe -attribute "%s" -time %s -value %s "%s";`, attr, num(k.Time), num(k.Value), node)
		}
	}

	m.line(`playbackOptions -minTime %s -maxTime %s;`, num(s.PlaybackStart), num(s.PlaybackEnd))

	if m.err != nil {
		return m.err
	}
	return m.w.Flush()
}

func underGroup(s *scene.Scene, n *scene.Node) bool {
	p := s.Node(n.Parent)
	return p != nil && p.Kind == scene.KindGroup
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return strings.Join(quoted, " ")
}
