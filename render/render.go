// Package render draws a frame of a generated scene as a flat diagram: one
// bar per cube, one row per channel group.
package render

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/translate"
	"github.com/jsphweid/cubemidi/util"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

type Color struct {
	R float64
	G float64
	B float64
}

var colors = []Color{
	{0.95, 0.55, 0.2},
	{0.35, 0.75, 0.4},
	{0.3, 0.55, 0.9},
	{0.8, 0.4, 0.75},
	{0.9, 0.8, 0.3},
}

type Options struct {
	Width  int
	Height int
	// pixels per scene unit
	Unit float64
}

func DefaultOptions() Options {
	return Options{Width: 1280, Height: 720, Unit: 24}
}

func getColor(i int) Color {
	return colors[i%len(colors)]
}

func getDarkerShade(c Color) Color {
	var d = 0.8
	return Color{c.R * d, c.G * d, c.B * d}
}

func prepareScreen(dc *gg.Context, o Options) {
	dc.SetRGB(0.17, 0.17, 0.17)
	dc.DrawRectangle(0, 0, float64(o.Width), float64(o.Height))
	dc.Fill()
}

func parseFont() (*truetype.Font, error) {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "Could not parse font")
	}
	return font, nil
}

// Frame draws s at frame. Each channel group gets a row ordered by its z
// position, shifted by its evaluated vertical translation; each cube is a
// bar whose height is its evaluated vertical scale.
func Frame(s *scene.Scene, frame float64, o Options) (image.Image, error) {
	dc := gg.NewContext(o.Width, o.Height)
	prepareScreen(dc, o)

	font, err := parseFont()
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: util.Max(o.Unit/2, 6)}))

	var groups []*scene.Node
	for _, n := range s.Nodes {
		if n.Kind == scene.KindGroup {
			groups = append(groups, n)
		}
	}

	rows := util.Max(len(groups), 1)
	rowH := float64(o.Height) / float64(rows)
	left := o.Unit * 5

	for i, g := range groups {
		lift, err := s.Evaluate(g.Name, translate.TranslateAttr, frame)
		if err != nil {
			return nil, err
		}
		base := rowH*float64(i+1) - o.Unit/2 - lift*o.Unit
		c := getColor(int(g.Translate[2]))

		dc.SetRGBA(1, 1, 1, 0.3)
		dc.SetLineWidth(0.5)
		dc.DrawLine(0, base, float64(o.Width), base)
		dc.Stroke()

		dc.SetRGBA(1, 1, 1, 0.8)
		dc.DrawString(g.Name, 4, base-2)

		for _, cube := range s.Children(g.Name) {
			if cube.Kind != scene.KindCube {
				continue
			}
			h, err := s.Evaluate(cube.Name, translate.ScaleAttr, frame)
			if err != nil {
				return nil, err
			}
			x := left + cube.Translate[0]*o.Unit
			dc.DrawRectangle(x, base-h*o.Unit, o.Unit*0.9, h*o.Unit)
			d := getDarkerShade(c)
			dc.SetRGB(d.R, d.G, d.B)
			dc.FillPreserve()
			dc.SetRGB(c.R, c.G, c.B)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
	}

	dc.SetRGBA(1, 1, 1, 0.6)
	dc.DrawStringAnchored(fmt.Sprintf("frame %v", frame), float64(o.Width)-4, float64(o.Height)-4, 1, 0)
	return dc.Image(), nil
}

func WritePNG(w io.Writer, s *scene.Scene, frame float64, o Options) error {
	img, err := Frame(s, frame, o)
	if err != nil {
		return err
	}
	return errors.Wrap(gg.NewContextForImage(img).EncodePNG(w), "Could not encode png")
}

func SavePNG(path string, s *scene.Scene, frame float64, o Options) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	img, err := Frame(s, frame, o)
	if err != nil {
		return err
	}
	return errors.Wrapf(gg.SavePNG(path, img), "Could not save %s", path)
}
