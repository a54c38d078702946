// Package scene is an in-process scene graph: transform nodes, display
// layers and per-attribute animation curves.
package scene

import (
	"path"
	"strings"

	"github.com/jsphweid/cubemidi/curve"
	"github.com/pkg/errors"
)

const DefaultTimeUnit = "film"

var (
	ErrNameTaken    = errors.New("name already exists in scene")
	ErrNoSuchNode   = errors.New("no such node")
	ErrBadAttribute = errors.New("unsupported attribute")
)

var (
	defaultScale     = Vec3{1, 1, 1}
	attributeIndexes = map[string]int{"X": 0, "Y": 1, "Z": 2}
)

type Vec3 [3]float64

type NodeKind string

const (
	KindGroup NodeKind = "group"
	KindCube  NodeKind = "cube"
)

type Node struct {
	Name      string   `json:"name"`
	Kind      NodeKind `json:"kind"`
	Parent    string   `json:"parent,omitempty"`
	Translate Vec3     `json:"translate"`
	Scale     Vec3     `json:"scale"`

	// offset of the scale and rotate pivots from the node's origin
	Pivot Vec3 `json:"pivot"`
}

type DisplayLayer struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CubeSpec struct {
	Name      string
	Parent    string
	Translate Vec3
	Pivot     Vec3
	Scale     Vec3
}

type Scene struct {
	TimeUnit      string                  `json:"time_unit"`
	Nodes         []*Node                 `json:"nodes"`
	Layers        []*DisplayLayer         `json:"layers"`
	Curves        map[string]*curve.Curve `json:"curves"`
	PlaybackStart float64                 `json:"playback_start"`
	PlaybackEnd   float64                 `json:"playback_end"`
}

func New() *Scene {
	return &Scene{
		TimeUnit: DefaultTimeUnit,
		Curves:   make(map[string]*curve.Curve),
	}
}

func CurveKey(node, attr string) string {
	return node + "." + attr
}

// SplitCurveKey undoes CurveKey. ok is false for keys without a node and an
// attribute.
func SplitCurveKey(key string) (node, attr string, ok bool) {
	dot := strings.LastIndex(key, ".")
	if dot <= 0 || dot == len(key)-1 {
		return "", "", false
	}
	return key[:dot], key[dot+1:], true
}

func (s *Scene) Node(name string) *Node {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func (s *Scene) Layer(name string) *DisplayLayer {
	for _, l := range s.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Has reports whether a node or display layer called name exists.
func (s *Scene) Has(name string) bool {
	return s.Node(name) != nil || s.Layer(name) != nil
}

func (s *Scene) Children(parent string) []*Node {
	var res []*Node
	for _, n := range s.Nodes {
		if n.Parent == parent {
			res = append(res, n)
		}
	}
	return res
}

func (s *Scene) CreateGroup(name string, translate Vec3) error {
	if s.Has(name) {
		return errors.Wrap(ErrNameTaken, name)
	}
	s.Nodes = append(s.Nodes, &Node{
		Name:      name,
		Kind:      KindGroup,
		Translate: translate,
		Scale:     defaultScale,
	})
	return nil
}

func (s *Scene) CreateCube(spec CubeSpec) error {
	if s.Has(spec.Name) {
		return errors.Wrap(ErrNameTaken, spec.Name)
	}
	if spec.Parent != "" && s.Node(spec.Parent) == nil {
		return errors.Wrapf(ErrNoSuchNode, "parent %s of %s", spec.Parent, spec.Name)
	}
	s.Nodes = append(s.Nodes, &Node{
		Name:      spec.Name,
		Kind:      KindCube,
		Parent:    spec.Parent,
		Translate: spec.Translate,
		Scale:     spec.Scale,
		Pivot:     spec.Pivot,
	})
	return nil
}

func (s *Scene) CreateDisplayLayer(name string, members ...string) error {
	if s.Has(name) {
		return errors.Wrap(ErrNameTaken, name)
	}
	for _, m := range members {
		if s.Node(m) == nil {
			return errors.Wrapf(ErrNoSuchNode, "layer member %s", m)
		}
	}
	s.Layers = append(s.Layers, &DisplayLayer{Name: name, Members: append([]string(nil), members...)})
	return nil
}

// attribute returns the static value slot for attr ("translateY", "scaleX").
func (n *Node) attribute(attr string) (*float64, error) {
	var vec *Vec3
	var axis string
	switch {
	case strings.HasPrefix(attr, "translate"):
		vec, axis = &n.Translate, strings.TrimPrefix(attr, "translate")
	case strings.HasPrefix(attr, "scale"):
		vec, axis = &n.Scale, strings.TrimPrefix(attr, "scale")
	default:
		return nil, errors.Wrap(ErrBadAttribute, attr)
	}
	i, ok := attributeIndexes[axis]
	if !ok {
		return nil, errors.Wrap(ErrBadAttribute, attr)
	}
	return &vec[i], nil
}

// Curve returns the animation curve on node.attr, creating an empty one that
// holds the node's current value if the attribute is not animated yet.
func (s *Scene) Curve(node, attr string) (*curve.Curve, error) {
	key := CurveKey(node, attr)
	if c, ok := s.Curves[key]; ok {
		return c, nil
	}
	n := s.Node(node)
	if n == nil {
		return nil, errors.Wrap(ErrNoSuchNode, node)
	}
	v, err := n.attribute(attr)
	if err != nil {
		return nil, err
	}
	if s.Curves == nil {
		s.Curves = make(map[string]*curve.Curve)
	}
	c := curve.New(*v)
	s.Curves[key] = c
	return c, nil
}

// Evaluate returns node.attr at frame t, following its curve if animated.
func (s *Scene) Evaluate(node, attr string, t float64) (float64, error) {
	if c, ok := s.Curves[CurveKey(node, attr)]; ok {
		return c.ValueAt(t), nil
	}
	n := s.Node(node)
	if n == nil {
		return 0, errors.Wrap(ErrNoSuchNode, node)
	}
	v, err := n.attribute(attr)
	if err != nil {
		return 0, err
	}
	return *v, nil
}

func (s *Scene) SetPlaybackRange(start, end float64) {
	s.PlaybackStart = start
	s.PlaybackEnd = end
}

// KeyCount is the total number of keys across all curves.
func (s *Scene) KeyCount() int {
	var total int
	for _, c := range s.Curves {
		total += c.Len()
	}
	return total
}

// DeleteMatching removes every transform and display layer whose name matches
// the glob pattern. Deleting a transform also deletes its descendants and
// their curves. It returns how many nodes and layers were removed.
func (s *Scene) DeleteMatching(pattern string) (int, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, errors.Wrapf(err, "bad pattern %q", pattern)
	}

	doomed := make(map[string]bool)
	for _, n := range s.Nodes {
		if ok, _ := path.Match(pattern, n.Name); ok {
			doomed[n.Name] = true
		}
	}
	// pull in descendants until nothing changes
	for changed := true; changed; {
		changed = false
		for _, n := range s.Nodes {
			if !doomed[n.Name] && n.Parent != "" && doomed[n.Parent] {
				doomed[n.Name] = true
				changed = true
			}
		}
	}

	var keptNodes []*Node
	for _, n := range s.Nodes {
		if !doomed[n.Name] {
			keptNodes = append(keptNodes, n)
		}
	}
	for key := range s.Curves {
		node, _, ok := SplitCurveKey(key)
		if ok && doomed[node] {
			delete(s.Curves, key)
		}
	}

	deleted := len(s.Nodes) - len(keptNodes)
	s.Nodes = keptNodes

	var keptLayers []*DisplayLayer
	for _, l := range s.Layers {
		if ok, _ := path.Match(pattern, l.Name); ok {
			deleted++
			continue
		}
		members := l.Members[:0]
		for _, m := range l.Members {
			if !doomed[m] {
				members = append(members, m)
			}
		}
		l.Members = members
		keptLayers = append(keptLayers, l)
	}
	s.Layers = keptLayers

	return deleted, nil
}
