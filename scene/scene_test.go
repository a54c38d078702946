package scene

import (
	"testing"

	"github.com/jsphweid/cubemidi/curve"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScene(t *testing.T) *Scene {
	s := New()
	require.NoError(t, s.CreateGroup("midiChannel00", Vec3{0, 0, 0}))
	require.NoError(t, s.CreateCube(CubeSpec{
		Name:      "midiChannel00_note060",
		Parent:    "midiChannel00",
		Translate: Vec3{0, 0.5, 0},
		Pivot:     Vec3{0, -0.5, 0},
		Scale:     Vec3{1, 0.1, 1},
	}))
	require.NoError(t, s.CreateDisplayLayer("midiChannel00_displayLayer", "midiChannel00"))
	require.NoError(t, s.CreateGroup("keepMe", Vec3{}))
	require.NoError(t, s.CreateDisplayLayer("otherLayer", "keepMe"))
	return s
}

func TestCreateRejectsDuplicateNames(t *testing.T) {
	s := buildScene(t)
	err := s.CreateGroup("midiChannel00", Vec3{})
	assert.True(t, errors.Is(err, ErrNameTaken))
	err = s.CreateDisplayLayer("midiChannel00_note060")
	assert.True(t, errors.Is(err, ErrNameTaken))
}

func TestCreateCubeNeedsParent(t *testing.T) {
	s := New()
	err := s.CreateCube(CubeSpec{Name: "c", Parent: "missing"})
	assert.True(t, errors.Is(err, ErrNoSuchNode))
}

func TestCurveStartsFromStaticValue(t *testing.T) {
	s := buildScene(t)
	c, err := s.Curve("midiChannel00_note060", "scaleY")
	require.NoError(t, err)
	assert.Equal(t, 0.1, c.ValueAt(10))

	again, err := s.Curve("midiChannel00_note060", "scaleY")
	require.NoError(t, err)
	assert.Same(t, c, again)

	_, err = s.Curve("midiChannel00_note060", "rotateY")
	assert.True(t, errors.Is(err, ErrBadAttribute))
	_, err = s.Curve("nope", "scaleY")
	assert.True(t, errors.Is(err, ErrNoSuchNode))
}

func TestEvaluateFallsBackToStatic(t *testing.T) {
	s := buildScene(t)
	v, err := s.Evaluate("midiChannel00", "translateY", 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	c, _ := s.Curve("midiChannel00", "translateY")
	c.Set(0, 2)
	v, _ = s.Evaluate("midiChannel00", "translateY", 5)
	assert.Equal(t, 2.0, v)
}

func TestDeleteMatchingRemovesGroupsCubesLayersAndCurves(t *testing.T) {
	s := buildScene(t)
	c, _ := s.Curve("midiChannel00_note060", "scaleY")
	c.Set(0, 1)

	deleted, err := s.DeleteMatching("midiChannel*")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(3, deleted)
	assert.Len(s.Nodes, 1)
	assert.Equal("keepMe", s.Nodes[0].Name)
	assert.Len(s.Layers, 1)
	assert.Equal("otherLayer", s.Layers[0].Name)
	assert.Empty(s.Curves)
}

func TestDeleteMatchingIsIdempotent(t *testing.T) {
	s := buildScene(t)
	_, err := s.DeleteMatching("midiChannel*")
	require.NoError(t, err)
	nodes, layers := len(s.Nodes), len(s.Layers)

	deleted, err := s.DeleteMatching("midiChannel*")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Len(t, s.Nodes, nodes)
	assert.Len(t, s.Layers, layers)
}

func TestDeleteMatchingDropsChildrenOfMatchedParents(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateGroup("midiChannel02", Vec3{}))
	require.NoError(t, s.CreateCube(CubeSpec{Name: "loose", Parent: "midiChannel02", Scale: Vec3{1, 1, 1}}))
	require.NoError(t, s.CreateDisplayLayer("mixed"))
	s.Layer("mixed").Members = []string{"loose"}

	deleted, err := s.DeleteMatching("midiChannel*")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Empty(t, s.Nodes)
	assert.Empty(t, s.Layer("mixed").Members)
}

func TestSplitCurveKey(t *testing.T) {
	node, attr, ok := SplitCurveKey(CurveKey("midiChannel00_note060", "scaleY"))
	assert.True(t, ok)
	assert.Equal(t, "midiChannel00_note060", node)
	assert.Equal(t, "scaleY", attr)

	for _, key := range []string{"", "scaleY", ".scaleY", "midiChannel00."} {
		_, _, ok := SplitCurveKey(key)
		assert.False(t, ok, key)
	}
}

func TestDeleteMatchingSkipsBadCurveKeys(t *testing.T) {
	s := buildScene(t)
	s.Curves["nodot"] = curve.New(1)

	_, err := s.DeleteMatching("midiChannel*")
	require.NoError(t, err)
	assert.Contains(t, s.Curves, "nodot")
}
