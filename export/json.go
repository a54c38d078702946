package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jsphweid/cubemidi/curve"
	"github.com/jsphweid/cubemidi/scene"
	"github.com/jsphweid/cubemidi/util"
	"github.com/pkg/errors"
)

func EncodeJSON(w io.Writer, s *scene.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func DecodeJSON(r io.Reader) (*scene.Scene, error) {
	s := scene.New()
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, errors.Wrap(err, "Could not decode scene")
	}
	if s.Curves == nil {
		s.Curves = make(map[string]*curve.Curve)
	}
	for key := range s.Curves {
		if _, _, ok := scene.SplitCurveKey(key); !ok {
			return nil, errors.Errorf("Could not decode scene... bad curve key %q", key)
		}
	}
	return s, nil
}

func WriteJSON(path string, s *scene.Scene) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Couldn't open file: %s", path)
	}
	defer f.Close()

	if err := EncodeJSON(f, s); err != nil {
		return errors.Wrapf(err, "Write failed for file: %s", path)
	}
	return f.Close()
}

func ReadJSON(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not load scene file")
	}
	defer f.Close()
	return DecodeJSON(f)
}

// LoadOrNew reads the scene at path, or returns an empty scene using timeUnit
// if the file doesn't exist yet.
func LoadOrNew(path, timeUnit string) (*scene.Scene, error) {
	s, err := ReadJSON(path)
	if errors.Is(err, os.ErrNotExist) {
		s = scene.New()
		if timeUnit != "" {
			s.TimeUnit = timeUnit
		}
		return s, nil
	}
	return s, err
}
