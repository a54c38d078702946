package translate

import "github.com/pkg/errors"

// Every import failure wraps exactly one of these. All of them are reported
// before the scene is touched.
var (
	ErrMissingInput    = errors.New("No Midi file specified!")
	ErrFileNotFound    = errors.New("Midi file not found")
	ErrParseFailure    = errors.New("Error encountered while parsing midi file.")
	ErrUnknownTimeUnit = errors.New("Could not resolve frame rate")
	ErrNameTaken       = errors.New("Scene already contains imported midi nodes")
	ErrBadParameters   = errors.New("Invalid cue parameters")
)
