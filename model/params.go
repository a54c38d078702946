package model

type CueParameters struct {
	AttackFrames        float64 `json:"attack_frames"`
	DecayFrames         float64 `json:"decay_frames"`
	SustainFactor       float64 `json:"sustain_factor"`
	ReleaseFrames       float64 `json:"release_frames"`
	MinVelocityScale    float64 `json:"min_velocity_scale"`
	MaxVelocityScale    float64 `json:"max_velocity_scale"`
	PitchTranslation    float64 `json:"pitch_translation"`
	FramesPerSecond     float64 `json:"frames_per_second"`
	RoundFrames         bool    `json:"round_frames"`
	CreateDisplayLayers bool    `json:"create_display_layers"`
}

// DefaultCueParameters has FramesPerSecond unset; it is resolved from the
// scene's time unit at import time.
func DefaultCueParameters() CueParameters {
	return CueParameters{
		AttackFrames:        2,
		DecayFrames:         1,
		SustainFactor:       0.8,
		ReleaseFrames:       2,
		MinVelocityScale:    0.1,
		MaxVelocityScale:    4.0,
		PitchTranslation:    2.0,
		RoundFrames:         true,
		CreateDisplayLayers: true,
	}
}
