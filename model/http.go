package model

type ImportResponse struct {
	RunID           string  `json:"run_id"`
	Channels        int     `json:"channels"`
	Cubes           int     `json:"cubes"`
	Keys            int     `json:"keys"`
	LastFrame       float64 `json:"last_frame"`
	SkippedBends    int     `json:"skipped_bends"`
	FramesPerSecond float64 `json:"frames_per_second"`
}

type ClearResponse struct {
	Deleted int `json:"deleted"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
