package model

// ImportRecord is the history entry kept for every successful import.
type ImportRecord struct {
	RunID           string        `json:"run_id" dynamodbav:"PK"`
	File            string        `json:"file" dynamodbav:"File"`
	CreatedAt       string        `json:"created_at" dynamodbav:"CreatedAt"`
	Channels        int           `json:"channels" dynamodbav:"Channels"`
	Cubes           int           `json:"cubes" dynamodbav:"Cubes"`
	Keys            int           `json:"keys" dynamodbav:"Keys"`
	LastFrame       float64       `json:"last_frame" dynamodbav:"LastFrame"`
	FramesPerSecond float64       `json:"frames_per_second" dynamodbav:"FramesPerSecond"`
	Params          CueParameters `json:"params" dynamodbav:"Params"`
}
