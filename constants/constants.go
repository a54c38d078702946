package constants

import (
	"os"
	"path/filepath"

	"github.com/jsphweid/cubemidi/scene"
)

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetOutDir() string {
	return envStr("OUT_DIR", "./out")
}

// GetScenePath is where the scene document lives between commands.
func GetScenePath() string {
	return envStr("SCENE_PATH", filepath.Join(GetOutDir(), "scene.json"))
}

// GetTimeUnit is the time unit given to a new scene.
func GetTimeUnit() string {
	return envStr("TIME_UNIT", scene.DefaultTimeUnit)
}

func GetLogLevel() string {
	return envStr("LOG_LEVEL", "info")
}

func GetServeAddr() string {
	return envStr("SERVE_ADDR", ":8080")
}

// GetImportsTable names the DynamoDB table for import history. Empty means
// history is off.
func GetImportsTable() string {
	return os.Getenv("IMPORTS_TABLE")
}

func GetDynamoEndpoint() string {
	return envStr("DYNAMODB_ENDPOINT", "http://localhost:8000")
}

func GetDynamoRegion() string {
	return envStr("AWS_REGION", "localhost")
}

// largest MIDI upload the HTTP API accepts
const MaxUploadSize = 16 * 1024 * 1024
