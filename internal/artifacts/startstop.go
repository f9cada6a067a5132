package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// StartStopLogName is the file the startup smoke test writes next to its screenshots
const StartStopLogName = "start-stop-log.json"

// StartStopLog records when the server under test was started and stopped
type StartStopLog struct {
	StartedAt string   `json:"startedAt"`
	StoppedAt string   `json:"stoppedAt"`
	Logs      []string `json:"logs"`
}

// ReadStartStopLog reads the start/stop log from dir. The second return is
// false when the file is missing or cannot be decoded.
func ReadStartStopLog(dir string) (*StartStopLog, bool) {
	data, err := os.ReadFile(filepath.Join(dir, StartStopLogName))
	if err != nil {
		return nil, false
	}

	var log StartStopLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, false
	}
	return &log, true
}
