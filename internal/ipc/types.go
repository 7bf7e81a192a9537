package ipc

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon/workflow status information.
type StatusResponse struct {
	Running       bool           `json:"running"`
	SongStats     map[string]int `json:"song_stats"`
	LastError     string         `json:"last_error"`
	LastSweep     string         `json:"last_sweep"`
	LastValidated int64          `json:"last_validated"`
	LockPath      string         `json:"lock_path"`
	DBPath        string         `json:"db_path"`
	APIAddr       string         `json:"api_addr"`
	PID           int            `json:"pid"`
}

// SweepRequest forces a validation sweep outside the poll cadence.
type SweepRequest struct{}

// SweepResponse reports how many auto items the sweep completed.
type SweepResponse struct {
	Validated int64 `json:"validated"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
