package models

// TimerAction is the request body for POST /timer.
type TimerAction struct {
	Action    string `json:"action"`
	TaskID    int    `json:"task_id,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
	StoppedAt string `json:"stopped_at,omitempty"`
	Service   string `json:"service,omitempty"`
}

// TimerStatus is the response to a timer status/start/stop action.
type TimerStatus struct {
	IsTimerRunning bool    `json:"isTimerRunning"`
	TimerID        FlexInt `json:"timer_id,omitempty"`
	EntryID        FlexInt `json:"entry_id,omitempty"`
	TaskID         FlexInt `json:"task_id,omitempty"`
	StartTime      string  `json:"start_time,omitempty"`
	Elapsed        FlexInt `json:"elapsed,omitempty"`
	Name           string  `json:"name,omitempty"`
}
