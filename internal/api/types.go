package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Song describes a song record in a transport-friendly format.
type Song struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Artist            string `json:"artist,omitempty"`
	CurrentStage      string `json:"currentStage"`
	ChecklistProgress int    `json:"checklistProgress"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// Recording describes a recorded take of a song.
type Recording struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// StageStatus describes one stage's progress plus the single action a client
// may offer for it.
type StageStatus struct {
	Stage       string `json:"stage"`
	State       string `json:"state"`
	Action      string `json:"action"`
	StartedAt   string `json:"startedAt,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// ChecklistItem describes a checklist row with its derived interaction
// metadata.
type ChecklistItem struct {
	ID                 int64  `json:"id"`
	Stage              string `json:"stage"`
	Category           string `json:"category,omitempty"`
	SortOrder          int    `json:"sortOrder"`
	Description        string `json:"description"`
	HelpText           string `json:"helpText,omitempty"`
	ValidationType     string `json:"validationType"`
	IsComplete         bool   `json:"isComplete"`
	CompletedAt        string `json:"completedAt,omitempty"`
	CompletedBy        string `json:"completedBy,omitempty"`
	AssignedTo         string `json:"assignedTo,omitempty"`
	AssetURL           string `json:"assetUrl,omitempty"`
	RecordingID        *int64 `json:"recordingId,omitempty"`
	Mode               string `json:"mode"`
	ActionLabel        string `json:"actionLabel,omitempty"`
	Quantity           int    `json:"quantity"`
	CompletedCount     int    `json:"completedCount"`
	PendingReviewCount int    `json:"pendingReviewCount"`
}

// CategoryGroup is an ordered slice of items sharing a category.
type CategoryGroup struct {
	Category string          `json:"category"`
	Percent  int             `json:"percent"`
	Items    []ChecklistItem `json:"items"`
}

// RecordingGroup is a recording's sub-checklist within a stage.
type RecordingGroup struct {
	RecordingID    int64           `json:"recordingId"`
	RecordingTitle string          `json:"recordingTitle,omitempty"`
	Percent        int             `json:"percent"`
	Categories     []CategoryGroup `json:"categories"`
}

// CarryoverGroup lists incomplete items left behind in an earlier stage.
type CarryoverGroup struct {
	Stage string          `json:"stage"`
	Items []ChecklistItem `json:"items"`
}

// StageChecklist is the full derived checklist view for one stage.
type StageChecklist struct {
	Stage            string           `json:"stage"`
	StagePercent     int              `json:"stagePercent"`
	SongLevelPercent int              `json:"songLevelPercent"`
	Categories       []CategoryGroup  `json:"categories"`
	Recordings       []RecordingGroup `json:"recordings,omitempty"`
	Carryover        []CarryoverGroup `json:"carryover,omitempty"`
	TerminalAction   string           `json:"terminalAction,omitempty"`
}

// Task describes a task instance backing a checklist item.
type Task struct {
	ID          string `json:"id"`
	SongID      int64  `json:"songId"`
	ItemID      int64  `json:"itemId"`
	State       string `json:"state"`
	PayloadJSON string `json:"payload,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	SubmittedAt string `json:"submittedAt,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// SongListResponse wraps a collection of songs for API responses.
type SongListResponse struct {
	Songs []Song `json:"songs"`
}

// SongDetailResponse pairs a song with its stage statuses.
type SongDetailResponse struct {
	Song       Song          `json:"song"`
	Statuses   []StageStatus `json:"statuses"`
	Recordings []Recording   `json:"recordings,omitempty"`
}
