package events

// Entity types
const (
	EntityVideo   = "video"
	EntitySession = "session"
)

// Event type constants
const (
	EventVideoImported      = "video.imported"
	EventVideoImportFailed  = "video.import_failed"
	EventVideoUpdated       = "video.updated"
	EventVideoDeleted       = "video.deleted"
	EventVideoWatched       = "video.watched"
	EventPlaybackState      = "playback.state_changed"
	EventPlaybackProgressed = "playback.progressed"
	EventPlaybackDuration   = "playback.duration_resolved"
	EventPlaybackFinished   = "playback.finished"
)

// VideoImported is emitted after an imported video is committed and the
// collection has been reloaded.
type VideoImported struct {
	BaseEvent
	Title           string  `json:"title"`
	Path            string  `json:"path"`
	SizeBytes       int64   `json:"size_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
	HasThumbnail    bool    `json:"has_thumbnail"`
	Total           int     `json:"total"`
}

// VideoImportFailed is emitted when an import could not be committed.
// The entity id is empty because no record exists.
type VideoImportFailed struct {
	BaseEvent
	SourcePath string `json:"source_path"`
	Step       string `json:"step"`
	Reason     string `json:"reason"`
}

// VideoUpdated is emitted when a record's title or favorite flag changes.
type VideoUpdated struct {
	BaseEvent
	Field    string `json:"field"` // "title" or "favorite"
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// VideoDeleted is emitted after a record is removed.
type VideoDeleted struct {
	BaseEvent
	Path        string `json:"path"`
	FileRemoved bool   `json:"file_removed"`
	Total       int    `json:"total"`
}

// VideoWatched is emitted when playback of a video starts.
type VideoWatched struct {
	BaseEvent
	ViewCount int64 `json:"view_count"`
}
