package events

// PlaybackStateChanged is emitted on Idle/Playing/Paused transitions.
// The entity is the video being played.
type PlaybackStateChanged struct {
	BaseEvent
	OldState string  `json:"old_state"`
	NewState string  `json:"new_state"`
	Position float64 `json:"position"`
}

// PlaybackProgressed carries a sampled playback position.
type PlaybackProgressed struct {
	BaseEvent
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

// Transient keeps progress samples out of the event log.
func (PlaybackProgressed) Transient() bool { return true }

// PlaybackDurationResolved is emitted once, when the media engine reports the
// duration of the open media.
type PlaybackDurationResolved struct {
	BaseEvent
	Duration float64 `json:"duration"`
}

// PlaybackFinished is emitted when playback reaches the end of the media.
type PlaybackFinished struct {
	BaseEvent
	Position float64 `json:"position"`
}
