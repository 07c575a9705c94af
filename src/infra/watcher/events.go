package watcher

import (
	"time"
)

// FileEventType represents the type of file system event
type FileEventType string

const (
	FileCreated FileEventType = "created"
)

// FileEvent represents a debounced file system event
type FileEvent struct {
	Path      string
	EventType FileEventType
	Timestamp time.Time
}
