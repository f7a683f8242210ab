package ui

import (
	"time"

	"github.com/linuxmatters/pngtojpeg/internal/convert"
)

// BatchStartMsg indicates the runner has started converting
type BatchStartMsg struct {
	Total int
}

// ProgressMsg represents one finished file reported by the runner
type ProgressMsg struct {
	Event convert.ProgressEvent
}

// AllCompleteMsg indicates the batch has finished and carries its result
type AllCompleteMsg struct {
	Result convert.BatchResult
}

// tickMsg is sent for spinner/timer animation
type tickMsg time.Time
