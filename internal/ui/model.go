// Package ui provides the Bubbletea terminal user interface for pngtojpeg
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/pngtojpeg/internal/convert"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// FileStatus represents the conversion state of a single file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusDone
	StatusFailed
	StatusCancelled
)

// FileProgress tracks a single PNG through the batch
type FileProgress struct {
	InputPath  string
	OutputPath string
	Status     FileStatus
	Reason     convert.FailureReason
	Elapsed    time.Duration
	Error      error
}

// Model is the Bubbletea model for the conversion UI
type Model struct {
	// File queue, in input order
	Files          []FileProgress
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	// Global state
	StartTime time.Time
	Started   bool
	Done      bool
	Cancelled bool
	Result    convert.BatchResult

	spinnerIndex int
	cancel       func()

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a UI model for files. cancel is invoked when the user
// quits before the batch has finished; it may be nil.
func NewModel(files []convert.ConvertibleFile, cancel func()) Model {
	progress := make([]FileProgress, len(files))
	for i, f := range files {
		progress[i] = FileProgress{InputPath: f.Path, Status: StatusQueued}
	}

	return Model{
		Files:      progress,
		TotalFiles: len(files),
		StartTime:  time.Now(),
		cancel:     cancel,
	}
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.Done {
				m.Cancelled = true
				if m.cancel != nil {
					m.cancel()
				}
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if !m.Done {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}

	case BatchStartMsg:
		m.Started = true
		m.StartTime = time.Now()
		if msg.Total > 0 {
			m.TotalFiles = msg.Total
		}

	case ProgressMsg:
		m = m.applyOutcome(msg.Event)

	case AllCompleteMsg:
		m.Done = true
		m.Result = msg.Result
		for _, o := range msg.Result.Outcomes {
			if o.Index >= 0 && o.Index < len(m.Files) && m.Files[o.Index].Status == StatusQueued {
				m.Files[o.Index] = updateFileProgress(m.Files[o.Index], o)
			}
		}
		m.CompletedFiles = msg.Result.Succeeded
		m.FailedFiles = msg.Result.Failed
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Done {
		return renderCompletionSummary(m)
	}
	return renderProcessingView(m)
}

func (m Model) applyOutcome(ev convert.ProgressEvent) Model {
	o := ev.Outcome
	if o.Index >= 0 && o.Index < len(m.Files) {
		m.Files[o.Index] = updateFileProgress(m.Files[o.Index], o)
	}
	if o.Success {
		m.CompletedFiles++
	} else {
		m.FailedFiles++
	}
	if ev.Total > 0 {
		m.TotalFiles = ev.Total
	}
	return m
}

// updateFileProgress records a finished conversion against its queue entry
func updateFileProgress(fp FileProgress, o convert.ConversionOutcome) FileProgress {
	fp.OutputPath = o.Target.Path
	fp.Elapsed = o.Elapsed
	fp.Reason = o.Reason
	fp.Error = o.Err

	switch {
	case o.Success:
		fp.Status = StatusDone
	case o.Reason == convert.ReasonCancelled:
		fp.Status = StatusCancelled
	default:
		fp.Status = StatusFailed
	}
	return fp
}

// finished is the number of files with an outcome, successful or not
func (m Model) finished() int {
	return m.CompletedFiles + m.FailedFiles
}
