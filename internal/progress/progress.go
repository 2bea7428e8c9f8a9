// Package progress displays per-area collection progress on stderr while
// an assessment runs. Stdout is never touched, it belongs to the report
// streams.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/tenantready/internal/domain"
)

// AreaStatus is the displayed collection state of one service area.
type AreaStatus string

const (
	StatusWaiting    AreaStatus = "waiting"
	StatusSigningIn  AreaStatus = "signing-in"
	StatusCollecting AreaStatus = "collecting"
	StatusDone       AreaStatus = "done"
	StatusSkipped    AreaStatus = "skipped"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Tracker tracks and renders collection progress across areas.
type Tracker struct {
	writer     io.Writer
	areas      []domain.Area
	statuses   map[domain.Area]AreaStatus
	startTime  time.Time
	spinner    bool
	spinnerIdx int
	stopChan   chan struct{}
	stopOnce   sync.Once
	isCI       bool
	mu         sync.Mutex
}

// Config holds tracker configuration.
type Config struct {
	Writer  io.Writer
	Spinner bool
	IsCI    bool // plain line-per-event output, no animation
}

// NewTracker creates a tracker for the requested areas.
func NewTracker(areas []domain.Area, cfg Config) *Tracker {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if !cfg.IsCI {
		cfg.IsCI = os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
	}

	statuses := make(map[domain.Area]AreaStatus, len(areas))
	for _, area := range areas {
		statuses[area] = StatusWaiting
	}

	return &Tracker{
		writer:    cfg.Writer,
		areas:     areas,
		statuses:  statuses,
		startTime: time.Now(),
		spinner:   cfg.Spinner && !cfg.IsCI,
		stopChan:  make(chan struct{}),
		isCI:      cfg.IsCI,
	}
}

// Start begins the animated display.
func (t *Tracker) Start() {
	if t.spinner {
		go t.spinnerLoop()
	}
}

// Stop ends the animated display and clears the status line.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		if t.spinner {
			close(t.stopChan)
			t.mu.Lock()
			fmt.Fprintf(t.writer, "\r%s\r", strings.Repeat(" ", 100))
			t.mu.Unlock()
		}
	})
}

// Update records a new status for an area. In CI mode each update prints
// its own line.
func (t *Tracker) Update(area domain.Area, status AreaStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.statuses[area] = status
	if t.isCI {
		t.printEvent(area, status)
	}
}

func (t *Tracker) printEvent(area domain.Area, status AreaStatus) {
	symbol := "⟲"
	switch status {
	case StatusSigningIn:
		symbol = "🔑"
	case StatusCollecting:
		symbol = "▶"
	case StatusDone:
		symbol = "✓"
	case StatusSkipped:
		symbol = "⊘"
	}
	fmt.Fprintf(t.writer, "%s %s [%s]\n", symbol, area.DisplayName(), status)
}

func (t *Tracker) spinnerLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.mu.Lock()
			t.render()
			t.spinnerIdx = (t.spinnerIdx + 1) % len(spinnerFrames)
			t.mu.Unlock()
		}
	}
}

func (t *Tracker) render() {
	done, skipped := 0, 0
	var active []string
	for _, area := range t.areas {
		switch t.statuses[area] {
		case StatusDone:
			done++
		case StatusSkipped:
			skipped++
		case StatusSigningIn:
			active = append(active, area.DisplayName()+" (sign-in)")
		case StatusCollecting:
			active = append(active, area.DisplayName())
		}
	}

	status := fmt.Sprintf("\r%s %d/%d areas | ✓ %d | ⊘ %d | %s",
		spinnerFrames[t.spinnerIdx],
		done+skipped, len(t.areas), done, skipped,
		formatDuration(time.Since(t.startTime)),
	)
	if len(active) > 0 {
		status += " | " + strings.Join(active, ", ")
	}
	fmt.Fprint(t.writer, status)
}

// AreaStarted and AreaFinished let the tracker observe an assessment run
// directly.

func (t *Tracker) AreaStarted(area domain.Area) {
	t.Update(area, StatusCollecting)
}

func (t *Tracker) AreaFinished(area domain.Area, assessed bool) {
	if assessed {
		t.Update(area, StatusDone)
	} else {
		t.Update(area, StatusSkipped)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d - m*time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
