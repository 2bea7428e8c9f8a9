package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/tenantready/internal/domain"
)

func TestTrackerCIEvents(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker([]domain.Area{domain.AreaLicensing, domain.AreaSecurity}, Config{
		Writer: &buf,
		IsCI:   true,
	})

	tracker.AreaStarted(domain.AreaLicensing)
	tracker.AreaFinished(domain.AreaLicensing, true)
	tracker.AreaFinished(domain.AreaSecurity, false)

	out := buf.String()
	if !strings.Contains(out, "Licensing [collecting]") {
		t.Errorf("missing collecting event, got %q", out)
	}
	if !strings.Contains(out, "Licensing [done]") {
		t.Errorf("missing done event, got %q", out)
	}
	if !strings.Contains(out, "Security [skipped]") {
		t.Errorf("missing skipped event, got %q", out)
	}
}

func TestTrackerSpinnerStops(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker([]domain.Area{domain.AreaLicensing}, Config{
		Writer:  &buf,
		Spinner: true,
		IsCI:    false,
	})

	tracker.Start()
	tracker.Update(domain.AreaLicensing, StatusCollecting)
	time.Sleep(250 * time.Millisecond)
	tracker.Stop()
	tracker.Stop() // idempotent

	if buf.Len() == 0 {
		t.Error("spinner produced no output")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(65 * time.Second); got != "1m5s" {
		t.Errorf("formatDuration = %q", got)
	}
	if got := formatDuration(9 * time.Second); got != "9s" {
		t.Errorf("formatDuration = %q", got)
	}
}
