package glyphswarm

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	logMu  sync.Mutex
	logOut io.Writer = os.Stderr
)

// SetLogOutput redirects diagnostics. Nil restores stderr.
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	logOut = w
}

// logf prints a prefixed diagnostic line.
func logf(format string, args ...any) {
	logMu.Lock()
	defer logMu.Unlock()
	_, _ = fmt.Fprintf(logOut, "[glyphswarm] "+format+"\n", args...)
}

// debugStats accumulates per-frame timings between reports.
// Only populated when the stage runs in debug mode.
type debugStats struct {
	frames    int
	stepTime  time.Duration
	drawTime  time.Duration
	particles int
	targets   int
	since     time.Time
}

// debugReportInterval is how often accumulated stats are printed.
const debugReportInterval = time.Second

// addStep records one simulation step.
func (d *debugStats) addStep(elapsed time.Duration, particles, targets int) {
	d.frames++
	d.stepTime += elapsed
	d.particles = particles
	d.targets = targets
}

// addDraw records one frame draw.
func (d *debugStats) addDraw(elapsed time.Duration) {
	d.drawTime += elapsed
}

// report prints the averages and resets the counters once per interval.
// It reports whether anything was printed.
func (d *debugStats) report(now time.Time) bool {
	if d.since.IsZero() {
		d.since = now
		return false
	}
	if now.Sub(d.since) < debugReportInterval || d.frames == 0 {
		return false
	}
	n := time.Duration(d.frames)
	logf("step: %v | draw: %v | frames: %d", d.stepTime/n, d.drawTime/n, d.frames)
	logf("particles: %d | targets: %d", d.particles, d.targets)
	*d = debugStats{since: now}
	return true
}
