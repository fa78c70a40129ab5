package log

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Mode selects how sweep progress is rendered.
type Mode string

const (
	// ModeBar draws an in-place progress bar with an ETA. Meant for TTYs.
	ModeBar Mode = "bar"
	// ModePlain logs a structured line at coarse intervals. Safe for files
	// and CI output.
	ModePlain Mode = "plain"
	// ModeJSON prints one JSON object per update on stdout for machine
	// consumers.
	ModeJSON Mode = "json"
)

// ProgressIndicator reports completion of a long-running sweep. The sweep
// driver owns the counter and feeds it through Update; the indicator holds no
// simulation state.
type ProgressIndicator struct {
	mu        sync.Mutex
	name      string
	total     int
	current   int
	lastLog   int
	mode      Mode
	startTime time.Time
}

// NewProgressIndicator creates an indicator for total units of work.
func NewProgressIndicator(name string, total int, mode Mode) *ProgressIndicator {
	return &ProgressIndicator{
		name:      name,
		total:     total,
		mode:      mode,
		startTime: time.Now(),
	}
}

// Update sets the completed count and renders according to the mode.
func (pi *ProgressIndicator) Update(current int) {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	pi.current = current
	switch pi.mode {
	case ModeJSON:
		fmt.Printf("{\"progress\":{\"name\":%q,\"done\":%d,\"total\":%d}}\n", pi.name, current, pi.total)
	case ModePlain:
		// One line per 5% step keeps long sweeps readable in logs.
		step := pi.total / 20
		if step < 1 {
			step = 1
		}
		if current-pi.lastLog >= step || current == pi.total {
			pi.lastLog = current
			log.Info().
				Str("task", pi.name).
				Int("done", current).
				Int("total", pi.total).
				Msg("Sweep progress")
		}
	default:
		pi.printBar()
	}
}

// Finish completes the indicator, terminating the in-place bar line.
func (pi *ProgressIndicator) Finish() {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	duration := time.Since(pi.startTime)
	switch pi.mode {
	case ModeJSON:
		fmt.Printf("{\"progress\":{\"name\":%q,\"done\":%d,\"total\":%d,\"elapsed\":%q}}\n",
			pi.name, pi.total, pi.total, duration.Round(time.Millisecond).String())
	case ModePlain:
		log.Info().
			Str("task", pi.name).
			Dur("elapsed", duration).
			Msg("Sweep progress complete")
	default:
		fmt.Fprintf(os.Stderr, "\r\033[K%s completed (%d cells, %v)\n",
			pi.name, pi.total, duration.Round(time.Millisecond))
	}
}

// printBar renders the in-place bar with ETA. Caller holds the mutex.
func (pi *ProgressIndicator) printBar() {
	var out strings.Builder
	out.WriteString("\r\033[K")
	out.WriteString(pi.name)

	if pi.total > 0 {
		barWidth := 20
		filled := barWidth * pi.current / pi.total
		out.WriteString(" [")
		for i := 0; i < barWidth; i++ {
			if i < filled {
				out.WriteString("█")
			} else {
				out.WriteString("░")
			}
		}
		pct := float64(pi.current) / float64(pi.total) * 100
		out.WriteString(fmt.Sprintf("] %d/%d (%.1f%%)", pi.current, pi.total, pct))
	}

	if pi.total > 0 && pi.current > 0 {
		elapsed := time.Since(pi.startTime)
		rate := float64(pi.current) / elapsed.Seconds()
		eta := time.Duration(float64(pi.total-pi.current)/rate) * time.Second
		out.WriteString(fmt.Sprintf(" ETA: %v", eta.Round(time.Second)))
	}

	fmt.Fprint(os.Stderr, out.String())
}
