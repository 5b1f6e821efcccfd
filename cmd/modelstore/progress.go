package main

import (
	"fmt"
	"io"
	"time"
)

// progressTracker prints how many rows of a known total were checked.
type progressTracker struct {
	writer         io.Writer
	label          string
	current        int
	total          int
	reportInterval int
	lastReported   int
	startTime      time.Time
}

func newProgressTracker(writer io.Writer, label string, total, reportInterval int) *progressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &progressTracker{
		writer:         writer,
		label:          label,
		total:          total,
		reportInterval: reportInterval,
		startTime:      time.Now(),
	}
}

// Increment increases the current progress by delta, reporting at every
// interval crossed.
func (p *progressTracker) Increment(delta int) {
	p.current = min(p.current+delta, p.total)
	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish prints the final progress line.
func (p *progressTracker) Finish() {
	p.report()
	fmt.Fprintln(p.writer)
}

func (p *progressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / max(elapsed.Seconds(), 1e-9)

	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\r%s: %d/%d (%.1f%%) - %.1f rows/s",
		p.label, p.current, p.total, percentage, rate)
}
