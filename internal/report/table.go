// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"slices"
	"time"

	"code.hybscloud.com/spsc/internal/handoff"
)

// WriteMarkdown writes the best round of each target as a markdown table,
// fastest median first.
func (s *Session) WriteMarkdown(w io.Writer) error {
	rows := s.Best()
	slices.SortStableFunc(rows, func(a, b handoff.Result) int {
		return int(a.P50 - b.P50)
	})

	p := &errWriter{w: w}
	p.printf("## Handoff: %d items, %d slots, %s\n\n", s.Settings.Items, s.Settings.Capacity, s.System.CPUModel)
	p.printf("| Target   | Throughput (items/s) |   p50 |   p99 | p99.9 |   max | FIFO violations |\n")
	p.printf("|----------|---------------------:|------:|------:|------:|------:|----------------:|\n")
	for _, r := range rows {
		p.printf("| %-8s | %20.0f | %5s | %5s | %5s | %5s | %15d |\n",
			r.Target, r.Throughput, short(r.P50), short(r.P99), short(r.P999), short(r.Max), r.FIFOViolations)
	}
	return p.err
}

// short formats a latency with at most three significant digits.
func short(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.3gµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.3gms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.3gs", d.Seconds())
	}
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
