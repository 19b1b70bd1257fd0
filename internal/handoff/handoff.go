// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package handoff drives a producer goroutine and a consumer goroutine
// through a bounded queue and measures the trip.
//
// The producer stamps each [Sample] with a sequence number and the time it
// was handed to the queue. The consumer checks that sequence numbers
// arrive strictly in order and records each sample's queue latency in an
// HDR histogram. Either side may be pinned to a CPU.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
	"github.com/HdrHistogram/hdrhistogram-go"

	"code.hybscloud.com/spsc"
	"code.hybscloud.com/spsc/internal/affinity"
)

// Sample is the item moved through the queue.
type Sample struct {
	Seq  uint64
	Sent time.Duration // since the run's start
}

// Histogram bounds: 1ns to 10s at 3 significant figures.
const (
	minLatency = 1
	maxLatency = int64(10 * time.Second)
	sigFigures = 3
)

// progressStep is how many samples the consumer receives between
// progress callbacks.
const progressStep = 1 << 14

// ErrCanceled is returned when the context ends before every sample
// arrived.
var ErrCanceled = errors.New("handoff: run canceled")

// Config describes one run.
type Config struct {
	Items       int // samples to move
	Capacity    int // queue slots
	SpinLimit   int // bounded spin for targets that spin
	Batch       int // > 1 moves samples with PushBatch/PopInto
	ProducerCPU int // < 0 leaves the producer unpinned
	ConsumerCPU int // < 0 leaves the consumer unpinned

	// OnProgress, if set, is called from the consumer goroutine with the
	// number of samples received since the previous call.
	OnProgress func(n int)
}

// Result is the outcome of one run.
type Result struct {
	Target         string        `json:"target"`
	Round          int           `json:"round"`
	Items          int           `json:"items"`
	Capacity       int           `json:"capacity"`
	Batch          int           `json:"batch"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	Throughput     float64       `json:"throughput_items_sec"`
	Mean           time.Duration `json:"mean_ns"`
	P50            time.Duration `json:"p50_ns"`
	P99            time.Duration `json:"p99_ns"`
	P999           time.Duration `json:"p999_ns"`
	Max            time.Duration `json:"max_ns"`
	FIFOViolations int           `json:"fifo_violations"`
	FullRetries    int64         `json:"full_retries"`
	EmptyPolls     int64         `json:"empty_polls"`
	Clipped        int64         `json:"clipped"`
}

func (c Config) validate() error {
	if c.Items <= 0 {
		return fmt.Errorf("handoff: items must be > 0, got %d", c.Items)
	}
	if c.Batch < 0 {
		return fmt.Errorf("handoff: batch must be >= 0, got %d", c.Batch)
	}
	return nil
}

// Run moves cfg.Items samples through a fresh queue from t and reports the
// result. It returns [ErrCanceled] if ctx ends first.
func Run(ctx context.Context, t Target, cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}
	push, pop, err := t.New(cfg.Capacity, cfg.SpinLimit)
	if err != nil {
		return Result{}, fmt.Errorf("handoff: create %s: %w", t.Name, err)
	}

	var stop atomix.Bool
	defer context.AfterFunc(ctx, func() { stop.Store(true) })()

	r := &run{
		cfg:  cfg,
		push: push,
		pop:  pop,
		stop: &stop,
		hist: hdrhistogram.New(minLatency, maxLatency, sigFigures),
	}

	var wg sync.WaitGroup
	var prodErr error
	r.start = time.Now()
	wg.Add(1)
	go func() {
		defer wg.Done()
		prodErr = r.produce()
	}()
	consErr := r.consume()
	elapsed := time.Since(r.start)
	stop.Store(true)
	wg.Wait()

	if err := errors.Join(prodErr, consErr); err != nil {
		return Result{}, err
	}
	if r.received < cfg.Items {
		return Result{}, fmt.Errorf("%w: %s received %d of %d", ErrCanceled, t.Name, r.received, cfg.Items)
	}

	res := Result{
		Target:         t.Name,
		Items:          cfg.Items,
		Capacity:       cfg.Capacity,
		Batch:          cfg.Batch,
		Elapsed:        elapsed,
		Throughput:     float64(cfg.Items) / elapsed.Seconds(),
		Mean:           time.Duration(r.hist.Mean()),
		P50:            time.Duration(r.hist.ValueAtQuantile(50)),
		P99:            time.Duration(r.hist.ValueAtQuantile(99)),
		P999:           time.Duration(r.hist.ValueAtQuantile(99.9)),
		Max:            time.Duration(r.hist.Max()),
		FIFOViolations: r.violations,
		FullRetries:    r.fullRetries,
		EmptyPolls:     r.emptyPolls,
		Clipped:        r.clipped,
	}
	return res, nil
}

// run holds one measurement's state.
type run struct {
	cfg   Config
	push  spsc.Pusher[Sample]
	pop   spsc.Popper[Sample]
	stop  *atomix.Bool
	start time.Time

	// producer goroutine only
	fullRetries int64

	// consumer goroutine only
	hist       *hdrhistogram.Histogram
	received   int
	violations int
	emptyPolls int64
	clipped    int64
}

func (r *run) stamp(seq int) Sample {
	return Sample{Seq: uint64(seq), Sent: time.Since(r.start)}
}

func (r *run) produce() error {
	release, err := affinity.Pin(r.cfg.ProducerCPU)
	if err != nil {
		r.stop.Store(true)
		return fmt.Errorf("handoff: producer: %w", err)
	}
	defer release()

	backoff := iox.Backoff{}
	if r.cfg.Batch > 1 {
		batch := make([]Sample, 0, r.cfg.Batch)
		for next := 0; next < r.cfg.Items; {
			batch = batch[:0]
			for i := next; i < r.cfg.Items && len(batch) < cap(batch); i++ {
				batch = append(batch, r.stamp(i))
			}
			n := r.push.PushBatch(batch)
			if n == 0 {
				if r.stop.Load() {
					return nil
				}
				r.fullRetries++
				backoff.Wait()
				continue
			}
			backoff.Reset()
			next += n
		}
		return nil
	}

	for i := range r.cfg.Items {
		s := r.stamp(i)
		for {
			err := r.push.Push(s)
			if err == nil {
				break
			}
			if !iox.IsWouldBlock(err) {
				r.stop.Store(true)
				return fmt.Errorf("handoff: push %d: %w", i, err)
			}
			if r.stop.Load() {
				return nil
			}
			r.fullRetries++
			backoff.Wait()
		}
		backoff.Reset()
	}
	return nil
}

func (r *run) consume() error {
	release, err := affinity.Pin(r.cfg.ConsumerCPU)
	if err != nil {
		r.stop.Store(true)
		return fmt.Errorf("handoff: consumer: %w", err)
	}
	defer release()

	var expect uint64
	pending := 0
	record := func(s Sample) {
		if s.Seq != expect {
			r.violations++
		}
		expect = s.Seq + 1

		latency := int64(time.Since(r.start) - s.Sent)
		if latency < minLatency {
			latency = minLatency
		}
		if r.hist.RecordValue(latency) != nil {
			r.clipped++
		}

		r.received++
		if pending++; pending == progressStep && r.cfg.OnProgress != nil {
			r.cfg.OnProgress(pending)
			pending = 0
		}
	}

	sw := spin.Wait{}
	buf := make([]Sample, max(r.cfg.Batch, 1))
	for r.received < r.cfg.Items {
		var n int
		if r.cfg.Batch > 1 {
			n = r.pop.PopInto(buf)
		} else if s, ok := r.pop.Pop(); ok {
			buf[0], n = s, 1
		}
		if n == 0 {
			if r.stop.Load() {
				break
			}
			r.emptyPolls++
			sw.Once()
			continue
		}
		sw = spin.Wait{}
		for _, s := range buf[:n] {
			record(s)
		}
	}
	if pending > 0 && r.cfg.OnProgress != nil {
		r.cfg.OnProgress(pending)
	}
	return nil
}
