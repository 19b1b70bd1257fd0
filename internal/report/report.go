// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package report collects handoff results into a session report and
// renders it as JSON, a markdown table or a latency chart.
package report

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sugawarayuuta/sonnet"

	"code.hybscloud.com/spsc/internal/handoff"
)

// SystemInfo describes the machine a session ran on.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOOS        string  `json:"go_os"`
	GOARCH      string  `json:"go_arch"`
	GoVersion   string  `json:"go_version"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// Settings records the knobs a session used.
type Settings struct {
	Items       int `json:"items"`
	Capacity    int `json:"capacity"`
	Rounds      int `json:"rounds"`
	Batch       int `json:"batch"`
	SpinLimit   int `json:"spin_limit"`
	ProducerCPU int `json:"producer_cpu"`
	ConsumerCPU int `json:"consumer_cpu"`
}

// Session is one invocation of the benchmark: every round of every
// target.
type Session struct {
	Time     time.Time        `json:"time"`
	System   SystemInfo       `json:"system"`
	Settings Settings         `json:"settings"`
	Results  []handoff.Result `json:"results"`
}

// CollectSystemInfo reads the CPU model and memory size. Fields the host
// does not expose are left zero.
func CollectSystemInfo() SystemInfo {
	info := SystemInfo{
		NumCPU:    runtime.NumCPU(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		GoVersion: runtime.Version(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
		info.CPUSpeedMHz = infos[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}

// Best returns, per target, the round with the lowest median latency, in
// first-seen target order.
func (s *Session) Best() []handoff.Result {
	var best []handoff.Result
	for _, r := range s.Results {
		i := slices.IndexFunc(best, func(b handoff.Result) bool { return b.Target == r.Target })
		switch {
		case i < 0:
			best = append(best, r)
		case r.P50 < best[i].P50:
			best[i] = r
		}
	}
	return best
}

// Encode writes the session as one line of JSON.
func (s *Session) Encode(w io.Writer) error {
	data, err := sonnet.Marshal(s)
	if err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// Decode reads a session written by Encode.
func Decode(r io.Reader) (*Session, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("report: read: %w", err)
	}
	var s Session
	if err := sonnet.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("report: decode: %w", err)
	}
	return &s, nil
}

// WriteFile encodes the session to path.
func (s *Session) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
