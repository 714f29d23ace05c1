/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mife

import (
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Monitor receives progress events of the long running stages of
// Setup and Encrypt. Implementations must be safe for concurrent use.
type Monitor interface {
	// Start marks the beginning of a stage.
	Start(stage string)
	// Progress reports that done out of total steps of a stage are
	// finished.
	Progress(stage string, done, total int)
	// Finish marks the end of a stage.
	Finish(stage string)
}

// NopMonitor discards all events.
type NopMonitor struct{}

func (NopMonitor) Start(string)              {}
func (NopMonitor) Progress(string, int, int) {}
func (NopMonitor) Finish(string)             {}

// LogMonitor writes events to a log.Logger, together with the wall
// clock time spent in every stage.
type LogMonitor struct {
	logger *log.Logger

	mu     sync.Mutex
	starts map[string]time.Time
	// last reported tenth of every stage
	tenths map[string]int
}

// NewLogMonitor returns a LogMonitor writing to w.
func NewLogMonitor(w io.Writer) *LogMonitor {
	return &LogMonitor{
		logger: log.New(w, "mife: ", log.LstdFlags),
		starts: make(map[string]time.Time),
		tenths: make(map[string]int),
	}
}

// Start logs the start of stage and starts its timer.
func (m *LogMonitor) Start(stage string) {
	m.mu.Lock()
	m.starts[stage] = time.Now()
	m.tenths[stage] = 0
	m.mu.Unlock()

	m.logger.Printf("%s: start", stage)
}

// Progress logs every tenth of the stage.
func (m *LogMonitor) Progress(stage string, done, total int) {
	if total <= 0 {
		return
	}
	tenth := 10 * done / total

	m.mu.Lock()
	if tenth <= m.tenths[stage] {
		m.mu.Unlock()
		return
	}
	m.tenths[stage] = tenth
	elapsed := time.Since(m.starts[stage])
	m.mu.Unlock()

	m.logger.Printf("%s: progress [%d / %d] %.2fs", stage, done, total, elapsed.Seconds())
}

// Finish logs the end of stage with its duration.
func (m *LogMonitor) Finish(stage string) {
	m.mu.Lock()
	elapsed := time.Since(m.starts[stage])
	delete(m.starts, stage)
	delete(m.tenths, stage)
	m.mu.Unlock()

	m.logger.Printf("%s: done in %.2fs", stage, elapsed.Seconds())
}

// Counter counts finished steps of a stage and forwards them to a
// Monitor.
type Counter struct {
	mon   Monitor
	stage string
	total int
	done  int64
}

// NewCounter returns a Counter for total steps of stage.
func NewCounter(mon Monitor, stage string, total int) *Counter {
	return &Counter{mon: mon, stage: stage, total: total}
}

// Inc records one finished step.
func (c *Counter) Inc() {
	done := atomic.AddInt64(&c.done, 1)
	c.mon.Progress(c.stage, int(done), c.total)
}

func orNop(mon Monitor) Monitor {
	if mon == nil {
		return NopMonitor{}
	}
	return mon
}
