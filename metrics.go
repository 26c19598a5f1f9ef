// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package uacodec

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a simple atomic counter.
type Counter struct {
	value int64
}

// Add adds delta to the counter.
func (c *Counter) Add(delta int64) {
	atomic.AddInt64(&c.value, delta)
}

// Value returns the current counter value.
func (c *Counter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

// Reset resets the counter to zero.
func (c *Counter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}

// LatencyHistogram tracks latency distribution.
type LatencyHistogram struct {
	mu      sync.Mutex
	buckets []int64   // count per bucket
	bounds  []float64 // upper bounds in ms
	sum     float64
	count   int64
	min     float64
	max     float64
}

// NewLatencyHistogram creates a new latency histogram with default buckets.
func NewLatencyHistogram() *LatencyHistogram {
	return &LatencyHistogram{
		buckets: make([]int64, 10),
		bounds:  []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 5, 10, 50, 100}, // ms
		min:     -1,
		max:     -1,
	}
}

// Observe records a latency observation.
func (h *LatencyHistogram) Observe(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0

	h.mu.Lock()
	defer h.mu.Unlock()

	h.sum += ms
	h.count++

	if h.min < 0 || ms < h.min {
		h.min = ms
	}
	if ms > h.max {
		h.max = ms
	}

	for i, bound := range h.bounds {
		if ms <= bound {
			h.buckets[i]++
			return
		}
	}
	// Greater than all bounds
	h.buckets[len(h.buckets)-1]++
}

// Stats returns histogram statistics.
func (h *LatencyHistogram) Stats() LatencyStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := LatencyStats{
		Count:   h.count,
		Sum:     h.sum,
		Buckets: make(map[string]int64),
	}

	if h.count > 0 {
		stats.Avg = h.sum / float64(h.count)
		stats.Min = h.min
		stats.Max = h.max
	}

	labels := []string{"10us", "50us", "100us", "250us", "500us", "1ms", "5ms", "10ms", "50ms", "100ms+"}
	for i, count := range h.buckets {
		if i < len(labels) {
			stats.Buckets[labels[i]] = count
		}
	}

	return stats
}

// Reset resets the histogram.
func (h *LatencyHistogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.buckets {
		h.buckets[i] = 0
	}
	h.sum = 0
	h.count = 0
	h.min = -1
	h.max = -1
}

// LatencyStats holds latency statistics.
type LatencyStats struct {
	Count   int64
	Sum     float64
	Avg     float64
	Min     float64
	Max     float64
	Buckets map[string]int64
}

// FormatMetrics holds counters for one wire format.
type FormatMetrics struct {
	Encodes      Counter
	Decodes      Counter
	EncodeErrors Counter
	DecodeErrors Counter

	EncodeLatency *LatencyHistogram
	DecodeLatency *LatencyHistogram
}

func newFormatMetrics() *FormatMetrics {
	return &FormatMetrics{
		EncodeLatency: NewLatencyHistogram(),
		DecodeLatency: NewLatencyHistogram(),
	}
}

// CodecMetrics holds per-format codec metrics. Attach an instance to an
// EncodingContext via WithMetrics; a nil CodecMetrics disables recording.
type CodecMetrics struct {
	Binary *FormatMetrics
	XML    *FormatMetrics
	JSON   *FormatMetrics
}

// NewCodecMetrics creates a new CodecMetrics instance.
func NewCodecMetrics() *CodecMetrics {
	return &CodecMetrics{
		Binary: newFormatMetrics(),
		XML:    newFormatMetrics(),
		JSON:   newFormatMetrics(),
	}
}

func (m *CodecMetrics) forFormat(f Format) *FormatMetrics {
	switch f {
	case FormatBinary:
		return m.Binary
	case FormatXML:
		return m.XML
	default:
		return m.JSON
	}
}

func (m *CodecMetrics) observeEncode(f Format, start time.Time, err error) {
	if m == nil {
		return
	}
	fm := m.forFormat(f)
	fm.Encodes.Add(1)
	if err != nil {
		fm.EncodeErrors.Add(1)
		return
	}
	fm.EncodeLatency.Observe(time.Since(start))
}

func (m *CodecMetrics) observeDecode(f Format, start time.Time, err error) {
	if m == nil {
		return
	}
	fm := m.forFormat(f)
	fm.Decodes.Add(1)
	if err != nil {
		fm.DecodeErrors.Add(1)
		return
	}
	fm.DecodeLatency.Observe(time.Since(start))
}

// Collect returns a snapshot of all metrics as a map.
func (m *CodecMetrics) Collect() map[string]interface{} {
	out := make(map[string]interface{})
	for name, fm := range map[string]*FormatMetrics{
		"binary": m.Binary,
		"xml":    m.XML,
		"json":   m.JSON,
	} {
		out[name] = map[string]interface{}{
			"encodes":        fm.Encodes.Value(),
			"decodes":        fm.Decodes.Value(),
			"encode_errors":  fm.EncodeErrors.Value(),
			"decode_errors":  fm.DecodeErrors.Value(),
			"encode_latency": fm.EncodeLatency.Stats(),
			"decode_latency": fm.DecodeLatency.Stats(),
		}
	}
	return out
}

// Reset resets all metrics to zero.
func (m *CodecMetrics) Reset() {
	for _, fm := range []*FormatMetrics{m.Binary, m.XML, m.JSON} {
		fm.Encodes.Reset()
		fm.Decodes.Reset()
		fm.EncodeErrors.Reset()
		fm.DecodeErrors.Reset()
		fm.EncodeLatency.Reset()
		fm.DecodeLatency.Reset()
	}
}
