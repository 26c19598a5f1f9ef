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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	var c Counter
	assert.Equal(t, int64(0), c.Value())

	c.Add(3)
	c.Add(2)
	assert.Equal(t, int64(5), c.Value())

	c.Reset()
	assert.Equal(t, int64(0), c.Value())
}

func TestCounterConcurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1600), c.Value())
}

func TestLatencyHistogram(t *testing.T) {
	h := NewLatencyHistogram()

	h.Observe(5 * time.Microsecond)
	h.Observe(200 * time.Microsecond)
	h.Observe(2 * time.Millisecond)
	h.Observe(500 * time.Millisecond)

	stats := h.Stats()
	assert.Equal(t, int64(4), stats.Count)
	assert.InDelta(t, 502.205, stats.Sum, 0.001)
	assert.InDelta(t, 0.005, stats.Min, 0.0001)
	assert.InDelta(t, 500.0, stats.Max, 0.0001)
	assert.InDelta(t, stats.Sum/4, stats.Avg, 0.0001)

	assert.Equal(t, int64(1), stats.Buckets["10us"])
	assert.Equal(t, int64(1), stats.Buckets["250us"])
	assert.Equal(t, int64(1), stats.Buckets["5ms"])
	assert.Equal(t, int64(1), stats.Buckets["100ms+"])
	assert.Equal(t, int64(0), stats.Buckets["1ms"])
}

func TestLatencyHistogramEmpty(t *testing.T) {
	h := NewLatencyHistogram()
	stats := h.Stats()
	assert.Equal(t, int64(0), stats.Count)
	assert.Zero(t, stats.Avg)
	assert.Zero(t, stats.Min)
	assert.Zero(t, stats.Max)
	assert.Len(t, stats.Buckets, 10)
}

func TestLatencyHistogramReset(t *testing.T) {
	h := NewLatencyHistogram()
	h.Observe(time.Millisecond)
	h.Reset()

	stats := h.Stats()
	assert.Equal(t, int64(0), stats.Count)
	assert.Zero(t, stats.Sum)
	assert.Equal(t, int64(0), stats.Buckets["1ms"])
}

func TestCodecMetricsCollect(t *testing.T) {
	m := NewCodecMetrics()
	m.Binary.Encodes.Add(4)
	m.Binary.EncodeErrors.Add(1)
	m.JSON.Decodes.Add(2)

	out := m.Collect()
	require.Contains(t, out, "binary")
	require.Contains(t, out, "xml")
	require.Contains(t, out, "json")

	binary, ok := out["binary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(4), binary["encodes"])
	assert.Equal(t, int64(1), binary["encode_errors"])
	assert.Equal(t, int64(0), binary["decodes"])

	jsonMetrics, ok := out["json"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(2), jsonMetrics["decodes"])

	_, ok = binary["encode_latency"].(LatencyStats)
	assert.True(t, ok)
}

func TestCodecMetricsReset(t *testing.T) {
	m := NewCodecMetrics()
	m.XML.Encodes.Add(3)
	m.XML.EncodeLatency.Observe(time.Millisecond)

	m.Reset()
	assert.Equal(t, int64(0), m.XML.Encodes.Value())
	assert.Equal(t, int64(0), m.XML.EncodeLatency.Stats().Count)
}

func TestCodecMetricsRecordedByContext(t *testing.T) {
	m := NewCodecMetrics()
	ctx := newTestContext(WithMetrics(m))

	_, err := Marshal(ctx, FormatBinary, rangeTypeID, analogRange{Low: 1, High: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(1), m.Binary.Encodes.Value())
	assert.Equal(t, int64(0), m.Binary.EncodeErrors.Value())
	assert.Equal(t, int64(1), m.Binary.EncodeLatency.Stats().Count)
}
