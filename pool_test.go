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
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderPoolGetPut(t *testing.T) {
	p, err := NewEncoderPool(newTestContext(), FormatBinary, WithPoolSize(2))
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 2, p.Size())

	e, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Size())

	require.NoError(t, e.WriteUInt32("", 7))
	p.Put(e)
	assert.Equal(t, 2, p.Size())

	// The encoder comes back reset.
	e, err = p.Get(context.Background())
	require.NoError(t, err)
	be, ok := e.(*BinaryEncoder)
	require.True(t, ok)
	assert.Empty(t, be.Bytes())
	p.Put(e)
}

func TestEncoderPoolInvalidSize(t *testing.T) {
	_, err := NewEncoderPool(newTestContext(), FormatBinary, WithPoolSize(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestEncoderPoolUnknownFormat(t *testing.T) {
	_, err := NewEncoderPool(newTestContext(), Format(99))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestEncoderPoolClosed(t *testing.T) {
	p, err := NewEncoderPool(newTestContext(), FormatJSON, WithPoolSize(1))
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = p.Get(context.Background())
	assert.ErrorIs(t, err, ErrPoolClosed)

	// Closing twice is a no-op.
	require.NoError(t, p.Close())
}

func TestEncoderPoolCancelledGet(t *testing.T) {
	p, err := NewEncoderPool(newTestContext(), FormatBinary, WithPoolSize(1))
	require.NoError(t, err)
	defer p.Close()

	// Drain the pool so Get has to wait, then cancel.
	e, err := p.Get(context.Background())
	require.NoError(t, err)
	defer p.Put(e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncoderPoolPutAfterClose(t *testing.T) {
	p, err := NewEncoderPool(newTestContext(), FormatBinary, WithPoolSize(1))
	require.NoError(t, err)

	e, err := p.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Close())

	// Returning a checked-out encoder after Close drops it.
	p.Put(e)
	assert.Equal(t, 0, p.Size())
}

func TestEncoderPoolPutCloseRace(t *testing.T) {
	for i := 0; i < 50; i++ {
		p, err := NewEncoderPool(newTestContext(), FormatBinary, WithPoolSize(2))
		require.NoError(t, err)

		e, err := p.Get(context.Background())
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.Put(e)
		}()
		go func() {
			defer wg.Done()
			_ = p.Close()
		}()
		wg.Wait()
	}
}

func TestEncoderPoolExecute(t *testing.T) {
	p, err := NewEncoderPool(newTestContext(), FormatBinary, WithPoolSize(1))
	require.NoError(t, err)
	defer p.Close()

	err = p.Execute(context.Background(), func(e Encoder) error {
		return e.WriteInt32("", 42)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Size())
}
