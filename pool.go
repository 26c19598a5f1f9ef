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
	"fmt"
	"sync"
)

const defaultPoolSize = 8

// EncoderPool manages a fixed set of reusable encoders for one wire
// format. Encoders hold growable buffers, so reusing them across encode
// operations avoids repeated allocation on hot paths.
type EncoderPool struct {
	ctx      *EncodingContext
	format   Format
	encoders chan Encoder
	mu       sync.Mutex
	closed   bool
	closeCh  chan struct{}
}

// PoolOption configures an EncoderPool.
type PoolOption func(*poolOptions)

type poolOptions struct {
	size int
}

// WithPoolSize sets the number of encoders the pool holds.
func WithPoolSize(n int) PoolOption {
	return func(o *poolOptions) {
		o.size = n
	}
}

// NewEncoderPool creates a pool of encoders for the given format, bound to
// the given context.
func NewEncoderPool(ctx *EncodingContext, format Format, opts ...PoolOption) (*EncoderPool, error) {
	options := &poolOptions{size: defaultPoolSize}
	for _, opt := range opts {
		opt(options)
	}
	if options.size <= 0 {
		return nil, fmt.Errorf("%w: pool size must be positive", ErrInternal)
	}

	p := &EncoderPool{
		ctx:      ctx,
		format:   format,
		encoders: make(chan Encoder, options.size),
		closeCh:  make(chan struct{}),
	}

	for i := 0; i < options.size; i++ {
		e, err := p.newEncoder()
		if err != nil {
			return nil, err
		}
		p.encoders <- e
	}

	return p, nil
}

func (p *EncoderPool) newEncoder() (Encoder, error) {
	switch p.format {
	case FormatBinary:
		return NewBinaryEncoder(p.ctx), nil
	case FormatXML:
		return NewXMLEncoder(p.ctx), nil
	case FormatJSON:
		return NewJSONEncoder(p.ctx), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %d", ErrInternal, p.format)
	}
}

// Get retrieves an encoder from the pool, blocking until one is available
// or the context is done.
func (p *EncoderPool) Get(ctx context.Context) (Encoder, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.closeCh:
		return nil, ErrPoolClosed
	case e, ok := <-p.encoders:
		if !ok {
			return nil, ErrPoolClosed
		}
		return e, nil
	}
}

// Put returns an encoder to the pool. The encoder is reset first so stale
// state never leaks into the next encode. The closed check and the send
// run under one lock so a Put never races a Close onto a closed channel.
func (p *EncoderPool) Put(e Encoder) {
	e.Reset()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.encoders <- e:
	default:
		// Pool is full, drop the encoder
	}
}

// Close closes the pool. Encoders still checked out are dropped when
// returned.
func (p *EncoderPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.closeCh)

	close(p.encoders)
	for range p.encoders {
	}

	return nil
}

// Size returns the number of idle encoders.
func (p *EncoderPool) Size() int {
	return len(p.encoders)
}

// Execute runs fn with a pooled encoder and automatically returns it.
func (p *EncoderPool) Execute(ctx context.Context, fn func(Encoder) error) error {
	e, err := p.Get(ctx)
	if err != nil {
		return err
	}
	defer p.Put(e)

	return fn(e)
}
