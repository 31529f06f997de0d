/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package acquire

import (
	"sync"

	"gitlab.com/qtomo/go-ats/pkg/log"
)

// BufferState is the lifecycle position of one pinned buffer. Transitions
// are restricted to free -> posted -> filled -> processing -> free.
type BufferState int

const (
	Free BufferState = iota
	Posted
	Filled
	Processing
)

func (s BufferState) String() string {
	switch s {
	case Free:
		return "free"
	case Posted:
		return "posted"
	case Filled:
		return "filled"
	case Processing:
		return "processing"
	}
	return "unknown"
}

// next is the only state each state may transition to.
func (s BufferState) next() BufferState {
	switch s {
	case Free:
		return Posted
	case Posted:
		return Filled
	case Filled:
		return Processing
	default:
		return Free
	}
}

// Buffer is one pinned memory region sized to hold a single DMA transfer.
// It is owned exclusively by its pool and lent out by slot identity.
type Buffer struct {
	slot  int
	data  []byte
	state BufferState
}

func (b *Buffer) Slot() int {
	return b.slot
}

func (b *Buffer) Data() []byte {
	return b.data
}

func (b *Buffer) State() BufferState {
	return b.state
}

// BufferPool owns a fixed number of fixed-size buffers and enforces the
// cycling protocol against the board's DMA engine. The pool is the only
// shared state between the wait loop and status readers, so every access
// goes through the mutex.
type BufferPool struct {
	mu        sync.Mutex
	bufs      []*Buffer
	next      int
	destroyed bool
}

// NewBufferPool reserves count pinned regions of size bytes each.
func NewBufferPool(count, size int) (*BufferPool, error) {
	if count <= 0 || size <= 0 {
		return nil, ErrConfiguration{What: "buffer count and size must be positive"}
	}
	p := &BufferPool{}
	for slot := 0; slot < count; slot++ {
		data, err := allocPinned(size)
		if err != nil {
			p.Destroy()
			return nil, ErrResourceExhausted{Bytes: size}
		}
		p.bufs = append(p.bufs, &Buffer{slot: slot, data: data})
	}
	log.Debug("Allocated buffer pool: count: %d size: %d", count, size)
	return p, nil
}

func (p *BufferPool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bufs)
}

// Buffer returns the buffer at the given slot, nil if out of range or after
// Destroy.
func (p *BufferPool) Buffer(slot int) *Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed || slot < 0 || slot >= len(p.bufs) {
		return nil
	}
	return p.bufs[slot]
}

// AcquireFree returns the next free buffer in round-robin slot order. Under
// the cycling protocol a free buffer always exists when this is called;
// ErrNoBufferAvailable therefore signals a logic error in the caller.
func (p *BufferPool) AcquireFree() (*Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return nil, ErrNoBufferAvailable{}
	}
	for i := 0; i < len(p.bufs); i++ {
		b := p.bufs[(p.next+i)%len(p.bufs)]
		if b.state == Free {
			p.next = (b.slot + 1) % len(p.bufs)
			return b, nil
		}
	}
	return nil, ErrNoBufferAvailable{}
}

func (p *BufferPool) MarkPosted(b *Buffer) error {
	return p.transition(b, Posted)
}

func (p *BufferPool) MarkFilled(b *Buffer) error {
	return p.transition(b, Filled)
}

func (p *BufferPool) MarkProcessing(b *Buffer) error {
	return p.transition(b, Processing)
}

func (p *BufferPool) Release(b *Buffer) error {
	return p.transition(b, Free)
}

func (p *BufferPool) transition(b *Buffer, to BufferState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b.state.next() != to {
		return ErrInvalidBufferState{Slot: b.slot, From: b.state, To: to}
	}
	b.state = to
	return nil
}

// States reports the current state of every slot.
func (p *BufferPool) States() []BufferState {
	p.mu.Lock()
	defer p.mu.Unlock()
	states := make([]BufferState, len(p.bufs))
	for i, b := range p.bufs {
		states[i] = b.state
	}
	return states
}

// Destroy releases all pinned memory. Idempotent so cleanup-on-error paths
// can call it unconditionally.
func (p *BufferPool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	for _, b := range p.bufs {
		b.data = nil
		b.state = Free
	}
	p.bufs = nil
	p.destroyed = true
}

// allocPinned reserves one DMA-able region. The hardware backend replaces
// this with page-locked memory from the ATS SDK; the portable build uses the
// Go heap, which the simulated board accepts.
func allocPinned(size int) (data []byte, err error) {
	defer func() {
		if recover() != nil {
			data = nil
			err = ErrResourceExhausted{Bytes: size}
		}
	}()
	data = make([]byte, size)
	return data, nil
}
