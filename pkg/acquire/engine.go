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
	"sync/atomic"
	"time"

	"gitlab.com/qtomo/go-ats/pkg/device/ifc"
	"gitlab.com/qtomo/go-ats/pkg/log"
)

// EngineState is the acquisition state machine position:
// Idle -> Armed -> Running -> {Draining, Aborting} -> Idle.
type EngineState int32

const (
	Idle EngineState = iota
	Armed
	Running
	Draining
	Aborting
)

func (s EngineState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Aborting:
		return "aborting"
	}
	return "unknown"
}

// BufferHandler consumes one filled buffer. index is the buffer ordinal
// within the run. The handler owns the data only for the duration of the
// call; the buffer is re-posted to the board right after it returns.
type BufferHandler func(index int, data []byte) error

// Engine drives the capture state machine: it arms the board, pre-posts
// every buffer, starts the capture and cycles buffers between the board's
// DMA engine and the handler. One producer (the board) and one consumer
// (the Run loop) per acquisition; a second concurrent Run fails with
// ErrAlreadyRunning.
type Engine struct {
	device ifc.Device
	state  int32
	abort  int32
	done   int64
}

func NewEngine(dev ifc.Device) *Engine {
	return &Engine{device: dev}
}

func (e *Engine) State() EngineState {
	return EngineState(atomic.LoadInt32(&e.state))
}

// BuffersDone is the number of buffers handled so far in the current run.
func (e *Engine) BuffersDone() int {
	return int(atomic.LoadInt64(&e.done))
}

// Abort requests an abort. It takes effect at the next buffer boundary; a
// transfer in flight cannot be interrupted mid-DMA.
func (e *Engine) Abort() {
	atomic.StoreInt32(&e.abort, 1)
}

func (e *Engine) setState(s EngineState) {
	atomic.StoreInt32(&e.state, int32(s))
	log.Debug("Engine state: %s", s)
}

// Run performs one acquisition, invoking handler once per filled buffer.
// On timeout, overflow or abort the board is stopped, all buffers are
// reclaimed unprocessed and the error is returned; whatever the handler
// accumulated from earlier buffers stays valid.
func (e *Engine) Run(p Params, handler BufferHandler) error {
	if !atomic.CompareAndSwapInt32(&e.state, int32(Idle), int32(Armed)) {
		return ErrAlreadyRunning{}
	}
	atomic.StoreInt32(&e.abort, 0)
	atomic.StoreInt64(&e.done, 0)
	defer e.setState(Idle)

	info := e.device.Info()
	if err := p.Validate(info); err != nil {
		return err
	}

	pool, err := NewBufferPool(p.AllocatedBuffers, p.BufferBytes(info.BytesPerSample))
	if err != nil {
		return err
	}
	defer pool.Destroy()

	if err := e.device.Arm(ifc.ArmRequest{
		SamplesPerRecord:      p.SamplesPerRecord,
		RecordsPerBuffer:      p.RecordsPerBuffer,
		BuffersPerAcquisition: p.BuffersPerAcquisition,
		ChannelCount:          p.Selection.Channels(),
	}); err != nil {
		return err
	}

	// Every buffer goes to the board before capture starts. The board fills
	// from the moment of start; an un-posted buffer is dropped data.
	for i := 0; i < p.AllocatedBuffers; i++ {
		b, err := pool.AcquireFree()
		if err != nil {
			e.enterAborting(pool)
			return err
		}
		if err := e.device.PostBuffer(b.Slot(), b.Data()); err != nil {
			e.enterAborting(pool)
			return err
		}
		if err := pool.MarkPosted(b); err != nil {
			e.enterAborting(pool)
			return err
		}
	}

	if err := e.device.StartCapture(); err != nil {
		e.enterAborting(pool)
		return err
	}
	e.setState(Running)
	log.Info("Acquisition started: buffers: %d allocated: %d", p.BuffersPerAcquisition, p.AllocatedBuffers)

	posted := p.AllocatedBuffers
	for i := 0; p.Streaming() || i < p.BuffersPerAcquisition; i++ {
		if atomic.LoadInt32(&e.abort) == 1 {
			e.enterAborting(pool)
			return ErrAborted{}
		}

		slot := i % p.AllocatedBuffers
		b := pool.Buffer(slot)

		status, err := e.device.WaitBuffer(slot, p.BufferTimeout)
		if err == ifc.ErrWaitTimeout {
			e.enterAborting(pool)
			return ErrAcquisitionTimeout{Slot: slot, Timeout: p.BufferTimeout}
		}
		if err != nil {
			e.enterAborting(pool)
			return err
		}
		if status.Overflow {
			e.enterAborting(pool)
			return ErrBufferOverrun{Buffer: i}
		}

		if err := pool.MarkFilled(b); err != nil {
			e.enterAborting(pool)
			return err
		}
		if err := pool.MarkProcessing(b); err != nil {
			e.enterAborting(pool)
			return err
		}
		if err := handler(i, b.Data()); err != nil {
			e.enterAborting(pool)
			return err
		}
		if err := pool.Release(b); err != nil {
			e.enterAborting(pool)
			return err
		}
		atomic.AddInt64(&e.done, 1)

		// re-post immediately so the board is never starved of buffers
		if p.Streaming() || posted < p.BuffersPerAcquisition {
			nb, err := pool.AcquireFree()
			if err != nil {
				e.enterAborting(pool)
				return err
			}
			if err := e.device.PostBuffer(nb.Slot(), nb.Data()); err != nil {
				e.enterAborting(pool)
				return err
			}
			if err := pool.MarkPosted(nb); err != nil {
				e.enterAborting(pool)
				return err
			}
			posted++
		}
	}

	e.setState(Draining)
	e.drain(pool, p.BufferTimeout)
	log.Info("Acquisition complete: buffers: %d", e.BuffersDone())
	return nil
}

// drain awaits any still-posted buffers with a final bounded wait, then
// tells the board to stop.
func (e *Engine) drain(pool *BufferPool, timeout time.Duration) {
	for slot := 0; slot < pool.Count(); slot++ {
		b := pool.Buffer(slot)
		if b == nil || b.State() != Posted {
			continue
		}
		if _, err := e.device.WaitBuffer(slot, timeout); err != nil {
			log.Warning("Buffer %d not reclaimed while draining: %s", slot, err)
		}
		reclaim(pool, b)
	}
	if err := e.device.Abort(); err != nil {
		log.Warning("Stopping the board failed: %s", err)
	}
}

// enterAborting stops the capture and reclaims all outstanding buffers
// without processing them.
func (e *Engine) enterAborting(pool *BufferPool) {
	e.setState(Aborting)
	if err := e.device.Abort(); err != nil {
		log.Warning("Aborting the board failed: %s", err)
	}
	for slot := 0; slot < pool.Count(); slot++ {
		b := pool.Buffer(slot)
		if b == nil {
			continue
		}
		reclaim(pool, b)
	}
}

// reclaim walks a buffer back to free through the legal transition chain.
func reclaim(pool *BufferPool, b *Buffer) {
	for b.State() != Free {
		switch b.State() {
		case Posted:
			pool.MarkFilled(b)
		case Filled:
			pool.MarkProcessing(b)
		case Processing:
			pool.Release(b)
		}
	}
}
