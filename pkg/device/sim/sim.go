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

package sim

import (
	"encoding/binary"
	"sync"
	"time"

	"gitlab.com/qtomo/go-ats/pkg/device/ifc"
	"gitlab.com/qtomo/go-ats/pkg/log"
	"gitlab.com/qtomo/go-ats/pkg/params"
)

// Board is an in-memory digitizer used for development and tests. It fills
// posted buffers synchronously with a deterministic waveform and can inject
// an overflow or a timeout at a chosen buffer ordinal.
type Board struct {
	mu sync.Mutex

	info    ifc.BoardInfo
	regs    map[params.Param]int
	arm     ifc.ArmRequest
	posted  map[int][]byte
	armed   bool
	capture bool
	waits   int
	sample  int64

	// WriteLog records the order of successful parameter writes.
	WriteLog []params.Param
	// FailParam makes SetParam fail for the named parameter.
	FailParam params.Param
	// OverflowAt reports overflow on the n-th wait (1-based), 0 = never.
	OverflowAt int
	// TimeoutAt times out the n-th wait (1-based), 0 = never.
	TimeoutAt int
}

var _ ifc.Device = &Board{}

func NewBoard(info ifc.BoardInfo) *Board {
	return &Board{
		info:   info,
		regs:   make(map[params.Param]int),
		posted: make(map[int][]byte),
	}
}

func (b *Board) Info() ifc.BoardInfo {
	return b.info
}

func (b *Board) SetParam(p params.Param, code int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p == b.FailParam && p != "" {
		return ErrWrite{Param: p}
	}
	b.regs[p] = code
	b.WriteLog = append(b.WriteLog, p)
	return nil
}

func (b *Board) GetParam(p params.Param) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	code, ok := b.regs[p]
	if !ok {
		return 0, ErrParamNotSet{Param: p}
	}
	return code, nil
}

func (b *Board) Arm(req ifc.ArmRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.capture {
		return ErrProtocol{What: "arm while capturing"}
	}
	b.arm = req
	b.armed = true
	b.waits = 0
	b.sample = 0
	log.Debug("Simulated board armed: samples: %d records: %d buffers: %d channels: %d",
		req.SamplesPerRecord, req.RecordsPerBuffer, req.BuffersPerAcquisition, req.ChannelCount)
	return nil
}

func (b *Board) StartCapture() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.armed {
		return ErrProtocol{What: "start capture before arm"}
	}
	b.capture = true
	return nil
}

func (b *Board) PostBuffer(slot int, buf []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.armed {
		return ErrProtocol{What: "post buffer before arm"}
	}
	want := b.transferBytes()
	if len(buf) != want {
		return ErrProtocol{What: "posted buffer size does not match transfer size"}
	}
	b.posted[slot] = buf
	return nil
}

func (b *Board) WaitBuffer(slot int, timeout time.Duration) (ifc.BufferStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.capture {
		return ifc.BufferStatus{}, ErrProtocol{What: "wait buffer before start capture"}
	}
	buf, ok := b.posted[slot]
	if !ok {
		return ifc.BufferStatus{}, ErrProtocol{What: "wait on a buffer that was not posted"}
	}
	b.waits++
	if b.TimeoutAt != 0 && b.waits == b.TimeoutAt {
		return ifc.BufferStatus{}, ifc.ErrWaitTimeout
	}
	if b.OverflowAt != 0 && b.waits == b.OverflowAt {
		return ifc.BufferStatus{Overflow: true}, nil
	}
	b.fill(buf)
	delete(b.posted, slot)
	return ifc.BufferStatus{}, nil
}

func (b *Board) Abort() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.capture = false
	b.armed = false
	b.posted = make(map[int][]byte)
	return nil
}

func (b *Board) transferBytes() int {
	return b.arm.SamplesPerRecord * b.arm.RecordsPerBuffer * b.arm.ChannelCount * b.info.BytesPerSample
}

// fill writes one transfer worth of deterministic codes, interleaving the
// selected channels sample by sample.
func (b *Board) fill(buf []byte) {
	half := int64(1) << uint(b.info.BitsPerSample-1)
	amp := half / 2
	i := 0
	for r := 0; r < b.arm.RecordsPerBuffer; r++ {
		for s := 0; s < b.arm.SamplesPerRecord; s++ {
			for ch := 0; ch < b.arm.ChannelCount; ch++ {
				n := b.sample
				b.sample++
				code := int64(b.info.ZeroCode) + (n*13+int64(ch)*29)%amp - amp/2
				switch b.info.BytesPerSample {
				case 1:
					buf[i] = byte(code)
					i++
				default:
					binary.LittleEndian.PutUint16(buf[i:], uint16(code))
					i += 2
				}
			}
		}
	}
}
