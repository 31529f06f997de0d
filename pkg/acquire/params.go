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
	"fmt"
	"time"

	"gitlab.com/qtomo/go-ats/pkg/demux"
	"gitlab.com/qtomo/go-ats/pkg/device/ifc"
)

const (
	// SamplesDivisor: the board accepts record lengths in steps of 128.
	SamplesDivisor = 128
	// MinSamplesPerRecord is the shortest record the board can capture.
	MinSamplesPerRecord = 256
)

// Params are the per-run acquisition parameters. BuffersPerAcquisition == 0
// means streaming: the run continues until an external abort.
type Params struct {
	SamplesPerRecord      int
	RecordsPerBuffer      int
	BuffersPerAcquisition int
	AllocatedBuffers      int
	Selection             demux.Selection
	BufferTimeout         time.Duration
}

// BufferBytes is the size of one DMA transfer for these parameters.
func (p Params) BufferBytes(bytesPerSample int) int {
	return p.RecordsPerBuffer * p.SamplesPerRecord * p.Selection.Channels() * bytesPerSample
}

// Streaming reports whether the run has no buffer count bound.
func (p Params) Streaming() bool {
	return p.BuffersPerAcquisition == 0
}

// Validate checks the parameters against the board limits. Violations are
// configuration errors raised before any capture starts.
func (p Params) Validate(info ifc.BoardInfo) error {
	if p.SamplesPerRecord < MinSamplesPerRecord {
		return ErrConfiguration{What: fmt.Sprintf("samples_per_record must be at least %d", MinSamplesPerRecord)}
	}
	if p.SamplesPerRecord%SamplesDivisor != 0 {
		return ErrConfiguration{What: fmt.Sprintf("samples_per_record must be a multiple of %d", SamplesDivisor)}
	}
	if p.RecordsPerBuffer <= 0 {
		return ErrConfiguration{What: "records_per_buffer must be positive"}
	}
	if p.BuffersPerAcquisition < 0 {
		return ErrConfiguration{What: "buffers_per_acquisition must not be negative"}
	}
	if p.AllocatedBuffers <= 0 {
		return ErrConfiguration{What: "allocated_buffers must be positive"}
	}
	if !p.Streaming() && p.AllocatedBuffers > p.BuffersPerAcquisition {
		return ErrConfiguration{What: "allocated_buffers must not exceed buffers_per_acquisition"}
	}
	nch := p.Selection.Channels()
	if nch < 1 || nch > info.Channels {
		return ErrConfiguration{What: "channel selection does not fit the board"}
	}
	if p.BufferTimeout <= 0 {
		return ErrConfiguration{What: "buffer_timeout must be positive"}
	}
	if size := p.BufferBytes(info.BytesPerSample); size > info.MaxTransferBytes {
		return ErrConfiguration{What: fmt.Sprintf("buffer size %d exceeds the board transfer limit %d", size, info.MaxTransferBytes)}
	}
	return nil
}
