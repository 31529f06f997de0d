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

package ifc

import (
	"errors"
	"time"

	"gitlab.com/qtomo/go-ats/pkg/params"
)

// ErrWaitTimeout returned by WaitBuffer when the board does not fill the
// buffer within the given deadline.
var ErrWaitTimeout = errors.New("wait buffer timed out")

// BoardInfo describes the fixed properties of a digitizer board.
type BoardInfo struct {
	Model            string
	BitsPerSample    int
	BytesPerSample   int
	ZeroCode         int
	Channels         int
	MaxTransferBytes int
}

// BufferStatus is the per-wait status the board reports together with a
// completed buffer.
type BufferStatus struct {
	Overflow bool
}

// ArmRequest carries the per-run geometry the board needs before capture.
type ArmRequest struct {
	SamplesPerRecord      int
	RecordsPerBuffer      int
	BuffersPerAcquisition int
	ChannelCount          int
}

// Device is the control surface of a digitizer board. Parameter writes take
// hardware codes resolved against the params schema; the buffer primitives
// drive the asynchronous DMA read protocol.
type Device interface {
	Info() BoardInfo

	SetParam(p params.Param, code int) error
	GetParam(p params.Param) (int, error)

	Arm(req ArmRequest) error
	StartCapture() error
	PostBuffer(slot int, buf []byte) error
	WaitBuffer(slot int, timeout time.Duration) (BufferStatus, error)
	Abort() error
}
