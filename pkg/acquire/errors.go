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
)

// ErrConfiguration returned when acquisition parameters are invalid; raised
// before any hardware capture begins
type ErrConfiguration struct {
	What string
}

func (e ErrConfiguration) Error() string {
	return fmt.Sprintf("Configuration error: %s", e.What)
}

// ErrResourceExhausted returned when the buffer pool cannot reserve its
// pinned memory
type ErrResourceExhausted struct {
	Bytes int
}

func (e ErrResourceExhausted) Error() string {
	return fmt.Sprintf("Can not reserve %d bytes of pinned buffer memory", e.Bytes)
}

// ErrAcquisitionTimeout returned when the board does not fill a buffer
// within buffer_timeout
type ErrAcquisitionTimeout struct {
	Slot    int
	Timeout time.Duration
}

func (e ErrAcquisitionTimeout) Error() string {
	return fmt.Sprintf("Buffer %d not filled within %s", e.Slot, e.Timeout)
}

// ErrBufferOverrun returned when the board signals that it overwrote unread
// data; the acquisition is invalid past this point since sample continuity
// cannot be reconstructed
type ErrBufferOverrun struct {
	Buffer int
}

func (e ErrBufferOverrun) Error() string {
	return fmt.Sprintf("Device overflow at buffer %d: data was lost", e.Buffer)
}

// ErrInvalidBufferState returned on a buffer state transition outside
// free -> posted -> filled -> processing -> free; a protocol defect, never
// retried
type ErrInvalidBufferState struct {
	Slot int
	From BufferState
	To   BufferState
}

func (e ErrInvalidBufferState) Error() string {
	return fmt.Sprintf("Invalid buffer state transition: slot: %d %s -> %s", e.Slot, e.From, e.To)
}

// ErrNoBufferAvailable returned when no free buffer exists; signals a logic
// error under the cycling protocol
type ErrNoBufferAvailable struct{}

func (e ErrNoBufferAvailable) Error() string {
	return "No free buffer available"
}

// ErrAlreadyRunning returned when an acquisition is started while another
// one is in progress on the same engine
type ErrAlreadyRunning struct{}

func (e ErrAlreadyRunning) Error() string {
	return "Acquisition already running"
}

// ErrAborted returned when an acquisition is stopped by an external abort
// request; records accumulated before the abort are preserved
type ErrAborted struct{}

func (e ErrAborted) Error() string {
	return "Acquisition aborted"
}

// ErrBadTraceFile returned when a trace file does not parse
type ErrBadTraceFile struct {
	Path string
	What string
}

func (e ErrBadTraceFile) Error() string {
	return fmt.Sprintf("Bad trace file: %s: %s", e.Path, e.What)
}
