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

// Package demux de-interleaves a filled transfer buffer into calibrated
// per-channel voltage traces.
//
// The conversion law per sample is
//
//	voltage = (c - o) / 2^(w-1) * R
//
// where c is the raw code, o the device-reported zero code, w the sample
// code width in bits and R the channel input range in volts. Both strategies
// widen the code to float64 before scaling and multiply by the same
// precomputed scale factor, so their outputs are bit-identical.
package demux

import (
	"encoding/binary"
)

// Trace is the voltage data of one channel: one row per record, each row
// samples-per-record long.
type Trace [][]float64

// Selection names the channels captured by an acquisition. Codes match the
// channel_selection hardware codes.
type Selection int

const (
	SelectionA  Selection = 1
	SelectionB  Selection = 2
	SelectionAB Selection = 3
)

// Channels is the number of channels the selection captures, 0 for an
// invalid selection.
func (s Selection) Channels() int {
	switch s {
	case SelectionA, SelectionB:
		return 1
	case SelectionAB:
		return 2
	}
	return 0
}

// slots lists the output slots the selection fills, in interleave order.
func (s Selection) slots() []int {
	switch s {
	case SelectionA:
		return []int{0}
	case SelectionB:
		return []int{1}
	default:
		return []int{0, 1}
	}
}

func (s Selection) String() string {
	switch s {
	case SelectionA:
		return "A"
	case SelectionB:
		return "B"
	case SelectionAB:
		return "AB"
	}
	return "?"
}

// SelectionByName resolves a channel selection from its configuration name.
func SelectionByName(name string) (Selection, error) {
	switch name {
	case "A":
		return SelectionA, nil
	case "B":
		return SelectionB, nil
	case "AB":
		return SelectionAB, nil
	}
	return 0, ErrBadLayout{What: "channel selection must be one of A, B, AB"}
}

// Layout describes how raw codes are packed into a transfer buffer and how
// they map to volts.
type Layout struct {
	SamplesPerRecord int
	RecordsPerBuffer int
	Selection        Selection
	BytesPerSample   int
	ZeroCode         int
	RangeVolts       float64
}

func (l Layout) validate() error {
	if l.SamplesPerRecord <= 0 || l.RecordsPerBuffer <= 0 {
		return ErrBadLayout{What: "samples and records must be positive"}
	}
	if l.BytesPerSample != 1 && l.BytesPerSample != 2 {
		return ErrBadLayout{What: "sample width must be 1 or 2 bytes"}
	}
	if l.Selection.Channels() == 0 {
		return ErrBadLayout{What: "empty channel selection"}
	}
	if l.RangeVolts <= 0 {
		return ErrBadLayout{What: "channel range must be positive"}
	}
	return nil
}

func (l Layout) bytes() int {
	return l.SamplesPerRecord * l.RecordsPerBuffer * l.Selection.Channels() * l.BytesPerSample
}

// scale is the volts-per-code factor. It is computed once and shared by both
// strategies so conversion results are bit-identical.
func (l Layout) scale() float64 {
	return l.RangeVolts / float64(int64(1)<<uint(l.BytesPerSample*8-1))
}

func (l Layout) code(raw []byte, i int) int64 {
	if l.BytesPerSample == 1 {
		return int64(raw[i])
	}
	return int64(binary.LittleEndian.Uint16(raw[i*2:]))
}

// Demuxer converts one filled transfer buffer into a fixed two-slot trace
// set. An unselected channel yields an empty trace, never a missing one.
type Demuxer interface {
	Demux(raw []byte, l Layout) ([2]Trace, error)
	Name() string
}

// ByName resolves a conversion strategy from its configuration name.
func ByName(name string) (Demuxer, error) {
	switch name {
	case "vector":
		return Vector{}, nil
	case "loop":
		return Loop{}, nil
	}
	return nil, ErrUnknownStrategy{Name: name}
}

func emptyTraces(l Layout) [2]Trace {
	var out [2]Trace
	for _, slot := range l.Selection.slots() {
		out[slot] = make(Trace, l.RecordsPerBuffer)
		for r := range out[slot] {
			out[slot][r] = make([]float64, l.SamplesPerRecord)
		}
	}
	return out
}
