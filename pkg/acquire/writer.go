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
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"gitlab.com/qtomo/go-ats/pkg/demux"
	"gitlab.com/qtomo/go-ats/pkg/log"
)

// Trace files carry a small header followed by the two channel blocks,
// everything little-endian: per channel a record count and a samples-per-
// record count, then the voltage rows as raw float64.
var traceMagic = [4]byte{'A', 'T', 'S', 'R'}

const traceVersion uint16 = 1

type traceHeader struct {
	Magic   [4]byte
	Version uint16
	Partial uint8
	_       uint8
	Buffers uint32
	Records uint32
}

type channelHeader struct {
	Records uint32
	Samples uint32
}

// WriteResult persists an acquisition result to path.
func WriteResult(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	hdr := traceHeader{
		Magic:   traceMagic,
		Version: traceVersion,
		Buffers: uint32(res.Buffers),
		Records: uint32(res.Records),
	}
	if res.Partial {
		hdr.Partial = 1
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	for _, trace := range res.Channels {
		if err := writeChannel(w, trace); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	log.Info("Wrote traces: path: %s records: %d partial: %v", path, res.Records, res.Partial)
	return nil
}

func writeChannel(w io.Writer, trace demux.Trace) error {
	ch := channelHeader{Records: uint32(len(trace))}
	if len(trace) > 0 {
		ch.Samples = uint32(len(trace[0]))
	}
	if err := binary.Write(w, binary.LittleEndian, ch); err != nil {
		return err
	}
	for _, row := range trace {
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	return nil
}

// ReadResult loads a trace file written by WriteResult.
func ReadResult(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var hdr traceHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr.Magic != traceMagic {
		return nil, ErrBadTraceFile{Path: path, What: "bad magic"}
	}
	if hdr.Version != traceVersion {
		return nil, ErrBadTraceFile{Path: path, What: "unsupported version"}
	}

	res := &Result{
		Buffers: int(hdr.Buffers),
		Records: int(hdr.Records),
		Partial: hdr.Partial != 0,
	}
	for slot := range res.Channels {
		trace, err := readChannel(r)
		if err != nil {
			return nil, err
		}
		res.Channels[slot] = trace
	}
	return res, nil
}

func readChannel(r io.Reader) (demux.Trace, error) {
	var ch channelHeader
	if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
		return nil, err
	}
	trace := make(demux.Trace, ch.Records)
	for i := range trace {
		row := make([]float64, ch.Samples)
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, err
		}
		trace[i] = row
	}
	return trace, nil
}
