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

package demux

// Vector converts in two batch passes: first the whole buffer is widened and
// scaled into one flat voltage array, then the array is de-interleaved into
// per-channel records with strided copies. It allocates one scratch array per
// call and favors simple sequential passes.
type Vector struct{}

var _ Demuxer = Vector{}

func (Vector) Name() string {
	return "vector"
}

func (Vector) Demux(raw []byte, l Layout) ([2]Trace, error) {
	if err := l.validate(); err != nil {
		return [2]Trace{}, err
	}
	if len(raw) < l.bytes() {
		return [2]Trace{}, ErrShortBuffer{Want: l.bytes(), Got: len(raw)}
	}

	nch := l.Selection.Channels()
	total := l.SamplesPerRecord * l.RecordsPerBuffer * nch
	zero := int64(l.ZeroCode)
	scale := l.scale()

	// pass 1: widen and scale the full buffer
	volts := make([]float64, total)
	for i := range volts {
		volts[i] = float64(l.code(raw, i)-zero) * scale
	}

	// pass 2: de-interleave with strided copies
	out := emptyTraces(l)
	for idx, slot := range l.Selection.slots() {
		dst := out[slot]
		for r := 0; r < l.RecordsPerBuffer; r++ {
			base := r * l.SamplesPerRecord * nch
			row := dst[r]
			for s := 0; s < l.SamplesPerRecord; s++ {
				row[s] = volts[base+s*nch+idx]
			}
		}
	}
	return out, nil
}
