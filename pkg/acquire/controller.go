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

	"gitlab.com/qtomo/go-ats/pkg/demux"
	"gitlab.com/qtomo/go-ats/pkg/device"
	"gitlab.com/qtomo/go-ats/pkg/device/ifc"
	"gitlab.com/qtomo/go-ats/pkg/log"
	"gitlab.com/qtomo/go-ats/pkg/params"
	"gitlab.com/qtomo/go-ats/pkg/state"
)

// Result is what an acquisition hands back to the caller: a fixed two-slot
// trace set (unselected channels hold an empty trace), the converted
// buffer/record counters and a Partial flag set when the run ended on an
// error after converting some buffers.
type Result struct {
	Channels [2]demux.Trace
	Buffers  int
	Records  int
	Partial  bool
}

// Status is the runtime view of a controller for the API surface.
type Status struct {
	Board       string `json:"board"`
	State       string `json:"state"`
	BuffersDone int    `json:"buffers_done"`
}

// Controller ties the configuration session, the engine and the conversion
// stage together. It is stateless between acquisitions apart from the
// last-applied configuration, which is cached for diagnostics.
type Controller struct {
	mu sync.Mutex

	device ifc.Device
	engine *Engine
	dmx    demux.Demuxer

	acq    Params
	acqSet bool

	lastConfig map[params.Param]int
	cache      *state.ConfigState
}

// NewController creates a controller for the given board and conversion
// strategy. cache may be nil when no diagnostic parameter cache is wanted.
func NewController(dev ifc.Device, dmx demux.Demuxer, cache *state.ConfigState) *Controller {
	return &Controller{
		device:     dev,
		engine:     NewEngine(dev),
		dmx:        dmx,
		lastConfig: make(map[params.Param]int),
		cache:      cache,
	}
}

// Configure runs one scoped configuration session. Assignments made by build
// are buffered and committed to the board as a batch when build returns; if
// build fails, nothing is written. A commit failure leaves the board
// at-least-partially configured, see device.Session.
func (c *Controller) Configure(build func(s *device.Session) error) error {
	s := device.NewSession()
	if err := build(s); err != nil {
		return err
	}
	applied, err := s.Commit(c.device)
	c.remember(applied)
	return err
}

// remember caches applied parameter codes in memory and, when a cache is
// attached, in the diagnostics database.
func (c *Controller) remember(applied map[params.Param]int) {
	if len(applied) == 0 {
		return
	}
	c.mu.Lock()
	for p, code := range applied {
		c.lastConfig[p] = code
	}
	c.mu.Unlock()
	if c.cache != nil {
		if err := c.cache.SetParams(applied); err != nil {
			log.Warning("Can not cache applied configuration: %s", err)
		}
	}
}

// LastConfig is the last configuration applied to the board, by parameter
// code, kept for diagnostics only.
func (c *Controller) LastConfig() map[params.Param]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[params.Param]int, len(c.lastConfig))
	for p, code := range c.lastConfig {
		out[p] = code
	}
	return out
}

// SetAcquisitionParams validates and stores the per-run parameters.
func (c *Controller) SetAcquisitionParams(p Params) error {
	if err := p.Validate(c.device.Info()); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acq = p
	c.acqSet = true
	return nil
}

// rangeVolts is the configured input range of the captured channels, falling
// back to the ATS9371 default when the range was never committed. A B-only
// selection reads channel B's range parameter.
func (c *Controller) rangeVolts(sel demux.Selection) float64 {
	p := params.ChannelRange1
	if sel == demux.SelectionB {
		p = params.ChannelRange2
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if code, ok := c.lastConfig[p]; ok {
		if r, ok := params.ChannelRangeVolts[code]; ok {
			return r
		}
	}
	return 0.4
}

// RunAcquisition performs one acquisition and converts every filled buffer.
// On timeout, overflow or abort the already-converted records are returned
// tagged partial, together with the error.
func (c *Controller) RunAcquisition() (*Result, error) {
	c.mu.Lock()
	p, ok := c.acq, c.acqSet
	dmx := c.dmx
	c.mu.Unlock()
	if !ok {
		return nil, ErrConfiguration{What: "acquisition parameters not set"}
	}

	info := c.device.Info()
	layout := demux.Layout{
		SamplesPerRecord: p.SamplesPerRecord,
		RecordsPerBuffer: p.RecordsPerBuffer,
		Selection:        p.Selection,
		BytesPerSample:   info.BytesPerSample,
		ZeroCode:         info.ZeroCode,
		RangeVolts:       c.rangeVolts(p.Selection),
	}

	res := &Result{Channels: [2]demux.Trace{{}, {}}}
	handler := func(index int, data []byte) error {
		traces, err := dmx.Demux(data, layout)
		if err != nil {
			return err
		}
		for slot := range traces {
			res.Channels[slot] = append(res.Channels[slot], traces[slot]...)
		}
		res.Buffers++
		res.Records += p.RecordsPerBuffer
		return nil
	}

	if err := c.engine.Run(p, handler); err != nil {
		res.Partial = true
		return res, err
	}
	return res, nil
}

// Abort requests an abort of the running acquisition; it takes effect at
// the next buffer boundary.
func (c *Controller) Abort() {
	c.engine.Abort()
}

func (c *Controller) Status() Status {
	return Status{
		Board:       c.device.Info().Model,
		State:       c.engine.State().String(),
		BuffersDone: c.engine.BuffersDone(),
	}
}
