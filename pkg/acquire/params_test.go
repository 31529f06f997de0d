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
	"testing"
	"time"

	c "github.com/smartystreets/goconvey/convey"

	"gitlab.com/qtomo/go-ats/pkg/demux"
	"gitlab.com/qtomo/go-ats/pkg/device"
)

func validParams() Params {
	return Params{
		SamplesPerRecord:      8192,
		RecordsPerBuffer:      32,
		BuffersPerAcquisition: 10,
		AllocatedBuffers:      4,
		Selection:             demux.SelectionAB,
		BufferTimeout:         time.Second,
	}
}

func TestParamsValidate(t *testing.T) {
	info := device.ATS9371()
	testCases := []struct {
		about  string
		mutate func(*Params)
		ok     bool
	}{
		{"the defaults are valid", func(p *Params) {}, true},
		{"records too short", func(p *Params) { p.SamplesPerRecord = 128 }, false},
		{"record length off the 128 grid", func(p *Params) { p.SamplesPerRecord = 300 }, false},
		{"no records per buffer", func(p *Params) { p.RecordsPerBuffer = 0 }, false},
		{"negative buffer count", func(p *Params) { p.BuffersPerAcquisition = -1 }, false},
		{"no allocated buffers", func(p *Params) { p.AllocatedBuffers = 0 }, false},
		{"more allocated than acquired", func(p *Params) { p.AllocatedBuffers = 11 }, false},
		{"streaming allows any allocation", func(p *Params) { p.BuffersPerAcquisition = 0; p.AllocatedBuffers = 64 }, true},
		{"empty channel selection", func(p *Params) { p.Selection = 0 }, false},
		{"no wait timeout", func(p *Params) { p.BufferTimeout = 0 }, false},
		{"transfer above the board limit", func(p *Params) { p.RecordsPerBuffer = 3200 }, false},
		{"transfer at the board limit is fine", func(p *Params) { p.RecordsPerBuffer = 1600; p.Selection = demux.SelectionA }, true},
	}
	c.Convey("Given the acquisition parameter limits", t, func() {
		for _, tc := range testCases {
			p := validParams()
			tc.mutate(&p)
			err := p.Validate(info)
			if tc.ok {
				c.Convey("Then "+tc.about, func() {
					c.So(err, c.ShouldBeNil)
				})
			} else {
				c.Convey("Then "+tc.about+" is rejected", func() {
					c.So(err, c.ShouldHaveSameTypeAs, ErrConfiguration{})
				})
			}
		}
	})
}

func TestParamsSizing(t *testing.T) {
	c.Convey("Given the default parameters", t, func() {
		p := validParams()

		c.Convey("Then the transfer size counts all channels and sample bytes", func() {
			// 8192 samples * 32 records * 2 channels * 2 bytes
			c.So(p.BufferBytes(2), c.ShouldEqual, 1048576)
		})

		c.Convey("Then streaming is a zero buffer bound", func() {
			c.So(p.Streaming(), c.ShouldBeFalse)
			p.BuffersPerAcquisition = 0
			c.So(p.Streaming(), c.ShouldBeTrue)
		})
	})
}
