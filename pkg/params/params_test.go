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

package params

import (
	"fmt"
	"testing"

	c "github.com/smartystreets/goconvey/convey"
)

func TestCode(t *testing.T) {
	testCases := []struct {
		param Param
		value interface{}
		code  int
		ok    bool
	}{
		{ClockSource, "INTERNAL_CLOCK", 1, true},
		{ClockSource, "EXTERNAL_CLOCK_10MHz_REF", 7, true},
		{ClockSource, "WALL_CLOCK", 0, false},
		{SampleRate, 1000000000, 53, true},
		{SampleRate, "EXTERNAL_CLOCK", 64, true},
		{SampleRate, 123456, 0, false},
		{ExternalSampleRate, "UNDEFINED", 0, true},
		{ExternalSampleRate, 300000000, 300000000, true},
		{ExternalSampleRate, 299999999, 0, false},
		{ChannelRange1, 0.4, 7, true},
		{ChannelRange1, 0.8, 0, false},
		{Impedance1, 50, 2, true},
		{TriggerLevel1, 140, 140, true},
		{TriggerLevel1, 256, 0, false},
		{TriggerLevel1, -1, 0, false},
		{TriggerDelay, 16, 16, true},
		{TriggerDelay, 10, 0, false},
		{TriggerHoldoff, true, 1, true},
		{Mode, "NPT", 0x200, true},
		{ChannelSelection, "AB", 3, true},
		{FifoOnlyStreaming, "ENABLED", 0x800, true},
		{Decimation, 100001, 0, false},
	}
	c.Convey("Given the closed parameter schema", t, func() {
		for _, tc := range testCases {
			spec, known := Schema[tc.param]
			c.So(known, c.ShouldBeTrue)
			code, err := spec.Code(tc.value)
			if tc.ok {
				c.Convey(fmt.Sprintf("Then %s accepts %v", tc.param, tc.value), func() {
					c.So(err, c.ShouldBeNil)
					c.So(code, c.ShouldEqual, tc.code)
				})
			} else {
				c.Convey(fmt.Sprintf("Then %s rejects %v", tc.param, tc.value), func() {
					c.So(err, c.ShouldNotBeNil)
				})
			}
		}
	})
}

func TestCommitOrder(t *testing.T) {
	c.Convey("Given the commit order", t, func() {
		position := make(map[Param]int, len(CommitOrder))
		for i, p := range CommitOrder {
			position[p] = i
		}

		c.Convey("Then every schema parameter has a position", func() {
			c.So(len(CommitOrder), c.ShouldEqual, len(Schema))
			for p := range Schema {
				_, ok := position[p]
				c.So(ok, c.ShouldBeTrue)
			}
		})

		c.Convey("Then clock settings precede trigger settings", func() {
			c.So(position[SampleRate], c.ShouldBeLessThan, position[TriggerOperation])
			c.So(position[ClockSource], c.ShouldBeLessThan, position[TriggerEngine1])
		})

		c.Convey("Then trigger engine selection precedes trigger level", func() {
			c.So(position[TriggerEngine1], c.ShouldBeLessThan, position[TriggerLevel1])
			c.So(position[TriggerEngine2], c.ShouldBeLessThan, position[TriggerLevel2])
		})

		c.Convey("Then trigger settings precede channel settings", func() {
			c.So(position[TriggerLevel2], c.ShouldBeLessThan, position[Coupling1])
		})
	})
}
