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

package device

import (
	"testing"

	c "github.com/smartystreets/goconvey/convey"

	"gitlab.com/qtomo/go-ats/pkg/device/sim"
	"gitlab.com/qtomo/go-ats/pkg/params"
)

func TestSessionBuffersWrites(t *testing.T) {
	c.Convey("Given a configuration session", t, func() {
		board := sim.NewBoard(ATS9371())
		s := NewSession()

		c.Convey("When parameters are assigned", func() {
			c.So(s.Set(params.ClockSource, "INTERNAL_CLOCK"), c.ShouldBeNil)
			c.So(s.Set(params.SampleRate, 500000000), c.ShouldBeNil)

			c.Convey("Then nothing reaches the board before commit", func() {
				c.So(board.WriteLog, c.ShouldBeEmpty)
			})

			c.Convey("Then commit applies the buffered writes", func() {
				applied, err := s.Commit(board)
				c.So(err, c.ShouldBeNil)
				c.So(applied[params.ClockSource], c.ShouldEqual, 1)
				c.So(applied[params.SampleRate], c.ShouldEqual, 48)
				code, err := board.GetParam(params.SampleRate)
				c.So(err, c.ShouldBeNil)
				c.So(code, c.ShouldEqual, 48)
			})
		})

		c.Convey("When an unknown parameter is assigned", func() {
			err := s.Set(params.Param("bandwidth_limit"), 1)

			c.Convey("Then the assignment is rejected", func() {
				c.So(err, c.ShouldNotBeNil)
			})
		})
	})
}

func TestSessionCommitOrder(t *testing.T) {
	c.Convey("Given a session touching all parameter groups", t, func() {
		board := sim.NewBoard(ATS9371())
		s := NewSession()
		// assigned deliberately out of dependency order
		c.So(s.Set(params.Coupling1, "DC"), c.ShouldBeNil)
		c.So(s.Set(params.TriggerLevel1, 140), c.ShouldBeNil)
		c.So(s.Set(params.TriggerEngine1, "TRIG_ENGINE_J"), c.ShouldBeNil)
		c.So(s.Set(params.SampleRate, 1000000), c.ShouldBeNil)
		c.So(s.Set(params.ClockSource, "INTERNAL_CLOCK"), c.ShouldBeNil)

		c.Convey("When the session is committed", func() {
			_, err := s.Commit(board)
			c.So(err, c.ShouldBeNil)

			c.Convey("Then writes arrive in dependency order", func() {
				c.So(board.WriteLog, c.ShouldResemble, []params.Param{
					params.ClockSource,
					params.SampleRate,
					params.TriggerEngine1,
					params.TriggerLevel1,
					params.Coupling1,
				})
			})
		})
	})
}

func TestSessionCommitFailure(t *testing.T) {
	c.Convey("Given a board that rejects a trigger write", t, func() {
		board := sim.NewBoard(ATS9371())
		board.FailParam = params.TriggerLevel1
		s := NewSession()
		c.So(s.Set(params.ClockSource, "INTERNAL_CLOCK"), c.ShouldBeNil)
		c.So(s.Set(params.TriggerLevel1, 140), c.ShouldBeNil)
		c.So(s.Set(params.Coupling1, "DC"), c.ShouldBeNil)

		c.Convey("When the session is committed", func() {
			applied, err := s.Commit(board)

			c.Convey("Then the commit fails and no further writes are attempted", func() {
				c.So(err, c.ShouldNotBeNil)
				c.So(err, c.ShouldHaveSameTypeAs, ErrConfiguration{})
				c.So(board.WriteLog, c.ShouldResemble, []params.Param{params.ClockSource})
				c.So(applied, c.ShouldResemble, map[params.Param]int{params.ClockSource: 1})
			})
		})
	})
}

func TestSessionIllegalValue(t *testing.T) {
	c.Convey("Given a session with an out-of-range trigger level", t, func() {
		board := sim.NewBoard(ATS9371())
		s := NewSession()
		c.So(s.Set(params.ClockSource, "INTERNAL_CLOCK"), c.ShouldBeNil)
		c.So(s.Set(params.TriggerLevel1, 999), c.ShouldBeNil)

		c.Convey("When the session is committed", func() {
			_, err := s.Commit(board)

			c.Convey("Then validation fails before any write", func() {
				c.So(err, c.ShouldNotBeNil)
				c.So(board.WriteLog, c.ShouldBeEmpty)
			})
		})
	})
}
