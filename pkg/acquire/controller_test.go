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
	"gitlab.com/qtomo/go-ats/pkg/device/sim"
	"gitlab.com/qtomo/go-ats/pkg/params"
)

func newTestController(strategy string) (*Controller, *sim.Board) {
	board := sim.NewBoard(device.ATS9371())
	dmx, _ := demux.ByName(strategy)
	return NewController(board, dmx, nil), board
}

func configureBoard(ctrl *Controller) error {
	return ctrl.Configure(func(s *device.Session) error {
		if err := s.Set(params.ClockSource, "INTERNAL_CLOCK"); err != nil {
			return err
		}
		if err := s.Set(params.SampleRate, 1000000000); err != nil {
			return err
		}
		return s.Set(params.ChannelRange1, 0.4)
	})
}

func TestControllerAcquisition(t *testing.T) {
	c.Convey("Given a configured controller on a simulated board", t, func() {
		ctrl, _ := newTestController("loop")
		c.So(configureBoard(ctrl), c.ShouldBeNil)
		p := runParams()
		c.So(ctrl.SetAcquisitionParams(p), c.ShouldBeNil)

		c.Convey("When an acquisition runs", func() {
			res, err := ctrl.RunAcquisition()

			c.Convey("Then all buffers are converted", func() {
				c.So(err, c.ShouldBeNil)
				c.So(res.Partial, c.ShouldBeFalse)
				c.So(res.Buffers, c.ShouldEqual, p.BuffersPerAcquisition)
				c.So(res.Records, c.ShouldEqual, p.BuffersPerAcquisition*p.RecordsPerBuffer)
			})

			c.Convey("Then both channels carry every record at full length", func() {
				c.So(err, c.ShouldBeNil)
				for slot := 0; slot < 2; slot++ {
					c.So(len(res.Channels[slot]), c.ShouldEqual, res.Records)
					for _, row := range res.Channels[slot] {
						c.So(len(row), c.ShouldEqual, p.SamplesPerRecord)
					}
				}
			})

			c.Convey("Then voltages stay inside the configured range", func() {
				c.So(err, c.ShouldBeNil)
				for _, row := range res.Channels[0] {
					for _, v := range row {
						c.So(v, c.ShouldBeBetweenOrEqual, -0.4, 0.4)
					}
				}
			})
		})

		c.Convey("When the applied configuration is inspected", func() {
			codes := ctrl.LastConfig()

			c.Convey("Then the committed codes are remembered", func() {
				c.So(codes[params.ClockSource], c.ShouldEqual, 1)
				c.So(codes[params.SampleRate], c.ShouldEqual, 53)
				c.So(codes[params.ChannelRange1], c.ShouldEqual, 7)
			})
		})
	})

	c.Convey("Given a controller without acquisition parameters", t, func() {
		ctrl, _ := newTestController("loop")

		c.Convey("When an acquisition is attempted", func() {
			_, err := ctrl.RunAcquisition()

			c.Convey("Then it fails as a configuration error", func() {
				c.So(err, c.ShouldHaveSameTypeAs, ErrConfiguration{})
			})
		})
	})
}

func TestControllerStrategiesAgree(t *testing.T) {
	c.Convey("Given two controllers differing only in strategy", t, func() {
		p := runParams()
		var results [2]*Result
		for i, strategy := range []string{"vector", "loop"} {
			ctrl, _ := newTestController(strategy)
			c.So(configureBoard(ctrl), c.ShouldBeNil)
			c.So(ctrl.SetAcquisitionParams(p), c.ShouldBeNil)
			res, err := ctrl.RunAcquisition()
			c.So(err, c.ShouldBeNil)
			results[i] = res
		}

		c.Convey("Then the converted traces are bit-identical", func() {
			c.So(results[1].Channels, c.ShouldResemble, results[0].Channels)
		})
	})
}

func TestControllerPartialResult(t *testing.T) {
	c.Convey("Given a board that overflows on the third of ten buffers", t, func() {
		ctrl, board := newTestController("vector")
		board.OverflowAt = 3
		c.So(configureBoard(ctrl), c.ShouldBeNil)
		p := Params{
			SamplesPerRecord:      256,
			RecordsPerBuffer:      2,
			BuffersPerAcquisition: 10,
			AllocatedBuffers:      4,
			Selection:             demux.SelectionAB,
			BufferTimeout:         time.Second,
		}
		c.So(ctrl.SetAcquisitionParams(p), c.ShouldBeNil)

		c.Convey("When the acquisition runs", func() {
			res, err := ctrl.RunAcquisition()

			c.Convey("Then the overrun is reported", func() {
				c.So(err, c.ShouldHaveSameTypeAs, ErrBufferOverrun{})
			})

			c.Convey("Then the two converted buffers survive, tagged partial", func() {
				c.So(res, c.ShouldNotBeNil)
				c.So(res.Partial, c.ShouldBeTrue)
				c.So(res.Buffers, c.ShouldEqual, 2)
				c.So(res.Records, c.ShouldEqual, 2*p.RecordsPerBuffer)
				c.So(len(res.Channels[0]), c.ShouldEqual, res.Records)
			})
		})
	})
}

func TestControllerRangeFollowsSelection(t *testing.T) {
	c.Convey("Given channels committed with different input ranges", t, func() {
		params.ChannelRangeVolts[8] = 0.8
		defer delete(params.ChannelRangeVolts, 8)

		ctrl, _ := newTestController("loop")
		ctrl.remember(map[params.Param]int{
			params.ChannelRange1: 7,
			params.ChannelRange2: 8,
		})

		c.Convey("Then a B-only run scales by channel B's range", func() {
			c.So(ctrl.rangeVolts(demux.SelectionB), c.ShouldEqual, 0.8)
		})

		c.Convey("Then A and AB runs scale by channel A's range", func() {
			c.So(ctrl.rangeVolts(demux.SelectionA), c.ShouldEqual, 0.4)
			c.So(ctrl.rangeVolts(demux.SelectionAB), c.ShouldEqual, 0.4)
		})

		c.Convey("Then an uncommitted range falls back to the board default", func() {
			fresh, _ := newTestController("loop")
			c.So(fresh.rangeVolts(demux.SelectionB), c.ShouldEqual, 0.4)
		})
	})
}

func TestControllerEightBitBoard(t *testing.T) {
	c.Convey("Given an 8-bit board with a 50 MB transfer", t, func() {
		board := sim.NewBoard(device.ATS9870())
		dmx, _ := demux.ByName("loop")
		ctrl := NewController(board, dmx, nil)
		c.So(configureBoard(ctrl), c.ShouldBeNil)
		p := Params{
			SamplesPerRecord:      3200,
			RecordsPerBuffer:      8192,
			BuffersPerAcquisition: 1,
			AllocatedBuffers:      1,
			Selection:             demux.SelectionAB,
			BufferTimeout:         time.Second,
		}
		c.So(ctrl.SetAcquisitionParams(p), c.ShouldBeNil)

		c.Convey("When the acquisition runs", func() {
			res, err := ctrl.RunAcquisition()
			c.So(err, c.ShouldBeNil)

			c.Convey("Then channel A holds 8192 records of 3200 samples", func() {
				c.So(len(res.Channels[0]), c.ShouldEqual, 8192)
				c.So(len(res.Channels[0][0]), c.ShouldEqual, 3200)
				c.So(len(res.Channels[1]), c.ShouldEqual, 8192)
			})

			c.Convey("Then every sample stays inside the 400 mV range", func() {
				min, max := 0.0, 0.0
				for _, row := range res.Channels[0] {
					for _, v := range row {
						if v < min {
							min = v
						}
						if v > max {
							max = v
						}
					}
				}
				c.So(min, c.ShouldBeGreaterThanOrEqualTo, -0.4)
				c.So(max, c.ShouldBeLessThanOrEqualTo, 0.4)
			})
		})
	})
}

func TestControllerStatus(t *testing.T) {
	c.Convey("Given an idle controller", t, func() {
		ctrl, _ := newTestController("loop")

		c.Convey("Then the status names the board and state", func() {
			status := ctrl.Status()
			c.So(status.Board, c.ShouldEqual, "ATS9371")
			c.So(status.State, c.ShouldEqual, "idle")
			c.So(status.BuffersDone, c.ShouldEqual, 0)
		})
	})
}
