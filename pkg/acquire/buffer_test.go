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

	c "github.com/smartystreets/goconvey/convey"
)

func TestBufferPoolAllocation(t *testing.T) {
	c.Convey("Given a pool of four buffers", t, func() {
		pool, err := NewBufferPool(4, 1024)
		c.So(err, c.ShouldBeNil)
		defer pool.Destroy()

		c.Convey("Then every slot starts free with its full region", func() {
			c.So(pool.Count(), c.ShouldEqual, 4)
			c.So(pool.States(), c.ShouldResemble, []BufferState{Free, Free, Free, Free})
			for slot := 0; slot < 4; slot++ {
				b := pool.Buffer(slot)
				c.So(b.Slot(), c.ShouldEqual, slot)
				c.So(len(b.Data()), c.ShouldEqual, 1024)
			}
		})

		c.Convey("Then out-of-range slots return nil", func() {
			c.So(pool.Buffer(-1), c.ShouldBeNil)
			c.So(pool.Buffer(4), c.ShouldBeNil)
		})
	})

	c.Convey("Given invalid pool dimensions", t, func() {
		for _, dims := range [][2]int{{0, 1024}, {4, 0}, {-1, 1024}} {
			_, err := NewBufferPool(dims[0], dims[1])
			c.So(err, c.ShouldHaveSameTypeAs, ErrConfiguration{})
		}
	})
}

func TestBufferLifecycle(t *testing.T) {
	c.Convey("Given one buffer", t, func() {
		pool, err := NewBufferPool(1, 64)
		c.So(err, c.ShouldBeNil)
		defer pool.Destroy()
		b := pool.Buffer(0)

		c.Convey("When it walks the full cycle", func() {
			c.So(pool.MarkPosted(b), c.ShouldBeNil)
			c.So(b.State(), c.ShouldEqual, Posted)
			c.So(pool.MarkFilled(b), c.ShouldBeNil)
			c.So(b.State(), c.ShouldEqual, Filled)
			c.So(pool.MarkProcessing(b), c.ShouldBeNil)
			c.So(b.State(), c.ShouldEqual, Processing)
			c.So(pool.Release(b), c.ShouldBeNil)
			c.So(b.State(), c.ShouldEqual, Free)
		})

		c.Convey("When a transition skips a state", func() {
			c.Convey("Then free cannot go straight to filled", func() {
				err := pool.MarkFilled(b)
				c.So(err, c.ShouldHaveSameTypeAs, ErrInvalidBufferState{})
			})

			c.Convey("Then free cannot be released", func() {
				err := pool.Release(b)
				c.So(err, c.ShouldHaveSameTypeAs, ErrInvalidBufferState{})
			})

			c.Convey("Then posted cannot be posted twice", func() {
				c.So(pool.MarkPosted(b), c.ShouldBeNil)
				err := pool.MarkPosted(b)
				c.So(err, c.ShouldHaveSameTypeAs, ErrInvalidBufferState{})
			})
		})
	})
}

func TestAcquireFreeRoundRobin(t *testing.T) {
	c.Convey("Given a pool of three buffers", t, func() {
		pool, err := NewBufferPool(3, 64)
		c.So(err, c.ShouldBeNil)
		defer pool.Destroy()

		c.Convey("When all buffers are acquired and posted", func() {
			var order []int
			for i := 0; i < 3; i++ {
				b, err := pool.AcquireFree()
				c.So(err, c.ShouldBeNil)
				c.So(pool.MarkPosted(b), c.ShouldBeNil)
				order = append(order, b.Slot())
			}

			c.Convey("Then acquisition follows slot order", func() {
				c.So(order, c.ShouldResemble, []int{0, 1, 2})
			})

			c.Convey("Then a posted buffer is never handed out twice", func() {
				_, err := pool.AcquireFree()
				c.So(err, c.ShouldHaveSameTypeAs, ErrNoBufferAvailable{})
			})

			c.Convey("Then a released buffer becomes acquirable again", func() {
				b1 := pool.Buffer(1)
				c.So(pool.MarkFilled(b1), c.ShouldBeNil)
				c.So(pool.MarkProcessing(b1), c.ShouldBeNil)
				c.So(pool.Release(b1), c.ShouldBeNil)

				got, err := pool.AcquireFree()
				c.So(err, c.ShouldBeNil)
				c.So(got.Slot(), c.ShouldEqual, 1)
			})
		})
	})
}

func TestBufferPoolDestroy(t *testing.T) {
	c.Convey("Given a pool with a buffer in flight", t, func() {
		pool, err := NewBufferPool(2, 64)
		c.So(err, c.ShouldBeNil)
		b, err := pool.AcquireFree()
		c.So(err, c.ShouldBeNil)
		c.So(pool.MarkPosted(b), c.ShouldBeNil)

		c.Convey("When the pool is destroyed", func() {
			pool.Destroy()

			c.Convey("Then the slots are gone and acquisition fails", func() {
				c.So(pool.Count(), c.ShouldEqual, 0)
				c.So(pool.Buffer(0), c.ShouldBeNil)
				_, err := pool.AcquireFree()
				c.So(err, c.ShouldHaveSameTypeAs, ErrNoBufferAvailable{})
			})

			c.Convey("Then destroying again is harmless", func() {
				pool.Destroy()
				c.So(pool.Count(), c.ShouldEqual, 0)
			})
		})
	})
}
