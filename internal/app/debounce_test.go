package service

import (
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDebouncer(t *testing.T) {
	Convey("Given a debouncer with a short delay", t, func() {
		d := NewDebouncer(20 * time.Millisecond)
		var calls atomic.Int32
		var last atomic.Int32

		Convey("When triggered in a burst", func() {
			replaced := 0
			for i := 1; i <= 5; i++ {
				if d.Trigger(func() { calls.Add(1); last.Store(int32(i)) }) {
					replaced++
				}
			}

			Convey("Then only the last call runs, once", func() {
				So(replaced, ShouldEqual, 4)
				So(d.Pending(), ShouldBeTrue)
				time.Sleep(100 * time.Millisecond)
				So(calls.Load(), ShouldEqual, 1)
				So(last.Load(), ShouldEqual, 5)
				So(d.Pending(), ShouldBeFalse)
			})
		})

		Convey("When cancelled before the delay elapses", func() {
			d.Trigger(func() { calls.Add(1) })
			So(d.Cancel(), ShouldBeTrue)

			Convey("Then nothing runs", func() {
				time.Sleep(60 * time.Millisecond)
				So(calls.Load(), ShouldEqual, 0)
				So(d.Cancel(), ShouldBeFalse)
			})
		})

		Convey("When a stale token fires after being replaced", func() {
			d.mu.Lock()
			stale := d.token
			d.mu.Unlock()
			d.Trigger(func() { calls.Add(1) })
			d.fire(stale, func() { calls.Add(100) })

			Convey("Then the stale call is ignored", func() {
				time.Sleep(60 * time.Millisecond)
				So(calls.Load(), ShouldEqual, 1)
			})
		})
	})
}
