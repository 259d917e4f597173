package dedupe_test

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/instock/internal/domain/dedupe"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new deduper keyed by product id", t, func() {
		d := dedupe.NewInMemoryDeduper[int64]()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a key is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, 42)

			Convey("Then it reports unseen and is counted", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the same key is recorded again", func() {
				Convey("Then it reports seen without growing", func() {
					So(d.SeenAndRecord(ctx, 42), ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})
	})

	Convey("Given many distinct keys", t, func() {
		d := dedupe.NewInMemoryDeduper[int]()
		for i := range 1000 {
			d.SeenAndRecord(ctx, i)
		}

		Convey("Then every key is retained", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, 0), ShouldBeTrue)
		})
	})

	Convey("Given concurrent writers", t, func() {
		d := dedupe.NewInMemoryDeduper[int]()
		var wg sync.WaitGroup
		for w := range 8 {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := range 100 {
					d.SeenAndRecord(ctx, w*100+i)
					d.SeenAndRecord(ctx, i)
				}
			}(w)
		}
		wg.Wait()

		Convey("Then each distinct key is counted once", func() {
			So(d.Size(), ShouldEqual, 800)
		})
	})
}
