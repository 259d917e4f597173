package stock_test

import (
	"testing"

	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/stock"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v int64) *int64 { return &v }

func TestIsOrderable(t *testing.T) {
	Convey("Given raw availability values", t, func() {
		Convey("Then the sentinel and positive counts are orderable", func() {
			So(stock.IsOrderable(ptr(stock.Unlimited)), ShouldBeTrue)
			for _, v := range []int64{1, 2, 99, 1 << 40} {
				So(stock.IsOrderable(ptr(v)), ShouldBeTrue)
			}
		})

		Convey("Then nil, zero and other negatives are not", func() {
			So(stock.IsOrderable(nil), ShouldBeFalse)
			for _, v := range []int64{0, -1, -100, stock.Unlimited + 1, stock.Unlimited - 1} {
				So(stock.IsOrderable(ptr(v)), ShouldBeFalse)
			}
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given the sentinel", t, func() {
		l := stock.Resolve(ptr(stock.Unlimited))

		Convey("Then stock is unlimited with no count", func() {
			So(l.Count, ShouldBeNil)
			So(l.Display, ShouldEqual, "Unlimited")
		})
	})

	Convey("Given a count", t, func() {
		l := stock.Resolve(ptr(12))

		Convey("Then it is mirrored", func() {
			So(*l.Count, ShouldEqual, 12)
			So(l.Display, ShouldEqual, "12")
		})
	})

	Convey("Given no availability", t, func() {
		l := stock.Resolve(nil)

		Convey("Then the display is a dash", func() {
			So(l.Count, ShouldBeNil)
			So(l.Display, ShouldEqual, "—")
		})
	})
}

func TestAnalyze(t *testing.T) {
	Convey("Given a mixed catalog", t, func() {
		products := []model.Product{
			{ID: 1, Variants: []model.Variant{{Available: ptr(0)}, {Available: ptr(3)}}},
			{ID: 2, Variants: []model.Variant{{Available: ptr(0)}}},
			{ID: 3},
			{ID: 4, Variants: []model.Variant{{Available: ptr(stock.Unlimited)}}},
		}

		Convey("When analysing", func() {
			r := stock.Analyze(products)

			Convey("Then products are split by orderability", func() {
				So(r.Total(), ShouldEqual, 4)
				So(len(r.InStock), ShouldEqual, 2)
				So(r.InStock[0].ID, ShouldEqual, 1)
				So(r.InStock[1].ID, ShouldEqual, 4)
				So(r.InStockIdx, ShouldResemble, []int{0, 3})
				So(r.OutOfStockIdx, ShouldResemble, []int{1, 2})
			})
		})
	})
}
