package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		Convey("When registering the site handler", func() {
			Register(ctx, mux)

			Convey("Then it should serve the view at /", func() {
				req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")

				doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
				So(err, ShouldBeNil)
				So(doc.Find("#items th[data-sort]").Length(), ShouldEqual, 7)
				for _, id := range []string{"digital", "preorder", "madeToOrder"} {
					So(doc.Find("input#"+id+"[type=checkbox]").Length(), ShouldEqual, 1)
				}
				So(doc.Find(`script[src="/app.js"]`).Length(), ShouldEqual, 1)
			})

			Convey("And it should serve the script", func() {
				req := httptest.NewRequest(http.MethodGet, "/app.js", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "/api/items?")
				So(w.Body.String(), ShouldContainSubstring, "localStorage")
			})

			Convey("And it should not handle unknown assets", func() {
				req := httptest.NewRequest(http.MethodGet, "/some-asset", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And it should reject writes", func() {
				req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("When registering the site handler", func() {
			Convey("Then it should panic", func() {
				So(func() {
					Register(context.Background(), nil)
				}, ShouldPanic)
			})
		})
	})
}
