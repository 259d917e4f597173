package artifacts_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/instock/internal/adapters/artifacts"
	"github.com/okian/instock/internal/adapters/export"
	"github.com/okian/instock/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func writeArtifacts(dir string, withNames, withTerms bool) {
	rows := []model.Row{
		{Title: "Stand", Talent: "宝鐘マリン"},
		{Title: "Mug", Talent: "AZKi"},
	}
	So(export.WriteItems(filepath.Join(dir, export.ItemsFile), rows, "2024-06-01T00:00:00.000Z"), ShouldBeNil)
	if withNames {
		So(export.WriteNameMap(dir, model.NameMap{"宝鐘マリン": "Houshou Marine"}), ShouldBeNil)
	}
	if withTerms {
		So(export.WriteSearchTerms(dir, model.SearchTerms{"Houshou Marine": {"Houshou Marine", "宝鐘マリン"}}), ShouldBeNil)
	}
}

func TestLoaderFromDir(t *testing.T) {
	ctx := context.Background()

	Convey("Given a complete artifact directory", t, func() {
		dir := t.TempDir()
		writeArtifacts(dir, true, true)
		l := artifacts.NewLoader(artifacts.WithDir(dir))

		Convey("When loading", func() {
			b, err := l.Load(ctx)

			Convey("Then every artifact is present", func() {
				So(err, ShouldBeNil)
				So(len(b.Items), ShouldEqual, 2)
				So(b.BuiltAt, ShouldEqual, "2024-06-01T00:00:00.000Z")
				So(b.Names, ShouldNotBeNil)
				So(b.Terms, ShouldNotBeNil)
				So(b.Degraded, ShouldBeEmpty)
				So(l.Source(), ShouldEqual, dir)
			})

			Convey("And applying the name table", func() {
				applied := artifacts.Apply(b)

				Convey("Then localized talents are normalised without touching the input", func() {
					So(applied.Items[0].Talent, ShouldEqual, "Houshou Marine")
					So(b.Items[0].Talent, ShouldEqual, "宝鐘マリン")
					So(applied.Terms["Houshou Marine"], ShouldResemble, []string{"Houshou Marine", "宝鐘マリン"})
				})
			})
		})
	})

	Convey("Given a directory missing the auxiliary artifacts", t, func() {
		dir := t.TempDir()
		writeArtifacts(dir, false, false)

		Convey("When loading", func() {
			b, err := artifacts.NewLoader(artifacts.WithDir(dir)).Load(ctx)

			Convey("Then loading degrades instead of failing", func() {
				So(err, ShouldBeNil)
				So(b.Names, ShouldBeNil)
				So(b.Terms, ShouldBeNil)
				So(b.Degraded, ShouldResemble, []string{export.NameMapFile, export.SearchTermsFile})
			})

			Convey("Then applying falls back to self-only search terms", func() {
				applied := artifacts.Apply(b)
				So(applied.Items[0].Talent, ShouldEqual, "宝鐘マリン")
				So(applied.Terms["AZKi"], ShouldResemble, []string{"AZKi"})
				So(applied.Terms["宝鐘マリン"], ShouldResemble, []string{"宝鐘マリン"})
			})
		})
	})

	Convey("Given a corrupt primary artifact", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, export.ItemsFile), []byte("{not json"), 0o600), ShouldBeNil)

		Convey("Then loading fails as primary", func() {
			_, err := artifacts.NewLoader(artifacts.WithDir(dir)).Load(ctx)
			So(errors.Is(err, artifacts.ErrPrimaryArtifact), ShouldBeTrue)
			So(artifacts.IsPrimary(err), ShouldBeTrue)
		})
	})

	Convey("Given no source", t, func() {
		_, err := artifacts.NewLoader().Load(ctx)
		So(errors.Is(err, artifacts.ErrNoSource), ShouldBeTrue)
	})
}

func TestLoaderOverHTTP(t *testing.T) {
	ctx := context.Background()

	Convey("Given artifacts served over HTTP", t, func() {
		dir := t.TempDir()
		writeArtifacts(dir, true, false)
		srv := httptest.NewServer(http.StripPrefix("/data/", http.FileServer(http.Dir(dir))))
		defer srv.Close()

		Convey("When loading from the base URL", func() {
			l := artifacts.NewLoader(artifacts.WithBaseURL(srv.URL+"/data/"), artifacts.WithDir("ignored"))
			b, err := l.Load(ctx)

			Convey("Then the primary artifact loads and a 404 degrades", func() {
				So(err, ShouldBeNil)
				So(len(b.Items), ShouldEqual, 2)
				So(b.Names["宝鐘マリン"], ShouldEqual, "Houshou Marine")
				So(b.Degraded, ShouldResemble, []string{export.SearchTermsFile})
			})
		})
	})

	Convey("Given a server failing the primary artifact", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		Convey("Then loading fails", func() {
			_, err := artifacts.NewLoader(artifacts.WithBaseURL(srv.URL)).Load(ctx)
			So(errors.Is(err, artifacts.ErrPrimaryArtifact), ShouldBeTrue)
		})
	})
}
