package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/instock/internal/config"
	"github.com/okian/instock/internal/pipeline"

	"github.com/smartystreets/goconvey/convey"
)

const sampleCatalog = `{"data":{"total":1,"items":[
{"id":1,"title":"Acrylic Stand","vendor":"Houshou Marine","variants":[{"id":11,"price":2000,"available":3,"options":[]}]}
]}}`

func TestRun(t *testing.T) {
	convey.Convey("Given a saved catalog document", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		in := filepath.Join(dir, "catalog.json")
		convey.So(os.WriteFile(in, []byte(sampleCatalog), 0o600), convey.ShouldBeNil)
		cfg := config.New(ctx)

		convey.Convey("When running in report-only mode", func() {
			err := run(ctx, cfg, &pipeline.Config{
				FromFile:   in,
				ReportOnly: true,
				OutputJSON: filepath.Join(dir, "items.json"),
			})

			convey.Convey("Then nothing besides the input is written", func() {
				convey.So(err, convey.ShouldBeNil)
				entries, err := os.ReadDir(dir)
				convey.So(err, convey.ShouldBeNil)
				convey.So(entries, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When running a full build", func() {
			out := filepath.Join(dir, "items.json")
			err := run(ctx, cfg, &pipeline.Config{FromFile: in, OutputJSON: out})

			convey.Convey("Then items.json is written", func() {
				convey.So(err, convey.ShouldBeNil)
				_, statErr := os.Stat(out)
				convey.So(statErr, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the input file is missing", func() {
			err := run(ctx, cfg, &pipeline.Config{FromFile: filepath.Join(dir, "absent.json")})

			convey.Convey("Then the build fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestOrDefault(t *testing.T) {
	convey.Convey("orDefault keeps explicit values", t, func() {
		convey.So(orDefault("x", "y"), convey.ShouldEqual, "x")
		convey.So(orDefault("", "y"), convey.ShouldEqual, "y")
	})
}
