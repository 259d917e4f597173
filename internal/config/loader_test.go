package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		t.Setenv(envConfigFile, "")
		t.Setenv(envDotEnvFile, "")

		Convey("When loading", func() {
			cfg, err := Load(context.Background())

			Convey("Then defaults are returned", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.PageSize, ShouldEqual, 100)
				So(cfg.Collection, ShouldEqual, "432790438108")
			})
		})
	})

	Convey("Given a YAML file and env overrides", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "instock.yaml")
		content := "addr: \":7000\"\npage_size: 50\nlog_format: json\n"
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)
		t.Setenv(envConfigFile, path)
		t.Setenv(envDotEnvFile, "")
		t.Setenv("INSTOCK_PAGE_SIZE", "25")

		Convey("When loading", func() {
			cfg, err := Load(context.Background())

			Convey("Then env wins over the file and the file over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7000")
				So(cfg.PageSize, ShouldEqual, 25)
				So(cfg.LogFormat, ShouldEqual, "json")
				So(cfg.LogLevel, ShouldEqual, "info")
			})
		})
	})

	Convey("Given an explicit .env file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.env")
		So(os.WriteFile(path, []byte("INSTOCK_DATA_DIR=/srv/catalog\n"), 0o600), ShouldBeNil)
		t.Setenv(envConfigFile, "")
		t.Setenv(envDotEnvFile, path)
		// Registered with t.Setenv so the value loaded from the file is
		// cleaned up after the test.
		t.Setenv("INSTOCK_DATA_DIR", "")
		So(os.Unsetenv("INSTOCK_DATA_DIR"), ShouldBeNil)

		Convey("When loading", func() {
			cfg, err := Load(context.Background())

			Convey("Then its values are applied", func() {
				So(err, ShouldBeNil)
				So(cfg.DataDir, ShouldEqual, "/srv/catalog")
			})
		})
	})

	Convey("Given a missing explicit .env file", t, func() {
		t.Setenv(envConfigFile, "")
		t.Setenv(envDotEnvFile, filepath.Join(t.TempDir(), "absent.env"))

		Convey("When loading", func() {
			_, err := Load(context.Background())

			Convey("Then a load error is returned", func() {
				So(errors.Is(err, ErrLoadConfig), ShouldBeTrue)
			})
		})
	})

	Convey("Given an invalid page size", t, func() {
		t.Setenv(envConfigFile, "")
		t.Setenv(envDotEnvFile, "")
		t.Setenv("INSTOCK_PAGE_SIZE", "0")

		Convey("When loading", func() {
			_, err := Load(context.Background())

			Convey("Then validation fails", func() {
				So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
