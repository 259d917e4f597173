package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/instock/internal/adapters/artifacts"
	"github.com/okian/instock/internal/adapters/export"
	"github.com/okian/instock/internal/adapters/repository"
	service "github.com/okian/instock/internal/app"
	"github.com/okian/instock/internal/domain/model"
	"github.com/okian/instock/internal/domain/query"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
)

const builtAt = "2025-03-01T10:00:00.000Z"

func int64p(v int64) *int64 { return &v }

func sampleRows() []model.Row {
	return []model.Row{
		{Title: "Marine Birthday Set", Item: "Full Set", Price: "$80", Stock: int64p(3), StockDisplay: "3",
			Talent: "宝鐘マリン", ItemType: "Full Set", Date: "2025-02-01", DateRaw: "2025-02-01T00:00:00Z"},
		{Title: "Pekora Acrylic Stand", Item: "Stand", Price: "$20", Stock: nil, StockDisplay: "Unlimited",
			Talent: "Usada Pekora", ItemType: "Stand", Date: "2025-01-15", DateRaw: "2025-01-15T00:00:00Z"},
		{Title: "Pekora Voice Pack", Item: "Voice", Price: "$10", Stock: nil, StockDisplay: "Unlimited",
			Talent: "Usada Pekora", ItemType: "ボイス", IsDigital: true, Date: "2025-02-10", DateRaw: "2025-02-10T00:00:00Z"},
	}
}

func writeArtifacts(dir string, rows []model.Row, withAux bool) {
	So(export.WriteItems(filepath.Join(dir, export.ItemsFile), rows, builtAt), ShouldBeNil)
	if withAux {
		So(export.WriteNameMap(dir, model.NameMap{"宝鐘マリン": "Houshou Marine"}), ShouldBeNil)
		So(export.WriteSearchTerms(dir, model.SearchTerms{
			"Houshou Marine": {"Houshou Marine", "宝鐘マリン", "マリン"},
			"Usada Pekora":   {"Usada Pekora", "兎田ぺこら"},
		}), ShouldBeNil)
	}
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a directory with complete artifacts", t, func() {
		dir := t.TempDir()
		writeArtifacts(dir, sampleRows(), true)
		store := repository.NewMemoryStore()
		svc := service.New(
			service.WithLoader(artifacts.NewLoader(artifacts.WithDir(dir))),
			service.WithStore(store),
			service.WithReloadDebounce(10*time.Millisecond),
		)
		ctx := context.Background()
		defer svc.Stop()

		Convey("When querying before start", func() {
			_, err := svc.Query(ctx, query.Default())

			Convey("Then the catalog is reported as not loaded", func() {
				So(errors.Is(err, service.ErrNotLoaded), ShouldBeTrue)
			})
		})

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then rows are normalised through the name map", func() {
				res, err := svc.Query(ctx, query.Default())
				So(err, ShouldBeNil)
				So(res.Total, ShouldEqual, 3)
				So(res.BuiltAt, ShouldEqual, builtAt)
				So(res.Items[0].Title, ShouldEqual, "Pekora Voice Pack")
				So(res.Items[1].Talent, ShouldEqual, "Houshou Marine")
			})

			Convey("Then a talent matches ignoring case", func() {
				q := query.Default()
				q.Talent = "houshou marine"
				res, err := svc.Query(ctx, q)
				So(err, ShouldBeNil)
				So(len(res.Items), ShouldEqual, 1)
				So(res.Items[0].Title, ShouldEqual, "Marine Birthday Set")
			})

			Convey("Then digital rows can be excluded", func() {
				q := query.Default()
				q.ExcludeDigital = true
				res, err := svc.Query(ctx, q)
				So(err, ShouldBeNil)
				So(len(res.Items), ShouldEqual, 2)
			})

			Convey("Then talents are listed", func() {
				talents, err := svc.Talents(ctx)
				So(err, ShouldBeNil)
				So(talents, ShouldResemble, []string{"Houshou Marine", "Usada Pekora"})
			})

			Convey("Then a snapshot is stored", func() {
				list, err := svc.Snapshots(ctx, 5)
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 1)
				So(list[0].Rows, ShouldEqual, 3)
				So(list[0].Source, ShouldEqual, dir)

				sum, err := svc.Snapshot(ctx, list[0].ID)
				So(err, ShouldBeNil)
				So(sum.BuiltAt, ShouldEqual, builtAt)

				_, err = svc.Snapshot(ctx, uuid.New())
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then every artifact is served", func() {
				for _, name := range []string{export.ItemsFile, export.NameMapFile, export.SearchTermsFile} {
					b, err := svc.Artifact(ctx, name)
					So(err, ShouldBeNil)
					So(len(b), ShouldBeGreaterThan, 0)
				}
				_, err := svc.Artifact(ctx, "secrets.json")
				So(errors.Is(err, service.ErrUnknownArtifact), ShouldBeTrue)
			})

			Convey("Then stats describe the catalog", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["rows"], ShouldEqual, 3)
				So(stats["talents"], ShouldEqual, 2)
				So(stats["snapshots"], ShouldEqual, 1)
			})

			Convey("And the artifacts change on disk", func() {
				writeArtifacts(dir, sampleRows()[:1], true)

				Convey("Then a burst of scheduled reloads loads once", func() {
					for range 5 {
						svc.ScheduleReload(ctx)
					}
					So(eventually(func() bool { return store.Count(ctx) == 2 }), ShouldBeTrue)
					time.Sleep(50 * time.Millisecond)
					So(store.Count(ctx), ShouldEqual, 2)

					res, err := svc.Query(ctx, query.Default())
					So(err, ShouldBeNil)
					So(res.Total, ShouldEqual, 1)
				})
			})

			Convey("And the primary artifact becomes unreadable", func() {
				So(os.WriteFile(filepath.Join(dir, export.ItemsFile), []byte("{"), 0o600), ShouldBeNil)

				Convey("Then reload fails and the previous catalog stays", func() {
					err := svc.Reload(ctx)
					So(errors.Is(err, artifacts.ErrPrimaryArtifact), ShouldBeTrue)

					res, err := svc.Query(ctx, query.Default())
					So(err, ShouldBeNil)
					So(res.Total, ShouldEqual, 3)
				})
			})
		})
	})

	Convey("Given a directory with only the primary artifact", t, func() {
		dir := t.TempDir()
		writeArtifacts(dir, sampleRows(), false)
		svc := service.New(service.WithLoader(artifacts.NewLoader(artifacts.WithDir(dir))))
		ctx := context.Background()
		defer svc.Stop()

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the catalog is served degraded", func() {
				stats := svc.GetStats()
				So(stats["degraded"], ShouldResemble, []string{export.NameMapFile, export.SearchTermsFile})

				_, err := svc.Artifact(ctx, export.NameMapFile)
				So(errors.Is(err, service.ErrUnavailable), ShouldBeTrue)
			})

			Convey("Then every talent still matches by its own name", func() {
				terms, err := svc.Terms(ctx)
				So(err, ShouldBeNil)
				So(terms["Usada Pekora"], ShouldResemble, []string{"Usada Pekora"})

				q := query.Default()
				q.Talent = "宝鐘マリン"
				res, err := svc.Query(ctx, q)
				So(err, ShouldBeNil)
				So(len(res.Items), ShouldEqual, 1)
			})
		})
	})

	Convey("Given an empty directory", t, func() {
		svc := service.New(service.WithLoader(artifacts.NewLoader(artifacts.WithDir(t.TempDir()))))

		Convey("When the service starts", func() {
			err := svc.Start(context.Background())

			Convey("Then start fails on the primary artifact", func() {
				So(artifacts.IsPrimary(err), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_StartFromStoredSnapshot(t *testing.T) {
	Convey("Given an empty directory and a store holding an earlier build", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		snap := repository.NewSnapshot("build:earlier", builtAt, sampleRows(), nil, nil)
		So(store.Save(ctx, snap), ShouldBeNil)
		svc := service.New(
			service.WithLoader(artifacts.NewLoader(artifacts.WithDir(t.TempDir()))),
			service.WithStore(store),
		)
		defer svc.Stop()

		Convey("When the service starts", func() {
			err := svc.Start(ctx)

			Convey("Then the stored snapshot is served", func() {
				So(err, ShouldBeNil)
				res, err := svc.Query(ctx, query.Query{SortKey: query.SortByDate})
				So(err, ShouldBeNil)
				So(len(res.Items), ShouldEqual, 3)
				So(res.BuiltAt, ShouldEqual, builtAt)

				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["restored"], ShouldEqual, true)
				So(stats["snapshot"], ShouldEqual, snap.ID.String())
			})

			Convey("Then lookup tables it never had are unavailable", func() {
				_, err := svc.Artifact(ctx, export.NameMapFile)
				So(errors.Is(err, service.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
