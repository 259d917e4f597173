package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/instock/internal/adapters/export"
	"github.com/okian/instock/internal/domain/model"

	"github.com/PuerkitoBio/goquery"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRows() []model.Row {
	five := int64(5)
	return []model.Row{
		{Title: "Acrylic Stand | Deluxe", Item: "A / B", Price: "$1,500", Stock: &five, StockDisplay: "5", Talent: "Houshou Marine"},
		{Title: "Tom & Jerry <script>alert(1)</script>Set", Item: "", Price: "$3,000", StockDisplay: "Unlimited", Talent: "—"},
	}
}

func TestWriteItems(t *testing.T) {
	Convey("Given rows and a build stamp", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", export.ItemsFile)

		Convey("When writing the items artifact", func() {
			So(export.WriteItems(path, sampleRows(), "2024-06-01T00:00:00.000Z"), ShouldBeNil)
			b, err := os.ReadFile(path)
			So(err, ShouldBeNil)

			Convey("Then only items and builtAt are present", func() {
				var top map[string]json.RawMessage
				So(json.Unmarshal(b, &top), ShouldBeNil)
				So(len(top), ShouldEqual, 2)
				So(string(top["builtAt"]), ShouldEqual, `"2024-06-01T00:00:00.000Z"`)
			})

			Convey("Then unlimited stock is null and text is not HTML-escaped", func() {
				var out struct {
					Items []map[string]any `json:"items"`
				}
				So(json.Unmarshal(b, &out), ShouldBeNil)
				So(len(out.Items), ShouldEqual, 2)
				So(out.Items[0]["stock"], ShouldEqual, 5.0)
				v, ok := out.Items[1]["stock"]
				So(ok, ShouldBeTrue)
				So(v, ShouldBeNil)
				So(strings.Contains(string(b), "Tom & Jerry"), ShouldBeTrue)
				So(strings.Contains(string(b), `  "items": [`), ShouldBeTrue)
			})

			Convey("Then no temp files are left behind", func() {
				entries, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
			})
		})

		Convey("When writing no rows", func() {
			So(export.WriteItems(path, nil, "x"), ShouldBeNil)
			b, _ := os.ReadFile(path)

			Convey("Then items is an empty list", func() {
				So(strings.Contains(string(b), `"items": []`), ShouldBeTrue)
			})
		})
	})
}

func TestWriteLookupTables(t *testing.T) {
	Convey("Given lookup tables", t, func() {
		dir := t.TempDir()
		So(export.WriteNameMap(dir, model.NameMap{"宝鐘マリン": "Houshou Marine"}), ShouldBeNil)
		So(export.WriteSearchTerms(dir, model.SearchTerms{"Houshou Marine": {"Houshou Marine", "宝鐘マリン"}}), ShouldBeNil)

		Convey("Then they are written under their fixed names", func() {
			var names model.NameMap
			b, err := os.ReadFile(filepath.Join(dir, export.NameMapFile))
			So(err, ShouldBeNil)
			So(json.Unmarshal(b, &names), ShouldBeNil)
			So(names["宝鐘マリン"], ShouldEqual, "Houshou Marine")

			var terms model.SearchTerms
			b, err = os.ReadFile(filepath.Join(dir, export.SearchTermsFile))
			So(err, ShouldBeNil)
			So(json.Unmarshal(b, &terms), ShouldBeNil)
			So(terms["Houshou Marine"], ShouldResemble, []string{"Houshou Marine", "宝鐘マリン"})
		})
	})
}

func TestWriteDocument(t *testing.T) {
	Convey("Given raw items with unknown fields", t, func() {
		path := filepath.Join(t.TempDir(), "catalog-in-stock.json")
		doc := model.NewDocument([]json.RawMessage{json.RawMessage(`{"id":1,"custom":{"x":true}}`)})

		Convey("Then they survive re-export", func() {
			So(export.WriteDocument(path, doc), ShouldBeNil)
			b, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			var back model.Document
			So(json.Unmarshal(b, &back), ShouldBeNil)
			So(back.Data.Total, ShouldEqual, 1)
			So(strings.Contains(string(back.Data.Items[0]), `"custom"`), ShouldBeTrue)
		})
	})
}

func TestBuildTimestamp(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 0, 123456789, time.FixedZone("JST", 9*3600))

	Convey("Given no override", t, func() {
		t.Setenv(export.BuildTimestampEnv, "")

		Convey("Then the UTC time is stamped with milliseconds", func() {
			So(export.BuildTimestamp(now), ShouldEqual, "2024-06-01T03:30:00.123Z")
		})
	})

	Convey("Given an override", t, func() {
		t.Setenv(export.BuildTimestampEnv, "2020-01-01T00:00:00.000Z")

		Convey("Then it wins", func() {
			So(export.BuildTimestamp(now), ShouldEqual, "2020-01-01T00:00:00.000Z")
		})
	})
}

func TestPaths(t *testing.T) {
	Convey("Given catalog file names", t, func() {
		md, html := export.TablePaths("data/catalog-in-stock.json")
		So(md, ShouldEqual, "data/catalog-in-stock-table.md")
		So(html, ShouldEqual, "data/catalog-in-stock-table.html")

		md, _ = export.TablePaths("data/Other.JSON")
		So(md, ShouldEqual, "data/Other-in-stock-table.md")

		in, out := export.SplitPaths("data/catalog.json")
		So(in, ShouldEqual, "data/catalog-in-stock.json")
		So(out, ShouldEqual, "data/catalog-out-of-stock.json")

		So(export.IsSplitPath("data/catalog-in-stock.json"), ShouldBeTrue)
		So(export.IsSplitPath("data/catalog-out-of-stock.JSON"), ShouldBeTrue)
		So(export.IsSplitPath("data/catalog.json"), ShouldBeFalse)
		So(export.IsSplitPath("data/in-stock/catalog.json"), ShouldBeFalse)
	})
}

func TestMarkdown(t *testing.T) {
	Convey("Given rows with pipes and empty items", t, func() {
		md := export.Markdown(sampleRows())
		lines := strings.Split(strings.TrimSuffix(md, "\n"), "\n")

		Convey("Then pipes are escaped and empty cells get a dash", func() {
			So(len(lines), ShouldEqual, 4)
			So(lines[0], ShouldEqual, "| Title | Item | Price |")
			So(lines[2], ShouldEqual, `| Acrylic Stand \| Deluxe | A / B | $1,500 |`)
			So(lines[3], ShouldStartWith, "| Tom & Jerry")
			So(lines[3], ShouldEndWith, "| — | $3,000 |")
		})
	})
}

func TestHTML(t *testing.T) {
	Convey("Given rows with markup in their text", t, func() {
		page := export.HTML(sampleRows())
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		So(err, ShouldBeNil)

		Convey("Then one table row is rendered per item", func() {
			So(doc.Find("thead th").Length(), ShouldEqual, 3)
			So(doc.Find("tbody tr").Length(), ShouldEqual, 2)
		})

		Convey("Then cell text is escaped and never parsed as markup", func() {
			first := doc.Find("tbody tr").First().Find("td")
			So(first.Eq(0).Text(), ShouldEqual, "Acrylic Stand | Deluxe")
			So(first.Eq(2).Text(), ShouldEqual, "$1,500")

			second := doc.Find("tbody tr").Eq(1).Find("td")
			So(second.Eq(0).Text(), ShouldEqual, "Tom & Jerry <script>alert(1)</script>Set")
			So(doc.Find("script").Length(), ShouldEqual, 0)
		})
	})

	Convey("Given text that looks like tags", t, func() {
		page := export.HTML([]model.Row{{Title: "Marine <3 Birthday Set", Item: "Acrylic <Big> / A&B", Price: "$2,000"}})
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		So(err, ShouldBeNil)

		Convey("Then every character survives", func() {
			cells := doc.Find("tbody tr").First().Find("td")
			So(cells.Eq(0).Text(), ShouldEqual, "Marine <3 Birthday Set")
			So(cells.Eq(1).Text(), ShouldEqual, "Acrylic <Big> / A&B")
			So(page, ShouldContainSubstring, "Acrylic &lt;Big&gt; / A&amp;B")
		})
	})
}

func TestWriteTables(t *testing.T) {
	Convey("Given an input catalog path", t, func() {
		input := filepath.Join(t.TempDir(), "catalog-in-stock.json")

		Convey("Then both tables are written beside it", func() {
			md, html, err := export.WriteTables(input, sampleRows())
			So(err, ShouldBeNil)
			_, err = os.Stat(md)
			So(err, ShouldBeNil)
			_, err = os.Stat(html)
			So(err, ShouldBeNil)
		})
	})
}
