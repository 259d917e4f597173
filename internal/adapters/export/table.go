package export

import (
	"html/template"
	"strings"

	"github.com/okian/instock/internal/domain/model"
)

// tablePage escapes every cell as text.
var tablePage = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>In-stock items</title>
<style>table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:6px 10px;text-align:left}th{background:#f5f5f5}</style>
</head>
<body>
<table>
<thead><tr><th>Title</th><th>Item</th><th>Price</th></tr></thead>
<tbody>
{{- range .}}
  <tr><td>{{.Title}}</td><td>{{.Item}}</td><td>{{.Price}}</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>`)) //nolint:gochecknoglobals // parsed once, safe for concurrent use

const placeholder = "—"

// Markdown renders rows as a Title/Item/Price table. Pipes in cells are
// escaped.
func Markdown(rows []model.Row) string {
	var b strings.Builder
	b.WriteString("| Title | Item | Price |\n")
	b.WriteString("| --- | --- | --- |\n")
	for i := range rows {
		r := &rows[i]
		b.WriteString("| ")
		b.WriteString(mdCell(orPlaceholder(r.Title)))
		b.WriteString(" | ")
		b.WriteString(mdCell(orPlaceholder(r.Item)))
		b.WriteString(" | ")
		b.WriteString(mdCell(r.Price))
		b.WriteString(" |\n")
	}
	return b.String()
}

// HTML renders rows as a standalone HTML page holding a Title/Item/Price table.
func HTML(rows []model.Row) string {
	var b strings.Builder
	// Rows are plain strings; execution only fails on a broken writer.
	_ = tablePage.Execute(&b, rows)
	return b.String()
}

// WriteTables writes Markdown and HTML tables next to the catalog input.
func WriteTables(input string, rows []model.Row) (string, string, error) {
	mdPath, htmlPath := TablePaths(input)
	if err := writeFile(mdPath, []byte(Markdown(rows))); err != nil {
		return "", "", err
	}
	if err := writeFile(htmlPath, []byte(HTML(rows))); err != nil {
		return "", "", err
	}
	return mdPath, htmlPath, nil
}

func mdCell(s string) string { return strings.ReplaceAll(s, "|", `\|`) }

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
