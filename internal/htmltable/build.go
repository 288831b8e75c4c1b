package htmltable

import (
	"fmt"
	"html"
	"strings"

	"github.com/dgclarke/offermail/internal/types"
)

const (
	defaultHeaderColor = "#f0f0f0"
	defaultCellColor   = "#ffffff"

	// imageColWidth is the fixed pixel width of the leading image
	// column; imageDisplayWidth is the rendered width of the img
	// element inside it.
	imageColWidth     = 88
	imageDisplayWidth = 80
)

// Options carry the presentation choices for one build.
type Options struct {
	// Colors maps column names to background hex overrides, applied to
	// both the header and data cells of that column.
	Colors map[string]string
	// Images holds one url per data row; an empty string leaves that
	// row's image cell blank. Nil means no image column at all.
	Images []string
}

// Build renders the grid as an email table document: the table body
// plus a stylesheet block that Inline merges into the elements
// afterwards. Cell text is escaped here; the formatter upstream only
// deals in plain text.
func Build(g types.Grid, opts Options) string {
	var b strings.Builder

	b.WriteString("<html><head><style>\n")
	writeCSS(&b, g, opts)
	b.WriteString("</style></head><body>\n")
	writeTable(&b, g, opts)
	b.WriteString("\n</body></html>\n")

	return b.String()
}

func writeCSS(b *strings.Builder, g types.Grid, opts Options) {
	b.WriteString("table.offer{border-collapse:collapse;font-family:Arial,sans-serif;font-size:12px;table-layout:fixed;}\n")
	fmt.Fprintf(b, "table.offer th{border:1px solid #ccc;padding:6px;background:%s;font-weight:bold;text-align:center;white-space:normal;overflow-wrap:normal;word-break:normal;}\n", defaultHeaderColor)
	fmt.Fprintf(b, "table.offer td{border:1px solid #ccc;padding:6px;background:%s;text-align:center;}\n", defaultCellColor)

	for j, name := range g.Columns {
		color := opts.Colors[name]
		if color == "" {
			continue
		}
		fmt.Fprintf(b, "table.offer th.c%d,table.offer td.c%d{background:%s;}\n", j, j, color)
	}
}

func writeTable(b *strings.Builder, g types.Grid, opts Options) {
	hasImages := opts.Images != nil

	total := 0
	if hasImages {
		total += imageColWidth
	}
	for _, w := range g.Widths {
		total += w
	}

	fmt.Fprintf(b, `<table class="offer" width="%dpx">`, total)

	b.WriteString("<colgroup>")
	if hasImages {
		fmt.Fprintf(b, `<col style="width:%dpx;" />`, imageColWidth)
	}
	for _, w := range g.Widths {
		fmt.Fprintf(b, `<col style="width:%dpx;" />`, w)
	}
	b.WriteString("</colgroup>")

	b.WriteString("<tr>")
	if hasImages {
		b.WriteString(`<th class="pic"></th>`)
	}
	for j, name := range g.Columns {
		fmt.Fprintf(b, `<th class="c%d">%s</th>`, j, html.EscapeString(name))
	}
	b.WriteString("</tr>\n")

	for i, row := range g.Rows {
		b.WriteString("<tr>")
		if hasImages {
			url := ""
			if i < len(opts.Images) {
				url = opts.Images[i]
			}
			if url != "" {
				fmt.Fprintf(b, `<td class="pic"><img src="%s" width="%d" /></td>`, html.EscapeString(url), imageDisplayWidth)
			} else {
				b.WriteString(`<td class="pic"></td>`)
			}
		}
		for j, cell := range row {
			fmt.Fprintf(b, `<td class="c%d">%s</td>`, j, html.EscapeString(cell))
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("</table>")
}
