package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgclarke/offermail/internal/types"
)

var ErrNoColumns = errors.New("no usable columns at the chosen header row")

// Extract builds the header/data view of a sheet at the given 1-based
// header row. Header cells with no name drop their column, data rows
// with no values in the kept columns are skipped, and kept columns that
// turn out to hold no data at all are dropped as well.
func Extract(s types.Sheet, headerRow int) (*types.Table, error) {
	if headerRow < 1 || headerRow > len(s.Cells) {
		return nil, fmt.Errorf("header row %d outside sheet with %d rows", headerRow, len(s.Cells))
	}

	head := s.Cells[headerRow-1]
	var keep []int
	var headers []string
	for j, c := range head {
		if strings.TrimSpace(c.Value) == "" {
			continue
		}
		keep = append(keep, j)
		headers = append(headers, c.Value)
	}
	if len(keep) == 0 {
		return nil, ErrNoColumns
	}

	var rows [][]types.Cell
	for _, row := range s.Cells[headerRow:] {
		projected := make([]types.Cell, len(keep))
		empty := true
		for k, j := range keep {
			if j < len(row) {
				projected[k] = row[j]
			}
			if projected[k].Value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, projected)
	}

	widths := make([]int, len(keep))
	for k, j := range keep {
		if j < len(s.PxWidths) {
			widths[k] = s.PxWidths[j]
		} else {
			widths[k] = int(defaultColWidth * pxPerWidthUnit)
		}
	}

	if len(rows) > 0 {
		headers, rows, widths = dropEmptyColumns(headers, rows, widths)
		if len(headers) == 0 {
			return nil, ErrNoColumns
		}
	}

	return &types.Table{
		HeaderRow: headerRow,
		Headers:   headers,
		Rows:      rows,
		Widths:    widths,
	}, nil
}

// dropEmptyColumns removes named columns whose data cells are all empty.
func dropEmptyColumns(headers []string, rows [][]types.Cell, widths []int) ([]string, [][]types.Cell, []int) {
	used := make([]bool, len(headers))
	for _, row := range rows {
		for k := range headers {
			if row[k].Value != "" {
				used[k] = true
			}
		}
	}

	all := true
	for _, u := range used {
		if !u {
			all = false
			break
		}
	}
	if all {
		return headers, rows, widths
	}

	var outHeaders []string
	var outWidths []int
	for k, u := range used {
		if u {
			outHeaders = append(outHeaders, headers[k])
			outWidths = append(outWidths, widths[k])
		}
	}
	outRows := make([][]types.Cell, len(rows))
	for i, row := range rows {
		for k, u := range used {
			if u {
				outRows[i] = append(outRows[i], row[k])
			}
		}
	}
	return outHeaders, outRows, outWidths
}

// DisplayRows returns the display strings of a table's data rows,
// aligned row for row with any projection of the table.
func DisplayRows(t types.Table) [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(row))
		for j, c := range row {
			r[j] = c.Value
		}
		rows[i] = r
	}
	return rows
}

// Project renders the chosen columns, in the given order, into the
// formatted text grid the table builders consume. Duplicate header
// names resolve to the first matching column.
func Project(t types.Table, columns []string) (*types.Grid, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	idx := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if _, taken := idx[h]; !taken {
			idx[h] = i
		}
	}

	g := &types.Grid{}
	var picked []int
	for _, name := range columns {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("no column named %q", name)
		}
		picked = append(picked, i)
		g.Columns = append(g.Columns, name)
		g.Widths = append(g.Widths, t.Widths[i])
	}

	for _, row := range t.Rows {
		line := make([]string, len(picked))
		for k, i := range picked {
			line[k] = FormatCell(row[i])
		}
		g.Rows = append(g.Rows, line)
	}
	return g, nil
}
