package sheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/dgclarke/offermail/internal/types"
)

const (
	// defaultColWidth is the spreadsheet width of a column nobody
	// resized, in character units.
	defaultColWidth = 8.43
	// pxPerWidthUnit converts character units to the pixel widths the
	// email table uses.
	pxPerWidthUnit = 7
)

var ErrNoSheets = errors.New("workbook has no sheets")

// Open loads every worksheet of the file at path into memory.
func Open(path string) (*types.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	wb, err := snapshot(f)
	if err != nil {
		return nil, err
	}
	wb.Path = path
	return wb, nil
}

// OpenReader is Open for an uploaded stream.
func OpenReader(r io.Reader, name string) (*types.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	wb, err := snapshot(f)
	if err != nil {
		return nil, err
	}
	wb.Path = name
	return wb, nil
}

func snapshot(f *excelize.File) (*types.Workbook, error) {
	wb := &types.Workbook{}
	for _, name := range f.GetSheetList() {
		s, err := loadSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, *s)
	}
	if len(wb.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	return wb, nil
}

// loadSheet captures one worksheet as a rectangular grid. Display and
// raw values come from two passes over the rows; the grid is padded to
// the widest row seen in either.
func loadSheet(f *excelize.File, name string) (*types.Sheet, error) {
	display, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	height := len(display)
	if len(raw) > height {
		height = len(raw)
	}
	width := 0
	for _, row := range display {
		if len(row) > width {
			width = len(row)
		}
	}
	for _, row := range raw {
		if len(row) > width {
			width = len(row)
		}
	}

	styles := make(map[int]string)
	cells := make([][]types.Cell, height)
	for i := 0; i < height; i++ {
		cells[i] = make([]types.Cell, width)
		for j := 0; j < width; j++ {
			c := types.Cell{}
			if i < len(display) && j < len(display[i]) {
				c.Value = display[i][j]
			}
			if i < len(raw) && j < len(raw[i]) {
				c.Raw = raw[i][j]
			}
			c.NumFmt = cellNumFmt(f, name, styles, j+1, i+1)
			if c.Raw != "" && !isDateFmt(c.NumFmt) {
				if n, err := strconv.ParseFloat(c.Raw, 64); err == nil {
					c.Number = &n
				}
			}
			cells[i][j] = c
		}
	}

	widths := make([]int, width)
	for j := 0; j < width; j++ {
		letter, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return nil, err
		}
		w, err := f.GetColWidth(name, letter)
		if err != nil || w <= 0 {
			w = defaultColWidth
		}
		widths[j] = int(w * pxPerWidthUnit)
	}

	return &types.Sheet{Name: name, Cells: cells, PxWidths: widths}, nil
}

// cellNumFmt resolves the number format code behind a cell's style,
// caching per style id since sheets reuse a handful of styles across
// thousands of cells.
func cellNumFmt(f *excelize.File, sheet string, cache map[int]string, col, row int) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return ""
	}
	if code, ok := cache[styleID]; ok {
		return code
	}

	code := ""
	if style, err := f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			code = *style.CustomNumFmt
		} else {
			code = builtinNumFmt[style.NumFmt]
		}
	}
	cache[styleID] = code
	return code
}
