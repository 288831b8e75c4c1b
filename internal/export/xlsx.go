package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgclarke/offermail/internal/types"
)

const defaultHeaderFill = "F0F0F0"

// WriteXLSX saves the displayed table to a fresh workbook, carrying the
// header fills and column widths over from the email table. Values land
// as the formatted display text, not the source numbers.
func WriteXLSX(g types.Grid, colors map[string]string, path string) error {
	f, err := buildXLSX(g, colors)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// XLSXBytes renders the same workbook in memory, for download handlers.
func XLSXBytes(g types.Grid, colors map[string]string) ([]byte, error) {
	f, err := buildXLSX(g, colors)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func buildXLSX(g types.Grid, colors map[string]string) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := f.GetSheetName(0)

	for j, name := range g.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}

		styleID, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexFill(colors[name], defaultHeaderFill)}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
			return nil, err
		}

		if j < len(g.Widths) {
			letter, err := excelize.ColumnNumberToName(j + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(sheet, letter, letter, float64(g.Widths[j])/7); err != nil {
				return nil, err
			}
		}
	}

	for i, row := range g.Rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// hexFill strips the css hash prefix spreadsheet styles do not want.
func hexFill(color, fallback string) string {
	color = strings.TrimPrefix(color, "#")
	if color == "" {
		return fallback
	}
	return color
}
