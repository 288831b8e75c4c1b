package sheet

import "github.com/dgclarke/offermail/internal/types"

// DetectLimit caps how many leading rows the header scan inspects.
const DetectLimit = 20

// DetectHeaderRow returns the 1-based index of the first row in the scan
// window where more than half the cells hold a value. Offer sheets tend
// to stack a logo row and some blurb above the real column headers, and
// the first majority-filled row is almost always where the table starts.
//
// A row is measured against its own width, so on a ragged grid a short
// sparse row can win over a wider row further down. Rows of width zero
// never qualify. When nothing in the window qualifies, fallback is
// returned. The result is a suggestion only; callers let the user adjust
// it before any parsing happens.
func DetectHeaderRow(rows [][]string, maxRows, fallback int) int {
	for i := 0; i < len(rows) && i < maxRows; i++ {
		filled := 0
		for _, cell := range rows[i] {
			if cell != "" {
				filled++
			}
		}
		if filled*2 > len(rows[i]) {
			return i + 1
		}
	}
	return fallback
}

// HeaderGuess runs the detector over a sheet's display values.
func HeaderGuess(s types.Sheet) int {
	rows := make([][]string, len(s.Cells))
	for i, row := range s.Cells {
		r := make([]string, len(row))
		for j, c := range row {
			r[j] = c.Value
		}
		rows[i] = r
	}
	return DetectHeaderRow(rows, DetectLimit, 1)
}
