package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dgclarke/offermail/internal/types"
)

// moneyLayout groups thousands with commas and keeps exactly two
// decimals, regardless of host locale.
const moneyLayout = "#,###.##"

// FormatValue renders one cell value as it should read in the email
// table. A currency symbol in the cell's number format wins first, in
// the order pound, euro, dollar; then fractional numbers get the grouped
// two-decimal layout without a prefix; everything else passes through as
// text. Values that refuse to parse as numbers under a currency format
// fall back to their text form rather than erroring, so the routine
// never fails.
func FormatValue(value any, numFmt string) string {
	if value == nil {
		return ""
	}

	switch {
	case strings.Contains(numFmt, "£"):
		if f, ok := toFloat(value); ok {
			return "£" + humanize.FormatFloat(moneyLayout, f)
		}
	case strings.Contains(numFmt, "€"):
		if f, ok := toFloat(value); ok {
			return "€" + humanize.FormatFloat(moneyLayout, f)
		}
	case strings.Contains(numFmt, "$"):
		if f, ok := toFloat(value); ok {
			return "$" + humanize.FormatFloat(moneyLayout, f)
		}
	default:
		if f, isFloat := value.(float64); isFloat && f != float64(int64(f)) {
			return humanize.FormatFloat(moneyLayout, f)
		}
	}

	return plainString(value)
}

// FormatCell applies FormatValue to a loaded cell. Cells that parsed as
// numbers format from the parsed value; text and dates format from their
// display string.
func FormatCell(c types.Cell) string {
	if c.Number != nil {
		return FormatValue(*c.Number, c.NumFmt)
	}
	return FormatValue(c.Value, c.NumFmt)
}

// toFloat coerces the value kinds a cell can carry into a float64.
// Numeric strings count, the way a spreadsheet user expects "1234.5"
// under a currency format to mean the number.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func plainString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
