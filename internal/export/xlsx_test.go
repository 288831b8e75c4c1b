package export

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dgclarke/offermail/internal/types"
)

func displayGrid() types.Grid {
	return types.Grid{
		Columns: []string{"Code", "Name", "Price"},
		Widths:  []int{70, 120, 80},
		Rows: [][]string{
			{"A1", "Widget", "£9.99"},
			{"A2", "Gadget", "£1,234.50"},
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.xlsx")
	colors := map[string]string{"Price": "#ffd6e7"}

	if err := WriteXLSX(displayGrid(), colors, path); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening export failed: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	wantHeader := []string{"Code", "Name", "Price"}
	for j, h := range wantHeader {
		if rows[0][j] != h {
			t.Errorf("Header %d = %q; want %q", j, rows[0][j], h)
		}
	}
	if rows[1][2] != "£9.99" || rows[2][2] != "£1,234.50" {
		t.Errorf("Price column = %q, %q; want formatted display text", rows[1][2], rows[2][2])
	}

	w, err := f.GetColWidth(sheet, "A")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(w-10) > 0.1 {
		t.Errorf("Column A width = %v; want 10", w)
	}

	styleID, err := f.GetCellStyle(sheet, "A1")
	if err != nil {
		t.Fatal(err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatal(err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Error("Header cell should be bold")
	}
	if len(style.Fill.Color) == 0 || !strings.Contains(strings.ToUpper(style.Fill.Color[0]), "F0F0F0") {
		t.Errorf("Header fill = %v; want the default grey", style.Fill.Color)
	}

	styleID, err = f.GetCellStyle(sheet, "C1")
	if err != nil {
		t.Fatal(err)
	}
	style, err = f.GetStyle(styleID)
	if err != nil {
		t.Fatal(err)
	}
	if len(style.Fill.Color) == 0 || !strings.Contains(strings.ToUpper(style.Fill.Color[0]), "FFD6E7") {
		t.Errorf("Price header fill = %v; want the override", style.Fill.Color)
	}
}

func TestWriteXLSXBadPath(t *testing.T) {
	err := WriteXLSX(displayGrid(), nil, filepath.Join(t.TempDir(), "no", "such", "dir", "x.xlsx"))
	if err == nil {
		t.Error("Expected error for unwritable path")
	}
}
