package sheet

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// writeOfferFixture builds a small offer sheet with the shapes the
// loader has to cope with: decoration above the header, a gap column
// with stray data, a named column with no data, a fully empty data row,
// and a currency-styled price column.
func writeOfferFixture(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	f.SetCellValue(sheet, "A1", "Spring Offers")
	// row 2 stays empty

	f.SetCellValue(sheet, "A3", "Code")
	f.SetCellValue(sheet, "B3", "Name")
	f.SetCellValue(sheet, "C3", "Price")
	f.SetCellValue(sheet, "D3", "Qty")
	// E3 has no header but E4 holds a stray value
	f.SetCellValue(sheet, "F3", "Notes")
	f.SetCellValue(sheet, "G3", "Added")

	f.SetCellValue(sheet, "A4", "A1")
	f.SetCellValue(sheet, "B4", "Widget")
	f.SetCellValue(sheet, "C4", 9.99)
	f.SetCellValue(sheet, "D4", 3)
	f.SetCellValue(sheet, "E4", "stray")
	f.SetCellValue(sheet, "G4", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	f.SetCellValue(sheet, "A5", "A2")
	f.SetCellValue(sheet, "B5", "Gadget")
	f.SetCellValue(sheet, "C5", 1234.5)
	f.SetCellValue(sheet, "D5", 10)

	// row 6 stays empty

	f.SetCellValue(sheet, "A7", "A3")
	f.SetCellValue(sheet, "B7", "Sprocket")
	f.SetCellValue(sheet, "C7", 2)
	f.SetCellValue(sheet, "D7", 1)

	pound := "£#,##0.00"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &pound})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(sheet, "C4", "C7", style); err != nil {
		t.Fatal(err)
	}

	if err := f.SetColWidth(sheet, "A", "A", 10); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "offers.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen(t *testing.T) {
	wb, err := Open(writeOfferFixture(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if len(wb.Sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %d", len(wb.Sheets))
	}
	s := wb.Sheets[0]

	// Grid is padded rectangular out to column G
	for i, row := range s.Cells {
		if len(row) != 7 {
			t.Errorf("Row %d has width %d; want 7", i+1, len(row))
		}
	}

	if got := HeaderGuess(s); got != 3 {
		t.Errorf("HeaderGuess() = %d; want 3", got)
	}

	price := s.Cells[3][2]
	if price.Number == nil || math.Abs(*price.Number-9.99) > 1e-9 {
		t.Errorf("Price cell number = %v; want 9.99", price.Number)
	}
	if price.NumFmt != "£#,##0.00" {
		t.Errorf("Price cell format = %q; want custom pound code", price.NumFmt)
	}

	added := s.Cells[3][6]
	if added.Number != nil {
		t.Errorf("Date cell parsed as number %v; want nil", *added.Number)
	}
	if added.Value == "" {
		t.Error("Date cell has no display value")
	}

	if s.PxWidths[0] != 70 {
		t.Errorf("Column A width = %dpx; want 70", s.PxWidths[0])
	}
	for j, w := range s.PxWidths {
		if w <= 0 {
			t.Errorf("Column %d width = %d; want positive", j+1, w)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestExtract(t *testing.T) {
	wb, err := Open(writeOfferFixture(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s := wb.Sheets[0]

	table, err := Extract(s, 3)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	// The unnamed E column and the data-less Notes column both go
	expected := []string{"Code", "Name", "Price", "Qty", "Added"}
	if len(table.Headers) != len(expected) {
		t.Fatalf("Headers = %v; want %v", table.Headers, expected)
	}
	for i, h := range expected {
		if table.Headers[i] != h {
			t.Errorf("Header %d = %q; want %q", i, table.Headers[i], h)
		}
	}

	// Row 6 is empty and dropped
	if len(table.Rows) != 3 {
		t.Fatalf("Expected 3 data rows, got %d", len(table.Rows))
	}

	if table.Widths[0] != 70 {
		t.Errorf("Code column width = %d; want 70", table.Widths[0])
	}
}

func TestExtractErrors(t *testing.T) {
	wb, err := Open(writeOfferFixture(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s := wb.Sheets[0]

	if _, err := Extract(s, 2); !errors.Is(err, ErrNoColumns) {
		t.Errorf("Extract at empty row: err = %v; want ErrNoColumns", err)
	}
	if _, err := Extract(s, 99); err == nil {
		t.Error("Extract past the sheet should fail")
	}
	if _, err := Extract(s, 0); err == nil {
		t.Error("Extract at row 0 should fail")
	}
}

func TestProject(t *testing.T) {
	wb, err := Open(writeOfferFixture(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	table, err := Extract(wb.Sheets[0], 3)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	grid, err := Project(*table, []string{"Code", "Price", "Qty"})
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	expected := [][]string{
		{"A1", "£9.99", "3"},
		{"A2", "£1,234.50", "10"},
		{"A3", "£2.00", "1"},
	}
	if len(grid.Rows) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(grid.Rows))
	}
	for i, want := range expected {
		for j, cell := range want {
			if grid.Rows[i][j] != cell {
				t.Errorf("Row %d col %d = %q; want %q", i, j, grid.Rows[i][j], cell)
			}
		}
	}

	// Order follows the selection, not the sheet
	swapped, err := Project(*table, []string{"Price", "Code"})
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if swapped.Columns[0] != "Price" || swapped.Rows[0][0] != "£9.99" || swapped.Rows[0][1] != "A1" {
		t.Errorf("Swapped projection = %v / %v; want price first", swapped.Columns, swapped.Rows[0])
	}

	if _, err := Project(*table, []string{"Nope"}); err == nil {
		t.Error("Projecting an unknown column should fail")
	}
	if _, err := Project(*table, nil); !errors.Is(err, ErrNoColumns) {
		t.Errorf("Projecting nothing: err = %v; want ErrNoColumns", err)
	}
}
