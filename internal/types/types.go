package types

// Cell is one worksheet cell as captured at load time.
type Cell struct {
	Value  string   // display text, as the spreadsheet shows it
	Raw    string   // stored value before number formatting
	Number *float64 // parsed numeric value, nil for text and dates
	NumFmt string   // number format code attached to the cell's style
}

// Sheet is a rectangular snapshot of one worksheet. Rows are padded to
// the sheet's widest row so every row has the same length.
type Sheet struct {
	Name     string
	Cells    [][]Cell
	PxWidths []int
}

// Workbook holds every sheet of a loaded file.
type Workbook struct {
	Path   string
	Sheets []Sheet
}

// Table is the header/data view of a sheet at a confirmed header row.
type Table struct {
	HeaderRow int // 1-based sheet row the headers came from
	Headers   []string
	Rows      [][]Cell
	Widths    []int
}

// Grid is the formatted text view handed to the table builders.
type Grid struct {
	Columns []string
	Rows    [][]string
	Widths  []int
}

// BuildResult summarizes one generation run.
type BuildResult struct {
	InputFile  string
	HTMLFile   string
	Columns    []string
	RowCount   int
	ImageCount int
}
