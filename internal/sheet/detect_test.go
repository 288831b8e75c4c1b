package sheet

import (
	"testing"

	"github.com/dgclarke/offermail/internal/types"
)

func TestDetectHeaderRow(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		maxRows  int
		fallback int
		expected int
	}{
		{
			name: "First majority row wins",
			rows: [][]string{
				{"Logo", "", "", ""},
				{"", "", "", ""},
				{"Code", "Name", "Price", "Qty"},
				{"A1", "Widget", "9.99", "3"},
			},
			maxRows:  20,
			fallback: 1,
			expected: 3,
		},
		{
			name: "Early exit beats fuller later row",
			rows: [][]string{
				{"a", "b", "", ""},
				{"a", "b", "c", ""},
				{"a", "b", "c", "d"},
			},
			maxRows:  20,
			fallback: 1,
			expected: 2, // row 1 is exactly half, row 2 is the first strict majority
		},
		{
			name: "Exactly half does not qualify",
			rows: [][]string{
				{"a", "b", "", ""},
				{"", "", "", ""},
			},
			maxRows:  20,
			fallback: 1,
			expected: 1,
		},
		{
			name:     "Empty grid returns fallback",
			rows:     nil,
			maxRows:  20,
			fallback: 1,
			expected: 1,
		},
		{
			name: "All empty window returns fallback",
			rows: [][]string{
				{"", "", ""},
				{"", "", ""},
			},
			maxRows:  20,
			fallback: 1,
			expected: 1,
		},
		{
			name: "Zero width rows never qualify",
			rows: [][]string{
				{},
				{},
				{"a", "b", "c"},
			},
			maxRows:  20,
			fallback: 1,
			expected: 3,
		},
		{
			name: "Qualifying row outside window returns fallback",
			rows: [][]string{
				{"", "", ""},
				{"", "", ""},
				{"a", "b", "c"},
			},
			maxRows:  2,
			fallback: 1,
			expected: 1,
		},
		{
			name: "Fallback passes through unchanged",
			rows: [][]string{
				{"", ""},
			},
			maxRows:  20,
			fallback: 5,
			expected: 5,
		},
		{
			name: "Whitespace counts as a value",
			rows: [][]string{
				{" ", " ", ""},
			},
			maxRows:  20,
			fallback: 3,
			expected: 1, // two space-only cells of three are a majority
		},
		{
			// Inherited quirk: each row is measured against its own
			// width, so a short sparse row on a ragged grid can win
			// over the real header below it.
			name: "Ragged grid lets a short row win",
			rows: [][]string{
				{"Logo"},
				{"", "", "", ""},
				{"Code", "Name", "Price", "Qty"},
			},
			maxRows:  20,
			fallback: 1,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectHeaderRow(tt.rows, tt.maxRows, tt.fallback)
			if got != tt.expected {
				t.Errorf("DetectHeaderRow() = %d; want %d", got, tt.expected)
			}

			// Same input must always give the same answer
			if again := DetectHeaderRow(tt.rows, tt.maxRows, tt.fallback); again != got {
				t.Errorf("DetectHeaderRow() second call = %d; first gave %d", again, got)
			}
		})
	}
}

func TestHeaderGuess(t *testing.T) {
	cell := func(v string) types.Cell { return types.Cell{Value: v} }

	s := types.Sheet{
		Name: "Offers",
		Cells: [][]types.Cell{
			{cell("Logo"), cell(""), cell(""), cell("")},
			{cell(""), cell(""), cell(""), cell("")},
			{cell("Code"), cell("Name"), cell("Price"), cell("Qty")},
			{cell("A1"), cell("Widget"), cell("9.99"), cell("3")},
		},
	}

	if got := HeaderGuess(s); got != 3 {
		t.Errorf("HeaderGuess() = %d; want 3", got)
	}
}
