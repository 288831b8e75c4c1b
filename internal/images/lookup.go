package images

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrLookupColumns is returned when the lookup sheet lacks the code or
// image url column.
var ErrLookupColumns = errors.New("lookup sheet is missing the code or image url column")

// Lookup maps product codes to candidate image urls, read from a small
// companion spreadsheet with one code column and one url column.
type Lookup struct {
	urls map[string]string
}

// LoadLookup reads the first sheet of the workbook at path. codeCol and
// urlCol name the two columns to use; both must appear in the first row.
func LoadLookup(path, codeCol, urlCol string) (*Lookup, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening lookup: %w", err)
	}
	defer f.Close()
	return readLookup(f, codeCol, urlCol)
}

// LoadLookupReader is LoadLookup for an uploaded stream.
func LoadLookupReader(r io.Reader, codeCol, urlCol string) (*Lookup, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening lookup: %w", err)
	}
	defer f.Close()
	return readLookup(f, codeCol, urlCol)
}

func readLookup(f *excelize.File, codeCol, urlCol string) (*Lookup, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("lookup workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: want %q and %q", ErrLookupColumns, codeCol, urlCol)
	}

	codeIdx, urlIdx := -1, -1
	for j, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case codeCol:
			if codeIdx == -1 {
				codeIdx = j
			}
		case urlCol:
			if urlIdx == -1 {
				urlIdx = j
			}
		}
	}
	if codeIdx == -1 || urlIdx == -1 {
		return nil, fmt.Errorf("%w: want %q and %q", ErrLookupColumns, codeCol, urlCol)
	}

	urls := make(map[string]string)
	for _, row := range rows[1:] {
		var code, url string
		if codeIdx < len(row) {
			code = strings.TrimSpace(row[codeIdx])
		}
		if urlIdx < len(row) {
			url = strings.TrimSpace(row[urlIdx])
		}
		if code == "" || url == "" {
			continue
		}
		if _, dup := urls[code]; dup {
			continue
		}
		urls[code] = url
	}
	return &Lookup{urls: urls}, nil
}

// Resolve returns the candidate url for a product code. Codes match
// case-sensitively after trimming surrounding space.
func (l *Lookup) Resolve(code string) (string, bool) {
	url, ok := l.urls[strings.TrimSpace(code)]
	return url, ok
}

// Len reports how many codes the lookup carries. A nil lookup is empty.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.urls)
}

// RowURLs resolves each row's join-column value to its candidate url.
// Rows without a match get an empty string, keeping the result aligned
// with the input rows.
func RowURLs(l *Lookup, rows [][]string, joinCol int) []string {
	urls := make([]string, len(rows))
	if l == nil {
		return urls
	}
	for i, row := range rows {
		if joinCol < 0 || joinCol >= len(row) {
			continue
		}
		if url, ok := l.Resolve(row[joinCol]); ok {
			urls[i] = url
		}
	}
	return urls
}
