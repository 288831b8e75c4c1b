package ui

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (m Model) viewFilePicker() string {
	var s strings.Builder

	title := TitleStyle.Render("✉ Offermail - Offer Sheet to Email Table")

	s.WriteString(title)
	s.WriteString("\n")
	if m.state == stateLookupPicker {
		s.WriteString(SubtitleStyle.Render("Select the image lookup workbook (.xlsx)"))
	} else {
		s.WriteString(SubtitleStyle.Render("Select an offer sheet (.xlsx)"))
	}
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	if m.state == stateLookupPicker {
		s.WriteString(HelpStyle.Render("esc: back • ctrl+c: quit"))
	} else {
		s.WriteString(HelpStyle.Render("Press q to quit"))
	}

	return s.String()
}

func (m Model) viewSheetSelect() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✉ Select Sheet"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.inputFile))))
	s.WriteString("\n\n")

	for i, sh := range m.workbook.Sheets {
		cursor := " "
		if m.sheetCur == i {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %s (%d rows)", cursor, sh.Name, len(sh.Cells))
		if m.sheetCur == i {
			line = SelectedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewHeaderRow() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✉ Pick the Header Row"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Sheet: %s", m.sheet().Name)))
	s.WriteString("\n\n")

	s.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Suggested header row: %d", m.suggested)))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("Header row: %s\n", SelectedStyle.Render(fmt.Sprintf("%d", m.headerRow))))
	s.WriteString(PathStyle.Render(m.headerPreview()))
	s.WriteString("\n")

	if m.rowWarn != "" {
		s.WriteString("\n")
		s.WriteString(WarnStyle.Render(m.rowWarn))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: adjust • enter: confirm • q: quit"))

	return BoxStyle.Render(s.String())
}

// headerPreview shows the first few cells of the candidate row.
func (m Model) headerPreview() string {
	cells := m.sheet().Cells
	if m.headerRow < 1 || m.headerRow > len(cells) {
		return ""
	}

	var parts []string
	for _, c := range cells[m.headerRow-1] {
		v := c.Value
		if v == "" {
			v = "·"
		}
		if r := []rune(v); len(r) > 12 {
			v = string(r[:12]) + "…"
		}
		parts = append(parts, v)
		if len(parts) == 6 {
			break
		}
	}

	return strings.Join(parts, " | ")
}

func (m Model) viewColumnSelect() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✉ Choose Columns"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s • header row %d", filepath.Base(m.inputFile), m.headerRow)))
	s.WriteString("\n\n")

	for i, header := range m.table.Headers {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		checked := " "
		if m.selected[i] {
			checked = "✓"
		}

		line := fmt.Sprintf("%s [%s] %s", cursor, checked, header)

		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else if m.selected[i] {
			line = CheckedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}

		if pi := m.colorIdx[i]; pi > 0 {
			line += " " + Swatch(columnPalette[pi])
		}
		if m.joinCol == i && m.lookup != nil {
			line += " " + TagStyle.Render("(code)")
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")

	if m.lookup != nil {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Lookup: %s (%d codes)", filepath.Base(m.lookupPath), m.lookup.Len())))
	} else {
		s.WriteString(PathStyle.Render("No image lookup attached"))
	}
	s.WriteString("\n")

	if m.notice != "" {
		s.WriteString(WarnStyle.Render(m.notice))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • space: toggle • c: colour • m: code column • l: lookup • a: all • n: none • enter: generate • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewGenerating() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✉ Building..."))
	s.WriteString("\n\n")
	if m.lookup != nil {
		s.WriteString("Checking image links and building the table...")
	} else {
		s.WriteString("Building the table...")
	}
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewDone() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Table Ready!"))
	s.WriteString("\n\n")

	// Truncate paths if they're too long
	maxPathLen := m.width - 20 // Leave room for padding and borders
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	inputPath := m.result.InputFile
	if len(inputPath) > maxPathLen {
		inputPath = "..." + inputPath[len(inputPath)-maxPathLen+3:]
	}

	htmlPath := m.result.HTMLFile
	if len(htmlPath) > maxPathLen {
		htmlPath = "..." + htmlPath[len(htmlPath)-maxPathLen+3:]
	}

	s.WriteString(fmt.Sprintf("Input: %s\n", inputPath))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("HTML:  %s\n", htmlPath)))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(m.result.Columns, ", ")))
	s.WriteString(fmt.Sprintf("Rows: %d\n", m.result.RowCount))
	if m.lookup != nil {
		s.WriteString(fmt.Sprintf("Images found: %d of %d\n", m.result.ImageCount, m.result.RowCount))
	}

	for _, kind := range []string{"xlsx", "png"} {
		if path, ok := m.exports[kind]; ok {
			if len(path) > maxPathLen {
				path = "..." + path[len(path)-maxPathLen+3:]
			}
			s.WriteString(SuccessStyle.Render(fmt.Sprintf("Saved %s: %s\n", kind, path)))
		}
	}

	if m.notice != "" {
		s.WriteString(WarnStyle.Render(m.notice))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("x: export xlsx • p: export png • s: send test mail • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
