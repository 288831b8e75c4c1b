package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgclarke/offermail/internal/config"
	"github.com/dgclarke/offermail/internal/export"
	"github.com/dgclarke/offermail/internal/htmltable"
	"github.com/dgclarke/offermail/internal/images"
	"github.com/dgclarke/offermail/internal/mailer"
	"github.com/dgclarke/offermail/internal/sheet"
	"github.com/dgclarke/offermail/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateSheetSelect
	stateHeaderRow
	stateColumnSelect
	stateLookupPicker
	stateGenerating
	stateDone
	stateError
)

// columnPalette holds the cycleable column fills. The empty first entry
// means "no colour"; coloured columns override the builder defaults.
var columnPalette = []string{
	"",
	"#f0f0f0",
	"#ffe9d6",
	"#fff3bf",
	"#d3f9d8",
	"#d0ebff",
	"#e5dbff",
	"#ffd6e7",
}

type Model struct {
	state state
	cfg   config.Config

	filepicker filepicker.Model

	inputFile string
	workbook  *types.Workbook
	sheetIdx  int
	sheetCur  int

	headerRow int
	suggested int
	rowWarn   string

	table    *types.Table
	selected map[int]bool
	colorIdx map[int]int
	cursor   int

	lookup     *images.Lookup
	lookupPath string
	joinCol    int
	prober     *images.Prober

	progress     progress.Model
	progressChan chan float64
	resultChan   chan generateDoneMsg

	grid    *types.Grid
	html    string
	result  *types.BuildResult
	exports map[string]string
	notice  string

	err    error
	width  int
	height int
}

type workbookLoadedMsg struct {
	wb  *types.Workbook
	err error
}

type lookupLoadedMsg struct {
	lookup *images.Lookup
	path   string
	err    error
}

type generateDoneMsg struct {
	grid   *types.Grid
	html   string
	result *types.BuildResult
	err    error
}

type exportDoneMsg struct {
	kind string
	path string
	err  error
}

type sendDoneMsg struct {
	to  string
	err error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(cfg config.Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#36C692"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#7EE2B8"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#7EE2B8"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#36C692")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	// Initialize progress bar
	prog := progress.New(progress.WithGradient("#36C692", "#7EE2B8"))

	return Model{
		state:      stateFilePicker,
		cfg:        cfg,
		filepicker: fp,
		selected:   make(map[int]bool),
		colorIdx:   make(map[int]int),
		prober:     images.NewProber(cfg.ProbeTimeout, cfg.ProbeWorkers),
		progress:   prog,
		exports:    make(map[string]string),
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Set filepicker height based on available space
		// Subtract space for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5 // Minimum height
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateSheetSelect:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.sheetCur > 0 {
					m.sheetCur--
				}
			case "down", "j":
				if m.sheetCur < len(m.workbook.Sheets)-1 {
					m.sheetCur++
				}
			case "enter":
				m = m.chooseSheet(m.sheetCur)
			}

		case stateHeaderRow:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.headerRow > 1 {
					m.headerRow--
					m.rowWarn = ""
				}
			case "down", "j":
				if m.headerRow < m.maxHeaderRow() {
					m.headerRow++
					m.rowWarn = ""
				}
			case "enter":
				m = m.confirmHeader()
			}

		case stateColumnSelect:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.table.Headers)-1 {
					m.cursor++
				}
			case " ":
				m.selected[m.cursor] = !m.selected[m.cursor]
			case "c":
				m.colorIdx[m.cursor] = (m.colorIdx[m.cursor] + 1) % len(columnPalette)
			case "a":
				for i := range m.table.Headers {
					m.selected[i] = true
				}
			case "n":
				m.selected = make(map[int]bool)
			case "m":
				m.joinCol = m.cursor
			case "l":
				m.state = stateLookupPicker
				return m, m.filepicker.Init()
			case "enter":
				if m.anySelected() {
					return m.generate()
				}
				m.notice = "select at least one column"
			}

		case stateLookupPicker:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.state = stateColumnSelect
				return m, nil
			}

		case stateDone:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			case "x":
				return m, m.exportCmd("xlsx")
			case "p":
				return m, m.exportCmd("png")
			case "s":
				return m, m.sendCmd()
			}

		case stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case workbookLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.workbook = msg.wb
		m.sheetCur = 0
		if len(msg.wb.Sheets) == 1 {
			m = m.chooseSheet(0)
		} else {
			m.state = stateSheetSelect
		}
		return m, nil

	case lookupLoadedMsg:
		m.state = stateColumnSelect
		if msg.err != nil {
			m.notice = "lookup: " + msg.err.Error()
			return m, nil
		}
		m.lookup = msg.lookup
		m.lookupPath = msg.path
		m.notice = ""
		return m, nil

	case generateDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.grid = msg.grid
		m.html = msg.html
		m.result = msg.result
		m.state = stateDone
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.notice = msg.kind + " export failed: " + msg.err.Error()
			return m, nil
		}
		m.exports[msg.kind] = msg.path
		m.notice = ""
		return m, nil

	case sendDoneMsg:
		if msg.err != nil {
			m.notice = "send failed: " + msg.err.Error()
			return m, nil
		}
		m.notice = "test mail sent to " + msg.to
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateGenerating {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == stateFilePicker || m.state == stateLookupPicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			if m.state == stateLookupPicker {
				return m, m.loadLookup(path)
			}
			m.inputFile = path
			return m, m.loadWorkbook(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) sheet() types.Sheet {
	return m.workbook.Sheets[m.sheetIdx]
}

func (m Model) maxHeaderRow() int {
	max := len(m.sheet().Cells)
	if max > sheet.DetectLimit {
		max = sheet.DetectLimit
	}
	if max < 1 {
		max = 1
	}
	return max
}

func (m Model) anySelected() bool {
	for _, on := range m.selected {
		if on {
			return true
		}
	}
	return false
}

func (m Model) chooseSheet(idx int) Model {
	m.sheetIdx = idx
	m.suggested = sheet.HeaderGuess(m.sheet())
	m.headerRow = m.suggested
	m.rowWarn = ""
	m.state = stateHeaderRow
	return m
}

func (m Model) confirmHeader() Model {
	table, err := sheet.Extract(m.sheet(), m.headerRow)
	if err != nil {
		m.rowWarn = err.Error()
		return m
	}

	m.table = table
	m.selected = make(map[int]bool)
	for i := range table.Headers {
		m.selected[i] = true
	}
	m.colorIdx = make(map[int]int)
	m.cursor = 0
	m.joinCol = defaultJoinColumn(table.Headers, m.cfg.LookupCodeColumn)
	m.notice = ""
	m.state = stateColumnSelect
	return m
}

// defaultJoinColumn prefers the configured code column name, falling
// back to the first column.
func defaultJoinColumn(headers []string, codeColumn string) int {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), codeColumn) {
			return i
		}
	}
	return 0
}

func (m Model) selectedColumns() []string {
	var cols []string
	for i, h := range m.table.Headers {
		if m.selected[i] {
			cols = append(cols, h)
		}
	}
	return cols
}

func (m Model) columnColors() map[string]string {
	colors := make(map[string]string)
	for idx, pi := range m.colorIdx {
		if pi > 0 && idx < len(m.table.Headers) && m.selected[idx] {
			colors[m.table.Headers[idx]] = columnPalette[pi]
		}
	}
	return colors
}

func (m Model) loadWorkbook(path string) tea.Cmd {
	return func() tea.Msg {
		wb, err := sheet.Open(path)
		return workbookLoadedMsg{wb: wb, err: err}
	}
}

func (m Model) loadLookup(path string) tea.Cmd {
	codeCol := m.cfg.LookupCodeColumn
	urlCol := m.cfg.LookupURLColumn
	return func() tea.Msg {
		l, err := images.LoadLookup(path, codeCol, urlCol)
		return lookupLoadedMsg{lookup: l, path: path, err: err}
	}
}

func (m Model) generate() (Model, tea.Cmd) {
	m.state = stateGenerating
	m.notice = ""
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan generateDoneMsg, 1)

	cmd := tea.Batch(
		func() tea.Msg {
			// Capture everything the goroutine reads
			table := m.table
			cols := m.selectedColumns()
			colors := m.columnColors()
			lookup := m.lookup
			joinCol := m.joinCol
			prober := m.prober
			inputFile := m.inputFile
			progressChan := m.progressChan
			resultChan := m.resultChan

			go func() {
				fail := func(err error) {
					resultChan <- generateDoneMsg{err: err}
					close(progressChan)
					close(resultChan)
				}

				grid, err := sheet.Project(*table, cols)
				if err != nil {
					fail(err)
					return
				}

				var imgs []string
				if lookup != nil {
					imgs = images.Enrich(context.Background(), lookup, prober, sheet.DisplayRows(*table), joinCol, progressChan)
				}

				doc := htmltable.Build(*grid, htmltable.Options{Colors: colors, Images: imgs})
				out, err := htmltable.Inline(doc)
				if err != nil {
					fail(err)
					return
				}

				htmlFile := strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + "_table.html"
				if err := os.WriteFile(htmlFile, []byte(out), 0o644); err != nil {
					fail(err)
					return
				}

				live := 0
				for _, u := range imgs {
					if u != "" {
						live++
					}
				}

				resultChan <- generateDoneMsg{
					grid: grid,
					html: out,
					result: &types.BuildResult{
						InputFile:  inputFile,
						HTMLFile:   htmlFile,
						Columns:    grid.Columns,
						RowCount:   len(grid.Rows),
						ImageCount: live,
					},
				}
				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(), // Start progress bar animation
	)

	return m, cmd
}

func (m Model) exportCmd(kind string) tea.Cmd {
	grid := m.grid
	colors := m.columnColors()
	base := strings.TrimSuffix(m.inputFile, filepath.Ext(m.inputFile))

	return func() tea.Msg {
		var path string
		var err error
		switch kind {
		case "xlsx":
			path = base + "_table.xlsx"
			err = export.WriteXLSX(*grid, colors, path)
		case "png":
			path = base + "_table.png"
			err = export.WritePNG(*grid, colors, path)
		}
		return exportDoneMsg{kind: kind, path: path, err: err}
	}
}

func (m Model) sendCmd() tea.Cmd {
	ml := mailer.New(m.cfg)
	to := m.cfg.SMTPTo
	subject := "Offer table: " + filepath.Base(m.inputFile)
	body := m.html

	return func() tea.Msg {
		return sendDoneMsg{to: to, err: ml.SendTest(subject, body)}
	}
}

func waitForProgress(progressChan chan float64, resultChan chan generateDoneMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return res
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker, stateLookupPicker:
		return m.viewFilePicker()
	case stateSheetSelect:
		return m.viewSheetSelect()
	case stateHeaderRow:
		return m.viewHeaderRow()
	case stateColumnSelect:
		return m.viewColumnSelect()
	case stateGenerating:
		return m.viewGenerating()
	case stateDone:
		return m.viewDone()
	case stateError:
		return m.viewError()
	}
	return ""
}
