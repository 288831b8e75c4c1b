package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/dgclarke/offermail/internal/config"
	"github.com/dgclarke/offermail/internal/export"
	"github.com/dgclarke/offermail/internal/htmltable"
	"github.com/dgclarke/offermail/internal/images"
	"github.com/dgclarke/offermail/internal/mailer"
	"github.com/dgclarke/offermail/internal/sheet"
	"github.com/dgclarke/offermail/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// columnPalette lists the fills offered in the configure form. The
// empty value means no override.
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

// Server drives the browser flow: upload, configure, generate, download.
// State is a single in-memory session, one offer sheet at a time.
type Server struct {
	cfg    config.Config
	prober *images.Prober

	mu   sync.Mutex
	sess session
}

type session struct {
	fileName   string
	workbook   *types.Workbook
	sheetIdx   int
	headerRow  int
	lookup     *images.Lookup
	lookupName string
	columns    []string
	colors     map[string]string
	joinCol    int
	grid       *types.Grid
	html       string
	result     *types.BuildResult
}

func NewServer(cfg config.Config) *Server {
	return &Server{
		cfg:    cfg,
		prober: images.NewProber(cfg.ProbeTimeout, cfg.ProbeWorkers),
	}
}

// Router wires the routes onto a gin engine with the embedded templates.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = 16 << 20

	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.IndexHandler)
	router.POST("/upload", s.UploadHandler)
	router.GET("/configure", s.ConfigureHandler)
	router.POST("/generate", s.GenerateHandler)
	router.GET("/result", s.ResultHandler)
	router.GET("/download/:kind", s.DownloadHandler)
	router.POST("/send", s.SendHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	return s.Router().Run(s.cfg.ServeAddr)
}

func (s *Server) IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Error":      c.Query("err"),
		"CodeColumn": s.cfg.LookupCodeColumn,
		"URLColumn":  s.cfg.LookupURLColumn,
	})
}

func (s *Server) UploadHandler(c *gin.Context) {
	offer, err := c.FormFile("offer")
	if err != nil {
		redirectErr(c, "/", "choose an offer sheet first")
		return
	}

	src, err := offer.Open()
	if err != nil {
		redirectErr(c, "/", "could not read the upload")
		return
	}
	defer src.Close()

	wb, err := sheet.OpenReader(src, offer.Filename)
	if err != nil {
		redirectErr(c, "/", err.Error())
		return
	}

	// Browsers send an empty part when the optional input is left blank.
	var lookup *images.Lookup
	var lookupName string
	if lf, err := c.FormFile("lookup"); err == nil && lf.Filename != "" && lf.Size > 0 {
		lsrc, err := lf.Open()
		if err != nil {
			redirectErr(c, "/", "could not read the lookup upload")
			return
		}
		defer lsrc.Close()

		lookup, err = images.LoadLookupReader(lsrc, s.cfg.LookupCodeColumn, s.cfg.LookupURLColumn)
		if err != nil {
			redirectErr(c, "/", "lookup: "+err.Error())
			return
		}
		lookupName = filepath.Base(lf.Filename)
	}

	s.mu.Lock()
	s.sess = session{
		fileName:   filepath.Base(offer.Filename),
		workbook:   wb,
		headerRow:  sheet.HeaderGuess(wb.Sheets[0]),
		lookup:     lookup,
		lookupName: lookupName,
	}
	s.mu.Unlock()

	c.Redirect(http.StatusSeeOther, "/configure")
}

func (s *Server) ConfigureHandler(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.workbook == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	sheetIdx := queryInt(c, "sheet", s.sess.sheetIdx)
	if sheetIdx < 0 || sheetIdx >= len(s.sess.workbook.Sheets) {
		sheetIdx = 0
	}
	sh := s.sess.workbook.Sheets[sheetIdx]

	suggested := sheet.HeaderGuess(sh)
	row := queryInt(c, "row", 0)
	if row < 1 {
		if sheetIdx == s.sess.sheetIdx && s.sess.headerRow > 0 {
			row = s.sess.headerRow
		} else {
			row = suggested
		}
	}

	var warn string
	var columns []columnView
	table, err := sheet.Extract(sh, row)
	if err != nil {
		warn = err.Error()
	} else {
		columns = s.columnViews(table.Headers)
	}

	s.sess.sheetIdx = sheetIdx
	s.sess.headerRow = row

	names := make([]string, len(s.sess.workbook.Sheets))
	for i, ws := range s.sess.workbook.Sheets {
		names[i] = ws.Name
	}

	c.HTML(http.StatusOK, "configure.html", gin.H{
		"FileName":   s.sess.fileName,
		"Sheets":     names,
		"SheetIdx":   sheetIdx,
		"Row":        row,
		"Suggested":  suggested,
		"Warn":       warn,
		"Columns":    columns,
		"Palette":    columnPalette[1:],
		"LookupName": s.sess.lookupName,
		"LookupLen":  s.sess.lookup.Len(),
	})
}

type columnView struct {
	Index   int
	Name    string
	Checked bool
	Color   string
	Join    bool
}

// columnViews prefills the form from the previous run where the header
// names still line up.
func (s *Server) columnViews(headers []string) []columnView {
	prev := make(map[string]bool, len(s.sess.columns))
	for _, name := range s.sess.columns {
		prev[name] = true
	}

	join := s.sess.joinCol
	if len(s.sess.columns) == 0 {
		join = defaultJoinColumn(headers, s.cfg.LookupCodeColumn)
	}

	views := make([]columnView, len(headers))
	for i, name := range headers {
		views[i] = columnView{
			Index:   i,
			Name:    name,
			Checked: len(s.sess.columns) == 0 || prev[name],
			Color:   s.sess.colors[name],
			Join:    i == join,
		}
	}
	return views
}

func defaultJoinColumn(headers []string, codeColumn string) int {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), codeColumn) {
			return i
		}
	}
	return 0
}

func (s *Server) GenerateHandler(c *gin.Context) {
	s.mu.Lock()
	if s.sess.workbook == nil {
		s.mu.Unlock()
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	wb := s.sess.workbook
	lookup := s.sess.lookup
	fileName := s.sess.fileName
	s.mu.Unlock()

	sheetIdx := formInt(c, "sheet", 0)
	if sheetIdx < 0 || sheetIdx >= len(wb.Sheets) {
		sheetIdx = 0
	}
	row := formInt(c, "row", 1)

	table, err := sheet.Extract(wb.Sheets[sheetIdx], row)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/configure?sheet="+strconv.Itoa(sheetIdx)+"&row="+strconv.Itoa(row))
		return
	}

	cols := c.PostFormArray("cols")
	if len(cols) == 0 {
		c.Redirect(http.StatusSeeOther, "/configure?sheet="+strconv.Itoa(sheetIdx)+"&row="+strconv.Itoa(row))
		return
	}

	grid, err := sheet.Project(*table, cols)
	if err != nil {
		redirectErr(c, "/", err.Error())
		return
	}

	colors := make(map[string]string)
	for _, name := range table.Headers {
		if v := c.PostForm("color_" + name); v != "" {
			colors[name] = v
		}
	}

	joinCol := formInt(c, "join", defaultJoinColumn(table.Headers, s.cfg.LookupCodeColumn))

	var imgs []string
	if lookup != nil {
		imgs = images.Enrich(c.Request.Context(), lookup, s.prober, sheet.DisplayRows(*table), joinCol, nil)
	}

	doc := htmltable.Build(*grid, htmltable.Options{Colors: colors, Images: imgs})
	out, err := htmltable.Inline(doc)
	if err != nil {
		redirectErr(c, "/", err.Error())
		return
	}

	live := 0
	for _, u := range imgs {
		if u != "" {
			live++
		}
	}

	s.mu.Lock()
	s.sess.sheetIdx = sheetIdx
	s.sess.headerRow = row
	s.sess.columns = cols
	s.sess.colors = colors
	s.sess.joinCol = joinCol
	s.sess.grid = grid
	s.sess.html = out
	s.sess.result = &types.BuildResult{
		InputFile:  fileName,
		HTMLFile:   artifactName(fileName, "html"),
		Columns:    grid.Columns,
		RowCount:   len(grid.Rows),
		ImageCount: live,
	}
	s.mu.Unlock()

	c.Redirect(http.StatusSeeOther, "/result")
}

func (s *Server) ResultHandler(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.html == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	ml := mailer.New(s.cfg)

	c.HTML(http.StatusOK, "result.html", gin.H{
		"FileName":    s.sess.fileName,
		"Columns":     strings.Join(s.sess.result.Columns, ", "),
		"RowCount":    s.sess.result.RowCount,
		"ImageCount":  s.sess.result.ImageCount,
		"HasLookup":   s.sess.lookup != nil,
		"HTML":        s.sess.html,
		"MailerReady": ml.Configured(),
		"MailTo":      s.cfg.SMTPTo,
		"Subject":     "Offer table: " + s.sess.fileName,
		"Sent":        c.Query("sent") == "1",
		"Error":       c.Query("err"),
	})
}

func (s *Server) DownloadHandler(c *gin.Context) {
	s.mu.Lock()
	grid := s.sess.grid
	colors := s.sess.colors
	html := s.sess.html
	fileName := s.sess.fileName
	s.mu.Unlock()

	if grid == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	kind := c.Param("kind")

	var data []byte
	var contentType string
	var err error
	switch kind {
	case "html":
		data = []byte(html)
		contentType = "text/html; charset=utf-8"
	case "xlsx":
		data, err = export.XLSXBytes(*grid, colors)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "png":
		data, err = export.PNGBytes(*grid, colors)
		contentType = "image/png"
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown download kind"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifactName(fileName, kind)+`"`)
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) SendHandler(c *gin.Context) {
	s.mu.Lock()
	html := s.sess.html
	fileName := s.sess.fileName
	s.mu.Unlock()

	if html == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	subject := c.DefaultPostForm("subject", "Offer table: "+fileName)
	if err := mailer.New(s.cfg).SendTest(subject, html); err != nil {
		redirectErr(c, "/result", err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, "/result?sent=1")
}

// artifactName derives download filenames from the uploaded one.
func artifactName(fileName, ext string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if base == "" {
		base = "offer"
	}
	return base + "_table." + ext
}

func redirectErr(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusSeeOther, path+"?err="+url.QueryEscape(msg))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func formInt(c *gin.Context, name string, fallback int) int {
	v := c.PostForm(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
