package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/dgclarke/offermail/internal/types"
)

const (
	pngRowHeight = 28
	pngFontSize  = 12
	pngPadding   = 6
)

var (
	pngBorder = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	pngHeader = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	pngWhite  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	pngText   = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

// WritePNG renders the displayed table to a png, for destinations that
// only take a picture of the offer. Layout mirrors the email table:
// header band with the chosen fills, one pixel grid lines, centered
// text.
func WritePNG(g types.Grid, colors map[string]string, path string) error {
	img, err := renderPNG(g, colors)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// PNGBytes renders the same picture in memory, for download handlers.
func PNGBytes(g types.Grid, colors map[string]string) ([]byte, error) {
	img, err := renderPNG(g, colors)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPNG(g types.Grid, colors map[string]string) (*image.RGBA, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}

	face, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: pngFontSize, DPI: 96, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	defer face.Close()
	boldFace, err := opentype.NewFace(bold, &opentype.FaceOptions{Size: pngFontSize, DPI: 96, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	defer boldFace.Close()

	totalW := 1
	for _, w := range g.Widths {
		totalW += w + 1
	}
	totalH := (len(g.Rows)+1)*(pngRowHeight+1) + 1

	img := image.NewRGBA(image.Rect(0, 0, totalW, totalH))
	draw.Draw(img, img.Bounds(), image.NewUniform(pngBorder), image.Point{}, draw.Src)

	x := 1
	for j, name := range g.Columns {
		cell := image.Rect(x, 1, x+g.Widths[j], 1+pngRowHeight)
		draw.Draw(img, cell, image.NewUniform(cellFill(colors[name], pngHeader)), image.Point{}, draw.Src)
		drawCentered(img, cell, boldFace, name)
		x += g.Widths[j] + 1
	}

	for i, row := range g.Rows {
		y := 1 + (i+1)*(pngRowHeight+1)
		x = 1
		for j, val := range row {
			cell := image.Rect(x, y, x+g.Widths[j], y+pngRowHeight)
			draw.Draw(img, cell, image.NewUniform(cellFill(colors[g.Columns[j]], pngWhite)), image.Point{}, draw.Src)
			drawCentered(img, cell, face, val)
			x += g.Widths[j] + 1
		}
	}

	return img, nil
}

// drawCentered puts text in the middle of a cell, clipped to the cell
// so overlong values cannot bleed into neighbours.
func drawCentered(img *image.RGBA, cell image.Rectangle, face font.Face, text string) {
	if text == "" {
		return
	}

	d := &font.Drawer{
		Dst:  img.SubImage(cell).(*image.RGBA),
		Src:  image.NewUniform(pngText),
		Face: face,
	}

	w := d.MeasureString(text)
	m := face.Metrics()

	x := cell.Min.X + (cell.Dx()-w.Ceil())/2
	if x < cell.Min.X+pngPadding {
		x = cell.Min.X + pngPadding
	}
	y := cell.Min.Y + (cell.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2

	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// cellFill parses a css hex color, falling back when there is no
// override or the value does not parse.
func cellFill(hex string, fallback color.RGBA) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return fallback
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
