// Package lookbook renders outfit pairings as a printable PDF.
package lookbook

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/outfit"
	"github.com/kozaktomas/outfit-matcher/internal/picture"
)

// Layout in millimetres.
const (
	pageMarginTop = 15.0
	bottomMargin  = 15.0
	marginLeft    = 10.0
	marginRight   = 10.0
	thumbSize     = 40.0
	gutter        = 5.0
	swatchSize    = 8.0
	rowHeight     = thumbSize + 8.0
	thumbPixels   = 320
)

// Document is everything printed in a lookbook.
type Document struct {
	SkinTone  classify.SkinTone
	FaceShape outfit.FaceShape
	Pairings  []outfit.Pairing
	// Resolve maps a pairing image reference to a file path.
	Resolve func(ref string) string
}

// Render produces the PDF bytes for doc.
func Render(doc Document) ([]byte, error) {
	resolve := doc.Resolve
	if resolve == nil {
		resolve = func(ref string) string { return ref }
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, bottomMargin)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetXY(marginLeft, pageMarginTop)
	pdf.CellFormat(pageW-marginLeft-marginRight, 8, "Outfit lookbook", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetX(marginLeft)
	summary := fmt.Sprintf("Skin tone: %s • Face shape: %s • %d pairings", doc.SkinTone, doc.FaceShape, len(doc.Pairings))
	pdf.CellFormat(pageW-marginLeft-marginRight, 6, tr(summary), "", 1, "L", false, 0, "")

	y := pdf.GetY() + 4
	if len(doc.Pairings) == 0 {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageW-marginLeft-marginRight, 6, "No pairings yet. Upload at least one top and one bottom.", "", 1, "L", false, 0, "")
	}

	images := make(map[string]bool)
	for _, p := range doc.Pairings {
		if y+rowHeight > pageH-bottomMargin {
			pdf.AddPage()
			y = pageMarginTop
		}

		x := marginLeft
		placeImage(pdf, images, resolve(p.TopImage), x, y)
		x += thumbSize + gutter
		placeImage(pdf, images, resolve(p.BottomImage), x, y)
		x += thumbSize + gutter

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(40, 40, 40)
		pdf.Text(x, y+5, fmt.Sprintf("%s top + %s bottom", p.TopColor, p.BottomColor))

		sx := x
		for _, hex := range p.PaletteColors {
			c, err := colorful.Hex(hex)
			if err != nil {
				continue
			}
			r, g, b := c.RGB255()
			pdf.SetFillColor(int(r), int(g), int(b))
			pdf.Rect(sx, y+9, swatchSize, swatchSize, "F")
			sx += swatchSize + 1
		}

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.SetXY(x, y+9+swatchSize+3)
		pdf.MultiCell(pageW-marginRight-x, 4.5, tr(p.Reason), "", "L", false)

		y += rowHeight
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render lookbook: %w", err)
	}
	return buf.Bytes(), nil
}

// placeImage draws the thumbnail of path at (x, y), or a grey placeholder when
// the image cannot be read.
func placeImage(pdf *gofpdf.Fpdf, registered map[string]bool, path string, x, y float64) {
	opts := gofpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}

	if _, ok := registered[path]; !ok {
		registered[path] = registerThumbnail(pdf, path, opts)
	}
	if !registered[path] {
		pdf.SetFillColor(220, 220, 220)
		pdf.Rect(x, y, thumbSize, thumbSize, "F")
		return
	}

	info := pdf.GetImageInfo(path)
	w, h := info.Width(), info.Height()
	scale := thumbSize / max(w, h)
	w, h = w*scale, h*scale
	pdf.ImageOptions(path, x+(thumbSize-w)/2, y+(thumbSize-h)/2, w, h, false, opts, 0, "")
}

func registerThumbnail(pdf *gofpdf.Fpdf, path string, opts gofpdf.ImageOptions) bool {
	img, err := picture.Open(path)
	if err != nil {
		return false
	}
	var buf bytes.Buffer
	if err := picture.EncodeJPEG(&buf, picture.Thumbnail(img, thumbPixels)); err != nil {
		return false
	}
	pdf.RegisterImageOptionsReader(path, opts, &buf)
	return pdf.Ok()
}
