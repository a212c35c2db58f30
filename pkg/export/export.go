// Package export はウィンドウの描画内容をPNGとPDFへ書き出す
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/zurustar/kame/pkg/toolkit"
	"github.com/zurustar/kame/pkg/turtle"
)

// PNG は画像をPNG形式で書き出す
func PNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// PDF は画像を1ページのPDFとして書き出す
func PDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	wpt := float64(b.Dx()) * 72 / 96
	hpt := float64(b.Dy()) * 72 / 96

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wpt, Ht: hpt},
	})
	pdf.AddPage()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode png for pdf: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &buf)
	pdf.ImageOptions("canvas", 0, 0, wpt, hpt, false, opts, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// PDFOps は表示リストをベクターPDFとして描き直す
// ヘッドレスツールキットの表示リストをそのまま渡せる
func PDFOps(w io.Writer, width, height int, entries []toolkit.DisplayEntry) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	pdf.AddPage()

	for _, e := range entries {
		drawEntry(pdf, e.Spec)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func drawEntry(pdf *gofpdf.Fpdf, spec toolkit.PrimitiveSpec) {
	width := spec.Width
	if width <= 0 {
		width = 1
	}
	pdf.SetLineWidth(width)
	if spec.Stroke != nil {
		r, g, b := color255(spec.Stroke)
		pdf.SetDrawColor(r, g, b)
	}
	if spec.Fill != nil {
		r, g, b := color255(spec.Fill)
		pdf.SetFillColor(r, g, b)
	}
	if len(spec.Dash) >= 2 {
		pdf.SetDashPattern(spec.Dash, 0)
	} else {
		pdf.SetDashPattern(nil, 0)
	}

	switch spec.Kind {
	case toolkit.PrimitiveLine:
		for i := 1; i < len(spec.Points); i++ {
			p, q := spec.Points[i-1], spec.Points[i]
			pdf.Line(p.X, p.Y, q.X, q.Y)
		}
	case toolkit.PrimitivePolygon:
		pts := make([]gofpdf.PointType, len(spec.Points))
		for i, p := range spec.Points {
			pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
		}
		pdf.Polygon(pts, styleFor(spec))
	case toolkit.PrimitiveRect:
		pdf.Rect(spec.Left, spec.Top, spec.Right-spec.Left, spec.Bottom-spec.Top, styleFor(spec))
	case toolkit.PrimitiveOval:
		cx := (spec.Left + spec.Right) / 2
		cy := (spec.Top + spec.Bottom) / 2
		pdf.Ellipse(cx, cy, (spec.Right-spec.Left)/2, (spec.Bottom-spec.Top)/2, 0, styleFor(spec))
	case toolkit.PrimitiveArc:
		cx := (spec.Left + spec.Right) / 2
		cy := (spec.Top + spec.Bottom) / 2
		// gofpdfの弧は時計回りの度数を取るため符号はそのまま渡る
		pdf.Arc(cx, cy, (spec.Right-spec.Left)/2, (spec.Bottom-spec.Top)/2,
			0, spec.Start, spec.Start+spec.Extent, styleFor(spec))
	case toolkit.PrimitiveIcon:
		// ツールカーソルは成果物に含めない
	}
}

func styleFor(spec toolkit.PrimitiveSpec) string {
	switch {
	case spec.Fill != nil && spec.Stroke != nil:
		return "FD"
	case spec.Fill != nil:
		return "F"
	default:
		return "D"
	}
}

func color255(c interface {
	RGBA() (r, g, b, a uint32)
}) (int, int, int) {
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}

// SaveWindowPNG はウィンドウをフラッシュしてPNGファイルへ保存する
func SaveWindowPNG(win *turtle.Window, path string) error {
	img, err := flushAndSnapshot(win)
	if err != nil {
		return err
	}
	return writeFile(path, func(f io.Writer) error { return PNG(f, img) })
}

// SaveWindowPDF はウィンドウをフラッシュしてPDFファイルへ保存する
func SaveWindowPDF(win *turtle.Window, path string) error {
	img, err := flushAndSnapshot(win)
	if err != nil {
		return err
	}
	return writeFile(path, func(f io.Writer) error { return PDF(f, img) })
}

func flushAndSnapshot(win *turtle.Window) (image.Image, error) {
	if err := win.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush window: %w", err)
	}
	img, err := win.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot window: %w", err)
	}
	return img, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	return nil
}
