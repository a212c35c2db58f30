package toolkit

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/zurustar/kame/pkg/geom"
)

// Rasterize は表示リストをソフトウェアでラスタライズする
// ヘッドレス実装の Snapshot と pkg/export の PNG 出力が使用する
// デスクトップ実装も Snapshot ではGPUを読み戻さずこちらを使う
func Rasterize(width, height int, entries []DisplayEntry) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for _, e := range entries {
		rasterizeSpec(img, e.Spec)
	}
	return img
}

func rasterizeSpec(img *image.RGBA, spec PrimitiveSpec) {
	switch spec.Kind {
	case PrimitiveLine:
		strokePath(img, spec.Points, spec)
	case PrimitivePolygon:
		if spec.Fill != nil {
			fillPolygon(img, spec.Points, spec.Fill)
		}
		if spec.Stroke != nil && len(spec.Points) > 1 {
			closed := append(append([]geom.Point2{}, spec.Points...), spec.Points[0])
			strokePath(img, closed, spec)
		}
	case PrimitiveRect:
		pts := []geom.Point2{
			{X: spec.Left, Y: spec.Top},
			{X: spec.Right, Y: spec.Top},
			{X: spec.Right, Y: spec.Bottom},
			{X: spec.Left, Y: spec.Bottom},
		}
		if spec.Fill != nil {
			fillPolygon(img, pts, spec.Fill)
		}
		if spec.Stroke != nil {
			strokePath(img, append(pts, pts[0]), spec)
		}
	case PrimitiveOval:
		pts := sampleArc(spec, 0, 360)
		if spec.Fill != nil {
			fillPolygon(img, pts, spec.Fill)
		}
		if spec.Stroke != nil {
			strokePath(img, append(pts, pts[0]), spec)
		}
	case PrimitiveArc:
		pts := sampleArc(spec, spec.Start, spec.Extent)
		if len(pts) < 2 {
			return
		}
		cx := (spec.Left + spec.Right) / 2
		cy := (spec.Top + spec.Bottom) / 2
		switch spec.Style {
		case ArcPieSlice:
			poly := append([]geom.Point2{{X: cx, Y: cy}}, pts...)
			if spec.Fill != nil {
				fillPolygon(img, poly, spec.Fill)
			}
			if spec.Stroke != nil {
				strokePath(img, append(poly, poly[0]), spec)
			}
		case ArcChord:
			if spec.Fill != nil {
				fillPolygon(img, pts, spec.Fill)
			}
			if spec.Stroke != nil {
				strokePath(img, append(append([]geom.Point2{}, pts...), pts[0]), spec)
			}
		default:
			if spec.Stroke != nil {
				strokePath(img, pts, spec)
			}
		}
	case PrimitiveIcon:
		if spec.Icon == nil {
			return
		}
		b := spec.Icon.Bounds()
		at := image.Pt(int(spec.At.X)-b.Dx()/2, int(spec.At.Y)-b.Dy()/2)
		draw.Draw(img, image.Rectangle{Min: at, Max: at.Add(b.Size())}, spec.Icon, b.Min, draw.Over)
	}
}

// sampleArc は楕円弧を折れ線で近似する
// 角度は度単位で、正のextentはキャンバス上で反時計回りに見える向き
func sampleArc(spec PrimitiveSpec, start, extent float64) []geom.Point2 {
	cx := (spec.Left + spec.Right) / 2
	cy := (spec.Top + spec.Bottom) / 2
	rx := (spec.Right - spec.Left) / 2
	ry := (spec.Bottom - spec.Top) / 2

	segments := int(math.Max(math.Abs(rx), math.Abs(ry)) * math.Abs(extent) / 90)
	if segments < 16 {
		segments = 16
	}
	if segments > 360 {
		segments = 360
	}

	pts := make([]geom.Point2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		angle := (start + extent*float64(i)/float64(segments)) * math.Pi / 180
		pts = append(pts, geom.Point2{
			X: cx + rx*math.Cos(angle),
			Y: cy - ry*math.Sin(angle),
		})
	}
	return pts
}

func strokePath(img *image.RGBA, pts []geom.Point2, spec PrimitiveSpec) {
	if spec.Stroke == nil || len(pts) < 2 {
		return
	}
	width := spec.Width
	if width <= 0 {
		width = 1
	}
	// ダッシュの位相はパス全体で連続させる
	phase := 0.0
	for i := 1; i < len(pts); i++ {
		phase = strokeSegment(img, pts[i-1], pts[i], width, spec.Dash, phase, spec.Stroke)
	}
}

// strokeSegment は線分を等間隔サンプリングで描き、ダッシュ位相を返す
func strokeSegment(img *image.RGBA, p, q geom.Point2, width float64, dash []float64, phase float64, c color.Color) float64 {
	length := p.Distance(q)
	if length == 0 {
		stamp(img, p.X, p.Y, width, c)
		return phase
	}
	step := 0.5
	dir := q.Sub(p).Normalize()
	for t := 0.0; t <= length; t += step {
		if dashOn(dash, phase+t) {
			at := p.Add(dir.Scale(t))
			stamp(img, at.X, at.Y, width, c)
		}
	}
	return phase + length

}

// dashOn はダッシュパターン上の距離dが「描く」区間かどうかを返す
func dashOn(dash []float64, d float64) bool {
	if len(dash) == 0 {
		return true
	}
	total := 0.0
	for _, seg := range dash {
		total += seg
	}
	if total <= 0 {
		return true
	}
	d = math.Mod(d, total)
	for i, seg := range dash {
		if d < seg {
			return i%2 == 0
		}
		d -= seg
	}
	return true
}

// stamp は線の太さ分の正方形を打つ
func stamp(img *image.RGBA, x, y, width float64, c color.Color) {
	r := int(math.Ceil(width / 2))
	if r < 1 {
		r = 1
	}
	cx, cy := int(math.Round(x)), int(math.Round(y))
	bounds := img.Bounds()
	for dy := -r; dy < r; dy++ {
		for dx := -r; dx < r; dx++ {
			px, py := cx+dx, cy+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, c)
			}
		}
	}
}

// fillPolygon はスキャンラインの偶奇規則で多角形を塗りつぶす
func fillPolygon(img *image.RGBA, pts []geom.Point2, c color.Color) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	bounds := img.Bounds()
	y0 := int(math.Max(math.Floor(minY), float64(bounds.Min.Y)))
	y1 := int(math.Min(math.Ceil(maxY), float64(bounds.Max.Y-1)))

	for y := y0; y <= y1; y++ {
		fy := float64(y) + 0.5
		var xs []float64
		for i := 0; i < len(pts); i++ {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			if (a.Y <= fy && b.Y > fy) || (b.Y <= fy && a.Y > fy) {
				t := (fy - a.Y) / (b.Y - a.Y)
				xs = append(xs, a.X+t*(b.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			for x := x0; x <= x1; x++ {
				if image.Pt(x, y).In(bounds) {
					img.Set(x, y, c)
				}
			}
		}
	}
}
