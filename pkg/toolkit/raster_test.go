package toolkit

import (
	"image"
	"image/color"
	"testing"

	"github.com/zurustar/kame/pkg/geom"
)

var (
	rasterBlack = color.RGBA{0, 0, 0, 255}
	rasterWhite = color.RGBA{255, 255, 255, 255}
	rasterRed   = color.RGBA{255, 0, 0, 255}
)

func pixelAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestRasterizeEmpty(t *testing.T) {
	img := Rasterize(100, 80, nil)

	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("Expected 100x80 image, got %dx%d", b.Dx(), b.Dy())
	}
	if got := pixelAt(img, 50, 40); got != rasterWhite {
		t.Errorf("Expected white background, got %v", got)
	}
}

func TestRasterizeLine(t *testing.T) {
	img := Rasterize(100, 100, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind:   PrimitiveLine,
			Points: []geom.Point2{geom.Pt(10, 50), geom.Pt(90, 50)},
			Stroke: color.Black,
			Width:  1,
		}},
	})

	if got := pixelAt(img, 50, 50); got != rasterBlack {
		t.Errorf("Expected black pixel on line, got %v", got)
	}
	if got := pixelAt(img, 50, 10); got != rasterWhite {
		t.Errorf("Expected white pixel off line, got %v", got)
	}
	if got := pixelAt(img, 5, 50); got != rasterWhite {
		t.Errorf("Expected white pixel before line start, got %v", got)
	}
}

func TestRasterizeDashedLine(t *testing.T) {
	img := Rasterize(120, 30, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind:   PrimitiveLine,
			Points: []geom.Point2{geom.Pt(0, 10), geom.Pt(100, 10)},
			Stroke: color.Black,
			Width:  1,
			Dash:   []float64{10, 10},
		}},
	})

	if got := pixelAt(img, 5, 10); got != rasterBlack {
		t.Errorf("Expected black pixel in dash segment, got %v", got)
	}
	if got := pixelAt(img, 15, 10); got != rasterWhite {
		t.Errorf("Expected white pixel in dash gap, got %v", got)
	}
	if got := pixelAt(img, 25, 10); got != rasterBlack {
		t.Errorf("Expected black pixel in second dash segment, got %v", got)
	}
}

func TestRasterizeFilledRect(t *testing.T) {
	img := Rasterize(100, 100, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind: PrimitiveRect,
			Left: 20, Top: 20, Right: 60, Bottom: 60,
			Fill: rasterRed,
		}},
	})

	if got := pixelAt(img, 40, 40); got != rasterRed {
		t.Errorf("Expected red fill inside rect, got %v", got)
	}
	if got := pixelAt(img, 10, 10); got != rasterWhite {
		t.Errorf("Expected white outside rect, got %v", got)
	}
	if got := pixelAt(img, 70, 40); got != rasterWhite {
		t.Errorf("Expected white right of rect, got %v", got)
	}
}

func TestRasterizeFilledPolygon(t *testing.T) {
	img := Rasterize(100, 100, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind:   PrimitivePolygon,
			Points: []geom.Point2{geom.Pt(50, 10), geom.Pt(90, 90), geom.Pt(10, 90)},
			Fill:   rasterBlack,
		}},
	})

	// 三角形の重心付近は塗られている
	if got := pixelAt(img, 50, 60); got != rasterBlack {
		t.Errorf("Expected black fill inside triangle, got %v", got)
	}
	// 頂点の外側は塗られない
	if got := pixelAt(img, 15, 20); got != rasterWhite {
		t.Errorf("Expected white outside triangle, got %v", got)
	}
}

func TestRasterizeOval(t *testing.T) {
	img := Rasterize(100, 100, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind: PrimitiveOval,
			Left: 30, Top: 30, Right: 70, Bottom: 70,
			Fill: rasterBlack,
		}},
	})

	if got := pixelAt(img, 50, 50); got != rasterBlack {
		t.Errorf("Expected black fill at oval center, got %v", got)
	}
	// 外接矩形の角は楕円の外
	if got := pixelAt(img, 32, 32); got != rasterWhite {
		t.Errorf("Expected white at bounding box corner, got %v", got)
	}
}

func TestRasterizePieSlice(t *testing.T) {
	img := Rasterize(100, 100, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind: PrimitiveArc,
			Left: 0, Top: 0, Right: 100, Bottom: 100,
			Start: 0, Extent: 90,
			Style: ArcPieSlice,
			Fill:  rasterBlack,
		}},
	})

	// 第1象限（画面では右上）が塗られる
	if got := pixelAt(img, 70, 40); got != rasterBlack {
		t.Errorf("Expected black fill in first quadrant, got %v", got)
	}
	if got := pixelAt(img, 30, 70); got != rasterWhite {
		t.Errorf("Expected white outside the slice, got %v", got)
	}
}

func TestRasterizeIcon(t *testing.T) {
	icon := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			icon.Set(x, y, rasterRed)
		}
	}

	img := Rasterize(100, 100, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind: PrimitiveIcon,
			Icon: icon,
			At:   geom.Pt(50, 50),
		}},
	})

	// アイコンは中心位置に配置される
	if got := pixelAt(img, 49, 49); got != rasterRed {
		t.Errorf("Expected red icon pixel, got %v", got)
	}
	if got := pixelAt(img, 55, 55); got != rasterWhite {
		t.Errorf("Expected white outside icon, got %v", got)
	}
}

func TestRasterizeOutOfBounds(t *testing.T) {
	// 画面外への描画はクリップされ、パニックしない
	img := Rasterize(50, 50, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind:   PrimitiveLine,
			Points: []geom.Point2{geom.Pt(-100, -100), geom.Pt(200, 200)},
			Stroke: color.Black,
			Width:  3,
		}},
		{ID: 2, Spec: PrimitiveSpec{
			Kind: PrimitiveRect,
			Left: 40, Top: 40, Right: 120, Bottom: 120,
			Fill: rasterBlack,
		}},
	})

	if got := pixelAt(img, 25, 25); got != rasterBlack {
		t.Errorf("Expected black pixel on diagonal, got %v", got)
	}
	if got := pixelAt(img, 45, 45); got != rasterBlack {
		t.Errorf("Expected black pixel in clipped rect, got %v", got)
	}
}

func TestRasterizeDrawOrder(t *testing.T) {
	// 後から描いたものが上になる
	img := Rasterize(100, 100, []DisplayEntry{
		{ID: 1, Spec: PrimitiveSpec{
			Kind: PrimitiveRect,
			Left: 10, Top: 10, Right: 90, Bottom: 90,
			Fill: rasterBlack,
		}},
		{ID: 2, Spec: PrimitiveSpec{
			Kind: PrimitiveRect,
			Left: 30, Top: 30, Right: 70, Bottom: 70,
			Fill: rasterRed,
		}},
	})

	if got := pixelAt(img, 50, 50); got != rasterRed {
		t.Errorf("Expected red pixel from the later rect, got %v", got)
	}
	if got := pixelAt(img, 20, 20); got != rasterBlack {
		t.Errorf("Expected black pixel from the earlier rect, got %v", got)
	}
}
