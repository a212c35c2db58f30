package turtle

import (
	"testing"

	"github.com/zurustar/kame/pkg/colors"
	"github.com/zurustar/kame/pkg/toolkit"
)

func TestPenDrawTo(t *testing.T) {
	win, tk := newTestWindow(t)
	defer win.Dispose()

	pen, err := NewPen(win)
	if err != nil {
		t.Fatalf("NewPen failed: %v", err)
	}
	if err := pen.DrawTo(100, 50); err != nil {
		t.Fatalf("DrawTo failed: %v", err)
	}

	lines := 0
	for _, k := range displayKinds(t, tk) {
		if k == toolkit.PrimitiveLine {
			lines++
		}
	}
	if lines != 1 {
		t.Errorf("Expected 1 line in display list, got %d", lines)
	}
	if pen.X() != 100 || pen.Y() != 50 {
		t.Errorf("Expected pen at (100, 50), got (%g, %g)", pen.X(), pen.Y())
	}
}

func TestPenDrawLineRelative(t *testing.T) {
	win, _ := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	pen.Move(10, 20)
	if err := pen.DrawLine(30, -5); err != nil {
		t.Fatalf("DrawLine failed: %v", err)
	}
	if pen.X() != 40 || pen.Y() != 15 {
		t.Errorf("Expected pen at (40, 15), got (%g, %g)", pen.X(), pen.Y())
	}
}

func TestPenDrawRectangle(t *testing.T) {
	win, tk := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	if err := pen.DrawRectangle(80, 40); err != nil {
		t.Fatalf("DrawRectangle failed: %v", err)
	}

	// 四辺のなぞり線は巻き戻され、矩形1件に置き換わる
	rects, lines := 0, 0
	for _, k := range displayKinds(t, tk) {
		switch k {
		case toolkit.PrimitiveRect:
			rects++
		case toolkit.PrimitiveLine:
			lines++
		}
	}
	if rects != 1 {
		t.Errorf("Expected 1 rectangle in display list, got %d", rects)
	}
	if lines != 0 {
		t.Errorf("Expected trace lines rolled back, got %d", lines)
	}
	if pen.X() != 0 || pen.Y() != 0 {
		t.Errorf("Expected pen back at origin, got (%g, %g)", pen.X(), pen.Y())
	}
}

func TestPenDrawOval(t *testing.T) {
	win, tk := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	pen.Move(50, 50)
	if err := pen.DrawOval(30, 20); err != nil {
		t.Fatalf("DrawOval failed: %v", err)
	}

	ovals, arcs := 0, 0
	var spec toolkit.PrimitiveSpec
	display, _ := tk.Display(toolkit.WindowID(1))
	for _, e := range display {
		switch e.Spec.Kind {
		case toolkit.PrimitiveOval:
			ovals++
			spec = e.Spec
		case toolkit.PrimitiveArc:
			arcs++
		}
	}
	if ovals != 1 {
		t.Fatalf("Expected 1 oval in display list, got %d", ovals)
	}
	if arcs != 0 {
		t.Errorf("Expected animated arc replaced, got %d arcs", arcs)
	}

	// 中心(50, 50)・半径(30, 20)のバウンディングボックス（キャンバス座標）
	if spec.Left != 270 || spec.Right != 330 {
		t.Errorf("Expected oval x range [270, 330], got [%g, %g]", spec.Left, spec.Right)
	}
	if spec.Top != 180 || spec.Bottom != 220 {
		t.Errorf("Expected oval y range [180, 220], got [%g, %g]", spec.Top, spec.Bottom)
	}
	if pen.X() != 50 || pen.Y() != 50 {
		t.Errorf("Expected pen unchanged at (50, 50), got (%g, %g)", pen.X(), pen.Y())
	}
}

func TestPenDrawOvalStepCount(t *testing.T) {
	win, tk := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	if err := pen.SetSpeed(8); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}
	tk.ClearHistory()

	if err := pen.DrawOval(150, 150); err != nil {
		t.Fatalf("DrawOval failed: %v", err)
	}

	// 中心角359度を2^(8-1)=128度刻みで分割するのでceil(359/128)=3回
	if got := countDraws(tk, "arc"); got != 3 {
		t.Errorf("Expected 3 arc draws for extent 359 at speed 8, got %d", got)
	}
}

func TestPenSolidFill(t *testing.T) {
	win, tk := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	if err := pen.SetSolid(true); err != nil {
		t.Fatalf("SetSolid failed: %v", err)
	}
	pen.DrawTo(100, 0)
	pen.DrawTo(100, 100)
	pen.DrawTo(0, 0)
	if err := pen.SetSolid(false); err != nil {
		t.Fatalf("SetSolid(false) failed: %v", err)
	}

	// 縁の線3本が巻き戻され、多角形と輪郭線に置き換わる
	polygons, lines := 0, 0
	var poly toolkit.PrimitiveSpec
	display, _ := tk.Display(toolkit.WindowID(1))
	for _, e := range display {
		switch e.Spec.Kind {
		case toolkit.PrimitivePolygon:
			polygons++
			poly = e.Spec
		case toolkit.PrimitiveLine:
			lines++
		}
	}
	if polygons != 1 {
		t.Fatalf("Expected 1 filled polygon, got %d", polygons)
	}
	if lines != 1 {
		t.Errorf("Expected 1 outline polyline, got %d", lines)
	}
	if len(poly.Points) != 4 {
		t.Errorf("Expected 4 polygon vertices, got %d", len(poly.Points))
	}
	if poly.Fill == nil {
		t.Error("Expected polygon to carry the fill color")
	}
}

func TestPenSolidTooFewVertices(t *testing.T) {
	win, tk := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	pen.SetSolid(true)
	pen.DrawTo(50, 0)
	tk.ClearHistory()

	// 頂点2つでは塗りつぶしは成立しない
	if err := pen.SetSolid(false); err != nil {
		t.Fatalf("SetSolid(false) failed: %v", err)
	}
	if got := countDraws(tk, "polygon"); got != 0 {
		t.Errorf("Expected no polygon for a single segment, got %d", got)
	}
}

func TestPenColorLockedDuringFill(t *testing.T) {
	win, _ := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	red, _ := colors.ByName("red")

	pen.SetSolid(true)
	if err := pen.SetFillColor(red); err == nil {
		t.Error("Expected error changing fill color during a fill")
	}
	if err := pen.SetEdgeColor(red); err == nil {
		t.Error("Expected error changing edge color during a fill")
	}
	pen.SetSolid(false)
	if err := pen.SetFillColor(red); err != nil {
		t.Errorf("Expected fill color change after fill, got %v", err)
	}
}

func TestPenMoveCompletesFill(t *testing.T) {
	win, tk := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	pen.SetSolid(true)
	pen.DrawTo(100, 0)
	pen.DrawTo(100, 100)
	pen.DrawTo(0, 100)

	if err := pen.Move(200, 200); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	polygons := 0
	for _, k := range displayKinds(t, tk) {
		if k == toolkit.PrimitivePolygon {
			polygons++
		}
	}
	if polygons != 1 {
		t.Errorf("Expected fill completed by Move, got %d polygons", polygons)
	}
	if !pen.Solid() {
		t.Error("Expected solid mode to resume after Move")
	}
}

func TestPenValidation(t *testing.T) {
	win, _ := newTestWindow(t)
	defer win.Dispose()

	pen, _ := NewPen(win)
	if err := pen.DrawOval(0, 10); err == nil {
		t.Error("Expected error for zero x radius")
	}
	if err := pen.DrawRectangle(-5, 10); err == nil {
		t.Error("Expected error for negative width")
	}
}
