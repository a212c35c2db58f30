package turtle

import (
	"errors"
	"testing"

	"github.com/zurustar/kame/pkg/toolkit"
)

// newTestWindow は決定的にドレインできる直接コンテキスト上のウィンドウを作る
func newTestWindow(t *testing.T, opts ...WindowOption) (*Window, *toolkit.Headless) {
	t.Helper()
	tk := toolkit.NewHeadless(toolkit.WithRecording(true))
	ctx := NewDirectContext(tk)
	win, err := NewWindow(ctx, opts...)
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	return win, tk
}

func TestWindowDefaults(t *testing.T) {
	win, _ := newTestWindow(t)
	defer win.Dispose()

	if win.Width() != DefaultWindowWidth || win.Height() != DefaultWindowHeight {
		t.Errorf("Expected default size %dx%d, got %dx%d",
			DefaultWindowWidth, DefaultWindowHeight, win.Width(), win.Height())
	}
	if win.Title() != DefaultWindowTitle {
		t.Errorf("Expected default title %q, got %q", DefaultWindowTitle, win.Title())
	}
}

func TestWindowOptions(t *testing.T) {
	win, tk := newTestWindow(t,
		WithPosition(10, 20),
		WithSize(320, 240),
		WithTitle("drawing"),
		WithResizable(false))
	defer win.Dispose()

	if win.X() != 10 || win.Y() != 20 {
		t.Errorf("Expected position (10, 20), got (%d, %d)", win.X(), win.Y())
	}
	if win.Width() != 320 || win.Height() != 240 {
		t.Errorf("Expected size 320x240, got %dx%d", win.Width(), win.Height())
	}

	spec, err := tk.WindowSpecOf(toolkit.WindowID(1))
	if err != nil {
		t.Fatalf("WindowSpecOf failed: %v", err)
	}
	if spec.Title != "drawing" {
		t.Errorf("Expected toolkit title 'drawing', got %q", spec.Title)
	}
}

func TestWindowInvalidOptions(t *testing.T) {
	tk := toolkit.NewHeadless()
	ctx := NewDirectContext(tk)

	if _, err := NewWindow(ctx, WithSize(0, 100)); err == nil {
		t.Error("Expected error for zero width")
	}
	if _, err := NewWindow(ctx, WithPosition(-1, 0)); err == nil {
		t.Error("Expected error for negative position")
	}
}

func TestWindowSettersCacheAndApply(t *testing.T) {
	win, tk := newTestWindow(t)
	defer win.Dispose()

	if err := win.SetTitle("renamed"); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	if err := win.SetPosition(30, 40); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if err := win.SetSize(200, 150); err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}

	// ゲッターはキャッシュを返す
	if win.Title() != "renamed" {
		t.Errorf("Expected cached title 'renamed', got %q", win.Title())
	}
	if win.X() != 30 || win.Y() != 40 {
		t.Errorf("Expected cached position (30, 40), got (%d, %d)", win.X(), win.Y())
	}

	// 直接コンテキストでは調整は同期的に適用済み
	spec, _ := tk.WindowSpecOf(toolkit.WindowID(1))
	if spec.Title != "renamed" || spec.X != 30 || spec.Width != 200 {
		t.Errorf("Expected adjustments applied to toolkit, got %+v", spec)
	}
}

func TestWindowSetterValidation(t *testing.T) {
	win, _ := newTestWindow(t)
	defer win.Dispose()

	if err := win.SetSize(-1, 100); err == nil {
		t.Error("Expected error for negative size")
	}
	if err := win.SetPosition(-5, 0); err == nil {
		t.Error("Expected error for negative position")
	}
	if err := win.SetMinSize(-1, -1); err == nil {
		t.Error("Expected error for negative min size")
	}
}

func TestWindowDisposeIdempotent(t *testing.T) {
	win, tk := newTestWindow(t)

	win.Dispose()
	win.Dispose()

	if !win.Disposed() {
		t.Error("Expected window to be disposed")
	}
	if err := win.SetTitle("late"); !errors.Is(err, ErrWindowDisposed) {
		t.Errorf("Expected ErrWindowDisposed, got %v", err)
	}
	if err := win.Flush(); !errors.Is(err, ErrWindowDisposed) {
		t.Errorf("Expected ErrWindowDisposed from Flush, got %v", err)
	}
	if err := win.Clear(); !errors.Is(err, ErrWindowDisposed) {
		t.Errorf("Expected ErrWindowDisposed from Clear, got %v", err)
	}

	// コンテキストは最後のウィンドウと共に自己破棄し、所有するツールキットを閉じる
	if _, err := tk.CreateWindow(toolkit.WindowSpec{Width: 10, Height: 10}); err != nil {
		t.Errorf("Expected toolkit to stay open for non-owning context, got %v", err)
	}
}

func TestWindowClearDetachesTools(t *testing.T) {
	win, tk := newTestWindow(t)
	defer func() {
		// Clearで全ツールが切れた後もウィンドウ自体は使える
		win.Dispose()
	}()

	tur, err := NewTurtle(win)
	if err != nil {
		t.Fatalf("NewTurtle failed: %v", err)
	}
	if err := tur.Forward(50); err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	if err := win.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	display, _ := tk.Display(toolkit.WindowID(1))
	if len(display) != 0 {
		t.Errorf("Expected empty canvas after clear, got %d entries", len(display))
	}
	if err := tur.Forward(10); !errors.Is(err, ErrToolDetached) {
		t.Errorf("Expected ErrToolDetached after clear, got %v", err)
	}

	// 新しいツールは取り付けられる
	if _, err := NewTurtle(win); err != nil {
		t.Errorf("Expected new tool to attach after clear, got %v", err)
	}
}

func TestWindowSnapshot(t *testing.T) {
	win, _ := newTestWindow(t, WithSize(80, 60))
	defer win.Dispose()

	img, err := win.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("Expected 80x60 snapshot, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestWindowsAreIndependent(t *testing.T) {
	tk := toolkit.NewHeadless(toolkit.WithRecording(true))
	ctx := NewDirectContext(tk)

	winA, err := NewWindow(ctx)
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	winB, err := NewWindow(ctx)
	if err != nil {
		t.Fatalf("NewWindow failed: %v", err)
	}
	defer winB.Dispose()

	turA, _ := NewTurtle(winA)
	turB, _ := NewTurtle(winB)

	// Aの速度0のコマンドが滞留していてもBの描画は完了する
	turA.SetSpeed(0)
	if err := turA.Forward(100); err != nil {
		t.Fatalf("Forward on A failed: %v", err)
	}
	if err := turB.Forward(100); err != nil {
		t.Fatalf("Forward on B failed: %v", err)
	}

	displayB, _ := tk.Display(toolkit.WindowID(2))
	found := false
	for _, e := range displayB {
		if e.Spec.Kind == toolkit.PrimitiveLine {
			found = true
		}
	}
	if !found {
		t.Error("Expected line drawn on window B while A was deferred")
	}

	winA.Dispose()
	if err := turB.Forward(10); err != nil {
		t.Errorf("Expected B to keep working after A disposed, got %v", err)
	}
}
