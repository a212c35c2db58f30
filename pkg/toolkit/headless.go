// ヘッドレスモード用のツールキット実装
// 描画操作を実行せず記録だけ行い、テストから検査できるようにする
package toolkit

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"
)

// OperationRecord は描画操作の記録を表す
type OperationRecord struct {
	Op     string
	Window WindowID
	Args   map[string]any
}

// Headless は表示を持たないツールキット実装
// WithRecording を指定すると操作を OperationRecord として履歴に残す
// 表示リストは常に保持するため Snapshot によるラスタライズと
// pkg/export のベクター出力が可能
type Headless struct {
	mu      sync.RWMutex
	windows map[WindowID]*headlessWindow
	nextID  WindowID
	closed  bool

	recordHistory bool
	history       []OperationRecord

	log *slog.Logger
}

type headlessWindow struct {
	spec       WindowSpec
	display    []DisplayEntry
	nextPID    PrimitiveID
	minW, minH int
	maxW, maxH int
	iconified  bool
}

// HeadlessOption は Headless のオプションを設定する関数型
type HeadlessOption func(*Headless)

// WithLogger はロガーを設定する
func WithLogger(log *slog.Logger) HeadlessOption {
	return func(h *Headless) {
		h.log = log
	}
}

// WithRecording は操作履歴の記録の有効/無効を設定する（デフォルトは無効）
func WithRecording(enabled bool) HeadlessOption {
	return func(h *Headless) {
		h.recordHistory = enabled
	}
}

// NewHeadless は新しいヘッドレスツールキットを作成する
func NewHeadless(opts ...HeadlessOption) *Headless {
	h := &Headless{
		windows: make(map[WindowID]*headlessWindow),
		nextID:  1,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Headless) record(op string, id WindowID, args map[string]any) {
	if !h.recordHistory {
		return
	}
	h.history = append(h.history, OperationRecord{Op: op, Window: id, Args: args})
	h.log.Debug("headless: recorded operation", "op", op, "window", int(id))
}

// CreateWindow はウィンドウを作成してIDを返す
func (h *Headless) CreateWindow(spec WindowSpec) (WindowID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrToolkitClosed
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return 0, fmt.Errorf("invalid window size: %dx%d", spec.Width, spec.Height)
	}

	id := h.nextID
	h.nextID++
	h.windows[id] = &headlessWindow{spec: spec, nextPID: 1}
	h.record("CreateWindow", id, map[string]any{
		"x": spec.X, "y": spec.Y,
		"width": spec.Width, "height": spec.Height,
		"title": spec.Title,
	})
	return id, nil
}

// DestroyWindow はウィンドウを破棄する
func (h *Headless) DestroyWindow(id WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.windows[id]; !ok {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	delete(h.windows, id)
	h.record("DestroyWindow", id, nil)
	return nil
}

// ConfigureWindow はウィンドウ調整を適用する
func (h *Headless) ConfigureWindow(id WindowID, adj Adjustment) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	win, ok := h.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}

	switch adj.Kind {
	case AdjustPosition:
		win.spec.X = adj.X
		win.spec.Y = adj.Y
	case AdjustSize:
		win.spec.Width = adj.Width
		win.spec.Height = adj.Height
	case AdjustMinSize:
		win.minW = adj.Width
		win.minH = adj.Height
	case AdjustMaxSize:
		win.maxW = adj.Width
		win.maxH = adj.Height
	case AdjustTitle:
		win.spec.Title = adj.Title
	case AdjustResizable:
		win.spec.Resizable = adj.Resizable
	case AdjustIconify:
		win.iconified = true
	case AdjustDeiconify:
		win.iconified = false
	case AdjustBell:
		// 記録のみ
	}
	h.record("ConfigureWindow", id, map[string]any{"kind": adj.Kind.String()})
	return nil
}

// ClearCanvas はウィンドウの描画内容を消去する
func (h *Headless) ClearCanvas(id WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	win, ok := h.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	win.display = win.display[:0]
	h.record("ClearCanvas", id, nil)
	return nil
}

// DrawPrimitive はプリミティブを表示リストへ追加してIDを返す
func (h *Headless) DrawPrimitive(id WindowID, spec PrimitiveSpec) (PrimitiveID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	win, ok := h.windows[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	pid := win.nextPID
	win.nextPID++
	win.display = append(win.display, DisplayEntry{ID: pid, Spec: spec})
	h.record("DrawPrimitive", id, map[string]any{
		"kind":      spec.Kind.String(),
		"primitive": int(pid),
	})
	return pid, nil
}

// DeletePrimitive は表示リストからプリミティブを削除する
func (h *Headless) DeletePrimitive(id WindowID, pid PrimitiveID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	win, ok := h.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	for i, e := range win.display {
		if e.ID == pid {
			win.display = append(win.display[:i], win.display[i+1:]...)
			h.record("DeletePrimitive", id, map[string]any{"primitive": int(pid)})
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrPrimitiveNotFound, int(pid))
}

// Snapshot は表示リストをラスタライズして返す
func (h *Headless) Snapshot(id WindowID) (image.Image, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	win, ok := h.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	entries := make([]DisplayEntry, len(win.display))
	copy(entries, win.display)
	return Rasterize(win.spec.Width, win.spec.Height, entries), nil
}

// Display はウィンドウの表示リストのコピーを返す（テスト・エクスポート用）
func (h *Headless) Display(id WindowID) ([]DisplayEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	win, ok := h.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	entries := make([]DisplayEntry, len(win.display))
	copy(entries, win.display)
	return entries, nil
}

// WindowSpecOf はウィンドウの現在の指定を返す（テスト用）
func (h *Headless) WindowSpecOf(id WindowID) (WindowSpec, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	win, ok := h.windows[id]
	if !ok {
		return WindowSpec{}, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	return win.spec, nil
}

// Tick はヘッドレスでは記録のみ行う
func (h *Headless) Tick() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrToolkitClosed
	}
	return nil
}

// Schedule は遅延後にfnを別ゴルーチンで実行する
func (h *Headless) Schedule(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// LoopAffinity はヘッドレスでは常にLoopAnyを返す
func (h *Headless) LoopAffinity() LoopAffinity {
	return LoopAny
}

// Close はツールキットを終了する
func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.windows = make(map[WindowID]*headlessWindow)
	return nil
}

// History は操作履歴のコピーを返す
func (h *Headless) History() []OperationRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]OperationRecord, len(h.history))
	copy(out, h.history)
	return out
}

// HistoryCount は操作履歴の件数を返す
func (h *Headless) HistoryCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.history)
}

// ClearHistory は操作履歴を消去する
func (h *Headless) ClearHistory() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = h.history[:0]
}
