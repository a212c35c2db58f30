package turtle

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zurustar/kame/pkg/toolkit"
)

// ウィンドウのデフォルト値
const (
	DefaultWindowX      = 50
	DefaultWindowY      = 50
	DefaultWindowWidth  = 500
	DefaultWindowHeight = 500
	DefaultWindowTitle  = "kame"
)

// ブロッキング操作がドレインを待つときのポーリング間隔
const pollInterval = 5 * time.Millisecond

// toolState はウィンドウが保持するツールごとの描画状態
// historyとアイコンはドレイン側だけが触る
type toolState struct {
	icon    toolkit.PrimitiveID
	hasIcon bool
	history []toolkit.PrimitiveID
}

// Window は描画ツールを載せるウィンドウ
// 1つのミューテックスがコマンドキュー・調整リスト・ツール登録を守る
// プリミティブの実行中はロックを保持しない
type Window struct {
	ctx    Context
	handle WindowHandle
	tk     toolkit.Toolkit
	tkID   toolkit.WindowID

	mu       sync.Mutex
	queue    []queuedOp
	adjusts  []toolkit.Adjustment
	tools    map[ToolHandle]*toolState
	flush    bool
	clearing bool
	disposed bool
	pushSeq  uint64
	drainSeq atomic.Uint64

	x, y          int
	width, height int
	title         string
	resizable     bool

	log *slog.Logger
}

// WindowOption はウィンドウ作成時のオプションを設定する関数型
type WindowOption func(*toolkit.WindowSpec)

// WithPosition はウィンドウの初期位置を設定する
func WithPosition(x, y int) WindowOption {
	return func(s *toolkit.WindowSpec) {
		s.X = x
		s.Y = y
	}
}

// WithSize はウィンドウの初期サイズを設定する
func WithSize(width, height int) WindowOption {
	return func(s *toolkit.WindowSpec) {
		s.Width = width
		s.Height = height
	}
}

// WithTitle はウィンドウのタイトルを設定する
func WithTitle(title string) WindowOption {
	return func(s *toolkit.WindowSpec) {
		s.Title = title
	}
}

// WithResizable はウィンドウのサイズ変更可否を設定する
func WithResizable(resizable bool) WindowOption {
	return func(s *toolkit.WindowSpec) {
		s.Resizable = resizable
	}
}

// NewWindow は指定されたレンダーコンテキスト上にウィンドウを作成する
func NewWindow(ctx Context, opts ...WindowOption) (*Window, error) {
	spec := toolkit.WindowSpec{
		X:     DefaultWindowX,
		Y:     DefaultWindowY,
		Width: DefaultWindowWidth, Height: DefaultWindowHeight,
		Title:     DefaultWindowTitle,
		Resizable: true,
	}
	for _, opt := range opts {
		opt(&spec)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("window size must be positive: %dx%d", spec.Width, spec.Height)
	}
	if spec.X < 0 || spec.Y < 0 {
		return nil, fmt.Errorf("window position must be non-negative: (%d, %d)", spec.X, spec.Y)
	}
	return ctx.allocate(spec)
}

// newWindow はコンテキストがツールキットウィンドウ作成後に呼ぶ
func newWindow(ctx Context, handle WindowHandle, tk toolkit.Toolkit, tkID toolkit.WindowID, spec toolkit.WindowSpec, log *slog.Logger) *Window {
	return &Window{
		ctx:    ctx,
		handle: handle,
		tk:     tk,
		tkID:   tkID,
		tools:  make(map[ToolHandle]*toolState),
		x:      spec.X, y: spec.Y,
		width: spec.Width, height: spec.Height,
		title:     spec.Title,
		resizable: spec.Resizable,
		log:       log,
	}
}

// ACCESSORS

// X はウィンドウのx位置を返す
func (w *Window) X() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.x
}

// Y はウィンドウのy位置を返す
func (w *Window) Y() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.y
}

// Width はウィンドウの幅を返す
func (w *Window) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

// Height はウィンドウの高さを返す
func (w *Window) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// Title はウィンドウのタイトルを返す
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// Resizable はウィンドウのサイズ変更可否を返す
func (w *Window) Resizable() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resizable
}

// Disposed はウィンドウが破棄済みかどうかを返す
func (w *Window) Disposed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disposed
}

// SETTERS
// 値を検証し、キャッシュを更新し、調整を1件積んでリフレッシュを要求する

// SetPosition はウィンドウの位置を変更する
func (w *Window) SetPosition(x, y int) error {
	if x < 0 || y < 0 {
		return fmt.Errorf("window position must be non-negative: (%d, %d)", x, y)
	}
	return w.adjust(func() {
		w.x = x
		w.y = y
	}, toolkit.Adjustment{Kind: toolkit.AdjustPosition, X: x, Y: y})
}

// SetSize はウィンドウのサイズを変更する
func (w *Window) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("window size must be positive: %dx%d", width, height)
	}
	return w.adjust(func() {
		w.width = width
		w.height = height
	}, toolkit.Adjustment{Kind: toolkit.AdjustSize, Width: width, Height: height})
}

// SetMinSize はウィンドウの最小サイズを設定する
func (w *Window) SetMinSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("window min size must be non-negative: %dx%d", width, height)
	}
	return w.adjust(nil, toolkit.Adjustment{Kind: toolkit.AdjustMinSize, Width: width, Height: height})
}

// SetMaxSize はウィンドウの最大サイズを設定する
func (w *Window) SetMaxSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("window max size must be non-negative: %dx%d", width, height)
	}
	return w.adjust(nil, toolkit.Adjustment{Kind: toolkit.AdjustMaxSize, Width: width, Height: height})
}

// SetTitle はウィンドウのタイトルを変更する
func (w *Window) SetTitle(title string) error {
	return w.adjust(func() {
		w.title = title
	}, toolkit.Adjustment{Kind: toolkit.AdjustTitle, Title: title})
}

// SetResizable はウィンドウのサイズ変更可否を変更する
func (w *Window) SetResizable(resizable bool) error {
	return w.adjust(func() {
		w.resizable = resizable
	}, toolkit.Adjustment{Kind: toolkit.AdjustResizable, Resizable: resizable})
}

// Iconify はウィンドウを最小化する
func (w *Window) Iconify() error {
	return w.adjust(nil, toolkit.Adjustment{Kind: toolkit.AdjustIconify})
}

// Deiconify はウィンドウの最小化を解除する
func (w *Window) Deiconify() error {
	return w.adjust(nil, toolkit.Adjustment{Kind: toolkit.AdjustDeiconify})
}

// Bell はウィンドウのベルを鳴らす
func (w *Window) Bell() error {
	return w.adjust(nil, toolkit.Adjustment{Kind: toolkit.AdjustBell})
}

func (w *Window) adjust(cache func(), adj toolkit.Adjustment) error {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return ErrWindowDisposed
	}
	if cache != nil {
		cache()
	}
	w.adjusts = append(w.adjusts, adj)
	w.mu.Unlock()
	w.ctx.RequestRefresh()
	return nil
}

// LIFECYCLE

// Flush はキューに残っている描画コマンドの実行を要求する
// 速度0のツールが積んだ遅延分を可視化するために必要になる
func (w *Window) Flush() error {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return ErrWindowDisposed
	}
	w.flush = true
	w.mu.Unlock()
	w.ctx.RequestRefresh()
	return nil
}

// Clear はキャンバスを消去し、全ツールを切り離す
// 消去がドレインされるまでブロックする。ウィンドウはActiveに留まる
func (w *Window) Clear() error {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return ErrWindowDisposed
	}
	w.clearing = true
	w.flush = true
	w.pushSeq++
	seq := w.pushSeq
	w.mu.Unlock()
	w.ctx.RequestRefresh()

	for w.drainSeq.Load() < seq {
		w.mu.Lock()
		disposed := w.disposed
		w.mu.Unlock()
		if disposed {
			return ErrWindowDisposed
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// Dispose はウィンドウを破棄する。何度呼んでもよい
func (w *Window) Dispose() {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	w.ctx.deallocate(w.handle)
}

// Snapshot は現在の描画内容を画像として返す
func (w *Window) Snapshot() (image.Image, error) {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return nil, ErrWindowDisposed
	}
	tkID := w.tkID
	w.mu.Unlock()
	return w.tk.Snapshot(tkID)
}

// TOOL REGISTRY

// attachTool はツールを登録してハンドルを返す
func (w *Window) attachTool() (ToolHandle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disposed {
		return ToolHandle{}, ErrWindowDisposed
	}
	h := newToolHandle()
	w.tools[h] = &toolState{}
	return h, nil
}

// detachTool はツール1つの登録解除をキューに積み、後片付けのドレインを待つ
// アイコンと履歴のプリミティブはドレイン側で削除され、登録も同時に消える
func (w *Window) detachTool(h ToolHandle) error {
	w.mu.Lock()
	if w.disposed || w.tools[h] == nil {
		w.mu.Unlock()
		return ErrToolDetached
	}
	op := detachOp()
	op.tool = h
	w.queue = append(w.queue, op)
	w.pushSeq++
	seq := w.pushSeq
	w.flush = true
	w.mu.Unlock()
	w.ctx.RequestRefresh()

	for w.drainSeq.Load() < seq {
		w.mu.Lock()
		disposed := w.disposed
		w.mu.Unlock()
		if disposed {
			return ErrWindowDisposed
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// toolAttached はツールが登録されたままかどうかを返す
func (w *Window) toolAttached(h ToolHandle) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.disposed && w.tools[h] != nil
}

// QUEUE

// pushBatch は複合操作列を1かたまりとしてキューに積む
// blockがtrueならフラッシュマーカーを立て、操作列のドレイン完了まで待つ
func (w *Window) pushBatch(h ToolHandle, ops []queuedOp, block bool) error {
	w.mu.Lock()
	if w.disposed || w.tools[h] == nil {
		w.mu.Unlock()
		return ErrToolDetached
	}
	conv := converter{width: float64(w.width), height: float64(w.height)}
	for i := range ops {
		ops[i].tool = h
		if ops[i].kind == opDraw {
			ops[i].spec = conv.spec(ops[i].spec)
		}
		if ops[i].kind == opIconDraw {
			ops[i].at = conv.point(ops[i].at)
		}
	}
	w.pushSeq++
	seq := w.pushSeq
	w.queue = append(w.queue, ops...)
	if block {
		w.flush = true
	}
	w.mu.Unlock()
	w.ctx.RequestRefresh()
	if !block {
		return nil
	}

	for w.drainSeq.Load() < seq {
		w.mu.Lock()
		dead := w.disposed || w.tools[h] == nil
		w.mu.Unlock()
		if dead {
			return ErrToolDetached
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// DRAIN

// drain はコンテキストのティックから呼ばれる
// ロック下で{消去フラグ, フラッシュマーカー, コマンド列, 調整列}を取り出し、
// 実行はロックを外して行う
func (w *Window) drain() {
	w.mu.Lock()
	if w.disposed {
		w.mu.Unlock()
		return
	}
	clearing := w.clearing
	w.clearing = false
	flushed := w.flush || clearing
	var batch []queuedOp
	if flushed {
		w.flush = false
		batch = w.queue
		w.queue = nil
	}
	adjusts := w.adjusts
	w.adjusts = nil
	seq := w.pushSeq
	if clearing {
		// 全ツールを切り離し、履歴ごと捨てる
		w.tools = make(map[ToolHandle]*toolState)
	}
	w.mu.Unlock()

	if clearing {
		if err := w.tk.ClearCanvas(w.tkID); err != nil {
			w.log.Error("drain: clear canvas failed", "window", int(w.handle), "error", err)
		}
		batch = nil
	}
	for i := range batch {
		w.execute(&batch[i])
	}
	for _, adj := range adjusts {
		if err := w.tk.ConfigureWindow(w.tkID, adj); err != nil {
			w.log.Error("drain: window adjustment failed",
				"window", int(w.handle), "kind", adj.Kind.String(), "error", err)
		}
	}
	if flushed {
		w.drainSeq.Store(seq)
	}
}

// execute は1操作を実行する
// プリミティブの失敗がティックを殺さないようrecoverで隔離する
func (w *Window) execute(op *queuedOp) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("drain: operation panicked",
				"window", int(w.handle), "op", op.kind.String(), "cause", r)
		}
	}()

	if op.kind == opDetach {
		// 登録を外してからこのツールの描画物をすべて削除する
		w.mu.Lock()
		st := w.tools[op.tool]
		delete(w.tools, op.tool)
		w.mu.Unlock()
		if st == nil {
			return
		}
		if st.hasIcon {
			if err := w.tk.DeletePrimitive(w.tkID, st.icon); err != nil {
				w.log.Debug("drain: detach icon erase failed", "window", int(w.handle), "error", err)
			}
		}
		for _, pid := range st.history {
			if err := w.tk.DeletePrimitive(w.tkID, pid); err != nil {
				w.log.Debug("drain: detach rollback failed", "window", int(w.handle), "error", err)
			}
		}
		return
	}

	w.mu.Lock()
	st := w.tools[op.tool]
	w.mu.Unlock()
	if st == nil {
		// 実行前に切り離されたツールの残骸
		return
	}

	switch op.kind {
	case opIconErase:
		if st.hasIcon {
			if err := w.tk.DeletePrimitive(w.tkID, st.icon); err != nil {
				w.log.Debug("drain: icon erase failed", "window", int(w.handle), "error", err)
			}
			st.hasIcon = false
		}
	case opRollback:
		n := op.count
		if n == rollbackAll || n > len(st.history) {
			n = len(st.history)
		}
		for i := 0; i < n; i++ {
			pid := st.history[len(st.history)-1]
			st.history = st.history[:len(st.history)-1]
			if err := w.tk.DeletePrimitive(w.tkID, pid); err != nil {
				w.log.Debug("drain: rollback delete failed", "window", int(w.handle), "error", err)
			}
		}
	case opDraw:
		pid, err := w.tk.DrawPrimitive(w.tkID, op.spec)
		if err != nil {
			w.log.Error("drain: draw primitive failed",
				"window", int(w.handle), "kind", op.spec.Kind.String(), "error", err)
			return
		}
		st.history = append(st.history, pid)
	case opIconDraw:
		pid, err := w.tk.DrawPrimitive(w.tkID, toolkit.PrimitiveSpec{
			Kind: toolkit.PrimitiveIcon,
			Icon: op.icon,
			At:   op.at,
		})
		if err != nil {
			w.log.Error("drain: icon draw failed", "window", int(w.handle), "error", err)
			return
		}
		st.icon = pid
		st.hasIcon = true
	}
}

// finalize はコンテキストのティアダウンから呼ばれ、状態をDisposedへ移す
// 待機中のブロッキングプッシュはポーリングで切り離しに気づく
func (w *Window) finalize() {
	w.mu.Lock()
	w.disposed = true
	w.tools = nil
	w.queue = nil
	w.adjusts = nil
	w.mu.Unlock()
}
