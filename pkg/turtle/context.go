// Package turtle はタートルグラフィックスの描画コーディネータを提供する
//
// レンダーコンテキストが唯一のプラットフォームランループを所有し、
// ウィンドウごとのコマンドキューをティックでドレインする。
// 描画ツール（TurtleとPen）はキューへの複合プッシュで段階的に線と弧を描く
package turtle

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zurustar/kame/pkg/toolkit"
)

// ワーカーコンテキストのティック間隔のデフォルト
const defaultTickInterval = time.Millisecond

// Context はレンダーコンテキスト
// ツールキットのランループ制約に応じてワーカー型と直接型の2実装がある
type Context interface {
	// RequestRefresh は次のティックでのドレインを要求する
	RequestRefresh()

	// Dispose はコンテキストを明示的に破棄する
	// Activeなウィンドウが残っている場合は契約違反としてパニックする
	Dispose()

	allocate(spec toolkit.WindowSpec) (*Window, error)
	deallocate(h WindowHandle)
}

type contextConfig struct {
	tickInterval time.Duration
	ownToolkit   bool
	onRelease    func()
	log          *slog.Logger
}

// ContextOption はコンテキストのオプションを設定する関数型
type ContextOption func(*contextConfig)

// WithTickInterval はワーカーコンテキストのティック間隔を設定する
func WithTickInterval(d time.Duration) ContextOption {
	return func(c *contextConfig) {
		c.tickInterval = d
	}
}

// WithOwnedToolkit はコンテキスト破棄時にツールキットも閉じるよう設定する
func WithOwnedToolkit() ContextOption {
	return func(c *contextConfig) {
		c.ownToolkit = true
	}
}

// WithContextLogger はロガーを設定する
func WithContextLogger(log *slog.Logger) ContextOption {
	return func(c *contextConfig) {
		c.log = log
	}
}

// 共有コンテキスト解放時の後始末フック
func withRelease(fn func()) ContextOption {
	return func(c *contextConfig) {
		c.onRelease = fn
	}
}

func newContextConfig(opts []ContextOption) contextConfig {
	cfg := contextConfig{
		tickInterval: defaultTickInterval,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewContext はツールキットの能力を調べて適切なコンテキスト実装を返す
// ランループをどのスレッドでも回せるならワーカー型、
// 最初のスレッドに縛られるなら呼び出し側駆動の直接型を選ぶ
func NewContext(tk toolkit.Toolkit, opts ...ContextOption) Context {
	if tk.LoopAffinity() == toolkit.LoopMain {
		return NewDirectContext(tk, opts...)
	}
	return NewWorkerContext(tk, opts...)
}

// WORKER CONTEXT

// allocRequest はワーカーコンテキストへのウィンドウ作成要求
type allocRequest struct {
	spec toolkit.WindowSpec
	win  *Window
	err  error
	done atomic.Bool
}

// workerContext はティックループを自走させるコンテキスト実装
// ループは最初のAllocateで遅延起動し、Scheduleによる再登録で回り続ける
type workerContext struct {
	tk  toolkit.Toolkit
	cfg contextConfig

	mu       sync.Mutex
	windows  map[WindowHandle]*Window
	pending  []*allocRequest
	teardown []WindowHandle
	nextID   WindowHandle
	running  bool
	disposed bool

	refresh atomic.Bool
}

// NewWorkerContext はワーカー型のレンダーコンテキストを作成する
func NewWorkerContext(tk toolkit.Toolkit, opts ...ContextOption) Context {
	return &workerContext{
		tk:      tk,
		cfg:     newContextConfig(opts),
		windows: make(map[WindowHandle]*Window),
	}
}

func (c *workerContext) allocate(spec toolkit.WindowSpec) (*Window, error) {
	req := &allocRequest{spec: spec}
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, ErrContextDisposed
	}
	c.pending = append(c.pending, req)
	c.startLoopLocked()
	c.mu.Unlock()

	for !req.done.Load() {
		time.Sleep(pollInterval)
	}
	return req.win, req.err
}

func (c *workerContext) deallocate(h WindowHandle) {
	c.mu.Lock()
	c.teardown = append(c.teardown, h)
	c.startLoopLocked()
	c.mu.Unlock()
}

func (c *workerContext) RequestRefresh() {
	c.refresh.Store(true)
}

func (c *workerContext) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if len(c.windows) > 0 || len(c.pending) > 0 {
		c.mu.Unlock()
		panic("render context disposed while windows are still active")
	}
	c.disposed = true
	c.running = false
	c.mu.Unlock()

	if c.cfg.ownToolkit {
		if err := c.tk.Close(); err != nil {
			c.cfg.log.Error("context: toolkit close failed", "error", err)
		}
	}
	if c.cfg.onRelease != nil {
		c.cfg.onRelease()
	}
}

func (c *workerContext) startLoopLocked() {
	if c.running || c.disposed {
		return
	}
	c.running = true
	c.cfg.log.Debug("context: worker loop started", "interval", c.cfg.tickInterval)
	c.tk.Schedule(c.cfg.tickInterval, c.loop)
}

func (c *workerContext) loop() {
	if c.tick() {
		c.tk.Schedule(c.cfg.tickInterval, c.loop)
	}
}

// tick は1回分の処理を行い、ループを続けるかどうかを返す
// 順序は 作成要求 → 各ウィンドウのドレイン → ティアダウン
func (c *workerContext) tick() bool {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return false
	}
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, req := range pending {
		c.processAlloc(req)
	}

	if c.refresh.Swap(false) {
		for _, w := range c.orderedWindows() {
			w.drain()
		}
	}

	// ティアダウンは全ドレインの後に処理する
	c.mu.Lock()
	var torn []*Window
	for _, h := range c.teardown {
		if w, ok := c.windows[h]; ok {
			delete(c.windows, h)
			torn = append(torn, w)
		}
	}
	hadTeardown := len(c.teardown) > 0
	c.teardown = nil
	last := hadTeardown && len(c.windows) == 0 && len(c.pending) == 0
	if last {
		c.disposed = true
		c.running = false
	}
	c.mu.Unlock()

	for _, w := range torn {
		w.drain()
		if err := c.tk.DestroyWindow(w.tkID); err != nil {
			c.cfg.log.Error("context: destroy window failed", "window", int(w.handle), "error", err)
		}
		w.finalize()
	}

	if err := c.tk.Tick(); err != nil {
		c.cfg.log.Debug("context: toolkit tick failed", "error", err)
	}

	if last {
		c.cfg.log.Info("context: last window disposed, shutting down")
		if c.cfg.ownToolkit {
			if err := c.tk.Close(); err != nil {
				c.cfg.log.Error("context: toolkit close failed", "error", err)
			}
		}
		if c.cfg.onRelease != nil {
			c.cfg.onRelease()
		}
		return false
	}
	return true
}

func (c *workerContext) processAlloc(req *allocRequest) {
	tkID, err := c.tk.CreateWindow(req.spec)
	if err != nil {
		req.err = fmt.Errorf("failed to create window: %w", err)
		req.done.Store(true)
		return
	}
	c.mu.Lock()
	c.nextID++
	w := newWindow(c, c.nextID, c.tk, tkID, req.spec, c.cfg.log)
	c.windows[w.handle] = w
	c.mu.Unlock()
	req.win = w
	req.done.Store(true)
}

func (c *workerContext) orderedWindows() []*Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	wins := make([]*Window, 0, len(c.windows))
	for _, w := range c.windows {
		wins = append(wins, w)
	}
	sort.Slice(wins, func(i, j int) bool { return wins[i].handle < wins[j].handle })
	return wins
}

// DIRECT CONTEXT

// directContext は呼び出し側のゴルーチンで同期的にティックを回すコンテキスト実装
// RequestRefreshがその場で全ウィンドウをドレインする
type directContext struct {
	tk  toolkit.Toolkit
	cfg contextConfig

	mu       sync.Mutex
	windows  map[WindowHandle]*Window
	nextID   WindowHandle
	disposed bool
}

// NewDirectContext は直接型のレンダーコンテキストを作成する
// 決定的に駆動できるため、テストの基本ドライブでもある
func NewDirectContext(tk toolkit.Toolkit, opts ...ContextOption) Context {
	return &directContext{
		tk:      tk,
		cfg:     newContextConfig(opts),
		windows: make(map[WindowHandle]*Window),
	}
}

func (c *directContext) allocate(spec toolkit.WindowSpec) (*Window, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil, ErrContextDisposed
	}
	tkID, err := c.tk.CreateWindow(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	c.nextID++
	w := newWindow(c, c.nextID, c.tk, tkID, spec, c.cfg.log)
	c.windows[w.handle] = w
	return w, nil
}

func (c *directContext) deallocate(h WindowHandle) {
	c.mu.Lock()
	w, ok := c.windows[h]
	if !ok {
		c.mu.Unlock()
		return
	}
	// 破棄前に残りのドレインを済ませる
	c.tickLocked()
	delete(c.windows, h)
	if err := c.tk.DestroyWindow(w.tkID); err != nil {
		c.cfg.log.Error("context: destroy window failed", "window", int(w.handle), "error", err)
	}
	w.finalize()
	last := len(c.windows) == 0
	if last {
		c.disposed = true
	}
	c.mu.Unlock()

	if last {
		c.cfg.log.Info("context: last window disposed, shutting down")
		if c.cfg.ownToolkit {
			if err := c.tk.Close(); err != nil {
				c.cfg.log.Error("context: toolkit close failed", "error", err)
			}
		}
		if c.cfg.onRelease != nil {
			c.cfg.onRelease()
		}
	}
}

func (c *directContext) RequestRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.tickLocked()
}

func (c *directContext) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if len(c.windows) > 0 {
		c.mu.Unlock()
		panic("render context disposed while windows are still active")
	}
	c.disposed = true
	c.mu.Unlock()

	if c.cfg.ownToolkit {
		if err := c.tk.Close(); err != nil {
			c.cfg.log.Error("context: toolkit close failed", "error", err)
		}
	}
	if c.cfg.onRelease != nil {
		c.cfg.onRelease()
	}
}

func (c *directContext) tickLocked() {
	wins := make([]*Window, 0, len(c.windows))
	for _, w := range c.windows {
		wins = append(wins, w)
	}
	sort.Slice(wins, func(i, j int) bool { return wins[i].handle < wins[j].handle })
	for _, w := range wins {
		w.drain()
	}
	if err := c.tk.Tick(); err != nil {
		c.cfg.log.Debug("context: toolkit tick failed", "error", err)
	}
}
