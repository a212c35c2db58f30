// デスクトップモード用のツールキット実装
// 1つのOSウィンドウ（ebiten）の上に仮想ウィンドウを合成する
package toolkit

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/zurustar/kame/pkg/geom"
)

// ウィンドウ装飾の定数
const (
	// BorderThickness はウィンドウ外枠の幅
	BorderThickness = 4

	// TitleBarHeight はタイトルバーの高さ
	TitleBarHeight = 20
)

var (
	// 仮想デスクトップの背景色 #0087C8
	desktopBackground = color.RGBA{0x00, 0x87, 0xC8, 0xFF}
	// ウィンドウ枠の色
	frameColor = color.RGBA{0x50, 0x50, 0x50, 0xFF}
	// タイトルバーの色
	titleBarColor = color.RGBA{0x20, 0x40, 0x80, 0xFF}
	// デフォルトフォント
	defaultFace = text.NewGoXFace(basicfont.Face7x13)
	// シェーダー用の1x1白画像
	emptyImage = func() *ebiten.Image {
		img := ebiten.NewImage(1, 1)
		img.Fill(color.White)
		return img
	}()
)

const bellSampleRate = 44100

// Desktop は仮想デスクトップ上に仮想ウィンドウを合成するツールキット実装
// Run はメインゴルーチンで呼ぶ必要があり、デスクトップが閉じるまでブロックする
type Desktop struct {
	mu         sync.RWMutex
	windows    map[WindowID]*desktopWindow
	nextID     WindowID
	nextZOrder int
	closed     bool

	virtualWidth  int
	virtualHeight int

	audioCtx  *audio.Context
	iconCache map[image.Image]*ebiten.Image

	log *slog.Logger
}

type desktopWindow struct {
	spec       WindowSpec
	display    []DisplayEntry
	nextPID    PrimitiveID
	zorder     int
	iconified  bool
	minW, minH int
	maxW, maxH int
}

// DesktopOption は Desktop のオプションを設定する関数型
type DesktopOption func(*Desktop)

// WithDesktopLogger はロガーを設定する
func WithDesktopLogger(log *slog.Logger) DesktopOption {
	return func(d *Desktop) {
		d.log = log
	}
}

// WithVirtualSize は仮想デスクトップのサイズを設定する
func WithVirtualSize(width, height int) DesktopOption {
	return func(d *Desktop) {
		d.virtualWidth = width
		d.virtualHeight = height
	}
}

// NewDesktop は新しいデスクトップツールキットを作成する
func NewDesktop(opts ...DesktopOption) *Desktop {
	d := &Desktop{
		windows:       make(map[WindowID]*desktopWindow),
		nextID:        1,
		virtualWidth:  1024,
		virtualHeight: 768,
		iconCache:     make(map[image.Image]*ebiten.Image),
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run は仮想デスクトップのランループを実行する
// メインゴルーチンで呼ぶこと。ctxのキャンセルまたはClose()で終了する
func (d *Desktop) Run(ctx context.Context) error {
	ebiten.SetWindowSize(d.virtualWidth, d.virtualHeight)
	ebiten.SetWindowTitle("kame")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := &desktopGame{desktop: d, ctx: ctx}
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("desktop run loop failed: %w", err)
	}
	return nil
}

// CreateWindow は仮想ウィンドウを作成してIDを返す
func (d *Desktop) CreateWindow(spec WindowSpec) (WindowID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrToolkitClosed
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return 0, fmt.Errorf("invalid window size: %dx%d", spec.Width, spec.Height)
	}

	id := d.nextID
	d.nextID++
	d.windows[id] = &desktopWindow{
		spec:    spec,
		nextPID: 1,
		zorder:  d.nextZOrder,
	}
	d.nextZOrder++

	d.log.Info("desktop: window created",
		"window", int(id),
		"x", spec.X, "y", spec.Y,
		"width", spec.Width, "height", spec.Height)
	return id, nil
}

// DestroyWindow は仮想ウィンドウを破棄する
func (d *Desktop) DestroyWindow(id WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.windows[id]; !ok {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	delete(d.windows, id)
	d.log.Info("desktop: window destroyed", "window", int(id))
	return nil
}

// ConfigureWindow はウィンドウ調整を適用する
func (d *Desktop) ConfigureWindow(id WindowID, adj Adjustment) error {
	d.mu.Lock()
	win, ok := d.windows[id]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}

	bell := false
	switch adj.Kind {
	case AdjustPosition:
		win.spec.X = adj.X
		win.spec.Y = adj.Y
	case AdjustSize:
		win.spec.Width = clampSize(adj.Width, win.minW, win.maxW)
		win.spec.Height = clampSize(adj.Height, win.minH, win.maxH)
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
		bell = true
	}
	d.mu.Unlock()

	if bell {
		d.playBell()
	}
	return nil
}

func clampSize(v, min, max int) int {
	if min > 0 && v < min {
		v = min
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}

// ClearCanvas はウィンドウの描画内容を消去する
func (d *Desktop) ClearCanvas(id WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	win, ok := d.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	win.display = win.display[:0]
	return nil
}

// DrawPrimitive はプリミティブを表示リストへ追加してIDを返す
// 実際の描画はフレームごとの合成時に行われる
func (d *Desktop) DrawPrimitive(id WindowID, spec PrimitiveSpec) (PrimitiveID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	win, ok := d.windows[id]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	pid := win.nextPID
	win.nextPID++
	win.display = append(win.display, DisplayEntry{ID: pid, Spec: spec})
	return pid, nil
}

// DeletePrimitive は表示リストからプリミティブを削除する
func (d *Desktop) DeletePrimitive(id WindowID, pid PrimitiveID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	win, ok := d.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	for i, e := range win.display {
		if e.ID == pid {
			win.display = append(win.display[:i], win.display[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrPrimitiveNotFound, int(pid))
}

// Snapshot は表示リストをラスタライズして返す
// GPUからの読み戻しは行わず、ヘッドレスと同じソフトウェアラスタを使う
func (d *Desktop) Snapshot(id WindowID) (image.Image, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	win, ok := d.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	entries := make([]DisplayEntry, len(win.display))
	copy(entries, win.display)
	return Rasterize(win.spec.Width, win.spec.Height, entries), nil
}

// Tick はデスクトップでは何もしない
// フレームの駆動は ebiten のランループが所有している
func (d *Desktop) Tick() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrToolkitClosed
	}
	return nil
}

// Schedule は遅延後にfnを別ゴルーチンで実行する
func (d *Desktop) Schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}

// LoopAffinity はプラットフォームのGUIスタックの要求を返す
// macOSでは最初のスレッドがGUIを所有するため同期駆動を要求する
func (d *Desktop) LoopAffinity() LoopAffinity {
	if runtime.GOOS == "darwin" {
		return LoopMain
	}
	return LoopAny
}

// Close はデスクトップを終了する
func (d *Desktop) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.windows = make(map[WindowID]*desktopWindow)
	return nil
}

func (d *Desktop) playBell() {
	d.mu.Lock()
	if d.audioCtx == nil {
		d.audioCtx = audio.NewContext(bellSampleRate)
	}
	ctx := d.audioCtx
	d.mu.Unlock()

	player := ctx.NewPlayerFromBytes(bellPCM())
	player.Play()
}

// bellPCM は880Hz・0.15秒のベル音を16bitステレオPCMで生成する
func bellPCM() []byte {
	const (
		freq     = 880.0
		duration = 0.15
	)
	n := int(bellSampleRate * duration)
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		// 末尾に向けて減衰させる
		env := 1 - float64(i)/float64(n)
		v := int16(math.Sin(2*math.Pi*freq*float64(i)/bellSampleRate) * env * 0.3 * math.MaxInt16)
		buf[i*4] = byte(v)
		buf[i*4+1] = byte(v >> 8)
		buf[i*4+2] = byte(v)
		buf[i*4+3] = byte(v >> 8)
	}
	return buf
}

// desktopGame は ebiten.Game を実装する
type desktopGame struct {
	desktop *Desktop
	ctx     context.Context
}

func (g *desktopGame) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	g.desktop.mu.RLock()
	closed := g.desktop.closed
	g.desktop.mu.RUnlock()
	if closed {
		return ebiten.Termination
	}
	return nil
}

func (g *desktopGame) Draw(screen *ebiten.Image) {
	screen.Fill(desktopBackground)

	d := g.desktop
	d.mu.RLock()
	wins := make([]*desktopWindow, 0, len(d.windows))
	for _, win := range d.windows {
		wins = append(wins, win)
	}
	sort.Slice(wins, func(i, j int) bool { return wins[i].zorder < wins[j].zorder })

	for _, win := range wins {
		if win.iconified {
			continue
		}
		d.drawWindow(screen, win)
	}
	d.mu.RUnlock()
}

func (g *desktopGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	// 固定の仮想サイズを返し、スケーリングはebitenに任せる
	return g.desktop.virtualWidth, g.desktop.virtualHeight
}

// drawWindow は仮想ウィンドウを枠・タイトルバー込みで合成する
// 呼び出し側がロックを保持している
func (d *Desktop) drawWindow(screen *ebiten.Image, win *desktopWindow) {
	x := float32(win.spec.X)
	y := float32(win.spec.Y)
	w := float32(win.spec.Width + BorderThickness*2)
	h := float32(win.spec.Height + BorderThickness*2 + TitleBarHeight)

	// 枠とタイトルバー
	vector.FillRect(screen, x, y, w, h, frameColor, false)
	vector.FillRect(screen, x+BorderThickness, y+BorderThickness,
		float32(win.spec.Width), TitleBarHeight, titleBarColor, false)

	if win.spec.Title != "" {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(win.spec.X+BorderThickness+4), float64(win.spec.Y+BorderThickness+3))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, win.spec.Title, defaultFace, op)
	}

	// コンテンツ領域（クリップのためにSubImageを使う）
	contentX := win.spec.X + BorderThickness
	contentY := win.spec.Y + BorderThickness + TitleBarHeight
	rect := image.Rect(contentX, contentY, contentX+win.spec.Width, contentY+win.spec.Height)
	content := screen.SubImage(rect).(*ebiten.Image)
	content.Fill(color.White)

	ox := float64(contentX)
	oy := float64(contentY)
	for _, e := range win.display {
		d.drawEntry(content, e.Spec, ox, oy)
	}
}

// drawEntry は表示リストの1要素をコンテンツ領域へ描画する
func (d *Desktop) drawEntry(dst *ebiten.Image, spec PrimitiveSpec, ox, oy float64) {
	switch spec.Kind {
	case PrimitiveLine:
		for i := 1; i < len(spec.Points); i++ {
			d.strokeDashedLine(dst,
				spec.Points[i-1].X+ox, spec.Points[i-1].Y+oy,
				spec.Points[i].X+ox, spec.Points[i].Y+oy,
				spec)
		}
	case PrimitivePolygon:
		pts := offsetPoints(spec.Points, ox, oy)
		if spec.Fill != nil {
			fillPath(dst, buildPath(pts, true), spec.Fill)
		}
		if spec.Stroke != nil {
			strokePathEbiten(dst, buildPath(pts, true), spec.Stroke, strokeWidth(spec))
		}
	case PrimitiveRect:
		x := float32(spec.Left + ox)
		y := float32(spec.Top + oy)
		w := float32(spec.Right - spec.Left)
		h := float32(spec.Bottom - spec.Top)
		if spec.Fill != nil {
			vector.FillRect(dst, x, y, w, h, spec.Fill, false)
		}
		if spec.Stroke != nil {
			vector.StrokeRect(dst, x, y, w, h, strokeWidth(spec), spec.Stroke, false)
		}
	case PrimitiveOval:
		pts := offsetPoints(sampleArc(spec, 0, 360), ox, oy)
		if spec.Fill != nil {
			fillPath(dst, buildPath(pts, true), spec.Fill)
		}
		if spec.Stroke != nil {
			strokePathEbiten(dst, buildPath(pts, true), spec.Stroke, strokeWidth(spec))
		}
	case PrimitiveArc:
		pts := offsetPoints(sampleArc(spec, spec.Start, spec.Extent), ox, oy)
		cx := (spec.Left+spec.Right)/2 + ox
		cy := (spec.Top+spec.Bottom)/2 + oy
		switch spec.Style {
		case ArcPieSlice:
			poly := append([]geom.Point2{{X: cx, Y: cy}}, pts...)
			if spec.Fill != nil {
				fillPath(dst, buildPath(poly, true), spec.Fill)
			}
			if spec.Stroke != nil {
				strokePathEbiten(dst, buildPath(poly, true), spec.Stroke, strokeWidth(spec))
			}
		case ArcChord:
			if spec.Fill != nil {
				fillPath(dst, buildPath(pts, true), spec.Fill)
			}
			if spec.Stroke != nil {
				strokePathEbiten(dst, buildPath(pts, true), spec.Stroke, strokeWidth(spec))
			}
		default:
			if spec.Stroke != nil {
				strokePathEbiten(dst, buildPath(pts, false), spec.Stroke, strokeWidth(spec))
			}
		}
	case PrimitiveIcon:
		if spec.Icon == nil {
			return
		}
		img := d.iconImage(spec.Icon)
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(spec.At.X+ox-float64(b.Dx())/2, spec.At.Y+oy-float64(b.Dy())/2)
		dst.DrawImage(img, op)
	}
}

// strokeDashedLine はダッシュパターンを考慮して線分を描画する
func (d *Desktop) strokeDashedLine(dst *ebiten.Image, x1, y1, x2, y2 float64, spec PrimitiveSpec) {
	width := strokeWidth(spec)
	if len(spec.Dash) == 0 {
		vector.StrokeLine(dst, float32(x1), float32(y1), float32(x2), float32(y2), width, spec.Stroke, false)
		return
	}

	p := geom.Pt(x1, y1)
	q := geom.Pt(x2, y2)
	length := p.Distance(q)
	if length == 0 {
		return
	}
	dir := q.Sub(p).Normalize()

	pos := 0.0
	idx := 0
	for pos < length {
		seg := spec.Dash[idx%len(spec.Dash)]
		end := math.Min(pos+seg, length)
		if idx%2 == 0 {
			a := p.Add(dir.Scale(pos))
			b := p.Add(dir.Scale(end))
			vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, spec.Stroke, false)
		}
		pos = end
		idx++
	}
}

func (d *Desktop) iconImage(src image.Image) *ebiten.Image {
	if img, ok := d.iconCache[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	d.iconCache[src] = img
	return img
}

func strokeWidth(spec PrimitiveSpec) float32 {
	if spec.Width <= 0 {
		return 1
	}
	return float32(spec.Width)
}

func offsetPoints(pts []geom.Point2, ox, oy float64) []geom.Point2 {
	out := make([]geom.Point2, len(pts))
	for i, p := range pts {
		out[i] = geom.Point2{X: p.X + ox, Y: p.Y + oy}
	}
	return out
}

func buildPath(pts []geom.Point2, closed bool) *vector.Path {
	var path vector.Path
	for i, p := range pts {
		if i == 0 {
			path.MoveTo(float32(p.X), float32(p.Y))
		} else {
			path.LineTo(float32(p.X), float32(p.Y))
		}
	}
	if closed {
		path.Close()
	}
	return &path
}

func fillPath(dst *ebiten.Image, path *vector.Path, c color.Color) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	applyColor(vs, c)
	dst.DrawTriangles(vs, is, emptyImage, nil)
}

func strokePathEbiten(dst *ebiten.Image, path *vector.Path, c color.Color, width float32) {
	op := &vector.StrokeOptions{Width: width}
	vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, op)
	applyColor(vs, c)
	dst.DrawTriangles(vs, is, emptyImage, nil)
}

func applyColor(vs []ebiten.Vertex, c color.Color) {
	r, g, b, a := c.RGBA()
	for i := range vs {
		vs[i].ColorR = float32(r) / 65535.0
		vs[i].ColorG = float32(g) / 65535.0
		vs[i].ColorB = float32(b) / 65535.0
		vs[i].ColorA = float32(a) / 65535.0
	}
}
