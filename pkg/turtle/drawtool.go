package turtle

import (
	"fmt"
	"image/color"
	"math"

	"github.com/zurustar/kame/pkg/geom"
	"github.com/zurustar/kame/pkg/toolkit"
)

// drawTool はTurtleとPenが埋め込む共通部分
// 状態はすべて呼び出し側のゴルーチンだけが書き換え、ドレインは読むだけ
type drawTool struct {
	win    *Window
	handle ToolHandle
	kind   string
	title  string

	pos     geom.Point2
	heading float64
	speed   int
	visible bool
	col     color.Color
	width   float64
	dash    []float64
	cursor  *cursor
}

func (t *drawTool) ensureAttached() error {
	if t.win == nil || !t.win.toolAttached(t.handle) {
		return fmt.Errorf("%s detached from window %q: %w", t.kind, t.title, ErrToolDetached)
	}
	return nil
}

// ACCESSORS

// Speed はツールの速度を返す
func (t *drawTool) Speed() int {
	return t.speed
}

// Visible はカーソルの可視状態を返す
func (t *drawTool) Visible() bool {
	return t.visible
}

// Color はツールの描画色を返す
func (t *drawTool) Color() color.Color {
	return t.col
}

// StrokeWidth は線の太さを返す
func (t *drawTool) StrokeWidth() float64 {
	return t.width
}

// Dash はダッシュパターンを返す
func (t *drawTool) Dash() []float64 {
	return t.dash
}

// X はツールのx座標を返す
func (t *drawTool) X() float64 {
	return t.pos.X
}

// Y はツールのy座標を返す
func (t *drawTool) Y() float64 {
	return t.pos.Y
}

// Heading はツールの向きを度単位で返す
func (t *drawTool) Heading() float64 {
	return t.heading
}

// SETTERS

// SetSpeed はツールの速度を設定する（0は即時・フラッシュ待ち、1〜10はアニメーション）
// 速度0から離れるときは遅延していた描画を先に可視化する
func (t *drawTool) SetSpeed(v int) error {
	if v < 0 || v > 10 {
		return fmt.Errorf("speed must be in 0..10: %d", v)
	}
	if err := t.ensureAttached(); err != nil {
		return err
	}
	leaving := t.speed == 0 && v > 0
	t.speed = v
	if leaving {
		if err := t.win.Flush(); err != nil {
			return err
		}
	}
	return t.refreshIcon(t.speed > 0)
}

// SetVisible はカーソルの可視状態を設定する
func (t *drawTool) SetVisible(v bool) error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	t.visible = v
	return t.refreshIcon(t.speed > 0)
}

// SetColor はツールの描画色を設定する
func (t *drawTool) SetColor(c color.Color) error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	t.col = c
	t.cursor.setColor(c)
	return t.refreshIcon(t.speed > 0)
}

// SetStrokeWidth は線の太さを設定する
func (t *drawTool) SetStrokeWidth(w float64) error {
	if w <= 0 {
		return fmt.Errorf("stroke width must be positive: %g", w)
	}
	if err := t.ensureAttached(); err != nil {
		return err
	}
	t.width = w
	return nil
}

// SetDash はダッシュパターンを設定する。nilで実線に戻る
func (t *drawTool) SetDash(dash []float64) error {
	for _, d := range dash {
		if d <= 0 {
			return fmt.Errorf("dash segments must be positive: %g", d)
		}
	}
	if err := t.ensureAttached(); err != nil {
		return err
	}
	t.dash = dash
	return nil
}

// Flush はウィンドウのフラッシュを要求する。速度0の遅延分を可視化する
func (t *drawTool) Flush() error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	return t.win.Flush()
}

// Detach はこのツールだけをウィンドウから切り離す
// アイコンと描いたプリミティブは削除され、以後の操作はErrToolDetachedになる
func (t *drawTool) Detach() error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	return t.win.detachTool(t.handle)
}

// HELPERS

// refreshIcon はアイコンを現在位置・現在の向きで引き直す1プッシュを積む
func (t *drawTool) refreshIcon(block bool) error {
	ops := []queuedOp{eraseIconOp()}
	if t.visible {
		ops = append(ops, drawIconOp(t.cursor.image(t.heading), t.pos))
	}
	return t.win.pushBatch(t.handle, ops, block)
}

// clearHistory はこのツールの描いたプリミティブを全て巻き戻す
func (t *drawTool) clearHistory() error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	ops := []queuedOp{rollbackOp(rollbackAll)}
	return t.win.pushBatch(t.handle, ops, t.speed > 0)
}

func (t *drawTool) lineSpec(from, to geom.Point2) toolkit.PrimitiveSpec {
	return toolkit.PrimitiveSpec{
		Kind:   toolkit.PrimitiveLine,
		Points: []geom.Point2{from, to},
		Stroke: t.col,
		Width:  t.width,
		Dash:   t.dash,
	}
}

// perStep は1ステップあたりの移動量
func (t *drawTool) perStep() float64 {
	return math.Pow(2, float64(t.speed-1))
}

// followLine は現在位置からtoへ段階的に移動する
// drawがtrueなら線を引き、orientがtrueなら進行方向へカーソルを向ける
// 各ステップは最後を除きブロッキングで、最後はblockに従う
func (t *drawTool) followLine(to geom.Point2, draw, orient, block bool) error {
	if err := t.ensureAttached(); err != nil {
		return err
	}

	from := t.pos
	v := to.Sub(from)
	length := v.Length()
	if orient && length > 0 {
		t.heading = headingOf(v)
	}

	// 速度0は全体を1回の非ブロッキングプッシュで積む
	if t.speed == 0 {
		ops := []queuedOp{eraseIconOp()}
		if draw && length > 0 {
			ops = append(ops, rollbackOp(0), drawOp(t.lineSpec(from, to)))
		}
		if t.visible {
			ops = append(ops, drawIconOp(t.cursor.image(t.heading), to))
		}
		t.pos = to
		return t.win.pushBatch(t.handle, ops, false)
	}

	steps := int(math.Ceil(length / t.perStep()))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		q := to
		if d := t.perStep() * float64(i+1); d < length {
			q = from.Add(v.Scale(d / length))
		}
		ops := []queuedOp{eraseIconOp()}
		if draw && length > 0 {
			count := 0
			if i > 0 {
				count = 1
			}
			// 前の部分線を巻き戻してfromから引き直す
			ops = append(ops, rollbackOp(count), drawOp(t.lineSpec(from, q)))
		}
		if t.visible {
			ops = append(ops, drawIconOp(t.cursor.image(t.heading), q))
		}
		t.pos = q
		stepBlock := block || i < steps-1
		if err := t.win.pushBatch(t.handle, ops, stepBlock); err != nil {
			return err
		}
	}
	return nil
}

// arcSpec は中心と半径から弧のプリミティブを組み立てる
func (t *drawTool) arcSpec(center geom.Point2, rx, ry, start, extent float64) toolkit.PrimitiveSpec {
	return toolkit.PrimitiveSpec{
		Kind: toolkit.PrimitiveArc,
		Left: center.X - rx, Top: center.Y + ry,
		Right: center.X + rx, Bottom: center.Y - ry,
		Start: start, Extent: extent,
		Style:  toolkit.ArcOpen,
		Stroke: t.col,
		Width:  t.width,
		Dash:   t.dash,
	}
}

// followArc は楕円弧の外周を段階的に描く。ツールの位置は変えない
// 中心角extent（度）を直線の距離と同じ式で分割してステップ数を決める
func (t *drawTool) followArc(center geom.Point2, rx, ry, start, extent float64, orient, block bool) error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	if extent == 0 {
		return nil
	}

	if t.speed == 0 {
		ops := []queuedOp{
			eraseIconOp(),
			rollbackOp(0),
			drawOp(t.arcSpec(center, rx, ry, start, extent)),
		}
		if t.visible {
			at := arcPoint(center, rx, ry, start+extent)
			ops = append(ops, drawIconOp(t.cursor.image(t.heading), at))
		}
		return t.win.pushBatch(t.handle, ops, false)
	}

	total := math.Abs(extent)
	sign := 1.0
	if extent < 0 {
		sign = -1
	}
	steps := int(math.Ceil(total / t.perStep()))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		partial := extent
		if d := t.perStep() * float64(i+1); d < total {
			partial = sign * d
		}
		if orient {
			t.heading = arcTangent(rx, ry, start, partial, extent)
		}
		count := 0
		if i > 0 {
			count = 1
		}
		ops := []queuedOp{
			eraseIconOp(),
			rollbackOp(count),
			drawOp(t.arcSpec(center, rx, ry, start, partial)),
		}
		if t.visible {
			at := arcPoint(center, rx, ry, start+partial)
			ops = append(ops, drawIconOp(t.cursor.image(t.heading), at))
		}
		stepBlock := block || i < steps-1
		if err := t.win.pushBatch(t.handle, ops, stepBlock); err != nil {
			return err
		}
	}
	return nil
}

// arcPoint は楕円上の角度angle（度）の点を返す
func arcPoint(center geom.Point2, rx, ry, angle float64) geom.Point2 {
	rad := angle * math.Pi / 180
	return geom.Pt(center.X+rx*math.Cos(rad), center.Y+ry*math.Sin(rad))
}

// arcTangent は弧上の現在角での接線方向を返す
// 楕円のパラメータ表示の微分から求め、差分近似はしない
func arcTangent(rx, ry, start, partial, extent float64) float64 {
	rad := (start + partial) * math.Pi / 180
	v := geom.Vec(-rx*math.Sin(rad), ry*math.Cos(rad))
	if extent < 0 {
		v = v.Scale(-1)
	}
	return headingOf(v)
}

// headingOf はベクトルの向きを度単位[0,360)で返す
func headingOf(v geom.Vector2) float64 {
	deg := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}
