package turtle

import (
	"fmt"
	"image/color"

	"github.com/zurustar/kame/pkg/colors"
	"github.com/zurustar/kame/pkg/geom"
	"github.com/zurustar/kame/pkg/toolkit"
)

// Pen は向きを持たない描画ツール
// 線分・楕円・矩形を描き、ソリッドモードでは多角形の塗りつぶしを行う
type Pen struct {
	drawTool
	solid bool
	fill  color.Color
	shist []geom.Point2
}

// NewPen はウィンドウにペンを取り付ける
// 初期状態は原点・速度10・縁が黒・塗りが赤
func NewPen(win *Window) (*Pen, error) {
	h, err := win.attachTool()
	if err != nil {
		return nil, fmt.Errorf("failed to attach pen: %w", err)
	}
	edge, _ := colors.ByName("black")
	fill, _ := colors.ByName("red")
	p := &Pen{
		drawTool: drawTool{
			win:     win,
			handle:  h,
			kind:    "pen",
			title:   win.Title(),
			speed:   10,
			visible: true,
			col:     edge,
			width:   1,
			cursor:  newCursor(cursorStylus, edge),
		},
		fill: fill,
	}
	if err := p.refreshIcon(true); err != nil {
		return nil, err
	}
	return p, nil
}

// Solid はソリッドモードかどうかを返す
func (p *Pen) Solid() bool {
	return p.solid
}

// SetSolid はソリッドモードを切り替える
// trueで塗りつぶしの頂点記録を始め、falseで閉じて塗りつぶしを確定する
func (p *Pen) SetSolid(v bool) error {
	if err := p.ensureAttached(); err != nil {
		return err
	}
	if p.solid == v {
		return nil
	}
	if v {
		p.beginFill()
		return nil
	}
	return p.endFill()
}

// EdgeColor は縁の色を返す
func (p *Pen) EdgeColor() color.Color {
	return p.col
}

// SetEdgeColor は縁の色を設定する。ソリッドモード中は変更できない
func (p *Pen) SetEdgeColor(c color.Color) error {
	if p.solid {
		return fmt.Errorf("cannot change edge color during a fill")
	}
	return p.SetColor(c)
}

// FillColor は塗りつぶしの色を返す
func (p *Pen) FillColor() color.Color {
	return p.fill
}

// SetFillColor は塗りつぶしの色を設定する。ソリッドモード中は変更できない
func (p *Pen) SetFillColor(c color.Color) error {
	if p.solid {
		return fmt.Errorf("cannot change fill color during a fill")
	}
	if err := p.ensureAttached(); err != nil {
		return err
	}
	p.fill = c
	return nil
}

// Move はペンを線を引かずに(x, y)へ移動する
// ソリッドモード中は塗りつぶしを確定してから移動し、移動先で記録を再開する
func (p *Pen) Move(x, y float64) error {
	if err := p.ensureAttached(); err != nil {
		return err
	}
	wasSolid := p.solid
	if wasSolid {
		if err := p.endFill(); err != nil {
			return err
		}
	}
	p.pos = geom.Pt(x, y)
	if wasSolid {
		p.beginFill()
	}
	return p.refreshIcon(p.speed > 0)
}

// DrawLine は現在位置から(dx, dy)だけ相対に線を引く
func (p *Pen) DrawLine(dx, dy float64) error {
	return p.DrawTo(p.pos.X+dx, p.pos.Y+dy)
}

// DrawTo は現在位置から(x, y)へ線を引く
func (p *Pen) DrawTo(x, y float64) error {
	to := geom.Pt(x, y)
	if p.solid {
		p.shist = append(p.shist, to)
	}
	return p.followLine(to, true, false, p.speed > 0)
}

// DrawOval は現在位置を中心に半径(rx, ry)の楕円を描く
// 外周を弧としてアニメーションし、完了後に楕円プリミティブ1件へ置き換える
// ソリッドモードなら内部を塗りつぶす。ペンの位置は変わらない
func (p *Pen) DrawOval(rx, ry float64) error {
	if rx <= 0 || ry <= 0 {
		return fmt.Errorf("oval radii must be positive: (%g, %g)", rx, ry)
	}
	if err := p.ensureAttached(); err != nil {
		return err
	}
	wasSolid := p.solid
	if wasSolid {
		if err := p.endFill(); err != nil {
			return err
		}
	}

	if err := p.followArc(p.pos, rx, ry, 0, 359, false, p.speed > 0); err != nil {
		return err
	}
	spec := toolkit.PrimitiveSpec{
		Kind: toolkit.PrimitiveOval,
		Left: p.pos.X - rx, Top: p.pos.Y + ry,
		Right: p.pos.X + rx, Bottom: p.pos.Y - ry,
		Stroke: p.col,
		Width:  p.width,
		Dash:   p.dash,
	}
	if wasSolid {
		spec.Fill = p.fill
	}
	ops := []queuedOp{eraseIconOp(), rollbackOp(1), drawOp(spec)}
	if p.visible {
		ops = append(ops, drawIconOp(p.cursor.image(0), p.pos))
	}
	if err := p.win.pushBatch(p.handle, ops, p.speed > 0); err != nil {
		return err
	}

	if wasSolid {
		p.beginFill()
	}
	return nil
}

// DrawRectangle は現在位置を左下の角として幅w・高さhの矩形を描く
// 四隅を線でなぞってから矩形プリミティブ1件へ置き換える
// ソリッドモードなら内部を塗りつぶす。ペンの位置は変わらない
func (p *Pen) DrawRectangle(w, h float64) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("rectangle size must be positive: %gx%g", w, h)
	}
	if err := p.ensureAttached(); err != nil {
		return err
	}
	wasSolid := p.solid
	if wasSolid {
		if err := p.endFill(); err != nil {
			return err
		}
	}

	origin := p.pos
	corners := []geom.Point2{
		geom.Pt(origin.X+w, origin.Y),
		geom.Pt(origin.X+w, origin.Y+h),
		geom.Pt(origin.X, origin.Y+h),
		origin,
	}
	for _, c := range corners {
		if err := p.followLine(c, true, false, true); err != nil {
			return err
		}
	}

	spec := toolkit.PrimitiveSpec{
		Kind: toolkit.PrimitiveRect,
		Left: origin.X, Top: origin.Y + h,
		Right: origin.X + w, Bottom: origin.Y,
		Stroke: p.col,
		Width:  p.width,
		Dash:   p.dash,
	}
	if wasSolid {
		spec.Fill = p.fill
	}
	ops := []queuedOp{eraseIconOp(), rollbackOp(len(corners)), drawOp(spec)}
	if p.visible {
		ops = append(ops, drawIconOp(p.cursor.image(0), origin))
	}
	if err := p.win.pushBatch(p.handle, ops, p.speed > 0); err != nil {
		return err
	}

	if wasSolid {
		p.beginFill()
	}
	return nil
}

// Clear はこのペンの描いたものだけを消す
func (p *Pen) Clear() error {
	p.shist = nil
	p.solid = false
	return p.clearHistory()
}

// Reset は描いたものを消し、ペンを原点と初期属性に戻す
func (p *Pen) Reset() error {
	if err := p.Clear(); err != nil {
		return err
	}
	p.pos = geom.Pt(0, 0)
	p.speed = 10
	p.visible = true
	p.width = 1
	p.dash = nil
	edge, _ := colors.ByName("black")
	fill, _ := colors.ByName("red")
	p.col = edge
	p.fill = fill
	p.cursor.setColor(edge)
	return p.refreshIcon(true)
}

// beginFill は現在位置から塗りつぶしの頂点記録を始める
func (p *Pen) beginFill() {
	p.solid = true
	p.shist = []geom.Point2{p.pos}
}

// endFill は記録された頂点で塗りつぶしを確定する
// 記録中に引いた縁の線を巻き戻し、多角形と輪郭線に置き換える
func (p *Pen) endFill() error {
	verts := p.shist
	p.shist = nil
	p.solid = false
	if len(verts) <= 2 {
		return nil
	}

	ops := []queuedOp{
		eraseIconOp(),
		rollbackOp(len(verts) - 1),
		drawOp(toolkit.PrimitiveSpec{
			Kind:   toolkit.PrimitivePolygon,
			Points: verts,
			Fill:   p.fill,
		}),
		drawOp(toolkit.PrimitiveSpec{
			Kind:   toolkit.PrimitiveLine,
			Points: verts,
			Stroke: p.col,
			Width:  p.width,
			Dash:   p.dash,
		}),
	}
	if p.visible {
		ops = append(ops, drawIconOp(p.cursor.image(0), p.pos))
	}
	return p.win.pushBatch(p.handle, ops, p.speed > 0)
}
