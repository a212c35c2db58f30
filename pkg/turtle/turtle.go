package turtle

import (
	"fmt"
	"math"

	"github.com/zurustar/kame/pkg/colors"
	"github.com/zurustar/kame/pkg/geom"
)

// Turtle は向きを持つ描画ツール
// ペンが下りている間、移動の軌跡が線として残る
type Turtle struct {
	drawTool
	drawing bool
}

// NewTurtle はウィンドウにタートルを取り付ける
// 初期状態は原点・東向き・ペン下・速度10・赤
func NewTurtle(win *Window) (*Turtle, error) {
	h, err := win.attachTool()
	if err != nil {
		return nil, fmt.Errorf("failed to attach turtle: %w", err)
	}
	col, _ := colors.ByName("red")
	t := &Turtle{
		drawTool: drawTool{
			win:     win,
			handle:  h,
			kind:    "turtle",
			title:   win.Title(),
			speed:   10,
			visible: true,
			col:     col,
			width:   1,
			cursor:  newCursor(cursorTurtle, col),
		},
		drawing: true,
	}
	if err := t.refreshIcon(true); err != nil {
		return nil, err
	}
	return t, nil
}

// DrawMode はペンが下りているかどうかを返す
func (t *Turtle) DrawMode() bool {
	return t.drawing
}

// SetDrawMode はペンの上げ下げを切り替える
func (t *Turtle) SetDrawMode(drawing bool) error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	t.drawing = drawing
	return nil
}

// Forward はタートルを現在の向きへ距離dだけ進める
// 負の距離は後退になる。ペンが下りていれば線を引く
func (t *Turtle) Forward(d float64) error {
	rad := t.heading * math.Pi / 180
	to := t.pos.Add(geom.Vec(math.Cos(rad), math.Sin(rad)).Scale(d))
	return t.followLine(to, t.drawing, false, t.speed > 0)
}

// Backward はタートルを向きを変えずに距離dだけ後退させる
func (t *Turtle) Backward(d float64) error {
	return t.Forward(-d)
}

// Left はタートルを左（反時計回り）へdeg度回す
func (t *Turtle) Left(deg float64) error {
	return t.SetHeading(t.heading + deg)
}

// Right はタートルを右（時計回り）へdeg度回す
func (t *Turtle) Right(deg float64) error {
	return t.SetHeading(t.heading - deg)
}

// SetHeading はタートルの向きを度単位で設定する
func (t *Turtle) SetHeading(deg float64) error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	t.heading = deg
	return t.refreshIcon(t.speed > 0)
}

// Move はタートルを線を引かずに(x, y)へ移動する
func (t *Turtle) Move(x, y float64) error {
	if err := t.ensureAttached(); err != nil {
		return err
	}
	t.pos = geom.Pt(x, y)
	return t.refreshIcon(t.speed > 0)
}

// Clear はこのタートルの描いた線だけを消す
// 位置や属性は変わらず、他のツールにも影響しない
func (t *Turtle) Clear() error {
	return t.clearHistory()
}

// Reset は描いた線を消し、タートルを原点と初期属性に戻す
func (t *Turtle) Reset() error {
	if err := t.clearHistory(); err != nil {
		return err
	}
	t.pos = geom.Pt(0, 0)
	t.heading = 0
	t.speed = 10
	t.visible = true
	t.drawing = true
	t.width = 1
	t.dash = nil
	col, _ := colors.ByName("red")
	t.col = col
	t.cursor.setColor(col)
	return t.refreshIcon(true)
}
