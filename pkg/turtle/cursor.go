package turtle

import (
	"image"
	"image/color"
	"math"

	"github.com/zurustar/kame/pkg/geom"
)

// カーソル画像の一辺
const cursorSize = 32

type cursorKind int

const (
	cursorTurtle cursorKind = iota
	cursorStylus
)

// cursor はツールのカーソル画像を生成する
// 画像は2色のシルエットで、向きごとにラスタライズしてキャッシュする
type cursor struct {
	kind cursorKind
	fore color.Color
	back color.Color

	cache map[int]*image.RGBA
}

func newCursor(kind cursorKind, fore color.Color) *cursor {
	return &cursor{
		kind: kind,
		fore: fore,
		back: color.RGBA{0x20, 0x20, 0x20, 0xFF},
		cache: make(map[int]*image.RGBA),
	}
}

// setColor は前景色を変えてキャッシュを捨てる
func (c *cursor) setColor(fore color.Color) {
	c.fore = fore
	c.cache = make(map[int]*image.RGBA)
}

// image は指定の向きのカーソル画像を返す
// headingは度単位で、正のx軸から反時計回り
func (c *cursor) image(heading float64) image.Image {
	deg := int(math.Round(heading)) % 360
	if deg < 0 {
		deg += 360
	}
	if c.kind == cursorStylus {
		// スタイラスは回転しない
		deg = 0
	}
	if img, ok := c.cache[deg]; ok {
		return img
	}

	// 逆回転で基準形状の座標系へ写して含有判定する
	inv := geom.NewRotation(float64(-deg))
	img := image.NewRGBA(image.Rect(0, 0, cursorSize, cursorSize))
	half := float64(cursorSize)/2 - 0.5
	for py := 0; py < cursorSize; py++ {
		for px := 0; px < cursorSize; px++ {
			p := inv.Transform(geom.Pt(float64(px)-half, half-float64(py)))
			var col color.Color
			switch c.kind {
			case cursorTurtle:
				col = c.turtleAt(p)
			case cursorStylus:
				col = c.stylusAt(p)
			}
			if col != nil {
				img.Set(px, py, col)
			}
		}
	}
	c.cache[deg] = img
	return img
}

// turtleAt は正のx軸を向いた亀の形状の含有判定を行う
func (c *cursor) turtleAt(p geom.Point2) color.Color {
	// 頭
	if inCircle(p, 11, 0, 4) {
		return c.back
	}
	// 脚
	for _, leg := range [4][2]float64{{6, 7}, {6, -7}, {-6, 7}, {-6, -7}} {
		if inCircle(p, leg[0], leg[1], 2.5) {
			return c.back
		}
	}
	// 尾
	if p.X < -9 && p.X > -14 && math.Abs(p.Y) < (p.X+14)/2 {
		return c.back
	}
	// 甲羅
	if inEllipse(p, 0, 0, 10, 7) {
		return c.fore
	}
	return nil
}

// stylusAt はペン先を左下に向けたスタイラス形状の含有判定を行う
func (c *cursor) stylusAt(p geom.Point2) color.Color {
	// ペン先
	if inCircle(p, -9, -9, 2.5) {
		return c.back
	}
	// 軸（対角線に沿った棒）
	t := (p.X + p.Y) / 2
	d := math.Abs(p.X-p.Y) / 2
	if t > -8 && t < 11 && d < 3 {
		return c.fore
	}
	return nil
}

func inCircle(p geom.Point2, cx, cy, r float64) bool {
	dx := p.X - cx
	dy := p.Y - cy
	return dx*dx+dy*dy <= r*r
}

func inEllipse(p geom.Point2, cx, cy, rx, ry float64) bool {
	dx := (p.X - cx) / rx
	dy := (p.Y - cy) / ry
	return dx*dx+dy*dy <= 1
}
