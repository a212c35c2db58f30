// Package geom は描画ツールとカーソルが使用する2Dジオメトリヘルパーを提供する
package geom

import "math"

// Point2 は2次元の点を表す
type Point2 struct {
	X, Y float64
}

// Vector2 は2次元のベクトルを表す
type Vector2 struct {
	X, Y float64
}

// Pt は Point2 を作成する
func Pt(x, y float64) Point2 {
	return Point2{X: x, Y: y}
}

// Vec は Vector2 を作成する
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add は点にベクトルを加算した点を返す
func (p Point2) Add(v Vector2) Point2 {
	return Point2{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub は2点の差ベクトルを返す
func (p Point2) Sub(q Point2) Vector2 {
	return Vector2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance は2点間の距離を返す
func (p Point2) Distance(q Point2) float64 {
	return p.Sub(q).Length()
}

// Add はベクトル同士を加算する
func (v Vector2) Add(w Vector2) Vector2 {
	return Vector2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub はベクトル同士を減算する
func (v Vector2) Sub(w Vector2) Vector2 {
	return Vector2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Scale はベクトルをスカラー倍する
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Dot は内積を返す
func (v Vector2) Dot(w Vector2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross は2Dベクトルの外積（z成分）を返す
func (v Vector2) Cross(w Vector2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length はベクトルの長さを返す
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize は単位ベクトルを返す
// ゼロベクトルの場合はゼロベクトルをそのまま返す
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// Angle は2つのベクトルのなす角をラジアンで返す（0..π）
func (v Vector2) Angle(w Vector2) float64 {
	lv := v.Length()
	lw := w.Length()
	if lv == 0 || lw == 0 {
		return 0
	}
	cos := v.Dot(w) / (lv * lw)
	// 丸め誤差でacosの定義域を外れることがある
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// Rotate はベクトルを反時計回りにangleラジアン回転する
func (v Vector2) Rotate(angle float64) Vector2 {
	sin, cos := math.Sincos(angle)
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}
