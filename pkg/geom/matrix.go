package geom

import (
	"fmt"
	"math"
)

// Matrix は2Dアフィン変換を表す
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
//
// カーソルのラスタライズで逆変換による形状の内外判定に使用する
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity は単位行列を返す
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// NewTranslation は平行移動行列を作成する
func NewTranslation(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// NewScale は拡大縮小行列を作成する
func NewScale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// NewRotation は反時計回りdeg度の回転行列を作成する
func NewRotation(deg float64) Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// Mul は合成行列 m*n を返す（nを先に適用）
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Translate は平行移動を合成した行列を返す
func (m Matrix) Translate(tx, ty float64) Matrix {
	return NewTranslation(tx, ty).Mul(m)
}

// Scale は拡大縮小を合成した行列を返す
func (m Matrix) Scale(sx, sy float64) Matrix {
	return NewScale(sx, sy).Mul(m)
}

// Rotate は回転を合成した行列を返す
func (m Matrix) Rotate(deg float64) Matrix {
	return NewRotation(deg).Mul(m)
}

// Invert は逆行列を返す
// 行列が特異な場合はエラーを返す
func (m Matrix) Invert() (Matrix, error) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Matrix{}, fmt.Errorf("matrix is singular: %+v", m)
	}
	inv := Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, nil
}

// Transform は点を変換する
func (m Matrix) Transform(p Point2) Point2 {
	return Point2{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}
