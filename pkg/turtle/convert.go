package turtle

import (
	"github.com/zurustar/kame/pkg/geom"
	"github.com/zurustar/kame/pkg/toolkit"
)

// converter はツール座標系（原点がキャンバス中央、y軸上向き）から
// キャンバス座標系（原点が左上、y軸下向き）への変換を行う
type converter struct {
	width  float64
	height float64
}

func (c converter) x(v float64) float64 {
	return v + c.width/2
}

func (c converter) y(v float64) float64 {
	return c.height/2 - v
}

func (c converter) point(p geom.Point2) geom.Point2 {
	return geom.Pt(c.x(p.X), c.y(p.Y))
}

// spec はプリミティブの座標フィールドをキャンバス座標系へ変換する
// 角度は両座標系で同じ値が同じ見た目になるためそのまま通す
func (c converter) spec(spec toolkit.PrimitiveSpec) toolkit.PrimitiveSpec {
	if len(spec.Points) > 0 {
		pts := make([]geom.Point2, len(spec.Points))
		for i, p := range spec.Points {
			pts[i] = c.point(p)
		}
		spec.Points = pts
	}
	// ツール座標系ではTopがBottomより大きい
	spec.Left = c.x(spec.Left)
	spec.Right = c.x(spec.Right)
	spec.Top, spec.Bottom = c.y(spec.Top), c.y(spec.Bottom)
	spec.At = c.point(spec.At)
	return spec
}
