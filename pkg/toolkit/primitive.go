package toolkit

import (
	"image"
	"image/color"

	"github.com/zurustar/kame/pkg/geom"
)

// PrimitiveKind はプリミティブの種類を表す
type PrimitiveKind int

const (
	// PrimitiveLine は折れ線（2点以上）
	PrimitiveLine PrimitiveKind = iota
	// PrimitivePolygon は閉じた多角形
	PrimitivePolygon
	// PrimitiveRect は軸平行の矩形
	PrimitiveRect
	// PrimitiveOval はバウンディングボックス内の楕円
	PrimitiveOval
	// PrimitiveArc はバウンディングボックス内の楕円弧
	PrimitiveArc
	// PrimitiveIcon はツールカーソルなどの小画像
	PrimitiveIcon
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveLine:
		return "line"
	case PrimitivePolygon:
		return "polygon"
	case PrimitiveRect:
		return "rect"
	case PrimitiveOval:
		return "oval"
	case PrimitiveArc:
		return "arc"
	case PrimitiveIcon:
		return "icon"
	default:
		return "unknown"
	}
}

// ArcStyle は楕円弧の描画スタイルを表す
type ArcStyle int

const (
	// ArcOpen は弧のみ
	ArcOpen ArcStyle = iota
	// ArcChord は弧の両端を弦で結ぶ
	ArcChord
	// ArcPieSlice は弧の両端を中心と結ぶ（扇形）
	ArcPieSlice
)

// PrimitiveSpec は描画プリミティブ1件のタグ付きバリアント
// Kind に応じて使用するフィールドが決まる。座標はすべて
// キャンバス座標（左上原点、y下向き）
type PrimitiveSpec struct {
	Kind PrimitiveKind

	// Line / Polygon
	Points []geom.Point2

	// Rect / Oval / Arc のバウンディングボックス
	Left, Top, Right, Bottom float64

	// Arc の開始角と弧の範囲（度、反時計回り）
	Start, Extent float64
	Style         ArcStyle

	// スタイル
	Stroke color.Color
	Fill   color.Color
	Width  float64
	Dash   []float64

	// Icon
	Icon image.Image
	At   geom.Point2
}

// AdjustKind はウィンドウ調整の種類を表す
type AdjustKind int

const (
	AdjustPosition AdjustKind = iota
	AdjustSize
	AdjustMinSize
	AdjustMaxSize
	AdjustTitle
	AdjustResizable
	AdjustIconify
	AdjustDeiconify
	AdjustBell
)

func (k AdjustKind) String() string {
	switch k {
	case AdjustPosition:
		return "position"
	case AdjustSize:
		return "size"
	case AdjustMinSize:
		return "minsize"
	case AdjustMaxSize:
		return "maxsize"
	case AdjustTitle:
		return "title"
	case AdjustResizable:
		return "resizable"
	case AdjustIconify:
		return "iconify"
	case AdjustDeiconify:
		return "deiconify"
	case AdjustBell:
		return "bell"
	default:
		return "unknown"
	}
}

// Adjustment はウィンドウ調整1件のタグ付きバリアント
type Adjustment struct {
	Kind          AdjustKind
	X, Y          int
	Width, Height int
	Title         string
	Resizable     bool
}

// DisplayEntry はリテインモードの表示リストの1要素
type DisplayEntry struct {
	ID   PrimitiveID
	Spec PrimitiveSpec
}
