package turtle

import (
	"image"

	"github.com/google/uuid"

	"github.com/zurustar/kame/pkg/geom"
	"github.com/zurustar/kame/pkg/toolkit"
)

// WindowHandle はコンテキストがウィンドウに割り当てる識別子
type WindowHandle int

// ToolHandle は描画ツールのプロセス内で一意な識別子
type ToolHandle uuid.UUID

func newToolHandle() ToolHandle {
	return ToolHandle(uuid.New())
}

// opKind はコマンドキューに積まれる操作の種別
type opKind int

const (
	// opIconErase はツールアイコンの消去
	opIconErase opKind = iota
	// opRollback は履歴末尾からのプリミティブ削除
	opRollback
	// opDraw はプリミティブの描画
	opDraw
	// opIconDraw はツールアイコンの再描画
	opIconDraw
	// opDetach はツール1つの登録解除と描画物の後片付け
	opDetach
)

// String は操作種別の文字列表現を返す
func (k opKind) String() string {
	switch k {
	case opIconErase:
		return "icon-erase"
	case opRollback:
		return "rollback"
	case opDraw:
		return "draw"
	case opIconDraw:
		return "icon-draw"
	case opDetach:
		return "detach"
	default:
		return "unknown"
	}
}

// rollbackAll は履歴全体のロールバックを表す個数
const rollbackAll = -1

// queuedOp はコマンドキューの1操作
// 座標はキュー投入時にウィンドウがキャンバス座標系へ変換済み
type queuedOp struct {
	kind  opKind
	tool  ToolHandle
	count int                   // opRollback: 削除する個数（rollbackAllで全履歴）
	spec  toolkit.PrimitiveSpec // opDraw
	icon  image.Image           // opIconDraw
	at    geom.Point2           // opIconDraw: アイコン中心
}

func eraseIconOp() queuedOp {
	return queuedOp{kind: opIconErase}
}

func rollbackOp(count int) queuedOp {
	return queuedOp{kind: opRollback, count: count}
}

func drawOp(spec toolkit.PrimitiveSpec) queuedOp {
	return queuedOp{kind: opDraw, spec: spec}
}

func drawIconOp(icon image.Image, at geom.Point2) queuedOp {
	return queuedOp{kind: opIconDraw, icon: icon, at: at}
}

func detachOp() queuedOp {
	return queuedOp{kind: opDetach}
}
