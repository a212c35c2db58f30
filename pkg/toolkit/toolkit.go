// Package toolkit はタートルグラフィックスの描画コーディネーターが消費する
// ツールキットバインディングを定義する
//
// Toolkit インターフェースはプリミティブ描画・ウィンドウ生成破棄・
// ランループの抽象化だけを公開し、上位の pkg/turtle はこのインターフェース
// 越しにのみツールキットへ触れる。実装はデスクトップ版（ebiten）と
// ヘッドレス版（記録のみ）の2つ
package toolkit

import (
	"errors"
	"image"
	"time"
)

// WindowID はツールキットレベルのウィンドウ識別子
type WindowID int

// PrimitiveID は描画済みプリミティブの識別子
// 履歴のロールバックで削除対象を指すために使用する
type PrimitiveID int

// LoopAffinity はランループがどのスレッドを要求するかを表す
type LoopAffinity int

const (
	// LoopAny ランループは任意のゴルーチンで駆動できる（ワーカー方式）
	LoopAny LoopAffinity = iota
	// LoopMain ランループは生成スレッド上で同期的に駆動する必要がある
	LoopMain
)

func (a LoopAffinity) String() string {
	if a == LoopMain {
		return "main"
	}
	return "any"
}

// WindowSpec はウィンドウ生成時の指定を表す
type WindowSpec struct {
	X, Y          int
	Width, Height int
	Title         string
	Resizable     bool
}

var (
	// ErrWindowNotFound は存在しないウィンドウIDを指定した場合のエラー
	ErrWindowNotFound = errors.New("toolkit: window not found")

	// ErrPrimitiveNotFound は存在しないプリミティブIDを指定した場合のエラー
	ErrPrimitiveNotFound = errors.New("toolkit: primitive not found")

	// ErrToolkitClosed はClose済みのツールキットを操作した場合のエラー
	ErrToolkitClosed = errors.New("toolkit: already closed")
)

// Toolkit はプラットフォームのウィンドウツールキットに対する
// コーディネーターの唯一の接点
//
// DrawPrimitive / DeletePrimitive / ConfigureWindow はどのゴルーチンから
// 呼んでもよい（実装側で直列化する）。Tick はランループの1反復を実行する
type Toolkit interface {
	// CreateWindow はウィンドウを作成してIDを返す
	CreateWindow(spec WindowSpec) (WindowID, error)
	// DestroyWindow はウィンドウとその描画内容を破棄する
	DestroyWindow(id WindowID) error
	// ConfigureWindow はウィンドウ調整（位置・サイズ・タイトルなど）を適用する
	ConfigureWindow(id WindowID, adj Adjustment) error
	// ClearCanvas はウィンドウの描画内容をすべて消去する
	ClearCanvas(id WindowID) error
	// DrawPrimitive はプリミティブを描画して、その参照IDを返す
	DrawPrimitive(id WindowID, spec PrimitiveSpec) (PrimitiveID, error)
	// DeletePrimitive は描画済みプリミティブを削除する
	DeletePrimitive(id WindowID, pid PrimitiveID) error
	// Snapshot はウィンドウの現在の描画内容をラスタライズして返す
	Snapshot(id WindowID) (image.Image, error)
	// Tick はランループの1反復を実行する
	Tick() error
	// Schedule は遅延dの後にfnを実行するようランループへ依頼する
	Schedule(d time.Duration, fn func())
	// LoopAffinity はランループのスレッド要求を返す（起動時のプローブ入力）
	LoopAffinity() LoopAffinity
	// Close はツールキット全体を終了する
	Close() error
}
