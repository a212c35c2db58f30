package turtle

import "errors"

// パッケージ共通のエラー定義
var (
	// ErrToolDetached はウィンドウから切り離されたツールを操作したときのエラー
	ErrToolDetached = errors.New("drawing tool is detached")

	// ErrWindowDisposed は破棄済みウィンドウを操作したときのエラー
	ErrWindowDisposed = errors.New("window is disposed")

	// ErrContextDisposed は破棄済みのレンダーコンテキストに割り当てを要求したときのエラー
	ErrContextDisposed = errors.New("render context is disposed")
)
