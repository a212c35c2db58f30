package turtle

import (
	"sync"

	"github.com/zurustar/kame/pkg/toolkit"
)

// プロセス共有のレンダーコンテキスト
// 最初のOpenで生成され、最後のウィンドウが破棄されると解放される
var (
	sharedMu  sync.Mutex
	sharedCtx Context
)

// Open は共有レンダーコンテキスト上にウィンドウを作成する
// 共有コンテキストがまだ無ければ渡されたツールキットで生成する
// 既に生きている場合、tkは無視され既存のコンテキストが使われる
func Open(tk toolkit.Toolkit, opts ...WindowOption) (*Window, error) {
	sharedMu.Lock()
	if sharedCtx == nil {
		sharedCtx = NewContext(tk,
			WithOwnedToolkit(),
			withRelease(func() {
				sharedMu.Lock()
				sharedCtx = nil
				sharedMu.Unlock()
			}))
	}
	ctx := sharedCtx
	sharedMu.Unlock()
	return NewWindow(ctx, opts...)
}
