// Package app はコマンドライン引数からシーンの実行までを束ねる
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/zurustar/kame/pkg/cli"
	"github.com/zurustar/kame/pkg/export"
	"github.com/zurustar/kame/pkg/logger"
	"github.com/zurustar/kame/pkg/toolkit"
	"github.com/zurustar/kame/pkg/turtle"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	scene  *SceneConfig
	log    *slog.Logger
}

// New Applicationを作成
func New() *Application {
	return &Application{}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started")

	// 3. シーン設定の読み込みと選択
	sceneFn, err := app.loadScene()
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}

	app.log.Info("Scene selected", "name", app.scene.Scene, "speed", app.scene.Speed, "size", app.scene.Size)

	// 4. シーンの実行
	if app.config.Headless {
		err = app.runHeadless(sceneFn)
	} else {
		err = app.runDesktop(sceneFn)
	}
	if err != nil {
		return err
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadScene シーン設定を読み込み、実行するシーンを決める
// 優先順位はコマンドライン引数、設定ファイル、デフォルトの順
func (app *Application) loadScene() (SceneFunc, error) {
	scene := DefaultSceneConfig()
	if app.config.ConfigPath != "" {
		loaded, err := LoadSceneConfig(app.config.ConfigPath)
		if err != nil {
			return nil, err
		}
		scene = loaded
	}
	if app.config.Scene != "" {
		scene.Scene = app.config.Scene
	}
	app.scene = scene
	return LookupScene(scene.Scene)
}

func (app *Application) windowOptions() []turtle.WindowOption {
	w := app.scene.Window
	return []turtle.WindowOption{
		turtle.WithPosition(w.X, w.Y),
		turtle.WithSize(w.Width, w.Height),
		turtle.WithTitle(w.Title),
	}
}

// runDesktop 仮想デスクトップ上でシーンを実行する
// シーンはゴルーチンで描き進め、メインゴルーチンは表示ループを持つ
func (app *Application) runDesktop(sceneFn SceneFunc) error {
	app.log.Info("Starting virtual desktop")

	tk := toolkit.NewDesktop(toolkit.WithDesktopLogger(app.log))
	ctx := turtle.NewContext(tk, turtle.WithContextLogger(app.log))

	runCtx := context.Background()
	var cancel context.CancelFunc
	if app.config.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, app.config.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(runCtx)
	}
	defer cancel()

	sceneErr := make(chan error, 1)
	go func() {
		win, err := turtle.NewWindow(ctx, app.windowOptions()...)
		if err != nil {
			sceneErr <- err
			cancel()
			return
		}
		if err := sceneFn(win, app.scene); err != nil {
			sceneErr <- err
			cancel()
			return
		}
		if err := app.exportWindow(win); err != nil {
			sceneErr <- err
			cancel()
			return
		}
		sceneErr <- nil
	}()

	if err := tk.Run(runCtx); err != nil {
		return fmt.Errorf("failed to run desktop: %w", err)
	}

	select {
	case err := <-sceneErr:
		if err != nil {
			return fmt.Errorf("scene failed: %w", err)
		}
	default:
		// 表示ループが先に終わった場合、シーンは途中で打ち切られる
	}
	return nil
}

// runHeadless ウィンドウを開かずにシーンを実行し、操作の要約をログに出す
func (app *Application) runHeadless(sceneFn SceneFunc) error {
	app.log.Info("Headless mode: running without display")

	tk := toolkit.NewHeadless(toolkit.WithLogger(app.log), toolkit.WithRecording(true))
	ctx := turtle.NewContext(tk, turtle.WithContextLogger(app.log), turtle.WithOwnedToolkit())

	win, err := turtle.NewWindow(ctx, app.windowOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- sceneFn(win, app.scene)
	}()

	if app.config.Timeout > 0 {
		select {
		case err = <-done:
		case <-time.After(app.config.Timeout):
			app.log.Warn("Timeout reached before scene finished", "timeout", app.config.Timeout)
			win.Dispose()
			<-done
			return fmt.Errorf("scene %q did not finish within %v", app.scene.Scene, app.config.Timeout)
		}
	} else {
		err = <-done
	}
	if err != nil {
		win.Dispose()
		return fmt.Errorf("scene failed: %w", err)
	}

	app.logSummary(tk)

	if err := app.exportWindow(win); err != nil {
		win.Dispose()
		return err
	}

	win.Dispose()
	return nil
}

// logSummary 記録された操作を種類ごとに集計してログに出す
func (app *Application) logSummary(tk *toolkit.Headless) {
	history := tk.History()
	counts := map[string]int{}
	for _, rec := range history {
		counts[rec.Op]++
	}
	app.log.Info("Headless run finished",
		"operations", len(history),
		"draws", counts["DrawPrimitive"],
		"deletes", counts["DeletePrimitive"],
		"configures", counts["ConfigureWindow"])
}

// exportWindow 書き出し先が指定されていれば描画結果を保存する
func (app *Application) exportWindow(win *turtle.Window) error {
	path := app.config.ExportPath
	if path == "" {
		return nil
	}
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		err = export.SaveWindowPNG(win, path)
	case ".pdf":
		err = export.SaveWindowPDF(win, path)
	default:
		return fmt.Errorf("unsupported export format: %q (use .png or .pdf)", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to export to %s: %w", path, err)
	}
	app.log.Info("Exported drawing", "path", path)
	return nil
}
