// Package cli はコマンドライン引数と環境変数から設定を組み立てる
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	Scene      string        // 実行するシーン名
	ConfigPath string        // シーン設定YAMLのパス
	ExportPath string        // ヘッドレス実行後の書き出し先（.png / .pdf）
	Timeout    time.Duration // タイムアウト時間（0は無制限）
	LogLevel   string        // ログレベル（debug, info, warn, error）
	Headless   bool          // ヘッドレスモード
	ShowHelp   bool          // ヘルプ表示フラグ
}

// ParseArgs はコマンドライン引数を解析してConfigを返す
// フラグで指定されなかった値は環境変数 HEADLESS / TIMEOUT / LOG_LEVEL から補う
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("kame", flag.ContinueOnError)

	config := &Config{}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "タイムアウト時間（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト時間（秒）（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.StringVar(&config.Scene, "scene", "", "実行するシーン名")
	fs.StringVar(&config.ConfigPath, "config", "", "シーン設定YAMLのパス")
	fs.StringVar(&config.ExportPath, "export", "", "終了時の書き出し先（.png または .pdf）")
	fs.BoolVar(&config.Headless, "headless", false, "ヘッドレスモード")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !config.Headless {
		if headlessEnv := os.Getenv("HEADLESS"); headlessEnv != "" {
			config.Headless = headlessEnv == "1" || strings.ToLower(headlessEnv) == "true"
		}
	}
	if timeoutSec == 0 {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	// 位置引数はシーン名（-sceneフラグが優先）
	if config.Scene == "" && fs.NArg() > 0 {
		config.Scene = fs.Arg(0)
	}

	return config, nil
}

// reorderArgs は引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	boolFlags := map[string]bool{
		"-h": true, "--help": true, "-help": true,
		"-headless": true, "--headless": true,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			// 値を取るフラグなら次の引数も一緒に運ぶ（-t 5 のような場合）
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				if !boolFlags[arg] && !strings.Contains(arg, "=") {
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			positional = append(positional, arg)
		}
	}

	return append(flags, positional...)
}

// PrintHelp はヘルプメッセージを表示する
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `kame - turtle graphics playground

Usage:
  kame [options] [scene]

Arguments:
  scene    実行するシーン名（star, spiral, tree, shapes）。省略時はstar

Options:
  -t, --timeout <seconds>     指定秒数後にプログラムを終了（デフォルト: 無制限）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
      --scene <name>          実行するシーン名（位置引数より優先）
      --config <file.yaml>    シーン設定YAMLのパス
      --export <path>         終了時に描画結果を書き出す（.png または .pdf）
      --headless              ウィンドウを開かずに実行し、操作の要約を出力
  -h, --help                  このヘルプを表示

Environment:
  HEADLESS=1        ヘッドレスモードを有効化
  TIMEOUT=<sec>     タイムアウト時間（秒）
  LOG_LEVEL=<lvl>   ログレベル
`)
}
