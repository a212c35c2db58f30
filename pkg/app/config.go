package app

import (
	"fmt"

	"github.com/zurustar/kame/pkg/colors"
	"github.com/zurustar/kame/pkg/fileutil"
)

// SceneConfig はシーン実行のパラメータを保持する
// YAMLファイルから読み込むか、デフォルト値で構築する
type SceneConfig struct {
	Scene  string       `yaml:"scene"`
	Window WindowConfig `yaml:"window"`
	Speed  int          `yaml:"speed"`
	Color  string       `yaml:"color"`
	Size   float64      `yaml:"size"`
}

// WindowConfig はウィンドウの初期状態を指定する
type WindowConfig struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// DefaultSceneConfig はデフォルトのシーン設定を返す
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Scene: "star",
		Window: WindowConfig{
			X:      50,
			Y:      50,
			Width:  500,
			Height: 500,
			Title:  "kame",
		},
		Speed: 8,
		Color: "red",
		Size:  150,
	}
}

// LoadSceneConfig はYAMLファイルからシーン設定を読み込む
// ファイルに書かれていない項目はデフォルト値のまま残る
func LoadSceneConfig(path string) (*SceneConfig, error) {
	config := DefaultSceneConfig()
	if err := fileutil.ReadYAML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load scene config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate は設定値の範囲を検証する
func (c *SceneConfig) Validate() error {
	if c.Speed < 0 || c.Speed > 10 {
		return fmt.Errorf("speed must be in 0..10: %d", c.Speed)
	}
	if c.Size <= 0 {
		return fmt.Errorf("size must be positive: %v", c.Size)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive: %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.X < 0 || c.Window.Y < 0 {
		return fmt.Errorf("window position must be non-negative: (%d, %d)", c.Window.X, c.Window.Y)
	}
	if _, err := colors.Parse(c.Color); err != nil {
		return fmt.Errorf("invalid color %q: %w", c.Color, err)
	}
	return nil
}
