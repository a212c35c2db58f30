package app

import (
	"fmt"
	"sort"

	"github.com/zurustar/kame/pkg/colors"
	"github.com/zurustar/kame/pkg/turtle"
)

// SceneFunc はウィンドウ上でひとつのシーンを描画する
type SceneFunc func(win *turtle.Window, config *SceneConfig) error

var scenes = map[string]SceneFunc{
	"star":   sceneStar,
	"spiral": sceneSpiral,
	"tree":   sceneTree,
	"shapes": sceneShapes,
}

// SceneNames は利用可能なシーン名をソート済みで返す
func SceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupScene は名前からシーンを引く
func LookupScene(name string) (SceneFunc, error) {
	fn, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %q (available: %v)", name, SceneNames())
	}
	return fn, nil
}

func newSceneTurtle(win *turtle.Window, config *SceneConfig) (*turtle.Turtle, error) {
	tr, err := turtle.NewTurtle(win)
	if err != nil {
		return nil, err
	}
	if err := tr.SetSpeed(config.Speed); err != nil {
		return nil, err
	}
	c, err := colors.Parse(config.Color)
	if err != nil {
		return nil, err
	}
	if err := tr.SetColor(c); err != nil {
		return nil, err
	}
	return tr, nil
}

// sceneStar は五芒星を描く
func sceneStar(win *turtle.Window, config *SceneConfig) error {
	tr, err := newSceneTurtle(win, config)
	if err != nil {
		return err
	}
	if err := tr.SetDrawMode(false); err != nil {
		return err
	}
	if err := tr.Move(-config.Size/2, config.Size/3); err != nil {
		return err
	}
	if err := tr.SetDrawMode(true); err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		if err := tr.Forward(config.Size); err != nil {
			return err
		}
		if err := tr.Right(144); err != nil {
			return err
		}
	}
	return tr.Flush()
}

// sceneSpiral は角度91度の四角い渦巻きを描く
func sceneSpiral(win *turtle.Window, config *SceneConfig) error {
	tr, err := newSceneTurtle(win, config)
	if err != nil {
		return err
	}
	for d := 5.0; d <= config.Size; d += 5 {
		if err := tr.Forward(d); err != nil {
			return err
		}
		if err := tr.Right(91); err != nil {
			return err
		}
	}
	return tr.Flush()
}

// sceneTree は再帰的な二分木を描く
func sceneTree(win *turtle.Window, config *SceneConfig) error {
	tr, err := newSceneTurtle(win, config)
	if err != nil {
		return err
	}
	if err := tr.SetDrawMode(false); err != nil {
		return err
	}
	if err := tr.Move(0, -config.Size); err != nil {
		return err
	}
	if err := tr.SetDrawMode(true); err != nil {
		return err
	}
	if err := tr.SetHeading(90); err != nil {
		return err
	}

	var branch func(length float64) error
	branch = func(length float64) error {
		if length < config.Size/12 {
			return nil
		}
		if err := tr.Forward(length); err != nil {
			return err
		}
		if err := tr.Left(25); err != nil {
			return err
		}
		if err := branch(length * 0.72); err != nil {
			return err
		}
		if err := tr.Right(50); err != nil {
			return err
		}
		if err := branch(length * 0.72); err != nil {
			return err
		}
		if err := tr.Left(25); err != nil {
			return err
		}
		return tr.Backward(length)
	}
	if err := branch(config.Size * 0.8); err != nil {
		return err
	}
	return tr.Flush()
}

// sceneShapes は塗りつぶし三角形と楕円と長方形を描く
func sceneShapes(win *turtle.Window, config *SceneConfig) error {
	p, err := turtle.NewPen(win)
	if err != nil {
		return err
	}
	if err := p.SetSpeed(config.Speed); err != nil {
		return err
	}
	fill, err := colors.Parse(config.Color)
	if err != nil {
		return err
	}
	if err := p.SetFillColor(fill); err != nil {
		return err
	}

	s := config.Size

	// 塗りつぶし三角形
	if err := p.Move(-s, -s/3); err != nil {
		return err
	}
	if err := p.SetSolid(true); err != nil {
		return err
	}
	if err := p.DrawLine(s/2, s*2/3); err != nil {
		return err
	}
	if err := p.DrawLine(s/2, -s*2/3); err != nil {
		return err
	}
	if err := p.DrawTo(-s, -s/3); err != nil {
		return err
	}
	if err := p.SetSolid(false); err != nil {
		return err
	}

	// 楕円
	if err := p.Move(s/2, s/3); err != nil {
		return err
	}
	if err := p.DrawOval(s/3, s/5); err != nil {
		return err
	}

	// 長方形
	if err := p.Move(s/4, -s/2); err != nil {
		return err
	}
	if err := p.DrawRectangle(s/2, s/4); err != nil {
		return err
	}
	return p.Flush()
}
