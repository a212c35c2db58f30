package turtle

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zurustar/kame/pkg/toolkit"
)

// TestFollowLineStepCountProperty は移動距離と速度に対する
// 部分線のプッシュ回数が ceil(length / 2^(speed-1)) になることを確認する
func TestFollowLineStepCountProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("line draw count = ceil(length/2^(speed-1))", prop.ForAll(
		func(speed int, length int) bool {
			tk := toolkit.NewHeadless(toolkit.WithRecording(true))
			ctx := NewDirectContext(tk)
			win, err := NewWindow(ctx)
			if err != nil {
				return false
			}
			defer win.Dispose()

			tur, err := NewTurtle(win)
			if err != nil {
				return false
			}
			if err := tur.SetSpeed(speed); err != nil {
				return false
			}
			tk.ClearHistory()

			if err := tur.Forward(float64(length)); err != nil {
				return false
			}

			perstep := math.Pow(2, float64(speed-1))
			want := int(math.Ceil(float64(length) / perstep))
			return countDraws(tk, "line") == want
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 500),
	))

	properties.Property("display list keeps exactly one line per move", prop.ForAll(
		func(speed int, length int) bool {
			tk := toolkit.NewHeadless(toolkit.WithRecording(true))
			ctx := NewDirectContext(tk)
			win, err := NewWindow(ctx)
			if err != nil {
				return false
			}
			defer win.Dispose()

			tur, err := NewTurtle(win)
			if err != nil {
				return false
			}
			if err := tur.SetSpeed(speed); err != nil {
				return false
			}
			if err := tur.Forward(float64(length)); err != nil {
				return false
			}

			display, err := tk.Display(toolkit.WindowID(1))
			if err != nil {
				return false
			}
			lines := 0
			for _, e := range display {
				if e.Spec.Kind == toolkit.PrimitiveLine {
					lines++
				}
			}
			return lines == 1
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 300),
	))

	properties.Property("endpoint is exact for any speed", prop.ForAll(
		func(speed int, length int) bool {
			tk := toolkit.NewHeadless()
			ctx := NewDirectContext(tk)
			win, err := NewWindow(ctx)
			if err != nil {
				return false
			}
			defer win.Dispose()

			tur, err := NewTurtle(win)
			if err != nil {
				return false
			}
			if err := tur.SetSpeed(speed); err != nil {
				return false
			}
			if err := tur.Forward(float64(length)); err != nil {
				return false
			}
			return math.Abs(tur.X()-float64(length)) < 1e-9 && math.Abs(tur.Y()) < 1e-9
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 300),
	))

	properties.Run(gopter.ConsoleReporter(false))
}

// TestFollowArcStepCountProperty は弧の中心角に対する
// 部分弧のプッシュ回数が ceil(|extent| / 2^(speed-1)) になることを確認する
func TestFollowArcStepCountProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("arc draw count = ceil(extent/2^(speed-1))", prop.ForAll(
		func(speed int) bool {
			tk := toolkit.NewHeadless(toolkit.WithRecording(true))
			ctx := NewDirectContext(tk)
			win, err := NewWindow(ctx)
			if err != nil {
				return false
			}
			defer win.Dispose()

			pen, err := NewPen(win)
			if err != nil {
				return false
			}
			if err := pen.SetSpeed(speed); err != nil {
				return false
			}
			tk.ClearHistory()

			// 楕円のなぞり弧は中心角359度
			if err := pen.DrawOval(60, 40); err != nil {
				return false
			}

			perstep := math.Pow(2, float64(speed-1))
			want := int(math.Ceil(359 / perstep))
			return countDraws(tk, "arc") == want
		},
		gen.IntRange(1, 10),
	))

	properties.Run(gopter.ConsoleReporter(false))
}

// TestDetachedPushProperty は破棄後のあらゆる操作がErrToolDetachedになることを確認する
func TestDetachedPushProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("push after dispose always detaches", prop.ForAll(
		func(speed int, length int) bool {
			tk := toolkit.NewHeadless()
			ctx := NewDirectContext(tk)
			win, err := NewWindow(ctx)
			if err != nil {
				return false
			}
			tur, err := NewTurtle(win)
			if err != nil {
				return false
			}
			if err := tur.SetSpeed(speed); err != nil {
				return false
			}

			// 破棄前は成功する
			if err := tur.Forward(float64(length)); err != nil {
				return false
			}
			win.Dispose()
			// 破棄後は必ず切り離しエラーになる
			return tur.Forward(float64(length)) != nil
		},
		gen.IntRange(0, 10),
		gen.IntRange(1, 100),
	))

	properties.Run(gopter.ConsoleReporter(false))
}
