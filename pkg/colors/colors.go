// Package colors は教育用のカラーモデル（RGB / HSV / CMYK）と
// 名前付きカラー、Webカラー文字列の変換を提供する
//
// すべてのモデルは image/color.Color を実装しているため、
// そのままツールキットの描画プリミティブに渡せる
package colors

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// RGB は加法混色のRGBAカラーを表す
type RGB struct {
	R, G, B, A uint8
}

// HSV は色相・彩度・明度のカラーを表す
// H は [0,360) 度、S と V は [0,1]
type HSV struct {
	H, S, V float64
}

// CMYK は減法混色の印刷用カラーを表す
// 各成分は [0,100] のパーセント値
type CMYK struct {
	C, M, Y, K float64
}

// NewRGB は不透明なRGBカラーを作成する
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b, A: 255}
}

// NewRGBA はアルファ付きのRGBカラーを作成する
func NewRGBA(r, g, b, a uint8) RGB {
	return RGB{R: r, G: g, B: b, A: a}
}

// NewHSV はHSVカラーを作成する
// 成分が範囲外の場合はエラーを返す
func NewHSV(h, s, v float64) (HSV, error) {
	if h < 0 || h >= 360 {
		return HSV{}, fmt.Errorf("hue must be in [0,360): %v", h)
	}
	if s < 0 || s > 1 {
		return HSV{}, fmt.Errorf("saturation must be in [0,1]: %v", s)
	}
	if v < 0 || v > 1 {
		return HSV{}, fmt.Errorf("value must be in [0,1]: %v", v)
	}
	return HSV{H: h, S: s, V: v}, nil
}

// NewCMYK はCMYKカラーを作成する
// 成分が範囲外の場合はエラーを返す
func NewCMYK(c, m, y, k float64) (CMYK, error) {
	for _, v := range []float64{c, m, y, k} {
		if v < 0 || v > 100 {
			return CMYK{}, fmt.Errorf("CMYK component must be in [0,100]: %v", v)
		}
	}
	return CMYK{C: c, M: m, Y: y, K: k}, nil
}

// RGBA は image/color.Color を実装する
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = uint32(c.A)
	a |= a << 8
	return
}

// RGBA01 は各成分を [0,1] の float64 で返す
func (c RGB) RGBA01() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

// Hex は "#rrggbb" 形式のWebカラー文字列を返す
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("(red=%d,green=%d,blue=%d,alpha=%d)", c.R, c.G, c.B, c.A)
}

// Darken は明度を factor（0..1）だけ下げたカラーを返す
func (c RGB) Darken(factor float64) RGB {
	factor = clamp01(factor)
	return RGB{
		R: uint8(float64(c.R) * (1 - factor)),
		G: uint8(float64(c.G) * (1 - factor)),
		B: uint8(float64(c.B) * (1 - factor)),
		A: c.A,
	}
}

// Lighten は白方向に factor（0..1）だけ近づけたカラーを返す
func (c RGB) Lighten(factor float64) RGB {
	factor = clamp01(factor)
	return RGB{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}

// RGBA は image/color.Color を実装する
func (c HSV) RGBA() (r, g, b, a uint32) {
	return c.ToRGB().RGBA()
}

func (c HSV) String() string {
	return fmt.Sprintf("(hue=%v,saturation=%v,value=%v)", c.H, c.S, c.V)
}

// RGBA は image/color.Color を実装する
func (c CMYK) RGBA() (r, g, b, a uint32) {
	return c.ToRGB().RGBA()
}

func (c CMYK) String() string {
	return fmt.Sprintf("(cyan=%v,magenta=%v,yellow=%v,black=%v)", c.C, c.M, c.Y, c.K)
}

// ToHSV はRGBカラーをHSVに変換する
func (c RGB) ToHSV() HSV {
	r, g, b, _ := c.RGBA01()
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	var h float64
	switch {
	case delta == 0:
		h = 0
	case max == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case max == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max > 0 {
		s = delta / max
	}
	return HSV{H: h, S: s, V: max}
}

// ToRGB はHSVカラーをRGBに変換する（不透明）
func (c HSV) ToRGB() RGB {
	chroma := c.V * c.S
	hp := c.H / 60
	x := chroma * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = chroma, x, 0
	case hp < 2:
		r, g, b = x, chroma, 0
	case hp < 3:
		r, g, b = 0, chroma, x
	case hp < 4:
		r, g, b = 0, x, chroma
	case hp < 5:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	m := c.V - chroma
	return RGB{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

// ToRGB はCMYKカラーをRGBに変換する（不透明）
func (c CMYK) ToRGB() RGB {
	k := c.K / 100
	return RGB{
		R: uint8(math.Round(255 * (1 - c.C/100) * (1 - k))),
		G: uint8(math.Round(255 * (1 - c.M/100) * (1 - k))),
		B: uint8(math.Round(255 * (1 - c.Y/100) * (1 - k))),
		A: 255,
	}
}

// FromHex は "#rgb" または "#rrggbb" 形式のWebカラー文字列を解析する
func FromHex(s string) (RGB, error) {
	if !strings.HasPrefix(s, "#") {
		return RGB{}, fmt.Errorf("web color must start with '#': %q", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i]), 16, 8)
			if err != nil {
				return RGB{}, fmt.Errorf("invalid web color: %q", s)
			}
			out[i] = uint8(v*16 + v)
		}
		return NewRGB(out[0], out[1], out[2]), nil
	case 6:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return RGB{}, fmt.Errorf("invalid web color: %q", s)
			}
			out[i] = uint8(v)
		}
		return NewRGB(out[0], out[1], out[2]), nil
	default:
		return RGB{}, fmt.Errorf("web color must have 3 or 6 hex digits: %q", s)
	}
}

// Parse はカラー名またはWebカラー文字列を解析する
func Parse(s string) (RGB, error) {
	if strings.HasPrefix(s, "#") {
		return FromHex(s)
	}
	c, ok := ByName(s)
	if !ok {
		return RGB{}, fmt.Errorf("unknown color name: %q", s)
	}
	return c, nil
}

// Random はシード指定可能な乱数源から不透明なランダムカラーを返す
func Random(rng *rand.Rand) RGB {
	return NewRGB(uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
