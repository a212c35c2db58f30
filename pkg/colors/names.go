package colors

import (
	"sort"
	"strings"
)

// 教育用途でよく使われるCSS基本色＋拡張色のテーブル
var named = map[string]RGB{
	"aqua":      {0x00, 0xFF, 0xFF, 0xFF},
	"black":     {0x00, 0x00, 0x00, 0xFF},
	"blue":      {0x00, 0x00, 0xFF, 0xFF},
	"brown":     {0xA5, 0x2A, 0x2A, 0xFF},
	"coral":     {0xFF, 0x7F, 0x50, 0xFF},
	"crimson":   {0xDC, 0x14, 0x3C, 0xFF},
	"cyan":      {0x00, 0xFF, 0xFF, 0xFF},
	"darkblue":  {0x00, 0x00, 0x8B, 0xFF},
	"darkgray":  {0xA9, 0xA9, 0xA9, 0xFF},
	"darkgreen": {0x00, 0x64, 0x00, 0xFF},
	"darkred":   {0x8B, 0x00, 0x00, 0xFF},
	"fuchsia":   {0xFF, 0x00, 0xFF, 0xFF},
	"gold":      {0xFF, 0xD7, 0x00, 0xFF},
	"gray":      {0x80, 0x80, 0x80, 0xFF},
	"green":     {0x00, 0x80, 0x00, 0xFF},
	"indigo":    {0x4B, 0x00, 0x82, 0xFF},
	"ivory":     {0xFF, 0xFF, 0xF0, 0xFF},
	"khaki":     {0xF0, 0xE6, 0x8C, 0xFF},
	"lavender":  {0xE6, 0xE6, 0xFA, 0xFF},
	"lime":      {0x00, 0xFF, 0x00, 0xFF},
	"magenta":   {0xFF, 0x00, 0xFF, 0xFF},
	"maroon":    {0x80, 0x00, 0x00, 0xFF},
	"navy":      {0x00, 0x00, 0x80, 0xFF},
	"olive":     {0x80, 0x80, 0x00, 0xFF},
	"orange":    {0xFF, 0xA5, 0x00, 0xFF},
	"orchid":    {0xDA, 0x70, 0xD6, 0xFF},
	"pink":      {0xFF, 0xC0, 0xCB, 0xFF},
	"plum":      {0xDD, 0xA0, 0xDD, 0xFF},
	"purple":    {0x80, 0x00, 0x80, 0xFF},
	"red":       {0xFF, 0x00, 0x00, 0xFF},
	"salmon":    {0xFA, 0x80, 0x72, 0xFF},
	"silver":    {0xC0, 0xC0, 0xC0, 0xFF},
	"skyblue":   {0x87, 0xCE, 0xEB, 0xFF},
	"tan":       {0xD2, 0xB4, 0x8C, 0xFF},
	"teal":      {0x00, 0x80, 0x80, 0xFF},
	"tomato":    {0xFF, 0x63, 0x47, 0xFF},
	"turquoise": {0x40, 0xE0, 0xD0, 0xFF},
	"violet":    {0xEE, 0x82, 0xEE, 0xFF},
	"white":     {0xFF, 0xFF, 0xFF, 0xFF},
	"yellow":    {0xFF, 0xFF, 0x00, 0xFF},
}

// ByName はカラー名を検索する（大文字小文字を無視）
func ByName(name string) (RGB, bool) {
	c, ok := named[strings.ToLower(name)]
	return c, ok
}

// IsName は有効なカラー名かどうかを返す
func IsName(name string) bool {
	_, ok := named[strings.ToLower(name)]
	return ok
}

// Names は登録されているカラー名の一覧をソート順で返す
func Names() []string {
	out := make([]string, 0, len(named))
	for name := range named {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
