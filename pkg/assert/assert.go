// Package assert は学習者向けの簡易テストアサーションを提供する
// 標準の testing パッケージと組み合わせて使用する
package assert

import (
	"math"
	"reflect"
	"testing"
)

// Equal は want と got が等しいことを検証する
func Equal(t testing.TB, want, got any) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

// NotEqual は want と got が等しくないことを検証する
func NotEqual(t testing.TB, want, got any) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		t.Errorf("Expected values to differ, both were %v", got)
	}
}

// True は条件が真であることを検証する
func True(t testing.TB, cond bool) {
	t.Helper()
	if !cond {
		t.Error("Expected condition to be true")
	}
}

// False は条件が偽であることを検証する
func False(t testing.TB, cond bool) {
	t.Helper()
	if cond {
		t.Error("Expected condition to be false")
	}
}

// Nil は err が nil であることを検証する
// nil でない場合はテストを中断する
func Nil(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

// Error は err が nil でないことを検証する
func Error(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected an error, got nil")
	}
}

// FloatsEqual は2つの浮動小数点数が許容誤差内で等しいことを検証する
func FloatsEqual(t testing.TB, want, got, eps float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(want-got) > eps {
		t.Errorf("Expected %v (within %v), got %v", want, eps, got)
	}
}

// SlicesEqual は2つのスライスが要素ごとに等しいことを検証する
func SlicesEqual[T comparable](t testing.TB, want, got []T) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("Expected %d elements, got %d", len(want), len(got))
		return
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("Expected %v at index %d, got %v", want[i], i, got[i])
		}
	}
}
