package progress

import (
	"math"
	"sync"
	"testing"
)

func TestScroll(t *testing.T) {
	tests := []struct {
		name    string
		deltas  []float64
		want    float64
		changed bool // result of the last call
	}{
		{"one notch", []float64{100}, 0.06, true},
		{"clamps high", []float64{1000, 1000}, 1, true},
		{"stays at one", []float64{2000, 500}, 1, false},
		{"clamps low", []float64{-500}, 0, false},
		{"back and forth", []float64{500, -200}, 0.18, true},
		{"nan ignored", []float64{100, math.NaN()}, 0.06, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(DefaultSensitivity)
			var got float64
			var changed bool
			for _, d := range tt.deltas {
				got, changed = a.Scroll(d)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if a.Value() != got {
				t.Errorf("Value() = %v, want %v", a.Value(), got)
			}
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{-1, 0},
		{3, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		a := New(0)
		if got, _ := a.Set(tt.in); got != tt.want {
			t.Errorf("Set(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResetAndTouched(t *testing.T) {
	a := New(0.01)
	if a.Touched() {
		t.Fatal("fresh accumulator is touched")
	}
	a.Scroll(-10)
	if a.Touched() {
		t.Error("clamped no-op scroll marked touched")
	}
	a.Scroll(10)
	if !a.Touched() || math.Abs(a.Value()-0.1) > 1e-12 {
		t.Errorf("after scroll: touched=%v value=%v", a.Touched(), a.Value())
	}
	a.Reset()
	if a.Touched() || a.Value() != 0 {
		t.Errorf("after reset: touched=%v value=%v", a.Touched(), a.Value())
	}
}

func TestDefaultSensitivity(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := New(s).Sensitivity(); got != DefaultSensitivity {
			t.Errorf("New(%v).Sensitivity() = %v, want default", s, got)
		}
	}
}

func TestConcurrentScroll(t *testing.T) {
	a := New(0.001)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				a.Scroll(1)
			}
		}()
	}
	wg.Wait()
	if got := a.Value(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("got %v after 500 concurrent notches, want 0.5", got)
	}
}
