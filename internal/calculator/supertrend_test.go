package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

func bar(i int, c, h, l float64) model.OHLCV {
	return model.OHLCV{
		Time:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		Open:  c,
		High:  h,
		Low:   l,
		Close: c,
	}
}

// rallyThenDrop: six bars rising by 1 with a 2-point range, then a gap down.
func rallyThenDrop() []model.OHLCV {
	var bars []model.OHLCV
	for i := 0; i < 6; i++ {
		c := 100 + float64(i)
		bars = append(bars, bar(i, c, c+1, c-1))
	}
	bars = append(bars, bar(6, 90, 91, 89))
	bars = append(bars, bar(7, 89, 90, 88))
	return bars
}

func TestSupertrendNames(t *testing.T) {
	tests := []struct {
		length int
		mult   float64
		want   string
	}{
		{10, 3.0, "SUPERTd_10_3.0"},
		{7, 2.5, "SUPERTd_7_2.5"},
		{14, 1.75, "SUPERTd_14_1.75"},
	}
	for _, tt := range tests {
		if got := SupertrendNames(tt.length, tt.mult).Direction; got != tt.want {
			t.Errorf("SupertrendNames(%d, %v) = %q, want %q", tt.length, tt.mult, got, tt.want)
		}
	}
	if got := SupertrendNames(10, 3).Trend; got != "SUPERT_10_3.0" {
		t.Errorf("unexpected trend column %q", got)
	}
}

func TestSupertrend_InvalidInput(t *testing.T) {
	bars := rallyThenDrop()
	if _, err := Supertrend(bars, 0, 3); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("length 0: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Supertrend(bars, 10, -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative multiplier: expected ErrInvalidInput, got %v", err)
	}
	bad := append([]model.OHLCV(nil), bars...)
	bad[3].Close = math.NaN()
	if _, err := Supertrend(bad, 2, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NaN close: expected ErrInvalidInput, got %v", err)
	}
}

func TestSupertrend_TooShortIsAllUndefined(t *testing.T) {
	bars := rallyThenDrop()[:3]
	frame, err := Supertrend(bars, 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := SupertrendNames(3, 3)
	dir, ok := frame.Column(names.Direction)
	if !ok {
		t.Fatal("direction column missing")
	}
	for i, v := range dir {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN, got %v", i, v)
		}
	}
	if len(frame.Time) != len(bars) {
		t.Errorf("frame index has %d entries, want %d", len(frame.Time), len(bars))
	}
}

func TestSupertrend_WarmupAndFlip(t *testing.T) {
	frame, err := Supertrend(rallyThenDrop(), 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := SupertrendNames(2, 1)
	dir, _ := frame.Column(names.Direction)
	line, _ := frame.Column(names.Trend)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(dir[i]) || !math.IsNaN(line[i]) {
			t.Errorf("index %d should be warm-up NaN, got dir=%v line=%v", i, dir[i], line[i])
		}
	}
	want := []float64{1, 1, 1, 1, -1, -1}
	for i, w := range want {
		if dir[i+2] != w {
			t.Errorf("dir[%d] = %v, want %v", i+2, dir[i+2], w)
		}
	}

	// ATR is 2 through the rally, so the long band trails close by 2
	if got := line[5]; math.Abs(got-103) > 1e-9 {
		t.Errorf("line[5] = %v, want 103", got)
	}
	// gap bar: TR 16, ATR (2+16)/2 = 9, short band 90+9
	if got := line[6]; math.Abs(got-99) > 1e-9 {
		t.Errorf("line[6] = %v, want 99", got)
	}
	// next bar: ATR (9+2)/2 = 5.5, upper 94.5 stays below the prior band
	if got := line[7]; math.Abs(got-94.5) > 1e-9 {
		t.Errorf("line[7] = %v, want 94.5", got)
	}

	long, _ := frame.Column(names.Long)
	short, _ := frame.Column(names.Short)
	if math.IsNaN(long[5]) || !math.IsNaN(short[5]) {
		t.Errorf("bullish bar should only fill the long band")
	}
	if !math.IsNaN(long[6]) || math.IsNaN(short[6]) {
		t.Errorf("bearish bar should only fill the short band")
	}
}

func TestSupertrend_LowerBandRatchets(t *testing.T) {
	// a pullback inside the band must not drag the long band down
	bars := rallyThenDrop()[:6]
	bars = append(bars, bar(6, 104.5, 105.5, 103.5))
	frame, err := Supertrend(bars, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := SupertrendNames(2, 1)
	dir, _ := frame.Column(names.Direction)
	line, _ := frame.Column(names.Trend)
	if dir[6] != 1 {
		t.Fatalf("expected bullish carry, got %v", dir[6])
	}
	if line[6] < line[5] {
		t.Errorf("long band fell from %v to %v", line[5], line[6])
	}
}

func TestCalculateRange(t *testing.T) {
	r, err := CalculateRange(rallyThenDrop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.High != 106 || r.Low != 88 || r.Last != 89 {
		t.Errorf("unexpected range %+v", r)
	}
	if math.Abs(r.Position-1.0/18) > 1e-9 {
		t.Errorf("position = %v, want %v", r.Position, 1.0/18)
	}
	if _, err := CalculateRange(nil); err == nil {
		t.Error("expected error for empty bars")
	}
}
