package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/markcheno/go-talib"

	"TrendSentinel/internal/model"
)

// ErrInvalidInput is returned for parameters or bars the indicator cannot use.
var ErrInvalidInput = errors.New("invalid indicator input")

// SupertrendColumns names the frame columns for a parameter pair.
type SupertrendColumns struct {
	Trend     string // trend line
	Direction string // +1 / -1
	Long      string // lower band while bullish
	Short     string // upper band while bearish
}

// SupertrendNames returns the column names used by Supertrend for length and multiplier,
// e.g. SUPERT_10_3.0 and SUPERTd_10_3.0.
func SupertrendNames(length int, multiplier float64) SupertrendColumns {
	suffix := fmt.Sprintf("_%d_%s", length, FormatMultiplier(multiplier))
	return SupertrendColumns{
		Trend:     "SUPERT" + suffix,
		Direction: "SUPERTd" + suffix,
		Long:      "SUPERTl" + suffix,
		Short:     "SUPERTs" + suffix,
	}
}

// FormatMultiplier prints a multiplier the way column names and file names carry it, keeping one decimal for whole numbers (3 -> "3.0").
func FormatMultiplier(m float64) string {
	if m == math.Trunc(m) {
		return strconv.FormatFloat(m, 'f', 1, 64)
	}
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// Supertrend computes the ATR-banded trend line and its direction.
// Bars before index length have no ATR yet and are NaN in every column.
// A series of length bars or fewer yields an all-NaN frame.
func Supertrend(bars []model.OHLCV, length int, multiplier float64) (*model.IndicatorFrame, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", ErrInvalidInput, length)
	}
	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		return nil, fmt.Errorf("%w: multiplier must be positive, got %v", ErrInvalidInput, multiplier)
	}
	if err := checkBars(bars); err != nil {
		return nil, err
	}

	frame := model.NewIndicatorFrame(extractTimes(bars))
	names := SupertrendNames(length, multiplier)

	trend := frame.NaNColumn()
	dir := frame.NaNColumn()
	long := frame.NaNColumn()
	short := frame.NaNColumn()
	frame.Columns[names.Trend] = trend
	frame.Columns[names.Direction] = dir
	frame.Columns[names.Long] = long
	frame.Columns[names.Short] = short

	n := len(bars)
	if n <= length {
		return frame, nil
	}

	highs, lows, closes := extractHLC(bars)
	atr := talib.Atr(highs, lows, closes, length)

	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := length; i < n; i++ {
		hl2 := (highs[i] + lows[i]) / 2
		upper[i] = hl2 + multiplier*atr[i]
		lower[i] = hl2 - multiplier*atr[i]
	}

	dir[length] = 1
	for i := length + 1; i < n; i++ {
		switch {
		case closes[i] > upper[i-1]:
			dir[i] = 1
		case closes[i] < lower[i-1]:
			dir[i] = -1
		default:
			dir[i] = dir[i-1]
			if dir[i] > 0 && lower[i] < lower[i-1] {
				lower[i] = lower[i-1]
			}
			if dir[i] < 0 && upper[i] > upper[i-1] {
				upper[i] = upper[i-1]
			}
		}
	}

	for i := length; i < n; i++ {
		if dir[i] > 0 {
			trend[i] = lower[i]
			long[i] = lower[i]
		} else {
			trend[i] = upper[i]
			short[i] = upper[i]
		}
	}
	return frame, nil
}

func checkBars(bars []model.OHLCV) error {
	for i, b := range bars {
		for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: bar %d (%s) has non-finite price", ErrInvalidInput, i, b.Time.Format("2006-01-02"))
			}
		}
		if b.High < b.Low {
			return fmt.Errorf("%w: bar %d (%s) high %.4f below low %.4f", ErrInvalidInput, i, b.Time.Format("2006-01-02"), b.High, b.Low)
		}
	}
	return nil
}
