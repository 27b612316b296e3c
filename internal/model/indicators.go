package model

import (
	"math"
	"sort"
	"time"
)

// IndicatorFrame holds indicator columns aligned with a series index.
// Undefined entries are NaN.
type IndicatorFrame struct {
	Time    []time.Time
	Columns map[string][]float64
}

// NewIndicatorFrame creates an empty frame over the given index.
func NewIndicatorFrame(index []time.Time) *IndicatorFrame {
	return &IndicatorFrame{Time: index, Columns: make(map[string][]float64)}
}

// NaNColumn returns a column of len(index) NaN values.
func (f *IndicatorFrame) NaNColumn() []float64 {
	col := make([]float64, len(f.Time))
	for i := range col {
		col[i] = math.NaN()
	}
	return col
}

// Column returns the named column and whether it exists.
func (f *IndicatorFrame) Column(name string) ([]float64, bool) {
	col, ok := f.Columns[name]
	return col, ok
}

// Names returns the column names in sorted order.
func (f *IndicatorFrame) Names() []string {
	names := make([]string, 0, len(f.Columns))
	for n := range f.Columns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Last returns the last defined value of a column.
func (f *IndicatorFrame) Last(name string) (float64, bool) {
	col, ok := f.Columns[name]
	if !ok {
		return 0, false
	}
	for i := len(col) - 1; i >= 0; i-- {
		if !math.IsNaN(col[i]) {
			return col[i], true
		}
	}
	return 0, false
}
