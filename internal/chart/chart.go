// Package chart renders a Supertrend analysis to a PNG file.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"TrendSentinel/internal/analyzer"
	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/trend"
)

var (
	closeColor = color.RGBA{R: 31, G: 119, B: 180, A: 180}
	trendColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	buyColor   = color.RGBA{G: 128, A: 255}
	sellColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// FileName returns the PNG name for an analysis, e.g.
// MSFT_supertrend_daily_P1y_ATR10_M3.0_plot.png.
func FileName(p analyzer.Params) string {
	period := strings.NewReplacer(" ", "", "'", "").Replace(p.Period)
	return fmt.Sprintf("%s_supertrend_%s_P%s_ATR%d_M%s_plot.png",
		p.Symbol, p.Interval, period, p.ATRLength, calculator.FormatMultiplier(p.Multiplier))
}

// Render draws close price, the Supertrend line and flip markers, and saves
// the chart under dir. It returns the written path.
func Render(res *analyzer.Result, dir string) (string, error) {
	if res.Series == nil || res.Series.Empty() {
		return "", fmt.Errorf("chart: no bars to plot")
	}
	p := res.Params
	bars := res.Series.Bars

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("%s %s Supertrend Analysis (ATR: %d, Mult: %s)",
		p.Symbol, title(string(p.Interval)), p.ATRLength, calculator.FormatMultiplier(p.Multiplier))
	plt.X.Label.Text = "Date"
	plt.Y.Label.Text = "Price"
	plt.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	plt.Legend.Top = true
	plt.Legend.Left = true
	plt.Add(plotter.NewGrid())

	closes := make(plotter.XYs, len(bars))
	for i, b := range bars {
		closes[i].X = float64(b.Time.Unix())
		closes[i].Y = b.Close
	}
	closeLine, err := plotter.NewLine(closes)
	if err != nil {
		return "", fmt.Errorf("chart: close line: %w", err)
	}
	closeLine.Color = closeColor
	plt.Add(closeLine)
	plt.Legend.Add("Close Price", closeLine)

	if values, ok := trendValues(res); ok {
		var pts plotter.XYs
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(bars[i].Time.Unix()), Y: v})
		}
		if len(pts) > 0 {
			stLine, err := plotter.NewLine(pts)
			if err != nil {
				return "", fmt.Errorf("chart: supertrend line: %w", err)
			}
			stLine.Color = trendColor
			stLine.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
			plt.Add(stLine)
			plt.Legend.Add(fmt.Sprintf("Supertrend (%d, %s)", p.ATRLength, calculator.FormatMultiplier(p.Multiplier)), stLine)
		}
	}

	buys, sells := trend.SplitFlips(res.Flips)
	var buyPts, sellPts plotter.XYs
	for _, t := range buys {
		if i := res.Series.IndexOf(t); i >= 0 {
			buyPts = append(buyPts, plotter.XY{X: float64(t.Unix()), Y: bars[i].Low * 0.98})
		}
	}
	for _, t := range sells {
		if i := res.Series.IndexOf(t); i >= 0 {
			sellPts = append(sellPts, plotter.XY{X: float64(t.Unix()), Y: bars[i].High * 1.02})
		}
	}
	if err := addMarkers(plt, "Buy Signal", buyPts, draw.PyramidGlyph{}, buyColor); err != nil {
		return "", err
	}
	if err := addMarkers(plt, "Sell Signal", sellPts, invertedPyramid{}, sellColor); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(p))
	if err := plt.Save(14*vg.Inch, 7*vg.Inch, path); err != nil {
		return "", fmt.Errorf("chart: save %s: %w", path, err)
	}
	return path, nil
}

func addMarkers(plt *plot.Plot, label string, pts plotter.XYs, shape draw.GlyphDrawer, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("chart: %s markers: %w", strings.ToLower(label), err)
	}
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(5)
	plt.Add(s)
	plt.Legend.Add(label, s)
	return nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const (
	sin30 vg.Length = 0.5
	cos30 vg.Length = 0.8660254037844386
)

// invertedPyramid is a filled triangle pointing down.
type invertedPyramid struct{}

func (invertedPyramid) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius + (sty.Radius-sty.Radius*sin30)/2
	p := make(vg.Path, 0, 4)
	p.Move(vg.Point{X: pt.X, Y: pt.Y - r})
	p.Line(vg.Point{X: pt.X - r*cos30, Y: pt.Y + r*sin30})
	p.Line(vg.Point{X: pt.X + r*cos30, Y: pt.Y + r*sin30})
	p.Close()
	c.Fill(p)
}

func trendValues(res *analyzer.Result) ([]float64, bool) {
	if res.Frame == nil {
		return nil, false
	}
	values, ok := res.Frame.Column(res.Columns.Trend)
	if !ok || len(values) != len(res.Series.Bars) {
		return nil, false
	}
	return values, true
}
