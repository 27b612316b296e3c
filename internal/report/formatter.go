// Package report renders analysis results and quote snapshots as text.
package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"TrendSentinel/internal/analyzer"
	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/trend"
)

const dateLayout = "2006-01-02"

// InsufficientDataMessage is printed when no bar had a defined direction.
const InsufficientDataMessage = "Not enough non-NaN data in Supertrend direction column to identify trends."

// FormatAnalysis renders the trend analysis of a run.
func FormatAnalysis(res *analyzer.Result) string {
	var b strings.Builder
	p := res.Params
	mult := calculator.FormatMultiplier(p.Multiplier)

	b.WriteString(fmt.Sprintf("Supertrend analysis for %s | %s, period %s\n", p.Symbol, p.Interval, p.Period))
	if s := res.Series; s != nil && !s.Empty() {
		b.WriteString(fmt.Sprintf("Bars: %d (%s to %s)\n", s.Len(),
			s.Bars[0].Time.Format(dateLayout), s.Bars[s.Len()-1].Time.Format(dateLayout)))
		b.WriteString(fmt.Sprintf("Last Close: %.2f | Range: %.2f - %.2f (position %.0f%%)\n",
			res.Range.Last, res.Range.Low, res.Range.High, res.Range.Position*100))
	}
	if v, ok := res.LastTrend(); ok {
		dir, _ := res.CurrentDirection()
		b.WriteString(fmt.Sprintf("Supertrend: %.2f (%s)\n", v, dir))
	}

	b.WriteString("\n--- Trend Analysis ---\n")
	b.WriteString(fmt.Sprintf("Analysis for %s (ATR: %d, Multiplier: %s)\n", p.Symbol, p.ATRLength, mult))
	if res.Insufficient() {
		b.WriteString(InsufficientDataMessage + "\n")
		return b.String()
	}

	buys, sells := trend.SplitFlips(res.Flips)
	b.WriteString("Buy Flip Dates:\n")
	for _, d := range buys {
		b.WriteString("  " + d.Format(dateLayout) + "\n")
	}
	b.WriteString("\nSell Flip Dates:\n")
	for _, d := range sells {
		b.WriteString("  " + d.Format(dateLayout) + "\n")
	}
	b.WriteString("\nTrend Segments:\n")
	for _, seg := range res.Segments {
		b.WriteString(fmt.Sprintf("  Type: %s, Start: %s, End: %s\n",
			seg.Direction, seg.Start.Format(dateLayout), seg.End.Format(dateLayout)))
	}
	return b.String()
}

// FormatQuote renders a quote snapshot. A quote without a symbol is treated
// as an invalid ticker and the received payload is dumped for debugging.
func FormatQuote(ticker string, q *model.Quote) string {
	var b strings.Builder
	if q == nil || q.Symbol == "" {
		b.WriteString(fmt.Sprintf("Could not retrieve valid data for %s. It might be an invalid ticker or delisted.\n", ticker))
		if q != nil && len(q.Raw) > 0 {
			b.WriteString("\n--- Debug: Received Data ---\n")
			b.WriteString(dumpJSON(q.Raw) + "\n")
			b.WriteString("-----------------------------\n")
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Data for %s:\n", q.Symbol))
	b.WriteString(fmt.Sprintf("  Current Price: %s\n", orNA(q.Price())))
	b.WriteString(fmt.Sprintf("  Day's Low: %s\n", orNA(q.DayLow)))
	b.WriteString(fmt.Sprintf("  Day's High: %s\n", orNA(q.DayHigh)))
	b.WriteString(fmt.Sprintf("  Volume: %s\n", orNA(q.TotalVolume())))
	b.WriteString(fmt.Sprintf("  Market Open: %s\n", orNA(q.RegularMarketOpen)))
	b.WriteString(fmt.Sprintf("  Previous Close: %s\n", orNA(q.PreviousClose)))
	return b.String()
}

func orNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func dumpJSON(v any) string {
	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
