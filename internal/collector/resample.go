package collector

import (
	"time"

	"TrendSentinel/internal/model"
)

// ResampleWeekly aggregates ascending daily bars into ISO-week bars stamped
// with the Sunday that ends the week. A week whose bars do not all carry
// volume gets no volume; the number of such weeks is returned.
func ResampleWeekly(daily []model.OHLCV) (weekly []model.OHLCV, volumeless int) {
	if len(daily) == 0 {
		return nil, 0
	}
	var (
		week        model.OHLCV
		weekKey     int
		weekStarted bool
	)
	flush := func() {
		if !week.HasVolume {
			week.Volume = 0
			volumeless++
		}
		weekly = append(weekly, week)
	}

	for _, d := range daily {
		year, isoWeek := d.Time.ISOWeek()
		key := year*100 + isoWeek

		if !weekStarted || key != weekKey {
			if weekStarted {
				flush()
			}
			week = model.OHLCV{
				Time:      weekEnding(d.Time),
				Open:      d.Open,
				High:      d.High,
				Low:       d.Low,
				Close:     d.Close,
				Volume:    d.Volume,
				HasVolume: d.HasVolume,
			}
			weekKey = key
			weekStarted = true
			continue
		}

		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
		week.HasVolume = week.HasVolume && d.HasVolume
	}
	flush()
	return weekly, volumeless
}

// weekEnding returns midnight of the Sunday closing t's ISO week, in t's location.
func weekEnding(t time.Time) time.Time {
	offset := (7 - int(t.Weekday())) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, t.Location())
}
