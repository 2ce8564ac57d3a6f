package stats

import (
	"time"

	"github.com/verte-zerg/liftplot/internal/model"
)

// weekKeyMultiplier exceeds the largest ISO week number (53).
const weekKeyMultiplier = 100

// DailyVolume returns the total volume of each training day.
func DailyVolume(w model.Workouts) []model.Point {
	out := make([]model.Point, 0, len(w))
	for _, day := range w {
		out = append(out, model.Point{Date: day.Date, Value: dayVolume(day)})
	}
	return out
}

// WeekKey returns the ISO week bucket key of a date.
func WeekKey(t time.Time) int {
	year, week := t.ISOWeek()
	return year*weekKeyMultiplier + week
}

// WeeklyRollup buckets training days by ISO week. A bucket is dated by the
// first day mapped to it, not by the start of the week.
func WeeklyRollup(w model.Workouts) []model.WeeklyBucket {
	index := map[int]int{}
	var out []model.WeeklyBucket
	for _, day := range w {
		key := WeekKey(day.Date)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, model.WeeklyBucket{Key: key, Date: day.Date})
		}
		out[i].Volume += dayVolume(day)
		out[i].Days++
	}
	return out
}

// WeeklyVolume projects buckets onto their total volume.
func WeeklyVolume(buckets []model.WeeklyBucket) []model.Point {
	out := make([]model.Point, len(buckets))
	for i, b := range buckets {
		out[i] = model.Point{Date: b.Date, Value: b.Volume}
	}
	return out
}

// WeeklyDays projects buckets onto their training-day count.
func WeeklyDays(buckets []model.WeeklyBucket) []model.Point {
	out := make([]model.Point, len(buckets))
	for i, b := range buckets {
		out[i] = model.Point{Date: b.Date, Value: float64(b.Days)}
	}
	return out
}
