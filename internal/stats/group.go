package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/liftplot/internal/model"
)

// GroupWorkouts groups records by date and then by exercise.
// Sets without positive volume are dropped. Days are sorted by date and
// exercises keep the order they were first seen on that day.
func GroupWorkouts(records []model.SetRecord) model.Workouts {
	dayIndex := map[time.Time]int{}
	var days model.Workouts
	for _, rec := range records {
		if rec.Volume <= 0 {
			continue
		}
		di, ok := dayIndex[rec.Date]
		if !ok {
			di = len(days)
			dayIndex[rec.Date] = di
			days = append(days, model.DailyWorkout{Date: rec.Date})
		}
		day := &days[di]
		ei := exerciseIndex(day.Exercises, rec.Exercise)
		if ei < 0 {
			day.Exercises = append(day.Exercises, model.ExerciseSets{Name: rec.Exercise})
			ei = len(day.Exercises) - 1
		}
		day.Exercises[ei].Sets = append(day.Exercises[ei].Sets, rec)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

func exerciseIndex(exercises []model.ExerciseSets, name string) int {
	for i, ex := range exercises {
		if ex.Name == name {
			return i
		}
	}
	return -1
}

// dayVolume sums every set volume of a training day.
func dayVolume(day model.DailyWorkout) float64 {
	var total float64
	for _, ex := range day.Exercises {
		for _, set := range ex.Sets {
			total += set.Volume
		}
	}
	return total
}
