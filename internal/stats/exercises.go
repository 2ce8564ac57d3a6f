package stats

import (
	"sort"

	"github.com/verte-zerg/liftplot/internal/model"
)

// AggregateExercises re-keys grouped workouts by exercise name.
// Each exercise gets one session per date, in the order of w.
func AggregateExercises(w model.Workouts) []model.ExerciseHistory {
	index := map[string]int{}
	var out []model.ExerciseHistory
	for _, day := range w {
		for _, ex := range day.Exercises {
			i, ok := index[ex.Name]
			if !ok {
				i = len(out)
				index[ex.Name] = i
				out = append(out, model.ExerciseHistory{Name: ex.Name})
			}
			out[i].Sessions = append(out[i].Sessions, summarizeSession(day, ex))
		}
	}
	return out
}

func summarizeSession(day model.DailyWorkout, ex model.ExerciseSets) model.ExerciseSession {
	session := model.ExerciseSession{
		Date: day.Date,
		Sets: ex.Sets,
	}
	for _, set := range ex.Sets {
		session.Volume += set.Volume
		if set.EstimatedMax > session.EstimatedMax {
			session.EstimatedMax = set.EstimatedMax
		}
	}
	return session
}

// OrderExercises returns exercises sorted by session count, most first.
// Ties keep their input order.
func OrderExercises(histories []model.ExerciseHistory) []model.ExerciseHistory {
	out := make([]model.ExerciseHistory, len(histories))
	copy(out, histories)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Sessions) > len(out[j].Sessions)
	})
	return out
}

// ExerciseSummary holds whole-history totals for one exercise.
type ExerciseSummary struct {
	Name         string
	Sessions     int
	Sets         int
	Volume       float64
	BestEstimate float64
}

// SummarizeExercises computes totals for each exercise, keeping input order.
func SummarizeExercises(histories []model.ExerciseHistory) []ExerciseSummary {
	out := make([]ExerciseSummary, 0, len(histories))
	for _, h := range histories {
		sum := ExerciseSummary{Name: h.Name, Sessions: len(h.Sessions)}
		for _, s := range h.Sessions {
			sum.Sets += len(s.Sets)
			sum.Volume += s.Volume
			if s.EstimatedMax > sum.BestEstimate {
				sum.BestEstimate = s.EstimatedMax
			}
		}
		out = append(out, sum)
	}
	return out
}
