package stats

import (
	"math"
	"testing"

	"github.com/verte-zerg/liftplot/internal/model"
)

func TestAggregateExercises(t *testing.T) {
	recs := mustRecords(t, []model.RawSetRow{
		{Date: "2023-01-02 10:00:00", Exercise: "Squat", Weight: "100", Reps: "5"},
		{Date: "2023-01-02 10:05:00", Exercise: "Squat", Weight: "100", Reps: "5"},
	})
	hist := AggregateExercises(GroupWorkouts(recs))
	if len(hist) != 1 || hist[0].Name != "Squat" {
		t.Fatalf("unexpected histories: %+v", hist)
	}
	if len(hist[0].Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(hist[0].Sessions))
	}
	s := hist[0].Sessions[0]
	if s.Volume != 1000 {
		t.Fatalf("expected volume 1000, got %f", s.Volume)
	}
	if math.Abs(s.EstimatedMax-112.5) > 0.01 {
		t.Fatalf("expected estimated max ~112.5, got %f", s.EstimatedMax)
	}
	if len(s.Sets) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(s.Sets))
	}
}

func TestAggregateExercisesBestSet(t *testing.T) {
	d := day(2023, 1, 2)
	w := GroupWorkouts([]model.SetRecord{
		set(d, "Bench", 60, 10),
		set(d, "Bench", 80, 3),
		set(d, "Bench", 40, 40),
	})
	s := AggregateExercises(w)[0].Sessions[0]
	want := math.Max(EstimateOneRepMax(60, 10), EstimateOneRepMax(80, 3))
	if s.EstimatedMax != want {
		t.Fatalf("expected best estimate %f, got %f", want, s.EstimatedMax)
	}
	if s.Volume != 600+240+1600 {
		t.Fatalf("expected undefined-estimate set to count toward volume, got %f", s.Volume)
	}
}

func TestAggregateExercisesChronological(t *testing.T) {
	w := GroupWorkouts([]model.SetRecord{
		set(day(2023, 2, 1), "Squat", 110, 5),
		set(day(2023, 1, 1), "Squat", 100, 5),
		set(day(2023, 1, 15), "Squat", 105, 5),
	})
	sessions := AggregateExercises(w)[0].Sessions
	for i := 1; i < len(sessions); i++ {
		if !sessions[i-1].Date.Before(sessions[i].Date) {
			t.Fatalf("sessions not chronological: %v then %v", sessions[i-1].Date, sessions[i].Date)
		}
	}
}

func TestOrderExercises(t *testing.T) {
	hist := []model.ExerciseHistory{
		{Name: "Curl", Sessions: make([]model.ExerciseSession, 2)},
		{Name: "Squat", Sessions: make([]model.ExerciseSession, 5)},
		{Name: "Row", Sessions: make([]model.ExerciseSession, 2)},
		{Name: "Bench", Sessions: make([]model.ExerciseSession, 5)},
	}
	ordered := OrderExercises(hist)
	want := []string{"Squat", "Bench", "Curl", "Row"}
	for i, name := range want {
		if ordered[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, ordered[i].Name)
		}
	}
	if hist[0].Name != "Curl" {
		t.Fatalf("input must not be reordered")
	}
}

func TestSummarizeExercises(t *testing.T) {
	w := GroupWorkouts([]model.SetRecord{
		set(day(2023, 1, 1), "Squat", 100, 5),
		set(day(2023, 1, 1), "Squat", 100, 3),
		set(day(2023, 1, 3), "Squat", 120, 1),
	})
	sum := SummarizeExercises(AggregateExercises(w))
	if len(sum) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(sum))
	}
	got := sum[0]
	if got.Sessions != 2 || got.Sets != 3 || got.Volume != 920 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if math.Abs(got.BestEstimate-120) > 1e-9 {
		t.Fatalf("expected best estimate 120, got %f", got.BestEstimate)
	}
}
