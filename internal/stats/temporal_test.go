package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/liftplot/internal/model"
)

func TestDailyVolume(t *testing.T) {
	w := GroupWorkouts([]model.SetRecord{
		set(day(2023, 1, 2), "Squat", 100, 5),
		set(day(2023, 1, 2), "Bench", 50, 10),
		set(day(2023, 1, 4), "Row", 40, 10),
	})
	got := DailyVolume(w)
	want := []model.Point{
		{Date: day(2023, 1, 2), Value: 1000},
		{Date: day(2023, 1, 4), Value: 400},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("daily volume mismatch (-want +got):\n%s", diff)
	}
}

func TestWeeklyRollupSingleWeek(t *testing.T) {
	// Newest first, as exports usually are.
	w := GroupWorkouts([]model.SetRecord{
		set(day(2023, 1, 5), "Squat", 400, 1),
		set(day(2023, 1, 4), "Squat", 300, 1),
		set(day(2023, 1, 3), "Squat", 200, 1),
		set(day(2023, 1, 2), "Squat", 100, 1),
	})
	buckets := WeeklyRollup(w)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	b := buckets[0]
	if b.Volume != 1000 || b.Days != 4 {
		t.Fatalf("unexpected bucket: %+v", b)
	}
	if !b.Date.Equal(day(2023, 1, 2)) {
		t.Fatalf("expected bucket dated by first day seen, got %v", b.Date)
	}
	if b.Key != 2023*100+1 {
		t.Fatalf("unexpected key %d", b.Key)
	}
}

func TestWeeklyRollupRepresentativeIsFirstSeen(t *testing.T) {
	// Wednesday and Friday of the same ISO week, no Monday.
	w := GroupWorkouts([]model.SetRecord{
		set(day(2023, 3, 8), "Squat", 100, 5),
		set(day(2023, 3, 10), "Squat", 100, 5),
		set(day(2023, 3, 10), "Bench", 60, 5),
	})
	buckets := WeeklyRollup(w)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if !buckets[0].Date.Equal(day(2023, 3, 8)) {
		t.Fatalf("expected Wednesday as representative, got %v", buckets[0].Date)
	}
	if buckets[0].Days != 2 {
		t.Fatalf("expected 2 distinct days, got %d", buckets[0].Days)
	}
}

func TestWeekKeyAcrossYears(t *testing.T) {
	cases := []struct {
		a, b time.Time
		same bool
	}{
		// 2020 has 53 ISO weeks; Jan 1 2021 still belongs to 2020-W53.
		{day(2020, 12, 31), day(2021, 1, 1), true},
		{day(2020, 12, 31), day(2021, 1, 4), false},
		{day(2015, 12, 31), day(2016, 1, 4), false},
		{day(2023, 1, 1), day(2023, 1, 2), false},
	}
	for _, tc := range cases {
		same := WeekKey(tc.a) == WeekKey(tc.b)
		if same != tc.same {
			t.Fatalf("WeekKey(%s)=%d WeekKey(%s)=%d, expected same=%v",
				tc.a.Format("2006-01-02"), WeekKey(tc.a), tc.b.Format("2006-01-02"), WeekKey(tc.b), tc.same)
		}
	}
}

func TestWeeklyProjections(t *testing.T) {
	buckets := []model.WeeklyBucket{
		{Key: 202301, Date: day(2023, 1, 2), Volume: 1000, Days: 3},
		{Key: 202302, Date: day(2023, 1, 10), Volume: 500, Days: 1},
	}
	vol := WeeklyVolume(buckets)
	days := WeeklyDays(buckets)
	if len(vol) != 2 || len(days) != 2 {
		t.Fatalf("expected 2 points each, got %d and %d", len(vol), len(days))
	}
	if vol[1].Value != 500 || days[0].Value != 3 || !days[1].Date.Equal(day(2023, 1, 10)) {
		t.Fatalf("unexpected projections: %+v %+v", vol, days)
	}
}
