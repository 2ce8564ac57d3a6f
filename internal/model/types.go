// Package model defines shared data structures.
package model

import "time"

// ReportConfig defines inputs and options for report generation.
type ReportConfig struct {
	InputPath  string
	OutputPath string
	Format     string
	Delimiter  rune
	Window     int
	MinPoints  int
	Unit       string
}

// RawSetRow is one row of the export before any parsing.
type RawSetRow struct {
	Line     int
	Date     string
	Exercise string
	Weight   string
	Reps     string
}

// SetRecord is a normalized performed set.
type SetRecord struct {
	Date         time.Time
	Exercise     string
	Weight       float64
	Reps         int
	Volume       float64
	EstimatedMax float64
}

// ExerciseSets holds the sets of one exercise within a training day.
type ExerciseSets struct {
	Name string
	Sets []SetRecord
}

// DailyWorkout groups the sets of one calendar date by exercise.
type DailyWorkout struct {
	Date      time.Time
	Exercises []ExerciseSets
}

// Workouts is a chronologically ordered list of training days.
type Workouts []DailyWorkout

// ExerciseSession summarizes one exercise on one date.
type ExerciseSession struct {
	Date         time.Time
	Sets         []SetRecord
	Volume       float64
	EstimatedMax float64
}

// ExerciseHistory is the per-date history of one exercise.
type ExerciseHistory struct {
	Name     string
	Sessions []ExerciseSession
}

// WeeklyBucket aggregates training days of one ISO week.
type WeeklyBucket struct {
	Key    int
	Date   time.Time
	Volume float64
	Days   int
}

// Point is a single dated value of a series.
type Point struct {
	Date  time.Time
	Value float64
}

// Chart is one report page: the data points and their smoothed trend.
type Chart struct {
	Title  string
	Unit   string
	Color  string
	Points []Point
	Trend  []float64
}

// Values returns the y values of the chart points.
func (c Chart) Values() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Value
	}
	return out
}
