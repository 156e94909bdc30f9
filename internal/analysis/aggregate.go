package analysis

import (
	"cmp"
	"slices"

	"github.com/2beens/fitnessdash/internal/dataset"
	"github.com/2beens/fitnessdash/pkg"

	"github.com/montanaflynn/stats"
)

// KPIs are the headline means of the filtered records, rounded to 2 decimals.
// HasData is false for an empty input, in which case the means are zero.
type KPIs struct {
	AvgBMI         float64 `json:"avgBmi"`
	AvgRestingBPM  float64 `json:"avgRestingBpm"`
	AvgWaterIntake float64 `json:"avgWaterIntake"`
	HasData        bool    `json:"hasData"`
}

type WorkoutAgeCount struct {
	WorkoutType string `json:"workoutType"`
	Age         int    `json:"age"`
	Count       int    `json:"count"`
}

type WorkoutGenderCount struct {
	WorkoutType string `json:"workoutType"`
	Gender      string `json:"gender"`
	Count       int    `json:"count"`
}

type DurationCalories struct {
	Duration     float64 `json:"duration"`
	MeanCalories float64 `json:"meanCalories"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func ComputeKPIs(records []dataset.WorkoutRecord) KPIs {
	if len(records) == 0 {
		return KPIs{}
	}

	bmi := make(stats.Float64Data, 0, len(records))
	bpm := make(stats.Float64Data, 0, len(records))
	water := make(stats.Float64Data, 0, len(records))
	for _, rec := range records {
		bmi = append(bmi, rec.BMI)
		bpm = append(bpm, rec.RestingBPM)
		water = append(water, rec.WaterIntake)
	}

	// inputs are non-empty, Mean cannot fail
	avgBMI, _ := bmi.Mean()
	avgBPM, _ := bpm.Mean()
	avgWater, _ := water.Mean()

	return KPIs{
		AvgBMI:         pkg.RoundTo2(avgBMI),
		AvgRestingBPM:  pkg.RoundTo2(avgBPM),
		AvgWaterIntake: pkg.RoundTo2(avgWater),
		HasData:        true,
	}
}

// WorkoutAgeCounts groups by (workout type, age), sorted by type then age.
func WorkoutAgeCounts(records []dataset.WorkoutRecord) []WorkoutAgeCount {
	type key struct {
		workout string
		age     int
	}
	counts := map[key]int{}
	for _, rec := range records {
		counts[key{rec.WorkoutType, rec.Age}]++
	}

	result := make([]WorkoutAgeCount, 0, len(counts))
	for k, c := range counts {
		result = append(result, WorkoutAgeCount{WorkoutType: k.workout, Age: k.age, Count: c})
	}
	slices.SortFunc(result, func(a, b WorkoutAgeCount) int {
		return cmp.Or(cmp.Compare(a.WorkoutType, b.WorkoutType), cmp.Compare(a.Age, b.Age))
	})

	return result
}

// WorkoutGenderCounts groups by (workout type, gender), sorted by type then gender.
func WorkoutGenderCounts(records []dataset.WorkoutRecord) []WorkoutGenderCount {
	type key struct {
		workout string
		gender  string
	}
	counts := map[key]int{}
	for _, rec := range records {
		counts[key{rec.WorkoutType, rec.Gender}]++
	}

	result := make([]WorkoutGenderCount, 0, len(counts))
	for k, c := range counts {
		result = append(result, WorkoutGenderCount{WorkoutType: k.workout, Gender: k.gender, Count: c})
	}
	slices.SortFunc(result, func(a, b WorkoutGenderCount) int {
		return cmp.Or(cmp.Compare(a.WorkoutType, b.WorkoutType), cmp.Compare(a.Gender, b.Gender))
	})

	return result
}

// CaloriesByDuration returns the mean calories burned per session duration,
// sorted by duration. Callers pass the full dataset: this chart intentionally
// ignores the active filter.
func CaloriesByDuration(records []dataset.WorkoutRecord) []DurationCalories {
	buckets := map[float64]stats.Float64Data{}
	for _, rec := range records {
		buckets[rec.SessionDuration] = append(buckets[rec.SessionDuration], rec.CaloriesBurned)
	}

	result := make([]DurationCalories, 0, len(buckets))
	for duration, calories := range buckets {
		mean, _ := calories.Mean()
		result = append(result, DurationCalories{Duration: duration, MeanCalories: mean})
	}
	slices.SortFunc(result, func(a, b DurationCalories) int {
		return cmp.Compare(a.Duration, b.Duration)
	})

	return result
}

// WorkoutPopularity counts records per workout type.
func WorkoutPopularity(records []dataset.WorkoutRecord) []CategoryCount {
	return valueCounts(records, func(rec dataset.WorkoutRecord) string {
		return rec.WorkoutType
	})
}

// ExperienceBreakdown counts records per experience level.
func ExperienceBreakdown(records []dataset.WorkoutRecord) []CategoryCount {
	return valueCounts(records, func(rec dataset.WorkoutRecord) string {
		return rec.ExperienceLevel
	})
}

// valueCounts orders by count descending; equal counts keep first-seen order.
func valueCounts(records []dataset.WorkoutRecord, value func(dataset.WorkoutRecord) string) []CategoryCount {
	index := map[string]int{}
	result := []CategoryCount{}
	for _, rec := range records {
		v := value(rec)
		i, ok := index[v]
		if !ok {
			i = len(result)
			index[v] = i
			result = append(result, CategoryCount{Value: v})
		}
		result[i].Count++
	}

	slices.SortStableFunc(result, func(a, b CategoryCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return result
}
