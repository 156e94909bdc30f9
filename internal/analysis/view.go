package analysis

import (
	"context"

	"github.com/2beens/fitnessdash/internal/dataset"
	"github.com/2beens/fitnessdash/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// View holds everything the analysis page shows for one filter state.
type View struct {
	Filter             FilterState             `json:"filter"`
	Options            Options                 `json:"options"`
	TotalRecords       int                     `json:"totalRecords"`
	KPIs               KPIs                    `json:"kpis"`
	WorkoutAge         []WorkoutAgeCount       `json:"workoutAge"`
	WorkoutGender      []WorkoutGenderCount    `json:"workoutGender"`
	CaloriesByDuration []DurationCalories      `json:"caloriesByDuration"`
	Popularity         []CategoryCount         `json:"popularity"`
	Experience         []CategoryCount         `json:"experience"`
	Rows               []dataset.WorkoutRecord `json:"rows"`
}

// BuildView filters the records and runs every aggregation. Everything is
// recomputed from scratch on each call.
func BuildView(ctx context.Context, records []dataset.WorkoutRecord, opts Options, filter FilterState) *View {
	_, span := tracing.GlobalTracer.Start(ctx, "analysis.buildView")
	defer span.End()

	filtered := Apply(records, filter)
	span.SetAttributes(
		attribute.Int("records.total", len(records)),
		attribute.Int("records.filtered", len(filtered)),
	)

	return &View{
		Filter:             filter,
		Options:            opts,
		TotalRecords:       len(records),
		KPIs:               ComputeKPIs(filtered),
		WorkoutAge:         WorkoutAgeCounts(filtered),
		WorkoutGender:      WorkoutGenderCounts(filtered),
		CaloriesByDuration: CaloriesByDuration(records),
		Popularity:         WorkoutPopularity(filtered),
		Experience:         ExperienceBreakdown(filtered),
		Rows:               filtered,
	}
}
