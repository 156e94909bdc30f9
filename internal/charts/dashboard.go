package charts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/2beens/fitnessdash/internal/analysis"
	"github.com/2beens/fitnessdash/internal/dataset"
	"github.com/2beens/fitnessdash/internal/telemetry/tracing"
)

// Dashboard is the rendered form of an analysis.View.
type Dashboard struct {
	KPIs    []KPICard `json:"kpis"`
	Figures []Figure  `json:"figures"`
	Table   Table     `json:"table"`
}

type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

var tableColumns = []string{
	"Gender",
	"Workout_Type",
	"Experience_Level",
	"Age",
	"BMI",
	"Resting_BPM",
	"Water_Intake (liters)",
	"Session_Duration (hours)",
	"Calories_Burned",
}

// Build renders every figure of the view. A category missing from a static
// palette fails the whole build, no figure falls back to a default color.
func Build(ctx context.Context, view *analysis.View) (*Dashboard, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "charts.build")
	defer span.End()

	workoutAge, err := WorkoutAgeFigure(view.WorkoutAge)
	if err != nil {
		return nil, fmt.Errorf("workout by age: %w", err)
	}
	workoutGender, err := WorkoutGenderFigure(view.WorkoutGender)
	if err != nil {
		return nil, fmt.Errorf("workout by gender: %w", err)
	}
	experience, err := ExperienceFigure(view.Experience)
	if err != nil {
		return nil, fmt.Errorf("experience breakdown: %w", err)
	}

	return &Dashboard{
		KPIs: KPICards(view.KPIs),
		Figures: []Figure{
			workoutAge,
			workoutGender,
			CaloriesDurationFigure(view.CaloriesByDuration),
			PopularityFigure(view.Popularity),
			experience,
		},
		Table: NewTable(view.Rows),
	}, nil
}

func NewTable(records []dataset.WorkoutRecord) Table {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Gender,
			r.WorkoutType,
			r.ExperienceLevel,
			strconv.Itoa(r.Age),
			formatFloat(r.BMI),
			formatFloat(r.RestingBPM),
			formatFloat(r.WaterIntake),
			formatFloat(r.SessionDuration),
			formatFloat(r.CaloriesBurned),
		})
	}
	return Table{Columns: tableColumns, Rows: rows}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
