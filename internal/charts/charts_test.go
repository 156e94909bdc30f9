package charts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/2beens/fitnessdash/internal/analysis"
	"github.com/2beens/fitnessdash/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testRecords() []dataset.WorkoutRecord {
	return []dataset.WorkoutRecord{
		{Gender: "Male", WorkoutType: "Yoga", ExperienceLevel: "Advanced", Age: 56, BMI: 30.2, RestingBPM: 60, WaterIntake: 3.5, SessionDuration: 1.69, CaloriesBurned: 1313},
		{Gender: "Female", WorkoutType: "HIIT", ExperienceLevel: "Intermediate", Age: 46, BMI: 32, RestingBPM: 66, WaterIntake: 2.1, SessionDuration: 1.3, CaloriesBurned: 883},
		{Gender: "Female", WorkoutType: "Cardio", ExperienceLevel: "Intermediate", Age: 32, BMI: 24.71, RestingBPM: 54, WaterIntake: 2.3, SessionDuration: 1.11, CaloriesBurned: 677},
		{Gender: "Male", WorkoutType: "Strength", ExperienceLevel: "Beginner", Age: 25, BMI: 18.41, RestingBPM: 73, WaterIntake: 2.1, SessionDuration: 0.59, CaloriesBurned: 532},
		{Gender: "Male", WorkoutType: "Yoga", ExperienceLevel: "Beginner", Age: 25, BMI: 14.39, RestingBPM: 64, WaterIntake: 2.8, SessionDuration: 0.64, CaloriesBurned: 556},
	}
}

func testView(t *testing.T, filter func(analysis.FilterState) analysis.FilterState) *analysis.View {
	t.Helper()
	records := testRecords()
	opts := analysis.NewOptions(records)
	f := analysis.FilterState{
		Genders:          opts.Genders,
		WorkoutTypes:     opts.WorkoutTypes,
		ExperienceLevels: opts.ExperienceLevels,
		AgeMin:           18,
		AgeMax:           60,
	}
	if filter != nil {
		f = filter(f)
	}
	return analysis.BuildView(context.Background(), records, opts, f)
}

func TestPalette(t *testing.T) {
	color, err := WorkoutPalette.Color("HIIT", 3)
	require.NoError(t, err)
	assert.Equal(t, "#96CEB4", color)

	color, err = ExperiencePalette.Color("Beginner", 0)
	require.NoError(t, err)
	assert.Equal(t, "#FF6B6B", color)

	_, err = WorkoutPalette.Color("Pilates", 0)
	assert.ErrorIs(t, err, ErrUnmappedCategory)

	color, err = QualitativePalette.Color("anything", 13)
	require.NoError(t, err)
	assert.Equal(t, "#FFFFB3", color)

	_, err = SequencePalette{}.Color("x", 0)
	assert.ErrorIs(t, err, ErrUnmappedCategory)
}

func TestValidatePalette(t *testing.T) {
	opts := analysis.NewOptions(testRecords())
	assert.NoError(t, ValidatePalette(opts))

	opts.WorkoutTypes = append(opts.WorkoutTypes, "Pilates")
	opts.ExperienceLevels = append(opts.ExperienceLevels, "Expert")
	err := ValidatePalette(opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmappedCategory))
	assert.Contains(t, err.Error(), `"Pilates"`)
	assert.Contains(t, err.Error(), `"Expert"`)
}

func TestKPICards(t *testing.T) {
	cards := KPICards(analysis.KPIs{AvgBMI: 28.97, AvgRestingBPM: 60, AvgWaterIntake: 2.63, HasData: true})
	assert.Equal(t, []KPICard{
		{Label: "Average BMI", Value: "28.97"},
		{Label: "Average Resting BPM", Value: "60.00"},
		{Label: "Average Water Intake", Value: "2.63"},
	}, cards)

	for _, card := range KPICards(analysis.KPIs{}) {
		assert.Equal(t, "no data", card.Value)
	}
}

func TestWorkoutAgeFigure(t *testing.T) {
	fig, err := WorkoutAgeFigure(analysis.WorkoutAgeCounts(testRecords()))
	require.NoError(t, err)

	assert.Equal(t, FigureWorkoutAge, fig.ID)
	assert.Equal(t, 400, fig.Layout.Height)
	assert.True(t, fig.Layout.ShowLegend)
	assert.Equal(t, "#ffffff", fig.Layout.PaperBGColor)
	assert.Equal(t, "#ffffff", fig.Layout.PlotBGColor)

	require.Len(t, fig.Data, 4)
	var names []string
	for i, tr := range fig.Data {
		names = append(names, tr.Name)
		assert.Equal(t, "bar", tr.Type)
		assert.Equal(t, "h", tr.Orientation)
		assert.Equal(t, QualitativePalette[i], tr.Marker.Color)
	}
	assert.Equal(t, []string{"Cardio", "HIIT", "Strength", "Yoga"}, names)

	yoga := fig.Data[3]
	assert.Equal(t, []any{1, 1}, yoga.X)
	assert.Equal(t, []any{25, 56}, yoga.Y)
}

func TestWorkoutAgeFigure_ColorsFollowPresentTypes(t *testing.T) {
	var withoutCardio []dataset.WorkoutRecord
	for _, rec := range testRecords() {
		if rec.WorkoutType != "Cardio" {
			withoutCardio = append(withoutCardio, rec)
		}
	}

	fig, err := WorkoutAgeFigure(analysis.WorkoutAgeCounts(withoutCardio))
	require.NoError(t, err)

	require.Len(t, fig.Data, 3)
	assert.Equal(t, "HIIT", fig.Data[0].Name)
	assert.Equal(t, QualitativePalette[0], fig.Data[0].Marker.Color)
	assert.Equal(t, "Yoga", fig.Data[2].Name)
	assert.Equal(t, QualitativePalette[2], fig.Data[2].Marker.Color)
}

func TestWorkoutGenderFigure(t *testing.T) {
	fig, err := WorkoutGenderFigure(analysis.WorkoutGenderCounts(testRecords()))
	require.NoError(t, err)

	require.Len(t, fig.Data, 2)
	require.NotNil(t, fig.Layout.Grid)
	assert.Equal(t, Grid{Rows: 1, Columns: 2}, *fig.Layout.Grid)
	require.Len(t, fig.Layout.Annotations, 2)

	for i, tr := range fig.Data {
		assert.Equal(t, "pie", tr.Type)
		assert.Equal(t, "percent+label", tr.TextInfo)
		assert.Equal(t, "inside", tr.TextPosition)
		assert.Equal(t, &Domain{Row: 0, Column: i}, tr.Domain)
		assert.Equal(t, "Gender="+tr.Name, fig.Layout.Annotations[i].Text)
		require.Len(t, tr.Marker.Colors, len(tr.Labels))
		for j, label := range tr.Labels {
			assert.Equal(t, WorkoutPalette[label], tr.Marker.Colors[j])
		}
	}

	_, err = WorkoutGenderFigure([]analysis.WorkoutGenderCount{{WorkoutType: "Pilates", Gender: "Male", Count: 1}})
	assert.ErrorIs(t, err, ErrUnmappedCategory)
}

func TestWorkoutGenderFigure_Empty(t *testing.T) {
	fig, err := WorkoutGenderFigure(nil)
	require.NoError(t, err)
	assert.Empty(t, fig.Data)
	assert.Nil(t, fig.Layout.Grid)
}

func TestCaloriesDurationFigure(t *testing.T) {
	fig := CaloriesDurationFigure([]analysis.DurationCalories{
		{Duration: 0.5, MeanCalories: 450},
		{Duration: 1, MeanCalories: 1100},
	})
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "lines+markers", fig.Data[0].Mode)
	assert.Equal(t, []any{0.5, 1.0}, fig.Data[0].X)
	assert.Equal(t, []any{450.0, 1100.0}, fig.Data[0].Y)
	assert.Equal(t, 500, fig.Layout.Height)
	assert.Equal(t, "Workout Duration (hours)", fig.Layout.XAxis.Title.Text)
}

func TestPopularityFigure(t *testing.T) {
	fig := PopularityFigure([]analysis.CategoryCount{
		{Value: "Yoga", Count: 5},
		{Value: "HIIT", Count: 2},
		{Value: "Cardio", Count: 3},
	})
	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]
	assert.Equal(t, []any{"HIIT", "Cardio", "Yoga"}, tr.Y)
	assert.Equal(t, []any{2, 3, 5}, tr.X)
	assert.Equal(t, []int{2, 3, 5}, tr.Marker.Color)
	assert.Equal(t, "Viridis", tr.Marker.ColorScale)
	assert.Equal(t, "total ascending", fig.Layout.YAxis.CategoryOrder)
	assert.Equal(t, 400, fig.Layout.Height)
}

func TestExperienceFigure(t *testing.T) {
	fig, err := ExperienceFigure([]analysis.CategoryCount{
		{Value: "Intermediate", Count: 2},
		{Value: "Beginner", Count: 2},
		{Value: "Advanced", Count: 1},
	})
	require.NoError(t, err)
	require.Len(t, fig.Data, 1)

	tr := fig.Data[0]
	assert.Equal(t, 0.4, tr.Hole)
	assert.Equal(t, []string{"#4ECDC4", "#FF6B6B", "#45B7D1"}, tr.Marker.Colors)
	require.Len(t, fig.Layout.Annotations, 1)
	assert.Equal(t, "Experience", fig.Layout.Annotations[0].Text)
}

func TestBuild(t *testing.T) {
	dash, err := Build(context.Background(), testView(t, nil))
	require.NoError(t, err)

	require.Len(t, dash.KPIs, 3)
	require.Len(t, dash.Figures, 5)
	ids := make([]string, 0, len(dash.Figures))
	for _, fig := range dash.Figures {
		ids = append(ids, fig.ID)
	}
	assert.Equal(t, []string{
		FigureWorkoutAge,
		FigureWorkoutGender,
		FigureCaloriesDuration,
		FigureWorkoutPopularity,
		FigureExperienceBreakdown,
	}, ids)

	assert.Len(t, dash.Table.Columns, 9)
	require.Len(t, dash.Table.Rows, 5)
	assert.Equal(t, []string{"Male", "Yoga", "Advanced", "56", "30.2", "60", "3.5", "1.69", "1313"}, dash.Table.Rows[0])

	raw, err := json.Marshal(dash)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"paper_bgcolor":"#ffffff"`)
}

func TestBuild_EmptySelection(t *testing.T) {
	view := testView(t, func(f analysis.FilterState) analysis.FilterState {
		f.Genders = []string{}
		return f
	})

	dash, err := Build(context.Background(), view)
	require.NoError(t, err)
	for _, card := range dash.KPIs {
		assert.Equal(t, "no data", card.Value)
	}
	assert.Empty(t, dash.Table.Rows)
	// calories are computed over the whole dataset
	assert.NotEmpty(t, dash.Figures[2].Data[0].X)
	assert.Empty(t, dash.Figures[3].Data[0].X)
}
