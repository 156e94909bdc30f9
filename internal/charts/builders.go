package charts

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/2beens/fitnessdash/internal/analysis"
)

const (
	FigureWorkoutAge          = "workout-age"
	FigureWorkoutGender       = "workout-gender"
	FigureCaloriesDuration    = "calories-duration"
	FigureWorkoutPopularity   = "workout-popularity"
	FigureExperienceBreakdown = "experience-breakdown"
)

type KPICard struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

const noData = "no data"

func KPICards(kpis analysis.KPIs) []KPICard {
	format := func(v float64) string {
		if !kpis.HasData {
			return noData
		}
		return fmt.Sprintf("%.2f", v)
	}
	return []KPICard{
		{Label: "Average BMI", Value: format(kpis.AvgBMI)},
		{Label: "Average Resting BPM", Value: format(kpis.AvgRestingBPM)},
		{Label: "Average Water Intake", Value: format(kpis.AvgWaterIntake)},
	}
}

// WorkoutAgeFigure stacks one horizontal bar trace per workout type, ages on the y axis.
func WorkoutAgeFigure(counts []analysis.WorkoutAgeCount) (Figure, error) {
	var order []string
	byType := map[string][]analysis.WorkoutAgeCount{}
	for _, c := range counts {
		if _, seen := byType[c.WorkoutType]; !seen {
			order = append(order, c.WorkoutType)
		}
		byType[c.WorkoutType] = append(byType[c.WorkoutType], c)
	}

	// Colors follow the position among the types present in the filtered set,
	// so a type can change color when another type is deselected.
	colors, err := colorsFor(QualitativePalette, order)
	if err != nil {
		return Figure{}, err
	}

	traces := make([]Trace, 0, len(order))
	for i, workoutType := range order {
		x := make([]any, 0, len(byType[workoutType]))
		y := make([]any, 0, len(byType[workoutType]))
		for _, c := range byType[workoutType] {
			x = append(x, c.Count)
			y = append(y, c.Age)
		}
		traces = append(traces, Trace{
			Type:        "bar",
			Name:        workoutType,
			Orientation: "h",
			X:           x,
			Y:           y,
			Marker:      &Marker{Color: colors[i]},
		})
	}

	layout := whiteLayout("<b>Workout Distribution by Age</b>", 400)
	layout.ShowLegend = true
	layout.BarMode = "relative"
	layout.XAxis = &Axis{Title: Title{Text: "Number of People"}}
	layout.YAxis = &Axis{Title: Title{Text: "Age"}}

	return Figure{ID: FigureWorkoutAge, Data: traces, Layout: layout}, nil
}

// WorkoutGenderFigure lays out one pie per gender side by side, in order of
// first appearance.
func WorkoutGenderFigure(counts []analysis.WorkoutGenderCount) (Figure, error) {
	var genders []string
	byGender := map[string][]analysis.WorkoutGenderCount{}
	for _, c := range counts {
		if _, seen := byGender[c.Gender]; !seen {
			genders = append(genders, c.Gender)
		}
		byGender[c.Gender] = append(byGender[c.Gender], c)
	}

	layout := whiteLayout("<b>Workout Type Distribution by Gender</b>", 0)
	layout.ShowLegend = true

	traces := make([]Trace, 0, len(genders))
	for i, gender := range genders {
		labels := make([]string, 0, len(byGender[gender]))
		values := make([]int, 0, len(byGender[gender]))
		for _, c := range byGender[gender] {
			labels = append(labels, c.WorkoutType)
			values = append(values, c.Count)
		}
		colors, err := colorsFor(WorkoutPalette, labels)
		if err != nil {
			return Figure{}, err
		}

		traces = append(traces, Trace{
			Type:         "pie",
			Name:         gender,
			Labels:       labels,
			Values:       values,
			Domain:       &Domain{Row: 0, Column: i},
			TextInfo:     "percent+label",
			TextPosition: "inside",
			Marker:       &Marker{Colors: colors},
		})
		layout.Annotations = append(layout.Annotations, Annotation{
			Text: "Gender=" + gender,
			X:    (float64(i) + 0.5) / float64(len(genders)),
			Y:    1.0,
			XRef: "paper",
			YRef: "paper",
		})
	}
	if len(genders) > 0 {
		layout.Grid = &Grid{Rows: 1, Columns: len(genders)}
	}

	return Figure{ID: FigureWorkoutGender, Data: traces, Layout: layout}, nil
}

func CaloriesDurationFigure(points []analysis.DurationCalories) Figure {
	x := make([]any, 0, len(points))
	y := make([]any, 0, len(points))
	for _, p := range points {
		x = append(x, p.Duration)
		y = append(y, p.MeanCalories)
	}

	layout := whiteLayout("<b>Calories Burned vs Workout Duration</b>", 500)
	layout.XAxis = &Axis{Title: Title{Text: "Workout Duration (hours)"}}
	layout.YAxis = &Axis{Title: Title{Text: "Calories Burned"}}

	return Figure{
		ID: FigureCaloriesDuration,
		Data: []Trace{{
			Type: "scatter",
			Mode: "lines+markers",
			X:    x,
			Y:    y,
		}},
		Layout: layout,
	}
}

// PopularityFigure draws the workout counts as horizontal bars, least popular first
// so the most popular type ends up on top.
func PopularityFigure(counts []analysis.CategoryCount) Figure {
	sorted := slices.Clone(counts)
	slices.SortStableFunc(sorted, func(a, b analysis.CategoryCount) int {
		return cmp.Compare(a.Count, b.Count)
	})

	x := make([]any, 0, len(sorted))
	y := make([]any, 0, len(sorted))
	colorValues := make([]int, 0, len(sorted))
	for _, c := range sorted {
		x = append(x, c.Count)
		y = append(y, c.Value)
		colorValues = append(colorValues, c.Count)
	}

	layout := whiteLayout("<b>Most Popular Workout Types</b>", 400)
	layout.XAxis = &Axis{Title: Title{Text: "Number of Participants"}}
	layout.YAxis = &Axis{Title: Title{Text: "Workout Type"}, CategoryOrder: "total ascending"}

	return Figure{
		ID: FigureWorkoutPopularity,
		Data: []Trace{{
			Type:        "bar",
			Orientation: "h",
			X:           x,
			Y:           y,
			Marker: &Marker{
				Color:      colorValues,
				ColorScale: "Viridis",
				ShowScale:  true,
			},
		}},
		Layout: layout,
	}
}

func ExperienceFigure(counts []analysis.CategoryCount) (Figure, error) {
	labels := make([]string, 0, len(counts))
	values := make([]int, 0, len(counts))
	for _, c := range counts {
		labels = append(labels, c.Value)
		values = append(values, c.Count)
	}
	colors, err := colorsFor(ExperiencePalette, labels)
	if err != nil {
		return Figure{}, err
	}

	layout := whiteLayout("<b>Experience Level Breakdown</b>", 0)
	layout.ShowLegend = true
	layout.Annotations = []Annotation{{
		Text: "Experience",
		X:    0.5,
		Y:    0.5,
		Font: &Font{Size: 16},
	}}

	return Figure{
		ID: FigureExperienceBreakdown,
		Data: []Trace{{
			Type:         "pie",
			Labels:       labels,
			Values:       values,
			Hole:         0.4,
			TextInfo:     "percent+label",
			TextPosition: "inside",
			TextFont:     &Font{Size: 14},
			Marker:       &Marker{Colors: colors},
		}},
		Layout: layout,
	}, nil
}
