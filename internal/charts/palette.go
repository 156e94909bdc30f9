package charts

import (
	"errors"
	"fmt"

	"github.com/2beens/fitnessdash/internal/analysis"

	"go.uber.org/multierr"
)

var ErrUnmappedCategory = errors.New("category has no color")

type WorkoutType string

const (
	Cardio   WorkoutType = "Cardio"
	Strength WorkoutType = "Strength"
	Yoga     WorkoutType = "Yoga"
	HIIT     WorkoutType = "HIIT"
)

type ExperienceLevel string

const (
	Beginner     ExperienceLevel = "Beginner"
	Intermediate ExperienceLevel = "Intermediate"
	Advanced     ExperienceLevel = "Advanced"
)

// Palette assigns a color to a category. index is the category's position
// within the chart, used by palettes that are not keyed by name.
type Palette interface {
	Color(category string, index int) (string, error)
}

// CategoryPalette is a fixed category to color mapping. Unknown categories are an error.
type CategoryPalette map[string]string

func (p CategoryPalette) Color(category string, _ int) (string, error) {
	color, ok := p[category]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedCategory, category)
	}
	return color, nil
}

// SequencePalette cycles through its colors by position.
type SequencePalette []string

func (p SequencePalette) Color(_ string, index int) (string, error) {
	if len(p) == 0 {
		return "", ErrUnmappedCategory
	}
	return p[index%len(p)], nil
}

var (
	WorkoutPalette = CategoryPalette{
		string(Cardio):   "#FF6B6B",
		string(Strength): "#4ECDC4",
		string(Yoga):     "#45B7D1",
		string(HIIT):     "#96CEB4",
	}

	ExperiencePalette = CategoryPalette{
		string(Beginner):     "#FF6B6B",
		string(Intermediate): "#4ECDC4",
		string(Advanced):     "#45B7D1",
	}

	// Set3 qualitative palette
	QualitativePalette = SequencePalette{
		"#8DD3C7", "#FFFFB3", "#BEBADA", "#FB8072", "#80B1D3", "#FDB462",
		"#B3DE69", "#FCCDE5", "#D9D9D9", "#BC80BD", "#CCEBC5", "#FFED6F",
	}
)

// ValidatePalette checks that every workout type and experience level offered
// by the dataset has a color, reporting all unmapped categories at once.
func ValidatePalette(opts analysis.Options) error {
	var err error
	for _, w := range opts.WorkoutTypes {
		if _, colorErr := WorkoutPalette.Color(w, 0); colorErr != nil {
			err = multierr.Append(err, fmt.Errorf("workout type: %w", colorErr))
		}
	}
	for _, e := range opts.ExperienceLevels {
		if _, colorErr := ExperiencePalette.Color(e, 0); colorErr != nil {
			err = multierr.Append(err, fmt.Errorf("experience level: %w", colorErr))
		}
	}
	return err
}

func colorsFor(p Palette, categories []string) ([]string, error) {
	colors := make([]string, 0, len(categories))
	for i, c := range categories {
		color, err := p.Color(c, i)
		if err != nil {
			return nil, err
		}
		colors = append(colors, color)
	}
	return colors, nil
}
