package analysis

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/2beens/fitnessdash/internal/dataset"
)

const (
	AgeLowerBound = 18
	AgeUpperBound = 60

	DefaultAgeMin = 18
	DefaultAgeMax = 40
)

// query parameter names of the filter panel
const (
	ParamGender     = "gender"
	ParamWorkout    = "workout"
	ParamExperience = "experience"
	ParamAgeMin     = "age_min"
	ParamAgeMax     = "age_max"
	// ParamApplied marks a submitted filter form: absent selections then mean "none".
	ParamApplied = "applied"
)

type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Options are the selectable values of the filter panel.
type Options struct {
	Genders          []string `json:"genders"`
	WorkoutTypes     []string `json:"workoutTypes"`
	ExperienceLevels []string `json:"experienceLevels"`
	AgeBounds        AgeRange `json:"ageBounds"`
	DefaultAge       AgeRange `json:"defaultAge"`
}

// FilterState is the selection of the filter panel. An empty selection
// matches nothing.
type FilterState struct {
	Genders          []string `json:"genders"`
	WorkoutTypes     []string `json:"workoutTypes"`
	ExperienceLevels []string `json:"experienceLevels"`
	AgeMin           int      `json:"ageMin"`
	AgeMax           int      `json:"ageMax"`
}

// NewOptions collects the distinct categorical values in first-seen order.
func NewOptions(records []dataset.WorkoutRecord) Options {
	opts := Options{
		Genders:          []string{},
		WorkoutTypes:     []string{},
		ExperienceLevels: []string{},
		AgeBounds:        AgeRange{Min: AgeLowerBound, Max: AgeUpperBound},
		DefaultAge:       AgeRange{Min: DefaultAgeMin, Max: DefaultAgeMax},
	}

	seenGender := map[string]bool{}
	seenWorkout := map[string]bool{}
	seenExperience := map[string]bool{}
	for _, rec := range records {
		if !seenGender[rec.Gender] {
			seenGender[rec.Gender] = true
			opts.Genders = append(opts.Genders, rec.Gender)
		}
		if !seenWorkout[rec.WorkoutType] {
			seenWorkout[rec.WorkoutType] = true
			opts.WorkoutTypes = append(opts.WorkoutTypes, rec.WorkoutType)
		}
		if !seenExperience[rec.ExperienceLevel] {
			seenExperience[rec.ExperienceLevel] = true
			opts.ExperienceLevels = append(opts.ExperienceLevels, rec.ExperienceLevel)
		}
	}

	return opts
}

// DefaultFilter selects every option and the default age range.
func DefaultFilter(opts Options) FilterState {
	return FilterState{
		Genders:          slices.Clone(opts.Genders),
		WorkoutTypes:     slices.Clone(opts.WorkoutTypes),
		ExperienceLevels: slices.Clone(opts.ExperienceLevels),
		AgeMin:           opts.DefaultAge.Min,
		AgeMax:           opts.DefaultAge.Max,
	}
}

// HasFilterParams reports whether the query carries any filter panel input.
func HasFilterParams(q url.Values) bool {
	for _, p := range []string{ParamGender, ParamWorkout, ParamExperience, ParamAgeMin, ParamAgeMax, ParamApplied} {
		if _, ok := q[p]; ok {
			return true
		}
	}
	return false
}

// ParseFilter builds a FilterState from query parameters. Without the applied
// marker, an absent selection falls back to all options. Unknown values are dropped.
func ParseFilter(q url.Values, opts Options) FilterState {
	applied := q.Get(ParamApplied) == "1"

	selection := func(param string, options []string) []string {
		values, present := q[param]
		if !present && !applied {
			return slices.Clone(options)
		}
		selected := make([]string, 0, len(values))
		for _, o := range options {
			if slices.Contains(values, o) {
				selected = append(selected, o)
			}
		}
		return selected
	}

	f := FilterState{
		Genders:          selection(ParamGender, opts.Genders),
		WorkoutTypes:     selection(ParamWorkout, opts.WorkoutTypes),
		ExperienceLevels: selection(ParamExperience, opts.ExperienceLevels),
		AgeMin:           parseAge(q.Get(ParamAgeMin), opts.DefaultAge.Min),
		AgeMax:           parseAge(q.Get(ParamAgeMax), opts.DefaultAge.Max),
	}
	return f.Normalize(opts)
}

func parseAge(raw string, fallback int) int {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return age
}

// Normalize clamps the age range into the option bounds, ordering it if reversed.
func (f FilterState) Normalize(opts Options) FilterState {
	clamp := func(v int) int {
		return min(max(v, opts.AgeBounds.Min), opts.AgeBounds.Max)
	}
	f.AgeMin, f.AgeMax = clamp(f.AgeMin), clamp(f.AgeMax)
	if f.AgeMin > f.AgeMax {
		f.AgeMin, f.AgeMax = f.AgeMax, f.AgeMin
	}
	return f
}

// Query encodes the filter back into query parameters, applied marker included.
func (f FilterState) Query() url.Values {
	q := url.Values{}
	q.Set(ParamApplied, "1")
	for _, g := range f.Genders {
		q.Add(ParamGender, g)
	}
	for _, w := range f.WorkoutTypes {
		q.Add(ParamWorkout, w)
	}
	for _, e := range f.ExperienceLevels {
		q.Add(ParamExperience, e)
	}
	q.Set(ParamAgeMin, strconv.Itoa(f.AgeMin))
	q.Set(ParamAgeMax, strconv.Itoa(f.AgeMax))
	return q
}

// Key is a canonical representation, independent of selection order.
func (f FilterState) Key() string {
	part := func(values []string) string {
		sorted := slices.Clone(values)
		slices.Sort(sorted)
		return strings.Join(slices.Compact(sorted), "\x1f")
	}
	return strings.Join([]string{
		part(f.Genders),
		part(f.WorkoutTypes),
		part(f.ExperienceLevels),
		strconv.Itoa(f.AgeMin),
		strconv.Itoa(f.AgeMax),
	}, "\x1e")
}

// Apply keeps the records matching every selection and the inclusive age range,
// preserving their order. The input is never modified.
func Apply(records []dataset.WorkoutRecord, f FilterState) []dataset.WorkoutRecord {
	filtered := []dataset.WorkoutRecord{}
	if len(f.Genders) == 0 || len(f.WorkoutTypes) == 0 || len(f.ExperienceLevels) == 0 {
		return filtered
	}

	genders := toSet(f.Genders)
	workouts := toSet(f.WorkoutTypes)
	levels := toSet(f.ExperienceLevels)

	for _, rec := range records {
		if !genders[rec.Gender] || !workouts[rec.WorkoutType] || !levels[rec.ExperienceLevel] {
			continue
		}
		if rec.Age < f.AgeMin || rec.Age > f.AgeMax {
			continue
		}
		filtered = append(filtered, rec)
	}

	return filtered
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
