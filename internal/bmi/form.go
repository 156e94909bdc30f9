package bmi

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

const (
	paramName   = "name"
	paramAge    = "age"
	paramWeight = "weight"
	paramHeight = "height"
)

// input bounds, mirrored by the html form controls
const (
	AgeMin    = 1
	AgeMax    = 120
	WeightMin = 1.0
	WeightMax = 300.0
	HeightMin = 0.5
	HeightMax = 2.5

	WeightStep = 0.5
	HeightStep = 0.01
)

const HeightPrompt = "Please enter your height to calculate BMI."

// Form is one BMI calculator submission. A zero HeightM means the height was
// not given.
type Form struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	WeightKg float64 `json:"weightKg"`
	HeightM  float64 `json:"heightM"`
}

func DefaultForm() Form {
	return Form{
		Age:      AgeMin,
		WeightKg: WeightMin,
		HeightM:  HeightMin,
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors lists the individual field errors of a Validate/ParseForm error.
func FieldErrors(err error) []FieldError {
	var fieldErrs []FieldError
	for _, e := range multierr.Errors(err) {
		var fieldErr *FieldError
		if errors.As(e, &fieldErr) {
			fieldErrs = append(fieldErrs, *fieldErr)
		}
	}
	return fieldErrs
}

func Submitted(values url.Values) bool {
	for _, p := range []string{paramName, paramAge, paramWeight, paramHeight} {
		if values.Has(p) {
			return true
		}
	}
	return false
}

// ParseForm reads the form fields, falling back to defaults for missing age and
// weight. A missing or empty height is left at zero.
func ParseForm(values url.Values) (Form, error) {
	form := DefaultForm()
	form.Name = strings.TrimSpace(values.Get(paramName))
	form.HeightM = 0

	var err error
	if raw := strings.TrimSpace(values.Get(paramAge)); raw != "" {
		age, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			err = multierr.Append(err, &FieldError{Field: paramAge, Message: "must be a whole number"})
		} else {
			form.Age = age
		}
	}
	if raw := strings.TrimSpace(values.Get(paramWeight)); raw != "" {
		weight, parseErr := parseFinite(raw)
		if parseErr != nil {
			err = multierr.Append(err, &FieldError{Field: paramWeight, Message: "must be a number"})
		} else {
			form.WeightKg = weight
		}
	}
	if raw := strings.TrimSpace(values.Get(paramHeight)); raw != "" {
		height, parseErr := parseFinite(raw)
		if parseErr != nil {
			err = multierr.Append(err, &FieldError{Field: paramHeight, Message: "must be a number"})
		} else {
			form.HeightM = height
		}
	}

	if err != nil {
		return form, err
	}
	return form, form.Validate()
}

var errNotFinite = errors.New("not a finite number")

// parseFinite parses a float, rejecting NaN and infinities.
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// Validate checks the ranges of the form values. A non-positive height is not
// a validation error: it means the height is still to be entered.
func (f Form) Validate() error {
	var err error
	if f.Age < AgeMin || f.Age > AgeMax {
		err = multierr.Append(err, &FieldError{
			Field:   paramAge,
			Message: fmt.Sprintf("must be between %d and %d", AgeMin, AgeMax),
		})
	}
	if !(f.WeightKg >= WeightMin && f.WeightKg <= WeightMax) {
		err = multierr.Append(err, &FieldError{
			Field:   paramWeight,
			Message: fmt.Sprintf("must be between %.1f and %.1f kg", WeightMin, WeightMax),
		})
	}
	if !(f.HeightM <= 0) && !(f.HeightM >= HeightMin && f.HeightM <= HeightMax) {
		err = multierr.Append(err, &FieldError{
			Field:   paramHeight,
			Message: fmt.Sprintf("must be between %.1f and %.1f m", HeightMin, HeightMax),
		})
	}
	return err
}

func (f Form) Query() url.Values {
	q := url.Values{}
	q.Set(paramName, f.Name)
	q.Set(paramAge, strconv.Itoa(f.Age))
	q.Set(paramWeight, strconv.FormatFloat(f.WeightKg, 'f', -1, 64))
	q.Set(paramHeight, strconv.FormatFloat(f.HeightM, 'f', -1, 64))
	return q
}

// Limits are the input control bounds of the calculator form.
type Limits struct {
	AgeMin     int
	AgeMax     int
	WeightMin  float64
	WeightMax  float64
	WeightStep float64
	HeightMin  float64
	HeightMax  float64
	HeightStep float64
}

var FormLimits = Limits{
	AgeMin:     AgeMin,
	AgeMax:     AgeMax,
	WeightMin:  WeightMin,
	WeightMax:  WeightMax,
	WeightStep: WeightStep,
	HeightMin:  HeightMin,
	HeightMax:  HeightMax,
	HeightStep: HeightStep,
}
