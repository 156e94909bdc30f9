package bmi

import (
	"github.com/2beens/fitnessdash/pkg"
)

type Category string

const (
	Underweight  Category = "Underweight"
	NormalWeight Category = "Normal weight"
	Overweight   Category = "Overweight"
	Obese        Category = "Obese"
)

var Categories = []Category{Underweight, NormalWeight, Overweight, Obese}

// category thresholds, each lower bound inclusive
const (
	normalWeightFrom = 18.5
	overweightFrom   = 25.0
	obeseFrom        = 30.0
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Advice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

var advices = map[Category]Advice{
	Underweight: {
		Severity: SeverityWarning,
		Message:  "You are Underweight 😟 Try to include more nutrients and balanced meals.",
	},
	NormalWeight: {
		Severity: SeveritySuccess,
		Message:  "You are in the Normal weight range ✅ Keep maintaining a balanced lifestyle!",
	},
	Overweight: {
		Severity: SeverityWarning,
		Message:  "You are Overweight ⚠️ Try moderate exercise and a healthy diet.",
	},
	Obese: {
		Severity: SeverityError,
		Message:  "You are in the Obese range 🚨 Please consult a doctor or nutritionist.",
	},
}

func (c Category) Advice() Advice {
	return advices[c]
}

func (c Category) Valid() bool {
	_, ok := advices[c]
	return ok
}

type Result struct {
	// BMI is rounded to 2 decimals.
	BMI      float64  `json:"bmi"`
	Category Category `json:"result"`
}

// Classify computes weight / height² and its category. It returns false, and
// computes nothing, when the height is not positive or NaN. The category is taken
// from the unrounded value.
func Classify(weightKg, heightM float64) (Result, bool) {
	if !(heightM > 0) {
		return Result{}, false
	}

	bmi := weightKg / (heightM * heightM)
	return Result{
		BMI:      pkg.RoundTo2(bmi),
		Category: categoryOf(bmi),
	}, true
}

func categoryOf(bmi float64) Category {
	switch {
	case bmi < normalWeightFrom:
		return Underweight
	case bmi < overweightFrom:
		return NormalWeight
	case bmi < obeseFrom:
		return Overweight
	default:
		return Obese
	}
}
