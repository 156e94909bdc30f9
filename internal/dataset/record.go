package dataset

// WorkoutRecord is one row of the workouts dataset.
type WorkoutRecord struct {
	Gender          string  `json:"gender"`
	WorkoutType     string  `json:"workoutType"`
	ExperienceLevel string  `json:"experienceLevel"`
	Age             int     `json:"age"`
	BMI             float64 `json:"bmi"`
	RestingBPM      float64 `json:"restingBpm"`
	WaterIntake     float64 `json:"waterIntake"`     // liters
	SessionDuration float64 `json:"sessionDuration"` // hours
	CaloriesBurned  float64 `json:"caloriesBurned"`
}

type column int

const (
	colGender column = iota
	colWorkoutType
	colExperienceLevel
	colAge
	colBMI
	colRestingBPM
	colWaterIntake
	colSessionDuration
	colCaloriesBurned
	columnsCount
)

// columnHeaders lists the accepted header names per column, canonical first.
var columnHeaders = [columnsCount][]string{
	colGender:          {"Gender"},
	colWorkoutType:     {"Workout_Type"},
	colExperienceLevel: {"Experience_Level"},
	colAge:             {"Age"},
	colBMI:             {"BMI"},
	colRestingBPM:      {"Resting_BPM"},
	colWaterIntake:     {"Water_Intake (liters)", "Water_Intake"},
	colSessionDuration: {"Session_Duration (hours)", "Session_Duration"},
	colCaloriesBurned:  {"Calories_Burned"},
}

func (c column) String() string {
	return columnHeaders[c][0]
}
