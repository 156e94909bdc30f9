package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var errMissingColumn = errors.New("missing column")

// ParseCSV reads a header row followed by workout rows. Columns are matched
// by header name, so their order does not matter and extra columns are ignored.
func ParseCSV(r io.Reader) ([]WorkoutRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read header: %w", err)}
	}

	indices, err := columnIndices(header)
	if err != nil {
		return nil, err
	}

	var records []WorkoutRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row, indices, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func columnIndices(header []string) ([columnsCount]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		// strip a UTF-8 BOM some spreadsheet exports put in front of the first header
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		positions[h] = i
	}

	var indices [columnsCount]int
	for c := column(0); c < columnsCount; c++ {
		found := false
		for _, name := range columnHeaders[c] {
			if idx, ok := positions[name]; ok {
				indices[c] = idx
				found = true
				break
			}
		}
		if !found {
			return indices, &ParseError{Column: c.String(), Err: errMissingColumn}
		}
	}

	return indices, nil
}

func parseRow(row []string, indices [columnsCount]int, line int) (WorkoutRecord, error) {
	var rec WorkoutRecord
	var err error

	field := func(c column) string {
		return strings.TrimSpace(row[indices[c]])
	}
	parseFloat := func(c column) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = strconv.ParseFloat(field(c), 64)
		if err != nil {
			err = &ParseError{Line: line, Column: c.String(), Err: err}
		}
		return v
	}

	rec.Gender = field(colGender)
	rec.WorkoutType = field(colWorkoutType)
	rec.ExperienceLevel = field(colExperienceLevel)

	age := parseFloat(colAge)
	if err == nil && age != math.Trunc(age) {
		err = &ParseError{Line: line, Column: colAge.String(), Err: fmt.Errorf("age %v is not a whole number", age)}
	}
	rec.Age = int(age)
	rec.BMI = parseFloat(colBMI)
	rec.RestingBPM = parseFloat(colRestingBPM)
	rec.WaterIntake = parseFloat(colWaterIntake)
	rec.SessionDuration = parseFloat(colSessionDuration)
	rec.CaloriesBurned = parseFloat(colCaloriesBurned)

	return rec, err
}
