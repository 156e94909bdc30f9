package bmi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

const ExportFileName = "user_health_data.csv"

var exportHeader = []string{"Name", "Age", "Height (m)", "Weight (kg)", "BMI", "Result"}

var ErrInvalidExport = errors.New("invalid bmi export")

// Record is the one-row result of a calculation, as shown and exported.
type Record struct {
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	HeightM  float64  `json:"heightM"`
	WeightKg float64  `json:"weightKg"`
	BMI      float64  `json:"bmi"`
	Result   Category `json:"result"`
}

// NewRecord classifies the form. It returns false if the height is missing.
func NewRecord(form Form) (Record, bool) {
	result, ok := Classify(form.WeightKg, form.HeightM)
	if !ok {
		return Record{}, false
	}
	return Record{
		Name:     form.Name,
		Age:      form.Age,
		HeightM:  form.HeightM,
		WeightKg: form.WeightKg,
		BMI:      result.BMI,
		Result:   result.Category,
	}, true
}

func (r Record) Fields() []string {
	return []string{
		r.Name,
		strconv.Itoa(r.Age),
		formatFloat(r.HeightM),
		formatFloat(r.WeightKg),
		formatFloat(r.BMI),
		string(r.Result),
	}
}

func Header() []string {
	return slices.Clone(exportHeader)
}

func WriteCSV(w io.Writer, records ...Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(exportHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrInvalidExport)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	if !slices.Equal(header, exportHeader) {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrInvalidExport, strings.Join(header, ","))
	}

	var records []Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
		}

		record, err := parseRecord(fields)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidExport, line, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRecord(fields []string) (Record, error) {
	age, err := strconv.Atoi(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("age: %w", err)
	}

	var floats [3]float64
	for i, name := range exportHeader[2:5] {
		floats[i], err = strconv.ParseFloat(fields[i+2], 64)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", name, err)
		}
	}

	result := Category(fields[5])
	if !result.Valid() {
		return Record{}, fmt.Errorf("unknown result %q", fields[5])
	}

	return Record{
		Name:     fields[0],
		Age:      age,
		HeightM:  floats[0],
		WeightKg: floats[1],
		BMI:      floats[2],
		Result:   result,
	}, nil
}

// formatFloat writes floats the way pandas does: shortest representation,
// with a trailing ".0" for whole numbers.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
