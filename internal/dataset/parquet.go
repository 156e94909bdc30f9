package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const parquetParallelism = 4

type parquetRow struct {
	Gender          string  `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	WorkoutType     string  `parquet:"name=workout_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ExperienceLevel string  `parquet:"name=experience_level, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Age             int64   `parquet:"name=age, type=INT64"`
	BMI             float64 `parquet:"name=bmi, type=DOUBLE"`
	RestingBPM      float64 `parquet:"name=resting_bpm, type=DOUBLE"`
	WaterIntake     float64 `parquet:"name=water_intake, type=DOUBLE"`
	SessionDuration float64 `parquet:"name=session_duration, type=DOUBLE"`
	CaloriesBurned  float64 `parquet:"name=calories_burned, type=DOUBLE"`
}

// parquetColumns are the column names of parquetRow.
var parquetColumns = []string{
	"gender", "workout_type", "experience_level", "age", "bmi",
	"resting_bpm", "water_intake", "session_duration", "calories_burned",
}

func loadParquetFile(path string) ([]WorkoutRecord, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer fr.Close()

	return readParquet(fr)
}

// ParseParquet decodes workout records from an in-memory parquet file.
func ParseParquet(data []byte) ([]WorkoutRecord, error) {
	return readParquet(buffer.NewBufferFileFromBytes(data))
}

func readParquet(pf source.ParquetFile) ([]WorkoutRecord, error) {
	if err := checkParquetColumns(pf); err != nil {
		return nil, err
	}

	pr, err := reader.NewParquetReader(pf, new(parquetRow), parquetParallelism)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("new parquet reader: %w", err)}
	}
	defer pr.ReadStop()

	rows := make([]parquetRow, int(pr.GetNumRows()))
	if len(rows) == 0 {
		return nil, nil
	}
	if err := pr.Read(&rows); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read parquet rows: %w", err)}
	}

	records := make([]WorkoutRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, WorkoutRecord{
			Gender:          row.Gender,
			WorkoutType:     row.WorkoutType,
			ExperienceLevel: row.ExperienceLevel,
			Age:             int(row.Age),
			BMI:             row.BMI,
			RestingBPM:      row.RestingBPM,
			WaterIntake:     row.WaterIntake,
			SessionDuration: row.SessionDuration,
			CaloriesBurned:  row.CaloriesBurned,
		})
	}

	return records, nil
}

// checkParquetColumns reads the file schema and reports the first missing column.
// Names are compared case-insensitively since the reader capitalizes them.
func checkParquetColumns(pf source.ParquetFile) error {
	pr, err := reader.NewParquetReader(pf, nil, 1)
	if err != nil {
		return &ParseError{Err: fmt.Errorf("read parquet schema: %w", err)}
	}
	defer pr.ReadStop()

	present := make(map[string]bool, len(pr.Footer.Schema))
	// the first element is the schema root
	for _, el := range pr.Footer.Schema[1:] {
		present[strings.ToLower(el.GetName())] = true
	}
	for _, name := range parquetColumns {
		if !present[name] {
			return &ParseError{Column: name, Err: errMissingColumn}
		}
	}
	return nil
}

// WriteParquet encodes records as a snappy-compressed parquet file into w.
func WriteParquet(w io.Writer, records []WorkoutRecord) error {
	fw := buffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(parquetRow), parquetParallelism)
	if err != nil {
		return fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		row := parquetRow{
			Gender:          rec.Gender,
			WorkoutType:     rec.WorkoutType,
			ExperienceLevel: rec.ExperienceLevel,
			Age:             int64(rec.Age),
			BMI:             rec.BMI,
			RestingBPM:      rec.RestingBPM,
			WaterIntake:     rec.WaterIntake,
			SessionDuration: rec.SessionDuration,
			CaloriesBurned:  rec.CaloriesBurned,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return err
	}

	_, err = w.Write(fw.Bytes())
	return err
}
