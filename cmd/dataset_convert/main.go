package main

//// Small CLI tool used to convert a cleaned workout CSV dataset into a parquet file.

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/fitnessdash/internal/dataset"
	"github.com/2beens/fitnessdash/pkg"
)

func init() {
	log.SetOutput(os.Stdout)
}

func main() {
	csvPath, parquetPath, err := parseAndValidateInput()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	log.Printf("CSV Path: %s\n", csvPath)
	log.Printf("Parquet Path: %s\n", parquetPath)

	records, err := dataset.Load(csvPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v\n", err)
	}

	out, err := os.Create(parquetPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v\n", err)
	}

	bw := bufio.NewWriter(out)
	if err := dataset.WriteParquet(bw, records); err != nil {
		_ = out.Close()
		log.Fatalf("Failed to write parquet: %v\n", err)
	}
	if err := bw.Flush(); err != nil {
		_ = out.Close()
		log.Fatalf("Failed to flush output: %v\n", err)
	}
	if err := out.Close(); err != nil {
		log.Fatalf("Failed to close output file: %v\n", err)
	}

	log.Printf("Converted %d records\n", len(records))
}

func parseAndValidateInput() (string, string, error) {
	csvPath := flag.String("csv", "", "Path to the cleaned CSV dataset")
	parquetPath := flag.String("out", "", "Path of the parquet file to write (defaults to the CSV path with .parquet)")
	flag.Parse()

	return validateInput(*csvPath, *parquetPath)
}

func validateInput(csvPath, parquetPath string) (string, string, error) {
	if csvPath == "" {
		return "", "", fmt.Errorf("path to CSV file is required (use -csv)")
	}
	exists, err := pkg.PathExists(csvPath, false)
	if err != nil {
		return "", "", fmt.Errorf("check CSV file: %w", err)
	}
	if !exists {
		return "", "", fmt.Errorf("CSV file does not exist at path: %s", csvPath)
	}

	out := parquetPath
	if out == "" {
		out = strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".parquet"
	}
	if out == csvPath {
		return "", "", fmt.Errorf("output path must differ from the input path")
	}

	return csvPath, out, nil
}
