package ui

import (
	"github.com/2beens/fitnessdash/internal/analysis"
	"github.com/2beens/fitnessdash/internal/bmi"
	"github.com/2beens/fitnessdash/internal/charts"
)

type AnalysisPage struct {
	Filter          analysis.FilterState
	Options         analysis.Options
	TotalRecords    int
	FilteredRecords int
	Dashboard       *charts.Dashboard
}

type BMIPage struct {
	Form   bmi.Form
	Limits bmi.Limits
	Errors []bmi.FieldError
	// Prompt asks for the height when none was given.
	Prompt    string
	Record    *bmi.Record
	Advice    bmi.Advice
	ExportURL string
	Header    []string
}
