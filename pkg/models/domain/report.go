package domain

import "time"

// Report is a printable rendition of analytics results
type Report struct {
	Title     string
	Period    TimePeriod
	Generated time.Time
	Sections  []ReportSection
}

// TimePeriod represents the window the report covers. Zero times mean open bounds.
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents a single row within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
