package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeathDate_Forms(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		{"keyword then date", "passed away on June 8, 2024, at her home", "2024-06-08"},
		{"abbreviated month", "died Sept. 14, 2023 in Dayton", "2023-09-14"},
		{"ordinal day", "died on June 8th, 2024", "2024-06-08"},
		{"slash date", "she died 6/8/2024 peacefully", "2024-06-08"},
		{"two digit year", "passed away 6/8/24", "2024-06-08"},
		{"iso form", "Death date: 2024-06-08", "2024-06-08"},
		{"date before keyword", "On June 8, 2024, William Smith passed away", "2024-06-08"},
		{"yearless kept raw", "passed away on June 8 after a long illness", "June 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeathDate(tt.snippet, "")
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeathDate_TitleFallback(t *testing.T) {
	got, ok := DeathDate("Beloved husband and father", "John Smith dies June 8, 2024")
	assert.True(t, ok)
	assert.Equal(t, "2024-06-08", got)
}

func TestDeathDate_None(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
	}{
		{"no death keyword", "Visitation June 10, 2024 at the funeral home"},
		{"keyword without date", "He died peacefully surrounded by family"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DeathDate(tt.snippet, "")
			assert.False(t, ok)
		})
	}
}

func TestServiceDates_YearsPresent(t *testing.T) {
	snippet := "Visitation will be held June 10, 2024 at the chapel. Funeral mass June 11, 2024 at 10 a.m."
	vis, fun := ServiceDates(snippet, "")
	assert.Equal(t, "2024-06-10", vis)
	assert.Equal(t, "2024-06-11", fun)
}

func TestServiceDates_YearBorrowedFromDeathDate(t *testing.T) {
	snippet := "Visitation June 10 from 4-7 p.m. Funeral mass June 11 at St. Mary's."
	vis, fun := ServiceDates(snippet, "2024-06-08")
	assert.Equal(t, "2024-06-10", vis)
	assert.Equal(t, "2024-06-11", fun)
}

func TestServiceDates_NoYearAvailable(t *testing.T) {
	vis, fun := ServiceDates("Calling hours June 10 at the chapel", "")
	assert.Equal(t, "June 10", vis)
	assert.Equal(t, "", fun)
}

func TestServiceDates_Empty(t *testing.T) {
	vis, fun := ServiceDates("", "2024-06-08")
	assert.Equal(t, "", vis)
	assert.Equal(t, "", fun)
}

func TestNormalizeDateToken(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"month name", "June 8, 2024", "2024-06-08", true},
		{"abbreviated month", "Sept. 14, 2023", "2023-09-14", true},
		{"slash date", "6/8/2024", "2024-06-08", true},
		{"iso passthrough", "2024-06-08", "2024-06-08", true},
		{"surrounding text", "Died June 8, 2024 at home", "2024-06-08", true},
		{"yearless kept raw", "June 8", "June 8", true},
		{"bare year", "2024", "", false},
		{"no date", "surrounded by family", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDateToken(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
