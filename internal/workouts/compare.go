package workouts

import (
	"time"
)

type ComparisonRow struct {
	Label string `json:"label"`
	YearA int    `json:"yearA"`
	YearB int    `json:"yearB"`
	Delta int    `json:"delta"`
}

type ComparisonTable struct {
	Title string          `json:"title"`
	Rows  []ComparisonRow `json:"rows"`
}

// ComparisonReport is a side-by-side breakdown of two years. When
// YearToDate is set, one of the compared years is still in progress
// and both sides were truncated to the same month-and-day cutoff to
// keep the comparison fair.
type ComparisonReport struct {
	YearA      int               `json:"yearA"`
	YearB      int               `json:"yearB"`
	YearToDate bool              `json:"yearToDate"`
	Tables     []ComparisonTable `json:"tables"`
}

// CompareYears builds a comparison report for two years out of the
// full workouts collection. A year matching today's is truncated to
// today, and a historical year compared against it is truncated to
// the same month-and-day cutoff, so an in-progress year is never
// compared against a full historical one. Today's date on a leap day
// projects onto a non-leap year as March 1st, following calendar
// normalization.
func CompareYears(workouts []Workout, yearA, yearB int, today time.Time) *ComparisonReport {
	currentYear := today.Year()
	yearToDate := yearA == currentYear || yearB == currentYear

	cutoffFor := func(year int) string {
		// an in-progress year never reaches past today
		if year == currentYear {
			return FormatDate(today)
		}
		// a historical year compared against the current one gets the
		// same month-and-day cutoff, projected onto it
		if yearToDate {
			cutoff := time.Date(year, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
			return FormatDate(cutoff)
		}
		return ""
	}

	subsetA := yearSubset(workouts, yearA, cutoffFor(yearA))
	subsetB := yearSubset(workouts, yearB, cutoffFor(yearB))

	statsA := CalculateStats(subsetA)
	statsB := CalculateStats(subsetB)

	report := &ComparisonReport{
		YearA:      yearA,
		YearB:      yearB,
		YearToDate: yearToDate,
	}

	report.Tables = append(report.Tables, ComparisonTable{
		Title: "Total Workouts",
		Rows: []ComparisonRow{
			newComparisonRow("Total", statsA.Total, statsB.Total),
		},
	})

	categoriesTable := ComparisonTable{Title: "Top-Level Categories"}
	for _, c := range AllCategories {
		categoriesTable.Rows = append(
			categoriesTable.Rows,
			newComparisonRow(c.String(), statsA.Categories[c], statsB.Categories[c]),
		)
	}
	report.Tables = append(report.Tables, categoriesTable)

	gymTable := ComparisonTable{Title: "Gym Subcategories"}
	for _, gs := range AllGymSubs {
		gymTable.Rows = append(
			gymTable.Rows,
			newComparisonRow(gs.String(), statsA.GymSubs[gs], statsB.GymSubs[gs]),
		)
	}
	report.Tables = append(report.Tables, gymTable)

	cardioTable := ComparisonTable{Title: "Cardio Subcategories"}
	for _, cs := range AllCardioSubs {
		cardioTable.Rows = append(
			cardioTable.Rows,
			newComparisonRow(cs.String(), statsA.CardioSubs[cs], statsB.CardioSubs[cs]),
		)
	}
	report.Tables = append(report.Tables, cardioTable)

	daysTable := ComparisonTable{Title: "By Day of Week"}
	for _, d := range weekdayLabels {
		daysTable.Rows = append(
			daysTable.Rows,
			newComparisonRow(d, statsA.DayOfWeek[d], statsB.DayOfWeek[d]),
		)
	}
	report.Tables = append(report.Tables, daysTable)

	monthsTable := ComparisonTable{Title: "By Month"}
	for _, m := range monthLabels {
		monthsTable.Rows = append(
			monthsTable.Rows,
			newComparisonRow(m, statsA.Months[m], statsB.Months[m]),
		)
	}
	report.Tables = append(report.Tables, monthsTable)

	quartersTable := ComparisonTable{Title: "By Quarter"}
	for _, q := range quarterLabels {
		quartersTable.Rows = append(
			quartersTable.Rows,
			newComparisonRow(q, statsA.Quarters[q], statsB.Quarters[q]),
		)
	}
	report.Tables = append(report.Tables, quartersTable)

	return report
}

func newComparisonRow(label string, countA, countB int) ComparisonRow {
	return ComparisonRow{
		Label: label,
		YearA: countA,
		YearB: countB,
		Delta: countA - countB,
	}
}

// yearSubset filters the collection down to one year, optionally
// dropping workouts after the cutoff date (inclusive bound).
func yearSubset(workouts []Workout, year int, cutoff string) []Workout {
	var subset []Workout
	for _, w := range workouts {
		d, err := ParseDate(w.Date)
		if err != nil || d.Year() != year {
			continue
		}
		if cutoff != "" && w.Date > cutoff {
			continue
		}
		subset = append(subset, w)
	}
	return subset
}
