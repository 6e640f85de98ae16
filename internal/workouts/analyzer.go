package workouts

import (
	"context"
	"math"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	LoadAll(ctx context.Context) ([]Workout, error)
}

var (
	weekdayLabels = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
	monthLabels = []string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}
	quarterLabels = []string{"Q1", "Q2", "Q3", "Q4"}
)

// StatsReport holds the categorical count tables for a collection of
// workouts. Every table is pre-seeded with a zero for each label of its
// vocabulary, so the key set never varies with input. Labels outside
// the vocabularies are ignored, not counted and not errored.
type StatsReport struct {
	Total      int               `json:"total"`
	Categories map[Category]int  `json:"categories"`
	GymSubs    map[GymSub]int    `json:"gymSubs"`
	CardioSubs map[CardioSub]int `json:"cardioSubs"`
	DayOfWeek  map[string]int    `json:"dayOfWeek"`
	Months     map[string]int    `json:"months"`
	Quarters   map[string]int    `json:"quarters"`
}

func newStatsReport(total int) *StatsReport {
	stats := &StatsReport{
		Total:      total,
		Categories: make(map[Category]int, len(AllCategories)),
		GymSubs:    make(map[GymSub]int, len(AllGymSubs)),
		CardioSubs: make(map[CardioSub]int, len(AllCardioSubs)),
		DayOfWeek:  make(map[string]int, len(weekdayLabels)),
		Months:     make(map[string]int, len(monthLabels)),
		Quarters:   make(map[string]int, len(quarterLabels)),
	}
	for _, c := range AllCategories {
		stats.Categories[c] = 0
	}
	for _, gs := range AllGymSubs {
		stats.GymSubs[gs] = 0
	}
	for _, cs := range AllCardioSubs {
		stats.CardioSubs[cs] = 0
	}
	for _, d := range weekdayLabels {
		stats.DayOfWeek[d] = 0
	}
	for _, m := range monthLabels {
		stats.Months[m] = 0
	}
	for _, q := range quarterLabels {
		stats.Quarters[q] = 0
	}
	return stats
}

// CalculateStats reduces a collection of workouts into the categorical
// count tables. Tags are counted once per source occurrence, so a
// duplicated tag within one workout increments its counter twice.
// Gym and cardio sub-tags are counted independently of whether the
// parent category is present - the data is trusted as-is.
func CalculateStats(workouts []Workout) *StatsReport {
	stats := newStatsReport(len(workouts))

	for _, w := range workouts {
		for _, c := range w.Categories {
			if _, ok := stats.Categories[c]; ok {
				stats.Categories[c]++
			}
		}
		for _, gs := range w.GymSubs {
			if _, ok := stats.GymSubs[gs]; ok {
				stats.GymSubs[gs]++
			}
		}
		for _, cs := range w.CardioSubs {
			if _, ok := stats.CardioSubs[cs]; ok {
				stats.CardioSubs[cs]++
			}
		}

		d, err := ParseDate(w.Date)
		if err != nil {
			continue
		}
		stats.DayOfWeek[weekdayLabels[DayOfWeek(d)]]++
		stats.Months[monthLabels[Month(d)]]++
		stats.Quarters[quarterLabels[Quarter(d)-1]]++
	}

	return stats
}

// AvgPerWeek returns the mean number of workouts per week over the
// observed date span, rounded to one fractional digit. The span is
// floored to one week, so a single-day collection of 5 workouts yields
// 5.0 per week. An empty collection yields 0.
func AvgPerWeek(workouts []Workout) float64 {
	if len(workouts) == 0 {
		return 0
	}

	// ISO date strings sort chronologically
	minDate, maxDate := workouts[0].Date, workouts[0].Date
	for _, w := range workouts[1:] {
		if w.Date < minDate {
			minDate = w.Date
		}
		if w.Date > maxDate {
			maxDate = w.Date
		}
	}

	from, err := ParseDate(minDate)
	if err != nil {
		return 0
	}
	to, err := ParseDate(maxDate)
	if err != nil {
		return 0
	}

	days := to.Sub(from).Hours() / 24
	weeks := math.Ceil(days / 7)
	if weeks < 1 {
		weeks = 1
	}

	return math.Round(float64(len(workouts))/weeks*10) / 10
}

// DashboardReport is the aggregate view for a single year. ThisWeek
// and ThisMonth are filled only when the selected year is the current
// one, in which case YearToDate is set.
type DashboardReport struct {
	Year       int          `json:"year"`
	Total      int          `json:"total"`
	AvgPerWeek float64      `json:"avgPerWeek"`
	ThisWeek   int          `json:"thisWeek"`
	ThisMonth  int          `json:"thisMonth"`
	YearToDate bool         `json:"yearToDate"`
	Stats      *StatsReport `json:"stats"`
}

type Analyzer struct {
	repo workoutsRepo
	now  func() time.Time
}

func NewAnalyzer(repo workoutsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
		now:  time.Now,
	}
}

// Dashboard computes the aggregate view for the given year.
func (a *Analyzer) Dashboard(ctx context.Context, year int) (_ *DashboardReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.Int("year", year))

	all, err := a.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	var yearWorkouts []Workout
	for _, w := range all {
		if d, err := ParseDate(w.Date); err == nil && d.Year() == year {
			yearWorkouts = append(yearWorkouts, w)
		}
	}

	now := a.now()
	report := &DashboardReport{
		Year:       year,
		Total:      len(yearWorkouts),
		AvgPerWeek: AvgPerWeek(yearWorkouts),
		YearToDate: year == now.Year(),
		Stats:      CalculateStats(yearWorkouts),
	}

	if report.YearToDate {
		weekStart := StartOfWeek(now.In(time.UTC))
		monthStart := time.Date(year, now.Month(), 1, 0, 0, 0, 0, time.UTC)
		for _, w := range yearWorkouts {
			d, err := ParseDate(w.Date)
			if err != nil {
				continue
			}
			if !d.Before(weekStart) {
				report.ThisWeek++
			}
			if !d.Before(monthStart) {
				report.ThisMonth++
			}
		}
	}

	return report, nil
}

// CompareYearToDate compares two years of workouts, truncating to a
// fair year-to-date range when one of them is the current year.
func (a *Analyzer) CompareYearToDate(ctx context.Context, yearA, yearB int) (_ *ComparisonReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.compareYears")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.Int("year_a", yearA), attribute.Int("year_b", yearB))

	all, err := a.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	return CompareYears(all, yearA, yearB, a.now()), nil
}
