package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/tracing"
)

var ErrInvalidWorkout = errors.New("invalid workout")

// Service implements the workout log operations on top of a storage
// backend. Every mutation is a load-modify-save of the whole
// collection, guarded by a mutex, so concurrent requests never lose
// each other's writes.
type Service struct {
	mutex sync.Mutex
	repo  Api
	now   func() time.Time
}

func NewService(repo Api) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Add validates and stores a new workout. The id and timestamp of the
// input are ignored, fresh ones are assigned. Gym and cardio sub-tags
// are dropped when their parent category is not present.
func (s *Service) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateWorkout(workout); err != nil {
		return nil, err
	}

	if !hasCategory(workout.Categories, CategoryGym) {
		workout.GymSubs = nil
	}
	if !hasCategory(workout.Categories, CategoryCardio) {
		workout.CardioSubs = nil
	}

	workout.ID = NewWorkoutID()
	workout.Timestamp = s.now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	all = append(all, workout)
	if err := s.repo.SaveAll(ctx, all); err != nil {
		return nil, fmt.Errorf("save workouts: %w", err)
	}

	return &workout, nil
}

// Delete removes the workout with the given id, or returns
// ErrWorkoutNotFound when no workout has it.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load workouts: %w", err)
	}

	kept := all[:0:0]
	for _, w := range all {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(all) {
		return ErrWorkoutNotFound
	}

	if err := s.repo.SaveAll(ctx, kept); err != nil {
		return fmt.Errorf("save workouts: %w", err)
	}

	return nil
}

// List returns one page of workouts, newest date first, together with
// the total count. Page numbers start at 1. A page past the end is
// empty, not an error.
func (s *Service) List(ctx context.Context, page, size int) (_ []Workout, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if page < 1 || size < 1 {
		return nil, 0, fmt.Errorf("%w: page and size must be positive", ErrInvalidWorkout)
	}

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load workouts: %w", err)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date > all[j].Date
		}
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	from := (page - 1) * size
	if from >= len(all) {
		return []Workout{}, len(all), nil
	}
	to := from + size
	if to > len(all) {
		to = len(all)
	}

	return all[from:to], len(all), nil
}

// OnDay returns all workouts logged on the given date.
func (s *Service) OnDay(ctx context.Context, date string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.onday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWorkout, err)
	}

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	dayWorkouts := []Workout{}
	for _, w := range all {
		if w.Date == date {
			dayWorkouts = append(dayWorkouts, w)
		}
	}

	return dayWorkouts, nil
}

// Years returns the distinct years present in the log, newest first.
func (s *Service) Years(ctx context.Context) (_ []int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.years")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	yearsSet := make(map[int]struct{})
	for _, w := range all {
		d, err := ParseDate(w.Date)
		if err != nil {
			continue
		}
		yearsSet[d.Year()] = struct{}{}
	}

	years := make([]int, 0, len(yearsSet))
	for y := range yearsSet {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	return years, nil
}

// ImportCSV runs a CSV import against the current collection and
// appends whatever came out of it.
func (s *Service) ImportCSV(ctx context.Context, text string) (_ *ImportResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.import.csv")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	result := ImportCSV(text, all)
	if len(result.ImportedWorkouts) > 0 {
		all = append(all, result.ImportedWorkouts...)
		if err := s.repo.SaveAll(ctx, all); err != nil {
			return nil, fmt.Errorf("save workouts: %w", err)
		}
	}

	return result, nil
}

// ImportJSON runs a JSON import against the current collection and
// appends whatever came out of it. A payload that is not a JSON array
// fails the whole run.
func (s *Service) ImportJSON(ctx context.Context, payload []byte) (_ *ImportResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.import.json")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	result, err := ImportJSON(payload, all)
	if err != nil {
		return nil, err
	}

	if len(result.ImportedWorkouts) > 0 {
		all = append(all, result.ImportedWorkouts...)
		if err := s.repo.SaveAll(ctx, all); err != nil {
			return nil, fmt.Errorf("save workouts: %w", err)
		}
	}

	return result, nil
}

// Export returns the whole collection as indented JSON, suitable as a
// backup that ImportJSON accepts back.
func (s *Service) Export(ctx context.Context) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.export")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	exportJson, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal workouts: %w", err)
	}

	return exportJson, nil
}

func validateWorkout(workout Workout) error {
	if _, err := ParseDate(workout.Date); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWorkout, err)
	}
	if len(workout.Categories) == 0 {
		return fmt.Errorf("%w: at least one category required", ErrInvalidWorkout)
	}
	for _, c := range workout.Categories {
		if !c.IsValid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidWorkout, c)
		}
	}
	for _, gs := range workout.GymSubs {
		if !gs.IsValid() {
			return fmt.Errorf("%w: unknown gym subcategory %q", ErrInvalidWorkout, gs)
		}
	}
	for _, cs := range workout.CardioSubs {
		if !cs.IsValid() {
			return fmt.Errorf("%w: unknown cardio subcategory %q", ErrInvalidWorkout, cs)
		}
	}
	return nil
}

func hasCategory(categories []Category, target Category) bool {
	for _, c := range categories {
		if c == target {
			return true
		}
	}
	return false
}
