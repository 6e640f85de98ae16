package workouts

import (
	"context"
	"errors"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// Api is the persistence port for the workouts collection. The whole
// collection is loaded and saved as one unit, there is no per-record
// access. That keeps the backends trivial and makes every mutation an
// atomic swap of the collection.
type Api interface {
	LoadAll(ctx context.Context) ([]Workout, error)
	SaveAll(ctx context.Context, workouts []Workout) error
}
