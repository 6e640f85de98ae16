package workouts

import (
	"context"
	"sync"
)

// TestApi is an in-memory storage backend used in tests.
type TestApi struct {
	mutex    sync.Mutex
	workouts []Workout
}

func NewTestApi() *TestApi {
	return &TestApi{}
}

func (api *TestApi) LoadAll(_ context.Context) ([]Workout, error) {
	api.mutex.Lock()
	defer api.mutex.Unlock()
	workouts := make([]Workout, len(api.workouts))
	copy(workouts, api.workouts)
	return workouts, nil
}

func (api *TestApi) SaveAll(_ context.Context, workouts []Workout) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()
	api.workouts = make([]Workout, len(workouts))
	copy(api.workouts, workouts)
	return nil
}
