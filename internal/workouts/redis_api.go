package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const redisKeyWorkouts = "fitlog::workouts"

// RedisApi persists the workouts collection as one JSON value under a
// single redis key.
type RedisApi struct {
	client *redis.Client
}

func NewRedisApi(client *redis.Client) *RedisApi {
	return &RedisApi{
		client: client,
	}
}

func (api *RedisApi) LoadAll(ctx context.Context) ([]Workout, error) {
	workoutsJson, err := api.client.Get(ctx, redisKeyWorkouts).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Workout{}, nil
		}
		return nil, fmt.Errorf("get workouts key: %w", err)
	}

	var workouts []Workout
	if err := json.Unmarshal([]byte(workoutsJson), &workouts); err != nil {
		return nil, fmt.Errorf("unmarshal workouts: %w", err)
	}

	return workouts, nil
}

func (api *RedisApi) SaveAll(ctx context.Context, workouts []Workout) error {
	workoutsJson, err := json.Marshal(workouts)
	if err != nil {
		return fmt.Errorf("marshal workouts: %w", err)
	}

	if err := api.client.Set(ctx, redisKeyWorkouts, workoutsJson, 0).Err(); err != nil {
		return fmt.Errorf("set workouts key: %w", err)
	}

	return nil
}
