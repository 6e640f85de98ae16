package workouts

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Workout is a single logged workout entry. Entries are immutable once
// logged - only deletion and recreation are supported.
type Workout struct {
	ID         string      `json:"id"`
	Date       string      `json:"date"` // YYYY-MM-DD, the record's time axis and sort key
	Categories []Category  `json:"categories"`
	GymSubs    []GymSub    `json:"gymSubs"`
	CardioSubs []CardioSub `json:"cardioSubs"`
	Notes      string      `json:"notes"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Category can be one of:
//   - Gym
//   - Cardio
//   - HIIT
//   - Yoga
//   - Pilates
//   - Other
type Category string

const (
	CategoryGym     Category = "Gym"
	CategoryCardio  Category = "Cardio"
	CategoryHIIT    Category = "HIIT"
	CategoryYoga    Category = "Yoga"
	CategoryPilates Category = "Pilates"
	CategoryOther   Category = "Other"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryGym,
		CategoryCardio,
		CategoryHIIT,
		CategoryYoga,
		CategoryPilates,
		CategoryOther:
		return true
	default:
		return false
	}
}

// GymSub is a gym sub-tag, meaningful only when the workout
// categories include Gym.
type GymSub string

const (
	GymSubChest GymSub = "Chest"
	GymSubBack  GymSub = "Back"
	GymSubLegs  GymSub = "Legs"
	GymSubArms  GymSub = "Arms"
	GymSubAbs   GymSub = "Abs"
)

func (gs GymSub) String() string {
	return string(gs)
}

func (gs GymSub) IsValid() bool {
	switch gs {
	case GymSubChest, GymSubBack, GymSubLegs, GymSubArms, GymSubAbs:
		return true
	default:
		return false
	}
}

// CardioSub is a cardio sub-tag, meaningful only when the workout
// categories include Cardio.
type CardioSub string

const (
	CardioSubRun    CardioSub = "Run"
	CardioSubStairs CardioSub = "Stairs"
	CardioSubBike   CardioSub = "Bike"
	CardioSubWalk   CardioSub = "Walk"
)

func (cs CardioSub) String() string {
	return string(cs)
}

func (cs CardioSub) IsValid() bool {
	switch cs {
	case CardioSubRun, CardioSubStairs, CardioSubBike, CardioSubWalk:
		return true
	default:
		return false
	}
}

var (
	AllCategories = []Category{
		CategoryGym, CategoryCardio, CategoryHIIT,
		CategoryYoga, CategoryPilates, CategoryOther,
	}
	AllGymSubs = []GymSub{
		GymSubChest, GymSubBack, GymSubLegs, GymSubArms, GymSubAbs,
	}
	AllCardioSubs = []CardioSub{
		CardioSubRun, CardioSubStairs, CardioSubBike, CardioSubWalk,
	}
)

// NewWorkoutID returns a fresh opaque workout id: a base-36 unix milli
// prefix plus a random hex suffix. No global registry - collisions are
// possible only in theory.
func NewWorkoutID() string {
	prefix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return prefix + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return prefix + hex.EncodeToString(suffix)
}

// Fingerprint builds a stable deduplication key from the workout date,
// tags and notes. Tag order, ID and Timestamp do not affect the result.
// Two workouts with the same fingerprint are considered duplicates
// during import, even when they come from genuinely separate logging
// events.
func (w Workout) Fingerprint() string {
	cats := make([]string, len(w.Categories))
	for i, c := range w.Categories {
		cats[i] = string(c)
	}
	gymSubs := make([]string, len(w.GymSubs))
	for i, gs := range w.GymSubs {
		gymSubs[i] = string(gs)
	}
	cardioSubs := make([]string, len(w.CardioSubs))
	for i, cs := range w.CardioSubs {
		cardioSubs[i] = string(cs)
	}

	sort.Strings(cats)
	sort.Strings(gymSubs)
	sort.Strings(cardioSubs)

	return strings.Join([]string{
		w.Date,
		strings.Join(cats, "|"),
		strings.Join(gymSubs, "|"),
		strings.Join(cardioSubs, "|"),
		w.Notes,
	}, "::")
}
