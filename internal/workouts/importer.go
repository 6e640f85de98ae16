package workouts

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidImportPayload = errors.New("invalid import payload")

var importDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ImportResult summarizes one import run. ImportedWorkouts carries the
// freshly created records, in source order, ready to be appended to
// the collection.
type ImportResult struct {
	ImportedWorkouts []Workout `json:"-"`
	Imported         int       `json:"imported"`
	Duplicates       int       `json:"duplicates"`
	Errors           int       `json:"errors"`
}

// ImportCSV parses the given CSV text and returns the new workouts
// found in it. Expected columns: date, categories, gym subs, cardio
// subs, notes, with multi-valued columns pipe-separated. A header row
// is skipped when the first line mentions "date". Rows that are
// malformed or carry an invalid date are counted as errors, rows whose
// fingerprint matches an existing workout or an earlier row of the
// same batch are counted as duplicates. A malformed row never aborts
// the run.
func ImportCSV(text string, existing []Workout) *ImportResult {
	result := &ImportResult{}

	seen := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		seen[w.Fingerprint()] = struct{}{}
	}

	// blank lines are dropped before the header check, so a leading
	// blank line does not hide the header
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	for i, line := range lines {
		if i == 0 && strings.Contains(strings.ToLower(line), "date") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			result.Errors++
			continue
		}

		date := strings.TrimSpace(parts[0])
		if !importDateRegex.MatchString(date) {
			result.Errors++
			continue
		}

		w := Workout{
			ID:         NewWorkoutID(),
			Date:       date,
			Categories: toCategories(splitTags(fieldAt(parts, 1))),
			GymSubs:    toGymSubs(splitTags(fieldAt(parts, 2))),
			CardioSubs: toCardioSubs(splitTags(fieldAt(parts, 3))),
			Notes:      strings.TrimSpace(fieldAt(parts, 4)),
			Timestamp:  time.Now(),
		}

		fingerprint := w.Fingerprint()
		if _, ok := seen[fingerprint]; ok {
			result.Duplicates++
			continue
		}
		seen[fingerprint] = struct{}{}

		result.ImportedWorkouts = append(result.ImportedWorkouts, w)
		result.Imported++
	}

	return result
}

type importedWorkout struct {
	Date       string    `json:"date"`
	Categories *[]string `json:"categories"`
	GymSubs    []string  `json:"gymSubs"`
	CardioSubs []string  `json:"cardioSubs"`
	Notes      string    `json:"notes"`
}

// ImportJSON parses the given JSON payload, which must be an array of
// workout objects, and returns the new workouts found in it. A payload
// that is not a JSON array fails the whole run with
// ErrInvalidImportPayload. Elements missing the date or the categories
// field are counted as errors, fingerprint matches as duplicates.
// Imported workouts always get a fresh id and timestamp, regardless of
// what the payload carries.
func ImportJSON(payload []byte, existing []Workout) (*ImportResult, error) {
	var rawWorkouts []json.RawMessage
	if err := json.Unmarshal(payload, &rawWorkouts); err != nil {
		return nil, ErrInvalidImportPayload
	}

	result := &ImportResult{}

	seen := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		seen[w.Fingerprint()] = struct{}{}
	}

	for _, raw := range rawWorkouts {
		var iw importedWorkout
		if err := json.Unmarshal(raw, &iw); err != nil {
			result.Errors++
			continue
		}
		if iw.Date == "" || iw.Categories == nil {
			result.Errors++
			continue
		}

		w := Workout{
			ID:         NewWorkoutID(),
			Date:       iw.Date,
			Categories: toCategories(*iw.Categories),
			GymSubs:    toGymSubs(iw.GymSubs),
			CardioSubs: toCardioSubs(iw.CardioSubs),
			Notes:      iw.Notes,
			Timestamp:  time.Now(),
		}

		fingerprint := w.Fingerprint()
		if _, ok := seen[fingerprint]; ok {
			result.Duplicates++
			continue
		}
		seen[fingerprint] = struct{}{}

		result.ImportedWorkouts = append(result.ImportedWorkouts, w)
		result.Imported++
	}

	return result, nil
}

func fieldAt(parts []string, i int) string {
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}

func splitTags(field string) []string {
	var tags []string
	for _, tag := range strings.Split(field, "|") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func toCategories(tags []string) []Category {
	var categories []Category
	for _, tag := range tags {
		categories = append(categories, Category(tag))
	}
	return categories
}

func toGymSubs(tags []string) []GymSub {
	var subs []GymSub
	for _, tag := range tags {
		subs = append(subs, GymSub(tag))
	}
	return subs
}

func toCardioSubs(tags []string) []CardioSub {
	var subs []CardioSub
	for _, tag := range tags {
		subs = append(subs, CardioSub(tag))
	}
	return subs
}
