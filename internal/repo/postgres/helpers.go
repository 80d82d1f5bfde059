package postgres

import (
	"encoding/json"
	"time"

	"github.com/geocoder89/worklog/internal/domain/exercise"
)

// timestamptz keeps microseconds; truncate so the value we return equals
// the value a later read returns.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func decodeExercises(raw []byte) ([]exercise.Entry, error) {
	var out []exercise.Entry
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
	}
	return exercise.Normalize(out), nil
}
