package exercise

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Entry is one planned or logged exercise. Order inside the owning
// workout/template is whatever the client submitted.
type Entry struct {
	Name   string `json:"name" bson:"name"`
	Sets   Count  `json:"sets" bson:"sets"`
	Reps   Count  `json:"reps" bson:"reps"`
	Weight Weight `json:"weight" bson:"weight"`
}

// Count is a non-negative integer decoded leniently: numbers are truncated,
// strings use their leading integer ("8 reps" -> 8), anything else is 0.
type Count int

func (c *Count) UnmarshalJSON(raw []byte) error {
	*c = Count(parseCount(raw))
	return nil
}

// Weight is deliberately free-form so clients can leave it blank or write "BW".
// JSON numbers are kept as their literal text.
type Weight string

func (w *Weight) UnmarshalJSON(raw []byte) error {
	v, err := decodeLoose(raw)
	if err != nil {
		*w = ""
		return nil
	}

	switch t := v.(type) {
	case string:
		*w = Weight(t)
	case json.Number:
		*w = Weight(t.String())
	default:
		*w = ""
	}
	return nil
}

// Normalize never returns nil so responses always carry an array.
func Normalize(in []Entry) []Entry {
	if in == nil {
		return []Entry{}
	}
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}

func parseCount(raw []byte) int {
	v, err := decodeLoose(raw)
	if err != nil {
		return 0
	}

	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return clamp(math.Trunc(f))
	case string:
		return leadingInt(t)
	default:
		return 0
	}
}

func decodeLoose(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0.0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + float64(r-'0')
		digits++
		if n > math.MaxInt32 {
			break
		}
	}

	if digits == 0 || neg {
		return 0
	}
	return clamp(n)
}

func clamp(f float64) int {
	switch {
	case f <= 0:
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	default:
		return int(f)
	}
}
