package textutil

import (
	"regexp"
	"time"
)

// DateField names the date component an increment/decrement targets.
type DateField int

const (
	FieldDay DateField = iota
	FieldMonth
	FieldYear
)

const isoLayout = "2006-01-02"

var isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// FindDateAt locates the ISO-8601 date (YYYY-MM-DD) substring of text
// that contains cursor or ends right at it, returning its [start, end)
// byte offsets. ok is false if no date covers or ends at cursor.
func FindDateAt(text string, cursor int) (start, end int, ok bool) {
	for _, loc := range isoDatePattern.FindAllStringIndex(text, -1) {
		if cursor >= loc[0] && cursor <= loc[1] {
			return loc[0], loc[1], true
		}
	}
	return 0, 0, false
}

// IncrementDate parses the ISO-8601 date s and adds delta to field,
// returning the reformatted date. Day/month overflow normalizes
// forward the way time.Date does: incrementing the year of
// 2020-02-29 yields 2021-03-01, since 2021 has no February 29th.
func IncrementDate(s string, field DateField, delta int) (string, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return "", err
	}

	year, month, day := t.Date()
	switch field {
	case FieldYear:
		year += delta
	case FieldMonth:
		month += time.Month(delta)
	case FieldDay:
		day += delta
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(isoLayout), nil
}
