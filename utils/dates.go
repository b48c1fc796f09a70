package utils

import "time"

// DateLayout is the date-only shape used on the API surface. Dates are
// stored as UTC timestamps and exchanged with clients as plain
// "YYYY-MM-DD" strings.
const DateLayout = "2006-01-02"

// ParseDate converts an API date string ("2024-03-15") into a UTC midnight
// timestamp. Empty strings map to nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// FormatDate converts a stored timestamp back into the API date string.
// Nil timestamps map to nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}
