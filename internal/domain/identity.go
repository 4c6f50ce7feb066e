package domain

import (
	"regexp"
	"time"
)

const (
	// DefaultAccessStart is the access window start assigned to new enrollments.
	DefaultAccessStart = "00:00"
	// DefaultAccessEnd is the access window end assigned to new enrollments.
	DefaultAccessEnd = "23:59"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Identity representa uma identidade cadastrada na galeria
type Identity struct {
	Name        string    `json:"name"`
	Embedding   []float64 `json:"-"`
	Thumbnail   []byte    `json:"-"`
	AccessStart string    `json:"access_start"`
	AccessEnd   string    `json:"access_end"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Window returns the identity's daily access window.
func (i *Identity) Window() AccessWindow {
	return AccessWindow{Start: i.AccessStart, End: i.AccessEnd}
}

// AccessWindow is a daily time-of-day range in zero-padded "HH:MM" form.
// Zero-padded clock strings compare correctly as time-of-day, so the
// window check is plain lexicographic comparison.
type AccessWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultAccessWindow returns the full-day window for new enrollments.
func DefaultAccessWindow() AccessWindow {
	return AccessWindow{Start: DefaultAccessStart, End: DefaultAccessEnd}
}

// Contains reports whether now (zero-padded "HH:MM") falls inside the
// window, inclusive on both ends. A window with Start > End spans
// midnight and is never satisfied; same-day windows only.
func (w AccessWindow) Contains(now string) bool {
	return w.Start <= now && now <= w.End
}

// Valid reports whether both bounds are well-formed clock strings.
func (w AccessWindow) Valid() bool {
	return ValidClock(w.Start) && ValidClock(w.End)
}

// ValidClock reports whether s is a zero-padded "HH:MM" time-of-day.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ClockOf formats t as a zero-padded "HH:MM" time-of-day string.
func ClockOf(t time.Time) string {
	return t.Format("15:04")
}
