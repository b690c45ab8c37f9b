package updater

import (
	"freshen/internal/store"
)

// Due reports whether an update cycle should run now. It is true on first
// run (no usable marker) and stays true from the day the interval elapses
// until a cycle completes and rewrites the marker. Pure read; no side
// effects.
func (u *Updater) Due() bool {
	last, ok := store.LoadMarker(u.MarkerPath)
	if !ok {
		return true
	}
	return store.DayNumber(u.now())-last >= u.IntervalDays
}

// Status is the evaluator's state, exposed for display.
type Status struct {
	HasMarker    bool `json:"hasMarker"`
	MarkerDay    int  `json:"markerDay"`
	DaysSince    int  `json:"daysSince"`
	IntervalDays int  `json:"intervalDays"`
	Due          bool `json:"due"`
}

func (u *Updater) Status() Status {
	st := Status{IntervalDays: u.IntervalDays}
	last, ok := store.LoadMarker(u.MarkerPath)
	if !ok {
		st.Due = true
		return st
	}
	st.HasMarker = true
	st.MarkerDay = last
	st.DaysSince = store.DayNumber(u.now()) - last
	st.Due = st.DaysSince >= u.IntervalDays
	return st
}
