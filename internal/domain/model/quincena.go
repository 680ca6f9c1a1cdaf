package model

import "time"

// quincenaDay is the mid-month due point. The other due point of every month
// is its last calendar day.
const quincenaDay = 15

// NextQuincena returns the due date that follows date:
//
//	day < 15  -> the 15th of the same month
//	day == 15 -> the last day of the same month
//	day > 15  -> the 15th of the following month
//
// The time of day is discarded and the result is midnight UTC of the civil
// date, so a due date on the 15th advances to month end and a month-end due
// date advances to the 15th of the next month.
func NextQuincena(date time.Time) time.Time {
	y, m, d := date.Date()
	switch {
	case d < quincenaDay:
		return time.Date(y, m, quincenaDay, 0, 0, 0, 0, time.UTC)
	case d == quincenaDay:
		return endOfMonth(y, m)
	default:
		// time.Date normalises month 13 into January of the next year.
		return time.Date(y, m+1, quincenaDay, 0, 0, 0, 0, time.UTC)
	}
}

// FirstQuincena returns the first due date for a loan starting on start.
// Unlike NextQuincena the 15th is inclusive: a start on the 15th or on the
// last day of the month is already a due date and maps to itself.
func FirstQuincena(start time.Time) time.Time {
	y, m, d := start.Date()
	if d <= quincenaDay {
		return time.Date(y, m, quincenaDay, 0, 0, 0, 0, time.UTC)
	}
	return endOfMonth(y, m)
}

// CivilDate truncates t to midnight UTC of its calendar date.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(y int, m time.Month) time.Time {
	// Day 0 of the next month is the last day of m.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}
