package calendar

import (
	"math"
	"time"
)

// HoursPerDay converts elapsed hours into calendar days.
const HoursPerDay = 24.0

// InclusiveDays counts the days covered by a range, counting both ends.
// Order does not matter; a partial trailing day counts as a whole one.
func InclusiveDays(start, end time.Time) int {
	elapsed := math.Abs(end.Sub(start).Hours()) / HoursPerDay
	return int(math.Ceil(elapsed)) + 1
}

// DeductDays subtracts days from a balance, never going below zero.
func DeductDays(balance float64, days int) float64 {
	return math.Max(0, balance-float64(days))
}
