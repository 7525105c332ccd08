// Package util provides small formatting helpers shared by the CLI and
// the dashboard.
package util

import "strconv"

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Count renders a count with its noun, e.g. "1 staker" or "3 stakers".
func Count(n int, singular, plural string) string {
	return strconv.Itoa(n) + " " + Pluralize(n, singular, plural)
}

// Stakers is Count for the noun used everywhere in nstake.
func Stakers(n int) string {
	return Count(n, "staker", "stakers")
}
