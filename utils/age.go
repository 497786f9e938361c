package utils

import "time"

// AgeInWeeks returns whole weeks between birth and now, 0 if birth is unset or in the future.
func AgeInWeeks(birth *time.Time, now time.Time) int {
	if birth == nil || birth.IsZero() || now.Before(*birth) {
		return 0
	}
	return int(now.Sub(*birth).Hours() / (24 * 7))
}
