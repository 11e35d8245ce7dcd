package checkout

import "time"

// addBusinessDays walks forward the given number of business days, skipping
// Saturdays and Sundays.
func addBusinessDays(from time.Time, days int) time.Time {
	result := from
	for added := 0; added < days; {
		result = result.AddDate(0, 0, 1)
		if wd := result.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return result
}
