// Package progress tracks lecture completion per course and derives the
// course progress percentage from it.
package progress

// Percent returns round(100*completed/total), rounding halves up, or 0 when
// total is not positive. completed is clamped to [0, total].
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return (200*completed + total) / (2 * total)
}
