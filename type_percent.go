package captable

import "fmt"

// Percent is a percentage expressed in the 0-100 range.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

// percentOf returns part/total*100, or 0 when total is 0.
func percentOf[T ~int64](part, total T) Percent {
	if total == 0 {
		return 0
	}
	return Percent(float64(part) / float64(total) * 100)
}
