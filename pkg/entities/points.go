package entities

import (
	"strconv"
)

// Points is a hand score in half-point units, so the 20.5 special is exact.
// Points(42) is 21.
type Points int

// Whole converts an integer total to Points
func Whole(total int) Points {
	return Points(total * 2)
}

const (
	// TwentyOne is the best ordinary total
	TwentyOne = Points(42)
	// TwentyPointFive is the score of a two-card hand totalling 14
	TwentyPointFive = Points(41)
)

// Float returns the score as a float for display
func (p Points) Float() float64 {
	return float64(p) / 2
}

// String formats whole scores without a decimal point
func (p Points) String() string {
	if p%2 == 0 {
		return strconv.Itoa(int(p) / 2)
	}
	return strconv.FormatFloat(p.Float(), 'f', 1, 64)
}

// MarshalJSON writes the score as a JSON number, 20.5 or 21
func (p Points) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON reads a JSON number written by MarshalJSON
func (p *Points) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*p = Points(f * 2)
	return nil
}
