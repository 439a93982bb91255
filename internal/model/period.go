package model

import "fmt"

// Period is the chart lookback window selected by the operator.
type Period string

const (
	Period1D  Period = "1d"
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
)

// ParsePeriod validates a period token.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Period1D, Period1Mo, Period3Mo, Period6Mo, Period1Y, Period2Y:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Interval returns the bar interval implied by the period: finer bars for
// shorter windows, daily bars otherwise.
func (p Period) Interval() string {
	switch p {
	case Period1D:
		return "1m"
	case Period1Mo, Period3Mo:
		return "15m"
	default:
		return "1d"
	}
}

func (p Period) String() string { return string(p) }
