package netifaceutil

import (
	"cmp"
	"strings"
)

// Compares two strings using the natural sort order. The strings are split
// into maximal runs of digits and non-digits and compared run by run. The
// non-digit runs are compared byte by byte. The digit runs are compared by
// their numeric value, so "swp2" sorts before "swp10". The digit runs with
// the same numeric value (e.g., "8" and "08") rank equally and the
// comparison continues with the next run. When all runs of the shorter
// string compare equal, the shorter string ranks first.
//
// The function returns a negative number when a < b, zero when a and b
// rank equally, and a positive number when a > b. It is a strict weak
// ordering, so it can be safely used with the slices.SortStableFunc.
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		runA, restA := nextNaturalRun(a)
		runB, restB := nextNaturalRun(b)

		var result int
		if isDigit(runA[0]) && isDigit(runB[0]) {
			result = compareNumericRuns(runA, runB)
		} else {
			result = strings.Compare(runA, runB)
		}
		if result != 0 {
			return result
		}
		a, b = restA, restB
	}
	// One of the strings is exhausted.
	return cmp.Compare(len(a), len(b))
}

// Returns true when a sorts before b in the natural order.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// Splits the string into the leading run of digits or non-digits and the
// rest of the string. The string must not be empty.
func nextNaturalRun(s string) (string, string) {
	digits := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

// Compares two runs of digits by their numeric values. It doesn't convert
// the runs to integers, so there is no limit on the number of digits.
func compareNumericRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if result := cmp.Compare(len(a), len(b)); result != 0 {
		return result
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
