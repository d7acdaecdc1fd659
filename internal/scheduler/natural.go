package scheduler

import "unicode"

// naturalLess orders lesson labels the way a person would: "lesson2" before
// "lesson10". It walks both strings run by run, where a run is a maximal
// span of digits or a maximal span of non-digits; digit runs compare by
// numeric value (leading zeros aside), everything else compares as plain
// text. No ecosystem dependency in this module's stack offers this, so it
// is implemented directly against strings/runes rather than pulled in from
// elsewhere.
func naturalLess(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		switch {
		case unicode.IsDigit(ca) && unicode.IsDigit(cb):
			na, nextI := scanDigitRun(ra, i)
			nb, nextJ := scanDigitRun(rb, j)
			if na != nb {
				return na < nb
			}
			i, j = nextI, nextJ
		default:
			if ca != cb {
				return ca < cb
			}
			i++
			j++
		}
	}
	return len(ra)-i < len(rb)-j
}

// scanDigitRun reads the maximal run of digits starting at i and returns its
// numeric value (ignoring any leading zeros) plus the index just past it.
func scanDigitRun(r []rune, i int) (int64, int) {
	start := i
	for i < len(r) && unicode.IsDigit(r[i]) {
		i++
	}
	var n int64
	for _, d := range r[start:i] {
		n = n*10 + int64(d-'0')
	}
	return n, i
}
