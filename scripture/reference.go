package scripture

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// referencePattern splits "1 John 3:16" into book part and chapter:verse,
	// anchoring on the final chapter:verse token so numbered book names survive.
	referencePattern = regexp.MustCompile(`^(.*) (\d+:\d+)$`)

	// rangePattern matches "Book Chapter:Start-End" ranges, e.g. "Genesis 4:5-8".
	rangePattern = regexp.MustCompile(`^(.+?\s+\d+):(\d+)-(\d+)$`)
)

// SplitReference breaks a single-verse reference into its book, chapter, and
// verse parts. ok is false when the reference does not end in a
// chapter:verse token.
func SplitReference(reference string) (book, chapter, verse string, ok bool) {
	m := referencePattern.FindStringSubmatch(strings.TrimSpace(reference))
	if m == nil {
		return "", "", "", false
	}
	cv := strings.SplitN(m[2], ":", 2)
	return m[1], cv[0], cv[1], true
}

// ExpandRange expands a ranged reference like "Genesis 4:5-8" into single
// verse references ("Genesis 4:5" through "Genesis 4:8"). A non-range
// reference comes back untouched as a one-element slice. An inverted range
// (start greater than end) yields an empty slice: nothing to quote.
func ExpandRange(reference string) []string {
	m := rangePattern.FindStringSubmatch(reference)
	if m == nil {
		return []string{reference}
	}

	start, err := strconv.Atoi(m[2])
	if err != nil {
		return []string{reference}
	}
	end, err := strconv.Atoi(m[3])
	if err != nil {
		return []string{reference}
	}

	verses := []string{}
	for i := start; i <= end; i++ {
		verses = append(verses, m[1]+":"+strconv.Itoa(i))
	}
	return verses
}
