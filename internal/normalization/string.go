package normalization

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// SubjectFolder turns a display subject like "Theory of Computation" into the
// storage folder segment "theory_of_computation". Whitespace runs collapse to a
// single underscore.
func SubjectFolder(subject string) string {
	trimmed := strings.TrimSpace(subject)
	return strings.ToLower(whitespaceRe.ReplaceAllString(trimmed, "_"))
}
