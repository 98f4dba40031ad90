package weighting

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category length bounds, in runes.
const (
	minCategoryLen = 2
	maxCategoryLen = 50
)

// ReasonValid is the verdict Reason returns for an accepted candidate.
const ReasonValid = "valid"

var (
	purelyNumericRe = regexp.MustCompile(`^\d+$`)
	versionShapedRe = regexp.MustCompile(`^\d+\.\d+`)
	issueShapedRe   = regexp.MustCompile(`^#\d+$`)
)

// Validator decides whether an extracted candidate is a plausible
// business-domain category, filtering out version numbers, issue numbers
// and other numeric noise. preventNumeric mirrors the
// PREVENT_NUMERIC_CATEGORIES flag and defaults to on.
type Validator struct {
	preventNumeric bool
}

// NewValidator creates a validator. With preventNumeric disabled only the
// length and has-a-letter rules apply.
func NewValidator(preventNumeric bool) *Validator {
	return &Validator{preventNumeric: preventNumeric}
}

// Valid reports whether the candidate passes every rule.
func (v *Validator) Valid(candidate string) bool {
	return v.Reason(candidate) == ReasonValid
}

// Reason returns a human-readable verdict for the candidate. The rules are
// evaluated in a fixed order and the first failing rule names the rejection,
// so "#HASHTAG" is "starts with # symbol" rather than "contains no letters".
func (v *Validator) Reason(candidate string) string {
	if candidate == "" {
		return "empty"
	}
	length := utf8.RuneCountInString(candidate)
	if length > maxCategoryLen {
		return "too long (max 50 characters)"
	}
	if length < minCategoryLen {
		return "too short (min 2 characters)"
	}
	if v.preventNumeric {
		switch {
		case purelyNumericRe.MatchString(candidate):
			return "purely numeric"
		case versionShapedRe.MatchString(candidate):
			return "looks like a version number"
		case issueShapedRe.MatchString(candidate):
			return "looks like an issue number"
		case strings.HasPrefix(candidate, "#"):
			return "starts with # symbol"
		case digitRatio(candidate) > 0.5:
			return "mostly numeric"
		}
	}
	if !containsLetter(candidate) {
		return "contains no letters"
	}
	return ReasonValid
}

func digitRatio(s string) float64 {
	var digits, total int
	for _, r := range s {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(digits) / float64(total)
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
