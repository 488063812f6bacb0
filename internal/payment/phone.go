package payment

import (
	"regexp"
	"slices"
	"strings"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

var phonePattern = regexp.MustCompile(`^(\+225|00225|0)?[0-9]{10}$`)

// CleanPhone drops whitespace and the punctuation people type in numbers.
func CleanPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '(', ')', '.':
			return -1
		}
		return r
	}, phone)
}

// ValidatePhone checks the number format and, when prefixes is non-empty,
// that the national number starts with one of them. It returns the cleaned number.
func ValidatePhone(phone string, method domain.PaymentMethod, prefixes []string) (string, error) {
	clean := CleanPhone(phone)
	if !phonePattern.MatchString(clean) {
		return "", &ValidationError{Reason: ReasonInvalidFormat, Provider: method}
	}

	if len(prefixes) == 0 {
		return clean, nil
	}

	national := clean[len(clean)-10:]
	if !slices.Contains(prefixes, national[:2]) {
		return "", &ValidationError{Reason: ReasonPrefixMismatch, Provider: method}
	}
	return clean, nil
}
