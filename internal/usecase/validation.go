package usecase

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// DefaultCurrency is used when a payment request omits the currency.
const DefaultCurrency = "usd"

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail performs a light-weight syntactic check.
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidateAmount accepts positive money values with at most two decimals.
func ValidateAmount(amount float64) bool {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return false
	}
	cents := amount * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// NormalizeCurrency lowercases the code and falls back to the default.
// Returns empty string for malformed codes.
func NormalizeCurrency(currency string) string {
	if currency == "" {
		return DefaultCurrency
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return ""
	}
	for _, r := range currency {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return currency
}

// Slugify derives a URL-friendly slug from a category name.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(strings.ToLower(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
