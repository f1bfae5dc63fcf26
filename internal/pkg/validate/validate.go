package validate

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

const maxInputLength = 1000

// Booking amounts are integers in minor currency units.
const (
	MinAmount = 100
	MaxAmount = 10_000_000
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^[+]?[0-9\s\-()]+$`)
)

// SanitizeInput trims whitespace, strips angle brackets and caps the length.
func SanitizeInput(input string) string {
	s := strings.TrimSpace(input)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	if len(s) > maxInputLength {
		s = s[:maxInputLength]
	}
	return s
}

// Email reports whether the string looks like an email address.
func Email(email string) bool {
	return emailRegex.MatchString(email)
}

// Phone reports whether the string looks like a phone number.
// Requires at least 10 characters to rule out obvious typos.
func Phone(phone string) bool {
	return phoneRegex.MatchString(phone) && len(phone) >= 10
}

// Amount reports whether the amount is within the accepted booking range.
func Amount(amount int64) bool {
	return amount >= MinAmount && amount <= MaxAmount
}

// SecureReference generates an uppercase reference id for payments,
// combining a timestamp with a random suffix.
func SecureReference(prefix string) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return strings.ToUpper(fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), b))
}
