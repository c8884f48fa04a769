// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	nonDigitPattern = regexp.MustCompile(`\D`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// NormalizePhone converts a phone number to international format with a
// leading +. Bare 10-digit local numbers get the default country calling
// code prepended.
func NormalizePhone(phone, countryCode string) string {
	digits := nonDigitPattern.ReplaceAllString(phone, "")

	if strings.HasPrefix(digits, countryCode) && len(digits) == len(countryCode)+10 {
		return "+" + digits
	}
	if len(digits) == 10 {
		return "+" + countryCode + digits
	}
	if len(digits) > 10 {
		return "+" + digits
	}
	return phone
}

// ValidatePhone accepts a 10-digit local number or an international number
// carrying the default country code.
func ValidatePhone(phone, countryCode string) bool {
	digits := nonDigitPattern.ReplaceAllString(phone, "")

	if len(digits) == 10 {
		return true
	}
	if len(digits) == len(countryCode)+10 && strings.HasPrefix(digits, countryCode) {
		return true
	}
	return false
}

// ValidateEmail checks the address format. Empty is allowed since email is
// optional on registration forms.
func ValidateEmail(email string) bool {
	if email == "" {
		return true
	}
	return emailPattern.MatchString(email)
}

// SanitizeInput strips characters with markup or quoting significance from
// free-text form fields.
func SanitizeInput(text string) string {
	sanitized := strings.NewReplacer("<", "", ">", "", `"`, "", "'", "").Replace(text)
	return strings.TrimSpace(sanitized)
}
