package checkout

import (
	"strings"

	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
)

// phoneDigits is the exact digit count a contact phone must normalize to.
const phoneDigits = 11

// NormalizePhone strips everything but ASCII digits from a raw phone string.
// Digits from other scripts are formatting noise, not phone digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone normalizes the raw phone and rejects it unless exactly eleven
// digits remain. Formatting punctuation in the input is irrelevant.
func ValidatePhone(raw string) (string, error) {
	digits := NormalizePhone(raw)
	if len(digits) != phoneDigits {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "контактный телефон должен содержать 11 цифр").
			WithDetails(map[string]any{"field": "phone"})
	}
	return digits, nil
}
