// Package phone formats and validates Philippine mobile numbers as the user types them.
package phone

import "strings"

// Prefix is the Philippine country calling code.
const Prefix = "+63"

// canonicalLength is the length of a number in the form "+63 XXX XXX XXXX".
const canonicalLength = 16

// Format converts raw keystroke input into the canonical display format "+63 XXX XXX XXXX".
//
// All non-digit characters are stripped first. A local number of exactly 11 digits starting with
// "09" has its leading zero replaced by the country code and is then grouped 3, 3, 4. Any other
// input is returned unchanged, so that partially typed numbers can still be edited freely.
func Format(raw string) string {
	cleaned := digits(raw)
	if strings.HasPrefix(cleaned, "09") && len(cleaned) == 11 {
		cleaned = Prefix + cleaned[1:]
	}
	if strings.HasPrefix(cleaned, Prefix+"9") && len(cleaned) == 13 {
		return Prefix + " " + cleaned[3:6] + " " + cleaned[6:9] + " " + cleaned[9:]
	}
	return raw
}

// IsValid reports whether phone looks like a fully formatted Philippine number. Only the prefix
// and the length are checked, not whether the carrier prefix actually exists.
func IsValid(phone string) bool {
	return strings.HasPrefix(phone, Prefix) && len(phone) == canonicalLength
}

// digits returns s with every character that is not an ASCII digit removed.
func digits(s string) string {
	builder := strings.Builder{}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
