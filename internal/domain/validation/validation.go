package validation

import "regexp"

// FieldErrors maps a form field name to the list of messages collected for it.
// Every field's failures are independent; callers accumulate all of them and
// block submission if any field has at least one.
type FieldErrors map[string][]string

// Add appends a message to the list for a field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Any returns true if at least one field has an error.
// INVARIANT: FieldErrors is not mutated
func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// First returns the first message recorded for a field, or "".
// INVARIANT: FieldErrors is not mutated
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// International format, no leading zero, 2-15 digits.
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// ValidEmail reports whether s matches standard email grammar.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s matches the E.164-like phone pattern.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}
