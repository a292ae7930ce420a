package utils

import "strings"

// NormalizePhone canonicalizes a destination number to "+<digits>": spaces and
// dashes are stripped and a single leading "+" is ensured. Normalizing an
// already-normalized number is a no-op.
func NormalizePhone(number string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "+", "").Replace(number)
	if cleaned == "" {
		return ""
	}
	return "+" + cleaned
}
