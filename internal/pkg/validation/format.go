package validation

import "strings"

// FormatPhone normalizes digit-only input into the canonical dashed Thai
// form. Inputs with a leading 66 country code or a leading 0 local prefix
// become +66-XX-XXX-XXXX; anything unrecognized passes through unchanged.
func FormatPhone(input string) string {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case strings.HasPrefix(d, "66"):
		rest := d[2:]
		if len(rest) >= 9 {
			return "+66-" + rest[0:2] + "-" + rest[2:5] + "-" + rest[5:9]
		}
	case strings.HasPrefix(d, "0") && len(d) >= 10:
		rest := d[1:]
		return "+66-" + rest[0:2] + "-" + rest[2:5] + "-" + rest[5:9]
	}

	return input
}

// FormatOrderNumber upper-cases the input and prefixes ORD- when missing.
func FormatOrderNumber(input string) string {
	upper := strings.ToUpper(input)
	if !strings.HasPrefix(upper, "ORD-") {
		return "ORD-" + input
	}
	return upper
}
