package whatsapp

import (
	"fmt"
	"strings"
)

// CountryCode is the calling code of the only supported locale (Brazil).
const CountryCode = "55"

// Reasons reported by NormalizationError. They double as metric labels.
const (
	ReasonEmpty      = "empty"
	ReasonLength     = "length"
	ReasonCountry    = "country_code"
	ReasonAreaCode   = "area_code"
	ReasonSubscriber = "subscriber"
)

// NormalizationError reports a stored phone that does not fit any recognized
// length profile.
type NormalizationError struct {
	Input  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize phone %q: %s", e.Input, e.Reason)
}

// areaCodes holds the assigned Brazilian DDD codes.
var areaCodes = map[string]bool{
	"11": true, "12": true, "13": true, "14": true, "15": true, "16": true, "17": true, "18": true, "19": true,
	"21": true, "22": true, "24": true, "27": true, "28": true,
	"31": true, "32": true, "33": true, "34": true, "35": true, "37": true, "38": true,
	"41": true, "42": true, "43": true, "44": true, "45": true, "46": true, "47": true, "48": true, "49": true,
	"51": true, "53": true, "54": true, "55": true,
	"61": true, "62": true, "63": true, "64": true, "65": true, "66": true, "67": true, "68": true, "69": true,
	"71": true, "73": true, "74": true, "75": true, "77": true, "79": true,
	"81": true, "82": true, "83": true, "84": true, "85": true, "86": true, "87": true, "88": true, "89": true,
	"91": true, "92": true, "93": true, "94": true, "95": true, "96": true, "97": true, "98": true, "99": true,
}

// Normalize turns a freeform stored phone into its canonical digits-only
// international form: 55 + DDD + subscriber, 12 digits for landlines and
// 13 digits for mobiles.
//
// Mobiles stored before the ninth-digit migration (DDD + 8 digits starting
// with 6-9) get the leading 9 inserted after the area code. Eight-digit
// subscribers starting with 2-5 are landlines and are kept as they are.
func Normalize(raw string) (string, error) {
	digits := onlyDigits(raw)
	if digits == "" {
		return "", &NormalizationError{Input: raw, Reason: ReasonEmpty}
	}
	digits = stripDialPrefix(digits)

	var national string
	switch len(digits) {
	case 12, 13:
		if !strings.HasPrefix(digits, CountryCode) {
			return "", &NormalizationError{Input: raw, Reason: ReasonCountry}
		}
		national = digits[len(CountryCode):]
	case 10, 11:
		national = digits
	default:
		return "", &NormalizationError{Input: raw, Reason: ReasonLength}
	}

	ddd, subscriber := national[:2], national[2:]
	if !areaCodes[ddd] {
		return "", &NormalizationError{Input: raw, Reason: ReasonAreaCode}
	}

	switch len(subscriber) {
	case 9:
		if subscriber[0] != '9' {
			return "", &NormalizationError{Input: raw, Reason: ReasonSubscriber}
		}
	case 8:
		switch {
		case subscriber[0] >= '6':
			subscriber = "9" + subscriber
		case subscriber[0] >= '2':
			// landline
		default:
			return "", &NormalizationError{Input: raw, Reason: ReasonSubscriber}
		}
	}

	return CountryCode + ddd + subscriber, nil
}

// IsCanonical reports whether phone is already in canonical form.
func IsCanonical(phone string) bool {
	if phone == "" || onlyDigits(phone) != phone {
		return false
	}
	n, err := Normalize(phone)
	return err == nil && n == phone
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripDialPrefix removes the international access prefix (00) or the
// national trunk prefix (0, optionally followed by a two-digit carrier code).
func stripDialPrefix(d string) string {
	switch {
	case strings.HasPrefix(d, "00"):
		return d[2:]
	case d[0] == '0' && (len(d) == 11 || len(d) == 12):
		return d[1:]
	case d[0] == '0' && (len(d) == 13 || len(d) == 14):
		return d[3:]
	}
	return d
}
