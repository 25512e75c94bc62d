package discovery

import "strings"

// decodeEscapedASCII expands the \DDD escapes avahi-browse uses in service
// names, where DDD is one to three decimal digits naming a code point
// ("\032" is a space). A backslash not followed by a digit passes through
// unchanged. Values above 255 are outside the single-byte range avahi
// emits and yield a DecodeError.
func decodeEscapedASCII(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}

		// Consume up to three decimal digits after the backslash
		j := i + 1
		for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i+1 {
			// Not an escape sequence, keep the backslash as-is
			b.WriteByte(s[i])
			i++
			continue
		}

		code := 0
		for _, d := range s[i+1 : j] {
			code = code*10 + int(d-'0')
		}
		if code > 255 {
			return "", &DecodeError{
				Type:  ErrTypeBadEscape,
				Field: s[i:j],
			}
		}

		b.WriteRune(rune(code))
		i = j
	}

	return b.String(), nil
}
