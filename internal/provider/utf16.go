package provider

import (
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// EncodeUTF16 returns the UTF-16 code units of s.
func EncodeUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// DecodeJSONStringUTF16 decodes a raw JSON string literal, including its
// quotes, into UTF-16 code units. Unlike encoding/json it keeps unpaired
// \uD800-\uDFFF escapes as-is instead of replacing them, so a surrogate pair
// split across two streamed fragments can be rejoined by the caller.
func DecodeJSONStringUTF16(raw string) ([]uint16, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return nil, fmt.Errorf("not a JSON string: %.20q", raw)
	}
	s := raw[1 : len(raw)-1]
	out := make([]uint16, 0, len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(s[i:])
			out = utf16.AppendRune(out, r)
			i += size
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("truncated escape at offset %d", i)
		}
		switch s[i+1] {
		case '"', '\\', '/':
			out = append(out, uint16(s[i+1]))
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			if i+6 > len(s) {
				return nil, fmt.Errorf("truncated \\u escape at offset %d", i)
			}
			v, err := strconv.ParseUint(s[i+2:i+6], 16, 16)
			if err != nil {
				return nil, fmt.Errorf("invalid \\u escape at offset %d: %w", i, err)
			}
			out = append(out, uint16(v))
			i += 6
			continue
		default:
			return nil, fmt.Errorf("invalid escape \\%c at offset %d", s[i+1], i)
		}
		i += 2
	}
	return out, nil
}

// DecodeUTF16 converts code units to a string; unpaired surrogates become U+FFFD.
func DecodeUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}
