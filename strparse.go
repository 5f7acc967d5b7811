package jxc

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// decodeQuotedString processes the JSON-style escape set plus \xNN,
// \uNNNN, and \U00NNNNNN extensions, as described in spec.md §4.1.
// body is the string content between the quotes, already stripped of
// its delimiters.
func decodeQuotedString(body string) (string, error) {
	var b strings.Builder
	b.Grow(len(body))
	i := 0
	for i < len(body) {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("unterminated escape sequence")
		}
		esc := body[i+1]
		switch esc {
		case '"':
			b.WriteByte('"')
			i += 2
		case '\'':
			b.WriteByte('\'')
			i += 2
		case '\\':
			b.WriteByte('\\')
			i += 2
		case '/':
			b.WriteByte('/')
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 'b':
			b.WriteByte('\b')
			i += 2
		case 'f':
			b.WriteByte('\f')
			i += 2
		case '0':
			b.WriteByte(0)
			i += 2
		case 'x':
			if i+4 > len(body) {
				return "", fmt.Errorf("truncated \\x escape")
			}
			v, err := strconv.ParseUint(body[i+2:i+4], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape: %w", err)
			}
			b.WriteByte(byte(v))
			i += 4
		case 'u':
			if i+6 > len(body) {
				return "", fmt.Errorf("truncated \\u escape")
			}
			v, err := strconv.ParseUint(body[i+2:i+6], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %w", err)
			}
			b.WriteRune(rune(v))
			i += 6
		case 'U':
			if i+10 > len(body) {
				return "", fmt.Errorf("truncated \\U escape")
			}
			v, err := strconv.ParseUint(body[i+2:i+10], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\U escape: %w", err)
			}
			b.WriteRune(rune(v))
			i += 10
		default:
			return "", fmt.Errorf("unknown escape sequence: \\%c", esc)
		}
	}
	return b.String(), nil
}

// decodeBase64String decodes a b64"..." payload. Per spec.md §4.1/§9,
// whitespace and an optional outer parenthesis pair inside the quotes
// are tolerated and stripped before decoding.
func decodeBase64String(body string) ([]byte, error) {
	s := strings.TrimSpace(body)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return decoded, nil
}

// DateTimeValue is the decoded form of a dt"..." literal: either a
// plain date, or a date+time optionally carrying a UTC/offset zone.
type DateTimeValue struct {
	Time     time.Time
	HasTime  bool // false when only a date (YYYY-MM-DD) was given
	HasZone  bool // true when a trailing Z or +-hh:mm offset was present
	IsUTCTag bool // true specifically when the zone was the literal "Z"
}

const (
	dateOnlyLayout  = "2006-01-02"
	dateTimeLayoutZ = "2006-01-02T15:04:05Z07:00"
	dateTimeNaive   = "2006-01-02T15:04:05"
)

// decodeDateTimeString parses the ISO-8601 date or datetime payload of
// a dt"..." literal per spec.md §4.1. No leading/trailing whitespace
// is permitted inside the quotes.
func decodeDateTimeString(body string) (DateTimeValue, error) {
	if body == "" {
		return DateTimeValue{}, fmt.Errorf("empty datetime literal")
	}
	if body != strings.TrimSpace(body) {
		return DateTimeValue{}, fmt.Errorf("datetime literal must not contain leading or trailing whitespace")
	}
	if !strings.Contains(body, "T") {
		t, err := time.Parse(dateOnlyLayout, body)
		if err != nil {
			return DateTimeValue{}, fmt.Errorf("invalid date literal %q: %w", body, err)
		}
		return DateTimeValue{Time: t, HasTime: false}, nil
	}

	hasZ := strings.HasSuffix(body, "Z")
	hasOffset := false
	if !hasZ {
		// Look for a +hh:mm or -hh:mm suffix after the time portion.
		if idx := strings.IndexAny(body[11:], "+-"); idx >= 0 {
			hasOffset = true
		}
	}

	switch {
	case hasZ || hasOffset:
		t, err := time.Parse(dateTimeLayoutZ, body)
		if err != nil {
			return DateTimeValue{}, fmt.Errorf("invalid datetime literal %q: %w", body, err)
		}
		return DateTimeValue{Time: t, HasTime: true, HasZone: true, IsUTCTag: hasZ}, nil
	default:
		t, err := time.Parse(dateTimeNaive, body)
		if err != nil {
			return DateTimeValue{}, fmt.Errorf("invalid datetime literal %q: %w", body, err)
		}
		return DateTimeValue{Time: t, HasTime: true, HasZone: false}, nil
	}
}

// isValidHeredocTagChar reports whether r may appear in a raw-heredoc
// tag label per spec.md §4.1: no paren, quote, backslash, or whitespace.
func isValidHeredocTagChar(r rune) bool {
	switch r {
	case '(', ')', '"', '\'', '\\', ' ', '\t', '\n', '\r':
		return false
	}
	return r > 0
}
