package tabjson

import (
	"bytes"
	"strconv"
)

// rawField is one decoded key/value pair of a record, in source order.
// Duplicate keys are legal here; consumers resolve last-occurrence-wins.
type rawField struct {
	key string
	val Value
}

// tokenizeRecord parses exactly one `{...}` object from a record span into
// its ordered fields. Keys must be quoted strings and values JSON scalars.
// base is the span's offset in the whole input, for error reporting.
func tokenizeRecord(src []byte, base int) ([]rawField, error) {
	i := skipWS(src, 0)
	if i >= len(src) || src[i] != '{' {
		return nil, errAt(ErrMalformedRecord, base+i, "record must be an object")
	}
	i++

	var fields []rawField
	i = skipWS(src, i)
	if i < len(src) && src[i] == '}' {
		i++
		return fields, checkTrailing(src, i, base)
	}

	for {
		i = skipWS(src, i)
		if i >= len(src) {
			return nil, errAt(ErrMalformedRecord, base+i, "missing closing brace")
		}
		if src[i] != '"' {
			return nil, errAt(ErrMalformedRecord, base+i, "object key must be a quoted string")
		}
		key, next, err := unquoteString(src, i, base)
		if err != nil {
			return nil, err
		}
		i = skipWS(src, next)

		if i >= len(src) || src[i] != ':' {
			return nil, errAt(ErrMalformedRecord, base+i, "missing ':' after key %q", key)
		}
		i = skipWS(src, i+1)

		val, next, err := parseScalar(src, i, base)
		if err != nil {
			return nil, err
		}
		fields = append(fields, rawField{key: key, val: val})
		i = skipWS(src, next)

		if i >= len(src) {
			return nil, errAt(ErrMalformedRecord, base+i, "missing closing brace")
		}
		switch src[i] {
		case ',':
			i++
		case '}':
			return fields, checkTrailing(src, i+1, base)
		default:
			return nil, errAt(ErrMalformedRecord, base+i, "expected ',' or '}', got %q", src[i])
		}
	}
}

// parseScalar decodes one JSON scalar starting at src[i] and returns the
// value and the index just past it.
func parseScalar(src []byte, i, base int) (Value, int, error) {
	if i >= len(src) {
		return Value{}, i, errAt(ErrMalformedRecord, base+i, "missing value")
	}
	switch ch := src[i]; {
	case ch == '"':
		s, next, err := unquoteString(src, i, base)
		if err != nil {
			return Value{}, i, err
		}
		return Str(s), next, nil

	case ch == 't':
		if bytes.HasPrefix(src[i:], []byte("true")) {
			return Bool(true), i + 4, nil
		}
	case ch == 'f':
		if bytes.HasPrefix(src[i:], []byte("false")) {
			return Bool(false), i + 5, nil
		}
	case ch == 'n':
		if bytes.HasPrefix(src[i:], []byte("null")) {
			return Null(), i + 4, nil
		}

	case ch == '-' || (ch >= '0' && ch <= '9'):
		return parseNumber(src, i, base)

	case ch == '{' || ch == '[':
		return Value{}, i, errAt(ErrMalformedRecord, base+i, "non-scalar value (%q)", ch)
	}
	return Value{}, i, errAt(ErrMalformedRecord, base+i, "invalid value")
}

// parseNumber scans a JSON number. Integer literals keep full int64
// precision; anything with a fraction or exponent becomes float64.
func parseNumber(src []byte, i, base int) (Value, int, error) {
	j := i
	isFloat := false
	if j < len(src) && src[j] == '-' {
		j++
	}
	for j < len(src) {
		ch := src[j]
		switch {
		case ch >= '0' && ch <= '9':
			j++
		case ch == '.' || ch == 'e' || ch == 'E':
			isFloat = true
			j++
		case ch == '+' || ch == '-':
			// Only valid directly after an exponent marker.
			if !isFloat || (src[j-1] != 'e' && src[j-1] != 'E') {
				return Value{}, i, errAt(ErrMalformedRecord, base+j, "invalid number")
			}
			j++
		default:
			goto done
		}
	}
done:
	lit := string(src[i:j])
	if !isFloat {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(n), j, nil
		}
		// Out of int64 range: keep the value, at float precision.
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, i, errAt(ErrMalformedRecord, base+i, "invalid number %q", lit)
	}
	return Float(f), j, nil
}

// checkTrailing rejects non-whitespace content after the closing brace.
func checkTrailing(src []byte, i, base int) error {
	i = skipWS(src, i)
	if i < len(src) {
		return errAt(ErrMalformedRecord, base+i, "content after record")
	}
	return nil
}

func skipWS(src []byte, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}
