package tabjson

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Format selects how records are delimited in the input.
type Format uint8

const (
	// FormatLines is NDJSON: one JSON object per non-blank line.
	FormatLines Format = iota
	// FormatArray is a single JSON array of objects.
	FormatArray
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatLines:
		return "json-lines"
	case FormatArray:
		return "json-array"
	default:
		return "unknown"
	}
}

// recordSpan locates one top-level JSON object in the input, with quote and
// escape state already resolved so no delimiter inside a string literal was
// mistaken for a boundary.
type recordSpan struct {
	start, end int
}

// Scanner string state. Brace depth is tracked separately and only while
// outside string literals.
type scanState uint8

const (
	stateOutside scanState = iota
	stateInString
	stateEscaped
)

// scanRecords walks the input once and returns the record spans for the
// given format. It never inspects record contents beyond quote, escape,
// brace and delimiter structure.
func scanRecords(input []byte, format Format) ([]recordSpan, error) {
	if format == FormatArray {
		return scanArray(input)
	}
	return scanLines(input)
}

// scanLines splits NDJSON input on line terminators seen outside strings at
// brace depth zero. Blank lines and whitespace around records are skipped.
func scanLines(input []byte) ([]recordSpan, error) {
	var spans []recordSpan
	state := stateOutside
	depth := 0
	start := -1 // first non-whitespace byte of the current record

	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch state {
		case stateInString:
			switch ch {
			case '\\':
				state = stateEscaped
			case '"':
				state = stateOutside
			}
		case stateEscaped:
			state = stateInString
		default: // stateOutside
			switch ch {
			case '\n':
				if depth != 0 {
					return nil, errAt(ErrUnbalancedBraces, i, "depth %d at line end", depth)
				}
				if start >= 0 {
					spans = append(spans, recordSpan{start, trimEnd(input, start, i)})
					start = -1
				}
			case ' ', '\t', '\r':
				// Whitespace between records is not part of any span.
			case '"':
				state = stateInString
				if start < 0 {
					start = i
				}
			case '{':
				depth++
				if start < 0 {
					start = i
				}
			case '}':
				depth--
				if depth < 0 {
					return nil, errAt(ErrUnbalancedBraces, i, "unexpected '}'")
				}
			default:
				if start < 0 {
					start = i
				}
			}
		}
	}

	if state != stateOutside {
		return nil, errAt(ErrUnterminatedString, len(input), "input ended inside string")
	}
	if depth != 0 {
		return nil, errAt(ErrUnbalancedBraces, len(input), "depth %d at end of input", depth)
	}
	if start >= 0 {
		spans = append(spans, recordSpan{start, trimEnd(input, start, len(input))})
	}
	return spans, nil
}

// scanArray splits a single top-level `[...]` on commas seen outside
// strings at brace depth zero inside the enclosing array.
func scanArray(input []byte) ([]recordSpan, error) {
	i := 0
	for i < len(input) && isSpace(input[i]) {
		i++
	}
	if i >= len(input) || input[i] != '[' {
		return nil, errAt(ErrMalformedRecord, i, "expected '[' to open array")
	}
	i++

	var spans []recordSpan
	state := stateOutside
	braceDepth := 0
	bracketDepth := 1
	start := -1

	closeSpan := func(end int) error {
		if braceDepth != 0 {
			return errAt(ErrUnbalancedBraces, end, "depth %d at record boundary", braceDepth)
		}
		if start < 0 {
			return errAt(ErrMalformedRecord, end, "empty record in array")
		}
		spans = append(spans, recordSpan{start, trimEnd(input, start, end)})
		start = -1
		return nil
	}

	for ; i < len(input); i++ {
		ch := input[i]
		switch state {
		case stateInString:
			switch ch {
			case '\\':
				state = stateEscaped
			case '"':
				state = stateOutside
			}
		case stateEscaped:
			state = stateInString
		default: // stateOutside
			switch ch {
			case ' ', '\t', '\r', '\n':
			case '"':
				state = stateInString
				if start < 0 {
					start = i
				}
			case '{':
				braceDepth++
				if start < 0 {
					start = i
				}
			case '}':
				braceDepth--
				if braceDepth < 0 {
					return nil, errAt(ErrUnbalancedBraces, i, "unexpected '}'")
				}
			case '[':
				bracketDepth++
				if start < 0 {
					start = i
				}
			case ']':
				bracketDepth--
				if bracketDepth == 0 {
					// End of the enclosing array. Empty array and trailing
					// comma leave no pending span.
					if start >= 0 {
						if err := closeSpan(i); err != nil {
							return nil, err
						}
					} else if braceDepth != 0 {
						return nil, errAt(ErrUnbalancedBraces, i, "depth %d at end of array", braceDepth)
					}
					for j := i + 1; j < len(input); j++ {
						if !isSpace(input[j]) {
							return nil, errAt(ErrMalformedRecord, j, "content after closing ']'")
						}
					}
					return spans, nil
				}
			case ',':
				if braceDepth == 0 && bracketDepth == 1 {
					if err := closeSpan(i); err != nil {
						return nil, err
					}
				} else if start < 0 {
					start = i
				}
			default:
				if start < 0 {
					start = i
				}
			}
		}
	}

	if state != stateOutside {
		return nil, errAt(ErrUnterminatedString, len(input), "input ended inside string")
	}
	return nil, errAt(ErrUnbalancedBraces, len(input), "array not closed")
}

// trimEnd backs the span end off trailing whitespace. The scanner only
// closes spans outside strings, so trailing whitespace is never literal.
func trimEnd(input []byte, start, end int) int {
	for end > start && isSpace(input[end-1]) {
		end--
	}
	return end
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// unquoteString decodes the string literal opening at src[i] (a '"') and
// returns the decoded text and the index just past the closing quote.
// base is the span's offset in the whole input, for error reporting.
// The JSON escapes \" \\ \/ \n \t \r \b \f and \uXXXX (including surrogate
// pairs) are resolved; an unrecognized escape keeps the escaped character
// verbatim.
func unquoteString(src []byte, i, base int) (string, int, error) {
	i++ // consume opening quote

	// Fast path: no escapes.
	j := i
	for j < len(src) && src[j] != '"' && src[j] != '\\' {
		j++
	}
	if j < len(src) && src[j] == '"' {
		return string(src[i:j]), j + 1, nil
	}

	var sb []byte
	sb = append(sb, src[i:j]...)
	i = j
	for {
		if i >= len(src) {
			return "", i, errAt(ErrUnterminatedString, base+i, "string not closed")
		}
		ch := src[i]
		if ch == '"' {
			return string(sb), i + 1, nil
		}
		if ch != '\\' {
			sb = append(sb, ch)
			i++
			continue
		}
		i++
		if i >= len(src) {
			return "", i, errAt(ErrUnterminatedString, base+i, "input ended inside escape")
		}
		esc := src[i]
		i++
		switch esc {
		case '"', '\\', '/':
			sb = append(sb, esc)
		case 'n':
			sb = append(sb, '\n')
		case 't':
			sb = append(sb, '\t')
		case 'r':
			sb = append(sb, '\r')
		case 'b':
			sb = append(sb, '\b')
		case 'f':
			sb = append(sb, '\f')
		case 'u':
			r, next, err := decodeHexRune(src, i, base)
			if err != nil {
				return "", i, err
			}
			sb = utf8.AppendRune(sb, r)
			i = next
		default:
			sb = append(sb, esc)
		}
	}
}

// decodeHexRune reads the 4 hex digits after \u, combining surrogate pairs
// when a second \uXXXX follows.
func decodeHexRune(src []byte, i, base int) (rune, int, error) {
	if i+4 > len(src) {
		return 0, i, errAt(ErrUnterminatedString, base+i, "truncated \\u escape")
	}
	n, err := strconv.ParseUint(string(src[i:i+4]), 16, 32)
	if err != nil {
		return 0, i, errAt(ErrMalformedRecord, base+i, "invalid \\u escape %q", src[i:i+4])
	}
	r := rune(n)
	i += 4
	if utf16.IsSurrogate(r) && i+6 <= len(src) && src[i] == '\\' && src[i+1] == 'u' {
		n2, err := strconv.ParseUint(string(src[i+2:i+6]), 16, 32)
		if err == nil {
			if paired := utf16.DecodeRune(r, rune(n2)); paired != utf8.RuneError {
				return paired, i + 6, nil
			}
		}
	}
	if utf16.IsSurrogate(r) {
		r = utf8.RuneError
	}
	return r, i, nil
}
