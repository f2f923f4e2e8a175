package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// normalizeJSONC turns JSONC into strict JSON in one pass. Comments are
// blanked rather than removed so decoder offsets still map to the
// original line and column.
func normalizeJSONC(content string) (string, error) {
	var (
		out       = []byte(content)
		inString  bool
		escaped   bool
		lastComma = -1
	)

	blank := func(from, to int) {
		for k := from; k < to; k++ {
			if out[k] != '\n' && out[k] != '\r' && out[k] != '\t' {
				out[k] = ' '
			}
		}
	}

	for i := 0; i < len(out); i++ {
		ch := out[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			lastComma = -1
		case ch == '/' && i+1 < len(out) && out[i+1] == '/':
			end := i
			for end < len(out) && out[end] != '\n' && out[end] != '\r' {
				end++
			}
			blank(i, end)
			i = end - 1
		case ch == '/' && i+1 < len(out) && out[i+1] == '*':
			closing := strings.Index(string(out[i+2:]), "*/")
			if closing < 0 {
				return "", fmt.Errorf("unterminated block comment in JSONC")
			}
			end := i + 2 + closing + 2
			blank(i, end)
			i = end - 1
		case ch == ',':
			lastComma = i
		case ch == '}' || ch == ']':
			if lastComma >= 0 {
				out[lastComma] = ' '
			}
			lastComma = -1
		case isJSONWhitespace(ch):
		default:
			lastComma = -1
		}
	}

	return string(out), nil
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return err
	}

	line, col := offsetToLineCol(content, offset)
	return fmt.Errorf("line %d column %d: %w", line, col, err)
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := min(int(offset), len(content))
	prefix := content[:max(limit-1, 0)]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - strings.LastIndex(prefix, "\n")
	return line, col
}
