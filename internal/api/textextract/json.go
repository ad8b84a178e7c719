package textextract

import (
	"encoding/json"
	"strings"
)

// CleanJSON strips markdown code fences and surrounding whitespace.
func CleanJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")

	return strings.TrimSpace(response)
}

// SliceJSON returns the text between the first open and the last close
// delimiter, inclusive. ok is false when either is missing or they are out of order.
func SliceJSON(response string, open, close byte) (string, bool) {
	first := strings.IndexByte(response, open)
	if first == -1 {
		return "", false
	}
	last := strings.LastIndexByte(response, close)
	if last == -1 || last <= first {
		return "", false
	}
	return response[first : last+1], true
}

// SliceAny slices the first JSON object or array found in the text, whichever opens first.
func SliceAny(response string) (string, bool) {
	first := strings.IndexAny(response, "{[")
	if first == -1 {
		return "", false
	}
	if response[first] == '[' {
		return SliceJSON(response, '[', ']')
	}
	return SliceJSON(response, '{', '}')
}

type cutPoint struct {
	pos     int
	closers string
}

// BalanceJSON recovers a parseable document from truncated JSON. It starts at
// the first '{' or '[', closes an unterminated string and appends the closers
// counted by a string-aware brace/bracket tally. When the tail is a partial
// token it backs off to the last complete value and closes from there.
func BalanceJSON(response string) (string, bool) {
	start := strings.IndexAny(response, "{[")
	if start == -1 {
		return "", false
	}
	s := strings.TrimSpace(response[start:])
	if json.Valid([]byte(s)) {
		return s, true
	}

	var (
		stack    []byte
		cuts     []cutPoint
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 && json.Valid([]byte(s[:i+1])) {
				return s[:i+1], true
			}
			cuts = append(cuts, cutPoint{pos: i + 1, closers: closersFor(stack)})
		case ',':
			cuts = append(cuts, cutPoint{pos: i, closers: closersFor(stack)})
		}
	}

	tail := strings.TrimRight(s, " \t\r\n")
	if inString {
		if escaped {
			tail = tail[:len(tail)-1]
		}
		tail += `"`
	}
	if candidate := tail + closersFor(stack); json.Valid([]byte(candidate)) {
		return candidate, true
	}

	for i := len(cuts) - 1; i >= 0; i-- {
		candidate := s[:cuts[i].pos] + cuts[i].closers
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

func closersFor(stack []byte) string {
	var b strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}
